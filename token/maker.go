package token

import (
	"time"

	"github.com/google/uuid"
)

// Maker defines a contract for anything that can create and verify tokens.
// Allows swapping out token implementations (e.g. PASETO for something else)
// without changing the rest of the application.
type Maker interface {
	CreateToken(userID uuid.UUID, email string, duration time.Duration) (string, error)

	VerifyToken(token string) (*Payload, error)
}
