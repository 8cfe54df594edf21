package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EmailLog records outbound mails (e.g. rejected-row reports) for auditing
type EmailLog struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	Recipient      string    `gorm:"not null" json:"recipient"`
	Subject        string    `gorm:"not null" json:"subject"`
	Message        string    `gorm:"type:text" json:"message"`
	AttachmentPath string    `json:"attachment_path"`
	SentAt         time.Time `json:"sent_at"`
	Active         *bool     `gorm:"default:true" json:"active"`
}

func (e *EmailLog) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
