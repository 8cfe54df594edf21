package controllers

import (
	"context"

	"sales-data-backend/config"
	"sales-data-backend/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type LogoutController struct {
	Ctx         context.Context
	RedisClient *redis.Client
}

// LogoutUser invalidates the refresh token and expires both auth cookies
func (lc *LogoutController) LogoutUser(c *fiber.Ctx) error {
	refreshToken := c.Cookies("refresh_token")
	if refreshToken != "" {
		if err := lc.RedisClient.Del(lc.Ctx, middleware.RefreshTokenKey(refreshToken)).Err(); err != nil {
			config.Logger.Warn("Error deleting refresh token on logout", zap.Error(err))
		}
	}

	middleware.ClearAuthCookies(c)

	return c.JSON(fiber.Map{
		"message": "Logged out successfully",
		"data":    nil,
		"error":   nil,
	})
}
