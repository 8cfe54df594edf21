package controllers

import (
	"context"

	"sales-data-backend/config"
	"sales-data-backend/middleware"
	"sales-data-backend/token"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type RefreshTokenController struct {
	PasetoMaker token.Maker
	Ctx         context.Context
	RedisClient *redis.Client
}

// RefreshToken rotates the refresh token explicitly: verifies the cookie,
// checks it is still live in Redis, invalidates it, and issues a fresh pair.
func (rc *RefreshTokenController) RefreshToken(c *fiber.Ctx) error {
	refreshToken := c.Cookies("refresh_token")
	if refreshToken == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Unauthorized",
			"data":    nil,
			"error":   "Refresh token is required.",
		})
	}

	payload, err := rc.PasetoMaker.VerifyToken(refreshToken)
	if err != nil {
		config.Logger.Warn("Refresh token verification failed", zap.Error(err))
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Unauthorized",
			"data":    nil,
			"error":   "Session expired or invalid. Please log in again.",
		})
	}

	_, err = rc.RedisClient.Get(rc.Ctx, middleware.RefreshTokenKey(refreshToken)).Result()
	if err == redis.Nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Unauthorized",
			"data":    nil,
			"error":   "Session invalid. Please log in again.",
		})
	} else if err != nil {
		config.Logger.Error("Error accessing Redis for refresh token validation", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Something went wrong",
			"data":    nil,
			"error":   "An internal server error occurred.",
		})
	}

	// Single-use rotation
	if err := rc.RedisClient.Del(rc.Ctx, middleware.RefreshTokenKey(refreshToken)).Err(); err != nil {
		config.Logger.Warn("Error deleting old refresh token from Redis", zap.Error(err))
	}

	newAccessToken, err := rc.PasetoMaker.CreateToken(payload.UserID, payload.Email, middleware.AccessTokenDuration)
	if err != nil {
		config.Logger.Error("Could not generate new access token", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Something went wrong",
			"data":    nil,
			"error":   "An internal server error occurred.",
		})
	}

	newRefreshToken, err := rc.PasetoMaker.CreateToken(payload.UserID, payload.Email, middleware.RefreshTokenDuration)
	if err != nil {
		config.Logger.Error("Could not generate new refresh token", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Something went wrong",
			"data":    nil,
			"error":   "An internal server error occurred.",
		})
	}

	err = rc.RedisClient.Set(rc.Ctx, middleware.RefreshTokenKey(newRefreshToken), payload.UserID.String(), middleware.RefreshTokenDuration).Err()
	if err != nil {
		config.Logger.Error("Could not store new refresh token in Redis", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Something went wrong",
			"data":    nil,
			"error":   "An internal server error occurred.",
		})
	}

	middleware.SetAuthCookies(c, newAccessToken, newRefreshToken)

	return c.JSON(fiber.Map{
		"message": "Token refreshed successfully",
		"data": fiber.Map{
			"user_id": payload.UserID.String(),
			"email":   payload.Email,
		},
		"error": nil,
	})
}
