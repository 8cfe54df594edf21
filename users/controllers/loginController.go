package controllers

import (
	"context"
	"time"

	"sales-data-backend/config"
	"sales-data-backend/middleware"
	"sales-data-backend/token"
	"sales-data-backend/users/repositories"
	"sales-data-backend/users/services"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type LoginController struct {
	UserRepo    repositories.UserRepository
	PasetoMaker token.Maker
	Ctx         context.Context
	RedisClient *redis.Client
}

func (lc *LoginController) LoginUser(c *fiber.Ctx) error {
	type LoginRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		config.Logger.Error("Error parsing login request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request",
			"data":    nil,
			"error":   "Invalid request format.",
		})
	}

	user, err := lc.UserRepo.GetUserByEmail(req.Email)
	if err != nil || !services.CheckPasswordHash(req.Password, user.Password) {
		if err != nil {
			config.Logger.Warn("Login attempt: user not found or database error",
				zap.String("email", req.Email),
				zap.Error(err),
			)
		} else {
			config.Logger.Warn("Login attempt: invalid password",
				zap.String("email", req.Email),
			)
		}
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication failed",
			"data":    nil,
			"error":   "Invalid email or password.",
		})
	}

	if !user.Active {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "Authentication failed",
			"data":    nil,
			"error":   "Account is deactivated.",
		})
	}

	accessToken, err := lc.PasetoMaker.CreateToken(user.ID, user.Email, middleware.AccessTokenDuration)
	if err != nil {
		config.Logger.Error("Could not generate access token", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Something went wrong",
			"data":    nil,
			"error":   "An internal server error occurred.",
		})
	}

	refreshToken, err := lc.PasetoMaker.CreateToken(user.ID, user.Email, middleware.RefreshTokenDuration)
	if err != nil {
		config.Logger.Error("Could not generate refresh token", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Something went wrong",
			"data":    nil,
			"error":   "An internal server error occurred.",
		})
	}

	err = lc.RedisClient.Set(lc.Ctx, middleware.RefreshTokenKey(refreshToken), user.ID.String(), middleware.RefreshTokenDuration).Err()
	if err != nil {
		config.Logger.Error("Could not store refresh token in Redis", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Something went wrong",
			"data":    nil,
			"error":   "An internal server error occurred.",
		})
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := lc.UserRepo.UpdateUser(user); err != nil {
		config.Logger.Warn("Could not update last login time", zap.Error(err))
	}

	middleware.SetAuthCookies(c, accessToken, refreshToken)

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"data": fiber.Map{
			"user_id":    user.ID.String(),
			"email":      user.Email,
			"first_name": user.FirstName,
			"last_name":  user.LastName,
		},
		"error": nil,
	})
}
