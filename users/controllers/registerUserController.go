package controllers

import (
	"strings"

	"sales-data-backend/config"
	"sales-data-backend/db/models"
	"sales-data-backend/users/repositories"
	"sales-data-backend/users/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type RegisterController struct {
	UserRepo repositories.UserRepository
}

func (rc *RegisterController) RegisterUser(c *fiber.Ctx) error {
	type RegisterRequest struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Email     string `json:"email"`
		Password  string `json:"password"`
	}

	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request",
			"data":    nil,
			"error":   "Invalid request format.",
		})
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request",
			"data":    nil,
			"error":   "Email and password are required.",
		})
	}
	if len(req.Password) < 8 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request",
			"data":    nil,
			"error":   "Password must be at least 8 characters.",
		})
	}

	exists, err := rc.UserRepo.EmailExists(req.Email)
	if err != nil {
		config.Logger.Error("Error checking email existence", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Something went wrong",
			"data":    nil,
			"error":   "An internal server error occurred.",
		})
	}
	if exists {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "Registration failed",
			"data":    nil,
			"error":   "Email is already registered.",
		})
	}

	hashed, err := services.HashPassword(req.Password)
	if err != nil {
		config.Logger.Error("Error hashing password", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Something went wrong",
			"data":    nil,
			"error":   "An internal server error occurred.",
		})
	}

	user := &models.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  hashed,
	}

	created, err := rc.UserRepo.CreateUser(user)
	if err != nil {
		config.Logger.Error("Error creating user", zap.String("email", req.Email), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Something went wrong",
			"data":    nil,
			"error":   "Could not create user.",
		})
	}

	config.Logger.Info("User registered", zap.String("user_id", created.ID.String()))

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"data":    created,
		"error":   nil,
	})
}
