package routes

import (
	"context"

	"sales-data-backend/token"
	"sales-data-backend/users/controllers"
	"sales-data-backend/users/repositories"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

func InitRoutes(
	app *fiber.App,
	userRepo repositories.UserRepository,
	ctx context.Context,
	redisClient *redis.Client,
	tokenMaker token.Maker,
) {
	registerController := &controllers.RegisterController{
		UserRepo: userRepo,
	}
	loginController := &controllers.LoginController{
		UserRepo:    userRepo,
		PasetoMaker: tokenMaker,
		Ctx:         ctx,
		RedisClient: redisClient,
	}
	refreshTokenController := &controllers.RefreshTokenController{
		PasetoMaker: tokenMaker,
		Ctx:         ctx,
		RedisClient: redisClient,
	}
	logoutController := &controllers.LogoutController{
		Ctx:         ctx,
		RedisClient: redisClient,
	}

	authRoutes := app.Group("/auth")
	authRoutes.Post("/register", registerController.RegisterUser)
	authRoutes.Post("/login", loginController.LoginUser)
	authRoutes.Post("/refresh", refreshTokenController.RefreshToken)
	authRoutes.Post("/logout", logoutController.LogoutUser)
}
