package main

import (
	"context"

	config "sales-data-backend/config"
	"sales-data-backend/middleware"
	"sales-data-backend/token"
	"sales-data-backend/utils"

	// Repositories
	sales_repositories "sales-data-backend/sales/repositories"
	uploads_repositories "sales-data-backend/uploads/repositories"
	users_repositories "sales-data-backend/users/repositories"

	// Services
	sales_services "sales-data-backend/sales/services"
	uploads_services "sales-data-backend/uploads/services"

	// Routes
	sales_routes "sales-data-backend/sales/routes"
	uploads_routes "sales-data-backend/uploads/routes"
	user_routes "sales-data-backend/users/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Initialize Zap logger
	config.InitLogger()

	// Load environment variables
	err := godotenv.Load(".env")
	if err != nil {
		config.Logger.Fatal("Error loading .env file", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		BodyLimit: int(config.GetEnvInt64("FILE_UPLOAD_MAX_SIZE", 10*1024*1024)) + 1024*1024,
	})

	// Apply CORS middleware from middleware package
	middleware.InitCors(app)

	// Initialize database and configs
	db := config.ConfigureDatabase()
	port := config.GetEnv("PORT")
	ctx := context.Background()

	redisClient := config.InitRedisServer(ctx)

	tokenKey := config.GetEnv("TOKEN_SYMMETRIC_KEY")
	tokenMaker, err := token.NewPasetoMaker(tokenKey)
	if err != nil {
		config.Logger.Fatal("Cannot create token maker", zap.Error(err))
	}

	appContext := &middleware.AppContext{
		PasetoMaker: tokenMaker,
		Ctx:         ctx,
		RedisClient: redisClient,
	}

	// Initialize the mailer for rejection report emails
	utils.InitializeMailer()
	if utils.GetMailer() == nil {
		config.Logger.Fatal("Mailer not initialized")
	}

	// Serve generated rejection reports
	app.Static("/public", "./public")

	// Repositories
	userRepo := users_repositories.NewUserRepository(db)
	fileUploadRepo := uploads_repositories.NewFileUploadRepository(db)
	salesRepo := sales_repositories.NewSalesDataRepository(db)

	// Services
	processor := uploads_services.NewCSVProcessor(config.GetEnvInt("CSV_MAX_ROW_COUNT", 0))
	maxFileSize := config.GetEnvInt64("FILE_UPLOAD_MAX_SIZE", 10*1024*1024)
	fileUploadService := uploads_services.NewFileUploadService(db, fileUploadRepo, salesRepo, processor, maxFileSize)
	salesDataService := sales_services.NewSalesDataService(salesRepo, fileUploadRepo)

	// Routes
	user_routes.InitRoutes(app, userRepo, ctx, redisClient, tokenMaker)
	uploads_routes.InitRoutes(app, appContext, fileUploadService)
	sales_routes.InitRoutes(app, appContext, salesDataService)

	// Background cleanup tasks
	go uploads_services.RunScheduledCleanup(fileUploadRepo)

	// Start the application
	config.Logger.Info("Server starting", zap.String("port", port))
	config.Logger.Fatal("Server failed", zap.String("port", port), zap.Error(app.Listen(":"+port)))
}
