package routes

import (
	"sales-data-backend/middleware"
	"sales-data-backend/uploads/controllers"
	"sales-data-backend/uploads/services"

	"github.com/gofiber/fiber/v2"
)

func InitRoutes(
	app *fiber.App,
	appContext *middleware.AppContext,
	fileUploadService *services.FileUploadService,
) {
	fileUploadController := &controllers.FileUploadController{
		FileUploadService: fileUploadService,
	}

	fileRoutes := app.Group("/files", middleware.ProtectedRoute(appContext))
	fileRoutes.Post("/upload", fileUploadController.UploadFile)
	fileRoutes.Get("/", fileUploadController.GetUserFiles)
	fileRoutes.Get("/stats", fileUploadController.GetFileStats)
	fileRoutes.Get("/:id", fileUploadController.GetFileDetails)
	fileRoutes.Get("/:id/status", fileUploadController.GetProcessingStatus)
	fileRoutes.Delete("/:id", fileUploadController.DeleteFile)
}
