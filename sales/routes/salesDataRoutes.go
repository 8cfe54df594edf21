package routes

import (
	"sales-data-backend/middleware"
	"sales-data-backend/sales/controllers"
	"sales-data-backend/sales/services"

	"github.com/gofiber/fiber/v2"
)

func InitRoutes(
	app *fiber.App,
	appContext *middleware.AppContext,
	salesDataService *services.SalesDataService,
) {
	salesDataController := &controllers.SalesDataController{
		SalesDataService: salesDataService,
	}

	salesRoutes := app.Group("/sales", middleware.ProtectedRoute(appContext))
	salesRoutes.Post("/", salesDataController.CreateSalesRecord)
	salesRoutes.Get("/", salesDataController.GetAllSalesRecords)
	salesRoutes.Get("/summary", salesDataController.GetSalesDataSummary)
	salesRoutes.Get("/:id", salesDataController.GetSalesRecord)
	salesRoutes.Delete("/:id", salesDataController.DeleteSalesRecord)
}
