package controllers

import (
	"sales-data-backend/config"
	"sales-data-backend/sales/services"
	"sales-data-backend/token"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SalesDataController struct {
	SalesDataService *services.SalesDataService
}

func currentUser(c *fiber.Ctx) (*token.Payload, bool) {
	payload, ok := c.Locals("user").(*token.Payload)
	return payload, ok
}

// CreateSalesRecord stores a single record created through the API
func (sc *SalesDataController) CreateSalesRecord(c *fiber.Ctx) error {
	payload, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Unauthorized",
			"data":    nil,
			"error":   "Authentication required",
		})
	}

	var input services.CreateSalesRecordInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request",
			"data":    nil,
			"error":   "Invalid request body",
		})
	}

	record, err := sc.SalesDataService.CreateSalesRecord(payload.UserID, input)
	if err != nil {
		config.Logger.Warn("Sales record creation rejected",
			zap.String("user_id", payload.UserID.String()),
			zap.String("reason", err.Error()),
		)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid sales record",
			"data":    nil,
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Sales record created successfully",
		"data":    record,
		"error":   nil,
	})
}

// GetAllSalesRecords lists the user's records, newest sale first
func (sc *SalesDataController) GetAllSalesRecords(c *fiber.Ctx) error {
	payload, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Unauthorized",
			"data":    nil,
			"error":   "Authentication required",
		})
	}

	records, err := sc.SalesDataService.GetAllSalesRecords(payload.UserID)
	if err != nil {
		config.Logger.Error("Error retrieving sales records", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Error retrieving sales records",
			"data":    nil,
			"error":   "An internal server error occurred.",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Sales records retrieved successfully",
		"data": fiber.Map{
			"records": records,
			"count":   len(records),
		},
		"error": nil,
	})
}

// GetSalesRecord returns one record by id
func (sc *SalesDataController) GetSalesRecord(c *fiber.Ctx) error {
	payload, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Unauthorized",
			"data":    nil,
			"error":   "Authentication required",
		})
	}

	recordID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request",
			"data":    nil,
			"error":   "Invalid record id",
		})
	}

	record, err := sc.SalesDataService.GetSalesRecordByID(recordID, payload.UserID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Sales record not found",
			"data":    nil,
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Sales record retrieved successfully",
		"data":    record,
		"error":   nil,
	})
}

// DeleteSalesRecord removes one record by id
func (sc *SalesDataController) DeleteSalesRecord(c *fiber.Ctx) error {
	payload, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Unauthorized",
			"data":    nil,
			"error":   "Authentication required",
		})
	}

	recordID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request",
			"data":    nil,
			"error":   "Invalid record id",
		})
	}

	if err := sc.SalesDataService.DeleteSalesRecordByID(recordID, payload.UserID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Sales record not found or access denied",
			"data":    nil,
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Sales record deleted successfully",
		"data":    nil,
		"error":   nil,
	})
}

// GetSalesDataSummary aggregates the user's sales data
func (sc *SalesDataController) GetSalesDataSummary(c *fiber.Ctx) error {
	payload, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Unauthorized",
			"data":    nil,
			"error":   "Authentication required",
		})
	}

	summary, err := sc.SalesDataService.GetSalesDataSummary(payload.UserID)
	if err != nil {
		config.Logger.Error("Error retrieving sales summary", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Error retrieving sales summary",
			"data":    nil,
			"error":   "An internal server error occurred.",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Sales summary retrieved successfully",
		"data":    summary,
		"error":   nil,
	})
}
