package handlers

import (
	"github.com/Xenn-00/warteschlangen-meister/internal/dtos"
	queue_dto "github.com/Xenn-00/warteschlangen-meister/internal/dtos/queue-dto"
	app_errors "github.com/Xenn-00/warteschlangen-meister/internal/errors"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CreateResponse erstellt eine standardisierte WebResponse.
func CreateResponse[T any](message string, data T, requestID string, details ...any) dtos.WebResponse[T] {
	return dtos.WebResponse[T]{
		Message:   message,
		Data:      data,
		RequestID: requestID,
		Details:   details,
	}
}

func GetOperatorID(c *fiber.Ctx) (string, *app_errors.AppError) {
	operatorID, ok := c.Locals("operator_id").(string)
	if !ok || operatorID == "" {
		return "", app_errors.NewAppError(fiber.StatusUnauthorized, app_errors.ErrUnauthorized, "auth.unauthorized", nil)
	}

	return operatorID, nil
}

func GetRequestID(c *fiber.Ctx) string {
	reqID, ok := c.Locals("request_id").(string)
	if !ok {
		reqID = "unknown"
	}
	return reqID
}

func GetParamAssignmentID(c *fiber.Ctx, v *validator.Validate) (string, *app_errors.AppError) {
	var param queue_dto.ParamAssignmentID
	if err := c.ParamsParser(&param); err != nil {
		return "", app_errors.NewAppError(fiber.StatusBadRequest, app_errors.ErrInvalidParam, "request.invalid_param", err)
	}

	if err := v.Struct(param); err != nil {
		return "", app_errors.NewValidationError(app_errors.ParseValidationError(err))
	}
	return param.ID, nil
}

func GetParamJobID(c *fiber.Ctx, v *validator.Validate) (string, *app_errors.AppError) {
	var param queue_dto.ParamJobID
	if err := c.ParamsParser(&param); err != nil {
		return "", app_errors.NewAppError(fiber.StatusBadRequest, app_errors.ErrInvalidParam, "request.invalid_param", err)
	}

	if err := v.Struct(param); err != nil {
		return "", app_errors.NewValidationError(app_errors.ParseValidationError(err))
	}
	return param.ID, nil
}
