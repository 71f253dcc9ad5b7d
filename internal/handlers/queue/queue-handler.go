package queue_handlers

import (
	queue_dto "github.com/Xenn-00/warteschlangen-meister/internal/dtos/queue-dto"
	app_errors "github.com/Xenn-00/warteschlangen-meister/internal/errors"
	"github.com/Xenn-00/warteschlangen-meister/internal/handlers"
	internal_i18n "github.com/Xenn-00/warteschlangen-meister/internal/i18n"
	queue_case "github.com/Xenn-00/warteschlangen-meister/internal/use-cases/queue-case"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type QueueHandler struct {
	validator *validator.Validate
	service   queue_case.QueueServiceContract
	i18n      *internal_i18n.I18nService
}

func NewQueueHandler(service queue_case.QueueServiceContract, i18n *internal_i18n.I18nService) *QueueHandler {
	validate := validator.New()
	validate.RegisterValidation("assignmentPriority", queue_dto.IsValidAssignmentPriority)
	validate.RegisterValidation("assignmentStatus", queue_dto.IsValidAssignmentStatus)
	validate.RegisterValidation("workItemType", queue_dto.IsValidWorkItemType)
	validate.RegisterValidation("agingBucket", queue_dto.IsValidAgingBucket)
	validate.RegisterValidation("sortOrder", queue_dto.IsValidSortOrder)
	return &QueueHandler{
		validator: validate,
		service:   service,
		i18n:      i18n,
	}
}

func (h *QueueHandler) ListAssignments(c *fiber.Ctx) error {
	operatorID, err := handlers.GetOperatorID(c)
	if err != nil {
		return err
	}

	var filter queue_dto.AssignmentListFilter
	if err := c.QueryParser(&filter); err != nil {
		return app_errors.NewAppError(fiber.StatusBadRequest, app_errors.ErrInvalidQuery, "request.invalid_query", err)
	}

	if err := h.validator.Struct(filter); err != nil {
		return app_errors.NewValidationError(app_errors.ParseValidationError(err))
	}

	assignments, meta, err := h.service.ListAssignments(c.UserContext(), operatorID, filter)
	if err != nil {
		return err
	}

	resp := queue_dto.AssignmentListResponse{
		Data: assignments,
		Pagination: queue_dto.PaginationInfo{
			Page:       meta.Page,
			PageSize:   meta.Limit,
			TotalCount: meta.Total,
			TotalPages: meta.TotalPages,
		},
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *QueueHandler) SendReminder(c *fiber.Ctx) error {
	if _, err := handlers.GetOperatorID(c); err != nil {
		return err
	}

	assignmentID, err := handlers.GetParamAssignmentID(c, h.validator)
	if err != nil {
		return err
	}

	if err := h.service.SendReminder(c.UserContext(), assignmentID); err != nil {
		return err
	}

	lang := c.Get("Accept-Language", "en")
	resp := handlers.CreateResponse(h.i18n.T(lang, "reminder.sent", nil), struct{}{}, handlers.GetRequestID(c))

	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *QueueHandler) SubmitBulkReminders(c *fiber.Ctx) error {
	if _, err := handlers.GetOperatorID(c); err != nil {
		return err
	}

	var req *queue_dto.BulkReminderRequest
	if err := c.BodyParser(&req); err != nil {
		return app_errors.NewAppError(fiber.StatusBadRequest, app_errors.ErrInvalidBody, "request.invalid_body", err)
	}

	if err := h.validator.Struct(req); err != nil {
		return app_errors.NewValidationError(app_errors.ParseValidationError(err))
	}

	resp, err := h.service.SubmitBulkReminders(c.UserContext(), req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusAccepted).JSON(resp)
}

func (h *QueueHandler) GetBulkJobStatus(c *fiber.Ctx) error {
	if _, err := handlers.GetOperatorID(c); err != nil {
		return err
	}

	jobID, err := handlers.GetParamJobID(c, h.validator)
	if err != nil {
		return err
	}

	job, err := h.service.GetBulkJobStatus(c.UserContext(), jobID)
	if err != nil {
		return err
	}

	resp := queue_dto.BulkJobStatusResponse{
		ID:              job.ID,
		Status:          string(job.Status),
		TotalItems:      job.TotalItems,
		ProcessedItems:  job.ProcessedItems,
		SuccessfulItems: job.SuccessfulItems,
		FailedItems:     job.FailedItems,
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *QueueHandler) GetFilterPreference(c *fiber.Ctx) error {
	operatorID, err := handlers.GetOperatorID(c)
	if err != nil {
		return err
	}

	filters, err := h.service.GetFilterPreference(c.UserContext(), operatorID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(queue_dto.FilterPreferenceResponse{Filters: *filters})
}

func (h *QueueHandler) SaveFilterPreference(c *fiber.Ctx) error {
	operatorID, err := handlers.GetOperatorID(c)
	if err != nil {
		return err
	}

	var req *queue_dto.FilterPreferenceRequest
	if err := c.BodyParser(&req); err != nil {
		return app_errors.NewAppError(fiber.StatusBadRequest, app_errors.ErrInvalidBody, "request.invalid_body", err)
	}

	if err := h.service.SaveFilterPreference(c.UserContext(), operatorID, req.Filters); err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(queue_dto.FilterPreferenceResponse{Filters: req.Filters})
}
