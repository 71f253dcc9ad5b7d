package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	queue_dto "github.com/Xenn-00/warteschlangen-meister/internal/dtos/queue-dto"
	"github.com/Xenn-00/warteschlangen-meister/internal/entity"
	app_errors "github.com/Xenn-00/warteschlangen-meister/internal/errors"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

// Client spricht die Queue-API über HTTP an. Mengenwertige Facetten gehen als
// wiederholte gleichnamige Query-Parameter raus (?priority=low&priority=high).
type Client struct {
	BaseURL    string
	Token      string
	OperatorID string
	http       *http.Client
}

func New(baseURL, token, operatorID string) *Client {
	return &Client{
		BaseURL:    baseURL,
		Token:      token,
		OperatorID: operatorID,
		http:       &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) ListAssignments(ctx context.Context, filters entity.FilterCriteria) (*queue_dto.AssignmentListResponse, *app_errors.AppError) {
	q := url.Values{}
	for _, p := range filters.Priority {
		q.Add("priority", string(p))
	}
	for _, a := range filters.Aging {
		q.Add("aging", string(a))
	}
	for _, t := range filters.Type {
		q.Add("type", string(t))
	}
	if filters.AssigneeID != nil {
		q.Set("assignee_id", *filters.AssigneeID)
	}
	if filters.Status != nil {
		q.Set("status", string(*filters.Status))
	}
	if filters.SortBy != nil {
		q.Set("sort_by", string(*filters.SortBy))
	}
	if filters.Page > 0 {
		q.Set("page", strconv.Itoa(filters.Page))
	}
	if filters.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(filters.PageSize))
	}

	var resp queue_dto.AssignmentListResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/queue/assignments?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

func (c *Client) SendReminder(ctx context.Context, assignmentID string) *app_errors.AppError {
	path := fmt.Sprintf("/api/v1/queue/assignments/%s/remind", assignmentID)
	return c.do(ctx, http.MethodPost, path, nil, nil)
}

func (c *Client) SubmitBulkJob(ctx context.Context, assignmentIDs []string) (string, *app_errors.AppError) {
	body := queue_dto.BulkReminderRequest{AssignmentIDs: assignmentIDs}

	var resp queue_dto.BulkReminderResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/queue/reminders/bulk", body, &resp); err != nil {
		return "", err
	}

	return resp.JobID, nil
}

func (c *Client) GetBulkJobStatus(ctx context.Context, jobID string) (*entity.BulkReminderJob, *app_errors.AppError) {
	var resp queue_dto.BulkJobStatusResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/queue/reminders/bulk/"+jobID, nil, &resp); err != nil {
		return nil, err
	}

	return &entity.BulkReminderJob{
		ID:              resp.ID,
		Status:          entity.BulkJobStatus(resp.Status),
		TotalItems:      resp.TotalItems,
		ProcessedItems:  resp.ProcessedItems,
		SuccessfulItems: resp.SuccessfulItems,
		FailedItems:     resp.FailedItems,
	}, nil
}

func (c *Client) GetFilterPreferences(ctx context.Context) (*entity.FilterCriteria, *app_errors.AppError) {
	var resp queue_dto.FilterPreferenceResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/queue/filter-preferences", nil, &resp); err != nil {
		return nil, err
	}

	return &resp.Filters, nil
}

func (c *Client) SaveFilterPreferences(ctx context.Context, filters entity.FilterCriteria) *app_errors.AppError {
	body := queue_dto.FilterPreferenceRequest{Filters: filters}
	return c.do(ctx, http.MethodPost, "/api/v1/queue/filter-preferences", body, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) *app_errors.AppError {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return app_errors.NewAppError(http.StatusInternalServerError, app_errors.ErrInternal, "internal_error", err)
		}
		reader = bytes.NewBuffer(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return app_errors.NewAppError(http.StatusInternalServerError, app_errors.ErrInternal, "internal_error", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("X-Operator-Id", c.OperatorID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("queue api request failed")
		return app_errors.NewAppError(http.StatusServiceUnavailable, app_errors.ErrInternal, "internal_error", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return parseErrorBody(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return app_errors.NewAppError(http.StatusInternalServerError, app_errors.ErrInternal, "internal_error", err)
		}
	}

	return nil
}

// errorEnvelope entspricht der Fehlerform des Error-Handler-Middlewares.
type errorEnvelope struct {
	Status string `json:"status"`
	Error  struct {
		Code    int    `json:"code"`
		Type    string `json:"type"`
		Message string `json:"message"`
		Details any    `json:"details"`
	} `json:"error"`
}

func parseErrorBody(resp *http.Response) *app_errors.AppError {
	raw, _ := io.ReadAll(resp.Body)

	var envelope errorEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil || envelope.Error.Type == "" {
		return app_errors.NewAppError(resp.StatusCode, app_errors.ErrInternal, "internal_error",
			fmt.Errorf("unexpected response: status=%d body=%s", resp.StatusCode, string(raw)))
	}

	appErr := &app_errors.AppError{
		Code:       resp.StatusCode,
		Type:       envelope.Error.Type,
		MessageKey: envelope.Error.Message,
	}
	if meta, ok := envelope.Error.Details.(map[string]any); ok {
		appErr.Meta = meta
	}

	return appErr
}
