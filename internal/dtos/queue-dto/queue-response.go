package queue_dto

import (
	"github.com/Xenn-00/warteschlangen-meister/internal/entity"
)

type AssignmentListResponse struct {
	Data       []entity.AssignmentEntity `json:"data"`
	Pagination PaginationInfo            `json:"pagination"`
}

type PaginationInfo struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
	TotalPages int `json:"total_pages"`
}

type BulkReminderResponse struct {
	JobID string `json:"job_id"`
}

type BulkJobStatusResponse struct {
	ID              string `json:"id"`
	Status          string `json:"status"`
	TotalItems      int    `json:"total_items"`
	ProcessedItems  int    `json:"processed_items"`
	SuccessfulItems int    `json:"successful_items"`
	FailedItems     int    `json:"failed_items"`
}

type FilterPreferenceResponse struct {
	Filters entity.FilterCriteria `json:"filters"`
}
