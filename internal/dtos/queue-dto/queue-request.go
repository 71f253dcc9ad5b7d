package queue_dto

import (
	"github.com/Xenn-00/warteschlangen-meister/internal/entity"
	"github.com/go-playground/validator/v10"
)

// AssignmentListFilter ist die Query-Form der FilterCriteria. Mengenwertige
// Facetten kommen als wiederholte gleichnamige Parameter an (?priority=low&priority=high).
type AssignmentListFilter struct {
	Priority   []string `query:"priority" validate:"omitempty,dive,assignmentPriority"`
	Aging      []string `query:"aging" validate:"omitempty,dive,agingBucket"`
	Type       []string `query:"type" validate:"omitempty,dive,workItemType"`
	AssigneeID *string  `query:"assignee_id" validate:"omitempty"`
	Status     *string  `query:"status" validate:"omitempty,assignmentStatus"`
	SortBy     *string  `query:"sort_by" validate:"omitempty,sortOrder"`
	Page       int      `query:"page" validate:"omitempty,min=1"`
	PageSize   int      `query:"page_size" validate:"omitempty,min=1,max=200"`
}

type ParamAssignmentID struct {
	ID string `params:"assignment_id" validate:"required,uuid"`
}

type ParamJobID struct {
	ID string `params:"job_id" validate:"required,uuid"`
}

type BulkReminderRequest struct {
	AssignmentIDs []string `json:"assignment_ids" validate:"required,min=1,max=100,dive,uuid"`
}

// FilterPreferenceRequest ersetzt die serverseitig gemerkten Filterkriterien
// eines Operators (read/replace, last-write-wins).
type FilterPreferenceRequest struct {
	Filters entity.FilterCriteria `json:"filters" validate:"required"`
}

func IsValidAssignmentStatus(fl validator.FieldLevel) bool {
	v := fl.Field().String()
	switch entity.AssignmentStatus(v) {
	case entity.AssignmentPending, entity.AssignmentAssigned, entity.AssignmentCompleted, entity.AssignmentCancelled:
		return true
	default:
		return false
	}
}

func IsValidAssignmentPriority(fl validator.FieldLevel) bool {
	v := fl.Field().String()
	switch entity.AssignmentPriority(v) {
	case entity.PriorityLow, entity.PriorityMedium, entity.PriorityHigh, entity.PriorityUrgent:
		return true
	default:
		return false
	}
}

func IsValidWorkItemType(fl validator.FieldLevel) bool {
	v := fl.Field().String()
	switch entity.WorkItemType(v) {
	case entity.WorkItemDossier, entity.WorkItemTicket, entity.WorkItemPosition, entity.WorkItemTask:
		return true
	default:
		return false
	}
}

func IsValidAgingBucket(fl validator.FieldLevel) bool {
	v := fl.Field().String()
	switch entity.AgingBucket(v) {
	case entity.AgingFresh, entity.AgingWarning, entity.AgingStale:
		return true
	default:
		return false
	}
}

func IsValidSortOrder(fl validator.FieldLevel) bool {
	v := fl.Field().String()
	switch entity.SortOrder(v) {
	case entity.SortAssignedAtAsc, entity.SortAssignedAtDesc, entity.SortPriorityAsc, entity.SortPriorityDesc:
		return true
	default:
		return false
	}
}
