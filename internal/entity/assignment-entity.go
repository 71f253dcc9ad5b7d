package entity

import "time"

type AssignmentEntity struct {
	ID                 string             `json:"id"`
	WorkItemID         string             `json:"work_item_id"`
	WorkItemType       WorkItemType       `json:"work_item_type"`
	AssigneeID         *string            `json:"assignee_id,omitempty"`
	Priority           AssignmentPriority `json:"priority"`
	Status             AssignmentStatus   `json:"status"`
	AssignedAt         time.Time          `json:"assigned_at"`
	LastReminderSentAt *time.Time         `json:"last_reminder_sent_at,omitempty"`
	Version            int64              `json:"version"`
}

// FilterCriteria schränkt die sichtbare Menge von Assignments ein.
// Ein leeres/fehlendes Facet bedeutet "keine Einschränkung", niemals "nichts trifft zu".
type FilterCriteria struct {
	Priority   []AssignmentPriority `json:"priority,omitempty"`
	Aging      []AgingBucket        `json:"aging,omitempty"`
	Type       []WorkItemType       `json:"type,omitempty"`
	AssigneeID *string              `json:"assignee_id,omitempty"` // user id oder "me"
	Status     *AssignmentStatus    `json:"status,omitempty"`
	SortBy     *SortOrder           `json:"sort_by,omitempty"`
	Page       int                  `json:"page,omitempty"`
	PageSize   int                  `json:"page_size,omitempty"`
}

// IsEmpty meldet, ob weder Facette noch Sortierung gesetzt ist. Page und
// PageSize zählen nicht: sie beschreiben den Ausschnitt, nicht die Menge.
func (f FilterCriteria) IsEmpty() bool {
	return len(f.Priority) == 0 && len(f.Aging) == 0 && len(f.Type) == 0 &&
		f.AssigneeID == nil && f.Status == nil && f.SortBy == nil
}

type BulkReminderJob struct {
	ID              string        `json:"id"`
	Status          BulkJobStatus `json:"status"`
	TotalItems      int           `json:"total_items"`
	ProcessedItems  int           `json:"processed_items"`
	SuccessfulItems int           `json:"successful_items"`
	FailedItems     int           `json:"failed_items"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

func (j *BulkReminderJob) IsTerminal() bool {
	return j.Status == BulkJobCompleted || j.Status == BulkJobFailed
}

// CooldownState ist abgeleitet, wird nie gespeichert.
type CooldownState struct {
	IsActive       bool `json:"is_active"`
	HoursRemaining int  `json:"hours_remaining"`
}

type WorkItemType string

const (
	WorkItemDossier  WorkItemType = "dossier"
	WorkItemTicket   WorkItemType = "ticket"
	WorkItemPosition WorkItemType = "position"
	WorkItemTask     WorkItemType = "task"
)

type AssignmentStatus string

const (
	AssignmentPending   AssignmentStatus = "pending"
	AssignmentAssigned  AssignmentStatus = "assigned"
	AssignmentCompleted AssignmentStatus = "completed"
	AssignmentCancelled AssignmentStatus = "cancelled"
)

type AssignmentPriority string

const (
	PriorityLow    AssignmentPriority = "low"
	PriorityMedium AssignmentPriority = "medium"
	PriorityHigh   AssignmentPriority = "high"
	PriorityUrgent AssignmentPriority = "urgent"
)

type AgingBucket string

const (
	AgingFresh   AgingBucket = "0-2"
	AgingWarning AgingBucket = "3-6"
	AgingStale   AgingBucket = "7+"
)

type SortOrder string

const (
	SortAssignedAtAsc  SortOrder = "assigned_at_asc"
	SortAssignedAtDesc SortOrder = "assigned_at_desc"
	SortPriorityAsc    SortOrder = "priority_asc"
	SortPriorityDesc   SortOrder = "priority_desc"
)

type BulkJobStatus string

const (
	BulkJobPending   BulkJobStatus = "pending"
	BulkJobRunning   BulkJobStatus = "running"
	BulkJobCompleted BulkJobStatus = "completed"
	BulkJobFailed    BulkJobStatus = "failed"
)
