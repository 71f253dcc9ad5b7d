package app_errors

// AppError repräsentiert einen Anwendungsfehler mit einem Code, einer Nachricht und optional einem Feld.
type AppError struct {
	Code       int            // HTTP status code
	Type       string         // VALIDATION_ERROR, NOT_FOUND, usw
	MessageKey string         // i18n key
	Details    []FieldError   // optional (validation)
	Meta       map[string]any // optional (z.B. hours_remaining, skipped_count)
	Err        error          // original error (internal only)
}

const (
	ErrValidation   = "VALIDATION_ERROR"
	ErrInvalidBody  = "INVALID_BODY"
	ErrInvalidParam = "INVALID_PARAM"
	ErrInvalidQuery = "INVALID_QUERY"
	ErrUnauthorized = "UNAUTHORIZED"
	ErrForbidden    = "FORBIDDEN"
	ErrNotFound     = "NOT_FOUND"
	ErrConflict     = "CONFLICT"
	ErrInternal     = "INTERNAL_ERROR"
)

// Fehlertaxonomie für Reminder-/Bulk-Operationen. Clientseitige Vorprüfungen
// und serverseitige Ablehnungen verwenden dieselben Typen, damit Aufrufer nur
// einen Behandlungspfad brauchen.
const (
	ErrCooldownActive    = "COOLDOWN_ACTIVE"
	ErrRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	ErrNoAssignee        = "NO_ASSIGNEE"
	ErrAssignmentMissing = "ASSIGNMENT_NOT_FOUND"
	ErrVersionConflict   = "VERSION_CONFLICT"
	ErrSelectionLimit    = "SELECTION_LIMIT_REACHED"
	ErrJobInFlight       = "JOB_IN_FLIGHT"
	ErrEmptySelection    = "EMPTY_SELECTION"
)

type FieldError struct {
	Field      string         `json:"field"`
	Reason     string         `json:"reason"`
	MessageKey string         `json:"message_key"`
	Params     map[string]any `json:"params,omitempty"`
}

func NewAppError(code int, errType string, messageKey string, err error) *AppError {
	return &AppError{
		Code:       code,
		Type:       errType,
		MessageKey: messageKey,
		Err:        err,
	}
}

func NewValidationError(details []FieldError) *AppError {
	return &AppError{
		Code:       400,
		Type:       ErrValidation,
		MessageKey: "invalid_request",
		Details:    details,
	}
}

// NewCooldownError trägt die verbleibenden Stunden bis zum Ablauf des Cooldowns.
func NewCooldownError(hoursRemaining int) *AppError {
	return &AppError{
		Code:       429,
		Type:       ErrCooldownActive,
		MessageKey: "reminder.cooldown_active",
		Meta:       map[string]any{"hours_remaining": hoursRemaining},
	}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.MessageKey
}

// HoursRemaining liest die Cooldown-Restzeit aus Meta; 0, wenn nicht gesetzt.
func (e *AppError) HoursRemaining() int {
	if e.Meta == nil {
		return 0
	}
	switch v := e.Meta["hours_remaining"].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}
