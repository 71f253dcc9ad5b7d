package assignment_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Xenn-00/warteschlangen-meister/internal/abstraction/tx"
	queue_dto "github.com/Xenn-00/warteschlangen-meister/internal/dtos/queue-dto"
	"github.com/Xenn-00/warteschlangen-meister/internal/entity"
	app_errors "github.com/Xenn-00/warteschlangen-meister/internal/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const assignmentColumns = "id, work_item_id, work_item_type, assignee_id, priority, status, assigned_at, last_reminder_sent_at, version"

type AssignmentRepo struct {
	db        *pgxpool.Pool
	txManager tx.TxManager
}

func NewAssignmentRepo(db *pgxpool.Pool) AssignmentRepoContract {
	return &AssignmentRepo{
		db:        db,
		txManager: tx.NewPgxTxManager(db),
	}
}

func (r *AssignmentRepo) GetAssignmentByID(ctx context.Context, assignmentID string) (*entity.AssignmentEntity, *app_errors.AppError) {
	query := fmt.Sprintf(`
	SELECT %s FROM assignments
	WHERE id = $1;
	`, assignmentColumns)

	var row entity.AssignmentEntity
	if err := r.db.QueryRow(ctx, query, assignmentID).Scan(&row.ID, &row.WorkItemID, &row.WorkItemType, &row.AssigneeID, &row.Priority, &row.Status, &row.AssignedAt, &row.LastReminderSentAt, &row.Version); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.NewAppError(fiber.StatusNotFound, app_errors.ErrAssignmentMissing, "assignment_not_found", nil)
		}
		return nil, app_errors.MapPgxError(err)
	}
	return &row, nil
}

// buildListFilter übersetzt die Query-Facetten in WHERE-Bedingungen.
// Leere Facetten erzeugen keine Bedingung (keine Einschränkung).
func buildListFilter(operatorID string, filter *queue_dto.AssignmentListFilter) (string, []any) {
	cond := " WHERE 1=1"
	args := []any{}
	argsPos := 1

	if len(filter.Priority) > 0 {
		cond += fmt.Sprintf(" AND priority = ANY($%d)", argsPos)
		args = append(args, filter.Priority)
		argsPos++
	}

	if len(filter.Type) > 0 {
		cond += fmt.Sprintf(" AND work_item_type = ANY($%d)", argsPos)
		args = append(args, filter.Type)
		argsPos++
	}

	if filter.Status != nil {
		cond += fmt.Sprintf(" AND status = $%d", argsPos)
		args = append(args, *filter.Status)
		argsPos++
	} else {
		cond += " AND status IN ('pending', 'assigned')"
	}

	if filter.AssigneeID != nil {
		assignee := *filter.AssigneeID
		if assignee == "me" {
			assignee = operatorID
		}
		cond += fmt.Sprintf(" AND assignee_id = $%d", argsPos)
		args = append(args, assignee)
		argsPos++
	}

	// Aging-Buckets: Tage seit assigned_at, als ODER-verknüpfte Intervalle.
	if len(filter.Aging) > 0 {
		buckets := []string{}
		for _, bucket := range filter.Aging {
			switch entity.AgingBucket(bucket) {
			case entity.AgingFresh:
				buckets = append(buckets, "(now() - assigned_at < interval '3 days')")
			case entity.AgingWarning:
				buckets = append(buckets, "(now() - assigned_at >= interval '3 days' AND now() - assigned_at < interval '7 days')")
			case entity.AgingStale:
				buckets = append(buckets, "(now() - assigned_at >= interval '7 days')")
			}
		}
		if len(buckets) > 0 {
			cond += " AND ("
			for i, b := range buckets {
				if i > 0 {
					cond += " OR "
				}
				cond += b
			}
			cond += ")"
		}
	}

	return cond, args
}

func sortClause(sortBy *string) string {
	if sortBy == nil {
		return " ORDER BY assigned_at ASC"
	}

	switch entity.SortOrder(*sortBy) {
	case entity.SortAssignedAtDesc:
		return " ORDER BY assigned_at DESC"
	case entity.SortPriorityAsc:
		return " ORDER BY array_position(ARRAY['low','medium','high','urgent'], priority::text) ASC, assigned_at ASC"
	case entity.SortPriorityDesc:
		return " ORDER BY array_position(ARRAY['low','medium','high','urgent'], priority::text) DESC, assigned_at ASC"
	default:
		return " ORDER BY assigned_at ASC"
	}
}

func (r *AssignmentRepo) ListAssignments(ctx context.Context, operatorID string, filter *queue_dto.AssignmentListFilter) ([]entity.AssignmentEntity, int, *app_errors.AppError) {
	cond, args := buildListFilter(operatorID, filter)

	countQuery := "SELECT COUNT(*) FROM assignments" + cond

	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, app_errors.MapPgxError(err)
	}

	query := fmt.Sprintf("SELECT %s FROM assignments", assignmentColumns) + cond
	query += sortClause(filter.SortBy)

	argsPos := len(args) + 1
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d;", argsPos, argsPos+1)

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 50
	}
	offset := (page - 1) * pageSize

	args = append(args, pageSize, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, app_errors.MapPgxError(err)
	}
	defer rows.Close()

	var results []entity.AssignmentEntity
	for rows.Next() {
		var result entity.AssignmentEntity
		if err := rows.Scan(&result.ID, &result.WorkItemID, &result.WorkItemType, &result.AssigneeID, &result.Priority, &result.Status, &result.AssignedAt, &result.LastReminderSentAt, &result.Version); err != nil {
			return nil, 0, app_errors.MapPgxError(err)
		}
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, app_errors.MapPgxError(err)
	}

	return results, total, nil
}

func (r *AssignmentRepo) ListAssignmentsByIDs(ctx context.Context, assignmentIDs []string) ([]entity.AssignmentEntity, *app_errors.AppError) {
	query := fmt.Sprintf(`
	SELECT %s FROM assignments
	WHERE id = ANY($1);
	`, assignmentColumns)

	rows, err := r.db.Query(ctx, query, assignmentIDs)
	if err != nil {
		return nil, app_errors.MapPgxError(err)
	}
	defer rows.Close()

	var results []entity.AssignmentEntity
	for rows.Next() {
		var result entity.AssignmentEntity
		if err := rows.Scan(&result.ID, &result.WorkItemID, &result.WorkItemType, &result.AssigneeID, &result.Priority, &result.Status, &result.AssignedAt, &result.LastReminderSentAt, &result.Version); err != nil {
			return nil, app_errors.MapPgxError(err)
		}
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, app_errors.MapPgxError(err)
	}

	return results, nil
}

// MarkReminderSent setzt last_reminder_sent_at und erhöht version um genau 1.
// Der Guard auf die mitgegebene Version lehnt jede veraltete Sicht ab
// (VERSION_CONFLICT), der Aufrufer muss dann neu laden. Update und die
// Unterscheidung "fehlt vs. veraltet" laufen in einer Transaktion, damit
// beide Aussagen denselben Stand sehen.
func (r *AssignmentRepo) MarkReminderSent(ctx context.Context, assignmentID string, version int64) (*entity.AssignmentEntity, *app_errors.AppError) {
	t, appErr := r.txManager.Begin(ctx)
	if appErr != nil {
		return nil, appErr
	}

	pgxTx, ok := t.(*tx.PgxTx)
	if !ok {
		t.Rollback(ctx)
		return nil, app_errors.NewAppError(fiber.StatusInternalServerError, app_errors.ErrInternal, "internal_error", nil)
	}

	query := fmt.Sprintf(`
	UPDATE assignments
	SET last_reminder_sent_at = now(),
		version = version + 1
	WHERE id = $1
		AND version = $2
	RETURNING %s;
	`, assignmentColumns)

	var row entity.AssignmentEntity
	if err := pgxTx.Tx.QueryRow(ctx, query, assignmentID, version).Scan(&row.ID, &row.WorkItemID, &row.WorkItemType, &row.AssigneeID, &row.Priority, &row.Status, &row.AssignedAt, &row.LastReminderSentAt, &row.Version); err != nil {
		defer t.Rollback(ctx)
		if errors.Is(err, pgx.ErrNoRows) {
			// Entweder existiert das Assignment nicht mehr oder die Version ist veraltet.
			var exists bool
			if checkErr := pgxTx.Tx.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM assignments WHERE id = $1);", assignmentID).Scan(&exists); checkErr != nil {
				return nil, app_errors.MapPgxError(checkErr)
			}
			if !exists {
				return nil, app_errors.NewAppError(fiber.StatusNotFound, app_errors.ErrAssignmentMissing, "assignment_not_found", nil)
			}
			return nil, app_errors.NewAppError(fiber.StatusConflict, app_errors.ErrVersionConflict, "conflict.version", nil)
		}
		return nil, app_errors.MapPgxError(err)
	}

	if commitErr := t.Commit(ctx); commitErr != nil {
		return nil, commitErr
	}
	return &row, nil
}
