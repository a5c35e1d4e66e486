package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"parish-ledger-backend/internal/domain"
	"parish-ledger-backend/internal/repository"
)

type auditRepository struct {
	db *sql.DB
}

func NewAuditRepository(db *sql.DB) repository.AuditRepository {
	return &auditRepository{db: db}
}

// Create appends an audit row. Audit writes always use the shared pool, not
// the caller's transaction, so a rolled-back business write still leaves its
// attempt on record.
func (r *auditRepository) Create(ctx context.Context, entry *domain.AuditLogEntry) error {
	oldVal, err := marshalSnapshot(entry.OldValue)
	if err != nil {
		return err
	}
	newVal, err := marshalSnapshot(entry.NewValue)
	if err != nil {
		return err
	}

	query := `INSERT INTO audit_logs
		(actor_id, actor_name, action, module, record_id, old_value, new_value, client_ip, user_agent, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	return r.db.QueryRowContext(ctx, query,
		entry.ActorID, entry.ActorName, entry.Action, entry.Module, entry.RecordID,
		oldVal, newVal, entry.ClientIP, entry.UserAgent, entry.CreatedAt,
	).Scan(&entry.ID)
}

func (r *auditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditLogEntry, int32, error) {
	where := []string{"1=1"}
	args := []any{}
	add := func(clause string, arg any) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}

	if filter.Module != "" {
		add("module = $%d", filter.Module)
	}
	if filter.ActorID != 0 {
		add("actor_id = $%d", filter.ActorID)
	}
	if filter.Action != "" {
		add("action = $%d", filter.Action)
	}

	cond := strings.Join(where, " AND ")

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM audit_logs WHERE `+cond, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.PageSize
	query := fmt.Sprintf(`SELECT id, actor_id, actor_name, action, module, record_id,
	                 old_value, new_value, COALESCE(client_ip, ''), COALESCE(user_agent, ''), created_at
	          FROM audit_logs WHERE %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		cond, len(args)+1, len(args)+2)
	args = append(args, filter.PageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var logs []domain.AuditLogEntry
	for rows.Next() {
		var entry domain.AuditLogEntry
		var oldVal, newVal []byte
		if err := rows.Scan(
			&entry.ID, &entry.ActorID, &entry.ActorName, &entry.Action, &entry.Module,
			&entry.RecordID, &oldVal, &newVal, &entry.ClientIP, &entry.UserAgent, &entry.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		if len(oldVal) > 0 {
			if err := json.Unmarshal(oldVal, &entry.OldValue); err != nil {
				return nil, 0, fmt.Errorf("unmarshal old value: %w", err)
			}
		}
		if len(newVal) > 0 {
			if err := json.Unmarshal(newVal, &entry.NewValue); err != nil {
				return nil, 0, fmt.Errorf("unmarshal new value: %w", err)
			}
		}
		logs = append(logs, entry)
	}
	return logs, count, rows.Err()
}

func marshalSnapshot(snapshot map[string]any) (any, error) {
	if snapshot == nil {
		return nil, nil
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("marshal audit snapshot: %w", err)
	}
	return data, nil
}
