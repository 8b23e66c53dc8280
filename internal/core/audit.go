package core

// audit.go records who did what to a workbook session: uploads, cell
// edits, reconciles, sheet creation, exports. Entries go to Postgres
// when a pool is configured; without one the log degrades to slog so
// the service stays fully usable in-memory.
//
// Only actions are recorded, never sheet contents; the workbook itself
// lives exclusively in its session.

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// AuditAction represents the type of action being audited.
type AuditAction string

const (
	ActionWorkbookUpload AuditAction = "workbook_upload"
	ActionCellEdit       AuditAction = "cell_edit"
	ActionEditsCleared   AuditAction = "edits_cleared"
	ActionReconcile      AuditAction = "reconcile"
	ActionSheetCreate    AuditAction = "sheet_create"
	ActionExport         AuditAction = "export"
	ActionSessionClosed  AuditAction = "session_closed"
)

// AuditEntry is a single audit log record.
type AuditEntry struct {
	ID           string      `json:"id"`
	Action       AuditAction `json:"action"`
	SessionID    string      `json:"sessionId"`
	SheetName    string      `json:"sheetName,omitempty"`
	RowID        string      `json:"rowId,omitempty"`
	ColumnName   string      `json:"columnName,omitempty"`
	NewValue     string      `json:"newValue,omitempty"`
	RowsAffected int         `json:"rowsAffected,omitempty"`
	FileName     string      `json:"fileName,omitempty"`
	IPAddress    string      `json:"ipAddress,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
}

// AuditLog writes audit entries. A nil db is valid and disables
// persistence.
type AuditLog struct {
	db DBTX
}

// NewAuditLog creates an AuditLog backed by db. Pass nil to log actions
// to slog only.
func NewAuditLog(db DBTX) *AuditLog {
	return &AuditLog{db: db}
}

const auditSchema = `
CREATE TABLE IF NOT EXISTS workbook_audit_log (
	id            UUID PRIMARY KEY,
	action        TEXT NOT NULL,
	session_id    TEXT NOT NULL,
	sheet_name    TEXT NOT NULL DEFAULT '',
	row_id        TEXT NOT NULL DEFAULT '',
	column_name   TEXT NOT NULL DEFAULT '',
	new_value     TEXT NOT NULL DEFAULT '',
	rows_affected INT  NOT NULL DEFAULT 0,
	file_name     TEXT NOT NULL DEFAULT '',
	ip_address    TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ NOT NULL
)`

// EnsureSchema creates the audit table if it does not exist. No-op
// without a database.
func (a *AuditLog) EnsureSchema(ctx context.Context) error {
	if a.db == nil {
		return nil
	}
	_, err := a.db.Exec(ctx, auditSchema)
	return err
}

// Record writes one audit entry. Failures are logged, never surfaced:
// auditing must not break the user's action.
func (a *AuditLog) Record(ctx context.Context, entry AuditEntry) {
	entry.ID = uuid.NewString()
	entry.CreatedAt = time.Now().UTC()
	if entry.IPAddress == "" {
		entry.IPAddress = IPAddressFromContext(ctx)
	}

	logger := slog.Default().With(
		"action", string(entry.Action),
		"session_id", entry.SessionID,
		"sheet", entry.SheetName,
	)

	if a.db == nil {
		logger.Debug("audit entry (not persisted)")
		return
	}

	_, err := a.db.Exec(ctx,
		`INSERT INTO workbook_audit_log
			(id, action, session_id, sheet_name, row_id, column_name, new_value, rows_affected, file_name, ip_address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		entry.ID, string(entry.Action), entry.SessionID, entry.SheetName,
		entry.RowID, entry.ColumnName, entry.NewValue, entry.RowsAffected,
		entry.FileName, entry.IPAddress, entry.CreatedAt,
	)
	if err != nil {
		logger.Error("failed to write audit entry", "error", err)
	}
}

// Recent returns the most recent audit entries for a session, newest
// first. Returns nil without a database.
func (a *AuditLog) Recent(ctx context.Context, sessionID string, limit int) ([]AuditEntry, error) {
	if a.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := a.db.Query(ctx,
		`SELECT id, action, session_id, sheet_name, row_id, column_name, new_value, rows_affected, file_name, ip_address, created_at
		 FROM workbook_audit_log
		 WHERE session_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		sessionID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []AuditEntry
	for rows.Next() {
		var e AuditEntry
		var action string
		if err := rows.Scan(&e.ID, &action, &e.SessionID, &e.SheetName, &e.RowID,
			&e.ColumnName, &e.NewValue, &e.RowsAffected, &e.FileName, &e.IPAddress, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Action = AuditAction(action)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
