// Package evidence implements the opaque EvidenceStore collaborator: a
// best-effort, append-only persistence layer for ToolCalls, ToolResults, and
// messages. Writes never abort a run; a failed insert is logged and
// swallowed by the caller, the way the teacher's tool DAO keeps persistence
// independent from business logic.
package evidence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/groundedquery/core/genai/telemetry"
	"github.com/groundedquery/core/genai/toolruntime"
)

// Store is the persistence contract an EvidenceStore implementation must
// satisfy. The core never blocks a response on it; writes go through
// BestEffort, which swallows and logs failures.
type Store interface {
	InsertToolCall(ctx context.Context, call *toolruntime.Call) error
	InsertToolResult(ctx context.Context, result *toolruntime.Result) error
	InsertMessage(ctx context.Context, threadID, messageID, role, content string) error
}

// SqliteStore is the reference EvidenceStore implementation, backed by
// modernc.org/sqlite (pure Go, no cgo).
type SqliteStore struct {
	db *sql.DB
}

// Open creates/attaches to a SQLite database at dsn and ensures the schema
// exists.
func Open(dsn string) (*SqliteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening evidence store: %w", err)
	}
	store := &SqliteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SqliteStore) migrate() error {
	const schema = `
CREATE TABLE IF NOT EXISTS tool_calls (
	id TEXT PRIMARY KEY,
	message_id TEXT,
	thread_id TEXT,
	workspace_id TEXT,
	tool_name TEXT,
	tool_args TEXT,
	status TEXT,
	started_at DATETIME,
	finished_at DATETIME,
	duration_ms INTEGER,
	error_message TEXT
);
CREATE TABLE IF NOT EXISTS tool_results (
	id TEXT PRIMARY KEY,
	tool_call_id TEXT,
	thread_id TEXT,
	workspace_id TEXT,
	data TEXT,
	row_count INTEGER,
	checksum TEXT
);
CREATE TABLE IF NOT EXISTS messages (
	thread_id TEXT,
	message_id TEXT,
	role TEXT,
	content TEXT,
	PRIMARY KEY (thread_id, message_id)
);`
	_, err := s.db.Exec(schema)
	return err
}

// InsertToolCall persists the audit record of a dispatched or blocked action.
func (s *SqliteStore) InsertToolCall(ctx context.Context, call *toolruntime.Call) error {
	argsJSON, err := json.Marshal(call.ToolArgs)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
INSERT OR REPLACE INTO tool_calls
	(id, message_id, thread_id, workspace_id, tool_name, tool_args, status, started_at, finished_at, duration_ms, error_message)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		call.ID, call.MessageID, call.ThreadID, call.WorkspaceID, call.ToolName,
		string(argsJSON), string(call.Status), call.StartedAt, call.FinishedAt, call.DurationMs, call.ErrorMessage,
	)
	return err
}

// InsertToolResult persists the evidence produced by a successful call.
func (s *SqliteStore) InsertToolResult(ctx context.Context, result *toolruntime.Result) error {
	dataJSON, err := json.Marshal(result.Data)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
INSERT OR REPLACE INTO tool_results (id, tool_call_id, thread_id, workspace_id, data, row_count, checksum)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		result.ID, result.ToolCallID, result.ThreadID, result.WorkspaceID, string(dataJSON), result.RowCount, result.Checksum,
	)
	return err
}

// InsertMessage persists a turn of the conversation (user message or final
// answer) for later audit/compliance export.
func (s *SqliteStore) InsertMessage(ctx context.Context, threadID, messageID, role, content string) error {
	_, err := s.db.ExecContext(ctx, `
INSERT OR REPLACE INTO messages (thread_id, message_id, role, content) VALUES (?, ?, ?, ?)`,
		threadID, messageID, role, content,
	)
	return err
}

// Close releases the underlying database handle.
func (s *SqliteStore) Close() error {
	return s.db.Close()
}

// BestEffort wraps a Store so persistence failures are logged, never
// returned, matching the spec's "writes are append-only best-effort" rule.
type BestEffort struct {
	Store Store
}

func (b BestEffort) InsertToolCall(ctx context.Context, call *toolruntime.Call) {
	if b.Store == nil {
		return
	}
	if err := b.Store.InsertToolCall(ctx, call); err != nil {
		telemetry.Warnf("evidence", "failed to persist tool call %s: %v", call.ID, err)
	}
}

func (b BestEffort) InsertToolResult(ctx context.Context, result *toolruntime.Result) {
	if b.Store == nil || result == nil {
		return
	}
	if err := b.Store.InsertToolResult(ctx, result); err != nil {
		telemetry.Warnf("evidence", "failed to persist tool result %s: %v", result.ID, err)
	}
}

func (b BestEffort) InsertMessage(ctx context.Context, threadID, messageID, role, content string) {
	if b.Store == nil {
		return
	}
	if err := b.Store.InsertMessage(ctx, threadID, messageID, role, content); err != nil {
		telemetry.Warnf("evidence", "failed to persist message %s: %v", messageID, err)
	}
}
