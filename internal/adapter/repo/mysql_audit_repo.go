package repo

import (
	"context"
	"database/sql"
	"strings"
	"time"

	domain "github.com/rma010101/ecommerce-fullstack/internal/entity"
	"github.com/rma010101/ecommerce-fullstack/internal/usecase"
)

const queryLogColumns = `id, http_method, uri, client_ip, username, status, duration_ms, error_msg, ts`

type MySQLAuditRepo struct{ db *sql.DB }

func NewMySQLAuditRepo(db *sql.DB) *MySQLAuditRepo { return &MySQLAuditRepo{db: db} }

var _ usecase.AuditStore = (*MySQLAuditRepo)(nil)

func (r *MySQLAuditRepo) Insert(ctx context.Context, q *domain.QueryLog) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO query_logs (`+queryLogColumns+`)
VALUES (?,?,?,?,?,?,?,?,?)`,
		q.ID, q.HTTPMethod, q.URI, q.ClientIP, q.Username, q.Status,
		q.DurationMs, q.ErrorMsg, q.Timestamp)
	return err
}

func (r *MySQLAuditRepo) FindAll(ctx context.Context) ([]domain.QueryLog, error) {
	return r.query(ctx, `SELECT `+queryLogColumns+` FROM query_logs ORDER BY ts DESC`)
}

func (r *MySQLAuditRepo) FindByClientIP(ctx context.Context, clientIP string) ([]domain.QueryLog, error) {
	return r.query(ctx,
		`SELECT `+queryLogColumns+` FROM query_logs WHERE client_ip = ? ORDER BY ts DESC`, clientIP)
}

func (r *MySQLAuditRepo) FindByMethod(ctx context.Context, method string) ([]domain.QueryLog, error) {
	return r.query(ctx,
		`SELECT `+queryLogColumns+` FROM query_logs WHERE http_method = ? ORDER BY ts DESC`,
		strings.ToUpper(method))
}

func (r *MySQLAuditRepo) FindByStatus(ctx context.Context, status int) ([]domain.QueryLog, error) {
	return r.query(ctx,
		`SELECT `+queryLogColumns+` FROM query_logs WHERE status = ? ORDER BY ts DESC`, status)
}

func (r *MySQLAuditRepo) FindFailed(ctx context.Context) ([]domain.QueryLog, error) {
	return r.query(ctx,
		`SELECT `+queryLogColumns+` FROM query_logs WHERE status >= 400 ORDER BY ts DESC`)
}

func (r *MySQLAuditRepo) FindSlow(ctx context.Context, thresholdMs int64) ([]domain.QueryLog, error) {
	return r.query(ctx,
		`SELECT `+queryLogColumns+` FROM query_logs WHERE duration_ms >= ? ORDER BY duration_ms DESC`,
		thresholdMs)
}

func (r *MySQLAuditRepo) FindBetween(ctx context.Context, from, to time.Time) ([]domain.QueryLog, error) {
	return r.query(ctx,
		`SELECT `+queryLogColumns+` FROM query_logs WHERE ts BETWEEN ? AND ? ORDER BY ts DESC`,
		from, to)
}

func (r *MySQLAuditRepo) SearchURI(ctx context.Context, pattern string) ([]domain.QueryLog, error) {
	return r.query(ctx,
		`SELECT `+queryLogColumns+` FROM query_logs WHERE uri LIKE ? ORDER BY ts DESC`,
		"%"+pattern+"%")
}

func (r *MySQLAuditRepo) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM query_logs`)
	return err
}

func (r *MySQLAuditRepo) Stats(ctx context.Context) (usecase.AuditStats, error) {
	var s usecase.AuditStats
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(1),
       COALESCE(SUM(status >= 400), 0),
       COALESCE(AVG(duration_ms), 0),
       COALESCE(MAX(duration_ms), 0)
FROM query_logs`).Scan(&s.TotalRequests, &s.FailedRequests, &s.AvgDurationMs, &s.MaxDurationMs)
	return s, err
}

func (r *MySQLAuditRepo) query(ctx context.Context, query string, args ...any) ([]domain.QueryLog, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.QueryLog
	for rows.Next() {
		var q domain.QueryLog
		if err := rows.Scan(&q.ID, &q.HTTPMethod, &q.URI, &q.ClientIP, &q.Username,
			&q.Status, &q.DurationMs, &q.ErrorMsg, &q.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}
