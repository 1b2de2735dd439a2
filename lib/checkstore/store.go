// Package checkstore persists the outcome of every availability check so
// past runs can be inspected later.
package checkstore

import (
	"context"
	"database/sql"
	"time"

	"stocksnoop/lib/scrapers/shopify"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func NewStore(database *sql.DB) Store {
	return Store{db: database}
}

type Check struct {
	RunId     string
	Handle    string
	Status    shopify.Status
	Detail    string
	Url       string
	CheckedAt time.Time
}

type PushRequest struct {
	Time   time.Time
	RunId  string
	Checks []shopify.CheckResult
}

// Push records the results of one run in a single transaction.
func (s Store) Push(ctx context.Context, req PushRequest) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, c := range req.Checks {
		_, err = tx.ExecContext(
			ctx,
			`INSERT INTO product_check (run_id, handle, status, detail, url, checked_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			req.RunId,
			c.Handle,
			string(c.Status),
			c.Detail,
			c.Url,
			req.Time.Unix(),
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// History returns the most recent checks for a handle, newest first.
func (s Store) History(ctx context.Context, handle string, limit int) ([]Check, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT run_id, handle, status, detail, url, checked_at
		FROM product_check
		WHERE handle = ?
		ORDER BY checked_at DESC, id DESC
		LIMIT ?`,
		handle, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var checks []Check
	for rows.Next() {
		var c Check
		var status string
		var checkedAt int64
		err = rows.Scan(&c.RunId, &c.Handle, &status, &c.Detail, &c.Url, &checkedAt)
		if err != nil {
			return nil, err
		}
		c.Status = shopify.Status(status)
		c.CheckedAt = time.Unix(checkedAt, 0)
		checks = append(checks, c)
	}
	return checks, rows.Err()
}

// Handles returns every handle that has ever been checked, sorted.
func (s Store) Handles(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT DISTINCT handle FROM product_check ORDER BY handle`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var handles []string
	for rows.Next() {
		var handle string
		err = rows.Scan(&handle)
		if err != nil {
			return nil, err
		}
		handles = append(handles, handle)
	}
	return handles, rows.Err()
}
