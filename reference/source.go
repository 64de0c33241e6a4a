package reference

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"

	"dbconsole/logger"
	"dbconsole/models"
)

// ErrUnknownTable is returned for a table without a configured query.
var ErrUnknownTable = errors.New("unknown table")

// Query is the SQL behind one table. SQL takes LIMIT and OFFSET as its two
// trailing placeholders; CountSQL is optional.
type Query struct {
	SQL      string
	CountSQL string
}

// Source serves tabular pages from a SQL database.
type Source struct {
	db           *sql.DB
	queries      map[string]Query
	queryTimeout time.Duration
}

// Open connects to a mysql or sqlite3 database and verifies the connection.
func Open(ctx context.Context, driver, dsn string, queries map[string]Query) (*Source, error) {
	switch driver {
	case "mysql", "sqlite3":
	default:
		return nil, fmt.Errorf("unsupported reference driver %q (want mysql or sqlite3)", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}
	if driver == "mysql" {
		db.SetConnMaxLifetime(5 * time.Minute)
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w", driver, err)
	}
	return NewSource(db, queries), nil
}

func NewSource(db *sql.DB, queries map[string]Query) *Source {
	return &Source{db: db, queries: queries, queryTimeout: 10 * time.Second}
}

func (s *Source) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Tables lists the configured table names.
func (s *Source) Tables() []string {
	names := make([]string, 0, len(s.queries))
	for name := range s.queries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Source) query(table string) (Query, error) {
	q, ok := s.queries[table]
	if !ok || q.SQL == "" {
		return Query{}, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}
	return q, nil
}

// Page runs the table query for one page. Total is set when a count query exists.
func (s *Source) Page(ctx context.Context, table string, page, pageSize int) (models.TabularPayload, error) {
	var payload models.TabularPayload
	q, err := s.query(table)
	if err != nil {
		return payload, err
	}
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, q.SQL, pageSize, (page-1)*pageSize)
	if err != nil {
		logger.Error("reference.Page: query for table %s failed: %v", table, err)
		return payload, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	payload.Header, payload.Rows, err = ScanRows(rows)
	if err != nil {
		return payload, fmt.Errorf("scan %s: %w", table, err)
	}

	if q.CountSQL != "" {
		total, err := s.count(ctx, q)
		if err != nil {
			return payload, fmt.Errorf("count %s: %w", table, err)
		}
		payload.Total = &total
	}
	return payload, nil
}

// Count returns the number of rows of table.
func (s *Source) Count(ctx context.Context, table string) (int, error) {
	q, err := s.query(table)
	if err != nil {
		return 0, err
	}
	if q.CountSQL == "" {
		return 0, fmt.Errorf("table %s has no count query", table)
	}
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()
	return s.count(ctx, q)
}

func (s *Source) count(ctx context.Context, q Query) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, q.CountSQL).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// ScanRows converts any result set into a header and positional rows. Text
// columns that drivers return as []byte become strings.
func ScanRows(rows *sql.Rows) ([]string, [][]any, error) {
	header, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	out := make([][]any, 0)
	for rows.Next() {
		values := make([]any, len(header))
		ptrs := make([]any, len(header))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		out = append(out, values)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return header, out, nil
}
