package reference

import (
	"context"
	"fmt"
)

var seedSchema = []string{
	`CREATE TABLE IF NOT EXISTS node_status (node TEXT PRIMARY KEY, role TEXT, status TEXT, uptime_seconds INTEGER)`,
	`CREATE TABLE IF NOT EXISTS slow_queries (sql_id TEXT PRIMARY KEY, db_name TEXT, exec_count INTEGER, avg_latency_ms REAL, sample_sql TEXT)`,
	`CREATE TABLE IF NOT EXISTS index_advice (table_name TEXT, index_columns TEXT, benefit REAL)`,
	`CREATE TABLE IF NOT EXISTS security_risks (risk_id TEXT PRIMARY KEY, level TEXT, description TEXT)`,
	`CREATE TABLE IF NOT EXISTS settings (name TEXT PRIMARY KEY, value TEXT, description TEXT)`,
}

var seedRows = map[string][]string{
	"node_status": {
		`INSERT INTO node_status VALUES ('db-node-1', 'primary', 'normal', 864000)`,
		`INSERT INTO node_status VALUES ('db-node-2', 'standby', 'normal', 863100)`,
		`INSERT INTO node_status VALUES ('db-node-3', 'standby', 'catchup', 1200)`,
	},
	"slow_queries": {
		`INSERT INTO slow_queries VALUES ('5f1c2a', 'shop', 1204, 812.4, 'SELECT * FROM orders WHERE customer_id = ?')`,
		`INSERT INTO slow_queries VALUES ('9ab301', 'shop', 88, 2310.0, 'SELECT count(*) FROM order_items')`,
		`INSERT INTO slow_queries VALUES ('c0ffee', 'billing', 12, 5022.7, 'UPDATE invoices SET status = ? WHERE due < now()')`,
	},
	"index_advice": {
		`INSERT INTO index_advice VALUES ('orders', 'customer_id', 0.82)`,
		`INSERT INTO index_advice VALUES ('invoices', 'status,due', 0.64)`,
	},
	"security_risks": {
		`INSERT INTO security_risks VALUES ('R-001', 'high', 'superuser login allowed from any host')`,
		`INSERT INTO security_risks VALUES ('R-002', 'medium', 'password expiry disabled')`,
	},
	"settings": {
		`INSERT INTO settings VALUES ('max_connections', '500', 'maximum concurrent connections')`,
		`INSERT INTO settings VALUES ('shared_buffers', '8GB', 'memory used for shared buffers')`,
		`INSERT INTO settings VALUES ('work_mem', '64MB', 'memory per sort or hash operation')`,
	},
}

// Seed creates the development schema and fills empty tables with sample rows.
// It targets sqlite; a mysql reference database is expected to exist already.
func (s *Source) Seed(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range seedSchema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	for table, inserts := range seedRows {
		var n int
		if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			return fmt.Errorf("count %s: %w", table, err)
		}
		if n > 0 {
			continue
		}
		for _, stmt := range inserts {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("seed %s: %w", table, err)
			}
		}
	}
	return tx.Commit()
}
