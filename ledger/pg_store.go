package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// PostgresStore 分数存放在 high_scores 表
type PostgresStore struct {
	db *sql.DB
}

// OpenPostgres 连接串如 os.Getenv("DATABASE_URL")，并确保表存在
func OpenPostgres(ctx context.Context, connStr string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS high_scores (
			name  TEXT PRIMARY KEY,
			score BIGINT NOT NULL
		)
	`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create high_scores: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

func (p *PostgresStore) Load(ctx context.Context) (map[string]int64, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT name, score FROM high_scores`)
	if err != nil {
		return nil, fmt.Errorf("query high_scores: %w", err)
	}
	defer rows.Close()
	scores := make(map[string]int64)
	for rows.Next() {
		var name string
		var score int64
		if err := rows.Scan(&name, &score); err != nil {
			return nil, fmt.Errorf("scan high_scores: %w", err)
		}
		scores[name] = score
	}
	return scores, rows.Err()
}

// Upsert 数据库侧同样只保留更大的值
func (p *PostgresStore) Upsert(ctx context.Context, name string, score int64) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO high_scores (name, score)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE
		SET score = GREATEST(high_scores.score, EXCLUDED.score)
	`, name, score)
	if err != nil {
		return fmt.Errorf("upsert high score %q: %w", name, err)
	}
	return nil
}

func (p *PostgresStore) Close() error { return p.db.Close() }
