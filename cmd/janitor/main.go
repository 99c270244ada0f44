package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Housekeeping programado (EventBridge): poda el kill_log viejo y los
// usuarios soft-deleted. No toca bosses ni timers.
func handler(ctx context.Context) (string, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return "no DATABASE_URL", nil
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return fmt.Sprintf("parse: %v", err), nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return fmt.Sprintf("pool: %v", err), nil
	}
	defer pool.Close()

	cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, _ = pool.Exec(cctx, `DELETE FROM kill_log WHERE created_at < now() - INTERVAL '90 days';`)
	_, _ = pool.Exec(cctx, `
DELETE FROM users
WHERE deleted_at IS NOT NULL
  AND deleted_at < now() - INTERVAL '30 days';`)

	return "ok", nil
}

func main() { lambda.Start(handler) }
