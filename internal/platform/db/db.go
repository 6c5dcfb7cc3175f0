package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"hrmconsole/internal/platform/config"
)

type Pool = pgxpool.Pool

// Connect opens the pool backing console session storage. The console keeps very
// little state, so the pool stays small.
func Connect(ctx context.Context, cfg config.Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConns = 5
	poolCfg.MinConns = 1
	poolCfg.ConnConfig.RuntimeParams["application_name"] = "hrm-console"
	return pgxpool.NewWithConfig(ctx, poolCfg)
}
