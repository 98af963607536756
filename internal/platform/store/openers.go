package store

import (
	"context"
	"fmt"
	"time"

	chx "aardsync/internal/platform/store/ch"
	"aardsync/internal/platform/store/pg"

	"github.com/cenkalti/backoff/v4"
)

const (
	defaultConnectTimeout = 30 * time.Second
	pingTimeout           = 3 * time.Second
)

// openPG opens the pool, waits for it to answer a ping, then wraps it with the sql adapter
func openPG(ctx context.Context, cfg Config, s *Store) (TxRunner, error) {
	var tracer pg.QueryTracer
	if cfg.PG.LogSQL {
		tracer = pg.Tracer(s.Log)
	}

	p, err := pg.Open(ctx, pg.Config{
		URL:      cfg.PG.URL,
		MaxConns: cfg.PG.MaxConns,
		SlowMs:   cfg.PG.SlowQueryMs,
	}, tracer, nil)
	if err != nil {
		return nil, err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 150 * time.Millisecond
	bo.MaxInterval = 2 * time.Second
	bo.MaxElapsedTime = cfg.PG.ConnectTimeout
	if bo.MaxElapsedTime <= 0 {
		bo.MaxElapsedTime = defaultConnectTimeout
	}

	attempts := 0
	ping := func() error {
		attempts++
		toCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		// ping the pool directly so the tracer stays quiet during boot
		return p.Pool.Ping(toCtx)
	}
	notify := func(err error, wait time.Duration) {
		s.Log.Warn().Err(err).Int("attempt", attempts).Dur("retry_in", wait).Msg("postgres not ready")
	}
	if err := backoff.RetryNotify(ping, backoff.WithContext(bo, ctx), notify); err != nil {
		p.Close()
		return nil, fmt.Errorf("postgres ping failed after %d attempts: %w", attempts, err)
	}
	return newPGAdapter(p), nil
}

func openCH(ctx context.Context, cfg Config, s *Store) (Clickhouse, error) {
	c, err := chx.Open(ctx, chx.Config{
		URL:        cfg.CH.URL,
		ClientName: cfg.CH.ClientName,
		ClientTag:  cfg.CH.ClientTag,
	})
	if err != nil {
		return nil, err
	}
	s.Log.Info().Str("client_tag", cfg.CH.ClientTag).Msg("clickhouse connected")
	return newCHAdapter(c), nil
}
