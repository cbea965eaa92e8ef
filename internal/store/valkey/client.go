package valkey

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/ukaji3/namedeps-go/internal/config"
)

const pingTimeout = 3 * time.Second

// ErrNoAddr is returned when the prompt cache has no server configured.
var ErrNoAddr = errors.New("valkey address is empty")

// NewClient connects to the prompt cache server and checks it answers PING
// within pingTimeout. Callers fall back to an in-memory cache on error.
func NewClient(ctx context.Context, cfg config.ValkeyConfig) (valkey.Client, error) {
	if cfg.Addr == "" {
		return nil, ErrNoAddr
	}
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{cfg.Addr},
		Password:    cfg.Password,
		SelectDB:    cfg.DB,
		ClientName:  "namedeps",
	})
	if err != nil {
		return nil, fmt.Errorf("connect prompt cache %s: %w", cfg.Addr, err)
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping prompt cache %s (db %d): %w", cfg.Addr, cfg.DB, err)
	}
	return client, nil
}
