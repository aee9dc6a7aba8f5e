// internal/storage/factory_test.go
package storage_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serenity-bot/serenity/internal/config"
	"github.com/serenity-bot/serenity/internal/storage"
	"github.com/serenity-bot/serenity/internal/storage/gormstore"
	"github.com/serenity-bot/serenity/internal/storage/memory"
	"github.com/serenity-bot/serenity/pkg/core"
)

func TestNewBackend(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		cfg     config.StorageConfig
		check   func(t *testing.T, b storage.Backend)
		wantDB  bool
		wantErr string
	}{
		{
			name: "memory",
			cfg:  config.StorageConfig{Type: "memory", Memory: config.MemoryConfig{OutputDir: dir}},
			check: func(t *testing.T, b storage.Backend) {
				assert.IsType(t, &memory.Backend{}, b)
			},
		},
		{
			name: "sqlite",
			cfg: config.StorageConfig{Type: "sqlite", SQLite: config.SQLiteConfig{
				Path:          filepath.Join(dir, "serenity.db"),
				FlushInterval: time.Second,
			}},
			check: func(t *testing.T, b storage.Backend) {
				assert.IsType(t, &gormstore.Backend{}, b)
			},
			wantDB: true,
		},
		{
			name: "none",
			cfg:  config.StorageConfig{Type: "none"},
			check: func(t *testing.T, b storage.Backend) {
				assert.Equal(t, storage.Discard{}, b)
			},
		},
		{
			name:    "unknown",
			cfg:     config.StorageConfig{Type: "s3"},
			wantErr: "unknown storage type: s3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, mgr, err := storage.NewBackend(tt.cfg, storage.Dependencies{DBLogger: zerolog.Nop()})
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			if tt.wantDB {
				require.NotNil(t, mgr)
				t.Cleanup(func() { _ = mgr.Close() })
			} else {
				assert.Nil(t, mgr)
			}
			tt.check(t, b)
		})
	}
}

func TestDiscard(t *testing.T) {
	var b storage.Backend = storage.Discard{}
	m := &core.Match{}
	require.NoError(t, b.Init())
	require.NoError(t, b.StartMatch(m))
	require.NoError(t, b.RecordRound(&core.RoundRecord{}))
	require.NoError(t, b.EndMatch(core.MatchResult{}))
	require.NoError(t, b.Close())
	assert.Zero(t, m.ID)
}
