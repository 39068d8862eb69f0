package turnsearch

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gorgonia/turnsearch/minmax"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	filename := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(filename, []byte(content), 0644))
	return filename
}

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	require.NoError(t, c.IsValid())
	assert.Equal(t, minmax.NewParams(2, 1, 1, minmax.DefaultKnobs()), c.A.Params())
}

func TestLoadConfig(t *testing.T) {
	filename := writeFile(t, `
name: gomoku
game: {m: 7, n: 7, k: 4, row_first: true}
games: 3
a:
  depth: 3
  knobs:
    branch_limit: 4
b:
  name: baseline
  seed: 9
stats: results.csv
`)
	c, err := LoadConfig(filename)
	require.NoError(t, err)

	want := DefaultConfig()
	want.Name = "gomoku"
	want.Game = GameConfig{M: 7, N: 7, K: 4, RowFirst: true}
	want.Games = 3
	want.A.Depth = 3
	want.A.Knobs.BranchLimit = 4
	want.B.Name = "baseline"
	want.B.Seed = 9
	want.Stats = "results.csv"
	assert.Equal(t, want, c)
	assert.Equal(t, []int{4, 6, 9}, c.A.Params().Sliding.BranchLimit)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, os.IsNotExist(errors.Cause(err)))

	_, err = LoadConfig(writeFile(t, "depth: 3\n"))
	assert.Error(t, err, "unknown fields are rejected")

	_, err = LoadConfig(writeFile(t, "a: {first_cut_delay_depth: 3}\n"))
	assert.Equal(t, minmax.ErrInvalidParams, errors.Cause(err))
}

func TestConfigIsValid(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"board", func(c *Config) { c.Game.K = 4 }},
		{"games", func(c *Config) { c.Games = -1 }},
		{"workers", func(c *Config) { c.Workers = 0 }},
		{"names", func(c *Config) { c.B.Name = c.A.Name }},
		{"strategy", func(c *Config) { c.B.Strategy = "human" }},
		{"depth", func(c *Config) { c.A.Depth = 0 }},
		{"knobs", func(c *Config) { c.A.Knobs.MoveLimit = 0 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := DefaultConfig()
			tc.modify(&c)
			assert.Error(t, c.IsValid())
		})
	}

	c := DefaultConfig()
	c.A.Unlimited = true
	c.A.FirstMoveAddedDelayDepth = 0
	require.NoError(t, c.IsValid())
	assert.Equal(t, minmax.Unlimited(2, 1), c.A.Params())
}

func TestNewMNKArena(t *testing.T) {
	c := DefaultConfig()
	c.A.Depth = 1
	c.Games = 2
	c.Workers = 2

	arena, err := NewMNKArena(c, zerolog.Nop())
	require.NoError(t, err)
	results, err := arena.PlayMany(context.Background(), c.Games, c.Workers)
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.GreaterOrEqual(t, r.Moves, 5)
		assert.LessOrEqual(t, r.Moves, 9)
	}
	wins, loss, draw := arena.A.Results()
	assert.Equal(t, float32(2), wins+loss+draw)

	c.Game.K = 5
	_, err = NewMNKArena(c, zerolog.Nop())
	assert.Error(t, err)
}
