// Command play plays m,n,k-games between two agents and reports the results.
//
// Settings are read from an optional YAML file (see turnsearch.Config) and can be overridden by
// flags. A .env file in the working directory may set TURNSEARCH_LOG_LEVEL and TURNSEARCH_CONFIG.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gorgonia/turnsearch"
	"github.com/gorgonia/turnsearch/game/mnk"
	"github.com/gorgonia/turnsearch/minmax"
)

var (
	configFile = flag.String("config", "", "YAML config file")
	games      = flag.Int("games", 0, "number of games (overrides the config)")
	workers    = flag.Int("workers", 0, "number of games played at the same time (overrides the config)")
	depth      = flag.Int("depth", 0, "search depth of agent A (overrides the config)")
	stats      = flag.String("stats", "", "CSV file for the results (overrides the config)")
	dotFile    = flag.String("dot", "", "write the search tree of agent A's first move to this file")
	verbose    = flag.Bool("v", false, "log every move")
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "loading .env: %v\n", err)
	}
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	level := zerolog.InfoLevel
	if l, err := zerolog.ParseLevel(os.Getenv("TURNSEARCH_LOG_LEVEL")); err == nil && l != zerolog.NoLevel {
		level = l
	}
	if *verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("play")
	}
}

func run() error {
	c, err := config()
	if err != nil {
		return err
	}

	if *dotFile != "" {
		if err := writeTree(c, *dotFile); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	arena, err := turnsearch.NewMNKArena(c, log.Logger)
	if err != nil {
		return err
	}
	if _, err := arena.PlayMany(ctx, c.Games, c.Workers); err != nil {
		return err
	}

	for _, a := range []*turnsearch.Agent[mnk.State, mnk.Context]{arena.A, arena.B} {
		wins, loss, draw := a.Results()
		fmt.Printf("%-10s wins %v, loss %v, draw %v\n", a.Name, wins, loss, draw)
	}
	if c.Stats != "" {
		if err := arena.Dump(c.Stats); err != nil {
			return errors.Wrap(err, "writing statistics")
		}
		log.Info().Str("file", c.Stats).Msg("statistics written")
	}
	return nil
}

func config() (turnsearch.Config, error) {
	filename := *configFile
	if filename == "" {
		filename = os.Getenv("TURNSEARCH_CONFIG")
	}
	c := turnsearch.DefaultConfig()
	if filename != "" {
		var err error
		if c, err = turnsearch.LoadConfig(filename); err != nil {
			return c, err
		}
	}

	if *games > 0 {
		c.Games = *games
	}
	if *workers > 0 {
		c.Workers = *workers
	}
	if *depth > 0 {
		c.A.Depth = *depth
		if c.A.FirstCutDelayDepth > *depth {
			c.A.FirstCutDelayDepth = *depth
		}
	}
	if *stats != "" {
		c.Stats = *stats
	}
	return c, c.IsValid()
}

// writeTree searches the first move of agent A and writes the search tree in DOT format.
func writeTree(c turnsearch.Config, filename string) error {
	if c.A.Strategy != turnsearch.StrategyMinMax {
		return errors.Errorf("agent %s does not search", c.A.Name)
	}
	var tree *minmax.SearchTree
	strategy := turnsearch.MNKStrategy(c.A, log.Logger, minmax.WithTreeHook(func(t *minmax.SearchTree) { tree = t }))
	e := mnk.New(mnk.Config{M: c.Game.M, N: c.Game.N, K: c.Game.K, First: mnk.Cross, RowFirst: c.Game.RowFirst}, nil)
	if _, err := strategy(0).Move(e); err != nil {
		return err
	}
	if err := os.WriteFile(filename, []byte(tree.ToDot()), 0644); err != nil {
		return errors.WithStack(err)
	}
	log.Info().Str("file", filename).Int("nodes", tree.Len()).Msg("search tree written")
	return nil
}
