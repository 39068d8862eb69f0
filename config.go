package turnsearch

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/gorgonia/turnsearch/minmax"
)

// Strategy names of AgentConfig.
const (
	StrategyMinMax = "minmax"
	StrategyRandom = "random"
)

// Config configures arena games of an m,n,k-game.
type Config struct {
	Name    string      `yaml:"name"`
	Game    GameConfig  `yaml:"game"`
	A       AgentConfig `yaml:"a"`
	B       AgentConfig `yaml:"b"`
	Games   int         `yaml:"games"`
	Workers int         `yaml:"workers"`
	Seed    uint64      `yaml:"seed"`  // assigns players to agents
	Stats   string      `yaml:"stats"` // CSV file the results are written to. Optional.
}

// GameConfig is the board of an m,n,k-game.
type GameConfig struct {
	M        int  `yaml:"m"`
	N        int  `yaml:"n"`
	K        int  `yaml:"k"`
	RowFirst bool `yaml:"row_first"`
}

// AgentConfig configures an agent.
type AgentConfig struct {
	Name     string `yaml:"name"`
	Strategy string `yaml:"strategy"`

	// min-max search
	Depth                    int          `yaml:"depth"`
	FirstCutDelayDepth       int          `yaml:"first_cut_delay_depth"`
	FirstMoveAddedDelayDepth int          `yaml:"first_move_added_delay_depth"`
	Unlimited                bool         `yaml:"unlimited"`
	Knobs                    minmax.Knobs `yaml:"knobs"`
	Symmetry                 bool         `yaml:"symmetry"`

	// random moves
	Seed uint64 `yaml:"seed"`
}

// DefaultConfig plays Tic Tac Toe between a min-max agent and a random one.
func DefaultConfig() Config {
	return Config{
		Name: "Tic Tac Toe",
		Game: GameConfig{M: 3, N: 3, K: 3},
		A: AgentConfig{
			Name:                     "minmax",
			Strategy:                 StrategyMinMax,
			Depth:                    2,
			FirstCutDelayDepth:       1,
			FirstMoveAddedDelayDepth: 1,
			Knobs:                    minmax.DefaultKnobs(),
			Symmetry:                 true,
		},
		B: AgentConfig{
			Name:     "random",
			Strategy: StrategyRandom,
			Seed:     1,
			Knobs:    minmax.DefaultKnobs(),
		},
		Games:   10,
		Workers: 4,
		Seed:    1337,
	}
}

// LoadConfig reads a YAML config file. Settings missing from the file keep their default values.
func LoadConfig(filename string) (Config, error) {
	retVal := DefaultConfig()
	f, err := os.Open(filename)
	if err != nil {
		return retVal, errors.WithStack(err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&retVal); err != nil {
		return retVal, errors.Wrapf(err, "decoding %s", filename)
	}
	if err := retVal.IsValid(); err != nil {
		return retVal, errors.Wrapf(err, "config %s", filename)
	}
	return retVal, nil
}

// IsValid checks the config for consistency.
func (c Config) IsValid() error {
	g := c.Game
	if g.M < 1 || g.N < 1 || g.K < 1 || (g.K > g.M && g.K > g.N) {
		return errors.Errorf("invalid board %dx%d with %d in a row", g.M, g.N, g.K)
	}
	if c.Games < 0 {
		return errors.Errorf("negative number of games %d", c.Games)
	}
	if c.Workers < 1 {
		return errors.Errorf("need at least one worker, got %d", c.Workers)
	}
	if c.A.Name == c.B.Name {
		return errors.Errorf("both agents are called %q", c.A.Name)
	}
	if err := c.A.IsValid(); err != nil {
		return errors.Wrap(err, "agent A")
	}
	return errors.Wrap(c.B.IsValid(), "agent B")
}

// IsValid checks the agent config for consistency.
func (c AgentConfig) IsValid() error {
	switch c.Strategy {
	case StrategyRandom:
		return nil
	case StrategyMinMax:
		if c.Depth < 1 || c.FirstCutDelayDepth < 1 || c.FirstMoveAddedDelayDepth < 0 {
			return errors.Wrapf(minmax.ErrInvalidParams, "depth %d, first cut delay depth %d, first move added delay depth %d",
				c.Depth, c.FirstCutDelayDepth, c.FirstMoveAddedDelayDepth)
		}
		p := c.Params()
		return p.IntegrityCheck()
	}
	return errors.Errorf("unknown strategy %q", c.Strategy)
}

// Params returns the search parameters of a min-max agent.
func (c AgentConfig) Params() minmax.Params {
	if c.Unlimited {
		return minmax.Unlimited(c.Depth, c.FirstCutDelayDepth)
	}
	return minmax.NewParams(c.Depth, c.FirstCutDelayDepth, c.FirstMoveAddedDelayDepth, c.Knobs)
}
