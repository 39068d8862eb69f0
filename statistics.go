package turnsearch

import (
	"encoding/csv"
	"os"
	"sort"
	"strconv"

	"github.com/pkg/errors"
)

// Statistics are the results of arena games in the order they finished.
type Statistics struct {
	Results []Result
}

func makeStatistics() Statistics {
	return Statistics{Results: make([]Result, 0, 64)}
}

func (s *Statistics) update(r Result) { s.Results = append(s.Results, r) }

// WinRate returns the fraction of games agent A won.
func (s *Statistics) WinRate() float32 {
	if len(s.Results) == 0 {
		return 0
	}
	var wins float32
	for _, r := range s.Results {
		if r.Outcome == Win {
			wins++
		}
	}
	return wins / float32(len(s.Results))
}

// Dump writes the results ordered by game number as CSV, with the running win rate of agent A.
func (s *Statistics) Dump(filename string) error {
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return errors.WithStack(err)
	}

	results := append([]Result(nil), s.Results...)
	sort.Slice(results, func(i, j int) bool { return results[i].Game < results[j].Game })

	w := csv.NewWriter(f)
	if err := w.Write([]string{"game", "player", "outcome", "moves", "duration_ms", "win_rate"}); err != nil {
		f.Close()
		return errors.WithStack(err)
	}
	var wins float32
	records := make([][]string, 0, len(results))
	for i, r := range results {
		if r.Outcome == Win {
			wins++
		}
		records = append(records, []string{
			strconv.Itoa(r.Game),
			strconv.Itoa(int(r.A)),
			r.Outcome.String(),
			strconv.Itoa(r.Moves),
			strconv.FormatInt(r.Duration.Milliseconds(), 10),
			strconv.FormatFloat(float64(wins/float32(i+1)), 'f', 3, 32),
		})
	}
	if err := w.WriteAll(records); err != nil {
		f.Close()
		return errors.WithStack(err)
	}
	return errors.WithStack(f.Close())
}
