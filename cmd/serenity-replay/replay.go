package main

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/serenity-bot/serenity/internal/ai"
	"github.com/serenity-bot/serenity/internal/pattern"
	"github.com/serenity-bot/serenity/pkg/core"
)

// Summary reports how a replay compared to the recording.
type Summary struct {
	Rounds   int
	Diverged []int
}

// Matches reports whether every replayed round produced the recorded actions.
func (s Summary) Matches() bool {
	return len(s.Diverged) == 0
}

// replay feeds the recorded rounds through a fresh engine seeded with seed
// and prints one line per round. A round diverges when its actions or
// decision differ from the recording.
func replay(w io.Writer, match core.Match, rounds []core.RoundRecord, seed uint64, healthyHP int, logger *slog.Logger) (Summary, error) {
	cfg := match.Config
	cfg.HealthyHP = healthyHP

	engine := ai.New(cfg, match.Bots,
		ai.WithRand(pattern.NewRand(seed)),
		ai.WithLogger(logger))

	fmt.Fprintf(w, "match %d team=%s seed=%d rounds=%d\n", match.ID, match.TeamName, seed, len(rounds))

	var sum Summary
	for _, rec := range rounds {
		actions, err := engine.HandleRound(rec.Round, rec.Events)
		if err != nil {
			return sum, fmt.Errorf("round %d: %w", rec.Round, err)
		}
		decision, err := engine.History().Decision(rec.Round)
		if err != nil {
			return sum, fmt.Errorf("round %d: %w", rec.Round, err)
		}
		sum.Rounds++

		same := sameActions(actions, rec.Actions) && sameDecision(decision, rec.Decision)
		mark := "ok"
		if !same {
			mark = "DIVERGED"
			sum.Diverged = append(sum.Diverged, rec.Round)
		}
		fmt.Fprintf(w, "round %3d %-8s mode=%-6s target=%-9s actions=%s\n",
			rec.Round, mark, decision.Mode, target(decision), formatActions(actions))
	}

	fmt.Fprintf(w, "replayed %d rounds, %d diverged\n", sum.Rounds, len(sum.Diverged))
	return sum, nil
}

// sameActions compares ignoring NoAction, which is never recorded.
func sameActions(got, want []core.Action) bool {
	got = slices.DeleteFunc(slices.Clone(got), func(a core.Action) bool { return a.Kind == core.NoAction })
	want = slices.DeleteFunc(slices.Clone(want), func(a core.Action) bool { return a.Kind == core.NoAction })
	return slices.Equal(got, want)
}

func sameDecision(got, want core.Decision) bool {
	if got.Mode != want.Mode || got.HasTarget() != want.HasTarget() {
		return false
	}
	return !got.HasTarget() || *got.Target == *want.Target
}

func target(d core.Decision) string {
	if !d.HasTarget() {
		return "-"
	}
	return d.Target.String()
}

func formatActions(actions []core.Action) string {
	out := ""
	for i, a := range actions {
		if i > 0 {
			out += " "
		}
		out += a.String()
	}
	if out == "" {
		return "-"
	}
	return out
}
