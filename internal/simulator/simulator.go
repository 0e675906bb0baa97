// Package simulator auto-plays blackjack sessions with bot agents to
// measure strategy performance against the house rules.
package simulator

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/blackjack/internal/bot"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/statistics"
)

// Config holds configuration for running simulations
type Config struct {
	Sessions int    // independent sessions to play
	Rounds   int    // rounds per session (sessions may end early when broke)
	Strategy string // bot strategy, see internal/bot
	Bet      int    // flat bet per hand
	Bankroll int    // starting bankroll per seat
	Players  int    // seats per table
	Seed     int64  // base seed; session i plays with Seed+i
	Workers  int    // concurrent sessions
	Logger   *log.Logger
}

// Simulator runs blackjack session simulations
type Simulator struct {
	config Config
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Workers < 1 {
		config.Workers = 1
	}
	return &Simulator{config: config}
}

// Run plays every configured session and returns the merged statistics.
// Sessions are independent (each owns its table and RNG) so they fan out
// across workers; the single-threaded ownership rules of the engine hold
// within each session.
func (s *Simulator) Run(ctx context.Context) (*statistics.Statistics, error) {
	results := make([]*statistics.Statistics, s.config.Sessions)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Workers)

	for i := 0; i < s.config.Sessions; i++ {
		i := i
		g.Go(func() error {
			stats, err := s.runSession(ctx, s.config.Seed+int64(i))
			if err != nil {
				return fmt.Errorf("session %d: %w", i+1, err)
			}
			results[i] = stats
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := &statistics.Statistics{}
	for _, r := range results {
		merged.Merge(r)
	}
	s.config.Logger.Info("simulation complete",
		"sessions", s.config.Sessions,
		"rounds", merged.Rounds,
		"mean_units", fmt.Sprintf("%.4f", merged.Mean()))
	return merged, nil
}

func (s *Simulator) runSession(ctx context.Context, seed int64) (*statistics.Statistics, error) {
	agent, err := bot.New(s.config.Strategy, s.config.Bet)
	if err != nil {
		return nil, err
	}

	rules := game.DefaultRules()
	rules.MaxPlayers = s.config.Players
	tbl := game.NewTable(randutil.New(seed), rules, s.config.Logger)

	for i := 1; i <= s.config.Players; i++ {
		if err := tbl.AddPlayer(game.NewPlayer(fmt.Sprintf("Bot-%d", i), s.config.Bankroll)); err != nil {
			return nil, err
		}
	}

	stats := &statistics.Statistics{}
	tbl.EventBus().Subscribe(&outcomeCollector{stats: stats})

	for round := 0; round < s.config.Rounds; round++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		before := bankrollTotal(tbl)
		total, err := tbl.PlayRound(ctx, nil, agent)
		if err != nil {
			return nil, err
		}
		if total == 0 {
			s.config.Logger.Debug("session over, all seats broke or sitting out", "seed", seed, "round", round)
			break
		}
		net := bankrollTotal(tbl) - before
		stats.RecordRound(float64(net) / float64(s.config.Bet))
	}
	return stats, nil
}

func bankrollTotal(tbl *game.Table) int {
	total := 0
	for _, p := range tbl.Players() {
		total += p.Bankroll()
	}
	return total
}

// outcomeCollector counts hand outcomes from the table's event stream
type outcomeCollector struct {
	stats *statistics.Statistics
}

func (c *outcomeCollector) OnEvent(event game.GameEvent) {
	switch e := event.(type) {
	case game.HandWonEvent:
		c.stats.Hands++
		c.stats.Wins++
		if e.Blackjack {
			c.stats.Blackjacks++
		}
	case game.HandLostEvent:
		c.stats.Hands++
		c.stats.Losses++
	case game.HandBustEvent:
		c.stats.Busts++
	}
}
