package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/config"
	"github.com/lox/blackjack/internal/console"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
)

var titleStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#FAFAFA")).
	Background(lipgloss.Color("#04B575")).
	Padding(0, 1).
	Bold(true)

// PlayCmd runs an interactive table session
type PlayCmd struct {
	Config string `short:"c" help:"Path to HCL config file" default:"blackjack.hcl"`
	Seed   int64  `help:"Deck seed for reproducible sessions (0 uses the clock)"`
}

// Run implements the play subcommand
func (cmd *PlayCmd) Run() error {
	cfg, err := config.Load(cmd.Config)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", cmd.Config, err)
	}

	// Debug logging goes to a file so it doesn't interleave with prompts
	logFile, err := os.OpenFile(cfg.UI.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer func() {
		if err := logFile.Close(); err != nil {
			log.Error("failed to close log file", "error", err)
		}
	}()

	logger := log.NewWithOptions(logFile, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Prefix:          "TABLE",
	})
	if level, err := log.ParseLevel(cfg.UI.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	fmt.Print(titleStyle.Render(" ♠ ♥ Blackjack ♦ ♣ "))
	fmt.Println()
	fmt.Println()

	cons, err := console.New()
	if err != nil {
		return fmt.Errorf("failed to create console: %w", err)
	}
	defer func() {
		if err := cons.Close(); err != nil {
			log.Error("failed to close console", "error", err)
		}
	}()

	ctx := signalContext(logger)

	seed := cmd.Seed
	if seed == 0 {
		seed = randutil.TimeSeed()
	}
	logger.Info("starting session", "seed", seed, "bankroll", cfg.Table.StartingBankroll)

	rules := game.Rules{
		MaxPlayers:    cfg.Table.MaxPlayers,
		MaxSplitHands: cfg.Table.MaxSplitHands,
	}
	table := game.NewTable(randutil.New(seed), rules, logger)
	table.EventBus().Subscribe(cons)

	count, err := cons.PlayerCount(ctx, cfg.Table.MaxPlayers)
	if err != nil {
		return farewell(err)
	}
	for seat := 1; seat <= count; seat++ {
		name, err := cons.PlayerName(ctx, seat)
		if err != nil {
			return farewell(err)
		}
		if err := table.AddPlayer(game.NewPlayer(name, cfg.Table.StartingBankroll)); err != nil {
			return err
		}
	}

	session := game.NewSession(table, cons, logger)
	if err := session.Run(ctx); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("The house always wins.")
	return nil
}

// farewell turns a session abort during setup into a clean exit
func farewell(err error) error {
	if errors.Is(err, game.ErrSessionAborted) {
		fmt.Println()
		fmt.Println("Come back when you want to finish losing.")
		return nil
	}
	return err
}
