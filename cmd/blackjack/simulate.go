package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/simulator"
)

// SimulateCmd auto-plays sessions with a bot strategy
type SimulateCmd struct {
	Sessions int    `help:"Independent sessions to play" default:"10"`
	Rounds   int    `help:"Rounds per session" default:"1000"`
	Strategy string `help:"Bot strategy" enum:"mimic,basic" default:"basic"`
	Bet      int    `help:"Flat bet per hand" default:"10"`
	Bankroll int    `help:"Starting bankroll per seat" default:"10000"`
	Players  int    `help:"Seats per table (1-4)" default:"1"`
	Seed     int64  `help:"Base seed; session i plays with seed+i" default:"1"`
	Workers  int    `help:"Concurrent sessions" default:"4"`
	Debug    bool   `help:"Enable debug logging"`
}

// Run implements the simulate subcommand
func (cmd *SimulateCmd) Run() error {
	if cmd.Players < 1 || cmd.Players > 4 {
		return fmt.Errorf("players must be between 1 and 4, got %d", cmd.Players)
	}
	if cmd.Bet < 1 {
		return fmt.Errorf("bet must be at least 1, got %d", cmd.Bet)
	}

	level := log.InfoLevel
	if cmd.Debug {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Prefix:          "SIM",
		Level:           level,
	})

	sim := simulator.New(simulator.Config{
		Sessions: cmd.Sessions,
		Rounds:   cmd.Rounds,
		Strategy: cmd.Strategy,
		Bet:      cmd.Bet,
		Bankroll: cmd.Bankroll,
		Players:  cmd.Players,
		Seed:     cmd.Seed,
		Workers:  cmd.Workers,
		Logger:   logger,
	})

	stats, err := sim.Run(signalContext(logger))
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Print(stats.Summary())
	return nil
}
