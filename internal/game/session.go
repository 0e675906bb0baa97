package game

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
)

// Session drives rounds on a table until every seated player bets zero in
// the same round, or the user aborts. One agent answers for every player by
// default; SetAgent overrides per seat.
type Session struct {
	table        *Table
	defaultAgent Agent
	agents       map[string]Agent
	logger       *log.Logger
}

// NewSession creates a session over a table with a default agent
func NewSession(table *Table, defaultAgent Agent, logger *log.Logger) *Session {
	return &Session{
		table:        table,
		defaultAgent: defaultAgent,
		agents:       make(map[string]Agent),
		logger:       logger,
	}
}

// SetAgent assigns a specific agent to a player name
func (s *Session) SetAgent(name string, agent Agent) {
	s.agents[name] = agent
}

// Table returns the session's table
func (s *Session) Table() *Table {
	return s.table
}

// Run plays rounds until every player sits out or the session is aborted.
// An abort abandons the in-flight round: debits already committed stand,
// nothing else changes, and Run returns nil.
func (s *Session) Run(ctx context.Context) error {
	for {
		total, err := s.table.PlayRound(ctx, s.agents, s.defaultAgent)
		switch {
		case errors.Is(err, ErrSessionAborted), errors.Is(err, context.Canceled):
			s.logger.Info("session aborted, abandoning round", "round", s.table.round)
			return nil
		case err != nil:
			return err
		}
		if total == 0 {
			s.logger.Debug("no bets placed, session over", "rounds", s.table.round)
			return nil
		}
	}
}
