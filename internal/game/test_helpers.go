package game

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/randutil"
)

// scriptedAgent replays canned answers in order. Exhausted scripts fall back
// to bet 0 / no split / stand so a test can't loop forever.
type scriptedAgent struct {
	bets     []int
	splits   []bool
	actions  []Action
	betCalls int
	err      error // returned from every call when set
}

func (a *scriptedAgent) BetAmount(_ context.Context, _ PlayerView) (int, error) {
	if a.err != nil {
		return 0, a.err
	}
	a.betCalls++
	if len(a.bets) == 0 {
		return 0, nil
	}
	bet := a.bets[0]
	a.bets = a.bets[1:]
	return bet, nil
}

func (a *scriptedAgent) WantsSplit(_ context.Context, _ HandView) (bool, error) {
	if a.err != nil {
		return false, a.err
	}
	if len(a.splits) == 0 {
		return false, nil
	}
	v := a.splits[0]
	a.splits = a.splits[1:]
	return v, nil
}

func (a *scriptedAgent) NextAction(_ context.Context, _ HandView) (Action, error) {
	if a.err != nil {
		return ActionStand, a.err
	}
	if len(a.actions) == 0 {
		return ActionStand, nil
	}
	act := a.actions[0]
	a.actions = a.actions[1:]
	return act, nil
}

// recordingSubscriber captures every published event for assertions
type recordingSubscriber struct {
	events []GameEvent
}

func (r *recordingSubscriber) OnEvent(event GameEvent) {
	r.events = append(r.events, event)
}

func (r *recordingSubscriber) ofType(et EventType) []GameEvent {
	var out []GameEvent
	for _, e := range r.events {
		if e.EventType() == et {
			out = append(out, e)
		}
	}
	return out
}

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

func newTestTable(seed int64) *Table {
	return NewTable(randutil.New(seed), DefaultRules(), testLogger())
}

// handOf builds a hand directly from ranks, rotating suits so the cards are
// legal deck members.
func handOf(bet int, ranks ...deck.Rank) *Hand {
	h := newHand(bet)
	for i, r := range ranks {
		h.addCard(deck.NewCard(deck.Suit(i%4), r))
	}
	return h
}
