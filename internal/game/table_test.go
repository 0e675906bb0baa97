package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/randutil"
)

func TestSettlementWinPaysEvenMoney(t *testing.T) {
	t.Parallel()
	tbl := newTestTable(1)
	p := NewPlayer("Alice", 500)
	require.NoError(t, tbl.AddPlayer(p))

	h := p.placeBet(100)
	require.Equal(t, 400, p.Bankroll())
	h.cards = handOf(0, deck.Ten, deck.Queen).cards // 20
	h.recompute()

	tbl.settle(18)
	// Bet returned plus 1:1 winnings: net +100 over the round
	assert.Equal(t, 600, p.Bankroll())
}

func TestSettlementBlackjackPaysThreeToTwo(t *testing.T) {
	t.Parallel()
	tbl := newTestTable(1)
	p := NewPlayer("Alice", 500)
	require.NoError(t, tbl.AddPlayer(p))

	h := p.placeBet(100)
	h.cards = handOf(0, deck.Ace, deck.King).cards
	h.recompute()
	h.blackjack = true

	tbl.settle(20)
	// 100 back plus 150 payout
	assert.Equal(t, 650, p.Bankroll())
}

func TestSettlementBlackjackRoundsHalfUp(t *testing.T) {
	t.Parallel()
	tbl := newTestTable(1)
	p := NewPlayer("Alice", 500)
	require.NoError(t, tbl.AddPlayer(p))

	h := p.placeBet(101)
	h.cards = handOf(0, deck.Ace, deck.King).cards
	h.recompute()
	h.blackjack = true

	tbl.settle(20)
	// 101 * 1.5 = 151.5, rounded up to 152
	assert.Equal(t, 500-101+101+152, p.Bankroll())
}

func TestSettlementBustForfeitsBet(t *testing.T) {
	t.Parallel()
	tbl := newTestTable(1)
	p := NewPlayer("Alice", 500)
	require.NoError(t, tbl.AddPlayer(p))

	h := p.placeBet(100)
	h.cards = handOf(0, deck.Ten, deck.Nine, deck.Five).cards // 24
	h.recompute()

	tbl.settle(18)
	assert.Equal(t, 400, p.Bankroll())
}

func TestSettlementPushGoesToDealer(t *testing.T) {
	t.Parallel()
	tbl := newTestTable(1)
	p := NewPlayer("Alice", 500)
	require.NoError(t, tbl.AddPlayer(p))

	h := p.placeBet(100)
	h.cards = handOf(0, deck.Ten, deck.Eight).cards // 18
	h.recompute()

	rec := &recordingSubscriber{}
	tbl.EventBus().Subscribe(rec)
	tbl.settle(18)

	// Ties favor the house under this engine's rules
	assert.Equal(t, 400, p.Bankroll())
	assert.Len(t, rec.ofType(EventTypeHandLost), 1)
}

func TestSettlementBeatsBustedDealer(t *testing.T) {
	t.Parallel()
	tbl := newTestTable(1)
	p := NewPlayer("Alice", 500)
	require.NoError(t, tbl.AddPlayer(p))

	h := p.placeBet(50)
	h.cards = handOf(0, deck.Ten, deck.Two).cards // 12
	h.recompute()

	// Busted dealer compares as zero
	tbl.settle(0)
	assert.Equal(t, 550, p.Bankroll())
}

func TestDealerNaturalSkipsPlayerTurns(t *testing.T) {
	t.Parallel()
	tbl := newTestTable(1)
	alice := NewPlayer("Alice", 500)
	bob := NewPlayer("Bob", 500)
	require.NoError(t, tbl.AddPlayer(alice))
	require.NoError(t, tbl.AddPlayer(bob))

	ah := alice.placeBet(100)
	ah.cards = handOf(0, deck.Ace, deck.King).cards // a natural of her own
	ah.recompute()
	bh := bob.placeBet(100)
	bh.cards = handOf(0, deck.Ten, deck.Queen).cards // 20
	bh.recompute()
	tbl.dealer.hands = []*Hand{handOf(0, deck.Ace, deck.King)}

	rec := &recordingSubscriber{}
	tbl.EventBus().Subscribe(rec)

	agent := &scriptedAgent{splits: []bool{true}, actions: []Action{ActionHit}}
	require.NoError(t, tbl.playDealtRound(context.Background(), nil, agent))

	// Nobody gets a turn against a dealer natural
	assert.Len(t, agent.splits, 1, "split should never be offered")
	assert.Len(t, agent.actions, 1, "no play decision should be requested")
	assert.Len(t, rec.ofType(EventTypeDealerBlackjack), 1)

	// Every bet is forfeited, Alice's untouched natural included: her hand
	// never entered play, so it settles as a plain 21 against the dealer's 21.
	assert.False(t, ah.IsBlackjack())
	assert.Equal(t, 400, alice.Bankroll())
	assert.Equal(t, 400, bob.Bankroll())
	assert.Len(t, rec.ofType(EventTypeHandLost), 2)
	assert.Empty(t, rec.ofType(EventTypeHandWon))
	assert.Len(t, rec.ofType(EventTypeRoundEnd), 1)
}

func TestPlayHandBlackjackOnEntry(t *testing.T) {
	t.Parallel()
	tbl := newTestTable(1)
	p := NewPlayer("Alice", 500)
	require.NoError(t, tbl.AddPlayer(p))
	tbl.dealer.hands = []*Hand{handOf(0, deck.Ten, deck.Seven)}

	h := p.placeBet(100)
	h.cards = handOf(0, deck.Ace, deck.King).cards
	h.recompute()

	agent := &scriptedAgent{}
	require.NoError(t, tbl.playHand(context.Background(), p, h, agent))

	assert.Equal(t, HandBlackjack, h.State())
	assert.True(t, h.IsBlackjack())
	assert.True(t, h.HasActed())
	assert.Equal(t, 2, len(h.Cards()))
}

func TestPlayHandBustsBeforeAsking(t *testing.T) {
	t.Parallel()
	tbl := newTestTable(1)
	p := NewPlayer("Alice", 500)
	require.NoError(t, tbl.AddPlayer(p))
	tbl.dealer.hands = []*Hand{handOf(0, deck.Ten, deck.Seven)}

	h := p.placeBet(100)
	h.cards = handOf(0, deck.Ten, deck.Nine, deck.Six).cards // 25
	h.recompute()

	agent := &scriptedAgent{actions: []Action{ActionHit}}
	require.NoError(t, tbl.playHand(context.Background(), p, h, agent))

	assert.Equal(t, HandBusted, h.State())
	assert.Len(t, agent.actions, 1, "agent should not have been consulted")
}

func TestPlayHandDoubleDown(t *testing.T) {
	t.Parallel()
	tbl := newTestTable(1)
	p := NewPlayer("Alice", 500)
	require.NoError(t, tbl.AddPlayer(p))
	tbl.dealer.hands = []*Hand{handOf(0, deck.Ten, deck.Seven)}

	h := p.placeBet(100)
	h.cards = handOf(0, deck.Five, deck.Six).cards // 11
	h.recompute()

	agent := &scriptedAgent{actions: []Action{ActionDouble}}
	require.NoError(t, tbl.playHand(context.Background(), p, h, agent))

	assert.Equal(t, HandDoubled, h.State())
	assert.Equal(t, 200, h.Bet())
	assert.Equal(t, 300, p.Bankroll())
	assert.Equal(t, 3, len(h.Cards()), "double draws exactly one card")
}

func TestPlayHandSplit(t *testing.T) {
	t.Parallel()
	tbl := newTestTable(3)
	p := NewPlayer("Alice", 500)
	require.NoError(t, tbl.AddPlayer(p))
	tbl.dealer.hands = []*Hand{handOf(0, deck.Ten, deck.Seven)}

	h := p.placeBet(100)
	h.cards = handOf(0, deck.Eight, deck.Eight).cards
	h.recompute()

	agent := &scriptedAgent{splits: []bool{true}}
	require.NoError(t, tbl.playHand(context.Background(), p, h, agent))

	// One extra debit matching the original bet, two hands of two cards each
	require.Len(t, p.Hands(), 2)
	assert.Equal(t, 300, p.Bankroll())
	assert.Equal(t, 100, p.Hands()[0].Bet())
	assert.Equal(t, 100, p.Hands()[1].Bet())
	total := 0
	for _, ph := range p.Hands() {
		assert.Equal(t, 2, len(ph.Cards()))
		total += len(ph.Cards())
	}
	assert.Equal(t, 4, total)
	for _, ph := range p.Hands() {
		assert.True(t, ph.State().Terminal())
	}
}

func TestSplitCappedByRules(t *testing.T) {
	t.Parallel()
	rules := DefaultRules()
	rules.MaxSplitHands = 2
	tbl := NewTable(randutil.New(9), rules, testLogger())
	p := NewPlayer("Alice", 10000)
	require.NoError(t, tbl.AddPlayer(p))
	tbl.dealer.hands = []*Hand{handOf(0, deck.Ten, deck.Seven)}

	h := p.placeBet(100)
	h.cards = handOf(0, deck.Eight, deck.Eight).cards
	h.recompute()

	// Agent that always wants to split; the cap must stop re-splits
	agent := &scriptedAgent{splits: []bool{true, true, true, true}}
	require.NoError(t, tbl.playHand(context.Background(), p, h, agent))

	assert.Len(t, p.Hands(), 2)
	assert.Len(t, agent.splits, 3, "re-split should not even be offered at the cap")
}

func TestDealerDrawsToStandThreshold(t *testing.T) {
	t.Parallel()
	tbl := newTestTable(5)
	p := NewPlayer("Alice", 500)
	require.NoError(t, tbl.AddPlayer(p))

	h := p.placeBet(100)
	h.cards = handOf(0, deck.Ten, deck.Eight).cards // live hand
	h.recompute()

	dh := handOf(0, deck.Ten, deck.Two) // 12, must draw
	tbl.dealer.hands = []*Hand{dh}

	total, err := tbl.dealerTurn()
	require.NoError(t, err)

	assert.GreaterOrEqual(t, dh.Value(), dealerStand)
	assert.Greater(t, len(dh.Cards()), 2)
	if dh.Value() > 21 {
		assert.Equal(t, 0, total, "busted dealer compares as zero")
	} else {
		assert.Equal(t, dh.Value(), total)
	}
}

func TestDealerStandsPat(t *testing.T) {
	t.Parallel()
	tbl := newTestTable(5)
	p := NewPlayer("Alice", 500)
	require.NoError(t, tbl.AddPlayer(p))

	h := p.placeBet(100)
	h.cards = handOf(0, deck.Ten, deck.Eight).cards
	h.recompute()

	dh := handOf(0, deck.Ten, deck.Seven) // 17 exactly
	tbl.dealer.hands = []*Hand{dh}

	total, err := tbl.dealerTurn()
	require.NoError(t, err)
	assert.Equal(t, 17, total)
	assert.Equal(t, 2, len(dh.Cards()))
}

func TestDealerSkipsDrawWhenEveryHandBusted(t *testing.T) {
	t.Parallel()
	tbl := newTestTable(5)
	p := NewPlayer("Alice", 500)
	require.NoError(t, tbl.AddPlayer(p))

	h := p.placeBet(100)
	h.cards = handOf(0, deck.Ten, deck.Nine, deck.Five).cards // busted
	h.recompute()

	dh := handOf(0, deck.Ten, deck.Two) // 12, below threshold
	tbl.dealer.hands = []*Hand{dh}

	total, err := tbl.dealerTurn()
	require.NoError(t, err)
	assert.Equal(t, 12, total)
	assert.Equal(t, 2, len(dh.Cards()), "dealer should not draw into a dead round")
}

func TestCollectBetsRerequestsInvalidAmounts(t *testing.T) {
	t.Parallel()
	tbl := newTestTable(1)
	p := NewPlayer("Alice", 100)
	require.NoError(t, tbl.AddPlayer(p))

	agent := &scriptedAgent{bets: []int{5000, -3, 40}}
	total, err := tbl.collectBets(context.Background(), nil, agent)
	require.NoError(t, err)

	assert.Equal(t, 40, total)
	assert.Equal(t, 60, p.Bankroll())
	require.Len(t, p.Hands(), 1)
	assert.Equal(t, 40, p.Hands()[0].Bet())
}

func TestCollectBetsZeroSitsOut(t *testing.T) {
	t.Parallel()
	tbl := newTestTable(1)
	p := NewPlayer("Alice", 100)
	require.NoError(t, tbl.AddPlayer(p))

	agent := &scriptedAgent{bets: []int{0}}
	total, err := tbl.collectBets(context.Background(), nil, agent)
	require.NoError(t, err)

	assert.Equal(t, 0, total)
	assert.Empty(t, p.Hands())
	assert.Equal(t, 100, p.Bankroll())
}

func TestCollectBetsBrokePlayerSitsOut(t *testing.T) {
	t.Parallel()
	tbl := newTestTable(1)
	p := NewPlayer("Alice", 0)
	require.NoError(t, tbl.AddPlayer(p))

	rec := &recordingSubscriber{}
	tbl.EventBus().Subscribe(rec)

	agent := &scriptedAgent{bets: []int{50}}
	total, err := tbl.collectBets(context.Background(), nil, agent)
	require.NoError(t, err)

	assert.Equal(t, 0, total)
	assert.Equal(t, 0, agent.betCalls, "broke players are never asked to bet")
	assert.Len(t, rec.ofType(EventTypePlayerBroke), 1)
}

func TestPlayRoundReturnsZeroWhenNobodyBets(t *testing.T) {
	t.Parallel()
	tbl := newTestTable(1)
	require.NoError(t, tbl.AddPlayer(NewPlayer("Alice", 100)))
	require.NoError(t, tbl.AddPlayer(NewPlayer("Bob", 100)))

	agent := &scriptedAgent{bets: []int{0, 0}}
	total, err := tbl.PlayRound(context.Background(), nil, agent)
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}

func TestPlayRoundConservesMoneyWithFlatStand(t *testing.T) {
	t.Parallel()
	for seed := int64(0); seed < 50; seed++ {
		tbl := newTestTable(seed)
		alice := NewPlayer("Alice", 500)
		bob := NewPlayer("Bob", 500)
		require.NoError(t, tbl.AddPlayer(alice))
		require.NoError(t, tbl.AddPlayer(bob))

		agents := map[string]Agent{
			"Alice": &scriptedAgent{bets: []int{10}},
			"Bob":   &scriptedAgent{bets: []int{10}},
		}
		total, err := tbl.PlayRound(context.Background(), agents, &scriptedAgent{})
		require.NoError(t, err, "seed %d", seed)
		require.Equal(t, 20, total, "seed %d", seed)

		// Standing players never bust: each ends the round down the bet,
		// up the bet, or up blackjack winnings.
		for _, p := range tbl.Players() {
			delta := p.Bankroll() - 500
			assert.Contains(t, []int{-10, 10, 15}, delta, "seed %d player %s", seed, p.Name)
		}
		// Hands are discarded at end of round
		assert.Empty(t, alice.Hands())
		assert.Empty(t, tbl.Dealer().Hands())
	}
}

func TestPlayRoundInsuranceRecognizedNotResolved(t *testing.T) {
	t.Parallel()
	sawUpcardAce := false
	for seed := int64(0); seed < 100; seed++ {
		tbl := newTestTable(seed)
		require.NoError(t, tbl.AddPlayer(NewPlayer("Alice", 500)))

		rec := &recordingSubscriber{}
		tbl.EventBus().Subscribe(rec)

		agent := &scriptedAgent{bets: []int{10}}
		_, err := tbl.PlayRound(context.Background(), nil, agent)
		require.NoError(t, err, "seed %d", seed)

		var upcard deck.Card
		for _, e := range rec.ofType(EventTypeCardDealt) {
			cd := e.(CardDealtEvent)
			if cd.PlayerName == "Dealer" && !cd.Hidden {
				upcard = cd.Card
				break
			}
		}
		offered := len(rec.ofType(EventTypeInsuranceOffered)) > 0
		assert.Equal(t, upcard.IsAce(), offered, "seed %d upcard %s", seed, upcard)
		if offered {
			sawUpcardAce = true
		}
	}
	assert.True(t, sawUpcardAce, "expected at least one dealer ace across seeds")
}

func TestPlayRoundEventSequence(t *testing.T) {
	t.Parallel()
	tbl := newTestTable(11)
	require.NoError(t, tbl.AddPlayer(NewPlayer("Alice", 500)))

	rec := &recordingSubscriber{}
	tbl.EventBus().Subscribe(rec)

	agent := &scriptedAgent{bets: []int{25}}
	_, err := tbl.PlayRound(context.Background(), nil, agent)
	require.NoError(t, err)

	require.NotEmpty(t, rec.events)
	assert.Equal(t, EventTypeRoundStart, rec.events[0].EventType())
	assert.Equal(t, EventTypeRoundEnd, rec.events[len(rec.events)-1].EventType())

	rebuilds := rec.ofType(EventTypeDeckRebuilt)
	require.Len(t, rebuilds, 1)
	assert.Equal(t, 52, rebuilds[0].(DeckRebuiltEvent).Cards)

	assert.Len(t, rec.ofType(EventTypeBetPlaced), 1)
	assert.GreaterOrEqual(t, len(rec.ofType(EventTypeCardDealt)), 4)
	// Settlement touches every hand exactly once
	settled := len(rec.ofType(EventTypeHandWon)) + len(rec.ofType(EventTypeHandLost))
	assert.Equal(t, 1, settled)
}

func TestAddPlayerRespectsSeatLimit(t *testing.T) {
	t.Parallel()
	tbl := newTestTable(1)
	for i := 0; i < DefaultRules().MaxPlayers; i++ {
		require.NoError(t, tbl.AddPlayer(NewPlayer("p", 100)))
	}
	assert.ErrorIs(t, tbl.AddPlayer(NewPlayer("late", 100)), ErrTableFull)
}
