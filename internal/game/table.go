package game

import (
	"context"
	"errors"
	"fmt"

	rand "math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/deck"
)

// dealerStand is the total at which the dealer stops drawing. The dealer
// hits on everything below it, including soft 17.
const dealerStand = 17

// ErrSessionAborted signals that the user interrupted the session. The
// in-flight round is abandoned; bet debits already committed are not rolled
// back.
var ErrSessionAborted = errors.New("session aborted")

// ErrTableFull is returned when adding a player beyond the seat limit
var ErrTableFull = errors.New("table is full")

// Rules holds the house rules that are configurable for a table
type Rules struct {
	// MaxPlayers is the number of seats at the table
	MaxPlayers int

	// MaxSplitHands caps how many hands a player can hold after re-splits
	MaxSplitHands int
}

// DefaultRules returns the standard house rules
func DefaultRules() Rules {
	return Rules{
		MaxPlayers:    4,
		MaxSplitHands: 4,
	}
}

// Table owns the deck, the dealer, and the seated players, and runs one
// round at a time: betting, dealing, player turns, the dealer's fixed-policy
// turn, and settlement. Seating order is fixed for the session and every
// phase touches each seated player exactly once in that order.
type Table struct {
	deck    *deck.Deck
	dealer  *Player
	players []*Player
	rules   Rules
	bus     EventBus
	logger  *log.Logger
	round   int
}

// NewTable creates a table with a fresh deck drawing from rng
func NewTable(rng *rand.Rand, rules Rules, logger *log.Logger) *Table {
	return &Table{
		deck:   deck.New(rng),
		dealer: newDealer(),
		rules:  rules,
		bus:    NewEventBus(),
		logger: logger,
	}
}

// EventBus returns the table's event bus for subscribing to game events
func (t *Table) EventBus() EventBus {
	return t.bus
}

// Players returns the seated players in seating order
func (t *Table) Players() []*Player {
	return t.players
}

// Dealer returns the house player
func (t *Table) Dealer() *Player {
	return t.dealer
}

// AddPlayer seats a player at the table
func (t *Table) AddPlayer(p *Player) error {
	if len(t.players) >= t.rules.MaxPlayers {
		return ErrTableFull
	}
	t.players = append(t.players, p)
	t.bus.Publish(PlayerSeatedEvent{newBaseEvent(), p.Name, p.bankroll})
	return nil
}

// PlayRound runs one complete round and returns the total bets collected.
// A zero total means every player sat out (or is broke) and the session
// should end. Agents are looked up by player name, falling back to
// defaultAgent.
func (t *Table) PlayRound(ctx context.Context, agents map[string]Agent, defaultAgent Agent) (int, error) {
	t.round++
	t.bus.Publish(RoundStartEvent{newBaseEvent(), t.round})
	defer t.clearHands()

	total, err := t.collectBets(ctx, agents, defaultAgent)
	if err != nil || total == 0 {
		return total, err
	}

	if err := t.deal(); err != nil {
		return total, err
	}
	return total, t.playDealtRound(ctx, agents, defaultAgent)
}

// playDealtRound runs the turns and settlement for a round whose bets are
// collected and cards dealt.
func (t *Table) playDealtRound(ctx context.Context, agents map[string]Agent, defaultAgent Agent) error {
	dh := t.dealer.hands[0]
	if len(dh.cards) == 2 && dh.value == blackjackTarget {
		// Natural dealer blackjack: player turns are skipped and settlement
		// runs immediately against the dealer's 21.
		t.bus.Publish(DealerBlackjackEvent{newBaseEvent(), dh.Cards()})
		t.settle(blackjackTarget)
		t.bus.Publish(RoundEndEvent{newBaseEvent(), t.round})
		return nil
	}

	for _, p := range t.players {
		if len(p.hands) == 0 {
			continue
		}
		// Splits append to p.hands and are played by recursion, so only the
		// original hand is entered here.
		if err := t.playHand(ctx, p, p.hands[0], t.agentFor(p, agents, defaultAgent)); err != nil {
			return err
		}
	}

	dealerTotal, err := t.dealerTurn()
	if err != nil {
		return err
	}

	t.settle(dealerTotal)
	t.bus.Publish(RoundEndEvent{newBaseEvent(), t.round})
	return nil
}

func (t *Table) agentFor(p *Player, agents map[string]Agent, defaultAgent Agent) Agent {
	if agents != nil && agents[p.Name] != nil {
		return agents[p.Name]
	}
	return defaultAgent
}

// collectBets queries each seated player in order. Invalid amounts are
// re-requested; the interactive collaborator validates too, so this is a
// backstop for scripted agents. Broke players sit out automatically.
func (t *Table) collectBets(ctx context.Context, agents map[string]Agent, defaultAgent Agent) (int, error) {
	total := 0
	for _, p := range t.players {
		if p.bankroll < 1 {
			t.bus.Publish(PlayerBrokeEvent{newBaseEvent(), p.Name})
			continue
		}
		agent := t.agentFor(p, agents, defaultAgent)
		for {
			bet, err := agent.BetAmount(ctx, p.view())
			if err != nil {
				return total, err
			}
			if bet == 0 {
				break // sitting out this round
			}
			if bet < 1 || bet > p.bankroll {
				t.logger.Warn("invalid bet, re-requesting", "player", p.Name, "bet", bet, "bankroll", p.bankroll)
				continue
			}
			h := p.placeBet(bet)
			t.bus.Publish(BetPlacedEvent{newBaseEvent(), p.Name, h.bet})
			total += bet
			break
		}
	}
	return total, nil
}

// deal rebuilds the deck and deals the opening two cards: one to each
// betting player in seating order then one to the dealer face-up, then a
// second to each player and the dealer's hole card face-down.
func (t *Table) deal() error {
	t.deck.Rebuild()
	t.bus.Publish(DeckRebuiltEvent{newBaseEvent(), t.deck.Remaining()})

	t.dealer.hands = []*Hand{newHand(0)}
	dh := t.dealer.hands[0]

	for pass := 0; pass < 2; pass++ {
		for _, p := range t.players {
			if len(p.hands) == 0 {
				continue
			}
			if err := t.dealCard(p.Name, p.hands[0], false); err != nil {
				return err
			}
		}
		// hole card on the second pass
		if err := t.dealCard(t.dealer.Name, dh, pass == 1); err != nil {
			return err
		}
	}

	if dh.cards[0].IsAce() {
		// Recognized but unresolved: nothing downstream consumes insurance.
		t.bus.Publish(InsuranceOfferedEvent{newBaseEvent(), dh.cards[0]})
	}
	return nil
}

func (t *Table) dealCard(playerName string, h *Hand, hidden bool) error {
	card, err := t.deck.Draw()
	if err != nil {
		return fmt.Errorf("dealing to %s: %w", playerName, err)
	}
	h.addCard(card)
	t.bus.Publish(CardDealtEvent{newBaseEvent(), playerName, card, hidden, h.value})
	return nil
}

// playHand runs the play state machine for one hand. Splitting creates a
// second hand and recurses into both, so a single call settles a whole
// split tree.
func (t *Table) playHand(ctx context.Context, p *Player, h *Hand, agent Agent) error {
	h.hasActed = true
	h.state = HandInPlay

	if h.value == blackjackTarget {
		h.blackjack = true
		h.state = HandBlackjack
		t.bus.Publish(HandBlackjackEvent{newBaseEvent(), p.Name, h.Cards()})
		return nil
	}

	if h.canSplitPair() && p.bankroll >= h.bet && len(p.hands) < t.rules.MaxSplitHands {
		wants, err := agent.WantsSplit(ctx, t.handView(p, h, false))
		if err != nil {
			return err
		}
		if wants {
			nh, err := t.split(p, h)
			if err != nil {
				return err
			}
			if err := t.playHand(ctx, p, h, agent); err != nil {
				return err
			}
			return t.playHand(ctx, p, nh, agent)
		}
	}

	first := true
	for {
		if h.value > blackjackTarget {
			h.state = HandBusted
			t.bus.Publish(HandBustEvent{newBaseEvent(), p.Name, h.value})
			return nil
		}

		canDouble := first && p.bankroll >= h.bet
		action, err := agent.NextAction(ctx, t.handView(p, h, canDouble))
		if err != nil {
			return err
		}

		switch action {
		case ActionHit:
			if err := t.dealCard(p.Name, h, false); err != nil {
				return err
			}
			first = false
		case ActionStand:
			h.state = HandStood
			return nil
		case ActionDouble:
			if !canDouble {
				t.logger.Warn("double not available, re-requesting", "player", p.Name)
				continue
			}
			p.bankroll -= h.bet
			h.bet *= 2
			t.bus.Publish(HandDoubledEvent{newBaseEvent(), p.Name, h.bet})
			if err := t.dealCard(p.Name, h, false); err != nil {
				return err
			}
			h.state = HandDoubled
			if h.value > blackjackTarget {
				t.bus.Publish(HandBustEvent{newBaseEvent(), p.Name, h.value})
			}
			return nil
		}
	}
}

// split debits a matching bet, moves the second card to a new hand, and
// deals one replacement card to each half.
func (t *Table) split(p *Player, h *Hand) (*Hand, error) {
	p.bankroll -= h.bet
	nh := h.splitOff()
	p.hands = append(p.hands, nh)
	t.bus.Publish(HandSplitEvent{newBaseEvent(), p.Name, h.cards[0].Rank, h.bet})

	if err := t.dealCard(p.Name, h, false); err != nil {
		return nil, err
	}
	if err := t.dealCard(p.Name, nh, false); err != nil {
		return nil, err
	}
	return nh, nil
}

func (t *Table) handView(p *Player, h *Hand, canDouble bool) HandView {
	cards := make([]deck.Card, len(h.cards))
	copy(cards, h.cards)
	return HandView{
		PlayerName:   p.Name,
		Bankroll:     p.bankroll,
		Cards:        cards,
		Value:        h.value,
		Bet:          h.bet,
		DealerUpcard: t.dealer.hands[0].cards[0],
		CanDouble:    canDouble,
	}
}

// dealerTurn reveals the hole card and runs the fixed policy: hit while
// under 17, but only if at least one player hand is still live. Returns the
// dealer's total for comparison, forced to 0 on a dealer bust so every
// remaining player hand beats it.
func (t *Table) dealerTurn() (int, error) {
	dh := t.dealer.hands[0]
	t.bus.Publish(DealerRevealEvent{newBaseEvent(), dh.Cards(), dh.value})

	anyLive := false
	for _, p := range t.players {
		for _, h := range p.hands {
			if h.value <= blackjackTarget {
				anyLive = true
			}
		}
	}

	for anyLive && dh.value < dealerStand {
		if err := t.dealCard(t.dealer.Name, dh, false); err != nil {
			return 0, err
		}
	}

	if dh.value > blackjackTarget {
		t.bus.Publish(DealerBustEvent{newBaseEvent(), dh.value})
		return 0, nil
	}
	return dh.value, nil
}

// settle pays out every player hand independently against the dealer total.
// Blackjacks pay 3:2 rounded half-up; other winners pay 1:1; busts, losses
// and pushes forfeit the bet. Winning bankrolls get the bet back plus the
// payout; losing bets were already debited at hand creation.
func (t *Table) settle(dealerTotal int) {
	for _, p := range t.players {
		for _, h := range p.hands {
			payout := 0
			switch {
			case h.blackjack:
				payout = (h.bet*3 + 1) / 2
			case h.value <= blackjackTarget && h.value > dealerTotal:
				payout = h.bet
			}
			if payout > 0 {
				p.bankroll += h.bet + payout
				t.bus.Publish(HandWonEvent{newBaseEvent(), p.Name, h.bet, payout, h.blackjack})
			} else {
				t.bus.Publish(HandLostEvent{newBaseEvent(), p.Name, h.bet})
			}
		}
	}
}

func (t *Table) clearHands() {
	for _, p := range t.players {
		p.clearHands()
	}
	t.dealer.clearHands()
}
