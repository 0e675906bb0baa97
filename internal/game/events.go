package game

import (
	"time"

	"github.com/lox/blackjack/internal/deck"
)

// EventType represents a game event type with type safety
type EventType string

// EventType constants for game domain events. These are observational:
// subscribers (console output, logging, statistics) react to them but they
// never feed back into game state.
const (
	EventTypePlayerSeated     EventType = "player_seated"
	EventTypeRoundStart       EventType = "round_start"
	EventTypeRoundEnd         EventType = "round_end"
	EventTypeDeckRebuilt      EventType = "deck_rebuilt"
	EventTypeBetPlaced        EventType = "bet_placed"
	EventTypePlayerBroke      EventType = "player_broke"
	EventTypeCardDealt        EventType = "card_dealt"
	EventTypeInsuranceOffered EventType = "insurance_offered"
	EventTypeDealerBlackjack  EventType = "dealer_blackjack"
	EventTypeHandBlackjack    EventType = "hand_blackjack"
	EventTypeHandSplit        EventType = "hand_split"
	EventTypeHandDoubled      EventType = "hand_doubled"
	EventTypeHandBust         EventType = "hand_bust"
	EventTypeDealerReveal     EventType = "dealer_reveal"
	EventTypeDealerBust       EventType = "dealer_bust"
	EventTypeHandWon          EventType = "hand_won"
	EventTypeHandLost         EventType = "hand_lost"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent represents any event that occurs during a session
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

type baseEvent struct {
	timestamp time.Time
}

func (e baseEvent) Timestamp() time.Time { return e.timestamp }

func newBaseEvent() baseEvent {
	return baseEvent{timestamp: time.Now()}
}

// PlayerSeatedEvent is published when a player joins the table
type PlayerSeatedEvent struct {
	baseEvent
	PlayerName string
	Bankroll   int
}

func (e PlayerSeatedEvent) EventType() EventType { return EventTypePlayerSeated }

// RoundStartEvent is published when bet collection for a round begins
type RoundStartEvent struct {
	baseEvent
	Round int
}

func (e RoundStartEvent) EventType() EventType { return EventTypeRoundStart }

// RoundEndEvent is published after settlement completes
type RoundEndEvent struct {
	baseEvent
	Round int
}

func (e RoundEndEvent) EventType() EventType { return EventTypeRoundEnd }

// DeckRebuiltEvent is published when the deck is restored to 52 cards
type DeckRebuiltEvent struct {
	baseEvent
	Cards int
}

func (e DeckRebuiltEvent) EventType() EventType { return EventTypeDeckRebuilt }

// BetPlacedEvent is published when a bet is committed to a hand
type BetPlacedEvent struct {
	baseEvent
	PlayerName string
	Bet        int
}

func (e BetPlacedEvent) EventType() EventType { return EventTypeBetPlaced }

// PlayerBrokeEvent is published when a player cannot cover a minimum bet
type PlayerBrokeEvent struct {
	baseEvent
	PlayerName string
}

func (e PlayerBrokeEvent) EventType() EventType { return EventTypePlayerBroke }

// CardDealtEvent is published for every card dealt. Hidden marks the
// dealer's hole card, which stays face-down until the dealer's turn.
type CardDealtEvent struct {
	baseEvent
	PlayerName string
	Card       deck.Card
	Hidden     bool
	HandValue  int
}

func (e CardDealtEvent) EventType() EventType { return EventTypeCardDealt }

// InsuranceOfferedEvent is published when the dealer's upcard is an ace.
// Insurance is a recognized situation but intentionally unresolved: nothing
// in settlement reacts to it.
type InsuranceOfferedEvent struct {
	baseEvent
	Upcard deck.Card
}

func (e InsuranceOfferedEvent) EventType() EventType { return EventTypeInsuranceOffered }

// DealerBlackjackEvent is published when the dealer is dealt a natural 21,
// which skips all player turns.
type DealerBlackjackEvent struct {
	baseEvent
	Cards []deck.Card
}

func (e DealerBlackjackEvent) EventType() EventType { return EventTypeDealerBlackjack }

// HandBlackjackEvent is published when a player hand is a two-card 21
type HandBlackjackEvent struct {
	baseEvent
	PlayerName string
	Cards      []deck.Card
}

func (e HandBlackjackEvent) EventType() EventType { return EventTypeHandBlackjack }

// HandSplitEvent is published when a pair is split into two hands
type HandSplitEvent struct {
	baseEvent
	PlayerName string
	Rank       deck.Rank
	Bet        int
}

func (e HandSplitEvent) EventType() EventType { return EventTypeHandSplit }

// HandDoubledEvent is published when a hand doubles down
type HandDoubledEvent struct {
	baseEvent
	PlayerName string
	Bet        int // total bet after doubling
}

func (e HandDoubledEvent) EventType() EventType { return EventTypeHandDoubled }

// HandBustEvent is published when a player hand exceeds 21
type HandBustEvent struct {
	baseEvent
	PlayerName string
	Value      int
}

func (e HandBustEvent) EventType() EventType { return EventTypeHandBust }

// DealerRevealEvent is published when the hole card is turned over at the
// start of the dealer's turn.
type DealerRevealEvent struct {
	baseEvent
	Cards []deck.Card
	Value int
}

func (e DealerRevealEvent) EventType() EventType { return EventTypeDealerReveal }

// DealerBustEvent is published when the dealer exceeds 21. Every live player
// hand beats a busted dealer.
type DealerBustEvent struct {
	baseEvent
	Value int
}

func (e DealerBustEvent) EventType() EventType { return EventTypeDealerBust }

// HandWonEvent is published at settlement for each winning hand
type HandWonEvent struct {
	baseEvent
	PlayerName string
	Bet        int
	Payout     int // net winnings, excluding the returned bet
	Blackjack  bool
}

func (e HandWonEvent) EventType() EventType { return EventTypeHandWon }

// HandLostEvent is published at settlement for each forfeited bet: busts,
// losses, and pushes (ties favor the dealer under this engine's rules).
type HandLostEvent struct {
	baseEvent
	PlayerName string
	Bet        int
}

func (e HandLostEvent) EventType() EventType { return EventTypeHandLost }

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus is a basic in-memory event bus. Delivery is synchronous and
// in subscription order; the session is single-threaded so no locking is
// needed.
type SimpleEventBus struct {
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() EventBus {
	return &SimpleEventBus{
		subscribers: make([]EventSubscriber, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber from receiving events
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers
func (bus *SimpleEventBus) Publish(event GameEvent) {
	for _, subscriber := range bus.subscribers {
		subscriber.OnEvent(event)
	}
}
