package game

// Player holds a seat at the table: a name, a bankroll that persists across
// rounds, and the hands currently in play (none when sitting out, one
// normally, more after splits). Hands are rebuilt every round.
type Player struct {
	Name     string
	bankroll int
	hands    []*Hand
	dealer   bool
}

// NewPlayer creates a player with a starting bankroll
func NewPlayer(name string, bankroll int) *Player {
	return &Player{
		Name:     name,
		bankroll: bankroll,
	}
}

func newDealer() *Player {
	return &Player{Name: "Dealer", dealer: true}
}

// Bankroll returns the player's current bankroll
func (p *Player) Bankroll() int {
	return p.bankroll
}

// Hands returns the player's hands for the current round
func (p *Player) Hands() []*Hand {
	return p.hands
}

// IsDealer reports whether this seat is the house
func (p *Player) IsDealer() bool {
	return p.dealer
}

// placeBet debits the bet from the bankroll and opens a hand for it. The
// caller has already validated 1 <= bet <= bankroll.
func (p *Player) placeBet(bet int) *Hand {
	p.bankroll -= bet
	h := newHand(bet)
	p.hands = append(p.hands, h)
	return h
}

func (p *Player) clearHands() {
	p.hands = nil
}

func (p *Player) view() PlayerView {
	return PlayerView{Name: p.Name, Bankroll: p.bankroll}
}
