// Package console is the interactive collaborator for a table session. It
// answers the engine's decision queries by prompting on the terminal and
// prints the table's events as they happen. All input validation and
// re-prompting lives here; the engine only sees final answers.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/chzyer/readline"

	"github.com/lox/blackjack/internal/game"
)

// Styles contains terminal styling for the console
type Styles struct {
	Prompt    lipgloss.Style
	Info      lipgloss.Style
	Success   lipgloss.Style
	Error     lipgloss.Style
	Warning   lipgloss.Style
	RedCard   lipgloss.Style
	BlackCard lipgloss.Style
	Money     lipgloss.Style
}

// DefaultStyles returns the standard console styling
func DefaultStyles() *Styles {
	return &Styles{
		Prompt:    lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true),
		Info:      lipgloss.NewStyle().Foreground(lipgloss.Color("#626262")),
		Success:   lipgloss.NewStyle().Foreground(lipgloss.Color("#96CEB4")).Bold(true),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
		Warning:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FFEAA7")).Bold(true),
		RedCard:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
		BlackCard: lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA")).Bold(true),
		Money:     lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700")).Bold(true),
	}
}

// Console prompts a human for decisions and renders game events. It
// implements both game.Agent and game.EventSubscriber.
type Console struct {
	rl        *readline.Instance
	styles    *Styles
	formatter *game.EventFormatter
	out       io.Writer
}

// New creates a console attached to the terminal
func New() (*Console, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return nil, fmt.Errorf("initializing readline: %w", err)
	}
	return &Console{
		rl:        rl,
		styles:    DefaultStyles(),
		formatter: game.NewEventFormatter(game.FormattingOptions{}),
		out:       rl.Stdout(),
	}, nil
}

// Close releases the terminal
func (c *Console) Close() error {
	return c.rl.Close()
}

// OnEvent prints a formatted line for each observable game event
func (c *Console) OnEvent(event game.GameEvent) {
	line := c.formatter.Format(event)
	if line == "" {
		return
	}
	switch event.EventType() {
	case game.EventTypeHandBlackjack, game.EventTypeHandWon:
		line = c.styles.Success.Render(line)
	case game.EventTypeHandBust, game.EventTypeHandLost, game.EventTypePlayerBroke:
		line = c.styles.Error.Render(line)
	case game.EventTypeInsuranceOffered, game.EventTypeDealerBlackjack:
		line = c.styles.Warning.Render(line)
	case game.EventTypeDeckRebuilt, game.EventTypeCardDealt:
		line = c.styles.Info.Render(line)
	}
	fmt.Fprintln(c.out, line)
}

// PlayerCount prompts for the number of players, re-prompting until the
// answer is in [1, max].
func (c *Console) PlayerCount(ctx context.Context, max int) (int, error) {
	for {
		answer, err := c.prompt(ctx, "How many players? ")
		if err != nil {
			return 0, err
		}
		n, convErr := strconv.Atoi(answer)
		if convErr != nil || n < 1 || n > max {
			fmt.Fprintln(c.out, c.styles.Error.Render(fmt.Sprintf("Invalid player count. Enter a number from 1 to %d.", max)))
			continue
		}
		return n, nil
	}
}

// PlayerName prompts for the name of the player in the given seat
func (c *Console) PlayerName(ctx context.Context, seat int) (string, error) {
	for {
		name, err := c.prompt(ctx, fmt.Sprintf("Player %d, enter your name: ", seat))
		if err != nil {
			return "", err
		}
		if name != "" {
			return name, nil
		}
	}
}

// BetAmount prompts for a bet in [1, bankroll]; 0 sits the round out
func (c *Console) BetAmount(ctx context.Context, view game.PlayerView) (int, error) {
	for {
		q := fmt.Sprintf("%s, you have %s. Place your bet (0 to sit out): ",
			view.Name, c.styles.Money.Render(fmt.Sprintf("$%d", view.Bankroll)))
		answer, err := c.prompt(ctx, q)
		if err != nil {
			return 0, err
		}
		bet, convErr := strconv.Atoi(answer)
		if convErr != nil || bet < 0 || bet > view.Bankroll {
			fmt.Fprintln(c.out, c.styles.Error.Render(fmt.Sprintf("%s, place a valid bet this time", view.Name)))
			continue
		}
		return bet, nil
	}
}

// WantsSplit asks whether to split the pair in view
func (c *Console) WantsSplit(ctx context.Context, view game.HandView) (bool, error) {
	c.showHand(view)
	for {
		answer, err := c.prompt(ctx, "Do you want to split? (y/n) ")
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
	}
}

// NextAction asks for the next play on the hand in view
func (c *Console) NextAction(ctx context.Context, view game.HandView) (game.Action, error) {
	c.showHand(view)
	options := "(H)it, (S)tand"
	if view.CanDouble {
		options += ", (D)ouble"
	}
	for {
		answer, err := c.prompt(ctx, options+" ")
		if err != nil {
			return game.ActionStand, err
		}
		switch strings.ToLower(answer) {
		case "h", "hit":
			return game.ActionHit, nil
		case "s", "stand", "stay":
			return game.ActionStand, nil
		case "d", "double":
			if view.CanDouble {
				return game.ActionDouble, nil
			}
		}
	}
}

func (c *Console) showHand(view game.HandView) {
	cards := make([]string, len(view.Cards))
	for i, card := range view.Cards {
		if card.IsRed() {
			cards[i] = c.styles.RedCard.Render(card.String())
		} else {
			cards[i] = c.styles.BlackCard.Render(card.String())
		}
	}
	fmt.Fprintf(c.out, "%s's cards: %s  Total: %d  (dealer shows %s)\n",
		view.PlayerName, strings.Join(cards, " "), view.Value, view.DealerUpcard)
}

// prompt reads one trimmed line. An interrupt or EOF becomes
// game.ErrSessionAborted so the engine abandons the round cleanly.
func (c *Console) prompt(ctx context.Context, question string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", game.ErrSessionAborted
	}
	c.rl.SetPrompt(c.styles.Prompt.Render(question))
	line, err := c.rl.Readline()
	switch {
	case errors.Is(err, readline.ErrInterrupt), errors.Is(err, io.EOF):
		return "", game.ErrSessionAborted
	case err != nil:
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
