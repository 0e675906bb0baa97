// Package statistics aggregates round outcomes from simulated play.
package statistics

import (
	"fmt"
	"math"
	"strings"
)

// Statistics tracks outcomes across simulated rounds. Net results are in
// betting units (net bankroll change per round divided by the flat bet) so
// runs with different bet sizes are comparable.
type Statistics struct {
	Rounds int
	Sum    float64 // sum of per-round net units
	Sum2   float64 // sum of squares for variance

	// Hand outcome counts
	Hands      int
	Wins       int
	Losses     int
	Blackjacks int
	Busts      int
}

// RecordRound adds one round's net result in units
func (s *Statistics) RecordRound(netUnits float64) {
	s.Rounds++
	s.Sum += netUnits
	s.Sum2 += netUnits * netUnits
}

// Mean returns the average net units per round
func (s *Statistics) Mean() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.Sum / float64(s.Rounds)
}

// Variance returns the sample variance of per-round results
func (s *Statistics) Variance() float64 {
	if s.Rounds < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.Sum2 - float64(s.Rounds)*mean*mean) / float64(s.Rounds-1)
}

// StdDev returns the sample standard deviation
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Rounds))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	margin := 1.96 * s.StdError()
	return s.Mean() - margin, s.Mean() + margin
}

// WinRate returns the fraction of settled hands that won
func (s *Statistics) WinRate() float64 {
	if s.Hands == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Hands)
}

// Merge folds another set of results into this one
func (s *Statistics) Merge(other *Statistics) {
	s.Rounds += other.Rounds
	s.Sum += other.Sum
	s.Sum2 += other.Sum2
	s.Hands += other.Hands
	s.Wins += other.Wins
	s.Losses += other.Losses
	s.Blackjacks += other.Blackjacks
	s.Busts += other.Busts
}

// Summary renders a human-readable report
func (s *Statistics) Summary() string {
	var b strings.Builder
	lo, hi := s.ConfidenceInterval95()
	fmt.Fprintf(&b, "Rounds played:     %d\n", s.Rounds)
	fmt.Fprintf(&b, "Hands settled:     %d\n", s.Hands)
	fmt.Fprintf(&b, "Wins / losses:     %d / %d (%.1f%% win rate)\n", s.Wins, s.Losses, s.WinRate()*100)
	fmt.Fprintf(&b, "Blackjacks:        %d\n", s.Blackjacks)
	fmt.Fprintf(&b, "Player busts:      %d\n", s.Busts)
	fmt.Fprintf(&b, "Net units/round:   %+.4f ± %.4f (95%% CI %+.4f to %+.4f)\n", s.Mean(), 1.96*s.StdError(), lo, hi)
	fmt.Fprintf(&b, "Std deviation:     %.4f\n", s.StdDev())
	return b.String()
}
