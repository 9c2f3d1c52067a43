// Package rating implements the Elo-style skill update applied when a
// session concludes. It is pure math: no state, no failure modes.
package rating

import "math"

const (
	// Default is the rating assigned to players with no recorded history.
	Default = 1000

	// KFactor bounds how far a single result can move a rating.
	KFactor = 20
)

// Scores a concluded session contributes to the update, one per participant.
// Win and loss are complements; a draw scores both sides equally.
const (
	ScoreWin  = 1.0
	ScoreDraw = 0.5
	ScoreLoss = 0.0
)

// ExpectedScore returns the probability-like expectation of a scoring
// against b under the Elo model.
func ExpectedScore(a, b float64) float64 {
	return 1 / (1 + math.Pow(10, (b-a)/400))
}

// New returns the revised rating for a player with the given current
// rating, opponent rating, and achieved score.
func New(current, opponent, score float64) float64 {
	return current + KFactor*(score-ExpectedScore(current, opponent))
}

// Pair computes both sides of one concluded session. scoreA is the first
// player's score; the second player receives its complement. Both updates
// are computed from the pre-session ratings so the transform is symmetric.
func Pair(a, b, scoreA float64) (newA, newB float64) {
	return New(a, b, scoreA), New(b, a, 1-scoreA)
}
