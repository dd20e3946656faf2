package game

import "time"

const (
	baseScore = 1000
	// minScore is the floor for any solved case, no matter how sloppy the
	// investigation.
	minScore = 100

	questionPenaltyPerQuestion = 10
	questionPenaltyCap         = 500

	hintPenaltyPerHint = 100

	timePenaltyPerMinute = 5
	timePenaltyCap       = 200
)

// Score computes the final score for a correctly solved case. It is a pure
// function of the session's counters and elapsed time; an incorrect
// accusation never reaches it and always scores zero.
func Score(questionsAsked, hintsUsed int, elapsed time.Duration) int {
	questionPenalty := questionsAsked * questionPenaltyPerQuestion
	if questionPenalty > questionPenaltyCap {
		questionPenalty = questionPenaltyCap
	}

	hintPenalty := hintsUsed * hintPenaltyPerHint

	timePenalty := int(elapsed.Minutes()) * timePenaltyPerMinute
	if timePenalty > timePenaltyCap {
		timePenalty = timePenaltyCap
	}

	score := baseScore - questionPenalty - hintPenalty - timePenalty
	if score < minScore {
		return minScore
	}
	return score
}
