package models

import "time"

// MaxHints is the number of hints a player may use in one session.
const MaxHints = 2

// Rules tracks the per-session counters that feed the score. The record is
// process-local: it shares the session's lifetime but is not part of the
// persisted session blob.
type Rules struct {
	MaxHints       int
	HintsUsed      int
	QuestionsAsked int
	StartTime      time.Time
}

// NewRules returns a fresh rules record for a session starting now.
func NewRules(start time.Time) Rules {
	return Rules{
		MaxHints:  MaxHints,
		StartTime: start,
	}
}

// HintsRemaining reports how many hints the player may still request.
func (r *Rules) HintsRemaining() int {
	return r.MaxHints - r.HintsUsed
}
