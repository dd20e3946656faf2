package models

import (
	"time"
)

// EntryType tells who produced a conversation entry.
type EntryType string

const (
	EntryTypePlayer    EntryType = "player"
	EntryTypeNarrator  EntryType = "narrator"
	EntryTypeCharacter EntryType = "character"
)

// ConversationEntry is one turn of the investigation. Entries are immutable
// once appended and the slice order is the chronological order.
type ConversationEntry struct {
	ID        string    `json:"id"`
	Type      EntryType `json:"type"`
	// Speaker is set iff Type is EntryTypeCharacter.
	Speaker     string    `json:"speaker,omitempty"`
	Message     string    `json:"message"`
	Timestamp   time.Time `json:"timestamp"`
	RevealsClue string    `json:"revealsClue,omitempty"`
}

// Session is one player's run through a case file. It is created at game
// start and mutated only by the game controller. Once CompletedAt is set the
// session is terminal.
type Session struct {
	ID              string    `json:"id"`
	CaseID          string    `json:"caseId"`
	Case            *CaseFile `json:"script"`
	IllustrationURL string    `json:"caseImageUrl,omitempty"`

	StartedAt   time.Time  `json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`

	// Conversation is append-only.
	Conversation []ConversationEntry `json:"conversation"`

	// Tracking sets grow monotonically and hold no duplicates.
	DiscoveredClues       []string `json:"discoveredClues"`
	InterviewedCharacters []string `json:"interviewedCharacters"`
	VisitedLocations      []string `json:"visitedLocations"`
	PlayerNotes           []string `json:"playerNotes"`

	// IsSolved becomes true only on a correct accusation. It stays false
	// forever after a wrong accusation or a give-up.
	IsSolved bool `json:"isSolved"`
	// Attempts is reserved for multi-session statistics.
	Attempts int `json:"attempts"`
}

// Completed reports whether the session has reached its terminal state.
func (s *Session) Completed() bool {
	return s.CompletedAt != nil
}

// Append adds an entry to the conversation log.
func (s *Session) Append(entry ConversationEntry) {
	s.Conversation = append(s.Conversation, entry)
}

// LastEntry returns the most recent conversation entry, or nil for an empty log.
func (s *Session) LastEntry() *ConversationEntry {
	if len(s.Conversation) == 0 {
		return nil
	}
	return &s.Conversation[len(s.Conversation)-1]
}

// RecordClue adds a clue id to the discovered set if it is not already there.
func (s *Session) RecordClue(clue string) {
	s.DiscoveredClues = appendUnique(s.DiscoveredClues, clue)
}

// RecordInterview adds a character name to the interviewed set.
func (s *Session) RecordInterview(name string) {
	s.InterviewedCharacters = appendUnique(s.InterviewedCharacters, name)
}

// RecordVisit adds a location name to the visited set.
func (s *Session) RecordVisit(name string) {
	s.VisitedLocations = appendUnique(s.VisitedLocations, name)
}

// AddNote appends a free-text player note, skipping duplicates.
func (s *Session) AddNote(note string) {
	s.PlayerNotes = appendUnique(s.PlayerNotes, note)
}

func appendUnique(set []string, value string) []string {
	if value == "" {
		return set
	}
	for _, existing := range set {
		if existing == value {
			return set
		}
	}
	return append(set, value)
}
