package models

// GameMasterTurn is the structured verdict the oracle returns for one player
// turn. The engine trusts the classification fields; the narrated text is
// used only when the turn is not an accusation.
type GameMasterTurn struct {
	Response string    `json:"response"`
	Type     EntryType `json:"type"`
	// Speaker is set iff Type is EntryTypeCharacter.
	Speaker     string `json:"speaker,omitempty"`
	RevealsClue string `json:"revealsClue,omitempty"`
	// IsSolved reports that the player made their one final accusation,
	// right or wrong.
	IsSolved bool `json:"isSolved"`
	// IsCorrectSolution is meaningful only when IsSolved is true.
	IsCorrectSolution bool `json:"isCorrectSolution"`
}
