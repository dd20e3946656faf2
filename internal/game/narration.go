package game

import (
	"fmt"
	"strings"

	"github.com/myrjola/gumshoe/internal/models"
)

// The ending texts are synthesized locally and never depend on the oracle,
// so the solution is always revealed in a consistent format and game
// termination works even during an oracle outage.

// hints is a fixed set of generic nudges. Delivery rotates through the set
// in order and does not depend on case content.
var hints = []string{
	"Consider the timeline carefully. Not everyone was where they claimed to be.",
	"One of the suspects has a secret they're desperately trying to hide.",
	"The evidence at the crime scene tells a different story than what you've been told.",
	"Focus on the motive. Who had the most to gain from the victim's death?",
	"Sometimes the most obvious suspect is just a red herring.",
}

func openingNarration(caseFile *models.CaseFile) string {
	return fmt.Sprintf("%s\n\nThe case is yours, detective. Where do you begin?",
		caseFile.Setting.Atmosphere)
}

func hintText(rules models.Rules) string {
	hint := hints[(rules.HintsUsed-1)%len(hints)]

	remaining := rules.HintsRemaining()
	closing := "No more hints available."
	if remaining > 0 {
		closing = fmt.Sprintf("You have %d hint(s) remaining.", remaining)
	}

	return fmt.Sprintf("HINT %d/%d: %s\n%s", rules.HintsUsed, rules.MaxHints, hint, closing)
}

func rating(score int) string {
	switch {
	case score >= 900:
		return "Master Detective"
	case score >= 700:
		return "Senior Investigator"
	case score >= 500:
		return "Detective"
	case score >= 300:
		return "Junior Detective"
	default:
		return "Rookie"
	}
}

func victoryNarration(score int, rules models.Rules) string {
	return fmt.Sprintf(`CASE SOLVED!

Excellent work, detective. You've cracked the case.

Your Score: %d points
Rating: %s
Questions Asked: %d
Hints Used: %d/%d

The city's a little safer tonight thanks to your keen eye for justice.`,
		score, rating(score), rules.QuestionsAsked, rules.HintsUsed, rules.MaxHints)
}

func failureNarration(solution models.Solution, rules models.Rules) string {
	return fmt.Sprintf(`WRONG ACCUSATION - CASE FAILED

You've accused the wrong person. In this business, you only get one shot at justice.

Your Score: 0 points
Questions Asked: %d
Hints Used: %d/%d

The real killer was %s.
%s killed the victim using %s.
The motive: %s

Sometimes the truth stays hidden in the shadows. Better luck next time, detective.`,
		rules.QuestionsAsked, rules.HintsUsed, rules.MaxHints,
		solution.Murderer, solution.Murderer, solution.Method, solution.Motive)
}

func giveUpNarration(solution models.Solution) string {
	return fmt.Sprintf(`You've decided to close the case. Here's what really happened:

The murderer was %s.

%s killed the victim using %s.

The motive: %s

The key evidence that would have solved the case: %s

Sometimes the truth stays buried in the shadows of this city. Better luck next time, detective.`,
		solution.Murderer, solution.Murderer, solution.Method, solution.Motive,
		strings.Join(solution.KeyEvidence, ", "))
}
