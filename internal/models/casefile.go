package models

import (
	"log/slog"

	"github.com/myrjola/gumshoe/internal/errors"
)

// CaseFile is the static definition of one mystery: the victim, the
// suspects, the evidence, and the solution. It is produced once when a game
// starts and is read-only afterwards.
type CaseFile struct {
	ID      string   `json:"id" yaml:"id"`
	Title   string   `json:"title" yaml:"title"`
	Setting Setting  `json:"setting" yaml:"setting"`
	Crime   Crime    `json:"crime" yaml:"crime"`
	// Solution is never handed to the presentation layer before the game is
	// over.
	Solution Solution  `json:"solution" yaml:"solution"`
	Suspects []Suspect `json:"suspects" yaml:"suspects"`

	// The fields below are reference material for the oracle. The game
	// engine never interprets them.
	Witnesses      []Witness      `json:"witnesses" yaml:"witnesses"`
	RedHerrings    []RedHerring   `json:"redHerrings" yaml:"redHerrings"`
	Timeline       []TimelineItem `json:"timeline" yaml:"timeline"`
	Locations      []Location     `json:"locations" yaml:"locations"`
	KeyRevelations []Revelation   `json:"keyRevelations" yaml:"keyRevelations"`
}

type Setting struct {
	Time       string `json:"time" yaml:"time"`
	Location   string `json:"location" yaml:"location"`
	Atmosphere string `json:"atmosphere" yaml:"atmosphere"`
}

type Crime struct {
	Victim       Victim     `json:"victim" yaml:"victim"`
	TimeOfDeath  string     `json:"timeOfDeath" yaml:"timeOfDeath"`
	CauseOfDeath string     `json:"causeOfDeath" yaml:"causeOfDeath"`
	Scene        CrimeScene `json:"crimeScene" yaml:"crimeScene"`
}

type Victim struct {
	Name        string `json:"name" yaml:"name"`
	Age         int    `json:"age" yaml:"age"`
	Occupation  string `json:"occupation" yaml:"occupation"`
	Personality string `json:"personality" yaml:"personality"`
	Background  string `json:"background" yaml:"background"`
}

type CrimeScene struct {
	Location    string     `json:"location" yaml:"location"`
	Description string     `json:"description" yaml:"description"`
	Evidence    []Evidence `json:"evidence" yaml:"evidence"`
}

type Evidence struct {
	Item         string `json:"item" yaml:"item"`
	Description  string `json:"description" yaml:"description"`
	Significance string `json:"significance" yaml:"significance"`
	// IsRedHerring is authored case data, never assigned at load time.
	IsRedHerring bool `json:"isRedHerring" yaml:"isRedHerring"`
}

type Solution struct {
	Murderer    string   `json:"murderer" yaml:"murderer"`
	Method      string   `json:"method" yaml:"method"`
	Motive      string   `json:"motive" yaml:"motive"`
	Opportunity string   `json:"opportunity" yaml:"opportunity"`
	KeyEvidence []string `json:"keyEvidence" yaml:"keyEvidence"`
}

type Suspect struct {
	Name         string `json:"name" yaml:"name"`
	Age          int    `json:"age" yaml:"age"`
	Occupation   string `json:"occupation" yaml:"occupation"`
	Relationship string `json:"relationship" yaml:"relationship"`
	Personality  string `json:"personality" yaml:"personality"`
	Alibi        string `json:"alibi" yaml:"alibi"`
	SecretOrLie  string `json:"secretOrLie" yaml:"secretOrLie"`
	Motive       string `json:"motive" yaml:"motive"`
	IsGuilty     bool   `json:"isGuilty" yaml:"isGuilty"`
}

type Witness struct {
	Name        string `json:"name" yaml:"name"`
	Role        string `json:"role" yaml:"role"`
	Information string `json:"information" yaml:"information"`
	Reliability string `json:"reliability" yaml:"reliability"`
}

type RedHerring struct {
	Description   string `json:"description" yaml:"description"`
	WhyMisleading string `json:"whyMisleading" yaml:"whyMisleading"`
}

type TimelineItem struct {
	Time       string `json:"time" yaml:"time"`
	Event      string `json:"event" yaml:"event"`
	IsRelevant bool   `json:"isRelevant" yaml:"isRelevant"`
}

type Location struct {
	Name              string   `json:"name" yaml:"name"`
	Description       string   `json:"description" yaml:"description"`
	AvailableEvidence []string `json:"availableEvidence" yaml:"availableEvidence"`
}

type Revelation struct {
	Trigger    string `json:"trigger" yaml:"trigger"`
	Revelation string `json:"revelation" yaml:"revelation"`
	Importance string `json:"importance" yaml:"importance"`
}

var ErrInvalidCaseFile = errors.NewSentinel("invalid case file")

// Validate checks the structural invariants of a case file. In particular,
// exactly one suspect must be guilty and that suspect's name must equal the
// solution's murderer.
func (c *CaseFile) Validate() error {
	if c.ID == "" {
		return errors.Wrap(ErrInvalidCaseFile, "missing id")
	}
	if c.Title == "" {
		return errors.Wrap(ErrInvalidCaseFile, "missing title", slog.String("id", c.ID))
	}
	if c.Solution.Murderer == "" {
		return errors.Wrap(ErrInvalidCaseFile, "missing murderer", slog.String("id", c.ID))
	}
	if len(c.Suspects) == 0 {
		return errors.Wrap(ErrInvalidCaseFile, "no suspects", slog.String("id", c.ID))
	}

	guilty := 0
	for _, suspect := range c.Suspects {
		if !suspect.IsGuilty {
			continue
		}
		guilty++
		if suspect.Name != c.Solution.Murderer {
			return errors.Wrap(ErrInvalidCaseFile, "guilty suspect does not match murderer",
				slog.String("id", c.ID),
				slog.String("suspect", suspect.Name),
				slog.String("murderer", c.Solution.Murderer))
		}
	}
	if guilty != 1 {
		return errors.Wrap(ErrInvalidCaseFile, "exactly one suspect must be guilty",
			slog.String("id", c.ID),
			slog.Int("guiltyCount", guilty))
	}
	return nil
}
