package ai

import (
	"encoding/json"
	"strings"

	"github.com/myrjola/gumshoe/internal/errors"
	"github.com/myrjola/gumshoe/internal/models"
)

// The oracle is asked to answer with bare JSON but in practice it wraps the
// payload in markdown fences or pads it with prose. Parsing is layered so
// the behaviour stays deterministic:
//
//  1. strict json.Unmarshal of the trimmed text,
//  2. strip markdown code fences and retry,
//  3. scan for the first balanced JSON object and retry,
//  4. for game-master turns only: treat the raw text as a narrator turn.
//
// Case-file generation has no step 4 and fails hard instead; a fabricated
// case would corrupt the whole session rather than one conversational turn.

// ParseTurn parses the oracle's game-master response. A response from which
// no JSON can be recovered degrades to a narrator turn carrying the raw
// text. A response that parses but violates the turn schema is an ErrOracle.
func ParseTurn(raw string) (models.GameMasterTurn, error) {
	var turn models.GameMasterTurn

	payload, ok := extractJSON(raw)
	if !ok {
		// Degraded fallback: the oracle spoke plain prose.
		return models.GameMasterTurn{
			Response: strings.TrimSpace(raw),
			Type:     models.EntryTypeNarrator,
		}, nil
	}

	if err := json.Unmarshal([]byte(payload), &turn); err != nil {
		return models.GameMasterTurn{}, errors.Wrap(errors.Join(ErrOracle, err), "unmarshal game master turn")
	}
	if err := validateTurn(turn); err != nil {
		return models.GameMasterTurn{}, err
	}
	return turn, nil
}

func validateTurn(turn models.GameMasterTurn) error {
	if strings.TrimSpace(turn.Response) == "" {
		return errors.Wrap(ErrOracle, "turn has no response text")
	}
	switch turn.Type {
	case models.EntryTypeNarrator:
		if turn.Speaker != "" {
			return errors.Wrap(ErrOracle, "narrator turn must not name a speaker")
		}
	case models.EntryTypeCharacter:
		if turn.Speaker == "" {
			return errors.Wrap(ErrOracle, "character turn requires a speaker")
		}
	default:
		return errors.Wrap(ErrOracle, "unknown turn type: "+string(turn.Type))
	}
	return nil
}

// ParseCaseFile parses a generated case file. Unlike ParseTurn there is no
// raw-text fallback: an unusable response is an ErrOracle.
func ParseCaseFile(raw string) (*models.CaseFile, error) {
	payload, ok := extractJSON(raw)
	if !ok {
		return nil, errors.Wrap(ErrOracle, "no JSON found in case file response")
	}

	var caseFile models.CaseFile
	if err := json.Unmarshal([]byte(payload), &caseFile); err != nil {
		return nil, errors.Wrap(errors.Join(ErrOracle, err), "unmarshal case file")
	}
	return &caseFile, nil
}

// extractJSON recovers a JSON object from an oracle response, trying the
// strict form first, then a fence-stripped form, then a balanced-brace scan.
func extractJSON(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if json.Valid([]byte(trimmed)) && strings.HasPrefix(trimmed, "{") {
		return trimmed, true
	}

	unfenced := stripFences(trimmed)
	if json.Valid([]byte(unfenced)) && strings.HasPrefix(unfenced, "{") {
		return unfenced, true
	}

	if payload, ok := scanBalancedObject(unfenced); ok && json.Valid([]byte(payload)) {
		return payload, true
	}
	return "", false
}

// stripFences removes a surrounding markdown code fence, with or without a
// language tag.
func stripFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	body := strings.TrimPrefix(s, "```")
	if newline := strings.IndexByte(body, '\n'); newline >= 0 {
		// Drop the fence line, which may carry a language tag like "json".
		body = body[newline+1:]
	}
	body = strings.TrimSuffix(strings.TrimSpace(body), "```")
	return strings.TrimSpace(body)
}

// scanBalancedObject finds the first balanced top-level JSON object in s.
// Brace depth is tracked outside of string literals so prose around the
// payload does not confuse the scan.
func scanBalancedObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]

		if escaped {
			escaped = false
			continue
		}
		if c == '\\' && inString {
			escaped = true
			continue
		}
		if c == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch c {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
