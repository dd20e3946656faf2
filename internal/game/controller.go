// Package game owns the detective-story session: it mediates player actions
// through the narrative oracle, enforces the single-accusation rule, and
// computes the final score.
package game

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/myrjola/gumshoe/internal/errors"
	"github.com/myrjola/gumshoe/internal/models"
)

var (
	// ErrInitialization signals that no case could be obtained for a new game.
	ErrInitialization = errors.NewSentinel("could not initialise a new game")
	// ErrNoActiveSession signals an action against a missing or completed session.
	ErrNoActiveSession = errors.NewSentinel("no active game session")
	// ErrOracleUnavailable signals that the controller runs without an oracle
	// and cannot process player turns.
	ErrOracleUnavailable = errors.NewSentinel("no oracle configured")
)

// Oracle resolves one player turn into a classified narrative response. The
// oracle must honour the accusation contract: any statement naming a person
// as the murderer sets IsSolved, questions about guilt do not, and the
// solution is never revealed in free text before an accusation.
type Oracle interface {
	GameMasterTurn(
		ctx context.Context,
		caseFile *models.CaseFile,
		conversation []models.ConversationEntry,
		input string,
	) (models.GameMasterTurn, error)
}

// CaseRepository supplies a validated case file for a new game.
type CaseRepository interface {
	SelectCase(ctx context.Context, difficulty string) (*models.CaseFile, error)
}

// Illustrator renders an optional case illustration during game start.
type Illustrator interface {
	SafeImagePrompt(ctx context.Context, description string) (string, error)
	CaseIllustration(ctx context.Context, prompt string) (string, error)
}

// CaseFileStore, SessionStore, and HistoryStore are the persistence
// contracts. Writes are best-effort: the in-memory session stays the source
// of truth and a failed write never fails the player-visible operation.
type CaseFileStore interface {
	Upsert(ctx context.Context, caseFile *models.CaseFile) error
}

type SessionStore interface {
	Upsert(ctx context.Context, session *models.Session) error
	Get(ctx context.Context, id string) (*models.Session, error)
}

type HistoryStore interface {
	Add(ctx context.Context, caseFile *models.CaseFile) error
}

// Stores bundles the persistence contracts the controller writes through.
type Stores struct {
	CaseFiles CaseFileStore
	Sessions  SessionStore
	History   HistoryStore
}

// StartCallbacks notify the presentation layer of progress during game
// start. Each fires at most once; either may be nil.
type StartCallbacks struct {
	OnCaseReady         func()
	OnIllustrationReady func()
}

// TurnResult is what one player turn produced.
type TurnResult struct {
	// Response is the conversation entry appended last: the oracle's
	// narration, or a locally synthesized ending.
	Response *models.ConversationEntry
	GameOver bool
	Solved   bool
	// Score is meaningful only when GameOver is true. A wrong accusation
	// scores zero.
	Score int
}

// Stats is a read-only view of the session's rule counters.
type Stats struct {
	QuestionsAsked int
	HintsUsed      int
	HintsRemaining int
}

// Controller advances sessions one player turn at a time. Each session's
// turns are strictly sequential: a per-session mutex is held across the
// oracle call so the conversation order and the at-most-once completion
// guarantee hold on a concurrent runtime.
type Controller struct {
	cases       CaseRepository
	oracle      Oracle
	illustrator Illustrator
	stores      Stores
	logger      *slog.Logger
	now         func() time.Time
	newID       func() string

	mu     sync.Mutex
	active map[string]*activeSession
}

// activeSession pairs the session with its process-local rules record.
type activeSession struct {
	mu      sync.Mutex
	session *models.Session
	rules   models.Rules
}

// NewController creates a game controller. The illustrator may be nil to
// disable case illustrations.
func NewController(
	cases CaseRepository,
	oracle Oracle,
	illustrator Illustrator,
	stores Stores,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		cases:       cases,
		oracle:      oracle,
		illustrator: illustrator,
		stores:      stores,
		logger:      logger.With("source", "GameController"),
		now:         time.Now,
		newID:       uuid.NewString,
		active:      make(map[string]*activeSession),
	}
}

// StartNewGame obtains a case, seeds a fresh session with the opening
// narration, resets the rules record, persists everything best-effort, and
// returns the session.
func (c *Controller) StartNewGame(
	ctx context.Context,
	difficulty string,
	callbacks StartCallbacks,
) (*models.Session, error) {
	caseFile, err := c.cases.SelectCase(ctx, difficulty)
	if err != nil {
		return nil, errors.Wrap(errors.Join(ErrInitialization, err), "select case")
	}

	if callbacks.OnCaseReady != nil {
		callbacks.OnCaseReady()
	}

	now := c.now()
	session := &models.Session{
		ID:        c.newID(),
		CaseID:    caseFile.ID,
		Case:      caseFile,
		StartedAt: now,
	}
	session.Append(models.ConversationEntry{
		ID:        c.newID(),
		Type:      models.EntryTypeNarrator,
		Message:   openingNarration(caseFile),
		Timestamp: now,
	})

	c.illustrate(ctx, session, callbacks)

	c.persistCaseFile(ctx, caseFile)
	c.persistSession(ctx, session)
	c.recordHistory(ctx, caseFile)

	c.mu.Lock()
	c.active[session.ID] = &activeSession{
		session: session,
		rules:   models.NewRules(now),
	}
	c.mu.Unlock()

	return session, nil
}

// illustrate renders a case illustration if an illustrator is configured.
// Failure is not fatal; the readiness callback fires either way so the
// presentation layer is never left waiting.
func (c *Controller) illustrate(ctx context.Context, session *models.Session, callbacks StartCallbacks) {
	defer func() {
		if callbacks.OnIllustrationReady != nil {
			callbacks.OnIllustrationReady()
		}
	}()

	if c.illustrator == nil {
		return
	}

	opening := session.Conversation[0].Message
	prompt, err := c.illustrator.SafeImagePrompt(ctx, opening)
	if err != nil {
		c.logger.WarnContext(ctx, "could not build illustration prompt", errors.SlogError(err))
		return
	}
	url, err := c.illustrator.CaseIllustration(ctx, prompt)
	if err != nil {
		c.logger.WarnContext(ctx, "could not render case illustration", errors.SlogError(err))
		return
	}
	session.IllustrationURL = url
}

// ProcessPlayerInput advances the session by exactly one turn. Every call
// counts as a question, including the accusation. On oracle failure the
// player's appended message stands but no terminal state is reached, so the
// caller may retry with the same or a new input.
func (c *Controller) ProcessPlayerInput(ctx context.Context, sessionID, input string) (TurnResult, error) {
	if c.oracle == nil {
		return TurnResult{}, ErrOracleUnavailable
	}

	active, err := c.handle(sessionID)
	if err != nil {
		return TurnResult{}, err
	}

	active.mu.Lock()
	defer active.mu.Unlock()

	session := active.session
	if session.Completed() {
		return TurnResult{}, errors.Wrap(ErrNoActiveSession, "session already completed",
			slog.String("sessionId", sessionID))
	}

	active.rules.QuestionsAsked++

	session.Append(models.ConversationEntry{
		ID:        c.newID(),
		Type:      models.EntryTypePlayer,
		Message:   input,
		Timestamp: c.now(),
	})

	// The single suspension point. The per-session lock stays held so turns
	// cannot interleave.
	turn, err := c.oracle.GameMasterTurn(ctx, session.Case, session.Conversation, input)
	if err != nil {
		return TurnResult{}, errors.Wrap(err, "game master turn", slog.String("sessionId", sessionID))
	}

	result := c.applyTurn(session, active.rules, turn)
	c.persistSession(ctx, session)
	return result, nil
}

// applyTurn interprets the oracle's verdict and mutates the session. On an
// accusation the oracle's free text is discarded and replaced with a locally
// synthesized ending, so the solution reveal never depends on oracle prose.
func (c *Controller) applyTurn(session *models.Session, rules models.Rules, turn models.GameMasterTurn) TurnResult {
	if !turn.IsSolved {
		entry := models.ConversationEntry{
			ID:          c.newID(),
			Type:        turn.Type,
			Speaker:     turn.Speaker,
			Message:     turn.Response,
			Timestamp:   c.now(),
			RevealsClue: turn.RevealsClue,
		}
		session.Append(entry)
		session.RecordClue(turn.RevealsClue)
		if turn.Type == models.EntryTypeCharacter {
			session.RecordInterview(turn.Speaker)
		}
		return TurnResult{Response: session.LastEntry()}
	}

	completedAt := c.now()
	session.CompletedAt = &completedAt

	var message string
	score := 0
	if turn.IsCorrectSolution {
		session.IsSolved = true
		score = Score(rules.QuestionsAsked, rules.HintsUsed, completedAt.Sub(rules.StartTime))
		message = victoryNarration(score, rules)
	} else {
		message = failureNarration(session.Case.Solution, rules)
	}

	session.Append(models.ConversationEntry{
		ID:        c.newID(),
		Type:      models.EntryTypeNarrator,
		Message:   message,
		Timestamp: completedAt,
	})

	return TurnResult{
		Response: session.LastEntry(),
		GameOver: true,
		Solved:   session.IsSolved,
		Score:    score,
	}
}

// RequestHint appends one of the generic hints as a narrator entry. Once the
// hint budget is spent it returns nil without error or mutation; running out
// of hints is an expected condition, not a failure.
func (c *Controller) RequestHint(ctx context.Context, sessionID string) (*models.ConversationEntry, error) {
	active, err := c.handle(sessionID)
	if err != nil {
		return nil, err
	}

	active.mu.Lock()
	defer active.mu.Unlock()

	session := active.session
	if session.Completed() {
		return nil, errors.Wrap(ErrNoActiveSession, "session already completed",
			slog.String("sessionId", sessionID))
	}

	if active.rules.HintsUsed >= active.rules.MaxHints {
		return nil, nil
	}
	active.rules.HintsUsed++

	session.Append(models.ConversationEntry{
		ID:        c.newID(),
		Type:      models.EntryTypeNarrator,
		Message:   hintText(active.rules),
		Timestamp: c.now(),
	})

	c.persistSession(ctx, session)
	return session.LastEntry(), nil
}

// GiveUp ends the session unconditionally, revealing the full solution in
// canned prose. The session stays unsolved and no score is computed.
func (c *Controller) GiveUp(ctx context.Context, sessionID string) (*models.ConversationEntry, error) {
	active, err := c.handle(sessionID)
	if err != nil {
		return nil, err
	}

	active.mu.Lock()
	defer active.mu.Unlock()

	session := active.session
	if session.Completed() {
		return nil, errors.Wrap(ErrNoActiveSession, "session already completed",
			slog.String("sessionId", sessionID))
	}

	completedAt := c.now()
	session.Append(models.ConversationEntry{
		ID:        c.newID(),
		Type:      models.EntryTypeNarrator,
		Message:   giveUpNarration(session.Case.Solution),
		Timestamp: completedAt,
	})
	session.CompletedAt = &completedAt

	c.persistSession(ctx, session)
	return session.LastEntry(), nil
}

// Resume loads a persisted, uncompleted session and makes it active again.
// The rules record is process-local, so a resumed session starts with fresh
// counters and its score reflects only the current process.
func (c *Controller) Resume(ctx context.Context, sessionID string) (*models.Session, error) {
	if active, err := c.handle(sessionID); err == nil {
		if active.session.Completed() {
			return nil, errors.Wrap(ErrNoActiveSession, "session already completed",
				slog.String("sessionId", sessionID))
		}
		return active.session, nil
	}

	session, err := c.stores.Sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, errors.Wrap(errors.Join(ErrNoActiveSession, err), "load session",
			slog.String("sessionId", sessionID))
	}
	if session.Completed() || session.IsSolved {
		return nil, errors.Wrap(ErrNoActiveSession, "session already completed",
			slog.String("sessionId", sessionID))
	}

	c.mu.Lock()
	c.active[session.ID] = &activeSession{
		session: session,
		rules:   models.NewRules(c.now()),
	}
	c.mu.Unlock()

	return session, nil
}

// Session returns the active session for the id.
func (c *Controller) Session(sessionID string) (*models.Session, error) {
	active, err := c.handle(sessionID)
	if err != nil {
		return nil, err
	}
	return active.session, nil
}

// Stats returns the rule counters for the active session.
func (c *Controller) Stats(sessionID string) (Stats, error) {
	active, err := c.handle(sessionID)
	if err != nil {
		return Stats{}, err
	}

	active.mu.Lock()
	defer active.mu.Unlock()

	return Stats{
		QuestionsAsked: active.rules.QuestionsAsked,
		HintsUsed:      active.rules.HintsUsed,
		HintsRemaining: active.rules.HintsRemaining(),
	}, nil
}

func (c *Controller) handle(sessionID string) (*activeSession, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	active, ok := c.active[sessionID]
	if !ok {
		return nil, errors.Wrap(ErrNoActiveSession, "unknown session", slog.String("sessionId", sessionID))
	}
	return active, nil
}

// Persistence is best-effort durability: failures are logged and swallowed,
// never surfaced to the player.

func (c *Controller) persistCaseFile(ctx context.Context, caseFile *models.CaseFile) {
	if err := c.stores.CaseFiles.Upsert(ctx, caseFile); err != nil {
		c.logger.ErrorContext(ctx, "could not persist case file", errors.SlogError(err))
	}
}

func (c *Controller) persistSession(ctx context.Context, session *models.Session) {
	if err := c.stores.Sessions.Upsert(ctx, session); err != nil {
		c.logger.ErrorContext(ctx, "could not persist session", errors.SlogError(err))
	}
}

func (c *Controller) recordHistory(ctx context.Context, caseFile *models.CaseFile) {
	if err := c.stores.History.Add(ctx, caseFile); err != nil {
		c.logger.ErrorContext(ctx, "could not record case history", errors.SlogError(err))
	}
}
