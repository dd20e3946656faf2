// Package play implements the interactive terminal game loop.
package play

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/myrjola/gumshoe/internal/ai"
	"github.com/myrjola/gumshoe/internal/casegen"
	"github.com/myrjola/gumshoe/internal/game"
	"github.com/myrjola/gumshoe/internal/models"
	"github.com/myrjola/gumshoe/internal/repositories"
	"github.com/myrjola/gumshoe/sqlite"
	"github.com/spf13/cobra"
)

var Group = &cobra.Group{
	ID:    "game",
	Title: "Game operations",
}

func init() {
	Play.Flags().String("difficulty", "medium", "case difficulty: easy, medium, or hard")
	Play.Flags().String("sqlite-url", "./gumshoe.sqlite", "SQLite URL")
	Play.Flags().String("resume", "", "resume the session with this id instead of starting a new game")
}

var Play = &cobra.Command{
	Use:     "play",
	GroupID: "game",
	Short:   "Play a mystery in the terminal",
	Long: `Starts an interactive murder mystery. Type your questions and actions,
or one of the commands: /hint, /stats, /giveup, /quit.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		difficulty, err := cmd.Flags().GetString("difficulty")
		if err != nil {
			return fmt.Errorf("invalid difficulty flag: %w", err)
		}
		dbURL, err := cmd.Flags().GetString("sqlite-url")
		if err != nil {
			return fmt.Errorf("invalid sqlite-url flag: %w", err)
		}
		resumeID, err := cmd.Flags().GetString("resume")
		if err != nil {
			return fmt.Errorf("invalid resume flag: %w", err)
		}

		return run(cmd.Context(), cmd.OutOrStdout(), os.Stdin, difficulty, dbURL, resumeID)
	},
}

func run(ctx context.Context, out io.Writer, in io.Reader, difficulty, dbURL, resumeID string) error {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("OPENAI_API_KEY must be set to play")
	}

	// Gameplay output goes to the terminal; diagnostics go to stderr.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	db, err := sqlite.NewDB(dbURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	client := ai.NewClient(apiKey)
	history := repositories.NewCaseHistoryRepository(db, logger)
	controller := game.NewController(
		casegen.NewRepository(client, history, logger),
		client,
		nil, // terminals have no use for an illustration
		game.Stores{
			CaseFiles: repositories.NewCaseFileRepository(db, logger),
			Sessions:  repositories.NewSessionRepository(db, logger),
			History:   history,
		},
		logger,
	)

	session, err := beginSession(ctx, out, controller, difficulty, resumeID)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\n=== %s ===\n\n", session.Case.Title)
	for _, entry := range session.Conversation {
		printEntry(out, entry)
	}

	return gameLoop(ctx, out, in, controller, session.ID)
}

func beginSession(
	ctx context.Context,
	out io.Writer,
	controller *game.Controller,
	difficulty, resumeID string,
) (*models.Session, error) {
	if resumeID != "" {
		session, err := controller.Resume(ctx, resumeID)
		if err != nil {
			return nil, fmt.Errorf("resume session %s: %w", resumeID, err)
		}
		return session, nil
	}

	fmt.Fprintln(out, "Preparing your case...")
	session, err := controller.StartNewGame(ctx, difficulty, game.StartCallbacks{
		OnCaseReady: func() {
			fmt.Fprintln(out, "The case file lands on your desk.")
		},
	})
	if err != nil {
		return nil, fmt.Errorf("start game: %w", err)
	}
	return session, nil
}

func gameLoop(ctx context.Context, out io.Writer, in io.Reader, controller *game.Controller, sessionID string) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		switch input {
		case "/quit":
			return nil

		case "/hint":
			entry, err := controller.RequestHint(ctx, sessionID)
			if err != nil {
				return fmt.Errorf("request hint: %w", err)
			}
			if entry == nil {
				fmt.Fprintln(out, "No hints left, detective.")
				continue
			}
			printEntry(out, *entry)

		case "/stats":
			stats, err := controller.Stats(sessionID)
			if err != nil {
				return fmt.Errorf("read stats: %w", err)
			}
			fmt.Fprintf(out, "Questions asked: %d, hints used: %d, hints remaining: %d\n",
				stats.QuestionsAsked, stats.HintsUsed, stats.HintsRemaining)

		case "/giveup":
			entry, err := controller.GiveUp(ctx, sessionID)
			if err != nil {
				return fmt.Errorf("give up: %w", err)
			}
			printEntry(out, *entry)
			return nil

		default:
			result, err := controller.ProcessPlayerInput(ctx, sessionID, input)
			if err != nil {
				// The turn failed but the session survives; let the player retry.
				fmt.Fprintf(out, "The line goes dead for a moment. Try again. (%v)\n", err)
				continue
			}
			printEntry(out, *result.Response)
			if result.GameOver {
				return nil
			}
		}
	}
}

func printEntry(out io.Writer, entry models.ConversationEntry) {
	switch entry.Type {
	case models.EntryTypePlayer:
		// The player already saw their own input.
	case models.EntryTypeCharacter:
		fmt.Fprintf(out, "\n%s: %s\n\n", entry.Speaker, entry.Message)
	default:
		fmt.Fprintf(out, "\n%s\n\n", entry.Message)
	}
}
