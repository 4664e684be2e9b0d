package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/Buchara777/AI-Adventure/gameplay-client/internal/clients"
	"github.com/Buchara777/AI-Adventure/gameplay-client/internal/config"
	"github.com/Buchara777/AI-Adventure/gameplay-client/internal/reveal"
	"github.com/Buchara777/AI-Adventure/gameplay-client/internal/session"
	sharedLogger "github.com/Buchara777/AI-Adventure/shared/logger"
	"github.com/Buchara777/AI-Adventure/shared/models"

	"go.uber.org/zap"
)

const helpText = `Commands:
  1-3            pick a suggested action
  <text>         do anything else
  /seed [hint]   generate a new starting condition and restart
  /history       show the story so far
  /restart       start over with the current settings
  /retry         resend the last failed action
  /quit          exit`

func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// --- Logger Setup ---
	// Логи идут в stderr, чтобы не мешать тексту истории
	logger, err := sharedLogger.New(sharedLogger.Config{
		Level:      cfg.LogLevel,
		Encoding:   "console",
		OutputPath: "stderr",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Dependency Injection ---
	relayClient := clients.NewHTTPRelayClient(cfg.RelayURL, cfg.RelayTimeout, logger)
	orchestrator := session.New(relayClient, logger)

	g := &game{
		orchestrator: orchestrator,
		out:          os.Stdout,
		settings:     cfg.SessionConfig(),
	}
	g.revealer = reveal.NewRevealer(cfg.RevealInterval, g.renderPrefix)
	defer g.revealer.Stop()

	logger.Info("Client started", zap.String("relay_url", cfg.RelayURL))
	fmt.Fprintln(g.out, helpText)

	if err := g.run(ctx, os.Stdin); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Game loop stopped", zap.Error(err))
		os.Exit(1)
	}
}

type game struct {
	orchestrator *session.Orchestrator
	revealer     *reveal.Revealer
	out          io.Writer
	settings     models.SessionConfig

	// длина уже напечатанного префикса текущего раскрытия
	printed int
}

func (g *game) run(ctx context.Context, in io.Reader) error {
	g.start(ctx)

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		fmt.Fprint(g.out, "> ")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if quit := g.handle(ctx, strings.TrimSpace(line)); quit {
				return nil
			}
		}
	}
}

// handle executes one line of input and reports whether the player asked to quit.
func (g *game) handle(ctx context.Context, line string) bool {
	switch {
	case line == "":
		return false
	case line == "/quit":
		return true
	case line == "/help":
		fmt.Fprintln(g.out, helpText)
	case line == "/history":
		g.printHistory()
	case line == "/restart":
		g.start(ctx)
	case line == "/retry":
		g.report(ctx, g.orchestrator.Retry(ctx))
	case line == "/seed" || strings.HasPrefix(line, "/seed "):
		g.seed(ctx, strings.TrimPrefix(line, "/seed"))
	default:
		g.act(ctx, line)
	}
	return false
}

func (g *game) start(ctx context.Context) {
	fmt.Fprintf(g.out, "\n%s\n\n", g.settings.StartCondition)
	g.report(ctx, g.orchestrator.StartSession(ctx, g.settings))
}

func (g *game) seed(ctx context.Context, hint string) {
	fmt.Fprintln(g.out, "Generating a new beginning...")
	startCondition, err := g.orchestrator.GenerateScenario(ctx, hint)
	if err != nil {
		g.printError(err)
		return
	}
	g.settings.StartCondition = startCondition
	g.start(ctx)
}

func (g *game) act(ctx context.Context, line string) {
	action := line
	if n, err := strconv.Atoi(line); err == nil {
		choices := g.orchestrator.Snapshot().CurrentChoices
		if n < 1 || n > len(choices) {
			fmt.Fprintf(g.out, "Pick a number between 1 and %d.\n", len(choices))
			return
		}
		action = choices[n-1]
	}
	fmt.Fprintf(g.out, "\n* %s\n\n", action)
	g.report(ctx, g.orchestrator.SubmitAction(ctx, action))
}

// report renders the outcome of a turn.
func (g *game) report(ctx context.Context, err error) {
	if err != nil {
		g.printError(err)
		return
	}
	snap := g.orchestrator.Snapshot()
	g.printed = 0
	<-g.revealer.Show(ctx, snap.CurrentStory)
	fmt.Fprintln(g.out)
	fmt.Fprintln(g.out)
	for i, choice := range snap.CurrentChoices {
		fmt.Fprintf(g.out, "  %d. %s\n", i+1, choice)
	}
}

func (g *game) printError(err error) {
	switch {
	case errors.Is(err, session.ErrSessionBusy):
		fmt.Fprintln(g.out, "Still waiting for the story to continue...")
	case errors.Is(err, session.ErrNoSession):
		fmt.Fprintln(g.out, "No adventure yet. Use /restart.")
	case errors.Is(err, session.ErrNothingToRetry):
		fmt.Fprintln(g.out, "Nothing to retry.")
	default:
		var turnErr *models.TurnError
		if errors.As(err, &turnErr) {
			fmt.Fprintf(g.out, "The story falters (%s): %s\n", turnErr.Kind, turnErr.Message)
			if turnErr.Retryable() {
				fmt.Fprintln(g.out, "Type /retry to try again.")
			}
			return
		}
		fmt.Fprintf(g.out, "Something went wrong: %v\n", err)
	}
}

func (g *game) printHistory() {
	history := g.orchestrator.Snapshot().History
	if len(history) == 0 {
		fmt.Fprintln(g.out, "The story has not started yet.")
		return
	}
	for _, turn := range history {
		fmt.Fprintf(g.out, "[%d] > %s\n%s\n\n", turn.Sequence+1, turn.Action, turn.Story)
	}
}

// renderPrefix prints only the part of prefix that is not on screen yet.
func (g *game) renderPrefix(prefix string) {
	if len(prefix) <= g.printed {
		return
	}
	fmt.Fprint(g.out, prefix[g.printed:])
	g.printed = len(prefix)
}
