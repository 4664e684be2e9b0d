package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/Buchara777/AI-Adventure/shared/interfaces"
	"github.com/Buchara777/AI-Adventure/shared/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrSessionBusy is returned while a turn is in flight.
	ErrSessionBusy = errors.New("a turn is already in progress")
	// ErrNoSession is returned when acting before StartSession.
	ErrNoSession = errors.New("no session started")
	// ErrNothingToRetry is returned by Retry when the last turn did not fail.
	ErrNothingToRetry = errors.New("no failed action to retry")
)

// State of the orchestrator.
type State int

const (
	StateIdle State = iota
	StatePending
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	default:
		return "unknown"
	}
}

// Snapshot is a consistent copy of the session for rendering.
type Snapshot struct {
	SessionID      uuid.UUID
	Config         models.SessionConfig
	CurrentStory   string
	CurrentChoices []string
	IsPending      bool
	LastError      error
	History        models.History
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithObserver registers fn to be called with a snapshot after every state change.
// Observers are called without the lock held and must not block for long.
func WithObserver(fn func(Snapshot)) Option {
	return func(o *Orchestrator) {
		o.observers = append(o.observers, fn)
	}
}

// Orchestrator owns the play history of one session and allows at most one
// relay call in flight.
type Orchestrator struct {
	relay     interfaces.Relay
	logger    *zap.Logger
	observers []func(Snapshot)

	mu             sync.Mutex
	state          State
	sessionID      uuid.UUID
	config         models.SessionConfig
	history        models.History
	currentStory   string
	currentChoices []string
	lastError      error
	failedAction   string
}

func New(relay interfaces.Relay, logger *zap.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		relay:   relay,
		logger:  logger.Named("SessionOrchestrator"),
		history: models.History{},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// StartSession discards the current session and plays the opening turn with
// cfg.StartCondition as the action. It is rejected while a turn is in flight.
func (o *Orchestrator) StartSession(ctx context.Context, cfg models.SessionConfig) error {
	cfg.StartCondition = strings.TrimSpace(cfg.StartCondition)
	cfg.SystemInstruction = strings.TrimSpace(cfg.SystemInstruction)

	o.mu.Lock()
	if o.state == StatePending {
		o.mu.Unlock()
		return ErrSessionBusy
	}
	if cfg.StartCondition == "" {
		o.mu.Unlock()
		return models.NewInputError("start condition must not be empty")
	}
	if cfg.SystemInstruction == "" {
		o.mu.Unlock()
		return models.NewInputError("system instruction must not be empty")
	}

	o.sessionID = uuid.New()
	o.config = cfg
	o.history = models.History{}
	o.currentStory = ""
	o.currentChoices = nil
	o.lastError = nil
	o.failedAction = ""

	o.logger.Info("Session started", zap.String("session_id", o.sessionID.String()))
	req := o.beginTurn(cfg.StartCondition)
	return o.finishTurn(ctx, req)
}

// SubmitAction plays one turn. While a turn is in flight it returns
// ErrSessionBusy and changes nothing. A relay failure is recorded in the
// snapshot, leaves the history untouched and is returned.
func (o *Orchestrator) SubmitAction(ctx context.Context, action string) error {
	action = strings.TrimSpace(action)

	o.mu.Lock()
	if o.state == StatePending {
		o.mu.Unlock()
		return ErrSessionBusy
	}
	if o.sessionID == uuid.Nil {
		o.mu.Unlock()
		return ErrNoSession
	}
	if action == "" {
		o.mu.Unlock()
		return models.NewInputError("action must not be empty")
	}

	req := o.beginTurn(action)
	return o.finishTurn(ctx, req)
}

// Retry resubmits the action of the last failed turn.
func (o *Orchestrator) Retry(ctx context.Context) error {
	o.mu.Lock()
	action := o.failedAction
	o.mu.Unlock()

	if action == "" {
		return ErrNothingToRetry
	}
	return o.SubmitAction(ctx, action)
}

// GenerateScenario asks the relay for a start condition. Session state is not touched.
func (o *Orchestrator) GenerateScenario(ctx context.Context, hint string) (string, error) {
	result, err := o.relay.Seed(ctx, models.SeedRequest{Hint: strings.TrimSpace(hint)})
	if err != nil {
		o.logger.Warn("Scenario generation failed", zap.Error(err))
		return "", err
	}
	return result.StartCondition, nil
}

// Snapshot returns a copy of the current session state.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshotLocked()
}

// beginTurn moves to Pending and builds the request. Called with o.mu held; releases it.
func (o *Orchestrator) beginTurn(action string) models.ContinuationRequest {
	o.state = StatePending
	req := models.ContinuationRequest{
		History:           o.history.Clone(),
		Action:            action,
		SystemInstruction: o.config.SystemInstruction,
	}
	snap := o.snapshotLocked()
	o.mu.Unlock()

	o.notify(snap)
	return req
}

// finishTurn calls the relay without holding the lock and applies the outcome.
func (o *Orchestrator) finishTurn(ctx context.Context, req models.ContinuationRequest) error {
	log := o.logger.With(zap.Int("sequence", len(req.History)))
	result, err := o.relay.Continue(ctx, req)

	o.mu.Lock()
	o.state = StateIdle
	if err != nil {
		o.lastError = err
		o.failedAction = req.Action
		log.Warn("Turn failed",
			zap.String("kind", string(models.KindOf(err))),
			zap.Error(err),
		)
	} else {
		o.history = append(o.history, models.Turn{
			Sequence: len(o.history),
			Action:   req.Action,
			Story:    result.Story,
		})
		o.currentStory = result.Story
		o.currentChoices = append([]string(nil), result.Choices...)
		o.lastError = nil
		o.failedAction = ""
		log.Debug("Turn completed", zap.Int("history_length", len(o.history)))
	}
	snap := o.snapshotLocked()
	o.mu.Unlock()

	o.notify(snap)
	return err
}

func (o *Orchestrator) snapshotLocked() Snapshot {
	return Snapshot{
		SessionID:      o.sessionID,
		Config:         o.config,
		CurrentStory:   o.currentStory,
		CurrentChoices: append([]string(nil), o.currentChoices...),
		IsPending:      o.state == StatePending,
		LastError:      o.lastError,
		History:        o.history.Clone(),
	}
}

func (o *Orchestrator) notify(snap Snapshot) {
	for _, fn := range o.observers {
		fn(snap)
	}
}
