// Package session drives the four-stage conversation: history →
// world → diamond fact → video. One explicit trigger moves each
// stage; anything arriving out of turn is ignored.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"historybot/internal/content"
	"historybot/internal/facts"
	"historybot/internal/metrics"
	"historybot/internal/video"
)

// Stage is the conversation position.
type Stage int

const (
	StageWelcome Stage = iota
	StageHistorySent
	StageWorldSent
	StageFactSent
	StageComplete
)

func (s Stage) String() string {
	switch s {
	case StageWelcome:
		return "WELCOME"
	case StageHistorySent:
		return "HISTORY_SENT"
	case StageWorldSent:
		return "WORLD_SENT"
	case StageFactSent:
		return "FACT_SENT"
	case StageComplete:
		return "COMPLETE"
	default:
		return "UNKNOWN"
	}
}

// Trigger is the external action that advances a session. The string
// values double as callback data on the transport side.
type Trigger string

const (
	TriggerStart   Trigger = "start"
	TriggerWorld   Trigger = "world_content"
	TriggerDiamond Trigger = "diamond_fact"
	TriggerVideo   Trigger = "video_content"
	TriggerCancel  Trigger = "cancel"
)

// Session is one user's conversation state.
type Session struct {
	UserID    string
	Stage     Stage
	LastTopic string
}

// Selectors are the per-stage content providers the machine invokes.
type Selectors struct {
	History func(ctx context.Context) (*content.Item, error)
	World   func(ctx context.Context) (*content.Item, error)
	Fact    func(ctx context.Context) (facts.Fact, string)
	Video   func(ctx context.Context, topic string) (*video.Item, error)
}

// Step is the outcome of one accepted trigger. Exactly one of the
// content fields is set unless Unavailable is true. Next names the
// trigger the caller should offer; empty means the sequence is over.
type Step struct {
	Stage       Stage
	History     *content.Item
	World       *content.Item
	Fact        *facts.Fact
	Video       *video.Item
	Next        Trigger
	Unavailable bool
	Cancelled   bool
}

// Machine advances sessions through the stage sequence.
type Machine struct {
	selectors Selectors

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewMachine builds a Machine over the given selectors.
func NewMachine(selectors Selectors) *Machine {
	return &Machine{
		selectors: selectors,
		sessions:  make(map[string]*Session),
	}
}

// Get returns the live session for a user, if any.
func (m *Machine) Get(userID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[userID]
	return s, ok
}

// Resume places a user directly at a stage. The daily scheduler uses
// this so its recipient can continue from the history message.
func (m *Machine) Resume(userID string, stage Stage, topic string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[userID] = &Session{UserID: userID, Stage: stage, LastTopic: topic}
}

// Expects reports whether a trigger would advance the user's session
// right now. Lets the transport side skip interstitial edits for
// presses that Advance would ignore.
func (m *Machine) Expects(userID string, trigger Trigger) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[userID]
	if !ok {
		return trigger == TriggerStart
	}
	switch s.Stage {
	case StageWelcome:
		return trigger == TriggerStart
	case StageHistorySent:
		return trigger == TriggerWorld
	case StageWorldSent:
		return trigger == TriggerDiamond
	case StageFactSent:
		return trigger == TriggerVideo
	}
	return false
}

// Advance applies one trigger to a user's session. A trigger the
// current stage does not expect returns (nil, nil) and changes
// nothing. A selector miss (NotFound) completes the session with
// Unavailable set rather than failing it.
func (m *Machine) Advance(ctx context.Context, userID string, trigger Trigger) (*Step, error) {
	m.mu.Lock()
	s, ok := m.sessions[userID]
	if !ok {
		s = &Session{UserID: userID, Stage: StageWelcome}
		m.sessions[userID] = s
	}
	m.mu.Unlock()

	if trigger == TriggerCancel {
		m.finish(s)
		return &Step{Stage: StageComplete, Cancelled: true}, nil
	}

	switch {
	case s.Stage == StageWelcome && trigger == TriggerStart:
		return m.historyStep(ctx, s)
	case s.Stage == StageHistorySent && trigger == TriggerWorld:
		return m.worldStep(ctx, s)
	case s.Stage == StageWorldSent && trigger == TriggerDiamond:
		return m.factStep(ctx, s)
	case s.Stage == StageFactSent && trigger == TriggerVideo:
		return m.videoStep(ctx, s)
	}

	slog.Debug("trigger ignored for current stage", "user", userID, "stage", s.Stage.String(), "trigger", trigger)
	return nil, nil
}

func (m *Machine) historyStep(ctx context.Context, s *Session) (*Step, error) {
	metrics.Global.IncrementSessionsStarted()

	item, err := m.selectors.History(ctx)
	if err != nil {
		if errors.Is(err, content.ErrNoContent) {
			m.finish(s)
			return &Step{Stage: StageComplete, Unavailable: true}, nil
		}
		return nil, err
	}

	s.Stage = StageHistorySent
	s.LastTopic = item.OriginalTitle
	return &Step{Stage: StageHistorySent, History: item, Next: TriggerWorld}, nil
}

func (m *Machine) worldStep(ctx context.Context, s *Session) (*Step, error) {
	item, err := m.selectors.World(ctx)
	if err != nil {
		if errors.Is(err, content.ErrNoContent) {
			m.finish(s)
			return &Step{Stage: StageComplete, Unavailable: true}, nil
		}
		return nil, err
	}

	s.Stage = StageWorldSent
	s.LastTopic = item.OriginalTitle
	return &Step{Stage: StageWorldSent, World: item, Next: TriggerDiamond}, nil
}

func (m *Machine) factStep(ctx context.Context, s *Session) (*Step, error) {
	fact, topic := m.selectors.Fact(ctx)
	s.Stage = StageFactSent
	s.LastTopic = topic
	return &Step{Stage: StageFactSent, Fact: &fact, Next: TriggerVideo}, nil
}

func (m *Machine) videoStep(ctx context.Context, s *Session) (*Step, error) {
	item, err := m.selectors.Video(ctx, s.LastTopic)
	if err != nil {
		if errors.Is(err, video.ErrNoVideo) {
			m.finish(s)
			return &Step{Stage: StageComplete, Unavailable: true}, nil
		}
		return nil, err
	}

	m.finish(s)
	return &Step{Stage: StageComplete, Video: item}, nil
}

// finish completes and destroys a session.
func (m *Machine) finish(s *Session) {
	s.Stage = StageComplete
	metrics.Global.IncrementSessionsCompleted()

	m.mu.Lock()
	delete(m.sessions, s.UserID)
	m.mu.Unlock()
}
