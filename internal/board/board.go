// Package board implements the activity board controller: it owns the view
// state, talks to the activities backend, and reconciles every state change
// onto a Surface through the pure Render function.
package board

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"activityboard/internal/domain"
	"activityboard/internal/domain/activity"
	"activityboard/internal/infrastructure/metrics"
)

const (
	signupFallbackText   = "An error occurred"
	signupTransportText  = "Failed to sign up. Please try again."
	removalFallbackText  = "Failed to remove participant"
	removalTransportText = "Failed to remove participant. Try again."
	defaultSignupDelay   = 5 * time.Second
	defaultRemovalDelay  = 4 * time.Second
)

type Board struct {
	id      string
	client  activity.Client
	surface Surface
	clock   Clock
	events  domain.EventBus
	log     *zap.Logger
	actions Actions

	signupDelay  time.Duration
	removalDelay time.Duration

	mu          sync.Mutex
	state       ViewState
	loadToken   uint64
	feedbackSeq uint64
	hideTimer   Timer
}

type Option func(*Board)

// WithID tags logs and events with an identifier, usually the session id.
func WithID(id string) Option {
	return func(b *Board) { b.id = id }
}

func WithClock(c Clock) Option {
	return func(b *Board) { b.clock = c }
}

func WithEventBus(e domain.EventBus) Option {
	return func(b *Board) { b.events = e }
}

func WithLogger(log *zap.Logger) Option {
	return func(b *Board) { b.log = log }
}

func WithActions(a Actions) Option {
	return func(b *Board) { b.actions = a }
}

// WithFeedbackDelays sets how long signup and removal messages stay visible.
func WithFeedbackDelays(signup, removal time.Duration) Option {
	return func(b *Board) {
		b.signupDelay = signup
		b.removalDelay = removal
	}
}

func New(client activity.Client, surface Surface, opts ...Option) *Board {
	b := &Board{
		client:       client,
		surface:      surface,
		clock:        realClock{},
		log:          zap.NewNop(),
		actions:      DefaultActions,
		signupDelay:  defaultSignupDelay,
		removalDelay: defaultRemovalDelay,
		state: ViewState{
			List:     ListLoading,
			Removing: map[RemovalKey]int{},
		},
	}
	for _, opt := range opts {
		opt(b)
	}

	b.mu.Lock()
	b.reconcileLocked()
	b.mu.Unlock()
	return b
}

// Snapshot returns a copy of the current view state.
func (b *Board) Snapshot() ViewState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state.clone()
}

// LoadActivities replaces the catalog with a fresh copy from the backend.
// Only the most recently issued load may change the view; older responses
// are dropped. A failed load is rendered as a failure message and the error
// is returned for the caller's information only.
func (b *Board) LoadActivities(ctx context.Context) error {
	b.mu.Lock()
	b.loadToken++
	token := b.loadToken
	b.mu.Unlock()

	cat, err := b.client.ListActivities(ctx)

	b.mu.Lock()
	if token != b.loadToken {
		latest := b.loadToken
		b.mu.Unlock()

		metrics.RecordStaleResponse()
		b.publish(ctx, domain.EventActivitiesStale, map[string]any{
			"token":  token,
			"latest": latest,
		})
		return nil
	}

	if err != nil {
		b.state.List = ListFailed
		b.reconcileLocked()
		b.mu.Unlock()

		b.log.Error("error fetching activities", zap.String("board", b.id), zap.Error(err))
		b.publish(ctx, domain.EventActivitiesFailed, map[string]any{"error": err.Error()})
		return err
	}

	b.state.List = ListReady
	b.state.Catalog = cat.Clone()
	if _, ok := cat.Get(b.state.Form.Activity); !ok {
		b.state.Form.Activity = ""
	}
	b.reconcileLocked()
	b.mu.Unlock()

	b.publish(ctx, domain.EventActivitiesLoaded, map[string]any{"activities": cat.Len()})
	return nil
}

// SubmitSignup signs email up for activityName. The submit control stays
// disabled until the request and any follow-up reload have settled.
func (b *Board) SubmitSignup(ctx context.Context, email, activityName string) error {
	b.update(func(s *ViewState) {
		s.Form = Form{Email: email, Activity: activityName}
		s.SubmitDisabled = true
	})
	defer b.update(func(s *ViewState) {
		s.SubmitDisabled = false
	})

	msg, err := b.client.Signup(ctx, activityName, email)
	if err != nil {
		text := failureText(err, signupFallbackText, signupTransportText)
		if domain.IsTransport(err) {
			b.log.Error("error signing up", zap.String("board", b.id), zap.Error(err))
		}
		b.showFeedback(text, FeedbackError, b.signupDelay, nil)
		b.publish(ctx, domain.EventSignupFailed, map[string]any{
			"activity": activityName,
			"error":    err.Error(),
		})
		return err
	}

	b.showFeedback(msg, FeedbackSuccess, b.signupDelay, func(s *ViewState) {
		s.Form = Form{}
	})
	b.publish(ctx, domain.EventSignupSucceeded, map[string]any{"activity": activityName})

	_ = b.LoadActivities(ctx)
	return nil
}

// RejectSignup keeps the submitted values in the form and shows text as an
// error without contacting the backend.
func (b *Board) RejectSignup(email, activityName, text string) {
	b.showFeedback(text, FeedbackError, b.signupDelay, func(s *ViewState) {
		s.Form = Form{Email: email, Activity: activityName}
	})
}

// RemoveParticipant removes email from activityName once confirm approves it.
// Empty identifiers and declined confirmations are no-ops.
func (b *Board) RemoveParticipant(ctx context.Context, activityName, email string, confirm Confirmer) error {
	if activityName == "" || email == "" {
		return nil
	}

	if confirm == nil || !confirm.Confirm(ctx, RemovalPrompt(activityName, email)) {
		b.publish(ctx, domain.EventRemovalCancelled, map[string]any{"activity": activityName})
		return nil
	}

	key := RemovalKey{Activity: activityName, Email: email}
	b.update(func(s *ViewState) {
		s.Removing[key]++
	})
	release := func(s *ViewState) {
		if s.Removing[key] <= 1 {
			delete(s.Removing, key)
			return
		}
		s.Removing[key]--
	}

	msg, err := b.client.RemoveParticipant(ctx, activityName, email)
	if err != nil {
		if domain.IsTransport(err) {
			b.log.Error("error removing participant", zap.String("board", b.id), zap.Error(err))
		}
		text := failureText(err, removalFallbackText, removalTransportText)
		b.showFeedback(text, FeedbackError, b.removalDelay, release)
		b.publish(ctx, domain.EventRemovalFailed, map[string]any{
			"activity": activityName,
			"error":    err.Error(),
		})
		return err
	}

	b.showFeedback(msg, FeedbackSuccess, b.removalDelay, nil)
	b.publish(ctx, domain.EventRemovalSucceeded, map[string]any{"activity": activityName})

	_ = b.LoadActivities(ctx)
	b.update(release)
	return nil
}

// RemovalPrompt is the question a Confirmer is asked before a removal.
func RemovalPrompt(activityName, email string) string {
	return fmt.Sprintf("Remove %s from %s?", email, activityName)
}

// Close stops the pending feedback timer.
func (b *Board) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.hideTimer != nil {
		b.hideTimer.Stop()
		b.hideTimer = nil
	}
}

func failureText(err error, fallback, transport string) string {
	if detail, ok := domain.ApplicationDetail(err); ok {
		if detail == "" {
			return fallback
		}
		return detail
	}
	return transport
}

// showFeedback displays text and replaces any pending hide timer, so an older
// timer can never hide this message.
func (b *Board) showFeedback(text string, kind FeedbackKind, delay time.Duration, also func(*ViewState)) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.feedbackSeq++
	seq := b.feedbackSeq

	b.state.Feedback = Feedback{Text: text, Kind: kind, Visible: true}
	if also != nil {
		also(&b.state)
	}

	if b.hideTimer != nil {
		b.hideTimer.Stop()
	}
	b.hideTimer = b.clock.AfterFunc(delay, func() { b.hideFeedback(seq) })

	b.reconcileLocked()
}

func (b *Board) hideFeedback(seq uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	// a stopped timer may already have fired and be waiting on the lock
	if seq != b.feedbackSeq {
		return
	}
	b.state.Feedback.Visible = false
	b.hideTimer = nil
	b.reconcileLocked()
}

func (b *Board) update(fn func(*ViewState)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn(&b.state)
	b.reconcileLocked()
}

func (b *Board) reconcileLocked() {
	if b.surface == nil {
		return
	}
	b.surface.Apply(Render(b.state, b.actions))
}

func (b *Board) publish(ctx context.Context, typ string, payload map[string]any) {
	if b.events == nil {
		return
	}
	if b.id != "" {
		payload["board"] = b.id
	}
	b.events.Publish(ctx, domain.Event{Type: typ, Payload: payload})
}
