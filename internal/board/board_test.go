package board_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"activityboard/internal/board"
	"activityboard/internal/domain"
	"activityboard/internal/domain/activity"
)

type eventBusFake struct {
	mu     sync.Mutex
	events []domain.Event
}

func (e *eventBusFake) Publish(_ context.Context, ev domain.Event) {
	e.mu.Lock()
	e.events = append(e.events, ev)
	e.mu.Unlock()
}

func (e *eventBusFake) types() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, 0, len(e.events))
	for _, ev := range e.events {
		out = append(out, ev.Type)
	}
	return out
}

type fixture struct {
	client  *clientFake
	surface *surfaceRecorder
	clock   *clockFake
	events  *eventBusFake
	board   *board.Board
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		client:  &clientFake{catalog: chessCatalog()},
		surface: &surfaceRecorder{},
		clock:   &clockFake{},
		events:  &eventBusFake{},
	}
	f.board = board.New(f.client, f.surface,
		board.WithID("test"),
		board.WithClock(f.clock),
		board.WithEventBus(f.events),
	)
	t.Cleanup(f.board.Close)
	return f
}

func TestNew_RendersLoadingState(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, "Loading activities...", textOf(byID(t, f.surface.Last(), "activities-list")))
	assert.Equal(t, board.ListLoading, f.board.Snapshot().List)
}

func TestLoadActivities_RendersCatalog(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.board.LoadActivities(context.Background()))

	snap := f.board.Snapshot()
	assert.Equal(t, board.ListReady, snap.List)
	assert.Equal(t, []string{"Chess Club"}, snap.Catalog.Names())
	assert.Contains(t, f.surface.LastHTML(), "1 spots left")
	assert.Contains(t, f.events.types(), domain.EventActivitiesLoaded)
}

func TestLoadActivities_FailureShowsMessage(t *testing.T) {
	f := newFixture(t)
	f.client.listErr = domain.TransportFailure("list_activities", errors.New("connection refused"))

	err := f.board.LoadActivities(context.Background())
	require.Error(t, err)
	assert.Equal(t, board.ListFailed, f.board.Snapshot().List)
	assert.Equal(t, "Failed to load activities. Please try again later.",
		textOf(byID(t, f.surface.Last(), "activities-list")))
}

// blockingList releases one ListActivities call per value sent on its gate.
type blockingList struct {
	*clientFake
	gates chan chan activity.Catalog
}

func (b *blockingList) ListActivities(ctx context.Context) (activity.Catalog, error) {
	gate := make(chan activity.Catalog)
	b.gates <- gate
	return <-gate, nil
}

func TestLoadActivities_DiscardsStaleResponse(t *testing.T) {
	client := &blockingList{clientFake: &clientFake{}, gates: make(chan chan activity.Catalog)}
	surface := &surfaceRecorder{}
	b := board.New(client, surface, board.WithClock(&clockFake{}))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); _ = b.LoadActivities(context.Background()) }()
	first := <-client.gates
	go func() { defer wg.Done(); _ = b.LoadActivities(context.Background()) }()
	second := <-client.gates

	newer := activity.Catalog{Activities: []activity.Activity{{Name: "Newer"}}}
	older := activity.Catalog{Activities: []activity.Activity{{Name: "Older"}}}

	second <- newer
	first <- older
	wg.Wait()

	assert.Equal(t, []string{"Newer"}, b.Snapshot().Catalog.Names())
	assert.NotContains(t, surface.LastHTML(), "Older")
}

func TestSubmitSignup_Success(t *testing.T) {
	f := newFixture(t)
	f.client.signupMsg = "Signed up"
	require.NoError(t, f.board.LoadActivities(context.Background()))

	require.NoError(t, f.board.SubmitSignup(context.Background(), "new@x.com", "Chess Club"))

	snap := f.board.Snapshot()
	assert.Equal(t, board.Feedback{Text: "Signed up", Kind: board.FeedbackSuccess, Visible: true}, snap.Feedback)
	assert.Equal(t, board.Form{}, snap.Form)
	assert.False(t, snap.SubmitDisabled)

	chess, _ := snap.Catalog.Get("Chess Club")
	assert.Contains(t, chess.Participants, "new@x.com")

	email := byID(t, f.surface.Last(), "email")
	v, _ := attrOf(email, "value")
	assert.Empty(t, v)
	assert.Equal(t, "Signed up", textOf(byID(t, f.surface.Last(), "message")))

	require.Equal(t, 1, f.clock.count())
	assert.Equal(t, 5*time.Second, f.clock.timer(0).delay)
}

func TestSubmitSignup_DisablesSubmitWhilePending(t *testing.T) {
	f := newFixture(t)
	f.client.signupMsg = "ok"

	require.NoError(t, f.board.SubmitSignup(context.Background(), "new@x.com", "Chess Club"))

	// first frame after construction is the pending one
	require.GreaterOrEqual(t, len(f.surface.frames), 2)
	assert.Contains(t, f.surface.frames[1], `<button type="submit" disabled="">Sign Up</button>`)
	assert.Contains(t, f.surface.LastHTML(), `<button type="submit">Sign Up</button>`)
}

func TestSubmitSignup_ApplicationFailureKeepsForm(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.board.LoadActivities(context.Background()))
	f.client.signupErr = appFailure(400, "Student is already signed up")

	err := f.board.SubmitSignup(context.Background(), "a@x.com", "Chess Club")
	require.Error(t, err)

	snap := f.board.Snapshot()
	assert.Equal(t, "Student is already signed up", snap.Feedback.Text)
	assert.Equal(t, board.FeedbackError, snap.Feedback.Kind)
	assert.Equal(t, board.Form{Email: "a@x.com", Activity: "Chess Club"}, snap.Form)
	assert.False(t, snap.SubmitDisabled)
	assert.Contains(t, f.events.types(), domain.EventSignupFailed)
}

func TestSubmitSignup_FailureTexts(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"empty detail", appFailure(500, ""), "An error occurred"},
		{"transport", domain.TransportFailure("signup", errors.New("eof")), "Failed to sign up. Please try again."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.client.signupErr = tt.err

			require.Error(t, f.board.SubmitSignup(context.Background(), "a@x.com", "Chess Club"))
			snap := f.board.Snapshot()
			assert.Equal(t, tt.want, snap.Feedback.Text)
			assert.False(t, snap.SubmitDisabled)
			require.Equal(t, 1, f.clock.count())
		})
	}
}

func TestRemoveParticipant_Success(t *testing.T) {
	f := newFixture(t)
	f.client.removeMsg = "Removed a@x.com from Chess Club"
	require.NoError(t, f.board.LoadActivities(context.Background()))

	require.NoError(t, f.board.RemoveParticipant(context.Background(), "Chess Club", "a@x.com", confirmYes()))

	snap := f.board.Snapshot()
	chess, _ := snap.Catalog.Get("Chess Club")
	assert.NotContains(t, chess.Participants, "a@x.com")
	assert.Empty(t, snap.Removing)
	assert.Equal(t, "Removed a@x.com from Chess Club", snap.Feedback.Text)
	assert.Contains(t, f.surface.LastHTML(), "No participants yet")

	require.Equal(t, 1, f.clock.count())
	assert.Equal(t, 4*time.Second, f.clock.timer(0).delay)
}

func TestRemoveParticipant_FailureRestoresControl(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.board.LoadActivities(context.Background()))
	f.client.removeErr = appFailure(400, "Not found")

	err := f.board.RemoveParticipant(context.Background(), "Chess Club", "a@x.com", confirmYes())
	require.Error(t, err)

	var sawPending bool
	for _, frame := range f.surface.frames {
		if strings.Contains(frame, `disabled="">...</button>`) {
			sawPending = true
		}
	}
	assert.True(t, sawPending, "control was not marked pending before settlement")

	snap := f.board.Snapshot()
	assert.Equal(t, "Not found", snap.Feedback.Text)
	assert.Equal(t, board.FeedbackError, snap.Feedback.Kind)
	assert.False(t, snap.IsRemoving("Chess Club", "a@x.com"))

	btn := byClass(f.surface.Last(), "remove-participant")[0]
	_, disabled := attrOf(btn, "disabled")
	assert.False(t, disabled)
	assert.Equal(t, "×", textOf(btn))
}

func TestRemoveParticipant_TransportFailureText(t *testing.T) {
	f := newFixture(t)
	f.client.removeErr = domain.TransportFailure("remove_participant", errors.New("reset"))

	require.Error(t, f.board.RemoveParticipant(context.Background(), "Chess Club", "a@x.com", confirmYes()))
	assert.Equal(t, "Failed to remove participant. Try again.", f.board.Snapshot().Feedback.Text)
}

func TestRemoveParticipant_NoRequestWithoutConfirmation(t *testing.T) {
	f := newFixture(t)

	var prompt string
	declined := board.ConfirmFunc(func(_ context.Context, p string) bool {
		prompt = p
		return false
	})

	require.NoError(t, f.board.RemoveParticipant(context.Background(), "Chess Club", "a@x.com", declined))
	require.NoError(t, f.board.RemoveParticipant(context.Background(), "Chess Club", "a@x.com", nil))
	require.NoError(t, f.board.RemoveParticipant(context.Background(), "", "a@x.com", confirmYes()))
	require.NoError(t, f.board.RemoveParticipant(context.Background(), "Chess Club", "", confirmYes()))

	assert.Equal(t, "Remove a@x.com from Chess Club?", prompt)
	assert.Empty(t, f.client.removals)
	assert.Equal(t, 0, f.clock.count())
}

func TestFeedback_StaleTimerDoesNotHideNewerMessage(t *testing.T) {
	f := newFixture(t)
	f.client.signupErr = appFailure(400, "first")
	_ = f.board.SubmitSignup(context.Background(), "a@x.com", "Chess Club")

	f.client.signupErr = appFailure(400, "second")
	_ = f.board.SubmitSignup(context.Background(), "a@x.com", "Chess Club")

	require.Equal(t, 2, f.clock.count())
	assert.True(t, f.clock.timer(0).stopped)

	// an already-fired old timer must be ignored
	f.clock.timer(0).fn()
	snap := f.board.Snapshot()
	assert.True(t, snap.Feedback.Visible)
	assert.Equal(t, "second", snap.Feedback.Text)

	f.clock.timer(1).fn()
	assert.False(t, f.board.Snapshot().Feedback.Visible)
	assert.True(t, hasClass(byID(t, f.surface.Last(), "message"), "hidden"))
}

func TestRejectSignup_ShowsErrorWithoutRequest(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.board.LoadActivities(context.Background()))

	f.board.RejectSignup("", "Chess Club", "Please enter your email.")

	snap := f.board.Snapshot()
	assert.Equal(t, board.Feedback{Text: "Please enter your email.", Kind: board.FeedbackError, Visible: true}, snap.Feedback)
	assert.Equal(t, board.Form{Activity: "Chess Club"}, snap.Form)
	assert.Empty(t, f.client.signups)
	require.Equal(t, 1, f.clock.count())
	assert.Equal(t, 5*time.Second, f.clock.timer(0).delay)
}
