package board_test

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"activityboard/internal/board"
	"activityboard/internal/domain"
	"activityboard/internal/domain/activity"
)

type clientFake struct {
	mu      sync.Mutex
	catalog activity.Catalog
	listErr error

	signupMsg string
	signupErr error
	removeMsg string
	removeErr error

	signups  []string
	removals []string
}

func chessCatalog() activity.Catalog {
	return activity.Catalog{Activities: []activity.Activity{{
		Name:            "Chess Club",
		Description:     "d",
		Schedule:        "Mon",
		MaxParticipants: 2,
		Participants:    []string{"a@x.com"},
	}}}
}

func (c *clientFake) ListActivities(ctx context.Context) (activity.Catalog, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.listErr != nil {
		return activity.Catalog{}, c.listErr
	}
	return c.catalog.Clone(), nil
}

func (c *clientFake) Signup(ctx context.Context, name, email string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.signups = append(c.signups, name+"/"+email)
	if c.signupErr != nil {
		return "", c.signupErr
	}
	for i, a := range c.catalog.Activities {
		if a.Name == name {
			c.catalog.Activities[i].Participants = append(a.Participants, email)
		}
	}
	return c.signupMsg, nil
}

func (c *clientFake) RemoveParticipant(ctx context.Context, name, email string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removals = append(c.removals, name+"/"+email)
	if c.removeErr != nil {
		return "", c.removeErr
	}
	for i, a := range c.catalog.Activities {
		if a.Name != name {
			continue
		}
		kept := a.Participants[:0:0]
		for _, p := range a.Participants {
			if p != email {
				kept = append(kept, p)
			}
		}
		c.catalog.Activities[i].Participants = kept
	}
	return c.removeMsg, nil
}

// surfaceRecorder keeps every rendered frame as HTML.
type surfaceRecorder struct {
	mu     sync.Mutex
	frames []string
	last   *html.Node
}

func (s *surfaceRecorder) Apply(root *html.Node) {
	var buf bytes.Buffer
	if err := html.Render(&buf, root); err != nil {
		panic(err)
	}
	s.mu.Lock()
	s.frames = append(s.frames, buf.String())
	s.last = root
	s.mu.Unlock()
}

func (s *surfaceRecorder) Last() *html.Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func (s *surfaceRecorder) LastHTML() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames[len(s.frames)-1]
}

type fakeTimer struct {
	fn      func()
	delay   time.Duration
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

// clockFake records scheduled callbacks; tests fire them explicitly.
type clockFake struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (c *clockFake) AfterFunc(d time.Duration, f func()) board.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{fn: f, delay: d}
	c.timers = append(c.timers, t)
	return t
}

func (c *clockFake) timer(i int) *fakeTimer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timers[i]
}

func (c *clockFake) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

func confirmYes() board.Confirmer {
	return board.ConfirmFunc(func(context.Context, string) bool { return true })
}

func appFailure(status int, detail string) error {
	return domain.ApplicationFailure(status, detail)
}

func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && match(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func attrOf(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func hasClass(n *html.Node, class string) bool {
	v, _ := attrOf(n, "class")
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}

func byID(t *testing.T, root *html.Node, id string) *html.Node {
	t.Helper()
	nodes := findAll(root, func(n *html.Node) bool {
		v, ok := attrOf(n, "id")
		return ok && v == id
	})
	require.Len(t, nodes, 1, "element #%s", id)
	return nodes[0]
}

func byClass(root *html.Node, class string) []*html.Node {
	return findAll(root, func(n *html.Node) bool { return hasClass(n, class) })
}

func textOf(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
