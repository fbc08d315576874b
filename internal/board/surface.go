package board

import (
	"context"
	"time"

	"golang.org/x/net/html"
)

// Surface receives every reconciled render of the board.
// Apply is called with the board lock held and must not call back into the board.
type Surface interface {
	Apply(root *html.Node)
}

type SurfaceFunc func(root *html.Node)

func (f SurfaceFunc) Apply(root *html.Node) { f(root) }

// Confirmer asks the user to approve a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

type ConfirmFunc func(ctx context.Context, prompt string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool { return f(ctx, prompt) }

type Timer interface {
	Stop() bool
}

// Clock schedules the feedback auto-hide.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }
