package view

import (
	"bytes"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// Frame is one rendered version of a board.
type Frame struct {
	Version uint64
	HTML    string
}

// Page is a board Surface that keeps the latest rendered HTML and pushes
// each new frame to subscribers. Slow subscribers only ever see the newest
// frame; intermediate ones are dropped.
type Page struct {
	log *zap.Logger

	mu      sync.RWMutex
	current Frame
	subs    map[chan Frame]struct{}
}

func NewPage(log *zap.Logger) *Page {
	if log == nil {
		log = zap.NewNop()
	}
	return &Page{
		log:  log,
		subs: make(map[chan Frame]struct{}),
	}
}

func (p *Page) Apply(root *html.Node) {
	var buf bytes.Buffer
	if err := html.Render(&buf, root); err != nil {
		p.log.Error("render board", zap.Error(err))
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.current = Frame{Version: p.current.Version + 1, HTML: buf.String()}
	for ch := range p.subs {
		select {
		case ch <- p.current:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- p.current
		}
	}
}

// Current returns the latest frame.
func (p *Page) Current() Frame {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

// Subscribe registers for new frames. The returned cancel func must be called
// once the subscriber is done.
func (p *Page) Subscribe() (<-chan Frame, func()) {
	ch := make(chan Frame, 1)

	p.mu.Lock()
	p.subs[ch] = struct{}{}
	p.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.subs, ch)
			p.mu.Unlock()
		})
	}
}

func (p *Page) Subscribers() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.subs)
}
