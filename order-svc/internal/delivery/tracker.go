package delivery

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrSuperseded = errors.New("delivery quote superseded by a newer request")

const sessionIdleTTL = 30 * time.Minute

type session struct {
	token   uint64
	cancel  context.CancelFunc
	touched time.Time
}

// Tracker applies last-write-wins to quote requests of one address input
// session. Starting a newer request cancels the older in-flight lookup and
// an older token can never replace a newer one, whatever order the lookups
// finish in.
type Tracker struct {
	mu       sync.Mutex
	sessions map[string]*session
	now      func() time.Time
}

func NewTracker() *Tracker {
	return &Tracker{sessions: make(map[string]*session), now: time.Now}
}

// Begin registers token as the latest request for key. A zero token is
// assigned the next value. The returned context is cancelled when a newer
// request begins; release must be called once the lookup is finished.
func (t *Tracker) Begin(ctx context.Context, key string, token uint64) (context.Context, uint64, func(), error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.prune(now)

	s, ok := t.sessions[key]
	if !ok {
		s = &session{}
		t.sessions[key] = s
	}
	if token == 0 {
		token = s.token + 1
	}
	if token <= s.token {
		return nil, token, func() {}, ErrSuperseded
	}

	if s.cancel != nil {
		s.cancel()
	}
	reqCtx, cancel := context.WithCancel(ctx)
	s.token = token
	s.cancel = cancel
	s.touched = now

	release := func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if cur, ok := t.sessions[key]; ok && cur.token == token {
			cur.cancel = nil
		}
		cancel()
	}
	return reqCtx, token, release, nil
}

// Current reports whether token is still the latest request for key.
func (t *Tracker) Current(key string, token uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.sessions[key]
	return ok && s.token == token
}

func (t *Tracker) prune(now time.Time) {
	for key, s := range t.sessions {
		if s.cancel == nil && now.Sub(s.touched) > sessionIdleTTL {
			delete(t.sessions, key)
		}
	}
}
