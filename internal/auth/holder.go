package auth

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
)

type Event int

const (
	InitialSession Event = iota
	SignedIn
	SignedOut
	TokenRefreshed
)

func (e Event) String() string {
	switch e {
	case InitialSession:
		return "INITIAL_SESSION"
	case SignedIn:
		return "SIGNED_IN"
	case SignedOut:
		return "SIGNED_OUT"
	case TokenRefreshed:
		return "TOKEN_REFRESHED"
	}
	return "UNKNOWN"
}

// Provider is the identity service a Holder talks to.
type Provider interface {
	GetSession(ctx context.Context, tokens Tokens) (*Session, bool, error)
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context, sess *Session) error
}

type Listener func(Event, *Session)

// Holder owns the session for one consumer. Its lifecycle is
// Init, then any number of SignIn, SignOut and Notify calls, then Close.
// Readers may call Session, Loading and Authenticated concurrently.
type Holder struct {
	provider Provider

	mu        sync.RWMutex
	session   *Session
	loading   bool
	closed    bool
	listeners map[int]Listener
	nextID    int
}

func NewHolder(p Provider) *Holder {
	return &Holder{
		provider:  p,
		loading:   true,
		listeners: make(map[int]Listener),
	}
}

// Init resolves the presented tokens. It always emits InitialSession, followed
// by TokenRefreshed when the pair was rotated, or SignedOut when tokens were
// presented but no longer resolve to a session. A provider failure other than
// ErrNoSession leaves the holder anonymous without SignedOut and is returned.
func (h *Holder) Init(ctx context.Context, tokens Tokens) error {
	var (
		sess      *Session
		refreshed bool
		err       error
	)
	presented := tokens.Access != "" || tokens.Refresh != ""
	if presented {
		sess, refreshed, err = h.provider.GetSession(ctx, tokens)
		if err != nil {
			sess, refreshed = nil, false
		}
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return ErrClosed
	}
	h.session = sess
	h.loading = false
	h.mu.Unlock()

	h.emit(InitialSession, sess)
	switch {
	case refreshed:
		h.emit(TokenRefreshed, sess)
	case err != nil && !errors.Is(err, ErrNoSession):
		// the tokens may still be good; leave them with the client
		return fmt.Errorf("resolve session: %w", err)
	case presented && sess == nil:
		h.emit(SignedOut, nil)
	}
	return nil
}

func (h *Holder) SignIn(ctx context.Context, email, password string) (*Session, error) {
	if h.isClosed() {
		return nil, ErrClosed
	}
	sess, err := h.provider.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return sess, h.Notify(SignedIn, sess)
}

// SignOut revokes the session with the provider and clears it locally even when
// revocation fails. The provider error is returned.
func (h *Holder) SignOut(ctx context.Context) error {
	if h.isClosed() {
		return ErrClosed
	}
	err := h.provider.SignOut(ctx, h.Session())
	if nerr := h.Notify(SignedOut, nil); nerr != nil {
		return nerr
	}
	return err
}

// Notify applies a change pushed by the provider and fans it out to listeners.
func (h *Holder) Notify(ev Event, sess *Session) error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return ErrClosed
	}
	if ev == SignedOut {
		sess = nil
	}
	h.session = sess
	h.loading = false
	h.mu.Unlock()

	h.emit(ev, sess)
	return nil
}

// Subscribe registers fn and returns its unsubscribe function.
func (h *Holder) Subscribe(fn Listener) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return func() {}
	}
	id := h.nextID
	h.nextID++
	h.listeners[id] = fn
	return func() {
		h.mu.Lock()
		delete(h.listeners, id)
		h.mu.Unlock()
	}
}

// Close drops every listener. Later mutations return ErrClosed.
func (h *Holder) Close() {
	h.mu.Lock()
	h.closed = true
	h.listeners = make(map[int]Listener)
	h.mu.Unlock()
}

func (h *Holder) Session() *Session {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.session
}

func (h *Holder) Loading() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.loading
}

func (h *Holder) Authenticated() bool {
	return h.Session() != nil
}

func (h *Holder) isClosed() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.closed
}

// emit calls listeners in subscription order without holding the lock, so a
// listener may read the holder or unsubscribe itself.
func (h *Holder) emit(ev Event, sess *Session) {
	h.mu.RLock()
	ids := make([]int, 0, len(h.listeners))
	for id := range h.listeners {
		ids = append(ids, id)
	}
	h.mu.RUnlock()
	slices.Sort(ids)

	for _, id := range ids {
		h.mu.RLock()
		fn, ok := h.listeners[id]
		h.mu.RUnlock()
		if ok {
			fn(ev, sess)
		}
	}
}
