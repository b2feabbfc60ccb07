package auth

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	session    *Session
	refreshed  bool
	getErr     error
	signOutErr error
	signOuts   int
}

func (p *fakeProvider) GetSession(context.Context, Tokens) (*Session, bool, error) {
	if p.getErr != nil {
		return nil, false, p.getErr
	}
	if p.session == nil {
		return nil, false, ErrNoSession
	}
	return p.session, p.refreshed, nil
}

func (p *fakeProvider) SignInWithPassword(_ context.Context, email, password string) (*Session, error) {
	if password != "s3cret" {
		return nil, ErrInvalidCredentials
	}
	return &Session{AdminID: "admin-1", Email: email}, nil
}

func (p *fakeProvider) SignOut(context.Context, *Session) error {
	p.signOuts++
	return p.signOutErr
}

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) listen(ev Event, _ *Session) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

func TestHolder_InitWithoutTokens(t *testing.T) {
	h := NewHolder(&fakeProvider{})
	assert.True(t, h.Loading())

	var rec recorder
	h.Subscribe(rec.listen)
	require.NoError(t, h.Init(context.Background(), Tokens{}))

	assert.False(t, h.Loading())
	assert.False(t, h.Authenticated())
	assert.Equal(t, []Event{InitialSession}, rec.events)
}

func TestHolder_InitWithRotatedTokens(t *testing.T) {
	p := &fakeProvider{session: &Session{AdminID: "admin-1"}, refreshed: true}
	h := NewHolder(p)

	var rec recorder
	h.Subscribe(rec.listen)
	require.NoError(t, h.Init(context.Background(), Tokens{Refresh: "r"}))

	assert.True(t, h.Authenticated())
	assert.Equal(t, []Event{InitialSession, TokenRefreshed}, rec.events)
}

func TestHolder_InitWithStaleTokensSignsOut(t *testing.T) {
	h := NewHolder(&fakeProvider{})

	var rec recorder
	h.Subscribe(rec.listen)
	require.NoError(t, h.Init(context.Background(), Tokens{Access: "old"}))

	assert.False(t, h.Authenticated())
	assert.Equal(t, []Event{InitialSession, SignedOut}, rec.events)
}

func TestHolder_InitBackendFailureKeepsTokens(t *testing.T) {
	down := errors.New("redis down")
	h := NewHolder(&fakeProvider{getErr: down})

	var rec recorder
	h.Subscribe(rec.listen)
	err := h.Init(context.Background(), Tokens{Refresh: "r"})

	assert.ErrorIs(t, err, down)
	assert.False(t, h.Authenticated())
	assert.False(t, h.Loading())
	assert.Equal(t, []Event{InitialSession}, rec.events)
}

func TestHolder_SignInAndOut(t *testing.T) {
	p := &fakeProvider{signOutErr: errors.New("redis down")}
	h := NewHolder(p)
	require.NoError(t, h.Init(context.Background(), Tokens{}))

	var rec recorder
	unsubscribe := h.Subscribe(rec.listen)

	_, err := h.SignIn(context.Background(), "owner@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.False(t, h.Authenticated())
	assert.Empty(t, rec.events)

	sess, err := h.SignIn(context.Background(), "owner@example.com", "s3cret")
	require.NoError(t, err)
	assert.Same(t, sess, h.Session())

	err = h.SignOut(context.Background())
	assert.EqualError(t, err, "redis down")
	assert.False(t, h.Authenticated(), "local session is cleared even when revocation fails")
	assert.Equal(t, 1, p.signOuts)
	assert.Equal(t, []Event{SignedIn, SignedOut}, rec.events)

	unsubscribe()
	require.NoError(t, h.Notify(SignedIn, sess))
	assert.Len(t, rec.events, 2)
}

func TestHolder_Close(t *testing.T) {
	h := NewHolder(&fakeProvider{})
	var rec recorder
	h.Subscribe(rec.listen)
	h.Close()

	assert.ErrorIs(t, h.Init(context.Background(), Tokens{}), ErrClosed)
	assert.ErrorIs(t, h.Notify(SignedIn, &Session{}), ErrClosed)
	_, err := h.SignIn(context.Background(), "owner@example.com", "s3cret")
	assert.ErrorIs(t, err, ErrClosed)
	assert.Empty(t, rec.events)
}

func TestHolder_ConcurrentReaders(t *testing.T) {
	h := NewHolder(&fakeProvider{})
	require.NoError(t, h.Init(context.Background(), Tokens{}))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = h.Authenticated()
		}()
		go func() {
			defer wg.Done()
			_ = h.Notify(SignedIn, &Session{AdminID: "admin-1"})
		}()
	}
	wg.Wait()
	assert.True(t, h.Authenticated())
}
