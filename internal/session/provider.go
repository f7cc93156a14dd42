package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"eduportal/internal/auth"
)

// Identity is the signed-in principal.
type Identity = auth.Identity

var (
	// ErrNoSession means neither token resolves to a live session.
	ErrNoSession = errors.New("no session")
	// ErrRevoked means the token was signed out.
	ErrRevoked = errors.New("token revoked")
)

// Tokens is what a client holds between requests.
type Tokens struct {
	Access  string
	Refresh string
}

// Empty reports whether no token is held.
func (t Tokens) Empty() bool {
	return t.Access == "" && t.Refresh == ""
}

// DefaultRotationGrace is how long a rotated refresh token still resolves, so
// requests that raced the rotation keep their session.
const DefaultRotationGrace = 10 * time.Second

// Option configures a Provider.
type Option func(*Provider)

// WithLogger sets the provider's logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *Provider) { p.log = l }
}

// WithObserver is called once for every event the provider receives.
func WithObserver(fn func(EventKind)) Option {
	return func(p *Provider) { p.observe = fn }
}

// WithRotationGrace overrides DefaultRotationGrace. Zero disables reuse.
func WithRotationGrace(d time.Duration) Option {
	return func(p *Provider) { p.grace = d }
}

// rotation marks a refresh token replaced by GetSession.
type rotation struct {
	subject string
	until   time.Time
}

// Provider owns session state for one process: it issues and resolves tokens and
// keeps the revocation set current from bus notifications.
//
// Lifecycle: NewProvider, Start (subscribe), active, Close (unsubscribe).
type Provider struct {
	signer  auth.Signer
	bus     Bus
	log     *zap.Logger
	observe func(EventKind)
	grace   time.Duration

	mu        sync.RWMutex
	revoked   map[string]time.Time
	rotated   map[string]rotation
	listeners map[uint64]func(Event)
	nextID    uint64

	ready     chan struct{}
	readyOnce sync.Once
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewProvider creates a provider. It resolves nothing until Start is called.
func NewProvider(signer auth.Signer, bus Bus, opts ...Option) *Provider {
	p := &Provider{
		signer:    signer,
		bus:       bus,
		log:       zap.NewNop(),
		grace:     DefaultRotationGrace,
		revoked:   make(map[string]time.Time),
		rotated:   make(map[string]rotation),
		listeners: make(map[uint64]func(Event)),
		ready:     make(chan struct{}),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start subscribes to session changes. Ready closes once the subscription is
// established or has failed; a failed subscription still leaves the provider usable
// for this process.
func (p *Provider) Start(ctx context.Context) error {
	sctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	events, err := p.bus.Subscribe(sctx)
	if err != nil {
		p.markReady()
		close(p.done)
		return err
	}
	p.markReady()

	go func() {
		defer close(p.done)
		for evt := range events {
			p.apply(evt)
			p.notify(evt)
		}
	}()
	return nil
}

// Close unsubscribes and waits for the event loop to exit.
func (p *Provider) Close() {
	if p.cancel == nil {
		return
	}
	p.cancel()
	<-p.done
}

// Ready closes when initial resolution has completed.
func (p *Provider) Ready() <-chan struct{} {
	return p.ready
}

// Resolving reports whether initial resolution is still in progress.
func (p *Provider) Resolving() bool {
	select {
	case <-p.ready:
		return false
	default:
		return true
	}
}

func (p *Provider) markReady() {
	p.readyOnce.Do(func() { close(p.ready) })
}

// OnChange registers fn for every session event. fn runs synchronously on the
// event loop and must not block. The returned func unsubscribes.
func (p *Provider) OnChange(fn func(Event)) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = fn
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.listeners, id)
		p.mu.Unlock()
	}
}

// SignIn starts a session for id.
func (p *Provider) SignIn(ctx context.Context, id Identity) (auth.TokenPair, error) {
	pair, err := p.signer.Issue(id)
	if err != nil {
		return auth.TokenPair{}, err
	}
	p.publish(ctx, Event{Kind: EventSignIn, Subject: id.ID})
	return pair, nil
}

// GetSession resolves tokens to an identity. When only the refresh token is still
// valid it rotates the pair and returns the new one; otherwise the returned pair is nil.
// A refresh token rotated less than the grace period ago still resolves, without a
// new pair, until its subject signs out.
func (p *Provider) GetSession(ctx context.Context, t Tokens) (Identity, *auth.TokenPair, error) {
	if t.Access != "" {
		if claims, err := p.Verify(t.Access); err == nil {
			return claims.Identity(), nil, nil
		}
	}
	if t.Refresh == "" {
		return Identity{}, nil, ErrNoSession
	}
	claims, err := p.signer.Parse(t.Refresh, auth.KindRefresh)
	if err != nil {
		return Identity{}, nil, ErrNoSession
	}
	if p.isRevoked(claims.ID) {
		if p.recentlyRotated(claims.ID) {
			return claims.Identity(), nil, nil
		}
		return Identity{}, nil, ErrNoSession
	}

	id := claims.Identity()
	pair, err := p.signer.Issue(id)
	if err != nil {
		return Identity{}, nil, err
	}
	p.revoke([]string{claims.ID}, claims.ExpiresAt.Time)
	p.markRotated([]string{claims.ID}, id.ID)
	p.publish(ctx, Event{Kind: EventRefresh, Subject: id.ID, Revoked: []string{claims.ID}, Expires: claims.ExpiresAt.Time})
	return id, &pair, nil
}

// Verify checks an access token and its revocation status.
func (p *Provider) Verify(token string) (auth.Claims, error) {
	claims, err := p.signer.Parse(token, auth.KindAccess)
	if err != nil {
		return auth.Claims{}, err
	}
	if p.isRevoked(claims.ID) {
		return auth.Claims{}, ErrRevoked
	}
	return claims, nil
}

// SignOut revokes both tokens on every process.
func (p *Provider) SignOut(ctx context.Context, t Tokens) error {
	var (
		ids     []string
		subject string
		expires time.Time
	)
	if c, err := p.signer.Parse(t.Access, auth.KindAccess); err == nil {
		ids = append(ids, c.ID)
		subject, expires = c.Subject, c.ExpiresAt.Time
	}
	if c, err := p.signer.Parse(t.Refresh, auth.KindRefresh); err == nil {
		ids = append(ids, c.ID)
		subject = c.Subject
		if c.ExpiresAt.Time.After(expires) {
			expires = c.ExpiresAt.Time
		}
	}
	if len(ids) == 0 {
		return ErrNoSession
	}
	p.revoke(ids, expires)
	p.forgetRotations(subject)
	p.publish(ctx, Event{Kind: EventSignOut, Subject: subject, Revoked: ids, Expires: expires})
	return nil
}

// publish broadcasts evt. If the bus is down, local listeners still hear about it.
func (p *Provider) publish(ctx context.Context, evt Event) {
	if err := p.bus.Publish(ctx, evt); err != nil {
		p.log.Warn("session event not broadcast", zap.String("kind", string(evt.Kind)), zap.Error(err))
		p.notify(evt)
	}
}

func (p *Provider) apply(evt Event) {
	if p.observe != nil {
		p.observe(evt.Kind)
	}
	if len(evt.Revoked) > 0 {
		p.revoke(evt.Revoked, evt.Expires)
	}
	switch evt.Kind {
	case EventRefresh:
		p.markRotated(evt.Revoked, evt.Subject)
	case EventSignOut:
		p.forgetRotations(evt.Subject)
	}
}

func (p *Provider) notify(evt Event) {
	p.mu.RLock()
	fns := make([]func(Event), 0, len(p.listeners))
	for _, fn := range p.listeners {
		fns = append(fns, fn)
	}
	p.mu.RUnlock()
	for _, fn := range fns {
		fn(evt)
	}
}

func (p *Provider) revoke(ids []string, until time.Time) {
	if until.IsZero() {
		until = time.Now().Add(p.signer.RefreshTTL)
	}
	now := time.Now()
	p.mu.Lock()
	defer p.mu.Unlock()
	for id, exp := range p.revoked {
		if exp.Before(now) {
			delete(p.revoked, id)
		}
	}
	for _, id := range ids {
		p.revoked[id] = until
	}
}

func (p *Provider) isRevoked(id string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.revoked[id]
	return ok
}

func (p *Provider) markRotated(ids []string, subject string) {
	if p.grace <= 0 {
		return
	}
	now := time.Now()
	p.mu.Lock()
	defer p.mu.Unlock()
	for id, r := range p.rotated {
		if r.until.Before(now) {
			delete(p.rotated, id)
		}
	}
	for _, id := range ids {
		if _, seen := p.rotated[id]; !seen {
			p.rotated[id] = rotation{subject: subject, until: now.Add(p.grace)}
		}
	}
}

func (p *Provider) forgetRotations(subject string) {
	if subject == "" {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for id, r := range p.rotated {
		if r.subject == subject {
			delete(p.rotated, id)
		}
	}
}

func (p *Provider) recentlyRotated(id string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	r, ok := p.rotated[id]
	return ok && time.Now().Before(r.until)
}
