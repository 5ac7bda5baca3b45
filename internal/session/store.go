package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/macromind-app/macromind-cli/internal/api"
	"github.com/macromind-app/macromind-cli/internal/common"
	"github.com/macromind-app/macromind-cli/internal/credstore"
	"github.com/macromind-app/macromind-cli/internal/logging"
	"github.com/macromind-app/macromind-cli/internal/models"
)

// Store is the session state machine and the single source of truth for
// identity. All transitions go through it; the credential store is only
// written after the corresponding server call succeeded.
//
// Every server round trip that can replace the user snapshot reserves a
// monotonic ticket before going to the network, and its result is discarded
// if a newer transition has landed meanwhile. A slow profile refresh can
// therefore never clobber a newer onboarding submission.
type Store struct {
	creds credstore.Store
	api   api.Client
	log   logging.Logger

	mu      sync.Mutex
	state   State
	user    *models.User
	opSeq   uint64 // last reserved ticket
	applied uint64 // ticket of the last applied write

	subMu  sync.Mutex
	nextID int
	subs   map[int]func(State)
}

// New wires a session store to its collaborators and registers the gateway
// hooks: rotated token pairs are persisted, a fatal refresh failure forces
// a global logout. The store starts Uninitialized; call Initialize.
func New(creds credstore.Store, gateway api.Client, log logging.Logger) *Store {
	if log == nil {
		log = logging.NopLogger{}
	}
	s := &Store{
		creds: creds,
		api:   gateway,
		log:   log,
		state: Uninitialized,
		subs:  make(map[int]func(State)),
	}

	type hooked interface {
		OnTokensRotated(func(ctx context.Context, pair models.TokenPair))
		OnSessionExpired(func(ctx context.Context))
	}
	if h, ok := gateway.(hooked); ok {
		h.OnTokensRotated(s.persistRotatedTokens)
		h.OnSessionExpired(s.forceLogout)
	}
	return s
}

// State returns the current machine state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// User returns the current snapshot (the fixed guest user in guest mode,
// nil otherwise than guest/authenticated).
func (s *Store) User() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// IsAuthenticated reports whether a real account is active.
func (s *Store) IsAuthenticated() bool { return s.State().IsAuthenticated() }

// IsGuest reports whether the guest identity is active.
func (s *Store) IsGuest() bool { return s.State() == GuestActive }

// HasCompletedOnboarding is true only for a server-confirmed completion.
// Guests never complete onboarding.
func (s *Store) HasCompletedOnboarding() bool { return s.State() == AuthenticatedComplete }

// Subscribe registers fn to run after every state change and returns an
// unsubscribe function. fn is called outside the store lock.
func (s *Store) Subscribe(fn func(State)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) notify(state State) {
	s.subMu.Lock()
	fns := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn(state)
	}
}

// reserve hands out a ticket for an upcoming state write.
func (s *Store) reserve() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opSeq++
	return s.opSeq
}

// commit applies fn under the lock unless a newer ticket has already been
// applied. Returns whether the write landed; subscribers are notified only
// for landed writes.
func (s *Store) commit(ticket uint64, fn func()) bool {
	s.mu.Lock()
	if ticket < s.applied {
		s.mu.Unlock()
		s.log.Debug(context.Background(), "stale result discarded", "ticket", ticket, "applied", s.applied)
		return false
	}
	s.applied = ticket
	fn()
	state := s.state
	s.mu.Unlock()
	s.notify(state)
	return true
}

// setUser derives the authenticated substate from the snapshot's completion
// flag. Only an exact true counts as completed.
func (s *Store) setUser(user *models.User) {
	s.user = user
	if user.Profile.HasCompletedOnboarding {
		s.state = AuthenticatedComplete
	} else {
		s.state = AuthenticatedIncomplete
	}
}

// Initialize runs the startup check: guest flag first, then stored tokens
// plus a fresh profile fetch. An unreadable or rejected stored token is
// treated as no session at all.
func (s *Store) Initialize(ctx context.Context) error {
	s.mu.Lock()
	if s.state != Uninitialized {
		s.mu.Unlock()
		return fmt.Errorf("session already initialized")
	}
	s.state = Loading
	s.mu.Unlock()
	s.notify(Loading)

	ticket := s.reserve()

	guest, err := s.creds.IsGuestFlagSet(ctx)
	if err != nil {
		return s.failInit(ctx, ticket, fmt.Errorf("failed to read guest flag: %w", err))
	}
	if guest {
		s.log.Info(ctx, "guest mode restored")
		s.commit(ticket, func() {
			s.state = GuestActive
			s.user = models.GuestUser()
		})
		return nil
	}

	pair, err := s.creds.LoadTokens(ctx)
	if err != nil {
		return s.failInit(ctx, ticket, fmt.Errorf("failed to load tokens: %w", err))
	}
	if pair == nil {
		s.log.Info(ctx, "no stored session")
		s.commit(ticket, func() {
			s.state = Unauthenticated
			s.user = nil
		})
		return nil
	}

	s.api.SetTokens(*pair)
	user, err := s.api.FetchProfile(ctx)
	if err != nil {
		return s.failInit(ctx, ticket, fmt.Errorf("stored session rejected: %w", err))
	}

	if err := s.creds.CacheUser(ctx, user); err != nil {
		s.log.Warn(ctx, "failed to cache user snapshot", "error", err)
	}
	s.commit(ticket, func() { s.setUser(user) })
	s.log.Info(ctx, "session restored", "state", s.State().String())
	return nil
}

// failInit clears whatever partial credentials exist and lands in
// Unauthenticated. Initialization failure is not an application error for
// the caller beyond knowing there is no session; the cause is logged.
func (s *Store) failInit(ctx context.Context, ticket uint64, cause error) error {
	s.log.Warn(ctx, "session initialization failed", "error", cause)
	s.api.ClearTokens()
	if err := s.creds.ClearAll(ctx); err != nil {
		s.log.Error(ctx, "failed to clear credentials", "error", err)
	}
	s.commit(ticket, func() {
		s.state = Unauthenticated
		s.user = nil
	})
	return nil
}

// Login performs the composed sign-in: gateway login, token persistence,
// then a mandatory profile fetch. No caller can observe tokens without a
// fresh snapshot: if the fetch fails the tokens are cleared and the whole
// login reports ProfileSyncFailed.
func (s *Store) Login(ctx context.Context, email, password string) (*models.User, error) {
	pair, err := s.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.adoptTokens(ctx, pair)
}

// Register is the same composed operation over account creation.
func (s *Store) Register(ctx context.Context, email, password string) (*models.User, error) {
	pair, err := s.api.Register(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.adoptTokens(ctx, pair)
}

// adoptTokens finishes a successful login/register: guest mode is dropped,
// the pair is persisted, and the profile is re-fetched from the server
// before success is declared. The locally cached snapshot is never trusted
// at this boundary.
func (s *Store) adoptTokens(ctx context.Context, pair models.TokenPair) (*models.User, error) {
	ticket := s.reserve()

	if err := s.creds.ClearGuestFlag(ctx); err != nil {
		s.log.Warn(ctx, "failed to clear guest flag", "error", err)
	}
	if err := s.creds.SaveTokens(ctx, pair); err != nil {
		s.api.ClearTokens()
		return nil, fmt.Errorf("failed to persist tokens: %w", err)
	}

	user, err := s.api.FetchProfile(ctx)
	if err != nil {
		// Half-authenticated limbo is not a state: drop the tokens.
		s.api.ClearTokens()
		if clearErr := s.creds.ClearTokens(ctx); clearErr != nil {
			s.log.Error(ctx, "failed to clear tokens", "error", clearErr)
		}
		s.commit(ticket, func() {
			s.state = Unauthenticated
			s.user = nil
		})
		return nil, fmt.Errorf("%w: %v", common.ErrProfileSyncFailed, err)
	}

	if err := s.creds.CacheUser(ctx, user); err != nil {
		s.log.Warn(ctx, "failed to cache user snapshot", "error", err)
	}
	s.commit(ticket, func() { s.setUser(user) })
	s.log.Info(ctx, "signed in", "onboarding_completed", user.Profile.HasCompletedOnboarding)
	return user, nil
}

// EnterGuest activates the synthetic guest identity. Stored credentials are
// cleared first; guest and authenticated are never active together. The only
// way out is Logout or a successful Login/Register.
func (s *Store) EnterGuest(ctx context.Context) error {
	ticket := s.reserve()

	s.api.ClearTokens()
	if err := s.creds.ClearTokens(ctx); err != nil {
		return fmt.Errorf("failed to clear tokens: %w", err)
	}
	if err := s.creds.CacheUser(ctx, nil); err != nil {
		s.log.Warn(ctx, "failed to clear cached user", "error", err)
	}
	if err := s.creds.SetGuestFlag(ctx); err != nil {
		return fmt.Errorf("failed to set guest flag: %w", err)
	}

	s.commit(ticket, func() {
		s.state = GuestActive
		s.user = models.GuestUser()
	})
	s.log.Info(ctx, "guest mode entered")
	return nil
}

// Logout tears the session down unconditionally. The server call is
// best-effort; local credentials are cleared and the state lands in
// Unauthenticated no matter what. Calling it twice is safe.
func (s *Store) Logout(ctx context.Context) error {
	ticket := s.reserve()

	if s.State().IsAuthenticated() {
		if err := s.api.Logout(ctx); err != nil {
			s.log.Warn(ctx, "server logout failed, clearing local session anyway", "error", err)
		}
	}

	s.api.ClearTokens()
	err := s.creds.ClearAll(ctx)
	if err != nil {
		s.log.Error(ctx, "failed to clear credentials", "error", err)
	}

	s.commit(ticket, func() {
		s.state = Unauthenticated
		s.user = nil
	})
	s.log.Info(ctx, "logged out")
	return err
}

// CompleteOnboarding submits the onboarding answers and accepts the
// transition only if the server echoes the completion flag as exactly true.
// The machine never marks onboarding complete from local form data.
func (s *Store) CompleteOnboarding(ctx context.Context, data models.OnboardingData) (*models.User, error) {
	switch {
	case s.IsGuest():
		return nil, common.ErrGuestNotAllowed
	case !s.IsAuthenticated():
		return nil, common.ErrUnauthorized
	}

	ticket := s.reserve()

	user, err := s.api.SubmitOnboarding(ctx, data)
	if err != nil {
		return nil, err
	}
	if !user.Profile.HasCompletedOnboarding {
		return nil, common.ErrOnboardingNotConfirmed
	}

	if err := s.creds.CacheUser(ctx, user); err != nil {
		s.log.Warn(ctx, "failed to cache user snapshot", "error", err)
	}
	s.commit(ticket, func() { s.setUser(user) })
	s.log.Info(ctx, "onboarding completed")
	return user, nil
}

// UpdateProfile applies a partial profile change. The server response is
// the sole source of truth: it replaces the snapshot verbatim, with no
// client-side merging.
func (s *Store) UpdateProfile(ctx context.Context, update models.ProfileUpdate) (*models.User, error) {
	switch {
	case s.IsGuest():
		return nil, common.ErrGuestNotAllowed
	case !s.IsAuthenticated():
		return nil, common.ErrUnauthorized
	}

	ticket := s.reserve()

	user, err := s.api.UpdateProfile(ctx, update)
	if err != nil {
		return nil, err
	}
	if err := s.creds.CacheUser(ctx, user); err != nil {
		s.log.Warn(ctx, "failed to cache user snapshot", "error", err)
	}
	s.commit(ticket, func() { s.setUser(user) })
	return user, nil
}

// RefreshUserProfile re-fetches the snapshot and recomputes the onboarding
// substate. A no-op returning (nil, nil) for guests and anonymous sessions.
func (s *Store) RefreshUserProfile(ctx context.Context) (*models.User, error) {
	if !s.IsAuthenticated() {
		return nil, nil
	}

	ticket := s.reserve()

	user, err := s.api.FetchProfile(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.creds.CacheUser(ctx, user); err != nil {
		s.log.Warn(ctx, "failed to cache user snapshot", "error", err)
	}
	s.commit(ticket, func() { s.setUser(user) })
	return user, nil
}

// persistRotatedTokens is the gateway hook for a successful mid-request
// token refresh.
func (s *Store) persistRotatedTokens(ctx context.Context, pair models.TokenPair) {
	if err := s.creds.SaveTokens(ctx, pair); err != nil {
		s.log.Error(ctx, "failed to persist rotated tokens", "error", err)
	}
}

// forceLogout is the gateway hook for a fatal refresh failure. It is the
// one place an error unilaterally mutates global state.
func (s *Store) forceLogout(ctx context.Context) {
	ticket := s.reserve()

	if err := s.creds.ClearAll(ctx); err != nil {
		s.log.Error(ctx, "failed to clear credentials", "error", err)
	}
	s.commit(ticket, func() {
		s.state = Unauthenticated
		s.user = nil
	})
	s.log.Warn(ctx, "session expired, forced logout")
}
