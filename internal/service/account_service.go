package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/blog-dashboard/internal/auth"
	"github.com/spec-kit/blog-dashboard/internal/domain"
	"github.com/spec-kit/blog-dashboard/internal/events"
	"github.com/spec-kit/blog-dashboard/internal/store"
)

// Account manager failures.
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTooManyAttempts    = errors.New("too many login attempts")
)

// AccountService coordinates registration and login flows.
type AccountService struct {
	store      store.Store
	tokens     *auth.TokenManager
	dispatcher events.Dispatcher
	throttle   *LoginThrottle
	bcryptCost int
}

// AccountDependencies bundles collaborators for the account service.
type AccountDependencies struct {
	Store      store.Store
	Tokens     *auth.TokenManager
	Dispatcher events.Dispatcher
	Throttle   *LoginThrottle
	BcryptCost int
}

// NewAccountService builds the service.
func NewAccountService(deps AccountDependencies) *AccountService {
	return &AccountService{
		store:      deps.Store,
		tokens:     deps.Tokens,
		dispatcher: deps.Dispatcher,
		throttle:   deps.Throttle,
		bcryptCost: deps.BcryptCost,
	}
}

// Register creates a new account. The uniqueness check and the append run in
// the same store transaction, so two racing signups cannot both claim an
// email. The stored credential is a bcrypt hash; the plaintext never leaves
// this function.
func (s *AccountService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	err = s.store.Update(ctx, func(snap *store.Snapshot) error {
		if snap.UserByEmail(email) != nil {
			return ErrEmailTaken
		}
		snap.Users = append(snap.Users, user)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventUserRegistered, domain.Identity{ID: user.ID, Email: user.Email, Name: user.Name},
		events.UserRegisteredPayload{Email: user.Email, Name: user.Name})

	sanitized := user
	sanitized.PasswordHash = ""
	return &sanitized, nil
}

// Login authenticates by email and password and issues a token. Unknown
// email and wrong password collapse into the same error so callers cannot
// enumerate accounts.
func (s *AccountService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	if !s.throttle.Allow(ctx, email) {
		return nil, "", time.Time{}, ErrTooManyAttempts
	}

	var user *domain.User
	err := s.store.View(ctx, func(snap *store.Snapshot) error {
		if found := snap.UserByEmail(email); found != nil {
			copied := *found
			user = &copied
		}
		return nil
	})
	if err != nil {
		return nil, "", time.Time{}, err
	}

	if user == nil || auth.ComparePassword(user.PasswordHash, password) != nil {
		s.throttle.RecordFailure(ctx, email)
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	s.throttle.Reset(ctx, email)

	token, expiresAt, err := s.tokens.Issue(domain.Identity{ID: user.ID, Email: user.Email, Name: user.Name})
	if err != nil {
		return nil, "", time.Time{}, err
	}

	user.PasswordHash = ""
	return user, token, expiresAt, nil
}

func (s *AccountService) publish(ctx context.Context, eventType events.EventType, actor domain.Identity, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Actor:     events.Actor{UserID: actor.ID, Name: actor.Name},
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	})
}
