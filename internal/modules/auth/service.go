package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"unitra/internal/domain"
	"unitra/internal/pkg/limits"
	"unitra/internal/pkg/quota"
	"unitra/internal/pkg/token"
	"unitra/internal/store"
)

// Service issues, rotates and revokes token pairs. Revocation state lives in
// the shared store so it holds across replicas.
type Service struct {
	users    UserRepositoryInterface
	codec    tokenCodec
	store    store.Store
	tracker  *quota.Tracker
	failOpen bool
	now      func() time.Time
}

type LoginResult struct {
	User   *domain.User
	Tokens TokenPair
}

func NewService(users UserRepositoryInterface, codec tokenCodec, st store.Store, tracker *quota.Tracker, failOpen bool) *Service {
	return &Service{
		users:    users,
		codec:    codec,
		store:    st,
		tracker:  tracker,
		failOpen: failOpen,
		now:      time.Now,
	}
}

// WithClock overrides the time source. Tests only.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         req.Name,
		Tier:         string(limits.TierFree),
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

// Login authenticates the credentials and issues a fresh access/refresh
// pair. The user's tier and a snapshot of the remaining weekly quota are
// stamped into the claims so request-time checks avoid a store round-trip;
// the snapshot may be up to a token lifetime stale, by contract.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	remaining, err := s.quotaSnapshot(ctx, user)
	if err != nil {
		return nil, err
	}

	pair, err := s.issuePair(user.ID.String(), user.Tier, remaining)
	if err != nil {
		return nil, err
	}

	if err := s.users.RecordLogin(ctx, user.ID, s.now()); err != nil {
		// Login stats are best-effort, the session is already valid.
		_ = err
	}

	user.PasswordHash = ""
	return &LoginResult{User: user, Tokens: pair}, nil
}

// Refresh rotates a refresh token: verify, reject revoked, issue the new
// pair, then revoke the old token. The old jti is blacklisted only after the
// replacement pair exists, so a failure mid-rotation leaves the old token
// usable instead of stranding the session. Rotation is one-shot: a second
// refresh with the same token fails with ErrTokenRevoked.
func (s *Service) Refresh(ctx context.Context, refreshRaw string) (*TokenPair, error) {
	claims, err := s.codec.Verify(refreshRaw, token.TypeRefresh)
	if err != nil {
		return nil, err
	}

	revoked, err := s.store.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		if !s.failOpen {
			return nil, err
		}
		revoked = false
	}
	if revoked {
		return nil, ErrTokenRevoked
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, token.ErrTokenInvalid
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, token.ErrTokenInvalid
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	remaining, err := s.quotaSnapshot(ctx, user)
	if err != nil {
		return nil, err
	}

	pair, err := s.issuePair(user.ID.String(), user.Tier, remaining)
	if err != nil {
		return nil, err
	}

	// Revocation failure discards the new pair: the old token stays the
	// only valid credential, never both.
	if err := s.store.Blacklist(ctx, claims.ID, claims.RemainingLifetime(s.now())); err != nil {
		return nil, err
	}

	return &pair, nil
}

// Logout revokes both tokens for their remaining lifetimes. Expired tokens
// are skipped, there is nothing left to block.
func (s *Service) Logout(ctx context.Context, accessRaw, refreshRaw string) error {
	if err := s.revoke(ctx, accessRaw, token.TypeAccess); err != nil {
		return err
	}
	if refreshRaw == "" {
		return nil
	}
	return s.revoke(ctx, refreshRaw, token.TypeRefresh)
}

func (s *Service) revoke(ctx context.Context, raw, tokenType string) error {
	claims, err := s.codec.Verify(raw, tokenType)
	if err != nil {
		if errors.Is(err, token.ErrTokenExpired) {
			return nil
		}
		return err
	}
	return s.store.Blacklist(ctx, claims.ID, claims.RemainingLifetime(s.now()))
}

func (s *Service) Me(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

// MyUsage reads the live weekly accumulator, not the token snapshot.
func (s *Service) MyUsage(ctx context.Context, userID uuid.UUID, tier string) (*UsageStats, error) {
	week := quota.WeekKey(s.now())
	used, err := s.tracker.Peek(ctx, userID.String(), week)
	if err != nil {
		return nil, err
	}

	l := limits.ForTier(tier)
	return &UsageStats{
		TokensUsedThisWeek:     used,
		TokensLimit:            l.TokensPerWeek,
		TokensRemaining:        quota.Remaining(used, l.TokensPerWeek),
		RequestsPerMinuteLimit: l.RequestsPerMinute,
		Week:                   week,
	}, nil
}

func (s *Service) issuePair(userID, tier string, remaining int64) (TokenPair, error) {
	access, accessClaims, err := s.codec.Issue(userID, tier, token.TypeAccess, remaining)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, _, err := s.codec.Issue(userID, tier, token.TypeRefresh, remaining)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int64(accessClaims.RemainingLifetime(s.now()).Seconds()),
	}, nil
}

func (s *Service) quotaSnapshot(ctx context.Context, user *domain.User) (int64, error) {
	ceiling := user.TierLimits().TokensPerWeek
	if ceiling == limits.Unlimited {
		return limits.Unlimited, nil
	}
	used, err := s.tracker.Peek(ctx, user.ID.String(), quota.WeekKey(s.now()))
	if err != nil {
		if !s.failOpen {
			return 0, err
		}
		used = 0
	}
	return quota.Remaining(used, ceiling), nil
}
