package token

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// Leeway is the fixed clock-skew tolerance applied when validating exp/iat.
const Leeway = 5 * time.Second

var (
	ErrTokenInvalid   = errors.New("token invalid")
	ErrTokenExpired   = errors.New("token expired")
	ErrWrongTokenType = errors.New("wrong token type")
)

// Claims is the signed payload carried by every token. The jti registered
// claim is the revocation key: blacklisting a jti kills exactly one token.
type Claims struct {
	Tier             string `json:"tier"`
	TokenType        string `json:"type"`
	MinutesRemaining int64  `json:"minutes_remaining"`
	jwtlib.RegisteredClaims
}

// RemainingLifetime returns how long the token stays valid from now.
// Zero or negative means already expired.
func (c *Claims) RemainingLifetime(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return c.ExpiresAt.Time.Sub(now)
}

// Codec signs and verifies tokens. Signing is pure computation, no I/O.
type Codec struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func New(secret string, accessTTL, refreshTTL time.Duration) *Codec {
	return &Codec{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// WithClock overrides the time source. Tests only.
func (c *Codec) WithClock(now func() time.Time) *Codec {
	c.now = now
	return c
}

func (c *Codec) AccessTTL() time.Duration  { return c.accessTTL }
func (c *Codec) RefreshTTL() time.Duration { return c.refreshTTL }

// Issue signs a token of the given type with a fresh jti. The tier and the
// quota snapshot are stamped into the claims so request-time checks can skip
// a store round-trip for the token's lifetime.
func (c *Codec) Issue(userID, tier, tokenType string, minutesRemaining int64) (string, *Claims, error) {
	now := c.now()
	ttl := c.accessTTL
	if tokenType == TypeRefresh {
		ttl = c.refreshTTL
	}

	claims := &Claims{
		Tier:             tier,
		TokenType:        tokenType,
		MinutesRemaining: minutesRemaining,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   userID,
			ID:        uuid.NewString(),
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

// Verify checks signature, structure and expiry, then the token type.
// Signature comparison inside the jwt library is constant time (HMAC).
func (c *Codec) Verify(raw, wantType string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwtlib.ParseWithClaims(raw, claims,
		func(t *jwtlib.Token) (any, error) {
			return c.secret, nil
		},
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithLeeway(Leeway),
		jwtlib.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !tok.Valid || claims.Subject == "" || claims.ID == "" {
		return nil, ErrTokenInvalid
	}
	if claims.TokenType != wantType {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}
