package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/Camille-Li-1022/demo-user-register-login/internal/cache"
	"github.com/Camille-Li-1022/demo-user-register-login/internal/domain"
	"github.com/Camille-Li-1022/demo-user-register-login/internal/email"
	"github.com/Camille-Li-1022/demo-user-register-login/internal/repository"
	"github.com/Camille-Li-1022/demo-user-register-login/internal/token"
	"golang.org/x/crypto/bcrypt"
)

const defaultUserCacheTTL = 24 * time.Hour

// BcryptCost is the work factor for password hashes. Shared with cmd/seed
// so seeded users hash identically to registered ones.
const BcryptCost = 10

// cachedUser is the user projection stored under user:<email>. It carries
// the password hash so that a cache hit can serve the whole login path
// without touching the database.
type cachedUser struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// AuthUsecase issues session tokens and keeps the single-active-session
// registry consistent. One token per user is valid at a time: each login
// overwrites the user_token:<id> registry entry, and Authenticate only
// accepts the token that matches that entry exactly.
type AuthUsecase struct {
	users        repository.UserRepository
	cache        cache.Cache
	codec        *token.Codec
	welcome      email.Sender
	logger       *slog.Logger
	userCacheTTL time.Duration
}

// NewAuthUsecase wires the session authority. userCacheTTL bounds both the
// user projection and the session registry entries; zero or negative falls
// back to 24h.
func NewAuthUsecase(users repository.UserRepository, c cache.Cache, codec *token.Codec, welcome email.Sender, logger *slog.Logger, userCacheTTL time.Duration) *AuthUsecase {
	if userCacheTTL <= 0 {
		userCacheTTL = defaultUserCacheTTL
	}
	return &AuthUsecase{
		users:        users,
		cache:        c,
		codec:        codec,
		welcome:      welcome,
		logger:       logger.With("component", "auth_usecase"),
		userCacheTTL: userCacheTTL,
	}
}

func userKey(email string) string {
	return "user:" + email
}

func tokenKey(userID int64) string {
	return "user_token:" + strconv.FormatInt(userID, 10)
}

// normalizeEmail fixes the email policy: trimmed and lower-cased before any
// store or cache access.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new identity. Returns domain.ErrEmailTaken when the
// email already has one, including when a concurrent registration wins the
// race and the insert hits the unique constraint.
func (u *AuthUsecase) Register(ctx context.Context, emailAddr, password string) error {
	emailAddr = normalizeEmail(emailAddr)

	_, err := u.users.FindByEmail(ctx, emailAddr)
	if err == nil {
		return domain.ErrEmailTaken
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("find user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if _, err := u.users.Create(ctx, emailAddr, string(hash)); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("create user: %w", err)
	}

	// Best effort: a failed welcome email must not fail the registration.
	if err := u.welcome.Send(ctx, emailAddr, "Welcome",
		"<p>Your account has been created. You can now log in.</p>"); err != nil {
		u.logger.WarnContext(ctx, "welcome email", "error", err)
	}

	return nil
}

// Login verifies the credentials and returns a freshly signed token. The
// registry entry for the user is overwritten, which makes any previously
// issued token fail Authenticate from now on.
func (u *AuthUsecase) Login(ctx context.Context, emailAddr, password string) (string, error) {
	emailAddr = normalizeEmail(emailAddr)

	user, err := u.resolveUser(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", fmt.Errorf("resolve user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", domain.ErrInvalidCredentials
	}

	signed, err := u.codec.Sign(user.ID, user.Email)
	if err != nil {
		return "", err
	}

	if err := u.cache.Set(ctx, tokenKey(user.ID), signed, u.userCacheTTL); err != nil {
		return "", fmt.Errorf("store session token: %w", err)
	}

	return signed, nil
}

// resolveUser reads the user projection through the cache, falling back to
// the store on a miss and populating the projection for the next lookup.
// The store stays authoritative: a corrupt cache entry is treated as a miss.
func (u *AuthUsecase) resolveUser(ctx context.Context, emailAddr string) (*domain.User, error) {
	raw, err := u.cache.Get(ctx, userKey(emailAddr))
	if err == nil {
		var cu cachedUser
		if jsonErr := json.Unmarshal([]byte(raw), &cu); jsonErr == nil {
			return &domain.User{
				ID:           cu.ID,
				Email:        cu.Email,
				PasswordHash: cu.PasswordHash,
				CreatedAt:    cu.CreatedAt,
			}, nil
		}
		u.logger.WarnContext(ctx, "corrupt user projection, falling back to store", "key", userKey(emailAddr))
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		return nil, fmt.Errorf("read user projection: %w", err)
	}

	user, err := u.users.FindByEmail(ctx, emailAddr)
	if err != nil {
		return nil, err
	}

	blob, err := json.Marshal(cachedUser{
		ID:           user.ID,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("encode user projection: %w", err)
	}
	if err := u.cache.Set(ctx, userKey(emailAddr), string(blob), u.userCacheTTL); err != nil {
		return nil, fmt.Errorf("write user projection: %w", err)
	}

	return user, nil
}

// Authenticate is the full verification path: signature and expiry via the
// codec, then an exact match against the session registry entry. Any normal
// invalid-token cause yields domain.ErrTokenInvalid; other errors are cache
// faults.
func (u *AuthUsecase) Authenticate(ctx context.Context, raw string) (*token.Claims, error) {
	claims, err := u.codec.Verify(raw)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}

	stored, err := u.cache.Get(ctx, tokenKey(claims.UserID))
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, fmt.Errorf("read session token: %w", err)
	}

	if stored != raw {
		return nil, domain.ErrTokenInvalid
	}

	return claims, nil
}

// Validate reports whether raw is the currently valid token for its subject.
// Invalid tokens are a false result, not an error; an error means the
// registry could not be consulted.
func (u *AuthUsecase) Validate(ctx context.Context, raw string) (bool, error) {
	_, err := u.Authenticate(ctx, raw)
	if err != nil {
		if errors.Is(err, domain.ErrTokenInvalid) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Logout revokes the presented token: it drops both the user projection and
// the session registry entry, so the token stops validating immediately even
// though its signature and expiry are still intact. Deletes are idempotent.
func (u *AuthUsecase) Logout(ctx context.Context, raw string) error {
	claims, err := u.codec.Verify(raw)
	if err != nil {
		return domain.ErrTokenInvalid
	}

	if err := u.cache.Del(ctx, userKey(normalizeEmail(claims.Email))); err != nil {
		return fmt.Errorf("drop user projection: %w", err)
	}
	if err := u.cache.Del(ctx, tokenKey(claims.UserID)); err != nil {
		return fmt.Errorf("drop session token: %w", err)
	}

	return nil
}
