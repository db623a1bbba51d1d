package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"offense_board/internal/feature/account/domain/entity"
	profileentity "offense_board/internal/feature/profile/domain/entity"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultSessionTTL is how long a login session stays valid (two weeks).
	DefaultSessionTTL = 14 * 24 * time.Hour
	// DefaultMaxSessions is the number of live sessions kept per account.
	DefaultMaxSessions = 5

	sessionIDBytes = 32
)

// dummyHash is compared against when the username is unknown so that
// login timing does not reveal which usernames exist.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// AccountRepository はアカウントエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type AccountRepository interface {
	// Create persists the account together with its Profile in one transaction.
	// It returns ErrUsernameTaken if the username is already used.
	Create(ctx context.Context, account *entity.Account) error

	// FindByUsername returns ErrAccountNotFound when no account matches.
	FindByUsername(ctx context.Context, username string) (*entity.Account, error)

	// FindByID returns ErrAccountNotFound when no account matches.
	FindByID(ctx context.Context, id uint) (*entity.Account, error)

	// SetStaff grants or revokes moderation rights.
	SetStaff(ctx context.Context, username string, staff bool) error
}

// SessionRepository abstracts the persistence layer for session entities.
type SessionRepository interface {
	// Create persists a new session.
	Create(ctx context.Context, session *entity.Session) error

	// FindByID retrieves a session by its ID.
	FindByID(ctx context.Context, id string) (*entity.Session, error)

	// Revoke marks a session as revoked by setting RevokedAt.
	Revoke(ctx context.Context, id string) error

	// DeleteExpired removes all expired sessions from storage.
	// Returns the number of deleted sessions.
	DeleteExpired(ctx context.Context) (int64, error)

	// CountByAccountID returns the number of active sessions for an account.
	CountByAccountID(ctx context.Context, accountID uint) (int64, error)

	// DeleteOldestByAccountID deletes the oldest active session for an account.
	DeleteOldestByAccountID(ctx context.Context, accountID uint) error
}

// TokenManager signs and verifies the session reference stored in the cookie.
type TokenManager interface {
	GenerateToken(sessionID string, accountID uint) (string, error)
	ParseToken(token string) (sessionID string, accountID uint, err error)
}

// RegisterInput carries an already field-validated registration form.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// SessionMeta describes the client opening a session.
type SessionMeta struct {
	UserAgent string
	IPAddress string
}

// AccountUsecase implements registration, authentication and sessions.
type AccountUsecase struct {
	accounts    AccountRepository
	sessions    SessionRepository
	tokens      TokenManager
	sessionTTL  time.Duration
	maxSessions int64
	hashCost    int
}

// Option customizes an AccountUsecase.
type Option func(*AccountUsecase)

// WithSessionTTL overrides DefaultSessionTTL.
func WithSessionTTL(ttl time.Duration) Option {
	return func(u *AccountUsecase) { u.sessionTTL = ttl }
}

// WithMaxSessions overrides DefaultMaxSessions.
func WithMaxSessions(n int64) Option {
	return func(u *AccountUsecase) { u.maxSessions = n }
}

// WithHashCost overrides bcrypt.DefaultCost. Tests use bcrypt.MinCost.
func WithHashCost(cost int) Option {
	return func(u *AccountUsecase) { u.hashCost = cost }
}

// NewAccountUsecase はAccountUsecaseの新しいインスタンスを生成します。
func NewAccountUsecase(accounts AccountRepository, sessions SessionRepository, tokens TokenManager, opts ...Option) *AccountUsecase {
	u := &AccountUsecase{
		accounts:    accounts,
		sessions:    sessions,
		tokens:      tokens,
		sessionTTL:  DefaultSessionTTL,
		maxSessions: DefaultMaxSessions,
		hashCost:    bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Register creates a new account with an empty profile.
// Uniqueness is checked up front for a friendly error and enforced again
// by the unique index for concurrent registrations.
func (u *AccountUsecase) Register(ctx context.Context, in RegisterInput) (*entity.Account, error) {
	if err := validatePassword(in.Password, in.Username, in.Email); err != nil {
		return nil, err
	}

	if _, err := u.accounts.FindByUsername(ctx, in.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, ErrAccountNotFound) {
		return nil, fmt.Errorf("failed to look up username: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), u.hashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &entity.Account{
		Username: in.Username,
		Email:    in.Email,
		Password: string(hashed),
		Profile:  &profileentity.Profile{},
	}
	if err := u.accounts.Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// Authenticate verifies a username/password pair.
// bcrypt runs even for unknown usernames to avoid a timing oracle.
func (u *AccountUsecase) Authenticate(ctx context.Context, username, password string) (*entity.Account, error) {
	account, err := u.accounts.FindByUsername(ctx, username)
	if err != nil && !errors.Is(err, ErrAccountNotFound) {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	passwordHash := dummyHash
	if err == nil {
		passwordHash = account.Password
	}
	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))

	if err != nil || compareErr != nil {
		return nil, ErrInvalidCredentials
	}
	return account, nil
}

// StartSession opens a session for the account and returns the signed cookie value.
// When the account already has maxSessions live sessions the oldest is dropped.
func (u *AccountUsecase) StartSession(ctx context.Context, accountID uint, meta SessionMeta) (string, error) {
	count, err := u.sessions.CountByAccountID(ctx, accountID)
	if err != nil {
		return "", fmt.Errorf("failed to count sessions: %w", err)
	}
	if count >= u.maxSessions {
		if err := u.sessions.DeleteOldestByAccountID(ctx, accountID); err != nil {
			return "", fmt.Errorf("failed to drop oldest session: %w", err)
		}
	}

	id, err := newSessionID()
	if err != nil {
		return "", err
	}
	now := time.Now()
	session := &entity.Session{
		ID:        id,
		AccountID: accountID,
		UserAgent: truncate(meta.UserAgent, 512),
		IPAddress: truncate(meta.IPAddress, 45),
		CreatedAt: now,
		ExpiresAt: now.Add(u.sessionTTL),
	}
	if err := u.sessions.Create(ctx, session); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	token, err := u.tokens.GenerateToken(session.ID, accountID)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return token, nil
}

// ResolveSession returns the account behind a session cookie value.
func (u *AccountUsecase) ResolveSession(ctx context.Context, token string) (*entity.Account, error) {
	sessionID, accountID, err := u.tokens.ParseToken(token)
	if err != nil {
		return nil, ErrInvalidSessionToken
	}

	session, err := u.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.AccountID != accountID {
		return nil, ErrInvalidSessionToken
	}
	if session.IsRevoked() {
		return nil, ErrSessionRevoked
	}
	if session.IsExpired() {
		return nil, ErrSessionExpired
	}

	return u.accounts.FindByID(ctx, accountID)
}

// EndSession revokes the session behind a cookie value. Unknown or
// malformed tokens are ignored so logout is always safe to call.
func (u *AccountUsecase) EndSession(ctx context.Context, token string) error {
	sessionID, _, err := u.tokens.ParseToken(token)
	if err != nil {
		return nil
	}
	if err := u.sessions.Revoke(ctx, sessionID); err != nil && !errors.Is(err, ErrSessionNotFound) {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// PurgeExpiredSessions deletes expired sessions from the session store.
func (u *AccountUsecase) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	n, err := u.sessions.DeleteExpired(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		slog.Info("expired sessions purged", "count", n)
	}
	return n, nil
}

// SetStaff grants or revokes moderation rights for a username.
func (u *AccountUsecase) SetStaff(ctx context.Context, username string, staff bool) error {
	return u.accounts.SetStaff(ctx, username, staff)
}

func newSessionID() (string, error) {
	b := make([]byte, sessionIDBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session id: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// truncate keeps at most n characters of s without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
