package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/cryptox"
	"github.com/dmitrijs2005/passvault/internal/logging"
	"github.com/dmitrijs2005/passvault/internal/server/models"
	"github.com/dmitrijs2005/passvault/internal/server/repositories/accounts"
	"github.com/google/uuid"
)

const MaxUsernameLength = 100

// AccountInfo is the public view of an account.
type AccountInfo struct {
	Username             string
	RequireSecondaryAuth bool
}

// LoginResult is returned on a fully completed login.
type LoginResult struct {
	Token                string
	RequireSecondaryAuth bool
}

// AuthService handles registration and login.
type AuthService struct {
	accounts accounts.Repository
	hasher   PasswordHasher
	tokens   TokenIssuer
	logger   logging.Logger
	events   EventRecorder
	now      func() time.Time

	// dummyHash is verified against when the username is unknown so that
	// both paths pay for one key derivation.
	dummyHash string
}

func NewAuthService(repo accounts.Repository, hasher PasswordHasher, tokens TokenIssuer, logger logging.Logger, events EventRecorder) *AuthService {
	if events == nil {
		events = nopRecorder{}
	}
	dummy, err := hasher.Hash(uuid.NewString())
	if err != nil {
		logger.Warn(context.Background(), "dummy hash unavailable", "error", err)
	}
	return &AuthService{
		accounts:  repo,
		hasher:    hasher,
		tokens:    tokens,
		logger:    logger,
		events:    events,
		now:       time.Now,
		dummyHash: dummy,
	}
}

// Register creates an account. The username is trimmed; uniqueness is
// case-insensitive.
func (s *AuthService) Register(ctx context.Context, username, password string, requireSecondaryAuth bool) (*AccountInfo, error) {
	username = strings.TrimSpace(username)
	if username == "" || common.IsBlank(password) {
		return nil, fmt.Errorf("%w: username and password are required", common.ErrorValidation)
	}
	if common.RuneLen(username) > MaxUsernameLength {
		return nil, fmt.Errorf("%w: username must be at most %d characters", common.ErrorValidation, MaxUsernameLength)
	}

	exists, err := s.accounts.Exists(ctx, username)
	if err != nil {
		s.logger.Error(ctx, "account lookup failed", "error", err)
		return nil, common.ErrorInternal
	}
	if exists {
		s.events.RecordAuthEvent(EventRegisterConflict)
		return nil, common.ErrorConflict
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Error(ctx, "password hashing failed", "error", err)
		return nil, common.ErrorInternal
	}

	account := &models.Account{
		ID:                   uuid.NewString(),
		Username:             username,
		PasswordHash:         hash,
		RequireSecondaryAuth: requireSecondaryAuth,
		CreatedAt:            s.now().UTC().Truncate(time.Microsecond),
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, common.ErrorConflict) {
			s.events.RecordAuthEvent(EventRegisterConflict)
			return nil, common.ErrorConflict
		}
		s.logger.Error(ctx, "account create failed", "error", err)
		return nil, common.ErrorInternal
	}

	s.events.RecordAuthEvent(EventRegistered)
	s.logger.Info(logging.WithAccountID(ctx, account.ID), "account registered")

	return &AccountInfo{Username: account.Username, RequireSecondaryAuth: account.RequireSecondaryAuth}, nil
}

// Login verifies credentials and issues a token. Accounts whose stored
// password predates hashing are re-hashed on success. An account that
// requires secondary authentication yields common.ErrorPreconditionRequired
// until the caller asserts confirmed.
func (s *AuthService) Login(ctx context.Context, username, password string, confirmed bool) (*LoginResult, error) {
	username = strings.TrimSpace(username)

	account, err := s.accounts.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.Verify(password, s.dummyHash)
			s.events.RecordAuthEvent(EventLoginUnauthorized)
			return nil, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "account lookup failed", "error", err)
		return nil, common.ErrorInternal
	}

	ctx = logging.WithAccountID(ctx, account.ID)
	legacy := !cryptox.IsEncoded(account.PasswordHash)

	var valid bool
	if legacy {
		valid = cryptox.EqualLegacy(password, account.PasswordHash)
	} else {
		valid = s.hasher.Verify(password, account.PasswordHash)
	}
	if !valid {
		s.events.RecordAuthEvent(EventLoginUnauthorized)
		return nil, common.ErrorUnauthorized
	}

	if legacy {
		s.upgradeLegacy(ctx, account.ID, password)
	}

	if account.RequireSecondaryAuth && !confirmed {
		s.events.RecordAuthEvent(EventLoginSecondaryRequired)
		return nil, common.ErrorPreconditionRequired
	}

	token, err := s.tokens.Issue(account.ID, account.Username)
	if err != nil {
		s.logger.Error(ctx, "token issue failed", "error", err)
		return nil, common.ErrorInternal
	}

	s.events.RecordAuthEvent(EventLoginOK)
	return &LoginResult{Token: token, RequireSecondaryAuth: account.RequireSecondaryAuth}, nil
}

// upgradeLegacy replaces a plaintext stored password with a hash. Failure is
// logged and does not fail the login.
func (s *AuthService) upgradeLegacy(ctx context.Context, accountID, password string) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Warn(ctx, "legacy password upgrade skipped", "error", err)
		return
	}
	if err := s.accounts.UpdatePasswordHash(ctx, accountID, hash); err != nil {
		s.logger.Warn(ctx, "legacy password upgrade failed", "error", err)
		return
	}
	s.events.RecordAuthEvent(EventLegacyUpgraded)
	s.logger.Info(ctx, "legacy password upgraded")
}
