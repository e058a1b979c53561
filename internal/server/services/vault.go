package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/logging"
	"github.com/dmitrijs2005/passvault/internal/passgen"
	"github.com/dmitrijs2005/passvault/internal/server/models"
	"github.com/dmitrijs2005/passvault/internal/server/repositories/secrets"
	"github.com/google/uuid"
)

const (
	MaxDescriptionLength    = 200
	MaxSecretUsernameLength = 200
	MaxSecretLength         = 500
)

// CreateSecretInput is a request to store a credential. A blank Password
// asks the service to generate one.
type CreateSecretInput struct {
	Description string
	Username    string
	Password    string
}

// VaultService manages the caller's secrets. Values are protected before
// they reach the repository and unprotected on the way out.
type VaultService struct {
	secrets   secrets.Repository
	protector SecretProtector
	generator PasswordGenerator
	logger    logging.Logger
	now       func() time.Time
}

func NewVaultService(repo secrets.Repository, protector SecretProtector, generator PasswordGenerator, logger logging.Logger) *VaultService {
	return &VaultService{
		secrets:   repo,
		protector: protector,
		generator: generator,
		logger:    logger,
		now:       time.Now,
	}
}

// List returns the owner's secrets newest first with plaintext values.
func (s *VaultService) List(ctx context.Context, ownerID string) ([]*models.Secret, error) {
	if ownerID == "" {
		return nil, common.ErrorUnauthorized
	}

	items, err := s.secrets.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error(ctx, "secret list failed", "error", err)
		return nil, common.ErrorInternal
	}

	for _, item := range items {
		item.Secret = s.protector.Unprotect(item.Secret)
	}
	return items, nil
}

// Create stores a secret for ownerID and returns it with the plaintext value.
func (s *VaultService) Create(ctx context.Context, ownerID string, in CreateSecretInput) (*models.Secret, error) {
	if ownerID == "" {
		return nil, common.ErrorUnauthorized
	}
	if err := validateCreate(in); err != nil {
		return nil, err
	}

	plaintext := in.Password
	if common.IsBlank(plaintext) {
		generated, err := s.generator.Generate(passgen.DefaultOptions())
		if err != nil {
			s.logger.Error(ctx, "password generation failed", "error", err)
			return nil, common.ErrorInternal
		}
		plaintext = generated
	}

	protected, err := s.protector.Protect(plaintext)
	if err != nil {
		s.logger.Error(ctx, "secret protection failed", "error", err)
		return nil, common.ErrorInternal
	}

	record := &models.Secret{
		ID:          uuid.NewString(),
		AccountID:   ownerID,
		Description: in.Description,
		Username:    in.Username,
		Secret:      protected,
		CreatedAt:   s.now().UTC().Truncate(time.Microsecond),
	}
	if err := s.secrets.Create(ctx, record); err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			s.logger.Warn(ctx, "secret owner is not a known account")
			return nil, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "secret create failed", "error", err)
		return nil, common.ErrorInternal
	}

	s.logger.Info(ctx, "secret created", "secret_id", record.ID)

	out := *record
	out.Secret = plaintext
	return &out, nil
}

func validateCreate(in CreateSecretInput) error {
	switch {
	case common.IsBlank(in.Description):
		return fmt.Errorf("%w: description is required", common.ErrorValidation)
	case common.RuneLen(in.Description) > MaxDescriptionLength:
		return fmt.Errorf("%w: description must be at most %d characters", common.ErrorValidation, MaxDescriptionLength)
	case common.IsBlank(in.Username):
		return fmt.Errorf("%w: username is required", common.ErrorValidation)
	case common.RuneLen(in.Username) > MaxSecretUsernameLength:
		return fmt.Errorf("%w: username must be at most %d characters", common.ErrorValidation, MaxSecretUsernameLength)
	case common.RuneLen(in.Password) > MaxSecretLength:
		return fmt.Errorf("%w: password must be at most %d characters", common.ErrorValidation, MaxSecretLength)
	}
	return nil
}

// Delete removes the secret only when ownerID owns it. Missing and foreign
// records both yield common.ErrorNotFound.
func (s *VaultService) Delete(ctx context.Context, ownerID, id string) error {
	if ownerID == "" {
		return common.ErrorUnauthorized
	}

	if err := s.secrets.Delete(ctx, id, ownerID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		s.logger.Error(ctx, "secret delete failed", "error", err)
		return common.ErrorInternal
	}

	s.logger.Info(ctx, "secret deleted", "secret_id", id)
	return nil
}

// Generate produces a password without storing it.
func (s *VaultService) Generate(opts passgen.Options) (string, error) {
	return s.generator.Generate(opts)
}
