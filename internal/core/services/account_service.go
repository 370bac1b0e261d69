package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"clubportal/internal/adapters/persistence/models"
	"clubportal/internal/adapters/persistence/repositories"
	"clubportal/internal/core/domain"
	"clubportal/internal/pkg/password"

	"gorm.io/gorm"
)

// Account service errors
var (
	ErrOldPasswordWrong = errors.New("current password is incorrect")
	ErrFieldTooLong     = errors.New("a profile field is too long")
)

// AccountService handles self-service profile operations
type AccountService struct {
	accountRepo      repositories.AccountRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	uploads          *UploadService
	sessions         *SessionService
}

// NewAccountService creates a new account service
func NewAccountService(
	accountRepo repositories.AccountRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	uploads *UploadService,
	sessions *SessionService,
) *AccountService {
	return &AccountService{
		accountRepo:      accountRepo,
		refreshTokenRepo: refreshTokenRepo,
		uploads:          uploads,
		sessions:         sessions,
	}
}

// UpdateProfileInput carries the self-editable fields; nil leaves a field unchanged
type UpdateProfileInput struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	LinkedIn  *string `json:"linkedin"`
	Instagram *string `json:"instagram"`
	Bio       *string `json:"bio"`
	School    *string `json:"school"`
	Title     *string `json:"title"`
}

// ChangePasswordInput represents change password input
type ChangePasswordInput struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// GetProfile returns the caller's account
func (s *AccountService) GetProfile(ctx context.Context, accountID uint) (*models.AccountResponse, error) {
	account, err := s.load(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return account.ToResponse(), nil
}

// UpdateProfile edits profile fields; role fields are never touched here
func (s *AccountService) UpdateProfile(ctx context.Context, accountID uint, input *UpdateProfileInput) (*models.AccountResponse, error) {
	// 1. Load account
	account, err := s.load(ctx, accountID)
	if err != nil {
		return nil, err
	}

	// 2. Apply fields
	set := func(dst *string, src *string, max int) error {
		if src == nil {
			return nil
		}
		v := strings.TrimSpace(*src)
		if len(v) > max {
			return ErrFieldTooLong
		}
		*dst = v
		return nil
	}
	for _, f := range []struct {
		dst *string
		src *string
		max int
	}{
		{&account.FirstName, input.FirstName, 100},
		{&account.LastName, input.LastName, 100},
		{&account.LinkedIn, input.LinkedIn, 255},
		{&account.Instagram, input.Instagram, 255},
		{&account.Bio, input.Bio, 5000},
		{&account.School, input.School, 150},
		{&account.Title, input.Title, 100},
	} {
		if err := set(f.dst, f.src, f.max); err != nil {
			return nil, err
		}
	}
	if account.FirstName == "" || account.LastName == "" {
		return nil, ErrNameRequired
	}

	// 3. Save
	if err := s.accountRepo.UpdateProfile(ctx, account); err != nil {
		return nil, err
	}
	s.sessions.AccountChanged(ctx, accountID)

	return account.ToResponse(), nil
}

// UpdatePicture replaces the profile picture through a two-phase upload
func (s *AccountService) UpdatePicture(ctx context.Context, accountID uint, file *UploadFile) (*models.AccountResponse, error) {
	// 1. Load account
	account, err := s.load(ctx, accountID)
	if err != nil {
		return nil, err
	}

	// 2. Stage new picture
	obj, err := s.uploads.Stage(ctx, accountID, PrefixProfilePictures, file)
	if err != nil {
		return nil, err
	}

	// 3. Point the account at it
	oldKey := account.ProfilePicKey
	account.ProfilePicURL = obj.URL
	account.ProfilePicKey = obj.Key
	if err := s.accountRepo.UpdateProfile(ctx, account); err != nil {
		s.uploads.Discard(ctx, obj)
		return nil, err
	}

	// 4. Commit new, orphan old
	if err := s.uploads.Commit(ctx, domain.OwnerAccount, accountID, obj); err != nil {
		log.Printf("⚠️ Failed to commit profile picture %s: %v", obj.Key, err)
	}
	s.uploads.Orphan(ctx, oldKey)
	s.sessions.AccountChanged(ctx, accountID)

	return account.ToResponse(), nil
}

// ChangePassword verifies the current password and revokes all refresh tokens
func (s *AccountService) ChangePassword(ctx context.Context, accountID uint, input *ChangePasswordInput) error {
	account, err := s.load(ctx, accountID)
	if err != nil {
		return err
	}

	if !password.Verify(input.OldPassword, account.Password) {
		return ErrOldPasswordWrong
	}
	if !password.ValidatePassword(input.NewPassword) {
		return ErrWeakPassword
	}

	hashed, err := password.Hash(input.NewPassword)
	if err != nil {
		return err
	}
	if err := s.accountRepo.UpdatePassword(ctx, accountID, hashed); err != nil {
		return err
	}
	if err := s.refreshTokenRepo.RevokeAllByUserID(ctx, accountID); err != nil {
		return err
	}

	log.Printf("✅ Password changed for account ID: %d", accountID)
	return nil
}

// ListTeam returns staff and admins for the public team page
func (s *AccountService) ListTeam(ctx context.Context) ([]*models.TeamMember, error) {
	accounts, _, err := s.accountRepo.List(ctx, repositories.AccountFilter{
		Levels: []string{string(domain.LevelAdmin), string(domain.LevelStaff)},
	}, 0, 0)
	if err != nil {
		return nil, err
	}

	team := make([]*models.TeamMember, 0, len(accounts))
	for _, a := range accounts {
		if a.IsActive {
			team = append(team, a.ToTeamMember())
		}
	}
	return team, nil
}

func (s *AccountService) load(ctx context.Context, accountID uint) (*models.Account, error) {
	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return account, nil
}
