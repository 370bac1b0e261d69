package repositories

import (
	"context"

	"clubportal/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// accountRepository implements AccountRepository interface
type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

// Create creates a new account
func (r *accountRepository) Create(ctx context.Context, account *models.Account) error {
	return r.db.WithContext(ctx).Create(account).Error
}

// GetByID gets an account by ID
func (r *accountRepository) GetByID(ctx context.Context, id uint) (*models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// GetByEmail gets an account by email
func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// ExistsByEmail checks if email exists
func (r *accountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Account{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// UpdateProfile writes only the self-editable columns
func (r *accountRepository) UpdateProfile(ctx context.Context, account *models.Account) error {
	return r.db.WithContext(ctx).
		Model(account).
		Select("first_name", "last_name", "linked_in", "instagram", "bio", "school", "title", "profile_pic_url", "profile_pic_key").
		Updates(account).Error
}

// UpdatePassword replaces the password hash
func (r *accountRepository) UpdatePassword(ctx context.Context, id uint, hash string) error {
	return r.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ?", id).
		Update("password", hash).Error
}

// UpdateRoleFields writes the role workflow columns if the row still has
// the version that was read, then bumps the version.
func (r *accountRepository) UpdateRoleFields(ctx context.Context, account *models.Account) error {
	result := r.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ? AND version = ?", account.ID, account.Version).
		Updates(map[string]interface{}{
			"account_level":  account.AccountLevel,
			"role_status":    account.RoleStatus,
			"requested_role": account.RequestedRole,
			"version":        gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStaleRecord
	}
	account.Version++
	return nil
}

// UpdatePartnershipStatus mirrors the partner request state onto the account
func (r *accountRepository) UpdatePartnershipStatus(ctx context.Context, id uint, status string) error {
	return r.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ?", id).
		Update("partnership_status", status).Error
}

// Delete soft deletes an account
func (r *accountRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Account{}, id).Error
}

// List lists accounts with filter and pagination
func (r *accountRepository) List(ctx context.Context, filter AccountFilter, offset, limit int) ([]*models.Account, int64, error) {
	var accounts []*models.Account
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Account{})
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where(
			"first_name LIKE ? OR last_name LIKE ? OR email LIKE ? OR account_level LIKE ?",
			like, like, like, like,
		)
	}
	if filter.Level != "" {
		query = query.Where("account_level = ?", filter.Level)
	}
	if len(filter.Levels) > 0 {
		query = query.Where("account_level IN ?", filter.Levels)
	}
	if filter.RoleStatus != "" {
		query = query.Where("role_status = ?", filter.RoleStatus)
	}

	// Count total
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit > 0 {
		query = query.Offset(offset).Limit(limit)
	}
	if err := query.Order("last_name ASC, first_name ASC").Find(&accounts).Error; err != nil {
		return nil, 0, err
	}

	return accounts, total, nil
}

// CountByLevel groups active accounts by account level
func (r *accountRepository) CountByLevel(ctx context.Context) ([]LevelCount, error) {
	var rows []LevelCount
	err := r.db.WithContext(ctx).
		Model(&models.Account{}).
		Select("account_level, COUNT(*) AS count").
		Group("account_level").
		Scan(&rows).Error
	return rows, err
}

// CountByRoleStatus counts accounts in a role status
func (r *accountRepository) CountByRoleStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Account{}).Where("role_status = ?", status).Count(&count).Error
	return count, err
}
