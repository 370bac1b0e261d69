package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"clubportal/internal/adapters/persistence/models"
	"clubportal/internal/adapters/persistence/repositories"
	"clubportal/internal/core/domain"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// Member console errors
var (
	ErrCannotDeleteSelf = errors.New("cannot delete your own account")
)

// MemberStats counts accounts by level for the admin console
type MemberStats struct {
	Total   int64 `json:"total"`
	Guest   int64 `json:"guest"`
	Staff   int64 `json:"staff"`
	Admin   int64 `json:"admin"`
	Partner int64 `json:"partner"`
	Pending int64 `json:"pending"`
}

// MemberService backs the admin member console
type MemberService struct {
	accountRepo      repositories.AccountRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	roles            *RoleService
	activity         *ActivityService
	sessions         *SessionService
}

// NewMemberService creates a new member service
func NewMemberService(
	accountRepo repositories.AccountRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	roles *RoleService,
	activity *ActivityService,
	sessions *SessionService,
) *MemberService {
	return &MemberService{
		accountRepo:      accountRepo,
		refreshTokenRepo: refreshTokenRepo,
		roles:            roles,
		activity:         activity,
		sessions:         sessions,
	}
}

// List searches members by name, email or level
func (s *MemberService) List(ctx context.Context, search, level string, offset, limit int) ([]*models.AccountResponse, int64, error) {
	filter := repositories.AccountFilter{Search: strings.TrimSpace(search)}
	if level != "" {
		parsed, err := domain.ParseAccountLevel(level)
		if err != nil {
			return nil, 0, err
		}
		filter.Level = string(parsed)
	}

	accounts, total, err := s.accountRepo.List(ctx, filter, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]*models.AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = a.ToResponse()
	}
	return result, total, nil
}

// Stats returns member counts per level plus pending role requests
func (s *MemberService) Stats(ctx context.Context) (*MemberStats, error) {
	rows, err := s.accountRepo.CountByLevel(ctx)
	if err != nil {
		return nil, err
	}

	stats := &MemberStats{}
	for _, row := range rows {
		stats.Total += row.Count
		switch domain.AccountLevel(row.AccountLevel) {
		case domain.LevelGuest:
			stats.Guest = row.Count
		case domain.LevelStaff:
			stats.Staff = row.Count
		case domain.LevelAdmin:
			stats.Admin = row.Count
		case domain.LevelPartner:
			stats.Partner = row.Count
		}
	}

	stats.Pending, err = s.accountRepo.CountByRoleStatus(ctx, string(domain.RoleStatusPending))
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// SetLevel changes a member's level directly
func (s *MemberService) SetLevel(ctx context.Context, actor Actor, accountID uint, level string, expectedVersion uint) (*models.AccountResponse, error) {
	return s.roles.SetAccountLevel(ctx, actor, accountID, level, expectedVersion)
}

// Delete soft deletes a member and ends their sessions
func (s *MemberService) Delete(ctx context.Context, actor Actor, accountID uint) error {
	// 1. Guard self
	if actor.AccountID == accountID {
		return ErrCannotDeleteSelf
	}

	// 2. Load
	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAccountNotFound
		}
		return err
	}

	// 3. Delete and revoke
	if err := s.accountRepo.Delete(ctx, accountID); err != nil {
		return err
	}
	if err := s.refreshTokenRepo.RevokeAllByUserID(ctx, accountID); err != nil {
		log.Printf("⚠️ Failed to revoke tokens for deleted account %d: %v", accountID, err)
	}
	s.sessions.SignedOut(ctx, accountID)

	s.activity.Record(ctx, actor, ActivityEntry{
		SubjectType: models.SubjectAccount,
		SubjectID:   accountID,
		Action:      models.ActMemberDelete,
		FromState:   account.AccountLevel,
		Description: "Deleted " + account.Email,
	})

	log.Printf("✅ Member deleted: %s (ID: %d)", account.Email, accountID)
	return nil
}

// ExportXLSX writes every member matching the search into a spreadsheet
func (s *MemberService) ExportXLSX(ctx context.Context, search, level string) (*bytes.Buffer, error) {
	members, _, err := s.List(ctx, search, level, 0, 0)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := "Members"
	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	header := []interface{}{
		"ID", "First name", "Last name", "Email", "Level", "Role status",
		"Requested role", "School", "Title", "Active", "Joined",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, m := range members {
		row := []interface{}{
			m.ID,
			m.FirstName,
			m.LastName,
			m.Email,
			m.AccountLevel,
			m.RoleStatus,
			m.RequestedRole,
			m.School,
			m.Title,
			m.IsActive,
			m.CreatedAt.Format("2006-01-02"),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	_ = f.SetColWidth(sheet, "A", "K", 18)

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf, nil
}
