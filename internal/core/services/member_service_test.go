package services

import (
	"context"
	"testing"

	"clubportal/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newMemberFixture() (*MemberService, *memAccountRepo, *MockRefreshTokenRepo) {
	pending := guest(2)
	pending.Email = "pending@club.test"
	pending.RoleStatus = string(domain.RoleStatusPending)
	pending.RequestedRole = "staff"
	staff := guest(3)
	staff.Email = "staff@club.test"
	staff.AccountLevel = string(domain.LevelStaff)
	partner := guest(4)
	partner.Email = "partner@club.test"
	partner.AccountLevel = string(domain.LevelPartner)

	repo := newMemAccountRepo(guest(1), pending, staff, partner, admin(9))
	tokens := new(MockRefreshTokenRepo)
	sessions := NewSessionService(repo, newMemCache(), NewSessionHub())
	activity, _ := newActivity()
	roles := NewRoleService(repo, activity, sessions)
	return NewMemberService(repo, tokens, roles, activity, sessions), repo, tokens
}

func TestMemberService_Stats(t *testing.T) {
	svc, _, _ := newMemberFixture()

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &MemberStats{Total: 5, Guest: 2, Staff: 1, Admin: 1, Partner: 1, Pending: 1}, stats)
}

func TestMemberService_ListByLevel(t *testing.T) {
	svc, _, _ := newMemberFixture()
	ctx := context.Background()

	members, total, err := svc.List(ctx, "", "Guest", 0, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, members, 2)

	_, _, err = svc.List(ctx, "", "superuser", 0, 20)
	assert.ErrorIs(t, err, domain.ErrInvalidAccountLevel)
}

func TestMemberService_SetLevelDelegatesToRoles(t *testing.T) {
	svc, repo, _ := newMemberFixture()

	resp, err := svc.SetLevel(context.Background(), Actor{AccountID: 9}, 2, "admin", 0)
	require.NoError(t, err)
	assert.Equal(t, "admin", resp.AccountLevel)
	assert.Equal(t, "none", repo.get(2).RoleStatus)
}

func TestMemberService_Delete(t *testing.T) {
	svc, repo, tokens := newMemberFixture()
	ctx := context.Background()

	err := svc.Delete(ctx, Actor{AccountID: 9}, 9)
	assert.ErrorIs(t, err, ErrCannotDeleteSelf)

	err = svc.Delete(ctx, Actor{AccountID: 9}, 77)
	assert.ErrorIs(t, err, ErrAccountNotFound)

	tokens.On("RevokeAllByUserID", ctx, uint(3)).Return(nil).Once()
	require.NoError(t, svc.Delete(ctx, Actor{AccountID: 9}, 3))
	_, err = repo.GetByID(ctx, 3)
	assert.Error(t, err)
	tokens.AssertExpectations(t)
}

func TestMemberService_ExportXLSX(t *testing.T) {
	svc, _, _ := newMemberFixture()

	buf, err := svc.ExportXLSX(context.Background(), "", "")
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Members")
	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.Equal(t, "Email", rows[0][3])
	assert.Equal(t, "guest@club.test", rows[1][3])
	assert.Equal(t, "admin", rows[5][4])
}
