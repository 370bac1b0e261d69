package repositories

import (
	"context"
	"testing"
	"time"

	"clubportal/internal/adapters/persistence/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

func TestAccountRepository_UpdateRoleFields(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectExec("UPDATE `users` SET .*version.*WHERE .*id = \\? AND version = \\?").
		WillReturnResult(sqlmock.NewResult(0, 1))

	account := &models.Account{ID: 3, AccountLevel: "staff", RoleStatus: "approved", Version: 4}
	err := repo.UpdateRoleFields(context.Background(), account)

	require.NoError(t, err)
	assert.Equal(t, uint(5), account.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_UpdateRoleFields_Stale(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectExec("UPDATE `users` SET").
		WillReturnResult(sqlmock.NewResult(0, 0))

	account := &models.Account{ID: 3, AccountLevel: "staff", Version: 4}
	err := repo.UpdateRoleFields(context.Background(), account)

	assert.ErrorIs(t, err, ErrStaleRecord)
	assert.Equal(t, uint(4), account.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_CountByLevel(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	rows := sqlmock.NewRows([]string{"account_level", "count"}).
		AddRow("guest", 5).
		AddRow("admin", 1)
	mock.ExpectQuery("SELECT account_level, COUNT\\(\\*\\) AS count FROM `users`.*GROUP BY `account_level`").
		WillReturnRows(rows)

	counts, err := repo.CountByLevel(context.Background())

	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, "guest", counts[0].AccountLevel)
	assert.Equal(t, int64(5), counts[0].Count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPartnerRequestRepository_UpsertOverwrites(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPartnerRequestRepository(db)

	mock.ExpectExec("INSERT INTO `partner_requests` .* ON DUPLICATE KEY UPDATE").
		WillReturnResult(sqlmock.NewResult(0, 2))

	err := repo.Upsert(context.Background(), &models.PartnerRequest{
		ID:          9,
		Email:       "p@example.com",
		PartnerName: "Robotics Club",
		Status:      "pending",
		SubmittedAt: time.Now(),
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPartnerRequestRepository_ResolveNotPending(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPartnerRequestRepository(db)

	mock.ExpectExec("UPDATE `partner_requests` SET .*WHERE .*id = \\? AND status = \\?").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Resolve(context.Background(), 9, "pending", "approved", 1)

	assert.ErrorIs(t, err, ErrStaleRecord)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_CreateKeepsInactive(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectExec("INSERT INTO `users`").
		WillReturnResult(sqlmock.NewResult(4, 1))

	account := &models.Account{Email: "off@example.com", AccountLevel: "guest", IsActive: false}
	err := repo.Create(context.Background(), account)

	require.NoError(t, err)
	assert.Equal(t, uint(4), account.ID)
	assert.False(t, account.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_CreatePaidEvent(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEventRepository(db)

	anyArg := sqlmock.AnyArg()
	mock.ExpectExec("INSERT INTO `events` \\(.*`is_free`,`cost`.*\\)").
		WithArgs(
			"Gala", anyArg, anyArg, anyArg, anyArg, anyArg, "active", anyArg, anyArg, anyArg, anyArg, anyArg,
			false, "10",
			anyArg, uint(2), anyArg, anyArg, anyArg,
		).
		WillReturnResult(sqlmock.NewResult(9, 1))

	event := &models.Event{
		Title:     "Gala",
		StartDate: time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC),
		Status:    "active",
		IsFree:    false,
		Cost:      "10",
		CreatedBy: 2,
	}
	err := repo.Create(context.Background(), event)

	require.NoError(t, err)
	assert.Equal(t, uint(9), event.ID)
	assert.False(t, event.IsFree)
	assert.Equal(t, "Cost: 10", event.ToResponse().CostLabel)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_AddInterest(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEventRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `event_interests`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE `events` SET `interested_count`=interested_count \\+ \\?").
		WithArgs(1, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	added, err := repo.AddInterest(context.Background(), 7, 2)

	require.NoError(t, err)
	assert.True(t, added)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_AddInterestTwiceDoesNotCount(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEventRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `event_interests`").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	added, err := repo.AddInterest(context.Background(), 7, 2)

	require.NoError(t, err)
	assert.False(t, added)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_RemoveInterest(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEventRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `event_interests` WHERE event_id = \\? AND account_id = \\?").
		WithArgs(7, 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `events` SET `interested_count`=interested_count - \\? WHERE .*interested_count > 0").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	removed, err := repo.RemoveInterest(context.Background(), 7, 2)

	require.NoError(t, err)
	assert.True(t, removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_InterestedEventIDsEmpty(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEventRepository(db)

	set, err := repo.InterestedEventIDs(context.Background(), 2, nil)

	require.NoError(t, err)
	assert.Empty(t, set)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoredObjectRepository_MarkCommittedNoKeys(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStoredObjectRepository(db)

	err := repo.MarkCommitted(context.Background(), nil, "event", 1)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoredObjectRepository_ListSweepable(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStoredObjectRepository(db)

	rows := sqlmock.NewRows([]string{"id", "key", "url", "state"}).
		AddRow(1, "eventImages/a.png", "http://x/a.png", "orphaned").
		AddRow(2, "partnerLogos/b.png", "http://x/b.png", "staged")
	mock.ExpectQuery("SELECT \\* FROM `stored_objects` WHERE .*state = \\? OR \\(state = \\? AND created_at < \\?\\)").
		WillReturnRows(rows)

	objs, err := repo.ListSweepable(context.Background(), time.Now().Add(-time.Hour), 100)

	require.NoError(t, err)
	require.Len(t, objs, 2)
	assert.Equal(t, "partnerLogos/b.png", objs[1].Key)
	assert.NoError(t, mock.ExpectationsWereMet())
}
