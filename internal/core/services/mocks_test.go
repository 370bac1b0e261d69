package services

import (
	"bytes"
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"clubportal/internal/adapters/persistence/models"
	"clubportal/internal/adapters/persistence/repositories"

	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// memAccountRepo keeps accounts in memory and honours the version check,
// so concurrent role transitions race the same way they do against MySQL.
type memAccountRepo struct {
	mu       sync.Mutex
	accounts map[uint]models.Account
}

func newMemAccountRepo(accounts ...models.Account) *memAccountRepo {
	r := &memAccountRepo{accounts: make(map[uint]models.Account)}
	for _, a := range accounts {
		if a.Version == 0 {
			a.Version = 1
		}
		if !a.IsActive {
			a.IsActive = true
		}
		r.accounts[a.ID] = a
	}
	return r
}

func (r *memAccountRepo) get(id uint) models.Account {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.accounts[id]
}

func (r *memAccountRepo) Create(ctx context.Context, account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	account.ID = uint(len(r.accounts) + 1)
	r.accounts[account.ID] = *account
	return nil
}

func (r *memAccountRepo) GetByID(ctx context.Context, id uint) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &a, nil
}

func (r *memAccountRepo) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.Email == email {
			found := a
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memAccountRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	return err == nil, nil
}

func (r *memAccountRepo) UpdateProfile(ctx context.Context, account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur := r.accounts[account.ID]
	cur.FirstName, cur.LastName = account.FirstName, account.LastName
	cur.LinkedIn, cur.Instagram, cur.Bio = account.LinkedIn, account.Instagram, account.Bio
	cur.School, cur.Title = account.School, account.Title
	cur.ProfilePicURL, cur.ProfilePicKey = account.ProfilePicURL, account.ProfilePicKey
	r.accounts[account.ID] = cur
	return nil
}

func (r *memAccountRepo) UpdatePassword(ctx context.Context, id uint, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur := r.accounts[id]
	cur.Password = hash
	r.accounts[id] = cur
	return nil
}

func (r *memAccountRepo) UpdateRoleFields(ctx context.Context, account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.accounts[account.ID]
	if !ok || cur.Version != account.Version {
		return repositories.ErrStaleRecord
	}
	cur.AccountLevel = account.AccountLevel
	cur.RoleStatus = account.RoleStatus
	cur.RequestedRole = account.RequestedRole
	cur.Version++
	r.accounts[account.ID] = cur
	account.Version++
	return nil
}

func (r *memAccountRepo) UpdatePartnershipStatus(ctx context.Context, id uint, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur := r.accounts[id]
	cur.PartnershipStatus = status
	r.accounts[id] = cur
	return nil
}

func (r *memAccountRepo) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.accounts, id)
	return nil
}

func (r *memAccountRepo) List(ctx context.Context, filter repositories.AccountFilter, offset, limit int) ([]*models.Account, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	levels := map[string]bool{}
	for _, l := range filter.Levels {
		levels[l] = true
	}

	var out []*models.Account
	for _, a := range r.accounts {
		if filter.Level != "" && a.AccountLevel != filter.Level {
			continue
		}
		if len(levels) > 0 && !levels[a.AccountLevel] {
			continue
		}
		if filter.RoleStatus != "" && a.RoleStatus != filter.RoleStatus {
			continue
		}
		found := a
		out = append(out, &found)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *memAccountRepo) CountByLevel(ctx context.Context) ([]repositories.LevelCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[string]int64{}
	for _, a := range r.accounts {
		counts[a.AccountLevel]++
	}
	var rows []repositories.LevelCount
	for level, n := range counts {
		rows = append(rows, repositories.LevelCount{AccountLevel: level, Count: n})
	}
	return rows, nil
}

func (r *memAccountRepo) CountByRoleStatus(ctx context.Context, status string) (int64, error) {
	accounts, _, _ := r.List(ctx, repositories.AccountFilter{RoleStatus: status}, 0, 0)
	return int64(len(accounts)), nil
}

// MockRefreshTokenRepo
type MockRefreshTokenRepo struct {
	mock.Mock
}

func (m *MockRefreshTokenRepo) Create(ctx context.Context, token *models.RefreshToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}
func (m *MockRefreshTokenRepo) GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RefreshToken), args.Error(1)
}
func (m *MockRefreshTokenRepo) Revoke(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockRefreshTokenRepo) RevokeByTokenHash(ctx context.Context, tokenHash string) error {
	args := m.Called(ctx, tokenHash)
	return args.Error(0)
}
func (m *MockRefreshTokenRepo) RevokeAllByUserID(ctx context.Context, userID uint) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
func (m *MockRefreshTokenRepo) DeleteExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockPartnerRequestRepo
type MockPartnerRequestRepo struct {
	mock.Mock
}

func (m *MockPartnerRequestRepo) Upsert(ctx context.Context, req *models.PartnerRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}
func (m *MockPartnerRequestRepo) GetByID(ctx context.Context, id uint) (*models.PartnerRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PartnerRequest), args.Error(1)
}
func (m *MockPartnerRequestRepo) ListByStatus(ctx context.Context, status string) ([]*models.PartnerRequest, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]*models.PartnerRequest), args.Error(1)
}
func (m *MockPartnerRequestRepo) Resolve(ctx context.Context, id uint, from, to string, reviewerID uint) error {
	args := m.Called(ctx, id, from, to, reviewerID)
	return args.Error(0)
}

// MockPartnerRepo
type MockPartnerRepo struct {
	mock.Mock
}

func (m *MockPartnerRepo) Create(ctx context.Context, partner *models.Partner) error {
	args := m.Called(ctx, partner)
	return args.Error(0)
}
func (m *MockPartnerRepo) GetByID(ctx context.Context, id uint) (*models.Partner, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Partner), args.Error(1)
}
func (m *MockPartnerRepo) Update(ctx context.Context, partner *models.Partner) error {
	args := m.Called(ctx, partner)
	return args.Error(0)
}
func (m *MockPartnerRepo) UpdateStatus(ctx context.Context, id uint, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
func (m *MockPartnerRepo) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockPartnerRepo) List(ctx context.Context, status string) ([]*models.Partner, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]*models.Partner), args.Error(1)
}

// MockEventRepo
type MockEventRepo struct {
	mock.Mock
}

func (m *MockEventRepo) Create(ctx context.Context, event *models.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
func (m *MockEventRepo) GetByID(ctx context.Context, id uint) (*models.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}
func (m *MockEventRepo) Update(ctx context.Context, event *models.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
func (m *MockEventRepo) UpdateStatus(ctx context.Context, id uint, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
func (m *MockEventRepo) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockEventRepo) List(ctx context.Context, status string, from *time.Time, limit int) ([]*models.Event, error) {
	args := m.Called(ctx, status, from, limit)
	return args.Get(0).([]*models.Event), args.Error(1)
}
func (m *MockEventRepo) AddInterest(ctx context.Context, eventID, accountID uint) (bool, error) {
	args := m.Called(ctx, eventID, accountID)
	return args.Bool(0), args.Error(1)
}
func (m *MockEventRepo) RemoveInterest(ctx context.Context, eventID, accountID uint) (bool, error) {
	args := m.Called(ctx, eventID, accountID)
	return args.Bool(0), args.Error(1)
}
func (m *MockEventRepo) InterestedEventIDs(ctx context.Context, accountID uint, eventIDs []uint) (map[uint]bool, error) {
	args := m.Called(ctx, accountID, eventIDs)
	return args.Get(0).(map[uint]bool), args.Error(1)
}

// memEventRepo keeps events and interest marks in memory; AddInterest and
// RemoveInterest update the counter under one lock like the SQL transaction.
type memEventRepo struct {
	mu        sync.Mutex
	events    map[uint]models.Event
	interests map[[2]uint]bool
}

func newMemEventRepo(events ...models.Event) *memEventRepo {
	r := &memEventRepo{events: make(map[uint]models.Event), interests: make(map[[2]uint]bool)}
	for _, e := range events {
		r.events[e.ID] = e
	}
	return r
}

func (r *memEventRepo) Create(ctx context.Context, event *models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	event.ID = uint(len(r.events) + 1)
	r.events[event.ID] = *event
	return nil
}
func (r *memEventRepo) GetByID(ctx context.Context, id uint) (*models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &e, nil
}
func (r *memEventRepo) Update(ctx context.Context, event *models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.events[event.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	// the counter is only written by the interest methods
	event.InterestedCount = stored.InterestedCount
	r.events[event.ID] = *event
	return nil
}
func (r *memEventRepo) UpdateStatus(ctx context.Context, id uint, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	e.Status = status
	r.events[id] = e
	return nil
}
func (r *memEventRepo) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.events, id)
	return nil
}
func (r *memEventRepo) List(ctx context.Context, status string, from *time.Time, limit int) ([]*models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*models.Event
	for _, e := range r.events {
		if status != "" && e.Status != status {
			continue
		}
		if from != nil && e.StartDate.Before(*from) {
			continue
		}
		e := e
		result = append(result, &e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartDate.Before(result[j].StartDate) })
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}
func (r *memEventRepo) AddInterest(ctx context.Context, eventID, accountID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := [2]uint{eventID, accountID}
	if r.interests[key] {
		return false, nil
	}
	r.interests[key] = true
	e := r.events[eventID]
	e.InterestedCount++
	r.events[eventID] = e
	return true, nil
}
func (r *memEventRepo) RemoveInterest(ctx context.Context, eventID, accountID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := [2]uint{eventID, accountID}
	if !r.interests[key] {
		return false, nil
	}
	delete(r.interests, key)
	e := r.events[eventID]
	if e.InterestedCount > 0 {
		e.InterestedCount--
	}
	r.events[eventID] = e
	return true, nil
}
func (r *memEventRepo) InterestedEventIDs(ctx context.Context, accountID uint, eventIDs []uint) (map[uint]bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set := make(map[uint]bool)
	for _, id := range eventIDs {
		if r.interests[[2]uint{id, accountID}] {
			set[id] = true
		}
	}
	return set, nil
}

// MockStoredObjectRepo
type MockStoredObjectRepo struct {
	mock.Mock
}

func (m *MockStoredObjectRepo) Create(ctx context.Context, obj *models.StoredObject) error {
	args := m.Called(ctx, obj)
	return args.Error(0)
}
func (m *MockStoredObjectRepo) MarkCommitted(ctx context.Context, keys []string, ownerKind string, ownerID uint) error {
	args := m.Called(ctx, keys, ownerKind, ownerID)
	return args.Error(0)
}
func (m *MockStoredObjectRepo) MarkOrphaned(ctx context.Context, keys []string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}
func (m *MockStoredObjectRepo) DeleteByKey(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
func (m *MockStoredObjectRepo) ListSweepable(ctx context.Context, stagedBefore time.Time, limit int) ([]*models.StoredObject, error) {
	args := m.Called(ctx, stagedBefore, limit)
	return args.Get(0).([]*models.StoredObject), args.Error(1)
}

// MockActivityRepo
type MockActivityRepo struct {
	mock.Mock
}

func (m *MockActivityRepo) Create(ctx context.Context, row *models.ActivityLog) error {
	args := m.Called(ctx, row)
	return args.Error(0)
}
func (m *MockActivityRepo) List(ctx context.Context, subjectType string, subjectID uint, offset, limit int) ([]*models.ActivityLog, int64, error) {
	args := m.Called(ctx, subjectType, subjectID, offset, limit)
	return args.Get(0).([]*models.ActivityLog), args.Get(1).(int64), args.Error(2)
}

// newActivity returns an activity service that accepts every row
func newActivity() (*ActivityService, *MockActivityRepo) {
	repo := new(MockActivityRepo)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil).Maybe()
	return NewActivityService(repo), repo
}

// memCache is a map-backed Cache
type memCache struct {
	mu sync.Mutex
	m  map[string]interface{}
}

func newMemCache() *memCache {
	return &memCache{m: make(map[string]interface{})}
}

func (c *memCache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.m[key]
	return v, ok
}

func (c *memCache) Set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = value
}

func (c *memCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.m, key)
}

// memStore is an ObjectStore that keeps bytes in memory
type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	failPut bool
}

func newMemStore() *memStore {
	return &memStore{objects: make(map[string][]byte)}
}

func (s *memStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	if s.failPut {
		return "", io.ErrClosedPipe
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return "http://files.test/" + key, nil
}

func (s *memStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

func (s *memStore) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[key]
	return ok
}

// pngFile is a tiny upload whose bytes sniff as image/png
func pngFile() *UploadFile {
	data := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)
	return &UploadFile{
		Filename: "logo.png",
		Size:     int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

func textFile() *UploadFile {
	data := []byte("just some text, not an image")
	return &UploadFile{
		Filename: "notes.png",
		Size:     int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}
