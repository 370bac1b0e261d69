package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"clubportal/internal/adapters/persistence/models"
	"clubportal/internal/adapters/persistence/repositories"
	"clubportal/internal/core/domain"
	"clubportal/internal/pkg/metrics"

	"github.com/google/uuid"
)

// Upload errors
var (
	ErrFileRequired        = errors.New("file is required")
	ErrFileTooLarge        = errors.New("file exceeds the upload size limit")
	ErrUnsupportedFileType = errors.New("only jpeg, png, gif and webp images are accepted")
)

// Object key prefixes
const (
	PrefixProfilePictures = "profilePictures"
	PrefixPartnerLogos    = "partnerLogos"
	PrefixEventImages     = "eventImages"
)

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ObjectStore is where uploaded bytes live
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// UploadFile is an incoming file, opened lazily
type UploadFile struct {
	Filename string
	Size     int64
	Open     func() (io.ReadCloser, error)
}

// UploadService runs the two-phase upload: stage the object, write the owning
// record, then commit the object or discard it.
type UploadService struct {
	store    ObjectStore
	repo     repositories.StoredObjectRepository
	maxBytes int64
	grace    time.Duration
	batch    int
}

// NewUploadService creates a new upload service
func NewUploadService(store ObjectStore, repo repositories.StoredObjectRepository, maxBytes int64, grace time.Duration, batch int) *UploadService {
	return &UploadService{
		store:    store,
		repo:     repo,
		maxBytes: maxBytes,
		grace:    grace,
		batch:    batch,
	}
}

// Stage stores the file under prefix and records it as staged
func (s *UploadService) Stage(ctx context.Context, uploadedBy uint, prefix string, file *UploadFile) (*models.StoredObject, error) {
	// 1. Validate size
	if file == nil || file.Open == nil || file.Size <= 0 {
		return nil, ErrFileRequired
	}
	if s.maxBytes > 0 && file.Size > s.maxBytes {
		return nil, ErrFileTooLarge
	}

	// 2. Sniff the real content type from the first bytes
	rc, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer rc.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(rc, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]
	contentType := http.DetectContentType(head)
	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, ErrUnsupportedFileType
	}

	// 3. Upload
	key := prefix + "/" + uuid.NewString() + ext
	url, err := s.store.Put(ctx, key, io.MultiReader(bytes.NewReader(head), rc), file.Size, contentType)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues(prefix, "failed").Inc()
		return nil, err
	}

	// 4. Track it
	obj := &models.StoredObject{
		Key:         key,
		URL:         url,
		ContentType: contentType,
		Size:        file.Size,
		State:       domain.ObjectStaged,
		UploadedBy:  uploadedBy,
	}
	if err := s.repo.Create(ctx, obj); err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			log.Printf("⚠️ Failed to remove untracked upload %s: %v", key, delErr)
		}
		return nil, err
	}

	metrics.UploadsTotal.WithLabelValues(prefix, "staged").Inc()
	return obj, nil
}

// Commit attaches staged objects to the record that now references them
func (s *UploadService) Commit(ctx context.Context, ownerKind string, ownerID uint, objs ...*models.StoredObject) error {
	keys := objectKeys(objs)
	if len(keys) == 0 {
		return nil
	}
	return s.repo.MarkCommitted(ctx, keys, ownerKind, ownerID)
}

// Discard deletes staged objects whose owning record was never written
func (s *UploadService) Discard(ctx context.Context, objs ...*models.StoredObject) {
	for _, key := range objectKeys(objs) {
		s.remove(ctx, key)
	}
}

// Orphan marks objects no record references anymore; the sweep deletes them
func (s *UploadService) Orphan(ctx context.Context, keys ...string) {
	live := make([]string, 0, len(keys))
	for _, k := range keys {
		if k != "" {
			live = append(live, k)
		}
	}
	if len(live) == 0 {
		return
	}
	if err := s.repo.MarkOrphaned(ctx, live); err != nil {
		log.Printf("⚠️ Failed to orphan uploads %v: %v", live, err)
	}
}

// SweepOrphans deletes orphaned objects and stale staged objects
func (s *UploadService) SweepOrphans(ctx context.Context) (int, error) {
	objs, err := s.repo.ListSweepable(ctx, time.Now().Add(-s.grace), s.batch)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, obj := range objs {
		if s.remove(ctx, obj.Key) {
			deleted++
		}
	}
	metrics.SweepDeletedTotal.Add(float64(deleted))
	return deleted, nil
}

func (s *UploadService) remove(ctx context.Context, key string) bool {
	if err := s.store.Delete(ctx, key); err != nil {
		log.Printf("⚠️ Failed to delete object %s: %v", key, err)
		return false
	}
	if err := s.repo.DeleteByKey(ctx, key); err != nil {
		log.Printf("⚠️ Failed to delete object row %s: %v", key, err)
		return false
	}
	return true
}

func objectKeys(objs []*models.StoredObject) []string {
	keys := make([]string, 0, len(objs))
	for _, o := range objs {
		if o != nil && o.Key != "" {
			keys = append(keys, o.Key)
		}
	}
	return keys
}
