package services

import (
	"context"
	"errors"
	"log"
	"net/url"
	"strings"

	"clubportal/internal/adapters/persistence/models"
	"clubportal/internal/adapters/persistence/repositories"
	"clubportal/internal/core/domain"

	"gorm.io/gorm"
)

// Partner errors
var (
	ErrPartnerNotFound = errors.New("partner not found")
	ErrTitleRequired   = errors.New("title is required")
	ErrInvalidLink     = errors.New("link must be an http or https URL")
	ErrLogoRequired    = errors.New("logo is required")
)

const cacheKeyPublicPartners = "partners:public"

// PartnerInput is the admin partner form
type PartnerInput struct {
	Title            string `json:"title" form:"title"`
	WebsiteLink      string `json:"website_link" form:"website_link"`
	GroupDescription string `json:"group_description" form:"group_description"`
	OrgHead          string `json:"org_head" form:"org_head"`
}

// PartnerService manages the partner directory
type PartnerService struct {
	partnerRepo repositories.PartnerRepository
	uploads     *UploadService
	activity    *ActivityService
	cache       Cache
}

// NewPartnerService creates a new partner service
func NewPartnerService(
	partnerRepo repositories.PartnerRepository,
	uploads *UploadService,
	activity *ActivityService,
	cache Cache,
) *PartnerService {
	return &PartnerService{
		partnerRepo: partnerRepo,
		uploads:     uploads,
		activity:    activity,
		cache:       cache,
	}
}

// ValidateLink accepts an empty link or an absolute http(s) URL
func ValidateLink(link string) (string, error) {
	link = strings.TrimSpace(link)
	if link == "" {
		return "", nil
	}
	u, err := url.Parse(link)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", ErrInvalidLink
	}
	return link, nil
}

func (in *PartnerInput) apply(p *models.Partner) error {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return ErrTitleRequired
	}
	link, err := ValidateLink(in.WebsiteLink)
	if err != nil {
		return err
	}
	p.Title = title
	p.WebsiteLink = link
	p.GroupDescription = strings.TrimSpace(in.GroupDescription)
	p.OrgHead = strings.TrimSpace(in.OrgHead)
	return nil
}

// Create adds a partner with its logo
func (s *PartnerService) Create(ctx context.Context, actor Actor, input *PartnerInput, logo *UploadFile) (*models.Partner, error) {
	// 1. Validate
	partner := &models.Partner{
		Status:    string(domain.StatusActive),
		CreatedBy: actor.AccountID,
	}
	if err := input.apply(partner); err != nil {
		return nil, err
	}
	if logo == nil {
		return nil, ErrLogoRequired
	}

	// 2. Stage logo
	obj, err := s.uploads.Stage(ctx, actor.AccountID, PrefixPartnerLogos, logo)
	if err != nil {
		return nil, err
	}
	partner.LogoURL = obj.URL
	partner.LogoKey = obj.Key

	// 3. Write record, discard the logo if that fails
	if err := s.partnerRepo.Create(ctx, partner); err != nil {
		s.uploads.Discard(ctx, obj)
		return nil, err
	}

	// 4. Commit
	if err := s.uploads.Commit(ctx, domain.OwnerPartner, partner.ID, obj); err != nil {
		log.Printf("⚠️ Failed to commit partner logo %s: %v", obj.Key, err)
	}
	s.cache.Delete(cacheKeyPublicPartners)
	s.activity.Record(ctx, actor, ActivityEntry{
		SubjectType: models.SubjectPartner,
		SubjectID:   partner.ID,
		Action:      models.ActCreate,
		ToState:     partner.Status,
		Description: "Partner: " + partner.Title,
	})

	log.Printf("✅ Partner created: %s (ID: %d)", partner.Title, partner.ID)
	return partner, nil
}

// Update edits a partner, optionally replacing its logo
func (s *PartnerService) Update(ctx context.Context, actor Actor, id uint, input *PartnerInput, logo *UploadFile) (*models.Partner, error) {
	// 1. Load
	partner, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := input.apply(partner); err != nil {
		return nil, err
	}

	// 2. Stage replacement logo
	oldKey := ""
	var obj *models.StoredObject
	if logo != nil {
		obj, err = s.uploads.Stage(ctx, actor.AccountID, PrefixPartnerLogos, logo)
		if err != nil {
			return nil, err
		}
		oldKey = partner.LogoKey
		partner.LogoURL = obj.URL
		partner.LogoKey = obj.Key
	}

	// 3. Save
	if err := s.partnerRepo.Update(ctx, partner); err != nil {
		s.uploads.Discard(ctx, obj)
		return nil, err
	}

	// 4. Commit new, orphan old
	if obj != nil {
		if err := s.uploads.Commit(ctx, domain.OwnerPartner, partner.ID, obj); err != nil {
			log.Printf("⚠️ Failed to commit partner logo %s: %v", obj.Key, err)
		}
		s.uploads.Orphan(ctx, oldKey)
	}
	s.cache.Delete(cacheKeyPublicPartners)
	s.activity.Record(ctx, actor, ActivityEntry{
		SubjectType: models.SubjectPartner,
		SubjectID:   partner.ID,
		Action:      models.ActUpdate,
		Description: "Partner: " + partner.Title,
	})

	return partner, nil
}

// ListPublic returns active partners, cached
func (s *PartnerService) ListPublic(ctx context.Context) ([]*models.Partner, error) {
	if cached, ok := s.cache.Get(cacheKeyPublicPartners); ok {
		if partners, ok := cached.([]*models.Partner); ok {
			return partners, nil
		}
	}

	partners, err := s.partnerRepo.List(ctx, string(domain.StatusActive))
	if err != nil {
		return nil, err
	}
	s.cache.Set(cacheKeyPublicPartners, partners)
	return partners, nil
}

// List returns partners for the admin screen; an empty status lists all
func (s *PartnerService) List(ctx context.Context, status string) ([]*models.Partner, error) {
	if status != "" {
		parsed, err := domain.ParsePublishStatus(status)
		if err != nil {
			return nil, err
		}
		status = string(parsed)
	}
	return s.partnerRepo.List(ctx, status)
}

// Get returns one partner; suspended partners are visible to admins only
func (s *PartnerService) Get(ctx context.Context, id uint, viewer *domain.Session) (*models.Partner, error) {
	partner, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !partner.IsPublic() && !viewer.IsAdmin() {
		return nil, ErrPartnerNotFound
	}
	return partner, nil
}

// SetStatus toggles active/suspended; repeating the current status is a no-op
func (s *PartnerService) SetStatus(ctx context.Context, actor Actor, id uint, status string) (*models.Partner, error) {
	partner, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	from := partner.Status
	next, changed, err := domain.ChangePublishStatus(domain.PublishStatus(from), status)
	if err != nil {
		return nil, err
	}
	if !changed {
		return partner, nil
	}

	if err := s.partnerRepo.UpdateStatus(ctx, id, string(next)); err != nil {
		return nil, err
	}
	partner.Status = string(next)

	s.cache.Delete(cacheKeyPublicPartners)
	s.activity.Record(ctx, actor, ActivityEntry{
		SubjectType: models.SubjectPartner,
		SubjectID:   id,
		Action:      models.ActStatusChange,
		FromState:   from,
		ToState:     partner.Status,
		Description: "Partner: " + partner.Title,
	})
	return partner, nil
}

// Delete removes a partner and releases its logo
func (s *PartnerService) Delete(ctx context.Context, actor Actor, id uint) error {
	partner, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.partnerRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.uploads.Orphan(ctx, partner.LogoKey)

	s.cache.Delete(cacheKeyPublicPartners)
	s.activity.Record(ctx, actor, ActivityEntry{
		SubjectType: models.SubjectPartner,
		SubjectID:   id,
		Action:      models.ActDelete,
		FromState:   partner.Status,
		Description: "Partner: " + partner.Title,
	})

	log.Printf("✅ Partner deleted: %s (ID: %d)", partner.Title, id)
	return nil
}

func (s *PartnerService) get(ctx context.Context, id uint) (*models.Partner, error) {
	partner, err := s.partnerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPartnerNotFound
		}
		return nil, err
	}
	return partner, nil
}
