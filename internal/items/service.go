// Package items implements the item lifecycle: creation with an optional
// externally hosted image, public listing and lookup by unique link, and
// owner-or-admin gated update and delete that keep the remote image in step
// with the record.
package items

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lostlink/backend/internal/auth"
	"github.com/lostlink/backend/internal/common"
	"github.com/lostlink/backend/internal/models"
	"go.uber.org/zap"
)

// imageFolder is the logical prefix all item images live under at the
// image hosting gateway.
const imageFolder = "lostlink_images"

// linkAttempts bounds unique-link regeneration when the store reports a
// collision.
const linkAttempts = 3

// ItemStore is the interface for item persistence.
type ItemStore interface {
	// Insert persists the item and fills in the assigned ID. A duplicate
	// unique link must surface as common.ErrLinkTaken.
	Insert(ctx context.Context, item *models.Item) error
	List(ctx context.Context) ([]models.Item, error)
	// GetByLink returns common.ErrItemNotFound when no item matches.
	GetByLink(ctx context.Context, link string) (*models.Item, error)
	Update(ctx context.Context, item *models.Item) error
	Delete(ctx context.Context, link string) error
}

// ImageStore is the capability the image hosting gateway exposes to the
// service: store a payload under a key and return its durable URL, or delete
// a previously stored payload.
type ImageStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Remove(ctx context.Context, key string) error
}

// ImageUpload is an in-memory image payload taken from a multipart form.
type ImageUpload struct {
	Data        []byte
	Filename    string
	ContentType string
}

// CreateInput carries the fields for a new item.
type CreateInput struct {
	Title       string
	Description string
	Status      string
	Email       string
	Phone       string
	PostedBy    string
	UID         string
	Image       *ImageUpload
}

// UpdateInput carries replacement fields for an item. Empty fields keep
// their prior values.
type UpdateInput struct {
	Title       string
	Description string
	Status      string
	Email       string
	Phone       string
	Image       *ImageUpload
}

// Service implements the item lifecycle.
type Service struct {
	store  ItemStore
	images ImageStore
	logger *zap.Logger
}

func NewService(store ItemStore, images ImageStore, logger *zap.Logger) *Service {
	return &Service{store: store, images: images, logger: logger}
}

// Create validates the input, uploads the optional image, and persists a new
// item under a freshly generated unique link.
func (s *Service) Create(ctx context.Context, in *CreateInput) (*models.Item, error) {
	if in.Title == "" || in.Description == "" || in.Status == "" ||
		in.Email == "" || in.Phone == "" || in.PostedBy == "" || in.UID == "" {
		return nil, common.ErrAllFieldsRequired
	}
	if !models.ValidStatus(in.Status) {
		return nil, common.ErrInvalidStatus
	}

	item := &models.Item{
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		Email:       in.Email,
		Phone:       in.Phone,
		PostedBy:    in.PostedBy,
		UID:         in.UID,
		CreatedAt:   time.Now(),
	}

	if in.Image != nil {
		key, url, err := s.uploadImage(ctx, in.Image)
		if err != nil {
			return nil, err
		}
		item.ImageKey = key
		item.ImageURL = url
	}

	// The store's unique index on the link is the authority; on a collision
	// a new suffix is drawn and the insert retried.
	local := strings.SplitN(in.Email, "@", 2)[0]
	for attempt := 0; ; attempt++ {
		item.UniqueLink = generateUniqueLink(local)
		err := s.store.Insert(ctx, item)
		if err == nil {
			break
		}
		if errors.Is(err, common.ErrLinkTaken) && attempt < linkAttempts-1 {
			continue
		}
		// Nothing references the uploaded image yet, so release it.
		if item.ImageKey != "" {
			s.removeImage(ctx, item.ImageKey)
		}
		return nil, err
	}

	return item, nil
}

// List returns every item, unfiltered and unpaginated, in store order.
func (s *Service) List(ctx context.Context) ([]models.Item, error) {
	return s.store.List(ctx)
}

// GetByLink returns the item with the given unique link.
func (s *Service) GetByLink(ctx context.Context, link string) (*models.Item, error) {
	return s.store.GetByLink(ctx, link)
}

// Update applies the non-empty fields of in to the item. Only the owner or
// an admin may update. When a new image is supplied, it is uploaded before
// the old one is touched: a failed upload leaves the item and its current
// image exactly as they were.
func (s *Service) Update(ctx context.Context, link string, caller auth.Identity, in *UpdateInput) (*models.Item, error) {
	item, err := s.store.GetByLink(ctx, link)
	if err != nil {
		return nil, err
	}
	if !caller.CanModify(item.UID) {
		return nil, common.ErrNotOwner
	}

	if in.Status != "" && !models.ValidStatus(in.Status) {
		return nil, common.ErrInvalidStatus
	}

	if in.Title != "" {
		item.Title = in.Title
	}
	if in.Description != "" {
		item.Description = in.Description
	}
	if in.Status != "" {
		item.Status = in.Status
	}
	if in.Email != "" {
		item.Email = in.Email
	}
	if in.Phone != "" {
		item.Phone = in.Phone
	}

	if in.Image != nil {
		key, url, err := s.uploadImage(ctx, in.Image)
		if err != nil {
			return nil, err
		}
		if item.ImageKey != "" {
			s.removeImage(ctx, item.ImageKey)
		}
		item.ImageKey = key
		item.ImageURL = url
	}

	if err := s.store.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	return item, nil
}

// Delete removes the item. Only the owner or an admin may delete. The remote
// image delete is best effort: an orphaned image is acceptable, an
// undeletable record is not.
func (s *Service) Delete(ctx context.Context, link string, caller auth.Identity) error {
	item, err := s.store.GetByLink(ctx, link)
	if err != nil {
		return err
	}
	if !caller.CanModify(item.UID) {
		return common.ErrNotOwner
	}

	if item.ImageKey != "" {
		s.removeImage(ctx, item.ImageKey)
	}

	if err := s.store.Delete(ctx, link); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

func (s *Service) uploadImage(ctx context.Context, img *ImageUpload) (key, url string, err error) {
	key = fmt.Sprintf("%s/%s%s", imageFolder, uuid.New().String(), filepath.Ext(img.Filename))
	url, err = s.images.Put(ctx, key, img.Data, img.ContentType)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", common.ErrImageUpload, err)
	}
	return key, url, nil
}

func (s *Service) removeImage(ctx context.Context, key string) {
	if err := s.images.Remove(ctx, key); err != nil {
		s.logger.Warn("failed to delete image from gateway", zap.String("key", key), zap.Error(err))
	}
}

// generateUniqueLink builds a human-shareable slug from the local part of
// the contact email plus a random suffix.
func generateUniqueLink(local string) string {
	buf := make([]byte, 4)
	rand.Read(buf)
	return fmt.Sprintf("%s-%s", local, hex.EncodeToString(buf))
}
