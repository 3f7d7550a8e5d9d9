package item

import (
	"context"
	"errors"
	"fmt"
	"lostfound/internal/common/enum"
	types "lostfound/internal/common/type"
	database "lostfound/internal/pkg/db"
	"lostfound/internal/pkg/helper"
	"lostfound/internal/pkg/validation"
	"lostfound/internal/service/item/model"
	"lostfound/internal/service/storage"
	"strings"
	"time"

	"gorm.io/gorm"
)

const (
	MaxPhotos    = 5
	MaxPhotoSize = 5 << 20
)

var (
	ErrItemNotFound    = errors.New("Item not found")
	ErrInvalidPhoto    = errors.New("Invalid file type. Please upload PNG, JPG, JPEG, or GIF files only.")
	ErrPhotoTooLarge   = errors.New("Photos must be 5 MB or smaller.")
	ErrTooManyPhotos   = fmt.Errorf("Please upload at most %d photos.", MaxPhotos)
	ErrPhotoUpload     = errors.New("Error uploading photo. Please try again.")
	ErrNotOwner        = errors.New("Only the reporter can change this item.")
	ErrAlreadyResolved = errors.New("Item is already resolved.")
)

type Service struct {
	db      *database.Database
	storage storage.IService
	events  IEventPublisher
	now     func() time.Time
}

type IService interface {
	Report(ctx context.Context, userID uint, input *model.ReportInput, photos []types.BufferedFile) (*model.Item, error)
	Get(id uint) (*model.Item, error)
	Search(query *model.SearchQuery) ([]model.Item, error)
	Recent(limit int) ([]model.Item, error)
	Page(pagination *database.PaginationQuery, query *model.SearchQuery) (*database.PaginationResult, error)
	Feed(cursor string, limit int, query *model.SearchQuery) (*database.CursorResult, error)
	Resolve(ctx context.Context, id, userID uint) (*model.Item, error)
}

func NewService(db *database.Database, store storage.IService, events IEventPublisher) IService {
	if events == nil {
		events = NoopEvents{}
	}
	return &Service{db: db, storage: store, events: events, now: time.Now}
}

// CheckPhotos applies the report photo limits.
func CheckPhotos(photos []types.BufferedFile) error {
	if len(photos) > MaxPhotos {
		return ErrTooManyPhotos
	}
	for i := range photos {
		if !enum.IMAGE.IsReportPhoto(&photos[i]) {
			return ErrInvalidPhoto
		}
		if len(photos[i].Buffer) > MaxPhotoSize {
			return ErrPhotoTooLarge
		}
	}
	return nil
}

// Report stores the photos, then the item with its photo rows. Stored
// files are removed again if anything after them fails.
func (s *Service) Report(ctx context.Context, userID uint, input *model.ReportInput, photos []types.BufferedFile) (*model.Item, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	input.ContactPhone = strings.TrimSpace(input.ContactPhone)
	if err := validation.Validate(input); err != nil {
		return nil, err
	}
	if err := CheckPhotos(photos); err != nil {
		return nil, err
	}

	var saved []*storage.StoredFile
	cleanup := func() {
		for _, f := range saved {
			_ = helper.HandleAppError(s.storage.Delete(context.WithoutCancel(ctx), f.FileName), "item.Report", "cleanup "+f.FileName, false)
		}
	}
	for i := range photos {
		f, err := s.storage.Save(ctx, &photos[i])
		if err != nil {
			cleanup()
			_ = helper.HandleAppError(err, "item.Report", "save photo", false)
			return nil, fmt.Errorf("%w: %v", ErrPhotoUpload, err)
		}
		saved = append(saved, f)
	}

	item := &model.Item{
		Title:        input.Title,
		Description:  input.Description,
		ItemType:     input.ItemType,
		ContactPhone: input.ContactPhone,
		DateReported: s.now(),
		Status:       enum.ACTIVE,
		UserID:       userID,
	}
	for _, f := range saved {
		item.Photos = append(item.Photos, model.ItemPhoto{
			FileName:     f.FileName,
			OriginalName: f.OriginalName,
			MimeType:     f.MimeType,
			Size:         f.Size,
			URL:          f.URL,
		})
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(item).Error
	}); err != nil {
		cleanup()
		return nil, fmt.Errorf("save item report: %w", err)
	}

	s.publish(ctx, item)
	return item, nil
}

func (s *Service) publish(ctx context.Context, item *model.Item) {
	err := s.events.Publish(ctx, model.ItemEvent{
		ID:           item.ID,
		Title:        item.Title,
		ItemType:     item.ItemType,
		Status:       item.Status,
		DateReported: item.DateReported,
		PhotoCount:   len(item.Photos),
	})
	_ = helper.HandleAppError(err, "item.publish", fmt.Sprintf("item %d", item.ID), false)
}

func (s *Service) Get(id uint) (*model.Item, error) {
	var item model.Item
	err := s.db.Preload("Photos").Preload("User").First(&item, id).Error
	if err != nil {
		if database.IsNotFound(err) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

// filters turns a search query into scopes. "all" and empty values do not
// filter.
func filters(query *model.SearchQuery) []database.Scope {
	if query == nil {
		return nil
	}
	var scopes []database.Scope
	if q := strings.TrimSpace(query.Search); q != "" {
		like := "%" + q + "%"
		scopes = append(scopes, func(tx *gorm.DB) *gorm.DB {
			return tx.Where("title LIKE ? OR description LIKE ?", like, like)
		})
	}
	if t := query.Type; t != "" && t != "all" {
		scopes = append(scopes, func(tx *gorm.DB) *gorm.DB {
			return tx.Where("item_type = ?", t)
		})
	}
	if st := query.Status; st != "" && st != "all" {
		scopes = append(scopes, func(tx *gorm.DB) *gorm.DB {
			return tx.Where("status = ?", st)
		})
	}
	return scopes
}

func newest() database.OrderField {
	return database.Newest("date_reported")
}

// Search returns every matching item, newest first.
func (s *Service) Search(query *model.SearchQuery) ([]model.Item, error) {
	var items []model.Item
	err := s.db.Scopes(filters(query)...).
		Preload("Photos").
		Order(newest().ToString()).
		Order("id DESC").
		Find(&items).Error
	return items, err
}

func (s *Service) Recent(limit int) ([]model.Item, error) {
	if limit <= 0 {
		limit = 10
	}
	var items []model.Item
	err := s.db.Preload("Photos").
		Order(newest().ToString()).
		Order("id DESC").
		Limit(limit).
		Find(&items).Error
	return items, err
}

func (s *Service) Page(pagination *database.PaginationQuery, query *model.SearchQuery) (*database.PaginationResult, error) {
	var items []model.Item
	return s.db.FindWithPagination(pagination, &items, newest(), filters(query)...)
}

// Feed pages by id, which grows with report time.
func (s *Service) Feed(cursor string, limit int, query *model.SearchQuery) (*database.CursorResult, error) {
	var items []model.Item
	return s.db.FindWithCursor(cursor, limit, &items, database.OrderField{Field: "id", Direction: database.DESC}, filters(query)...)
}

// Resolve marks the reporter's own item as resolved.
func (s *Service) Resolve(ctx context.Context, id, userID uint) (*model.Item, error) {
	item, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if item.UserID != userID {
		return nil, ErrNotOwner
	}
	if item.Status == enum.RESOLVED {
		return nil, ErrAlreadyResolved
	}
	if err := s.db.Model(item).Update("status", enum.RESOLVED).Error; err != nil {
		return nil, err
	}
	item.Status = enum.RESOLVED
	s.publish(ctx, item)
	return item, nil
}
