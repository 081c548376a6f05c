// Package storage persists complaints and users. It is the only layer that mutates
// persisted state; every other package works on values returned from here.
package storage

import (
	"complainthub/backend/internal/models"
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrNotFound is returned when no complaint exists for the given id.
	ErrNotFound = errors.New("storage: complaint not found")
	// ErrPreconditionFailed is returned by a conditional update whose expected status
	// no longer matches the stored one.
	ErrPreconditionFailed = errors.New("storage: status precondition failed")
)

type SortField string

const (
	SortByCreatedAt SortField = "created_at"
	SortByStatus    SortField = "status"
	SortByPriority  SortField = "priority"
)

// Sort orders a listing by a single column. There is no secondary key.
type Sort struct {
	Field SortField
	Desc  bool
}

// ComplaintFilter is a conjunction of equality filters. Zero values are ignored.
type ComplaintFilter struct {
	SubmitterID   string
	ExcludeStatus models.Status
	Status        models.Status
	Category      models.Category
	Priority      models.Priority
}

// ComplaintPatch lists the fields an update changes. Nil pointers are left untouched;
// AppendAttachments are added after the existing ones.
type ComplaintPatch struct {
	Title             *string
	Description       *string
	Category          *models.Category
	Priority          *models.Priority
	Status            *models.Status
	AppendAttachments []models.Attachment
}

func (p ComplaintPatch) columns() map[string]interface{} {
	cols := map[string]interface{}{}
	if p.Title != nil {
		cols["title"] = *p.Title
	}
	if p.Description != nil {
		cols["description"] = *p.Description
	}
	if p.Category != nil {
		cols["category"] = *p.Category
	}
	if p.Priority != nil {
		cols["priority"] = *p.Priority
	}
	if p.Status != nil {
		cols["status"] = *p.Status
	}
	return cols
}

type Storage interface {
	CreateComplaint(ctx context.Context, complaint *models.Complaint) error
	GetComplaint(ctx context.Context, id string) (*models.Complaint, error)
	ListComplaints(ctx context.Context, filter ComplaintFilter, sort Sort) ([]models.Complaint, error)
	// UpdateComplaint applies patch atomically. When expected is non-nil the write only
	// happens if the stored status still equals *expected, else ErrPreconditionFailed.
	UpdateComplaint(ctx context.Context, id string, expected *models.Status, patch ComplaintPatch) (*models.Complaint, error)
	// DeleteComplaint reports whether a record existed and was removed.
	DeleteComplaint(ctx context.Context, id string) (bool, error)

	SaveUser(ctx context.Context, user *models.User) error
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]models.User, error)
}

// Service is the PostgreSQL-backed Storage.
type Service struct {
	DB *gorm.DB
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

// AutoMigrate creates or updates the tables backing the store.
func (s *Service) AutoMigrate() error {
	return s.DB.AutoMigrate(&models.User{}, &models.Complaint{}, &models.Attachment{})
}

func attachmentsInOrder(db *gorm.DB) *gorm.DB {
	return db.Order("id asc")
}

func (s *Service) CreateComplaint(ctx context.Context, complaint *models.Complaint) error {
	if err := s.DB.WithContext(ctx).Create(complaint).Error; err != nil {
		return pkgerrors.Wrap(err, "storage: create complaint")
	}
	return nil
}

func (s *Service) GetComplaint(ctx context.Context, id string) (*models.Complaint, error) {
	// Ids that are not UUIDs can never match; answer without a round trip.
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}

	var complaint models.Complaint
	err := s.DB.WithContext(ctx).
		Preload("Attachments", attachmentsInOrder).
		Where("id = ?", id).
		First(&complaint).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "storage: get complaint %s", id)
	}
	return &complaint, nil
}

func (s *Service) ListComplaints(ctx context.Context, filter ComplaintFilter, sort Sort) ([]models.Complaint, error) {
	q := s.DB.WithContext(ctx).Model(&models.Complaint{}).Preload("Attachments", attachmentsInOrder)

	if filter.SubmitterID != "" {
		if _, err := uuid.Parse(filter.SubmitterID); err != nil {
			return []models.Complaint{}, nil
		}
		q = q.Where("submitter_id = ?", filter.SubmitterID)
	}
	if filter.ExcludeStatus != "" {
		q = q.Where("status <> ?", filter.ExcludeStatus)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Priority != "" {
		q = q.Where("priority = ?", filter.Priority)
	}

	field := sort.Field
	if field == "" {
		field = SortByCreatedAt
	}
	// COLLATE "C" keeps enum ordering byte-wise regardless of the database locale.
	column := clause.Column{Name: string(field)}
	if field != SortByCreatedAt {
		column = clause.Column{Name: string(field) + ` COLLATE "C"`, Raw: true}
	}
	q = q.Order(clause.OrderByColumn{Column: column, Desc: sort.Desc})

	complaints := []models.Complaint{}
	if err := q.Find(&complaints).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "storage: list complaints")
	}
	return complaints, nil
}

func (s *Service) UpdateComplaint(ctx context.Context, id string, expected *models.Status, patch ComplaintPatch) (*models.Complaint, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cols := patch.columns()
		cols["updated_at"] = time.Now()

		q := tx.Model(&models.Complaint{}).Where("id = ?", id)
		if expected != nil {
			q = q.Where("status = ?", *expected)
		}
		res := q.Updates(cols)
		if res.Error != nil {
			return pkgerrors.Wrapf(res.Error, "storage: update complaint %s", id)
		}
		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&models.Complaint{}).Where("id = ?", id).Count(&count).Error; err != nil {
				return pkgerrors.Wrapf(err, "storage: check complaint %s", id)
			}
			if count == 0 {
				return ErrNotFound
			}
			return ErrPreconditionFailed
		}

		if len(patch.AppendAttachments) == 0 {
			return nil
		}
		attachments := make([]models.Attachment, len(patch.AppendAttachments))
		for i, a := range patch.AppendAttachments {
			attachments[i] = models.Attachment{ComplaintID: id, StoredName: a.StoredName, OriginalName: a.OriginalName}
		}
		if err := tx.Create(&attachments).Error; err != nil {
			return pkgerrors.Wrapf(err, "storage: append attachments to %s", id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetComplaint(ctx, id)
}

func (s *Service) DeleteComplaint(ctx context.Context, id string) (bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, nil
	}
	var removed bool
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("complaint_id = ?", id).Delete(&models.Attachment{}).Error; err != nil {
			return pkgerrors.Wrapf(err, "storage: delete attachments of %s", id)
		}
		res := tx.Where("id = ?", id).Delete(&models.Complaint{})
		if res.Error != nil {
			return pkgerrors.Wrapf(res.Error, "storage: delete complaint %s", id)
		}
		removed = res.RowsAffected > 0
		return nil
	})
	return removed, err
}
