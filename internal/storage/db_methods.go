package storage

import (
	"complainthub/backend/internal/models"
	"context"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm/clause"
)

// SaveUser inserts the user or, when the id already exists, updates its name, email and role.
func (s *Service) SaveUser(ctx context.Context, user *models.User) error {
	err := s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "email", "role"}),
		}).
		Create(user).Error
	return pkgerrors.Wrap(err, "storage: save user")
}

// GetUsersByIDs returns the known users among ids, keyed by id. Unknown ids are skipped.
func (s *Service) GetUsersByIDs(ctx context.Context, ids []string) (map[string]models.User, error) {
	out := make(map[string]models.User, len(ids))
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := uuid.Parse(id); err == nil {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return out, nil
	}

	var users []models.User
	if err := s.DB.WithContext(ctx).Where("id IN ?", valid).Find(&users).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "storage: get users")
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}
