package storage

import (
	"complainthub/backend/internal/models"
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is a process-local Storage used for development and tests. It honours the
// same conditional-update contract as Service.
type MemoryStore struct {
	mu         sync.RWMutex
	complaints map[string]*models.Complaint
	order      []string
	users      map[string]models.User
	lastStamp  time.Time
	now        func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		complaints: make(map[string]*models.Complaint),
		users:      make(map[string]models.User),
		now:        time.Now,
	}
}

// stamp returns a strictly increasing timestamp so creation order is total.
func (m *MemoryStore) stamp() time.Time {
	t := m.now().UTC()
	if !t.After(m.lastStamp) {
		t = m.lastStamp.Add(time.Microsecond)
	}
	m.lastStamp = t
	return t
}

func clone(c *models.Complaint) models.Complaint {
	out := *c
	out.Attachments = append([]models.Attachment(nil), c.Attachments...)
	if out.Attachments == nil {
		out.Attachments = []models.Attachment{}
	}
	return out
}

func (m *MemoryStore) CreateComplaint(_ context.Context, complaint *models.Complaint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if complaint.ID == "" {
		complaint.ID = uuid.New().String()
	}
	if complaint.Status == "" {
		complaint.Status = models.StatusPending
	}
	if complaint.Priority == "" {
		complaint.Priority = models.PriorityMedium
	}
	now := m.stamp()
	complaint.CreatedAt = now
	complaint.UpdatedAt = now
	for i := range complaint.Attachments {
		complaint.Attachments[i].ComplaintID = complaint.ID
	}

	stored := clone(complaint)
	m.complaints[complaint.ID] = &stored
	m.order = append(m.order, complaint.ID)
	return nil
}

func (m *MemoryStore) GetComplaint(_ context.Context, id string) (*models.Complaint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.complaints[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := clone(c)
	return &out, nil
}

func (f ComplaintFilter) matches(c *models.Complaint) bool {
	switch {
	case f.SubmitterID != "" && c.SubmitterID != f.SubmitterID:
		return false
	case f.ExcludeStatus != "" && c.Status == f.ExcludeStatus:
		return false
	case f.Status != "" && c.Status != f.Status:
		return false
	case f.Category != "" && c.Category != f.Category:
		return false
	case f.Priority != "" && c.Priority != f.Priority:
		return false
	}
	return true
}

func (m *MemoryStore) ListComplaints(_ context.Context, filter ComplaintFilter, s Sort) ([]models.Complaint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []models.Complaint{}
	for _, id := range m.order {
		if c := m.complaints[id]; filter.matches(c) {
			out = append(out, clone(c))
		}
	}

	less := func(a, b models.Complaint) bool { return a.CreatedAt.Before(b.CreatedAt) }
	switch s.Field {
	case SortByStatus:
		less = func(a, b models.Complaint) bool { return a.Status < b.Status }
	case SortByPriority:
		less = func(a, b models.Complaint) bool { return a.Priority < b.Priority }
	}
	sort.SliceStable(out, func(i, j int) bool {
		if s.Desc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out, nil
}

func (m *MemoryStore) UpdateComplaint(_ context.Context, id string, expected *models.Status, patch ComplaintPatch) (*models.Complaint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.complaints[id]
	if !ok {
		return nil, ErrNotFound
	}
	if expected != nil && c.Status != *expected {
		return nil, ErrPreconditionFailed
	}

	if patch.Title != nil {
		c.Title = *patch.Title
	}
	if patch.Description != nil {
		c.Description = *patch.Description
	}
	if patch.Category != nil {
		c.Category = *patch.Category
	}
	if patch.Priority != nil {
		c.Priority = *patch.Priority
	}
	if patch.Status != nil {
		c.Status = *patch.Status
	}
	for _, a := range patch.AppendAttachments {
		a.ComplaintID = id
		c.Attachments = append(c.Attachments, a)
	}
	c.UpdatedAt = m.stamp()

	out := clone(c)
	return &out, nil
}

func (m *MemoryStore) DeleteComplaint(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.complaints[id]; !ok {
		return false, nil
	}
	delete(m.complaints, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return true, nil
}

func (m *MemoryStore) SaveUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	m.users[user.ID] = *user
	return nil
}

func (m *MemoryStore) GetUsersByIDs(_ context.Context, ids []string) (map[string]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]models.User, len(ids))
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}
