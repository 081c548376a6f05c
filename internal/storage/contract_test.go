package storage

import (
	"complainthub/backend/internal/models"
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runStoreContract checks the behaviour every Storage implementation must share.
func runStoreContract(t *testing.T, newStore func(t *testing.T) Storage) {
	ctx := context.Background()

	newComplaint := func(submitter string, title string, cat models.Category, pr models.Priority) *models.Complaint {
		return &models.Complaint{
			Title:       title,
			Description: "desc",
			Category:    cat,
			SubmitterID: submitter,
			Status:      models.StatusPending,
			Priority:    pr,
			Attachments: []models.Attachment{},
		}
	}

	t.Run("create and get", func(t *testing.T) {
		s := newStore(t)
		submitter := uuid.NewString()
		c := newComplaint(submitter, "Leaking pipe", models.CategoryInfrastructure, models.PriorityMedium)
		c.Attachments = []models.Attachment{{StoredName: uuid.NewString() + ".png", OriginalName: "a.png"}}
		require.NoError(t, s.CreateComplaint(ctx, c))
		require.NotEmpty(t, c.ID)

		got, err := s.GetComplaint(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, "Leaking pipe", got.Title)
		assert.Equal(t, models.StatusPending, got.Status)
		assert.Equal(t, submitter, got.SubmitterID)
		require.Len(t, got.Attachments, 1)
		assert.Equal(t, "a.png", got.Attachments[0].OriginalName)
		assert.False(t, got.CreatedAt.IsZero())
	})

	t.Run("get unknown", func(t *testing.T) {
		s := newStore(t)
		_, err := s.GetComplaint(ctx, uuid.NewString())
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = s.GetComplaint(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("list filters and sorts", func(t *testing.T) {
		s := newStore(t)
		a, b := uuid.NewString(), uuid.NewString()
		for _, c := range []*models.Complaint{
			newComplaint(a, "a-urgent", models.CategoryHostel, models.PriorityUrgent),
			newComplaint(a, "a-high", models.CategoryLibrary, models.PriorityHigh),
			newComplaint(b, "b-low", models.CategoryHostel, models.PriorityLow),
			newComplaint(a, "a-medium", models.CategoryHostel, models.PriorityMedium),
		} {
			require.NoError(t, s.CreateComplaint(ctx, c))
		}

		own, err := s.ListComplaints(ctx, ComplaintFilter{SubmitterID: a}, Sort{Field: SortByCreatedAt})
		require.NoError(t, err)
		assert.Equal(t, []string{"a-urgent", "a-high", "a-medium"}, titles(own))

		newest, err := s.ListComplaints(ctx, ComplaintFilter{}, Sort{Field: SortByCreatedAt, Desc: true})
		require.NoError(t, err)
		assert.Equal(t, "a-medium", newest[0].Title)

		byPriority, err := s.ListComplaints(ctx, ComplaintFilter{}, Sort{Field: SortByPriority})
		require.NoError(t, err)
		assert.Equal(t, []string{"a-high", "b-low", "a-medium", "a-urgent"}, titles(byPriority))

		hostel, err := s.ListComplaints(ctx, ComplaintFilter{Category: models.CategoryHostel, Priority: models.PriorityLow}, Sort{})
		require.NoError(t, err)
		assert.Equal(t, []string{"b-low"}, titles(hostel))

		empty, err := s.ListComplaints(ctx, ComplaintFilter{SubmitterID: uuid.NewString()}, Sort{})
		require.NoError(t, err)
		assert.NotNil(t, empty)
		assert.Empty(t, empty)
	})

	t.Run("exclude status", func(t *testing.T) {
		s := newStore(t)
		c := newComplaint(uuid.NewString(), "gone", models.CategoryOthers, models.PriorityLow)
		c.Status = models.StatusWithdrawn
		require.NoError(t, s.CreateComplaint(ctx, c))

		visible, err := s.ListComplaints(ctx, ComplaintFilter{ExcludeStatus: models.StatusWithdrawn}, Sort{})
		require.NoError(t, err)
		assert.Empty(t, visible)

		conflicting, err := s.ListComplaints(ctx, ComplaintFilter{ExcludeStatus: models.StatusWithdrawn, Status: models.StatusWithdrawn}, Sort{})
		require.NoError(t, err)
		assert.Empty(t, conflicting)
	})

	t.Run("conditional update", func(t *testing.T) {
		s := newStore(t)
		c := newComplaint(uuid.NewString(), "t", models.CategoryOthers, models.PriorityLow)
		require.NoError(t, s.CreateComplaint(ctx, c))

		pending, progress := models.StatusPending, models.StatusInProgress
		title := "edited"
		updated, err := s.UpdateComplaint(ctx, c.ID, &pending, ComplaintPatch{
			Title:             &title,
			AppendAttachments: []models.Attachment{{StoredName: uuid.NewString() + ".pdf", OriginalName: "x.pdf"}},
		})
		require.NoError(t, err)
		assert.Equal(t, "edited", updated.Title)
		assert.Len(t, updated.Attachments, 1)

		_, err = s.UpdateComplaint(ctx, c.ID, nil, ComplaintPatch{Status: &progress})
		require.NoError(t, err)

		_, err = s.UpdateComplaint(ctx, c.ID, &pending, ComplaintPatch{Title: &title})
		assert.ErrorIs(t, err, ErrPreconditionFailed)

		_, err = s.UpdateComplaint(ctx, uuid.NewString(), &pending, ComplaintPatch{Title: &title})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("concurrent conditional updates commit once", func(t *testing.T) {
		s := newStore(t)
		c := newComplaint(uuid.NewString(), "race", models.CategoryOthers, models.PriorityLow)
		require.NoError(t, s.CreateComplaint(ctx, c))

		pending, withdrawn := models.StatusPending, models.StatusWithdrawn
		var wg sync.WaitGroup
		results := make(chan error, 2)
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := s.UpdateComplaint(ctx, c.ID, &pending, ComplaintPatch{Status: &withdrawn})
				results <- err
			}()
		}
		wg.Wait()
		close(results)

		var ok, failed int
		for err := range results {
			if err == nil {
				ok++
			} else {
				assert.ErrorIs(t, err, ErrPreconditionFailed)
				failed++
			}
		}
		assert.Equal(t, 1, ok)
		assert.Equal(t, 1, failed)
	})

	t.Run("delete", func(t *testing.T) {
		s := newStore(t)
		c := newComplaint(uuid.NewString(), "t", models.CategoryOthers, models.PriorityLow)
		c.Attachments = []models.Attachment{{StoredName: uuid.NewString() + ".png", OriginalName: "a.png"}}
		require.NoError(t, s.CreateComplaint(ctx, c))

		removed, err := s.DeleteComplaint(ctx, c.ID)
		require.NoError(t, err)
		assert.True(t, removed)

		removed, err = s.DeleteComplaint(ctx, c.ID)
		require.NoError(t, err)
		assert.False(t, removed)

		_, err = s.GetComplaint(ctx, c.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("users", func(t *testing.T) {
		s := newStore(t)
		u := &models.User{Name: "Asha", Email: uuid.NewString() + "@example.edu", Role: models.RoleSubmitter}
		require.NoError(t, s.SaveUser(ctx, u))
		require.NotEmpty(t, u.ID)

		u.Name = "Asha K."
		require.NoError(t, s.SaveUser(ctx, u))

		users, err := s.GetUsersByIDs(ctx, []string{u.ID, uuid.NewString(), "admin"})
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "Asha K.", users[u.ID].Name)
	})
}

func titles(list []models.Complaint) []string {
	out := make([]string, len(list))
	for i, c := range list {
		out[i] = c.Title
	}
	return out
}
