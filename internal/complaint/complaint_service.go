// Package complaint is the complaint lifecycle engine: it authorizes every use case,
// validates input, resolves attachments and drives the store through the status
// state machine.
package complaint

import (
	"complainthub/backend/internal/models"
	"complainthub/backend/internal/storage"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// EventPublisher receives lifecycle events after they are committed.
type EventPublisher interface {
	Publish(ctx context.Context, event models.ComplaintEvent) error
}

// Service handles the business logic for complaints.
type Service struct {
	Storage     storage.Storage
	Policy      *Policy
	Attachments *AttachmentResolver
	Events      EventPublisher
	Log         *logrus.Entry
}

// NewService creates a new complaint service. events may be nil.
func NewService(s storage.Storage, policy *Policy, attachments *AttachmentResolver, events EventPublisher, logger *logrus.Logger) *Service {
	return &Service{
		Storage:     s,
		Policy:      policy,
		Attachments: attachments,
		Events:      events,
		Log:         logger.WithField("component", "complaints"),
	}
}

// ContentPatch is a submitter edit. Empty or invalid fields leave the stored value as is.
type ContentPatch struct {
	Title       string   `json:"title" form:"title"`
	Description string   `json:"description" form:"description"`
	Category    string   `json:"category" form:"category"`
	Priority    string   `json:"priority" form:"priority"`
	Uploads     []Upload `json:"-" form:"-"`
}

// ManagerPatch is a manager triage update. Values outside their enums are ignored.
type ManagerPatch struct {
	Status   string `json:"status" form:"status"`
	Priority string `json:"priority" form:"priority"`
}

// UpdateRequest carries every field PATCH accepts; which ones apply depends on the role.
type UpdateRequest struct {
	ContentPatch
	Status string `json:"status" form:"status"`
}

// Create files a new complaint for a submitter. Status always starts as pending.
func (s *Service) Create(ctx context.Context, actor models.Actor, in NewComplaint) (c *models.Complaint, err error) {
	defer func() { observe("create", err) }()

	if !s.Policy.CanPerform(actor, nil, ActionCreate) {
		return nil, errAccessDenied
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	attachments, err := s.Attachments.Resolve(ctx, in.Uploads)
	if err != nil {
		return nil, err
	}
	if attachments == nil {
		attachments = []models.Attachment{}
	}

	c = &models.Complaint{
		Title:       in.Title,
		Description: in.Description,
		Category:    models.Category(in.Category),
		SubmitterID: actor.ID,
		Status:      models.StatusPending,
		Priority:    ResolvePriority(in.Priority, models.PriorityMedium),
		Attachments: attachments,
	}
	if err := s.Storage.CreateComplaint(ctx, c); err != nil {
		s.Attachments.Discard(ctx, attachments)
		return nil, s.storeError("create complaint", err)
	}

	statusTransitions.WithLabelValues(string(c.Status)).Inc()
	s.publish(ctx, models.EventCreated, actor, c)
	return c, nil
}

// List returns the complaints visible to actor, filtered and sorted per params.
func (s *Service) List(ctx context.Context, actor models.Actor, params ListParams) (list []models.Complaint, err error) {
	defer func() { observe("list", err) }()

	filter, sort, err := BuildQuery(s.Policy, actor, params)
	if err != nil {
		return nil, err
	}
	list, err = s.Storage.ListComplaints(ctx, filter, sort)
	if err != nil {
		return nil, s.storeError("list complaints", err)
	}
	return list, nil
}

// Get returns one complaint. Submitters asking for someone else's complaint get not found.
func (s *Service) Get(ctx context.Context, actor models.Actor, id string) (c *models.Complaint, err error) {
	defer func() { observe("get", err) }()

	if !s.Policy.RoleMay(actor, ActionView) {
		return nil, errAccessDenied
	}
	c, err = s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.Policy.CanPerform(actor, c, ActionView) {
		return nil, errNotFound
	}
	return c, nil
}

// Update applies a PATCH: managers triage, submitters edit content.
func (s *Service) Update(ctx context.Context, actor models.Actor, id string, req UpdateRequest) (*models.Complaint, error) {
	switch {
	case s.Policy.RoleMay(actor, ActionManagerUpdate):
		return s.ManagerUpdate(ctx, actor, id, ManagerPatch{Status: req.Status, Priority: req.Priority})
	case s.Policy.RoleMay(actor, ActionEditContent):
		return s.EditContent(ctx, actor, id, req.ContentPatch)
	default:
		observe("update", errAccessDenied)
		return nil, errAccessDenied
	}
}

// EditContent lets the owning submitter change a pending complaint and append files.
// The write is conditional on the status still being pending at write time.
func (s *Service) EditContent(ctx context.Context, actor models.Actor, id string, in ContentPatch) (c *models.Complaint, err error) {
	defer func() { observe("edit", err) }()

	current, err := s.authorizePending(ctx, actor, id, ActionEditContent, errEditNotPending)
	if err != nil {
		return nil, err
	}

	var patch storage.ComplaintPatch
	if v := strings.TrimSpace(in.Title); v != "" {
		patch.Title = &v
	}
	if v := strings.TrimSpace(in.Description); v != "" {
		patch.Description = &v
	}
	if v := models.Category(strings.TrimSpace(in.Category)); v.Valid() {
		patch.Category = &v
	}
	if v := models.Priority(strings.TrimSpace(in.Priority)); v.Valid() {
		patch.Priority = &v
	}

	attachments, err := s.Attachments.Resolve(ctx, in.Uploads)
	if err != nil {
		return nil, err
	}
	patch.AppendAttachments = attachments

	pending := models.StatusPending
	c, err = s.Storage.UpdateComplaint(ctx, current.ID, &pending, patch)
	if err != nil {
		s.Attachments.Discard(ctx, attachments)
		return nil, s.conditionalError("edit complaint", err, errEditNotPending)
	}

	s.publish(ctx, models.EventEdited, actor, c)
	return c, nil
}

// Withdraw moves the owner's pending complaint to withdrawn.
func (s *Service) Withdraw(ctx context.Context, actor models.Actor, id string) (c *models.Complaint, err error) {
	defer func() { observe("withdraw", err) }()

	current, err := s.authorizePending(ctx, actor, id, ActionWithdraw, errWithdrawNotPending)
	if err != nil {
		return nil, err
	}

	pending, withdrawn := models.StatusPending, models.StatusWithdrawn
	c, err = s.Storage.UpdateComplaint(ctx, current.ID, &pending, storage.ComplaintPatch{Status: &withdrawn})
	if err != nil {
		return nil, s.conditionalError("withdraw complaint", err, errWithdrawNotPending)
	}

	statusTransitions.WithLabelValues(string(c.Status)).Inc()
	s.publish(ctx, models.EventWithdrawn, actor, c)
	return c, nil
}

// ManagerUpdate sets status and/or priority from any current state. Only enum
// membership is checked; there is no transition table.
func (s *Service) ManagerUpdate(ctx context.Context, actor models.Actor, id string, in ManagerPatch) (c *models.Complaint, err error) {
	defer func() { observe("manager_update", err) }()

	if !s.Policy.RoleMay(actor, ActionManagerUpdate) {
		return nil, errAccessDenied
	}

	var patch storage.ComplaintPatch
	if v := models.Status(strings.TrimSpace(in.Status)); v.Valid() {
		patch.Status = &v
	}
	if v := models.Priority(strings.TrimSpace(in.Priority)); v.Valid() {
		patch.Priority = &v
	}
	if patch.Status == nil && patch.Priority == nil {
		return s.load(ctx, id)
	}

	c, err = s.Storage.UpdateComplaint(ctx, id, nil, patch)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, errNotFound
	}
	if err != nil {
		return nil, s.storeError("update complaint", err)
	}

	if patch.Status != nil {
		statusTransitions.WithLabelValues(string(c.Status)).Inc()
	}
	s.publish(ctx, models.EventUpdated, actor, c)
	return c, nil
}

// Delete permanently removes a complaint in any status.
func (s *Service) Delete(ctx context.Context, actor models.Actor, id string) (err error) {
	defer func() { observe("delete", err) }()

	if !s.Policy.RoleMay(actor, ActionDelete) {
		return errAccessDenied
	}
	c, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !s.Policy.CanPerform(actor, c, ActionDelete) {
		return errAccessDenied
	}

	removed, err := s.Storage.DeleteComplaint(ctx, id)
	if err != nil {
		return s.storeError("delete complaint", err)
	}
	if !removed {
		return errNotFound
	}

	s.publish(ctx, models.EventDeleted, actor, c)
	return nil
}

// Submitters returns the users who filed the given complaints, keyed by id.
func (s *Service) Submitters(ctx context.Context, complaints ...models.Complaint) (map[string]models.User, error) {
	seen := make(map[string]bool, len(complaints))
	ids := make([]string, 0, len(complaints))
	for _, c := range complaints {
		if !seen[c.SubmitterID] {
			seen[c.SubmitterID] = true
			ids = append(ids, c.SubmitterID)
		}
	}
	users, err := s.Storage.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, s.storeError("load submitters", err)
	}
	return users, nil
}

// Profile returns the stored user behind actor. Actors without a user row get a
// record built from their token.
func (s *Service) Profile(ctx context.Context, actor models.Actor) (*models.User, error) {
	users, err := s.Storage.GetUsersByIDs(ctx, []string{actor.ID})
	if err != nil {
		return nil, s.storeError("load user", err)
	}
	if u, ok := users[actor.ID]; ok {
		return &u, nil
	}
	return &models.User{ID: actor.ID, Role: actor.Role}, nil
}

// authorizePending runs the submitter checks shared by edit and withdraw: role, then
// ownership (reported as not found), then the pending precondition.
func (s *Service) authorizePending(ctx context.Context, actor models.Actor, id string, action Action, notPending *Error) (*models.Complaint, error) {
	if !s.Policy.RoleMay(actor, action) {
		return nil, errAccessDenied
	}
	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.Policy.CanPerform(actor, c, action) {
		return c, nil
	}
	if c.SubmitterID != actor.ID {
		return nil, errNotFound
	}
	return nil, notPending
}

func (s *Service) load(ctx context.Context, id string) (*models.Complaint, error) {
	c, err := s.Storage.GetComplaint(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, errNotFound
	}
	if err != nil {
		return nil, s.storeError("get complaint", err)
	}
	return c, nil
}

func (s *Service) conditionalError(op string, err error, notPending *Error) error {
	switch {
	case errors.Is(err, storage.ErrPreconditionFailed):
		return notPending
	case errors.Is(err, storage.ErrNotFound):
		return errNotFound
	default:
		return s.storeError(op, err)
	}
}

func (s *Service) storeError(op string, err error) error {
	s.Log.WithError(err).WithField("op", op).Error("store operation failed")
	return newUnexpectedError(op, err)
}

func (s *Service) publish(ctx context.Context, kind models.EventType, actor models.Actor, c *models.Complaint) {
	if s.Events == nil {
		return
	}
	event := models.ComplaintEvent{
		Type:        kind,
		ComplaintID: c.ID,
		SubmitterID: c.SubmitterID,
		Title:       c.Title,
		Category:    c.Category,
		Status:      c.Status,
		Priority:    c.Priority,
		ActorID:     actor.ID,
		ActorRole:   actor.Role,
		At:          time.Now().UTC(),
	}
	if err := s.Events.Publish(ctx, event); err != nil {
		s.Log.WithError(err).WithFields(logrus.Fields{
			"event":     kind,
			"complaint": c.ID,
		}).Warn("failed to publish complaint event")
	}
}
