package handler

import (
	"complainthub/backend/internal/models"
	"strings"
)

type SubmitterView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type AttachmentView struct {
	StoredName   string `json:"storedName"`
	OriginalName string `json:"originalName"`
	URL          string `json:"url"`
}

// ComplaintView is a complaint as returned to clients: the submitter is expanded and
// every attachment carries its public URL.
type ComplaintView struct {
	models.Complaint
	Submitter   SubmitterView    `json:"submitter"`
	Attachments []AttachmentView `json:"attachments"`
}

func (h *Handler) attachmentURL(storedName string) string {
	return strings.TrimRight(h.URLPrefix, "/") + "/" + storedName
}

func (h *Handler) present(c models.Complaint, users map[string]models.User) ComplaintView {
	view := ComplaintView{
		Complaint:   c,
		Submitter:   SubmitterView{ID: c.SubmitterID},
		Attachments: make([]AttachmentView, 0, len(c.Attachments)),
	}
	if u, ok := users[c.SubmitterID]; ok {
		view.Submitter.Name = u.Name
		view.Submitter.Email = u.Email
	}
	for _, a := range c.Attachments {
		view.Attachments = append(view.Attachments, AttachmentView{
			StoredName:   a.StoredName,
			OriginalName: a.OriginalName,
			URL:          h.attachmentURL(a.StoredName),
		})
	}
	return view
}
