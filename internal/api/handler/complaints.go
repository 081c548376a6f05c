package handler

import (
	"complainthub/backend/internal/complaint"
	"complainthub/backend/internal/config"
	"complainthub/backend/internal/models"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ListComplaints handles GET /api/complaints.
func (h *Handler) ListComplaints(c *gin.Context) {
	var params complaint.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, "Invalid listing parameters")
		return
	}

	list, err := h.Complaints.List(c.Request.Context(), actorFrom(c), params)
	if err != nil {
		h.respondError(c, err)
		return
	}
	users, err := h.Complaints.Submitters(c.Request.Context(), list...)
	if err != nil {
		h.respondError(c, err)
		return
	}

	views := make([]ComplaintView, 0, len(list))
	for _, item := range list {
		views = append(views, h.present(item, users))
	}
	c.JSON(http.StatusOK, views)
}

// GetComplaint handles GET /api/complaints/:id.
func (h *Handler) GetComplaint(c *gin.Context) {
	found, err := h.Complaints.Get(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondComplaint(c, http.StatusOK, found)
}

// CreateComplaint handles POST /api/complaints with a JSON or multipart body.
func (h *Handler) CreateComplaint(c *gin.Context) {
	var in complaint.NewComplaint
	if err := bindBody(c, &in); err != nil {
		if isTooLarge(err) {
			abortTooLarge(c)
			return
		}
		badRequest(c, "Invalid request body")
		return
	}
	uploads, err := uploadsFrom(c)
	if err != nil {
		if isTooLarge(err) {
			abortTooLarge(c)
			return
		}
		badRequest(c, "Invalid multipart form")
		return
	}
	in.Uploads = uploads

	created, err := h.Complaints.Create(c.Request.Context(), actorFrom(c), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondComplaint(c, http.StatusCreated, created)
}

// UpdateComplaint handles PATCH /api/complaints/:id. Managers change status and
// priority; submitters edit content of their pending complaints.
func (h *Handler) UpdateComplaint(c *gin.Context) {
	var req complaint.UpdateRequest
	if err := bindBody(c, &req); err != nil {
		if isTooLarge(err) {
			abortTooLarge(c)
			return
		}
		badRequest(c, "Invalid request body")
		return
	}
	uploads, err := uploadsFrom(c)
	if err != nil {
		if isTooLarge(err) {
			abortTooLarge(c)
			return
		}
		badRequest(c, "Invalid multipart form")
		return
	}
	req.Uploads = uploads

	updated, err := h.Complaints.Update(c.Request.Context(), actorFrom(c), c.Param("id"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondComplaint(c, http.StatusOK, updated)
}

// WithdrawComplaint handles POST /api/complaints/:id/withdraw.
func (h *Handler) WithdrawComplaint(c *gin.Context) {
	withdrawn, err := h.Complaints.Withdraw(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondComplaint(c, http.StatusOK, withdrawn)
}

// DeleteComplaint handles DELETE /api/complaints/:id.
func (h *Handler) DeleteComplaint(c *gin.Context) {
	if err := h.Complaints.Delete(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Complaint deleted successfully"})
}

func (h *Handler) respondComplaint(c *gin.Context, status int, item *models.Complaint) {
	users, err := h.Complaints.Submitters(c.Request.Context(), *item)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(status, h.present(*item, users))
}

// bindBody binds JSON or form bodies. An empty body binds nothing.
func bindBody(c *gin.Context, obj interface{}) error {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return nil
	}
	err := c.ShouldBind(obj)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func uploadsFrom(c *gin.Context) ([]complaint.Upload, error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		return nil, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, err
	}

	files := form.File[config.AttachmentFormField]
	uploads := make([]complaint.Upload, 0, len(files))
	for _, fh := range files {
		uploads = append(uploads, toUpload(fh))
	}
	return uploads, nil
}

func toUpload(fh *multipart.FileHeader) complaint.Upload {
	return complaint.Upload{
		Filename: fh.Filename,
		Size:     fh.Size,
		Open:     func() (io.ReadCloser, error) { return fh.Open() },
	}
}
