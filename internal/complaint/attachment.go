package complaint

import (
	"bytes"
	"complainthub/backend/internal/config"
	"complainthub/backend/internal/models"
	"complainthub/backend/internal/storage"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// sniffLen is how much of each upload is read to detect its content type.
const sniffLen = 3072

var expectedMIME = map[string]string{
	"jpeg": "image/jpeg",
	"jpg":  "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
	"pdf":  "application/pdf",
	"doc":  "application/msword",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// Upload is one file received with a request.
type Upload struct {
	// Filename is the name declared by the client; its extension is what gets checked.
	Filename string
	Size     int64
	Open     func() (io.ReadCloser, error)
}

// AttachmentResolver validates uploaded files, stores them and produces the
// attachment entries to record on a complaint.
type AttachmentResolver struct {
	Blobs storage.BlobStore
	Log   *logrus.Entry
	Now   func() time.Time
}

func NewAttachmentResolver(blobs storage.BlobStore, logger *logrus.Logger) *AttachmentResolver {
	return &AttachmentResolver{
		Blobs: blobs,
		Log:   logger.WithField("component", "attachments"),
		Now:   time.Now,
	}
}

func declaredExtension(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

// Validate checks the whole batch. Any violation rejects every file.
func (r *AttachmentResolver) Validate(uploads []Upload) error {
	if len(uploads) > config.MaxAttachmentsPerRequest {
		return newAttachmentError(fmt.Sprintf("Too many files: at most %d attachments are allowed", config.MaxAttachmentsPerRequest))
	}
	for _, u := range uploads {
		if !config.AllowedAttachmentExtensions[declaredExtension(u.Filename)] {
			return newAttachmentError("Only images (jpeg, png, gif, webp) and documents (pdf, doc, docx) are allowed")
		}
		if u.Size > config.MaxAttachmentSize {
			return newAttachmentError(fmt.Sprintf("File %s is too large: the limit is %d MB", u.Filename, config.MaxAttachmentSize/(1024*1024)))
		}
	}
	return nil
}

// StoredName returns a unique name for original, keeping its extension.
func StoredName(now time.Time, original string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("%d-%s%s", now.UnixMilli(), suffix, filepath.Ext(original))
}

// Resolve validates uploads and writes them to the blob store. On any failure the
// blobs already written for this batch are removed and nothing is returned.
func (r *AttachmentResolver) Resolve(ctx context.Context, uploads []Upload) ([]models.Attachment, error) {
	if len(uploads) == 0 {
		return nil, nil
	}
	if err := r.Validate(uploads); err != nil {
		return nil, err
	}

	attachments := make([]models.Attachment, 0, len(uploads))
	for _, u := range uploads {
		name := StoredName(r.Now(), u.Filename)
		if err := r.store(ctx, name, u); err != nil {
			r.Discard(ctx, attachments)
			return nil, newUnexpectedError("store attachment", err)
		}
		attachments = append(attachments, models.Attachment{StoredName: name, OriginalName: u.Filename})
	}
	return attachments, nil
}

func (r *AttachmentResolver) store(ctx context.Context, name string, u Upload) error {
	f, err := u.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return err
	}
	head = head[:n]

	ext := declaredExtension(u.Filename)
	detected := mimetype.Detect(head)
	if want := expectedMIME[ext]; want != "" && !detected.Is(want) {
		r.Log.WithFields(logrus.Fields{
			"file":     u.Filename,
			"declared": ext,
			"detected": detected.String(),
		}).Warn("attachment content does not match its extension")
	}

	return r.Blobs.Put(ctx, name, io.MultiReader(bytes.NewReader(head), f))
}

// Discard removes stored blobs for attachments that were never recorded.
func (r *AttachmentResolver) Discard(ctx context.Context, attachments []models.Attachment) {
	for _, a := range attachments {
		if err := r.Blobs.Remove(ctx, a.StoredName); err != nil {
			r.Log.WithError(err).WithField("blob", a.StoredName).Error("failed to remove orphaned attachment")
		}
	}
}
