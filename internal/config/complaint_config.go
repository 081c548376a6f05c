package config

const (
	// Attachments
	MaxAttachmentSize        = 5 * 1024 * 1024 // bytes, per file
	MaxAttachmentsPerRequest = 5
	AttachmentFormField      = "attachments"

	// MaxRequestBodySize caps complaint write bodies: a full batch of attachments plus form fields.
	MaxRequestBodySize = MaxAttachmentsPerRequest*MaxAttachmentSize + 1024*1024
)

// AllowedAttachmentExtensions is matched case-insensitively against the declared file extension.
var AllowedAttachmentExtensions = map[string]bool{
	"jpeg": true,
	"jpg":  true,
	"png":  true,
	"gif":  true,
	"webp": true,
	"pdf":  true,
	"doc":  true,
	"docx": true,
}
