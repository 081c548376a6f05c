package complaint

import (
	"bytes"
	"complainthub/backend/internal/logging"
	"complainthub/backend/internal/models"
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mib = 1024 * 1024

// fakeBlobs keeps blobs in memory and can be told to fail the nth Put.
type fakeBlobs struct {
	mu     sync.Mutex
	blobs  map[string][]byte
	failAt int
	puts   int
}

func newFakeBlobs() *fakeBlobs { return &fakeBlobs{blobs: map[string][]byte{}} }

func (f *fakeBlobs) Put(_ context.Context, name string, r io.Reader) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.puts++
	if f.failAt > 0 && f.puts == f.failAt {
		return errors.New("disk full")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.blobs[name] = data
	return nil
}

func (f *fakeBlobs) Remove(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.blobs, name)
	return nil
}

func (f *fakeBlobs) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.blobs)
}

func upload(name string, size int64) Upload {
	return Upload{
		Filename: name,
		Size:     size,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(io.LimitReader(zeroReader{}, size)), nil
		},
	}
}

func contentUpload(name string, data []byte) Upload {
	return Upload{
		Filename: name,
		Size:     int64(len(data)),
		Open:     func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(data)), nil },
	}
}

type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}

func TestAttachmentResolver_Validate(t *testing.T) {
	r := NewAttachmentResolver(newFakeBlobs(), logging.Discard())

	tests := []struct {
		name    string
		uploads []Upload
		wantErr bool
	}{
		{"none", nil, false},
		{"five files of 4 MiB", []Upload{
			upload("a.jpg", 4*mib), upload("b.png", 4*mib), upload("c.pdf", 4*mib),
			upload("d.docx", 4*mib), upload("e.webp", 4*mib),
		}, false},
		{"exactly 5 MiB", []Upload{upload("scan.PDF", 5*mib)}, false},
		{"six files", []Upload{
			upload("1.png", 1), upload("2.png", 1), upload("3.png", 1),
			upload("4.png", 1), upload("5.png", 1), upload("6.png", 1),
		}, true},
		{"executable", []Upload{upload("setup.exe", 10)}, true},
		{"no extension", []Upload{upload("README", 10)}, true},
		{"6 MiB", []Upload{upload("big.jpeg", 6*mib)}, true},
		{"one bad file rejects the batch", []Upload{upload("ok.png", 10), upload("bad.zip", 10)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := r.Validate(tt.uploads)
			if tt.wantErr {
				assert.Equal(t, KindAttachment, KindOf(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStoredName(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	a := StoredName(now, "Photo.JPG")
	b := StoredName(now, "Photo.JPG")

	assert.Regexp(t, regexp.MustCompile(`^1700000000123-[0-9a-f]{12}\.JPG$`), a)
	assert.NotEqual(t, a, b)
}

func TestAttachmentResolver_Resolve(t *testing.T) {
	blobs := newFakeBlobs()
	r := NewAttachmentResolver(blobs, logging.Discard())

	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 4096)...)
	atts, err := r.Resolve(context.Background(), []Upload{
		contentUpload("room.png", png),
		contentUpload("notes.pdf", []byte("%PDF-1.7 body")),
	})
	require.NoError(t, err)
	require.Len(t, atts, 2)
	assert.Equal(t, "room.png", atts[0].OriginalName)
	assert.Equal(t, "notes.pdf", atts[1].OriginalName)
	assert.NotEqual(t, atts[0].StoredName, atts[1].StoredName)

	// The sniffed prefix must be written back in full.
	assert.Equal(t, png, blobs.blobs[atts[0].StoredName])
}

func TestAttachmentResolver_ResolveRejectsBeforeWriting(t *testing.T) {
	blobs := newFakeBlobs()
	r := NewAttachmentResolver(blobs, logging.Discard())

	_, err := r.Resolve(context.Background(), []Upload{upload("a.png", 10), upload("b.exe", 10)})
	assert.Equal(t, KindAttachment, KindOf(err))
	assert.Zero(t, blobs.puts)
}

func TestAttachmentResolver_ResolveCleansUpOnFailure(t *testing.T) {
	blobs := newFakeBlobs()
	blobs.failAt = 3
	r := NewAttachmentResolver(blobs, logging.Discard())

	uploads := make([]Upload, 0, 4)
	for i := 0; i < 4; i++ {
		uploads = append(uploads, upload(fmt.Sprintf("%d.pdf", i), 100))
	}
	atts, err := r.Resolve(context.Background(), uploads)
	assert.Nil(t, atts)
	assert.Equal(t, KindUnexpected, KindOf(err))
	assert.Zero(t, blobs.count())
}

func TestAttachmentResolver_Discard(t *testing.T) {
	blobs := newFakeBlobs()
	r := NewAttachmentResolver(blobs, logging.Discard())
	blobs.blobs["x.png"] = []byte("x")

	r.Discard(context.Background(), []models.Attachment{{StoredName: "x.png"}})
	assert.Zero(t, blobs.count())
}
