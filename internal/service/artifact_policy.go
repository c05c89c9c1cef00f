package service

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/noah-isme/pentadosen-api/internal/models"
	appErrors "github.com/noah-isme/pentadosen-api/pkg/errors"
)

// ArtifactUpload is a document submitted for a record slot.
type ArtifactUpload struct {
	FileName string
	Size     int64
	Content  io.Reader
}

// ArtifactPolicy validates uploads before they replace a slot.
type ArtifactPolicy struct {
	maxBytes   int64
	extensions map[string]struct{}
	allowed    string
	now        func() time.Time
}

// NewArtifactPolicy builds a policy; empty extensions default to .pdf and .docx.
func NewArtifactPolicy(maxBytes int64, extensions []string) *ArtifactPolicy {
	if maxBytes <= 0 {
		maxBytes = 10 * 1024 * 1024
	}
	if len(extensions) == 0 {
		extensions = []string{".pdf", ".docx"}
	}
	set := make(map[string]struct{}, len(extensions))
	normalised := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[ext] = struct{}{}
		normalised = append(normalised, ext)
	}
	return &ArtifactPolicy{maxBytes: maxBytes, extensions: set, allowed: strings.Join(normalised, ", "), now: time.Now}
}

// MaxBytes returns the upload size limit.
func (p *ArtifactPolicy) MaxBytes() int64 { return p.maxBytes }

// Accept reads and validates upload, returning the artifact to store.
func (p *ArtifactPolicy) Accept(upload ArtifactUpload) (*models.Artifact, error) {
	name := filepath.Base(strings.TrimSpace(upload.FileName))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "file name is required")
	}
	ext := strings.ToLower(filepath.Ext(name))
	if _, ok := p.extensions[ext]; !ok {
		return nil, appErrors.Clone(appErrors.ErrUnsupportedMedia, fmt.Sprintf("only %s files are accepted", p.allowed))
	}
	if upload.Size > p.maxBytes {
		return nil, p.tooLarge()
	}
	if upload.Content == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "file content is required")
	}

	data, err := io.ReadAll(io.LimitReader(upload.Content, p.maxBytes+1))
	if err != nil {
		return nil, appErrors.Internal(err, "failed to read upload")
	}
	if int64(len(data)) > p.maxBytes {
		return nil, p.tooLarge()
	}
	if len(data) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "empty file")
	}

	return &models.Artifact{
		FileName:   name,
		MimeType:   mimetype.Detect(data).String(),
		SizeBytes:  int64(len(data)),
		UploadedAt: p.now().UTC(),
		Content:    data,
	}, nil
}

func (p *ArtifactPolicy) tooLarge() error {
	return appErrors.Clone(appErrors.ErrPayloadTooLarge, fmt.Sprintf("file exceeds %d MB limit", p.maxBytes/(1024*1024)))
}

// downloadable returns a or a not-found error when it has no payload.
func downloadable(a *models.Artifact) (*models.Artifact, error) {
	if !a.HasContent() {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no downloadable document in this slot")
	}
	return a.Clone(), nil
}
