package upload

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"mediagate/internal/config"
)

var (
	ErrMimeNotAllowed = errors.New("mime type not allowed")
	ErrExtNotAllowed  = errors.New("file extension not allowed")
	ErrSizeTooLarge   = errors.New("file size exceeds maximum")
	ErrUnknownURL     = errors.New("url does not belong to the storage domain")
)

type Service struct {
	store    ObjectStore
	cfg      *config.Config
	policies *config.PolicyConfig
}

func NewService(store ObjectStore, cfg *config.Config, policies *config.PolicyConfig) *Service {
	return &Service{
		store:    store,
		cfg:      cfg,
		policies: policies,
	}
}

// PresignUpload validates the request against the folder policy and issues a
// single-use presigned PUT URL. The object name is made globally unique here;
// callers must never construct write URLs themselves.
func (s *Service) PresignUpload(ctx context.Context, req *PresignRequest) (*PresignResponse, error) {
	policy := s.policies.GetFolderPolicy(req.Folder)

	if !s.isMimeAllowed(req.FileType, policy.AllowedMimes) {
		return nil, fmt.Errorf("%w: %s", ErrMimeNotAllowed, req.FileType)
	}

	if !s.isExtAllowed(req.FileName, policy.AllowedExts) {
		return nil, fmt.Errorf("%w: %s", ErrExtNotAllowed, path.Ext(req.FileName))
	}

	if req.SizeBytes > policy.SizeMaxBytes() {
		return nil, fmt.Errorf("%w: %d > %d", ErrSizeTooLarge, req.SizeBytes, policy.SizeMaxBytes())
	}

	objectName := UniqueObjectName(req.FileName)
	key := fmt.Sprintf("%s/%s", req.Folder, objectName)

	uploadURL, err := s.store.PresignPutObject(ctx, key, req.FileType, s.cfg.PresignTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to presign upload: %w", err)
	}

	return &PresignResponse{
		UploadURL: uploadURL,
		FileURL:   s.PublicURL(key),
		FileName:  objectName,
	}, nil
}

// SignURL exchanges a public-style object URL for a time-limited readable
// URL. URLs outside the configured storage domain are rejected.
func (s *Service) SignURL(ctx context.Context, fileURL string) (string, error) {
	key, err := s.KeyForURL(fileURL)
	if err != nil {
		return "", err
	}

	signedURL, err := s.store.PresignGetObject(ctx, key, s.cfg.SignedURLTTL)
	if err != nil {
		return "", fmt.Errorf("failed to presign read: %w", err)
	}

	return signedURL, nil
}

// DeleteObject removes an uploaded object, typically an orphan left behind by
// a cancelled form.
func (s *Service) DeleteObject(ctx context.Context, folder, fileName string) error {
	key := fmt.Sprintf("%s/%s", folder, fileName)
	return s.store.DeleteObject(ctx, key)
}

// PublicURL builds the canonical public-style URL for a bucket key.
func (s *Service) PublicURL(key string) string {
	return fmt.Sprintf("%s/%s", strings.TrimRight(s.cfg.PublicBaseURL, "/"), key)
}

// KeyForURL maps a public-style URL back to its bucket key.
func (s *Service) KeyForURL(fileURL string) (string, error) {
	base := strings.TrimRight(s.cfg.PublicBaseURL, "/")
	if base != "" && strings.HasPrefix(fileURL, base+"/") {
		return strings.TrimPrefix(fileURL, base+"/"), nil
	}

	parsed, err := url.Parse(fileURL)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrUnknownURL, fileURL)
	}

	for _, host := range s.cfg.SignedHosts {
		if parsed.Host == host {
			return strings.TrimPrefix(parsed.Path, "/"), nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrUnknownURL, fileURL)
}

func (s *Service) isMimeAllowed(mime string, allowedMimes []string) bool {
	for _, allowed := range allowedMimes {
		if mime == allowed {
			return true
		}
	}
	return false
}

// isExtAllowed matches the file extension case-insensitively. An empty list
// means the folder does not restrict extensions.
func (s *Service) isExtAllowed(fileName string, allowedExts []string) bool {
	if len(allowedExts) == 0 {
		return true
	}
	ext := strings.ToLower(path.Ext(fileName))
	for _, allowed := range allowedExts {
		if ext == strings.ToLower(allowed) {
			return true
		}
	}
	return false
}

// UniqueObjectName derives a collision-free object name from a display name:
// sanitized base, uuid suffix, original extension.
func UniqueObjectName(fileName string) string {
	ext := path.Ext(fileName)
	if ext == "." {
		ext = ""
	}
	base := sanitizeBaseName(strings.TrimSuffix(fileName, ext))
	if base == "" {
		base = "file"
	}
	return fmt.Sprintf("%s-%s%s", base, uuid.NewString(), strings.ToLower(ext))
}

func sanitizeBaseName(name string) string {
	var builder strings.Builder
	lastDash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			builder.WriteRune(r)
			lastDash = false
		case !lastDash && builder.Len() > 0:
			builder.WriteByte('-')
			lastDash = true
		}
	}
	return strings.Trim(builder.String(), "-")
}
