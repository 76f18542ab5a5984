package upload

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"mediagate/internal/config"
)

// MockObjectStore implements ObjectStore for testing
type MockObjectStore struct {
	presignPutFunc func(ctx context.Context, key, contentType string, expires time.Duration) (string, error)
	presignGetFunc func(ctx context.Context, key string, expires time.Duration) (string, error)
	deleteFunc     func(ctx context.Context, key string) error
}

func (m *MockObjectStore) PresignPutObject(ctx context.Context, key, contentType string, expires time.Duration) (string, error) {
	if m.presignPutFunc != nil {
		return m.presignPutFunc(ctx, key, contentType, expires)
	}
	return "https://bucket.s3.test/" + key + "?sig=put", nil
}

func (m *MockObjectStore) PresignGetObject(ctx context.Context, key string, expires time.Duration) (string, error) {
	if m.presignGetFunc != nil {
		return m.presignGetFunc(ctx, key, expires)
	}
	return "https://bucket.s3.test/" + key + "?sig=get", nil
}

func (m *MockObjectStore) DeleteObject(ctx context.Context, key string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, key)
	}
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		PublicBaseURL: "https://bucket.s3.test",
		SignedHosts:   []string{"bucket.s3.test"},
		PresignTTL:    15 * time.Minute,
		SignedURLTTL:  15 * time.Minute,
	}
}

func testPolicies() *config.PolicyConfig {
	return &config.PolicyConfig{
		Folders: map[string]config.FolderPolicy{
			"videos": {
				AllowedMimes: []string{"video/mp4", "video/webm"},
				AllowedExts:  []string{".mp4", ".webm"},
				SizeMaxMB:    2048,
			},
			"images": {
				AllowedMimes: []string{"image/jpeg", "image/png"},
				AllowedExts:  []string{".jpg", ".jpeg", ".png"},
				SizeMaxMB:    25,
			},
		},
	}
}

func TestService_PresignUpload(t *testing.T) {
	tests := []struct {
		name        string
		req         PresignRequest
		expectedErr error
	}{
		{
			name: "Allowed video upload",
			req:  PresignRequest{Folder: "videos", FileName: "intro.mp4", FileType: "video/mp4", SizeBytes: 5 * 1024 * 1024},
		},
		{
			name:        "MIME not allowed for folder",
			req:         PresignRequest{Folder: "videos", FileName: "doc.pdf", FileType: "application/pdf", SizeBytes: 1024},
			expectedErr: ErrMimeNotAllowed,
		},
		{
			name:        "Extension not allowed for folder",
			req:         PresignRequest{Folder: "videos", FileName: "clip.mov", FileType: "video/mp4", SizeBytes: 1024},
			expectedErr: ErrExtNotAllowed,
		},
		{
			name: "Uppercase extension allowed",
			req:  PresignRequest{Folder: "videos", FileName: "INTRO.MP4", FileType: "video/mp4", SizeBytes: 1024},
		},
		{
			name:        "File too large",
			req:         PresignRequest{Folder: "images", FileName: "big.png", FileType: "image/png", SizeBytes: 26 * 1024 * 1024},
			expectedErr: ErrSizeTooLarge,
		},
		{
			name: "Size exactly at the limit",
			req:  PresignRequest{Folder: "images", FileName: "edge.png", FileType: "image/png", SizeBytes: 25 * 1024 * 1024},
		},
	}

	service := NewService(&MockObjectStore{}, testConfig(), testPolicies())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := service.PresignUpload(context.Background(), &tt.req)

			if tt.expectedErr != nil {
				if !errors.Is(err, tt.expectedErr) {
					t.Fatalf("Expected error %v, got %v", tt.expectedErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if resp.UploadURL == "" {
				t.Error("Expected a non-empty upload URL")
			}
			if !strings.HasPrefix(resp.FileURL, "https://bucket.s3.test/"+tt.req.Folder+"/") {
				t.Errorf("Unexpected file URL: %s", resp.FileURL)
			}
			if !strings.HasSuffix(resp.FileURL, "/"+resp.FileName) {
				t.Errorf("File URL %s should end with object name %s", resp.FileURL, resp.FileName)
			}
		})
	}
}

func TestService_PresignUpload_UniqueNames(t *testing.T) {
	service := NewService(&MockObjectStore{}, testConfig(), testPolicies())

	req := PresignRequest{Folder: "videos", FileName: "intro.mp4", FileType: "video/mp4", SizeBytes: 1024}

	first, err := service.PresignUpload(context.Background(), &req)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	second, err := service.PresignUpload(context.Background(), &req)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if first.FileName == second.FileName {
		t.Errorf("Expected unique object names, got %s twice", first.FileName)
	}
	if !strings.HasPrefix(first.FileName, "intro-") || !strings.HasSuffix(first.FileName, ".mp4") {
		t.Errorf("Object name should keep base and extension: %s", first.FileName)
	}
}

func TestService_SignURL(t *testing.T) {
	tests := []struct {
		name        string
		fileURL     string
		expectedKey string
		expectedErr error
	}{
		{
			name:        "Storage URL by base prefix",
			fileURL:     "https://bucket.s3.test/videos/intro-abc.mp4",
			expectedKey: "videos/intro-abc.mp4",
		},
		{
			name:        "External URL rejected",
			fileURL:     "https://example.com/videos/intro-abc.mp4",
			expectedErr: ErrUnknownURL,
		},
		{
			name:        "Garbage URL rejected",
			fileURL:     "not a url at all ://",
			expectedErr: ErrUnknownURL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotKey string
			store := &MockObjectStore{
				presignGetFunc: func(ctx context.Context, key string, expires time.Duration) (string, error) {
					gotKey = key
					return "https://bucket.s3.test/" + key + "?sig=get", nil
				},
			}
			service := NewService(store, testConfig(), testPolicies())

			signedURL, err := service.SignURL(context.Background(), tt.fileURL)

			if tt.expectedErr != nil {
				if !errors.Is(err, tt.expectedErr) {
					t.Fatalf("Expected error %v, got %v", tt.expectedErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if gotKey != tt.expectedKey {
				t.Errorf("Expected key %s, got %s", tt.expectedKey, gotKey)
			}
			if !strings.Contains(signedURL, "?sig=get") {
				t.Errorf("Expected signed URL, got %s", signedURL)
			}
		})
	}
}

func TestService_DeleteObject(t *testing.T) {
	var gotKey string
	store := &MockObjectStore{
		deleteFunc: func(ctx context.Context, key string) error {
			gotKey = key
			return nil
		},
	}
	service := NewService(store, testConfig(), testPolicies())

	if err := service.DeleteObject(context.Background(), "videos", "intro-abc.mp4"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if gotKey != "videos/intro-abc.mp4" {
		t.Errorf("Expected key videos/intro-abc.mp4, got %s", gotKey)
	}
}

func TestUniqueObjectName_Sanitization(t *testing.T) {
	tests := []struct {
		fileName string
		prefix   string
		suffix   string
	}{
		{"My Video (final).MP4", "my-video-final-", ".mp4"},
		{"élan vital.mp4", "élan-vital-", ".mp4"},
		{"...", "file-", ""},
		{"café.PNG", "café-", ".png"},
	}

	for _, tt := range tests {
		t.Run(tt.fileName, func(t *testing.T) {
			got := UniqueObjectName(tt.fileName)
			if !strings.HasPrefix(got, tt.prefix) {
				t.Errorf("UniqueObjectName(%s) = %s, expected prefix %s", tt.fileName, got, tt.prefix)
			}
			if !strings.HasSuffix(got, tt.suffix) {
				t.Errorf("UniqueObjectName(%s) = %s, expected suffix %s", tt.fileName, got, tt.suffix)
			}
		})
	}
}
