package preview

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"path"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

// ObjectFetcher reads raw object bytes from the bucket.
type ObjectFetcher interface {
	GetObject(ctx context.Context, key string) ([]byte, error)
}

// Service renders on-the-fly thumbnails of uploaded images. Objects are
// fetched from the bucket, resized to the requested width, and re-encoded
// in the original format.
type Service struct {
	store ObjectFetcher
}

func NewService(store ObjectFetcher) *Service {
	return &Service{store: store}
}

// Render fetches folder/fileName, resizes it to width preserving aspect
// ratio, and encodes it at the given quality. Returns the encoded bytes and
// their content type.
func (s *Service) Render(ctx context.Context, folder, fileName string, width, quality int) ([]byte, string, error) {
	key := fmt.Sprintf("%s/%s", folder, fileName)
	data, err := s.store.GetObject(ctx, key)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get %s: %w", key, err)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode %s: %w", key, err)
	}

	resized := imaging.Resize(img, width, 0, imaging.Lanczos)

	format := encodingFor(fileName)
	var buf bytes.Buffer
	switch format {
	case "png":
		err = png.Encode(&buf, resized)
	case "webp":
		err = webp.Encode(&buf, resized, &webp.Options{Quality: float32(quality)})
	default:
		err = jpeg.Encode(&buf, resized, &jpeg.Options{Quality: quality})
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	return buf.Bytes(), "image/" + format, nil
}

// encodingFor keeps the source format where we have an encoder, falling back
// to jpeg otherwise.
func encodingFor(fileName string) string {
	switch strings.ToLower(path.Ext(fileName)) {
	case ".png":
		return "png"
	case ".webp":
		return "webp"
	default:
		return "jpeg"
	}
}
