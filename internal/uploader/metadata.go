package uploader

import (
	"strings"

	mp4 "github.com/abema/go-mp4"
	"github.com/rs/zerolog/log"
)

// ExtractMetadata inspects a staged file without any network I/O. Duration
// probing is attempted only for video MIME types; any failure degrades to a
// zero duration because metadata is advisory, not load-bearing.
func ExtractMetadata(f File) Metadata {
	md := Metadata{SizeBytes: f.Size}

	if !strings.HasPrefix(f.ContentType, "video/") {
		return md
	}

	md.DurationSec = probeDuration(f)
	return md
}

func probeDuration(f File) int {
	handle, err := f.Open()
	if err != nil {
		log.Debug().Err(err).Str("file", f.Name).Msg("duration probe skipped")
		return 0
	}
	defer handle.Close()

	info, err := mp4.Probe(handle)
	if err != nil {
		log.Debug().Err(err).Str("file", f.Name).Msg("duration probe failed")
		return 0
	}
	if info.Timescale == 0 {
		return 0
	}

	// Round down to whole seconds.
	return int(info.Duration / uint64(info.Timescale))
}
