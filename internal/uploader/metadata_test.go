package uploader

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mp4Box renders one ISO BMFF box.
func mp4Box(boxType string, payload []byte) []byte {
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.BigEndian, uint32(8+len(payload)))
	buf.WriteString(boxType)
	buf.Write(payload)
	return buf.Bytes()
}

// buildMP4 produces a minimal playable-looking MP4 header: ftyp plus a moov
// whose mvhd carries the given timescale and duration. If totalSize exceeds
// the header, an mdat box pads the file to exactly totalSize bytes.
func buildMP4(t *testing.T, timescale, duration uint32, totalSize int) []byte {
	t.Helper()

	ftyp := make([]byte, 8)
	copy(ftyp[0:4], "isom")

	mvhd := make([]byte, 100)
	binary.BigEndian.PutUint32(mvhd[12:16], timescale)
	binary.BigEndian.PutUint32(mvhd[16:20], duration)
	binary.BigEndian.PutUint32(mvhd[20:24], 0x00010000) // rate 1.0
	binary.BigEndian.PutUint16(mvhd[24:26], 0x0100)     // volume 1.0
	binary.BigEndian.PutUint32(mvhd[36:40], 0x00010000) // identity matrix
	binary.BigEndian.PutUint32(mvhd[52:56], 0x00010000)
	binary.BigEndian.PutUint32(mvhd[68:72], 0x40000000)
	binary.BigEndian.PutUint32(mvhd[96:100], 2) // next track ID

	data := append(mp4Box("ftyp", ftyp), mp4Box("moov", mp4Box("mvhd", mvhd))...)

	if totalSize > len(data)+8 {
		data = append(data, mp4Box("mdat", make([]byte, totalSize-len(data)-8))...)
	}
	require.True(t, totalSize == 0 || len(data) == totalSize, "padding math")

	return data
}

func TestExtractMetadata_Video(t *testing.T) {
	data := buildMP4(t, 1000, 42500, 0)
	f := FromBytes("clip.mp4", "video/mp4", data)

	md := ExtractMetadata(f)

	assert.Equal(t, int64(len(data)), md.SizeBytes)
	assert.Equal(t, 42, md.DurationSec, "duration rounds down to whole seconds")
}

func TestExtractMetadata_NonVideoNeverProbes(t *testing.T) {
	opened := false
	f := File{
		Name:        "summary.pdf",
		ContentType: "application/pdf",
		Size:        1024,
		Open: func() (io.ReadSeekCloser, error) {
			opened = true
			return nopSeekCloser{bytes.NewReader(nil)}, nil
		},
	}

	md := ExtractMetadata(f)

	assert.False(t, opened, "non-video files must not be opened for probing")
	assert.Equal(t, int64(1024), md.SizeBytes)
	assert.Equal(t, 0, md.DurationSec)
}

func TestExtractMetadata_CorruptVideoSoftFails(t *testing.T) {
	f := FromBytes("broken.mp4", "video/mp4", []byte("definitely not an mp4"))

	md := ExtractMetadata(f)

	assert.Equal(t, int64(21), md.SizeBytes)
	assert.Equal(t, 0, md.DurationSec)
}

func TestExtractMetadata_OpenFailureSoftFails(t *testing.T) {
	f := File{
		Name:        "gone.mp4",
		ContentType: "video/mp4",
		Size:        99,
		Open: func() (io.ReadSeekCloser, error) {
			return nil, io.ErrUnexpectedEOF
		},
	}

	md := ExtractMetadata(f)

	assert.Equal(t, int64(99), md.SizeBytes)
	assert.Equal(t, 0, md.DurationSec)
}

func TestExtractMetadata_ZeroTimescale(t *testing.T) {
	f := FromBytes("odd.mp4", "video/mp4", buildMP4(t, 0, 42500, 0))

	md := ExtractMetadata(f)

	assert.Equal(t, 0, md.DurationSec)
}
