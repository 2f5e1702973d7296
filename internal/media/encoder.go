package media

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"time"

	_ "image/gif"
	_ "image/png"

	xdraw "golang.org/x/image/draw"
)

const (
	// MaxPayloadBytes is the ceiling for raw photo input and for the final
	// encoded audio payload.
	MaxPayloadBytes = 10 * 1024 * 1024

	// MaxImageWidth is the width captured photos are downscaled to.
	MaxImageWidth = 800

	// JPEGQuality is the lossy re-encode quality for photos.
	JPEGQuality = 60

	// MaxAudioDuration is the recording bound; longer recordings are cut at
	// this boundary.
	MaxAudioDuration = 180 * time.Second
)

var (
	// ErrTooLarge is returned when a payload exceeds MaxPayloadBytes.
	ErrTooLarge = errors.New("media: payload exceeds size limit")

	// ErrDecode is returned when input bytes are not a supported format.
	ErrDecode = errors.New("media: unsupported or corrupt input")
)

// Payload is a self-describing encoded media payload ready for upload.
type Payload struct {
	Data        []byte
	ContentType string
	Ext         string
}

// EncodeImage re-encodes raw captured image bytes (JPEG, PNG or GIF) into a
// size-bounded JPEG: input larger than 10MB is rejected, the image is
// downscaled so its width does not exceed 800px preserving aspect ratio, and
// re-encoded at quality 60. No network I/O.
func EncodeImage(raw []byte) (*Payload, error) {
	if len(raw) > MaxPayloadBytes {
		return nil, fmt.Errorf("%w: image is %d bytes", ErrTooLarge, len(raw))
	}

	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	bounds := src.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if width > MaxImageWidth {
		ratio := float64(MaxImageWidth) / float64(width)
		height = int(float64(height) * ratio)
		if height < 1 {
			height = 1
		}
		width = MaxImageWidth

		dst := image.NewRGBA(image.Rect(0, 0, width, height))
		xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
		src = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("media: jpeg encode: %w", err)
	}

	return &Payload{
		Data:        buf.Bytes(),
		ContentType: "image/jpeg",
		Ext:         ".jpg",
	}, nil
}

// EncodeAudio validates a captured WAV recording and bounds it to 180 seconds:
// recordings longer than the bound are cut at the boundary (the data chunk is
// truncated on a sample-frame edge and the headers patched). The final payload
// is rejected if it exceeds 10MB; on rejection the caller proceeds as if no
// audio was attached. No network I/O.
func EncodeAudio(raw []byte) (*Payload, error) {
	w, err := parseWAV(raw)
	if err != nil {
		return nil, err
	}

	out := raw
	maxData := int(uint64(w.byteRate) * uint64(MaxAudioDuration/time.Second))
	if w.blockAlign > 0 {
		maxData -= maxData % int(w.blockAlign)
	}

	if w.dataLen > maxData {
		out = truncateWAV(raw, w, maxData)
	}

	if len(out) > MaxPayloadBytes {
		return nil, fmt.Errorf("%w: audio is %d bytes", ErrTooLarge, len(out))
	}

	return &Payload{
		Data:        out,
		ContentType: "audio/wav",
		Ext:         ".wav",
	}, nil
}

type wavInfo struct {
	byteRate   uint32
	blockAlign uint16
	dataStart  int // offset of the data chunk payload
	dataLen    int
}

func parseWAV(raw []byte) (wavInfo, error) {
	var w wavInfo
	if len(raw) < 44 || string(raw[0:4]) != "RIFF" || string(raw[8:12]) != "WAVE" {
		return w, fmt.Errorf("%w: not a RIFF/WAVE stream", ErrDecode)
	}

	offset := 12
	haveFmt := false
	for offset+8 <= len(raw) {
		id := string(raw[offset : offset+4])
		size := int(binary.LittleEndian.Uint32(raw[offset+4 : offset+8]))
		body := offset + 8
		if size < 0 || body+size > len(raw) {
			return w, fmt.Errorf("%w: chunk %q overruns stream", ErrDecode, id)
		}

		switch id {
		case "fmt ":
			if size < 16 {
				return w, fmt.Errorf("%w: short fmt chunk", ErrDecode)
			}
			w.byteRate = binary.LittleEndian.Uint32(raw[body+8 : body+12])
			w.blockAlign = binary.LittleEndian.Uint16(raw[body+12 : body+14])
			haveFmt = true
		case "data":
			w.dataStart = body
			w.dataLen = size
			if !haveFmt || w.byteRate == 0 {
				return w, fmt.Errorf("%w: data chunk before valid fmt chunk", ErrDecode)
			}
			return w, nil
		}

		// Chunks are word-aligned.
		offset = body + size
		if size%2 == 1 {
			offset++
		}
	}

	return w, fmt.Errorf("%w: missing data chunk", ErrDecode)
}

// truncateWAV cuts the data chunk at maxData bytes and rewrites the RIFF and
// data chunk sizes. Trailing chunks after data are dropped.
func truncateWAV(raw []byte, w wavInfo, maxData int) []byte {
	out := make([]byte, w.dataStart+maxData)
	copy(out, raw[:w.dataStart+maxData])
	binary.LittleEndian.PutUint32(out[4:8], uint32(len(out)-8))
	binary.LittleEndian.PutUint32(out[w.dataStart-4:w.dataStart], uint32(maxData))
	return out
}

// Duration reports the playable length of a WAV payload. Used by tests and
// the digest stats; returns zero on malformed input.
func Duration(raw []byte) time.Duration {
	w, err := parseWAV(raw)
	if err != nil || w.byteRate == 0 {
		return 0
	}
	return time.Duration(float64(w.dataLen) / float64(w.byteRate) * float64(time.Second))
}
