package llm

import (
	"encoding/base64"
	"fmt"
	"io"
)

// ImagePayload holds raw image bytes alongside the MIME type reported
// by the caller. Payloads are transient per-request state; nothing in
// the pipeline persists them.
type ImagePayload struct {
	Data []byte
	MIME string
}

// NewImagePayload reads the full stream into a payload. If r is
// seekable it is rewound first, so a previous partial read cannot leave
// the offset mid-stream.
func NewImagePayload(r io.Reader, mimeType string) (*ImagePayload, error) {
	if s, ok := r.(io.Seeker); ok {
		if _, err := s.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("failed to rewind image stream: %w", err)
		}
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return &ImagePayload{Data: data, MIME: mimeType}, nil
}

func (p *ImagePayload) Empty() bool { return p == nil || len(p.Data) == 0 }

// Base64 returns the standard base64 encoding of the image bytes, or
// the empty string for an empty payload (treated as "no image").
func (p *ImagePayload) Base64() string {
	if p.Empty() {
		return ""
	}
	return base64.StdEncoding.EncodeToString(p.Data)
}

// DataURL returns the image as an inline data URL suitable for
// OpenAI-style image_url message parts.
func (p *ImagePayload) DataURL() string {
	if p.Empty() {
		return ""
	}
	return fmt.Sprintf("data:%s;base64,%s", p.MIME, p.Base64())
}
