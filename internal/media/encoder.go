package media

import (
	"encoding/base64"
	"fmt"
	"io"
)

// Encoder converts binary media into a text payload. A read failure
// propagates to the caller; there is no retry path.
type Encoder interface {
	Encode(r io.Reader) (string, error)
}

// Base64Encoder implements Encoder with standard base64.
type Base64Encoder struct{}

// Encode reads the media in full and returns its base64 payload.
func (Base64Encoder) Encode(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("encode media: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

var _ Encoder = Base64Encoder{}
