// Package codec turns user-selected files into request-ready payloads.
package codec

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/gabriel-vasile/mimetype"
)

// EncodeBinary reads the file at path and returns its content base64-encoded
// together with the media type sniffed from the content. The result is safe
// to embed in a JSON request payload.
func EncodeBinary(path string) (data, mimeType string, err error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("read %s: %w", path, err)
	}
	return base64.StdEncoding.EncodeToString(raw), mimetype.Detect(raw).String(), nil
}

// ReadText reads the file at path and returns its content as text. No charset
// detection is attempted beyond treating the bytes as UTF-8.
func ReadText(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(raw), nil
}
