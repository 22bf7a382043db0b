package studio

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
)

// Image payloads travel as data URIs (data:image/png;base64,...) so a record
// is fully self-contained without separate binary storage.

// EncodeImage wraps raw image bytes in a data URI, sniffing the MIME type.
func EncodeImage(data []byte) string {
	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		mimeType = "image/png"
	}
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}

// DecodeImage extracts raw bytes and MIME type from an inline image payload.
// Plain base64 without the data: prefix is accepted and treated as PNG.
func DecodeImage(payload string) ([]byte, string, error) {
	mimeType := "image/png"
	b64 := payload

	if strings.HasPrefix(payload, "data:") {
		meta, rest, ok := strings.Cut(payload[len("data:"):], ",")
		if !ok {
			return nil, "", fmt.Errorf("malformed data URI")
		}
		b64 = rest
		if mt := strings.TrimSuffix(meta, ";base64"); mt != "" {
			mimeType = mt
		}
	}

	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, "", fmt.Errorf("decoding image payload: %w", err)
	}
	return data, mimeType, nil
}
