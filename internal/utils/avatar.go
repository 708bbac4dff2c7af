package utils

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
)

// MaxAvatarBytes is the ceiling for decoded avatar payloads (1 MiB).
const MaxAvatarBytes = 1 << 20

// Avatar decode/validation errors.  Handlers translate these into 400 or
// 415 responses.
var (
	ErrAvatarFormat   = errors.New("avatar must be a base64 data URI (image/jpeg or image/png)")
	ErrAvatarTooLarge = errors.New("avatar exceeds the 1 MiB size limit")
)

// DecodeAvatar parses a base64 data URI of the form
// "data:image/jpeg;base64,..." or "data:image/png;base64,..." and returns
// the raw bytes plus the MIME type.  The declared type must be on the
// JPEG/PNG allow-list and must agree with what the payload actually looks
// like; the decoded size must stay under MaxAvatarBytes.
func DecodeAvatar(dataURI string) ([]byte, string, error) {
	rest, ok := strings.CutPrefix(dataURI, "data:")
	if !ok {
		return nil, "", ErrAvatarFormat
	}
	mime, b64, ok := strings.Cut(rest, ";base64,")
	if !ok {
		return nil, "", ErrAvatarFormat
	}
	if mime != "image/jpeg" && mime != "image/png" {
		return nil, "", ErrAvatarFormat
	}
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, "", ErrAvatarFormat
	}
	if len(data) > MaxAvatarBytes {
		return nil, "", ErrAvatarTooLarge
	}
	// The declared type is not trusted: sniff the payload as well.
	if http.DetectContentType(data) != mime {
		return nil, "", ErrAvatarFormat
	}
	return data, mime, nil
}
