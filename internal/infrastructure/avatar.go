package infrastructure

import (
	"bytes"
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

const (
	// MaxAvatarBytes is the upload size ceiling.
	MaxAvatarBytes = 1_000_000
	// AvatarSize is the square dimension every stored avatar is resized to.
	AvatarSize = 250
)

var (
	ErrAvatarTooLarge = errors.New("avatar must be 1MB or smaller")
	ErrAvatarBadType  = errors.New("only jpg, jpeg, and png files are allowed")
)

var allowedAvatarExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// ProcessAvatar validates an uploaded image by extension, size and sniffed
// content, then normalizes it to a 250x250 PNG. A GIF renamed to .png fails
// the content check even though the extension passes.
func ProcessAvatar(filename string, data []byte) ([]byte, error) {
	if !allowedAvatarExtensions[strings.ToLower(filepath.Ext(filename))] {
		return nil, ErrAvatarBadType
	}
	if len(data) > MaxAvatarBytes {
		return nil, ErrAvatarTooLarge
	}

	contentType := http.DetectContentType(data)
	if contentType != "image/jpeg" && contentType != "image/png" {
		return nil, ErrAvatarBadType
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrAvatarBadType
	}

	resized := imaging.Resize(img, AvatarSize, AvatarSize, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
