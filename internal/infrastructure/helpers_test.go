package infrastructure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/e"
)

func TestGetExtensionFromMIME(t *testing.T) {
	cases := map[string]string{
		"image/jpeg": "jpg",
		"image/jpg":  "jpg",
		"image/png":  "png",
		"image/webp": "webp",
	}
	for mime, ext := range cases {
		got, err := GetExtensionFromMIME(mime)
		assert.NoError(t, err, mime)
		assert.Equal(t, ext, got, mime)
	}

	_, err := GetExtensionFromMIME("image/gif")
	assert.ErrorIs(t, err, e.ErrUnsupportedMediaType)
	assert.False(t, IsSupportedImage("application/pdf"))
}
