package avatar

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	// non-square source in a non-JPEG format
	src := image.NewRGBA(image.Rect(0, 0, 640, 480))
	for x := 0; x < 640; x++ {
		for y := 0; y < 480; y++ {
			src.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	out, err := normalize(buf.Bytes())
	require.NoError(t, err)

	img, format, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, thumbnailSize, img.Bounds().Dx())
	assert.Equal(t, thumbnailSize, img.Bounds().Dy())
}

func TestNormalizeRejectsGarbage(t *testing.T) {
	_, err := normalize([]byte("not an image"))
	assert.Error(t, err)
}

func TestConfigObjectKey(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, "avatars/42.jpg", cfg.ObjectKey(42))
}

func TestFallbackURL(t *testing.T) {
	// hash is over the trimmed, lowercased address
	a := FallbackURL(" Alice@Example.COM ", 256)
	b := FallbackURL("alice@example.com", 256)
	assert.Equal(t, a, b)
	assert.Contains(t, a, "s=256")

	// non-positive size falls back to the default
	assert.Contains(t, FallbackURL("alice@example.com", 0), "s=200")
}
