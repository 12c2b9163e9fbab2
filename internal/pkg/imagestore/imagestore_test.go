package imagestore

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngOf(t *testing.T, w, h int) *bytes.Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &buf
}

func TestNormalizeShrinksLargeImages(t *testing.T) {
	out, err := Normalize(pngOf(t, 3200, 800))
	require.NoError(t, err)

	img, err := imaging.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 1600, img.Bounds().Dx())
	assert.Equal(t, 400, img.Bounds().Dy())
}

func TestNormalizeKeepsSmallImages(t *testing.T) {
	out, err := Normalize(pngOf(t, 300, 200))
	require.NoError(t, err)

	img, format, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 300, img.Bounds().Dx())
}

func TestNormalizeRejectsGarbage(t *testing.T) {
	_, err := Normalize(strings.NewReader("not an image"))
	assert.ErrorIs(t, err, ErrNotAnImage)
}

func TestObjectKeyAndPublicURL(t *testing.T) {
	cfg := &Config{BucketName: "pros", Region: "ca-central-1"}
	key := cfg.ObjectKey(7, KindHero, "abc")
	assert.Equal(t, "companies/7/hero-abc.jpg", key)
	assert.Equal(t, "https://pros.s3.ca-central-1.amazonaws.com/companies/7/hero-abc.jpg", cfg.PublicURL(key))

	cfg.EndpointURL = "https://s3.example.com/"
	assert.Equal(t, "https://s3.example.com/pros/companies/7/hero-abc.jpg", cfg.PublicURL(key))

	cfg.PublicBaseURL = "https://cdn.example.com"
	assert.Equal(t, "https://cdn.example.com/companies/7/hero-abc.jpg", cfg.PublicURL(key))
}

func TestNormalizeDecodesWebP(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 40, 20))
	opts, err := encoder.NewLossyEncoderOptions(encoder.PresetDefault, 80)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, webp.Encode(&buf, src, opts))
	require.True(t, IsWebP(buf.Bytes()))

	out, err := Normalize(&buf)
	require.NoError(t, err)
	img, format, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 40, img.Bounds().Dx())
}

func TestOrientationWithoutExif(t *testing.T) {
	assert.Equal(t, 1, Orientation(pngOf(t, 10, 10).Bytes()))
	assert.Equal(t, 1, Orientation([]byte("RIFF\x00\x00\x00\x00WEBPVP8 ")))
}

func TestApplyOrientationSwapsAxes(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 30, 10))
	for _, o := range []int{5, 6, 7, 8} {
		assert.Equal(t, 10, applyOrientation(img, o).Bounds().Dx(), "orientation %d", o)
	}
	for _, o := range []int{1, 2, 3, 4} {
		assert.Equal(t, 30, applyOrientation(img, o).Bounds().Dx(), "orientation %d", o)
	}
}
