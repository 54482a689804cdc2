package storage

import (
	"bytes"
	"image"
	"image/jpeg"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memFile struct {
	*bytes.Reader
}

func (memFile) Close() error { return nil }

func encodeJPEG(t *testing.T, width, height int) memFile {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}))
	return memFile{bytes.NewReader(buf.Bytes())}
}

func TestProcessImageDownscalesWideUploads(t *testing.T) {
	buf, contentType, err := processImage(encodeJPEG(t, 3000, 1000))
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", contentType)

	stored, _, err := image.Decode(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, MaxImageWidth, stored.Bounds().Dx())
	assert.Equal(t, 640, stored.Bounds().Dy())
}

func TestProcessImageKeepsSmallUploads(t *testing.T) {
	buf, contentType, err := processImage(encodeJPEG(t, 800, 600))
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", contentType)

	stored, _, err := image.Decode(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 800, stored.Bounds().Dx())
	assert.Equal(t, 600, stored.Bounds().Dy())
}

func TestProcessImageRejectsNonImages(t *testing.T) {
	_, _, err := processImage(memFile{bytes.NewReader([]byte("not an image"))})
	assert.Error(t, err)
}
