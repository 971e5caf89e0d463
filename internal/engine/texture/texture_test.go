package texture

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"github.com/Faultbox/rendar/internal/engine/gpu/gputest"
	"github.com/Faultbox/rendar/internal/engine/scene"
)

var (
	red  = color.RGBA{R: 255, A: 255}
	blue = color.RGBA{B: 255, A: 255}
)

// twoRows is 2x2 with a red top row and a blue bottom row.
func twoRows() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for x := 0; x < 2; x++ {
		img.SetRGBA(x, 0, red)
		img.SetRGBA(x, 1, blue)
	}
	return img
}

func writeFile(t *testing.T, name string, encode func(*bytes.Buffer) error) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, encode(&buf))
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestToRGBAFlipsRows(t *testing.T) {
	out := ToRGBA(twoRows())

	assert.Equal(t, blue, out.RGBAAt(0, 0))
	assert.Equal(t, red, out.RGBAAt(1, 1))
	assert.Len(t, out.Pix, 16)
}

func TestToRGBAConvertsSubImage(t *testing.T) {
	big := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	big.Set(2, 2, red)
	sub := big.SubImage(image.Rect(2, 2, 3, 3))

	out := ToRGBA(sub)

	assert.Equal(t, image.Rect(0, 0, 1, 1), out.Rect)
	assert.Equal(t, red, out.RGBAAt(0, 0))
}

func TestDecodePNGAndBMP(t *testing.T) {
	pngPath := writeFile(t, "a.png", func(b *bytes.Buffer) error { return png.Encode(b, twoRows()) })
	bmpPath := writeFile(t, "a.bmp", func(b *bytes.Buffer) error { return bmp.Encode(b, twoRows()) })

	for _, path := range []string{pngPath, bmpPath} {
		img, err := Decode(path)
		require.NoError(t, err, path)
		r, _, _, _ := img.At(0, 0).RGBA()
		assert.Equal(t, uint32(0xffff), r, path)
	}
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode(filepath.Join(t.TempDir(), "missing.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	junk := writeFile(t, "junk.png", func(b *bytes.Buffer) error {
		_, err := b.WriteString("not an image")
		return err
	})
	_, err = Decode(junk)
	assert.Error(t, err)
}

func tgaHeader(imageType, bpp, descriptor byte, w, h int) []byte {
	hdr := make([]byte, 18)
	hdr[2] = imageType
	hdr[12], hdr[13] = byte(w), byte(w>>8)
	hdr[14], hdr[15] = byte(h), byte(h>>8)
	hdr[16] = bpp
	hdr[17] = descriptor
	return hdr
}

func TestDecodeTGAUncompressed(t *testing.T) {
	// Bottom-up by default: the first row in the file is the bottom row.
	data := tgaHeader(2, 24, 0, 1, 2)
	data = append(data, 255, 0, 0) // blue, bottom
	data = append(data, 0, 0, 255) // red, top

	img, err := DecodeTGA(data)
	require.NoError(t, err)
	rgba := img.(*image.RGBA)
	assert.Equal(t, red, rgba.RGBAAt(0, 0))
	assert.Equal(t, blue, rgba.RGBAAt(0, 1))
}

func TestDecodeTGARLE(t *testing.T) {
	data := tgaHeader(10, 32, 0x20, 3, 1)
	data = append(data, 0x82, 0, 0, 255, 128) // run of three red pixels, alpha 128

	img, err := DecodeTGA(data)
	require.NoError(t, err)
	rgba := img.(*image.RGBA)
	for x := 0; x < 3; x++ {
		assert.Equal(t, color.RGBA{R: 255, A: 128}, rgba.RGBAAt(x, 0))
	}
}

func TestDecodeTGARejects(t *testing.T) {
	_, err := DecodeTGA([]byte{1, 2, 3})
	assert.Error(t, err)

	_, err = DecodeTGA(tgaHeader(1, 24, 0, 1, 1))
	assert.Error(t, err, "color-mapped type")

	_, err = DecodeTGA(tgaHeader(2, 16, 0, 1, 1))
	assert.Error(t, err, "16 bpp")

	_, err = DecodeTGA(tgaHeader(2, 24, 0, 2, 2))
	assert.ErrorIs(t, err, errTGATruncated)
}

func TestLoadUploads(t *testing.T) {
	path := writeFile(t, "diffuse.png", func(b *bytes.Buffer) error { return png.Encode(b, twoRows()) })
	rec := gputest.New()

	tex, err := Load(rec, path, scene.Specular)
	require.NoError(t, err)

	assert.Equal(t, scene.Specular, tex.Type)
	assert.Equal(t, "texture", rec.Live[tex.ID])
	require.Len(t, rec.Uploads, 1)
	assert.Equal(t, 16, rec.Uploads[0].Size)
}

func TestUploadAllocationFailure(t *testing.T) {
	rec := gputest.New()
	rec.FailAllocations = true

	_, err := Upload(rec, twoRows(), scene.Diffuse)
	assert.Error(t, err)
	assert.Empty(t, rec.Uploads)
}
