// Package texture decodes image files and uploads them as mesh textures.
package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg" // JPEG decoder registration
	_ "image/png"  // PNG decoder registration
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"  // BMP decoder registration
	_ "golang.org/x/image/tiff" // TIFF decoder registration

	"github.com/Faultbox/rendar/internal/engine/gpu"
	"github.com/Faultbox/rendar/internal/engine/scene"
	"github.com/Faultbox/rendar/internal/logger"
)

// Decode reads an image file. PNG, JPEG, BMP and TIFF are sniffed from the
// content; TGA is recognised by its extension.
func Decode(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if strings.EqualFold(filepath.Ext(path), ".tga") {
		img, err := DecodeTGA(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return img, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// ToRGBA converts img to tightly packed RGBA with the bottom row first, the
// row order glTexImage2D expects.
func ToRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	src, ok := img.(*image.RGBA)
	if !ok || src.Stride != 4*b.Dx() {
		src = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(src, src.Bounds(), img, b.Min, draw.Src)
	}

	w, h := b.Dx(), b.Dy()
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	row := 4 * w
	for y := 0; y < h; y++ {
		copy(out.Pix[(h-1-y)*row:(h-y)*row], src.Pix[y*src.Stride:y*src.Stride+row])
	}
	return out
}

// Upload creates a texture from img. The caller owns the returned texture
// until it is handed to a mesh.
func Upload(dev gpu.Device, img image.Image, typ scene.TextureType) (scene.Texture, error) {
	id, err := dev.CreateTexture()
	if err != nil {
		return scene.Texture{}, err
	}
	rgba := ToRGBA(img)
	dev.TexImage2D(id, int32(rgba.Rect.Dx()), int32(rgba.Rect.Dy()), rgba.Pix)
	return scene.Texture{ID: id, Type: typ}, nil
}

// Load decodes path and uploads it.
func Load(dev gpu.Device, path string, typ scene.TextureType) (scene.Texture, error) {
	img, err := Decode(path)
	if err != nil {
		return scene.Texture{}, err
	}
	tex, err := Upload(dev, img, typ)
	if err != nil {
		return scene.Texture{}, fmt.Errorf("%s: %w", path, err)
	}
	logger.Debug("texture loaded",
		zap.String("path", path),
		zap.Stringer("type", typ),
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()),
	)
	return tex, nil
}
