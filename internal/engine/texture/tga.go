package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// TGA image types handled by DecodeTGA.
const (
	tgaTrueColor    = 2
	tgaTrueColorRLE = 10
)

var errTGATruncated = errors.New("tga: data truncated")

// DecodeTGA decodes an uncompressed or RLE compressed true-color TGA, 24 or
// 32 bits per pixel. The image package has no TGA decoder and the format has
// no magic number, so it is dispatched by file extension.
func DecodeTGA(data []byte) (image.Image, error) {
	if len(data) < 18 {
		return nil, errTGATruncated
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	topToBottom := data[17]&0x20 != 0

	if colorMapType != 0 {
		return nil, errors.New("tga: color-mapped images not supported")
	}
	if imageType != tgaTrueColor && imageType != tgaTrueColorRLE {
		return nil, fmt.Errorf("tga: unsupported image type %d", imageType)
	}
	if bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("tga: unsupported bit depth %d", bpp)
	}
	if 18+idLength > len(data) {
		return nil, errTGATruncated
	}

	r := &tgaReader{
		img:         image.NewRGBA(image.Rect(0, 0, width, height)),
		src:         data[18+idLength:],
		bpp:         bpp / 8,
		topToBottom: topToBottom,
	}

	var err error
	if imageType == tgaTrueColor {
		err = r.raw(width * height)
	} else {
		err = r.rle(width * height)
	}
	if err != nil {
		return nil, err
	}
	return r.img, nil
}

type tgaReader struct {
	img         *image.RGBA
	src         []byte
	pos         int
	bpp         int
	next        int // pixels written so far
	topToBottom bool
}

// pixel reads one BGR(A) pixel.
func (r *tgaReader) pixel() (color.RGBA, error) {
	if r.pos+r.bpp > len(r.src) {
		return color.RGBA{}, errTGATruncated
	}
	p := r.src[r.pos : r.pos+r.bpp]
	r.pos += r.bpp
	c := color.RGBA{R: p[2], G: p[1], B: p[0], A: 255}
	if r.bpp == 4 {
		c.A = p[3]
	}
	return c, nil
}

func (r *tgaReader) put(c color.RGBA) {
	w := r.img.Rect.Dx()
	x, y := r.next%w, r.next/w
	if !r.topToBottom {
		y = r.img.Rect.Dy() - 1 - y
	}
	r.img.SetRGBA(x, y, c)
	r.next++
}

func (r *tgaReader) raw(total int) error {
	for r.next < total {
		c, err := r.pixel()
		if err != nil {
			return err
		}
		r.put(c)
	}
	return nil
}

// rle decodes run-length packets. A short stream leaves the rest transparent.
func (r *tgaReader) rle(total int) error {
	for r.next < total && r.pos < len(r.src) {
		header := r.src[r.pos]
		r.pos++
		count := int(header&0x7f) + 1

		if header&0x80 != 0 {
			c, err := r.pixel()
			if err != nil {
				return nil
			}
			for i := 0; i < count && r.next < total; i++ {
				r.put(c)
			}
			continue
		}
		for i := 0; i < count && r.next < total; i++ {
			c, err := r.pixel()
			if err != nil {
				return nil
			}
			r.put(c)
		}
	}
	return nil
}
