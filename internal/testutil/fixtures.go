// Package testutil provides shared fixtures for backend tests.
package testutil

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
)

func solidImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	return img
}

// PNGBytes returns a valid PNG image of the given dimensions.
func PNGBytes(w, h int) []byte {
	var buf bytes.Buffer
	_ = png.Encode(&buf, solidImage(w, h))
	return buf.Bytes()
}

// JPEGBytes returns a valid JPEG image of the given dimensions.
func JPEGBytes(w, h int) []byte {
	var buf bytes.Buffer
	_ = jpeg.Encode(&buf, solidImage(w, h), nil)
	return buf.Bytes()
}

// GIFBytes returns a valid GIF image of the given dimensions.
func GIFBytes(w, h int) []byte {
	var buf bytes.Buffer
	_ = gif.Encode(&buf, solidImage(w, h), nil)
	return buf.Bytes()
}

// PDFBytes returns bytes that sniff as a PDF document.
func PDFBytes() []byte {
	return []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")
}
