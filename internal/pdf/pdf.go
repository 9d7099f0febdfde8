// Package pdf combines scanned pages into a single PDF document.
package pdf

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"

	"github.com/andaru/escl/model"
	"github.com/andaru/escl/units"
)

// Page is one scanned page.
type Page struct {
	ContentType string
	Data        []byte
	Width       units.Length
	Height      units.Length
}

var imageTypes = map[string]string{
	"image/jpeg": "JPEG",
	"image/jpg":  "JPEG",
	"image/png":  "PNG",
}

// Supported reports whether pages of contentType can be embedded.
func Supported(contentType string) bool {
	_, ok := imageType(contentType)
	return ok
}

func imageType(contentType string) (string, bool) {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", false
	}
	t, ok := imageTypes[strings.ToLower(mt)]
	return t, ok
}

// Size returns the physical size of a page from its image info and the
// resolution it was scanned at. ok is false if either is unknown.
func Size(info *model.ScanImageInfo, xres, yres uint) (width, height units.Length, ok bool) {
	if info == nil || xres == 0 || yres == 0 || info.ActualWidth == 0 || info.ActualHeight == 0 {
		return nil, nil, false
	}
	width = units.Inches(float64(info.ActualWidth) / float64(xres))
	height = units.Inches(float64(info.ActualHeight) / float64(yres))
	return width, height, true
}

// Write writes pages to w as a PDF with one page per image, each sized
// to the page's Width and Height.
func Write(w io.Writer, pages []Page) error {
	if len(pages) == 0 {
		return errors.New("no pages to write")
	}
	doc := fpdf.New("P", "mm", "", "")
	doc.SetAutoPageBreak(false, 0)
	for i, p := range pages {
		typ, ok := imageType(p.ContentType)
		if !ok {
			return errors.Errorf("page %d: cannot embed %q", i+1, p.ContentType)
		}
		if p.Width == nil || p.Height == nil {
			return errors.Errorf("page %d: unknown page size", i+1)
		}
		wd := float64(p.Width.Millimeters())
		ht := float64(p.Height.Millimeters())
		doc.AddPageFormat("P", fpdf.SizeType{Wd: wd, Ht: ht})

		name := fmt.Sprintf("page%d", i)
		doc.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: typ}, bytes.NewReader(p.Data))
		doc.ImageOptions(name, 0, 0, wd, ht, false, fpdf.ImageOptions{}, 0, "")
		if err := doc.Error(); err != nil {
			return errors.Wrapf(err, "page %d", i+1)
		}
	}
	return errors.Wrap(doc.Output(w), "generate PDF")
}
