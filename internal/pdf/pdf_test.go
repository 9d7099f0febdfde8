package pdf

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andaru/escl/model"
	"github.com/andaru/escl/units"
)

func testJPEG(t *testing.T) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 8, 8))
	for i := range img.Pix {
		img.Pix[i] = uint8(i * 4)
	}
	img.Set(0, 0, color.White)
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func TestWrite(t *testing.T) {
	data := testJPEG(t)
	var out bytes.Buffer
	err := Write(&out, []Page{
		{ContentType: "image/jpeg", Data: data, Width: units.Millimeters(210), Height: units.Millimeters(297)},
		{ContentType: "image/jpeg; charset=binary", Data: data, Width: units.Inches(8.5), Height: units.Inches(11)},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out.Bytes(), []byte("%PDF-")))
}

func TestWriteErrors(t *testing.T) {
	a4w, a4h := units.Millimeters(210), units.Millimeters(297)
	for _, tc := range []struct {
		name  string
		pages []Page
		want  string
	}{
		{name: "no pages", want: "no pages"},
		{
			name:  "pdf page",
			pages: []Page{{ContentType: "application/pdf", Data: []byte("%PDF-1.4"), Width: a4w, Height: a4h}},
			want:  `page 1: cannot embed "application/pdf"`,
		},
		{
			name:  "no size",
			pages: []Page{{ContentType: "image/jpeg", Data: testJPEG(t)}},
			want:  "page 1: unknown page size",
		},
		{
			name:  "corrupt",
			pages: []Page{{ContentType: "image/jpeg", Data: []byte("not a jpeg"), Width: a4w, Height: a4h}},
			want:  "page 1",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := Write(&bytes.Buffer{}, tc.pages)
			assert.ErrorContains(t, err, tc.want)
		})
	}
}

func TestSize(t *testing.T) {
	info := &model.ScanImageInfo{ActualWidth: 2550, ActualHeight: 3300}
	w, h, ok := Size(info, 300, 300)
	require.True(t, ok)
	assert.Equal(t, units.Inches(8.5), w)
	assert.Equal(t, units.Inches(11), h)

	_, _, ok = Size(info, 0, 300)
	assert.False(t, ok)
	_, _, ok = Size(nil, 300, 300)
	assert.False(t, ok)
	_, _, ok = Size(&model.ScanImageInfo{}, 300, 300)
	assert.False(t, ok)
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported("image/jpeg"))
	assert.True(t, Supported("IMAGE/PNG"))
	assert.False(t, Supported("application/pdf"))
	assert.False(t, Supported(""))
}
