package avatar

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// quadrants returns a 40x20 image: left half red, right half blue.
func quadrants() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 40; x++ {
			c := color.RGBA{R: 255, A: 255}
			if x >= 20 {
				c = color.RGBA{B: 255, A: 255}
			}
			img.Set(x, y, c)
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestParseRect(t *testing.T) {
	r, err := ParseRect("1, 2,30,40")
	require.NoError(t, err)
	assert.Equal(t, Rect{X: 1, Y: 2, W: 30, H: 40}, r)

	for _, s := range []string{"", "1,2,3", "a,b,c,d", "1,2,3,4,5"} {
		_, err := ParseRect(s)
		assert.Error(t, err, s)
	}
}

func TestCrop(t *testing.T) {
	out, err := Crop(quadrants(), Rect{X: 20, Y: 5, W: 10, H: 10})
	require.NoError(t, err)

	assert.Equal(t, image.Rect(0, 0, 10, 10), out.Bounds())
	r, g, b, _ := out.At(0, 0).RGBA()
	assert.Zero(t, r)
	assert.Zero(t, g)
	assert.Equal(t, uint32(0xffff), b)
}

func TestCrop_OutOfBounds(t *testing.T) {
	for _, r := range []Rect{
		{X: 35, Y: 0, W: 10, H: 10},
		{X: 0, Y: 15, W: 10, H: 10},
		{X: -1, Y: 0, W: 5, H: 5},
		{X: 0, Y: 0, W: 0, H: 5},
	} {
		_, err := Crop(quadrants(), r)
		assert.Error(t, err, "%+v", r)
	}
}

func TestPrepare_CropsToJPEG(t *testing.T) {
	up, err := Prepare("me.png", encodePNG(t, quadrants()), &Rect{X: 0, Y: 0, W: 20, H: 20})
	require.NoError(t, err)

	assert.Equal(t, "me.jpg", up.Filename)
	img, err := jpeg.Decode(bytes.NewReader(up.Data))
	require.NoError(t, err)
	assert.Equal(t, 20, img.Bounds().Dx())
	assert.Equal(t, 20, img.Bounds().Dy())
}

func TestPrepare_WithoutCropKeepsBytes(t *testing.T) {
	data := encodePNG(t, quadrants())
	up, err := Prepare("me.png", data, nil)
	require.NoError(t, err)
	assert.Equal(t, "me.png", up.Filename)
	assert.Equal(t, data, up.Data)
}

func TestPrepare_RejectsNonImage(t *testing.T) {
	_, err := Prepare("notes.txt", []byte("hello world"), nil)
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestPrepare_RejectsOversizedDimensions(t *testing.T) {
	wide := encodePNG(t, image.NewGray(image.Rect(0, 0, MaxDimension+1, 1)))
	tall := encodePNG(t, image.NewGray(image.Rect(0, 0, 1, MaxDimension+1)))
	require.Less(t, len(wide), MaxBytes)

	for name, data := range map[string][]byte{"wide": wide, "tall": tall} {
		_, err := Prepare(name+".png", data, &Rect{X: 0, Y: 0, W: 1, H: 1})
		assert.ErrorIs(t, err, ErrTooLarge, name)

		_, err = Prepare(name+".png", data, nil)
		assert.ErrorIs(t, err, ErrTooLarge, name)
	}
}

func TestPrepare_AcceptsMaxDimension(t *testing.T) {
	data := encodePNG(t, image.NewGray(image.Rect(0, 0, MaxDimension, 1)))
	up, err := Prepare("strip.png", data, &Rect{X: 0, Y: 0, W: 1, H: 1})
	require.NoError(t, err)
	assert.Equal(t, "strip.jpg", up.Filename)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "face.png")
	require.NoError(t, os.WriteFile(path, encodePNG(t, quadrants()), 0600))

	up, err := Load(path, &Rect{X: 10, Y: 0, W: 20, H: 20})
	require.NoError(t, err)
	assert.Equal(t, "face.jpg", up.Filename)

	_, err = Load(filepath.Join(t.TempDir(), "missing.png"), nil)
	assert.Error(t, err)
}
