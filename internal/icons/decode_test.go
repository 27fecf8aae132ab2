package icons

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 50"><rect width="100" height="50" fill="#336699"/></svg>`

// writeTestICO writes a single-entry ICO with a PNG payload, the layout
// modern favicon files use.
func writeTestICO(t *testing.T, dir string) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 30, G: 60, B: 90, A: 255})
		}
	}
	var payload bytes.Buffer
	require.NoError(t, png.Encode(&payload, img))

	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint16(0))) // reserved
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint16(1))) // type: icon
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint16(1))) // entry count
	buf.Write([]byte{16, 16, 0, 0})                                        // width, height, palette, reserved
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint16(1)))             // planes
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint16(32)))            // bit depth
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint32(payload.Len()))) // payload size
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint32(22)))            // payload offset
	buf.Write(payload.Bytes())

	path := filepath.Join(dir, "icon.ico")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	return path
}

func TestDecodeFile_SVGRasterizedAtTargetSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "icon.svg")
	require.NoError(t, os.WriteFile(path, []byte(testSVG), 0644))

	img, err := decodeFile(path, 64)
	require.NoError(t, err)

	// The 2:1 viewBox fits 64x64 as 64x32.
	assert.Equal(t, 64, img.Width)
	assert.Equal(t, 32, img.Height)

	decoded, err := png.Decode(bytes.NewReader(img.PNG))
	require.NoError(t, err)
	assert.Equal(t, 64, decoded.Bounds().Dx())
	assert.Equal(t, 32, decoded.Bounds().Dy())
}

func TestDecodeFile_SVGWithoutViewBoxFallsBackToSquare(t *testing.T) {
	doc := `<svg xmlns="http://www.w3.org/2000/svg"><circle cx="10" cy="10" r="8" fill="#000"/></svg>`
	path := filepath.Join(t.TempDir(), "icon.svg")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	img, err := decodeFile(path, 48)
	require.NoError(t, err)
	assert.Equal(t, 48, img.Width)
	assert.Equal(t, 48, img.Height)
}

func TestDecodeFile_MalformedSVG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "icon.svg")
	require.NoError(t, os.WriteFile(path, []byte("<svg><unclosed"), 0644))

	_, err := decodeFile(path, 48)
	assert.Error(t, err)
}

func TestDecodeFile_ICO(t *testing.T) {
	path := writeTestICO(t, t.TempDir())

	img, err := decodeFile(path, 16)
	require.NoError(t, err)
	assert.Equal(t, 16, img.Width)
	assert.Equal(t, 16, img.Height)
	assert.NotEmpty(t, img.PNG)
}

func TestDecodeFile_ICOScalesDown(t *testing.T) {
	path := writeTestICO(t, t.TempDir())

	img, err := decodeFile(path, 8)
	require.NoError(t, err)
	assert.Equal(t, 8, img.Width)
	assert.Equal(t, 8, img.Height)
}

func TestCache_SVGSourceThroughGet(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "icon.svg")
	require.NoError(t, os.WriteFile(path, []byte(testSVG), 0644))

	c := New(0, nil)
	img := c.Get(path, 64)
	assert.Equal(t, 64, img.Width)
	assert.Equal(t, int64(1), c.Decodes())
}
