package imaging

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/rafabene/dermacheck-backend/internal/domain/errors"
)

func solidImage(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
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

func TestDecode(t *testing.T) {
	t.Run("decodifica png", func(t *testing.T) {
		img, format, err := Decode(encodePNG(t, solidImage(10, 5, color.White)))
		require.NoError(t, err)
		assert.Equal(t, "png", format)
		assert.Equal(t, 10, img.Bounds().Dx())
	})

	t.Run("decodifica jpeg", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, jpeg.Encode(&buf, solidImage(8, 8, color.White), nil))

		_, format, err := Decode(buf.Bytes())
		require.NoError(t, err)
		assert.Equal(t, "jpeg", format)
	})

	t.Run("bytes inválidos viram formato não suportado", func(t *testing.T) {
		_, _, err := Decode([]byte("not an image"))
		assert.True(t, errors.Is(err, domainerrors.ErrUnsupportedFormat))
	})
}

// withDeclaredSize reescreve largura e altura do IHDR de um png mantendo o CRC válido
func withDeclaredSize(t *testing.T, data []byte, w, h uint32) []byte {
	t.Helper()
	require.Equal(t, "IHDR", string(data[12:16]))

	out := append([]byte(nil), data...)
	binary.BigEndian.PutUint32(out[16:20], w)
	binary.BigEndian.PutUint32(out[20:24], h)
	binary.BigEndian.PutUint32(out[29:33], crc32.ChecksumIEEE(out[12:29]))
	return out
}

func TestDecodeLimit(t *testing.T) {
	t.Run("cabeçalho com dimensões enormes é recusado sem decodificar", func(t *testing.T) {
		data := withDeclaredSize(t, encodePNG(t, solidImage(4, 4, color.White)), 10000, 10000)

		img, _, err := Decode(data)
		assert.Nil(t, img)
		assert.True(t, errors.Is(err, domainerrors.ErrFileTooLarge), "erro inesperado: %v", err)
	})

	t.Run("limite explícito", func(t *testing.T) {
		data := encodePNG(t, solidImage(10, 5, color.White))

		_, _, err := DecodeLimit(data, 49)
		assert.True(t, errors.Is(err, domainerrors.ErrFileTooLarge))

		img, _, err := DecodeLimit(data, 50)
		require.NoError(t, err)
		assert.Equal(t, 5, img.Bounds().Dy())
	})
}

func TestToTensor(t *testing.T) {
	tensor := ToTensor(solidImage(300, 150, color.RGBA{R: 255, G: 0, B: 51, A: 255}), InputSize)

	assert.Equal(t, []int{1, InputSize, InputSize, 3}, tensor.Shape)
	require.Len(t, tensor.Data, InputSize*InputSize*3)
	assert.InDelta(t, 1.0, tensor.Data[0], 1e-3)
	assert.InDelta(t, 0.0, tensor.Data[1], 1e-3)
	assert.InDelta(t, 0.2, tensor.Data[2], 1e-3)

	for _, v := range tensor.Data {
		if v < 0 || v > 1 {
			t.Fatalf("valor fora de [0,1]: %v", v)
		}
	}
}

func TestToRGBDescartaAlfa(t *testing.T) {
	rgb := ToRGB(solidImage(2, 2, color.RGBA{}))
	r, g, b, a := rgb.At(0, 0).RGBA()
	assert.Equal(t, uint32(0xffff), a)
	assert.Zero(t, r+g+b)
}

func TestPreviewSize(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		wantW, wantH int
	}{
		{"menor que o limite", 640, 480, 640, 480},
		{"paisagem", 1600, 1200, 800, 600},
		{"retrato", 1000, 2000, 400, 800},
		{"exatamente no limite", 800, 200, 800, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := PreviewSize(tt.w, tt.h, PreviewMaxSide)
			assert.Equal(t, tt.wantW, w)
			assert.Equal(t, tt.wantH, h)
		})
	}
}

func TestPreview(t *testing.T) {
	encoded, err := Preview(solidImage(1600, 400, color.White), PreviewMaxSide)
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, 800, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())

	assert.Equal(t, "data:image/jpeg;base64,abc", DataURI("abc"))
}
