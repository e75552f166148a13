// Package imaging decodifica uploads e prepara tensores e previews.
package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	domainerrors "github.com/rafabene/dermacheck-backend/internal/domain/errors"
	"github.com/rafabene/dermacheck-backend/internal/domain/ports"
)

const (
	// InputSize é o lado da imagem esperado pelo classificador
	InputSize = 224
	// PreviewMaxSide é o maior lado permitido no preview devolvido ao cliente
	PreviewMaxSide = 800
	// PreviewQuality é a qualidade JPEG do preview
	PreviewQuality = 75
	// PreviewDataURIPrefix precede o base64 do preview na resposta
	PreviewDataURIPrefix = "data:image/jpeg;base64,"
	// MaxPixels limita largura×altura declaradas no cabeçalho da imagem
	MaxPixels = 89_478_485
)

// Decode decodifica png, jpeg ou webp; qualquer falha vira ErrUnsupportedFormat.
// Imagens acima de MaxPixels são recusadas com ErrFileTooLarge antes de alocar os pixels.
func Decode(data []byte) (image.Image, string, error) {
	return DecodeLimit(data, MaxPixels)
}

// DecodeLimit é como Decode, com limite de pixels explícito
func DecodeLimit(data []byte, maxPixels int64) (image.Image, string, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", domainerrors.ErrUnsupportedFormat, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, "", fmt.Errorf("%w: invalid dimensions %dx%d", domainerrors.ErrUnsupportedFormat, cfg.Width, cfg.Height)
	}
	if pixels := int64(cfg.Width) * int64(cfg.Height); pixels > maxPixels {
		return nil, "", fmt.Errorf("%w: image has %d pixels, limit is %d", domainerrors.ErrFileTooLarge, pixels, maxPixels)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", domainerrors.ErrUnsupportedFormat, err)
	}
	return img, format, nil
}

// ToRGB copia a imagem para um RGBA opaco (descarta alfa sobre fundo preto, como convert('RGB'))
func ToRGB(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.Black, image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return dst
}

// Resize redimensiona para w×h com CatmullRom
func Resize(img image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}

// ToTensor gera o lote [1, size, size, 3] com canais em [0,1]
func ToTensor(img image.Image, size int) ports.Tensor {
	resized := Resize(ToRGB(img), size, size)

	data := make([]float32, 0, size*size*3)
	for y := 0; y < size; y++ {
		row := resized.Pix[y*resized.Stride : y*resized.Stride+size*4]
		for x := 0; x < size; x++ {
			px := row[x*4 : x*4+3]
			data = append(data,
				float32(px[0])/255.0,
				float32(px[1])/255.0,
				float32(px[2])/255.0,
			)
		}
	}

	return ports.Tensor{Shape: []int{1, size, size, 3}, Data: data}
}

// PreviewSize calcula as dimensões do preview mantendo a proporção
func PreviewSize(w, h, maxSide int) (int, int) {
	longest := w
	if h > longest {
		longest = h
	}
	if longest <= maxSide {
		return w, h
	}
	ratio := float64(maxSide) / float64(longest)
	nw, nh := int(float64(w)*ratio), int(float64(h)*ratio)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	return nw, nh
}

// Preview reencoda a imagem como JPEG com o maior lado limitado a maxSide e devolve o base64
func Preview(img image.Image, maxSide int) (string, error) {
	rgb := ToRGB(img)
	w, h := PreviewSize(rgb.Bounds().Dx(), rgb.Bounds().Dy(), maxSide)

	var out image.Image = rgb
	if w != rgb.Bounds().Dx() || h != rgb.Bounds().Dy() {
		out = Resize(rgb, w, h)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: PreviewQuality}); err != nil {
		return "", fmt.Errorf("failed to encode preview: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// DataURI monta o data URI do preview
func DataURI(previewBase64 string) string {
	return PreviewDataURIPrefix + previewBase64
}
