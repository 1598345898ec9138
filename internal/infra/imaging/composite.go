package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"pgl-ranking-bot/internal/domain"
)

// Canvas собирает вертикальную склейку квадратных картинок одного размера.
type Canvas struct {
	size  int
	slots int
	img   *image.NRGBA
}

// NewCanvas создаёт прозрачный холст size × (size*slots).
func NewCanvas(size, slots int) *Canvas {
	return &Canvas{
		size:  size,
		slots: slots,
		img:   image.NewNRGBA(image.Rect(0, 0, size, size*slots)),
	}
}

// Paste вставляет картинку в слот index (смещение по вертикали index*size).
func (c *Canvas) Paste(index int, tile image.Image) error {
	if index < 0 || index >= c.slots {
		return fmt.Errorf("slot %d out of range [0, %d)", index, c.slots)
	}
	b := tile.Bounds()
	if b.Dx() != c.size || b.Dy() != c.size {
		return fmt.Errorf("%w: tile %dx%d, expected %dx%d", domain.ErrInvalidImage, b.Dx(), b.Dy(), c.size, c.size)
	}
	copyBlock(c.img, toNRGBA(tile), image.Point{}, image.Pt(0, index*c.size), c.size, c.size)
	return nil
}

// Image возвращает холст.
func (c *Canvas) Image() *image.NRGBA {
	return c.img
}

// EncodePNG кодирует картинку в PNG без потерь.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
