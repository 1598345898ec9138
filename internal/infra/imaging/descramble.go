package imaging

import (
	"fmt"
	"image"
	"image/draw"

	"pgl-ranking-bot/internal/domain"
)

// Descramble возвращает картинку с переставленными по диагонали четвертями:
// верх-лево <-> низ-право, верх-право <-> низ-лево. Повторное применение
// восстанавливает исходные байты.
func Descramble(src image.Image) (*image.NRGBA, error) {
	b := src.Bounds()
	size := b.Dx()
	if size == 0 || size != b.Dy() || size%2 != 0 {
		return nil, fmt.Errorf("%w: %dx%d", domain.ErrInvalidImage, b.Dx(), b.Dy())
	}
	in := toNRGBA(src)
	half := size / 2
	out := image.NewNRGBA(image.Rect(0, 0, size, size))
	moves := [...]struct{ from, to image.Point }{
		{image.Pt(0, 0), image.Pt(half, half)},
		{image.Pt(half, 0), image.Pt(0, half)},
		{image.Pt(0, half), image.Pt(half, 0)},
		{image.Pt(half, half), image.Pt(0, 0)},
	}
	for _, m := range moves {
		copyBlock(out, in, m.from, m.to, half, half)
	}
	return out, nil
}

// toNRGBA приводит картинку к NRGBA с началом в (0, 0).
// Для *image.NRGBA пиксели не пересчитываются.
func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok {
		return n
	}
	b := src.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Rect, src, b.Min, draw.Src)
	return out
}

// copyBlock копирует прямоугольник w×h побайтно; координаты from отсчитываются от src.Rect.Min.
func copyBlock(dst, src *image.NRGBA, from, to image.Point, w, h int) {
	rowBytes := w * 4
	for y := 0; y < h; y++ {
		s := src.PixOffset(src.Rect.Min.X+from.X, src.Rect.Min.Y+from.Y+y)
		d := dst.PixOffset(dst.Rect.Min.X+to.X, dst.Rect.Min.Y+to.Y+y)
		copy(dst.Pix[d:d+rowBytes], src.Pix[s:s+rowBytes])
	}
}
