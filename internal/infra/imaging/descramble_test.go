package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"math/rand"
	"testing"

	"pgl-ranking-bot/internal/domain"
)

func fillRect(img *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
}

func TestDescrambleSwapsQuadrantsDiagonally(t *testing.T) {
	const size = 8
	half := size / 2
	red := color.NRGBA{R: 255, A: 255}
	green := color.NRGBA{G: 255, A: 255}
	blue := color.NRGBA{B: 255, A: 255}
	white := color.NRGBA{R: 255, G: 255, B: 255, A: 128}

	src := image.NewNRGBA(image.Rect(0, 0, size, size))
	fillRect(src, image.Rect(0, 0, half, half), red)
	fillRect(src, image.Rect(half, 0, size, half), green)
	fillRect(src, image.Rect(0, half, half, size), blue)
	fillRect(src, image.Rect(half, half, size, size), white)

	out, err := Descramble(src)
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}

	checks := []struct {
		name string
		x, y int
		want color.NRGBA
	}{
		{"top-left gets bottom-right", 0, 0, white},
		{"top-right gets bottom-left", size - 1, 0, blue},
		{"bottom-left gets top-right", 0, size - 1, green},
		{"bottom-right gets top-left", size - 1, size - 1, red},
	}
	for _, c := range checks {
		if got := out.NRGBAAt(c.x, c.y); got != c.want {
			t.Fatalf("%s: got %v, want %v", c.name, got, c.want)
		}
	}
}

func TestDescrambleIsInvolution(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, size := range []int{2, 6, 300} {
		src := image.NewNRGBA(image.Rect(0, 0, size, size))
		rng.Read(src.Pix)

		once, err := Descramble(src)
		if err != nil {
			t.Fatalf("не ожидали ошибку: %v", err)
		}
		twice, err := Descramble(once)
		if err != nil {
			t.Fatalf("не ожидали ошибку: %v", err)
		}
		if !bytes.Equal(twice.Pix, src.Pix) {
			t.Fatalf("size %d: двойное применение изменило байты", size)
		}
	}
}

func TestDescrambleHandlesOffsetBounds(t *testing.T) {
	parent := image.NewNRGBA(image.Rect(0, 0, 6, 6))
	fillRect(parent, image.Rect(2, 2, 3, 3), color.NRGBA{R: 9, A: 255})
	sub := parent.SubImage(image.Rect(2, 2, 6, 6))

	out, err := Descramble(sub)
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if got := out.NRGBAAt(2, 2); got.R != 9 {
		t.Fatalf("ожидали пиксель верх-лево в низ-право, получили %v", got)
	}
}

func TestDescrambleRejectsBadGeometry(t *testing.T) {
	for _, r := range []image.Rectangle{
		image.Rect(0, 0, 3, 3),
		image.Rect(0, 0, 4, 6),
		image.Rect(0, 0, 0, 0),
	} {
		_, err := Descramble(image.NewNRGBA(r))
		if !errors.Is(err, domain.ErrInvalidImage) {
			t.Fatalf("%v: ожидали ErrInvalidImage, получили %v", r, err)
		}
	}
}
