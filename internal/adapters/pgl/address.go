package pgl

import (
	"strconv"
	"strings"
)

const (
	addressMultiplier = 0x159A55E5
	addressMask       = 0xFFFFFF
	// addressMarker даёт ведущую цифру, которая отрезается; токен всегда из 6 символов.
	addressMarker = 0x1000000
)

// EncodeAddress вычисляет токен пути картинки по номеру покемона и номеру формы.
// Схема односторонняя и повторяет именование файлов на CDN.
func EncodeAddress(monsNo, formNo int) string {
	mixed := uint64(monsNo) + uint64(formNo)*0x10000
	product := (addressMultiplier * mixed) & addressMask
	return strconv.FormatUint(addressMarker|product, 16)[1:]
}

// AssetURL подставляет размер и токен в шаблон адреса картинки.
func AssetURL(template string, size int, token string) string {
	return strings.NewReplacer("{size}", strconv.Itoa(size), "{token}", token).Replace(template)
}
