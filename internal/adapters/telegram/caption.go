package telegram

import "strings"

const captionLimit = 1024

// ClipCaption обрезает подпись под лимит Telegram для фото.
// Предпочитает резать по переводу строки, чтобы не рвать строки рейтинга.
func ClipCaption(text string) string {
	trimmed := strings.TrimSpace(text)
	runes := []rune(trimmed)
	if len(runes) <= captionLimit {
		return trimmed
	}

	cut := -1
	for i := captionLimit; i > 0; i-- {
		if runes[i-1] == '\n' {
			cut = i
			break
		}
	}
	if cut == -1 {
		cut = captionLimit
	}
	return strings.TrimRight(string(runes[:cut]), "\n")
}
