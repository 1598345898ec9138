package domain

import (
	"image"
	"net/http"
	"time"
)

// Session хранит cookie, выданные сервисом рейтингов при авторизации.
// Живёт в пределах одного прогона и не сохраняется.
type Session struct {
	Cookies  []*http.Cookie
	IssuedAt time.Time
}

// Season описывает рейтинговый сезон.
type Season struct {
	ID string
}

// RankedEntity описывает позицию в рейтинге.
type RankedEntity struct {
	Rank   int
	MonsNo int
	FormNo int
}

// RankingParams задаёт параметры запросов к сервису рейтингов и размер картинок.
type RankingParams struct {
	LanguageID   int
	GenerationID int
	BattleType   int
	RankCount    int
	ImageSize    int
}

// Composite содержит итоговую вертикальную склейку картинок.
type Composite struct {
	Season   Season
	Entities []RankedEntity
	Image    *image.NRGBA
	BuiltAt  time.Time
}

// PublishReceipt возвращается публикатором после успешной загрузки.
type PublishReceipt struct {
	Target string
	PostID string
}

// Publication описывает запись журнала публикаций.
type Publication struct {
	ID          string
	JobID       string
	SeasonID    string
	Entities    []RankedEntity
	Receipts    []PublishReceipt
	Caption     string
	PublishedAt time.Time
}
