package config

import (
	"log"
	"time"

	"github.com/kelseyhightower/envconfig"

	"pgl-ranking-bot/internal/domain"
)

// AppConfig описывает конфигурацию сервисов.
type AppConfig struct {
	AppEnv      string `envconfig:"APP_ENV" default:"dev"`
	TZ          string `envconfig:"TZ" default:"Asia/Tokyo"`
	Port        int    `envconfig:"PORT" default:"8080"`
	MetricsAddr string `envconfig:"METRICS_ADDR" default:":9090"`

	PGL struct {
		LanguageID    int           `envconfig:"PGL_LANGUAGE_ID" default:"1"`
		GenerationID  int           `envconfig:"PGL_GENERATION_ID" default:"4"`
		BattleType    int           `envconfig:"PGL_BATTLE_TYPE" default:"2"`
		RankCount     int           `envconfig:"PGL_RANK_COUNT" default:"10"`
		ImageSize     int           `envconfig:"PGL_IMAGE_SIZE" default:"300"`
		LoginURL      string        `envconfig:"PGL_LOGIN_URL" default:"https://3ds.pokemon-gl.com/frontendApi/getLoginStatus"`
		SeasonURL     string        `envconfig:"PGL_SEASON_URL" default:"https://3ds-sp.pokemon-gl.com/frontendApi/gbu/getSeason"`
		RankingURL    string        `envconfig:"PGL_RANKING_URL" default:"https://3ds-sp.pokemon-gl.com/frontendApi/gbu/getSeasonPokemon"`
		Referer       string        `envconfig:"PGL_REFERER" default:"https://3ds-sp.pokemon-gl.com/"`
		AssetTemplate string        `envconfig:"PGL_ASSET_TEMPLATE" default:"https://n-3ds-pgl-contents.pokemon-gl.com/share/images/pokemon/{size}/{token}.png"`
		Timeout       time.Duration `envconfig:"PGL_TIMEOUT" default:"20s"`
	} `envconfig:""`

	Weibo struct {
		AccessToken string `envconfig:"WEIBO_ACCESS_TOKEN"`
		ShareURL    string `envconfig:"WEIBO_SHARE_URL" default:"https://api.weibo.com/2/statuses/share.json"`
	} `envconfig:""`

	Telegram struct {
		Token  string `envconfig:"TG_BOT_TOKEN"`
		ChatID int64  `envconfig:"TG_CHAT_ID"`
	} `envconfig:""`

	Publish struct {
		Caption   string `envconfig:"PUBLISH_CAPTION" default:"Pokemon Global Link ranking today"`
		DailyTime string `envconfig:"PUBLISH_DAILY_TIME" default:"09:00"`
	} `envconfig:""`

	PGDSN string `envconfig:"PG_DSN"`

	RedisAddr string `envconfig:"REDIS_ADDR"`

	Queues struct {
		Publish string `envconfig:"PUBLISH_QUEUE_KEY" default:"publish_jobs"`
	} `envconfig:""`
}

// Ranking возвращает параметры прогона для оркестратора.
func (c AppConfig) Ranking() domain.RankingParams {
	return domain.RankingParams{
		LanguageID:   c.PGL.LanguageID,
		GenerationID: c.PGL.GenerationID,
		BattleType:   c.PGL.BattleType,
		RankCount:    c.PGL.RankCount,
		ImageSize:    c.PGL.ImageSize,
	}
}

// Load загружает конфиг из окружения.
func Load() AppConfig {
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("не удалось загрузить конфиг: %v", err)
	}
	return cfg
}
