package pgl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"pgl-ranking-bot/internal/domain"
)

type seasonResponse struct {
	SeasonInfo []struct {
		SeasonID flexString `json:"seasonId"`
	} `json:"seasonInfo"`
}

type rankingResponse struct {
	RankingPokemonInfo []rankingEntry `json:"rankingPokemonInfo"`
}

type rankingEntry struct {
	MonsNo *int       `json:"monsno"`
	FormNo flexString `json:"formNo"`
}

// flexString принимает и строку, и число: API не везде последовательно в типах.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		*s = flexString(raw)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*s = flexString(num.String())
	return nil
}

// CurrentSeason возвращает первый сезон из списка: сервис отдаёт текущий первым.
func (c *Client) CurrentSeason(ctx context.Context, sess *domain.Session) (domain.Season, error) {
	form := url.Values{}
	form.Set("languageId", strconv.Itoa(c.params.LanguageID))
	form.Set("generationId", strconv.Itoa(c.params.GenerationID))
	var payload seasonResponse
	if _, err := c.postForm(ctx, "get_season", c.endpoints.Season, form, sess, &payload); err != nil {
		return domain.Season{}, fmt.Errorf("%w: %w", domain.ErrRankingService, err)
	}
	if len(payload.SeasonInfo) == 0 {
		return domain.Season{}, fmt.Errorf("%w: get_season: empty seasonInfo", domain.ErrRankingService)
	}
	id := strings.TrimSpace(string(payload.SeasonInfo[0].SeasonID))
	if id == "" {
		return domain.Season{}, fmt.Errorf("%w: get_season: empty seasonId", domain.ErrRankingService)
	}
	return domain.Season{ID: id}, nil
}

// RankedEntities возвращает весь рейтинг сезона в порядке сервиса.
func (c *Client) RankedEntities(ctx context.Context, sess *domain.Session, season domain.Season) ([]domain.RankedEntity, error) {
	form := url.Values{}
	form.Set("languageId", strconv.Itoa(c.params.LanguageID))
	form.Set("seasonId", season.ID)
	form.Set("battleType", strconv.Itoa(c.params.BattleType))
	var payload rankingResponse
	if _, err := c.postForm(ctx, "get_season_pokemon", c.endpoints.Ranking, form, sess, &payload); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRankingService, err)
	}
	entities := make([]domain.RankedEntity, 0, len(payload.RankingPokemonInfo))
	for idx, entry := range payload.RankingPokemonInfo {
		entity, err := entry.toDomain(idx + 1)
		if err != nil {
			return nil, fmt.Errorf("%w: get_season_pokemon: entry %d: %w", domain.ErrRankingService, idx, err)
		}
		entities = append(entities, entity)
	}
	return entities, nil
}

func (e rankingEntry) toDomain(rank int) (domain.RankedEntity, error) {
	if e.MonsNo == nil {
		return domain.RankedEntity{}, errors.New("monsno is missing")
	}
	if *e.MonsNo < 0 {
		return domain.RankedEntity{}, fmt.Errorf("negative monsno %d", *e.MonsNo)
	}
	form, err := strconv.Atoi(strings.TrimSpace(string(e.FormNo)))
	if err != nil {
		return domain.RankedEntity{}, fmt.Errorf("parse formNo %q: %w", e.FormNo, err)
	}
	if form < 0 {
		return domain.RankedEntity{}, fmt.Errorf("negative formNo %d", form)
	}
	return domain.RankedEntity{Rank: rank, MonsNo: *e.MonsNo, FormNo: form}, nil
}
