package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	chi "github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"pgl-ranking-bot/internal/adapters/pgl"
	"pgl-ranking-bot/internal/domain"
)

const defaultHistoryLimit = 20

type publicationLister interface {
	ListPublications(ctx context.Context, limit int) ([]domain.Publication, error)
}

type jobEnqueuer interface {
	EnqueueNow(ctx context.Context, now time.Time) (domain.PublishJob, error)
}

// API отдаёт журнал публикаций и принимает ручные задачи.
type API struct {
	publications  publicationLister
	jobs          jobEnqueuer
	assetTemplate string
	imageSize     int
	clock         domain.Clock
	log           zerolog.Logger
}

// NewAPI создаёт обработчики. publications может быть nil, если журнал не настроен.
func NewAPI(publications publicationLister, jobs jobEnqueuer, assetTemplate string, imageSize int, clock domain.Clock, logger zerolog.Logger) *API {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &API{publications: publications, jobs: jobs, assetTemplate: assetTemplate, imageSize: imageSize, clock: clock, log: logger}
}

// Mount регистрирует маршруты /api/v1.
func (a *API) Mount(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/publications", a.listPublications)
		r.Post("/publications", a.enqueuePublication)
		r.Get("/assets/{monsno}/{form}", a.assetPreview)
	})
}

type publicationResponse struct {
	ID          string           `json:"id"`
	JobID       string           `json:"job_id,omitempty"`
	SeasonID    string           `json:"season_id"`
	Entities    []entityResponse `json:"entities"`
	Targets     []string         `json:"targets"`
	Caption     string           `json:"caption"`
	PublishedAt time.Time        `json:"published_at"`
}

type entityResponse struct {
	Rank   int    `json:"rank"`
	MonsNo int    `json:"monsno"`
	FormNo int    `json:"form"`
	Token  string `json:"token"`
}

func (a *API) listPublications(w http.ResponseWriter, r *http.Request) {
	if a.publications == nil {
		writeError(w, http.StatusServiceUnavailable, "publication journal is not configured")
		return
	}
	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}
	pubs, err := a.publications.ListPublications(r.Context(), limit)
	if err != nil {
		a.log.Error().Err(err).Msg("api: не удалось получить журнал")
		writeError(w, http.StatusInternalServerError, "failed to load publications")
		return
	}
	resp := make([]publicationResponse, 0, len(pubs))
	for _, p := range pubs {
		item := publicationResponse{
			ID:          p.ID,
			JobID:       p.JobID,
			SeasonID:    p.SeasonID,
			Caption:     p.Caption,
			PublishedAt: p.PublishedAt,
			Entities:    make([]entityResponse, 0, len(p.Entities)),
			Targets:     make([]string, 0, len(p.Receipts)),
		}
		for _, e := range p.Entities {
			item.Entities = append(item.Entities, entityResponse{Rank: e.Rank, MonsNo: e.MonsNo, FormNo: e.FormNo, Token: pgl.EncodeAddress(e.MonsNo, e.FormNo)})
		}
		for _, rc := range p.Receipts {
			item.Targets = append(item.Targets, rc.Target)
		}
		resp = append(resp, item)
	}
	writeJSON(w, http.StatusOK, map[string]any{"publications": resp})
}

func (a *API) enqueuePublication(w http.ResponseWriter, r *http.Request) {
	job, err := a.jobs.EnqueueNow(r.Context(), a.clock.Now())
	if err != nil {
		a.log.Error().Err(err).Msg("api: не удалось поставить задачу")
		writeError(w, http.StatusInternalServerError, "failed to enqueue job")
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"job_id": job.ID, "status": "queued"})
}

func (a *API) assetPreview(w http.ResponseWriter, r *http.Request) {
	monsNo, err := strconv.Atoi(chi.URLParam(r, "monsno"))
	if err != nil || monsNo < 0 {
		writeError(w, http.StatusBadRequest, "monsno must be a non-negative integer")
		return
	}
	formNo, err := strconv.Atoi(chi.URLParam(r, "form"))
	if err != nil || formNo < 0 {
		writeError(w, http.StatusBadRequest, "form must be a non-negative integer")
		return
	}
	token := pgl.EncodeAddress(monsNo, formNo)
	writeJSON(w, http.StatusOK, map[string]string{
		"token": token,
		"url":   pgl.AssetURL(a.assetTemplate, a.imageSize, token),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
