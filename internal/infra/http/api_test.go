package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"pgl-ranking-bot/internal/domain"
)

type stubJournal struct {
	pubs  []domain.Publication
	limit int
}

func (s *stubJournal) ListPublications(_ context.Context, limit int) ([]domain.Publication, error) {
	s.limit = limit
	return s.pubs, nil
}

type stubJobs struct {
	err error
}

func (s *stubJobs) EnqueueNow(_ context.Context, now time.Time) (domain.PublishJob, error) {
	if s.err != nil {
		return domain.PublishJob{}, s.err
	}
	return domain.PublishJob{ID: "job-1", RequestedAt: now, Cause: domain.PublishCauseManual}, nil
}

func newTestRouter(journal publicationLister, jobs jobEnqueuer) http.Handler {
	server := NewServer(zerolog.Nop())
	api := NewAPI(journal, jobs, "https://cdn.example/{size}/{token}.png", 300, nil, zerolog.Nop())
	api.Mount(server.Router)
	return server.Router
}

func serve(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestHealthz(t *testing.T) {
	rec := serve(t, newTestRouter(nil, &stubJobs{}), http.MethodGet, "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAssetPreview(t *testing.T) {
	rec := serve(t, newTestRouter(nil, &stubJobs{}), http.MethodGet, "/api/v1/assets/1/0")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["token"] != "9a55e5" || body["url"] != "https://cdn.example/300/9a55e5.png" {
		t.Fatalf("unexpected body %v", body)
	}

	rec = serve(t, newTestRouter(nil, &stubJobs{}), http.MethodGet, "/api/v1/assets/x/0")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestEnqueuePublication(t *testing.T) {
	rec := serve(t, newTestRouter(nil, &stubJobs{}), http.MethodPost, "/api/v1/publications")
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	rec = serve(t, newTestRouter(nil, &stubJobs{err: errors.New("redis down")}), http.MethodPost, "/api/v1/publications")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestListPublications(t *testing.T) {
	journal := &stubJournal{pubs: []domain.Publication{{
		ID:       "p1",
		SeasonID: "42",
		Entities: []domain.RankedEntity{{Rank: 1, MonsNo: 1}},
		Receipts: []domain.PublishReceipt{{Target: "weibo"}},
	}}}
	rec := serve(t, newTestRouter(journal, &stubJobs{}), http.MethodGet, "/api/v1/publications?limit=5")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if journal.limit != 5 {
		t.Fatalf("expected limit 5, got %d", journal.limit)
	}
	var body struct {
		Publications []publicationResponse `json:"publications"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Publications) != 1 || body.Publications[0].Entities[0].Token != "9a55e5" || body.Publications[0].Targets[0] != "weibo" {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestListPublicationsWithoutJournal(t *testing.T) {
	rec := serve(t, newTestRouter(nil, &stubJobs{}), http.MethodGet, "/api/v1/publications")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}
