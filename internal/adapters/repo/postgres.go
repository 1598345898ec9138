package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"pgl-ranking-bot/internal/domain"
	"pgl-ranking-bot/internal/infra/metrics"
)

const schema = `
CREATE TABLE IF NOT EXISTS publications (
	id           UUID PRIMARY KEY,
	job_id       TEXT NOT NULL DEFAULT '',
	season_id    TEXT NOT NULL,
	entities     JSONB NOT NULL,
	receipts     JSONB NOT NULL,
	caption      TEXT NOT NULL,
	published_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS publications_published_at_idx ON publications (published_at DESC);
`

const maxListLimit = 100

// Postgres реализует журнал публикаций на основе pgxpool.
type Postgres struct {
	pool *pgxpool.Pool
}

var _ domain.PublicationRepo = (*Postgres)(nil)

// NewPostgres создаёт адаптер БД.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) connCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, 5*time.Second)
}

// EnsureSchema создаёт таблицу журнала, если её нет.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	ctx, cancel := p.connCtx(ctx)
	defer cancel()
	if _, err := p.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("создание схемы: %w", err)
	}
	return nil
}

type entityRecord struct {
	Rank   int `json:"rank"`
	MonsNo int `json:"monsno"`
	FormNo int `json:"form"`
}

type receiptRecord struct {
	Target string `json:"target"`
	PostID string `json:"post_id,omitempty"`
}

// SavePublication записывает публикацию.
func (p *Postgres) SavePublication(ctx context.Context, pub domain.Publication) (err error) {
	entities, receipts, err := encodeRecords(pub)
	if err != nil {
		return err
	}
	ctx, cancel := p.connCtx(ctx)
	defer cancel()

	start := time.Now()
	defer func() {
		metrics.ObserveNetworkRequest("postgres", "save_publication", "publications", start, err)
	}()
	_, err = p.pool.Exec(ctx, `
		INSERT INTO publications (id, job_id, season_id, entities, receipts, caption, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		pub.ID, pub.JobID, pub.SeasonID, entities, receipts, pub.Caption, pub.PublishedAt.UTC())
	if err != nil {
		return fmt.Errorf("сохранение публикации: %w", err)
	}
	return nil
}

// ListPublications возвращает последние публикации, новые первыми.
func (p *Postgres) ListPublications(ctx context.Context, limit int) ([]domain.Publication, error) {
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}
	ctx, cancel := p.connCtx(ctx)
	defer cancel()

	rows, err := p.pool.Query(ctx, `
		SELECT id::text, job_id, season_id, entities, receipts, caption, published_at
		FROM publications
		ORDER BY published_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("выборка публикаций: %w", err)
	}
	defer rows.Close()

	var out []domain.Publication
	for rows.Next() {
		var (
			pub      domain.Publication
			entities []byte
			receipts []byte
		)
		if err := rows.Scan(&pub.ID, &pub.JobID, &pub.SeasonID, &entities, &receipts, &pub.Caption, &pub.PublishedAt); err != nil {
			return nil, fmt.Errorf("чтение публикации: %w", err)
		}
		if err := decodeRecords(&pub, entities, receipts); err != nil {
			return nil, err
		}
		out = append(out, pub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("выборка публикаций: %w", err)
	}
	return out, nil
}

func encodeRecords(pub domain.Publication) ([]byte, []byte, error) {
	entities := make([]entityRecord, 0, len(pub.Entities))
	for _, e := range pub.Entities {
		entities = append(entities, entityRecord{Rank: e.Rank, MonsNo: e.MonsNo, FormNo: e.FormNo})
	}
	receipts := make([]receiptRecord, 0, len(pub.Receipts))
	for _, r := range pub.Receipts {
		receipts = append(receipts, receiptRecord{Target: r.Target, PostID: r.PostID})
	}
	rawEntities, err := json.Marshal(entities)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal entities: %w", err)
	}
	rawReceipts, err := json.Marshal(receipts)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal receipts: %w", err)
	}
	return rawEntities, rawReceipts, nil
}

func decodeRecords(pub *domain.Publication, rawEntities, rawReceipts []byte) error {
	var entities []entityRecord
	if err := json.Unmarshal(rawEntities, &entities); err != nil {
		return fmt.Errorf("decode entities: %w", err)
	}
	var receipts []receiptRecord
	if err := json.Unmarshal(rawReceipts, &receipts); err != nil {
		return fmt.Errorf("decode receipts: %w", err)
	}
	pub.Entities = make([]domain.RankedEntity, 0, len(entities))
	for _, e := range entities {
		pub.Entities = append(pub.Entities, domain.RankedEntity{Rank: e.Rank, MonsNo: e.MonsNo, FormNo: e.FormNo})
	}
	pub.Receipts = make([]domain.PublishReceipt, 0, len(receipts))
	for _, r := range receipts {
		pub.Receipts = append(pub.Receipts, domain.PublishReceipt{Target: r.Target, PostID: r.PostID})
	}
	return nil
}
