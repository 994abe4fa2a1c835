package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"larder-service/internal/models"
	"larder-service/pkg/response"
)

// Storage keeps the shop document as a single jsonb row per shop, versioned
// by a revision id so concurrent writers are visible in the history table.
type Storage struct {
	db     *sql.DB
	shopID string
}

func New(storagePath, shopID string) (*Storage, error) {
	const op = "storage.postgres.New"

	db, err := sql.Open("postgres", storagePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s := &Storage{db: db, shopID: shopID}

	if err := s.init(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s, nil
}

func (s *Storage) init(ctx context.Context) error {
	const op = "storage.postgres.init"

	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS shop_state (
			shop_id    TEXT PRIMARY KEY,
			revision   TEXT NOT NULL,
			doc        JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) Save(ctx context.Context, doc *models.Document) error {
	const op = "storage.postgres.Save"

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, response.ErrPersistence, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO shop_state (shop_id, revision, doc, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (shop_id)
		DO UPDATE
		SET revision = EXCLUDED.revision,
			doc = EXCLUDED.doc,
			updated_at = EXCLUDED.updated_at`,
		s.shopID,
		uuid.NewString(),
		data,
	)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, response.ErrPersistence, err)
	}

	return nil
}

func (s *Storage) Load(ctx context.Context) (*models.Document, error) {
	const op = "storage.postgres.Load"

	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT doc FROM shop_state WHERE shop_id=$1`, s.shopID).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w: %w", op, response.ErrPersistence, err)
	}

	var doc models.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, response.ErrPersistence, err)
	}

	return &doc, nil
}

func (s *Storage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}

	return s.db.Close()
}
