package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"

	"cardcraft/core"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// sqliteStore is the higher-capacity swap-in for the cookie store: one
// row per saved card instead of one size-bounded blob. Writes keep the
// collection-replacement semantics of the adapter contract.
type sqliteStore struct {
	db *sql.DB
}

// NewStore creates a new SQLite-based collection store.
func NewStore(dataSourceName string) *sqliteStore {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		log.Fatalf("failed to open sqlite database: %v", err)
	}

	tableStmt := `
	CREATE TABLE IF NOT EXISTS saved_cards (
		id TEXT PRIMARY KEY,
		title TEXT,
		background_color TEXT,
		elements BLOB,
		created_at DATETIME,
		updated_at DATETIME,
		views INTEGER
	);`
	if _, err = db.Exec(tableStmt); err != nil {
		log.Fatalf("failed to create saved_cards table: %v", err)
	}

	return &sqliteStore{db}
}

func (s *sqliteStore) Read(ctx context.Context) ([]core.SavedCard, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, title, background_color, elements, created_at, updated_at, views FROM saved_cards")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cards := []core.SavedCard{}
	for rows.Next() {
		var (
			card     core.SavedCard
			elements []byte
		)
		if err := rows.Scan(&card.ID, &card.Title, &card.BackgroundColor, &elements,
			&card.CreatedAt, &card.UpdatedAt, &card.Views); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(elements, &card.Elements); err != nil {
			logrus.WithError(err).WithField("card_id", card.ID).Warn("Failed to decode elements, skipping card")
			continue
		}
		cards = append(cards, card)
	}
	return cards, rows.Err()
}

func (s *sqliteStore) Write(ctx context.Context, cards []core.SavedCard) (core.WriteResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return core.WriteResult{}, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM saved_cards"); err != nil {
		return core.WriteResult{}, err
	}

	size := 0
	for _, card := range cards {
		elements, err := json.Marshal(card.Elements)
		if err != nil {
			return core.WriteResult{}, err
		}
		size += len(elements)
		_, err = tx.ExecContext(ctx,
			"INSERT INTO saved_cards (id, title, background_color, elements, created_at, updated_at, views) VALUES (?, ?, ?, ?, ?, ?, ?)",
			card.ID, card.Title, card.BackgroundColor, elements,
			card.CreatedAt, card.UpdatedAt, card.Views)
		if err != nil {
			return core.WriteResult{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return core.WriteResult{}, err
	}
	logrus.WithField("cards", len(cards)).Debug("Collection written to sqlite")
	return core.WriteResult{Size: size}, nil
}
