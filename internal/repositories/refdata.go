package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/mvx/internal/models"
)

// RefDataRepository caches the studio and genre reference lists locally.
//
// The lists are small and server-owned, so the cache is replace-on-fetch: every
// successful API fetch wipes and rewrites the table. fetched_at lets callers
// decide when the cache is stale enough to refresh.
type RefDataRepository struct {
	db *sql.DB
}

// NewRefDataRepository creates a new [RefDataRepository] with the given database connection
func NewRefDataRepository(db *sql.DB) *RefDataRepository {
	return &RefDataRepository{db: db}
}

// ReplaceStudios replaces the cached studio list in a single transaction.
func (r *RefDataRepository) ReplaceStudios(studios []models.Studio) error {
	return r.replace("studios", len(studios), func(insert func(id, name string) error) error {
		for _, s := range studios {
			if err := insert(s.ID, s.Name); err != nil {
				return err
			}
		}
		return nil
	})
}

// ReplaceGenres replaces the cached genre list in a single transaction.
func (r *RefDataRepository) ReplaceGenres(genres []models.Genre) error {
	return r.replace("genres", len(genres), func(insert func(id, name string) error) error {
		for _, g := range genres {
			if err := insert(g.ID, g.Name); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *RefDataRepository) replace(table string, count int, insertAll func(insert func(id, name string) error) error) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
		return fmt.Errorf("failed to clear %s cache: %w", table, err)
	}

	stmt, err := tx.Prepare(fmt.Sprintf("INSERT INTO %s (id, name, fetched_at) VALUES (?, ?, ?)", table))
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	err = insertAll(func(id, name string) error {
		if _, err := stmt.Exec(id, name, now); err != nil {
			return fmt.Errorf("failed to insert into %s: %w", table, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %s cache: %w", table, err)
	}

	return nil
}

// Studios returns the cached studio list ordered by name.
func (r *RefDataRepository) Studios() ([]models.Studio, error) {
	rows, err := r.db.Query("SELECT id, name FROM studios ORDER BY name ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query studios: %w", err)
	}
	defer rows.Close()

	var studios []models.Studio
	for rows.Next() {
		var s models.Studio
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, fmt.Errorf("failed to scan studio: %w", err)
		}
		studios = append(studios, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return studios, nil
}

// Genres returns the cached genre list ordered by name.
func (r *RefDataRepository) Genres() ([]models.Genre, error) {
	rows, err := r.db.Query("SELECT id, name FROM genres ORDER BY name ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query genres: %w", err)
	}
	defer rows.Close()

	var genres []models.Genre
	for rows.Next() {
		var g models.Genre
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, fmt.Errorf("failed to scan genre: %w", err)
		}
		genres = append(genres, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return genres, nil
}

// FetchedAt returns when the given reference table was last replaced, or nil
// when the cache is empty. table must be "studios" or "genres".
func (r *RefDataRepository) FetchedAt(table string) (*time.Time, error) {
	if table != "studios" && table != "genres" {
		return nil, fmt.Errorf("unknown reference table: %s", table)
	}

	var fetchedAt sql.NullTime
	err := r.db.QueryRow(fmt.Sprintf("SELECT MAX(fetched_at) FROM %s", table)).Scan(&fetchedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to query fetched_at: %w", err)
	}
	if !fetchedAt.Valid {
		return nil, nil
	}

	return &fetchedAt.Time, nil
}
