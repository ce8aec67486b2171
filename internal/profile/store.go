// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package profile persists traveler profiles and the visit history that
// drives personalization. Backed by SQLite; one store serves all users.
package profile

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hanguk-labs/local-guide/pkg/types"
)

// ratingBaseline is the neutral visit rating; ratings above it raise the
// category weight, below it lower it.
const ratingBaseline = 3

// favoriteRating marks a visit as an automatic favorite.
const favoriteRating = 5

// weightStep is the per-rating-point weight adjustment.
const weightStep = 0.1

// Store manages the profile SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the profile database at cfg.Path, creating the
// schema if it does not exist.
func NewStore(cfg types.ProfileConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = "data/profiles.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating profile directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening profile database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS profiles (
			user_id TEXT PRIMARY KEY,
			interests TEXT,
			food_restrictions TEXT,
			cultural_preferences TEXT,
			budget_range TEXT,
			travel_style TEXT,
			weights TEXT,
			updated_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS visits (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT NOT NULL,
			place_name TEXT NOT NULL,
			neighborhood TEXT,
			category TEXT,
			rating INTEGER,
			visited_at TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_visits_user ON visits(user_id)`,
		`CREATE TABLE IF NOT EXISTS favorites (
			user_id TEXT NOT NULL,
			place_name TEXT NOT NULL,
			added_at TEXT,
			UNIQUE(user_id, place_name)
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// PersonalizationFor loads the full personalization context for a user.
// Unknown users get a default context rather than an error, so a first
// request works without prior profile setup.
func (s *Store) PersonalizationFor(ctx context.Context, userID string) (*types.Personalization, error) {
	p := &types.Personalization{
		RecommendationWeights: types.DefaultWeights(),
	}

	var (
		interestsJSON, restrictionsJSON, prefsJSON sql.NullString
		budget, style, weightsJSON                 sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT interests, food_restrictions, cultural_preferences, budget_range, travel_style, weights
		 FROM profiles WHERE user_id = ?`, userID,
	).Scan(&interestsJSON, &restrictionsJSON, &prefsJSON, &budget, &style, &weightsJSON)
	switch {
	case err == sql.ErrNoRows:
		// Fall through with defaults.
	case err != nil:
		return nil, fmt.Errorf("loading profile %s: %w", userID, err)
	default:
		unmarshalList(interestsJSON, &p.Interests)
		unmarshalList(restrictionsJSON, &p.FoodRestrictions)
		unmarshalList(prefsJSON, &p.CulturalPreferences)
		p.BudgetRange = budget.String
		p.TravelStyle = style.String
		if weightsJSON.Valid && weightsJSON.String != "" {
			stored := map[types.Category]float64{}
			if json.Unmarshal([]byte(weightsJSON.String), &stored) == nil {
				for c, w := range stored {
					p.RecommendationWeights[c] = clampWeight(w)
				}
			}
		}
	}

	if err := s.loadHistory(ctx, userID, p); err != nil {
		return nil, err
	}
	return p, nil
}

// loadHistory fills the visit-derived fields: visited places, favorites,
// and preferred neighborhoods ordered by visit frequency.
func (s *Store) loadHistory(ctx context.Context, userID string, p *types.Personalization) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT place_name FROM visits WHERE user_id = ? ORDER BY place_name`, userID)
	if err != nil {
		return fmt.Errorf("loading visits: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("scanning visit: %w", err)
		}
		p.VisitedPlaces = append(p.VisitedPlaces, name)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating visits: %w", err)
	}

	favRows, err := s.db.QueryContext(ctx,
		`SELECT place_name FROM favorites WHERE user_id = ? ORDER BY place_name`, userID)
	if err != nil {
		return fmt.Errorf("loading favorites: %w", err)
	}
	defer favRows.Close()
	for favRows.Next() {
		var name string
		if err := favRows.Scan(&name); err != nil {
			return fmt.Errorf("scanning favorite: %w", err)
		}
		p.FavoritePlaces = append(p.FavoritePlaces, name)
	}
	if err := favRows.Err(); err != nil {
		return fmt.Errorf("iterating favorites: %w", err)
	}

	nbRows, err := s.db.QueryContext(ctx,
		`SELECT neighborhood, COUNT(*) AS n FROM visits
		 WHERE user_id = ? AND neighborhood != '' AND neighborhood != 'unknown'
		 GROUP BY neighborhood ORDER BY n DESC, neighborhood`, userID)
	if err != nil {
		return fmt.Errorf("loading neighborhoods: %w", err)
	}
	defer nbRows.Close()
	for nbRows.Next() {
		var (
			name  string
			count int
		)
		if err := nbRows.Scan(&name, &count); err != nil {
			return fmt.Errorf("scanning neighborhood: %w", err)
		}
		p.PreferredNeighborhoods = append(p.PreferredNeighborhoods, name)
	}
	return nbRows.Err()
}

// UpdatePreferences upserts the declared preference fields. Visit history
// and weights are not touched; those change only through RecordVisit and
// AddFavorite.
func (s *Store) UpdatePreferences(ctx context.Context, userID string, p *types.Personalization) error {
	interestsJSON, _ := json.Marshal(p.Interests)
	restrictionsJSON, _ := json.Marshal(p.FoodRestrictions)
	prefsJSON, _ := json.Marshal(p.CulturalPreferences)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO profiles (user_id, interests, food_restrictions, cultural_preferences, budget_range, travel_style, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
			interests=excluded.interests,
			food_restrictions=excluded.food_restrictions,
			cultural_preferences=excluded.cultural_preferences,
			budget_range=excluded.budget_range,
			travel_style=excluded.travel_style,
			updated_at=excluded.updated_at`,
		userID, string(interestsJSON), string(restrictionsJSON), string(prefsJSON),
		p.BudgetRange, p.TravelStyle, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting profile %s: %w", userID, err)
	}
	return nil
}

// Visit is one recorded place visit.
type Visit struct {
	PlaceName    string
	Neighborhood string
	Category     types.Category
	Rating       int
}

// RecordVisit stores a visit and adjusts the category weight by the
// rating's distance from the baseline. A top rating also marks the place
// as a favorite.
func (s *Store) RecordVisit(ctx context.Context, userID string, v Visit) error {
	if v.PlaceName == "" {
		return fmt.Errorf("visit needs a place name")
	}
	if v.Rating < 1 || v.Rating > 5 {
		return fmt.Errorf("rating %d out of range 1-5", v.Rating)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO visits (user_id, place_name, neighborhood, category, rating, visited_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		userID, v.PlaceName, v.Neighborhood, string(v.Category), v.Rating,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting visit: %w", err)
	}

	if v.Category != "" {
		if err := adjustWeight(ctx, tx, userID, v.Category, v.Rating); err != nil {
			return err
		}
	}

	if v.Rating >= favoriteRating {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO favorites (user_id, place_name, added_at) VALUES (?, ?, ?)`,
			userID, v.PlaceName, time.Now().UTC().Format(time.RFC3339),
		); err != nil {
			return fmt.Errorf("inserting favorite: %w", err)
		}
	}

	return tx.Commit()
}

// AddFavorite marks a place as a favorite without recording a visit. A
// favorite counts as a top rating, so a non-empty category gets the same
// weight step as a rating-5 visit.
func (s *Store) AddFavorite(ctx context.Context, userID, placeName string, category types.Category) error {
	if placeName == "" {
		return fmt.Errorf("favorite needs a place name")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO favorites (user_id, place_name, added_at) VALUES (?, ?, ?)`,
		userID, placeName, time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("inserting favorite: %w", err)
	}

	if category != "" {
		if err := adjustWeight(ctx, tx, userID, category, favoriteRating); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// adjustWeight shifts one category weight inside the same transaction as
// the visit insert, reading the stored weight map, applying the step, and
// writing the clamped result back.
func adjustWeight(ctx context.Context, tx *sql.Tx, userID string, category types.Category, rating int) error {
	var weightsJSON sql.NullString
	err := tx.QueryRowContext(ctx,
		`SELECT weights FROM profiles WHERE user_id = ?`, userID,
	).Scan(&weightsJSON)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("loading weights: %w", err)
	}

	weights := types.DefaultWeights()
	if weightsJSON.Valid && weightsJSON.String != "" {
		stored := map[types.Category]float64{}
		if json.Unmarshal([]byte(weightsJSON.String), &stored) == nil {
			for c, w := range stored {
				weights[c] = w
			}
		}
	}

	weights[category] = clampWeight(weights[category] + float64(rating-ratingBaseline)*weightStep)

	updated, err := json.Marshal(weights)
	if err != nil {
		return fmt.Errorf("encoding weights: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO profiles (user_id, weights, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET weights=excluded.weights, updated_at=excluded.updated_at`,
		userID, string(updated), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("storing weights: %w", err)
	}
	return nil
}

func clampWeight(w float64) float64 {
	if w < types.MinWeight {
		return types.MinWeight
	}
	if w > types.MaxWeight {
		return types.MaxWeight
	}
	return w
}

func unmarshalList(col sql.NullString, dst *[]string) {
	if col.Valid && col.String != "" {
		_ = json.Unmarshal([]byte(col.String), dst)
	}
}
