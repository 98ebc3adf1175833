package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Hero represents one member of the roster. ID is zero for a hero that
// has not been persisted yet; the database assigns it on insert and the
// storage layer never changes it afterwards.
type Hero struct {
	ID         int       `json:"id"`
	Name       string    `json:"name"`
	SecretName string    `json:"secret_name"`
	Age        *int      `json:"age"`
	TeamID     *int      `json:"team_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (h *Hero) String() string {
	age := "unknown"
	if h.Age != nil {
		age = fmt.Sprintf("%d", *h.Age)
	}
	return fmt.Sprintf("Hero(id=%d name=%q age=%s)", h.ID, h.Name, age)
}

// HeroFilter narrows ListHeroes. Zero values mean "no constraint";
// Limit <= 0 means unbounded.
type HeroFilter struct {
	Name   string
	MinAge *int
	MaxAge *int
	TeamID *int
	Limit  int
	Offset int
}

const heroColumns = "id, name, secret_name, age, team_id, created_at, updated_at"

func scanHero(row interface{ Scan(...any) error }) (*Hero, error) {
	var hero Hero
	var createdAtUnix, updatedAtUnix int64

	err := row.Scan(
		&hero.ID,
		&hero.Name,
		&hero.SecretName,
		&hero.Age,
		&hero.TeamID,
		&createdAtUnix,
		&updatedAtUnix,
	)
	if err != nil {
		return nil, err
	}

	hero.CreatedAt = time.Unix(createdAtUnix, 0).UTC()
	hero.UpdatedAt = time.Unix(updatedAtUnix, 0).UTC()
	return &hero, nil
}

// CreateHero inserts a single hero and refreshes the struct with the
// server-assigned ID and timestamps.
func (db *DB) CreateHero(hero *Hero) error {
	result, err := db.Exec(
		"INSERT INTO hero (name, secret_name, age, team_id) VALUES (?, ?, ?, ?)",
		hero.Name, hero.SecretName, hero.Age, hero.TeamID,
	)
	if err != nil {
		return fmt.Errorf("failed to create hero: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %w", err)
	}
	hero.ID = int(id)

	return db.refreshHeroTimestamps(db.DB, hero)
}

// CreateHeroes inserts all heroes in one transaction. Either every
// record is persisted (each carrying its assigned ID and timestamps on
// return) or none are.
func (db *DB) CreateHeroes(heroes []*Hero) error {
	if len(heroes) == 0 {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT INTO hero (name, secret_name, age, team_id) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, hero := range heroes {
		result, err := stmt.Exec(hero.Name, hero.SecretName, hero.Age, hero.TeamID)
		if err != nil {
			return fmt.Errorf("failed to insert hero %q: %w", hero.Name, err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert ID for hero %q: %w", hero.Name, err)
		}
		hero.ID = int(id)
	}

	// Refresh inside the transaction so the structs observe the
	// database-assigned defaults before commit.
	for _, hero := range heroes {
		if err := db.refreshHeroTimestamps(tx, hero); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit batch insert: %w", err)
	}
	return nil
}

type querier interface {
	QueryRow(query string, args ...any) *sql.Row
}

func (db *DB) refreshHeroTimestamps(q querier, hero *Hero) error {
	var createdAtUnix, updatedAtUnix int64
	err := q.QueryRow(
		"SELECT created_at, updated_at FROM hero WHERE id = ?", hero.ID,
	).Scan(&createdAtUnix, &updatedAtUnix)
	if err != nil {
		return fmt.Errorf("failed to refresh hero %d: %w", hero.ID, err)
	}
	hero.CreatedAt = time.Unix(createdAtUnix, 0).UTC()
	hero.UpdatedAt = time.Unix(updatedAtUnix, 0).UTC()
	return nil
}

// GetHero retrieves a hero by ID.
func (db *DB) GetHero(id int) (*Hero, error) {
	hero, err := scanHero(db.QueryRow(
		"SELECT "+heroColumns+" FROM hero WHERE id = ?", id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("hero %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get hero %d: %w", id, err)
	}
	return hero, nil
}

// ListHeroes returns heroes matching the filter, ordered by ID.
func (db *DB) ListHeroes(filter HeroFilter) ([]Hero, error) {
	query := "SELECT " + heroColumns + " FROM hero WHERE 1=1"
	args := []any{}

	if filter.Name != "" {
		query += " AND name = ?"
		args = append(args, filter.Name)
	}
	if filter.MinAge != nil {
		query += " AND age >= ?"
		args = append(args, *filter.MinAge)
	}
	if filter.MaxAge != nil {
		query += " AND age <= ?"
		args = append(args, *filter.MaxAge)
	}
	if filter.TeamID != nil {
		query += " AND team_id = ?"
		args = append(args, *filter.TeamID)
	}

	query += " ORDER BY id ASC"
	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query heroes: %w", err)
	}
	defer rows.Close()

	heroes := []Hero{}
	for rows.Next() {
		hero, err := scanHero(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan hero: %w", err)
		}
		heroes = append(heroes, *hero)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate heroes: %w", err)
	}

	return heroes, nil
}

// UpdateHero updates the mutable fields of a hero and refreshes its
// updated_at timestamp.
func (db *DB) UpdateHero(hero *Hero) error {
	result, err := db.Exec(
		`UPDATE hero
		 SET name = ?, secret_name = ?, age = ?, team_id = ?, updated_at = unixepoch()
		 WHERE id = ?`,
		hero.Name, hero.SecretName, hero.Age, hero.TeamID, hero.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update hero %d: %w", hero.ID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("hero %d: %w", hero.ID, ErrNotFound)
	}

	return db.refreshHeroTimestamps(db.DB, hero)
}

// DeleteHero removes a hero by ID.
func (db *DB) DeleteHero(id int) error {
	result, err := db.Exec("DELETE FROM hero WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete hero %d: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("hero %d: %w", id, ErrNotFound)
	}
	return nil
}

// CountHeroes returns the number of heroes in the roster.
func (db *DB) CountHeroes() (int, error) {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM hero").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count heroes: %w", err)
	}
	return count, nil
}

// HeroAges returns the ages of all heroes with a known age, sorted
// ascending. Feeds the roster statistics endpoint.
func (db *DB) HeroAges() ([]float64, error) {
	rows, err := db.Query("SELECT age FROM hero WHERE age IS NOT NULL ORDER BY age ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query hero ages: %w", err)
	}
	defer rows.Close()

	var ages []float64
	for rows.Next() {
		var age float64
		if err := rows.Scan(&age); err != nil {
			return nil, fmt.Errorf("failed to scan hero age: %w", err)
		}
		ages = append(ages, age)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate hero ages: %w", err)
	}

	return ages, nil
}
