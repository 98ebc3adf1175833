package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Team groups heroes under a shared headquarters. Team names are unique.
type Team struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Headquarters string    `json:"headquarters"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

const teamColumns = "id, name, headquarters, created_at, updated_at"

func scanTeam(row interface{ Scan(...any) error }) (*Team, error) {
	var team Team
	var createdAtUnix, updatedAtUnix int64

	err := row.Scan(
		&team.ID,
		&team.Name,
		&team.Headquarters,
		&createdAtUnix,
		&updatedAtUnix,
	)
	if err != nil {
		return nil, err
	}

	team.CreatedAt = time.Unix(createdAtUnix, 0).UTC()
	team.UpdatedAt = time.Unix(updatedAtUnix, 0).UTC()
	return &team, nil
}

// CreateTeam inserts a team and refreshes the struct with the assigned
// ID and timestamps. Duplicate names surface as a constraint error from
// the driver.
func (db *DB) CreateTeam(team *Team) error {
	result, err := db.Exec(
		"INSERT INTO team (name, headquarters) VALUES (?, ?)",
		team.Name, team.Headquarters,
	)
	if err != nil {
		return fmt.Errorf("failed to create team: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %w", err)
	}
	team.ID = int(id)

	var createdAtUnix, updatedAtUnix int64
	err = db.QueryRow(
		"SELECT created_at, updated_at FROM team WHERE id = ?", team.ID,
	).Scan(&createdAtUnix, &updatedAtUnix)
	if err != nil {
		return fmt.Errorf("failed to refresh team %d: %w", team.ID, err)
	}
	team.CreatedAt = time.Unix(createdAtUnix, 0).UTC()
	team.UpdatedAt = time.Unix(updatedAtUnix, 0).UTC()
	return nil
}

// GetTeam retrieves a team by ID.
func (db *DB) GetTeam(id int) (*Team, error) {
	team, err := scanTeam(db.QueryRow(
		"SELECT "+teamColumns+" FROM team WHERE id = ?", id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("team %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team %d: %w", id, err)
	}
	return team, nil
}

// GetTeamByName retrieves a team by its unique name.
func (db *DB) GetTeamByName(name string) (*Team, error) {
	team, err := scanTeam(db.QueryRow(
		"SELECT "+teamColumns+" FROM team WHERE name = ?", name,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("team %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team %q: %w", name, err)
	}
	return team, nil
}

// ListTeams returns all teams ordered by name.
func (db *DB) ListTeams() ([]Team, error) {
	rows, err := db.Query("SELECT " + teamColumns + " FROM team ORDER BY name ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query teams: %w", err)
	}
	defer rows.Close()

	teams := []Team{}
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, *team)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate teams: %w", err)
	}

	return teams, nil
}

// UpdateTeam updates a team's name and headquarters.
func (db *DB) UpdateTeam(team *Team) error {
	result, err := db.Exec(
		"UPDATE team SET name = ?, headquarters = ?, updated_at = unixepoch() WHERE id = ?",
		team.Name, team.Headquarters, team.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update team %d: %w", team.ID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("team %d: %w", team.ID, ErrNotFound)
	}

	var updatedAtUnix int64
	err = db.QueryRow("SELECT updated_at FROM team WHERE id = ?", team.ID).Scan(&updatedAtUnix)
	if err != nil {
		return fmt.Errorf("failed to refresh team %d: %w", team.ID, err)
	}
	team.UpdatedAt = time.Unix(updatedAtUnix, 0).UTC()
	return nil
}

// DeleteTeam removes a team. Heroes on the team are kept; the foreign
// key clears their team_id (ON DELETE SET NULL).
func (db *DB) DeleteTeam(id int) error {
	result, err := db.Exec("DELETE FROM team WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete team %d: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("team %d: %w", id, ErrNotFound)
	}
	return nil
}

// TeamHeroes returns the heroes currently assigned to the team, ordered
// by ID. Returns ErrNotFound if the team does not exist.
func (db *DB) TeamHeroes(teamID int) ([]Hero, error) {
	if _, err := db.GetTeam(teamID); err != nil {
		return nil, err
	}
	return db.ListHeroes(HeroFilter{TeamID: &teamID})
}

// CountTeams returns the number of teams.
func (db *DB) CountTeams() (int, error) {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM team").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count teams: %w", err)
	}
	return count, nil
}

// TeamHeroCount pairs a team name with the number of heroes assigned to
// it. Heroes without a team are reported under the empty name.
type TeamHeroCount struct {
	TeamName string `json:"team_name"`
	Count    int    `json:"count"`
}

// HeroCountsByTeam returns hero counts grouped by team, including a
// bucket for unassigned heroes.
func (db *DB) HeroCountsByTeam() ([]TeamHeroCount, error) {
	rows, err := db.Query(`
		SELECT COALESCE(team.name, ''), COUNT(hero.id)
		FROM hero
		LEFT OUTER JOIN team ON hero.team_id = team.id
		GROUP BY team.name
		ORDER BY COALESCE(team.name, '') ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query hero counts: %w", err)
	}
	defer rows.Close()

	var counts []TeamHeroCount
	for rows.Next() {
		var c TeamHeroCount
		if err := rows.Scan(&c.TeamName, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan hero count: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate hero counts: %w", err)
	}

	return counts, nil
}
