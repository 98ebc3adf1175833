package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/herolab/roster/internal/db"
	"github.com/herolab/roster/internal/httputil"
)

// handleTeams handles list and create on the team collection.
func (s *Server) handleTeams(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListTeams(w)
	case http.MethodPost:
		s.handleCreateTeam(w, r)
	default:
		httputil.MethodNotAllowed(w)
	}
}

func (s *Server) handleListTeams(w http.ResponseWriter) {
	teams, err := s.db.ListTeams()
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to list teams: %v", err))
		return
	}
	httputil.WriteJSONOK(w, map[string]interface{}{
		"teams": teams,
		"count": len(teams),
	})
}

// teamPayload is the request body for team create and update.
type teamPayload struct {
	Name         string `json:"name"`
	Headquarters string `json:"headquarters"`
}

func (p *teamPayload) validate() (string, bool) {
	if p.Name == "" {
		return "name is required", false
	}
	if p.Headquarters == "" {
		return "headquarters is required", false
	}
	return "", true
}

func (s *Server) handleCreateTeam(w http.ResponseWriter, r *http.Request) {
	var payload teamPayload
	if err := httputil.DecodeJSON(r, w, &payload); err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	if msg, ok := payload.validate(); !ok {
		httputil.BadRequest(w, msg)
		return
	}

	team := &db.Team{Name: payload.Name, Headquarters: payload.Headquarters}
	if err := s.db.CreateTeam(team); err != nil {
		if isUniqueViolation(err) {
			httputil.Conflict(w, fmt.Sprintf("team %q already exists", payload.Name))
			return
		}
		httputil.InternalServerError(w, fmt.Sprintf("failed to create team: %v", err))
		return
	}

	httputil.WriteJSONCreated(w, team)
}

// isUniqueViolation reports whether the error is a SQLite unique
// constraint failure. The driver exposes no typed error for this, so
// the check is textual.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// handleTeamByID handles point read, update, delete, and the nested
// heroes listing (/api/teams/{id}/heroes).
func (s *Server) handleTeamByID(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/api/teams/"), "/")

	id, err := strconv.Atoi(parts[0])
	if err != nil || id < 1 {
		httputil.BadRequest(w, "invalid team ID")
		return
	}

	if len(parts) == 2 && parts[1] == "heroes" {
		if r.Method != http.MethodGet {
			httputil.MethodNotAllowed(w)
			return
		}
		s.handleTeamHeroes(w, id)
		return
	}
	if len(parts) > 1 && parts[1] != "" {
		httputil.NotFound(w, "unknown team resource")
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.handleGetTeam(w, id)
	case http.MethodPut:
		s.handleUpdateTeam(w, r, id)
	case http.MethodDelete:
		s.handleDeleteTeam(w, id)
	default:
		httputil.MethodNotAllowed(w)
	}
}

func (s *Server) handleGetTeam(w http.ResponseWriter, id int) {
	team, err := s.db.GetTeam(id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			httputil.NotFound(w, fmt.Sprintf("team %d not found", id))
			return
		}
		httputil.InternalServerError(w, fmt.Sprintf("failed to get team: %v", err))
		return
	}
	httputil.WriteJSONOK(w, team)
}

func (s *Server) handleTeamHeroes(w http.ResponseWriter, id int) {
	heroes, err := s.db.TeamHeroes(id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			httputil.NotFound(w, fmt.Sprintf("team %d not found", id))
			return
		}
		httputil.InternalServerError(w, fmt.Sprintf("failed to list team heroes: %v", err))
		return
	}
	httputil.WriteJSONOK(w, map[string]interface{}{
		"heroes": heroes,
		"count":  len(heroes),
	})
}

func (s *Server) handleUpdateTeam(w http.ResponseWriter, r *http.Request, id int) {
	var payload teamPayload
	if err := httputil.DecodeJSON(r, w, &payload); err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	if msg, ok := payload.validate(); !ok {
		httputil.BadRequest(w, msg)
		return
	}

	team := &db.Team{ID: id, Name: payload.Name, Headquarters: payload.Headquarters}
	if err := s.db.UpdateTeam(team); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			httputil.NotFound(w, fmt.Sprintf("team %d not found", id))
			return
		}
		if isUniqueViolation(err) {
			httputil.Conflict(w, fmt.Sprintf("team %q already exists", payload.Name))
			return
		}
		httputil.InternalServerError(w, fmt.Sprintf("failed to update team: %v", err))
		return
	}

	updated, err := s.db.GetTeam(id)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to reload team: %v", err))
		return
	}
	httputil.WriteJSONOK(w, updated)
}

func (s *Server) handleDeleteTeam(w http.ResponseWriter, id int) {
	if err := s.db.DeleteTeam(id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			httputil.NotFound(w, fmt.Sprintf("team %d not found", id))
			return
		}
		httputil.InternalServerError(w, fmt.Sprintf("failed to delete team: %v", err))
		return
	}
	httputil.NoContent(w)
}
