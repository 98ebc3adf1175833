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

// handleHeroes handles list and create on the hero collection.
func (s *Server) handleHeroes(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListHeroes(w, r)
	case http.MethodPost:
		s.handleCreateHero(w, r)
	default:
		httputil.MethodNotAllowed(w)
	}
}

// handleListHeroes lists heroes with optional filters: name equality,
// age range, team, and limit/offset.
func (s *Server) handleListHeroes(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := db.HeroFilter{Name: query.Get("name")}

	for param, dst := range map[string]**int{
		"min_age": &filter.MinAge,
		"max_age": &filter.MaxAge,
		"team_id": &filter.TeamID,
	} {
		if raw := query.Get(param); raw != "" {
			value, err := strconv.Atoi(raw)
			if err != nil {
				httputil.BadRequest(w, fmt.Sprintf("invalid %q parameter", param))
				return
			}
			*dst = &value
		}
	}

	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			httputil.BadRequest(w, "invalid \"limit\" parameter")
			return
		}
		filter.Limit = limit
	}
	if raw := query.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			httputil.BadRequest(w, "invalid \"offset\" parameter")
			return
		}
		filter.Offset = offset
	}

	heroes, err := s.db.ListHeroes(filter)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to list heroes: %v", err))
		return
	}

	httputil.WriteJSONOK(w, map[string]interface{}{
		"heroes": heroes,
		"count":  len(heroes),
	})
}

// heroPayload is the request body for hero create and update. The ID
// and timestamps are server-assigned and not accepted from clients.
type heroPayload struct {
	Name       string `json:"name"`
	SecretName string `json:"secret_name"`
	Age        *int   `json:"age"`
	TeamID     *int   `json:"team_id"`
}

func (p *heroPayload) validate(s *Server) (string, bool) {
	if p.Name == "" {
		return "name is required", false
	}
	if p.SecretName == "" {
		return "secret_name is required", false
	}
	if p.Age != nil && *p.Age < 0 {
		return "age must not be negative", false
	}
	if p.TeamID != nil {
		if _, err := s.db.GetTeam(*p.TeamID); err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return fmt.Sprintf("team %d does not exist", *p.TeamID), false
			}
			return fmt.Sprintf("failed to check team: %v", err), false
		}
	}
	return "", true
}

func (p *heroPayload) toHero() *db.Hero {
	return &db.Hero{
		Name:       p.Name,
		SecretName: p.SecretName,
		Age:        p.Age,
		TeamID:     p.TeamID,
	}
}

// handleCreateHero creates one hero and echoes the persisted record,
// including its server-assigned ID and timestamps.
func (s *Server) handleCreateHero(w http.ResponseWriter, r *http.Request) {
	var payload heroPayload
	if err := httputil.DecodeJSON(r, w, &payload); err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	if msg, ok := payload.validate(s); !ok {
		httputil.BadRequest(w, msg)
		return
	}

	hero := payload.toHero()
	if err := s.db.CreateHero(hero); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to create hero: %v", err))
		return
	}

	httputil.WriteJSONCreated(w, hero)
}

// handleHeroesBatch creates many heroes in one transaction.
func (s *Server) handleHeroesBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}

	var payloads []heroPayload
	if err := httputil.DecodeJSON(r, w, &payloads); err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	if len(payloads) == 0 {
		httputil.BadRequest(w, "batch must contain at least one hero")
		return
	}

	heroes := make([]*db.Hero, 0, len(payloads))
	for i := range payloads {
		if msg, ok := payloads[i].validate(s); !ok {
			httputil.BadRequest(w, fmt.Sprintf("hero %d: %s", i, msg))
			return
		}
		heroes = append(heroes, payloads[i].toHero())
	}

	if err := s.db.CreateHeroes(heroes); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to create heroes: %v", err))
		return
	}

	httputil.WriteJSONCreated(w, map[string]interface{}{
		"heroes": heroes,
		"count":  len(heroes),
	})
}

// handleHeroByID handles point read, update, and delete.
func (s *Server) handleHeroByID(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimPrefix(r.URL.Path, "/api/heroes/")
	id, err := strconv.Atoi(idStr)
	if err != nil || id < 1 {
		httputil.BadRequest(w, "invalid hero ID")
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.handleGetHero(w, id)
	case http.MethodPut:
		s.handleUpdateHero(w, r, id)
	case http.MethodDelete:
		s.handleDeleteHero(w, id)
	default:
		httputil.MethodNotAllowed(w)
	}
}

func (s *Server) handleGetHero(w http.ResponseWriter, id int) {
	hero, err := s.db.GetHero(id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			httputil.NotFound(w, fmt.Sprintf("hero %d not found", id))
			return
		}
		httputil.InternalServerError(w, fmt.Sprintf("failed to get hero: %v", err))
		return
	}
	httputil.WriteJSONOK(w, hero)
}

func (s *Server) handleUpdateHero(w http.ResponseWriter, r *http.Request, id int) {
	var payload heroPayload
	if err := httputil.DecodeJSON(r, w, &payload); err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	if msg, ok := payload.validate(s); !ok {
		httputil.BadRequest(w, msg)
		return
	}

	hero := payload.toHero()
	hero.ID = id
	if err := s.db.UpdateHero(hero); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			httputil.NotFound(w, fmt.Sprintf("hero %d not found", id))
			return
		}
		httputil.InternalServerError(w, fmt.Sprintf("failed to update hero: %v", err))
		return
	}

	// Re-read so the response carries created_at as well.
	updated, err := s.db.GetHero(id)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to reload hero: %v", err))
		return
	}
	httputil.WriteJSONOK(w, updated)
}

func (s *Server) handleDeleteHero(w http.ResponseWriter, id int) {
	if err := s.db.DeleteHero(id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			httputil.NotFound(w, fmt.Sprintf("hero %d not found", id))
			return
		}
		httputil.InternalServerError(w, fmt.Sprintf("failed to delete hero: %v", err))
		return
	}
	httputil.NoContent(w)
}
