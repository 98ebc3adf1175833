package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/herolab/roster/internal/db"
	"github.com/herolab/roster/internal/testutil"
)

type teamListResponse struct {
	Teams []db.Team `json:"teams"`
	Count int       `json:"count"`
}

func TestCreateTeam_Endpoint(t *testing.T) {
	server, database := setupTestServer(t)
	defer cleanupTestServer(t, database)

	w := postJSON(t, server, "/api/teams", map[string]interface{}{
		"name":         "Preventers",
		"headquarters": "Sharp Tower",
	})

	testutil.AssertStatusCode(t, w.Code, http.StatusCreated)

	var team db.Team
	testutil.DecodeResponse(t, w, &team)
	if team.ID == 0 {
		t.Error("expected response to carry the assigned ID")
	}
	if team.Headquarters != "Sharp Tower" {
		t.Errorf("headquarters = %q, want Sharp Tower", team.Headquarters)
	}
}

func TestCreateTeam_DuplicateName(t *testing.T) {
	server, database := setupTestServer(t)
	defer cleanupTestServer(t, database)

	payload := map[string]interface{}{
		"name":         "Z-Force",
		"headquarters": "Sister Margaret's Bar",
	}
	w := postJSON(t, server, "/api/teams", payload)
	testutil.AssertStatusCode(t, w.Code, http.StatusCreated)

	w = postJSON(t, server, "/api/teams", payload)
	testutil.AssertStatusCode(t, w.Code, http.StatusConflict)
}

func TestCreateTeam_Validation(t *testing.T) {
	server, database := setupTestServer(t)
	defer cleanupTestServer(t, database)

	tests := []struct {
		name    string
		payload map[string]interface{}
	}{
		{"missing name", map[string]interface{}{"headquarters": "x"}},
		{"missing headquarters", map[string]interface{}{"name": "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, server, "/api/teams", tt.payload)
			testutil.AssertStatusCode(t, w.Code, http.StatusBadRequest)
		})
	}
}

func TestListTeams_Endpoint(t *testing.T) {
	server, database := setupTestServer(t)
	defer cleanupTestServer(t, database)

	for _, team := range []*db.Team{
		{Name: "Z-Force", Headquarters: "Sister Margaret's Bar"},
		{Name: "Preventers", Headquarters: "Sharp Tower"},
	} {
		testutil.AssertNoError(t, database.CreateTeam(team))
	}

	w := httptest.NewRecorder()
	server.ServeMux().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/teams", nil))
	testutil.AssertStatusCode(t, w.Code, http.StatusOK)

	var got teamListResponse
	testutil.DecodeResponse(t, w, &got)
	if got.Count != 2 {
		t.Fatalf("count = %d, want 2", got.Count)
	}
	// Listing is ordered by name.
	if got.Teams[0].Name != "Preventers" || got.Teams[1].Name != "Z-Force" {
		t.Errorf("got order %q, %q; want Preventers, Z-Force", got.Teams[0].Name, got.Teams[1].Name)
	}
}

func TestGetTeam_Endpoint(t *testing.T) {
	server, database := setupTestServer(t)
	defer cleanupTestServer(t, database)

	team := &db.Team{Name: "Preventers", Headquarters: "Sharp Tower"}
	testutil.AssertNoError(t, database.CreateTeam(team))

	w := httptest.NewRecorder()
	server.ServeMux().ServeHTTP(w, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/teams/%d", team.ID), nil))
	testutil.AssertStatusCode(t, w.Code, http.StatusOK)

	var got db.Team
	testutil.DecodeResponse(t, w, &got)
	if got.ID != team.ID || got.Name != "Preventers" {
		t.Errorf("got %+v, want id=%d name=Preventers", got, team.ID)
	}

	w = httptest.NewRecorder()
	server.ServeMux().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/teams/9999", nil))
	testutil.AssertStatusCode(t, w.Code, http.StatusNotFound)
}

func TestTeamHeroes_Endpoint(t *testing.T) {
	server, database := setupTestServer(t)
	defer cleanupTestServer(t, database)

	team := &db.Team{Name: "Preventers", Headquarters: "Sharp Tower"}
	testutil.AssertNoError(t, database.CreateTeam(team))

	heroes := []*db.Hero{
		{Name: "Rusty-Man", SecretName: "Tommy Sharp", Age: intPtr(48), TeamID: &team.ID},
		{Name: "Spider-Boy", SecretName: "Pedro Parqueador", TeamID: &team.ID},
		{Name: "Deadpond", SecretName: "Dive Wilson"},
	}
	testutil.AssertNoError(t, database.CreateHeroes(heroes))

	w := httptest.NewRecorder()
	server.ServeMux().ServeHTTP(w, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/teams/%d/heroes", team.ID), nil))
	testutil.AssertStatusCode(t, w.Code, http.StatusOK)

	var got heroListResponse
	testutil.DecodeResponse(t, w, &got)
	if got.Count != 2 {
		t.Errorf("count = %d, want 2", got.Count)
	}

	// Unknown nested resources are 404.
	w = httptest.NewRecorder()
	server.ServeMux().ServeHTTP(w, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/teams/%d/villains", team.ID), nil))
	testutil.AssertStatusCode(t, w.Code, http.StatusNotFound)

	w = httptest.NewRecorder()
	server.ServeMux().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/teams/9999/heroes", nil))
	testutil.AssertStatusCode(t, w.Code, http.StatusNotFound)
}

func TestUpdateTeam_Endpoint(t *testing.T) {
	server, database := setupTestServer(t)
	defer cleanupTestServer(t, database)

	team := &db.Team{Name: "Preventers", Headquarters: "Sharp Tower"}
	testutil.AssertNoError(t, database.CreateTeam(team))

	body, _ := json.Marshal(map[string]interface{}{
		"name":         "Preventers",
		"headquarters": "Sharp Tower 2",
	})
	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/api/teams/%d", team.ID), bytes.NewReader(body))
	w := httptest.NewRecorder()
	server.ServeMux().ServeHTTP(w, req)
	testutil.AssertStatusCode(t, w.Code, http.StatusOK)

	var got db.Team
	testutil.DecodeResponse(t, w, &got)
	if got.Headquarters != "Sharp Tower 2" {
		t.Errorf("headquarters = %q, want Sharp Tower 2", got.Headquarters)
	}
}

func TestUpdateTeam_Conflict(t *testing.T) {
	server, database := setupTestServer(t)
	defer cleanupTestServer(t, database)

	first := &db.Team{Name: "Preventers", Headquarters: "Sharp Tower"}
	second := &db.Team{Name: "Z-Force", Headquarters: "Sister Margaret's Bar"}
	testutil.AssertNoError(t, database.CreateTeam(first))
	testutil.AssertNoError(t, database.CreateTeam(second))

	body, _ := json.Marshal(map[string]interface{}{
		"name":         "Preventers",
		"headquarters": "Sister Margaret's Bar",
	})
	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/api/teams/%d", second.ID), bytes.NewReader(body))
	w := httptest.NewRecorder()
	server.ServeMux().ServeHTTP(w, req)
	testutil.AssertStatusCode(t, w.Code, http.StatusConflict)
}

func TestDeleteTeam_Endpoint(t *testing.T) {
	server, database := setupTestServer(t)
	defer cleanupTestServer(t, database)

	team := &db.Team{Name: "Z-Force", Headquarters: "Sister Margaret's Bar"}
	testutil.AssertNoError(t, database.CreateTeam(team))

	hero := &db.Hero{Name: "Deadpond", SecretName: "Dive Wilson", TeamID: &team.ID}
	testutil.AssertNoError(t, database.CreateHero(hero))

	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/teams/%d", team.ID), nil)
	w := httptest.NewRecorder()
	server.ServeMux().ServeHTTP(w, req)
	testutil.AssertStatusCode(t, w.Code, http.StatusNoContent)

	// The hero survives with its team assignment cleared.
	got, err := database.GetHero(hero.ID)
	testutil.AssertNoError(t, err)
	if got.TeamID != nil {
		t.Errorf("team_id = %v, want nil after team deletion", got.TeamID)
	}

	req = httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/teams/%d", team.ID), nil)
	w = httptest.NewRecorder()
	server.ServeMux().ServeHTTP(w, req)
	testutil.AssertStatusCode(t, w.Code, http.StatusNotFound)
}
