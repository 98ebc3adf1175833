// Command seed populates a roster database with a small demo data set:
// two teams and seven heroes. Useful for local development and demos.
package main

import (
	"flag"
	"log"

	"github.com/herolab/roster/internal/db"
)

var (
	dbPath = flag.String("db", "heroes.db", "Path to the SQLite database file")
	wipe   = flag.Bool("wipe", false, "Delete all existing heroes and teams first")
)

func main() {
	flag.Parse()

	database, err := db.NewDB(*dbPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer database.Close()

	if *wipe {
		if _, err := database.Exec("DELETE FROM hero"); err != nil {
			log.Fatalf("failed to wipe heroes: %v", err)
		}
		if _, err := database.Exec("DELETE FROM team"); err != nil {
			log.Fatalf("failed to wipe teams: %v", err)
		}
		log.Println("wiped existing heroes and teams")
	}

	preventers := &db.Team{Name: "Preventers", Headquarters: "Sharp Tower"}
	zForce := &db.Team{Name: "Z-Force", Headquarters: "Sister Margaret's Bar"}
	for _, team := range []*db.Team{preventers, zForce} {
		if err := database.CreateTeam(team); err != nil {
			log.Fatalf("failed to create team %s: %v", team.Name, err)
		}
		log.Printf("created team %s (id %d)", team.Name, team.ID)
	}

	age := func(n int) *int { return &n }

	heroes := []*db.Hero{
		{Name: "Deadpond", SecretName: "Dive Wilson", TeamID: &zForce.ID},
		{Name: "Spider-Boy", SecretName: "Pedro Parqueador", TeamID: &preventers.ID},
		{Name: "Rusty-Man", SecretName: "Tommy Sharp", Age: age(48), TeamID: &preventers.ID},
		{Name: "Tarantula", SecretName: "Natalia Roman-on", Age: age(32)},
		{Name: "Black Lion", SecretName: "Trevor Challa", Age: age(35)},
		{Name: "Dr. Weird", SecretName: "Steve Weird", Age: age(36)},
		{Name: "Captain North America", SecretName: "Esteban Rogelios", Age: age(93)},
	}

	if err := database.CreateHeroes(heroes); err != nil {
		log.Fatalf("failed to create heroes: %v", err)
	}
	for _, hero := range heroes {
		log.Printf("created hero %s (id %d)", hero.Name, hero.ID)
	}

	log.Printf("seeded %d teams and %d heroes into %s", 2, len(heroes), *dbPath)
}
