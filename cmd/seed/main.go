// Command main runs the database seeder for Hoaxify.
package main

import (
	"flag"
	"log"

	"hoaxify/internal/bootstrap"
	"hoaxify/internal/config"
	"hoaxify/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 25, "Number of users to create")
	numHoaxes := flag.Int("hoaxes", 100, "Number of hoaxes to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	rt, err := bootstrap.InitRuntime(cfg, bootstrap.Options{Migrate: true})
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}

	s := seed.NewSeeder(rt.DB)

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	users, err := s.SeedUsers(*numUsers)
	if err != nil {
		log.Fatalf("User seeding failed: %v", err)
	}
	if err := s.SeedHoaxes(users, *numHoaxes); err != nil {
		log.Fatalf("Hoax seeding failed: %v", err)
	}

	log.Printf("Done. All seeded users have the password: %s", seed.DefaultPassword)
}
