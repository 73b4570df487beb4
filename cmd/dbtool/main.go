package main

import (
	"context"
	"flag"
	"log"
	"math/rand"
	"time"
	"waste-collection-service/internal/adapters/repositories"
	"waste-collection-service/internal/config"
	"waste-collection-service/internal/platform/auth"
)

func main() {
	schemaOnly := flag.Bool("schema-only", false, "create the schema without seeding demo data")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log.Println("Initializing database schema...")
	conn, dialect, err := repositories.Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	defer conn.Close()
	log.Println("Schema ready.")

	if *schemaOnly {
		return
	}

	password := cfg.AdminPassword
	if password == "" {
		password, err = auth.RandomPassword(16)
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("ADMIN_PASSWORD not set, generated admin password: %s", password)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Fatal(err)
	}

	log.Println("Seeding database...")
	res, err := repositories.SeedDemo(context.Background(), conn, dialect, repositories.SeedOptions{
		Rand:              rand.New(rand.NewSource(cfg.SeedRandom)),
		Now:               time.Now().UTC(),
		AdminPasswordHash: hash,
	})
	if err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	log.Printf(
		"Seeding complete. bins=%d dumping_spots=%d trucks=%d roles=%d admin_created=%t",
		res.Bins, res.DumpingSpots, res.Trucks, res.Roles, res.AdminCreated,
	)
	if !res.AdminCreated {
		log.Println("Admin account already existed; its password was left unchanged.")
	}
}
