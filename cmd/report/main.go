package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"
	"waste-collection-service/internal/adapters/repositories"
	"waste-collection-service/internal/config"
	"waste-collection-service/internal/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	out := flag.String("out", cfg.ReportPath, "path of the xlsx file to write")
	flag.Parse()

	conn, dialect, err := repositories.Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("create report file: %v", err)
	}

	src := report.Source{
		Bins:   repositories.NewSQLBinRepository(conn, dialect),
		Spots:  repositories.NewSQLDumpingSpotRepository(conn, dialect),
		Trucks: repositories.NewSQLTruckRepository(conn, dialect),
	}
	if err := report.Write(context.Background(), f, src, time.Now()); err != nil {
		f.Close()
		log.Fatalf("report failed: %v", err)
	}
	if err := f.Close(); err != nil {
		log.Fatalf("close report file: %v", err)
	}

	log.Printf("Report written path=%s", *out)
}
