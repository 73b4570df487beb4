package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"waste-collection-service/internal/adapters/repositories"
	"waste-collection-service/internal/adapters/sensorfeed"
	"waste-collection-service/internal/config"
	"waste-collection-service/internal/services"
	"waste-collection-service/internal/updater"
)

// main polls the sensor API on a schedule and applies readings to bins.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	conn, dialect, err := repositories.Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	var opts []sensorfeed.Option
	if cfg.SensorAPIToken != "" {
		opts = append(opts, sensorfeed.WithToken(cfg.SensorAPIToken))
	}
	feed, err := sensorfeed.NewClient(cfg.SensorAPIURL, opts...)
	if err != nil {
		log.Fatal(err)
	}

	bins := repositories.NewSQLBinRepository(conn, dialect)
	u := &updater.Updater{
		Sync: &services.SensorSync{Bins: bins, Readings: repositories.NewSQLSensorReadingRepository(conn, dialect)},
		Feed: feed,
		Bins: bins,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("Polling sensor data url=%s", cfg.SensorAPIURL)
	if err := u.Start(ctx, cfg.SensorSchedule); err != nil {
		log.Fatal(err)
	}

	<-ctx.Done()
	log.Println("Shutting down...")
	u.Stop()

	st := u.Stats()
	log.Printf("Final stats: total=%d ok=%d failed=%d success_rate=%.1f%%", st.Total, st.OK, st.Failed, st.SuccessRate())
}
