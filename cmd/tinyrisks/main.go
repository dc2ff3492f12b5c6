// Command tinyrisks runs the TinyRisks site backend.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"tinyrisks"
)

func main() {
	// A local .env is optional; real deployments set the environment.
	_ = godotenv.Load()

	cfg, err := tinyrisks.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	app := tinyrisks.New(cfg)
	if err := app.Setup(); err != nil {
		log.Fatal(err)
	}
	defer app.Close()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Listening on %s", cfg.Addr)
		errCh <- app.Start()
	}()

	select {
	case err := <-errCh:
		// Returning lets the deferred Close run before exit.
		if err != nil {
			log.Printf("server: %v", err)
		}
	case <-signals:
		log.Println("Shutting down gracefully...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.Shutdown(ctx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}
}
