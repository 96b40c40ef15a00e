package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/2beens/fitjournal/internal/config"
	"github.com/2beens/fitjournal/internal/db"

	"github.com/joho/godotenv"
)

// creates the fitjournal tables (idempotent)
func main() {
	fmt.Println("starting postgres schema setup ...")

	env := flag.String("env", "development", "environment [prod | production | dev | development | ddev | dockerdev ]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	flag.Parse()

	// .env is optional here
	_ = godotenv.Load()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:     cfg.PostgresHost,
		DBPort:     cfg.PostgresPort,
		DBName:     cfg.PostgresDBName,
		DBUser:     cfg.PostgresUser,
		DBPassword: os.Getenv("FJ_POSTGRES_PASS"),
	})
	if err != nil {
		fmt.Printf("db pool: %s\n", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	if err := db.EnsureSchema(ctx, dbPool); err != nil {
		fmt.Printf("schema setup failed: %s\n", err)
		os.Exit(1)
	}

	fmt.Println("\nschema setup completed")
}
