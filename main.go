package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"telecare/internal/config"
	"telecare/internal/database"
	"telecare/internal/license"
	"telecare/internal/router"
)

func main() {
	// load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if cfg.Auth.Secret == "" {
		cfg.Auth.Secret = config.DevSecret
		log.Printf("warning: no signing secret configured, using the development default; set PORTAL_AUTH_SECRET")
	}
	if cfg.Security.EncryptionKey == "" {
		log.Printf("warning: no encryption key configured, health payloads are stored in plaintext")
	}

	// ensure basic directories exist
	if err := ensureDir(filepath.Dir(cfg.Database.Path)); err != nil {
		log.Fatalf("create data dir: %v", err)
	}
	if err := ensureDir(cfg.Archive.Dir); err != nil {
		log.Fatalf("create archive dir: %v", err)
	}

	// init database
	db, err := database.Init(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}

	// run migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	// the license registry is an explicit store handed to the handlers,
	// constructed once here for the process lifetime
	licenses := license.NewRegistry(db)

	// setup router
	r := router.SetupRouter(cfg, db, licenses)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	log.Printf("server listening on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("run server: %v", err)
	}
}

func ensureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
