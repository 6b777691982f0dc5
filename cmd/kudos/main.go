package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/calebwray/kudos/internal/backup"
	"github.com/calebwray/kudos/internal/catalog"
	"github.com/calebwray/kudos/internal/clock"
	"github.com/calebwray/kudos/internal/database"
	"github.com/calebwray/kudos/internal/logging"
	"github.com/calebwray/kudos/internal/server"
	"github.com/calebwray/kudos/internal/store"
)

func main() {
	logger := logging.Setup(os.Getenv("KUDOS_LOG_LEVEL"), os.Getenv("KUDOS_LOG_FORMAT"))

	port := os.Getenv("KUDOS_PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("KUDOS_DB_PATH")
	if dbPath == "" {
		dbPath = "kudos.db"
	}

	db, err := database.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	cat, err := catalog.Load(os.Getenv("KUDOS_CATALOG_PATH"))
	if err != nil {
		log.Fatalf("failed to load catalog: %v", err)
	}
	logger.Info("catalog loaded", "version", cat.Version, "activities", len(cat.Activities), "rewards", len(cat.Rewards))

	srv := server.New(db, cat, clock.System{}, logger)

	backupCfg := backup.Config{
		S3: backup.S3Config{
			Endpoint:  os.Getenv("KUDOS_S3_ENDPOINT"),
			Bucket:    os.Getenv("KUDOS_S3_BUCKET"),
			Region:    os.Getenv("KUDOS_S3_REGION"),
			AccessKey: os.Getenv("KUDOS_S3_ACCESS_KEY"),
			SecretKey: os.Getenv("KUDOS_S3_SECRET_KEY"),
		},
		DBPath:     dbPath,
		Passphrase: os.Getenv("KUDOS_BACKUP_PASSPHRASE"),
	}
	if h, err := strconv.Atoi(os.Getenv("KUDOS_BACKUP_HOUR")); err == nil {
		backupCfg.ScheduleHour = h
	}
	if d, err := strconv.Atoi(os.Getenv("KUDOS_BACKUP_RETENTION_DAYS")); err == nil {
		backupCfg.RetentionDays = d
	}

	backupMgr := backup.NewManager(backupCfg, db, store.NewBackupStore(db), logger.With("component", "backup"))
	backupMgr.Start(context.Background())
	defer backupMgr.Stop()

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("kudos listening", "port", port, "db", dbPath)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}
