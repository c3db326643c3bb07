package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/canvasspace/canvasaem/internal/auth"
	"github.com/canvasspace/canvasaem/internal/config"
	"github.com/canvasspace/canvasaem/internal/database"
	"github.com/canvasspace/canvasaem/internal/email"
	"github.com/canvasspace/canvasaem/internal/events"
	"github.com/canvasspace/canvasaem/internal/geoip"
	"github.com/canvasspace/canvasaem/internal/landing"
	"github.com/canvasspace/canvasaem/internal/lead"
	"github.com/canvasspace/canvasaem/internal/notify"
	"github.com/canvasspace/canvasaem/internal/server"
	"github.com/canvasspace/canvasaem/internal/session"
	slackpkg "github.com/canvasspace/canvasaem/internal/slack"
	"github.com/canvasspace/canvasaem/internal/storage"
	webhookpkg "github.com/canvasspace/canvasaem/internal/webhook"
)

const usage = `usage: canvasaem [command]

commands:
  (none)                  run the HTTP server
  hash-admin-key <key>    print the bcrypt hash for ADMIN_API_KEY_HASH
  upload-demo <file>      upload the demo video to S3 under DEMO_VIDEO_KEY
  help                    list supported environment variables
`

func main() {
	if len(os.Args) > 1 {
		if err := runCommand(os.Args[1], os.Args[2:]); err != nil {
			log.Fatal(err)
		}
		return
	}
	serve()
}

func runCommand(name string, args []string) error {
	switch name {
	case "hash-admin-key":
		if len(args) != 1 {
			return errors.New("hash-admin-key expects exactly one key")
		}
		hash, err := auth.HashAdminKey(args[0])
		if err != nil {
			return err
		}
		fmt.Println(hash)
		return nil
	case "upload-demo":
		if len(args) != 1 {
			return errors.New("upload-demo expects exactly one file")
		}
		return uploadDemo(args[0])
	case "help", "-h", "--help":
		desc, err := config.Description()
		if err != nil {
			return err
		}
		fmt.Print(usage + "\n" + desc + "\n")
		return nil
	default:
		return fmt.Errorf("unknown command %q\n%s", name, usage)
	}
}

func uploadDemo(path string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration: %w", err)
	}
	if !cfg.Storage.Enabled() {
		return errors.New("S3_ENDPOINT is required to upload the demo video")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	store, err := newStorage(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	if err := store.EnsureBucket(ctx); err != nil {
		return fmt.Errorf("storage bucket check: %w", err)
	}
	if err := store.UploadMedia(ctx, cfg.Storage.DemoVideoKey, path); err != nil {
		return err
	}
	log.Printf("uploaded %s to %s/%s", path, cfg.Storage.Bucket, cfg.Storage.DemoVideoKey)
	return nil
}

func newStorage(ctx context.Context, cfg config.Storage) (*storage.Storage, error) {
	store, err := storage.New(ctx, storage.Config{
		Endpoint:       cfg.Endpoint,
		PublicEndpoint: cfg.PublicEndpoint,
		Bucket:         cfg.Bucket,
		AccessKey:      cfg.AccessKey,
		SecretKey:      cfg.SecretKey,
		Region:         cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("storage initialization: %w", err)
	}
	return store, nil
}

func serve() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration invalid: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}
	log.Println("database migrations applied")

	landingCfg := landing.Config{
		VideoURL:         cfg.Storage.DemoVideoURL,
		ThresholdSeconds: cfg.Gate.ThresholdSeconds,
	}
	storageEndpoint := ""
	if cfg.Storage.Enabled() {
		store, err := newStorage(ctx, cfg.Storage)
		if err != nil {
			log.Fatal(err)
		}
		if err := store.EnsureBucket(ctx); err != nil {
			log.Fatalf("storage bucket check failed: %v", err)
		}
		if err := store.SetCORS(ctx, []string{cfg.BaseURL}); err != nil {
			log.Printf("storage CORS update failed: %v", err)
		}
		if info, err := store.StatMedia(ctx, cfg.Storage.DemoVideoKey); err != nil {
			log.Printf("demo video %s not found, run upload-demo: %v", cfg.Storage.DemoVideoKey, err)
		} else {
			log.Printf("demo video ready (%d bytes, %s)", info.Size, info.ContentType)
		}
		landingCfg.Media = store
		landingCfg.VideoKey = cfg.Storage.DemoVideoKey
		storageEndpoint = cfg.Storage.PublicEndpoint
		if storageEndpoint == "" {
			storageEndpoint = cfg.Storage.Endpoint
		}
		log.Println("storage bucket ready")
	}

	geo, err := geoip.New(cfg.GeoIPDBPath)
	if err != nil {
		log.Fatalf("geoip initialization failed: %v", err)
	}
	defer geo.Close()

	notifier := notify.NewMultiLeadNotifier()
	if webhookClient := webhookpkg.New(db.Pool, webhookpkg.Config{URL: cfg.LeadWebhookURL, Secret: cfg.LeadWebhookSecret}); webhookClient.Enabled() {
		notifier.Add("webhook", webhookClient)
	}
	if slackClient := slackpkg.New(cfg.SlackWebhookURL); slackClient.Enabled() {
		notifier.Add("slack", slackClient)
	}
	if cfg.Email.ListmonkURL != "" {
		notifier.Add("email", email.New(email.Config{
			BaseURL:         cfg.Email.ListmonkURL,
			Username:        cfg.Email.ListmonkUser,
			Password:        cfg.Email.ListmonkPassword,
			LeadTemplateID:  cfg.Email.LeadTemplateID,
			AlertTemplateID: cfg.Email.AlertTemplateID,
			SalesEmail:      cfg.Email.SalesEmail,
			DemoURL:         cfg.BaseURL,
		}))
	}
	if publisher := events.NewPublisher(cfg.KafkaBrokers, cfg.KafkaLeadTopic); publisher != nil {
		defer publisher.Close()
		notifier.Add("kafka", publisher)
	}
	log.Printf("lead notifications: %d channel(s)", notifier.Len())

	leadRepo := lead.NewRepository(db.Pool)
	leadService := lead.NewService(leadRepo, geo, notifier)

	threshold := cfg.Gate.Threshold()
	hub := session.NewHub(session.Config{
		Secret:        cfg.SessionSecret,
		Threshold:     &threshold,
		UnlockDelay:   cfg.Gate.UnlockDelay,
		FlashDuration: cfg.Gate.FlashDuration,
		SnapQuiet:     cfg.Gate.SnapQuiet,
		TTL:           cfg.Gate.SessionTTL,
		Capturer:      leadService,
	})

	sweepCtx, sweepCancel := context.WithCancel(context.Background())
	defer sweepCancel()
	session.StartSweepLoop(sweepCtx, hub, time.Minute)

	if cfg.AdminAPIKeyHash != "" {
		log.Println("admin lead API enabled")
	}

	srv := server.New(server.Config{
		Pinger:                db,
		Sessions:              session.NewHandler(hub),
		SessionSecret:         cfg.SessionSecret,
		Leads:                 lead.NewHandler(leadRepo),
		AdminKeyHash:          cfg.AdminAPIKeyHash,
		Landing:               landing.NewHandler(landingCfg),
		BaseURL:               cfg.BaseURL,
		StorageEndpoint:       storageEndpoint,
		AllowedFrameAncestors: cfg.AllowedFrameAncestors,
		EnableDocs:            cfg.APIDocsEnabled,
	})
	defer srv.Close()

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("canvasaem listening on :%s", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-shutdownCh
	log.Println("shutting down...")

	hub.CloseAll()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("shutdown failed: %v", err)
	}
	log.Println("shutdown complete")
}
