package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dealdrop/dealdrop/internal/alerter"
	"github.com/dealdrop/dealdrop/internal/app/refresher"
	"github.com/dealdrop/dealdrop/internal/app/tracking"
	"github.com/dealdrop/dealdrop/internal/config"
	"github.com/dealdrop/dealdrop/internal/deps/extractor/firecrawl"
	"github.com/dealdrop/dealdrop/internal/deps/extractor/htmlmeta"
	"github.com/dealdrop/dealdrop/internal/deps/mailer/resend"
	"github.com/dealdrop/dealdrop/internal/deps/storage/mongodb"
	"github.com/dealdrop/dealdrop/internal/deps/telegram"
	"github.com/dealdrop/dealdrop/internal/models"
	"github.com/dealdrop/dealdrop/pkg/logger"
	"github.com/dealdrop/dealdrop/pkg/parser/xpath"
	"github.com/go-resty/resty/v2"
	log "github.com/sirupsen/logrus"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger.Init()

	cfg := config.Load()

	mongoClient, err := mongodb.NewClient(ctx,
		mongodb.Config{
			Host: cfg.Mongodb.Host,
			Port: cfg.Mongodb.Port,
			Authentication: &mongodb.Authentication{
				User:     cfg.Mongodb.User,
				Password: cfg.Mongodb.Password,
			},
		},
		mongodb.Dependencies{
			Client: http.DefaultClient,
		})
	if err != nil {
		log.Fatalf("mongodb.NewClient: %v", err)
	}

	storage, err := mongodb.NewStorage(
		mongodb.StorageConfig{
			Database: cfg.Mongodb.Database,
		},
		mongodb.StorageDependencies{
			Client: mongoClient,
		})
	if err != nil {
		log.Fatalf("mongodb.NewStorage: %v", err)
	}

	trackingApp, err := tracking.NewTracking(tracking.Dependencies{
		Extractor: makeExtractor(cfg),
		Storage:   storage,
		Alerter:   makeAlerter(cfg, storage),
	})
	if err != nil {
		log.Fatalf("tracking.NewTracking: %v", err)
	}

	refresherCron, err := refresher.NewRefresher(
		refresher.Config{
			Interval: time.Duration(cfg.Refresher.IntervalSeconds) * time.Second,
			Workers:  cfg.Refresher.Workers,
		},
		refresher.Dependencies{
			Tracking: trackingApp,
			Storage:  storage,
		})
	if err != nil {
		log.Fatalf("refresher.NewRefresher: %v", err)
	}

	if cfg.Refresher.RunOnce {
		if err = refresherCron.RunOnce(ctx); err != nil {
			log.Fatalf("refresherCron.RunOnce: %v", err)
		}

		return
	}

	if err = refresherCron.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("refresherCron.Start: %v", err)
	}
}

func makeExtractor(cfg config.Config) models.Extractor {
	timeout := time.Duration(cfg.Extractor.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client := resty.New().SetTimeout(timeout)

	if cfg.Extractor.Backend == config.FirecrawlBackend {
		out, err := firecrawl.NewClient(
			firecrawl.Config{
				BaseURL: cfg.Extractor.Firecrawl.BaseURL,
				APIKey:  cfg.Extractor.Firecrawl.APIKey,
			},
			firecrawl.Dependencies{
				Client: client,
			})
		if err != nil {
			log.Fatalf("firecrawl.NewClient: %v", err)
		}

		return out
	}

	out, err := htmlmeta.NewExtractor(htmlmeta.Dependencies{
		Xpath: xpath.NewParser(xpath.Dependencies{Client: client}),
	})
	if err != nil {
		log.Fatalf("htmlmeta.NewExtractor: %v", err)
	}

	return out
}

func makeAlerter(cfg config.Config, storage *mongodb.Storage) *alerter.Alerter {
	transports := make(map[models.AlertChannel]models.AlertTransport)

	if cfg.Alerts.Resend.APIKey != "" {
		baseURL := cfg.Alerts.Resend.BaseURL
		if baseURL == "" {
			baseURL = "https://api.resend.com"
		}

		mailer, err := resend.NewClient(
			resend.Config{
				BaseURL: baseURL,
				APIKey:  cfg.Alerts.Resend.APIKey,
				From:    cfg.Alerts.Resend.From,
			},
			resend.Dependencies{
				Client: resty.New(),
			})
		if err != nil {
			log.Fatalf("resend.NewClient: %v", err)
		}

		transports[models.EmailAlertChannel] = mailer
	}

	if cfg.Alerts.Telegram.Token != "" {
		bot, err := telegram.NewBotClient(telegram.Config{Token: cfg.Alerts.Telegram.Token})
		if err != nil {
			log.Fatalf("telegram.NewBotClient: %v", err)
		}

		transports[models.TelegramAlertChannel] = telegram.NewNotifier(telegram.NotifierDependencies{Telegram: bot})
	}

	out, err := alerter.NewAlerter(
		alerter.Config{
			AppURL: cfg.AppURL,
		},
		alerter.Dependencies{
			Transports: transports,
			Audit:      storage,
		})
	if err != nil {
		log.Fatalf("alerter.NewAlerter: %v", err)
	}

	return out
}
