package refresher

import (
	"context"
	"fmt"
	"time"

	"github.com/dealdrop/dealdrop/internal/app/tracking"
	"github.com/dealdrop/dealdrop/internal/models"
	"github.com/dealdrop/dealdrop/pkg/worker"
	log "github.com/sirupsen/logrus"
)

// Start blocks, sweeping the store once immediately and then on every tick,
// until the context is cancelled.
func (c *Refresher) Start(ctx context.Context) error {
	log.
		WithField("refresher.interval", c.config.Interval).
		Info("refresher starting")

	ticker := time.NewTicker(c.config.Interval)
	defer ticker.Stop()

	if err := c.runSweep(ctx); err != nil {
		log.Errorf("refresher sweep failed: %v", err)
	}

	for {
		select {
		case <-ctx.Done():
			log.Info("refresher stopped: context cancelled")
			return ctx.Err()

		case <-ticker.C:
			if err := c.runSweep(ctx); err != nil {
				log.Errorf("refresher sweep failed: %v", err)
			}
		}
	}
}

// RunOnce performs a single sweep. Used when the binary runs under an
// external scheduler instead of its own ticker.
func (c *Refresher) RunOnce(ctx context.Context) error {
	return c.runSweep(ctx)
}

func (c *Refresher) runSweep(ctx context.Context) error {
	count := c.config.Workers
	if count == 0 {
		count = worker.DefaultCount
	}

	pool := worker.NewPool(ctx, count)

	err := c.deps.Storage.ScanProducts(ctx, func(ctx context.Context, product *models.TrackedProduct) error {
		pool.Push(func(ctx context.Context) error {
			c.handleProduct(ctx, product)
			return nil
		})

		return nil
	})

	pool.StopWait()

	if err != nil {
		return fmt.Errorf("c.deps.Storage.ScanProducts: %w", err)
	}

	log.Info("refresher sweep completed")

	return nil
}

// handleProduct refreshes one product; failures are logged and skipped so a
// single bad page never aborts the sweep.
func (c *Refresher) handleProduct(ctx context.Context, product *models.TrackedProduct) {
	owner := models.Owner{
		ID:             product.OwnerID,
		Email:          product.Notify.Email,
		TelegramChatID: product.Notify.TelegramChatID,
	}

	outcome, err := c.deps.Tracking.AddOrRefresh(ctx, tracking.AddOrRefreshParams{
		Owner: owner,
		URL:   product.URL,
	})
	if err != nil {
		log.
			WithFields(log.Fields{
				"product.id":  product.ID,
				"product.url": product.URL,
			}).
			Errorf("product refresh failed: %v", err)

		return
	}

	log.
		WithFields(log.Fields{
			"product.id":      product.ID,
			"product.url":     product.URL,
			"outcome.status":  outcome.Status,
			"outcome.alerted": outcome.Alerted,
		}).
		Info("product refreshed")
}
