package refresher

import (
	"context"
	"fmt"
	"time"

	"github.com/dealdrop/dealdrop/internal/app/tracking"
	"github.com/dealdrop/dealdrop/internal/models"
	"github.com/go-playground/validator/v10"
)

const DefaultInterval = time.Hour

// Refresher periodically re-runs a tracking session for every stored
// product, so price drops are caught without anyone pressing refresh.
type Refresher struct {
	config Config
	deps   Dependencies
}

type Config struct {
	Interval time.Duration
	Workers  uint8
}

type Dependencies struct {
	Tracking *tracking.Tracking `validate:"required"`
	Storage  ProductScanner     `validate:"required"`
}

func (c *Dependencies) Validate() error {
	return validator.New().Struct(c)
}

// ProductScanner walks every tracked product in the store.
type ProductScanner interface {
	ScanProducts(ctx context.Context, callback func(ctx context.Context, product *models.TrackedProduct) error) error
}

func NewRefresher(config Config, deps Dependencies) (*Refresher, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dependencies: %w", err)
	}

	if config.Interval <= 0 {
		config.Interval = DefaultInterval
	}

	return &Refresher{
		config: config,
		deps:   deps,
	}, nil
}
