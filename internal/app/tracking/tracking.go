package tracking

import (
	"context"
	"fmt"
	"sync"

	"github.com/dealdrop/dealdrop/internal/alerter"
	"github.com/dealdrop/dealdrop/internal/models"
	"github.com/dealdrop/dealdrop/pkg/cache"
	"github.com/go-playground/validator/v10"
)

// Storage is the persistence gateway the session drives. FindProduct returns
// (nil, nil) when the (owner, url) pair is not tracked; UpsertProduct is
// atomic per key. WithTransaction commits every call made through the
// callback context as one unit.
type Storage interface {
	WithTransaction(ctx context.Context, callback func(txCtx context.Context) error) error
	FindProduct(ctx context.Context, ownerID, url string) (*models.TrackedProduct, error)
	UpsertProduct(ctx context.Context, params models.UpsertProductParams) (*models.TrackedProduct, error)
	AppendHistory(ctx context.Context, entry models.PriceHistoryEntry) error
	DeleteProduct(ctx context.Context, ownerID, productID string) error
	ListProducts(ctx context.Context, ownerID string) ([]models.TrackedProduct, error)
	ListHistory(ctx context.Context, productID string) ([]models.PriceHistoryEntry, error)
}

type Alerter interface {
	NotifyPriceDrop(ctx context.Context, params alerter.NotifyPriceDropParams) error
}

// Tracking runs add/refresh sessions: extract, normalize, reconcile, persist,
// conditionally alert. Each session is sequential; sessions for different
// keys run concurrently.
type Tracking struct {
	deps  Dependencies
	locks *cache.Cache[string, string, *sync.Mutex]
}

type Dependencies struct {
	Extractor models.Extractor `validate:"required"`
	Storage   Storage          `validate:"required"`
	Alerter   Alerter          `validate:"required"`
}

func (c *Dependencies) Validate() error {
	return validator.New().Struct(c)
}

func NewTracking(deps Dependencies) (*Tracking, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dependencies: %w", err)
	}

	return &Tracking{
		deps:  deps,
		locks: cache.NewCache[string, string, *sync.Mutex](),
	}, nil
}
