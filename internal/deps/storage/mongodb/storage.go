package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dealdrop/dealdrop/internal/models"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

const (
	productsCollection = "products"
	historyCollection  = "price_history"
	alertsCollection   = "alerts"
)

// Storage is the persistence gateway for tracked products, their price
// history and the alert audit trail, on top of the generic client.
type Storage struct {
	config StorageConfig
	deps   StorageDependencies
}

type StorageConfig struct {
	Database string `validate:"required"`
}

func (c *StorageConfig) Validate() error {
	return validator.New().Struct(c)
}

type StorageDependencies struct {
	Client *Client `validate:"required"`
}

func (c *StorageDependencies) Validate() error {
	return validator.New().Struct(c)
}

func NewStorage(config StorageConfig, deps StorageDependencies) (*Storage, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dependencies: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Storage{
		config: config,
		deps:   deps,
	}, nil
}

func (s *Storage) commonParams(collection string, structType any) CommonParams {
	return CommonParams{
		Database:   s.config.Database,
		Collection: collection,
		StructType: structType,
	}
}

// FindProduct returns the record for the (owner, url) pair, or nil when the
// pair is not tracked yet.
func (s *Storage) FindProduct(ctx context.Context, ownerID, url string) (*models.TrackedProduct, error) {
	out, err := s.deps.Client.Get(ctx, GetParams{
		CommonParams: s.commonParams(productsCollection, trackedProductDoc{}),
		Filters: map[string]any{
			"owner_id": ownerID,
			"url":      url,
		},
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: s.deps.Client.Get: %v", models.ErrPersistenceFailed, err)
	}

	doc, ok := out.(*trackedProductDoc)
	if !ok {
		return nil, fmt.Errorf("%w: cast %T to %T failed", models.ErrPersistenceFailed, out, new(trackedProductDoc))
	}

	product, err := doc.toModel()
	if err != nil {
		return nil, fmt.Errorf("%w: doc.toModel: %v", models.ErrPersistenceFailed, err)
	}

	return product, nil
}

// UpsertProduct atomically creates or updates the record keyed on
// (owner_id, url) and returns the stored state after the write.
func (s *Storage) UpsertProduct(ctx context.Context, params models.UpsertProductParams) (*models.TrackedProduct, error) {
	price, err := toDecimal128(params.Price)
	if err != nil {
		return nil, fmt.Errorf("%w: toDecimal128: %v", models.ErrPersistenceFailed, err)
	}

	now := time.Now().UTC()

	out, err := s.deps.Client.UpsertOne(ctx, UpsertParams{
		CommonParams: s.commonParams(productsCollection, trackedProductDoc{}),
		Filters: map[string]any{
			"owner_id": params.OwnerID,
			"url":      params.URL,
		},
		Set: bson.M{
			"name":          params.Name,
			"current_price": price,
			"currency":      params.Currency,
			"image_url":     params.ImageURL,
			"notify":        makeNotifyDoc(params.Notify),
			"updated_at":    now,
		},
		SetOnInsert: bson.M{
			"id":         uuid.NewString(),
			"created_at": now,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: s.deps.Client.UpsertOne: %v", models.ErrPersistenceFailed, err)
	}

	doc, ok := out.(*trackedProductDoc)
	if !ok {
		return nil, fmt.Errorf("%w: cast %T to %T failed", models.ErrPersistenceFailed, out, new(trackedProductDoc))
	}

	product, err := doc.toModel()
	if err != nil {
		return nil, fmt.Errorf("%w: doc.toModel: %v", models.ErrPersistenceFailed, err)
	}

	return product, nil
}

func (s *Storage) AppendHistory(ctx context.Context, entry models.PriceHistoryEntry) error {
	price, err := toDecimal128(entry.Price)
	if err != nil {
		return fmt.Errorf("%w: toDecimal128: %v", models.ErrPersistenceFailed, err)
	}

	observedAt := entry.ObservedAt
	if observedAt.IsZero() {
		observedAt = time.Now().UTC()
	}

	_, err = s.deps.Client.Insert(ctx, InsertParams{
		CommonParams: s.commonParams(historyCollection, nil),
		Document: priceHistoryDoc{
			ProductID:  entry.ProductID,
			Price:      price,
			Currency:   entry.Currency,
			ObservedAt: observedAt,
		},
	})
	if err != nil {
		return fmt.Errorf("%w: s.deps.Client.Insert: %v", models.ErrPersistenceFailed, err)
	}

	return nil
}

// DeleteProduct removes an owner's record and all of its history entries.
// The (id, owner_id) pair is resolved before anything is deleted: a request
// carrying another owner's product id must not touch that product's history.
// The cascade then removes history first so a failure in between never
// leaves orphaned rows.
func (s *Storage) DeleteProduct(ctx context.Context, ownerID, productID string) error {
	_, err := s.deps.Client.Get(ctx, GetParams{
		CommonParams: s.commonParams(productsCollection, trackedProductDoc{}),
		Filters: map[string]any{
			"id":       productID,
			"owner_id": ownerID,
		},
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return fmt.Errorf("%w: s.deps.Client.Get: %v", models.ErrPersistenceFailed, err)
	}

	_, err = s.deps.Client.Delete(ctx, DeleteParams{
		CommonParams: s.commonParams(historyCollection, nil),
		Filters: map[string]any{
			"product_id": productID,
		},
	})
	if err != nil {
		return fmt.Errorf("%w: s.deps.Client.Delete history: %v", models.ErrPersistenceFailed, err)
	}

	_, err = s.deps.Client.Delete(ctx, DeleteParams{
		CommonParams: s.commonParams(productsCollection, nil),
		Filters: map[string]any{
			"id":       productID,
			"owner_id": ownerID,
		},
	})
	if err != nil {
		return fmt.Errorf("%w: s.deps.Client.Delete product: %v", models.ErrPersistenceFailed, err)
	}

	return nil
}

func (s *Storage) ListProducts(ctx context.Context, ownerID string) ([]models.TrackedProduct, error) {
	out, err := s.deps.Client.Find(ctx, FindParams{
		CommonParams: s.commonParams(productsCollection, trackedProductDoc{}),
		Filters: map[string]any{
			"owner_id": ownerID,
		},
		Sort: bson.D{{Key: "created_at", Value: -1}},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: s.deps.Client.Find: %v", models.ErrPersistenceFailed, err)
	}

	products := make([]models.TrackedProduct, 0, len(out))

	for _, value := range out {
		doc, ok := value.(*trackedProductDoc)
		if !ok {
			return nil, fmt.Errorf("%w: cast %T to %T failed", models.ErrPersistenceFailed, value, new(trackedProductDoc))
		}

		product, err := doc.toModel()
		if err != nil {
			return nil, fmt.Errorf("%w: doc.toModel: %v", models.ErrPersistenceFailed, err)
		}

		products = append(products, *product)
	}

	return products, nil
}

func (s *Storage) ListHistory(ctx context.Context, productID string) ([]models.PriceHistoryEntry, error) {
	out, err := s.deps.Client.Find(ctx, FindParams{
		CommonParams: s.commonParams(historyCollection, priceHistoryDoc{}),
		Filters: map[string]any{
			"product_id": productID,
		},
		Sort: bson.D{{Key: "observed_at", Value: 1}},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: s.deps.Client.Find: %v", models.ErrPersistenceFailed, err)
	}

	entries := make([]models.PriceHistoryEntry, 0, len(out))

	for _, value := range out {
		doc, ok := value.(*priceHistoryDoc)
		if !ok {
			return nil, fmt.Errorf("%w: cast %T to %T failed", models.ErrPersistenceFailed, value, new(priceHistoryDoc))
		}

		entry, err := doc.toModel()
		if err != nil {
			return nil, fmt.Errorf("%w: doc.toModel: %v", models.ErrPersistenceFailed, err)
		}

		entries = append(entries, *entry)
	}

	return entries, nil
}

// ScanProducts walks every tracked product, calling back one at a time.
// Used by the scheduled refresher.
func (s *Storage) ScanProducts(ctx context.Context, callback func(ctx context.Context, product *models.TrackedProduct) error) error {
	err := s.deps.Client.Scan(ctx, ScanParams{
		CommonParams: s.commonParams(productsCollection, trackedProductDoc{}),
		Callback: func(ctx context.Context, value any) error {
			doc, ok := value.(*trackedProductDoc)
			if !ok {
				return fmt.Errorf("cast %T to %T failed", value, new(trackedProductDoc))
			}

			product, err := doc.toModel()
			if err != nil {
				return fmt.Errorf("doc.toModel: %w", err)
			}

			return callback(ctx, product)
		},
	})
	if err != nil {
		return fmt.Errorf("%w: s.deps.Client.Scan: %v", models.ErrPersistenceFailed, err)
	}

	return nil
}

// WithTransaction runs callback with every storage call made through its
// context committed as one unit. This is what keeps a session's
// find-reconcile-write sequence atomic across processes: the API server and
// the refresher share the store but not the in-process locks.
func (s *Storage) WithTransaction(ctx context.Context, callback func(txCtx context.Context) error) error {
	return s.deps.Client.WithTransaction(ctx, callback)
}

// InsertAlert appends one dispatched alert to the audit trail.
func (s *Storage) InsertAlert(ctx context.Context, message models.AlertMessage) error {
	doc, err := makeAlertDoc(message)
	if err != nil {
		return fmt.Errorf("%w: makeAlertDoc: %v", models.ErrPersistenceFailed, err)
	}

	_, err = s.deps.Client.Insert(ctx, InsertParams{
		CommonParams: s.commonParams(alertsCollection, nil),
		Document:     doc,
	})
	if err != nil {
		return fmt.Errorf("%w: s.deps.Client.Insert: %v", models.ErrPersistenceFailed, err)
	}

	return nil
}
