package tracking

import (
	"context"
	"fmt"

	"github.com/dealdrop/dealdrop/internal/alerter"
	"github.com/dealdrop/dealdrop/internal/models"
	"github.com/dealdrop/dealdrop/pkg/validator"
	log "github.com/sirupsen/logrus"
)

type AddOrRefreshParams struct {
	Owner models.Owner
	URL   string
}

// AddOrRefresh runs one tracking session for the (owner, url) pair.
//
// The session is atomic-or-nothing up through persistence: extraction and
// validation failures leave the store untouched. A notification failure after
// the write is logged and never fails the session.
func (c *Tracking) AddOrRefresh(ctx context.Context, params AddOrRefreshParams) (*models.SessionOutcome, error) {
	if err := params.Owner.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUnauthenticated, err)
	}

	if err := validator.URL(params.URL); err != nil {
		return nil, fmt.Errorf("%w: url %q: %v", models.ErrInvalidInput, params.URL, err)
	}

	// Serializes read-decide-write per key: two concurrent refreshes of the
	// same product cannot interleave between FindProduct and AppendHistory.
	mu := c.lockKey(params.Owner.ID, params.URL)
	mu.Lock()
	defer mu.Unlock()

	raw, err := c.deps.Extractor.Extract(ctx, models.ExtractParams{URL: params.URL})
	if err != nil {
		return nil, fmt.Errorf("c.deps.Extractor.Extract: %w", err)
	}

	snapshot, err := models.NewProductSnapshot(*raw)
	if err != nil {
		return nil, fmt.Errorf("models.NewProductSnapshot: %w", err)
	}

	var (
		product        *models.TrackedProduct
		reconciliation *models.Reconciliation
	)

	// Find, upsert and history append commit as one unit. The in-process lock
	// above does not reach a session running in another binary against the
	// same store; the transaction does.
	err = c.deps.Storage.WithTransaction(ctx, func(ctx context.Context) error {
		existing, err := c.deps.Storage.FindProduct(ctx, params.Owner.ID, params.URL)
		if err != nil {
			return fmt.Errorf("c.deps.Storage.FindProduct: %w", err)
		}

		reconciliation = models.NewReconciliation(
			models.TrackingKey{
				OwnerID: params.Owner.ID,
				URL:     params.URL,
			},
			*snapshot, existing,
		)
		reconciliation.Upsert.Notify = params.Owner.NotifyParams()

		product, err = c.deps.Storage.UpsertProduct(ctx, reconciliation.Upsert)
		if err != nil {
			return fmt.Errorf("c.deps.Storage.UpsertProduct: %w", err)
		}

		if reconciliation.NeedsHistory {
			err = c.deps.Storage.AppendHistory(ctx, models.PriceHistoryEntry{
				ProductID: product.ID,
				Price:     snapshot.Price,
				Currency:  snapshot.Currency,
			})
			if err != nil {
				return fmt.Errorf("c.deps.Storage.AppendHistory: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("c.deps.Storage.WithTransaction: %w", err)
	}

	alerted := false

	if reconciliation.IsDrop() {
		err = c.deps.Alerter.NotifyPriceDrop(ctx, alerter.NotifyPriceDropParams{
			Recipient: product.Notify,
			Product:   *product,
			OldPrice:  reconciliation.OldPrice,
			NewPrice:  reconciliation.NewPrice,
		})
		if err != nil {
			// The price update is already committed; the alert is best-effort.
			log.
				WithFields(log.Fields{
					"product.id":  product.ID,
					"product.url": product.URL,
				}).
				Errorf("price drop alert failed: %v", err)
		} else {
			alerted = true
		}
	}

	return makeOutcome(reconciliation, product, alerted), nil
}

type DeleteParams struct {
	OwnerID   string
	ProductID string
}

// Delete removes an owner's tracked product together with its history.
func (c *Tracking) Delete(ctx context.Context, params DeleteParams) error {
	if params.OwnerID == "" {
		return fmt.Errorf("%w: owner id is empty", models.ErrUnauthenticated)
	}
	if params.ProductID == "" {
		return fmt.Errorf("%w: product id is empty", models.ErrInvalidInput)
	}

	if err := c.deps.Storage.DeleteProduct(ctx, params.OwnerID, params.ProductID); err != nil {
		return fmt.Errorf("c.deps.Storage.DeleteProduct: %w", err)
	}

	return nil
}

// ListProducts returns the owner's tracked products, newest first.
func (c *Tracking) ListProducts(ctx context.Context, ownerID string) ([]models.TrackedProduct, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner id is empty", models.ErrUnauthenticated)
	}

	products, err := c.deps.Storage.ListProducts(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("c.deps.Storage.ListProducts: %w", err)
	}

	return products, nil
}

// ListHistory returns a product's price history, oldest first.
func (c *Tracking) ListHistory(ctx context.Context, productID string) ([]models.PriceHistoryEntry, error) {
	if productID == "" {
		return nil, fmt.Errorf("%w: product id is empty", models.ErrInvalidInput)
	}

	entries, err := c.deps.Storage.ListHistory(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("c.deps.Storage.ListHistory: %w", err)
	}

	return entries, nil
}
