package tracking

import (
	"sync"

	"github.com/dealdrop/dealdrop/internal/models"
	"github.com/dealdrop/dealdrop/pkg/cache"
)

const (
	messageAdded   = "Product added successfully!"
	messageUpdated = "Product updated with latest price!"
)

func (c *Tracking) lockKey(ownerID, url string) *sync.Mutex {
	key := cache.Key[string, string]{P: ownerID, S: url}

	return c.locks.GetOrSet(key, &sync.Mutex{})
}

func makeOutcome(reconciliation *models.Reconciliation, product *models.TrackedProduct, alerted bool) *models.SessionOutcome {
	outcome := &models.SessionOutcome{
		Product:        product,
		Reconciliation: reconciliation,
		Alerted:        alerted,
		Message:        messageUpdated,
	}

	switch reconciliation.Kind {
	case models.ReconciliationCreated:
		outcome.Status = models.SessionStatusCreated
		outcome.Message = messageAdded

	case models.ReconciliationUnchanged:
		outcome.Status = models.SessionStatusUnchanged

	default:
		outcome.Status = models.SessionStatusUpdated
	}

	return outcome
}
