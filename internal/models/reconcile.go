package models

import "github.com/shopspring/decimal"

const (
	ReconciliationCreated         ReconciliationKind = "created"
	ReconciliationUnchanged       ReconciliationKind = "unchanged"
	ReconciliationPriceChanged    ReconciliationKind = "price_changed"
	ReconciliationCurrencyChanged ReconciliationKind = "currency_changed"
)

type ReconciliationKind = string

// TrackingKey identifies one tracked product: the (owner, url) unique pair.
type TrackingKey struct {
	OwnerID string
	URL     string
}

// UpsertProductParams is the field set the caller must persist after a
// reconciliation, keyed on (owner_id, url).
type UpsertProductParams struct {
	OwnerID  string
	URL      string
	Name     string
	Price    decimal.Decimal
	Currency string
	ImageURL string
	Notify   NotifyParams
}

// Reconciliation is the decision over a fresh snapshot and the last stored
// state. It never performs the write itself: the caller persists Upsert and,
// when NeedsHistory is set, appends one history entry.
type Reconciliation struct {
	Kind         ReconciliationKind
	OldPrice     decimal.Decimal
	NewPrice     decimal.Decimal
	NeedsHistory bool
	Upsert       UpsertProductParams
}

// NewReconciliation classifies a snapshot against the existing record.
//
// No existing record is a create. Equal prices are unchanged regardless of
// name, image or any other field. Differing prices in the same currency are a
// price change in either direction. A currency switch resets the baseline:
// the price comparison is not well-defined across currencies, so the record
// and history restart from the new observation and no alert is raised.
func NewReconciliation(key TrackingKey, snapshot ProductSnapshot, existing *TrackedProduct) *Reconciliation {
	out := &Reconciliation{
		NewPrice: snapshot.Price,
		Upsert: UpsertProductParams{
			OwnerID:  key.OwnerID,
			URL:      key.URL,
			Name:     snapshot.Name,
			Price:    snapshot.Price,
			Currency: snapshot.Currency,
			ImageURL: snapshot.ImageURL,
		},
	}

	if existing == nil {
		out.Kind = ReconciliationCreated
		out.NeedsHistory = true

		return out
	}

	out.OldPrice = existing.CurrentPrice

	if existing.Currency != snapshot.Currency {
		out.Kind = ReconciliationCurrencyChanged
		out.NeedsHistory = true

		return out
	}

	if existing.CurrentPrice.Equal(snapshot.Price) {
		out.Kind = ReconciliationUnchanged

		return out
	}

	out.Kind = ReconciliationPriceChanged
	out.NeedsHistory = true

	return out
}

// IsDrop reports whether the reconciled price strictly undercuts the stored
// one. A drop is the sole alert trigger: rises and resets are recorded only.
func (r *Reconciliation) IsDrop() bool {
	return r.Kind == ReconciliationPriceChanged && r.NewPrice.LessThan(r.OldPrice)
}
