package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrackedProduct is the stored state of one (owner, url) tracking pair.
// The pair is unique in the store: refreshes mutate the same record in place.
type TrackedProduct struct {
	ID           string          `bson:"id" json:"id"`
	OwnerID      string          `bson:"owner_id" json:"owner_id"`
	URL          string          `bson:"url" json:"url"`
	Name         string          `bson:"name" json:"name"`
	CurrentPrice decimal.Decimal `bson:"current_price" json:"current_price"`
	Currency     string          `bson:"currency" json:"currency"`
	ImageURL     string          `bson:"image_url" json:"image_url"`
	Notify       NotifyParams    `bson:"notify" json:"notify"`
	CreatedAt    time.Time       `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `bson:"updated_at" json:"updated_at"`
}

// NotifyParams is the owner contact carried on the record so that
// scheduled refreshes can alert without a live auth session.
type NotifyParams struct {
	Email          string `bson:"email" json:"email"`
	TelegramChatID *int64 `bson:"telegram_chat_id" json:"telegram_chat_id"`
}

// PriceHistoryEntry is one observed price of a tracked product.
// Entries are append-only and never rewritten.
type PriceHistoryEntry struct {
	ProductID  string          `bson:"product_id" json:"product_id"`
	Price      decimal.Decimal `bson:"price" json:"price"`
	Currency   string          `bson:"currency" json:"currency"`
	ObservedAt time.Time       `bson:"observed_at" json:"observed_at"`
}
