package mongodb

import (
	"fmt"
	"time"

	"github.com/dealdrop/dealdrop/internal/models"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Prices are stored as Decimal128 so that the stored value compares exactly
// against a freshly parsed one.

type trackedProductDoc struct {
	ID           string               `bson:"id"`
	OwnerID      string               `bson:"owner_id"`
	URL          string               `bson:"url"`
	Name         string               `bson:"name"`
	CurrentPrice primitive.Decimal128 `bson:"current_price"`
	Currency     string               `bson:"currency"`
	ImageURL     string               `bson:"image_url"`
	Notify       notifyDoc            `bson:"notify"`
	CreatedAt    time.Time            `bson:"created_at"`
	UpdatedAt    time.Time            `bson:"updated_at"`
}

type notifyDoc struct {
	Email          string `bson:"email"`
	TelegramChatID *int64 `bson:"telegram_chat_id"`
}

type priceHistoryDoc struct {
	ProductID  string               `bson:"product_id"`
	Price      primitive.Decimal128 `bson:"price"`
	Currency   string               `bson:"currency"`
	ObservedAt time.Time            `bson:"observed_at"`
}

type alertDoc struct {
	UUID      string               `bson:"uuid"`
	ProductID string               `bson:"product_id"`
	Recipient notifyDoc            `bson:"recipient"`
	Subject   string               `bson:"subject"`
	SHA256    string               `bson:"sha256"`
	OldPrice  primitive.Decimal128 `bson:"old_price"`
	NewPrice  primitive.Decimal128 `bson:"new_price"`
	SentAt    *time.Time           `bson:"sent_at"`
}

func toDecimal128(value decimal.Decimal) (primitive.Decimal128, error) {
	out, err := primitive.ParseDecimal128(value.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("primitive.ParseDecimal128: %w", err)
	}
	return out, nil
}

func fromDecimal128(value primitive.Decimal128) (decimal.Decimal, error) {
	out, err := decimal.NewFromString(value.String())
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("decimal.NewFromString: %w", err)
	}
	return out, nil
}

func (d *trackedProductDoc) toModel() (*models.TrackedProduct, error) {
	price, err := fromDecimal128(d.CurrentPrice)
	if err != nil {
		return nil, fmt.Errorf("fromDecimal128: %w", err)
	}

	return &models.TrackedProduct{
		ID:           d.ID,
		OwnerID:      d.OwnerID,
		URL:          d.URL,
		Name:         d.Name,
		CurrentPrice: price,
		Currency:     d.Currency,
		ImageURL:     d.ImageURL,
		Notify: models.NotifyParams{
			Email:          d.Notify.Email,
			TelegramChatID: d.Notify.TelegramChatID,
		},
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}, nil
}

func (d *priceHistoryDoc) toModel() (*models.PriceHistoryEntry, error) {
	price, err := fromDecimal128(d.Price)
	if err != nil {
		return nil, fmt.Errorf("fromDecimal128: %w", err)
	}

	return &models.PriceHistoryEntry{
		ProductID:  d.ProductID,
		Price:      price,
		Currency:   d.Currency,
		ObservedAt: d.ObservedAt,
	}, nil
}

func makeNotifyDoc(params models.NotifyParams) notifyDoc {
	return notifyDoc{
		Email:          params.Email,
		TelegramChatID: params.TelegramChatID,
	}
}

func makeAlertDoc(message models.AlertMessage) (*alertDoc, error) {
	oldPrice, err := toDecimal128(message.OldPrice)
	if err != nil {
		return nil, fmt.Errorf("toDecimal128: %w", err)
	}

	newPrice, err := toDecimal128(message.NewPrice)
	if err != nil {
		return nil, fmt.Errorf("toDecimal128: %w", err)
	}

	return &alertDoc{
		UUID:      message.UUID,
		ProductID: message.ProductID,
		Recipient: makeNotifyDoc(message.Recipient),
		Subject:   message.Subject,
		SHA256:    message.Text.SHA256,
		OldPrice:  oldPrice,
		NewPrice:  newPrice,
		SentAt:    message.SentAt,
	}, nil
}
