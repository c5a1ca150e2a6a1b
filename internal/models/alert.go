package models

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dealdrop/dealdrop/pkg/hasher"
	"github.com/dealdrop/dealdrop/pkg/money"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

const (
	EmailAlertChannel    AlertChannel = "email"
	TelegramAlertChannel AlertChannel = "telegram"
)

type AlertChannel = string

// AlertTransport delivers one rendered alert. Implementations send once and
// report failure to the caller without retrying.
type AlertTransport interface {
	Send(ctx context.Context, message AlertMessage) error
}

type AlertMessage struct {
	UUID      string          `bson:"uuid" json:"uuid"`
	ProductID string          `bson:"product_id" json:"product_id"`
	Recipient NotifyParams    `bson:"recipient" json:"recipient"`
	Subject   string          `bson:"subject" json:"subject"`
	Text      AlertText       `bson:"text" json:"text"`
	OldPrice  decimal.Decimal `bson:"old_price" json:"old_price"`
	NewPrice  decimal.Decimal `bson:"new_price" json:"new_price"`
	SentAt    *time.Time      `bson:"sent_at" json:"sent_at"`
}

type AlertText struct {
	HTML   string `bson:"html" json:"html"`
	Plain  string `bson:"plain" json:"plain"`
	SHA256 string `bson:"sha256" json:"sha256"`
}

func (m *AlertMessage) SetAsSent() {
	m.SentAt = lo.ToPtr(time.Now())
}

type AlertBuildResult struct {
	Message AlertMessage
	IsValid bool
}

type AlertBuilder struct {
	recipient NotifyParams
	product   TrackedProduct
	oldPrice  decimal.Decimal
	newPrice  decimal.Decimal
	appURL    string
}

func Alert(recipient NotifyParams) AlertBuilder {
	return AlertBuilder{recipient: recipient}
}

func (b AlertBuilder) SetProduct(product TrackedProduct) AlertBuilder {
	b.product = product
	return b
}

func (b AlertBuilder) SetPrices(oldPrice, newPrice decimal.Decimal) AlertBuilder {
	b.oldPrice = oldPrice
	b.newPrice = newPrice
	return b
}

func (b AlertBuilder) SetAppURL(url string) AlertBuilder {
	b.appURL = url
	return b
}

// BuildPriceDropMessage renders the single notification for a price drop.
// The result is invalid unless the new price strictly undercuts the old one.
func (b AlertBuilder) BuildPriceDropMessage() AlertBuildResult {
	if !b.newPrice.LessThan(b.oldPrice) {
		return AlertBuildResult{IsValid: false}
	}

	drop := b.oldPrice.Sub(b.newPrice)
	percent := PercentDrop(b.oldPrice, b.newPrice)

	currency := b.product.Currency

	subject := fmt.Sprintf("Price Drop Alert: %s", b.product.Name)

	plain := fmt.Sprintf(`%s

Price dropped by %s%%!

Previous price: %s
Current price: %s
You save: %s

View product: %s`,
		b.product.Name,
		percent.String(),
		money.Format(b.oldPrice, currency),
		money.Format(b.newPrice, currency),
		money.Format(drop, currency),
		b.product.URL)

	if b.appURL != "" {
		plain += fmt.Sprintf("\nAll tracked products: %s", b.appURL)
	}

	html := b.renderHTML(drop, percent)

	message := AlertMessage{
		UUID:      uuid.NewString(),
		ProductID: b.product.ID,
		Recipient: b.recipient,
		Subject:   subject,
		OldPrice:  b.oldPrice,
		NewPrice:  b.newPrice,
		Text: AlertText{
			HTML:   html,
			Plain:  strings.TrimSpace(plain),
			SHA256: hasher.SHA256(plain),
		},
	}

	return AlertBuildResult{
		Message: message,
		IsValid: true,
	}
}

func (b AlertBuilder) renderHTML(drop, percent decimal.Decimal) string {
	currency := b.product.Currency

	sb := strings.Builder{}

	sb.WriteString(`<h1>Price Drop Alert!</h1>`)

	if b.product.ImageURL != "" {
		sb.WriteString(fmt.Sprintf(`<img src=%q alt=%q>`, b.product.ImageURL, b.product.Name))
	}

	sb.WriteString(fmt.Sprintf(`<h2>%s</h2>`, b.product.Name))
	sb.WriteString(fmt.Sprintf(`<p><strong>Price dropped by %s%%!</strong></p>`, percent))
	sb.WriteString(fmt.Sprintf(`<p>Previous price: <s>%s</s></p>`, money.Format(b.oldPrice, currency)))
	sb.WriteString(fmt.Sprintf(`<p>Current price: <strong>%s</strong></p>`, money.Format(b.newPrice, currency)))
	sb.WriteString(fmt.Sprintf(`<p>You save: %s</p>`, money.Format(drop, currency)))
	sb.WriteString(fmt.Sprintf(`<p><a href=%q>View Product</a></p>`, b.product.URL))

	if b.appURL != "" {
		sb.WriteString(fmt.Sprintf(`<p><a href=%q>View All Tracked Products</a></p>`, b.appURL))
	}

	return sb.String()
}

// PercentDrop is the relative decrease from old to new, one decimal place.
func PercentDrop(oldPrice, newPrice decimal.Decimal) decimal.Decimal {
	if oldPrice.IsZero() {
		return decimal.Zero
	}

	return oldPrice.Sub(newPrice).
		Div(oldPrice).
		Mul(decimal.NewFromInt(100)).
		Round(1)
}
