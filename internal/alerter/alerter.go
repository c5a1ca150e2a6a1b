package alerter

import (
	"context"
	"fmt"

	"github.com/dealdrop/dealdrop/internal/models"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// Alerter renders and dispatches price-drop notifications. Dispatch is
// best-effort: one attempt per applicable channel, no retry, no queue, and a
// failure never touches already persisted state.
type Alerter struct {
	config Config
	deps   Dependencies
}

type Config struct {
	AppURL string
}

type Dependencies struct {
	Transports map[models.AlertChannel]models.AlertTransport `validate:"required,min=1"`
	Audit      AuditTrail
}

func (c *Dependencies) Validate() error {
	return validator.New().Struct(c)
}

// AuditTrail records dispatched alerts; best-effort, may be nil.
type AuditTrail interface {
	InsertAlert(ctx context.Context, message models.AlertMessage) error
}

func NewAlerter(config Config, deps Dependencies) (*Alerter, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dependencies: %w", err)
	}

	return &Alerter{
		config: config,
		deps:   deps,
	}, nil
}

type NotifyPriceDropParams struct {
	Recipient models.NotifyParams
	Product   models.TrackedProduct
	OldPrice  decimal.Decimal
	NewPrice  decimal.Decimal
}

// NotifyPriceDrop sends a single notification for a strict price drop.
// The caller guarantees newPrice < oldPrice; anything else is rejected.
func (a *Alerter) NotifyPriceDrop(ctx context.Context, params NotifyPriceDropParams) error {
	result := models.Alert(params.Recipient).
		SetProduct(params.Product).
		SetPrices(params.OldPrice, params.NewPrice).
		SetAppURL(a.config.AppURL).
		BuildPriceDropMessage()

	if !result.IsValid {
		return fmt.Errorf("%w: price %s did not drop below %s",
			models.ErrDispatchFailed, params.NewPrice, params.OldPrice)
	}

	message := result.Message

	var sent int

	for _, channel := range a.channelsFor(params.Recipient) {
		if err := a.deps.Transports[channel].Send(ctx, message); err != nil {
			log.
				WithFields(log.Fields{
					"message.uuid":       message.UUID,
					"message.product_id": message.ProductID,
					"message.channel":    channel,
				}).
				Errorf("alert dispatch failed: %v", err)

			continue
		}

		sent++
	}

	if sent == 0 {
		return fmt.Errorf("%w: no channel delivered alert %s", models.ErrDispatchFailed, message.UUID)
	}

	message.SetAsSent()

	if a.deps.Audit != nil {
		if err := a.deps.Audit.InsertAlert(ctx, message); err != nil {
			log.
				WithField("message.uuid", message.UUID).
				Errorf("alert audit insert failed: %v", err)
		}
	}

	return nil
}

func (a *Alerter) channelsFor(recipient models.NotifyParams) []models.AlertChannel {
	var channels []models.AlertChannel

	if _, ok := a.deps.Transports[models.EmailAlertChannel]; ok && recipient.Email != "" {
		channels = append(channels, models.EmailAlertChannel)
	}

	if _, ok := a.deps.Transports[models.TelegramAlertChannel]; ok && recipient.TelegramChatID != nil {
		channels = append(channels, models.TelegramAlertChannel)
	}

	return channels
}
