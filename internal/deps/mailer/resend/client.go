package resend

import (
	"context"
	"fmt"

	"github.com/dealdrop/dealdrop/internal/models"
	"github.com/go-playground/validator/v10"
	"github.com/go-resty/resty/v2"
	log "github.com/sirupsen/logrus"
)

// Client sends alert emails through the Resend HTTP API.
type Client struct {
	config Config
	deps   Dependencies
}

type Config struct {
	BaseURL string `validate:"required,url"`
	APIKey  string `validate:"required"`
	From    string `validate:"required,email"`
}

func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

type Dependencies struct {
	Client *resty.Client `validate:"required"`
}

func (c *Dependencies) Validate() error {
	return validator.New().Struct(c)
}

func NewClient(config Config, deps Dependencies) (*Client, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dependencies: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Client{
		config: config,
		deps:   deps,
	}, nil
}

type sendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type sendEmailResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// Send delivers one alert email. One attempt, no queueing: a failure is the
// caller's to report.
func (c *Client) Send(ctx context.Context, message models.AlertMessage) error {
	if message.Recipient.Email == "" {
		return fmt.Errorf("%w: alert recipient has no email", models.ErrDispatchFailed)
	}

	out := new(sendEmailResponse)

	resp, err := c.deps.Client.R().
		SetContext(ctx).
		SetAuthToken(c.config.APIKey).
		SetBody(sendEmailRequest{
			From:    c.config.From,
			To:      []string{message.Recipient.Email},
			Subject: message.Subject,
			HTML:    message.Text.HTML,
		}).
		SetResult(out).
		SetError(out).
		Post(c.config.BaseURL + "/emails")

	if err != nil {
		return fmt.Errorf("%w: c.deps.Client.R().Post: %v", models.ErrDispatchFailed, err)
	}

	if !resp.IsSuccess() {
		return fmt.Errorf("%w: resend responded with status %s: %s", models.ErrDispatchFailed, resp.Status(), out.Message)
	}

	log.
		WithFields(log.Fields{
			"message.uuid":     message.UUID,
			"message.email_id": out.ID,
		}).
		Info("alert email sent")

	return nil
}
