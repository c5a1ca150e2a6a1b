package firecrawl

import (
	"context"
	"fmt"

	"github.com/dealdrop/dealdrop/internal/models"
	"github.com/go-playground/validator/v10"
	"github.com/go-resty/resty/v2"
	log "github.com/sirupsen/logrus"
)

// Client calls the structured-extraction backend: one request per Extract,
// fixed output schema, no retries.
type Client struct {
	config Config
	deps   Dependencies
}

type Config struct {
	BaseURL string `validate:"required,url"`
	APIKey  string `validate:"required"`
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

func (c *Client) Extract(ctx context.Context, params models.ExtractParams) (*models.RawExtraction, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("%w: invalid params: %v", models.ErrInvalidInput, err)
	}

	log.
		WithField("params.url", params.URL).
		Debug("firecrawl product extraction started")

	out := new(scrapeResponse)

	resp, err := c.deps.Client.R().
		SetContext(ctx).
		SetAuthToken(c.config.APIKey).
		SetBody(makeScrapeRequest(params.URL)).
		SetResult(out).
		Post(c.config.BaseURL + "/v2/scrape")

	if err != nil {
		return nil, fmt.Errorf("%w: c.deps.Client.R().Post: %v", models.ErrExtractionFailed, err)
	}

	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: backend responded with status %s", models.ErrExtractionFailed, resp.Status())
	}

	if !out.Success {
		return nil, fmt.Errorf("%w: backend error: %s", models.ErrExtractionFailed, out.Error)
	}

	if out.Data.JSON.ProductName == "" {
		return nil, fmt.Errorf("%w: no data extracted from url %s", models.ErrExtractionFailed, params.URL)
	}

	return &out.Data.JSON, nil
}
