package firecrawl

import "github.com/dealdrop/dealdrop/internal/models"

const extractionPrompt = "Extract the product name as 'productName', current price as a number as 'currentPrice', " +
	"currency code (USD, EUR, etc) as 'currencyCode', and product image URL as 'productImageUrl' if available"

type scrapeRequest struct {
	URL     string         `json:"url"`
	Formats []scrapeFormat `json:"formats"`
}

type scrapeFormat struct {
	Type   string       `json:"type"`
	Prompt string       `json:"prompt"`
	Schema scrapeSchema `json:"schema"`
}

type scrapeSchema struct {
	Type       string                    `json:"type"`
	Properties map[string]schemaProperty `json:"properties"`
	Required   []string                  `json:"required"`
}

type schemaProperty struct {
	Type string `json:"type"`
}

type scrapeResponse struct {
	Success bool       `json:"success"`
	Error   string     `json:"error"`
	Data    scrapeData `json:"data"`
}

type scrapeData struct {
	JSON models.RawExtraction `json:"json"`
}

func makeScrapeRequest(url string) scrapeRequest {
	return scrapeRequest{
		URL: url,
		Formats: []scrapeFormat{{
			Type:   "json",
			Prompt: extractionPrompt,
			Schema: scrapeSchema{
				Type: "object",
				Properties: map[string]schemaProperty{
					"productName":     {Type: "string"},
					"currentPrice":    {Type: "number"},
					"currencyCode":    {Type: "string"},
					"productImageUrl": {Type: "string"},
				},
				Required: []string{"productName", "currentPrice"},
			},
		}},
	}
}
