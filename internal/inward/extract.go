package inward

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/candor-retail/candor-backend/internal/platform/httpx"
)

// POExtraction is the structured result of running a purchase-order PDF
// through the extraction API.
type POExtraction struct {
	SupplierName        *string     `json:"supplier_name"`
	SourceLocation      *string     `json:"source_location"`
	CustomerName        *string     `json:"customer_name"`
	DestinationLocation *string     `json:"destination_location"`
	PONumber            *string     `json:"po_number"`
	PurchasedBy         *string     `json:"purchased_by"`
	TotalAmount         *float64    `json:"total_amount"`
	TaxAmount           *float64    `json:"tax_amount"`
	DiscountAmount      *float64    `json:"discount_amount"`
	POQuantity          *float64    `json:"po_quantity"`
	Currency            *string     `json:"currency"`
	Articles            []POArticle `json:"articles"`
}

// POArticle is one extracted line item.
type POArticle struct {
	ItemDescription string   `json:"item_description"`
	POWeight        *float64 `json:"po_weight"`
	UnitRate        *float64 `json:"unit_rate"`
	TotalAmount     *float64 `json:"total_amount"`
}

// DocumentExtractor pulls PO fields out of an uploaded PDF.
type DocumentExtractor interface {
	ExtractPO(ctx context.Context, pdf []byte) (POExtraction, error)
}

// ExtractClient calls the hosted document-extraction API. The document
// goes up base64-encoded; the API answers with the field JSON, which
// some backends wrap in markdown fences.
type ExtractClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewExtractClient constructs a client for the extraction endpoint.
func NewExtractClient(baseURL, apiKey string) *ExtractClient {
	return &ExtractClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		// PDF parsing on the remote side is slow; allow well beyond the
		// usual request timeout.
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

type extractRequest struct {
	Document  string `json:"document"`
	MediaType string `json:"media_type"`
}

// ExtractPO uploads the PDF and decodes the extraction result.
func (c *ExtractClient) ExtractPO(ctx context.Context, pdf []byte) (POExtraction, error) {
	body, err := json.Marshal(extractRequest{
		Document:  base64.StdEncoding.EncodeToString(pdf),
		MediaType: "application/pdf",
	})
	if err != nil {
		return POExtraction{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return POExtraction{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return POExtraction{}, fmt.Errorf("extraction request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return POExtraction{}, fmt.Errorf("extraction api returned %d", resp.StatusCode)
	}

	var raw struct {
		Result string `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return POExtraction{}, fmt.Errorf("decode extraction envelope: %w", err)
	}

	var extraction POExtraction
	if err := json.Unmarshal([]byte(stripFences(raw.Result)), &extraction); err != nil {
		return POExtraction{}, fmt.Errorf("%w: extraction result is not valid JSON", httpx.ErrValidation)
	}
	return extraction, nil
}

// stripFences removes a surrounding markdown code fence, if present.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
