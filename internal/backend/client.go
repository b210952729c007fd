// Package backend fetches product data from the catalog service and folds it
// into the normalized records the page renders.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/jaolave/ml-challenge-frontend/internal/catalog"
	"github.com/jaolave/ml-challenge-frontend/internal/config"
)

// Client calls the catalog backend over JSON HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a backend client. The base URL is required.
func NewClient(cfg config.BackendConfig) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return nil, ErrNoBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		// No client timeout. A slow backend keeps the page on its loading
		// shell until the response lands or the caller goes away.
		httpClient = &http.Client{}
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}, nil
}

// ListProducts fetches the summaries of every product the page can pick
// from. The backend has shipped this list both as a plain array and as an
// object keyed by product id, so both shapes decode; anything else logs and
// yields an empty list.
func (c *Client) ListProducts(ctx context.Context) ([]catalog.Summary, error) {
	raw, err := c.get(ctx, "products", "/products")
	if err != nil {
		return nil, err
	}
	return parseProductList(ctx, raw), nil
}

// GetProduct fetches one product record and normalizes it.
func (c *Client) GetProduct(ctx context.Context, id int) (catalog.Product, error) {
	raw, err := c.get(ctx, "product", fmt.Sprintf("/products/%d", id))
	if err != nil {
		return catalog.Product{}, err
	}
	return catalog.NormalizeProduct(raw), nil
}

// GetOffer fetches the variants and purchase info for one product.
func (c *Client) GetOffer(ctx context.Context, id int) (catalog.Offer, error) {
	raw, err := c.get(ctx, "product offers", fmt.Sprintf("/product_offers/%d", id))
	if err != nil {
		return catalog.Offer{}, err
	}
	var offer catalog.Offer
	if err := json.Unmarshal(raw, &offer); err != nil {
		return catalog.Offer{}, fmt.Errorf("decode product offers response: %w", err)
	}
	return offer, nil
}

// GetQuestions fetches the question list for one product. A payload that is
// not an array normalizes to an empty list.
func (c *Client) GetQuestions(ctx context.Context, id int) ([]catalog.Question, error) {
	raw, err := c.get(ctx, "questions", fmt.Sprintf("/questions/%d", id))
	if err != nil {
		return nil, err
	}
	return catalog.NormalizeQuestions(raw), nil
}

// GetReviews fetches the review summary and entries for one product.
func (c *Client) GetReviews(ctx context.Context, id int) (catalog.ReviewData, error) {
	raw, err := c.get(ctx, "reviews", fmt.Sprintf("/reviews/%d", id))
	if err != nil {
		return catalog.ReviewData{}, err
	}
	var reviews catalog.ReviewData
	if err := json.Unmarshal(raw, &reviews); err != nil {
		return catalog.ReviewData{}, fmt.Errorf("decode reviews response: %w", err)
	}
	return reviews, nil
}

// GetPaymentMethods fetches the payment options shown for one product.
func (c *Client) GetPaymentMethods(ctx context.Context, id int) (catalog.PaymentMethods, error) {
	raw, err := c.get(ctx, "payment methods", fmt.Sprintf("/payment_methods/%d", id))
	if err != nil {
		return catalog.PaymentMethods{}, err
	}
	var methods catalog.PaymentMethods
	if err := json.Unmarshal(raw, &methods); err != nil {
		return catalog.PaymentMethods{}, fmt.Errorf("decode payment methods response: %w", err)
	}
	return methods, nil
}

// GetSeller fetches the seller card for one product.
func (c *Client) GetSeller(ctx context.Context, id int) (catalog.Seller, error) {
	raw, err := c.get(ctx, "seller", fmt.Sprintf("/sellers/%d", id))
	if err != nil {
		return catalog.Seller{}, err
	}
	var seller catalog.Seller
	if err := json.Unmarshal(raw, &seller); err != nil {
		return catalog.Seller{}, fmt.Errorf("decode seller response: %w", err)
	}
	return seller, nil
}

func (c *Client) get(ctx context.Context, operation, path string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", operation, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RequestError{Operation: operation, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	var buf bytes.Buffer
	_, err = io.Copy(&buf, resp.Body) // ensure body is fully read for connection reuse
	if err != nil {
		return nil, &RequestError{Operation: operation, Err: err}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		slog.ErrorContext(ctx, "backend request failed", "operation", operation, "status", resp.StatusCode)
		return nil, &StatusError{Operation: operation, StatusCode: resp.StatusCode, Message: errorMessage(buf.Bytes())}
	}

	return unwrapEnvelope(buf.Bytes()), nil
}

// unwrapEnvelope unpacks the {"data": ...} wrapper some backend deployments
// put around every payload. Bodies without the wrapper pass through whole.
func unwrapEnvelope(body []byte) json.RawMessage {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Data) > 0 {
		return envelope.Data
	}
	return body
}

// errorMessage pulls the server-provided message out of an error body, if
// the body is JSON and carries one.
func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return strings.TrimSpace(payload.Message)
}

func parseProductList(ctx context.Context, raw json.RawMessage) []catalog.Summary {
	var list []catalog.Summary
	if err := json.Unmarshal(raw, &list); err == nil && list != nil {
		return list
	}

	var keyed map[string]catalog.Summary
	if err := json.Unmarshal(raw, &keyed); err == nil && keyed != nil {
		keys := make([]string, 0, len(keyed))
		for key := range keyed {
			keys = append(keys, key)
		}
		sort.SliceStable(keys, func(i, j int) bool {
			a, aerr := strconv.Atoi(keys[i])
			b, berr := strconv.Atoi(keys[j])
			switch {
			case aerr == nil && berr == nil:
				return a < b
			case aerr == nil:
				return true
			case berr == nil:
				return false
			default:
				return keys[i] < keys[j]
			}
		})

		summaries := make([]catalog.Summary, 0, len(keyed))
		for _, key := range keys {
			entry := keyed[key]
			if entry.ID == 0 {
				if id, err := strconv.Atoi(key); err == nil {
					entry.ID = id
				}
			}
			summaries = append(summaries, entry)
		}
		return summaries
	}

	slog.WarnContext(ctx, "products payload is neither an array nor a keyed object, serving empty list")
	return []catalog.Summary{}
}
