package vtex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"chlsync/internal/config"
)

const filterTimeLayout = "2006-01-02T15:04:05.000Z"

// TimeWindow bounds an order fetch by creation date.
type TimeWindow struct {
	From time.Time
	To   time.Time
}

// DefaultWindow covers orders created in the last hour up to now.
func DefaultWindow(now time.Time) TimeWindow {
	return TimeWindow{From: now.Add(-time.Hour), To: now}
}

// Filter renders the creation-date range expression the list endpoint expects.
func (w TimeWindow) Filter() string {
	return fmt.Sprintf("creationDate:[%s TO %s]",
		w.From.UTC().Format(filterTimeLayout),
		w.To.UTC().Format(filterTimeLayout))
}

// Client handles REST communication with the VTEX order API
type Client struct {
	config     config.VTEXConfig
	httpClient *http.Client
}

// NewClient creates a new VTEX order API client
func NewClient(cfg config.VTEXConfig) *Client {
	return &Client{
		config: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout(),
		},
	}
}

// FetchOrders returns the full detail document of every order created in
// the window, walking pages from startPage (1 when zero) until the API
// reports no further page. Results keep the API's order: page order first,
// then in-page order. Any transport or decode error aborts the whole fetch;
// no partial result is returned.
func (c *Client) FetchOrders(ctx context.Context, window TimeWindow, startPage int) ([]*OrderDocument, error) {
	page := startPage
	if page < 1 {
		page = 1
	}

	var orders []*OrderDocument
	for {
		listResp, err := c.listOrders(ctx, window, page)
		if err != nil {
			return nil, err
		}

		for _, summary := range listResp.List {
			doc, err := c.GetOrder(ctx, summary.OrderID)
			if err != nil {
				return nil, err
			}
			orders = append(orders, doc)
		}

		if listResp.Paging.CurrentPage >= listResp.Paging.Pages {
			break
		}
		page = listResp.Paging.CurrentPage + 1
	}

	return orders, nil
}

func (c *Client) listOrders(ctx context.Context, window TimeWindow, page int) (*listResponse, error) {
	params := url.Values{}
	params.Set("f_creationDate", window.Filter())
	params.Set("page", fmt.Sprintf("%d", page))

	body, err := c.get(ctx, c.config.ListEndpoint+"?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("failed to list orders (page %d): %w", page, err)
	}

	listResp := &listResponse{}
	if err := json.Unmarshal(body, listResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order list (page %d): %w", page, err)
	}
	return listResp, nil
}

// GetOrder retrieves one full order document, keeping the verbatim body in Raw.
func (c *Client) GetOrder(ctx context.Context, orderID string) (*OrderDocument, error) {
	body, err := c.get(ctx, c.config.OrderEndpoint+orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order %s: %w", orderID, err)
	}

	doc := &OrderDocument{}
	if err := json.Unmarshal(body, doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order %s: %w", orderID, err)
	}
	doc.Raw = body
	return doc, nil
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-vtex-api-appkey", c.config.AppKey)
	req.Header.Set("x-vtex-api-apptoken", c.config.AppToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("order API returned status %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
