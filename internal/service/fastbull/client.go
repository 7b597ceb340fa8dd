// Package fastbull polls the FastBull pending-order API.
package fastbull

import (
	"context"
	"encoding/json"
	"fmt"

	"GannForce/internal/services/orderbook"
	xhttp "GannForce/pkg/http"
	"GannForce/pkg/util"
)

// Book types in a getWebPendingOrder response.
const (
	typeOrders    = 1
	typePositions = 2
)

// Pair is one entry of the pair list.
type Pair struct {
	PairID util.FlexString `json:"pairId"`
	Symbol string          `json:"symbol"`
}

// ID returns the pair id as sent in book requests.
func (p Pair) ID() string { return string(p.PairID) }

type envelope struct {
	Code        int    `json:"code"`
	Message     string `json:"message"`
	BodyMessage string `json:"bodyMessage"`
}

type bookItem struct {
	Type         int              `json:"type"`
	CurrentPrice util.FlexString  `json:"currentPrice"`
	Price        []util.FlexFloat `json:"price"`
	BuyOrder     []util.FlexFloat `json:"buyOrder"`
	SellOrder    []util.FlexFloat `json:"sellOrder"`
}

// APIError is a non-zero envelope code.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("fastbull api error %d: %s", e.Code, e.Message)
}

// Client fetches pairs and books. Rate limiting and the circuit breaker
// live in the wrapped HTTP client.
type Client struct {
	pairsURL string
	bookURL  string
	http     *xhttp.Client
}

func New(pairsURL, bookURL string, client *xhttp.Client) *Client {
	return &Client{pairsURL: pairsURL, bookURL: bookURL, http: client}
}

// Pairs lists every pair with a pending-order book.
func (c *Client) Pairs(ctx context.Context) ([]Pair, error) {
	var pairs []Pair
	if err := c.fetch(ctx, c.pairsURL, nil, &pairs); err != nil {
		return nil, fmt.Errorf("pair list: %w", err)
	}
	return pairs, nil
}

// Book returns the open-orders and open-positions books of a pair. Either
// may be nil when FastBull omits it.
func (c *Client) Book(ctx context.Context, pairID string) (orders, positions *orderbook.Book, err error) {
	var items []bookItem
	q := map[string][]string{
		"orderType":  {"0"},
		"pairId":     {pairID},
		"selectTime": {""},
	}
	if err := c.fetch(ctx, c.bookURL, q, &items); err != nil {
		return nil, nil, fmt.Errorf("book %s: %w", pairID, err)
	}
	for _, it := range items {
		switch it.Type {
		case typeOrders:
			if orders == nil {
				orders = it.book()
			}
		case typePositions:
			if positions == nil {
				positions = it.book()
			}
		}
	}
	return orders, positions, nil
}

func (c *Client) fetch(ctx context.Context, url string, q map[string][]string, dest interface{}) error {
	var env envelope
	if err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         url,
		QueryParams: q,
		Headers:     map[string]string{"Accept": "application/json"},
	}, &env); err != nil {
		return err
	}
	if env.Code != 0 {
		return &APIError{Code: env.Code, Message: env.Message}
	}
	if err := json.Unmarshal([]byte(env.BodyMessage), dest); err != nil {
		return fmt.Errorf("decode bodyMessage: %w", err)
	}
	return nil
}

func (it bookItem) book() *orderbook.Book {
	return &orderbook.Book{
		CurrentPrice: string(it.CurrentPrice),
		Prices:       util.Floats(it.Price),
		Buy:          util.Floats(it.BuyOrder),
		Sell:         util.Floats(it.SellOrder),
	}
}
