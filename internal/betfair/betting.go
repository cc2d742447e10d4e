package betfair

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// ListEvents returns upcoming football events in the configured countries.
func (c *Client) ListEvents(ctx context.Context) ([]Event, error) {
	req := listEventsRequest{
		Filter: marketFilter{
			EventTypeIDs:    []string{soccerEventTypeID},
			MarketCountries: c.cfg.Countries,
		},
	}

	var results []eventResult
	if err := c.invoke(ctx, "listEvents", req, &results); err != nil {
		return nil, err
	}

	events := make([]Event, 0, len(results))
	for _, r := range results {
		events = append(events, r.Event)
	}
	return events, nil
}

// ListMarketCatalogue returns the match-odds market for one event with its
// runner metadata, or nil if the event has none.
func (c *Client) ListMarketCatalogue(ctx context.Context, eventID string) (*MarketCatalogue, error) {
	req := listMarketCatalogueRequest{
		Filter: marketFilter{
			EventIDs:        []string{eventID},
			MarketTypeCodes: []string{"MATCH_ODDS"},
		},
		MarketProjection: []string{"EVENT", "RUNNER_DESCRIPTION", "MARKET_START_TIME"},
		Sort:             "MAXIMUM_TRADED",
		MaxResults:       1,
	}

	var results []MarketCatalogue
	if err := c.invoke(ctx, "listMarketCatalogue", req, &results); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return &results[0], nil
}

// ListMarketBook returns the live best offers for one market, or nil if
// the exchange reports no book for it.
func (c *Client) ListMarketBook(ctx context.Context, marketID string) (*MarketBook, error) {
	req := listMarketBookRequest{
		MarketIDs:       []string{marketID},
		PriceProjection: priceProjection{PriceData: []string{"EX_BEST_OFFERS"}},
	}

	var results []MarketBook
	if err := c.invoke(ctx, "listMarketBook", req, &results); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return &results[0], nil
}

// PlaceOrder submits a single limit order. side is "BACK" or "LAY", size
// is the exchange stake. The customer ref makes accidental resubmission
// of the same request idempotent on the exchange side.
func (c *Client) PlaceOrder(ctx context.Context, marketID string, selectionID int64, side string, price, size float64) (*PlaceExecutionReport, error) {
	req := placeOrdersRequest{
		MarketID: marketID,
		Instructions: []placeInstruction{{
			OrderType:   "LIMIT",
			SelectionID: selectionID,
			Side:        side,
			LimitOrder: limitOrder{
				Size:            size,
				Price:           price,
				PersistenceType: "LAPSE",
			},
		}},
		CustomerRef: uuid.NewString(),
	}

	var report PlaceExecutionReport
	if err := c.invoke(ctx, "placeOrders", req, &report); err != nil {
		return nil, fmt.Errorf("placing order on %s/%d: %w", marketID, selectionID, err)
	}
	return &report, nil
}
