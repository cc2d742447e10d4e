package betfair

import "time"

// Event is one exchange event (a fixture) as reported by listEvents.
type Event struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	CountryCode string    `json:"countryCode"`
	Timezone    string    `json:"timezone"`
	OpenDate    time.Time `json:"openDate"`
}

type eventResult struct {
	Event       Event `json:"event"`
	MarketCount int   `json:"marketCount"`
}

// RunnerCatalogue is a runner's static metadata from listMarketCatalogue.
type RunnerCatalogue struct {
	SelectionID  int64  `json:"selectionId"`
	RunnerName   string `json:"runnerName"`
	SortPriority int    `json:"sortPriority"`
}

// MarketCatalogue is one market's static metadata.
type MarketCatalogue struct {
	MarketID     string            `json:"marketId"`
	MarketName   string            `json:"marketName"`
	TotalMatched float64           `json:"totalMatched"`
	Event        Event             `json:"event"`
	Runners      []RunnerCatalogue `json:"runners"`
}

// PriceSize is one rung of available liquidity.
type PriceSize struct {
	Price float64 `json:"price"`
	Size  float64 `json:"size"`
}

// ExchangePrices carries the best available offers for a runner.
type ExchangePrices struct {
	AvailableToBack []PriceSize `json:"availableToBack"`
	AvailableToLay  []PriceSize `json:"availableToLay"`
}

// RunnerBook is a runner's live prices from listMarketBook.
type RunnerBook struct {
	SelectionID int64          `json:"selectionId"`
	Status      string         `json:"status"`
	EX          ExchangePrices `json:"ex"`
}

// MarketBook is one market's live state.
type MarketBook struct {
	MarketID     string       `json:"marketId"`
	Status       string       `json:"status"`
	TotalMatched float64      `json:"totalMatched"`
	Runners      []RunnerBook `json:"runners"`
}

// BestBack returns the best available back price and size for a runner,
// or zeros if there is no liquidity on that side.
func (r RunnerBook) BestBack() (price, size float64) {
	if len(r.EX.AvailableToBack) == 0 {
		return 0, 0
	}
	return r.EX.AvailableToBack[0].Price, r.EX.AvailableToBack[0].Size
}

// BestLay returns the best available lay price and size for a runner.
func (r RunnerBook) BestLay() (price, size float64) {
	if len(r.EX.AvailableToLay) == 0 {
		return 0, 0
	}
	return r.EX.AvailableToLay[0].Price, r.EX.AvailableToLay[0].Size
}

// marketFilter narrows the events and markets a listing call returns.
type marketFilter struct {
	EventTypeIDs    []string `json:"eventTypeIds,omitempty"`
	EventIDs        []string `json:"eventIds,omitempty"`
	MarketCountries []string `json:"marketCountries,omitempty"`
	MarketTypeCodes []string `json:"marketTypeCodes,omitempty"`
}

type listEventsRequest struct {
	Filter marketFilter `json:"filter"`
}

type listMarketCatalogueRequest struct {
	Filter           marketFilter `json:"filter"`
	MarketProjection []string     `json:"marketProjection"`
	Sort             string       `json:"sort"`
	MaxResults       int          `json:"maxResults"`
}

type priceProjection struct {
	PriceData []string `json:"priceData"`
}

type listMarketBookRequest struct {
	MarketIDs       []string        `json:"marketIds"`
	PriceProjection priceProjection `json:"priceProjection"`
}

type limitOrder struct {
	Size            float64 `json:"size"`
	Price           float64 `json:"price"`
	PersistenceType string  `json:"persistenceType"`
}

type placeInstruction struct {
	OrderType   string     `json:"orderType"`
	SelectionID int64      `json:"selectionId"`
	Side        string     `json:"side"`
	LimitOrder  limitOrder `json:"limitOrder"`
}

type placeOrdersRequest struct {
	MarketID     string             `json:"marketId"`
	Instructions []placeInstruction `json:"instructions"`
	CustomerRef  string             `json:"customerRef"`
}

// InstructionReport is the exchange's verdict on one order instruction.
type InstructionReport struct {
	Status      string  `json:"status"`
	ErrorCode   string  `json:"errorCode"`
	BetID       string  `json:"betId"`
	SizeMatched float64 `json:"sizeMatched"`
}

// PlaceExecutionReport is the response to placeOrders.
type PlaceExecutionReport struct {
	Status             string              `json:"status"`
	ErrorCode          string              `json:"errorCode"`
	CustomerRef        string              `json:"customerRef"`
	InstructionReports []InstructionReport `json:"instructionReports"`
}

// Rejected reports whether the exchange refused the order.
func (r PlaceExecutionReport) Rejected() bool {
	return r.Status != "SUCCESS"
}

// apiError is the envelope the exchange wraps API faults in.
type apiError struct {
	Detail struct {
		APINGException struct {
			ErrorCode    string `json:"errorCode"`
			ErrorDetails string `json:"errorDetails"`
		} `json:"APINGException"`
	} `json:"detail"`
	FaultCode   string `json:"faultcode"`
	FaultString string `json:"faultstring"`
}

type loginResponse struct {
	SessionToken string `json:"sessionToken"`
	LoginStatus  string `json:"loginStatus"`
}
