package pricing

// Price movement directions.
const (
	TrendUp   = "up"
	TrendDown = "down"
)

// Sell recommendations.
const (
	RecommendHold    = "hold"
	RecommendSellNow = "sell_now"
)

// estimateUplift is the assumed price increase until harvest.
const estimateUplift = 1.05

// Commodity is a tracked crop with its latest market price.
type Commodity struct {
	Key          string  `json:"key" yaml:"key"`
	Name         string  `json:"name" yaml:"name"`
	CurrentPrice float64 `json:"currentPrice" yaml:"currentPrice"`
	Unit         string  `json:"unit" yaml:"unit"`
	Trend        string  `json:"trend" yaml:"trend"`
	Change       string  `json:"change" yaml:"change"`
}

// PricePoint pairs an observed price with the model prediction for a date.
// Price is nil for dates that have not happened yet.
type PricePoint struct {
	Date       string   `json:"date" yaml:"date"`
	Price      *float64 `json:"price" yaml:"price"`
	Prediction float64  `json:"prediction" yaml:"prediction"`
}

// MarketQuote is the latest price seen at a regional market.
type MarketQuote struct {
	Market    string  `json:"market" yaml:"market"`
	Commodity string  `json:"commodity" yaml:"commodity"`
	Price     float64 `json:"price" yaml:"price"`
	Updated   string  `json:"updated" yaml:"updated"`
}

// SimulationRecord is a previously run revenue simulation.
type SimulationRecord struct {
	Date             string  `json:"date" yaml:"date"`
	Commodity        string  `json:"commodity" yaml:"commodity"`
	Amount           float64 `json:"amount" yaml:"amount"`
	Unit             string  `json:"unit" yaml:"unit"`
	EstimatedRevenue float64 `json:"estimatedRevenue" yaml:"estimatedRevenue"`
}

// Outlook bundles the price history and the forward-looking predictions.
type Outlook struct {
	Commodity    Commodity     `json:"commodity"`
	History      []PricePoint  `json:"history"`
	Upcoming     []PricePoint  `json:"upcoming"`
	BestSellDate string        `json:"bestSellDate"`
	Markets      []MarketQuote `json:"markets"`
}

// SimulationInput is a farmer's planned harvest.
type SimulationInput struct {
	Commodity     string  `json:"commodity"`
	HarvestAmount float64 `json:"harvestAmount"`
	HarvestDate   string  `json:"harvestDate"`
}

// Simulation is the projected revenue for a harvest.
type Simulation struct {
	Commodity      string  `json:"commodity"`
	CommodityName  string  `json:"commodityName"`
	Unit           string  `json:"unit"`
	HarvestAmount  float64 `json:"harvestAmount"`
	HarvestDate    string  `json:"harvestDate,omitempty"`
	CurrentPrice   float64 `json:"currentPrice"`
	EstimatedPrice float64 `json:"estimatedPrice"`
	TotalRevenue   float64 `json:"totalRevenue"`
	MarginPercent  float64 `json:"marginPercent"`
	BestSellDate   string  `json:"bestSellDate"`
	Recommendation string  `json:"recommendation"`
	ShareText      string  `json:"shareText"`
}
