package domain

// Transaction represents one synthesized purchase event, the unit of
// output published to the broker. Field names and types match the wire
// format consumed by the analytics dashboard.
type Transaction struct {
	TransactionID string  `json:"transaction_id"`
	CustomerID    string  `json:"customer_id"`
	ProductName   string  `json:"product_name"`
	Category      string  `json:"category"`
	Price         float64 `json:"price"`
	TotalAmount   float64 `json:"total_amount"`
	Currency      string  `json:"currency"`
	Quantity      int     `json:"quantity"`
	PaymentMethod string  `json:"payment_method"`
	Status        string  `json:"status"`
	OrderType     string  `json:"order_type"`
	City          string  `json:"city"`
	Country       string  `json:"country"`
	Device        string  `json:"device"`
	Brand         string  `json:"brand"`
	ScreenSize    int     `json:"screen_size"`
	DisplayType   string  `json:"display_type"`
	Resolution    string  `json:"resolution"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	Source        string  `json:"source"`
	Timestamp     string  `json:"timestamp"`
}

// Constant attributes of the current catalog
const (
	CategoryElectronics = "Electronics"
	CurrencyUSD         = "USD"
	CountryUSA          = "USA"
)

// Order fulfillment modes
const (
	OrderTypeStore  = "STORE"
	OrderTypeOnline = "ONLINE"
)

// Purchase statuses
const (
	StatusCompleted         = "COMPLETED"
	StatusFailedCheckout    = "FAILED_CHECKOUT"
	StatusFailedAPIResponse = "FAILED_API_RESPONSE"
	StatusInsufficientFunds = "INSUFICCIENT_FUNDS"
	StatusUserError         = "USER_ERROR"
	StatusFraud             = "FRAUD"
)

// SourceOrganic is the only acquisition channel fulfilled in store;
// every other channel implies an online order.
const SourceOrganic = "Organic"
