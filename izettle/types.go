package izettle

// tokenResponse is the JSON shape returned by the OAuth token endpoint
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Price is a monetary amount in the fractional unit of its currency
type Price struct {
	Amount     int64  `json:"amount"`
	CurrencyID string `json:"currencyId,omitempty"`
}

// Variant represents a single purchasable variant of a product.
// Every product has at least one variant
type Variant struct {
	UUID        string `json:"uuid,omitempty"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	SKU         string `json:"sku,omitempty"`
	Barcode     string `json:"barcode,omitempty"`
	Price       *Price `json:"price,omitempty"`
	CostPrice   *Price `json:"costPrice,omitempty"`
}

// Product represents a product in the iZettle product library
type Product struct {
	UUID              string    `json:"uuid,omitempty"`
	Name              string    `json:"name,omitempty"`
	Description       string    `json:"description,omitempty"`
	Categories        []string  `json:"categories,omitempty"`
	ImageLookupKeys   []string  `json:"imageLookupKeys,omitempty"`
	Variants          []Variant `json:"variants,omitempty"`
	VatPercentage     string    `json:"vatPercentage,omitempty"`
	ExternalReference string    `json:"externalReference,omitempty"`
}

// Category represents a product category
type Category struct {
	UUID string `json:"uuid,omitempty"`
	Name string `json:"name,omitempty"`
}

// Discount represents a discount in the iZettle library.
// Either Percentage or Amount is set, never both
type Discount struct {
	UUID              string   `json:"uuid,omitempty"`
	Name              string   `json:"name,omitempty"`
	Description       string   `json:"description,omitempty"`
	Percentage        string   `json:"percentage,omitempty"`
	Amount            *Price   `json:"amount,omitempty"`
	ImageLookupKeys   []string `json:"imageLookupKeys,omitempty"`
	ExternalReference string   `json:"externalReference,omitempty"`
}

// PurchaseProduct is a single product line inside a recorded purchase
type PurchaseProduct struct {
	ProductUUID   string `json:"productUuid,omitempty"`
	VariantUUID   string `json:"variantUuid,omitempty"`
	Name          string `json:"name,omitempty"`
	VariantName   string `json:"variantName,omitempty"`
	Quantity      string `json:"quantity,omitempty"`
	UnitPrice     int64  `json:"unitPrice,omitempty"`
	VatPercentage string `json:"vatPercentage,omitempty"`
}

// Purchase represents a single recorded purchase
type Purchase struct {
	PurchaseUUID    string            `json:"purchaseUUID,omitempty"`
	PurchaseNumber  int64             `json:"purchaseNumber,omitempty"`
	Timestamp       string            `json:"timestamp,omitempty"`
	Amount          int64             `json:"amount,omitempty"`
	VatAmount       int64             `json:"vatAmount,omitempty"`
	Currency        string            `json:"currency,omitempty"`
	Country         string            `json:"country,omitempty"`
	UserDisplayName string            `json:"userDisplayName,omitempty"`
	Products        []PurchaseProduct `json:"products,omitempty"`
	Refunded        bool              `json:"refunded,omitempty"`
	Refund          bool              `json:"refund,omitempty"`
}

// PurchaseList is the paginated response shape
// for the multiple-purchases endpoint
type PurchaseList struct {
	Purchases         []Purchase `json:"purchases"`
	FirstPurchaseHash string     `json:"firstPurchaseHash,omitempty"`
	LastPurchaseHash  string     `json:"lastPurchaseHash,omitempty"`
}

// PurchaseFilter contains the optional querystring filters
// for the multiple-purchases endpoint
type PurchaseFilter struct {
	// Limit caps the number of returned purchases (0 means no limit)
	Limit int
	// LastPurchaseHash resumes a previous listing from its returned hash
	LastPurchaseHash string
	// Descending returns the newest purchases first
	Descending bool
}

// Image describes an image to upload to the iZettle image service,
// either as inline data or as a URL for the service to fetch
type Image struct {
	ImageFormat string   `json:"imageFormat,omitempty"`
	ImageData   []string `json:"imageData,omitempty"`
	ImageURL    string   `json:"imageUrl,omitempty"`
}

// ImageResponse is the result of an image upload.
// The lookup key is what product create/update payloads reference
type ImageResponse struct {
	ImageLookupKey string   `json:"imageLookupKey"`
	ImageURLs      []string `json:"imageUrls"`
}
