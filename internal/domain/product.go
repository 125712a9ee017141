package domain

// NormalizedProduct is the flat, dialect-independent product record every feed parser produces.
// All fields are text; absent source values are empty strings or the dialect default.
type NormalizedProduct struct {
	ProductID    string `json:"product_id"`
	EAN          string `json:"ean"`
	Name         string `json:"name"`
	Producer     string `json:"producer"`
	Category     string `json:"category"`
	CategoryPath string `json:"category_path"`
	Version      string `json:"version"`
	PriceGross   string `json:"price_gross"`
	PriceNet     string `json:"price_net"`
	VAT          string `json:"vat"`
	Currency     string `json:"currency"`
	Stock        string `json:"stock"`
	URL          string `json:"url"`
	Description  string `json:"description"`
}

// ProductColumns is the export column order
var ProductColumns = []string{
	"product_id", "ean", "name", "producer", "category", "category_path",
	"version", "price_gross", "price_net", "vat", "currency", "stock",
	"url", "description",
}

// Record returns the field values in ProductColumns order
func (p NormalizedProduct) Record() []string {
	return []string{
		p.ProductID, p.EAN, p.Name, p.Producer, p.Category, p.CategoryPath,
		p.Version, p.PriceGross, p.PriceNet, p.VAT, p.Currency, p.Stock,
		p.URL, p.Description,
	}
}

// ProductFilter narrows a parsed product list
type ProductFilter struct {
	Producer string `form:"producer"`  // exact match, empty means all producers
	MinStock int    `form:"min_stock"` // 0 disables the stock filter
	Search   string `form:"search"`    // case-insensitive match on name, EAN or producer
}

// ProducerBreakdown aggregates products per producer
type ProducerBreakdown struct {
	Producer     string  `json:"producer"`
	Products     int     `json:"products"`
	TotalStock   int     `json:"totalStock"`
	AverageStock float64 `json:"averageStock"`
}

// FeedSummary holds the statistics shown next to a converted feed
type FeedSummary struct {
	TotalProducts   int                 `json:"totalProducts"`
	WithStock       int                 `json:"withStock"`
	UniqueProducers int                 `json:"uniqueProducers"`
	AfterFilters    int                 `json:"afterFilters"`
	TotalStock      int                 `json:"totalStock"`
	AverageStock    float64             `json:"averageStock"`
	AveragePrice    float64             `json:"averagePrice"`
	Producers       []ProducerBreakdown `json:"producers"`
}
