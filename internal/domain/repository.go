package domain

import "context"

// FeedFetcher downloads raw supplier feed documents
type FeedFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// InventoryAPI executes calls against the BaseLinker inventory API
type InventoryAPI interface {
	Call(ctx context.Context, method string, parameters map[string]interface{}) (*APIResponse, error)
}

// FeedParser turns raw feed documents into normalized products
type FeedParser interface {
	Parse(dialect Dialect, data []byte) ([]NormalizedProduct, error)
	ParseAuto(data []byte) (Dialect, []NormalizedProduct, error)
}
