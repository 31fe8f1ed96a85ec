package domain

import "context"

// MarketSource fetches raw records for one sport from a single platform.
type MarketSource interface {
	Platform() Platform
	FetchRecords(ctx context.Context, sport Sport) ([]RawRecord, error)
}
