// Package catalog defines the boundary to the external music catalog.
// Search, metadata fetching and auth against the catalog provider live
// outside this server; the core only consumes this interface.
package catalog

import "context"

// ItemInfo is the metadata the catalog returns for one entry.
type ItemInfo struct {
	Kind       string
	ExternalID string
	Name       string
	ArtistName string
}

// Client looks up catalog entries by provider reference.
type Client interface {
	Lookup(ctx context.Context, kind, externalID string) (*ItemInfo, error)
}
