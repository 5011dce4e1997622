// Package migrations holds the schema migrations of the seller and shop
// databases. Each file registers itself from init(); cmd/sellerhub imports
// this package for its side effects.
package migrations

// Logical database names. Migrations run against the write handle of each.
const (
	Seller = "seller"
	Shop   = "shop"
)
