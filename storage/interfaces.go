package storage

import "cian-offices-scraper/models"

// OfferWriter is the interface any storage backend must satisfy.
type OfferWriter interface {
	Write(offers []*models.Offer) error
}

var (
	_ OfferWriter = (*CSVWriter)(nil)
	_ OfferWriter = (*PostgresWriter)(nil)
)
