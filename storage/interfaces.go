package storage

import "bike-deal-monitor/models"

// DealWriter is the interface any deal-history backend must satisfy.
type DealWriter interface {
	WriteDeal(deal *models.Deal) error
	Close() error
}
