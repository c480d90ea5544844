// Package monitor runs the long-lived polling loop: fetch the listing feed,
// extract and evaluate every block, dedupe against the seen store, and alert
// on newly confirmed deals. One cycle failure never stops the loop; one
// listing failure never aborts its cycle.
package monitor

import (
	"context"
	"fmt"
	"time"

	"bike-deal-monitor/models"
	"bike-deal-monitor/services"
	"bike-deal-monitor/storage"
	"bike-deal-monitor/utils"
)

// Feed provides the current page of raw listing text blocks.
type Feed interface {
	FetchListings(ctx context.Context) ([]string, error)
	Close() error
}

// Oracle predicts a fair price for an extracted record.
type Oracle interface {
	Predict(bike *models.BikeRecord) (float64, error)
}

// Notifier delivers a human-readable alert.
type Notifier interface {
	Notify(title, message string) error
}

// SeenSet is the dedup store consulted and grown by the loop.
type SeenSet interface {
	Contains(signature string) bool
	RecordDeal(signature string) error
}

// Config holds the loop timing and decision parameters.
type Config struct {
	Threshold    int
	PollInterval time.Duration
	ErrorBackoff time.Duration
}

// Monitor ties the extraction, prediction, dedup and alerting stages together.
type Monitor struct {
	cfg       Config
	feed      Feed
	extractor *services.Extractor
	oracle    Oracle
	seen      SeenSet
	notifier  Notifier
	history   storage.DealWriter // optional, may be nil
	logger    *utils.Logger
}

// New creates a Monitor. history may be nil when no deal-history sink is
// configured.
func New(cfg Config, feed Feed, extractor *services.Extractor, oracle Oracle,
	seen SeenSet, notifier Notifier, history storage.DealWriter, logger *utils.Logger) *Monitor {
	return &Monitor{
		cfg:       cfg,
		feed:      feed,
		extractor: extractor,
		oracle:    oracle,
		seen:      seen,
		notifier:  notifier,
		history:   history,
		logger:    logger,
	}
}

// Run executes the polling loop until ctx is cancelled. The feed is closed
// exactly once on the way out, whichever phase the loop was in.
func (m *Monitor) Run(ctx context.Context) {
	defer func() {
		if err := m.feed.Close(); err != nil {
			m.logger.Warn("[monitor] Closing feed: %v", err)
		}
	}()

	if err := m.notifier.Notify("Bike Deal Alert", "Cargr monitoring started"); err != nil {
		m.logger.Warn("[monitor] Startup notification failed: %v", err)
	}
	m.logger.Info("[monitor] Starting monitoring loop — threshold: %d€, interval: %v",
		m.cfg.Threshold, m.cfg.PollInterval)

	for {
		sleep := m.cfg.PollInterval
		if err := m.runCycle(ctx); err != nil {
			if ctx.Err() != nil {
				m.logger.Info("[monitor] Stopping monitoring")
				return
			}
			m.logger.Error("[monitor] Cycle failed: %v — backing off %v", err, m.cfg.ErrorBackoff)
			sleep = m.cfg.ErrorBackoff
		}

		select {
		case <-ctx.Done():
			m.logger.Info("[monitor] Stopping monitoring")
			return
		case <-time.After(sleep):
		}
	}
}

// runCycle performs one fetch-and-process pass. Any fetch error, and any
// listing error that escapes processListing, fails the whole cycle.
func (m *Monitor) runCycle(ctx context.Context) error {
	blocks, err := m.feed.FetchListings(ctx)
	if err != nil {
		return fmt.Errorf("fetch listings: %w", err)
	}

	m.logger.Info("[monitor] Scanned %d listings...", len(blocks))

	for _, block := range blocks {
		// Cancellation lands between listings, never mid-record.
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := m.processListing(block); err != nil {
			m.logger.Error("[monitor] Listing failed: %v", err)
		}
	}

	m.logger.Info("------------------------------------------------------------")
	return nil
}

// processListing runs one raw block through the full decision pipeline.
func (m *Monitor) processListing(block string) error {
	bike := m.extractor.Extract(block)
	if bike == nil {
		// No usable data, not an error.
		return nil
	}

	signature := services.Signature(bike, bike.Price)
	if m.seen.Contains(signature) {
		m.logger.Debug("  %-10s %-20s | %5d€ (already alerted)",
			bike.Brand, bike.Model, bike.Price)
		return nil
	}

	predicted := 0
	if p, err := m.oracle.Predict(bike); err != nil {
		m.logger.Warn("[monitor] Prediction failed for %s %s: %v", bike.Brand, bike.Model, err)
	} else {
		predicted = int(p)
	}

	eval := services.Evaluate(bike.Price, predicted, m.cfg.Threshold)

	marker := ""
	if eval.IsDeal {
		marker = "★ DEAL!"
	}
	m.logger.Info("  %-10s %-20s | %5d€ (Pred: %d) %s",
		bike.Brand, bike.Model, bike.Price, predicted, marker)

	if !eval.IsDeal {
		return nil
	}

	// Record before notifying: a deal is alerted at most once even when the
	// delivery itself fails.
	if err := m.seen.RecordDeal(signature); err != nil {
		m.logger.Error("[monitor] Saving deal: %v", err)
	}

	deal := &models.Deal{
		Signature:      signature,
		Brand:          bike.Brand,
		Model:          bike.Model,
		Year:           bike.Year,
		Kilometers:     bike.Kilometers,
		Price:          bike.Price,
		PredictedPrice: predicted,
		Profit:         eval.Profit,
		FoundAt:        time.Now(),
	}
	if m.history != nil {
		if err := m.history.WriteDeal(deal); err != nil {
			m.logger.Warn("[monitor] Deal history write failed: %v", err)
		}
	}

	msg := fmt.Sprintf("Deal Found!\n%s %s (%d)\nPrice: %d€\nProfit: %d€",
		deal.Brand, deal.Model, deal.Year, deal.Price, deal.Profit)
	if err := m.notifier.Notify("Bike Deal Alert", msg); err != nil {
		m.logger.Warn("[monitor] Notification failed: %v", err)
	}

	return nil
}
