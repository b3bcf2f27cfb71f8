package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/thangld/vnmarket/internal/domain"
	"github.com/thangld/vnmarket/internal/infrastructure/marketdata"
)

// DefaultDirectoryTTL is how long a fund directory snapshot stays fresh.
// The listing changes on the order of weeks, so a daily refresh is plenty.
const DefaultDirectoryTTL = 24 * time.Hour

// directorySnapshot is one immutable build of the fund directory. A snapshot
// is assembled in full and then published with a single pointer swap, so
// readers either see the previous build or this one, never a partial map.
type directorySnapshot struct {
	instruments []domain.Instrument
	fundIDs     map[string]int64
	fetchedAt   time.Time
}

func (s *directorySnapshot) valid(now time.Time, ttl time.Duration) bool {
	return now.Sub(s.fetchedAt) < ttl
}

// FundDirectory caches the upstream fund listing and the symbol-to-internal-id
// mapping derived from it. Concurrent refreshes past an expired TTL are not
// mutually excluded; both rebuild and the last writer wins.
type FundDirectory struct {
	provider marketdata.Provider
	ttl      time.Duration
	now      func() time.Time

	snapshot atomic.Pointer[directorySnapshot]
}

func NewFundDirectory(provider marketdata.Provider, ttl time.Duration) *FundDirectory {
	if ttl <= 0 {
		ttl = DefaultDirectoryTTL
	}
	return &FundDirectory{
		provider: provider,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Directory returns the full instrument list, refreshing it when the cached
// snapshot is missing or expired. When a refresh fails and an older snapshot
// exists, the stale snapshot is served instead of the error.
func (d *FundDirectory) Directory(ctx context.Context) ([]domain.Instrument, error) {
	snap, err := d.current(ctx)
	if err != nil {
		return nil, err
	}
	return snap.instruments, nil
}

// ResolveFundID maps a fund symbol to its provider-internal id. Lookup is
// case-insensitive. A missing symbol yields ok=false, as does a failed
// refresh with no snapshot to fall back on.
func (d *FundDirectory) ResolveFundID(ctx context.Context, symbol string) (int64, bool) {
	snap, err := d.current(ctx)
	if err != nil {
		slog.Warn("fund id resolution failed, directory unavailable", "symbol", symbol, "error", err)
		return 0, false
	}

	id, ok := snap.fundIDs[strings.ToUpper(symbol)]
	if !ok || id == 0 {
		return 0, false
	}
	return id, true
}

// current returns a usable snapshot: the cached one while fresh, a newly
// built one after expiry, or the stale one when the rebuild fails.
func (d *FundDirectory) current(ctx context.Context) (*directorySnapshot, error) {
	snap := d.snapshot.Load()
	if snap != nil && snap.valid(d.now(), d.ttl) {
		return snap, nil
	}

	fresh, err := d.refresh(ctx)
	if err != nil {
		if snap != nil {
			slog.Warn("fund directory refresh failed, serving stale snapshot",
				"error", err, "age", d.now().Sub(snap.fetchedAt).String())
			return snap, nil
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	return fresh, nil
}

// refresh fetches the upstream listing and rebuilds the instrument slice and
// the symbol map in one pass before publishing the snapshot atomically.
func (d *FundDirectory) refresh(ctx context.Context) (*directorySnapshot, error) {
	listings, err := d.provider.FundListing(ctx)
	if err != nil {
		return nil, fmt.Errorf("fund listing fetch failed: %w", err)
	}

	snap := &directorySnapshot{
		instruments: make([]domain.Instrument, 0, len(listings)),
		fundIDs:     make(map[string]int64, len(listings)*2),
		fetchedAt:   d.now(),
	}
	for _, listing := range listings {
		symbol := listing.ShortName
		if symbol == "" {
			symbol = listing.FundCode
		}
		snap.instruments = append(snap.instruments,
			domain.NewInstrument(symbol, listing.Name, domain.AssetClassFund, listing.FundID))

		// Both the fund code and the short name resolve to the same id.
		if listing.FundCode != "" {
			snap.fundIDs[strings.ToUpper(listing.FundCode)] = listing.FundID
		}
		if listing.ShortName != "" {
			snap.fundIDs[strings.ToUpper(listing.ShortName)] = listing.FundID
		}
	}

	d.snapshot.Store(snap)
	slog.Info("fund directory refreshed", "funds", len(snap.instruments))
	return snap, nil
}
