package domain

import "errors"

// ErrUpstreamUnavailable is returned when the market-data provider could not
// be reached and no usable cache or fallback exists. It is the only hard
// failure the core surfaces; everywhere else a well-defined empty value is
// preferred over an error.
var ErrUpstreamUnavailable = errors.New("upstream market data provider unavailable")

// ErrNotFound marks a symbol that resolves to nothing across every asset
// class.
var ErrNotFound = errors.New("not found")
