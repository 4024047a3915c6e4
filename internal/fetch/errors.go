package fetch

import "errors"

// ErrNoData marks a symbol the provider resolved but returned nothing
// useful for. Batch operations skip such symbols without logging.
var ErrNoData = errors.New("no data available")

// ErrSessionClosed is returned by providers whose upstream session has
// been shut down.
var ErrSessionClosed = errors.New("provider session closed")
