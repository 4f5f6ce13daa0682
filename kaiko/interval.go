package kaiko

// Interval is the bucket width used to aggregate trades into candles.
type Interval string

// Intervals accepted by the aggregation endpoints.
const (
	Interval1m  Interval = "1m"
	Interval2m  Interval = "2m"
	Interval3m  Interval = "3m"
	Interval5m  Interval = "5m"
	Interval10m Interval = "10m"
	Interval15m Interval = "15m"
	Interval30m Interval = "30m"
	Interval1h  Interval = "1h"
	Interval2h  Interval = "2h"
	Interval3h  Interval = "3h"
	Interval4h  Interval = "4h"
	Interval1d  Interval = "1d"
)

var validIntervals = map[Interval]struct{}{
	Interval1m: {}, Interval2m: {}, Interval3m: {}, Interval5m: {},
	Interval10m: {}, Interval15m: {}, Interval30m: {},
	Interval1h: {}, Interval2h: {}, Interval3h: {}, Interval4h: {},
	Interval1d: {},
}

// Valid reports whether the interval is one of the enumerated set.
func (i Interval) Valid() bool {
	_, ok := validIntervals[i]
	return ok
}

func (i Interval) String() string { return string(i) }

// ParseInterval converts a string into an Interval, failing with a
// ConfigError for values outside the enumerated set.
func ParseInterval(s string) (Interval, error) {
	iv := Interval(s)
	if !iv.Valid() {
		return "", &ConfigError{Param: "interval", Reason: "unknown interval " + s}
	}
	return iv, nil
}
