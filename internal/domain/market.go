package domain

// Trend classifies the direction of the latest price change.
type Trend int

const (
	TrendUnknown Trend = iota // no previous observation
	TrendFlat
	TrendUp
	TrendDown
)

// String returns the string representation of Trend
func (t Trend) String() string {
	switch t {
	case TrendFlat:
		return "flat"
	case TrendUp:
		return "up"
	case TrendDown:
		return "down"
	default:
		return "unknown"
	}
}

// Flashes reports whether the trend produces a flash signal.
func (t Trend) Flashes() bool {
	return t == TrendUp || t == TrendDown
}

// ClassifyTrend maps the sign of delta to a trend.
func ClassifyTrend(delta float64) Trend {
	switch {
	case delta > 0:
		return TrendUp
	case delta < 0:
		return TrendDown
	default:
		return TrendFlat
	}
}

// AssetStream holds the derived per-symbol state.
// Delta and DeltaPct are nil exactly when PreviousPrice is nil.
type AssetStream struct {
	Symbol        string
	LastPrice     *float64
	PreviousPrice *float64
	Delta         *float64
	DeltaPct      *float64
	Trend         Trend
	History       []float64 // oldest first
}

// Flash is a one-shot pulse for a just-applied price change.
// A newer Tick value for the same symbol supersedes any older flash.
type Flash struct {
	Symbol    string
	Direction Trend
	Tick      uint64
}

// TickView is everything a renderer needs after one tick.
type TickView struct {
	Seq          uint64
	Label        string
	RemainingSec int
	Assets       []AssetStream // configured order
	Flashes      []Flash
	ChartSymbol  string
	ChartTrend   Trend
}
