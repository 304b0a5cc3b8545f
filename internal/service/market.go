package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/edward362/ENPC-TRADING-GAME/internal/domain"
	"github.com/edward362/ENPC-TRADING-GAME/internal/series"
)

// assetState is the mutable per-symbol record behind an AssetStream.
type assetState struct {
	last     *float64
	previous *float64
	delta    *float64
	deltaPct *float64
	trend    domain.Trend
	history  *series.Ring[float64]
}

// MarketSync derives deltas, trends, flashes and bounded history from price ticks.
// Only ApplyTick and Reset mutate it; the RWMutex serves external reads.
type MarketSync struct {
	mu          sync.RWMutex
	symbols     []string
	assets      map[string]*assetState
	chart       *series.Chart
	chartSymbol string
	seq         uint64
}

// NewMarketSync creates one stream per configured symbol.
func NewMarketSync(symbols []string, sparkCap, chartCap int, chartSymbol string) *MarketSync {
	m := &MarketSync{
		symbols: append([]string(nil), symbols...),
		assets:  make(map[string]*assetState, len(symbols)),
		chart:   series.NewChart(symbols, chartCap),
	}
	for _, s := range symbols {
		m.assets[s] = &assetState{history: series.NewRing[float64](sparkCap)}
	}

	m.chartSymbol = chartSymbol
	if _, ok := m.assets[chartSymbol]; !ok && len(symbols) > 0 {
		m.chartSymbol = symbols[0]
	}
	return m
}

// ApplyTick ingests one price snapshot. Configured symbols missing from prices
// keep their state; unknown symbols are ignored. The chart always advances by one point.
func (m *MarketSync) ApplyTick(prices map[string]float64, label string) domain.TickView {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	if label == "" {
		label = fmt.Sprintf("#%d", m.seq)
	}

	var flashes []domain.Flash
	for _, symbol := range m.symbols {
		price, ok := prices[symbol]
		if !ok {
			continue
		}
		a := m.assets[symbol]

		// 1. Delta against the previous observation
		a.previous = a.last
		if a.previous != nil {
			delta := price - *a.previous
			pct := 0.0
			if *a.previous != 0 {
				pct = delta / *a.previous * 100
			}
			a.delta, a.deltaPct = &delta, &pct

			// 2. Trend
			a.trend = domain.ClassifyTrend(delta)
		} else {
			a.delta, a.deltaPct = nil, nil
			a.trend = domain.TrendUnknown
		}

		// 3. History
		a.history.Push(price)

		// 4. Flash
		if a.trend.Flashes() {
			flashes = append(flashes, domain.Flash{Symbol: symbol, Direction: a.trend, Tick: m.seq})
		}

		// 5. Last price
		p := price
		a.last = &p
	}

	m.chart.Append(label, prices)

	return domain.TickView{
		Seq:         m.seq,
		Label:       label,
		Assets:      m.streamsLocked(),
		Flashes:     flashes,
		ChartSymbol: m.chartSymbol,
		ChartTrend:  m.chartTrendLocked(),
	}
}

// chartTrendLocked classifies the last two stored points of the selected symbol.
// It can disagree with that symbol's row trend; both are kept as is.
func (m *MarketSync) chartTrendLocked() domain.Trend {
	a, ok := m.assets[m.chartSymbol]
	if !ok {
		return domain.TrendUnknown
	}
	prev, last, ok := a.history.LastTwo()
	if !ok {
		return domain.TrendUnknown
	}
	return domain.ClassifyTrend(last - prev)
}

// SelectChartSymbol switches the primary chart series.
func (m *MarketSync) SelectChartSymbol(symbol string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.assets[symbol]; !ok {
		return domain.NewValidationError("symbol", fmt.Errorf("%w: %s", domain.ErrUnknownSymbol, symbol))
	}
	m.chartSymbol = symbol
	return nil
}

// ChartSymbol returns the currently selected chart symbol.
func (m *MarketSync) ChartSymbol() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.chartSymbol
}

// ChartTrend returns the two-point trend of the selected symbol.
func (m *MarketSync) ChartTrend() domain.Trend {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.chartTrendLocked()
}

// ChartSeries returns the shared labels and the series of the selected symbol.
func (m *MarketSync) ChartSeries() (labels []string, values []float64) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	values, _ = m.chart.Series(m.chartSymbol)
	return m.chart.Labels(), values
}

// Stream returns a copy of one symbol's state.
func (m *MarketSync) Stream(symbol string) (domain.AssetStream, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.assets[symbol]
	if !ok {
		return domain.AssetStream{}, false
	}
	return a.snapshot(symbol), true
}

// Streams returns copies of every stream in configured order.
func (m *MarketSync) Streams() []domain.AssetStream {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.streamsLocked()
}

func (m *MarketSync) streamsLocked() []domain.AssetStream {
	out := make([]domain.AssetStream, 0, len(m.symbols))
	for _, s := range m.symbols {
		out = append(out, m.assets[s].snapshot(s))
	}
	return out
}

// Reset clears all streams and the chart. Called when a game starts.
func (m *MarketSync) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range m.assets {
		a.last, a.previous, a.delta, a.deltaPct = nil, nil, nil, nil
		a.trend = domain.TrendUnknown
		a.history.Clear()
	}
	m.chart.Clear()
	m.seq = 0
}

// Symbols returns the configured symbols.
func (m *MarketSync) Symbols() []string {
	return append([]string(nil), m.symbols...)
}

func (a *assetState) snapshot(symbol string) domain.AssetStream {
	return domain.AssetStream{
		Symbol:        symbol,
		LastPrice:     copyPtr(a.last),
		PreviousPrice: copyPtr(a.previous),
		Delta:         copyPtr(a.delta),
		DeltaPct:      copyPtr(a.deltaPct),
		Trend:         a.trend,
		History:       a.history.Values(),
	}
}

func copyPtr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// TickLabel formats a server timestamp (seconds) as a wall-clock chart label.
// It returns "" when the tick carried no timestamp.
func TickLabel(ts float64) string {
	if ts <= 0 {
		return ""
	}
	sec := int64(ts)
	nsec := int64((ts - float64(sec)) * float64(time.Second))
	return time.Unix(sec, nsec).Format("15:04:05")
}
