package series

import "math"

// DefaultChartCapacity is the number of ticks kept on the shared chart.
const DefaultChartCapacity = 300

// Gap marks a tick where a symbol had no price.
var Gap = math.NaN()

// IsGap reports whether v is a gap placeholder.
func IsGap(v float64) bool {
	return math.IsNaN(v)
}

// Chart keeps one label sequence and one value series per symbol in lockstep:
// every Append adds exactly one label and exactly one value to every series.
type Chart struct {
	symbols []string
	labels  *Ring[string]
	values  map[string]*Ring[float64]
}

// NewChart creates a chart for the given symbols.
func NewChart(symbols []string, capacity int) *Chart {
	if capacity <= 0 {
		capacity = DefaultChartCapacity
	}
	c := &Chart{
		symbols: append([]string(nil), symbols...),
		labels:  NewRing[string](capacity),
		values:  make(map[string]*Ring[float64], len(symbols)),
	}
	for _, s := range symbols {
		c.values[s] = NewRing[float64](capacity)
	}
	return c
}

// Append adds one point. Symbols missing from prices get a Gap.
func (c *Chart) Append(label string, prices map[string]float64) {
	c.labels.Push(label)
	for _, s := range c.symbols {
		v, ok := prices[s]
		if !ok {
			v = Gap
		}
		c.values[s].Push(v)
	}
}

// Labels returns the label sequence, oldest first.
func (c *Chart) Labels() []string {
	return c.labels.Values()
}

// Series returns the value series of symbol, oldest first.
func (c *Chart) Series(symbol string) ([]float64, bool) {
	r, ok := c.values[symbol]
	if !ok {
		return nil, false
	}
	return r.Values(), true
}

// Len returns the number of points currently kept.
func (c *Chart) Len() int {
	return c.labels.Len()
}

// Cap returns the chart capacity.
func (c *Chart) Cap() int {
	return c.labels.Cap()
}

// Clear drops every point.
func (c *Chart) Clear() {
	c.labels.Clear()
	for _, r := range c.values {
		r.Clear()
	}
}
