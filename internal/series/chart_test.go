package series

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChart_LockstepWithGaps(t *testing.T) {
	c := NewChart([]string{"GOLD", "OIL"}, 300)

	c.Append("t1", map[string]float64{"GOLD": 100, "OIL": 50})
	c.Append("t2", map[string]float64{"GOLD": 101})

	assert.Equal(t, []string{"t1", "t2"}, c.Labels())

	gold, ok := c.Series("GOLD")
	require.True(t, ok)
	assert.Equal(t, []float64{100, 101}, gold)

	oil, ok := c.Series("OIL")
	require.True(t, ok)
	require.Len(t, oil, 2)
	assert.Equal(t, 50.0, oil[0])
	assert.True(t, IsGap(oil[1]), "missing symbol must produce a gap placeholder")
}

func TestChart_BoundedCapacity(t *testing.T) {
	c := NewChart([]string{"GOLD"}, 3)
	for i := 0; i < 10; i++ {
		c.Append("t", map[string]float64{"GOLD": float64(i)})
	}

	assert.Equal(t, 3, c.Len())
	gold, _ := c.Series("GOLD")
	assert.Equal(t, []float64{7, 8, 9}, gold)
	assert.Len(t, c.Labels(), 3)
}

func TestChart_UnknownSymbol(t *testing.T) {
	c := NewChart([]string{"GOLD"}, 0)
	assert.Equal(t, DefaultChartCapacity, c.Cap())

	_, ok := c.Series("RICE")
	assert.False(t, ok)
}
