package costfunction

import (
	"testing"

	"github.com/lintang-b-s/navigatorx-turncost/pkg"
	da "github.com/lintang-b-s/navigatorx-turncost/pkg/datastructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeFunction(t *testing.T) {
	enc := newCarChannel(t)
	storage := newTestStorage(t, enc)
	tcp, err := NewDefaultTurnCostProvider(enc, storage, 30, false)
	require.NoError(t, err)

	tf := NewTimeCostFunction(tcp)

	testCases := []struct {
		name     string
		edge     *da.OutEdge
		expected float64
	}{
		{name: "known speed", edge: da.NewOutEdge(0, 0, 0, 1, 10, 100, 1), expected: 10},
		{name: "unknown speed", edge: da.NewOutEdge(1, 1, 0, 1, 0, 100, 1), expected: 18},
	}
	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, tf.GetWeight(tt.edge), 1e-9)
		})
	}

	assert.Equal(t, 12.0, tf.CalcTurnWeight(3, 7, 9))
	assert.Equal(t, int64(30000), tf.CalcTurnMillis(3, 7, 3))
	assert.Equal(t, "fastest|default_tcp_30", tf.String())
	assert.Same(t, tcp, tf.GetTurnCostProvider())
}

func TestTimeFunctionWithoutTurnCosts(t *testing.T) {
	tf := NewTimeCostFunction(nil)
	assert.Equal(t, 0.0, tf.CalcTurnWeight(3, 7, 3))
	assert.Equal(t, "fastest|no_turn_cost", tf.String())

	enc := newCarChannel(t)
	infinite, err := NewDefaultTurnCostProvider(enc, da.NewTurnCostStorage(), pkg.INFINITE_U_TURN_COSTS, false)
	require.NoError(t, err)
	assert.NotEqual(t, tf.String(), NewTimeCostFunction(infinite).String())
}
