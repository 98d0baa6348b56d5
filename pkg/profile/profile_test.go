package profile

import (
	"bytes"
	"math"
	"testing"

	"github.com/lintang-b-s/navigatorx-turncost/pkg"
	"github.com/lintang-b-s/navigatorx-turncost/pkg/costfunction"
	da "github.com/lintang-b-s/navigatorx-turncost/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-turncost/pkg/util"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const profilesYaml = `
profiles:
  - name: car
    vehicle: car
    turn_costs: true
    u_turn_costs: 60
  - name: car_dead_end
    vehicle: car
    turn_costs: true
    u_turn_costs: 40
    dead_end_u_turns: true
  - name: car_no_u_turn
    vehicle: car
    turn_costs: true
  - name: foot
    vehicle: foot
`

func intPtr(i int) *int {
	return &i
}

func loadYaml(t *testing.T, config string) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.SetConfigType("yaml")
	require.NoError(t, viper.ReadConfig(bytes.NewBufferString(config)))
}

func TestLoadProfiles(t *testing.T) {
	loadYaml(t, profilesYaml)

	profiles, err := LoadProfiles()
	require.NoError(t, err)
	require.Len(t, profiles, 4)

	assert.Equal(t, Profile{Name: "car", Vehicle: "car", TurnCosts: true, UTurnCosts: intPtr(60)}, profiles[0])
	assert.True(t, profiles[1].DeadEndUTurns)
	assert.Equal(t, pkg.INFINITE_U_TURN_COSTS, profiles[2].GetUTurnCosts())
	assert.False(t, profiles[3].TurnCosts)
}

func TestProfileValidate(t *testing.T) {
	testCases := []struct {
		name    string
		profile Profile
		valid   bool
	}{
		{name: "valid", profile: Profile{Name: "car", Vehicle: "car", UTurnCosts: intPtr(10)}, valid: true},
		{name: "infinite u-turn", profile: Profile{Name: "car", Vehicle: "car", UTurnCosts: intPtr(-1)}, valid: true},
		{name: "default u-turn", profile: Profile{Name: "bike", Vehicle: "bike"}, valid: true},
		{name: "negative u-turn", profile: Profile{Name: "car", Vehicle: "car", UTurnCosts: intPtr(-2)}},
		{name: "missing name", profile: Profile{Vehicle: "car"}},
		{name: "unknown vehicle", profile: Profile{Name: "truck", Vehicle: "truck"}},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.profile.Validate()
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidProfile)
			assert.Equal(t, util.ErrBadParamInput, util.ErrorCode(err))
		})
	}
}

func TestBuildTurnCostProvider(t *testing.T) {
	encoder := da.NewTurnCostEncoder()
	carEnc := da.NewDecimalEncodedValue(da.TurnCostChannelName("car"), pkg.DEFAULT_TURN_COST_BITS, 1, true)
	require.NoError(t, encoder.Add(carEnc))
	storage := da.NewTurnCostStorage()
	require.NoError(t, storage.Set(carEnc, 1, 2, 3, math.Inf(1)))
	require.NoError(t, storage.Set(carEnc, 4, 5, 4, 1))

	testCases := []struct {
		name             string
		profile          Profile
		expectedString   string
		restrictedWeight float64
		uTurnWeight      float64
		deadEndWeight    float64
	}{
		{
			name:             "finite u-turn",
			profile:          Profile{Name: "car", Vehicle: "car", TurnCosts: true, UTurnCosts: intPtr(60)},
			expectedString:   "default_tcp_60",
			restrictedWeight: math.Inf(1), uTurnWeight: 60, deadEndWeight: 60,
		},
		{
			name:             "dead end u-turns",
			profile:          Profile{Name: "car", Vehicle: "car", TurnCosts: true, UTurnCosts: intPtr(40), DeadEndUTurns: true},
			expectedString:   "default_tcp_40",
			restrictedWeight: math.Inf(1), uTurnWeight: math.Inf(1), deadEndWeight: 40,
		},
		{
			name:             "no u-turns",
			profile:          Profile{Name: "car", Vehicle: "car", TurnCosts: true},
			expectedString:   "default_tcp_-1",
			restrictedWeight: math.Inf(1), uTurnWeight: math.Inf(1), deadEndWeight: math.Inf(1),
		},
		{
			name:             "vehicle without channel",
			profile:          Profile{Name: "bike", Vehicle: "bike", TurnCosts: true, UTurnCosts: intPtr(5)},
			expectedString:   "default_tcp_5",
			restrictedWeight: 0, uTurnWeight: 5, deadEndWeight: 5,
		},
		{
			name:           "turn costs disabled",
			profile:        Profile{Name: "foot", Vehicle: "foot"},
			expectedString: "no_turn_cost",
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			tcp, err := BuildTurnCostProvider(tt.profile, storage, encoder)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedString, tcp.String())
			assert.Equal(t, tt.restrictedWeight, tcp.CalcTurnWeight(1, 2, 3))
			assert.Equal(t, tt.uTurnWeight, tcp.CalcTurnWeight(7, 2, 7))
			assert.Equal(t, tt.deadEndWeight, tcp.CalcTurnWeight(4, 5, 4))
		})
	}

	_, err := BuildTurnCostProvider(Profile{Name: "car", Vehicle: "car", TurnCosts: true}, nil, encoder)
	assert.ErrorIs(t, err, costfunction.ErrNoTurnCostStorage)
}

func TestRegistry(t *testing.T) {
	loadYaml(t, profilesYaml)
	profiles, err := LoadProfiles()
	require.NoError(t, err)

	encoder := da.NewTurnCostEncoder()
	require.NoError(t, encoder.Add(da.NewDecimalEncodedValue(da.TurnCostChannelName("car"), pkg.DEFAULT_TURN_COST_BITS, 1, true)))

	registry, err := NewRegistryFromProfiles(profiles, da.NewTurnCostStorage(), encoder, nil)
	require.NoError(t, err)

	names := make([]string, 0)
	for _, p := range registry.Profiles() {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"car", "car_dead_end", "car_no_u_turn", "foot"}, names)

	p, cf, err := registry.Get("car_dead_end")
	require.NoError(t, err)
	assert.Equal(t, 40, p.GetUTurnCosts())
	assert.Equal(t, "fastest|default_tcp_40", cf.String())

	_, _, err = registry.Get("truck")
	assert.ErrorIs(t, err, ErrProfileNotFound)
	assert.Equal(t, util.ErrNotFound, util.ErrorCode(err))

	err = registry.Register(Profile{Name: "car", Vehicle: "car"}, costfunction.NewTimeCostFunction(nil))
	assert.ErrorIs(t, err, ErrDuplicateProfile)
	assert.Equal(t, util.ErrConflict, util.ErrorCode(err))

	_, err = NewRegistryFromProfiles([]Profile{{Name: "x", Vehicle: "plane"}}, da.NewTurnCostStorage(), encoder, nil)
	assert.ErrorIs(t, err, ErrInvalidProfile)
}
