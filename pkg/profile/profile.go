package profile

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/lintang-b-s/navigatorx-turncost/pkg"
	"github.com/lintang-b-s/navigatorx-turncost/pkg/costfunction"
	da "github.com/lintang-b-s/navigatorx-turncost/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-turncost/pkg/util"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	ErrInvalidProfile   = errors.New("invalid profile")
	ErrDuplicateProfile = errors.New("duplicate profile")
	ErrProfileNotFound  = errors.New("profile not found")
)

// Profile selects how turns are weighted for one vehicle.
type Profile struct {
	Name    string `mapstructure:"name" json:"name" validate:"required,max=64"`
	Vehicle string `mapstructure:"vehicle" json:"vehicle" validate:"required,oneof=car motorcycle bike foot"`
	// TurnCosts false means turns are free and no restriction is applied.
	TurnCosts bool `mapstructure:"turn_costs" json:"turn_costs"`
	// UTurnCosts in seconds, -1 forbids u-turns. nil means -1.
	UTurnCosts    *int `mapstructure:"u_turn_costs" json:"u_turn_costs" validate:"omitempty,min=-1"`
	DeadEndUTurns bool `mapstructure:"dead_end_u_turns" json:"dead_end_u_turns"`
}

func (p Profile) GetUTurnCosts() int {
	if p.UTurnCosts == nil {
		return pkg.INFINITE_U_TURN_COSTS
	}
	return *p.UTurnCosts
}

func (p Profile) Validate() error {
	messages, err := util.ValidateStruct(p)
	if err != nil {
		return err
	}
	if len(messages) > 0 {
		return util.WrapErrorf(ErrInvalidProfile, util.ErrBadParamInput, "invalid profile %q: %v", p.Name, messages)
	}
	return nil
}

// LoadProfiles reads the profiles list from viper.
func LoadProfiles() ([]Profile, error) {
	var profiles []Profile
	if err := viper.UnmarshalKey("profiles", &profiles); err != nil {
		return nil, fmt.Errorf("unmarshal profiles: %w", err)
	}
	return profiles, nil
}

// BuildTurnCostProvider returns the turn cost provider of p. the turn cost channel of p.Vehicle may be missing
// from the encoder, the provider then sees no stored costs but still applies the u-turn policy.
func BuildTurnCostProvider(p Profile, storage *da.TurnCostStorage, encoder *da.TurnCostEncoder) (costfunction.TurnCostProvider, error) {
	if !p.TurnCosts {
		return costfunction.NewNoTurnCostProvider(), nil
	}
	var enc *da.DecimalEncodedValue
	if encoder != nil {
		enc, _ = encoder.GetChannel(da.TurnCostChannelName(p.Vehicle))
	}
	tcp, err := costfunction.NewDefaultTurnCostProvider(enc, storage, p.GetUTurnCosts(), p.DeadEndUTurns)
	if err != nil {
		return nil, err
	}
	return tcp, nil
}

type entry struct {
	profile      Profile
	costFunction costfunction.CostFunction
}

// Registry holds the cost function of every profile. safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	profiles map[string]entry
}

func NewRegistry() *Registry {
	return &Registry{profiles: make(map[string]entry)}
}

// NewRegistryFromProfiles validates profiles and builds their cost functions over one shared storage.
func NewRegistryFromProfiles(profiles []Profile, storage *da.TurnCostStorage, encoder *da.TurnCostEncoder,
	log *zap.Logger) (*Registry, error) {
	r := NewRegistry()
	for _, p := range profiles {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		tcp, err := BuildTurnCostProvider(p, storage, encoder)
		if err != nil {
			return nil, fmt.Errorf("profile %s: %w", p.Name, err)
		}
		if err := r.Register(p, costfunction.NewTimeCostFunction(tcp)); err != nil {
			return nil, err
		}
		if log != nil {
			log.Info("profile registered", zap.String("profile", p.Name), zap.String("vehicle", p.Vehicle),
				zap.String("turn_cost_provider", tcp.String()))
		}
	}
	return r, nil
}

func (r *Registry) Register(p Profile, costFunction costfunction.CostFunction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[p.Name]; ok {
		return util.WrapErrorf(ErrDuplicateProfile, util.ErrConflict, "profile %s already registered", p.Name)
	}
	r.profiles[p.Name] = entry{profile: p, costFunction: costFunction}
	return nil
}

func (r *Registry) Get(name string) (Profile, costfunction.CostFunction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.profiles[name]
	if !ok {
		return Profile{}, nil, util.WrapErrorf(ErrProfileNotFound, util.ErrNotFound, "profile %s not found", name)
	}
	return e.profile, e.costFunction, nil
}

// Profiles sorted by name.
func (r *Registry) Profiles() []Profile {
	r.mu.RLock()
	defer r.mu.RUnlock()
	profiles := make([]Profile, 0, len(r.profiles))
	for _, e := range r.profiles {
		profiles = append(profiles, e.profile)
	}
	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].Name < profiles[j].Name
	})
	return profiles
}
