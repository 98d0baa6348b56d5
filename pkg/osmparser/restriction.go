package osmparser

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
)

type TurnRestriction uint8

const (
	NO_LEFT_TURN TurnRestriction = iota
	NO_RIGHT_TURN
	NO_STRAIGHT_ON
	NO_U_TURN
	NO_ENTRY
	NO_EXIT
	ONLY_LEFT_TURN
	ONLY_RIGHT_TURN
	ONLY_STRAIGHT_ON
	ONLY_U_TURN
	INVALID_RESTRICTION
)

var turnRestrictionTags = map[string]TurnRestriction{
	"no_left_turn":     NO_LEFT_TURN,
	"no_right_turn":    NO_RIGHT_TURN,
	"no_straight_on":   NO_STRAIGHT_ON,
	"no_u_turn":        NO_U_TURN,
	"no_entry":         NO_ENTRY,
	"no_exit":          NO_EXIT,
	"only_left_turn":   ONLY_LEFT_TURN,
	"only_right_turn":  ONLY_RIGHT_TURN,
	"only_straight_on": ONLY_STRAIGHT_ON,
	"only_u_turn":      ONLY_U_TURN,
}

func parseTurnRestriction(tag string) TurnRestriction {
	if r, ok := turnRestrictionTags[strings.TrimSpace(tag)]; ok {
		return r
	}
	return INVALID_RESTRICTION
}

func (r TurnRestriction) String() string {
	for tag, tr := range turnRestrictionTags {
		if tr == r {
			return tag
		}
	}
	return "invalid_restriction"
}

// IsMandatory reports whether the restriction is an only_* restriction, which forbids every other exit at via.
func (r TurnRestriction) IsMandatory() bool {
	return r >= ONLY_LEFT_TURN && r <= ONLY_U_TURN
}

// profile vehicle -> osm access keys used in restriction:<key> and except=<key>
var osmVehicleKeys = map[string][]string{
	"car":        {"motorcar", "motor_vehicle", "vehicle"},
	"motorcycle": {"motorcycle", "motor_vehicle", "vehicle"},
	"bike":       {"bicycle", "vehicle"},
	"foot":       {"foot"},
}

// Restriction is a turn restriction relation with a node as via member.
type Restriction struct {
	RelationId osm.RelationID
	From       osm.WayID
	Via        osm.NodeID
	To         osm.WayID
	Kind       TurnRestriction
	Vehicle    string   // osm access key from restriction:<key>, empty if the restriction applies to every vehicle
	Except     []string // osm access keys from the except tag
}

// AppliesTo reports whether r applies to the profile vehicle.
func (r Restriction) AppliesTo(vehicle string) bool {
	keys, ok := osmVehicleKeys[vehicle]
	if !ok {
		keys = []string{vehicle}
	}
	if r.Vehicle != "" && !containsAny(keys, r.Vehicle) {
		return false
	}
	for _, except := range r.Except {
		if containsAny(keys, except) {
			return false
		}
	}
	if r.Vehicle == "" && vehicle == "foot" {
		// plain restrictions are for vehicles
		return false
	}
	return true
}

func containsAny(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}

// ParseRestrictionRelation reads a type=restriction relation. returns false for other relations, via-way
// restrictions and relations with missing members or unknown restriction values.
func ParseRestrictionRelation(relation *osm.Relation) (Restriction, bool) {
	if relation == nil {
		return Restriction{}, false
	}
	relType := relation.Tags.Find("type")
	if relType != "restriction" && !strings.HasPrefix(relType, "restriction:") {
		return Restriction{}, false
	}

	r := Restriction{RelationId: relation.ID, Kind: INVALID_RESTRICTION}

	if tagVal := relation.Tags.Find("restriction"); tagVal != "" {
		r.Kind = parseTurnRestriction(tagVal)
	} else {
		for _, tag := range relation.Tags {
			if strings.HasPrefix(tag.Key, "restriction:") {
				r.Vehicle = strings.TrimPrefix(tag.Key, "restriction:")
				r.Kind = parseTurnRestriction(tag.Value)
				break
			}
		}
	}
	if r.Kind == INVALID_RESTRICTION {
		return Restriction{}, false
	}

	if except := relation.Tags.Find("except"); except != "" {
		for _, e := range strings.Split(except, ";") {
			if e = strings.TrimSpace(e); e != "" {
				r.Except = append(r.Except, e)
			}
		}
	}

	var hasFrom, hasVia, hasTo bool
	for _, member := range relation.Members {
		switch member.Role {
		case "from":
			if member.Type != osm.TypeWay || hasFrom {
				return Restriction{}, false
			}
			r.From = osm.WayID(member.Ref)
			hasFrom = true
		case "via":
			if member.Type != osm.TypeNode || hasVia {
				return Restriction{}, false
			}
			r.Via = osm.NodeID(member.Ref)
			hasVia = true
		case "to":
			if member.Type != osm.TypeWay || hasTo {
				return Restriction{}, false
			}
			r.To = osm.WayID(member.Ref)
			hasTo = true
		}
	}
	if !hasFrom || !hasVia || !hasTo {
		return Restriction{}, false
	}
	return r, true
}

// ParseRestrictions scans an osm pbf stream for node-via turn restriction relations.
func ParseRestrictions(ctx context.Context, r io.Reader) ([]Restriction, error) {
	scanner := osmpbf.New(ctx, r, runtime.GOMAXPROCS(-1))
	defer scanner.Close()
	scanner.SkipNodes = true
	scanner.SkipWays = true

	restrictions := make([]Restriction, 0)
	for scanner.Scan() {
		relation, ok := scanner.Object().(*osm.Relation)
		if !ok {
			continue
		}
		if restriction, ok := ParseRestrictionRelation(relation); ok {
			restrictions = append(restrictions, restriction)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan osm restrictions: %w", err)
	}
	return restrictions, nil
}
