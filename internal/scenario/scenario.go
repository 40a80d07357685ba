package scenario

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"os"

	"github.com/brunoga/deep"
	"gopkg.in/yaml.v3"

	"uav-aoi-sim/internal/geom"
	"uav-aoi-sim/internal/guard"
)

// Scenario is a ground-node layout the UAV serves.
type Scenario struct {
	Name        string       `yaml:"name,omitempty"`
	Description string       `yaml:"description,omitempty"`
	FieldSize   []float64    `yaml:"field_size,omitempty"`
	StartNode   *int         `yaml:"start_node,omitempty"`
	Nodes       []geom.Point `yaml:"nodes"`
}

// Validate checks that the layout can be simulated.
func (s *Scenario) Validate() error {
	if len(s.Nodes) == 0 {
		return guard.Invalid("nodes", "scenario %q has none", s.Name)
	}
	var errs []error
	for i, n := range s.Nodes {
		if math.IsNaN(n.X) || math.IsNaN(n.Y) || math.IsInf(n.X, 0) || math.IsInf(n.Y, 0) {
			errs = append(errs, guard.Invalid("nodes", "node %d has a non-finite position", i))
		}
	}
	if s.StartNode != nil && (*s.StartNode < 0 || *s.StartNode >= len(s.Nodes)) {
		errs = append(errs, guard.Invalid("start_node", "%d out of range [0, %d)", *s.StartNode, len(s.Nodes)))
	}
	return errors.Join(errs...)
}

// Clone returns a deep copy so runs never share node slices.
func (s *Scenario) Clone() *Scenario {
	return deep.MustCopy(s)
}

// Load reads a YAML node layout from disk.
func Load(path string) (*Scenario, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var s Scenario
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Random places n nodes uniformly in a w×h field. All x coordinates are
// drawn before the y coordinates, so one stream can feed several layouts.
func Random(rng *rand.Rand, n int, w, h float64) *Scenario {
	nodes := make([]geom.Point, n)
	for i := range nodes {
		nodes[i].X = rng.Float64() * w
	}
	for i := range nodes {
		nodes[i].Y = rng.Float64() * h
	}
	return &Scenario{
		Name:      "random",
		FieldSize: []float64{w, h},
		Nodes:     nodes,
	}
}

// Generate is Random with a fresh stream seeded from seed.
func Generate(n int, w, h float64, seed int64) *Scenario {
	s := Random(NewRand(seed), n, w, h)
	s.Description = fmt.Sprintf("%d nodes, seed %d", n, seed)
	return s
}

// NewRand returns the deterministic generator used for layouts.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), 0x5eed))
}

// Resolve turns a scenario reference into a layout: empty means random, a
// built-in name selects that layout, anything else is read as a file.
func Resolve(ref string, n int, w, h float64, seed int64) (*Scenario, error) {
	if ref == "" {
		if n < 1 {
			return nil, guard.Invalid("N", "must be >= 1, got %d", n)
		}
		return Generate(n, w, h, seed), nil
	}
	if s, ok := BuiltIn(n, w, h)[ref]; ok {
		if err := s.Validate(); err != nil {
			return nil, err
		}
		return &s, nil
	}
	return Load(ref)
}
