package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
	"k8s.io/utils/ptr"

	"github.com/llm-d/mec-offload-game/pkg/core"
)

// UserSpec holds the constants of one user.
type UserSpec struct {
	Bn float64 `yaml:"bn" json:"bn"`
	Dn float64 `yaml:"dn" json:"dn"`
	En float64 `yaml:"en" json:"en"`
	C  float64 `yaml:"c" json:"c"`

	// An and Kn weigh cost and energy; nil inherits DefaultWeight.
	An *float64 `yaml:"an,omitempty" json:"an,omitempty"`
	Kn *float64 `yaml:"kn,omitempty" json:"kn,omitempty"`

	// Tn is the local processing time. Informational only.
	Tn *float64 `yaml:"tn,omitempty" json:"tn,omitempty"`
}

// DefaultWeight is the cost and energy weight of users that do not set one.
const DefaultWeight = 1.0

// SystemSpec is the on-disk description of a game.
type SystemSpec struct {
	TransmRate  float64 `yaml:"transmRate" json:"transmRate"`
	TransmPower float64 `yaml:"transmPower" json:"transmPower"`

	// DecayK overrides the probability-of-failure steepness when non-zero.
	DecayK float64 `yaml:"decayK,omitempty" json:"decayK,omitempty"`

	Users    []UserSpec     `yaml:"users,omitempty" json:"users,omitempty"`
	Generate *GeneratorSpec `yaml:"generate,omitempty" json:"generate,omitempty"`
}

// Validate checks the spec shape. Numeric soundness of the game itself is
// checked by core.Params.
func (s *SystemSpec) Validate() error {
	if len(s.Users) == 0 && s.Generate == nil {
		return errors.New("system spec needs users or a generate block")
	}
	if len(s.Users) > 0 && s.Generate != nil {
		return errors.New("system spec cannot set both users and a generate block")
	}
	if s.Generate != nil {
		if err := s.Generate.Validate(); err != nil {
			return fmt.Errorf("invalid generate block: %w", err)
		}
	}
	return nil
}

// Resolve returns a copy of the spec with generated users materialized in
// place of the generate block.
func (s *SystemSpec) Resolve() (*SystemSpec, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	out := *s
	if s.Generate != nil {
		users, err := s.Generate.Users()
		if err != nil {
			return nil, err
		}
		out.Users = users
		out.Generate = nil
	} else {
		out.Users = append([]UserSpec(nil), s.Users...)
	}
	return &out, nil
}

// ToParams resolves the spec and builds the immutable parameter record.
func (s *SystemSpec) ToParams() (*core.Params, error) {
	r, err := s.Resolve()
	if err != nil {
		return nil, err
	}

	n := len(r.Users)
	ps := core.ParamsSpec{
		Bn:          make([]float64, n),
		Dn:          make([]float64, n),
		En:          make([]float64, n),
		C:           make([]float64, n),
		An:          make([]float64, n),
		Kn:          make([]float64, n),
		TransmRate:  r.TransmRate,
		TransmPower: r.TransmPower,
		DecayK:      r.DecayK,
	}
	hasTn := false
	for _, u := range r.Users {
		if u.Tn != nil {
			hasTn = true
			break
		}
	}
	if hasTn {
		ps.Tn = make([]float64, n)
	}
	for i, u := range r.Users {
		ps.Bn[i] = u.Bn
		ps.Dn[i] = u.Dn
		ps.En[i] = u.En
		ps.C[i] = u.C
		ps.An[i] = ptr.Deref(u.An, DefaultWeight)
		ps.Kn[i] = ptr.Deref(u.Kn, DefaultWeight)
		if hasTn {
			ps.Tn[i] = ptr.Deref(u.Tn, 0)
		}
	}
	return core.NewParams(ps)
}

// LoadSystemSpec reads a system file; .json files are decoded as JSON and
// everything else as YAML.
func LoadSystemSpec(path string) (*SystemSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading system spec: %w", err)
	}
	s, err := ParseSystemSpec(data, isJSON(path))
	if err != nil {
		return nil, fmt.Errorf("parsing system spec %s: %w", path, err)
	}
	return s, nil
}

// ParseSystemSpec decodes data as JSON or YAML and validates the result.
func ParseSystemSpec(data []byte, asJSON bool) (*SystemSpec, error) {
	var s SystemSpec
	var err error
	if asJSON {
		err = json.Unmarshal(data, &s)
	} else {
		err = yaml.Unmarshal(data, &s)
	}
	if err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Marshal encodes the spec as JSON or YAML.
func (s *SystemSpec) Marshal(asJSON bool) ([]byte, error) {
	if asJSON {
		return json.MarshalIndent(s, "", "  ")
	}
	return yaml.Marshal(s)
}

// Save writes the spec to path, choosing the format by extension.
func (s *SystemSpec) Save(path string) error {
	data, err := s.Marshal(isJSON(path))
	if err != nil {
		return fmt.Errorf("encoding system spec: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing system spec: %w", err)
	}
	return nil
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}
