package config

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/iti/rngstream"
	"gonum.org/v1/gonum/stat/distuv"
	"k8s.io/utils/ptr"
)

// Case selects whether generated users share their constants.
type Case string

const (
	// Homogeneous users all get the constants of a single draw.
	Homogeneous Case = "homo"
	// Heterogeneous users each draw their own constants.
	Heterogeneous Case = "hetero"
)

// Draw ranges of generated users.
const (
	MinCycles, MaxCycles           = 1e9, 10e9   // dn
	MinSpeed, MaxSpeed             = 1e9, 10e9   // fn
	MinCycleEnergy, MaxCycleEnergy = 1e-9, 10e-9 // gn
	MinData, MaxData               = 1e6, 10e6   // bn
)

// Generator defaults.
const (
	DefaultCpar = 0.5
	DefaultAn   = 0.2
	DefaultKn   = 1.2
)

// GeneratorSpec asks for N random users.
type GeneratorSpec struct {
	Case  Case    `yaml:"case" json:"case"`
	N     int     `yaml:"users" json:"users"`
	Seed  uint64  `yaml:"seed,omitempty" json:"seed,omitempty"`
	Cpar  float64 `yaml:"cpar,omitempty" json:"cpar,omitempty"`
	An    float64 `yaml:"an,omitempty" json:"an,omitempty"`
	Kn    float64 `yaml:"kn,omitempty" json:"kn,omitempty"`
	Label string  `yaml:"label,omitempty" json:"label,omitempty"`
}

// Validate checks the generator settings.
func (g *GeneratorSpec) Validate() error {
	switch g.Case {
	case Homogeneous, Heterogeneous, "":
	default:
		return fmt.Errorf("unknown case %q", g.Case)
	}
	if g.N < 1 {
		return fmt.Errorf("users must be >= 1, got %d", g.N)
	}
	if g.Cpar < 0 || g.Cpar > 1 {
		return fmt.Errorf("cpar must be between 0 and 1, got %g", g.Cpar)
	}
	if g.An < 0 || g.Kn < 0 {
		return errors.New("an and kn must not be negative")
	}
	return nil
}

// Stream is a source of uniform variates in [0, 1).
type Stream interface {
	RandU01() float64
}

// StreamFactory hands out the stream of one user.
type StreamFactory func(user int) Stream

// RngStreams gives every user its own named RngStream.
func RngStreams(prefix string) StreamFactory {
	return func(user int) Stream {
		return rngstream.New(fmt.Sprintf("%s-user-%d", prefix, user))
	}
}

// SeededStreams gives every user a PCG stream derived from seed, so draws are
// reproducible across processes.
func SeededStreams(seed uint64) StreamFactory {
	return func(user int) Stream {
		return uniformStream{distuv.Uniform{Min: 0, Max: 1, Src: rand.NewPCG(seed, uint64(user))}}
	}
}

type uniformStream struct {
	u distuv.Uniform
}

func (s uniformStream) RandU01() float64 { return s.u.Rand() }

// Streams returns the stream factory selected by the seed.
func (g *GeneratorSpec) Streams() StreamFactory {
	if g.Seed != 0 {
		return SeededStreams(g.Seed)
	}
	label := g.Label
	if label == "" {
		label = "mecgame"
	}
	return RngStreams(label)
}

// Users draws the users described by g.
func (g *GeneratorSpec) Users() ([]UserSpec, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g.Draw(g.Streams()), nil
}

// Draw generates the users from the given streams.
func (g *GeneratorSpec) Draw(streams StreamFactory) []UserSpec {
	cpar := g.Cpar
	if cpar == 0 {
		cpar = DefaultCpar
	}
	an, kn := g.An, g.Kn
	if an == 0 {
		an = DefaultAn
	}
	if kn == 0 {
		kn = DefaultKn
	}

	users := make([]UserSpec, g.N)
	if g.Case == Homogeneous {
		u := drawUser(streams(0), cpar, an, kn)
		for i := range users {
			users[i] = u
			users[i].An = ptr.To(an)
			users[i].Kn = ptr.To(kn)
			users[i].Tn = ptr.To(*u.Tn)
		}
		return users
	}
	for i := range users {
		users[i] = drawUser(streams(i), cpar, an, kn)
	}
	return users
}

func drawUser(s Stream, cpar, an, kn float64) UserSpec {
	dn := uniform(s, MinCycles, MaxCycles)
	fn := uniform(s, MinSpeed, MaxSpeed)
	gn := uniform(s, MinCycleEnergy, MaxCycleEnergy)
	bn := uniform(s, MinData, MaxData)

	tn := dn / fn
	en := gn * dn
	return UserSpec{
		Bn: bn,
		Dn: dn,
		En: en,
		C:  Price(cpar, bn, dn, tn, en),
		An: ptr.To(an),
		Kn: ptr.To(kn),
		Tn: ptr.To(tn),
	}
}

// Price is the pricing factor c = cpar*bn/dn*(1 - 1/(tn*en)).
func Price(cpar, bn, dn, tn, en float64) float64 {
	return cpar * bn / dn * (1 - 1/(tn*en))
}

func uniform(s Stream, lo, hi float64) float64 {
	return lo + (hi-lo)*s.RandU01()
}
