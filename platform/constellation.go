package platform

import (
	"fmt"

	"github.com/astrocore/astro/bodies"
	"github.com/astrocore/astro/elements"
	"github.com/astrocore/astro/errkind"
	"github.com/astrocore/astro/state"
	"github.com/astrocore/astro/units"
)

// Plane holds the spacecraft sharing a single orbital plane (common
// inclination and RAAN), per spec.md's Plane/Shell/Constellation
// grouping.
type Plane[F any] struct {
	Spacecraft []*Spacecraft[F]
}

// Shell holds a set of Planes, conventionally all sharing a common
// altitude band.
type Shell[F any] struct {
	Planes []Plane[F]
}

// Constellation holds a set of Shells.
type Constellation[F any] struct {
	Shells []Shell[F]
}

// WalkerConfig parametrizes a Walker-delta constellation: T total
// satellites spread across P planes with phasing factor F, anchored at
// a given RAAN and true anomaly, all sharing semi-major axis A and
// inclination I.
type WalkerConfig struct {
	Total      int
	Planes     int
	Phasing    int
	AnchorRAAN units.Angle
	AnchorAnom units.Angle
	A          units.Length
	I          units.Angle
}

// NewWalkerConstellation builds a single-shell Constellation from a
// Walker-delta configuration: T/P spacecraft per plane, with each
// plane's RAAN offset by 360/P degrees from the anchor and each
// satellite's true anomaly offset by F*360/T degrees times its
// in-constellation ordinal, per spec.md section 4.9's Walker-delta
// formulas.
func NewWalkerConstellation[F any](cfg WalkerConfig, epoch state.State[F], sys *bodies.System, namePrefix string, scCfg SpacecraftConfig) (*Constellation[F], error) {
	if cfg.Planes <= 0 || cfg.Total <= 0 || cfg.Total%cfg.Planes != 0 {
		return nil, errkind.New(errkind.Unknown, "platform.NewWalkerConstellation", "total satellites must be a positive multiple of the plane count")
	}
	satsPerPlane := cfg.Total / cfg.Planes

	deltaRAAN := units.AngleFromDegrees(360.0 / float64(cfg.Planes))
	deltaAnom := units.AngleFromDegrees(float64(cfg.Phasing) * 360.0 / float64(cfg.Total))

	var shell Shell[F]
	satIndex := 0
	for p := 0; p < cfg.Planes; p++ {
		raan := cfg.AnchorRAAN.Add(deltaRAAN.Scale(float64(p)))
		var plane Plane[F]
		for s := 0; s < satsPerPlane; s++ {
			anom := cfg.AnchorAnom.Add(deltaAnom.Scale(float64(satIndex)))
			kep := elements.Keplerian{
				A: cfg.A, E: 0, I: cfg.I, RAAN: raan,
				ArgP: units.AngleFromDegrees(0), TrueAnom: anom.Wrapped(),
			}
			initial := state.State[F]{
				Elements: elements.FromKeplerian[F](kep),
				Date:     epoch.Date,
				System:   sys,
			}
			name := fmt.Sprintf("%s-%02d-%02d", namePrefix, p+1, s+1)
			sc, err := NewSpacecraft(name, initial, scCfg)
			if err != nil {
				return nil, err
			}
			plane.Spacecraft = append(plane.Spacecraft, sc)
			satIndex++
		}
		shell.Planes = append(shell.Planes, plane)
	}

	return &Constellation[F]{Shells: []Shell[F]{shell}}, nil
}

// Spacecraft returns every spacecraft in the constellation, flattened
// across all shells and planes.
func (c *Constellation[F]) Spacecraft() []*Spacecraft[F] {
	var all []*Spacecraft[F]
	for _, shell := range c.Shells {
		for _, plane := range shell.Planes {
			all = append(all, plane.Spacecraft...)
		}
	}
	return all
}
