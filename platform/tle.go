package platform

import (
	"fmt"
	"math"

	gosatellite "github.com/joshuaferrara/go-satellite"

	"github.com/astrocore/astro/astrotime"
	"github.com/astrocore/astro/bodies"
	"github.com/astrocore/astro/elements"
	"github.com/astrocore/astro/errkind"
	"github.com/astrocore/astro/event"
	"github.com/astrocore/astro/state"
	"github.com/astrocore/astro/vector"
)

// TEMEToICRF reinterprets a TEME vector (SGP4's native output frame: true
// equator, mean equinox of date) as expressed directly in this core's
// inertial frame tag, without a further precession/nutation rotation.
// goeph's own satellite.TEMEToICRF chains an equation-of-equinoxes
// rotation, an inverse nutation, and an inverse precession through a
// full IAU 2000A coefficient table; this core's stated Non-goal (full
// IAU precession/nutation) puts that machinery out of scope, so TEME and
// this core's inertial frame are treated as the same frame at the
// accuracy level the core already commits to elsewhere (the same
// approximation frame.ECIToECEF makes between J2000Inertial and
// ICRFInertial).
func TEMEToICRF[F any](v [3]float64) vector.V[F] {
	return vector.FromArray[F](v)
}

// SpacecraftFromTLE constructs a Spacecraft whose initial Cartesian state
// is the SGP4 propagation of the given two-line element set at epoch.
// The propagated TEME position and velocity are carried into the System's
// inertial frame via TEMEToICRF.
func SpacecraftFromTLE[F any](name, line1, line2 string, epoch astrotime.Date, sys *bodies.System, cfg SpacecraftConfig, thrusters ...event.Thruster) (*Spacecraft[F], error) {
	sat := gosatellite.TLEToSat(line1, line2, gosatellite.GravityWGS84)

	t := epoch.UTC()
	pos, vel := gosatellite.Propagate(sat, t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second())
	if math.IsNaN(pos.X) || math.IsNaN(pos.Y) || math.IsNaN(pos.Z) {
		return nil, errkind.New(errkind.ConvergenceFailure, "platform.SpacecraftFromTLE", fmt.Sprintf("SGP4 propagation produced an invalid position for %q at %s", name, t))
	}

	posICRF := TEMEToICRF[F]([3]float64{pos.X, pos.Y, pos.Z})
	velICRF := TEMEToICRF[F]([3]float64{vel.X, vel.Y, vel.Z})

	cart := elements.FromCartesian(elements.Cartesian[F]{Position: posICRF, Velocity: velICRF})
	initial := state.State[F]{Elements: cart, Date: epoch, System: sys}

	return NewSpacecraft(name, initial, cfg, thrusters...)
}
