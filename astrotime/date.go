package astrotime

import (
	"fmt"
	"math"
	"time"

	"github.com/astrocore/astro/units"
)

// Date is a point in time on a Julian-date clock (epoch noon 1 Jan 4713
// BC), stored internally as a Julian date in the UTC scale. All other
// accessors derive from that single representation, mirroring goeph's
// Angle/Length pattern of one internal value plus many typed views.
type Date struct {
	jdUTC float64
}

// Clock abstracts the system clock so Now is never implicit global state;
// callers inject a Clock (or use RealClock) explicitly, per the core's
// "no hidden global now()" design rule.
type Clock interface {
	Now() time.Time
}

// RealClock is a Clock backed by time.Now().
type RealClock struct{}

// Now returns the current wall-clock time in UTC.
func (RealClock) Now() time.Time { return time.Now().UTC() }

// Now returns the Date corresponding to clk.Now().
func Now(clk Clock) Date {
	return FromTime(clk.Now())
}

// FromTime constructs a Date from a time.Time (converted to UTC).
func FromTime(t time.Time) Date {
	return Date{jdUTC: TimeToJDUTC(t)}
}

// FromJD constructs a Date from a Julian date already in the UTC scale.
func FromJD(jdUTC float64) Date { return Date{jdUTC: jdUTC} }

// FromMJD constructs a Date from a modified Julian date (JD - 2400000.5).
func FromMJD(mjdUTC float64) Date { return Date{jdUTC: mjdUTC + 2400000.5} }

// Parse parses a calendar string using a Go reference-time layout (the
// same convention as time.Parse), interpreting the result as UTC.
func Parse(value, layout string) (Date, error) {
	t, err := time.Parse(layout, value)
	if err != nil {
		return Date{}, fmt.Errorf("astrotime: parse %q with layout %q: %w", value, layout, err)
	}
	return FromTime(t), nil
}

// JD returns the Julian date in the UTC scale.
func (d Date) JD() float64 { return d.jdUTC }

// MJD returns the modified Julian date (JD - 2400000.5).
func (d Date) MJD() float64 { return d.jdUTC - 2400000.5 }

// JDN returns the Julian day number (integer part of JD+0.5).
func (d Date) JDN() int64 {
	return int64(d.jdUTC + 0.5)
}

// UTC returns the Date as a UTC time.Time.
func (d Date) UTC() time.Time { return JDUTCToTime(d.jdUTC) }

// Sys returns the Date converted to the local system clock's
// representation (the system's monotonic-stripped wall time).
func (d Date) Sys() time.Time { return d.UTC().Local() }

// TT returns the Julian date in the TT (terrestrial time) scale.
func (d Date) TT() float64 { return UTCToTT(d.jdUTC) }

// TAI returns the Julian date in the TAI scale.
func (d Date) TAI() float64 { return d.jdUTC + LeapSecondOffset(d.jdUTC)/SecPerDay }

// TDB returns the Julian date in the TDB (barycentric dynamical time)
// scale.
func (d Date) TDB() float64 {
	tt := d.TT()
	return tt + TDBMinusTT(tt)/SecPerDay
}

// UT1 returns the Julian date in the UT1 scale.
func (d Date) UT1() float64 { return TTToUT1(d.TT()) }

// GPS returns elapsed GPS seconds since the GPS epoch (1980-01-06 00:00 UTC).
func (d Date) GPS() float64 { return TAIToGPS(d.TAI()) }

// Add returns d advanced by dur (dur may be negative).
func (d Date) Add(dur units.Duration) Date {
	return Date{jdUTC: d.jdUTC + dur.Days()}
}

// Sub returns the Duration elapsed from other to d (d - other).
func (d Date) Sub(other Date) units.Duration {
	return units.DurationFromDays(d.jdUTC - other.jdUTC)
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool { return d.jdUTC < other.jdUTC }

// After reports whether d is strictly later than other.
func (d Date) After(other Date) bool { return d.jdUTC > other.jdUTC }

// Equal reports whether d and other represent the same instant.
func (d Date) Equal(other Date) bool { return d.jdUTC == other.jdUTC }

// Compare returns -1, 0, or 1 as d is before, equal to, or after other.
func (d Date) Compare(other Date) int {
	switch {
	case d.jdUTC < other.jdUTC:
		return -1
	case d.jdUTC > other.jdUTC:
		return 1
	default:
		return 0
	}
}

// String renders the Date as an RFC3339 UTC timestamp.
func (d Date) String() string {
	return d.UTC().Format(time.RFC3339Nano)
}

// earthRotationDegPerDay is the sidereal Earth rotation rate omega_earth,
// expressed in mean-solar degrees per UT1 day.
const earthRotationDegPerDay = 1.002737909350795 * 360.0

// GMST returns the Greenwich Mean Sidereal Time at d, computed from the
// IAU 1982 polynomial evaluated at 0h UT of the date plus the sidereal
// rotation since 0h, per the four-step construction: extract the UT
// fraction of day, form T0 in Julian centuries since J2000 at 0h UT,
// evaluate the GMST0 polynomial, then wrap GMST0 + omega_earth*UT.
func (d Date) GMST() units.Angle {
	jd := d.jdUTC
	jd0 := math.Floor(jd-0.5) + 0.5
	utFraction := jd - jd0

	t0 := (jd0 - J2000JD) / 36525.0
	gmst0Deg := 100.4606184 + 36000.77005361*t0 + 3.8793e-4*t0*t0 - 2.583e-8*t0*t0*t0
	gmstDeg := gmst0Deg + earthRotationDegPerDay*utFraction
	return units.AngleFromDegrees(gmstDeg).Wrapped()
}
