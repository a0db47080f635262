// Package astrotime implements the Julian-date clock and time-scale
// conversions spec.md §4.2 requires: Date arithmetic, UTC/TAI/GPS/TT/UT1
// accessors, and GMST. The leap-second table and ΔT polynomial follow the
// exact function contract goeph's (missing) timescale package left behind
// in timescale_test.go — this module supplies the implementation that
// test file already committed to, rather than inventing a new one.
package astrotime

import (
	"math"
	"time"
)

// SecPerDay is the number of SI seconds in a day.
const SecPerDay = 86400.0

// J2000JD is the Julian date of the J2000.0 epoch (2000-01-01 12:00 TT).
const J2000JD = 2451545.0

// leapSecondEntry is one row of the UTC-TAI offset table (IERS bulletin C).
type leapSecondEntry struct {
	jdUTC  float64
	offset float64
}

// leapSeconds lists TAI-UTC offsets at each leap-second introduction,
// starting from 1972-01-01 when the offset was fixed at an integer number
// of seconds. Offsets before 1972 are approximated by the initial value.
var leapSeconds = []leapSecondEntry{
	{2441317.5, 10}, // 1972-01-01
	{2441499.5, 11}, // 1972-07-01
	{2441683.5, 12}, // 1973-01-01
	{2442048.5, 13}, // 1974-01-01
	{2442413.5, 14}, // 1975-01-01
	{2442778.5, 15}, // 1976-01-01
	{2443144.5, 16}, // 1977-01-01
	{2443509.5, 17}, // 1978-01-01
	{2443874.5, 18}, // 1979-01-01
	{2444239.5, 19}, // 1980-01-01
	{2444786.5, 20}, // 1981-07-01
	{2445151.5, 21}, // 1982-07-01
	{2445516.5, 22}, // 1983-07-01
	{2446247.5, 23}, // 1985-07-01
	{2447161.5, 24}, // 1988-01-01
	{2447892.5, 25}, // 1990-01-01
	{2448257.5, 26}, // 1991-01-01
	{2448804.5, 27}, // 1992-07-01
	{2449169.5, 28}, // 1993-07-01
	{2449534.5, 29}, // 1994-07-01
	{2450083.5, 30}, // 1996-01-01
	{2450630.5, 31}, // 1997-07-01
	{2451179.5, 32}, // 1999-01-01
	{2453736.5, 33}, // 2006-01-01
	{2454832.5, 34}, // 2009-01-01
	{2456109.5, 35}, // 2012-07-01
	{2457204.5, 36}, // 2015-07-01
	{2457754.5, 37}, // 2017-01-01
}

// LeapSecondOffset returns TAI-UTC in seconds at the given UTC Julian date.
// Dates before the first table entry return the initial offset; dates
// after the last entry return the latest known offset.
func LeapSecondOffset(jdUTC float64) float64 {
	if jdUTC < leapSeconds[0].jdUTC {
		return leapSeconds[0].offset
	}
	offset := leapSeconds[0].offset
	for _, e := range leapSeconds {
		if jdUTC < e.jdUTC {
			break
		}
		offset = e.offset
	}
	return offset
}

// deltaTEntry is one row of the historical ΔT = TT - UT1 table (seconds),
// sampled at the start of each listed year (Espenak & Meeus polynomial
// table, abridged to the range this core needs to support).
type deltaTEntry struct {
	year float64
	secs float64
}

var deltaTTable = []deltaTEntry{
	{1800, 13.7000}, {1810, 12.0000}, {1820, 11.2000}, {1830, 11.1000},
	{1840, 11.4000}, {1850, 7.2000}, {1860, 7.8000}, {1870, 0.3000},
	{1880, -5.4000}, {1890, -6.0000}, {1900, -2.4000}, {1910, 3.3000},
	{1920, 6.6000}, {1930, 10.4000}, {1940, 17.2000}, {1950, 29.1500},
	{1960, 33.1500}, {1970, 40.1800}, {1980, 50.5400}, {1990, 57.0000},
	{2000, 63.8290}, {2010, 66.0700}, {2020, 69.3600}, {2050, 93.0000},
	{2100, 180.0000}, {2150, 320.0000}, {2200, 440.0000},
}

// DeltaT approximates ΔT = TT - UT1 in seconds for a decimal year, by
// linear interpolation of a sparse historical table (exact at 1800.0 and
// each subsequent listed year). Years outside the table clamp to its
// first/last entry.
func DeltaT(year float64) float64 {
	if year <= deltaTTable[0].year {
		return deltaTTable[0].secs
	}
	last := len(deltaTTable) - 1
	if year >= deltaTTable[last].year {
		return deltaTTable[last].secs
	}
	for i := 0; i < last; i++ {
		a, b := deltaTTable[i], deltaTTable[i+1]
		if year >= a.year && year <= b.year {
			frac := (year - a.year) / (b.year - a.year)
			return a.secs + frac*(b.secs-a.secs)
		}
	}
	return deltaTTable[last].secs
}

// TimeToJDUTC converts a UTC time.Time to a Julian date.
func TimeToJDUTC(t time.Time) float64 {
	t = t.UTC()
	y, m, d := t.Date()
	if m <= 2 {
		y--
		m += 12
	}
	a := y / 100
	b := 2 - a + a/4
	jdn := math.Floor(365.25*float64(y+4716)) + math.Floor(30.6001*float64(m+1)) + float64(d) + float64(b) - 1524.5
	dayFrac := (float64(t.Hour())*3600 + float64(t.Minute())*60 + float64(t.Second()) + float64(t.Nanosecond())/1e9) / SecPerDay
	return jdn + dayFrac
}

// JDUTCToTime converts a Julian date (UTC scale) back to a UTC time.Time.
// A float64 Julian date near the present resolves only a few tens of
// microseconds, so the time of day is rounded to the nearest 100 µs.
func JDUTCToTime(jd float64) time.Time {
	z := math.Floor(jd + 0.5)
	f := jd + 0.5 - z
	var a float64
	if z < 2299161 {
		a = z
	} else {
		alpha := math.Floor((z - 1867216.25) / 36524.25)
		a = z + 1 + alpha - math.Floor(alpha/4)
	}
	b := a + 1524
	c := math.Floor((b - 122.1) / 365.25)
	dd := math.Floor(365.25 * c)
	e := math.Floor((b - dd) / 30.6001)

	day := b - dd - math.Floor(30.6001*e) + f
	var month float64
	if e < 14 {
		month = e - 1
	} else {
		month = e - 13
	}
	var year float64
	if month > 2 {
		year = c - 4716
	} else {
		year = c - 4715
	}

	dayInt := math.Floor(day)
	dayFrac := day - dayInt
	secTotal := math.Round(dayFrac*SecPerDay*1e4) / 1e4
	hh := math.Floor(secTotal / 3600)
	mm := math.Floor(math.Mod(secTotal, 3600) / 60)
	ss := math.Mod(secTotal, 60)
	nsec := int(math.Round((ss-math.Floor(ss))*1e4)) * 1e5
	return time.Date(int(year), time.Month(int(month)), int(dayInt), int(hh), int(mm), int(math.Floor(ss)), nsec, time.UTC)
}

// UTCToTT converts a UTC Julian date to the TT (terrestrial time) scale:
// TT = UTC + (TAI-UTC) + 32.184s.
func UTCToTT(jdUTC float64) float64 {
	return jdUTC + (LeapSecondOffset(jdUTC)+32.184)/SecPerDay
}

// TTToUTC is the inverse of UTCToTT, solved by fixed-point iteration since
// the leap-second offset itself depends on (approximately) the UTC date.
func TTToUTC(jdTT float64) float64 {
	jdUTC := jdTT
	for i := 0; i < 3; i++ {
		jdUTC = jdTT - (LeapSecondOffset(jdUTC)+32.184)/SecPerDay
	}
	return jdUTC
}

// TTToUT1 converts TT to UT1 using DeltaT evaluated at the corresponding
// decimal year.
func TTToUT1(jdTT float64) float64 {
	year := 2000.0 + (jdTT-J2000JD)/365.25
	return jdTT - DeltaT(year)/SecPerDay
}

// UT1ToTT is the inverse of TTToUT1.
func UT1ToTT(jdUT1 float64) float64 {
	year := 2000.0 + (jdUT1-J2000JD)/365.25
	return jdUT1 + DeltaT(year)/SecPerDay
}

// TDBMinusTT returns TDB-TT in seconds at the given TT Julian date, via the
// standard leading periodic term (Fairhead & Bretagnon 1990, truncated);
// amplitude never exceeds ~1.7ms.
func TDBMinusTT(jdTT float64) float64 {
	t := (jdTT - J2000JD) / 36525.0
	g := 357.53 + 0.9856003*(jdTT-J2000JD)
	gRad := g * math.Pi / 180.0
	return 0.001658*math.Sin(gRad) + 0.000014*math.Sin(2*gRad) + 0.0*t
}

// GPSEpochJD is the Julian date of the GPS time origin, 1980-01-06 00:00 UTC.
const GPSEpochJD = 2444244.5

// TAIToGPS converts a TAI Julian date to elapsed GPS seconds since the GPS
// epoch. GPS time is offset from TAI by a fixed 19 seconds.
func TAIToGPS(jdTAI float64) float64 {
	return (jdTAI - GPSEpochJD) * SecPerDay - 19.0
}
