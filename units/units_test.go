package units

import (
	"math"
	"testing"
)

func TestAngle_Conversions(t *testing.T) {
	a := AngleFromDegrees(180.0)
	if math.Abs(a.Radians()-math.Pi) > 1e-15 {
		t.Errorf("180° in radians: got %f, want π", a.Radians())
	}
	if math.Abs(a.Degrees()-180.0) > 1e-12 {
		t.Errorf("180° in degrees: got %f", a.Degrees())
	}
	if math.Abs(a.Hours()-12.0) > 1e-12 {
		t.Errorf("180° in hours: got %f, want 12", a.Hours())
	}
}

func TestAngle_FromHours(t *testing.T) {
	a := AngleFromHours(6.0)
	if math.Abs(a.Degrees()-90.0) > 1e-12 {
		t.Errorf("6h in degrees: got %f, want 90", a.Degrees())
	}
}

func TestAngle_DMS(t *testing.T) {
	a := AngleFromDegrees(41.0 + 30.0/60.0 + 15.5/3600.0)
	sign, deg, min, sec := a.DMS()
	if sign != 1.0 || deg != 41 || min != 30 || math.Abs(sec-15.5) > 0.01 {
		t.Errorf("DMS: got sign=%f d=%d m=%d s=%f, want +41°30'15.5\"", sign, deg, min, sec)
	}
}

func TestAngle_DMS_Negative(t *testing.T) {
	a := AngleFromDegrees(-29.5)
	sign, deg, min, sec := a.DMS()
	if sign != -1.0 || deg != 29 || min != 30 || sec > 0.01 {
		t.Errorf("DMS negative: got sign=%f d=%d m=%d s=%f, want -29°30'0\"", sign, deg, min, sec)
	}
}

func TestAngle_Wrapped(t *testing.T) {
	a := AngleFromDegrees(370.0)
	if math.Abs(a.Wrapped().Degrees()-10.0) > 1e-9 {
		t.Errorf("wrapped 370°: got %f, want 10", a.Wrapped().Degrees())
	}
	b := AngleFromDegrees(-10.0)
	if math.Abs(b.Wrapped().Degrees()-350.0) > 1e-9 {
		t.Errorf("wrapped -10°: got %f, want 350", b.Wrapped().Degrees())
	}
}

func TestAngle_WrappedSigned(t *testing.T) {
	a := AngleFromDegrees(270.0)
	if math.Abs(a.WrappedSigned().Degrees()-(-90.0)) > 1e-9 {
		t.Errorf("wrapped-signed 270°: got %f, want -90", a.WrappedSigned().Degrees())
	}
}

func TestAngle_Zero(t *testing.T) {
	a := AngleFromRadians(0)
	if a.Degrees() != 0 || a.Hours() != 0 || a.Radians() != 0 {
		t.Error("zero angle should be zero in all units")
	}
}

func TestLength_Conversions(t *testing.T) {
	l := LengthFromKm(149597870.7)
	if math.Abs(l.AU()-1.0) > 1e-12 {
		t.Errorf("1 AU in AU: got %f", l.AU())
	}
	if math.Abs(l.Meters()-149597870700.0) > 1.0 {
		t.Errorf("1 AU in meters: got %f", l.Meters())
	}
}

func TestLength_FromAU(t *testing.T) {
	l := LengthFromAU(1.0)
	if math.Abs(l.Km()-AUToKm) > 1e-6 {
		t.Errorf("1 AU in km: got %f, want %f", l.Km(), AUToKm)
	}
}

func TestLength_FromMeters(t *testing.T) {
	l := LengthFromMeters(1000.0)
	if math.Abs(l.Km()-1.0) > 1e-15 {
		t.Errorf("1000m in km: got %f", l.Km())
	}
}

func TestLength_DivDuration(t *testing.T) {
	l := LengthFromKm(7000)
	d := DurationFromSeconds(1000)
	v := l.Div(d)
	if math.Abs(v.KmPerSec()-7.0) > 1e-12 {
		t.Errorf("7000km/1000s: got %f km/s, want 7", v.KmPerSec())
	}
}

func TestDuration_Conversions(t *testing.T) {
	d := DurationFromDays(1.0)
	if math.Abs(d.Hours()-24.0) > 1e-12 {
		t.Errorf("1 day in hours: got %f", d.Hours())
	}
	if math.Abs(d.Seconds()-86400.0) > 1e-9 {
		t.Errorf("1 day in seconds: got %f", d.Seconds())
	}
}

func TestDuration_JulianCenturies(t *testing.T) {
	d := DurationFromJulianCenturies(1.0)
	if math.Abs(d.Days()-36525.0) > 1e-9 {
		t.Errorf("1 century in days: got %f, want 36525", d.Days())
	}
}

func TestVelocity_RoundTrip(t *testing.T) {
	v := VelocityFromKmPerSec(7.5)
	d := DurationFromSeconds(2.0)
	l := v.Mul(d)
	if math.Abs(l.Km()-15.0) > 1e-12 {
		t.Errorf("7.5km/s * 2s: got %f km, want 15", l.Km())
	}
}
