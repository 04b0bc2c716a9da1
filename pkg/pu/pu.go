// Package pu converts between physical engineering units (MW, MVAr, kV, kA)
// and the dimensionless per-unit quantities the solver works in, and
// formats per-unit/physical values for diagnostic output.
package pu

import (
	"fmt"
	"math"
)

// FromMW converts a megawatt (or MVAr) quantity to per-unit on the given
// system base (MVA).
func FromMW(mw, snMVA float64) float64 {
	return mw / snMVA
}

// ToMW converts a per-unit quantity back to megawatts (or MVAr) on the
// given system base (MVA).
func ToMW(pu, snMVA float64) float64 {
	return pu * snMVA
}

// CurrentKA converts a per-unit current magnitude to kA given the bus base
// voltage (kV, line-to-line) and the system base (MVA): I_base = S_base /
// (sqrt(3) * V_base).
func CurrentKA(iPU, baseKV, snMVA float64) float64 {
	if baseKV <= 0 {
		return 0
	}
	iBaseKA := snMVA / (math.Sqrt(3) * baseKV)
	return iPU * iBaseKA
}

// FormatValue formats a value with an SI-style magnitude prefix, the way
// engineering tooling reports MW/MVAr/kV figures at a glance.
func FormatValue(value float64, unit string) string {
	absValue := math.Abs(value)
	switch {
	case absValue >= 1e6:
		return fmt.Sprintf("%.3f M%s", value/1e6, unit)
	case absValue >= 1e3:
		return fmt.Sprintf("%.3f k%s", value/1e3, unit)
	case absValue >= 1:
		return fmt.Sprintf("%.3f %s", value, unit)
	case absValue >= 1e-3:
		return fmt.Sprintf("%.3f m%s", value*1e3, unit)
	default:
		return fmt.Sprintf("%.3e %s", value, unit)
	}
}

// FormatMagnitudeAngle formats a complex quantity in polar magnitude/angle
// form, e.g. "V(1)=  1.0200<  -3.00deg".
func FormatMagnitudeAngle(name string, magnitude, angleDeg float64) string {
	return fmt.Sprintf("%s=%8.4f<%7.2fdeg", name, magnitude, angleDeg)
}
