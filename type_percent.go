package engagement

import (
	"fmt"
	"math"
)

// Percent is a ratio expressed in percent (12.5 means 12.5%).
type Percent float64

// PercentOf converts a proportion (0.125) into a Percent (12.5%).
func PercentOf(ratio float64) Percent { return Percent(100 * ratio) }

// Equal compares two percents with a precision of a hundredth of a basis point.
func (p Percent) Equal(q Percent) bool {
	const precision = 0.0001
	return math.Abs(float64(p-q)) < precision
}

func (p Percent) String() string {
	if math.IsNaN(float64(p)) {
		return "-"
	}
	return fmt.Sprintf("%.2f%%", p)
}

// SignedString formats the percent with an explicit sign, or "-" when it rounds to zero.
func (p Percent) SignedString() string {
	if math.IsNaN(float64(p)) {
		return "-"
	}
	res := fmt.Sprintf("%+.2f%%", p)
	if res == "+0.00%" || res == "-0.00%" {
		return "-"
	}
	return res
}
