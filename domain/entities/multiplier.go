package entities

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MultiplierScale is the fixed-point denominator of Multiplier
const MultiplierScale = 10000

// Multiplier is a point amplification factor in basis points: 10000 is 1x,
// 15000 is 1.5x. Integer storage keeps floor(base x multiplier) exact.
type Multiplier int64

// DefaultMultiplier applies to members without a configured role
const DefaultMultiplier Multiplier = MultiplierScale

// MaxMultiplier is the largest multiplier a role can carry (1000x)
const MaxMultiplier Multiplier = 1000 * MultiplierScale

// ParseMultiplier parses a decimal such as "1.5" with at most four
// fractional digits
func ParseMultiplier(s string) (Multiplier, error) {
	s = strings.TrimSpace(s)
	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" && !hasFrac {
		return 0, fmt.Errorf("invalid multiplier %q", s)
	}
	if whole == "" {
		whole = "0"
	}

	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || w < 0 {
		return 0, fmt.Errorf("invalid multiplier %q", s)
	}
	if w > int64(MaxMultiplier/MultiplierScale) {
		return 0, fmt.Errorf("multiplier %q is too large", s)
	}

	var f int64
	if hasFrac {
		if frac == "" || len(frac) > 4 {
			return 0, fmt.Errorf("invalid multiplier %q: at most 4 decimal places", s)
		}
		f, err = strconv.ParseInt(frac+strings.Repeat("0", 4-len(frac)), 10, 64)
		if err != nil || f < 0 {
			return 0, fmt.Errorf("invalid multiplier %q", s)
		}
	}

	m := Multiplier(w*MultiplierScale + f)
	if m > MaxMultiplier {
		return 0, fmt.Errorf("multiplier %q is too large", s)
	}
	return m, nil
}

// MultiplierFromBonusPercent converts "+50%" style bonuses into a multiplier
func MultiplierFromBonusPercent(percent int64) Multiplier {
	return Multiplier(MultiplierScale + percent*MultiplierScale/100)
}

// Apply returns floor(points x m). The product must fit in an int64; use
// ApplyChecked for untrusted input.
func (m Multiplier) Apply(points int64) int64 {
	product := points * int64(m)
	result := product / MultiplierScale
	if product%MultiplierScale != 0 && product < 0 {
		result--
	}
	return result
}

// ApplyChecked is Apply for non-negative points, reporting false when
// points x m would overflow
func (m Multiplier) ApplyChecked(points int64) (int64, bool) {
	if points < 0 || m < 0 {
		return 0, false
	}
	if m != 0 && points > math.MaxInt64/int64(m) {
		return 0, false
	}
	return m.Apply(points), true
}

// BasisPoints returns the raw fixed-point value
func (m Multiplier) BasisPoints() int64 {
	return int64(m)
}

// Float64 is for display only; never use it for point arithmetic
func (m Multiplier) Float64() float64 {
	return float64(m) / MultiplierScale
}

func (m Multiplier) String() string {
	whole := int64(m) / MultiplierScale
	frac := int64(m) % MultiplierScale
	if frac == 0 {
		return strconv.FormatInt(whole, 10)
	}
	return strings.TrimRight(fmt.Sprintf("%d.%04d", whole, frac), "0")
}

// MarshalJSON encodes the multiplier as a JSON number such as 1.5
func (m Multiplier) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string
func (m *Multiplier) UnmarshalJSON(data []byte) error {
	parsed, err := ParseMultiplier(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
