package tmpl

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// maxFracDenominator bounds the rational approximation used by
// MixedFracInch. It matches the machinist-fraction behavior validated by the
// reference values (thirty-seconds and sixty-fourths reproduce exactly, and
// repeating decimals reduce to their smallest close fraction).
const maxFracDenominator = 1_000_000

// MixedFracInch renders a decimal inch value as a mixed fraction suitable
// for imperial dimensioning: 1.25 becomes `1 1/4"`. The sign is taken from
// the sign bit, so -0.0 renders with a leading '-'.
func MixedFracInch(value float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return strconv.FormatFloat(value, 'g', -1, 64) + `"`
	}

	var b strings.Builder

	if math.Signbit(value) {
		b.WriteByte('-')
	}

	num, den := limitDenominator(
		new(big.Rat).SetFloat64(math.Abs(value)), maxFracDenominator,
	)

	intPart := new(big.Int).Quo(num, den)
	frac := new(big.Int).Rem(num, den)

	switch {
	case intPart.Sign() == 0 && frac.Sign() == 0:
		b.WriteByte('0')

	case intPart.Sign() == 0:
		b.WriteString(frac.String())
		b.WriteByte('/')
		b.WriteString(den.String())

	case frac.Sign() == 0:
		b.WriteString(intPart.String())

	default:
		b.WriteString(intPart.String())
		b.WriteByte(' ')
		b.WriteString(frac.String())
		b.WriteByte('/')
		b.WriteString(den.String())
	}

	b.WriteByte('"')

	return b.String()
}

// limitDenominator returns the closest rational to r whose denominator does
// not exceed maxDen, using the continued-fraction lower/upper bound
// construction (ties resolve toward the convergent). The result is in
// lowest terms.
func limitDenominator(r *big.Rat, maxDen int64) (num, den *big.Int) {
	limit := big.NewInt(maxDen)

	if r.Denom().Cmp(limit) <= 0 {
		return r.Num(), r.Denom()
	}

	p0, q0 := big.NewInt(0), big.NewInt(1)
	p1, q1 := big.NewInt(1), big.NewInt(0)
	n := new(big.Int).Set(r.Num())
	d := new(big.Int).Set(r.Denom())

	for {
		a := new(big.Int).Quo(n, d)

		q2 := new(big.Int).Add(q0, new(big.Int).Mul(a, q1))
		if q2.Cmp(limit) > 0 {
			break
		}

		p2 := new(big.Int).Add(p0, new(big.Int).Mul(a, p1))
		p0, q0, p1, q1 = p1, q1, p2, q2

		rem := new(big.Int).Sub(n, new(big.Int).Mul(a, d))
		n, d = d, rem
	}

	k := new(big.Int).Quo(new(big.Int).Sub(limit, q0), q1)

	bound1 := new(big.Rat).SetFrac(
		new(big.Int).Add(p0, new(big.Int).Mul(k, p1)),
		new(big.Int).Add(q0, new(big.Int).Mul(k, q1)),
	)
	bound2 := new(big.Rat).SetFrac(p1, q1)

	diff1 := new(big.Rat).Abs(new(big.Rat).Sub(bound1, r))
	diff2 := new(big.Rat).Abs(new(big.Rat).Sub(bound2, r))

	if diff2.Cmp(diff1) <= 0 {
		return bound2.Num(), bound2.Denom()
	}

	return bound1.Num(), bound1.Denom()
}
