package lab

import "math"

// 25^7
var pow25to7 = math.Pow(25, 7)

func hueAngle(b, a float64) float64 {
	h := math.Atan2(b, a) * 180 / math.Pi
	if h < 0 {
		h += 360
	}
	return h
}

func sq(x float64) float64 {
	return math.Pow(x, 2)
}

// Difference returns the CIEDE2000 difference between two linear RGB colors.
func Difference(c1, c2 Linear) float64 {
	return DifferenceLab(FromLinear(c1), FromLinear(c2))
}

// DifferenceLab returns the CIEDE2000 difference between two Lab colors with
// unit weighting factors (kL = kC = kH = 1).
func DifferenceLab(lab1, lab2 Lab) float64 {
	avgL := (lab1.L + lab2.L) / 2
	ch1 := math.Sqrt(lab1.A*lab1.A + lab1.B*lab1.B)
	ch2 := math.Sqrt(lab2.A*lab2.A + lab2.B*lab2.B)
	avgC := (ch1 + ch2) / 2
	g := (1 - math.Sqrt(math.Pow(avgC, 7)/(math.Pow(avgC, 7)+pow25to7))) / 2

	a1p := lab1.A * (1 + g)
	a2p := lab2.A * (1 + g)
	c1p := math.Sqrt(a1p*a1p + lab1.B*lab1.B)
	c2p := math.Sqrt(a2p*a2p + lab2.B*lab2.B)
	avgCp := (c1p + c2p) / 2

	h1p := hueAngle(lab1.B, a1p)
	h2p := hueAngle(lab2.B, a2p)

	var avgHp float64
	if math.Abs(h1p-h2p) > 180 {
		avgHp = (h1p + h2p + 360) / 2
	} else {
		avgHp = (h1p + h2p) / 2
	}

	t := 1 - 0.17*math.Cos((avgHp-30)*math.Pi/180) +
		0.24*math.Cos(2*avgHp*math.Pi/180) +
		0.32*math.Cos((3*avgHp+6)*math.Pi/180) -
		0.2*math.Cos((4*avgHp-63)*math.Pi/180)

	dhp := h2p - h1p
	if math.Abs(dhp) > 180 {
		if h2p <= h1p {
			dhp += 360
		} else {
			dhp -= 360
		}
	}

	dLp := lab2.L - lab1.L
	dCp := c2p - c1p
	dHp := 2 * math.Sqrt(c1p*c2p) * math.Sin(dhp*math.Pi/360)

	sl := 1 + (0.015*sq(avgL-50))/math.Sqrt(20+sq(avgL-50))
	sc := 1 + 0.045*avgCp
	sh := 1 + 0.015*avgCp*t

	dRo := 30 * math.Exp(-sq((avgHp-275)/25))
	rc := 2 * math.Sqrt(math.Pow(avgCp, 7)/(math.Pow(avgCp, 7)+pow25to7))
	rt := -rc * math.Sin(2*dRo*math.Pi/180)

	const kl, kc, kh = 1, 1, 1

	return math.Sqrt(sq(dLp/(kl*sl)) +
		sq(dCp/(kc*sc)) +
		sq(dHp/(kh*sh)) +
		rt*(dCp/(kc*sc))*(dHp/(kh*sh)))
}
