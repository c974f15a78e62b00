// Package calibrator implements confidence calibration (C8): fitting a
// raw-score -> calibrated-probability mapping (identity, Platt scaling, or
// isotonic regression) subject to quality gates, so that a downstream
// consumer can trust a calibrated 0.8 to mean "right about 80% of the time".
package calibrator

import (
	"math"
	"sort"
)

// Method names the fitted mapping's shape.
type Method string

const (
	MethodIdentity Method = "identity"
	MethodPlatt    Method = "platt"
	MethodIsotonic Method = "isotonic"
)

// point is one knot of an isotonic mapping.
type point struct {
	X, Y float64
}

// Mapping is a fitted raw -> calibrated mapping plus the diagnostics that
// justified accepting or rejecting it.
type Mapping struct {
	Method      Method
	PlattA      float64
	PlattB      float64
	Isotonic    []point
	PassedGates bool
	Diagnostics Diagnostics
}

// Diagnostics records the quality-gate inputs and outcome (spec.md §4.8).
type Diagnostics struct {
	N                int
	TargetVariance    float64
	Correlation       float64
	ECEBefore         float64
	ECEAfter          float64
	Brier             float64
	MonotonicityViol  float64
	FailureReason     string
}

// Gate thresholds, named per spec.md §4.8 rather than inlined, so a reader
// can see at a glance what "enough data" and "safe to calibrate" mean here.
const (
	minSamples            = 50
	minTargetVariance      = 0.01
	minAbsCorrelation      = 0.1
	maxECERegression       = 0.05
	maxIsotonicViolationFraction = 0.10
	eceBins                = 10
)

// Identity returns the no-op mapping, used whenever fitting is skipped or
// fails its quality gates.
func Identity() Mapping {
	return Mapping{Method: MethodIdentity, PassedGates: false, Diagnostics: Diagnostics{FailureReason: "identity"}}
}

// Fit builds a calibration mapping from (raw_score, target) training pairs
// using the requested method, falling back to identity with
// PassedGates=false if the data doesn't clear the quality gates.
func Fit(method Method, raw, targets []float64) Mapping {
	n := len(raw)
	diag := Diagnostics{N: n}
	if n < minSamples {
		diag.FailureReason = "insufficient samples"
		return Mapping{Method: MethodIdentity, Diagnostics: diag}
	}

	variance := sampleVariance(targets)
	diag.TargetVariance = variance
	if variance < minTargetVariance {
		diag.FailureReason = "target variance too low"
		return Mapping{Method: MethodIdentity, Diagnostics: diag}
	}

	corr := pearsonCorrelation(raw, targets)
	diag.Correlation = corr
	if math.Abs(corr) < minAbsCorrelation {
		diag.FailureReason = "insufficient correlation"
		return Mapping{Method: MethodIdentity, Diagnostics: diag}
	}

	diag.ECEBefore = expectedCalibrationError(raw, targets)

	var m Mapping
	switch method {
	case MethodPlatt:
		a, b := fitPlatt(raw, targets)
		m = Mapping{Method: MethodPlatt, PlattA: a, PlattB: b}
	case MethodIsotonic:
		knots := fitIsotonic(raw, targets)
		viol := monotonicityViolationFraction(raw, targets, knots)
		diag.MonotonicityViol = viol
		if viol > maxIsotonicViolationFraction {
			diag.FailureReason = "isotonic monotonicity violated"
			return Mapping{Method: MethodIdentity, Diagnostics: diag}
		}
		m = Mapping{Method: MethodIsotonic, Isotonic: knots}
	default:
		m = Mapping{Method: MethodIdentity}
	}

	calibrated := make([]float64, n)
	for i, r := range raw {
		calibrated[i] = m.apply(r)
	}
	diag.ECEAfter = expectedCalibrationError(calibrated, targets)
	diag.Brier = brierScore(calibrated, targets)
	if diag.ECEAfter > diag.ECEBefore+maxECERegression {
		diag.FailureReason = "calibration regressed ECE"
		return Mapping{Method: MethodIdentity, Diagnostics: diag}
	}

	m.PassedGates = true
	m.Diagnostics = diag
	return m
}

// FitBest runs the full cascade spec.md §4.8 describes: attempt Platt
// scaling first, fall back to isotonic regression if Platt doesn't pass
// the quality gates, and fall back to identity if neither does. This is
// the entry point the offline target builder (C9) and any calibration
// tooling should call; Fit itself stays available for a caller that
// wants one specific method without the cascade.
func FitBest(raw, targets []float64) Mapping {
	platt := Fit(MethodPlatt, raw, targets)
	if platt.PassedGates {
		return platt
	}
	isotonic := Fit(MethodIsotonic, raw, targets)
	if isotonic.PassedGates {
		return isotonic
	}
	if isotonic.Diagnostics.FailureReason != "" {
		return isotonic
	}
	return platt
}

// Apply maps a raw score in [0,1] to a calibrated probability, clamping
// out-of-range inputs first.
func (m Mapping) Apply(raw float64) float64 {
	if raw < 0 {
		raw = 0
	}
	if raw > 1 {
		raw = 1
	}
	return m.apply(raw)
}

func (m Mapping) apply(raw float64) float64 {
	switch m.Method {
	case MethodPlatt:
		return sigmoid(m.PlattA*raw + m.PlattB)
	case MethodIsotonic:
		return applyIsotonic(m.Isotonic, raw)
	default:
		return raw
	}
}

func sigmoid(x float64) float64 { return 1.0 / (1.0 + math.Exp(-x)) }

// fitPlatt fits a 1-D logistic regression target ~ sigmoid(A*raw+B) via
// gradient descent; for the single-feature case this converges quickly and
// avoids pulling in a general optimization dependency for two scalars.
func fitPlatt(raw, targets []float64) (a, b float64) {
	a, b = 1.0, 0.0
	const lr = 0.1
	const iterations = 500
	n := float64(len(raw))
	for iter := 0; iter < iterations; iter++ {
		var gradA, gradB float64
		for i, r := range raw {
			pred := sigmoid(a*r + b)
			err := pred - targets[i]
			gradA += err * r
			gradB += err
		}
		a -= lr * gradA / n
		b -= lr * gradB / n
	}
	return a, b
}

// fitIsotonic fits a monotone step function via pool-adjacent-violators,
// returning it as knot points for binary-search lookup in applyIsotonic.
func fitIsotonic(raw, targets []float64) []point {
	type pair struct{ x, y, w float64 }
	pairs := make([]pair, len(raw))
	for i := range raw {
		pairs[i] = pair{x: raw[i], y: targets[i], w: 1}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].x < pairs[j].x })

	blocks := make([]pair, 0, len(pairs))
	for _, p := range pairs {
		blocks = append(blocks, p)
		for len(blocks) > 1 && blocks[len(blocks)-2].y > blocks[len(blocks)-1].y {
			last := blocks[len(blocks)-1]
			prev := blocks[len(blocks)-2]
			merged := pair{
				x: prev.x,
				y: (prev.y*prev.w + last.y*last.w) / (prev.w + last.w),
				w: prev.w + last.w,
			}
			blocks = blocks[:len(blocks)-2]
			blocks = append(blocks, merged)
		}
	}
	knots := make([]point, len(blocks))
	for i, b := range blocks {
		knots[i] = point{X: b.x, Y: b.y}
	}
	return knots
}

func applyIsotonic(knots []point, x float64) float64 {
	if len(knots) == 0 {
		return x
	}
	idx := sort.Search(len(knots), func(i int) bool { return knots[i].X >= x })
	if idx == 0 {
		return knots[0].Y
	}
	if idx == len(knots) {
		return knots[len(knots)-1].Y
	}
	lo, hi := knots[idx-1], knots[idx]
	if hi.X == x {
		return hi.Y
	}
	return lo.Y
}

func monotonicityViolationFraction(raw, targets []float64, knots []point) float64 {
	if len(raw) < 2 {
		return 0
	}
	type pair struct{ x, y float64 }
	pairs := make([]pair, len(raw))
	for i := range raw {
		pairs[i] = pair{x: raw[i], y: applyIsotonic(knots, raw[i])}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].x < pairs[j].x })
	violations := 0
	for i := 1; i < len(pairs); i++ {
		if pairs[i].y < pairs[i-1].y {
			violations++
		}
	}
	return float64(violations) / float64(len(pairs)-1)
}

func sampleVariance(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var mean float64
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	var sumSq float64
	for _, x := range xs {
		d := x - mean
		sumSq += d * d
	}
	return sumSq / float64(len(xs))
}

func pearsonCorrelation(xs, ys []float64) float64 {
	n := len(xs)
	if n == 0 {
		return 0
	}
	var meanX, meanY float64
	for i := range xs {
		meanX += xs[i]
		meanY += ys[i]
	}
	meanX /= float64(n)
	meanY /= float64(n)

	var num, denomX, denomY float64
	for i := range xs {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		num += dx * dy
		denomX += dx * dx
		denomY += dy * dy
	}
	if denomX == 0 || denomY == 0 {
		return 0
	}
	return num / math.Sqrt(denomX*denomY)
}

// expectedCalibrationError buckets predictions into eceBins equal-width
// bins and averages |accuracy-confidence| weighted by bin occupancy.
func expectedCalibrationError(preds, targets []float64) float64 {
	type bin struct {
		sumPred, sumTarget float64
		count              int
	}
	bins := make([]bin, eceBins)
	for i, p := range preds {
		idx := int(p * eceBins)
		if idx >= eceBins {
			idx = eceBins - 1
		}
		if idx < 0 {
			idx = 0
		}
		bins[idx].sumPred += p
		bins[idx].sumTarget += targets[i]
		bins[idx].count++
	}
	var ece float64
	total := len(preds)
	for _, b := range bins {
		if b.count == 0 {
			continue
		}
		avgPred := b.sumPred / float64(b.count)
		avgTarget := b.sumTarget / float64(b.count)
		ece += float64(b.count) / float64(total) * math.Abs(avgPred-avgTarget)
	}
	return ece
}

func brierScore(preds, targets []float64) float64 {
	if len(preds) == 0 {
		return 0
	}
	var sum float64
	for i, p := range preds {
		d := p - targets[i]
		sum += d * d
	}
	return sum / float64(len(preds))
}
