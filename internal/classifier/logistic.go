package classifier

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
)

// LogisticOptions configures L2-regularized logistic regression.
type LogisticOptions struct {
	// C is the inverse regularization strength.
	C       float64
	MaxIter int
	// Tol is the gradient infinity-norm at which the solver stops.
	Tol float64
}

// DefaultLogisticOptions mirrors the settings the dataset was tuned with.
func DefaultLogisticOptions() LogisticOptions {
	return LogisticOptions{C: 1.0, MaxIter: 200, Tol: 1e-4}
}

// Logistic is a multinomial logistic regression fitted with L-BFGS. With two
// classes it reduces to a single binary weight vector; the intercept is not
// penalized.
type Logistic struct {
	opts    LogisticOptions
	rows    int // weight rows: k for k>2 classes, 1 for binary
	dim     int
	classes int
	params  []float64
	fitted  bool
}

// NewLogistic creates an unfitted logistic estimator.
func NewLogistic(opts LogisticOptions) *Logistic {
	if opts.C <= 0 {
		opts.C = 1.0
	}
	if opts.MaxIter <= 0 {
		opts.MaxIter = 200
	}
	if opts.Tol <= 0 {
		opts.Tol = 1e-4
	}
	return &Logistic{opts: opts}
}

type sparseRow struct {
	idx []int
	val []float64
}

func toSparse(x []float64) sparseRow {
	var r sparseRow
	for j, v := range x {
		if v != 0 {
			r.idx = append(r.idx, j)
			r.val = append(r.val, v)
		}
	}
	return r
}

func (m *Logistic) fit(X [][]float64, y []int, k int) error {
	if len(X) == 0 || len(X) != len(y) {
		return errors.New("logistic: mismatched training data")
	}
	if k < 2 {
		return errors.New("logistic: need at least two classes")
	}
	m.classes = k
	m.dim = len(X[0])
	m.rows = k
	if k == 2 {
		m.rows = 1
	}
	rows := make([]sparseRow, len(X))
	for i, x := range X {
		rows[i] = toSparse(x)
	}
	stride := m.dim + 1
	nparams := m.rows * stride
	logits := make([]float64, k)

	loss := func(params, grad []float64) float64 {
		if grad != nil {
			for i := range grad {
				grad[i] = 0
			}
		}
		total := 0.0
		for i, r := range rows {
			m.logitsInto(params, r, logits)
			lse := logSumExp(logits)
			total += lse - logits[y[i]]
			if grad == nil {
				continue
			}
			for c := 0; c < m.rows; c++ {
				cls := c
				if m.rows == 1 {
					cls = 1
				}
				g := math.Exp(logits[cls] - lse)
				if y[i] == cls {
					g--
				}
				g *= m.opts.C
				base := c * stride
				for n, j := range r.idx {
					grad[base+j] += g * r.val[n]
				}
				grad[base+m.dim] += g
			}
		}
		total *= m.opts.C
		for c := 0; c < m.rows; c++ {
			w := params[c*stride : c*stride+m.dim]
			total += 0.5 * floats.Dot(w, w)
			if grad != nil {
				floats.Add(grad[c*stride:c*stride+m.dim], w)
			}
		}
		return total
	}

	problem := optimize.Problem{
		Func: func(x []float64) float64 { return loss(x, nil) },
		Grad: func(grad, x []float64) { loss(x, grad) },
	}
	settings := &optimize.Settings{
		MajorIterations:   m.opts.MaxIter,
		GradientThreshold: m.opts.Tol,
	}
	res, err := optimize.Minimize(problem, make([]float64, nparams), settings, &optimize.LBFGS{})
	if res == nil {
		return fmt.Errorf("logistic: minimize: %w", err)
	}
	// A line search that stalls still leaves a usable location.
	m.params = append([]float64(nil), res.X...)
	m.fitted = true
	return nil
}

func (m *Logistic) logitsInto(params []float64, r sparseRow, out []float64) {
	stride := m.dim + 1
	for c := range out {
		out[c] = 0
	}
	for c := 0; c < m.rows; c++ {
		base := c * stride
		z := params[base+m.dim]
		for n, j := range r.idx {
			z += params[base+j] * r.val[n]
		}
		if m.rows == 1 {
			out[1] = z
		} else {
			out[c] = z
		}
	}
}

func (m *Logistic) predictProba(x []float64) ([]float64, error) {
	if !m.fitted {
		return nil, errUnfittedEstimator
	}
	if len(x) != m.dim {
		return nil, fmt.Errorf("logistic: input dimension %d, want %d", len(x), m.dim)
	}
	logits := make([]float64, m.classes)
	m.logitsInto(m.params, toSparse(x), logits)
	lse := logSumExp(logits)
	for c := range logits {
		logits[c] = math.Exp(logits[c] - lse)
	}
	return logits, nil
}

func logSumExp(z []float64) float64 {
	mx := floats.Max(z)
	sum := 0.0
	for _, v := range z {
		sum += math.Exp(v - mx)
	}
	return mx + math.Log(sum)
}
