package analyze

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/jal555/optiqa/internal/errors"
	"github.com/jal555/optiqa/internal/logger"
	"github.com/jal555/optiqa/internal/optical"
)

const (
	// DefaultCorrelationThreshold keeps only features whose absolute Pearson
	// correlation with qfactor exceeds this value.
	DefaultCorrelationThreshold = 0.3

	// DefaultTrainFraction is the share of rows used to fit the model; the
	// remainder is held out for the error estimate.
	DefaultTrainFraction = 0.8
)

// Options tunes the regression.
type Options struct {
	CorrelationThreshold float64
	TrainFraction        float64
	Log                  logger.Logger
}

// Report is the outcome of one regression run.
type Report struct {
	Rows         int
	Correlations map[string]float64
	Selected     []string
	Intercept    float64
	Coefficients map[string]float64
	TrainRows    int
	TestRows     int
	MSE          float64
}

// Run flattens the model, selects features by correlation with qfactor,
// fits ordinary least squares with an intercept on the training split, and
// reports mean squared error on the held-out split.
func Run(m *optical.Model, opts Options) (*Report, error) {
	if opts.CorrelationThreshold == 0 {
		opts.CorrelationThreshold = DefaultCorrelationThreshold
	}
	if opts.TrainFraction <= 0 || opts.TrainFraction >= 1 {
		opts.TrainFraction = DefaultTrainFraction
	}
	log := opts.Log
	if log == nil {
		log = logger.Noop()
	}

	ds := Flatten(m)
	if ds.Len() < 10 {
		return nil, errors.New(errors.ErrExec,
			fmt.Sprintf("Not enough complete readings to analyze (%d, need at least 10)", ds.Len()),
			"Collect more snapshots, or check that the instantaneous metrics are present")
	}

	report := &Report{
		Rows:         ds.Len(),
		Correlations: make(map[string]float64, len(FeatureNames)),
		Coefficients: make(map[string]float64),
	}

	var selected []int
	for i, name := range FeatureNames {
		r := stat.Correlation(ds.Column(i), ds.Target, nil)
		report.Correlations[name] = r
		if r > opts.CorrelationThreshold || r < -opts.CorrelationThreshold {
			selected = append(selected, i)
			report.Selected = append(report.Selected, name)
			log.Debug("selected feature %s (r=%.3f)", name, r)
		} else {
			log.Debug("dropped feature %s (r=%.3f)", name, r)
		}
	}
	if len(selected) == 0 {
		return nil, errors.New(errors.ErrExec,
			"No metric correlates with qfactor strongly enough to fit a model",
			fmt.Sprintf("Every |r| is below %.2f; the data may be flat or too noisy", opts.CorrelationThreshold))
	}

	split := int(float64(ds.Len()) * opts.TrainFraction)
	if split < len(selected)+1 {
		return nil, errors.New(errors.ErrExec,
			fmt.Sprintf("Training split of %d rows cannot fit %d coefficients", split, len(selected)+1),
			"Collect more snapshots before analyzing")
	}
	report.TrainRows = split
	report.TestRows = ds.Len() - split

	beta, err := fitOLS(ds, selected, 0, split)
	if err != nil {
		return nil, err
	}
	report.Intercept = beta[0]
	for j, i := range selected {
		report.Coefficients[FeatureNames[i]] = beta[j+1]
	}

	var sse float64
	for r := split; r < ds.Len(); r++ {
		pred := beta[0]
		for j, i := range selected {
			pred += beta[j+1] * ds.Rows[r][i]
		}
		diff := pred - ds.Target[r]
		sse += diff * diff
	}
	if report.TestRows > 0 {
		report.MSE = sse / float64(report.TestRows)
	}

	return report, nil
}

// fitOLS solves least squares over rows [lo, hi) with an intercept column.
// The returned slice is [intercept, coefficients...] aligned with cols.
func fitOLS(ds *Dataset, cols []int, lo, hi int) ([]float64, error) {
	n := hi - lo
	k := len(cols) + 1

	x := mat.NewDense(n, k, nil)
	y := mat.NewVecDense(n, nil)
	for r := 0; r < n; r++ {
		x.Set(r, 0, 1)
		for j, c := range cols {
			x.Set(r, j+1, ds.Rows[lo+r][c])
		}
		y.SetVec(r, ds.Target[lo+r])
	}

	var qr mat.QR
	qr.Factorize(x)
	var sol mat.VecDense
	if err := qr.SolveVecTo(&sol, false, y); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrExec,
			"Regression failed to solve",
			"The selected metrics may be perfectly collinear; try collecting more varied data")
	}

	beta := make([]float64, k)
	for i := range beta {
		beta[i] = sol.AtVec(i)
	}
	return beta, nil
}
