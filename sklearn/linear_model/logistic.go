// Package linear_model implements linear models for classification.
package linear_model

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/liamdp12/scikit-learn/core/model"
	"github.com/liamdp12/scikit-learn/metrics"
	scigoErrors "github.com/liamdp12/scikit-learn/pkg/errors"
	"github.com/liamdp12/scikit-learn/pkg/log"
)

// LogisticRegression implements binary logistic regression trained by
// gradient descent with L2 regularization.
type LogisticRegression struct {
	state  *model.StateManager
	logger log.Logger

	// Hyperparameters
	learningRate float64 // Gradient descent step size
	maxIter      int     // Maximum number of iterations
	tol          float64 // Stopping tolerance on coefficient updates
	c            float64 // Inverse regularization strength (1/alpha)
	fitIntercept bool    // Whether to fit an intercept term

	// Model parameters
	coef_      []float64 // Feature coefficients
	intercept_ float64   // Intercept term
	classes_   []float64 // Unique class labels, sorted
	nFeatures_ int       // Number of features
	nIter_     int       // Iterations executed
}

// LogisticRegressionOption is a functional option for LogisticRegression.
type LogisticRegressionOption func(*LogisticRegression)

// WithLearningRate sets the gradient descent step size.
func WithLearningRate(lr float64) LogisticRegressionOption {
	return func(m *LogisticRegression) { m.learningRate = lr }
}

// WithMaxIter sets the maximum number of iterations.
func WithMaxIter(n int) LogisticRegressionOption {
	return func(m *LogisticRegression) { m.maxIter = n }
}

// WithTol sets the stopping tolerance.
func WithTol(tol float64) LogisticRegressionOption {
	return func(m *LogisticRegression) { m.tol = tol }
}

// WithC sets the inverse regularization strength.
func WithC(c float64) LogisticRegressionOption {
	return func(m *LogisticRegression) { m.c = c }
}

// WithFitIntercept controls whether an intercept term is fitted.
func WithFitIntercept(fit bool) LogisticRegressionOption {
	return func(m *LogisticRegression) { m.fitIntercept = fit }
}

// NewLogisticRegression creates a LogisticRegression classifier.
func NewLogisticRegression(opts ...LogisticRegressionOption) *LogisticRegression {
	m := &LogisticRegression{
		state:        model.NewStateManager(),
		learningRate: 0.1,
		maxIter:      1000,
		tol:          1e-6,
		c:            1.0,
		fitIntercept: true,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.logger = log.GetLoggerWithName("linear_model").With(
		log.ModelNameKey, "LogisticRegression",
		log.ComponentKey, "linear_model",
	)

	return m
}

// Fit trains the classifier on X and binary labels y.
func (m *LogisticRegression) Fit(X, y mat.Matrix) (err error) {
	defer scigoErrors.Recover(&err, "LogisticRegression.Fit")

	r, c := X.Dims()
	if r == 0 || c == 0 {
		return scigoErrors.NewModelError("LogisticRegression.Fit", "empty data", scigoErrors.ErrEmptyData)
	}

	labels, err := columnLabels(y, "LogisticRegression.Fit")
	if err != nil {
		return err
	}
	if len(labels) != r {
		return scigoErrors.NewDimensionError("LogisticRegression.Fit", r, len(labels), 0)
	}

	classes := uniqueSorted(labels)
	if len(classes) != 2 {
		return scigoErrors.NewValidationError(
			"y", "binary classification requires exactly 2 classes", len(classes))
	}

	// Encode labels as 0/1 against the sorted class order.
	target := make([]float64, r)
	for i, label := range labels {
		if label == classes[1] {
			target[i] = 1
		}
	}

	w := make([]float64, c)
	b := 0.0
	alpha := 1.0 / m.c

	iter := 0
	for ; iter < m.maxIter; iter++ {
		gradW := make([]float64, c)
		gradB := 0.0

		for i := 0; i < r; i++ {
			z := b
			for j := 0; j < c; j++ {
				z += w[j] * X.At(i, j)
			}
			residual := sigmoid(z) - target[i]
			for j := 0; j < c; j++ {
				gradW[j] += residual * X.At(i, j)
			}
			gradB += residual
		}

		maxUpdate := 0.0
		for j := 0; j < c; j++ {
			update := m.learningRate * (gradW[j]/float64(r) + alpha*w[j]/float64(r))
			w[j] -= update
			if u := math.Abs(update); u > maxUpdate {
				maxUpdate = u
			}
		}
		if m.fitIntercept {
			update := m.learningRate * gradB / float64(r)
			b -= update
			if u := math.Abs(update); u > maxUpdate {
				maxUpdate = u
			}
		}

		if maxUpdate < m.tol {
			iter++
			break
		}
	}

	m.coef_ = w
	m.intercept_ = b
	m.classes_ = classes
	m.nFeatures_ = c
	m.nIter_ = iter
	m.state.SetNFeatures(c)
	m.state.SetFitted()

	m.logger.Debug("fit complete", "n_samples", r, "n_features", c, "n_iter", iter)
	return nil
}

// DecisionFunction returns the signed distance w·x + b for each sample.
func (m *LogisticRegression) DecisionFunction(X mat.Matrix) (mat.Matrix, error) {
	if !m.state.IsFitted() {
		return nil, scigoErrors.NewNotFittedError("LogisticRegression", "DecisionFunction")
	}

	r, c := X.Dims()
	if c != m.nFeatures_ {
		return nil, scigoErrors.NewDimensionError("LogisticRegression.DecisionFunction", m.nFeatures_, c, 1)
	}

	out := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		z := m.intercept_
		for j := 0; j < c; j++ {
			z += m.coef_[j] * X.At(i, j)
		}
		out.Set(i, 0, z)
	}
	return out, nil
}

// Predict returns the predicted class label for each sample.
func (m *LogisticRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !m.state.IsFitted() {
		return nil, scigoErrors.NewNotFittedError("LogisticRegression", "Predict")
	}

	scores, err := m.DecisionFunction(X)
	if err != nil {
		return nil, err
	}

	r, _ := scores.Dims()
	out := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		if scores.At(i, 0) >= 0 {
			out.Set(i, 0, m.classes_[1])
		} else {
			out.Set(i, 0, m.classes_[0])
		}
	}
	return out, nil
}

// PredictProba returns class probability estimates, one column per class in
// sorted class order.
func (m *LogisticRegression) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if !m.state.IsFitted() {
		return nil, scigoErrors.NewNotFittedError("LogisticRegression", "PredictProba")
	}

	scores, err := m.DecisionFunction(X)
	if err != nil {
		return nil, err
	}

	r, _ := scores.Dims()
	out := mat.NewDense(r, 2, nil)
	for i := 0; i < r; i++ {
		p := sigmoid(scores.At(i, 0))
		out.Set(i, 0, 1-p)
		out.Set(i, 1, p)
	}
	return out, nil
}

// PredictLogProba returns the log of the class probability estimates.
func (m *LogisticRegression) PredictLogProba(X mat.Matrix) (mat.Matrix, error) {
	proba, err := m.PredictProba(X)
	if err != nil {
		return nil, err
	}

	r, c := proba.Dims()
	out := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.Set(i, j, math.Log(math.Max(proba.At(i, j), 1e-15)))
		}
	}
	return out, nil
}

// Score returns the mean accuracy on the given test data and labels.
func (m *LogisticRegression) Score(X, y mat.Matrix) (float64, error) {
	if !m.state.IsFitted() {
		return 0, scigoErrors.NewNotFittedError("LogisticRegression", "Score")
	}

	pred, err := m.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.AccuracyScore(y, pred)
}

// Coef returns a copy of the fitted coefficients.
func (m *LogisticRegression) Coef() []float64 {
	coef := make([]float64, len(m.coef_))
	copy(coef, m.coef_)
	return coef
}

// Intercept returns the fitted intercept term.
func (m *LogisticRegression) Intercept() float64 {
	return m.intercept_
}

// Classes returns the class labels in sorted order.
func (m *LogisticRegression) Classes() []float64 {
	classes := make([]float64, len(m.classes_))
	copy(classes, m.classes_)
	return classes
}

// NIter returns the number of gradient descent iterations executed.
func (m *LogisticRegression) NIter() int {
	return m.nIter_
}

// IsFitted returns whether Fit has completed.
func (m *LogisticRegression) IsFitted() bool {
	return m.state.IsFitted()
}

// GetParams returns the model's hyperparameters.
func (m *LogisticRegression) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"learning_rate": m.learningRate,
		"max_iter":      m.maxIter,
		"tol":           m.tol,
		"C":             m.c,
		"fit_intercept": m.fitIntercept,
	}
}

// SetParams sets hyperparameters by name. Unknown names are rejected.
func (m *LogisticRegression) SetParams(params map[string]interface{}) error {
	for name, value := range params {
		switch name {
		case "learning_rate":
			v, ok := value.(float64)
			if !ok {
				return scigoErrors.NewValidationError(name, "expected float64", value)
			}
			m.learningRate = v
		case "max_iter":
			v, ok := value.(int)
			if !ok {
				return scigoErrors.NewValidationError(name, "expected int", value)
			}
			m.maxIter = v
		case "tol":
			v, ok := value.(float64)
			if !ok {
				return scigoErrors.NewValidationError(name, "expected float64", value)
			}
			m.tol = v
		case "C":
			v, ok := value.(float64)
			if !ok {
				return scigoErrors.NewValidationError(name, "expected float64", value)
			}
			m.c = v
		case "fit_intercept":
			v, ok := value.(bool)
			if !ok {
				return scigoErrors.NewValidationError(name, "expected bool", value)
			}
			m.fitIntercept = v
		default:
			return scigoErrors.NewValidationError(name, "unknown parameter", value)
		}
	}
	return nil
}

// Clone returns an unfitted copy carrying the same hyperparameters.
func (m *LogisticRegression) Clone() interface{} {
	return NewLogisticRegression(
		WithLearningRate(m.learningRate),
		WithMaxIter(m.maxIter),
		WithTol(m.tol),
		WithC(m.c),
		WithFitIntercept(m.fitIntercept),
	)
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}

// columnLabels extracts a label slice from a column vector matrix.
func columnLabels(y mat.Matrix, op string) ([]float64, error) {
	if y == nil {
		return nil, scigoErrors.NewValueError(op, "y cannot be nil")
	}
	r, c := y.Dims()
	if c != 1 {
		return nil, scigoErrors.NewValueError(op, "y must be a column vector (n×1 matrix)")
	}
	labels := make([]float64, r)
	for i := 0; i < r; i++ {
		labels[i] = y.At(i, 0)
	}
	return labels, nil
}

func uniqueSorted(values []float64) []float64 {
	seen := make(map[float64]struct{}, len(values))
	var out []float64
	for _, v := range values {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	sort.Float64s(out)
	return out
}
