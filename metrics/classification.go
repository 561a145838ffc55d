// Package metrics provides evaluation metrics for classification models.
package metrics

import (
	"gonum.org/v1/gonum/mat"

	scigoErrors "github.com/liamdp12/scikit-learn/pkg/errors"
)

// AccuracyScore computes the fraction of correctly classified samples.
//
// Both arguments are label column vectors of shape (n_samples, 1); a wider
// matrix is rejected. Labels are compared exactly.
//
// Example:
//
//	yTrue := mat.NewVecDense(4, []float64{0, 1, 1, 0})
//	yPred := mat.NewVecDense(4, []float64{0, 1, 0, 0})
//	acc, err := metrics.AccuracyScore(yTrue, yPred)
//	// acc == 0.75
func AccuracyScore(yTrue, yPred mat.Matrix) (float64, error) {
	if yTrue == nil || yPred == nil {
		return 0, scigoErrors.NewValueError(
			"AccuracyScore",
			"input vectors cannot be nil",
		)
	}

	rTrue, cTrue := yTrue.Dims()
	rPred, cPred := yPred.Dims()

	if rTrue == 0 {
		return 0, scigoErrors.NewValueError(
			"AccuracyScore",
			"input vectors cannot be empty",
		)
	}
	if cTrue != 1 || cPred != 1 {
		return 0, scigoErrors.NewValueError(
			"AccuracyScore",
			"labels must be column vectors (n×1 matrices)",
		)
	}
	if rTrue != rPred {
		return 0, scigoErrors.NewDimensionError(
			"AccuracyScore",
			rTrue,
			rPred,
			0,
		)
	}

	correct := 0
	for i := 0; i < rTrue; i++ {
		if yTrue.At(i, 0) == yPred.At(i, 0) {
			correct++
		}
	}

	return float64(correct) / float64(rTrue), nil
}

// ZeroOneLoss computes the fraction of misclassified samples, the complement
// of AccuracyScore.
func ZeroOneLoss(yTrue, yPred mat.Matrix) (float64, error) {
	acc, err := AccuracyScore(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return 1 - acc, nil
}
