// Package datasets provides synthetic data generators for examples and tests.
package datasets

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	scigoErrors "github.com/liamdp12/scikit-learn/pkg/errors"
)

// classificationConfig holds MakeClassification settings.
type classificationConfig struct {
	nSamples     int
	nFeatures    int
	nInformative int
	nClasses     int
	classSep     float64
	shuffle      bool
	randomState  int64
}

// ClassificationOption configures MakeClassification.
type ClassificationOption func(*classificationConfig)

// WithNSamples sets the number of samples (default 100).
func WithNSamples(n int) ClassificationOption {
	return func(c *classificationConfig) { c.nSamples = n }
}

// WithNFeatures sets the total number of features (default 20).
func WithNFeatures(n int) ClassificationOption {
	return func(c *classificationConfig) { c.nFeatures = n }
}

// WithNInformative sets the number of informative features (default 2).
// The remaining features are pure noise.
func WithNInformative(n int) ClassificationOption {
	return func(c *classificationConfig) { c.nInformative = n }
}

// WithNClasses sets the number of classes (default 2).
func WithNClasses(n int) ClassificationOption {
	return func(c *classificationConfig) { c.nClasses = n }
}

// WithClassSep sets the distance between class centroids (default 1.0).
// Larger values make the task easier.
func WithClassSep(sep float64) ClassificationOption {
	return func(c *classificationConfig) { c.classSep = sep }
}

// WithShuffle controls whether samples are shuffled (default true).
func WithShuffle(shuffle bool) ClassificationOption {
	return func(c *classificationConfig) { c.shuffle = shuffle }
}

// WithRandomState sets the RNG seed for reproducible datasets.
// Negative values (the default) seed from entropy.
func WithRandomState(seed int64) ClassificationOption {
	return func(c *classificationConfig) { c.randomState = seed }
}

// MakeClassification generates a random n-class classification problem.
//
// Samples for each class are drawn from a Gaussian cluster placed on that
// class's centroid in the informative subspace; the remaining features carry
// standard normal noise. Labels are returned as a column vector of class
// indices.
//
// Example:
//
//	X, y, err := datasets.MakeClassification(
//		datasets.WithNSamples(200),
//		datasets.WithNFeatures(10),
//		datasets.WithRandomState(42),
//	)
func MakeClassification(opts ...ClassificationOption) (*mat.Dense, *mat.VecDense, error) {
	cfg := &classificationConfig{
		nSamples:     100,
		nFeatures:    20,
		nInformative: 2,
		nClasses:     2,
		classSep:     1.0,
		shuffle:      true,
		randomState:  -1,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.nSamples <= 0 {
		return nil, nil, scigoErrors.NewValidationError("n_samples", "must be positive", cfg.nSamples)
	}
	if cfg.nFeatures <= 0 {
		return nil, nil, scigoErrors.NewValidationError("n_features", "must be positive", cfg.nFeatures)
	}
	if cfg.nClasses < 2 {
		return nil, nil, scigoErrors.NewValidationError("n_classes", "must be at least 2", cfg.nClasses)
	}
	if cfg.nInformative < 1 || cfg.nInformative > cfg.nFeatures {
		return nil, nil, scigoErrors.NewValidationError(
			"n_informative", "must be between 1 and n_features", cfg.nInformative)
	}

	var src rand.Source
	if cfg.randomState >= 0 {
		src = rand.NewPCG(uint64(cfg.randomState), uint64(cfg.randomState))
	} else {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	rng := rand.New(src)
	normal := distuv.Normal{Mu: 0, Sigma: 1, Src: src}

	// Class centroids: vertices of a hypercube in the informative subspace,
	// scaled by classSep.
	centroids := make([][]float64, cfg.nClasses)
	for k := range centroids {
		centroids[k] = make([]float64, cfg.nInformative)
		for j := range centroids[k] {
			if k&(1<<uint(j%63)) != 0 {
				centroids[k][j] = cfg.classSep
			} else {
				centroids[k][j] = -cfg.classSep
			}
		}
	}

	X := mat.NewDense(cfg.nSamples, cfg.nFeatures, nil)
	y := mat.NewVecDense(cfg.nSamples, nil)

	for i := 0; i < cfg.nSamples; i++ {
		class := i % cfg.nClasses
		y.SetVec(i, float64(class))
		for j := 0; j < cfg.nFeatures; j++ {
			v := normal.Rand()
			if j < cfg.nInformative {
				v += centroids[class][j]
			}
			X.Set(i, j, v)
		}
	}

	if cfg.shuffle {
		perm := rng.Perm(cfg.nSamples)
		Xs := mat.NewDense(cfg.nSamples, cfg.nFeatures, nil)
		ys := mat.NewVecDense(cfg.nSamples, nil)
		for i, p := range perm {
			Xs.SetRow(i, mat.Row(nil, p, X))
			ys.SetVec(i, y.AtVec(p))
		}
		return Xs, ys, nil
	}

	return X, y, nil
}
