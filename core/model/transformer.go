package model

import "gonum.org/v1/gonum/mat"

// Transformer is the interface for preprocessing components that learn from
// data and then transform it.
type Transformer interface {
	// Fit learns transformation parameters from X.
	Fit(X mat.Matrix) error

	// Transform applies the learned transformation to X.
	Transform(X mat.Matrix) (mat.Matrix, error)

	// FitTransform fits to X and transforms it in one step.
	FitTransform(X mat.Matrix) (mat.Matrix, error)
}

// InverseTransformer is implemented by transformers that can undo their
// transformation.
type InverseTransformer interface {
	InverseTransform(X mat.Matrix) (mat.Matrix, error)
}
