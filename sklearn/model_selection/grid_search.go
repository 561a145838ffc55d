package model_selection

import "gonum.org/v1/gonum/mat"

// GridSearchCV exhaustively evaluates every combination in a parameter grid
// by cross-validation and refits the best combination on the full data.
type GridSearchCV struct {
	baseSearch
	paramGrid ParamGrid
}

// NewGridSearchCV creates a GridSearchCV wrapping estimator.
func NewGridSearchCV(estimator interface{}, paramGrid ParamGrid, opts ...SearchOption) *GridSearchCV {
	return &GridSearchCV{
		baseSearch: newBaseSearch("GridSearchCV", estimator, opts...),
		paramGrid:  paramGrid,
	}
}

// Fit cross-validates every grid combination and refits the best one.
func (g *GridSearchCV) Fit(X, y mat.Matrix) error {
	return g.fitCandidates(X, y, g.paramGrid.Combinations())
}
