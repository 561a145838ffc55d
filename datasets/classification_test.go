package datasets_test

import (
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/liamdp12/scikit-learn/datasets"
)

func TestMakeClassification_Defaults(t *testing.T) {
	X, y, err := datasets.MakeClassification()
	if err != nil {
		t.Fatalf("MakeClassification failed: %v", err)
	}

	r, c := X.Dims()
	if r != 100 || c != 20 {
		t.Errorf("expected 100x20 matrix, got %dx%d", r, c)
	}
	if y.Len() != 100 {
		t.Errorf("expected 100 labels, got %d", y.Len())
	}

	// Binary problem: labels are 0 or 1, both present.
	seen := map[float64]int{}
	for i := 0; i < y.Len(); i++ {
		label := y.AtVec(i)
		if label != 0 && label != 1 {
			t.Fatalf("unexpected label %f at %d", label, i)
		}
		seen[label]++
	}
	if seen[0] == 0 || seen[1] == 0 {
		t.Errorf("expected both classes present, got %v", seen)
	}
}

func TestMakeClassification_Reproducible(t *testing.T) {
	gen := func() (*mat.Dense, *mat.VecDense) {
		X, y, err := datasets.MakeClassification(
			datasets.WithNSamples(50),
			datasets.WithNFeatures(5),
			datasets.WithRandomState(7),
		)
		if err != nil {
			t.Fatalf("MakeClassification failed: %v", err)
		}
		return X, y
	}

	X1, y1 := gen()
	X2, y2 := gen()

	if !mat.Equal(X1, X2) {
		t.Error("same seed produced different feature matrices")
	}
	if !mat.Equal(y1, y2) {
		t.Error("same seed produced different labels")
	}
}

func TestMakeClassification_Validation(t *testing.T) {
	tests := []struct {
		name string
		opts []datasets.ClassificationOption
	}{
		{"zero samples", []datasets.ClassificationOption{datasets.WithNSamples(0)}},
		{"zero features", []datasets.ClassificationOption{datasets.WithNFeatures(0)}},
		{"one class", []datasets.ClassificationOption{datasets.WithNClasses(1)}},
		{"informative above features", []datasets.ClassificationOption{
			datasets.WithNFeatures(3), datasets.WithNInformative(4)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := datasets.MakeClassification(tt.opts...); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}
