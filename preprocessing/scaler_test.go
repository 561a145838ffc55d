package preprocessing_test

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	scigoErrors "github.com/liamdp12/scikit-learn/pkg/errors"
	"github.com/liamdp12/scikit-learn/preprocessing"
)

const epsilon = 1e-10 // Tolerance for floating-point comparisons

func TestStandardScaler_BasicFunctionality(t *testing.T) {
	// 3 samples, 2 features
	// Feature 1: [1, 2, 3] -> mean=2, std=0.816
	// Feature 2: [4, 5, 6] -> mean=5, std=0.816
	X := mat.NewDense(3, 2, []float64{
		1.0, 4.0,
		2.0, 5.0,
		3.0, 6.0,
	})

	scaler := preprocessing.NewStandardScalerDefault()

	if err := scaler.Fit(X); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	expectedMean := []float64{2.0, 5.0}
	expectedStd := []float64{0.816496580927726, 0.816496580927726}

	for i, expected := range expectedMean {
		if math.Abs(scaler.Mean[i]-expected) > epsilon {
			t.Errorf("Mean[%d]: expected %f, got %f", i, expected, scaler.Mean[i])
		}
	}
	for i, expected := range expectedStd {
		if math.Abs(scaler.Scale[i]-expected) > epsilon {
			t.Errorf("Scale[%d]: expected %f, got %f", i, expected, scaler.Scale[i])
		}
	}

	XScaled, err := scaler.Transform(X)
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}

	expectedScaled := []float64{
		-1.224744871391589, -1.224744871391589,
		0.0, 0.0,
		1.224744871391589, 1.224744871391589,
	}

	r, c := XScaled.Dims()
	if r != 3 || c != 2 {
		t.Fatalf("Expected 3x2 matrix, got %dx%d", r, c)
	}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if math.Abs(XScaled.At(i, j)-expectedScaled[i*c+j]) > epsilon {
				t.Errorf("XScaled[%d][%d]: expected %f, got %f",
					i, j, expectedScaled[i*c+j], XScaled.At(i, j))
			}
		}
	}
}

func TestStandardScaler_RoundTrip(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{
		10.0, 100.0,
		20.0, 200.0,
		30.0, 300.0,
	})

	scaler := preprocessing.NewStandardScalerDefault()

	XScaled, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}

	XBack, err := scaler.InverseTransform(XScaled)
	if err != nil {
		t.Fatalf("InverseTransform failed: %v", err)
	}

	r, c := X.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if math.Abs(XBack.At(i, j)-X.At(i, j)) > epsilon {
				t.Errorf("round trip differs at [%d][%d]: %f vs %f",
					i, j, XBack.At(i, j), X.At(i, j))
			}
		}
	}
}

func TestStandardScaler_NotFittedBeforeFit(t *testing.T) {
	X := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	scaler := preprocessing.NewStandardScalerDefault()

	_, err := scaler.Transform(X)
	if err == nil {
		t.Fatal("Transform before Fit should fail")
	}
	var notFitted *scigoErrors.NotFittedError
	if !errors.As(err, &notFitted) {
		t.Errorf("expected NotFittedError, got %T: %v", err, err)
	}

	if _, err := scaler.InverseTransform(X); err == nil {
		t.Error("InverseTransform before Fit should fail")
	}
}

func TestStandardScaler_ConstantFeature(t *testing.T) {
	// A constant column must not produce a zero scale.
	X := mat.NewDense(3, 1, []float64{7, 7, 7})

	scaler := preprocessing.NewStandardScalerDefault()
	XScaled, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		if v := XScaled.At(i, 0); v != 0 {
			t.Errorf("constant feature should scale to 0, got %f", v)
		}
	}
}

func TestStandardScaler_DimensionMismatch(t *testing.T) {
	scaler := preprocessing.NewStandardScalerDefault()
	if err := scaler.Fit(mat.NewDense(3, 2, nil)); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	_, err := scaler.Transform(mat.NewDense(3, 5, nil))
	if err == nil {
		t.Fatal("expected dimension mismatch error")
	}
	if !errors.Is(err, scigoErrors.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}
