package linear_model_test

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/liamdp12/scikit-learn/datasets"
	scigoErrors "github.com/liamdp12/scikit-learn/pkg/errors"
	"github.com/liamdp12/scikit-learn/sklearn/linear_model"
)

func TestLogisticRegression_SeparableData(t *testing.T) {
	// Two well-separated clusters around x=-2 and x=+2.
	X := mat.NewDense(8, 1, []float64{
		-2.5, -2.0, -1.8, -2.2,
		2.5, 2.0, 1.8, 2.2,
	})
	y := mat.NewVecDense(8, []float64{0, 0, 0, 0, 1, 1, 1, 1})

	clf := linear_model.NewLogisticRegression(linear_model.WithMaxIter(2000))
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	score, err := clf.Score(X, y)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if score < 1.0 {
		t.Errorf("expected perfect accuracy on separable data, got %f", score)
	}

	proba, err := clf.PredictProba(X)
	if err != nil {
		t.Fatalf("PredictProba failed: %v", err)
	}
	r, c := proba.Dims()
	if r != 8 || c != 2 {
		t.Fatalf("expected 8x2 probabilities, got %dx%d", r, c)
	}
	for i := 0; i < r; i++ {
		sum := proba.At(i, 0) + proba.At(i, 1)
		if math.Abs(sum-1.0) > 1e-9 {
			t.Errorf("probabilities at row %d sum to %f", i, sum)
		}
	}
}

func TestLogisticRegression_SyntheticDataset(t *testing.T) {
	X, y, err := datasets.MakeClassification(
		datasets.WithNSamples(200),
		datasets.WithNFeatures(5),
		datasets.WithNInformative(3),
		datasets.WithClassSep(2.0),
		datasets.WithRandomState(42),
	)
	if err != nil {
		t.Fatalf("MakeClassification failed: %v", err)
	}

	clf := linear_model.NewLogisticRegression()
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	score, err := clf.Score(X, y)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if score < 0.85 {
		t.Errorf("training accuracy %f below 0.85 on well-separated data", score)
	}

	if len(clf.Coef()) != 5 {
		t.Errorf("expected 5 coefficients, got %d", len(clf.Coef()))
	}
}

func TestLogisticRegression_NotFittedErrors(t *testing.T) {
	clf := linear_model.NewLogisticRegression()
	X := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	y := mat.NewVecDense(2, []float64{0, 1})

	var notFitted *scigoErrors.NotFittedError

	if _, err := clf.Predict(X); !errors.As(err, &notFitted) {
		t.Errorf("Predict: expected NotFittedError, got %v", err)
	}
	if _, err := clf.PredictProba(X); !errors.As(err, &notFitted) {
		t.Errorf("PredictProba: expected NotFittedError, got %v", err)
	}
	if _, err := clf.DecisionFunction(X); !errors.As(err, &notFitted) {
		t.Errorf("DecisionFunction: expected NotFittedError, got %v", err)
	}
	if _, err := clf.Score(X, y); !errors.As(err, &notFitted) {
		t.Errorf("Score: expected NotFittedError, got %v", err)
	}
}

func TestLogisticRegression_Params(t *testing.T) {
	clf := linear_model.NewLogisticRegression(linear_model.WithC(0.5))

	params := clf.GetParams()
	if params["C"] != 0.5 {
		t.Errorf("C = %v, want 0.5", params["C"])
	}

	if err := clf.SetParams(map[string]interface{}{"max_iter": 50}); err != nil {
		t.Fatalf("SetParams failed: %v", err)
	}
	if clf.GetParams()["max_iter"] != 50 {
		t.Error("SetParams did not update max_iter")
	}

	if err := clf.SetParams(map[string]interface{}{"bogus": 1}); err == nil {
		t.Error("expected error for unknown parameter")
	}

	clone, ok := clf.Clone().(*linear_model.LogisticRegression)
	if !ok {
		t.Fatal("Clone did not return a *LogisticRegression")
	}
	if clone.IsFitted() {
		t.Error("clone reports fitted")
	}
	if clone.GetParams()["max_iter"] != 50 {
		t.Error("clone lost hyperparameters")
	}
}

func TestLogisticRegression_RejectsMulticlass(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{1, 2, 3})
	y := mat.NewVecDense(3, []float64{0, 1, 2})

	clf := linear_model.NewLogisticRegression()
	if err := clf.Fit(X, y); err == nil {
		t.Error("expected error for 3-class labels")
	}
}
