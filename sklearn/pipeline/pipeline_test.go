package pipeline_test

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/liamdp12/scikit-learn/core/model"
	"github.com/liamdp12/scikit-learn/datasets"
	scigoErrors "github.com/liamdp12/scikit-learn/pkg/errors"
	"github.com/liamdp12/scikit-learn/preprocessing"
	"github.com/liamdp12/scikit-learn/sklearn/linear_model"
	"github.com/liamdp12/scikit-learn/sklearn/pipeline"
)

func classificationData(t *testing.T) (*mat.Dense, *mat.VecDense) {
	t.Helper()
	X, y, err := datasets.MakeClassification(
		datasets.WithNSamples(120),
		datasets.WithNFeatures(4),
		datasets.WithNInformative(3),
		datasets.WithClassSep(2.0),
		datasets.WithRandomState(3),
	)
	if err != nil {
		t.Fatalf("MakeClassification failed: %v", err)
	}
	return X, y
}

func TestPipeline_ScalerThenClassifier(t *testing.T) {
	X, y := classificationData(t)

	p := pipeline.New(
		pipeline.Step{Name: "scaler", Estimator: preprocessing.NewStandardScalerDefault()},
		pipeline.Step{Name: "clf", Estimator: linear_model.NewLogisticRegression()},
	)

	if err := p.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	pred, err := p.Predict(X)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if r, c := pred.Dims(); r != 120 || c != 1 {
		t.Errorf("expected 120x1 predictions, got %dx%d", r, c)
	}

	score, err := p.Score(X, y)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if score < 0.85 {
		t.Errorf("pipeline accuracy %f below 0.85", score)
	}
}

func TestPipeline_NotFittedBeforeFit(t *testing.T) {
	X, y := classificationData(t)

	p := pipeline.New(
		pipeline.Step{Name: "clf", Estimator: linear_model.NewLogisticRegression()},
	)

	var notFitted *scigoErrors.NotFittedError

	if _, err := p.Predict(X); !errors.As(err, &notFitted) {
		t.Errorf("Predict: expected NotFittedError, got %v", err)
	}
	if _, err := p.Score(X, y); !errors.As(err, &notFitted) {
		t.Errorf("Score: expected NotFittedError, got %v", err)
	}
}

func TestPipeline_CapabilityFollowsFinalStep(t *testing.T) {
	// A scaler-only pipeline transforms but cannot predict.
	p := pipeline.New(
		pipeline.Step{Name: "scaler", Estimator: preprocessing.NewStandardScalerDefault()},
	)

	if !p.HasCapability(model.CapTransform) {
		t.Error("scaler pipeline should expose transform")
	}
	if !p.HasCapability(model.CapInverseTransform) {
		t.Error("scaler pipeline should expose inverse_transform")
	}
	if p.HasCapability(model.CapPredict) {
		t.Error("scaler pipeline should not expose predict")
	}

	X := mat.NewDense(3, 2, []float64{1, 2, 3, 4, 5, 6})
	if err := p.Fit(X, nil); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	_, err := p.Predict(X)
	var attrErr *scigoErrors.AttributeError
	if !errors.As(err, &attrErr) {
		t.Errorf("Predict on scaler pipeline: expected AttributeError, got %v", err)
	}

	Xt, err := p.Transform(X)
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}

	XBack, err := p.InverseTransform(Xt)
	if err != nil {
		t.Fatalf("InverseTransform failed: %v", err)
	}
	if !mat.EqualApprox(XBack, X, 1e-9) {
		t.Error("inverse transform did not recover the input")
	}
}

// forwardOnlyTransformer transforms but cannot invert.
type forwardOnlyTransformer struct{ fitted bool }

func (f *forwardOnlyTransformer) Fit(X mat.Matrix) error { f.fitted = true; return nil }

func (f *forwardOnlyTransformer) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !f.fitted {
		return nil, scigoErrors.NewNotFittedError("forwardOnlyTransformer", "Transform")
	}
	return X, nil
}

func (f *forwardOnlyTransformer) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := f.Fit(X); err != nil {
		return nil, err
	}
	return f.Transform(X)
}

func TestPipeline_InverseTransformNeedsEveryStep(t *testing.T) {
	// The final scaler can invert, but the intermediate step cannot: the
	// probe and the call must agree that the pipeline has no inverse.
	p := pipeline.New(
		pipeline.Step{Name: "forward", Estimator: &forwardOnlyTransformer{}},
		pipeline.Step{Name: "scaler", Estimator: preprocessing.NewStandardScalerDefault()},
	)

	if p.HasCapability(model.CapInverseTransform) {
		t.Error("pipeline with a non-invertible step should not expose inverse_transform")
	}
	if !p.HasCapability(model.CapTransform) {
		t.Error("pipeline should still expose transform")
	}

	X := mat.NewDense(3, 2, []float64{1, 2, 3, 4, 5, 6})
	if err := p.Fit(X, nil); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	var attrErr *scigoErrors.AttributeError
	if _, err := p.InverseTransform(X); !errors.As(err, &attrErr) {
		t.Errorf("InverseTransform: expected AttributeError, got %v", err)
	}

	// With invertible steps throughout, probe and round trip both work.
	p2 := pipeline.New(
		pipeline.Step{Name: "scale1", Estimator: preprocessing.NewStandardScalerDefault()},
		pipeline.Step{Name: "scale2", Estimator: preprocessing.NewStandardScalerDefault()},
	)
	if !p2.HasCapability(model.CapInverseTransform) {
		t.Error("all-invertible pipeline should expose inverse_transform")
	}
	if err := p2.Fit(X, nil); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	Xt, err := p2.Transform(X)
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	XBack, err := p2.InverseTransform(Xt)
	if err != nil {
		t.Fatalf("InverseTransform failed: %v", err)
	}
	if !mat.EqualApprox(XBack, X, 1e-9) {
		t.Error("inverse transform did not recover the input")
	}
}

func TestPipeline_Make(t *testing.T) {
	p := pipeline.Make(
		preprocessing.NewStandardScalerDefault(),
		linear_model.NewLogisticRegression(),
	)

	steps := p.Steps()
	if len(steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(steps))
	}
	if steps[0].Name != "step1" || steps[1].Name != "step2" {
		t.Errorf("unexpected generated names: %q, %q", steps[0].Name, steps[1].Name)
	}

	if _, ok := p.NamedSteps()["step2"].(*linear_model.LogisticRegression); !ok {
		t.Error("NamedSteps lost the final estimator")
	}
}

func TestPipeline_NestedParams(t *testing.T) {
	p := pipeline.New(
		pipeline.Step{Name: "clf", Estimator: linear_model.NewLogisticRegression(linear_model.WithC(0.25))},
	)

	params := p.GetParams()
	if params["clf__C"] != 0.25 {
		t.Errorf("clf__C = %v, want 0.25", params["clf__C"])
	}
}
