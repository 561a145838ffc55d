package model_test

import (
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/liamdp12/scikit-learn/core/model"
)

// predictOnly implements Predictor and nothing else.
type predictOnly struct{}

func (predictOnly) Predict(X mat.Matrix) (mat.Matrix, error) { return X, nil }

// fullEstimator implements every optional method.
type fullEstimator struct{}

func (fullEstimator) Predict(X mat.Matrix) (mat.Matrix, error)          { return X, nil }
func (fullEstimator) Transform(X mat.Matrix) (mat.Matrix, error)        { return X, nil }
func (fullEstimator) InverseTransform(X mat.Matrix) (mat.Matrix, error) { return X, nil }
func (fullEstimator) PredictProba(X mat.Matrix) (mat.Matrix, error)     { return X, nil }
func (fullEstimator) PredictLogProba(X mat.Matrix) (mat.Matrix, error)  { return X, nil }
func (fullEstimator) DecisionFunction(X mat.Matrix) (mat.Matrix, error) { return X, nil }
func (fullEstimator) Score(X, y mat.Matrix) (float64, error)            { return 1.0, nil }

// reporter overrides interface probing with an explicit capability set.
type reporter struct {
	fullEstimator
	hidden model.Capability
}

func (r reporter) HasCapability(c model.Capability) bool { return c != r.hidden }

func TestHasCapability_InterfaceProbe(t *testing.T) {
	tests := []struct {
		name string
		est  interface{}
		cap  model.Capability
		want bool
	}{
		{"predictor has predict", predictOnly{}, model.CapPredict, true},
		{"predictor lacks transform", predictOnly{}, model.CapTransform, false},
		{"predictor lacks score", predictOnly{}, model.CapScore, false},
		{"full has transform", fullEstimator{}, model.CapTransform, true},
		{"full has inverse_transform", fullEstimator{}, model.CapInverseTransform, true},
		{"full has predict_proba", fullEstimator{}, model.CapPredictProba, true},
		{"full has predict_log_proba", fullEstimator{}, model.CapPredictLogProba, true},
		{"full has decision_function", fullEstimator{}, model.CapDecisionFunction, true},
		{"full has score", fullEstimator{}, model.CapScore, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := model.HasCapability(tt.est, tt.cap); got != tt.want {
				t.Errorf("HasCapability(%T, %q) = %v, want %v", tt.est, tt.cap, got, tt.want)
			}
		})
	}
}

func TestHasCapability_ReporterWins(t *testing.T) {
	// The reporter satisfies every interface but withholds transform;
	// the explicit answer must override interface probing.
	r := reporter{hidden: model.CapTransform}

	if model.HasCapability(r, model.CapTransform) {
		t.Error("reporter hides transform but probe returned true")
	}
	if !model.HasCapability(r, model.CapPredict) {
		t.Error("reporter exposes predict but probe returned false")
	}
}

func TestCapabilities_SortedComplete(t *testing.T) {
	caps := model.Capabilities()
	if len(caps) != 7 {
		t.Fatalf("expected 7 capabilities, got %d", len(caps))
	}
	for i := 1; i < len(caps); i++ {
		if caps[i-1] >= caps[i] {
			t.Errorf("capabilities not sorted: %q before %q", caps[i-1], caps[i])
		}
	}
}

func TestStateManager(t *testing.T) {
	sm := model.NewStateManager()

	if sm.IsFitted() {
		t.Error("new StateManager reports fitted")
	}

	sm.SetNFeatures(4)
	sm.SetFitted()
	if !sm.IsFitted() {
		t.Error("SetFitted did not mark state fitted")
	}
	if sm.NFeatures() != 4 {
		t.Errorf("NFeatures = %d, want 4", sm.NFeatures())
	}

	sm.Reset()
	if sm.IsFitted() || sm.NFeatures() != 0 {
		t.Error("Reset did not clear state")
	}
}

func TestBaseEstimator_Params(t *testing.T) {
	var e model.BaseEstimator

	if err := e.SetParams(map[string]interface{}{"alpha": 0.5, "max_iter": 100}); err != nil {
		t.Fatalf("SetParams failed: %v", err)
	}

	params := e.GetParams(true)
	if params["alpha"] != 0.5 {
		t.Errorf("alpha = %v, want 0.5", params["alpha"])
	}

	// Deep copy must not alias internal state.
	params["alpha"] = 9.9
	if e.GetParams(false)["alpha"] != 0.5 {
		t.Error("GetParams(true) returned aliased map")
	}

	clone := e.Clone()
	if clone.IsFitted() {
		t.Error("clone of unfitted estimator reports fitted")
	}
	if clone.GetParams(false)["max_iter"] != 100 {
		t.Error("clone lost hyperparameters")
	}
}
