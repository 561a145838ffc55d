package model

import "gonum.org/v1/gonum/mat"

// Capability names an optional estimator method. Capability names use the
// scikit-learn method spelling so parameter files and logs read the same
// across ports.
type Capability string

const (
	CapPredict          Capability = "predict"
	CapTransform        Capability = "transform"
	CapInverseTransform Capability = "inverse_transform"
	CapPredictProba     Capability = "predict_proba"
	CapPredictLogProba  Capability = "predict_log_proba"
	CapDecisionFunction Capability = "decision_function"
	CapScore            Capability = "score"
)

// Capabilities returns every optional capability in sorted order.
func Capabilities() []Capability {
	return []Capability{
		CapDecisionFunction,
		CapInverseTransform,
		CapPredict,
		CapPredictLogProba,
		CapPredictProba,
		CapScore,
		CapTransform,
	}
}

// CapabilityReporter is implemented by estimators whose optional methods are
// conditionally available. A reporter answering false for a capability is
// treated exactly as if the method did not exist: delegating wrappers must
// not expose it either, and calling it yields an AttributeError.
//
// Availability is distinct from readiness: HasCapability answers whether the
// method exists at all, while an existing method called before Fit fails
// with a NotFittedError.
type CapabilityReporter interface {
	HasCapability(c Capability) bool
}

// HasCapability reports whether est currently exposes the optional method
// named by c. Estimators implementing CapabilityReporter are asked directly;
// anything else is probed through the corresponding interface.
func HasCapability(est interface{}, c Capability) bool {
	if r, ok := est.(CapabilityReporter); ok {
		return r.HasCapability(c)
	}

	switch c {
	case CapPredict:
		_, ok := est.(Predictor)
		return ok
	case CapTransform:
		_, ok := est.(interface {
			Transform(X mat.Matrix) (mat.Matrix, error)
		})
		return ok
	case CapInverseTransform:
		_, ok := est.(InverseTransformer)
		return ok
	case CapPredictProba:
		_, ok := est.(interface {
			PredictProba(X mat.Matrix) (mat.Matrix, error)
		})
		return ok
	case CapPredictLogProba:
		_, ok := est.(interface {
			PredictLogProba(X mat.Matrix) (mat.Matrix, error)
		})
		return ok
	case CapDecisionFunction:
		_, ok := est.(DecisionFunctioner)
		return ok
	case CapScore:
		_, ok := est.(Scorer)
		return ok
	}
	return false
}
