// Package pipeline implements a scikit-learn compatible Pipeline for
// chaining transformers and a final estimator.
//
// A Pipeline delegates optional methods to its final step: it exposes
// Predict, Transform, Score and friends exactly when the final step does.
// Calling a delegated method before Fit returns a NotFittedError; calling
// one the final step does not expose returns an AttributeError.
package pipeline

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/liamdp12/scikit-learn/core/model"
	"github.com/liamdp12/scikit-learn/pkg/errors"
	"github.com/liamdp12/scikit-learn/pkg/log"
)

// Step is a single named step in the pipeline.
type Step struct {
	Name      string      // Name of this step (for identification)
	Estimator interface{} // Transformer for intermediate steps; any estimator for the final step
}

// Pipeline chains transformers and optionally a final estimator.
// Intermediate steps must implement model.Transformer; the final step can be
// any estimator and is the delegation target for optional methods.
type Pipeline struct {
	state  *model.StateManager
	logger log.Logger

	steps      []Step
	namedSteps map[string]interface{}
}

// New creates a Pipeline with the given steps.
func New(steps ...Step) *Pipeline {
	namedSteps := make(map[string]interface{}, len(steps))
	for _, step := range steps {
		namedSteps[step.Name] = step.Estimator
	}

	return &Pipeline{
		state:      model.NewStateManager(),
		logger:     log.GetLoggerWithName("pipeline").With(log.ModelNameKey, "Pipeline"),
		steps:      steps,
		namedSteps: namedSteps,
	}
}

// NewPipeline is an alias for New to match sklearn naming conventions.
func NewPipeline(steps ...Step) *Pipeline {
	return New(steps...)
}

// Make builds a Pipeline with generated step names, similar to
// sklearn.pipeline.make_pipeline.
func Make(estimators ...interface{}) *Pipeline {
	steps := make([]Step, len(estimators))
	for i, estimator := range estimators {
		steps[i] = Step{Name: fmt.Sprintf("step%d", i+1), Estimator: estimator}
	}
	return New(steps...)
}

// HasCapability reports whether the pipeline exposes the optional method
// named by c, which is the case exactly when its final step does.
// InverseTransform additionally requires every step to expose it, since the
// inverse walks back through the whole chain.
func (p *Pipeline) HasCapability(c model.Capability) bool {
	final := p.finalStep()
	if final == nil {
		return false
	}
	if c == model.CapInverseTransform {
		for _, step := range p.steps {
			if !model.HasCapability(step.Estimator, c) {
				return false
			}
		}
		return true
	}
	return model.HasCapability(final, c)
}

// Fit trains the pipeline: each intermediate transformer is fitted and used
// to transform the data for the next step, then the final step is fitted.
func (p *Pipeline) Fit(X, y mat.Matrix) error {
	Xt, err := p.fitTransformIntermediate(X)
	if err != nil {
		return err
	}

	if len(p.steps) > 0 {
		final := p.steps[len(p.steps)-1]

		switch est := final.Estimator.(type) {
		case model.Fitter:
			if err := est.Fit(Xt, y); err != nil {
				return errors.Wrap(err, fmt.Sprintf("failed to fit final step '%s'", final.Name))
			}
		case model.Transformer:
			if err := est.Fit(Xt); err != nil {
				return errors.Wrap(err, fmt.Sprintf("failed to fit final step '%s'", final.Name))
			}
		default:
			return errors.NewValidationError(
				"pipeline final step",
				"final step must have a Fit method",
				final.Name,
			)
		}
	}

	p.state.SetFitted()
	p.logger.Debug("fit complete", "n_steps", len(p.steps))
	return nil
}

// Predict applies intermediate transforms to X and predicts with the final step.
func (p *Pipeline) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := p.delegationCheck(model.CapPredict, "Predict"); err != nil {
		return nil, err
	}

	Xt, err := p.transformIntermediate(X)
	if err != nil {
		return nil, err
	}

	predictor, ok := p.finalStep().(model.Predictor)
	if !ok {
		return nil, errors.NewAttributeError("Pipeline", "Predict")
	}
	return predictor.Predict(Xt)
}

// Transform applies the transforms of every step, including the final one.
func (p *Pipeline) Transform(X mat.Matrix) (mat.Matrix, error) {
	if err := p.delegationCheck(model.CapTransform, "Transform"); err != nil {
		return nil, err
	}

	Xt, err := p.transformIntermediate(X)
	if err != nil {
		return nil, err
	}

	transformer, ok := p.finalStep().(interface {
		Transform(mat.Matrix) (mat.Matrix, error)
	})
	if !ok {
		return nil, errors.NewAttributeError("Pipeline", "Transform")
	}
	return transformer.Transform(Xt)
}

// InverseTransform applies inverse transformations in reverse step order.
func (p *Pipeline) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := p.delegationCheck(model.CapInverseTransform, "InverseTransform"); err != nil {
		return nil, err
	}

	Xt := X
	var err error
	for i := len(p.steps) - 1; i >= 0; i-- {
		step := p.steps[i]

		inverseTransformer, ok := step.Estimator.(model.InverseTransformer)
		if !ok {
			return nil, errors.NewAttributeError("Pipeline", "InverseTransform")
		}

		Xt, err = inverseTransformer.InverseTransform(Xt)
		if err != nil {
			return nil, errors.Wrap(err, fmt.Sprintf("failed to inverse transform at step '%s'", step.Name))
		}
	}

	return Xt, nil
}

// PredictProba applies intermediate transforms and forwards to the final
// step's PredictProba.
func (p *Pipeline) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if err := p.delegationCheck(model.CapPredictProba, "PredictProba"); err != nil {
		return nil, err
	}

	Xt, err := p.transformIntermediate(X)
	if err != nil {
		return nil, err
	}

	predictor, ok := p.finalStep().(interface {
		PredictProba(mat.Matrix) (mat.Matrix, error)
	})
	if !ok {
		return nil, errors.NewAttributeError("Pipeline", "PredictProba")
	}
	return predictor.PredictProba(Xt)
}

// PredictLogProba applies intermediate transforms and forwards to the final
// step's PredictLogProba.
func (p *Pipeline) PredictLogProba(X mat.Matrix) (mat.Matrix, error) {
	if err := p.delegationCheck(model.CapPredictLogProba, "PredictLogProba"); err != nil {
		return nil, err
	}

	Xt, err := p.transformIntermediate(X)
	if err != nil {
		return nil, err
	}

	predictor, ok := p.finalStep().(interface {
		PredictLogProba(mat.Matrix) (mat.Matrix, error)
	})
	if !ok {
		return nil, errors.NewAttributeError("Pipeline", "PredictLogProba")
	}
	return predictor.PredictLogProba(Xt)
}

// DecisionFunction applies intermediate transforms and forwards to the final
// step's DecisionFunction.
func (p *Pipeline) DecisionFunction(X mat.Matrix) (mat.Matrix, error) {
	if err := p.delegationCheck(model.CapDecisionFunction, "DecisionFunction"); err != nil {
		return nil, err
	}

	Xt, err := p.transformIntermediate(X)
	if err != nil {
		return nil, err
	}

	fn, ok := p.finalStep().(model.DecisionFunctioner)
	if !ok {
		return nil, errors.NewAttributeError("Pipeline", "DecisionFunction")
	}
	return fn.DecisionFunction(Xt)
}

// Score applies intermediate transforms and scores with the final step.
func (p *Pipeline) Score(X, y mat.Matrix) (float64, error) {
	if err := p.delegationCheck(model.CapScore, "Score"); err != nil {
		return 0, err
	}

	Xt, err := p.transformIntermediate(X)
	if err != nil {
		return 0, err
	}

	scorer, ok := p.finalStep().(model.Scorer)
	if !ok {
		return 0, errors.NewAttributeError("Pipeline", "Score")
	}
	return scorer.Score(Xt, y)
}

// FitPredict fits the pipeline and predicts on the training data.
func (p *Pipeline) FitPredict(X, y mat.Matrix) (mat.Matrix, error) {
	if err := p.Fit(X, y); err != nil {
		return nil, err
	}
	return p.Predict(X)
}

// FitTransform fits the pipeline and transforms the training data.
func (p *Pipeline) FitTransform(X, y mat.Matrix) (mat.Matrix, error) {
	if err := p.Fit(X, y); err != nil {
		return nil, err
	}
	return p.Transform(X)
}

// NamedSteps returns the steps keyed by name.
func (p *Pipeline) NamedSteps() map[string]interface{} {
	return p.namedSteps
}

// Steps returns a copy of the step list.
func (p *Pipeline) Steps() []Step {
	steps := make([]Step, len(p.steps))
	copy(steps, p.steps)
	return steps
}

// IsFitted returns whether Fit has completed.
func (p *Pipeline) IsFitted() bool {
	return p.state.IsFitted()
}

// GetParams returns the pipeline's parameters, including nested step
// parameters prefixed with the step name.
func (p *Pipeline) GetParams() map[string]interface{} {
	params := map[string]interface{}{
		"steps": p.steps,
	}

	for _, step := range p.steps {
		if getter, ok := step.Estimator.(model.ParameterGetter); ok {
			for key, value := range getter.GetParams() {
				params[fmt.Sprintf("%s__%s", step.Name, key)] = value
			}
		}
	}

	return params
}

// delegationCheck verifies that the optional method named by c may be called:
// the final step must expose the capability, and the pipeline must be fitted.
func (p *Pipeline) delegationCheck(c model.Capability, method string) error {
	if !p.HasCapability(c) {
		return errors.NewAttributeError("Pipeline", method)
	}
	if !p.state.IsFitted() {
		return errors.NewNotFittedError("Pipeline", method)
	}
	return nil
}

// finalStep returns the last step's estimator, or nil for an empty pipeline.
func (p *Pipeline) finalStep() interface{} {
	if len(p.steps) == 0 {
		return nil
	}
	return p.steps[len(p.steps)-1].Estimator
}

// fitTransformIntermediate fits every intermediate transformer and passes
// the transformed data along.
func (p *Pipeline) fitTransformIntermediate(X mat.Matrix) (mat.Matrix, error) {
	Xt := X
	var err error

	for i := 0; i < len(p.steps)-1; i++ {
		step := p.steps[i]

		transformer, ok := step.Estimator.(model.Transformer)
		if !ok {
			return nil, errors.NewValidationError(
				"pipeline step",
				"all intermediate steps must be transformers",
				step.Name,
			)
		}

		if err = transformer.Fit(Xt); err != nil {
			return nil, errors.Wrap(err, fmt.Sprintf("failed to fit step '%s'", step.Name))
		}

		Xt, err = transformer.Transform(Xt)
		if err != nil {
			return nil, errors.Wrap(err, fmt.Sprintf("failed to transform at step '%s'", step.Name))
		}
	}

	return Xt, nil
}

// transformIntermediate applies every intermediate transformer, leaving the
// final step to the caller.
func (p *Pipeline) transformIntermediate(X mat.Matrix) (mat.Matrix, error) {
	Xt := X
	var err error

	for i := 0; i < len(p.steps)-1; i++ {
		step := p.steps[i]

		transformer, ok := step.Estimator.(model.Transformer)
		if !ok {
			return nil, errors.NewValidationError(
				"pipeline step",
				"intermediate steps must be transformers",
				step.Name,
			)
		}

		Xt, err = transformer.Transform(Xt)
		if err != nil {
			return nil, errors.Wrap(err, fmt.Sprintf("failed to transform at step '%s'", step.Name))
		}
	}

	return Xt, nil
}
