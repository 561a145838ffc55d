// Package model provides the core abstractions shared by all estimators.
//
// The package defines the estimator object model the rest of the library is
// built on:
//
//   - BaseEstimator: embeddable base with fitted-state tracking and
//     hyperparameter management
//   - StateManager: standalone fitted-state tracker for estimators that
//     prefer composition over embedding
//   - Optional-method interfaces (Predictor, Transformer, Scorer, ...) that
//     delegating metaestimators probe for
//   - Capability queries: a uniform way to ask "is this optional method
//     currently available on this estimator?"
//
// Every estimator tracks whether Fit has completed; methods that require a
// trained model return a NotFittedError until then.
package model

// EstimatorState represents the learning state of a model.
type EstimatorState int

const (
	// NotFitted indicates the model is not yet trained.
	NotFitted EstimatorState = iota
	// Fitted indicates the model has been trained.
	Fitted
)

// BaseEstimator is the embeddable base for estimators.
type BaseEstimator struct {
	// State holds the model's learning state. Public for gob encoding.
	State EstimatorState

	// logger is set to a log.Logger; kept untyped to avoid an import cycle.
	logger interface{}

	// hyperparameters holds the model's hyperparameters.
	hyperparameters map[string]interface{}

	// ModelType identifies the type of model.
	ModelType string
}

// IsFitted returns whether the model has been fitted with training data.
func (e *BaseEstimator) IsFitted() bool {
	return e.State == Fitted
}

// SetFitted marks the estimator as fitted. Called by model implementations
// after successful training.
func (e *BaseEstimator) SetFitted() {
	e.State = Fitted
}

// Reset returns the estimator to its initial untrained state.
func (e *BaseEstimator) Reset() {
	e.State = NotFitted
}

// SetLogger sets the logger for this estimator.
func (e *BaseEstimator) SetLogger(logger interface{}) {
	e.logger = logger
}

// GetLogger returns the logger for this estimator, or nil if unset.
func (e *BaseEstimator) GetLogger() interface{} {
	return e.logger
}

// LogInfo logs an info-level message if a logger is configured.
func (e *BaseEstimator) LogInfo(msg string, fields ...interface{}) {
	if logger, ok := e.logger.(interface {
		Info(string, ...interface{})
	}); ok {
		logger.Info(msg, fields...)
	}
}

// LogError logs an error-level message if a logger is configured.
func (e *BaseEstimator) LogError(msg string, fields ...interface{}) {
	if logger, ok := e.logger.(interface {
		Error(string, ...interface{})
	}); ok {
		logger.Error(msg, fields...)
	}
}

// GetParams retrieves the model's hyperparameters. With deep=true a copy is
// returned, so callers can mutate it freely.
func (e *BaseEstimator) GetParams(deep bool) map[string]interface{} {
	if e.hyperparameters == nil {
		return make(map[string]interface{})
	}

	if !deep {
		return e.hyperparameters
	}

	params := make(map[string]interface{}, len(e.hyperparameters))
	for k, v := range e.hyperparameters {
		params[k] = v
	}
	return params
}

// SetParams sets the model's hyperparameters.
func (e *BaseEstimator) SetParams(params map[string]interface{}) error {
	if e.hyperparameters == nil {
		e.hyperparameters = make(map[string]interface{})
	}

	for k, v := range params {
		e.hyperparameters[k] = v
	}

	return nil
}

// Clone creates an untrained copy carrying the same hyperparameters.
func (e *BaseEstimator) Clone() *BaseEstimator {
	clone := &BaseEstimator{
		ModelType:       e.ModelType,
		hyperparameters: make(map[string]interface{}, len(e.hyperparameters)),
	}

	for k, v := range e.hyperparameters {
		clone.hyperparameters[k] = v
	}

	return clone
}
