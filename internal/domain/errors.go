package domain

import "errors"

var (
	// ErrEmptyTopic is returned when analysis is requested for an empty
	// or whitespace-only topic. Rejected before any model call.
	ErrEmptyTopic = errors.New("topic is empty")

	// ErrInvalidState is returned when an operation is not legal in the
	// pipeline's current state.
	ErrInvalidState = errors.New("operation not allowed in current pipeline state")

	// ErrInvalidInput is returned when a request payload is malformed
	// beyond what binding alone can reject.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoActivePlan is returned when a refinement operation is invoked
	// without a completed plan.
	ErrNoActivePlan = errors.New("no active plan")

	// ErrAngleNotFound is returned when angle selection names an id that
	// is not among the analyzed angles.
	ErrAngleNotFound = errors.New("angle not found")

	// ErrShotNotFound is returned when a shot-level operation names an
	// unknown shot id.
	ErrShotNotFound = errors.New("shot not found")

	// ErrHistoryNotFound is returned when a history record id does not exist.
	ErrHistoryNotFound = errors.New("history item not found")

	// ErrOperationInFlight is returned on re-entrant invocation of an
	// operation that is already running. No second model call is issued.
	ErrOperationInFlight = errors.New("operation already in flight")

	// ErrGenerationFailed is the uniform failure signal for an external
	// model call (network, service, or transport error).
	ErrGenerationFailed = errors.New("generation failed")

	// ErrMalformedResponse is returned when the model's structured
	// payload is absent, undecodable, or fails shape validation.
	ErrMalformedResponse = errors.New("malformed model response")

	// ErrNoImagePayload is returned when an image task yields no inline
	// image part.
	ErrNoImagePayload = errors.New("no image data returned")

	// ErrNoAudioPayload is returned when an audio task yields no inline
	// audio part.
	ErrNoAudioPayload = errors.New("no audio data returned")

	// ErrUnauthorized is returned when a request carries no known user.
	ErrUnauthorized = errors.New("unknown user")
)
