package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// InternalErrorKey is the only key of the error descriptor returned for a
// failed scoring request.
const InternalErrorKey = "INTERNAL error"

var errNoResult = errors.New("no score result")

// ScoreResult is the outcome of one scoring call: either a prediction or the
// request-local error that prevented it.
type ScoreResult struct {
	Prediction []int
	Err        error
}

func (r *ScoreResult) OK() bool {
	return r != nil && r.Err == nil
}

// String renders the prediction array the way the scoring clients expect,
// e.g. "[0 1 1]".
func (r *ScoreResult) String() string {
	if !r.OK() {
		return r.failure().Error()
	}
	return fmt.Sprint(r.Prediction)
}

// JSON returns the response payload: a JSON string holding the rendered
// prediction, or {"INTERNAL error": "<message>"}.
func (r *ScoreResult) JSON() []byte {
	var v interface{}
	if r.OK() {
		v = r.String()
	} else {
		v = map[string]string{InternalErrorKey: r.failure().Error()}
	}
	// Marshalling a string or a map[string]string cannot fail.
	out, _ := json.Marshal(v)
	return out
}

func (r *ScoreResult) failure() error {
	if r == nil {
		return errNoResult
	}
	return r.Err
}
