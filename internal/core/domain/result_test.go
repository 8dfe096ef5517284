package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreResult_JSON(t *testing.T) {
	ok := &ScoreResult{Prediction: []int{0, 1, 1}}
	assert.True(t, ok.OK())
	assert.Equal(t, "[0 1 1]", ok.String())
	assert.JSONEq(t, `"[0 1 1]"`, string(ok.JSON()))

	failed := &ScoreResult{Err: errors.New(`bad "input"`)}
	assert.False(t, failed.OK())
	assert.JSONEq(t, `{"INTERNAL error":"bad \"input\""}`, string(failed.JSON()))

	var nilResult *ScoreResult
	assert.False(t, nilResult.OK())
	assert.NotPanics(t, func() {
		assert.Equal(t, "no score result", nilResult.String())
		assert.JSONEq(t, `{"INTERNAL error":"no score result"}`, string(nilResult.JSON()))
	})
}
