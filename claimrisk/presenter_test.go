package claimrisk

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPresent(t *testing.T) {
	high := Present(Result{Probability: 0.73, Label: Classify(0.73)})
	assert.Equal(t, StateResult, high.State)
	assert.Equal(t, HighRisk, high.Label)
	assert.Equal(t, "73.00%", high.Probability)
	assert.Equal(t, ToneDanger, high.Tone)
	assert.Contains(t, high.Detail, "73.00%")
	assert.Equal(t, InfoText, high.Info)

	low := Present(Result{Probability: 0.20, Label: Classify(0.20)})
	assert.Equal(t, LowRisk, low.Label)
	assert.Equal(t, "20.00%", low.Probability)
	assert.Equal(t, ToneSuccess, low.Tone)
	assert.NotEqual(t, high.Headline, low.Headline)
}

func TestPresentError(t *testing.T) {
	v := PresentError(fmt.Errorf("%w: model offline", ErrScoring))
	assert.Equal(t, StateError, v.State)
	assert.Equal(t, ToneWarning, v.Tone)
	assert.Contains(t, v.Detail, "model offline")
	assert.Empty(t, v.Probability)

	assert.Equal(t, "prediction failed", PresentError(nil).Detail)
	assert.NotEqual(t, PresentError(errors.New("x")).Tone, Present(Result{Label: HighRisk}).Tone)
}

func TestAwaiting(t *testing.T) {
	v := Awaiting()
	assert.Equal(t, StateAwaiting, v.State)
	assert.Equal(t, AwaitingText, v.Headline)
}

func TestFormatProbability(t *testing.T) {
	assert.Equal(t, "0.00%", FormatProbability(0))
	assert.Equal(t, "100.00%", FormatProbability(1))
	assert.Equal(t, "12.34%", FormatProbability(0.1234))
}
