package claimrisk

import "fmt"

// ViewState is the state of the result panel.
type ViewState string

const (
	// StateAwaiting is shown until the first submit.
	StateAwaiting ViewState = "AWAITING_INPUT"
	// StateResult shows a verdict and its probability.
	StateResult ViewState = "RESULT_SHOWN"
	// StateError shows why the last submit could not be scored.
	StateError ViewState = "ERROR"
)

// Tone selects the visual emphasis of a view.
type Tone string

const (
	// ToneNeutral carries no emphasis.
	ToneNeutral Tone = "neutral"
	// ToneDanger marks a high risk verdict.
	ToneDanger Tone = "danger"
	// ToneSuccess marks a low risk verdict.
	ToneSuccess Tone = "success"
	// ToneWarning marks a failed prediction.
	ToneWarning Tone = "warning"
)

// AwaitingText is shown before the first submit.
const AwaitingText = "Adjust the policy parameters and run the prediction."

// InfoText explains how the score is produced.
const InfoText = "Only the five parameters vary; engine, safety and every other feature come from a fixed template policy."

// View is the renderable outcome of a submit.
type View struct {
	State       ViewState `json:"state"`
	Headline    string    `json:"headline"`
	Label       RiskLabel `json:"label,omitempty"`
	Probability string    `json:"probability,omitempty"`
	Detail      string    `json:"detail,omitempty"`
	Info        string    `json:"info,omitempty"`
	Tone        Tone      `json:"tone"`
}

// Awaiting returns the initial view.
func Awaiting() View {
	return View{State: StateAwaiting, Headline: AwaitingText, Tone: ToneNeutral}
}

// Present renders a successful result.
func Present(r Result) View {
	v := View{
		State:       StateResult,
		Label:       r.Label,
		Probability: FormatProbability(r.Probability),
		Info:        InfoText,
	}
	if r.Label == HighRisk {
		v.Headline = "HIGH RISK PROFILE"
		v.Detail = "The model predicts a claim is likely. Probability: " + v.Probability
		v.Tone = ToneDanger
	} else {
		v.Headline = "LOW RISK PROFILE"
		v.Detail = "The model predicts no claim. Probability: " + v.Probability
		v.Tone = ToneSuccess
	}
	return v
}

// PresentError renders a scoring failure.
func PresentError(err error) View {
	msg := "prediction failed"
	if err != nil {
		msg = err.Error()
	}
	return View{
		State:    StateError,
		Headline: "Prediction failed",
		Detail:   msg,
		Tone:     ToneWarning,
	}
}

// FormatProbability renders p as a percentage with two decimals.
func FormatProbability(p float64) string {
	return fmt.Sprintf("%.2f%%", p*100)
}
