package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"yashubustudio/claimrisk/claimrisk"
)

const (
	pagePredictor = "Predictor Tool"
	pageEDA       = "Exploratory Data Analysis"
	pageDocs      = "Project Documentation"
)

var pages = []string{pagePredictor, pageEDA, pageDocs}

type uiState struct {
	service *claimrisk.Service
	form    claimrisk.Form

	w       fyne.Window
	content *fyne.Container
	views   map[string]fyne.CanvasObject

	tenure     *widget.Entry
	vehicleAge *widget.Slider
	holderAge  *widget.Slider
	ageLabel   *widget.Label
	carLabel   *widget.Label
	cluster    *widget.Select
	fuel       *widget.RadioGroup
	predictBtn *widget.Button

	headline    *widget.Label
	probability *widget.Label
	detail      *widget.Label
	info        *widget.Label

	statusBind binding.String
	logBind    binding.String
}

func buildUI(w fyne.Window, svc *claimrisk.Service, logBind binding.String) *uiState {
	u := &uiState{
		service:    svc,
		form:       svc.Options(),
		w:          w,
		views:      make(map[string]fyne.CanvasObject),
		statusBind: binding.NewString(),
		logBind:    logBind,
	}
	_ = u.statusBind.Set("Ready")

	u.views[pagePredictor] = u.buildPredictor()
	u.views[pageEDA] = u.buildEDA()
	u.views[pageDocs] = u.buildDocs()
	u.content = container.NewStack(u.views[pagePredictor])

	nav := widget.NewRadioGroup(pages, func(page string) { u.showPage(page) })
	nav.Selected = pagePredictor
	nav.Required = true

	logView := widget.NewEntryWithData(u.logBind)
	logView.MultiLine = true
	logView.Wrapping = fyne.TextWrapWord
	logView.SetPlaceHolder("Log")
	logView.Disable()

	sidebar := container.NewVBox(
		widget.NewLabelWithStyle("Project Navigation", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		nav,
		widget.NewSeparator(),
		widget.NewLabelWithData(u.statusBind),
	)
	workArea := container.NewVSplit(container.NewVScroll(u.content), logView)
	workArea.Offset = 0.82
	split := container.NewHSplit(sidebar, workArea)
	split.Offset = 0.18

	u.w.SetContent(split)
	u.renderView(claimrisk.Awaiting())
	return u
}

func (u *uiState) showPage(page string) {
	view, ok := u.views[page]
	if !ok {
		return
	}
	u.content.Objects = []fyne.CanvasObject{view}
	u.content.Refresh()
}

func (u *uiState) buildPredictor() fyne.CanvasObject {
	sum := u.service.Summary()
	metrics := container.NewGridWithColumns(3,
		widget.NewCard("Dataset Size", sum.RowsText, nil),
		widget.NewCard("Historical Claim Rate", sum.RateText, nil),
		widget.NewCard("Model Used", sum.Model, nil),
	)

	f := u.form
	u.tenure = widget.NewEntry()
	u.tenure.SetText(strconv.FormatFloat(f.Tenure.Default, 'f', 2, 64))
	u.tenure.Validator = func(s string) error {
		if _, err := parseNumber(s); err != nil {
			return err
		}
		return nil
	}

	u.carLabel = widget.NewLabel("")
	u.vehicleAge = widget.NewSlider(f.VehicleAge.Min, f.VehicleAge.Max)
	u.vehicleAge.Step = f.VehicleAge.Step
	u.vehicleAge.OnChanged = func(v float64) { u.carLabel.SetText(fmt.Sprintf("%.2f", v)) }
	u.vehicleAge.SetValue(f.VehicleAge.Default)
	u.carLabel.SetText(fmt.Sprintf("%.2f", f.VehicleAge.Default))

	u.ageLabel = widget.NewLabel("")
	u.holderAge = widget.NewSlider(f.HolderAge.Min, f.HolderAge.Max)
	u.holderAge.Step = f.HolderAge.Step
	u.holderAge.OnChanged = func(v float64) { u.ageLabel.SetText(fmt.Sprintf("%.0f", v)) }
	u.holderAge.SetValue(f.HolderAge.Default)
	u.ageLabel.SetText(fmt.Sprintf("%.0f", f.HolderAge.Default))

	u.cluster = widget.NewSelect(f.AreaCluster.Options, nil)
	u.cluster.SetSelected(f.AreaCluster.Default)
	u.fuel = widget.NewRadioGroup(f.FuelType.Options, nil)
	u.fuel.Horizontal = true
	u.fuel.SetSelected(f.FuelType.Default)

	u.predictBtn = widget.NewButtonWithIcon("Run Prediction", theme.ConfirmIcon(), func() { u.onPredict() })

	inputs := &widget.Form{Items: []*widget.FormItem{
		widget.NewFormItem("Policy Tenure (Years)", u.tenure),
		widget.NewFormItem("Car Age", container.NewBorder(nil, nil, nil, u.carLabel, u.vehicleAge)),
		widget.NewFormItem("Policyholder Age", container.NewBorder(nil, nil, nil, u.ageLabel, u.holderAge)),
		widget.NewFormItem("Area Cluster", u.cluster),
		widget.NewFormItem("Fuel Type", u.fuel),
	}}
	left := container.NewVBox(
		widget.NewLabelWithStyle("Policy Parameters", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		inputs,
		u.predictBtn,
	)

	u.headline = widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	u.headline.Wrapping = fyne.TextWrapWord
	u.probability = widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true, Monospace: true})
	u.detail = widget.NewLabel("")
	u.detail.Wrapping = fyne.TextWrapWord
	u.info = widget.NewLabel("")
	u.info.Wrapping = fyne.TextWrapWord
	u.info.Importance = widget.LowImportance
	right := container.NewVBox(
		widget.NewLabelWithStyle("Prediction Results", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		u.headline,
		u.probability,
		u.detail,
		u.info,
	)

	body := container.NewGridWithColumns(2, left, right)
	return container.NewVBox(
		widget.NewLabelWithStyle("Insurance Claim Risk Assessment", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabel("Interactive ML interface for policy holders"),
		metrics,
		widget.NewSeparator(),
		body,
	)
}

// submission reads the widgets. An unparsable tenure is left nil so the form
// rejects the whole submission.
func (u *uiState) submission() claimrisk.Submission {
	var sub claimrisk.Submission
	if v, err := parseNumber(u.tenure.Text); err == nil {
		sub.Tenure = &v
	}
	car := u.vehicleAge.Value
	sub.VehicleAge = &car
	age := u.holderAge.Value
	sub.HolderAge = &age
	if u.cluster.Selected != "" {
		cluster := u.cluster.Selected
		sub.AreaCluster = &cluster
	}
	if u.fuel.Selected != "" {
		fuel := u.fuel.Selected
		sub.FuelType = &fuel
	}
	return sub
}

func (u *uiState) onPredict() {
	sub := u.submission()
	u.setBusy(true)
	_ = u.statusBind.Set("Scoring...")

	go func() {
		res, err := u.service.Predict(context.Background(), sub)
		u.setBusy(false)
		if err != nil {
			if errors.Is(err, claimrisk.ErrInvalidSubmission) {
				fyne.Do(func() { dialog.ShowError(err, u.w) })
				_ = u.statusBind.Set("Check the parameters")
				return
			}
			fyne.Do(func() { u.renderView(claimrisk.PresentError(err)) })
			_ = u.statusBind.Set("Prediction failed")
			return
		}
		fyne.Do(func() { u.renderView(claimrisk.Present(res)) })
		_ = u.statusBind.Set(fmt.Sprintf("%s (%s)", res.Label, res.Elapsed.Round(time.Microsecond)))
	}()
}

func (u *uiState) renderView(v claimrisk.View) {
	u.headline.SetText(v.Headline)
	u.headline.Importance = importanceFor(v.Tone)
	u.headline.Refresh()
	if v.Probability != "" {
		u.probability.SetText("Probability: " + v.Probability)
	} else {
		u.probability.SetText("")
	}
	u.detail.SetText(v.Detail)
	u.info.SetText(v.Info)
}

func (u *uiState) setBusy(b bool) {
	fyne.Do(func() {
		if b {
			u.predictBtn.Disable()
		} else {
			u.predictBtn.Enable()
		}
	})
}

func importanceFor(t claimrisk.Tone) widget.Importance {
	switch t {
	case claimrisk.ToneDanger:
		return widget.DangerImportance
	case claimrisk.ToneSuccess:
		return widget.SuccessImportance
	case claimrisk.ToneWarning:
		return widget.WarningImportance
	default:
		return widget.MediumImportance
	}
}

func parseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	return v, nil
}
