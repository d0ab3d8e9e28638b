// Package app is the desktop front end of the claim risk predictor.
package app

import (
	"context"
	"fmt"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"yashubustudio/claimrisk/claimrisk"
	"yashubustudio/claimrisk/internal/logging"
)

const fyneAppID = "yashubustudio.claimrisk"

// Run loads the artifacts described by the config file and starts the desktop UI.
// Startup failures are shown in a fatal error window and returned.
func Run(configPath string) error {
	a := fyneapp.NewWithID(fyneAppID)
	win := a.NewWindow("Insurance Claim Risk Assessment")
	win.Resize(fyne.NewSize(1180, 780))

	cfg, err := claimrisk.LoadConfig(configPath)
	if err != nil {
		err = fmt.Errorf("load config: %w", err)
		showFatalError(win, err)
		return err
	}

	logBind := binding.NewString()
	capture := newLogCapture(logBind, 300)
	logger, closeLog, err := logging.New(logging.Options{File: cfg.Log.File, JSON: cfg.Log.JSON, Extra: capture, Async: true})
	if err != nil {
		showFatalError(win, err)
		return err
	}
	defer closeLog()

	svc, err := claimrisk.OpenService(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("Startup failed", "error", err)
		err = fmt.Errorf("load model and dataset: %w", err)
		showFatalError(win, err)
		return err
	}
	defer svc.Close()

	u := buildUI(win, svc, logBind)
	u.w.ShowAndRun()
	return nil
}

func showFatalError(win fyne.Window, err error) {
	content := widget.NewLabel(err.Error())
	content.Wrapping = fyne.TextWrapWord
	win.SetContent(content)
	dialog.ShowError(err, win)
	win.ShowAndRun()
}
