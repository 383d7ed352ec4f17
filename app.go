package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"homevoice/internal/bootstrap"
	"homevoice/internal/config"
	"homevoice/internal/domain"
	"homevoice/internal/usecase"
)

const (
	eventSession   = "homevoice:session"
	eventPartial   = "homevoice:partial"
	eventVerdict   = "homevoice:verdict"
	eventCountdown = "homevoice:countdown"
	eventSearch    = "homevoice:search"
	eventInventory = "homevoice:inventory"
	eventHabits    = "homevoice:habits"
	eventError     = "homevoice:error"
)

// App is the Wails application root.
type App struct {
	ctx context.Context

	coordinator      *usecase.Coordinator
	assistant        mealPlanner
	cfg              config.Config
	captureAvailable bool
	bootErr          error
}

type mealPlanner interface {
	Suggest(ctx context.Context) (domain.MealPlan, error)
}

func NewApp() *App {
	return &App{}
}

func (a *App) startup(ctx context.Context) {
	a.ctx = ctx

	services, err := bootstrap.Build(a)
	if err != nil {
		a.bootErr = err
		a.SessionError(domain.ErrorCodeStartup, err.Error())
		return
	}

	a.cfg = services.Config
	a.coordinator = services.Coordinator
	a.assistant = services.Assistant
	a.captureAvailable = services.CaptureAvailable

	if !a.captureAvailable {
		a.SessionError(domain.ErrorCodeCapability, "no speech gateway configured; voice input disabled")
	}
	a.StateChanged(domain.CaptureStateIdle, domain.ReasonReady)

	go func() {
		if err := a.coordinator.RefreshInventory(a.ctx); err != nil {
			a.SessionError(domain.ErrorCodeRefresh, err.Error())
		}
	}()
}

// StartCapture begins a voice capture session in the given mode.
func (a *App) StartCapture(mode string) (domain.Status, error) {
	if err := a.requireReady(); err != nil {
		return domain.Status{}, err
	}
	captureMode := domain.CaptureMode(mode)
	if captureMode != domain.CaptureModeSecondary {
		captureMode = domain.CaptureModeMain
	}
	if err := a.coordinator.BeginCapture(a.ctx, captureMode); err != nil {
		return domain.Status{}, err
	}
	return a.coordinator.Status(), nil
}

// StopCapture manually ends the active capture session.
func (a *App) StopCapture() error {
	if err := a.requireReady(); err != nil {
		return err
	}
	if err := a.coordinator.EndCapture(domain.ReasonManualStop); err != nil {
		if errors.Is(err, usecase.ErrNoActiveCapture) {
			return nil
		}
		return err
	}
	return nil
}

// SubmitText sends typed text down the classification path.
func (a *App) SubmitText(text string) error {
	if err := a.requireReady(); err != nil {
		return err
	}
	return a.coordinator.SubmitText(text)
}

// CancelAutoCommit cancels the pending auto-commit countdown.
func (a *App) CancelAutoCommit() error {
	if err := a.requireReady(); err != nil {
		return err
	}
	a.coordinator.CancelPendingCommit()
	return nil
}

// ReturnToDefault dismisses the search overlay.
func (a *App) ReturnToDefault() error {
	if err := a.requireReady(); err != nil {
		return err
	}
	a.coordinator.ReturnToDefaultView()
	return nil
}

// GetStatus returns the current session status.
func (a *App) GetStatus() domain.Status {
	if a.coordinator == nil {
		return domain.Status{State: domain.CaptureStateIdle}
	}
	return a.coordinator.Status()
}

// GetInventory returns the inventory mirror.
func (a *App) GetInventory() []domain.Item {
	if a.coordinator == nil {
		return nil
	}
	return a.coordinator.Inventory()
}

// OpenHabits loads the habit mirror for the secondary view.
func (a *App) OpenHabits() ([]domain.Habit, error) {
	if err := a.requireReady(); err != nil {
		return nil, err
	}
	if err := a.coordinator.RefreshHabits(a.ctx); err != nil {
		a.SessionError(domain.ErrorCodeRefresh, err.Error())
		return nil, err
	}
	return a.coordinator.Habits(), nil
}

// GetSearchView returns the transient result overlay, nil for default view.
func (a *App) GetSearchView() *domain.SearchView {
	if a.coordinator == nil {
		return nil
	}
	return a.coordinator.SearchView()
}

// GetLastIntent returns the most recent classification verdict.
func (a *App) GetLastIntent() *domain.ParsedIntent {
	if a.coordinator == nil {
		return nil
	}
	return a.coordinator.LastIntent()
}

// DeleteInventoryItem removes one item and refreshes the mirror.
func (a *App) DeleteInventoryItem(id string) (string, error) {
	if err := a.requireReady(); err != nil {
		return "", err
	}
	message, err := a.coordinator.DeleteInventoryItem(a.ctx, id)
	if err != nil {
		a.SessionError(domain.ErrorCodeEdit, err.Error())
		return "", err
	}
	return message, nil
}

// EditInventoryItem updates one item and refreshes the mirror.
func (a *App) EditInventoryItem(item domain.Item) (domain.Item, error) {
	if err := a.requireReady(); err != nil {
		return domain.Item{}, err
	}
	updated, err := a.coordinator.EditInventoryItem(a.ctx, item)
	if err != nil {
		a.SessionError(domain.ErrorCodeEdit, err.Error())
		return domain.Item{}, err
	}
	return updated, nil
}

// DeleteHabit removes one habit by name and refreshes the mirror.
func (a *App) DeleteHabit(name string) (string, error) {
	if err := a.requireReady(); err != nil {
		return "", err
	}
	message, err := a.coordinator.DeleteHabit(a.ctx, name)
	if err != nil {
		a.SessionError(domain.ErrorCodeEdit, err.Error())
		return "", err
	}
	return message, nil
}

// EditHabit updates one habit and refreshes the mirror.
func (a *App) EditHabit(habit domain.Habit) (domain.Habit, error) {
	if err := a.requireReady(); err != nil {
		return domain.Habit{}, err
	}
	updated, err := a.coordinator.EditHabit(a.ctx, habit)
	if err != nil {
		a.SessionError(domain.ErrorCodeEdit, err.Error())
		return domain.Habit{}, err
	}
	return updated, nil
}

// GetMealPlan fetches meal suggestions for the current inventory.
func (a *App) GetMealPlan() (domain.MealPlan, error) {
	if err := a.requireReady(); err != nil {
		return domain.MealPlan{}, err
	}
	return a.assistant.Suggest(a.ctx)
}

// SetLanguage switches the recognition language for future sessions.
func (a *App) SetLanguage(language string) error {
	if err := a.requireReady(); err != nil {
		return err
	}
	a.coordinator.SetLanguage(language)
	return nil
}

// GetRuntimeInfo returns non-sensitive config for the UI.
func (a *App) GetRuntimeInfo() map[string]string {
	if a.bootErr != nil {
		return map[string]string{"error": a.bootErr.Error()}
	}
	language := a.cfg.Speech.Language
	if a.coordinator != nil {
		language = a.coordinator.Language()
	}
	return map[string]string{
		"apiBase":          a.cfg.Assistant.BaseURL,
		"language":         language,
		"captureAvailable": fmt.Sprintf("%t", a.captureAvailable),
		"commitDelay":      fmt.Sprintf("%ds", a.cfg.Session.CountdownSeconds),
	}
}

func (a *App) requireReady() error {
	if a.bootErr != nil {
		return a.bootErr
	}
	if a.coordinator == nil {
		return fmt.Errorf("application is not initialized")
	}
	return nil
}

// StateChanged emits session lifecycle updates to the frontend.
func (a *App) StateChanged(state domain.CaptureState, reason domain.StateReason) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventSession, map[string]string{
		"state":   string(state),
		"reason":  string(reason),
		"message": stateReasonMessage(reason),
	})
}

// PartialTranscript emits live transcript text to the target buffer.
func (a *App) PartialTranscript(mode domain.CaptureMode, text string) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventPartial, map[string]string{
		"mode": string(mode),
		"text": text,
	})
}

// VerdictReceived emits the classification verdict.
func (a *App) VerdictReceived(intent domain.ParsedIntent) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventVerdict, intent)
}

// CountdownTick emits remaining auto-commit seconds.
func (a *App) CountdownTick(remaining int) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventCountdown, map[string]int{"remaining": remaining})
}

// SearchViewChanged emits the result overlay; nil restores the default view.
func (a *App) SearchViewChanged(view *domain.SearchView) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventSearch, view)
}

// InventoryChanged emits the refreshed inventory mirror.
func (a *App) InventoryChanged(items []domain.Item) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventInventory, items)
}

// HabitsChanged emits the refreshed habit mirror.
func (a *App) HabitsChanged(habits []domain.Habit) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventHabits, habits)
}

// SessionError emits backend errors to the UI.
func (a *App) SessionError(code domain.ErrorCode, detail string) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventError, map[string]string{
		"code":    string(code),
		"message": errorMessage(code, detail),
		"detail":  detail,
	})
}

func stateReasonMessage(reason domain.StateReason) string {
	switch reason {
	case domain.ReasonReady:
		return "Ready"
	case domain.ReasonEngineUnavailable:
		return "Voice input unavailable"
	case domain.ReasonRecordingStarted:
		return "Recording... (auto-stops after 30s)"
	case domain.ReasonOverDetected:
		return "Stopped ('over' detected)"
	case domain.ReasonCaptureTimeout:
		return "Stopped (timeout)"
	case domain.ReasonManualStop:
		return "Stopped (manual)"
	case domain.ReasonNoContent:
		return "Capture ended (no content)"
	case domain.ReasonClassifying:
		return "Interpreting..."
	case domain.ReasonClassificationFailed:
		return "Interpretation failed; text kept for editing"
	case domain.ReasonCountdownArmed:
		return "Auto-update pending"
	case domain.ReasonCountdownCancelled:
		return "Cancelled; editable now"
	case domain.ReasonCommitApplied:
		return "Update applied"
	case domain.ReasonCommitFailed:
		return "Update failed"
	case domain.ReasonLookupComplete:
		return "Search complete"
	case domain.ReasonLookupFailed:
		return "Search failed"
	case domain.ReasonNoSpeech:
		return "No speech detected"
	default:
		return ""
	}
}

func errorMessage(code domain.ErrorCode, detail string) string {
	switch code {
	case domain.ErrorCodeStartup:
		return "Startup failed"
	case domain.ErrorCodeCapability:
		return "Speech recognition unavailable"
	case domain.ErrorCodeCapture:
		return "Capture error"
	case domain.ErrorCodeClassification:
		return "Interpretation failed"
	case domain.ErrorCodeLookup:
		return "Search failed"
	case domain.ErrorCodeCommit:
		return "Update failed"
	case domain.ErrorCodeRefresh:
		return "Refresh failed"
	case domain.ErrorCodeEdit:
		return "Edit failed"
	default:
		if detail == "" {
			return "Unknown error"
		}
		return detail
	}
}
