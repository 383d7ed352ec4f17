package domain

// CaptureState models the voice capture lifecycle.
type CaptureState string

const (
	CaptureStateIdle       CaptureState = "idle"
	CaptureStateRecording  CaptureState = "recording"
	CaptureStateFinalizing CaptureState = "finalizing"
)

// CaptureMode selects which frontend buffer receives live transcript text.
type CaptureMode string

const (
	CaptureModeMain      CaptureMode = "main"
	CaptureModeSecondary CaptureMode = "secondary"
)

// StateReason provides a structured reason for state transitions.
type StateReason string

const (
	ReasonReady                StateReason = "ready"
	ReasonEngineUnavailable    StateReason = "engine_unavailable"
	ReasonRecordingStarted     StateReason = "recording_started"
	ReasonOverDetected         StateReason = "over_detected"
	ReasonCaptureTimeout       StateReason = "capture_timeout"
	ReasonManualStop           StateReason = "manual_stop"
	ReasonNoContent            StateReason = "no_content"
	ReasonClassifying          StateReason = "classifying"
	ReasonClassificationFailed StateReason = "classification_failed"
	ReasonCountdownArmed       StateReason = "countdown_armed"
	ReasonCountdownCancelled   StateReason = "countdown_cancelled"
	ReasonCommitApplied        StateReason = "commit_applied"
	ReasonCommitFailed         StateReason = "commit_failed"
	ReasonLookupComplete       StateReason = "lookup_complete"
	ReasonLookupFailed         StateReason = "lookup_failed"
	ReasonNoSpeech             StateReason = "no_speech"
)

// ErrorCode identifies non-fatal and fatal backend errors.
type ErrorCode string

const (
	ErrorCodeStartup        ErrorCode = "startup"
	ErrorCodeCapability     ErrorCode = "capability"
	ErrorCodeCapture        ErrorCode = "capture"
	ErrorCodeClassification ErrorCode = "classification"
	ErrorCodeLookup         ErrorCode = "lookup"
	ErrorCodeCommit         ErrorCode = "commit"
	ErrorCodeRefresh        ErrorCode = "refresh"
	ErrorCodeEdit           ErrorCode = "edit"
)

// Target names the resource collection a classified utterance applies to.
type Target string

const (
	TargetInventory  Target = "INVENTORY"
	TargetHabit      Target = "HABIT"
	TargetSuggestion Target = "SUGGESTION"
)

// Item is one tracked inventory entry. Classifier output carries a sparse
// subset of these fields; Action is advisory metadata for the update
// endpoint and is never interpreted locally.
type Item struct {
	ID         string `json:"id,omitempty"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity,omitempty"`
	Unit       string `json:"unit,omitempty"`
	Category   string `json:"category,omitempty"`
	Location   string `json:"location,omitempty"`
	ExpireDate string `json:"expireDate,omitempty"`
	Status     string `json:"status,omitempty"`
	Action     string `json:"action,omitempty"`
}

// Habit is one recurring-habit entry. Habits are keyed by name.
type Habit struct {
	Name      string `json:"name"`
	Type      string `json:"type,omitempty"`
	Details   string `json:"details,omitempty"`
	Frequency string `json:"frequency,omitempty"`
	Comment   string `json:"comment,omitempty"`
}

// ParsedIntent is the classifier's structured interpretation of one
// finalized utterance. Exactly one of Items/Habits is populated, selected
// by Target. Immutable once produced.
type ParsedIntent struct {
	Target    Target  `json:"target"`
	Retrieval bool    `json:"retrieval"`
	Items     []Item  `json:"items,omitempty"`
	Habits    []Habit `json:"habits,omitempty"`
	Message   string  `json:"message,omitempty"`
}

// SearchViewKind distinguishes lookup results from commit result sets.
type SearchViewKind string

const (
	SearchViewLookup       SearchViewKind = "lookup"
	SearchViewCommitResult SearchViewKind = "commit_result"
)

// SearchView is the transient result overlay shown instead of the default
// collection view after a lookup or a commit.
type SearchView struct {
	Kind    SearchViewKind `json:"kind"`
	Items   []Item         `json:"items,omitempty"`
	Habits  []Habit        `json:"habits,omitempty"`
	Message string         `json:"message"`
}

// SearchResult is one per-query group returned by the inventory search
// endpoint.
type SearchResult struct {
	Query   string `json:"query"`
	Found   bool   `json:"found"`
	Matches []Item `json:"matches"`
}

// HabitSearchResult is one per-query group returned by the habit search
// endpoint.
type HabitSearchResult struct {
	Query   string  `json:"query"`
	Found   bool    `json:"found"`
	Matches []Habit `json:"matches"`
}

// ChangeEntry is one human-readable change reported by an update endpoint.
type ChangeEntry struct {
	Type       string `json:"type"`
	Name       string `json:"name"`
	Desc       string `json:"desc"`
	ExpireDate string `json:"expire_date,omitempty"`
}

// UpdateOutcome is the result of one update endpoint call. Items may be a
// partial result set for inventory; Habits is the full collection when the
// habit endpoint supplies it.
type UpdateOutcome struct {
	Changes []ChangeEntry `json:"changes,omitempty"`
	Items   []Item        `json:"items,omitempty"`
	Habits  []Habit       `json:"habits,omitempty"`
	Message string        `json:"message,omitempty"`
}

// RecognitionEventKind identifies one speech engine notification.
type RecognitionEventKind string

const (
	RecognitionStarted RecognitionEventKind = "started"
	RecognitionResult  RecognitionEventKind = "result"
	RecognitionEnded   RecognitionEventKind = "ended"
	RecognitionError   RecognitionEventKind = "error"
)

// RecognitionErrorNoSpeech is the engine error code treated as status-only.
const RecognitionErrorNoSpeech = "no-speech"

// RecognitionEvent is one notification from the speech engine. Result
// events carry the full concatenated hypothesis, not a delta.
type RecognitionEvent struct {
	Kind RecognitionEventKind `json:"kind"`
	Text string               `json:"text,omitempty"`
	Code string               `json:"code,omitempty"`
}

// MealSuggestion is one meal plan recommendation.
type MealSuggestion struct {
	Title       string `json:"title"`
	Rationale   string `json:"rationale"`
	Description string `json:"description"`
}

// MealPlan is the meal plan endpoint response.
type MealPlan struct {
	Suggestions []MealSuggestion `json:"suggestions"`
	Summary     string           `json:"summary"`
}

// Status summarizes the current session for the frontend.
type Status struct {
	State         CaptureState `json:"state"`
	Mode          CaptureMode  `json:"mode,omitempty"`
	Active        bool         `json:"active"`
	Transcript    string       `json:"transcript,omitempty"`
	PendingCommit bool         `json:"pendingCommit"`
	Countdown     int          `json:"countdown,omitempty"`
}
