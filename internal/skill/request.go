// Package skill maps inbound voice-platform requests to spoken responses.
//
// A Request is a closed set of variants. Handle matches it exhaustively; the
// Unrecognized variant carries anything the decoder could not classify.
package skill

// Request is one of Launch, Intent, AudioPlayerEvent, SessionEnded,
// PlatformError or Unrecognized.
type Request interface {
	kind() string
}

// Launch opens the skill without an intent.
type Launch struct{}

// Intent is a resolved user intent. Names are the platform's intent names.
type Intent struct {
	Name  string
	Slots map[string]string
}

// Intent names understood by the dispatcher.
const (
	IntentReadReport        = "ReadReport"
	IntentReadMorningReport = "ReadMorningReport"
	IntentPlayPodcast       = "PlayPodcast"
	IntentWhatIsNew         = "WhatIsNew"

	IntentHelp       = "AMAZON.HelpIntent"
	IntentStop       = "AMAZON.StopIntent"
	IntentCancel     = "AMAZON.CancelIntent"
	IntentPause      = "AMAZON.PauseIntent"
	IntentResume     = "AMAZON.ResumeIntent"
	IntentLoopOn     = "AMAZON.LoopOnIntent"
	IntentLoopOff    = "AMAZON.LoopOffIntent"
	IntentShuffleOn  = "AMAZON.ShuffleOnIntent"
	IntentShuffleOff = "AMAZON.ShuffleOffIntent"
	IntentNext       = "AMAZON.NextIntent"
	IntentPrevious   = "AMAZON.PreviousIntent"
	IntentRepeat     = "AMAZON.RepeatIntent"
	IntentStartOver  = "AMAZON.StartOverIntent"
)

// AudioEventKind is the audio player status change being reported.
type AudioEventKind uint8

const (
	PlaybackStarted AudioEventKind = iota + 1
	PlaybackFinished
	PlaybackStopped
	PlaybackNearlyFinished
	PlaybackFailed
)

func (k AudioEventKind) String() string {
	switch k {
	case PlaybackStarted:
		return "started"
	case PlaybackFinished:
		return "finished"
	case PlaybackStopped:
		return "stopped"
	case PlaybackNearlyFinished:
		return "nearly_finished"
	case PlaybackFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// AudioPlayerEvent reports a playback state change. ErrorType and
// ErrorMessage are only set for PlaybackFailed.
type AudioPlayerEvent struct {
	Kind               AudioEventKind
	Token              string
	OffsetMilliseconds int64
	ErrorType          string
	ErrorMessage       string
}

// SessionEnded is sent when the platform closes the session.
type SessionEnded struct {
	Reason string
}

// PlatformError reports that the platform rejected a previous response.
type PlatformError struct {
	Kind    string
	Message string
}

// BenignPlatformError is the error kind the platform reports for responses
// it merely did not expect; it is logged at warn rather than error.
const BenignPlatformError = "INVALID_RESPONSE"

// Unrecognized is any request shape the decoder could not classify.
type Unrecognized struct {
	Type string
}

func (Launch) kind() string           { return "launch" }
func (Intent) kind() string           { return "intent" }
func (AudioPlayerEvent) kind() string { return "audio" }
func (SessionEnded) kind() string     { return "session_ended" }
func (PlatformError) kind() string    { return "platform_error" }
func (Unrecognized) kind() string     { return "unrecognized" }
