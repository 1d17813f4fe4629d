// Package envelope converts the platform's JSON request and response
// envelopes to and from the skill package's types.
package envelope

import (
	"encoding/json"

	"github.com/example/morning-report/internal/records"
	"github.com/example/morning-report/internal/skill"
)

// Request type names as sent by the platform.
const (
	TypeLaunch          = "LaunchRequest"
	TypeIntent          = "IntentRequest"
	TypeSessionEnded    = "SessionEndedRequest"
	TypeSystemException = "System.ExceptionEncountered"

	TypePlaybackStarted        = "AudioPlayer.PlaybackStarted"
	TypePlaybackFinished       = "AudioPlayer.PlaybackFinished"
	TypePlaybackStopped        = "AudioPlayer.PlaybackStopped"
	TypePlaybackNearlyFinished = "AudioPlayer.PlaybackNearlyFinished"
	TypePlaybackFailed         = "AudioPlayer.PlaybackFailed"
)

var audioKinds = map[string]skill.AudioEventKind{
	TypePlaybackStarted:        skill.PlaybackStarted,
	TypePlaybackFinished:       skill.PlaybackFinished,
	TypePlaybackStopped:        skill.PlaybackStopped,
	TypePlaybackNearlyFinished: skill.PlaybackNearlyFinished,
	TypePlaybackFailed:         skill.PlaybackFailed,
}

type user struct {
	UserID string `json:"userId"`
}

type requestEnvelope struct {
	Version string `json:"version"`
	Session *struct {
		User user `json:"user"`
	} `json:"session"`
	Context struct {
		System struct {
			User user `json:"user"`
		} `json:"System"`
	} `json:"context"`
	Request rawRequest `json:"request"`
}

type platformError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type rawRequest struct {
	Type   string `json:"type"`
	Intent *struct {
		Name  string `json:"name"`
		Slots map[string]struct {
			Name  string `json:"name"`
			Value string `json:"value"`
		} `json:"slots"`
	} `json:"intent"`
	Token  string          `json:"token"`
	Offset json.RawMessage `json:"offsetInMilliseconds"`
	Reason string          `json:"reason"`
	Error  *platformError  `json:"error"`
}

// Decode parses a request envelope. It always returns a usable Request: a
// body that is not valid JSON yields skill.Unrecognized together with the
// parse error, so the caller can log it and still answer.
func Decode(body []byte) (userID string, req skill.Request, err error) {
	var env requestEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return "", skill.Unrecognized{}, err
	}

	userID = env.Context.System.User.UserID
	if userID == "" && env.Session != nil {
		userID = env.Session.User.UserID
	}
	return userID, classify(env.Request), nil
}

func classify(r rawRequest) skill.Request {
	switch r.Type {
	case TypeLaunch:
		return skill.Launch{}
	case TypeIntent:
		if r.Intent == nil || r.Intent.Name == "" {
			return skill.Unrecognized{Type: r.Type}
		}
		in := skill.Intent{Name: r.Intent.Name}
		if len(r.Intent.Slots) > 0 {
			in.Slots = make(map[string]string, len(r.Intent.Slots))
			for name, slot := range r.Intent.Slots {
				in.Slots[name] = slot.Value
			}
		}
		return in
	case TypeSessionEnded:
		return skill.SessionEnded{Reason: r.Reason}
	case TypeSystemException:
		pe := skill.PlatformError{}
		if r.Error != nil {
			pe.Kind, pe.Message = r.Error.Type, r.Error.Message
		}
		return pe
	}
	if kind, ok := audioKinds[r.Type]; ok {
		ev := skill.AudioPlayerEvent{
			Kind:               kind,
			Token:              r.Token,
			OffsetMilliseconds: records.ParseOffset(string(r.Offset)),
		}
		if r.Error != nil {
			ev.ErrorType, ev.ErrorMessage = r.Error.Type, r.Error.Message
		}
		return ev
	}
	return skill.Unrecognized{Type: r.Type}
}
