package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"bitbucket.org/sotavant/starwars-trivia-skill/internal/response"
	"bitbucket.org/sotavant/starwars-trivia-skill/internal/skill"
)

// ErrUnsupportedRequestType is returned for request types the skill ignores.
var ErrUnsupportedRequestType = errors.New("unsupported request type")

// ApplicationID returns the skill id the request was sent to.
func (r Request) ApplicationID() string {
	if id := r.Context.System.Application.ApplicationID; id != "" {
		return id
	}
	return r.Session.Application.ApplicationID
}

// Envelopes converts the request into the envelopes the router handles. A
// request opening a new session is preceded by a session-started envelope.
func (r Request) Envelopes() ([]skill.Envelope, error) {
	env := skill.Envelope{
		RequestID: r.Request.RequestID,
		SessionID: r.Session.SessionID,
	}

	switch r.Request.Type {
	case TypeLaunchRequest:
		env.Kind = skill.KindLaunch
	case TypeIntentRequest:
		env.Kind = skill.KindIntent
		if r.Request.Intent != nil {
			env.IntentName = r.Request.Intent.Name
			env.Slots = make(map[string]string, len(r.Request.Intent.Slots))
			for name, slot := range r.Request.Intent.Slots {
				if slot.Name != "" {
					name = slot.Name
				}
				env.Slots[name] = slot.Value
			}
		}
	case TypeSessionEndedRequest:
		env.Kind = skill.KindSessionEnded
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedRequestType, r.Request.Type)
	}

	if !r.Session.New || env.Kind == skill.KindSessionEnded {
		return []skill.Envelope{env}, nil
	}

	started := skill.Envelope{
		RequestID: env.RequestID,
		SessionID: env.SessionID,
		Kind:      skill.KindSessionStarted,
	}
	return []skill.Envelope{started, env}, nil
}

// NewResponse encodes resp for the platform. A nil resp yields an empty payload.
func NewResponse(resp *response.Response) Response {
	out := Response{Version: Version}
	if resp == nil {
		return out
	}

	endSession := resp.EndsSession
	out.Response = ResponsePayload{
		OutputSpeech: &OutputSpeech{Type: SpeechPlainText, Text: resp.SpeechText},
		Card: &Card{
			Type:    CardSimple,
			Title:   resp.CardTitle,
			Content: resp.CardBody,
		},
		ShouldEndSession: &endSession,
	}
	if resp.RepromptText != nil {
		out.Response.Reprompt = &Reprompt{
			OutputSpeech: OutputSpeech{Type: SpeechPlainText, Text: *resp.RepromptText},
		}
	}
	return out
}

// NewLaunchRequest builds a launch request opening a new session.
func NewLaunchRequest(applicationID string) Request {
	return newRequest(applicationID, TypeLaunchRequest, nil)
}

// NewIntentRequest builds an intent request with the given slot values.
func NewIntentRequest(applicationID, intent string, slots map[string]string) Request {
	in := &Intent{Name: intent, Slots: make(map[string]Slot, len(slots))}
	for name, value := range slots {
		in.Slots[name] = Slot{Name: name, Value: value}
	}
	return newRequest(applicationID, TypeIntentRequest, in)
}

func newRequest(applicationID, typ string, intent *Intent) Request {
	app := Application{ApplicationID: applicationID}
	return Request{
		Version: Version,
		Session: Session{
			New:         true,
			SessionID:   "amzn1.echo-api.session." + uuid.NewString(),
			Application: app,
			User:        User{UserID: "amzn1.ask.account.skillctl"},
		},
		Context: Context{System: System{Application: app}},
		Request: RequestBody{
			Type:      typ,
			RequestID: "amzn1.echo-api.request." + uuid.NewString(),
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Locale:    "en-US",
			Intent:    intent,
		},
	}
}
