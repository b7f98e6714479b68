package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bitbucket.org/sotavant/starwars-trivia-skill/internal/response"
	"bitbucket.org/sotavant/starwars-trivia-skill/internal/skill"
)

const planetRequest = `{
	"version": "1.0",
	"session": {
		"new": true,
		"sessionId": "amzn1.echo-api.session.1",
		"application": {"applicationId": "amzn1.ask.skill.starwars"},
		"user": {"userId": "amzn1.ask.account.1"}
	},
	"context": {"System": {"application": {"applicationId": "amzn1.ask.skill.starwars"}}},
	"request": {
		"type": "IntentRequest",
		"requestId": "amzn1.echo-api.request.1",
		"timestamp": "2026-10-17T10:00:00Z",
		"locale": "en-US",
		"intent": {
			"name": "PlanetIntent",
			"slots": {"character": {"name": "character", "value": "Yoda"}}
		}
	}
}`

func TestEnvelopes(t *testing.T) {
	var req Request
	require.NoError(t, json.Unmarshal([]byte(planetRequest), &req))

	envs, err := req.Envelopes()
	require.NoError(t, err)

	want := []skill.Envelope{
		{
			RequestID: "amzn1.echo-api.request.1",
			SessionID: "amzn1.echo-api.session.1",
			Kind:      skill.KindSessionStarted,
		},
		{
			RequestID:  "amzn1.echo-api.request.1",
			SessionID:  "amzn1.echo-api.session.1",
			Kind:       skill.KindIntent,
			IntentName: "PlanetIntent",
			Slots:      map[string]string{"character": "Yoda"},
		},
	}
	if diff := cmp.Diff(want, envs); diff != "" {
		t.Errorf("Envelopes() mismatch (-want +got):\n%s", diff)
	}
}

func TestEnvelopesKinds(t *testing.T) {
	testCases := []struct {
		name     string
		typ      string
		newSess  bool
		wantKind []skill.Kind
		wantErr  error
	}{
		{name: "launch_new_session", typ: TypeLaunchRequest, newSess: true, wantKind: []skill.Kind{skill.KindSessionStarted, skill.KindLaunch}},
		{name: "intent_existing_session", typ: TypeIntentRequest, wantKind: []skill.Kind{skill.KindIntent}},
		{name: "session_ended", typ: TypeSessionEndedRequest, newSess: true, wantKind: []skill.Kind{skill.KindSessionEnded}},
		{name: "unsupported", typ: "CanFulfillIntentRequest", wantErr: ErrUnsupportedRequestType},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := Request{
				Session: Session{New: tc.newSess},
				Request: RequestBody{Type: tc.typ},
			}

			envs, err := req.Envelopes()
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)

			kinds := make([]skill.Kind, 0, len(envs))
			for _, env := range envs {
				kinds = append(kinds, env.Kind)
			}
			assert.Equal(t, tc.wantKind, kinds)
		})
	}
}

func TestNewResponse(t *testing.T) {
	t.Run("tell", func(t *testing.T) {
		resp := response.Tell("Yoda is from Dagobah", "Star Wars Planet")
		b, err := json.Marshal(NewResponse(&resp))
		require.NoError(t, err)

		assert.JSONEq(t, `{
			"version": "1.0",
			"response": {
				"outputSpeech": {"type": "PlainText", "text": "Yoda is from Dagobah"},
				"card": {"type": "Simple", "title": "Star Wars Planet", "content": "Yoda is from Dagobah"},
				"shouldEndSession": true
			}
		}`, string(b))
	})

	t.Run("ask", func(t *testing.T) {
		resp := response.Ask("Star Wars", "Star Wars Help")
		b, err := json.Marshal(NewResponse(&resp))
		require.NoError(t, err)

		assert.JSONEq(t, `{
			"version": "1.0",
			"response": {
				"outputSpeech": {"type": "PlainText", "text": "Star Wars"},
				"card": {"type": "Simple", "title": "Star Wars Help", "content": "Star Wars"},
				"reprompt": {"outputSpeech": {"type": "PlainText", "text": "Star Wars"}},
				"shouldEndSession": false
			}
		}`, string(b))
	})

	t.Run("empty", func(t *testing.T) {
		b, err := json.Marshal(NewResponse(nil))
		require.NoError(t, err)
		assert.JSONEq(t, `{"version": "1.0", "response": {}}`, string(b))
	})
}

func TestNewIntentRequest(t *testing.T) {
	req := NewIntentRequest("amzn1.ask.skill.starwars", "QuotesIntent", map[string]string{"character": "Han Solo"})

	assert.Equal(t, "amzn1.ask.skill.starwars", req.ApplicationID())
	assert.True(t, req.Session.New)
	assert.NotEmpty(t, req.Request.RequestID)

	envs, err := req.Envelopes()
	require.NoError(t, err)
	require.Len(t, envs, 2)
	assert.Equal(t, "Han Solo", envs[1].Slots["character"])

	launch := NewLaunchRequest("")
	assert.Equal(t, TypeLaunchRequest, launch.Request.Type)
	assert.Nil(t, launch.Request.Intent)
}

func TestChecker(t *testing.T) {
	now := time.Date(2026, 10, 17, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	req := func(appID, ts string) Request {
		r := Request{Request: RequestBody{Timestamp: ts}}
		r.Session.Application.ApplicationID = appID
		return r
	}

	testCases := []struct {
		name    string
		checker Checker
		req     Request
		wantErr error
	}{
		{name: "disabled", checker: Checker{}, req: req("", "")},
		{name: "known_app", checker: Checker{ApplicationIDs: []string{"a", "b"}}, req: req("b", "")},
		{name: "unknown_app", checker: Checker{ApplicationIDs: []string{"a"}}, req: req("c", ""), wantErr: ErrApplicationID},
		{name: "fresh", checker: Checker{Tolerance: DefaultTimestampTolerance, Now: clock}, req: req("", "2026-10-17T09:58:00Z")},
		{name: "future_within_skew", checker: Checker{Tolerance: DefaultTimestampTolerance, Now: clock}, req: req("", "2026-10-17T10:02:00Z")},
		{name: "stale", checker: Checker{Tolerance: DefaultTimestampTolerance, Now: clock}, req: req("", "2026-10-17T09:50:00Z"), wantErr: ErrStaleRequest},
		{name: "malformed", checker: Checker{Tolerance: DefaultTimestampTolerance, Now: clock}, req: req("", "yesterday"), wantErr: ErrStaleRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.checker.Check(tc.req)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}
