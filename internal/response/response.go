// Package response builds the spoken and visual answer returned for a request.
package response

// Response is a platform-neutral answer: what to say, what to show on the card
// and whether the session stays open.
type Response struct {
	SpeechText   string
	CardTitle    string
	CardBody     string
	RepromptText *string
	EndsSession  bool
}

// Build constructs a response whose card mirrors the spoken text. With
// withReprompt the same text is used as the reprompt and the session stays open.
func Build(speechText, title string, withReprompt bool) Response {
	resp := Response{
		SpeechText:  speechText,
		CardTitle:   title,
		CardBody:    speechText,
		EndsSession: true,
	}

	if withReprompt {
		reprompt := speechText
		resp.RepromptText = &reprompt
		resp.EndsSession = false
	}

	return resp
}

// Tell builds a response that ends the session.
func Tell(speechText, title string) Response {
	return Build(speechText, title, false)
}

// Ask builds a response that keeps the session open and reprompts with the same text.
func Ask(speechText, title string) Response {
	return Build(speechText, title, true)
}

// HasReprompt reports whether the platform should replay a reprompt.
func (r Response) HasReprompt() bool {
	return r.RepromptText != nil
}
