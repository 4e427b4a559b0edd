// Package twiml renders the voice-markup responses for each dialogue step.
// The documents are opaque to the call-flow core: the orchestrator decides
// which prompt to render and this package says what Twilio should speak,
// collect and redirect to next.
package twiml

import (
	"github.com/twilio/twilio-go/twiml"
)

const voiceName = "Polly.Joanna"

// Route paths the rendered documents point Twilio at. They must match the
// routes registered by the HTTP adapter.
const (
	RouteWelcome        = "/ivr/welcome"
	RouteCollectName    = "/ivr/collect-name"
	RouteCollectStreet  = "/ivr/collect-street"
	RouteCollectCity    = "/ivr/collect-city"
	RouteCollectState   = "/ivr/collect-state"
	RouteCollectZipCode = "/ivr/collect-zipcode"
	RouteVerifyIdentity = "/ivr/verify-identity"
)

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

func say(message string) *twiml.VoiceSay {
	return &twiml.VoiceSay{Message: message, Voice: voiceName}
}

// WelcomeMessage greets the caller and gathers the confirmation input.
// If the gather times out, the fallback redirect restarts the welcome step
// so silence never leaves the call hanging.
func (r *Renderer) WelcomeMessage() (string, error) {
	gather := &twiml.VoiceGather{
		Input:     "dtmf speech",
		Timeout:   "6",
		NumDigits: "1",
		Action:    RouteCollectName,
		Hints:     "yes, ready, start",
		InnerElements: []twiml.Element{
			say("Press 1 or say ready when you're ready to begin."),
		},
	}
	return twiml.Voice([]twiml.Element{
		say("Welcome to the Repair Claim Assistant. I can help you check the status of your repair claim."),
		gather,
		say("I didn't receive your response. Please try again."),
		&twiml.VoiceRedirect{Url: RouteWelcome},
	})
}

// CollectName asks for the caller's full name.
func (r *Renderer) CollectName() (string, error) {
	gather := &twiml.VoiceGather{
		Input:   "speech",
		Timeout: "7",
		Action:  RouteCollectStreet,
		Hints:   "my name is",
		InnerElements: []twiml.Element{
			say("Please say your full name exactly as it appears on your claim."),
		},
	}
	return twiml.Voice([]twiml.Element{gather})
}

// CollectStreet asks for the caller's street address.
func (r *Renderer) CollectStreet() (string, error) {
	gather := &twiml.VoiceGather{
		Input:   "speech",
		Timeout: "8",
		Action:  RouteCollectCity,
		Hints:   "my address is",
		InnerElements: []twiml.Element{
			say("Please say your street address as it appears on your claim."),
		},
	}
	return twiml.Voice([]twiml.Element{gather})
}

// CollectCity asks for the caller's city, re-prompting on silence.
func (r *Renderer) CollectCity() (string, error) {
	gather := &twiml.VoiceGather{
		Input:   "speech",
		Timeout: "7",
		Action:  RouteCollectState,
		InnerElements: []twiml.Element{
			say("Please say the name of your city."),
		},
	}
	return twiml.Voice([]twiml.Element{
		gather,
		say("I didn't hear your city. Please try again."),
		&twiml.VoiceRedirect{Url: RouteCollectCity},
	})
}

// CollectState asks for the caller's state, re-prompting on silence.
func (r *Renderer) CollectState() (string, error) {
	gather := &twiml.VoiceGather{
		Input:   "speech",
		Timeout: "7",
		Action:  RouteCollectZipCode,
		InnerElements: []twiml.Element{
			say("Please say the name of your state."),
		},
	}
	return twiml.Voice([]twiml.Element{
		gather,
		say("I didn't hear your state. Please try again."),
		&twiml.VoiceRedirect{Url: RouteCollectState},
	})
}

// CollectZipCode asks for the 5-digit ZIP on the keypad, re-prompting on
// silence.
func (r *Renderer) CollectZipCode() (string, error) {
	gather := &twiml.VoiceGather{
		Input:     "dtmf",
		Timeout:   "10",
		NumDigits: "5",
		Action:    RouteVerifyIdentity,
		InnerElements: []twiml.Element{
			say("Finally, please enter your 5-digit ZIP code using your keypad."),
		},
	}
	return twiml.Voice([]twiml.Element{
		gather,
		say("I didn't receive your ZIP code. Please try again."),
		&twiml.VoiceRedirect{Url: RouteCollectZipCode},
	})
}

// ClaimStatus speaks the formatted status message and ends the call.
func (r *Renderer) ClaimStatus(statusMessage string) (string, error) {
	return twiml.Voice([]twiml.Element{
		say(statusMessage),
		say("Thank you for using the Repair Claim Assistant. Goodbye!"),
		&twiml.VoiceHangup{},
	})
}

// ErrorResponse speaks a terminal error message and ends the call.
func (r *Renderer) ErrorResponse(errorMessage string) (string, error) {
	return twiml.Voice([]twiml.Element{
		say(errorMessage),
		say("Please try again later or contact customer service for assistance. Goodbye."),
		&twiml.VoiceHangup{},
	})
}

// InvalidInput speaks a short correction and redirects to the given step.
func (r *Renderer) InvalidInput(message string, redirectURL string) (string, error) {
	return twiml.Voice([]twiml.Element{
		say(message),
		&twiml.VoiceRedirect{Url: redirectURL},
	})
}
