package app

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ivrclaimassist/golang_services/internal/ivr_service/domain"
	"github.com/ivrclaimassist/golang_services/internal/platform/messagebroker"
)

// PromptKind identifies the rendered response a step decision asks for.
type PromptKind int

const (
	PromptWelcome PromptKind = iota
	PromptInvalidInput
	PromptCollectName
	PromptCollectStreet
	PromptCollectCity
	PromptCollectState
	PromptCollectZipCode
	PromptStatus
	PromptError
)

// Decision is the orchestrator's answer for one step: which prompt to
// render next and, for terminal or invalid-input prompts, what to say.
type Decision struct {
	Prompt  PromptKind
	Message string
}

// StepInput carries the webhook parameters for one dialogue step. Digits
// and SpeechResult are mutually exclusive per step.
type StepInput struct {
	CallSID      string
	From         string
	Digits       string
	SpeechResult string
}

// Caller-facing messages. The orchestrator is the only place internal
// failures are translated, so a raw fault can never reach the caller.
const (
	msgInvalidWelcomeInput = "Sorry, I didn't understand your response."
	msgMissingInformation  = "Some required information is missing. Please start over."
	msgVerificationFailed  = "We couldn't verify your identity. Please check your information and try again, or contact customer service for assistance."
	msgTechnicalDifficulty = "We're experiencing technical difficulties. Please try again later or contact customer service for assistance."
)

// Speech tokens accepted as confirmation at the welcome step, matching
// what the welcome prompt advertises.
var welcomeConfirmations = map[string]struct{}{
	"ready": {},
	"yes":   {},
	"start": {},
}

// CallFlowService sequences the dialogue steps. Each step reads the
// session snapshot, applies validation and normalization, writes updated
// state and decides the next prompt. Decisions are pure functions of
// (step, input, session snapshot), so re-delivered webhooks converge on
// the same decision.
type CallFlowService struct {
	sessions domain.SessionStore
	verifier *VerificationService
	claims   *ClaimService
	events   messagebroker.Publisher // optional; nil disables step events
	logger   *slog.Logger
}

func NewCallFlowService(
	sessions domain.SessionStore,
	verifier *VerificationService,
	claims *ClaimService,
	events messagebroker.Publisher,
	logger *slog.Logger,
) *CallFlowService {
	return &CallFlowService{
		sessions: sessions,
		verifier: verifier,
		claims:   claims,
		events:   events,
		logger:   logger,
	}
}

// Advance processes one inbound step request and returns the decision for
// the response. The step enumeration is handled exhaustively; terminal
// steps (status, error) never arrive as requests.
func (s *CallFlowService) Advance(ctx context.Context, step domain.CallStep, in StepInput) Decision {
	switch step {
	case domain.StepWelcome:
		return s.handleWelcome(ctx, in)
	case domain.StepCollectName:
		return s.handleCollectName(ctx, in)
	case domain.StepCollectStreet:
		return s.handleCollectStreet(ctx, in)
	case domain.StepCollectCity:
		return s.handleCollectCity(ctx, in)
	case domain.StepCollectState:
		return s.handleCollectState(ctx, in)
	case domain.StepCollectZipCode:
		return s.handleCollectZipCode(ctx, in)
	case domain.StepVerifyIdentity:
		return s.handleVerifyIdentity(ctx, in)
	case domain.StepStatus, domain.StepError:
		// Terminal states have no inbound webhook; treat as a restart.
		return s.handleWelcome(ctx, in)
	default:
		s.logger.ErrorContext(ctx, "Unknown call step", "step", step, "call_sid", in.CallSID)
		return Decision{Prompt: PromptError, Message: msgTechnicalDifficulty}
	}
}

// handleWelcome starts (or restarts) a call. Any prior session fields are
// cleared so a restarted call can never leak previously collected data.
func (s *CallFlowService) handleWelcome(ctx context.Context, in StepInput) Decision {
	if err := s.sessions.Clear(ctx, in.CallSID); err != nil {
		// A failed clear is not fatal: the session will expire on its own
		// and collect-name overwrites it with a fresh one.
		s.logger.WarnContext(ctx, "Failed to clear session at welcome", "error", err, "call_sid", in.CallSID)
	}
	s.observe(ctx, in, domain.StepWelcome, domain.OutcomeAdvanced)
	return Decision{Prompt: PromptWelcome}
}

// handleCollectName processes the confirmation gathered by the welcome
// prompt: keypad "1" or an accepted speech token advances the flow, any
// other input loops back to welcome with an invalid-input message.
func (s *CallFlowService) handleCollectName(ctx context.Context, in StepInput) Decision {
	if !isWelcomeConfirmation(in) {
		s.observe(ctx, in, domain.StepCollectName, domain.OutcomeInvalidInput)
		return Decision{Prompt: PromptInvalidInput, Message: msgInvalidWelcomeInput}
	}

	session := domain.NewCallSession(in.From)
	session.Step = domain.StepCollectName
	if err := s.sessions.Put(ctx, in.CallSID, session); err != nil {
		return s.sessionFault(ctx, in, domain.StepCollectName, err)
	}
	s.observe(ctx, in, domain.StepCollectName, domain.OutcomeAdvanced)
	return Decision{Prompt: PromptCollectName}
}

func (s *CallFlowService) handleCollectStreet(ctx context.Context, in StepInput) Decision {
	return s.storeSpokenField(ctx, in, domain.StepCollectStreet, PromptCollectStreet,
		func(session *domain.CallSession, value string) { session.FullName = value })
}

func (s *CallFlowService) handleCollectCity(ctx context.Context, in StepInput) Decision {
	return s.storeSpokenField(ctx, in, domain.StepCollectCity, PromptCollectCity,
		func(session *domain.CallSession, value string) { session.Street = value })
}

func (s *CallFlowService) handleCollectState(ctx context.Context, in StepInput) Decision {
	return s.storeSpokenField(ctx, in, domain.StepCollectState, PromptCollectState,
		func(session *domain.CallSession, value string) { session.City = value })
}

func (s *CallFlowService) handleCollectZipCode(ctx context.Context, in StepInput) Decision {
	return s.storeSpokenField(ctx, in, domain.StepCollectZipCode, PromptCollectZipCode,
		func(session *domain.CallSession, value string) { session.State = value })
}

// storeSpokenField stores the speech transcript carried by this step's
// request into the session and asks for the next prompt. Each collect
// endpoint receives the value gathered by the previous prompt, so the
// field written here belongs to the preceding step.
func (s *CallFlowService) storeSpokenField(
	ctx context.Context,
	in StepInput,
	step domain.CallStep,
	next PromptKind,
	assign func(*domain.CallSession, string),
) Decision {
	session, err := s.sessions.Get(ctx, in.CallSID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return s.sessionFault(ctx, in, step, err)
		}
		// Expired or never started: same as a brand-new call. The field is
		// still stored; verification will catch whatever is missing.
		session = domain.NewCallSession(in.From)
	}

	assign(session, domain.NormalizeSpeech(in.SpeechResult))
	session.Step = step
	if err := s.sessions.Put(ctx, in.CallSID, session); err != nil {
		return s.sessionFault(ctx, in, step, err)
	}
	s.observe(ctx, in, step, domain.OutcomeAdvanced)
	return Decision{Prompt: next}
}

// handleVerifyIdentity is the terminal decision step: assemble the
// candidate identity from session state plus the keyed-in ZIP, verify it,
// and on success read back the claim status. Every failure kind maps to a
// caller-safe message here and nowhere else.
func (s *CallFlowService) handleVerifyIdentity(ctx context.Context, in StepInput) Decision {
	zipCode := strings.TrimSpace(in.Digits)

	session, err := s.sessions.Get(ctx, in.CallSID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return s.sessionFault(ctx, in, domain.StepVerifyIdentity, err)
		}
		session = domain.NewCallSession(in.From)
	}

	if !session.HasAllIdentityFields() || zipCode == "" {
		s.observe(ctx, in, domain.StepVerifyIdentity, domain.OutcomeMissingInput)
		return Decision{Prompt: PromptError, Message: msgMissingInformation}
	}

	address := domain.MailingAddress{
		Street:  session.Street,
		City:    session.City,
		State:   session.State,
		ZipCode: zipCode,
	}

	if !s.verifier.Verify(ctx, in.From, session.FullName, address) {
		s.observe(ctx, in, domain.StepVerifyIdentity, domain.OutcomeVerificationFailed)
		return Decision{Prompt: PromptError, Message: msgVerificationFailed}
	}

	s.verifier.MarkVerified(ctx, in.From)

	message, err := s.claims.StatusMessageForCaller(ctx, in.From)
	if err != nil {
		s.logger.ErrorContext(ctx, "Claim retrieval failed for verified caller",
			"error", err, "call_sid", in.CallSID, "step", domain.StepVerifyIdentity)
		s.observe(ctx, in, domain.StepVerifyIdentity, domain.OutcomeError)
		return Decision{Prompt: PromptError, Message: msgTechnicalDifficulty}
	}

	s.observe(ctx, in, domain.StepVerifyIdentity, domain.OutcomeStatusDelivered)
	return Decision{Prompt: PromptStatus, Message: message}
}

func (s *CallFlowService) sessionFault(ctx context.Context, in StepInput, step domain.CallStep, err error) Decision {
	s.logger.ErrorContext(ctx, "Session store failure", "error", err, "call_sid", in.CallSID, "step", step)
	s.observe(ctx, in, step, domain.OutcomeError)
	return Decision{Prompt: PromptError, Message: msgTechnicalDifficulty}
}

// observe logs the step outcome, updates metrics and publishes the step
// event. None of these may block or fail the flow.
func (s *CallFlowService) observe(ctx context.Context, in StepInput, step domain.CallStep, outcome string) {
	s.logger.InfoContext(ctx, "Call step processed",
		"call_sid", in.CallSID, "step", step, "outcome", outcome)
	stepsProcessedCounter.WithLabelValues(string(step), outcome).Inc()

	if s.events == nil {
		return
	}
	event := domain.CallEvent{
		ID:          uuid.NewString(),
		CallSID:     in.CallSID,
		PhoneNumber: domain.NormalizePhone(in.From),
		Step:        step,
		Outcome:     outcome,
		OccurredAt:  time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to marshal call event", "error", err, "call_sid", in.CallSID)
		return
	}
	if err := s.events.Publish(ctx, domain.NATSCallStepV1, payload); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish call event", "error", err, "call_sid", in.CallSID)
	}
}

func isWelcomeConfirmation(in StepInput) bool {
	if strings.TrimSpace(in.Digits) == "1" {
		return true
	}
	token := strings.ToLower(domain.NormalizeSpeech(in.SpeechResult))
	_, ok := welcomeConfirmations[token]
	return ok
}
