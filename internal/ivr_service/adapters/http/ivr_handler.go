package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chi_middleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/ivrclaimassist/golang_services/internal/ivr_service/app"
	"github.com/ivrclaimassist/golang_services/internal/ivr_service/domain"
	"github.com/ivrclaimassist/golang_services/internal/ivr_service/twiml"
)

// StepAdvancer is the call-flow interface the handler depends on. Keeping
// it an interface makes the handler testable without stores.
type StepAdvancer interface {
	Advance(ctx context.Context, step domain.CallStep, in app.StepInput) app.Decision
}

// twilioStepRequest binds the form parameters Twilio posts on every
// webhook. Digits and SpeechResult are optional; which one is present
// depends on the step's gather.
type twilioStepRequest struct {
	CallSID      string `validate:"required"`
	From         string `validate:"required"`
	Digits       string
	SpeechResult string
}

// IVRHandler serves the per-step webhook endpoints and renders the
// orchestrator's decisions as TwiML.
type IVRHandler struct {
	flow     StepAdvancer
	renderer *twiml.Renderer
	validate *validator.Validate
	logger   *slog.Logger
}

func NewIVRHandler(flow StepAdvancer, renderer *twiml.Renderer, validate *validator.Validate, logger *slog.Logger) *IVRHandler {
	return &IVRHandler{
		flow:     flow,
		renderer: renderer,
		validate: validate,
		logger:   logger.With("component", "ivr_handler"),
	}
}

// RegisterRoutes mounts one POST endpoint per dialogue step.
func (h *IVRHandler) RegisterRoutes(r chi.Router) {
	r.Post("/welcome", h.step(domain.StepWelcome))
	r.Post("/collect-name", h.step(domain.StepCollectName))
	r.Post("/collect-street", h.step(domain.StepCollectStreet))
	r.Post("/collect-city", h.step(domain.StepCollectCity))
	r.Post("/collect-state", h.step(domain.StepCollectState))
	r.Post("/collect-zipcode", h.step(domain.StepCollectZipCode))
	r.Post("/verify-identity", h.step(domain.StepVerifyIdentity))
}

func (h *IVRHandler) step(step domain.CallStep) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logger := h.logger.With("request_id", chi_middleware.GetReqID(ctx), "step", step)

		if err := r.ParseForm(); err != nil {
			logger.WarnContext(ctx, "Failed to parse webhook form", "error", err)
			http.Error(w, "Bad request", http.StatusBadRequest)
			return
		}

		req := twilioStepRequest{
			CallSID:      r.PostFormValue("CallSid"),
			From:         r.PostFormValue("From"),
			Digits:       r.PostFormValue("Digits"),
			SpeechResult: r.PostFormValue("SpeechResult"),
		}
		if err := h.validate.StructCtx(ctx, req); err != nil {
			logger.WarnContext(ctx, "Invalid webhook request", "error", err)
			http.Error(w, "Bad request", http.StatusBadRequest)
			return
		}

		decision := h.flow.Advance(ctx, step, app.StepInput{
			CallSID:      req.CallSID,
			From:         req.From,
			Digits:       req.Digits,
			SpeechResult: req.SpeechResult,
		})

		doc, err := h.render(decision)
		if err != nil {
			logger.ErrorContext(ctx, "Failed to render voice response", "error", err, "call_sid", req.CallSID)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/xml")
		if _, err := w.Write([]byte(doc)); err != nil {
			logger.WarnContext(ctx, "Failed to write voice response", "error", err, "call_sid", req.CallSID)
		}
	}
}

func (h *IVRHandler) render(d app.Decision) (string, error) {
	switch d.Prompt {
	case app.PromptWelcome:
		return h.renderer.WelcomeMessage()
	case app.PromptInvalidInput:
		return h.renderer.InvalidInput(d.Message, twiml.RouteWelcome)
	case app.PromptCollectName:
		return h.renderer.CollectName()
	case app.PromptCollectStreet:
		return h.renderer.CollectStreet()
	case app.PromptCollectCity:
		return h.renderer.CollectCity()
	case app.PromptCollectState:
		return h.renderer.CollectState()
	case app.PromptCollectZipCode:
		return h.renderer.CollectZipCode()
	case app.PromptStatus:
		return h.renderer.ClaimStatus(d.Message)
	default:
		return h.renderer.ErrorResponse(d.Message)
	}
}
