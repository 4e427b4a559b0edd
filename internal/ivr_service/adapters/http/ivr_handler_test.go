package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ivrclaimassist/golang_services/internal/ivr_service/app"
	"github.com/ivrclaimassist/golang_services/internal/ivr_service/domain"
	"github.com/ivrclaimassist/golang_services/internal/ivr_service/twiml"
)

type MockStepAdvancer struct {
	mock.Mock
}

func (m *MockStepAdvancer) Advance(ctx context.Context, step domain.CallStep, in app.StepInput) app.Decision {
	args := m.Called(ctx, step, in)
	return args.Get(0).(app.Decision)
}

func newTestRouter(flow StepAdvancer) http.Handler {
	h := NewIVRHandler(flow, twiml.NewRenderer(), validator.New(), testLogger())
	r := chi.NewRouter()
	r.Route("/ivr", h.RegisterRoutes)
	return r
}

func postStep(t *testing.T, handler http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestIVRHandler_WelcomeRendersTwiML(t *testing.T) {
	flow := new(MockStepAdvancer)
	flow.On("Advance", mock.Anything, domain.StepWelcome,
		app.StepInput{CallSID: "CA123", From: "+15551234567"}).
		Return(app.Decision{Prompt: app.PromptWelcome})

	rec := postStep(t, newTestRouter(flow), "/ivr/welcome", url.Values{
		"CallSid": {"CA123"},
		"From":    {"+15551234567"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<Response>")
	assert.Contains(t, rec.Body.String(), "Welcome to the Repair Claim Assistant")
	flow.AssertExpectations(t)
}

func TestIVRHandler_VerifyIdentityPassesDigits(t *testing.T) {
	flow := new(MockStepAdvancer)
	flow.On("Advance", mock.Anything, domain.StepVerifyIdentity,
		app.StepInput{CallSID: "CA123", From: "+15551234567", Digits: "12345"}).
		Return(app.Decision{Prompt: app.PromptStatus, Message: "Your claim for 2021 Honda Civic is currently in repair."})

	rec := postStep(t, newTestRouter(flow), "/ivr/verify-identity", url.Values{
		"CallSid": {"CA123"},
		"From":    {"+15551234567"},
		"Digits":  {"12345"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "2021 Honda Civic")
	assert.Contains(t, rec.Body.String(), "<Hangup")
	flow.AssertExpectations(t)
}

func TestIVRHandler_MissingCallSidIsRejected(t *testing.T) {
	flow := new(MockStepAdvancer)

	rec := postStep(t, newTestRouter(flow), "/ivr/welcome", url.Values{
		"From": {"+15551234567"},
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	flow.AssertNotCalled(t, "Advance", mock.Anything, mock.Anything, mock.Anything)
}

func TestIVRHandler_ErrorDecisionRendersHangup(t *testing.T) {
	flow := new(MockStepAdvancer)
	flow.On("Advance", mock.Anything, domain.StepVerifyIdentity, mock.Anything).
		Return(app.Decision{Prompt: app.PromptError, Message: "Some required information is missing. Please start over."})

	rec := postStep(t, newTestRouter(flow), "/ivr/verify-identity", url.Values{
		"CallSid": {"CA123"},
		"From":    {"+15551234567"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Some required information is missing")
	assert.Contains(t, rec.Body.String(), "<Hangup")
}
