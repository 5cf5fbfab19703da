package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loam-dev/loam/internal/application/subscription/testutil"
	subscriptionUsecases "github.com/loam-dev/loam/internal/application/subscription/usecases"
	"github.com/loam-dev/loam/internal/domain/site"
	"github.com/loam-dev/loam/internal/domain/subscription"
	"github.com/loam-dev/loam/internal/shared/constants"
	"github.com/loam-dev/loam/internal/shared/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type gateFixture struct {
	siteRepo *testutil.InMemorySiteRepo
	subRepo  *testutil.InMemorySubscriptionRepo
	clock    *testutil.FakeClock
	gate     *AccessGateMiddleware
}

func newGateFixture(t *testing.T) *gateFixture {
	t.Helper()

	siteRepo := testutil.NewInMemorySiteRepo()
	subRepo := testutil.NewInMemorySubscriptionRepo()
	clock := testutil.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	log := testutil.NopLogger{}

	evaluateUC := subscriptionUsecases.NewEvaluateValidityUseCase(siteRepo, subRepo, clock, log)

	return &gateFixture{
		siteRepo: siteRepo,
		subRepo:  subRepo,
		clock:    clock,
		gate:     NewAccessGateMiddleware(evaluateUC, log),
	}
}

func (f *gateFixture) seedTenant(t *testing.T, userID uint, trialDays int) {
	t.Helper()

	s, err := site.NewSite(userID, "site_gate", "Gate Test", "gate-test", f.clock.Now())
	require.NoError(t, err)
	require.NoError(t, f.siteRepo.Create(context.Background(), s))

	sub, err := subscription.NewTrialSubscription(userID, s.ID(), "sub_gate", f.clock.Now(), trialDays)
	require.NoError(t, err)
	require.NoError(t, f.subRepo.Create(context.Background(), sub))
}

func (f *gateFixture) serve(path string, userID uint, role string) *httptest.ResponseRecorder {
	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		c.Set(constants.ContextKeyUserID, userID)
		c.Set(constants.ContextKeyUserRole, role)
	})
	engine.Use(f.gate.RequireValidSubscription())
	engine.GET(path, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	engine.ServeHTTP(w, req)
	return w
}

func decodeDenied(t *testing.T, w *httptest.ResponseRecorder) utils.APIResponse {
	t.Helper()

	var resp utils.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp
}

func TestAccessGate_ValidTenantPasses(t *testing.T) {
	f := newGateFixture(t)
	f.seedTenant(t, 10, 30)

	w := f.serve("/api/dashboard", 10, constants.RoleTenant)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAccessGate_NoSiteDenied(t *testing.T) {
	f := newGateFixture(t)

	w := f.serve("/api/dashboard", 10, constants.RoleTenant)
	require.Equal(t, http.StatusForbidden, w.Code)

	resp := decodeDenied(t, w)
	assert.Equal(t, constants.GateReasonNoSubscription, resp.Error.Type)
	assert.Equal(t, constants.RedirectOnboarding, resp.Error.Redirect)
}

func TestAccessGate_ExpiredTenantDenied(t *testing.T) {
	f := newGateFixture(t)
	f.seedTenant(t, 10, 30)

	f.clock.Advance(31 * 24 * time.Hour)

	w := f.serve("/api/dashboard", 10, constants.RoleTenant)
	require.Equal(t, http.StatusForbidden, w.Code)

	resp := decodeDenied(t, w)
	assert.Equal(t, constants.GateReasonExpired, resp.Error.Type)
	assert.Equal(t, constants.RedirectSubscription, resp.Error.Redirect)
}

func TestAccessGate_SubscriptionSurfaceReachableWhenExpired(t *testing.T) {
	f := newGateFixture(t)
	f.seedTenant(t, 10, 30)

	f.clock.Advance(31 * 24 * time.Hour)

	w := f.serve("/api/subscription/renewals", 10, constants.RoleTenant)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAccessGate_AdminBypassesGate(t *testing.T) {
	f := newGateFixture(t)

	// No site, no subscription. Admins are never gated.
	w := f.serve("/api/dashboard", 99, constants.RoleAdmin)
	assert.Equal(t, http.StatusOK, w.Code)
}
