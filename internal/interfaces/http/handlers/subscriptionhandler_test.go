package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loam-dev/loam/internal/application/subscription/testutil"
	"github.com/loam-dev/loam/internal/application/subscription/usecases"
	"github.com/loam-dev/loam/internal/domain/site"
	"github.com/loam-dev/loam/internal/domain/subscription"
	vo "github.com/loam-dev/loam/internal/domain/subscription/valueobjects"
	"github.com/loam-dev/loam/internal/shared/constants"
	"github.com/loam-dev/loam/internal/shared/utils"
)

func init() {
	gin.SetMode(gin.TestMode)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("plan", func(fl validator.FieldLevel) bool {
			_, err := vo.NewPlan(fl.Field().String())
			return err == nil
		})
	}
}

type handlerFixture struct {
	siteRepo *testutil.InMemorySiteRepo
	subRepo  *testutil.InMemorySubscriptionRepo
	reqRepo  *testutil.InMemoryRequestRepo
	clock    *testutil.FakeClock
	engine   *gin.Engine
}

func newHandlerFixture(t *testing.T, userID uint) *handlerFixture {
	t.Helper()

	siteRepo := testutil.NewInMemorySiteRepo()
	subRepo := testutil.NewInMemorySubscriptionRepo()
	reqRepo := testutil.NewInMemoryRequestRepo()
	clock := testutil.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	log := testutil.NopLogger{}

	evaluateUC := usecases.NewEvaluateValidityUseCase(siteRepo, subRepo, clock, log)
	submitUC := usecases.NewSubmitRequestUseCase(siteRepo, subRepo, reqRepo, clock, log)
	listUC := usecases.NewListRequestsUseCase(siteRepo, reqRepo, log)

	handler := NewSubscriptionHandler(evaluateUC, submitUC, listUC, log)

	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		c.Set(constants.ContextKeyUserID, userID)
		c.Set(constants.ContextKeyUserRole, constants.RoleTenant)
	})
	engine.GET("/api/plans", handler.ListPlans)
	engine.GET("/api/subscription", handler.GetSubscription)
	engine.GET("/api/subscription/renewals", handler.ListRenewals)
	engine.POST("/api/subscription/renewals", handler.SubmitRenewal)

	return &handlerFixture{
		siteRepo: siteRepo,
		subRepo:  subRepo,
		reqRepo:  reqRepo,
		clock:    clock,
		engine:   engine,
	}
}

func (f *handlerFixture) seedTenant(t *testing.T, userID uint) {
	t.Helper()

	s, err := site.NewSite(userID, "site_h", "Handler Test", "handler-test", f.clock.Now())
	require.NoError(t, err)
	require.NoError(t, f.siteRepo.Create(context.Background(), s))

	sub, err := subscription.NewTrialSubscription(userID, s.ID(), "sub_h", f.clock.Now(), 30)
	require.NoError(t, err)
	require.NoError(t, f.subRepo.Create(context.Background(), sub))
}

func (f *handlerFixture) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	f.engine.ServeHTTP(w, req)
	return w
}

func TestListPlans(t *testing.T) {
	f := newHandlerFixture(t, 10)

	w := f.do(http.MethodGet, "/api/plans", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    []struct {
			Name         string `json:"name"`
			DurationDays int    `json:"duration_days"`
			Price        int64  `json:"price"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Len(t, resp.Data, 3)
	assert.Equal(t, "monthly", resp.Data[0].Name)
	assert.Equal(t, 30, resp.Data[0].DurationDays)
}

func TestGetSubscription_Trial(t *testing.T) {
	f := newHandlerFixture(t, 10)
	f.seedTenant(t, 10)

	w := f.do(http.MethodGet, "/api/subscription", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			IsValid bool   `json:"is_valid"`
			Status  string `json:"status"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Data.IsValid)
	assert.Equal(t, "trial", resp.Data.Status)
}

func TestGetSubscription_NoSite(t *testing.T) {
	f := newHandlerFixture(t, 10)

	w := f.do(http.MethodGet, "/api/subscription", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			IsValid  bool   `json:"is_valid"`
			Status   string `json:"status"`
			Redirect string `json:"redirect"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Data.IsValid)
	assert.Equal(t, "no-subscription", resp.Data.Status)
	assert.Equal(t, constants.RedirectOnboarding, resp.Data.Redirect)
}

func TestSubmitRenewal(t *testing.T) {
	f := newHandlerFixture(t, 10)
	f.seedTenant(t, 10)

	w := f.do(http.MethodPost, "/api/subscription/renewals", SubmitRenewalRequest{
		Plan:          "monthly",
		Amount:        150,
		PaymentMethod: "bank_transfer",
		Phone:         "+250780000000",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Data struct {
			SID    string `json:"id"`
			Plan   string `json:"plan"`
			Status string `json:"status"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "monthly", resp.Data.Plan)
	assert.Equal(t, "pending", resp.Data.Status)
	assert.NotEmpty(t, resp.Data.SID)
}

func TestSubmitRenewal_UnknownPlanRejectedByBinding(t *testing.T) {
	f := newHandlerFixture(t, 10)
	f.seedTenant(t, 10)

	w := f.do(http.MethodPost, "/api/subscription/renewals", SubmitRenewalRequest{
		Plan:          "weekly",
		Amount:        150,
		PaymentMethod: "bank_transfer",
		Phone:         "+250780000000",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitRenewal_DuplicatePending(t *testing.T) {
	f := newHandlerFixture(t, 10)
	f.seedTenant(t, 10)

	body := SubmitRenewalRequest{
		Plan:          "monthly",
		Amount:        150,
		PaymentMethod: "bank_transfer",
		Phone:         "+250780000000",
	}

	first := f.do(http.MethodPost, "/api/subscription/renewals", body)
	require.Equal(t, http.StatusCreated, first.Code)

	second := f.do(http.MethodPost, "/api/subscription/renewals", body)
	require.Equal(t, http.StatusConflict, second.Code)

	var resp utils.APIResponse
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
}

func TestListRenewals(t *testing.T) {
	f := newHandlerFixture(t, 10)
	f.seedTenant(t, 10)

	w := f.do(http.MethodPost, "/api/subscription/renewals", SubmitRenewalRequest{
		Plan:          "annual",
		Amount:        1500,
		PaymentMethod: "mobile_money",
		Phone:         "+250780000000",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	list := f.do(http.MethodGet, "/api/subscription/renewals", nil)
	require.Equal(t, http.StatusOK, list.Code)

	var resp struct {
		Data []struct {
			Plan   string `json:"plan"`
			Status string `json:"status"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "annual", resp.Data[0].Plan)
}
