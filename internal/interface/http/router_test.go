package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ecoscope/siagatani/internal/domain/account"
	"github.com/ecoscope/siagatani/internal/domain/forecast"
	"github.com/ecoscope/siagatani/internal/domain/planting"
	"github.com/ecoscope/siagatani/internal/domain/pricing"
	"github.com/ecoscope/siagatani/internal/domain/report"
	"github.com/ecoscope/siagatani/internal/domain/slope"
	"github.com/ecoscope/siagatani/internal/infra/config"
	apperrors "github.com/ecoscope/siagatani/pkg/errors"
)

const (
	farmerToken = "farmer-token"
	adminToken  = "admin-token"
)

func TestRouter_Health(t *testing.T) {
	rec := performRequest(newRouterUnderTest(t, newStubs()), http.MethodGet, "/healthz", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_ForecastSuccess(t *testing.T) {
	stubs := newStubs()
	stubs.forecast.loadFn = func(_ context.Context, code string) (forecast.Result, error) {
		require.Equal(t, "33.07.13.1008", code)
		return forecast.Result{
			Location: forecast.Location{Code: code, Village: "Sembungan"},
			Days: []forecast.DailySummary{{
				Date: "2025-08-01", Day: "Jum", Weather: "Cerah", MinTemp: 24, MaxTemp: 30,
				Temp: "24-30°C", Rain: 80, PlantAdvice: forecast.DefaultPlantAdvice,
			}},
			Chart:     []forecast.ChartPoint{{Day: "Jum", Rainfall: 80, Temp: 30}},
			FetchedAt: time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
		}, nil
	}

	rec := performRequest(newRouterUnderTest(t, stubs), http.MethodGet, "/api/v1/forecasts/33.07.13.1008", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Location forecast.Location `json:"location"`
		Days     []map[string]any  `json:"days"`
		Chart    []map[string]any  `json:"chart"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "Sembungan", body.Location.Village)
	require.Len(t, body.Days, 1)
	require.Equal(t, "24-30°C", body.Days[0]["temp"])
	require.Equal(t, "good", body.Days[0]["plantAdvice"])
	require.Equal(t, "Baik", body.Days[0]["plantAdviceLabel"])
	require.Len(t, body.Chart, 1)
}

func TestRouter_ForecastFailure(t *testing.T) {
	stubs := newStubs()
	stubs.forecast.loadFn = func(context.Context, string) (forecast.Result, error) {
		return forecast.Result{}, apperrors.Wrap("forecast_unavailable", "failed to load forecast", forecast.ErrNetwork)
	}

	rec := performRequest(newRouterUnderTest(t, stubs), http.MethodGet, "/api/v1/forecasts/x", "", "")
	require.Equal(t, http.StatusBadGateway, rec.Code)

	errBody := decodeErrorBody(t, rec.Body.Bytes())
	require.Equal(t, "forecast_unavailable", errBody["error"]["code"])
	require.Equal(t, "failed to load forecast", errBody["error"]["message"])
}

func TestRouter_SelectLocation(t *testing.T) {
	stubs := newStubs()
	stubs.forecast.selectFn = func(viewID, code string) (forecast.ViewState, error) {
		return forecast.ViewState{ViewID: viewID, LocationCode: code, Generation: 3, Status: forecast.StatusLoading}, nil
	}

	rec := performRequest(newRouterUnderTest(t, stubs), http.MethodPut, "/api/v1/views/main/location", `{"code":"33.02.08.2001"}`, "")
	require.Equal(t, http.StatusAccepted, rec.Code)

	var state forecast.ViewState
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	require.Equal(t, "main", state.ViewID)
	require.Equal(t, "33.02.08.2001", state.LocationCode)
	require.Equal(t, forecast.StatusLoading, state.Status)
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	server := newRouterUnderTest(t, newStubs())

	rec := performRequest(server, http.MethodGet, "/api/v1/commodities", "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "unauthorized", decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])

	rec = performRequest(server, http.MethodGet, "/api/v1/commodities", "", "bogus")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "invalid_token", decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])
}

func TestRouter_AdminRoutesRequireAdminRole(t *testing.T) {
	stubs := newStubs()
	stubs.slope.alerts = []slope.Alert{{ID: "a1"}, {ID: "a2"}}
	server := newRouterUnderTest(t, stubs)

	rec := performRequest(server, http.MethodGet, "/api/v1/admin/stats", "", farmerToken)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "forbidden", decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])

	rec = performRequest(server, http.MethodGet, "/api/v1/admin/stats", "", adminToken)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats map[string]int
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	require.Equal(t, 4, stats["totalUsers"])
	require.Equal(t, 2, stats["alertsSent"])
}

func TestRouter_LoginErrors(t *testing.T) {
	stubs := newStubs()
	stubs.account.loginFn = func(context.Context, account.LoginRequest) (account.LoginResponse, error) {
		return account.LoginResponse{}, apperrors.Wrap("role_mismatch", "account role does not match", nil)
	}
	server := newRouterUnderTest(t, stubs)

	rec := performRequest(server, http.MethodPost, "/api/v1/auth/login", `{"identifier":"budi@gmail.com","password":"x","role":"admin"}`, "")
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "role_mismatch", decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])

	rec = performRequest(server, http.MethodPost, "/api/v1/auth/login", `{"identifier":123}`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "invalid_request", decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])
}

func TestRouter_PasswordStrength(t *testing.T) {
	rec := performRequest(newRouterUnderTest(t, newStubs()), http.MethodPost, "/api/v1/auth/password-strength", `{"password":"Petani2025!"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var strength account.Strength
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &strength))
	require.Equal(t, 5, strength.Score)
	require.Equal(t, "Sangat Kuat", strength.Label)
}

func TestRouter_CommodityReportWithoutBody(t *testing.T) {
	stubs := newStubs()
	var gotSim *pricing.SimulationInput
	stubs.pricing.predictionReportFn = func(_ context.Context, key string, sim *pricing.SimulationInput) (report.Report, error) {
		require.Equal(t, "padi", key)
		gotSim = sim
		return report.Report{ID: "r1", Filename: "prediksi-harga-padi-2025-08-01.txt"}, nil
	}

	rec := performRequest(newRouterUnderTest(t, stubs), http.MethodPost, "/api/v1/commodities/padi/report", "", farmerToken)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Nil(t, gotSim)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "/api/v1/reports/r1", body["downloadUrl"])
}

func TestRouter_SendAlertUsesCaller(t *testing.T) {
	stubs := newStubs()
	stubs.slope.sendAlertFn = func(_ context.Context, req slope.AlertRequest) (slope.Alert, error) {
		require.Equal(t, "kejajar", req.SiteID)
		require.Equal(t, slope.ChannelBasarnas, req.Channel)
		require.Equal(t, "farmer@ecoscope.id", req.Actor)
		return slope.Alert{ID: "a1", SiteID: req.SiteID, Status: slope.AlertQueued}, nil
	}

	rec := performRequest(newRouterUnderTest(t, stubs), http.MethodPost, "/api/v1/slope/sites/kejajar/alerts", `{"channel":"basarnas"}`, farmerToken)
	require.Equal(t, http.StatusAccepted, rec.Code)
}

func TestRouter_SendAlertRejected(t *testing.T) {
	stubs := newStubs()
	stubs.slope.sendAlertFn = func(context.Context, slope.AlertRequest) (slope.Alert, error) {
		return slope.Alert{}, apperrors.Wrap("invalid_input", "basarnas alerts require high risk", nil)
	}

	rec := performRequest(newRouterUnderTest(t, stubs), http.MethodPost, "/api/v1/slope/sites/garung/alerts", `{"channel":"basarnas"}`, farmerToken)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "basarnas alerts require high risk", decodeErrorBody(t, rec.Body.Bytes())["error"]["message"])
}

func TestRouter_DownloadReport(t *testing.T) {
	stubs := newStubs()
	stubs.report.getFn = func(_ context.Context, id string) (report.Report, []byte, error) {
		if id != "r1" {
			return report.Report{}, nil, apperrors.Wrap("not_found", "report not found", nil)
		}
		return report.Report{ID: id, Filename: "laporan-lereng-desa-kejajar-2025-08-01.txt", ContentType: "text/plain; charset=utf-8"}, []byte("LAPORAN"), nil
	}
	server := newRouterUnderTest(t, stubs)

	rec := performRequest(server, http.MethodGet, "/api/v1/reports/r1", "", farmerToken)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, `attachment; filename="laporan-lereng-desa-kejajar-2025-08-01.txt"`, rec.Header().Get("Content-Disposition"))
	require.Equal(t, "LAPORAN", rec.Body.String())

	rec = performRequest(server, http.MethodGet, "/api/v1/reports/missing", "", farmerToken)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_UnknownErrorHidesCause(t *testing.T) {
	stubs := newStubs()
	stubs.pricing.listFn = func(context.Context) ([]pricing.Commodity, error) {
		return nil, io.ErrUnexpectedEOF
	}

	rec := performRequest(newRouterUnderTest(t, stubs), http.MethodGet, "/api/v1/commodities", "", farmerToken)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	errBody := decodeErrorBody(t, rec.Body.Bytes())
	require.Equal(t, "internal_error", errBody["error"]["code"])
	require.Equal(t, "something went wrong", errBody["error"]["message"])
}

func performRequest(server *http.Server, method, path, body, token string) *httptest.ResponseRecorder {
	var reader io.Reader = http.NoBody
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

type stubs struct {
	forecast *stubForecast
	pricing  *stubPricing
	slope    *stubSlope
	planting *stubPlanting
	report   *stubReport
	account  *stubAccount
}

func newStubs() *stubs {
	return &stubs{
		forecast: &stubForecast{},
		pricing:  &stubPricing{},
		slope:    &stubSlope{},
		planting: &stubPlanting{},
		report:   &stubReport{},
		account:  &stubAccount{},
	}
}

func newRouterUnderTest(t *testing.T, s *stubs) *http.Server {
	t.Helper()
	handler := NewHandler(s.forecast, s.pricing, s.slope, s.planting, s.report, s.account, newTestLogger())
	cfg := &config.Config{
		HTTP: config.HTTPConfig{
			Address:      ":0",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		},
	}
	return NewRouter(cfg, handler)
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

func decodeErrorBody(t *testing.T, raw []byte) map[string]map[string]string {
	t.Helper()
	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

type stubForecast struct {
	loadFn   func(ctx context.Context, code string) (forecast.Result, error)
	selectFn func(viewID, code string) (forecast.ViewState, error)
}

func (s *stubForecast) Load(ctx context.Context, code string) (forecast.Result, error) {
	if s.loadFn != nil {
		return s.loadFn(ctx, code)
	}
	return forecast.Result{}, nil
}

func (s *stubForecast) Select(viewID, code string) (forecast.ViewState, error) {
	if s.selectFn != nil {
		return s.selectFn(viewID, code)
	}
	return forecast.ViewState{ViewID: viewID, LocationCode: code, Status: forecast.StatusLoading}, nil
}

func (s *stubForecast) View(viewID string) (forecast.ViewState, error) {
	return forecast.ViewState{}, apperrors.Wrap("not_found", "view not found", nil)
}

type stubPricing struct {
	listFn             func(ctx context.Context) ([]pricing.Commodity, error)
	predictionReportFn func(ctx context.Context, key string, sim *pricing.SimulationInput) (report.Report, error)
}

func (s *stubPricing) ListCommodities(ctx context.Context) ([]pricing.Commodity, error) {
	if s.listFn != nil {
		return s.listFn(ctx)
	}
	return nil, nil
}

func (s *stubPricing) Outlook(context.Context, string) (pricing.Outlook, error) {
	return pricing.Outlook{}, nil
}

func (s *stubPricing) Markets(context.Context) ([]pricing.MarketQuote, error) {
	return nil, nil
}

func (s *stubPricing) SimulationHistory(context.Context) ([]pricing.SimulationRecord, error) {
	return nil, nil
}

func (s *stubPricing) Simulate(_ context.Context, in pricing.SimulationInput) (pricing.Simulation, error) {
	return pricing.Simulation{Commodity: in.Commodity}, nil
}

func (s *stubPricing) PredictionReport(ctx context.Context, key string, sim *pricing.SimulationInput) (report.Report, error) {
	if s.predictionReportFn != nil {
		return s.predictionReportFn(ctx, key, sim)
	}
	return report.Report{}, nil
}

func (s *stubPricing) SimulationReport(context.Context, pricing.SimulationInput) (report.Report, error) {
	return report.Report{}, nil
}

type stubSlope struct {
	sendAlertFn func(ctx context.Context, req slope.AlertRequest) (slope.Alert, error)
	alerts      []slope.Alert
}

func (s *stubSlope) Sites(context.Context) ([]slope.Site, error) { return nil, nil }
func (s *stubSlope) Site(context.Context, string) (slope.Site, error) { return slope.Site{}, nil }
func (s *stubSlope) History(context.Context) ([]slope.HistoryEntry, error) { return nil, nil }
func (s *stubSlope) Contacts(context.Context) ([]slope.Contact, error) { return nil, nil }
func (s *stubSlope) Alerts(context.Context) []slope.Alert { return s.alerts }
func (s *stubSlope) Report(context.Context, string) (report.Report, error) { return report.Report{}, nil }
func (s *stubSlope) HandleJob(context.Context, string, map[string]any) {}

func (s *stubSlope) SendAlert(ctx context.Context, req slope.AlertRequest) (slope.Alert, error) {
	if s.sendAlertFn != nil {
		return s.sendAlertFn(ctx, req)
	}
	return slope.Alert{}, nil
}

type stubPlanting struct{}

func (s *stubPlanting) Guide(context.Context) ([]planting.MonthPlan, error) { return nil, nil }
func (s *stubPlanting) History(context.Context) ([]planting.MonthlyRecord, error) { return nil, nil }

func (s *stubPlanting) GuideReport(context.Context, string) (report.Report, error) {
	return report.Report{}, nil
}

type stubReport struct {
	getFn func(ctx context.Context, id string) (report.Report, []byte, error)
}

func (s *stubReport) Save(context.Context, string, string, string) (report.Report, error) {
	return report.Report{}, nil
}

func (s *stubReport) Get(ctx context.Context, id string) (report.Report, []byte, error) {
	if s.getFn != nil {
		return s.getFn(ctx, id)
	}
	return report.Report{}, nil, nil
}

type stubAccount struct {
	loginFn func(ctx context.Context, req account.LoginRequest) (account.LoginResponse, error)
}

func (s *stubAccount) ValidateToken(_ context.Context, token string) (account.Claims, error) {
	switch token {
	case farmerToken:
		return account.Claims{UserID: 1, Email: "farmer@ecoscope.id", Role: account.RoleFarmer}, nil
	case adminToken:
		return account.Claims{UserID: 2, Email: "admin@ecoscope.id", Role: account.RoleAdmin}, nil
	default:
		return account.Claims{}, apperrors.Wrap("invalid_token", "invalid token", nil)
	}
}

func (s *stubAccount) Login(ctx context.Context, req account.LoginRequest) (account.LoginResponse, error) {
	if s.loginFn != nil {
		return s.loginFn(ctx, req)
	}
	return account.LoginResponse{}, nil
}

func (s *stubAccount) Register(context.Context, account.RegisterRequest) (account.UserView, error) {
	return account.UserView{}, nil
}

func (s *stubAccount) Refresh(context.Context, string) (account.LoginResponse, error) {
	return account.LoginResponse{}, nil
}

func (s *stubAccount) Profile(context.Context, int64) (account.UserView, error) {
	return account.UserView{}, nil
}

func (s *stubAccount) UpdateProfile(context.Context, int64, account.ProfileUpdate) (account.UserView, error) {
	return account.UserView{}, nil
}

func (s *stubAccount) ChangePassword(context.Context, int64, account.PasswordChange) error {
	return nil
}

func (s *stubAccount) ListUsers(context.Context, account.UserFilter) ([]account.UserView, error) {
	return nil, nil
}

func (s *stubAccount) SetStatus(context.Context, int64, string) (account.UserView, error) {
	return account.UserView{}, nil
}

func (s *stubAccount) Stats(context.Context) (account.Stats, error) {
	return account.Stats{TotalUsers: 4, ActiveFarmers: 2, Admins: 1, Inactive: 1}, nil
}

func (s *stubAccount) EnsureAdmin(context.Context) error {
	return nil
}
