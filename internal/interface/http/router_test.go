package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/natal-chart/internal/domain/auth"
	"github.com/yanqian/natal-chart/internal/domain/chart"
	"github.com/yanqian/natal-chart/internal/domain/profile"
	"github.com/yanqian/natal-chart/internal/infra/config"
	"github.com/yanqian/natal-chart/internal/infra/profilerepo"
	apperrors "github.com/yanqian/natal-chart/pkg/errors"
	"github.com/yanqian/natal-chart/pkg/metrics"
)

const testSecret = "router-test-secret-0123"

func TestRouter_ComputeChartSuccess(t *testing.T) {
	house := 10
	resp := chart.Response{
		EphemerisVersion: "stub",
		JulianDayUT:      2451545,
		AscendantLon:     95,
		AscendantSource:  chart.AscendantFromEphemeris,
		Planets:          map[chart.Body]chart.PlanetView{chart.Sun: {Lon: 5, Sign: chart.Aries, Deg: 5}},
		Houses:           map[chart.Body]*int{chart.Sun: &house},
		RuleHits:         []chart.RuleHit{{Code: "CAREER_SUN_10", Reason: "Sun in 10th house — leadership focus"}},
		Ayanamsa:         "Lahiri",
		HouseSystem:      "WholeSign",
	}
	svc := &stubChartService{
		computeFn: func(ctx context.Context, req chart.Request) (chart.Response, error) {
			require.Equal(t, "2000-01-01", req.DOB)
			require.Equal(t, 330, *req.TZOffsetMinutes)
			return resp, nil
		},
	}
	server := newRouterUnderTest(t, svc, auth.Config{})

	for _, path := range []string{"/api/v1/charts", "/compute"} {
		recorder := performRequest(server, http.MethodPost, path, delhiPayload, "")
		require.Equal(t, http.StatusOK, recorder.Code, path)

		var got chart.Response
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
		require.Equal(t, resp, got)
	}
}

func TestRouter_ComputeChartUnassignedHousesAreNull(t *testing.T) {
	svc := &stubChartService{
		computeFn: func(ctx context.Context, req chart.Request) (chart.Response, error) {
			return chart.Response{
				Houses:   map[chart.Body]*int{chart.Sun: nil},
				RuleHits: []chart.RuleHit{},
			}, nil
		},
	}
	recorder := performRequest(newRouterUnderTest(t, svc, auth.Config{}), http.MethodPost, "/api/v1/charts", delhiPayload, "")
	require.Equal(t, http.StatusOK, recorder.Code)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &raw))
	require.JSONEq(t, `{"sun":null}`, string(raw["houses"]))
	require.JSONEq(t, `[]`, string(raw["rule_hits"]))
}

func TestRouter_ComputeChartInvalidJSON(t *testing.T) {
	recorder := performRequest(newRouterUnderTest(t, &stubChartService{}, auth.Config{}), http.MethodPost, "/api/v1/charts", `{"dob":123}`, "")
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "invalid_request", errBody["error"]["code"])
	require.NotEmpty(t, errBody["error"]["message"])
}

func TestRouter_ComputeChartErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{
			name:    "malformed time",
			err:     apperrors.Wrap(apperrors.CodeInvalidInput, chart.ErrInvalidTimeFormat.Error(), chart.ErrInvalidTimeFormat),
			status:  http.StatusBadRequest,
			code:    "invalid_request",
			message: "invalid dob/tob format (YYYY-MM-DD and HH:MM 24h)",
		},
		{
			name:    "ephemeris failure",
			err:     apperrors.Wrap(apperrors.CodeEphemerisError, "ephemeris lookup failed", chart.ErrEphemerisLookup),
			status:  http.StatusBadGateway,
			code:    "ephemeris_error",
			message: "ephemeris lookup failed",
		},
		{
			name:    "unexpected",
			err:     apperrors.Wrap(apperrors.CodeChartError, "chart computation failed", context.DeadlineExceeded),
			status:  http.StatusInternalServerError,
			code:    "chart_failed",
			message: "chart computation failed",
		},
		{
			name:    "client went away",
			err:     apperrors.Wrap(apperrors.CodeCanceled, "chart computation canceled", context.Canceled),
			status:  statusClientClosedRequest,
			code:    "request_canceled",
			message: "chart computation canceled",
		},
		{
			name:    "untyped error stays opaque",
			err:     errors.New("pool exhausted"),
			status:  http.StatusInternalServerError,
			code:    "internal_error",
			message: "something went wrong",
		},
	}
	for _, tt := range tests {
		svc := &stubChartService{
			computeFn: func(ctx context.Context, req chart.Request) (chart.Response, error) {
				return chart.Response{}, tt.err
			},
		}
		recorder := performRequest(newRouterUnderTest(t, svc, auth.Config{}), http.MethodPost, "/api/v1/charts", delhiPayload, "")
		require.Equal(t, tt.status, recorder.Code, tt.name)

		errBody := decodeErrorBody(t, recorder.Body.Bytes())
		require.Equal(t, tt.code, errBody["error"]["code"], tt.name)
		require.Equal(t, tt.message, errBody["error"]["message"], tt.name)
	}
}

func TestRouter_HealthzAndRules(t *testing.T) {
	svc := &stubChartService{
		rules: []chart.RuleStat{{Rule: chart.DefaultRules()[0], Hits: 3}},
	}
	server := newRouterUnderTest(t, svc, auth.Config{})

	recorder := performRequest(server, http.MethodGet, "/healthz", "", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	require.JSONEq(t, `{"status":"ok","ephemeris_version":"stub"}`, recorder.Body.String())

	recorder = performRequest(server, http.MethodGet, "/api/v1/rules", "", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	var body struct {
		Rules []chart.RuleStat `json:"rules"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	require.Equal(t, svc.rules, body.Rules)

	recorder = performRequest(server, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, recorder.Code)
}

func TestRouter_AnonymousProfileLifecycle(t *testing.T) {
	charts := &stubChartService{
		computeFn: func(ctx context.Context, req chart.Request) (chart.Response, error) {
			return chart.Response{EphemerisVersion: "stub", FullName: req.FullName}, nil
		},
	}
	server := newRouterUnderTest(t, charts, auth.Config{})

	recorder := performRequest(server, http.MethodPost, "/api/v1/profiles", `{"full_name":"Asha","dob":"2000-01-01","tob":"12:00","lat":28.6139,"lon":77.209,"tz_offset_minutes":330}`, "")
	require.Equal(t, http.StatusCreated, recorder.Code)
	var created profile.Profile
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &created))
	require.Equal(t, auth.AnonymousOwner, created.Owner)
	require.Equal(t, "Asha", created.FullName)

	recorder = performRequest(server, http.MethodGet, "/api/v1/profiles", "", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	var list profile.ListResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &list))
	require.Len(t, list.Profiles, 1)

	recorder = performRequest(server, http.MethodGet, "/api/v1/profiles/"+created.ID.String()+"/chart", "", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	var resp chart.Response
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	require.Equal(t, "Asha", *resp.FullName)

	recorder = performRequest(server, http.MethodDelete, "/api/v1/profiles/"+created.ID.String(), "", "")
	require.Equal(t, http.StatusNoContent, recorder.Code)

	recorder = performRequest(server, http.MethodGet, "/api/v1/profiles/"+created.ID.String(), "", "")
	require.Equal(t, http.StatusNotFound, recorder.Code)
	require.Equal(t, "not_found", decodeErrorBody(t, recorder.Body.Bytes())["error"]["code"])
}

func TestRouter_ProfileValidation(t *testing.T) {
	server := newRouterUnderTest(t, &stubChartService{}, auth.Config{})
	recorder := performRequest(server, http.MethodPost, "/api/v1/profiles", `{"dob":"2000-01-01","tob":"25:99","lat":1,"lon":1,"tz_offset_minutes":0}`, "")
	require.Equal(t, http.StatusBadRequest, recorder.Code)
	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "invalid_request", errBody["error"]["code"])
	require.Equal(t, chart.ErrInvalidTimeFormat.Error(), errBody["error"]["message"])

	recorder = performRequest(server, http.MethodPost, "/api/v1/profiles", `{"dob":"2000-01-01","tob":"12:00","lat":1,"lon":1,"tz_offset_minutes":200000000}`, "")
	require.Equal(t, http.StatusBadRequest, recorder.Code)
	errBody = decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "invalid_request", errBody["error"]["code"])
	require.Equal(t, chart.ErrInvalidTZOffset.Error(), errBody["error"]["message"])
}

func TestRouter_ProfilesRequireTokenWhenAuthEnabled(t *testing.T) {
	authCfg := auth.Config{Secret: testSecret, TokenTTL: time.Hour}
	server := newRouterUnderTest(t, &stubChartService{}, authCfg)
	tokens := auth.NewService(authCfg, newTestLogger())

	recorder := performRequest(server, http.MethodGet, "/api/v1/profiles", "", "")
	require.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = performRequest(server, http.MethodGet, "/api/v1/profiles", "", "Bearer nonsense")
	require.Equal(t, http.StatusForbidden, recorder.Code)
	require.Equal(t, "invalid_token", decodeErrorBody(t, recorder.Body.Bytes())["error"]["code"])

	alice, err := tokens.IssueToken(context.Background(), "alice")
	require.NoError(t, err)
	bob, err := tokens.IssueToken(context.Background(), "bob")
	require.NoError(t, err)

	recorder = performRequest(server, http.MethodPost, "/api/v1/profiles", delhiPayload, "Bearer "+alice.Token)
	require.Equal(t, http.StatusCreated, recorder.Code)
	var created profile.Profile
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &created))
	require.Equal(t, "alice", created.Owner)

	recorder = performRequest(server, http.MethodGet, "/api/v1/profiles/"+created.ID.String(), "", "Bearer "+bob.Token)
	require.Equal(t, http.StatusNotFound, recorder.Code)

	recorder = performRequest(server, http.MethodGet, "/api/v1/profiles/"+created.ID.String(), "", "Bearer "+alice.Token)
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = performRequest(server, http.MethodPost, "/api/v1/charts", delhiPayload, "")
	require.Equal(t, http.StatusOK, recorder.Code, "chart computation stays public")
}

func TestRouter_CORSPreflight(t *testing.T) {
	server := newRouterUnderTest(t, &stubChartService{}, auth.Config{})
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/charts", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	require.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "DELETE")
	require.Equal(t, "600", rec.Header().Get("Access-Control-Max-Age"))

	req = httptest.NewRequest(http.MethodOptions, "/api/v1/charts", nil)
	req.Header.Set("Origin", "https://evil.example.net")
	rec = httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "Origin", rec.Header().Get("Vary"))
}

func TestRouter_RateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.HTTP.RateLimit = config.RateLimitConfig{Enabled: true, RequestsPerMinute: 1, Burst: 1}
	server := NewRouter(cfg, newHandlerUnderTest(&stubChartService{}, auth.Config{}))
	rejected := metrics.HTTPErrors.WithLabelValues("429", "rate_limit_exceeded")
	before := testutil.ToFloat64(rejected)

	recorder := performRequest(server, http.MethodPost, "/api/v1/charts", delhiPayload, "")
	require.Equal(t, http.StatusOK, recorder.Code)
	recorder = performRequest(server, http.MethodPost, "/api/v1/charts", delhiPayload, "")
	require.Equal(t, http.StatusTooManyRequests, recorder.Code)
	require.Equal(t, "rate_limit_exceeded", decodeErrorBody(t, recorder.Body.Bytes())["error"]["code"])
	require.Equal(t, "60", recorder.Header().Get("Retry-After"))
	require.Equal(t, before+1, testutil.ToFloat64(rejected))

	recorder = performRequest(server, http.MethodGet, "/healthz", "", "")
	require.Equal(t, http.StatusOK, recorder.Code)
}

const delhiPayload = `{"dob":"2000-01-01","tob":"12:00","lat":28.6139,"lon":77.209,"tz_offset_minutes":330}`

func performRequest(server *http.Server, method, path, body, authorization string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

func newRouterUnderTest(t *testing.T, charts chart.Service, authCfg auth.Config) *http.Server {
	t.Helper()
	return NewRouter(testConfig(), newHandlerUnderTest(charts, authCfg))
}

func newHandlerUnderTest(charts chart.Service, authCfg auth.Config) *Handler {
	logger := newTestLogger()
	profiles := profile.NewService(profilerepo.NewMemoryRepository(), charts, nil, logger)
	return NewHandler(charts, profiles, auth.NewService(authCfg, logger), logger)
}

func testConfig() *config.Config {
	return &config.Config{
		HTTP: config.HTTPConfig{
			Address:        ":0",
			ReadTimeout:    time.Second,
			WriteTimeout:   time.Second,
			AllowedOrigins: []string{"https://app.example.com"},
		},
	}
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

type stubChartService struct {
	computeFn func(ctx context.Context, req chart.Request) (chart.Response, error)
	rules     []chart.RuleStat
}

func (s *stubChartService) Compute(ctx context.Context, req chart.Request) (chart.Response, error) {
	if s.computeFn != nil {
		return s.computeFn(ctx, req)
	}
	return chart.Response{EphemerisVersion: "stub"}, nil
}

func (s *stubChartService) Rules(ctx context.Context) ([]chart.RuleStat, error) {
	return s.rules, nil
}

func (s *stubChartService) EphemerisVersion() string {
	return "stub"
}

func decodeErrorBody(t *testing.T, raw []byte) map[string]map[string]string {
	t.Helper()
	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}
