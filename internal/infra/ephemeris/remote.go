package ephemeris

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/yanqian/natal-chart/internal/domain/chart"
)

const defaultRemoteTimeout = 10 * time.Second

// Remote fetches positions from an external ephemeris service over HTTP.
type Remote struct {
	baseURL    string
	httpClient *http.Client

	mu      sync.RWMutex
	version string
}

// NewRemote builds an API client.
func NewRemote(baseURL string, timeout time.Duration) (*Remote, error) {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("remote ephemeris base url is required")
	}
	if timeout <= 0 {
		timeout = defaultRemoteTimeout
	}
	return &Remote{
		baseURL:    base,
		httpClient: &http.Client{Timeout: timeout},
		version:    "remote",
	}, nil
}

// Probe fetches the remote version string and caches it for Version.
func (r *Remote) Probe(ctx context.Context) error {
	var payload versionResponse
	if err := r.get(ctx, "/version", nil, &payload); err != nil {
		return err
	}
	if strings.TrimSpace(payload.Version) == "" {
		return fmt.Errorf("remote ephemeris returned an empty version")
	}
	r.mu.Lock()
	r.version = "remote/" + payload.Version
	r.mu.Unlock()
	return nil
}

func (r *Remote) Version() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.version
}

// CalendarToTime is computed locally; the conversion is pure.
func (r *Remote) CalendarToTime(year, month, day int, hour float64) chart.JulianDay {
	return JulianDayUT(year, month, day, hour)
}

func (r *Remote) BodyPosition(ctx context.Context, jd chart.JulianDay, body chart.Body) (chart.Position, error) {
	query := url.Values{}
	query.Set("jd", formatFloat(float64(jd)))
	query.Set("body", string(body))

	var payload positionResponse
	if err := r.get(ctx, "/positions", query, &payload); err != nil {
		return chart.Position{}, err
	}
	if payload.Lon == nil {
		return chart.Position{}, fmt.Errorf("remote ephemeris: missing lon for %s", body)
	}
	return chart.Position{Longitude: *payload.Lon, Speed: payload.Speed}, nil
}

func (r *Remote) HousesAndAscendant(ctx context.Context, jd chart.JulianDay, lat, lon float64) (chart.HouseCusps, error) {
	query := url.Values{}
	query.Set("jd", formatFloat(float64(jd)))
	query.Set("lat", formatFloat(lat))
	query.Set("lon", formatFloat(lon))

	var payload housesResponse
	if err := r.get(ctx, "/houses", query, &payload); err != nil {
		return chart.HouseCusps{}, err
	}
	if payload.Ascendant == nil {
		return chart.HouseCusps{}, fmt.Errorf("remote ephemeris: missing ascendant")
	}
	cusps := chart.HouseCusps{Ascendant: *payload.Ascendant, MC: payload.MC}
	copy(cusps.Cusps[:], payload.Cusps)
	return cusps, nil
}

func (r *Remote) get(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := r.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build ephemeris request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ephemeris request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("ephemeris request error: status=%d body=%s", resp.StatusCode, string(payload))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode ephemeris response: %w", err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

type versionResponse struct {
	Version string `json:"version"`
}

type positionResponse struct {
	Lon   *float64 `json:"lon"`
	Speed float64  `json:"speed"`
}

type housesResponse struct {
	Cusps     []float64 `json:"cusps"`
	Ascendant *float64  `json:"ascendant"`
	MC        float64   `json:"mc"`
}
