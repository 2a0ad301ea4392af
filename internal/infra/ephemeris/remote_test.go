package ephemeris

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/natal-chart/internal/domain/chart"
)

func newRemoteServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"version": "swe-2.10"})
	})
	mux.HandleFunc("/positions", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("body") {
		case "sun":
			if r.URL.Query().Get("jd") != "2451545" {
				http.Error(w, "bad jd", http.StatusBadRequest)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]float64{"lon": 280.37, "speed": 1.019})
		case "moon":
			_ = json.NewEncoder(w).Encode(map[string]float64{"speed": 12})
		default:
			http.Error(w, "unknown body", http.StatusBadRequest)
		}
	})
	mux.HandleFunc("/houses", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("lat") == "90" {
			http.Error(w, "polar", http.StatusUnprocessableEntity)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"cusps":     []float64{100, 130, 160, 190, 220, 250, 280, 310, 340, 10, 40, 70},
			"ascendant": 100.2,
			"mc":        357.5,
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestNewRemoteRequiresBaseURL(t *testing.T) {
	_, err := NewRemote("  ", time.Second)
	require.Error(t, err)
}

func TestRemoteProbeAndVersion(t *testing.T) {
	srv := newRemoteServer(t)
	remote, err := NewRemote(srv.URL+"/", time.Second)
	require.NoError(t, err)
	require.Equal(t, "remote", remote.Version())

	require.NoError(t, remote.Probe(context.Background()))
	require.Equal(t, "remote/swe-2.10", remote.Version())
}

func TestRemoteBodyPosition(t *testing.T) {
	srv := newRemoteServer(t)
	remote, err := NewRemote(srv.URL, time.Second)
	require.NoError(t, err)

	pos, err := remote.BodyPosition(context.Background(), J2000, chart.Sun)
	require.NoError(t, err)
	require.Equal(t, chart.Position{Longitude: 280.37, Speed: 1.019}, pos)

	_, err = remote.BodyPosition(context.Background(), J2000, chart.Moon)
	require.ErrorContains(t, err, "missing lon")

	_, err = remote.BodyPosition(context.Background(), J2000, chart.Body("pluto"))
	require.ErrorContains(t, err, "status=400")
}

func TestRemoteHousesAndAscendant(t *testing.T) {
	srv := newRemoteServer(t)
	remote, err := NewRemote(srv.URL, time.Second)
	require.NoError(t, err)

	cusps, err := remote.HousesAndAscendant(context.Background(), J2000, 28.6, 77.2)
	require.NoError(t, err)
	require.Equal(t, 100.2, cusps.Ascendant)
	require.Equal(t, 357.5, cusps.MC)
	require.Equal(t, 10.0, cusps.Cusps[9])

	_, err = remote.HousesAndAscendant(context.Background(), J2000, 90, 0)
	require.ErrorContains(t, err, "status=422")
}

func TestRemoteCalendarIsLocal(t *testing.T) {
	remote, err := NewRemote("http://127.0.0.1:1", time.Second)
	require.NoError(t, err)
	require.Equal(t, chart.JulianDay(J2000), remote.CalendarToTime(2000, 1, 1, 12))
}
