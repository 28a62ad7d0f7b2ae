package intervals

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/dickravison/health-fitness-tracker/pkg/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Options{BaseURL: srv.URL, APIKey: "secret", RetryDelay: 0}, nil)
}

func TestActivities_RequestShapeAndDecimals(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		require.Equal(t, "API_KEY", user)
		require.Equal(t, "secret", pass)
		require.Equal(t, "/athlete/i123/activities", r.URL.Path)
		require.Equal(t, "2024-03-01", r.URL.Query().Get("oldest"))
		require.False(t, r.URL.Query().Has("newest"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"i9","type":"Run","start_date_local":"2024-03-05T07:30:00","distance":10012.35,"average_speed":3.3,"calories":null,"icu_hr_zone_times":[60,1200]}]`))
	})

	acts, _, err := client.Activities(context.Background(), "i123", "2024-03-01", "")
	require.NoError(t, err)
	require.Len(t, acts, 1)
	require.Equal(t, "10012.35", acts[0].Distance.String())
	require.Equal(t, "3.3", acts[0].AverageSpeed.String())
	require.Nil(t, acts[0].Calories)
	require.Nil(t, acts[0].MaxSpeed)
	require.Len(t, acts[0].HRZoneTimes, 2)
}

func TestActivities_BodyReturnedAsReceived(t *testing.T) {
	payload := `[{"id":"i1","type":"Run","start_date_local":"2024-04-10T18:05:00","distance":5000.0,"icu_efficiency_factor":1.42,"source":"GARMIN"}]`
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(payload))
	})

	acts, body, err := client.Activities(context.Background(), "i123", "2024-04-01", "")
	require.NoError(t, err)
	require.Len(t, acts, 1)
	require.Equal(t, "5000", acts[0].Distance.String())
	require.Equal(t, payload, string(body))
}

func TestEvents_Query(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/athlete/i123/events", r.URL.Path)
		q := r.URL.Query()
		require.Equal(t, "WORKOUT", q.Get("category"))
		require.Equal(t, "2024-03-11", q.Get("oldest"))
		require.Equal(t, "2024-03-17", q.Get("newest"))
		_, _ = w.Write([]byte(`[{"id":7,"start_date_local":"2024-03-12T00:00:00","type":"Ride","icu_intensity":75.5,"moving_time":3600}]`))
	})

	events, err := client.Events(context.Background(), "i123", "2024-03-11", "2024-03-17")
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, int64(7), events[0].ID)
	require.Equal(t, "75.5", events[0].Intensity.String())
	require.Nil(t, events[0].Distance)
}

func TestAthlete(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/athlete/i123", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":"i123","sex":"M","icu_weight":72.5,"icu_date_of_birth":"1990-06-15","sportSettings":[{"types":["Run","VirtualRun"],"threshold_pace":4.5,"pace_units":"MINS_KM"}]}`))
	})

	athlete, err := client.Athlete(context.Background(), "i123")
	require.NoError(t, err)
	require.Equal(t, "M", athlete.Sex)
	require.Equal(t, "72.5", athlete.Weight.String())
	require.Len(t, athlete.SportSettings, 1)
	require.Nil(t, athlete.SportSettings[0].FTP)
}

func TestFetch_RetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`[{"id":"2024-03-05","atl":40,"ctl":50,"rampRate":1.2}]`))
	})

	days, _, err := client.Wellness(context.Background(), "i123", "2024-03-01", "")
	require.NoError(t, err)
	require.Len(t, days, 1)
	require.Equal(t, int32(3), calls.Load())
}

func TestFetch_ExhaustedIsFetchError(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "nope", http.StatusInternalServerError)
	})

	acts, body, err := client.Activities(context.Background(), "i123", "2024-03-01", "")
	require.Nil(t, acts)
	require.Nil(t, body)
	require.ErrorIs(t, err, apperrors.ErrFetchError)
	require.Equal(t, int32(DefaultAttempts), calls.Load())
}

func TestFetch_MalformedBodyIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{not json`))
	})

	_, err := client.Athlete(context.Background(), "i123")
	require.ErrorIs(t, err, apperrors.ErrFetchError)
	require.Equal(t, int32(1), calls.Load())
}

func TestFetch_ContextCancelledDuringDelay(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)
	client := NewClient(Options{BaseURL: srv.URL, RetryDelay: DefaultRetryDelay * 30}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := client.Wellness(ctx, "i123", "2024-03-01", "")
	require.ErrorIs(t, err, apperrors.ErrFetchError)
}
