package tracking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"manvan/internal/middleware"
	"manvan/internal/storage"
	"manvan/internal/storage/relational"
)

type testEnv struct {
	router                    *gin.Engine
	owner, customer, stranger *storage.User
	booking                   *storage.Booking
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	store, err := relational.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(context.Background()) })

	env := &testEnv{
		owner:    &storage.User{Username: "olive", Email: "olive@example.com", Password: "x", IsVanOwner: true},
		customer: &storage.User{Username: "carla", Email: "carla@example.com", Password: "x"},
		stranger: &storage.User{Username: "sam", Email: "sam@example.com", Password: "x"},
	}
	for _, u := range []*storage.User{env.owner, env.customer, env.stranger} {
		require.NoError(t, store.CreateUser(ctx, u))
	}
	l := &storage.VanListing{UserID: env.owner.ID, Title: "Luton", VanSize: storage.VanLarge, HourlyRate: 25, Location: "London", Postcode: "N1"}
	require.NoError(t, store.CreateVanListing(ctx, l))
	env.booking = &storage.Booking{UserID: env.customer.ID, VanListingID: l.ID, BookingDate: time.Now(), Duration: 2, FromLocation: "A", ToLocation: "B"}
	require.NoError(t, store.CreateBooking(ctx, env.booking))

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if id := c.GetHeader("X-Test-User-ID"); id != "" {
			if u, err := store.GetUser(c.Request.Context(), storage.ID(id)); err == nil {
				middleware.SetUser(c, u)
			}
		}
		c.Next()
	})
	NewHandler(NewService(store)).RegisterRoutes(r.Group("/api"))
	env.router = r
	return env
}

func (e *testEnv) do(method, path string, body any, userID storage.ID) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-Test-User-ID", userID.String())
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func decodeData(t *testing.T, rr *httptest.ResponseRecorder, into any) {
	t.Helper()
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, into))
}

func point(bookingID storage.ID, lat, lng float64, at time.Time) map[string]any {
	return map[string]any{
		"bookingId": bookingID.String(),
		"latitude":  lat,
		"longitude": lng,
		"status":    "en_route",
		"timestamp": at.Format(time.RFC3339),
	}
}

func TestTracking(t *testing.T) {
	env := setup(t)
	base := fmt.Sprintf("/api/van-tracking/%s", env.booking.ID)

	rr := env.do(http.MethodGet, base+"/current", nil, env.customer.ID)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	start := time.Date(2026, 11, 2, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		rr = env.do(http.MethodPost, "/api/van-tracking/update", point(env.booking.ID, 51.5+float64(i)/100, -0.1, start.Add(time.Duration(i)*time.Minute)), env.owner.ID)
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	}

	rr = env.do(http.MethodGet, base+"/current", nil, env.customer.ID)
	require.Equal(t, http.StatusOK, rr.Code)
	var cur storage.TrackingPoint
	decodeData(t, rr, &cur)
	assert.InDelta(t, 51.52, cur.Latitude, 1e-9)
	assert.Equal(t, "en_route", cur.Status)

	rr = env.do(http.MethodGet, base+"/history?limit=2", nil, env.owner.ID)
	require.Equal(t, http.StatusOK, rr.Code)
	var hist []storage.TrackingPoint
	decodeData(t, rr, &hist)
	require.Len(t, hist, 2)
	assert.True(t, hist[0].RecordedAt.Before(hist[1].RecordedAt))
	assert.InDelta(t, 51.52, hist[1].Latitude, 1e-9)

	rr = env.do(http.MethodGet, base+"/history", nil, env.owner.ID)
	decodeData(t, rr, &hist)
	assert.Len(t, hist, 3)
}

func TestTracking_Access(t *testing.T) {
	env := setup(t)
	base := fmt.Sprintf("/api/van-tracking/%s", env.booking.ID)
	now := time.Now()

	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodGet, base+"/current", nil, "").Code)
	assert.Equal(t, http.StatusForbidden, env.do(http.MethodGet, base+"/current", nil, env.stranger.ID).Code)
	assert.Equal(t, http.StatusForbidden, env.do(http.MethodGet, base+"/history", nil, env.stranger.ID).Code)

	// the customer can watch but not report
	assert.Equal(t, http.StatusForbidden, env.do(http.MethodPost, "/api/van-tracking/update", point(env.booking.ID, 51, 0, now), env.customer.ID).Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodPost, "/api/van-tracking/update", point("9999", 51, 0, now), env.owner.ID).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodPost, "/api/van-tracking/update", point(env.booking.ID, 91, 0, now), env.owner.ID).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodGet, base+"/history?limit=-1", nil, env.owner.ID).Code)
}
