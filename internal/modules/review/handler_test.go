package review

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"manvan/internal/middleware"
	"manvan/internal/storage"
	"manvan/internal/storage/relational"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *relational.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := relational.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(context.Background()) })

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
	return r, store
}

func post(r http.Handler, body any, userID storage.ID) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	_ = json.NewEncoder(&buf).Encode(body)
	req := httptest.NewRequest(http.MethodPost, "/api/reviews", &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-Test-User-ID", userID.String())
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestCreateReview(t *testing.T) {
	r, store := setupTestRouter(t)
	ctx := context.Background()

	owner := &storage.User{Username: "olive", Email: "olive@example.com", Password: "x", IsVanOwner: true}
	reviewer := &storage.User{Username: "carla", Email: "carla@example.com", Password: "x", FullName: "Carla C"}
	require.NoError(t, store.CreateUser(ctx, owner))
	require.NoError(t, store.CreateUser(ctx, reviewer))
	l := &storage.VanListing{UserID: owner.ID, Title: "Luton", VanSize: storage.VanLarge, HourlyRate: 25, Location: "London", Postcode: "N1"}
	require.NoError(t, store.CreateVanListing(ctx, l))

	t.Run("anonymous", func(t *testing.T) {
		rr := post(r, map[string]any{"vanListingId": l.ID, "rating": 5}, "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	for _, rating := range []int{0, 6, -1} {
		rr := post(r, map[string]any{"vanListingId": l.ID, "rating": rating}, reviewer.ID)
		assert.Equal(t, http.StatusBadRequest, rr.Code, "rating %d", rating)
	}

	t.Run("unknown listing", func(t *testing.T) {
		rr := post(r, map[string]any{"vanListingId": "9999", "rating": 4}, reviewer.ID)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	rr := post(r, map[string]any{"vanListingId": l.ID, "rating": 4, "comment": " Careful movers "}, reviewer.ID)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	rr = post(r, map[string]any{"vanListingId": l.ID, "rating": 5}, owner.ID)
	require.Equal(t, http.StatusCreated, rr.Code)

	reviews, err := store.GetReviewsByVanListing(ctx, l.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, "olive", reviews[0].ReviewerName)
	assert.Equal(t, "Carla C", reviews[1].ReviewerName)
	assert.Equal(t, "Careful movers", reviews[1].Comment)

	avg, err := store.GetAverageRatingForVanListing(ctx, l.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.5, avg, 0.001)
}
