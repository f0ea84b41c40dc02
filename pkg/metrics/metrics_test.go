package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareCountsByRoutePattern(t *testing.T) {
	app := fiber.New()
	app.Use(metrics.Middleware())
	app.Get("/items/:id", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/metrics", metrics.Handler())

	before := testutil.ToFloat64(metrics.RequestTotal.WithLabelValues(http.MethodGet, "/items/:id", "200"))
	for _, id := range []string{"1", "2"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/items/"+id, nil), -1)
		require.NoError(t, err)
		resp.Body.Close()
	}
	after := testutil.ToFloat64(metrics.RequestTotal.WithLabelValues(http.MethodGet, "/items/:id", "200"))
	assert.Equal(t, before+2, after)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "storefront_http_requests_total")
}

func TestObserveOrderPlaced(t *testing.T) {
	before := testutil.ToFloat64(metrics.OrdersPlaced)
	metrics.ObserveOrderPlaced(3)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.OrdersPlaced))
}
