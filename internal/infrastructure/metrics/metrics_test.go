package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_CuentaPorRuta(t *testing.T) {
	m := New(false)
	app := fiber.New()
	app.Use(m.Middleware())
	app.Get("/api/orders/:id/pdf", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNotFound) })
	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))

	for _, id := range []string{"a", "b"} {
		resp, err := app.Test(httptest.NewRequest("GET", "/api/orders/"+id+"/pdf", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	}
	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/orders/:id/pdf", "404")))

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.True(t, strings.Contains(string(body), "alnatural_http_requests_total"))
}

func TestObservadoresDeDominio(t *testing.T) {
	m := New(false)
	m.ObserveOrder("created")
	m.ObserveValidation(true)
	m.ObserveValidation(false)
	m.ObserveNotification("email", errors.New("smtp"))
	m.ObserveNotification("whatsapp", nil)
	m.ObserveJob("access-code-sweep", nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.orders.WithLabelValues("created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.validations.WithLabelValues("false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notifications.WithLabelValues("email", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notifications.WithLabelValues("whatsapp", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sweeps.WithLabelValues("access-code-sweep", "ok")))
}
