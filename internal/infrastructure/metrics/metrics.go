// Package metrics colectores Prometheus del servicio y su exposición en /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "alnatural"

// Metrics agrupa los colectores sobre un registro propio.
type Metrics struct {
	registry *prometheus.Registry

	httpInFlight  prometheus.Gauge
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	orders        *prometheus.CounterVec
	validations   *prometheus.CounterVec
	notifications *prometheus.CounterVec
	sweeps        *prometheus.CounterVec
}

// New registra todos los colectores. withRuntime añade los de proceso y Go.
func New(withRuntime bool) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "http",
			Name: "inflight_requests", Help: "Peticiones HTTP en curso.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "http",
			Name: "requests_total", Help: "Peticiones HTTP atendidas.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "http",
			Name: "request_duration_seconds", Help: "Duración de las peticiones HTTP.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms a ~5s
		}, []string{"method", "route"}),
		orders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "orders",
			Name: "placed_total", Help: "Intentos de registro de pedidos por resultado.",
		}, []string{"result"}),
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "access",
			Name: "validations_total", Help: "Validaciones de códigos de acceso por resultado.",
		}, []string{"valid"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "notifications",
			Name: "sent_total", Help: "Notificaciones por canal y resultado.",
		}, []string{"channel", "result"}),
		sweeps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "jobs",
			Name: "runs_total", Help: "Ejecuciones de tareas programadas.",
		}, []string{"job", "result"}),
	}
	m.registry.MustRegister(
		m.httpInFlight, m.httpRequests, m.httpDuration,
		m.orders, m.validations, m.notifications, m.sweeps,
	)
	if withRuntime {
		m.registry.MustRegister(
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewGoCollector(),
		)
	}
	return m
}

// Registry expone el registro (tests y colectores adicionales).
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler handler HTTP con el formato de exposición de Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware mide cada petición Fiber por ruta registrada (no por path crudo).
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Path() == "/metrics" {
			return c.Next()
		}
		start := time.Now()
		m.httpInFlight.Inc()
		defer m.httpInFlight.Dec()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		route := "unmatched"
		if r := c.Route(); r != nil && r.Path != "" && r.Path != "/" {
			route = r.Path
		}
		method := c.Method()
		m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		m.httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
		return err
	}
}

// ObserveOrder cuenta un intento de pedido: "created" o el nombre del fallo.
func (m *Metrics) ObserveOrder(result string) {
	m.orders.WithLabelValues(result).Inc()
}

// ObserveValidation cuenta una validación de código.
func (m *Metrics) ObserveValidation(valid bool) {
	m.validations.WithLabelValues(strconv.FormatBool(valid)).Inc()
}

// ObserveNotification firma compatible con orders.NotificationObserver.
func (m *Metrics) ObserveNotification(channel string, err error) {
	m.notifications.WithLabelValues(channel, result(err)).Inc()
}

// ObserveJob cuenta una ejecución de tarea programada.
func (m *Metrics) ObserveJob(job string, err error) {
	m.sweeps.WithLabelValues(job, result(err)).Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
