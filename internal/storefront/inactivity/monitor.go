// Package inactivity cierra la sesión tras un periodo sin actividad.
package inactivity

import (
	"sync"
	"time"

	"github.com/jhoicas/alnatural-api/internal/storefront/notice"
)

// DefaultTimeout tiempo sin actividad antes de cerrar la sesión.
const DefaultTimeout = 15 * time.Minute

// ActivitySource fuente de señales de actividad del usuario (teclado, peticiones...).
type ActivitySource interface {
	Subscribe(fn func())
	Unsubscribe()
}

// Config parámetros del monitor. Source, OnLogout y OnExpired son opcionales.
type Config struct {
	Timeout   time.Duration
	Source    ActivitySource
	OnLogout  func()
	OnExpired func(notice.Notice)
}

type stopper interface {
	Stop() bool
}

// Monitor cuenta atrás reiniciada con cada actividad. Mantiene como máximo
// un temporizador pendiente.
type Monitor struct {
	cfg       Config
	afterFunc func(d time.Duration, f func()) stopper

	mu      sync.Mutex
	enabled bool
	gen     uint64
	timer   stopper
}

// New crea un monitor deshabilitado.
func New(cfg Config) *Monitor {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Monitor{
		cfg: cfg,
		afterFunc: func(d time.Duration, f func()) stopper {
			return time.AfterFunc(d, f)
		},
	}
}

// SetEnabled activa o desactiva el monitor; se enlaza al estado de autenticación.
// Al desactivar se cancela el temporizador y se deja de escuchar actividad.
func (m *Monitor) SetEnabled(enabled bool) {
	m.mu.Lock()
	if m.enabled == enabled {
		m.mu.Unlock()
		return
	}
	m.enabled = enabled
	if enabled {
		m.resetLocked()
	} else {
		m.cancelLocked()
	}
	m.mu.Unlock()

	// La fuente se toca fuera del lock: puede invocar Touch de forma síncrona.
	if m.cfg.Source == nil {
		return
	}
	if enabled {
		m.cfg.Source.Subscribe(m.Touch)
	} else {
		m.cfg.Source.Unsubscribe()
	}
}

// Enabled indica si el monitor está activo.
func (m *Monitor) Enabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.enabled
}

// Touch registra actividad y reinicia la cuenta atrás.
func (m *Monitor) Touch() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.enabled {
		m.resetLocked()
	}
}

func (m *Monitor) resetLocked() {
	m.cancelLocked()
	gen := m.gen
	m.timer = m.afterFunc(m.cfg.Timeout, func() { m.fire(gen) })
}

// cancelLocked detiene el temporizador e invalida los callbacks ya programados.
func (m *Monitor) cancelLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.gen++
}

func (m *Monitor) fire(gen uint64) {
	m.mu.Lock()
	if !m.enabled || gen != m.gen {
		m.mu.Unlock()
		return
	}
	m.enabled = false
	m.timer = nil
	m.gen++
	m.mu.Unlock()

	if m.cfg.Source != nil {
		m.cfg.Source.Unsubscribe()
	}
	if m.cfg.OnLogout != nil {
		m.cfg.OnLogout()
	}
	if m.cfg.OnExpired != nil {
		m.cfg.OnExpired(notice.SessionExpired)
	}
}
