package security

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/checkout-system/checkout-orchestrator/internal/models"
	"github.com/checkout-system/checkout-orchestrator/internal/telemetry"
)

// KeyEvent is a keyboard event reported by the page.
type KeyEvent struct {
	Key   string `json:"key"`
	Ctrl  bool   `json:"ctrl"`
	Shift bool   `json:"shift"`
}

// Monitor owns the tamper countermeasures. Each capability is toggled
// by SecurityConfig; Configure tears down whatever is installed and
// reinstalls from the new config, so disable is deterministic and no
// timer leaks.
type Monitor struct {
	broker     *Broker
	console    *Console
	viewport   ViewportSource
	checkpoint func()
	onReload   func()

	// Overridable before Configure; defaults match the page behavior.
	PollInterval      time.Duration
	ProbeInterval     time.Duration
	ProbeThreshold    time.Duration
	GeometryThreshold int

	mu                sync.Mutex
	cfg               models.SecurityConfig
	cancel            context.CancelFunc
	restoreConsole    func()
	devtoolsOpen      bool
	selectionDisabled bool
}

// NewMonitor wires the monitor to its collaborators. The checkpoint
// routine approximates the original breakpoint probe: if running it
// takes longer than ProbeThreshold the host is assumed paused by a
// debugger. onReload is invoked when that happens; both may be nil.
func NewMonitor(broker *Broker, console *Console, viewport ViewportSource, checkpoint func(), onReload func()) *Monitor {
	return &Monitor{
		broker:            broker,
		console:           console,
		viewport:          viewport,
		checkpoint:        checkpoint,
		onReload:          onReload,
		PollInterval:      time.Second,
		ProbeInterval:     4 * time.Second,
		ProbeThreshold:    100 * time.Millisecond,
		GeometryThreshold: 160,
	}
}

// Configure replaces the active configuration. Previously installed
// observers are torn down first; shared state (console channels, the
// selection flag) is restored before reinstallation.
func (m *Monitor) Configure(cfg models.SecurityConfig) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.teardownLocked()
	m.cfg = cfg

	if !cfg.AnyEnabled() {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel

	if cfg.AntiCopy {
		m.selectionDisabled = true
	}
	if cfg.AntiDevTools && m.viewport != nil {
		go m.pollDevTools(ctx)
	}
	if cfg.AntiDebug && m.checkpoint != nil {
		go m.probeDebugger(ctx)
	}
	if m.console != nil {
		m.restoreConsole = m.console.intercept(func() {
			m.broker.Trigger(m.alertMessage())
		})
	}

	telemetry.Logger.Info("Security monitor configured",
		zap.Bool("anti_right_click", cfg.AntiRightClick),
		zap.Bool("anti_copy", cfg.AntiCopy),
		zap.Bool("anti_dev_tools", cfg.AntiDevTools),
		zap.Bool("anti_debug", cfg.AntiDebug),
	)
}

// Teardown cancels the probes and restores shared state.
func (m *Monitor) Teardown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teardownLocked()
	m.cfg = models.SecurityConfig{}
}

func (m *Monitor) teardownLocked() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	if m.restoreConsole != nil {
		m.restoreConsole()
		m.restoreConsole = nil
	}
	m.devtoolsOpen = false
	m.selectionDisabled = false
}

func (m *Monitor) Config() models.SecurityConfig {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cfg
}

// SelectionDisabled reports whether the page should suppress text
// selection; active only while antiCopy is enabled.
func (m *Monitor) SelectionDisabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selectionDisabled
}

// HandleContextMenu reports whether the context menu event must be
// suppressed. Every suppression raises an alert, subject to debounce.
func (m *Monitor) HandleContextMenu() bool {
	m.mu.Lock()
	enabled := m.cfg.AntiRightClick
	m.mu.Unlock()

	if !enabled {
		return false
	}
	m.raise()
	return true
}

// HandleKey reports whether a key event must be suppressed.
func (m *Monitor) HandleKey(ev KeyEvent) bool {
	m.mu.Lock()
	cfg := m.cfg
	m.mu.Unlock()

	if cfg.AntiCopy && isCopyCombo(ev) {
		m.raise()
		return true
	}
	if cfg.AntiDevTools && isDevToolsCombo(ev) {
		m.raise()
		return true
	}
	return false
}

// ReportViewport feeds a geometry report straight to the transition
// check, for hosts that push rather than get polled.
func (m *Monitor) ReportViewport(size ViewportSize) {
	m.mu.Lock()
	enabled := m.cfg.AntiDevTools
	m.mu.Unlock()
	if !enabled {
		return
	}
	if rv, ok := m.viewport.(*ReportedViewport); ok {
		rv.Report(size)
	}
	m.checkGeometry(size)
}

func isCopyCombo(ev KeyEvent) bool {
	if !ev.Ctrl {
		return false
	}
	switch strings.ToLower(ev.Key) {
	case "c", "v", "x", "a":
		return true
	}
	return false
}

func isDevToolsCombo(ev KeyEvent) bool {
	if ev.Key == "F12" {
		return true
	}
	if ev.Ctrl && ev.Shift {
		switch strings.ToUpper(ev.Key) {
		case "I", "C":
			return true
		}
	}
	return ev.Ctrl && strings.ToLower(ev.Key) == "u"
}

// pollDevTools compares outer and inner viewport dimensions against
// the pixel threshold. The alert is raised once per transition into
// the open state, not once per poll.
func (m *Monitor) pollDevTools(ctx context.Context) {
	ticker := time.NewTicker(m.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.checkGeometry(m.viewport.Dimensions())
		}
	}
}

func (m *Monitor) checkGeometry(size ViewportSize) {
	open := size.OuterWidth-size.InnerWidth > m.GeometryThreshold ||
		size.OuterHeight-size.InnerHeight > m.GeometryThreshold

	m.mu.Lock()
	transition := open && !m.devtoolsOpen
	m.devtoolsOpen = open
	m.mu.Unlock()

	if transition {
		m.raise()
	}
}

// probeDebugger times the checkpoint routine. A paused debugger shows
// up as wall-clock time far beyond the threshold; best effort and
// host-dependent by nature.
func (m *Monitor) probeDebugger(ctx context.Context) {
	ticker := time.NewTicker(m.ProbeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			start := time.Now()
			m.checkpoint()
			if time.Since(start) > m.ProbeThreshold {
				m.raise()
				if m.onReload != nil {
					m.onReload()
				}
			}
		}
	}
}

func (m *Monitor) raise() {
	m.broker.Trigger(m.alertMessage())
	if m.console != nil {
		m.console.Warn(DiagnosticPrefix + " unauthorized access attempt detected")
	}
}

func (m *Monitor) alertMessage() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cfg.AlertMessage != "" {
		return m.cfg.AlertMessage
	}
	return models.DefaultSecurityConfig().AlertMessage
}
