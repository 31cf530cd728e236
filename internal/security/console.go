package security

import (
	"strings"
	"sync"
)

// DiagnosticPrefix marks the monitor's own console messages; they are
// exempt from interception so the monitor cannot trigger itself.
const DiagnosticPrefix = "[SECURITY]"

// Console models the page's three output channels. The monitor is the
// sole writer of the handler slots while interception is active and
// restores the originals on teardown.
type Console struct {
	mu   sync.Mutex
	info func(string)
	warn func(string)
	errf func(string)
}

func NewConsole(info, warn, errf func(string)) *Console {
	if info == nil {
		info = func(string) {}
	}
	if warn == nil {
		warn = func(string) {}
	}
	if errf == nil {
		errf = func(string) {}
	}
	return &Console{info: info, warn: warn, errf: errf}
}

func (c *Console) Info(msg string) {
	c.mu.Lock()
	fn := c.info
	c.mu.Unlock()
	fn(msg)
}

func (c *Console) Warn(msg string) {
	c.mu.Lock()
	fn := c.warn
	c.mu.Unlock()
	fn(msg)
}

// Error is never intercepted.
func (c *Console) Error(msg string) {
	c.mu.Lock()
	fn := c.errf
	c.mu.Unlock()
	fn(msg)
}

// intercept wraps the info and warn channels so that any call raises
// an alert, except the monitor's own diagnostics. It returns a restore
// handle that reinstates the original handlers; the error channel is
// left untouched.
func (c *Console) intercept(onTrigger func()) (restore func()) {
	c.mu.Lock()
	origInfo := c.info
	origWarn := c.warn
	c.info = func(msg string) {
		if !strings.HasPrefix(msg, DiagnosticPrefix) {
			onTrigger()
		}
		origInfo(msg)
	}
	c.warn = func(msg string) {
		if !strings.HasPrefix(msg, DiagnosticPrefix) {
			onTrigger()
		}
		origWarn(msg)
	}
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			c.info = origInfo
			c.warn = origWarn
			c.mu.Unlock()
		})
	}
}
