package security_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/checkout-system/checkout-orchestrator/internal/models"
	"github.com/checkout-system/checkout-orchestrator/internal/security"
)

func newInterceptedConsole(t *testing.T) (*security.Console, *security.Monitor, *security.Broker, *[]string) {
	t.Helper()

	var written []string
	record := func(msg string) { written = append(written, msg) }
	console := security.NewConsole(record, record, record)

	b := security.NewBroker(time.Millisecond, nil)
	t.Cleanup(b.Close)
	m := security.NewMonitor(b, console, nil, nil, nil)
	t.Cleanup(m.Teardown)

	// any enabled flag activates console monitoring
	m.Configure(models.SecurityConfig{AntiRightClick: true})
	return console, m, b, &written
}

func TestConsoleInfoAndWarnTriggerAlerts(t *testing.T) {
	console, _, b, written := newInterceptedConsole(t)

	console.Info("checking prices in devtools")
	assert.Eventually(t, func() bool {
		return len(b.Recent()) == 1
	}, time.Second, 5*time.Millisecond)

	time.Sleep(5 * time.Millisecond)
	console.Warn("another probe")
	assert.Eventually(t, func() bool {
		return len(b.Recent()) == 2
	}, time.Second, 5*time.Millisecond)

	// original channels still receive the output
	assert.Contains(t, *written, "checking prices in devtools")
	assert.Contains(t, *written, "another probe")
}

func TestConsoleDiagnosticsAreExempt(t *testing.T) {
	console, _, b, _ := newInterceptedConsole(t)

	console.Info(security.DiagnosticPrefix + " self test")
	console.Warn(security.DiagnosticPrefix + " self test")

	time.Sleep(30 * time.Millisecond)
	assert.Empty(t, b.Recent())
}

func TestConsoleErrorNeverIntercepted(t *testing.T) {
	console, _, b, written := newInterceptedConsole(t)

	console.Error("stack trace")

	time.Sleep(30 * time.Millisecond)
	assert.Empty(t, b.Recent())
	assert.Contains(t, *written, "stack trace")
}

func TestConsoleRestoredOnTeardown(t *testing.T) {
	console, m, b, _ := newInterceptedConsole(t)

	m.Teardown()
	console.Info("after teardown")
	console.Warn("after teardown")

	time.Sleep(30 * time.Millisecond)
	assert.Empty(t, b.Recent())
}
