package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/checkout-system/checkout-orchestrator/internal/models"
	"github.com/checkout-system/checkout-orchestrator/internal/security"
)

type SecurityHandler struct {
	monitor *security.Monitor
	broker  *security.Broker
}

func NewSecurityHandler(monitor *security.Monitor, broker *security.Broker) *SecurityHandler {
	return &SecurityHandler{monitor: monitor, broker: broker}
}

func (h *SecurityHandler) GetConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"config":             h.monitor.Config(),
		"selection_disabled": h.monitor.SelectionDisabled(),
	})
}

func (h *SecurityHandler) PutConfig(c *gin.Context) {
	var cfg models.SecurityConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid security config"})
		return
	}

	h.monitor.Configure(cfg)
	c.JSON(http.StatusOK, gin.H{
		"config":             cfg,
		"selection_disabled": h.monitor.SelectionDisabled(),
	})
}

type securityEvent struct {
	Type     string                `json:"type" binding:"required"`
	Key      security.KeyEvent     `json:"key"`
	Viewport security.ViewportSize `json:"viewport"`
}

// PostEvent receives page events (context menu, key presses, viewport
// geometry) and answers whether the page must suppress the event.
func (h *SecurityHandler) PostEvent(c *gin.Context) {
	var ev securityEvent
	if err := c.ShouldBindJSON(&ev); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid security event"})
		return
	}

	var suppressed bool
	switch ev.Type {
	case "contextmenu":
		suppressed = h.monitor.HandleContextMenu()
	case "keydown":
		suppressed = h.monitor.HandleKey(ev.Key)
	case "viewport":
		h.monitor.ReportViewport(ev.Viewport)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown event type"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"suppressed": suppressed})
}

func (h *SecurityHandler) RecentAlerts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"alerts": h.broker.Recent()})
}
