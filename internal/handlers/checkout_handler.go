package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/checkout-system/checkout-orchestrator/internal/currency"
	"github.com/checkout-system/checkout-orchestrator/internal/gateway"
	"github.com/checkout-system/checkout-orchestrator/internal/interfaces"
	"github.com/checkout-system/checkout-orchestrator/internal/localization"
	"github.com/checkout-system/checkout-orchestrator/internal/models"
	"github.com/checkout-system/checkout-orchestrator/internal/service"
	"github.com/checkout-system/checkout-orchestrator/internal/telemetry"
)

type CheckoutHandler struct {
	orchestrator *service.Orchestrator
	resolver     *localization.Resolver
	product      models.ProductConfig
}

func NewCheckoutHandler(orchestrator *service.Orchestrator, resolver *localization.Resolver, product models.ProductConfig) *CheckoutHandler {
	return &CheckoutHandler{
		orchestrator: orchestrator,
		resolver:     resolver,
		product:      product,
	}
}

// pricing localizes the authored prices for a resolved context. The
// discount is computed from the converted amounts.
func (h *CheckoutHandler) pricing(loc models.LocalizationContext) gin.H {
	original := currency.Convert(h.product.OriginalPrice, loc.ExchangeRate)
	sale := currency.Convert(h.product.SalePrice, loc.ExchangeRate)

	return gin.H{
		"original_price":   original,
		"sale_price":       sale,
		"discount_percent": currency.DiscountPercent(original, sale),
		"currency_code":    loc.CurrencyCode,
		"currency_symbol":  currency.Symbol(loc.CurrencyCode),
		"language_code":    loc.LanguageCode,
	}
}

func (h *CheckoutHandler) CreateSession(c *gin.Context) {
	session, err := h.orchestrator.CreateSession(c.Request.Context())
	if err != nil {
		telemetry.Logger.Error("Failed to create checkout session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session": session,
		"pricing": h.pricing(session.Localization),
		"product": gin.H{
			"name":        h.product.Name,
			"description": h.product.Description,
		},
	})
}

func (h *CheckoutHandler) GetSession(c *gin.Context) {
	session, err := h.orchestrator.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"session": session,
		"pricing": h.pricing(session.Localization),
	})
}

func (h *CheckoutHandler) SubmitCustomer(c *gin.Context) {
	var info models.CustomerInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name, email and phone are required"})
		return
	}

	session, err := h.orchestrator.SubmitCustomerInfo(c.Request.Context(), c.Param("id"), info)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

func (h *CheckoutHandler) SubmitPayment(c *gin.Context) {
	var card gateway.CardDetails
	if err := c.ShouldBindJSON(&card); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid card details"})
		return
	}

	session, err := h.orchestrator.SubmitPayment(c.Request.Context(), c.Param("id"), card)
	if err != nil {
		h.respondError(c, err)
		return
	}

	// a FAILED terminal state is a domain outcome, not a transport
	// error; the UI renders failure_reason and offers retry
	c.JSON(http.StatusOK, gin.H{"session": session})
}

func (h *CheckoutHandler) Retry(c *gin.Context) {
	session, err := h.orchestrator.Retry(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// Localization resolves a context outside any session, for storefront
// bootstrap rendering.
func (h *CheckoutHandler) Localization(c *gin.Context) {
	loc := h.resolver.Resolve(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"localization": loc,
		"pricing":      h.pricing(loc),
	})
}

func (h *CheckoutHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, interfaces.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
	case errors.Is(err, service.ErrSubmissionInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrIntakeIncomplete):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		telemetry.Logger.Error("Checkout request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
