package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/checkout-system/checkout-orchestrator/internal/metrics"
	"github.com/checkout-system/checkout-orchestrator/internal/telemetry"
)

const cacheTTL = time.Hour

// Converter acquires exchange rates relative to a base currency and
// converts authored prices into a visitor's currency. Rate acquisition
// never fails: live service, then cache, then the static fallback
// table, then 1.
type Converter struct {
	base       string
	serviceURL string
	client     *http.Client
	cache      *redis.Client // optional
}

func NewConverter(base, serviceURL string, cache *redis.Client) *Converter {
	return &Converter{
		base:       base,
		serviceURL: serviceURL,
		client:     &http.Client{Timeout: 5 * time.Second},
		cache:      cache,
	}
}

func (c *Converter) BaseCurrency() string { return c.base }

// Rate returns the exchange rate from the base currency to target and
// the source that produced it (identity, live, cache, fallback, default).
func (c *Converter) Rate(ctx context.Context, target string) (float64, string) {
	rate, source := c.rate(ctx, target)
	metrics.ExchangeRateLookups.WithLabelValues(source).Inc()
	return rate, source
}

func (c *Converter) rate(ctx context.Context, target string) (float64, string) {
	if target == c.base {
		return 1, "identity"
	}

	rate, err := c.fetchLive(ctx, target)
	if err == nil {
		c.cacheSet(ctx, target, rate)
		return rate, "live"
	}
	telemetry.Logger.Warn("Exchange rate lookup failed, using fallback",
		zap.String("currency", target),
		zap.Error(err),
	)

	if rate, ok := c.cacheGet(ctx, target); ok {
		return rate, "cache"
	}
	if rate, ok := fallbackRates[target]; ok {
		return rate, "fallback"
	}
	return 1, "default"
}

func (c *Converter) fetchLive(ctx context.Context, target string) (float64, error) {
	ctx, span := telemetry.Tracer.Start(ctx, "currency.fetchLive")
	defer span.End()

	url := fmt.Sprintf("%s/v4/latest/%s", c.serviceURL, c.base)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("exchange rate service returned status %d", resp.StatusCode)
	}

	var body struct {
		Base  string             `json:"base"`
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, err
	}

	rate, ok := body.Rates[target]
	if !ok || rate <= 0 {
		return 0, fmt.Errorf("no rate for %s in response", target)
	}
	return rate, nil
}

func (c *Converter) cacheKey(target string) string {
	return fmt.Sprintf("exchange_rate:%s:%s", c.base, target)
}

func (c *Converter) cacheGet(ctx context.Context, target string) (float64, bool) {
	if c.cache == nil {
		return 0, false
	}
	val, err := c.cache.Get(ctx, c.cacheKey(target)).Result()
	if err != nil {
		return 0, false
	}
	rate, err := strconv.ParseFloat(val, 64)
	if err != nil || rate <= 0 {
		return 0, false
	}
	return rate, true
}

func (c *Converter) cacheSet(ctx context.Context, target string, rate float64) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Set(ctx, c.cacheKey(target), strconv.FormatFloat(rate, 'f', -1, 64), cacheTTL).Err(); err != nil {
		telemetry.Logger.Warn("Failed to cache exchange rate", zap.Error(err))
	}
}

// Convert localizes an amount, rounding to cents in the target
// currency. Displayed and charged amounts must agree to the cent, so
// this exact rounding is load-bearing.
func Convert(amount, rate float64) float64 {
	return math.Round(amount*rate*100) / 100
}

// MinorUnits expresses a converted amount in the smallest currency
// denomination for the payment gateway.
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// DiscountPercent is computed from converted amounts, not authored
// ones; the storefront shows this figure next to localized prices.
func DiscountPercent(original, sale float64) int {
	if original <= 0 {
		return 0
	}
	return int(math.Round(((original - sale) / original) * 100))
}
