package localization

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/checkout-system/checkout-orchestrator/internal/metrics"
	"github.com/checkout-system/checkout-orchestrator/internal/models"
	"github.com/checkout-system/checkout-orchestrator/internal/telemetry"
)

// RateProvider supplies the exchange rate from the base currency to a
// target currency. It never fails; the second return value names the
// source of the rate (live, cache, fallback, identity, default).
type RateProvider interface {
	Rate(ctx context.Context, target string) (float64, string)
}

// Resolver produces a LocalizationContext for a visitor. Every failure
// path degrades to the next tier; Resolve never returns an error.
type Resolver struct {
	geo           GeoClient
	rates         RateProvider
	baseCurrency  string
	defaultLocale string
}

func NewResolver(geo GeoClient, rates RateProvider, baseCurrency, defaultLocale string) *Resolver {
	return &Resolver{
		geo:           geo,
		rates:         rates,
		baseCurrency:  baseCurrency,
		defaultLocale: defaultLocale,
	}
}

func (r *Resolver) Resolve(ctx context.Context) models.LocalizationContext {
	ctx, span := telemetry.Tracer.Start(ctx, "localization.Resolve")
	defer span.End()

	country, tier := r.resolveCountry(ctx)
	currency := CurrencyForCountry(country, r.baseCurrency)
	language := LanguageForCountry(country)

	rate := 1.0
	source := "identity"
	if currency != r.baseCurrency {
		rate, source = r.rates.Rate(ctx, currency)
	}

	metrics.LocalizationResolutions.WithLabelValues(tier).Inc()

	telemetry.Logger.Info("Localization resolved",
		zap.String("country", country),
		zap.String("currency", currency),
		zap.String("language", language),
		zap.Float64("exchange_rate", rate),
		zap.String("tier", tier),
		zap.String("rate_source", source),
	)

	return models.LocalizationContext{
		CountryCode:  country,
		CurrencyCode: currency,
		LanguageCode: language,
		ExchangeRate: rate,
		Resolved:     true,
	}
}

// resolveCountry walks the fallback tiers: IP geolocation, then the
// configured locale's primary subtag, then "US".
func (r *Resolver) resolveCountry(ctx context.Context) (country, tier string) {
	if r.geo != nil {
		code, err := r.geo.CountryCode(ctx)
		if err == nil {
			return strings.ToUpper(code), "geo"
		}
		telemetry.Logger.Warn("Geolocation lookup failed, trying locale fallback", zap.Error(err))
	}

	if lang := primarySubtag(r.defaultLocale); lang != "" {
		if code, ok := CountryForLanguage(lang); ok {
			return code, "language"
		}
	}

	return "US", "default"
}

func primarySubtag(locale string) string {
	if locale == "" {
		return ""
	}
	sub, _, _ := strings.Cut(locale, "-")
	return strings.ToLower(sub)
}
