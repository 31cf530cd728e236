package localization_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/checkout-system/checkout-orchestrator/internal/localization"
)

type stubGeo struct {
	country string
	err     error
}

func (s *stubGeo) CountryCode(context.Context) (string, error) {
	return s.country, s.err
}

type stubRates struct {
	rate   float64
	source string
	calls  []string
}

func (s *stubRates) Rate(_ context.Context, target string) (float64, string) {
	s.calls = append(s.calls, target)
	return s.rate, s.source
}

func TestCountryTables(t *testing.T) {
	tests := []struct {
		country  string
		currency string
		language string
	}{
		{"US", "USD", "en"}, {"BR", "BRL", "pt"}, {"JP", "JPY", "ja"},
		{"DE", "EUR", "de"}, {"GB", "GBP", "en"}, {"CA", "CAD", "fr"},
		{"AU", "AUD", "en"}, {"CH", "CHF", "en"}, {"CN", "CNY", "zh"},
		{"IN", "INR", "hi"}, {"KR", "KRW", "ko"}, {"SG", "SGD", "en"},
		{"HK", "HKD", "en"}, {"TH", "THB", "th"}, {"MY", "MYR", "en"},
		{"ID", "IDR", "en"}, {"PH", "PHP", "en"}, {"VN", "VND", "vi"},
		{"TW", "TWD", "zh"}, {"AE", "AED", "ar"}, {"SA", "SAR", "ar"},
		{"IL", "ILS", "en"}, {"EG", "EGP", "en"}, {"ZA", "ZAR", "en"},
		{"NG", "NGN", "en"}, {"RU", "RUB", "ru"}, {"TR", "TRY", "tr"},
		{"MX", "MXN", "es"}, {"AR", "ARS", "es"}, {"CL", "CLP", "en"},
	}

	for _, tt := range tests {
		t.Run(tt.country, func(t *testing.T) {
			assert.Equal(t, tt.currency, localization.CurrencyForCountry(tt.country, "USD"))
			assert.Equal(t, tt.language, localization.LanguageForCountry(tt.country))
		})
	}
}

func TestUnmappedCountryUsesBaseCurrencyAndEnglish(t *testing.T) {
	assert.Equal(t, "EUR", localization.CurrencyForCountry("XX", "EUR"))
	assert.Equal(t, "en", localization.LanguageForCountry("XX"))
}

func TestResolveFromGeolocation(t *testing.T) {
	rates := &stubRates{rate: 5.2, source: "fallback"}
	r := localization.NewResolver(&stubGeo{country: "BR"}, rates, "USD", "")

	ctx := r.Resolve(context.Background())

	assert.True(t, ctx.Resolved)
	assert.Equal(t, "BR", ctx.CountryCode)
	assert.Equal(t, "BRL", ctx.CurrencyCode)
	assert.Equal(t, "pt", ctx.LanguageCode)
	assert.Equal(t, 5.2, ctx.ExchangeRate)
	assert.Equal(t, []string{"BRL"}, rates.calls)
}

func TestResolveFallsBackToLocale(t *testing.T) {
	rates := &stubRates{rate: 110, source: "fallback"}
	geo := &stubGeo{err: errors.New("network unavailable")}
	r := localization.NewResolver(geo, rates, "USD", "ja-JP")

	ctx := r.Resolve(context.Background())

	assert.Equal(t, "JP", ctx.CountryCode)
	assert.Equal(t, "JPY", ctx.CurrencyCode)
	assert.Equal(t, "ja", ctx.LanguageCode)
	assert.Equal(t, 110.0, ctx.ExchangeRate)
}

func TestResolveDefaultsWhenEveryTierFails(t *testing.T) {
	rates := &stubRates{rate: 1, source: "identity"}
	geo := &stubGeo{err: errors.New("network unavailable")}
	r := localization.NewResolver(geo, rates, "USD", "xx-XX")

	ctx := r.Resolve(context.Background())

	assert.Equal(t, "US", ctx.CountryCode)
	assert.Equal(t, "USD", ctx.CurrencyCode)
	assert.Equal(t, "en", ctx.LanguageCode)
	assert.Equal(t, 1.0, ctx.ExchangeRate)
	// base currency: converter must not be consulted at all
	assert.Empty(t, rates.calls)
}

func TestResolveSkipsRateForBaseCurrency(t *testing.T) {
	rates := &stubRates{rate: 99, source: "live"}
	r := localization.NewResolver(&stubGeo{country: "US"}, rates, "USD", "")

	ctx := r.Resolve(context.Background())

	assert.Equal(t, 1.0, ctx.ExchangeRate)
	assert.Empty(t, rates.calls)
}

func TestHTTPGeoClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"country_code":"BR","city":"Sao Paulo"}`))
	}))
	defer srv.Close()

	g := localization.NewHTTPGeoClient(srv.URL)
	code, err := g.CountryCode(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "BR", code)
}

func TestHTTPGeoClientErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	g := localization.NewHTTPGeoClient(srv.URL)
	_, err := g.CountryCode(context.Background())
	assert.Error(t, err)

	g = localization.NewHTTPGeoClient("http://127.0.0.1:0")
	_, err = g.CountryCode(context.Background())
	assert.Error(t, err)
}
