package models

// LocalizationContext is resolved once per session and immutable after
// resolution. ExchangeRate is always > 0; it is 1 whenever the visitor
// currency equals the base currency or resolution has not completed.
type LocalizationContext struct {
	CountryCode  string  `json:"country_code"`
	CurrencyCode string  `json:"currency_code"`
	LanguageCode string  `json:"language_code"`
	ExchangeRate float64 `json:"exchange_rate"`
	Resolved     bool    `json:"resolved"`
}
