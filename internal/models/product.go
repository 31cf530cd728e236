package models

// ProductConfig holds the single product sold by the checkout page.
// Prices are authored in the base currency and localized per visitor.
type ProductConfig struct {
	Name                string   `json:"name"`
	Description         string   `json:"description"`
	OriginalPrice       float64  `json:"original_price"`
	SalePrice           float64  `json:"sale_price"`
	BaseCurrency        string   `json:"base_currency"`
	SupportedCurrencies []string `json:"supported_currencies"`
	SupportedLanguages  []string `json:"supported_languages"`
}

func DefaultProduct() ProductConfig {
	return ProductConfig{
		Name:          "Premium Product",
		Description:   "Advanced digital solution for professionals",
		OriginalPrice: 297.00,
		SalePrice:     97.00,
		BaseCurrency:  "USD",
		SupportedCurrencies: []string{
			"USD", "EUR", "BRL", "JPY", "GBP", "CAD", "AUD", "CHF", "CNY", "INR",
			"KRW", "SGD", "HKD", "THB", "MYR", "IDR", "PHP", "VND", "TWD", "AED",
			"SAR", "ILS", "EGP", "ZAR", "NGN", "RUB", "TRY", "MXN", "ARS", "CLP",
		},
		SupportedLanguages: []string{
			"pt", "en", "es", "fr", "de", "it", "ja", "zh", "ar", "ru",
			"hi", "ko", "th", "vi", "tr",
		},
	}
}
