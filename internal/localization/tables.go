package localization

// Static mapping tables. These are the last resort behind the live
// geolocation lookup and must stay in sync with the supported currency
// and language lists in the product config.

var languageToCountry = map[string]string{
	"pt": "BR", "es": "ES", "fr": "FR", "de": "DE", "it": "IT",
	"ja": "JP", "zh": "CN", "ar": "SA", "ru": "RU", "hi": "IN",
	"ko": "KR", "th": "TH", "vi": "VN", "tr": "TR",
}

var countryToCurrency = map[string]string{
	"US": "USD", "BR": "BRL", "JP": "JPY", "DE": "EUR", "GB": "GBP", "CA": "CAD",
	"AU": "AUD", "CH": "CHF", "CN": "CNY", "IN": "INR", "KR": "KRW", "SG": "SGD",
	"HK": "HKD", "TH": "THB", "MY": "MYR", "ID": "IDR", "PH": "PHP", "VN": "VND",
	"TW": "TWD", "AE": "AED", "SA": "SAR", "IL": "ILS", "EG": "EGP", "ZA": "ZAR",
	"NG": "NGN", "RU": "RUB", "TR": "TRY", "MX": "MXN", "AR": "ARS", "CL": "CLP",
}

var countryToLanguage = map[string]string{
	"BR": "pt", "US": "en", "GB": "en", "ES": "es", "MX": "es", "AR": "es",
	"FR": "fr", "CA": "fr", "DE": "de", "AT": "de", "IT": "it", "JP": "ja",
	"CN": "zh", "TW": "zh", "SA": "ar", "AE": "ar", "RU": "ru", "IN": "hi",
	"KR": "ko", "TH": "th", "VN": "vi", "TR": "tr",
}

// CurrencyForCountry returns the visitor currency for a country code,
// falling back to the base currency for unmapped countries.
func CurrencyForCountry(country, baseCurrency string) string {
	if c, ok := countryToCurrency[country]; ok {
		return c
	}
	return baseCurrency
}

// LanguageForCountry returns the display language for a country code,
// defaulting to English.
func LanguageForCountry(country string) string {
	if l, ok := countryToLanguage[country]; ok {
		return l
	}
	return "en"
}

// CountryForLanguage maps a primary language subtag to a country.
func CountryForLanguage(lang string) (string, bool) {
	c, ok := languageToCountry[lang]
	return c, ok
}
