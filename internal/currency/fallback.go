package currency

// fallbackRates are approximate rates relative to the base currency,
// used when the live exchange-rate service is unavailable or does not
// cover the target currency.
var fallbackRates = map[string]float64{
	"BRL": 5.2, "EUR": 0.85, "GBP": 0.73, "JPY": 110, "CAD": 1.25,
	"AUD": 1.35, "CHF": 0.92, "CNY": 6.4, "INR": 74, "KRW": 1180,
	"SGD": 1.35, "HKD": 7.8, "THB": 33, "MYR": 4.1, "IDR": 14200,
	"PHP": 50, "VND": 23000, "TWD": 28, "AED": 3.67, "SAR": 3.75,
	"ILS": 3.2, "EGP": 15.7, "ZAR": 14.5, "NGN": 411, "RUB": 74,
	"TRY": 8.5, "MXN": 20, "ARS": 98, "CLP": 800,
}

var currencySymbols = map[string]string{
	"USD": "$", "EUR": "€", "BRL": "R$", "JPY": "¥", "GBP": "£", "CAD": "C$",
	"AUD": "A$", "CHF": "CHF", "CNY": "¥", "INR": "₹", "KRW": "₩", "SGD": "S$",
	"HKD": "HK$", "THB": "฿", "MYR": "RM", "IDR": "Rp", "PHP": "₱", "VND": "₫",
	"TWD": "NT$", "AED": "د.إ", "SAR": "﷼", "ILS": "₪", "EGP": "£", "ZAR": "R",
	"NGN": "₦", "RUB": "₽", "TRY": "₺", "MXN": "$", "ARS": "$", "CLP": "$",
}

// Symbol returns the display symbol for a currency code, or the code
// itself when no symbol is known.
func Symbol(code string) string {
	if s, ok := currencySymbols[code]; ok {
		return s
	}
	return code
}
