package domain

// Locale identifies one of the storefront languages.
type Locale string

const (
	// LocaleUK is Ukrainian, the storefront's canonical customer-facing language.
	LocaleUK Locale = "uk"
	// LocaleRU is Russian, the shop operator's working language.
	LocaleRU Locale = "ru"
)

// ParseLocale returns the matching locale or LocaleUK for anything unknown.
func ParseLocale(s string) Locale {
	if Locale(s) == LocaleRU {
		return LocaleRU
	}
	return LocaleUK
}
