package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"karma-light/internal/domain"
)

// LocaleKey is the context key for the resolved shopper locale
const LocaleKey contextKey = "locale"

const localeCookieName = "lang"

// LocaleMiddleware resolves the shopper's locale for the request. The
// ?lang query parameter wins and is persisted in a cookie, then the
// cookie, then the Accept-Language header. Anything unrecognized falls
// back to Ukrainian.
func LocaleMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		loc, fromQuery := resolveLocale(r)

		if fromQuery {
			http.SetCookie(w, &http.Cookie{
				Name:     localeCookieName,
				Value:    string(loc),
				Path:     "/",
				Expires:  time.Now().Add(365 * 24 * time.Hour),
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), LocaleKey, loc)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func resolveLocale(r *http.Request) (domain.Locale, bool) {
	if lang := r.URL.Query().Get("lang"); lang != "" {
		return domain.ParseLocale(lang), true
	}

	if cookie, err := r.Cookie(localeCookieName); err == nil && cookie.Value != "" {
		return domain.ParseLocale(cookie.Value), false
	}

	// Only the leading language tag matters; "ru-RU,ru;q=0.9" is Russian.
	if header := r.Header.Get("Accept-Language"); header != "" {
		first := strings.TrimSpace(strings.SplitN(header, ",", 2)[0])
		if lang, _, ok := strings.Cut(first, "-"); ok {
			first = lang
		}
		if strings.EqualFold(first, string(domain.LocaleRU)) {
			return domain.LocaleRU, false
		}
	}

	return domain.LocaleUK, false
}

// GetLocale extracts the resolved locale from request context, defaulting
// to Ukrainian when the middleware did not run.
func GetLocale(ctx context.Context) domain.Locale {
	if loc, ok := ctx.Value(LocaleKey).(domain.Locale); ok {
		return loc
	}
	return domain.LocaleUK
}
