package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"karma-light/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestLocaleMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		cookie         string
		acceptLanguage string
		want           domain.Locale
		wantCookie     bool
	}{
		{name: "defaults to Ukrainian", want: domain.LocaleUK},
		{name: "query parameter selects Russian", query: "ru", want: domain.LocaleRU, wantCookie: true},
		{name: "query parameter selects Ukrainian", query: "uk", want: domain.LocaleUK, wantCookie: true},
		{name: "unknown query falls back to Ukrainian", query: "de", want: domain.LocaleUK, wantCookie: true},
		{name: "cookie selects Russian", cookie: "ru", want: domain.LocaleRU},
		{name: "query wins over cookie", query: "uk", cookie: "ru", want: domain.LocaleUK, wantCookie: true},
		{name: "accept-language header selects Russian", acceptLanguage: "ru-RU,ru;q=0.9,en;q=0.8", want: domain.LocaleRU},
		{name: "accept-language header ignored for other languages", acceptLanguage: "en-US,en;q=0.9", want: domain.LocaleUK},
		{name: "cookie wins over accept-language", cookie: "uk", acceptLanguage: "ru-RU", want: domain.LocaleUK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got domain.Locale
			handler := LocaleMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = GetLocale(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			target := "/products"
			if tt.query != "" {
				target += "?lang=" + tt.query
			}
			req := httptest.NewRequest("GET", target, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "lang", Value: tt.cookie})
			}
			if tt.acceptLanguage != "" {
				req.Header.Set("Accept-Language", tt.acceptLanguage)
			}

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.want, got)

			gotCookie := false
			for _, c := range w.Result().Cookies() {
				if c.Name == "lang" {
					gotCookie = true
					assert.Equal(t, string(tt.want), c.Value)
				}
			}
			assert.Equal(t, tt.wantCookie, gotCookie)
		})
	}
}

func TestGetLocaleWithoutMiddleware(t *testing.T) {
	req := httptest.NewRequest("GET", "/products", nil)
	assert.Equal(t, domain.LocaleUK, GetLocale(req.Context()))
}
