package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.uber.org/zap"
)

const testJWTSecret = "karma-light-test-secret"

func newGuardedHandler(secret string, called *bool) http.Handler {
	return AuthMiddleware(secret, zap.NewNop())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if called != nil {
				*called = true
			}
			w.WriteHeader(http.StatusOK)
		}))
}

func signAdminToken(t testing.TB, secret, adminID string, expiresIn time.Duration) string {
	claims := jwt.MapClaims{
		"admin_id": adminID,
		"exp":      time.Now().Add(expiresIn).Unix(),
	}
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return tokenString
}

func TestProperty_AdminRoutesRejectMissingTokens(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("requests without authorization header are rejected", prop.ForAll(
		func(pathSuffix string, method string) bool {
			handler := newGuardedHandler(testJWTSecret, nil)

			req := httptest.NewRequest(method, "/admin/products/"+pathSuffix, nil)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			return w.Code == http.StatusUnauthorized
		},
		gen.AlphaString(),
		gen.OneConstOf("GET", "POST", "PUT", "DELETE"),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_ExpiredTokensAreRejected(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("expired tokens are rejected with 401", prop.ForAll(
		func(adminID string) bool {
			handler := newGuardedHandler(testJWTSecret, nil)
			tokenString := signAdminToken(t, testJWTSecret, adminID, -1*time.Hour)

			req := httptest.NewRequest("POST", "/admin/products", nil)
			req.Header.Set("Authorization", "Bearer "+tokenString)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			return w.Code == http.StatusUnauthorized
		},
		gen.AnyString(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// The client distinguishes an expired session from a bad token by the
// message, so the expired case must not collapse into "invalid token"
func TestExpiredTokenReportsExpiry(t *testing.T) {
	handler := newGuardedHandler(testJWTSecret, nil)
	tokenString := signAdminToken(t, testJWTSecret, "admin-1", -1*time.Hour)

	req := httptest.NewRequest("POST", "/admin/products", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}

	var response ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse error envelope: %v", err)
	}
	if response.Error.Message != "token expired" {
		t.Errorf("expected %q, got %q", "token expired", response.Error.Message)
	}
}

func TestProperty_ValidTokensExposeAdminID(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("valid tokens allow request processing and carry the admin id", prop.ForAll(
		func(adminID string) bool {
			handlerCalled := false
			handler := AuthMiddleware(testJWTSecret, zap.NewNop())(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					handlerCalled = true

					ctxAdminID, ok := GetAdminID(r.Context())
					if !ok || ctxAdminID != adminID {
						w.WriteHeader(http.StatusInternalServerError)
						return
					}
					w.WriteHeader(http.StatusOK)
				}))

			tokenString := signAdminToken(t, testJWTSecret, adminID, time.Hour)

			req := httptest.NewRequest("POST", "/admin/products", nil)
			req.Header.Set("Authorization", "Bearer "+tokenString)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			return handlerCalled && w.Code == http.StatusOK
		},
		gen.AnyString(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_TokensSignedWithWrongSecretRejected(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("tokens signed with another secret are rejected", prop.ForAll(
		func(adminID string) bool {
			handler := newGuardedHandler(testJWTSecret, nil)
			tokenString := signAdminToken(t, "some-other-secret", adminID, time.Hour)

			req := httptest.NewRequest("POST", "/admin/products", nil)
			req.Header.Set("Authorization", "Bearer "+tokenString)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			return w.Code == http.StatusUnauthorized
		},
		gen.AnyString(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_InvalidTokenFormatRejected(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("invalid token formats are rejected", prop.ForAll(
		func(invalidToken string) bool {
			handler := newGuardedHandler(testJWTSecret, nil)

			req := httptest.NewRequest("DELETE", "/admin/products/7", nil)
			req.Header.Set("Authorization", "Bearer "+invalidToken)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			return w.Code == http.StatusUnauthorized
		},
		gen.AnyString(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_MissingBearerPrefixRejected(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("tokens without Bearer prefix are rejected", prop.ForAll(
		func(token string) bool {
			handler := newGuardedHandler(testJWTSecret, nil)

			req := httptest.NewRequest("POST", "/admin/categories", nil)
			req.Header.Set("Authorization", token)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			return w.Code == http.StatusUnauthorized
		},
		gen.AnyString(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
