package middleware

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"math/big"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

const (
	testKeyID  = "test-key-cd"
	testIssuer = "https://idp.test/realms/casedesk"
)

// generateTestKey генерирует RSA ключ для тестов.
func generateTestKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}
	return key
}

// buildJWKSetJSON строит JWKS JSON из RSA публичного ключа.
func buildJWKSetJSON(pub *rsa.PublicKey, kid string) json.RawMessage {
	jwks := map[string]any{
		"keys": []map[string]any{
			{
				"kty": "RSA",
				"kid": kid,
				"use": "sig",
				"alg": "RS256",
				"n":   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
				"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
			},
		},
	}
	data, _ := json.Marshal(jwks)
	return data
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestJWTAuth(t *testing.T, key *rsa.PrivateKey) *JWTAuth {
	t.Helper()
	kf, err := keyfunc.NewJWKSetJSON(buildJWKSetJSON(&key.PublicKey, testKeyID))
	if err != nil {
		t.Fatalf("не удалось создать keyfunc: %v", err)
	}
	return NewJWTAuthWithKeyfunc(kf, testIssuer, testLogger())
}

// signToken подписывает claims тестовым ключом.
func signToken(t *testing.T, key *rsa.PrivateKey, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = testKeyID
	s, err := token.SignedString(key)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func userClaims(sub, username string, exp time.Time) jwt.MapClaims {
	return jwt.MapClaims{
		"sub":                sub,
		"preferred_username": username,
		"email":              username + "@example.com",
		"iss":                testIssuer,
		"exp":                jwt.NewNumericDate(exp),
		"iat":                jwt.NewNumericDate(time.Now()),
	}
}

func TestJWTAuth_ValidToken(t *testing.T) {
	key := generateTestKey(t)
	auth := newTestJWTAuth(t, key)
	token := signToken(t, key, userClaims("user-1", "alice", time.Now().Add(time.Hour)))

	var gotID, gotName, gotEmail string
	handler := auth.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := IdentityFromContext(r.Context())
		if id == nil {
			t.Fatal("профиль не найден в контексте")
		}
		gotID, gotName, gotEmail = id.ID, id.Username, id.Email
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("статус = %d, ожидался 200", rec.Code)
	}
	if gotID != "user-1" || gotName != "alice" || gotEmail != "alice@example.com" {
		t.Errorf("профиль = (%q, %q, %q)", gotID, gotName, gotEmail)
	}
}

func TestJWTAuth_Rejected(t *testing.T) {
	key := generateTestKey(t)
	other := generateTestKey(t)
	auth := newTestJWTAuth(t, key)

	wrongIssuer := userClaims("user-1", "alice", time.Now().Add(time.Hour))
	wrongIssuer["iss"] = "https://evil.test"
	noSub := userClaims("", "alice", time.Now().Add(time.Hour))

	tests := []struct {
		name   string
		header string
	}{
		{"нет заголовка", ""},
		{"не Bearer", "Basic dXNlcjpwYXNz"},
		{"пустой токен", "Bearer "},
		{"мусор", "Bearer not.a.jwt"},
		{"просрочен", "Bearer " + signToken(t, key, userClaims("user-1", "alice", time.Now().Add(-time.Hour)))},
		{"чужой ключ", "Bearer " + signToken(t, other, userClaims("user-1", "alice", time.Now().Add(time.Hour)))},
		{"другой issuer", "Bearer " + signToken(t, key, wrongIssuer)},
		{"без sub", "Bearer " + signToken(t, key, noSub)},
	}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("обработчик не должен вызываться")
	})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/cases", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			auth.Middleware()(next).ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("статус = %d, ожидался 401", rec.Code)
			}
			var body struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil || body.Error.Code != "UNAUTHORIZED" {
				t.Errorf("тело ответа: code = %q, err = %v", body.Error.Code, err)
			}
		})
	}
}

func TestIdentityFromClaims_UsernameFallback(t *testing.T) {
	c := &tokenClaims{}
	c.Subject = "user-9"
	if id := identityFromClaims(c); id.Username != "user-9" {
		t.Errorf("Username = %q, ожидался sub", id.Username)
	}
	c.Name = "Jane Doe"
	if id := identityFromClaims(c); id.Username != "Jane Doe" {
		t.Errorf("Username = %q, ожидалось name", id.Username)
	}
}

func TestJWKSReadinessChecker(t *testing.T) {
	key := generateTestKey(t)
	jwks := buildJWKSetJSON(&key.PublicKey, testKeyID)

	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"ключи есть", http.StatusOK, string(jwks), "ok"},
		{"нет ключей", http.StatusOK, `{"keys":[]}`, "degraded"},
		{"не JSON", http.StatusOK, `<html>`, "degraded"},
		{"ошибка", http.StatusBadGateway, ``, "fail"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			status, msg := NewJWKSReadinessChecker(srv.URL, time.Second).CheckReady()
			if status != tt.want {
				t.Errorf("CheckReady() = (%q, %q), ожидался %q", status, msg, tt.want)
			}
		})
	}
}
