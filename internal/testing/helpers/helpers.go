package helpers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/airqo/platform/api/internal/model"
	"github.com/airqo/platform/api/pkg/jwt"
)

// ============================================================================
// JWT Helpers
// ============================================================================

// TestSecret signs every token made by JWTHelper
const TestSecret = "airqo-test-secret-0123456789abcdef"

// TestIssuer is the issuer of test tokens
const TestIssuer = "airqo-test"

// JWTHelper issues tokens the way login does, for a given tenant
type JWTHelper struct {
	Service *jwt.Service
}

// NewJWTHelper creates a JWT helper backed by a real HS256 service
func NewJWTHelper(t *testing.T) *JWTHelper {
	t.Helper()

	svc, err := jwt.NewService(jwt.Config{
		Secret:         TestSecret,
		Issuer:         TestIssuer,
		ExpirationMins: 15,
	})
	if err != nil {
		t.Fatalf("helpers: failed to create JWT service: %v", err)
	}
	return &JWTHelper{Service: svc}
}

// GenerateToken creates a valid token for user in tenant
func (h *JWTHelper) GenerateToken(t *testing.T, user *model.User, tenant string) string {
	t.Helper()
	return h.sign(t, claimsFor(user, tenant))
}

// GenerateExpiredToken creates a token that expired an hour ago
func (h *JWTHelper) GenerateExpiredToken(t *testing.T, user *model.User, tenant string) string {
	t.Helper()
	claims := claimsFor(user, tenant)
	claims.ExpiresAt = gojwt.NewNumericDate(time.Now().Add(-time.Hour))
	return h.sign(t, claims)
}

func (h *JWTHelper) sign(t *testing.T, claims jwt.Claims) string {
	t.Helper()
	token, err := h.Service.Sign(claims)
	if err != nil {
		t.Fatalf("helpers: failed to sign token: %v", err)
	}
	return token
}

func claimsFor(user *model.User, tenant string) jwt.Claims {
	role := string(user.Role)
	if role == "" {
		role = string(model.UserRoleUser)
	}
	return jwt.Claims{
		UserID:   user.ID,
		Email:    user.Email,
		UserName: user.UserName,
		Tenant:   tenant,
		Role:     role,
	}
}

// ============================================================================
// HTTP Request Helpers
// ============================================================================

// RequestBuilder helps construct HTTP requests for testing
type RequestBuilder struct {
	t       *testing.T
	method  string
	path    string
	query   url.Values
	body    interface{}
	headers map[string]string
}

// NewRequest creates a new request builder
func NewRequest(t *testing.T, method, path string) *RequestBuilder {
	t.Helper()
	return &RequestBuilder{
		t:       t,
		method:  method,
		path:    path,
		query:   url.Values{},
		headers: make(map[string]string),
	}
}

// WithBody sets the request body (will be JSON encoded)
func (rb *RequestBuilder) WithBody(body interface{}) *RequestBuilder {
	rb.body = body
	return rb
}

// WithTenant sets the tenant query parameter
func (rb *RequestBuilder) WithTenant(tenant string) *RequestBuilder {
	return rb.WithQuery("tenant", tenant)
}

// WithQuery adds a query parameter
func (rb *RequestBuilder) WithQuery(key, value string) *RequestBuilder {
	rb.query.Add(key, value)
	return rb
}

// WithToken sets a bearer token
func (rb *RequestBuilder) WithToken(token string) *RequestBuilder {
	rb.headers["Authorization"] = "Bearer " + token
	return rb
}

// Build creates the HTTP request
func (rb *RequestBuilder) Build() *http.Request {
	rb.t.Helper()

	var bodyReader io.Reader
	if rb.body != nil {
		bodyBytes, err := json.Marshal(rb.body)
		if err != nil {
			rb.t.Fatalf("helpers: failed to marshal body: %v", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	target := rb.path
	if len(rb.query) > 0 {
		target += "?" + rb.query.Encode()
	}
	req := httptest.NewRequest(rb.method, target, bodyReader)

	if rb.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range rb.headers {
		req.Header.Set(k, v)
	}
	return req
}

// Serve runs the request against h and returns the recorded response
func (rb *RequestBuilder) Serve(h http.Handler) *httptest.ResponseRecorder {
	rb.t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, rb.Build())
	return rec
}

// ============================================================================
// Response Assertion Helpers
// ============================================================================

// Envelope is a decoded response body. Resource keys stay in Raw.
type Envelope struct {
	Success bool
	Message string
	Errors  map[string]string
	Raw     map[string]json.RawMessage
}

// DecodeEnvelope decodes a response body written from a model.Result
func DecodeEnvelope(t *testing.T, resp *httptest.ResponseRecorder) Envelope {
	t.Helper()

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(resp.Body.Bytes(), &raw); err != nil {
		t.Fatalf("helpers: failed to decode envelope: %v (body: %s)", err, resp.Body.String())
	}

	var env Envelope
	env.Raw = raw
	decodeField(t, raw, "success", &env.Success)
	decodeField(t, raw, "message", &env.Message)
	decodeField(t, raw, "errors", &env.Errors)
	return env
}

// Resource decodes the payload under key into v
func (e Envelope) Resource(t *testing.T, key string, v interface{}) {
	t.Helper()
	data, ok := e.Raw[key]
	if !ok {
		t.Fatalf("helpers: envelope has no %q key", key)
	}
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("helpers: failed to decode %q: %v", key, err)
	}
}

func decodeField(t *testing.T, raw map[string]json.RawMessage, key string, v interface{}) {
	t.Helper()
	data, ok := raw[key]
	if !ok {
		return
	}
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("helpers: failed to decode %q: %v", key, err)
	}
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, resp *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if resp.Code != expected {
		t.Errorf("expected status %d, got %d. Body: %s", expected, resp.Code, resp.Body.String())
	}
}

// AssertFailure checks a failed envelope with the given status that names
// every field in fields under errors.
func AssertFailure(t *testing.T, resp *httptest.ResponseRecorder, status int, fields ...string) {
	t.Helper()
	AssertStatus(t, resp, status)

	env := DecodeEnvelope(t, resp)
	if env.Success {
		t.Errorf("expected success=false, body: %s", resp.Body.String())
	}
	if len(env.Errors) == 0 {
		t.Errorf("expected errors in failed envelope, body: %s", resp.Body.String())
	}
	for _, f := range fields {
		if _, ok := env.Errors[f]; !ok {
			t.Errorf("expected errors.%s, got %v", f, env.Errors)
		}
	}
}

// ============================================================================
// Pointer Helpers
// ============================================================================

// Ptr returns a pointer to v
func Ptr[T any](v T) *T {
	return &v
}
