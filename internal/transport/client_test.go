package transport

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, guard SessionGuard) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	if guard == nil {
		guard = NewBearerGuard("tok-123", nil)
	}
	client, err := NewClient(Options{BaseURL: srv.URL + "/", Guard: guard, Timeout: 2 * time.Second})
	require.NoError(t, err)
	return client
}

func TestSendEncodesRequestAndParsesReply(t *testing.T) {
	var gotBody map[string]interface{}
	var gotAuth, gotRequestID string

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/ask", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		raw, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(raw, &gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"Create **Notes**?","needsConfirmation":true,"confirmationType":"doc_create","allowRegenerate":true,"fileName":"Notes","preview":"# Notes"}`))
	}, nil)

	reply, err := client.Send(context.Background(), TurnRequest{Message: "make notes"})
	require.NoError(t, err)

	assert.Equal(t, map[string]interface{}{"message": "make notes"}, gotBody)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.NotEmpty(t, gotRequestID)

	assert.Equal(t, "Create **Notes**?", reply.Message)
	assert.True(t, reply.NeedsConfirmation)
	assert.Equal(t, "doc_create", reply.ConfirmationType)
	assert.True(t, reply.AllowRegenerate)
	assert.False(t, reply.AllowSkip)
	assert.Equal(t, "Notes", reply.FileName)
	assert.Equal(t, gotRequestID, reply.RequestID)
}

func TestTurnRequestFlagsOnlyWhenSet(t *testing.T) {
	no := false
	tests := []struct {
		name string
		req  TurnRequest
		want string
	}{
		{"message", TurnRequest{Message: "hi"}, `{"message":"hi"}`},
		{"confirmation false", TurnRequest{Confirmation: &no}, `{"message":"","confirmation":false}`},
		{"regenerate", TurnRequest{Regenerate: true}, `{"message":"","regenerate":true}`},
		{"skip", TurnRequest{SkipPreview: true}, `{"message":"","skip_preview":true}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := json.Marshal(tt.req)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(raw))
		})
	}
}

func TestSendDefaultsMissingFields(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message":"hello"}`))
	}, nil)

	reply, err := client.Send(context.Background(), TurnRequest{Message: "hi"})
	require.NoError(t, err)
	assert.False(t, reply.NeedsConfirmation)
	assert.Empty(t, reply.ConfirmationType)
	assert.False(t, reply.AllowRegenerate)
	assert.False(t, reply.AllowSkip)
}

func TestSendClassifiesFailures(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantKind    Kind
		wantMessage string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"detail":"Missing or invalid Authorization header"}`, KindAuth, "Missing or invalid Authorization header"},
		{"forbidden", http.StatusForbidden, ``, KindAuth, "request failed"},
		{"server detail", http.StatusInternalServerError, `{"detail":"Failed to create doc"}`, KindServer, "Failed to create doc"},
		{"server error field", http.StatusBadGateway, `{"error":"Apps Script communication failed"}`, KindServer, "Apps Script communication failed"},
		{"server no body", http.StatusServiceUnavailable, ``, KindServer, "request failed"},
		{"server html", http.StatusInternalServerError, `<html>oops</html>`, KindServer, "request failed"},
		{"unparseable success", http.StatusOK, `not json`, KindProtocol, "invalid response body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}, nil)

			reply, err := client.Send(context.Background(), TurnRequest{Message: "hi"})
			require.Error(t, err)
			assert.Nil(t, reply)

			var te *Error
			require.ErrorAs(t, err, &te)
			assert.Equal(t, tt.wantKind, te.Kind)
			assert.Equal(t, tt.wantMessage, te.Message)
			assert.Equal(t, tt.wantKind, KindOf(err))
		})
	}
}

func TestSendNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client, err := NewClient(Options{BaseURL: url, Guard: NewBearerGuard("tok", nil)})
	require.NoError(t, err)

	_, err = client.Send(context.Background(), TurnRequest{Message: "hi"})
	assert.Equal(t, KindNetwork, KindOf(err))
}

func TestSendWithoutCredentialIsAuthError(t *testing.T) {
	called := false
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	}, NewBearerGuard("", nil))

	_, err := client.Send(context.Background(), TurnRequest{Message: "hi"})
	assert.True(t, IsAuth(err))
	assert.ErrorIs(t, err, ErrNoCredential)
	assert.False(t, called, "nothing is sent without a credential")
}

func TestSendNeverRetries(t *testing.T) {
	hits := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusInternalServerError)
	}, nil)

	_, err := client.Send(context.Background(), TurnRequest{Message: "hi"})
	require.Error(t, err)
	assert.Equal(t, 1, hits)
}

func TestCookieGuard(t *testing.T) {
	var cookie *http.Cookie
	unauthenticated := 0
	guard := NewCookieGuard("session", "abc", func() { unauthenticated++ })

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		cookie, _ = r.Cookie("session")
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"user_id":"user-42"}`))
	}, guard)

	userID, err := client.CheckSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "user-42", userID)
	require.NotNil(t, cookie)
	assert.Equal(t, "abc", cookie.Value)

	guard.OnUnauthenticated()
	assert.Equal(t, 1, unauthenticated)

	_, err = client.CheckSession(context.Background())
	assert.True(t, IsAuth(err), "cookie is dropped after rejection")
}

func TestCheckSessionUnauthorized(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/userinfo", r.URL.Path)
		w.WriteHeader(http.StatusUnauthorized)
	}, nil)

	_, err := client.CheckSession(context.Background())
	assert.True(t, IsAuth(err))
}

func TestCacheStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/cache-status", r.URL.Path)
		_, _ = w.Write([]byte(`{"status":"pending"}`))
	}, nil)

	status, err := client.CacheStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "pending", status)
}

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient(Options{Guard: NewBearerGuard("t", nil)})
	assert.Error(t, err)

	_, err = NewClient(Options{BaseURL: "http://localhost:8000"})
	assert.Error(t, err)
}

func TestErrorUserMessage(t *testing.T) {
	assert.Equal(t, "request failed", (&Error{Kind: KindServer}).UserMessage())
	assert.Equal(t, "quota", (&Error{Kind: KindServer, Message: "quota"}).UserMessage())
	assert.Contains(t, (&Error{Kind: KindServer, StatusCode: 500, Message: "quota"}).Error(), "HTTP 500")
}
