package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"landing_relay_app_go/config"
	"landing_relay_app_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVerifier(t *testing.T) {
	t.Run("Enterprise when API key is set", func(t *testing.T) {
		v, err := NewVerifier(&config.Config{RecaptchaAPIKey: "k", RecaptchaSecretKey: "s"}, nil)
		require.NoError(t, err)
		assert.IsType(t, &EnterpriseVerifier{}, v)
	})

	t.Run("SiteVerify with secret only", func(t *testing.T) {
		v, err := NewVerifier(&config.Config{RecaptchaSecretKey: "s"}, nil)
		require.NoError(t, err)
		assert.IsType(t, &SiteVerifyVerifier{}, v)
	})

	t.Run("No credential", func(t *testing.T) {
		v, err := NewVerifier(&config.Config{}, nil)
		assert.Nil(t, v)
		var cfgErr *config.ConfigError
		assert.True(t, errors.As(err, &cfgErr))
	})
}

func TestEnterpriseVerifier(t *testing.T) {
	t.Run("Sends token, action and site key", func(t *testing.T) {
		var got assessmentRequest
		var gotPath, gotKey string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotKey = r.URL.Query().Get("key")
			json.NewDecoder(r.Body).Decode(&got)
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"tokenProperties":{"valid":true,"action":"submit_form"},"riskAnalysis":{"score":0.9}}`))
		}))
		defer server.Close()

		v := &EnterpriseVerifier{BaseURL: server.URL, ProjectID: "proj-1", APIKey: "api key", SiteKey: "site-key", Client: server.Client()}
		result, err := v.Verify(context.Background(), VerifyRequest{Token: "tok", ExpectedAction: models.ExpectedAction})

		require.NoError(t, err)
		assert.Equal(t, "/projects/proj-1/assessments", gotPath)
		assert.Equal(t, "api key", gotKey)
		assert.Equal(t, "tok", got.Event.Token)
		assert.Equal(t, "submit_form", got.Event.ExpectedAction)
		assert.Equal(t, "site-key", got.Event.SiteKey)
		assert.True(t, result.Valid)
		assert.Equal(t, "submit_form", result.Action)
		assert.Equal(t, 0.9, result.ScoreValue())
	})

	t.Run("Invalid token without score", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"tokenProperties":{"valid":false,"invalidReason":"EXPIRED"}}`))
		}))
		defer server.Close()

		v := &EnterpriseVerifier{BaseURL: server.URL, ProjectID: "p", APIKey: "k", Client: server.Client()}
		result, err := v.Verify(context.Background(), VerifyRequest{Token: "tok"})

		require.NoError(t, err)
		assert.False(t, result.Valid)
		assert.Equal(t, "EXPIRED", result.InvalidReason)
		require.NotNil(t, result.Score)
		assert.Equal(t, 0.0, *result.Score)
	})

	t.Run("Missing token properties", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		v := &EnterpriseVerifier{BaseURL: server.URL, ProjectID: "p", APIKey: "k", Client: server.Client()}
		result, err := v.Verify(context.Background(), VerifyRequest{Token: "tok"})

		require.NoError(t, err)
		assert.False(t, result.Valid)
		assert.Equal(t, "unknown", result.InvalidReason)
	})

	t.Run("Non-2xx is an upstream error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"error":{"message":"API key not valid"}}`))
		}))
		defer server.Close()

		v := &EnterpriseVerifier{BaseURL: server.URL, ProjectID: "p", APIKey: "k", Client: server.Client()}
		_, err := v.Verify(context.Background(), VerifyRequest{Token: "tok"})

		var upstream *UpstreamError
		require.True(t, errors.As(err, &upstream))
		assert.Contains(t, err.Error(), "403")
	})

	t.Run("Malformed JSON response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("{ malformed json }"))
		}))
		defer server.Close()

		v := &EnterpriseVerifier{BaseURL: server.URL, ProjectID: "p", APIKey: "k", Client: server.Client()}
		_, err := v.Verify(context.Background(), VerifyRequest{Token: "tok"})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode")
	})
}

func TestSiteVerifyVerifier(t *testing.T) {
	t.Run("Posts form-encoded secret and response", func(t *testing.T) {
		var contentType, body string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			contentType = r.Header.Get("Content-Type")
			raw, _ := io.ReadAll(r.Body)
			body = string(raw)
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "score": 0.7, "action": "submit_form"})
		}))
		defer server.Close()

		v := &SiteVerifyVerifier{VerifyURL: server.URL, SecretKey: "s3cret", Client: server.Client()}
		result, err := v.Verify(context.Background(), VerifyRequest{Token: "tok", RemoteIP: "1.1.1.1"})

		require.NoError(t, err)
		assert.Equal(t, "application/x-www-form-urlencoded", contentType)
		assert.Contains(t, body, "secret=s3cret")
		assert.Contains(t, body, "response=tok")
		assert.Contains(t, body, "remoteip=1.1.1.1")
		assert.True(t, result.Valid)
		assert.Equal(t, 0.7, result.ScoreValue())
	})

	t.Run("Checkbox response carries no score", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"success":true,"hostname":"example.com"}`))
		}))
		defer server.Close()

		v := &SiteVerifyVerifier{VerifyURL: server.URL, SecretKey: "s", Client: server.Client()}
		result, err := v.Verify(context.Background(), VerifyRequest{Token: "tok"})

		require.NoError(t, err)
		assert.True(t, result.Valid)
		assert.Nil(t, result.Score)
	})

	t.Run("Unusual challenge timestamp is tolerated", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"success":true,"challenge_ts":"2025-03-01 12:00:00","hostname":"example.com"}`))
		}))
		defer server.Close()

		v := &SiteVerifyVerifier{VerifyURL: server.URL, SecretKey: "s", Client: server.Client()}
		result, err := v.Verify(context.Background(), VerifyRequest{Token: "tok"})

		require.NoError(t, err)
		assert.True(t, result.Valid)
	})

	t.Run("Failure with error codes", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(SiteVerifyResponse{
				Success:    false,
				ErrorCodes: []string{"invalid-input-response", "timeout-or-duplicate"},
			})
		}))
		defer server.Close()

		v := &SiteVerifyVerifier{VerifyURL: server.URL, SecretKey: "s", Client: server.Client()}
		result, err := v.Verify(context.Background(), VerifyRequest{Token: "tok"})

		require.NoError(t, err)
		assert.False(t, result.Valid)
		assert.Equal(t, "invalid-input-response,timeout-or-duplicate", result.InvalidReason)
	})

	t.Run("Unreachable provider", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close()

		v := &SiteVerifyVerifier{VerifyURL: server.URL, SecretKey: "s", Client: &http.Client{}}
		_, err := v.Verify(context.Background(), VerifyRequest{Token: "tok"})

		var upstream *UpstreamError
		assert.True(t, errors.As(err, &upstream))
	})
}
