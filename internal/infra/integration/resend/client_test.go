package resend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Anupam-Sing-h/leadflow-crm/internal/entity"
	"github.com/Anupam-Sing-h/leadflow-crm/internal/usecase"
)

func TestSend_PostsMessage(t *testing.T) {
	var got sendEmailRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"id":"msg_1"}`))
	}))
	defer srv.Close()

	err := NewClient("re_test", srv.URL+"/").Send(context.Background(), usecase.EmailMessage{
		From:    "CRM <crm@test.dev>",
		To:      []string{"lead@acme.test"},
		Subject: "Hello",
		HTML:    "<p>Hi</p>",
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"lead@acme.test"}, got.To)
	assert.Equal(t, "Hello", got.Subject)
	assert.Equal(t, "<p>Hi</p>", got.HTML)
}

func TestSend_ErrorMessages(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"message field", http.StatusUnprocessableEntity, `{"message":"Invalid to field","name":"validation_error"}`, "Resend Error: Invalid to field"},
		{"name only", http.StatusForbidden, `{"name":"restricted_api_key"}`, "Resend Error: restricted_api_key"},
		{"not json", http.StatusBadGateway, `upstream down`, "Failed to send email via Resend: 502 Bad Gateway"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			err := NewClient("re_test", srv.URL).Send(context.Background(), usecase.EmailMessage{To: []string{"x@y.z"}})

			var pe *entity.ProviderError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.status, pe.Status)
			assert.Equal(t, tt.want, pe.Message)
		})
	}
}

func TestNewClient_DefaultBaseURL(t *testing.T) {
	assert.Equal(t, DefaultBaseURL, NewClient("k", "").baseURL)
}
