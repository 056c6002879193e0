package delivery

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/evolvinutri/backend/pkg/configuration"
)

func TestNormalizePhone(t *testing.T) {
	require.Equal(t, "5511999998888", NormalizePhone("(11) 99999-8888"))
	require.Equal(t, "5511999998888", NormalizePhone("11999998888"))
	require.Equal(t, "55", NormalizePhone(""))
}

func TestZAPIClient_Send(t *testing.T) {
	var gotPath, gotClientToken string
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotClientToken = r.Header.Get("Client-Token")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewZAPIClient(configuration.ZAPIOptions{
		BaseURL:     srv.URL,
		InstanceID:  "inst-1",
		Token:       "tok-1",
		ClientToken: "ct-1",
	})

	err := client.Send(context.Background(), "(11) 99999-8888", "hello")
	require.NoError(t, err)
	require.Equal(t, "/instances/inst-1/token/tok-1/send-text", gotPath)
	require.Equal(t, "ct-1", gotClientToken)
	require.Equal(t, "5511999998888", gotBody["phone"])
	require.Equal(t, "hello", gotBody["message"])
}

func TestZAPIClient_Send_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "instance not connected", http.StatusBadRequest)
	}))
	defer srv.Close()

	client := NewZAPIClient(configuration.ZAPIOptions{BaseURL: srv.URL})
	err := client.Send(context.Background(), "11999998888", "hello")
	require.Error(t, err)
	require.Contains(t, err.Error(), "400")
}

func TestResendClient_Send(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.Equal(t, "/emails", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewResendClient(configuration.ResendOptions{BaseURL: srv.URL, APIKey: "rs-key"})
	err := client.Send(context.Background(), Email{
		From:    "Evolvi Nutri <contato@evolvinutri.com.br>",
		To:      "maria@example.com",
		Subject: "subject",
		HTML:    "<p>hi</p>",
	})
	require.NoError(t, err)
	require.Equal(t, "Bearer rs-key", gotAuth)
	require.Equal(t, []any{"maria@example.com"}, gotBody["to"])
	require.Equal(t, "subject", gotBody["subject"])
}

func TestResendClient_Send_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid api key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewResendClient(configuration.ResendOptions{BaseURL: srv.URL})
	err := client.Send(context.Background(), Email{To: "maria@example.com"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "401")
}
