package messaging

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainMessaging "github.com/zapleads/zapleads/domains/messaging"
)

func TestCheckNumbers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/whatsappNumbers/primary", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("apikey"))

		var body struct {
			Numbers []string `json:"numbers"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []string{"554199990001"}, body.Numbers)

		_, _ = w.Write([]byte(`[
			{"number": "554199990001", "exists": true, "jid": "554199990001@s.whatsapp.net"}
		]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", time.Second)
	checks, err := client.CheckNumbers(context.Background(), "primary", []string{"554199990001"})
	require.NoError(t, err)

	require.Len(t, checks, 1)
	assert.True(t, checks[0].Exists)
	assert.Equal(t, "554199990001@s.whatsapp.net", checks[0].JID)
}

func TestSendText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/message/sendText/primary", r.URL.Path)

		var body struct {
			Number string `json:"number"`
			Text   string `json:"text"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "554199990001@s.whatsapp.net", body.Number)
		assert.Equal(t, "Olá!", body.Text)

		_, _ = w.Write([]byte(`{"key": {"id": "msg-123"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", time.Second)
	id, err := client.SendText(context.Background(), "primary", "554199990001@s.whatsapp.net", "Olá!")
	require.NoError(t, err)
	assert.Equal(t, "msg-123", id)
}

func TestSendTextPropagatesProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message": "instance not connected"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", time.Second)
	_, err := client.SendText(context.Background(), "primary", "554199990001", "Olá!")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
	assert.Contains(t, err.Error(), "instance not connected")
}

func TestSendMedia(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/message/sendMedia/primary", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "554199990001", body["number"])
		assert.Equal(t, "image", body["mediatype"])
		assert.Equal(t, "https://cdn.example.com/promo.png", body["media"])
		assert.Equal(t, "image/png", body["mimetype"])

		_, _ = w.Write([]byte(`{"key": {"id": "msg-456"}}`))
	}))
	defer server.Close()

	mime := "image/png"
	client := NewClient(server.URL, "test-key", time.Second)
	id, err := client.SendMedia(context.Background(), "primary", domainMessaging.MediaRequest{
		To:        "554199990001",
		MediaType: "image",
		URL:       "https://cdn.example.com/promo.png",
		MimeType:  &mime,
	})
	require.NoError(t, err)
	assert.Equal(t, "msg-456", id)
}

func TestConnectionState(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/instance/connectionState/primary", r.URL.Path)
		_, _ = w.Write([]byte(`{"instance": {"state": "open"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", time.Second)
	state, err := client.ConnectionState(context.Background(), "primary")
	require.NoError(t, err)
	assert.Equal(t, "open", state)
	assert.True(t, domainMessaging.Connected(state))
}
