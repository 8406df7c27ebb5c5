package telegram

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewClient(Config{APIURL: server.URL, Token: "test-token"})
	return client, server
}

func TestIsMember(t *testing.T) {
	cases := []struct {
		name   string
		status string
		want   bool
	}{
		{"Member", "member", true},
		{"Administrator", "administrator", true},
		{"Creator", "creator", true},
		{"Restricted", "restricted", true},
		{"Left", "left", false},
		{"Kicked", "kicked", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/bottest-token/getChatMember", r.URL.Path)
				assert.Equal(t, "-100200", r.URL.Query().Get("chat_id"))
				assert.Equal(t, "500", r.URL.Query().Get("user_id"))

				fmt.Fprintf(w, `{"ok":true,"result":{"status":%q,"user":{"id":500}}}`, tc.status)
			})
			defer server.Close()

			member, err := client.IsMember(context.Background(), -100200, 500)
			require.NoError(t, err)
			assert.Equal(t, tc.want, member)
		})
	}
}

func TestIsMemberAPIError(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"ok":false,"error_code":400,"description":"Bad Request: user not found"}`)
	})
	defer server.Close()

	member, err := client.IsMember(context.Background(), -100200, 500)
	require.Error(t, err)
	assert.False(t, member)
	assert.Contains(t, err.Error(), "user not found")
}

func TestIsMemberTransportError(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {})
	server.Close() // connection refused from here on

	member, err := client.IsMember(context.Background(), -100200, 500)
	require.Error(t, err)
	assert.False(t, member)
}

func TestSendMessage(t *testing.T) {
	var gotText string
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bottest-token/sendMessage", r.URL.Path)
		gotText = r.URL.Query().Get("text")

		fmt.Fprint(w, `{"ok":true,"result":{}}`)
	})
	defer server.Close()

	err := client.SendMessage(context.Background(), -100200, "your coupon is ready")
	require.NoError(t, err)
	assert.Equal(t, "your coupon is ready", gotText)
}

func TestDefaultAPIURL(t *testing.T) {
	client := NewClient(Config{Token: "test-token"})
	assert.Equal(t, DefaultAPIURL, client.apiURL)
}
