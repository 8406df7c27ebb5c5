package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// DefaultAPIURL is the public Telegram Bot API endpoint
const DefaultAPIURL = "https://api.telegram.org"

// Membership statuses that count as being in the group
var memberStatuses = map[string]bool{
	"creator":       true,
	"administrator": true,
	"member":        true,
	"restricted":    true,
}

// Client is a minimal Telegram Bot API client covering the calls the
// backend needs. It is safe for concurrent use.
type Client struct {
	apiURL string
	token  string
	client *http.Client
}

// Config holds configuration for the Telegram client
type Config struct {
	APIURL string // Defaults to the public Bot API
	Token  string
}

// NewClient creates a new Telegram Bot API client
func NewClient(config Config) *Client {
	apiURL := config.APIURL
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}

	return &Client{
		apiURL: apiURL,
		token:  config.Token,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// apiResponse is the envelope every Bot API method returns
type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	ErrorCode   int             `json:"error_code"`
	Description string          `json:"description"`
}

// chatMember is the subset of the getChatMember result the backend uses
type chatMember struct {
	Status string `json:"status"`
	User   struct {
		ID int64 `json:"id"`
	} `json:"user"`
}

// IsMember reports whether the user currently belongs to the chat.
// Users who left or were banned report false; transport and API errors
// are returned so callers can decide how to fail.
func (c *Client) IsMember(ctx context.Context, chatID, telegramID int64) (bool, error) {
	params := url.Values{}
	params.Set("chat_id", strconv.FormatInt(chatID, 10))
	params.Set("user_id", strconv.FormatInt(telegramID, 10))

	var member chatMember
	if err := c.call(ctx, "getChatMember", params, &member); err != nil {
		return false, err
	}

	return memberStatuses[member.Status], nil
}

// SendMessage sends a plain text message to a chat
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	params := url.Values{}
	params.Set("chat_id", strconv.FormatInt(chatID, 10))
	params.Set("text", text)

	return c.call(ctx, "sendMessage", params, nil)
}

// call performs one Bot API method call and decodes the result into out
func (c *Client) call(ctx context.Context, method string, params url.Values, out interface{}) error {
	endpoint := fmt.Sprintf("%s/bot%s/%s", c.apiURL, c.token, method)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", method, err)
	}
	req.URL.RawQuery = params.Encode()

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call %s: %w", method, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", method, err)
	}

	var envelope apiResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", method, err)
	}

	if !envelope.OK {
		return fmt.Errorf("%s failed: %d %s", method, envelope.ErrorCode, envelope.Description)
	}

	if out != nil {
		if err := json.Unmarshal(envelope.Result, out); err != nil {
			return fmt.Errorf("failed to decode %s result: %w", method, err)
		}
	}

	return nil
}
