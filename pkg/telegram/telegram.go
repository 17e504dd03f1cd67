package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultAPIURL = "https://api.telegram.org"

// Client represents a Telegram Bot API client
type Client struct {
	APIURL string
	Token  string

	httpClient *http.Client
}

// NewClient creates a new Telegram Bot API client
func NewClient(token string) *Client {
	return &Client{
		APIURL: defaultAPIURL,
		Token:  token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result,omitempty"`
	Description string          `json:"description,omitempty"`
	ErrorCode   int             `json:"error_code,omitempty"`
}

func (c *Client) call(ctx context.Context, method string, payload any) (json.RawMessage, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to marshal payload: %w", method, err)
	}

	url := fmt.Sprintf("%s/bot%s/%s", c.APIURL, c.Token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: request failed: %w", method, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read response: %w", method, err)
	}

	var result apiResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("%s: failed to unmarshal response: %v, body: %s", method, err, string(respBody))
	}
	if !result.OK {
		return nil, fmt.Errorf("%s: API returned error %d: %s", method, result.ErrorCode, result.Description)
	}
	return result.Result, nil
}

// SendMessage sends an HTML-formatted message with an optional inline keyboard
// and returns the id of the sent message.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, markup *InlineKeyboardMarkup) (int, error) {
	payload := map[string]any{
		"chat_id":    chatID,
		"text":       text,
		"parse_mode": "HTML",
	}
	if markup != nil {
		payload["reply_markup"] = markup
	}

	raw, err := c.call(ctx, "sendMessage", payload)
	if err != nil {
		return 0, err
	}

	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return 0, fmt.Errorf("sendMessage: failed to unmarshal result: %w", err)
	}
	return msg.MessageID, nil
}

// DeleteMessage removes a previously sent message.
func (c *Client) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	_, err := c.call(ctx, "deleteMessage", map[string]any{
		"chat_id":    chatID,
		"message_id": messageID,
	})
	return err
}

// AnswerCallbackQuery acknowledges a button press so the client stops the spinner.
func (c *Client) AnswerCallbackQuery(ctx context.Context, callbackQueryID string) error {
	_, err := c.call(ctx, "answerCallbackQuery", map[string]any{
		"callback_query_id": callbackQueryID,
	})
	return err
}

// SetWebhook points the bot at the given webhook URL, dropping any previous one.
func (c *Client) SetWebhook(ctx context.Context, webhookURL string) error {
	if _, err := c.call(ctx, "deleteWebhook", map[string]any{}); err != nil {
		return err
	}
	_, err := c.call(ctx, "setWebhook", map[string]any{"url": webhookURL})
	return err
}
