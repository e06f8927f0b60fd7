package whatsapp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const defaultBaseURL = "https://graph.facebook.com/v17.0"

// ListMessage describes an outbound interactive list: fixed header, body,
// footer, and button label text around an ordered set of rows in one section.
type ListMessage struct {
	Header       string
	Body         string
	Footer       string
	ButtonLabel  string
	SectionTitle string
	Rows         []Row
}

// Client sends messages via the WhatsApp Cloud API.
type Client struct {
	AccessToken   string
	PhoneNumberID string
	BaseURL       string
	HTTPClient    *http.Client
}

// NewClient creates a Cloud API client for the given sender phone number.
func NewClient(accessToken, phoneNumberID string) *Client {
	return &Client{
		AccessToken:   accessToken,
		PhoneNumberID: phoneNumberID,
		BaseURL:       defaultBaseURL,
		HTTPClient:    http.DefaultClient,
	}
}

// SendText sends a plain text message to the given phone number.
func (c *Client) SendText(to, text string) (*SendMessageResponse, error) {
	req := SendMessageRequest{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "text",
		Text:             &TextContent{Body: text},
	}
	return c.send(req)
}

// SendList sends an interactive list message. Row order is preserved.
func (c *Client) SendList(to string, list ListMessage) (*SendMessageResponse, error) {
	req := SendMessageRequest{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "interactive",
		Interactive: &Interactive{
			Type:   "list",
			Header: &InteractiveHeader{Type: "text", Text: list.Header},
			Body:   InteractiveBody{Text: list.Body},
			Footer: &InteractiveFooter{Text: list.Footer},
			Action: InteractiveAction{
				Button: list.ButtonLabel,
				Sections: []Section{
					{Title: list.SectionTitle, Rows: list.Rows},
				},
			},
		},
	}
	return c.send(req)
}

func (c *Client) send(req SendMessageRequest) (*SendMessageResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.BaseURL, c.PhoneNumberID)
	httpReq, err := http.NewRequest("POST", url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.AccessToken)

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("cloud API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var result SendMessageResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	return &result, nil
}
