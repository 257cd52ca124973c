package resend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/Anupam-Sing-h/leadflow-crm/internal/entity"
	"github.com/Anupam-Sing-h/leadflow-crm/internal/usecase"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const DefaultBaseURL = "https://api.resend.com"

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http: &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// Send posts one message to /emails.
func (c *Client) Send(ctx context.Context, msg usecase.EmailMessage) error {
	payload, err := json.Marshal(sendEmailRequest{
		From:    msg.From,
		To:      msg.To,
		Subject: msg.Subject,
		HTML:    msg.HTML,
	})
	if err != nil {
		return fmt.Errorf("marshal email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("Failed to send email: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("[resend] status %d: %s", resp.StatusCode, string(body))
		return &entity.ProviderError{Provider: "resend", Status: resp.StatusCode, Message: errorMessage(resp, body)}
	}

	var out sendEmailResponse
	if err := json.Unmarshal(body, &out); err == nil && out.ID != "" {
		log.Printf("[resend] sent %s to %v", out.ID, msg.To)
	}
	return nil
}

func errorMessage(resp *http.Response, body []byte) string {
	var e errorResponse
	if err := json.Unmarshal(body, &e); err != nil {
		return fmt.Sprintf("Failed to send email via Resend: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	detail := e.Message
	if detail == "" {
		detail = e.Name
	}
	if detail == "" {
		detail = string(body)
	}
	return "Resend Error: " + detail
}
