// Package gmail fetches bank-notification messages from Gmail and runs the
// email sync pipeline over them.
package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"time"

	"github.com/avast/retry-go"
	"golang.org/x/oauth2"
	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/mfalcone/soldi/internal/common"
)

const apiRetries = 3

// Message is one fetched notification, body already decoded to text.
// HTML stripping is the parser's job, not ours.
type Message struct {
	Received time.Time
	ID       string
	Body     string
}

// Client wraps the Gmail API for the sync pipeline.
type Client struct {
	svc    *gmailapi.Service
	logger *slog.Logger
}

// NewClient builds a Gmail client from a bearer access token. Token
// acquisition (OAuth dance, refresh) is the caller's concern; the core
// only ever sees the token string.
func NewClient(ctx context.Context, accessToken string) (*Client, error) {
	if accessToken == "" {
		return nil, common.ErrMissingToken
	}

	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	httpClient := oauth2.NewClient(ctx, source)

	svc, err := gmailapi.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("creating gmail service: %w", err)
	}

	return &Client{svc: svc, logger: slog.Default()}, nil
}

// ListMessageIDs returns the ids of messages matching the Gmail query,
// newest first, up to max.
func (c *Client) ListMessageIDs(ctx context.Context, query string, max int64) ([]string, error) {
	var resp *gmailapi.ListMessagesResponse

	err := retry.Do(
		func() error {
			var listErr error
			resp, listErr = c.svc.Users.Messages.List("me").Q(query).MaxResults(max).Context(ctx).Do()
			return listErr
		},
		retry.Attempts(apiRetries),
		retry.Context(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}

	ids := make([]string, 0, len(resp.Messages))
	for _, msg := range resp.Messages {
		ids = append(ids, msg.Id)
	}
	return ids, nil
}

// GetMessage fetches one message and decodes its body.
func (c *Client) GetMessage(ctx context.Context, id string) (*Message, error) {
	var msg *gmailapi.Message

	err := retry.Do(
		func() error {
			var getErr error
			msg, getErr = c.svc.Users.Messages.Get("me", id).Context(ctx).Do()
			return getErr
		},
		retry.Attempts(apiRetries),
		retry.Context(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("getting message %s: %w", id, err)
	}

	body := extractBody(msg.Payload)
	if body == "" {
		return nil, fmt.Errorf("message %s: %w", id, common.ErrEmptyBody)
	}

	return &Message{
		ID:       id,
		Received: time.Unix(msg.InternalDate/1000, 0),
		Body:     body,
	}, nil
}

// extractBody walks the MIME tree preferring text/plain parts, falling
// back to text/html, then to the top-level body.
func extractBody(payload *gmailapi.MessagePart) string {
	if payload == nil {
		return ""
	}

	if body := findPart(payload, "text/plain"); body != "" {
		return body
	}
	if body := findPart(payload, "text/html"); body != "" {
		return body
	}

	if payload.Body != nil && payload.Body.Data != "" {
		return decodePart(payload.Body.Data)
	}
	return ""
}

func findPart(part *gmailapi.MessagePart, mimeType string) string {
	if part.MimeType == mimeType && part.Body != nil && part.Body.Data != "" {
		return decodePart(part.Body.Data)
	}
	for _, child := range part.Parts {
		if body := findPart(child, mimeType); body != "" {
			return body
		}
	}
	return ""
}

func decodePart(data string) string {
	decoded, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		// Some senders omit padding.
		decoded, err = base64.RawURLEncoding.DecodeString(data)
		if err != nil {
			return ""
		}
	}
	return string(decoded)
}
