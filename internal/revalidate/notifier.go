// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package revalidate tells the public site that content changed so it can
// rebuild cached pages. Notifications are best effort and never retried.
package revalidate

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
)

// Request settings
const (
	RequestTimeout  = 10 * time.Second
	UserAgent       = "finpanel/1.0"
	SignatureHeader = "X-Finpanel-Signature"
)

// Payload is the notification body.
type Payload struct {
	Resource  string    `json:"resource"`
	Timestamp time.Time `json:"timestamp"`
}

// Sink receives change notifications.
type Sink interface {
	Notify(ctx context.Context, resource string) error
}

// Notifier posts notifications to the site's revalidation endpoint.
type Notifier struct {
	http   *resty.Client
	url    string
	secret string
	logger *slog.Logger
}

// NewNotifier creates a notifier. secret may be empty to skip signing.
func NewNotifier(url, secret string, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		http: resty.New().
			SetTimeout(RequestTimeout).
			SetRetryCount(0).
			SetHeader("Content-Type", "application/json").
			SetHeader("User-Agent", UserAgent),
		url:    url,
		secret: secret,
		logger: logger,
	}
}

// Notify posts a single notification for resource.
func (n *Notifier) Notify(ctx context.Context, resource string) error {
	body, err := json.Marshal(Payload{Resource: resource, Timestamp: time.Now().UTC()})
	if err != nil {
		return err
	}

	req := n.http.R().SetContext(ctx).SetBody(body)
	if n.secret != "" {
		req.SetHeader(SignatureHeader, GenerateSignature(body, n.secret))
	}

	resp, err := req.Post(n.url)
	if err != nil {
		return fmt.Errorf("revalidate request failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("revalidate: HTTP %d", resp.StatusCode())
	}
	n.logger.Debug("site revalidation requested", "resource", resource)
	return nil
}

// GenerateSignature generates an HMAC-SHA256 signature for the payload.
func GenerateSignature(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature verifies an HMAC-SHA256 signature.
func VerifySignature(payload []byte, signature, secret string) bool {
	return hmac.Equal([]byte(signature), []byte(GenerateSignature(payload, secret)))
}

// Nop discards notifications. Used when no revalidation URL is configured.
type Nop struct{}

// Notify implements Sink.
func (Nop) Notify(context.Context, string) error { return nil }
