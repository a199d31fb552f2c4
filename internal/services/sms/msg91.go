package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

const msg91Endpoint = "https://control.msg91.com/api/v5/otp"

// MSG91Provider sends codes through the MSG91 SMS aggregator.
type MSG91Provider struct {
	authKey    string
	templateID string
	client     *http.Client
}

func NewMSG91Provider(authKey, templateID string) *MSG91Provider {
	return &MSG91Provider{
		authKey:    authKey,
		templateID: templateID,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

func (p *MSG91Provider) Name() string { return "msg91" }

func (p *MSG91Provider) Configured() bool {
	return p.authKey != "" && p.templateID != ""
}

type msg91Request struct {
	TemplateID string `json:"template_id"`
	Mobile     string `json:"mobile"`
	OTP        string `json:"otp"`
}

type msg91Response struct {
	Type      string `json:"type"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}

func (p *MSG91Provider) Send(ctx context.Context, phone, code string) (*DispatchResult, error) {
	if !p.Configured() {
		return nil, fmt.Errorf("msg91 not configured")
	}

	body, err := json.Marshal(msg91Request{
		TemplateID: p.templateID,
		Mobile:     FormatPhone(phone),
		OTP:        code,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, msg91Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("authkey", p.authKey)

	resp, err := p.client.Do(req)
	if err != nil {
		log.Printf("[SMS] msg91 request failed: %v", err)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[SMS] msg91 unexpected status: %d", resp.StatusCode)
		return nil, fmt.Errorf("msg91 returned status %d", resp.StatusCode)
	}

	var parsed msg91Response
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	if parsed.Type != "success" {
		return nil, fmt.Errorf("msg91 rejected dispatch: %s", parsed.Message)
	}

	return &DispatchResult{Delivered: true, ProviderRef: parsed.RequestID}, nil
}
