package sms

import (
	"context"
	"log"
)

// ConsoleProvider writes codes to the process log instead of sending them.
// Development only.
type ConsoleProvider struct{}

func NewConsoleProvider() *ConsoleProvider {
	return &ConsoleProvider{}
}

func (p *ConsoleProvider) Name() string { return "console" }

func (p *ConsoleProvider) Configured() bool { return true }

func (p *ConsoleProvider) Send(_ context.Context, phone, code string) (*DispatchResult, error) {
	log.Printf("[SMS] OTP for %s: %s (console provider)", FormatPhone(phone), code)
	return &DispatchResult{Delivered: true, ProviderRef: "console"}, nil
}
