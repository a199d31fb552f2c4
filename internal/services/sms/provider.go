package sms

import (
	"context"
	"strings"
)

// DispatchResult reports the outcome of sending a code.
type DispatchResult struct {
	Delivered   bool
	ProviderRef string
}

// Provider delivers one-time codes to phones. Implementations either succeed
// or return an error; the caller surfaces failures without retrying.
type Provider interface {
	Name() string
	Send(ctx context.Context, phone, code string) (*DispatchResult, error)
	Configured() bool
}

// Select picks the delivery provider once at startup. Unknown names fall
// back to the console provider.
func Select(name, msg91AuthKey, msg91TemplateID, identitySecret string) Provider {
	switch name {
	case "msg91":
		return NewMSG91Provider(msg91AuthKey, msg91TemplateID)
	case "identity":
		return NewIdentityBridge(identitySecret)
	default:
		return NewConsoleProvider()
	}
}

// FormatPhone normalizes a phone to E.164 with the default country code,
// assuming 10-digit national numbers.
func FormatPhone(phone string) string {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	clean := digits.String()
	if len(clean) > 10 {
		clean = clean[len(clean)-10:]
	}
	return "+91" + clean
}
