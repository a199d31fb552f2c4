package services

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"time"

	"github.com/example/fnf/internal/models"
	"github.com/example/fnf/internal/repository"
	"github.com/example/fnf/internal/services/sms"
)

var phonePattern = regexp.MustCompile(`^\d{10}$`)

// VerificationService mints and checks OTP challenges. One live challenge per
// phone; a fresh request silently supersedes the previous one.
type VerificationService struct {
	challenges  repository.ChallengeRepository
	gateway     sms.Provider
	clock       Clock
	codes       CodeSource
	ttl         time.Duration
	maxAttempts int
}

func NewVerificationService(
	challenges repository.ChallengeRepository,
	gateway sms.Provider,
	clock Clock,
	codes CodeSource,
	ttl time.Duration,
	maxAttempts int,
) *VerificationService {
	return &VerificationService{
		challenges:  challenges,
		gateway:     gateway,
		clock:       clock,
		codes:       codes,
		ttl:         ttl,
		maxAttempts: maxAttempts,
	}
}

// RequestChallenge issues a new challenge for the phone and dispatches the
// code through the configured provider. Any prior challenge for the phone is
// discarded, last-request-wins.
func (s *VerificationService) RequestChallenge(ctx context.Context, phone string) (*models.OTPChallenge, error) {
	if !phonePattern.MatchString(phone) {
		return nil, ErrInvalidPhone
	}

	code, err := s.codes.Code()
	if err != nil {
		return nil, fmt.Errorf("generate code: %w", err)
	}

	now := s.clock.Now()
	challenge := &models.OTPChallenge{
		Phone:     phone,
		Code:      code,
		ExpiresAt: now.Add(s.ttl),
	}
	challenge.CreatedAt = now

	if err := s.challenges.Replace(ctx, challenge); err != nil {
		return nil, fmt.Errorf("store challenge: %w", err)
	}

	result, err := s.gateway.Send(ctx, phone, code)
	if err != nil {
		log.Printf("[OTP] dispatch via %s failed for %s: %v", s.gateway.Name(), phone, err)
		return nil, ErrDeliveryFailed
	}
	if result.ProviderRef != "" {
		log.Printf("[OTP] code dispatched to %s via %s (%s)", phone, s.gateway.Name(), result.ProviderRef)
	}

	return challenge, nil
}

// Verify checks the submitted code against the live challenge for the phone.
// Wrong codes burn an attempt; once the attempt budget is spent the challenge
// is removed and the flow must restart from RequestChallenge.
func (s *VerificationService) Verify(ctx context.Context, phone, code string) error {
	challenge, err := s.challenges.FindLive(ctx, phone, s.clock.Now())
	if err != nil {
		return fmt.Errorf("load challenge: %w", err)
	}
	if challenge == nil {
		return ErrNoActiveChallenge
	}

	if challenge.AttemptCount >= s.maxAttempts {
		if err := s.challenges.Delete(ctx, challenge); err != nil {
			return fmt.Errorf("delete challenge: %w", err)
		}
		return ErrTooManyAttempts
	}

	if challenge.Code != code {
		challenge.AttemptCount++
		if err := s.challenges.Update(ctx, challenge); err != nil {
			return fmt.Errorf("record attempt: %w", err)
		}
		return ErrInvalidCode
	}

	challenge.Consumed = true
	if err := s.challenges.Update(ctx, challenge); err != nil {
		return fmt.Errorf("consume challenge: %w", err)
	}
	return nil
}

// PurgeExpired removes challenges past their expiry. Run periodically.
func (s *VerificationService) PurgeExpired(ctx context.Context) (int64, error) {
	return s.challenges.PurgeExpired(ctx, s.clock.Now())
}

// GatewayConfigured reports whether the delivery provider has credentials.
func (s *VerificationService) GatewayConfigured() bool {
	return s.gateway.Configured()
}
