package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/example/fnf/internal/models"
)

// ChallengeRepository persists outstanding OTP challenges keyed by phone.
type ChallengeRepository interface {
	// Replace deletes any existing challenges for the phone and stores the
	// new one, so at most one challenge per phone survives the call.
	Replace(ctx context.Context, challenge *models.OTPChallenge) error
	// FindLive returns the unconsumed, unexpired challenge for the phone,
	// or nil when none exists.
	FindLive(ctx context.Context, phone string, now time.Time) (*models.OTPChallenge, error)
	Update(ctx context.Context, challenge *models.OTPChallenge) error
	Delete(ctx context.Context, challenge *models.OTPChallenge) error
	// PurgeExpired removes challenges whose expiry is before the cutoff and
	// returns how many were deleted.
	PurgeExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

type challengeRepository struct {
	db *gorm.DB
}

func NewChallengeRepository(db *gorm.DB) ChallengeRepository {
	return &challengeRepository{db: db}
}

func (r *challengeRepository) Replace(ctx context.Context, challenge *models.OTPChallenge) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("phone = ?", challenge.Phone).
			Delete(&models.OTPChallenge{}).Error; err != nil {
			return err
		}
		return tx.Create(challenge).Error
	})
}

func (r *challengeRepository) FindLive(ctx context.Context, phone string, now time.Time) (*models.OTPChallenge, error) {
	var challenge models.OTPChallenge
	err := r.db.WithContext(ctx).
		Where("phone = ? AND consumed = false AND expires_at > ?", phone, now).
		Order("created_at desc").
		First(&challenge).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &challenge, nil
}

func (r *challengeRepository) Update(ctx context.Context, challenge *models.OTPChallenge) error {
	return r.db.WithContext(ctx).Save(challenge).Error
}

func (r *challengeRepository) Delete(ctx context.Context, challenge *models.OTPChallenge) error {
	return r.db.WithContext(ctx).Delete(challenge).Error
}

func (r *challengeRepository) PurgeExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ?", cutoff).
		Delete(&models.OTPChallenge{})
	return result.RowsAffected, result.Error
}
