package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/fnf/internal/models"
)

// CustomerRepository persists customer records and their denormalized order
// statistics.
type CustomerRepository interface {
	Create(ctx context.Context, customer *models.Customer) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	FindByPhone(ctx context.Context, phone string) (*models.Customer, error)
	FindByExternalID(ctx context.Context, externalID string) (*models.Customer, error)
	Save(ctx context.Context, customer *models.Customer) error
	List(ctx context.Context, limit, offset int) ([]models.Customer, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// ApplyOrderStats bumps total_orders/total_spent in place so concurrent
	// order creation for the same customer cannot lose increments.
	ApplyOrderStats(ctx context.Context, id uuid.UUID, amount float64, orderedAt time.Time) error
	// ReverseOrderStats undoes one order's contribution to the aggregates.
	ReverseOrderStats(ctx context.Context, id uuid.UUID, amount float64) error
}

type customerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *customerRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *customerRepository) FindByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	return r.findOne(ctx, "phone = ?", phone)
}

func (r *customerRepository) FindByExternalID(ctx context.Context, externalID string) (*models.Customer, error) {
	return r.findOne(ctx, "external_auth_id = ?", externalID)
}

func (r *customerRepository) findOne(ctx context.Context, query string, arg interface{}) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).Where(query, arg).First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) Save(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

func (r *customerRepository) List(ctx context.Context, limit, offset int) ([]models.Customer, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Customer{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var customers []models.Customer
	err := r.db.WithContext(ctx).
		Order("created_at desc").
		Limit(limit).Offset(offset).
		Find(&customers).Error
	return customers, total, err
}

func (r *customerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Customer{}, "id = ?", id).Error
}

func (r *customerRepository) ApplyOrderStats(ctx context.Context, id uuid.UUID, amount float64, orderedAt time.Time) error {
	return r.db.WithContext(ctx).Model(&models.Customer{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"total_orders":    gorm.Expr("total_orders + 1"),
			"total_spent":     gorm.Expr("total_spent + ?", amount),
			"last_order_date": orderedAt,
		}).Error
}

func (r *customerRepository) ReverseOrderStats(ctx context.Context, id uuid.UUID, amount float64) error {
	return r.db.WithContext(ctx).Model(&models.Customer{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"total_orders": gorm.Expr("GREATEST(total_orders - 1, 0)"),
			"total_spent":  gorm.Expr("GREATEST(total_spent - ?, 0)", amount),
		}).Error
}
