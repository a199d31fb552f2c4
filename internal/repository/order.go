package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/fnf/internal/models"
)

// OrderFilter narrows order listings.
type OrderFilter struct {
	Status     string
	CustomerID *uuid.UUID
	Limit      int
	Offset     int
}

// StatsFilter bounds statistics queries to a closed createdAt interval.
// Nil ends leave that side open.
type StatsFilter struct {
	Start *time.Time
	End   *time.Time
}

// TopProduct is one row of the product ranking: summed quantity and revenue
// across matching orders' line items.
type TopProduct struct {
	Name     string  `json:"name"`
	Quantity int64   `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

// OrderRepository persists orders and answers aggregate queries over them.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	Save(ctx context.Context, order *models.Order) error
	List(ctx context.Context, filter OrderFilter) ([]models.Order, int64, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)

	CountAndRevenue(ctx context.Context, filter StatsFilter) (int64, float64, error)
	StatusBreakdown(ctx context.Context, filter StatsFilter) (map[string]int64, error)
	TopProducts(ctx context.Context, filter StatsFilter, limit int) ([]TopProduct, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").Preload("Customer").
		First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) Save(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Save(order).Error
}

func (r *orderRepository) List(ctx context.Context, filter OrderFilter) ([]models.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Order{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	err := query.Preload("Items").Preload("Customer").
		Order("created_at desc").
		Limit(filter.Limit).Offset(filter.Offset).
		Find(&orders).Error
	return orders, total, err
}

func (r *orderRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.Order{}, "id = ?", id)
	return result.RowsAffected > 0, result.Error
}

func (r *orderRepository) statsQuery(ctx context.Context, filter StatsFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.Order{})
	if filter.Start != nil {
		query = query.Where("orders.created_at >= ?", *filter.Start)
	}
	if filter.End != nil {
		query = query.Where("orders.created_at <= ?", *filter.End)
	}
	return query
}

func (r *orderRepository) CountAndRevenue(ctx context.Context, filter StatsFilter) (int64, float64, error) {
	var total int64
	if err := r.statsQuery(ctx, filter).Count(&total).Error; err != nil {
		return 0, 0, err
	}

	var revenue float64
	if err := r.statsQuery(ctx, filter).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&revenue).Error; err != nil {
		return 0, 0, err
	}
	return total, revenue, nil
}

func (r *orderRepository) StatusBreakdown(ctx context.Context, filter StatsFilter) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var rows []statusCount
	if err := r.statsQuery(ctx, filter).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	breakdown := make(map[string]int64, len(rows))
	for _, row := range rows {
		breakdown[row.Status] = row.Count
	}
	return breakdown, nil
}

func (r *orderRepository) TopProducts(ctx context.Context, filter StatsFilter, limit int) ([]TopProduct, error) {
	products := []TopProduct{}
	err := r.statsQuery(ctx, filter).
		Joins("JOIN order_items ON order_items.order_id = orders.id").
		Select("order_items.product_name as name, SUM(order_items.quantity) as quantity, COALESCE(SUM(order_items.total_price), 0) as revenue").
		Group("order_items.product_name").
		Order("quantity desc").
		Limit(limit).
		Scan(&products).Error
	return products, err
}
