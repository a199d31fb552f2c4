package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/fnf/internal/models"
	"github.com/example/fnf/internal/repository"
)

const (
	orderNumberPrefix   = "FNF"
	orderNumberAttempts = 3
	topProductsLimit    = 10
)

// OrderItemInput is one requested line item.
type OrderItemInput struct {
	ProductName string
	Quantity    int
	UnitPrice   float64
	TotalPrice  float64
}

// CreateOrderInput carries everything needed to place an order. TotalAmount
// is the caller-declared total; it is recorded as-is, not recomputed from the
// items.
type CreateOrderInput struct {
	CustomerID      uuid.UUID
	Items           []OrderItemInput
	TotalAmount     float64
	DeliveryAddress *models.Address
	PaymentMethod   string
	Notes           string
}

// Stats summarizes orders over an optional creation-time window.
type Stats struct {
	TotalOrders     int64                   `json:"totalOrders"`
	TotalRevenue    float64                 `json:"totalRevenue"`
	StatusBreakdown map[string]int64        `json:"statusBreakdown"`
	TopProducts     []repository.TopProduct `json:"topProducts"`
}

// OrderService owns the order lifecycle: creation with unique order numbers,
// caller-directed status transitions, and the aggregate push back into the
// customer directory.
type OrderService struct {
	orders          repository.OrderRepository
	customers       *CustomerService
	clock           Clock
	reverseOnCancel bool
}

func NewOrderService(orders repository.OrderRepository, customers *CustomerService, clock Clock, reverseOnCancel bool) *OrderService {
	return &OrderService{
		orders:          orders,
		customers:       customers,
		clock:           clock,
		reverseOnCancel: reverseOnCancel,
	}
}

// Create places a new order for the customer and applies its amount to the
// customer's statistics in the same logical operation.
func (s *OrderService) Create(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	if len(input.Items) == 0 || input.TotalAmount <= 0 {
		return nil, ErrInvalidOrder
	}

	customer, err := s.customers.Get(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}

	address := customer.Address
	if input.DeliveryAddress != nil {
		address = *input.DeliveryAddress
	}

	paymentMethod := input.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "cash"
	}

	order := &models.Order{
		CustomerID:      customer.ID,
		TotalAmount:     input.TotalAmount,
		DeliveryAddress: address,
		PaymentMethod:   paymentMethod,
		PaymentStatus:   models.PaymentPending,
		Status:          models.StatusPending,
		Notes:           input.Notes,
	}
	for _, item := range input.Items {
		totalPrice := item.TotalPrice
		if totalPrice == 0 {
			totalPrice = item.UnitPrice * float64(item.Quantity)
		}
		order.Items = append(order.Items, models.OrderItem{
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TotalPrice:  totalPrice,
		})
	}

	// Order numbers are random-suffixed, so collisions are possible; the
	// unique index is the arbiter and we retry with a fresh number.
	for attempt := 0; ; attempt++ {
		order.OrderNumber = s.generateOrderNumber()
		err = s.orders.Create(ctx, order)
		if err == nil {
			break
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) && attempt < orderNumberAttempts-1 {
			continue
		}
		return nil, fmt.Errorf("create order: %w", err)
	}

	if err := s.customers.RecordOrder(ctx, customer.ID, order.TotalAmount); err != nil {
		// The order is already persisted; aggregates are now behind until
		// reconciled out of band.
		log.Printf("[Order] stats update failed for customer %s after order %s: %v",
			customer.ID, order.OrderNumber, err)
		return nil, fmt.Errorf("record order stats: %w", err)
	}

	return order, nil
}

// UpdateStatus moves an order to the caller-supplied status. Delivered stamps
// deliveredAt and forces paymentStatus to paid; cancelled stamps cancelledAt
// and stores the reason verbatim.
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, status, cancellationReason string) (*models.Order, error) {
	if !models.ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	previous := order.Status
	order.Status = status

	switch status {
	case models.StatusDelivered:
		order.DeliveredAt = &now
		order.PaymentStatus = models.PaymentPaid
	case models.StatusCancelled:
		order.CancelledAt = &now
		order.CancellationReason = cancellationReason
	}

	if err := s.orders.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}

	if s.reverseOnCancel && status == models.StatusCancelled && previous != models.StatusCancelled {
		if err := s.customers.ReverseOrder(ctx, order.CustomerID, order.TotalAmount); err != nil {
			log.Printf("[Order] stats reversal failed for customer %s on order %s: %v",
				order.CustomerID, order.OrderNumber, err)
		}
	}

	return order, nil
}

// Get returns an order by id, or ErrOrderNotFound.
func (s *OrderService) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("lookup order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// List returns a filtered page of orders plus the total count.
func (s *OrderService) List(ctx context.Context, filter repository.OrderFilter) ([]models.Order, int64, error) {
	return s.orders.List(ctx, filter)
}

// Delete removes an order outright. Customer aggregates are deliberately left
// untouched.
func (s *OrderService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.orders.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if !deleted {
		return ErrOrderNotFound
	}
	return nil
}

// Summary computes order statistics over an optional closed createdAt window.
func (s *OrderService) Summary(ctx context.Context, start, end *time.Time) (*Stats, error) {
	filter := repository.StatsFilter{Start: start, End: end}

	total, revenue, err := s.orders.CountAndRevenue(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("order totals: %w", err)
	}

	breakdown, err := s.orders.StatusBreakdown(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("status breakdown: %w", err)
	}

	topProducts, err := s.orders.TopProducts(ctx, filter, topProductsLimit)
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}

	return &Stats{
		TotalOrders:     total,
		TotalRevenue:    revenue,
		StatusBreakdown: breakdown,
		TopProducts:     topProducts,
	}, nil
}

func (s *OrderService) generateOrderNumber() string {
	timestamp := fmt.Sprintf("%d", s.clock.Now().UnixMilli())
	if len(timestamp) > 6 {
		timestamp = timestamp[len(timestamp)-6:]
	}

	suffix, err := rand.Int(rand.Reader, big.NewInt(1000))
	if err != nil {
		// crypto/rand only fails when the platform entropy source is
		// broken; fall back to a timestamp-derived suffix.
		suffix = big.NewInt(s.clock.Now().UnixNano() % 1000)
	}

	return fmt.Sprintf("%s%s%03d", orderNumberPrefix, timestamp, suffix.Int64())
}
