package services_test

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/fnf/internal/models"
	"github.com/example/fnf/internal/repository"
	"github.com/example/fnf/internal/services/sms"
)

// ---------- Clock and codes ----------

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

func (c *fixedClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type staticCodes struct {
	code string
	err  error
}

func (s *staticCodes) Code() (string, error) { return s.code, s.err }

// ---------- SMS gateway ----------

type stubGateway struct {
	lastPhone string
	lastCode  string
	sends     int
	sendErr   error
}

func (g *stubGateway) Name() string     { return "stub" }
func (g *stubGateway) Configured() bool { return true }

func (g *stubGateway) Send(_ context.Context, phone, code string) (*sms.DispatchResult, error) {
	g.sends++
	g.lastPhone = phone
	g.lastCode = code
	if g.sendErr != nil {
		return nil, g.sendErr
	}
	return &sms.DispatchResult{Delivered: true, ProviderRef: "stub-ref"}, nil
}

// ---------- Challenge repository ----------

type memChallengeRepo struct {
	byPhone map[string]*models.OTPChallenge
}

func newMemChallengeRepo() *memChallengeRepo {
	return &memChallengeRepo{byPhone: make(map[string]*models.OTPChallenge)}
}

func (r *memChallengeRepo) Replace(_ context.Context, challenge *models.OTPChallenge) error {
	clone := *challenge
	r.byPhone[challenge.Phone] = &clone
	return nil
}

func (r *memChallengeRepo) FindLive(_ context.Context, phone string, now time.Time) (*models.OTPChallenge, error) {
	challenge, ok := r.byPhone[phone]
	if !ok || !challenge.Live(now) {
		return nil, nil
	}
	clone := *challenge
	return &clone, nil
}

func (r *memChallengeRepo) Update(_ context.Context, challenge *models.OTPChallenge) error {
	clone := *challenge
	r.byPhone[challenge.Phone] = &clone
	return nil
}

func (r *memChallengeRepo) Delete(_ context.Context, challenge *models.OTPChallenge) error {
	delete(r.byPhone, challenge.Phone)
	return nil
}

func (r *memChallengeRepo) PurgeExpired(_ context.Context, cutoff time.Time) (int64, error) {
	var purged int64
	for phone, challenge := range r.byPhone {
		if challenge.ExpiresAt.Before(cutoff) {
			delete(r.byPhone, phone)
			purged++
		}
	}
	return purged, nil
}

// ---------- Customer repository ----------

type memCustomerRepo struct {
	byID     map[uuid.UUID]*models.Customer
	saveErr  error
	statsErr error
}

func newMemCustomerRepo() *memCustomerRepo {
	return &memCustomerRepo{byID: make(map[uuid.UUID]*models.Customer)}
}

func (r *memCustomerRepo) Create(_ context.Context, customer *models.Customer) error {
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	clone := *customer
	r.byID[customer.ID] = &clone
	return nil
}

func (r *memCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Customer, error) {
	customer, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	clone := *customer
	return &clone, nil
}

func (r *memCustomerRepo) FindByPhone(_ context.Context, phone string) (*models.Customer, error) {
	for _, customer := range r.byID {
		if customer.Phone == phone {
			clone := *customer
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *memCustomerRepo) FindByExternalID(_ context.Context, externalID string) (*models.Customer, error) {
	for _, customer := range r.byID {
		if customer.ExternalAuthID != nil && *customer.ExternalAuthID == externalID {
			clone := *customer
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *memCustomerRepo) Save(_ context.Context, customer *models.Customer) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	clone := *customer
	r.byID[customer.ID] = &clone
	return nil
}

func (r *memCustomerRepo) List(_ context.Context, limit, offset int) ([]models.Customer, int64, error) {
	customers := make([]models.Customer, 0, len(r.byID))
	for _, customer := range r.byID {
		customers = append(customers, *customer)
	}
	sort.Slice(customers, func(i, j int) bool {
		return customers[i].CreatedAt.After(customers[j].CreatedAt)
	})
	total := int64(len(customers))
	if offset >= len(customers) {
		return nil, total, nil
	}
	customers = customers[offset:]
	if limit < len(customers) {
		customers = customers[:limit]
	}
	return customers, total, nil
}

func (r *memCustomerRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.byID, id)
	return nil
}

func (r *memCustomerRepo) ApplyOrderStats(_ context.Context, id uuid.UUID, amount float64, orderedAt time.Time) error {
	if r.statsErr != nil {
		return r.statsErr
	}
	customer, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("customer %s not found", id)
	}
	customer.TotalOrders++
	customer.TotalSpent += amount
	when := orderedAt
	customer.LastOrderDate = &when
	return nil
}

func (r *memCustomerRepo) ReverseOrderStats(_ context.Context, id uuid.UUID, amount float64) error {
	customer, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("customer %s not found", id)
	}
	if customer.TotalOrders > 0 {
		customer.TotalOrders--
	}
	customer.TotalSpent -= amount
	if customer.TotalSpent < 0 {
		customer.TotalSpent = 0
	}
	return nil
}

func listAll() repository.OrderFilter {
	return repository.OrderFilter{Limit: 100}
}

// ---------- Order repository ----------

type memOrderRepo struct {
	byID         map[uuid.UUID]*models.Order
	failCreates  int // force this many duplicate-key failures first
	createCalls  int
	orderNumbers map[string]bool
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{
		byID:         make(map[uuid.UUID]*models.Order),
		orderNumbers: make(map[string]bool),
	}
}

func (r *memOrderRepo) Create(_ context.Context, order *models.Order) error {
	r.createCalls++
	if r.failCreates > 0 {
		r.failCreates--
		return gorm.ErrDuplicatedKey
	}
	if r.orderNumbers[order.OrderNumber] {
		return gorm.ErrDuplicatedKey
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	clone := *order
	r.byID[order.ID] = &clone
	r.orderNumbers[order.OrderNumber] = true
	return nil
}

func (r *memOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	order, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	clone := *order
	return &clone, nil
}

func (r *memOrderRepo) Save(_ context.Context, order *models.Order) error {
	clone := *order
	r.byID[order.ID] = &clone
	return nil
}

func (r *memOrderRepo) List(_ context.Context, filter repository.OrderFilter) ([]models.Order, int64, error) {
	var orders []models.Order
	for _, order := range r.byID {
		if filter.Status != "" && order.Status != filter.Status {
			continue
		}
		if filter.CustomerID != nil && order.CustomerID != *filter.CustomerID {
			continue
		}
		orders = append(orders, *order)
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, int64(len(orders)), nil
}

func (r *memOrderRepo) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	if _, ok := r.byID[id]; !ok {
		return false, nil
	}
	delete(r.byID, id)
	return true, nil
}

func (r *memOrderRepo) matches(order *models.Order, filter repository.StatsFilter) bool {
	if filter.Start != nil && order.CreatedAt.Before(*filter.Start) {
		return false
	}
	if filter.End != nil && order.CreatedAt.After(*filter.End) {
		return false
	}
	return true
}

func (r *memOrderRepo) CountAndRevenue(_ context.Context, filter repository.StatsFilter) (int64, float64, error) {
	var total int64
	var revenue float64
	for _, order := range r.byID {
		if r.matches(order, filter) {
			total++
			revenue += order.TotalAmount
		}
	}
	return total, revenue, nil
}

func (r *memOrderRepo) StatusBreakdown(_ context.Context, filter repository.StatsFilter) (map[string]int64, error) {
	breakdown := make(map[string]int64)
	for _, order := range r.byID {
		if r.matches(order, filter) {
			breakdown[order.Status]++
		}
	}
	return breakdown, nil
}

func (r *memOrderRepo) TopProducts(_ context.Context, filter repository.StatsFilter, limit int) ([]repository.TopProduct, error) {
	byName := make(map[string]*repository.TopProduct)
	for _, order := range r.byID {
		if !r.matches(order, filter) {
			continue
		}
		for _, item := range order.Items {
			entry, ok := byName[item.ProductName]
			if !ok {
				entry = &repository.TopProduct{Name: item.ProductName}
				byName[item.ProductName] = entry
			}
			entry.Quantity += int64(item.Quantity)
			entry.Revenue += item.TotalPrice
		}
	}

	products := make([]repository.TopProduct, 0, len(byName))
	for _, entry := range byName {
		products = append(products, *entry)
	}
	sort.Slice(products, func(i, j int) bool {
		return products[i].Quantity > products[j].Quantity
	})
	if len(products) > limit {
		products = products[:limit]
	}
	return products, nil
}
