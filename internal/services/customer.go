package services

import (
	"context"
	"fmt"
	"regexp"

	"github.com/google/uuid"

	"github.com/example/fnf/internal/models"
	"github.com/example/fnf/internal/repository"
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// CustomerDefaults seeds name fields when a verification creates a customer.
type CustomerDefaults struct {
	FirstName string
	LastName  string
}

// CustomerService resolves verified phones and external identities to
// customer records and maintains their denormalized order statistics.
type CustomerService struct {
	customers repository.CustomerRepository
	clock     Clock
}

func NewCustomerService(customers repository.CustomerRepository, clock Clock) *CustomerService {
	return &CustomerService{customers: customers, clock: clock}
}

// ResolveOrCreateByPhone returns the customer owning the phone, creating one
// on first verification. Call only after the OTP check succeeds. Name fields
// are never left empty: firstName falls back to "Customer" and lastName to
// the phone itself.
func (s *CustomerService) ResolveOrCreateByPhone(ctx context.Context, phone string, defaults CustomerDefaults) (*models.Customer, error) {
	existing, err := s.customers.FindByPhone(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("lookup customer: %w", err)
	}
	if existing != nil {
		existing.IsVerified = true
		if err := s.customers.Save(ctx, existing); err != nil {
			return nil, fmt.Errorf("mark verified: %w", err)
		}
		return existing, nil
	}

	firstName := defaults.FirstName
	if firstName == "" {
		firstName = "Customer"
	}
	lastName := defaults.LastName
	if lastName == "" {
		lastName = phone
	}

	customer := &models.Customer{
		Phone:      phone,
		FirstName:  firstName,
		LastName:   lastName,
		IsVerified: true,
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	return customer, nil
}

// SyncByExternalID upserts a customer keyed on the identity-provider subject.
// An existing record gets its name, phone, and email overwritten; either way
// lastLogin is stamped. The phone must be a bare 10-digit national number:
// callers strip any country prefix before syncing.
func (s *CustomerService) SyncByExternalID(ctx context.Context, externalID, firstName, lastName, phone, email string) (*models.Customer, error) {
	if externalID == "" || firstName == "" || phone == "" {
		return nil, ErrMissingFields
	}
	if !phonePattern.MatchString(phone) {
		return nil, ErrInvalidPhone
	}
	if email != "" && !emailPattern.MatchString(email) {
		return nil, ErrInvalidEmail
	}

	now := s.clock.Now()

	existing, err := s.customers.FindByExternalID(ctx, externalID)
	if err != nil {
		return nil, fmt.Errorf("lookup customer: %w", err)
	}
	if existing != nil {
		existing.FirstName = firstName
		existing.LastName = lastName
		existing.Phone = phone
		existing.Email = email
		existing.LastLogin = &now
		if err := s.customers.Save(ctx, existing); err != nil {
			return nil, fmt.Errorf("sync customer: %w", err)
		}
		return existing, nil
	}

	customer := &models.Customer{
		ExternalAuthID: &externalID,
		FirstName:      firstName,
		LastName:       lastName,
		Phone:          phone,
		Email:          email,
		IsVerified:     true,
		LastLogin:      &now,
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	return customer, nil
}

// RecordOrder applies one order's contribution to the customer's aggregates.
// Not idempotent: the order service calls it exactly once per created order.
func (s *CustomerService) RecordOrder(ctx context.Context, customerID uuid.UUID, amount float64) error {
	return s.customers.ApplyOrderStats(ctx, customerID, amount, s.clock.Now())
}

// ReverseOrder undoes one order's contribution to the aggregates. Used only
// when cancellation reversal is enabled.
func (s *CustomerService) ReverseOrder(ctx context.Context, customerID uuid.UUID, amount float64) error {
	return s.customers.ReverseOrderStats(ctx, customerID, amount)
}

// Get returns a customer by id, or ErrCustomerNotFound.
func (s *CustomerService) Get(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	customer, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("lookup customer: %w", err)
	}
	if customer == nil {
		return nil, ErrCustomerNotFound
	}
	return customer, nil
}

// List returns a page of customers plus the total count.
func (s *CustomerService) List(ctx context.Context, limit, offset int) ([]models.Customer, int64, error) {
	return s.customers.List(ctx, limit, offset)
}

// CustomerUpdate carries the admin-editable customer fields.
type CustomerUpdate struct {
	FirstName string
	LastName  string
	Email     string
	Address   *models.Address
}

// Update overwrites the editable profile fields of a customer.
func (s *CustomerService) Update(ctx context.Context, id uuid.UUID, update CustomerUpdate) (*models.Customer, error) {
	customer, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.FirstName != "" {
		customer.FirstName = update.FirstName
	}
	if update.LastName != "" {
		customer.LastName = update.LastName
	}
	if update.Email != "" {
		if !emailPattern.MatchString(update.Email) {
			return nil, ErrInvalidEmail
		}
		customer.Email = update.Email
	}
	if update.Address != nil {
		customer.Address = *update.Address
	}

	if err := s.customers.Save(ctx, customer); err != nil {
		return nil, fmt.Errorf("update customer: %w", err)
	}
	return customer, nil
}

// Delete removes a customer record.
func (s *CustomerService) Delete(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	customer, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.customers.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("delete customer: %w", err)
	}
	return customer, nil
}
