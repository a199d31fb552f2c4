package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/example/fnf/internal/models"
	"github.com/example/fnf/internal/services"
)

func TestResolveOrCreateByPhoneCreatesWithFallbackNames(t *testing.T) {
	repo := newMemCustomerRepo()
	svc := services.NewCustomerService(repo, &fixedClock{now: time.Now()})

	customer, err := svc.ResolveOrCreateByPhone(context.Background(), "9876543210", services.CustomerDefaults{})
	if err != nil {
		t.Fatalf("ResolveOrCreateByPhone: %v", err)
	}

	if customer.FirstName != "Customer" {
		t.Errorf("firstName = %q, want Customer", customer.FirstName)
	}
	if customer.LastName != "9876543210" {
		t.Errorf("lastName = %q, want phone fallback", customer.LastName)
	}
	if !customer.IsVerified {
		t.Error("customer not marked verified")
	}
}

func TestResolveOrCreateByPhoneUsesSuppliedDefaults(t *testing.T) {
	repo := newMemCustomerRepo()
	svc := services.NewCustomerService(repo, &fixedClock{now: time.Now()})

	customer, err := svc.ResolveOrCreateByPhone(context.Background(), "9876543210",
		services.CustomerDefaults{FirstName: "Asha", LastName: "Patel"})
	if err != nil {
		t.Fatalf("ResolveOrCreateByPhone: %v", err)
	}

	if customer.FirstName != "Asha" || customer.LastName != "Patel" {
		t.Errorf("name = %q %q, want Asha Patel", customer.FirstName, customer.LastName)
	}
}

func TestResolveOrCreateByPhoneOnlyMarksExistingVerified(t *testing.T) {
	repo := newMemCustomerRepo()
	svc := services.NewCustomerService(repo, &fixedClock{now: time.Now()})

	existing := &models.Customer{
		FirstName:  "Ravi",
		LastName:   "Kumar",
		Phone:      "9876543210",
		Email:      "ravi@example.com",
		IsVerified: false,
	}
	if err := repo.Create(context.Background(), existing); err != nil {
		t.Fatalf("seed: %v", err)
	}

	customer, err := svc.ResolveOrCreateByPhone(context.Background(), "9876543210",
		services.CustomerDefaults{FirstName: "Someone", LastName: "Else"})
	if err != nil {
		t.Fatalf("ResolveOrCreateByPhone: %v", err)
	}

	if customer.ID != existing.ID {
		t.Fatal("created a duplicate instead of resolving the existing customer")
	}
	if !customer.IsVerified {
		t.Error("existing customer not marked verified")
	}
	if customer.FirstName != "Ravi" || customer.Email != "ravi@example.com" {
		t.Error("existing fields were overwritten on resolve")
	}
}

func TestSyncByExternalIDRequiresFields(t *testing.T) {
	svc := services.NewCustomerService(newMemCustomerRepo(), &fixedClock{now: time.Now()})

	cases := []struct {
		name                     string
		externalID, first, phone string
	}{
		{"missing external id", "", "Asha", "9876543210"},
		{"missing first name", "sub-1", "", "9876543210"},
		{"missing phone", "sub-1", "Asha", ""},
	}
	for _, tc := range cases {
		_, err := svc.SyncByExternalID(context.Background(), tc.externalID, tc.first, "Patel", tc.phone, "")
		if !errors.Is(err, services.ErrMissingFields) {
			t.Errorf("%s: got %v, want ErrMissingFields", tc.name, err)
		}
	}
}

func TestSyncByExternalIDValidatesFormats(t *testing.T) {
	svc := services.NewCustomerService(newMemCustomerRepo(), &fixedClock{now: time.Now()})

	cases := []struct {
		name    string
		phone   string
		email   string
		wantErr error
	}{
		{"short phone", "12345", "", services.ErrInvalidPhone},
		{"prefixed phone", "+919876543210", "", services.ErrInvalidPhone},
		{"alphabetic phone", "98765abc10", "", services.ErrInvalidPhone},
		{"malformed email", "9876543210", "not-an-email", services.ErrInvalidEmail},
		{"email without domain", "9876543210", "asha@", services.ErrInvalidEmail},
		{"valid with email", "9876543210", "asha@example.com", nil},
		{"valid without email", "9123456780", "", nil},
	}
	for _, tc := range cases {
		_, err := svc.SyncByExternalID(context.Background(), "sub-"+tc.name, "Asha", "Patel", tc.phone, tc.email)
		if !errors.Is(err, tc.wantErr) {
			t.Errorf("%s: got %v, want %v", tc.name, err, tc.wantErr)
		}
	}
}

func TestSyncByExternalIDUpserts(t *testing.T) {
	repo := newMemCustomerRepo()
	clock := &fixedClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc := services.NewCustomerService(repo, clock)

	created, err := svc.SyncByExternalID(context.Background(), "sub-1", "Asha", "Patel", "9876543210", "asha@example.com")
	if err != nil {
		t.Fatalf("first sync: %v", err)
	}
	if created.LastLogin == nil || !created.LastLogin.Equal(clock.Now()) {
		t.Fatal("lastLogin not stamped on create")
	}

	clock.Advance(time.Hour)
	updated, err := svc.SyncByExternalID(context.Background(), "sub-1", "Asha", "Sharma", "9123456780", "asha.s@example.com")
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}

	if updated.ID != created.ID {
		t.Fatal("second sync created a duplicate customer")
	}
	if updated.LastName != "Sharma" || updated.Phone != "9123456780" || updated.Email != "asha.s@example.com" {
		t.Errorf("fields not overwritten: %+v", updated)
	}
	if updated.LastLogin == nil || !updated.LastLogin.Equal(clock.Now()) {
		t.Error("lastLogin not restamped on sync")
	}
}

func TestRecordOrderAppliesAggregates(t *testing.T) {
	repo := newMemCustomerRepo()
	clock := &fixedClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc := services.NewCustomerService(repo, clock)

	customer := &models.Customer{Phone: "9876543210", TotalOrders: 2, TotalSpent: 500}
	if err := repo.Create(context.Background(), customer); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := svc.RecordOrder(context.Background(), customer.ID, 250); err != nil {
		t.Fatalf("RecordOrder: %v", err)
	}

	stored, _ := repo.FindByID(context.Background(), customer.ID)
	if stored.TotalOrders != 3 {
		t.Errorf("totalOrders = %d, want 3", stored.TotalOrders)
	}
	if stored.TotalSpent != 750 {
		t.Errorf("totalSpent = %v, want 750", stored.TotalSpent)
	}
	if stored.LastOrderDate == nil || !stored.LastOrderDate.Equal(clock.Now()) {
		t.Error("lastOrderDate not stamped")
	}
}

func TestUpdateCustomerRejectsBadEmail(t *testing.T) {
	repo := newMemCustomerRepo()
	svc := services.NewCustomerService(repo, &fixedClock{now: time.Now()})

	customer := &models.Customer{Phone: "9876543210", Email: "asha@example.com"}
	if err := repo.Create(context.Background(), customer); err != nil {
		t.Fatalf("seed: %v", err)
	}

	_, err := svc.Update(context.Background(), customer.ID, services.CustomerUpdate{Email: "not-an-email"})
	if !errors.Is(err, services.ErrInvalidEmail) {
		t.Fatalf("got %v, want ErrInvalidEmail", err)
	}

	stored, _ := repo.FindByID(context.Background(), customer.ID)
	if stored.Email != "asha@example.com" {
		t.Errorf("email = %q, rejected update must not persist", stored.Email)
	}
}

func TestGetUnknownCustomer(t *testing.T) {
	svc := services.NewCustomerService(newMemCustomerRepo(), &fixedClock{now: time.Now()})

	_, err := svc.Get(context.Background(), uuid.New())
	if !errors.Is(err, services.ErrCustomerNotFound) {
		t.Fatalf("got %v, want ErrCustomerNotFound", err)
	}
}

func TestUpdateCustomerTouchesOnlyEditableFields(t *testing.T) {
	repo := newMemCustomerRepo()
	svc := services.NewCustomerService(repo, &fixedClock{now: time.Now()})

	customer := &models.Customer{Phone: "9876543210", FirstName: "Asha", TotalOrders: 4, TotalSpent: 900}
	if err := repo.Create(context.Background(), customer); err != nil {
		t.Fatalf("seed: %v", err)
	}

	updated, err := svc.Update(context.Background(), customer.ID, services.CustomerUpdate{
		FirstName: "Aisha",
		Email:     "aisha@example.com",
		Address:   &models.Address{Street: "12 MG Road", City: "Pune"},
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if updated.FirstName != "Aisha" || updated.Email != "aisha@example.com" || updated.Address.City != "Pune" {
		t.Errorf("edit not applied: %+v", updated)
	}
	if updated.Phone != "9876543210" || updated.TotalOrders != 4 || updated.TotalSpent != 900 {
		t.Error("non-editable fields changed")
	}
}
