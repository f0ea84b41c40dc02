package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storefront/internal/models"
	"storefront/internal/policy"
	"storefront/internal/repositories"
)

// CustomerInput carries customer fields to write. Nil fields are left unchanged.
// UserID is honoured only for staff callers.
type CustomerInput struct {
	UserID     *string
	Phone      *string
	BirthDate  *time.Time
	Membership *string
}

// AddressInput carries address fields to write. Nil fields are left unchanged.
type AddressInput struct {
	Street *string
	City   *string
}

// CustomerService manages customer profiles and their addresses. Staff see
// every customer; anyone else sees only the customer linked to their identity.
type CustomerService struct {
	customers repositories.CustomerRepository
	addresses repositories.AddressRepository
}

// NewCustomerService creates a new CustomerService.
func NewCustomerService(customers repositories.CustomerRepository, addresses repositories.AddressRepository) *CustomerService {
	return &CustomerService{
		customers: customers,
		addresses: addresses,
	}
}

// ListCustomers lists the customers visible to caller.
func (s *CustomerService) ListCustomers(ctx context.Context, caller *policy.Identity) ([]models.Customer, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}
	if caller.IsStaff {
		return s.customers.GetAll(ctx)
	}
	own, err := s.customers.GetByUserID(ctx, caller.UserID)
	if err != nil {
		if isNotFound(err) {
			return []models.Customer{}, nil
		}
		return nil, err
	}
	return []models.Customer{*own}, nil
}

// GetCustomer retrieves a customer visible to caller.
func (s *CustomerService) GetCustomer(ctx context.Context, caller *policy.Identity, id uint) (*models.Customer, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.IsStaff && customer.UserID != caller.UserID {
		return nil, fmt.Errorf("customer with ID %d: %w", id, ErrNotFound)
	}
	return customer, nil
}

// CreateCustomer creates the customer record for caller, or for in.UserID
// when caller is staff. A user can have only one customer record.
func (s *CustomerService) CreateCustomer(ctx context.Context, caller *policy.Identity, in CustomerInput) (*models.Customer, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}
	userID := caller.UserID
	if caller.IsStaff && in.UserID != nil && strings.TrimSpace(*in.UserID) != "" {
		userID = strings.TrimSpace(*in.UserID)
	}
	return s.create(ctx, userID, in)
}

func (s *CustomerService) create(ctx context.Context, userID string, in CustomerInput) (*models.Customer, error) {
	if _, err := s.customers.GetByUserID(ctx, userID); err == nil {
		return nil, fmt.Errorf("customer for user %s: %w", userID, ErrDuplicate)
	} else if !isNotFound(err) {
		return nil, err
	}

	customer := &models.Customer{UserID: userID, Membership: models.MembershipBronze}
	if err := applyCustomer(customer, in); err != nil {
		return nil, err
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// Me retrieves the customer linked to caller.
func (s *CustomerService) Me(ctx context.Context, caller *policy.Identity) (*models.Customer, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}
	return s.customers.GetByUserID(ctx, caller.UserID)
}

// SaveMe updates the customer linked to caller, creating it when absent.
func (s *CustomerService) SaveMe(ctx context.Context, caller *policy.Identity, in CustomerInput) (*models.Customer, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}
	customer, err := s.customers.GetByUserID(ctx, caller.UserID)
	if err != nil {
		if isNotFound(err) {
			return s.create(ctx, caller.UserID, in)
		}
		return nil, err
	}
	return s.save(ctx, customer, in)
}

// UpdateCustomer applies the non-nil fields of in to a customer visible to caller.
func (s *CustomerService) UpdateCustomer(ctx context.Context, caller *policy.Identity, id uint, in CustomerInput) (*models.Customer, error) {
	customer, err := s.GetCustomer(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, customer, in)
}

func (s *CustomerService) save(ctx context.Context, customer *models.Customer, in CustomerInput) (*models.Customer, error) {
	if err := applyCustomer(customer, in); err != nil {
		return nil, err
	}
	if err := s.customers.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// DeleteCustomer removes a customer visible to caller that has placed no orders.
func (s *CustomerService) DeleteCustomer(ctx context.Context, caller *policy.Identity, id uint) error {
	if _, err := s.GetCustomer(ctx, caller, id); err != nil {
		return err
	}
	n, err := s.customers.CountOrders(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("customer %d has %d orders: %w", id, n, ErrHasDependents)
	}
	return s.customers.Delete(ctx, id)
}

func applyCustomer(c *models.Customer, in CustomerInput) error {
	if in.Phone != nil {
		c.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.BirthDate != nil {
		d := *in.BirthDate
		c.BirthDate = &d
	}
	if in.Membership != nil {
		if !models.IsValidMembership(*in.Membership) {
			return fmt.Errorf("invalid membership %q: %w", *in.Membership, ErrInvalidInput)
		}
		c.Membership = *in.Membership
	}
	return nil
}

// ListAddresses lists the addresses of a customer visible to caller.
func (s *CustomerService) ListAddresses(ctx context.Context, caller *policy.Identity, customerID uint) ([]models.Address, error) {
	if _, err := s.GetCustomer(ctx, caller, customerID); err != nil {
		return nil, err
	}
	return s.addresses.List(ctx, customerID)
}

// GetAddress retrieves one address of a customer visible to caller.
func (s *CustomerService) GetAddress(ctx context.Context, caller *policy.Identity, customerID, addressID uint) (*models.Address, error) {
	if _, err := s.GetCustomer(ctx, caller, customerID); err != nil {
		return nil, err
	}
	return s.addresses.GetByID(ctx, customerID, addressID)
}

// CreateAddress adds an address to a customer visible to caller.
func (s *CustomerService) CreateAddress(ctx context.Context, caller *policy.Identity, customerID uint, in AddressInput) (*models.Address, error) {
	if _, err := s.GetCustomer(ctx, caller, customerID); err != nil {
		return nil, err
	}
	if in.Street == nil || in.City == nil {
		return nil, fmt.Errorf("street and city are required: %w", ErrInvalidInput)
	}
	address := &models.Address{CustomerID: customerID}
	if err := applyAddress(address, in); err != nil {
		return nil, err
	}
	if err := s.addresses.Create(ctx, address); err != nil {
		return nil, err
	}
	return address, nil
}

// UpdateAddress applies the non-nil fields of in to an address.
func (s *CustomerService) UpdateAddress(ctx context.Context, caller *policy.Identity, customerID, addressID uint, in AddressInput) (*models.Address, error) {
	address, err := s.GetAddress(ctx, caller, customerID, addressID)
	if err != nil {
		return nil, err
	}
	if err := applyAddress(address, in); err != nil {
		return nil, err
	}
	if err := s.addresses.Update(ctx, address); err != nil {
		return nil, err
	}
	return address, nil
}

// DeleteAddress removes an address of a customer visible to caller.
func (s *CustomerService) DeleteAddress(ctx context.Context, caller *policy.Identity, customerID, addressID uint) error {
	if _, err := s.GetCustomer(ctx, caller, customerID); err != nil {
		return err
	}
	return s.addresses.Delete(ctx, customerID, addressID)
}

func applyAddress(a *models.Address, in AddressInput) error {
	if in.Street != nil {
		street := strings.TrimSpace(*in.Street)
		if street == "" {
			return fmt.Errorf("street may not be blank: %w", ErrInvalidInput)
		}
		a.Street = street
	}
	if in.City != nil {
		city := strings.TrimSpace(*in.City)
		if city == "" {
			return fmt.Errorf("city may not be blank: %w", ErrInvalidInput)
		}
		a.City = city
	}
	return nil
}
