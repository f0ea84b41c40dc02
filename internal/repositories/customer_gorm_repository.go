package repositories

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/models"

	"gorm.io/gorm"
)

// GORMCustomerRepository is a GORM implementation of CustomerRepository.
type GORMCustomerRepository struct {
	db *gorm.DB
}

// NewGORMCustomerRepository creates a new instance of GORMCustomerRepository.
func NewGORMCustomerRepository(db *gorm.DB) *GORMCustomerRepository {
	return &GORMCustomerRepository{
		db: db,
	}
}

// GetAll retrieves every customer.
func (r *GORMCustomerRepository) GetAll(ctx context.Context) ([]models.Customer, error) {
	var customers []models.Customer
	if err := r.db.WithContext(ctx).Order("id").Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("failed to get all customers: %w", err)
	}
	return customers, nil
}

// GetByID retrieves a customer by its ID.
func (r *GORMCustomerRepository) GetByID(ctx context.Context, id uint) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("customer with ID %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get customer by ID %d: %w", id, err)
	}
	return &customer, nil
}

// GetByUserID retrieves the customer linked to a user identity.
func (r *GORMCustomerRepository) GetByUserID(ctx context.Context, userID string) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).First(&customer, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("customer for user %s: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get customer by user %s: %w", userID, err)
	}
	return &customer, nil
}

// Create creates a new customer in the database.
func (r *GORMCustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	if err := r.db.WithContext(ctx).Create(customer).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("customer for user %s: %w", customer.UserID, ErrDuplicate)
		}
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

// Update writes the profile columns of a customer.
func (r *GORMCustomerRepository) Update(ctx context.Context, customer *models.Customer) error {
	err := r.db.WithContext(ctx).Model(&models.Customer{ID: customer.ID}).
		Select("phone", "birth_date", "membership").
		Updates(customer).Error
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}
	return nil
}

// Delete removes a customer and its addresses.
func (r *GORMCustomerRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("customer_id = ?", id).Delete(&models.Address{}).Error; err != nil {
			return fmt.Errorf("failed to delete customer addresses: %w", err)
		}
		res := tx.Delete(&models.Customer{}, id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete customer: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("customer with ID %d: %w", id, ErrNotFound)
		}
		return nil
	})
}

// CountOrders returns how many orders the customer owns.
func (r *GORMCustomerRepository) CountOrders(ctx context.Context, id uint) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Order{}).Where("customer_id = ?", id).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count orders of customer %d: %w", id, err)
	}
	return n, nil
}

// GORMAddressRepository is a GORM implementation of AddressRepository.
type GORMAddressRepository struct {
	db *gorm.DB
}

// NewGORMAddressRepository creates a new instance of GORMAddressRepository.
func NewGORMAddressRepository(db *gorm.DB) *GORMAddressRepository {
	return &GORMAddressRepository{db: db}
}

func (r *GORMAddressRepository) List(ctx context.Context, customerID uint) ([]models.Address, error) {
	var addresses []models.Address
	if err := r.db.WithContext(ctx).Where("customer_id = ?", customerID).Order("id").Find(&addresses).Error; err != nil {
		return nil, fmt.Errorf("failed to list addresses of customer %d: %w", customerID, err)
	}
	return addresses, nil
}

func (r *GORMAddressRepository) GetByID(ctx context.Context, customerID, id uint) (*models.Address, error) {
	var address models.Address
	if err := r.db.WithContext(ctx).Where("customer_id = ?", customerID).First(&address, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("address with ID %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get address %d: %w", id, err)
	}
	return &address, nil
}

func (r *GORMAddressRepository) Create(ctx context.Context, address *models.Address) error {
	if err := r.db.WithContext(ctx).Create(address).Error; err != nil {
		return fmt.Errorf("failed to create address: %w", err)
	}
	return nil
}

func (r *GORMAddressRepository) Update(ctx context.Context, address *models.Address) error {
	err := r.db.WithContext(ctx).Model(&models.Address{ID: address.ID}).
		Where("customer_id = ?", address.CustomerID).
		Select("street", "city").
		Updates(address).Error
	if err != nil {
		return fmt.Errorf("failed to update address: %w", err)
	}
	return nil
}

func (r *GORMAddressRepository) Delete(ctx context.Context, customerID, id uint) error {
	res := r.db.WithContext(ctx).Where("customer_id = ?", customerID).Delete(&models.Address{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete address: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("address with ID %d: %w", id, ErrNotFound)
	}
	return nil
}
