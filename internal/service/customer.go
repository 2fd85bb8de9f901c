package service

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/umalmyha/customers-crud/internal/errors"
	"github.com/umalmyha/customers-crud/internal/model"
	"github.com/umalmyha/customers-crud/internal/repository"
)

// CustomerService represents customer behavior
type CustomerService interface {
	FindAll(context.Context) ([]*model.Customer, error)
	FindByID(context.Context, int64) (*model.Customer, error)
	Create(context.Context, *model.Customer) (*model.Customer, error)
	Update(context.Context, int64, *model.Customer) (*model.Customer, error)
	DeleteByID(context.Context, int64) error
}

type customerService struct {
	customerRps repository.CustomerRepository
}

// NewCustomerService builds new customer service
func NewCustomerService(customerRps repository.CustomerRepository) CustomerService {
	return &customerService{customerRps: customerRps}
}

func (s *customerService) FindAll(ctx context.Context) ([]*model.Customer, error) {
	customers, err := s.customerRps.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read customers - %w", err)
	}
	return customers, nil
}

func (s *customerService) FindByID(ctx context.Context, id int64) (*model.Customer, error) {
	c, err := s.customerRps.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to read customer %d - %w", id, err)
	}

	if c == nil {
		return nil, customerNotFoundErr(id)
	}
	return c, nil
}

func (s *customerService) Create(ctx context.Context, c *model.Customer) (*model.Customer, error) {
	exists, err := s.customerRps.ExistsByEmail(ctx, c.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to verify email uniqueness - %w", err)
	}

	if exists {
		return nil, emailExistsErr(c.Email)
	}

	newCustomer := *c
	newCustomer.ID = 0 // always assigned by storage

	return s.save(ctx, &newCustomer)
}

// Update is a read-then-write sequence, two concurrent writers may both pass the email check,
// in this case the unique constraint of the storage decides.
func (s *customerService) Update(ctx context.Context, id int64, c *model.Customer) (*model.Customer, error) {
	existing, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if existing.Email != c.Email {
		exists, err := s.customerRps.ExistsByEmail(ctx, c.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to verify email uniqueness - %w", err)
		}

		if exists {
			return nil, emailExistsErr(c.Email)
		}
	}

	updated := *existing
	updated.Apply(c)

	return s.save(ctx, &updated)
}

func (s *customerService) DeleteByID(ctx context.Context, id int64) error {
	exists, err := s.customerRps.ExistsByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to read customer %d - %w", id, err)
	}

	if !exists {
		return customerNotFoundErr(id)
	}

	if err := s.customerRps.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete customer %d - %w", id, err)
	}
	return nil
}

func (s *customerService) save(ctx context.Context, c *model.Customer) (*model.Customer, error) {
	saved, err := s.customerRps.Save(ctx, c)
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, emailExistsErr(c.Email)
		}
		return nil, fmt.Errorf("failed to save customer - %w", err)
	}
	return saved, nil
}

func customerNotFoundErr(id int64) error {
	return apperrors.NewEntryNotFoundErr(fmt.Sprintf("Customer not found with id: %d", id))
}

func emailExistsErr(email string) error {
	return apperrors.NewBusinessErr("email", fmt.Sprintf("Email already exists: %s", email))
}
