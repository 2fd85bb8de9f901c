package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	apperrors "github.com/umalmyha/customers-crud/internal/errors"
	"github.com/umalmyha/customers-crud/internal/model"
	"github.com/umalmyha/customers-crud/internal/repository"
	rpsMocks "github.com/umalmyha/customers-crud/internal/repository/mocks"
)

type customerTestData struct {
	ctx      context.Context
	customer *model.Customer
}

type customerServiceTestSuite struct {
	suite.Suite
	customerSvc     CustomerService
	customerRpsMock *rpsMocks.CustomerRepository
	testData        *customerTestData
}

func (s *customerServiceTestSuite) SetupSuite() {
	s.testData = &customerTestData{
		ctx: context.Background(),
		customer: &model.Customer{
			ID:          17,
			FirstName:   "John",
			LastName:    "Walls",
			Email:       "john.walls@somemal.com",
			PhoneNumber: "+375291112233",
			Address:     "Lenina 1, Minsk",
		},
	}
}

func (s *customerServiceTestSuite) SetupTest() {
	s.customerRpsMock = rpsMocks.NewCustomerRepository(s.T())
	s.customerSvc = NewCustomerService(s.customerRpsMock)
}

func (s *customerServiceTestSuite) TestFindAllSuccessfully() {
	ctx := s.testData.ctx
	customers := []*model.Customer{s.testData.customer}

	s.customerRpsMock.On("FindAll", ctx).Return(customers, nil).Once()

	s.T().Log("customers must be read from data source")
	{
		res, err := s.customerSvc.FindAll(ctx)
		s.Assert().NoError(err, "no error must be raised")
		s.Assert().Equal(customers, res)
	}
}

func (s *customerServiceTestSuite) TestFindAllFailed() {
	ctx := s.testData.ctx
	dbErr := errors.New("connection refused")

	s.customerRpsMock.On("FindAll", ctx).Return(nil, dbErr).Once()

	s.T().Log("storage error must be raised up")
	{
		_, err := s.customerSvc.FindAll(ctx)
		s.Assert().ErrorIs(err, dbErr)
		s.Assert().False(apperrors.IsNotFound(err), "storage error is not a domain error")
	}
}

func (s *customerServiceTestSuite) TestFindByIDSuccessfully() {
	ctx := s.testData.ctx
	customer := s.testData.customer

	s.customerRpsMock.On("FindByID", ctx, customer.ID).Return(customer, nil).Once()

	c, err := s.customerSvc.FindByID(ctx, customer.ID)
	s.Assert().NoError(err, "no error must be raised")
	s.Assert().Equal(customer, c)
}

func (s *customerServiceTestSuite) TestFindByIDNotFound() {
	ctx := s.testData.ctx

	s.customerRpsMock.On("FindByID", ctx, int64(404)).Return(nil, nil).Once()

	s.T().Log("customer is missing in data source")
	{
		c, err := s.customerSvc.FindByID(ctx, 404)
		s.Assert().Nil(c, "no customer must be returned")
		s.Assert().True(apperrors.IsNotFound(err), "not found error must be raised")
		s.Assert().EqualError(err, "Customer not found with id: 404")
	}
}

func (s *customerServiceTestSuite) TestCreateSuccessfully() {
	ctx := s.testData.ctx
	input := *s.testData.customer
	input.ID = 999 // client supplied id is ignored

	s.customerRpsMock.On("ExistsByEmail", ctx, input.Email).Return(false, nil).Once()
	s.customerRpsMock.On("Save", ctx, mock.MatchedBy(func(c *model.Customer) bool {
		return c.IsNew() && c.Email == input.Email
	})).Return(func(_ context.Context, c *model.Customer) *model.Customer {
		saved := *c
		saved.ID = 1
		return &saved
	}, nil).Once()

	s.T().Log("customer must be created with id assigned by storage")
	{
		c, err := s.customerSvc.Create(ctx, &input)
		s.Assert().NoError(err, "no error must be raised")
		s.Assert().Equal(int64(1), c.ID)
		s.Assert().Equal(input.FirstName, c.FirstName)
	}
}

func (s *customerServiceTestSuite) TestCreateDuplicateEmail() {
	ctx := s.testData.ctx
	customer := s.testData.customer

	s.customerRpsMock.On("ExistsByEmail", ctx, customer.Email).Return(true, nil).Once()

	s.T().Log("email is already used, nothing must be saved")
	{
		_, err := s.customerSvc.Create(ctx, customer)
		s.Assert().True(apperrors.IsInvalidArgument(err), "business error must be raised")
		s.Assert().EqualError(err, "Email already exists: john.walls@somemal.com")
		s.customerRpsMock.AssertNotCalled(s.T(), "Save", mock.Anything, mock.Anything)
	}
}

func (s *customerServiceTestSuite) TestCreateLostRace() {
	ctx := s.testData.ctx
	customer := s.testData.customer

	s.customerRpsMock.On("ExistsByEmail", ctx, customer.Email).Return(false, nil).Once()
	s.customerRpsMock.On("Save", ctx, mock.AnythingOfType("*model.Customer")).Return(nil, repository.ErrEmailTaken).Once()

	s.T().Log("storage rejected email which was free at check time")
	{
		_, err := s.customerSvc.Create(ctx, customer)
		s.Assert().True(apperrors.IsInvalidArgument(err), "business error must be raised")
	}
}

func (s *customerServiceTestSuite) TestUpdateNotFound() {
	ctx := s.testData.ctx
	customer := s.testData.customer

	s.customerRpsMock.On("FindByID", ctx, customer.ID).Return(nil, nil).Once()

	_, err := s.customerSvc.Update(ctx, customer.ID, customer)
	s.Assert().True(apperrors.IsNotFound(err), "not found error must be raised")
	s.customerRpsMock.AssertNotCalled(s.T(), "Save", mock.Anything, mock.Anything)
}

func (s *customerServiceTestSuite) TestUpdateSameEmail() {
	ctx := s.testData.ctx
	existing := *s.testData.customer

	input := existing
	input.ID = 0
	input.LastName = "C"

	s.customerRpsMock.On("FindByID", ctx, existing.ID).Return(&existing, nil).Once()
	s.customerRpsMock.On("Save", ctx, mock.AnythingOfType("*model.Customer")).
		Return(func(_ context.Context, c *model.Customer) *model.Customer { return c }, nil).Once()

	s.T().Log("own email must not cause uniqueness conflict")
	{
		c, err := s.customerSvc.Update(ctx, existing.ID, &input)
		s.Assert().NoError(err, "no error must be raised")
		s.Assert().Equal(existing.ID, c.ID, "id must be kept")
		s.Assert().Equal("C", c.LastName)
		s.customerRpsMock.AssertNotCalled(s.T(), "ExistsByEmail", mock.Anything, mock.Anything)
	}
}

func (s *customerServiceTestSuite) TestUpdateEmailOfAnotherCustomer() {
	ctx := s.testData.ctx
	existing := *s.testData.customer

	input := existing
	input.Email = "taken@somemal.com"

	s.customerRpsMock.On("FindByID", ctx, existing.ID).Return(&existing, nil).Once()
	s.customerRpsMock.On("ExistsByEmail", ctx, input.Email).Return(true, nil).Once()

	s.T().Log("email belongs to another customer, target must stay unchanged")
	{
		_, err := s.customerSvc.Update(ctx, existing.ID, &input)
		s.Assert().True(apperrors.IsInvalidArgument(err), "business error must be raised")
		s.Assert().EqualError(err, "Email already exists: taken@somemal.com")
		s.customerRpsMock.AssertNotCalled(s.T(), "Save", mock.Anything, mock.Anything)
	}
}

func (s *customerServiceTestSuite) TestUpdateNewEmail() {
	ctx := s.testData.ctx
	existing := *s.testData.customer

	input := model.Customer{
		FirstName:   "Johnny",
		LastName:    "Walls",
		Email:       "johnny.walls@somemal.com",
		PhoneNumber: "+375290000000",
		Address:     "Lenina 2, Minsk",
	}

	s.customerRpsMock.On("FindByID", ctx, existing.ID).Return(&existing, nil).Once()
	s.customerRpsMock.On("ExistsByEmail", ctx, input.Email).Return(false, nil).Once()
	s.customerRpsMock.On("Save", ctx, mock.AnythingOfType("*model.Customer")).
		Return(func(_ context.Context, c *model.Customer) *model.Customer { return c }, nil).Once()

	c, err := s.customerSvc.Update(ctx, existing.ID, &input)
	s.Assert().NoError(err, "no error must be raised")

	expected := input
	expected.ID = existing.ID
	s.Assert().Equal(&expected, c, "all mutable fields must be overwritten")
}

func (s *customerServiceTestSuite) TestDeleteByIDSuccessfully() {
	ctx := s.testData.ctx
	customer := s.testData.customer

	s.customerRpsMock.On("ExistsByID", ctx, customer.ID).Return(true, nil).Once()
	s.customerRpsMock.On("DeleteByID", ctx, customer.ID).Return(nil).Once()

	s.T().Log("deleted successfully")
	{
		err := s.customerSvc.DeleteByID(ctx, customer.ID)
		s.Assert().NoError(err, "no error must be raised")
		s.customerRpsMock.AssertCalled(s.T(), "DeleteByID", ctx, customer.ID)
	}
}

func (s *customerServiceTestSuite) TestDeleteByIDNotFound() {
	ctx := s.testData.ctx

	s.customerRpsMock.On("ExistsByID", ctx, int64(5)).Return(false, nil).Once()

	err := s.customerSvc.DeleteByID(ctx, 5)
	s.Assert().True(apperrors.IsNotFound(err), "not found error must be raised")
	s.customerRpsMock.AssertNotCalled(s.T(), "DeleteByID", mock.Anything, mock.Anything)
}

func (s *customerServiceTestSuite) TestDeleteByIDFailed() {
	ctx := s.testData.ctx
	customer := s.testData.customer
	dbErr := errors.New("db err")

	s.customerRpsMock.On("ExistsByID", ctx, customer.ID).Return(true, nil).Once()
	s.customerRpsMock.On("DeleteByID", ctx, customer.ID).Return(dbErr).Once()

	err := s.customerSvc.DeleteByID(ctx, customer.ID)
	s.Assert().ErrorIs(err, dbErr, "storage error must be raised up")
}

// start customer service test suite
func TestCustomerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(customerServiceTestSuite))
}
