package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgconn"
	"github.com/stretchr/testify/suite"
	"github.com/umalmyha/customers-crud/internal/model"
)

var customerColumns = []string{"id", "first_name", "last_name", "email", "phone_number", "address"}

type postgresCustomerRepositoryTestSuite struct {
	suite.Suite
	ctx  context.Context
	db   *sql.DB
	mock sqlmock.Sqlmock
	rps  CustomerRepository
}

func (s *postgresCustomerRepositoryTestSuite) SetupTest() {
	db, mock, err := sqlmock.New()
	s.Require().NoError(err, "failed to create sql mock")

	s.ctx = context.Background()
	s.db = db
	s.mock = mock
	s.rps = NewPostgresCustomerRepository(db)
}

func (s *postgresCustomerRepositoryTestSuite) TearDownTest() {
	s.Assert().NoError(s.mock.ExpectationsWereMet(), "all expected queries must be executed")

	s.mock.ExpectClose()
	s.Assert().NoError(s.db.Close(), "db must be closed")
}

func (s *postgresCustomerRepositoryTestSuite) TestFindAll() {
	s.mock.ExpectQuery(regexp.QuoteMeta(pgFindAllCustomersQuery)).
		WillReturnRows(sqlmock.NewRows(customerColumns).
			AddRow(1, "John", "Smith", "john.smith@example.com", "+100", "Main st. 1").
			AddRow(2, "Jane", "Doe", "jane.doe@example.com", "+200", "Main st. 2"))

	customers, err := s.rps.FindAll(s.ctx)
	s.Require().NoError(err, "no error must be raised")
	s.Require().Len(customers, 2)
	s.Assert().Equal(int64(1), customers[0].ID)
	s.Assert().Equal("jane.doe@example.com", customers[1].Email)
}

func (s *postgresCustomerRepositoryTestSuite) TestFindAllEmpty() {
	s.mock.ExpectQuery(regexp.QuoteMeta(pgFindAllCustomersQuery)).
		WillReturnRows(sqlmock.NewRows(customerColumns))

	customers, err := s.rps.FindAll(s.ctx)
	s.Require().NoError(err, "no error must be raised")
	s.Assert().NotNil(customers, "empty result must be an empty slice")
	s.Assert().Empty(customers)
}

func (s *postgresCustomerRepositoryTestSuite) TestFindByID() {
	s.mock.ExpectQuery(regexp.QuoteMeta(pgFindCustomerByIDQuery)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(customerColumns).
			AddRow(7, "John", "Smith", "john.smith@example.com", "+100", "Main st. 1"))

	c, err := s.rps.FindByID(s.ctx, 7)
	s.Require().NoError(err, "no error must be raised")
	s.Assert().Equal(&model.Customer{
		ID:          7,
		FirstName:   "John",
		LastName:    "Smith",
		Email:       "john.smith@example.com",
		PhoneNumber: "+100",
		Address:     "Main st. 1",
	}, c)
}

func (s *postgresCustomerRepositoryTestSuite) TestFindByIDMissing() {
	s.mock.ExpectQuery(regexp.QuoteMeta(pgFindCustomerByIDQuery)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(customerColumns))

	c, err := s.rps.FindByID(s.ctx, 7)
	s.Require().NoError(err, "missing row is not an error")
	s.Assert().Nil(c, "no customer must be returned")
}

func (s *postgresCustomerRepositoryTestSuite) TestExists() {
	s.mock.ExpectQuery(regexp.QuoteMeta(pgExistsCustomerEmailQuery)).
		WithArgs("john.smith@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	s.mock.ExpectQuery(regexp.QuoteMeta(pgExistsCustomerIDQuery)).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	byEmail, err := s.rps.ExistsByEmail(s.ctx, "john.smith@example.com")
	s.Require().NoError(err)
	s.Assert().True(byEmail)

	byID, err := s.rps.ExistsByID(s.ctx, 3)
	s.Require().NoError(err)
	s.Assert().False(byID)
}

func (s *postgresCustomerRepositoryTestSuite) TestSaveInsertsNewCustomer() {
	c := &model.Customer{FirstName: "John", LastName: "Smith", Email: "john.smith@example.com", PhoneNumber: "+100", Address: "Main st. 1"}

	s.mock.ExpectQuery(regexp.QuoteMeta(pgInsertCustomerQuery)).
		WithArgs(c.FirstName, c.LastName, c.Email, c.PhoneNumber, c.Address).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))

	saved, err := s.rps.Save(s.ctx, c)
	s.Require().NoError(err, "no error must be raised")
	s.Assert().Equal(int64(12), saved.ID, "id must be assigned by storage")
	s.Assert().Equal(int64(0), c.ID, "input must stay untouched")
}

func (s *postgresCustomerRepositoryTestSuite) TestSaveUpdatesExistingCustomer() {
	c := &model.Customer{ID: 12, FirstName: "John", LastName: "Doe", Email: "john.smith@example.com", PhoneNumber: "+100", Address: "Main st. 1"}

	s.mock.ExpectQuery(regexp.QuoteMeta(pgUpsertCustomerQuery)).
		WithArgs(c.ID, c.FirstName, c.LastName, c.Email, c.PhoneNumber, c.Address).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))

	saved, err := s.rps.Save(s.ctx, c)
	s.Require().NoError(err, "no error must be raised")
	s.Assert().Equal(c, saved)
}

func (s *postgresCustomerRepositoryTestSuite) TestSaveUniqueViolation() {
	c := &model.Customer{FirstName: "John", LastName: "Smith", Email: "john.smith@example.com"}

	s.mock.ExpectQuery(regexp.QuoteMeta(pgInsertCustomerQuery)).
		WillReturnError(&pgconn.PgError{Code: pgUniqueViolationCode, ConstraintName: "customers_email_key"})

	_, err := s.rps.Save(s.ctx, c)
	s.Assert().ErrorIs(err, ErrEmailTaken, "unique violation must be reported as taken email")
}

func (s *postgresCustomerRepositoryTestSuite) TestSaveFailure() {
	c := &model.Customer{FirstName: "John", LastName: "Smith", Email: "john.smith@example.com"}
	dbErr := errors.New("connection refused")

	s.mock.ExpectQuery(regexp.QuoteMeta(pgInsertCustomerQuery)).WillReturnError(dbErr)

	_, err := s.rps.Save(s.ctx, c)
	s.Assert().ErrorIs(err, dbErr, "storage error must be raised up")
}

func (s *postgresCustomerRepositoryTestSuite) TestDeleteByID() {
	s.mock.ExpectExec(regexp.QuoteMeta(pgDeleteCustomerByIDQuery)).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	s.Assert().NoError(s.rps.DeleteByID(s.ctx, 5))
}

// start postgres customer repository test suite
func TestPostgresCustomerRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(postgresCustomerRepositoryTestSuite))
}
