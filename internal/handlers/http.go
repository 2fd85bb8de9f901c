package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	apperrors "github.com/umalmyha/customers-crud/internal/errors"
	"github.com/umalmyha/customers-crud/internal/model"
	"github.com/umalmyha/customers-crud/internal/service"
)

type errorResponse struct {
	Error string `json:"error"`
}

type customerPayload struct {
	FirstName   string `json:"firstName" validate:"max=255"`
	LastName    string `json:"lastName" validate:"max=255"`
	Email       string `json:"email" validate:"max=255"`
	PhoneNumber string `json:"phoneNumber" validate:"max=255"`
	Address     string `json:"address" validate:"max=255"`
}

func (p *customerPayload) customer() *model.Customer {
	return &model.Customer{
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Email:       p.Email,
		PhoneNumber: p.PhoneNumber,
		Address:     p.Address,
	}
}

// CustomerHTTPHandler is http handler for customer endpoint
type CustomerHTTPHandler struct {
	customerSvc service.CustomerService
}

// NewCustomerHTTPHandler builds new CustomerHTTPHandler
func NewCustomerHTTPHandler(customerSvc service.CustomerService) *CustomerHTTPHandler {
	return &CustomerHTTPHandler{customerSvc: customerSvc}
}

// GetAll gets all customers
// @Summary     Get all customers
// @Description Returns all customers
// @Tags        customers
// @Produce     json
// @Success     200    {array}  model.Customer
// @Failure     500    {object} echo.HTTPError
// @Router      /api/v1/customers [get]
func (h *CustomerHTTPHandler) GetAll(c echo.Context) error {
	customers, err := h.customerSvc.FindAll(c.Request().Context())
	if err != nil {
		return err
	}

	if customers == nil {
		customers = make([]*model.Customer, 0)
	}
	return c.JSON(http.StatusOK, customers)
}

// Get gets customer
// @Summary     Get single customer by id
// @Description Returns single customer with provided id
// @Tags        customers
// @Produce     json
// @Param       id     path     int true "Customer id"
// @Success     200    {object} model.Customer
// @Failure     400    {object} errorResponse
// @Failure     404    "Customer not found"
// @Failure     500    {object} echo.HTTPError
// @Router      /api/v1/customers/{id} [get]
func (h *CustomerHTTPHandler) Get(c echo.Context) error {
	id, err := customerID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, &errorResponse{Error: err.Error()})
	}

	customer, err := h.customerSvc.FindByID(c.Request().Context(), id)
	if err != nil {
		return h.serviceError(c, err)
	}
	return c.JSON(http.StatusOK, customer)
}

// Post creates new customer
// @Summary     New Customer
// @Description Creates new customer, id is assigned by the server
// @Tags        customers
// @Accept      json
// @Produce     json
// @Param       customer body     customerPayload true "Data for new customer"
// @Success     201      {object} model.Customer
// @Failure     400      {object} errorResponse
// @Failure     500      {object} echo.HTTPError
// @Router      /api/v1/customers [post]
func (h *CustomerHTTPHandler) Post(c echo.Context) error {
	var p customerPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, &errorResponse{Error: bindErrMessage(err)})
	}

	if err := c.Validate(&p); err != nil {
		return err
	}

	customer, err := h.customerSvc.Create(c.Request().Context(), p.customer())
	if err != nil {
		return h.serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, customer)
}

// Put updates customer
// @Summary     Update Customer
// @Description Overwrites all fields of existing customer except id
// @Tags        customers
// @Accept      json
// @Produce     json
// @Param       id       path     int             true "Customer id"
// @Param       customer body     customerPayload true "Customer data"
// @Success     200      {object} model.Customer
// @Failure     400      {object} errorResponse
// @Failure     404      "Customer not found"
// @Failure     500      {object} echo.HTTPError
// @Router      /api/v1/customers/{id} [put]
func (h *CustomerHTTPHandler) Put(c echo.Context) error {
	id, err := customerID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, &errorResponse{Error: err.Error()})
	}

	var p customerPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, &errorResponse{Error: bindErrMessage(err)})
	}

	if err := c.Validate(&p); err != nil {
		return err
	}

	customer, err := h.customerSvc.Update(c.Request().Context(), id, p.customer())
	if err != nil {
		return h.serviceError(c, err)
	}
	return c.JSON(http.StatusOK, customer)
}

// DeleteByID deletes customer
// @Summary     Delete customer by id
// @Description Deletes customer with provided id
// @Tags        customers
// @Param       id     path     int true "Customer id"
// @Success     204    "Successful status code"
// @Failure     400    {object} errorResponse
// @Failure     404    "Customer not found"
// @Failure     500    {object} echo.HTTPError
// @Router      /api/v1/customers/{id} [delete]
func (h *CustomerHTTPHandler) DeleteByID(c echo.Context) error {
	id, err := customerID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, &errorResponse{Error: err.Error()})
	}

	if err := h.customerSvc.DeleteByID(c.Request().Context(), id); err != nil {
		return h.serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// serviceError renders domain errors, anything else goes to the global error handler
func (h *CustomerHTTPHandler) serviceError(c echo.Context, err error) error {
	switch {
	case apperrors.IsNotFound(err):
		return c.NoContent(http.StatusNotFound)
	case apperrors.IsInvalidArgument(err):
		return c.JSON(http.StatusBadRequest, &errorResponse{Error: err.Error()})
	default:
		return err
	}
}

func customerID(c echo.Context) (int64, error) {
	raw := c.Param("id")

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid customer id: %s", raw)
	}
	return id, nil
}

func bindErrMessage(err error) string {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return fmt.Sprint(httpErr.Message)
	}
	return err.Error()
}
