package handlers

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/labstack/echo/v4"
	apperrors "github.com/umalmyha/customers-crud/internal/errors"
	"github.com/umalmyha/customers-crud/internal/model"
	"github.com/umalmyha/customers-crud/internal/service"
	"github.com/umalmyha/customers-crud/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// CustomerGrpcHandler is gRPC handler for customers endpoint
type CustomerGrpcHandler struct {
	proto.UnimplementedCustomerServiceServer
	customerSvc service.CustomerService
	validator   echo.Validator
}

// NewCustomerGrpcHandler builds CustomerGrpcHandler
func NewCustomerGrpcHandler(customerSvc service.CustomerService, validator echo.Validator) *CustomerGrpcHandler {
	return &CustomerGrpcHandler{
		UnimplementedCustomerServiceServer: proto.UnimplementedCustomerServiceServer{},
		customerSvc:                        customerSvc,
		validator:                          validator,
	}
}

// GetAll get all customers
func (h *CustomerGrpcHandler) GetAll(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	customers, err := h.customerSvc.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	res := &structpb.ListValue{Values: make([]*structpb.Value, 0, len(customers))}
	for _, c := range customers {
		s, err := customerStruct(c)
		if err != nil {
			return nil, err
		}
		res.Values = append(res.Values, structpb.NewStructValue(s))
	}
	return res, nil
}

// GetByID get customer by id
func (h *CustomerGrpcHandler) GetByID(ctx context.Context, req *wrapperspb.Int64Value) (*structpb.Struct, error) {
	c, err := h.customerSvc.FindByID(ctx, req.GetValue())
	if err != nil {
		return nil, err
	}
	return customerStruct(c)
}

// Create creates new customer, id provided in request is ignored
func (h *CustomerGrpcHandler) Create(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	p := payloadFromStruct(req)
	if err := h.validator.Validate(p); err != nil {
		return nil, err
	}

	c, err := h.customerSvc.Create(ctx, p.customer())
	if err != nil {
		return nil, err
	}
	return customerStruct(c)
}

// Update overwrites customer with id taken from request
func (h *CustomerGrpcHandler) Update(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := customerIDFromStruct(req)
	if err != nil {
		return nil, err
	}

	p := payloadFromStruct(req)
	if err := h.validator.Validate(p); err != nil {
		return nil, err
	}

	c, err := h.customerSvc.Update(ctx, id, p.customer())
	if err != nil {
		return nil, err
	}
	return customerStruct(c)
}

// DeleteByID deletes customer by id
func (h *CustomerGrpcHandler) DeleteByID(ctx context.Context, req *wrapperspb.Int64Value) (*emptypb.Empty, error) {
	if err := h.customerSvc.DeleteByID(ctx, req.GetValue()); err != nil {
		return nil, err
	}
	return new(emptypb.Empty), nil
}

// maxExactID is the largest integer a float64 number value holds without precision loss
const maxExactID = 1 << 53

// customerIDFromStruct reads "id" field, numbers must be integral, larger ids are passed as strings
func customerIDFromStruct(s *structpb.Struct) (int64, error) {
	v, ok := s.GetFields()["id"]
	if !ok {
		return 0, apperrors.NewBusinessErr("id", "customer id is required")
	}

	switch kind := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		n := kind.NumberValue
		if n != math.Trunc(n) || math.Abs(n) > maxExactID {
			return 0, apperrors.NewBusinessErr("id", fmt.Sprintf("invalid customer id: %v", n))
		}
		return int64(n), nil
	case *structpb.Value_StringValue:
		id, err := strconv.ParseInt(kind.StringValue, 10, 64)
		if err != nil {
			return 0, apperrors.NewBusinessErr("id", fmt.Sprintf("invalid customer id: %s", kind.StringValue))
		}
		return id, nil
	default:
		return 0, apperrors.NewBusinessErr("id", "customer id must be a number")
	}
}

func payloadFromStruct(s *structpb.Struct) *customerPayload {
	fields := s.GetFields()
	return &customerPayload{
		FirstName:   fields["firstName"].GetStringValue(),
		LastName:    fields["lastName"].GetStringValue(),
		Email:       fields["email"].GetStringValue(),
		PhoneNumber: fields["phoneNumber"].GetStringValue(),
		Address:     fields["address"].GetStringValue(),
	}
}

func customerStruct(c *model.Customer) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(map[string]any{
		"id":          c.ID,
		"firstName":   c.FirstName,
		"lastName":    c.LastName,
		"email":       c.Email,
		"phoneNumber": c.PhoneNumber,
		"address":     c.Address,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode customer %d - %w", c.ID, err)
	}
	return s, nil
}
