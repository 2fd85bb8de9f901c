package infra

import (
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/umalmyha/customers-crud/internal/handlers"
	"github.com/umalmyha/customers-crud/internal/interceptors"
	"github.com/umalmyha/customers-crud/internal/service"
	"github.com/umalmyha/customers-crud/proto"
	"google.golang.org/grpc"
)

// GrpcServer builds gRPC server exposing customers service
func GrpcServer(customerSvc service.CustomerService, validator echo.Validator, logger logrus.FieldLogger) *grpc.Server {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			interceptors.LoggingUnaryInterceptor(logger),
			interceptors.ErrorUnaryInterceptor(interceptors.UnaryApplicableForService(proto.CustomerServiceName)),
		),
	)

	proto.RegisterCustomerServiceServer(srv, handlers.NewCustomerGrpcHandler(customerSvc, validator))
	return srv
}
