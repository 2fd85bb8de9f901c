package interceptors

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	apperrors "github.com/umalmyha/customers-crud/internal/errors"
	"github.com/umalmyha/customers-crud/internal/validation"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func httpToGrpcCode(s int) codes.Code {
	switch s {
	case http.StatusBadRequest:
		return codes.InvalidArgument
	case http.StatusNotFound:
		return codes.NotFound
	default:
		return codes.Internal
	}
}

func errorCode(err error) codes.Code {
	var pldErr *validation.PayloadError
	var echoErr *echo.HTTPError

	switch {
	case apperrors.IsNotFound(err):
		return codes.NotFound
	case apperrors.IsInvalidArgument(err), errors.As(err, &pldErr):
		return codes.InvalidArgument
	case errors.As(err, &echoErr):
		return httpToGrpcCode(echoErr.Code)
	default:
		return codes.Internal
	}
}

// ErrorUnaryInterceptor converts error retrieved from handler to gRPC error with corresponding code
func ErrorUnaryInterceptor(applicables ...UnaryInterceptorApplicable) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, h grpc.UnaryHandler) (any, error) {
		if !isUnaryInterceptorApplicable(info, applicables...) {
			return h(ctx, req)
		}

		res, err := h(ctx, req)
		if err == nil {
			return res, nil
		}

		if _, ok := status.FromError(err); ok { // it is already grpc status error
			return nil, err
		}

		code := errorCode(err)
		if code == codes.Internal {
			logrus.Errorf("error occurred on grpc request %s processing - %v", info.FullMethod, err)
			return nil, status.Error(code, "Internal server error")
		}
		return nil, status.Error(code, err.Error())
	}
}
