package infra

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	echoSwagger "github.com/swaggo/echo-swagger"
	_ "github.com/umalmyha/customers-crud/docs" // registers swagger document
	"github.com/umalmyha/customers-crud/internal/handlers"
	"github.com/umalmyha/customers-crud/internal/middleware"
	"github.com/umalmyha/customers-crud/internal/service"
	"github.com/umalmyha/customers-crud/internal/validation"
)

// Router builds echo application with customers API, swagger and common middleware
func Router(customerSvc service.CustomerService, validator echo.Validator, logger logrus.FieldLogger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validator
	e.HTTPErrorHandler = errorHandler(e, logger)

	// Middleware
	e.Use(echoMw.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.Tracing())
	e.Use(middleware.RequestLogger(logger))

	// Handlers
	customerHandler := handlers.NewCustomerHTTPHandler(customerSvc)

	// API routes
	api := e.Group("/api")

	customersAPIV1 := api.Group("/v1/customers")
	customersAPIV1.GET("", customerHandler.GetAll)
	customersAPIV1.GET("/:id", customerHandler.Get)
	customersAPIV1.POST("", customerHandler.Post)
	customersAPIV1.PUT("/:id", customerHandler.Put)
	customersAPIV1.DELETE("/:id", customerHandler.DeleteByID)

	// swagger
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func errorHandler(e *echo.Echo, logger logrus.FieldLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var pldErr *validation.PayloadError
		if errors.As(err, &pldErr) {
			if err := c.JSON(http.StatusBadRequest, pldErr); err != nil {
				logger.WithError(err).Error("failed to render payload error")
			}
			return
		}

		var httpErr *echo.HTTPError
		if !errors.As(err, &httpErr) || httpErr.Code >= http.StatusInternalServerError {
			logger.WithError(err).WithField("request_id", middleware.GetRequestID(c)).Error("unhandled error occurred")
		}
		e.DefaultHTTPErrorHandler(err, c)
	}
}
