package handler

import (
	"encoding/json"
	"io"
	"time"

	"github.com/deppfellow/museum-mailer/internal/middleware"
	"github.com/deppfellow/museum-mailer/internal/server"
	"github.com/deppfellow/museum-mailer/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// Handler is the base handler type that holds shared application dependencies.
//
// Concrete handlers embed it to reach config, logger and the email sender
// through *server.Server.
type Handler struct {
	server *server.Server
}

// NewHandler constructs a base Handler.
func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// --- Generic typed handler plumbing -----------------------------------------

// HandlerFunc represents a typed endpoint function that receives a
// validated request payload and returns a response or an error.
type HandlerFunc[Req validation.Validatable, Res any] func(c echo.Context, req Req) (Res, error)

// RequestFactory builds a fresh request value for every call.
// Request values are never shared between requests.
type RequestFactory[Req validation.Validatable] func() Req

// ResponseHandler defines how a successful handler result is written to
// the HTTP response, and which New Relic attributes go with it.
type ResponseHandler interface {
	// Handle writes the HTTP response for the given result.
	Handle(c echo.Context, result interface{}) error

	// GetOperation returns an operation name used for structured logging.
	GetOperation() string

	// AddAttributes attaches New Relic attributes based on response type and/or result.
	AddAttributes(txn *newrelic.Transaction, result interface{})
}

// JSONResponseHandler writes JSON responses with a given status code.
type JSONResponseHandler struct {
	status int
}

func (h JSONResponseHandler) Handle(c echo.Context, result interface{}) error {
	return c.JSON(h.status, result)
}

func (h JSONResponseHandler) GetOperation() string {
	return "handler"
}

func (h JSONResponseHandler) AddAttributes(txn *newrelic.Transaction, result interface{}) {
	// http.status_code is already set by tracing middleware (EnhanceTracing).
}

// RawJSONResponseHandler writes a body that is already JSON, such as a
// provider response, without re-encoding it.
type RawJSONResponseHandler struct {
	status int
}

func (h RawJSONResponseHandler) Handle(c echo.Context, result interface{}) error {
	raw, ok := result.(json.RawMessage)
	if !ok || len(raw) == 0 {
		return c.JSON(h.status, result)
	}
	return c.JSONBlob(h.status, raw)
}

func (h RawJSONResponseHandler) GetOperation() string {
	return "handler_raw_json"
}

func (h RawJSONResponseHandler) AddAttributes(txn *newrelic.Transaction, result interface{}) {
	if txn == nil {
		return
	}
	if raw, ok := result.(json.RawMessage); ok {
		txn.AddAttribute("response.size_bytes", len(raw))
	}
}

// handleRequest is the shared execution pipeline for all typed handlers.
//
// It centralizes:
//
// - building the request value from its factory
// - request binding + validation
// - structured logging (with request context)
// - New Relic tracing attributes and error reporting
// - timing metrics (validation duration, handler duration, total duration)
// - response writing
//
// Request values that implement io.Closer are closed when the handler returns.
func handleRequest[Req validation.Validatable](
	c echo.Context,
	newReq RequestFactory[Req],
	handler func(c echo.Context, req Req) (interface{}, error),
	responseHandler ResponseHandler,
) error {
	start := time.Now()
	method := c.Request().Method
	route := c.Path()

	txn := newrelic.FromContext(c.Request().Context())
	if txn != nil {
		txn.AddAttribute("handler.name", route)
		responseHandler.AddAttributes(txn, nil)
	}

	logger := middleware.GetLogger(c).With().
		Str("operation", responseHandler.GetOperation()).
		Str("method", method).
		Str("route", route).
		Logger()

	logger.Info().Msg("handling request")

	req := newReq()
	if closer, ok := any(req).(io.Closer); ok {
		defer func() {
			if err := closer.Close(); err != nil {
				logger.Warn().Err(err).Msg("failed to release request resources")
			}
		}()
	}

	// ---------------- Validation phase ---------------------------------------
	validationStart := time.Now()

	if err := validation.BindAndValidate(c, req); err != nil {
		validationDuration := time.Since(validationStart)

		logger.Warn().
			Err(err).
			Dur("validation_duration", validationDuration).
			Msg("request validation failed")

		if txn != nil {
			txn.AddAttribute("validation.status", "failed")
			txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
		}

		// The global error handler formats the response.
		return err
	}

	validationDuration := time.Since(validationStart)
	if txn != nil {
		txn.AddAttribute("validation.status", "success")
		txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
	}

	logger.Debug().
		Dur("validation_duration", validationDuration).
		Msg("request validation successful")

	// ---------------- Handler execution phase --------------------------------
	handlerStart := time.Now()
	result, err := handler(c, req)
	handlerDuration := time.Since(handlerStart)

	if err != nil {
		totalDuration := time.Since(start)

		logger.Error().
			Err(err).
			Dur("handler_duration", handlerDuration).
			Dur("total_duration", totalDuration).
			Msg("handler execution failed")

		if txn != nil {
			txn.NoticeError(nrpkgerrors.Wrap(err))
			txn.AddAttribute("handler.status", "error")
			txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
			txn.AddAttribute("total.duration_ms", totalDuration.Milliseconds())
		}
		return err
	}

	totalDuration := time.Since(start)

	if txn != nil {
		txn.AddAttribute("handler.status", "success")
		txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
		txn.AddAttribute("total.duration_ms", totalDuration.Milliseconds())
		responseHandler.AddAttributes(txn, result)
	}

	logger.Info().
		Dur("handler_duration", handlerDuration).
		Dur("validation_duration", validationDuration).
		Dur("total_duration", totalDuration).
		Msg("request completed successfully")

	return responseHandler.Handle(c, result)
}

// Handle wraps a typed handler with validation, error handling, logging,
// metrics and tracing, writing the result as JSON.
//
// Usage:
//
//	router.POST("/x", handler.Handle(h, myHandlerFn, http.StatusOK, NewMyRequest))
func Handle[Req validation.Validatable, Res any](
	h Handler,
	handler HandlerFunc[Req, Res],
	status int,
	newReq RequestFactory[Req],
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, newReq, func(c echo.Context, req Req) (interface{}, error) {
			return handler(c, req)
		}, JSONResponseHandler{status: status})
	}
}

// HandleRawJSON is Handle for handlers that return an already encoded body.
func HandleRawJSON[Req validation.Validatable](
	h Handler,
	handler HandlerFunc[Req, json.RawMessage],
	status int,
	newReq RequestFactory[Req],
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, newReq, func(c echo.Context, req Req) (interface{}, error) {
			return handler(c, req)
		}, RawJSONResponseHandler{status: status})
	}
}
