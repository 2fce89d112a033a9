package errcodes

import (
	"fmt"
	"net/http"

	"github.com/iancoleman/strcase"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/errutils"
)

// ErrorTemplate is the name of the page rendered for every unhandled error.
const ErrorTemplate = "error"

// ErrorPage is the view-model handed to the error template.
type ErrorPage struct {
	Title      string
	StatusCode int
	Code       string
	Message    string
	// Detail is only populated in development.
	Detail string
}

type Handler struct {
	development bool
}

func NewHandler(development bool) *Handler {
	return &Handler{development}
}

// Handle is an Echo error handler that uses HTTP errors accordingly, and any
// generic error will be interpreted as an internal server error.
func (h *Handler) Handle(err error, c echo.Context) {
	if errutils.IsIgnorableErr(err) {
		logger.FromEchoContext(c).Err(err).Warn("broken pipe")
		return
	}
	if c.Response().Committed {
		logger.FromEchoContext(c).Err(err).Warn("error after response was committed")
		return
	}

	page := h.generatePage(err)

	// Internal server errors
	if page.StatusCode == http.StatusInternalServerError {
		logger.FromEchoContext(c).Err(err).Error("server error")
	}

	if c.Echo().Renderer == nil {
		if err := c.JSON(page.StatusCode, page); err != nil {
			logger.FromEchoContext(c).Err(errors.WithStack(err)).Error("error handler json error")
		}
		return
	}
	if err := c.Render(page.StatusCode, ErrorTemplate, page); err != nil {
		logger.FromEchoContext(c).Err(errors.WithStack(err)).Error("error handler render error")
	}
}

func (h *Handler) generatePage(err error) *ErrorPage {
	code := ""
	msg := ""
	httpCode := http.StatusInternalServerError

	// Echo errors
	var he *echo.HTTPError
	if ok := errors.As(err, &he); ok {
		httpCode = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		} else {
			msg = http.StatusText(he.Code)
		}
		code = strcase.ToSnake(msg)
	}

	// Custom errors
	var e *Error
	if ok := errors.As(err, &e); ok {
		httpCode = e.HTTPCode
		code = e.Code
		msg = e.Message
	}

	// Internal server errors that aren't Echo errors or custom errors
	if httpCode == http.StatusInternalServerError && msg == "" {
		code = "internal_server_error"
		msg = "Something went wrong. Please try again later."
	}

	page := &ErrorPage{
		Title:      http.StatusText(httpCode),
		StatusCode: httpCode,
		Code:       code,
		Message:    msg,
	}
	if h.development {
		page.Detail = fmt.Sprintf("%+v", err)
	}
	return page
}
