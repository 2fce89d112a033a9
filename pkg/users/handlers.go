package users

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/locallibrary/catalog/pkg/audit"
	"github.com/locallibrary/catalog/pkg/auth"
	"github.com/locallibrary/catalog/pkg/models"
	"github.com/locallibrary/catalog/pkg/validation"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

// RegisterPage is the view-model of the registration form.
type RegisterPage struct {
	Title  string
	User   *models.User
	Errors []validation.FieldError
	// Dup names the field ("username" or "email") already taken by another
	// user.
	Dup string
}

type handler struct {
	userService *Service
	audit       *audit.Logger
}

func (h *handler) registerForm(c echo.Context) error {
	return c.Render(http.StatusOK, "register", &RegisterPage{Title: "Register", User: &models.User{}})
}

func (h *handler) register(c echo.Context) error {
	ctx := c.Request().Context()

	form, err := c.FormParams()
	if err != nil {
		return errors.WithStack(err)
	}
	result, err := registerSchema.Validate(ctx, form)
	if err != nil {
		return errors.WithStack(err)
	}

	draft := &models.User{
		FirstName: result.Get("first_name"),
		LastName:  result.Get("last_name"),
		Email:     result.Get("email"),
		Username:  result.Get("username"),
	}
	if !result.Valid() {
		return c.Render(http.StatusOK, "register", &RegisterPage{
			Title:  "Register",
			User:   draft,
			Errors: result.Errors,
		})
	}

	user, err := h.userService.Create(ctx, CreateUserOptions{
		FirstName: draft.FirstName,
		LastName:  draft.LastName,
		Email:     draft.Email,
		Username:  draft.Username,
		Password:  result.Get("password"),
		Role:      models.RoleUser,
	})
	if err != nil {
		var dup *DuplicateError
		if errors.As(err, &dup) {
			logger.FromContext(ctx).Info("duplicate registration", logger.Data{"field": dup.Field})
			return c.Render(http.StatusOK, "register", &RegisterPage{
				Title: "Register",
				User:  draft,
				Dup:   dup.Field,
			})
		}
		return errors.WithStack(err)
	}

	h.audit.Record(ctx, models.AuditCategoryUser, models.AuditOperationCreate, user)

	return c.Redirect(http.StatusFound, auth.LoginPath)
}
