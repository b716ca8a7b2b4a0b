// Package handler holds the HTTP handlers. Handlers bind and validate the
// request, call one service operation and map its error with
// errors.MapErrorToHTTP.
package handler

import (
	stderrors "errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"cozinhai/internal/auth"
	"cozinhai/internal/errors"
	"cozinhai/internal/service"
)

// ContextKeyClaims is where the JWT guard stores the caller's *auth.Claims.
const ContextKeyClaims = "user"

// MessageResponse is returned by operations that have nothing else to report.
type MessageResponse struct {
	Message string `json:"message"`
}

// PageQuery is the limit/offset query string of list endpoints.
type PageQuery struct {
	Limit  int `query:"limit" validate:"min=1,max=100"`
	Offset int `query:"offset" validate:"min=0"`
}

// ClaimsFromContext returns the authenticated caller, if any.
func ClaimsFromContext(c echo.Context) (*auth.Claims, bool) {
	claims, ok := c.Get(ContextKeyClaims).(*auth.Claims)
	return claims, ok && claims != nil
}

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_BODY",
		})
	}
	return validate(c, req)
}

func validate(c echo.Context, req interface{}) error {
	if err := c.Validate(req); err != nil {
		return validationError(err)
	}
	return nil
}

func bindPage(c echo.Context) (service.Page, error) {
	q := PageQuery{Limit: service.DefaultPageLimit}
	if err := echo.QueryParamsBinder(c).
		Int("limit", &q.Limit).
		Int("offset", &q.Offset).
		BindError(); err != nil {
		return service.Page{}, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "limit and offset must be integers",
			Code:  "VALIDATION_ERROR",
		})
	}
	if err := validate(c, &q); err != nil {
		return service.Page{}, err
	}
	return service.Page{Limit: q.Limit, Offset: q.Offset}, nil
}

func validationError(err error) *echo.HTTPError {
	resp := errors.ErrorResponse{Error: "validation failed", Code: "VALIDATION_ERROR"}
	var verrs validator.ValidationErrors
	if stderrors.As(err, &verrs) {
		resp.Details = make(map[string]string, len(verrs))
		for _, fe := range verrs {
			resp.Details[fe.Field()] = fe.Tag()
		}
	}
	return echo.NewHTTPError(http.StatusBadRequest, resp)
}

func serviceError(err error) *echo.HTTPError {
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse()).SetInternal(err)
}
