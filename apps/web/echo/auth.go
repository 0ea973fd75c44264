package echoweb

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/access"
)

type loginPageData struct {
	Next        string
	Email       string
	Error       string
	FieldErrors map[string]string
}

func (s *server) loginForm(ctx echo.Context) error {
	return ctx.Render(http.StatusOK, "login", loginPageData{
		Next: safeNext(ctx.QueryParam("next")),
	})
}

func (s *server) login(ctx echo.Context) error {
	var data LoginForm
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginForm")
	}
	data.Next = safeNext(data.Next)

	if err := data.Validate(s.opts.Validate, s.opts.Translator); err != nil {
		vErr, ok := errors.Cause(err).(*core.ValidationError)
		if !ok {
			return err
		}
		fldErrs := make(map[string]string, len(vErr.Fields))
		for _, fErr := range vErr.Fields {
			fldErrs[fErr.Field] = fErr.Error
		}
		return ctx.Render(http.StatusBadRequest, "login", loginPageData{
			Next:        data.Next,
			Email:       data.Email,
			FieldErrors: fldErrs,
		})
	}

	bs := s.contextSession(ctx)
	res := bs.svc.Login(ctx.Request().Context(), data.Email, data.Password)
	if !res.OK {
		// login failures render inline; they never navigate away
		return ctx.Render(http.StatusOK, "login", loginPageData{
			Next:  data.Next,
			Email: data.Email,
			Error: res.Err,
		})
	}

	setTokenCookie(ctx, bs.store.Current().Token, !s.opts.Conf.Debug)

	target := data.Next
	if target == "" {
		target = access.DashboardPath
	}
	return ctx.Redirect(http.StatusFound, target)
}

// logout is registered without a guard: it must be callable from any view at
// any time, and calling it twice is the same as calling it once.
func (s *server) logout(ctx echo.Context) error {
	bs := s.contextSession(ctx)
	bs.svc.Logout()
	setTokenCookie(ctx, "", !s.opts.Conf.Debug)
	return ctx.Redirect(http.StatusFound, access.HomePath)
}

// safeNext only accepts internal paths as post-login destinations.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return ""
	}
	return next
}
