package echoweb

import (
	"fmt"
	"net/http"
	"net/mail"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
)

type homePageData struct {
	Authed      bool
	ContactSent bool
	Contact     ContactForm
	FieldErrors map[string]string
}

func (s *server) home(ctx echo.Context) error {
	bs := s.contextSession(ctx)
	return ctx.Render(http.StatusOK, "home", homePageData{
		Authed:      bs.store.Current().IsAuthenticated,
		ContactSent: ctx.QueryParam("sent") == "1",
	})
}

func (s *server) contact(ctx echo.Context) error {
	var data ContactForm
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ContactForm")
	}

	if err := data.Validate(s.opts.Validate, s.opts.Translator); err != nil {
		vErr, ok := errors.Cause(err).(*core.ValidationError)
		if !ok {
			return err
		}
		fldErrs := make(map[string]string, len(vErr.Fields))
		for _, fErr := range vErr.Fields {
			fldErrs[fErr.Field] = fErr.Error
		}
		bs := s.contextSession(ctx)
		return ctx.Render(http.StatusBadRequest, "home", homePageData{
			Authed:      bs.store.Current().IsAuthenticated,
			Contact:     data,
			FieldErrors: fldErrs,
		})
	}

	s.opts.EmailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Address: s.opts.Conf.ContactEmail}},
		ReplyTo: &mail.Address{Name: data.Name, Address: data.Email},
		Subject: fmt.Sprintf("[Contact] %s", data.Subject),
		BodyStr: fmt.Sprintf("From: %s <%s>\n\n%s", data.Name, data.Email, data.Message),
	})
	return ctx.Redirect(http.StatusFound, "/home?sent=1#contact")
}

// renderLoading is the guard's answer while the startup verification is
// still in flight; the page refreshes itself so the visitor lands on the
// settled decision.
func (s *server) renderLoading(ctx echo.Context) error {
	return ctx.Render(http.StatusOK, "loading", nil)
}
