package echoweb

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/academia/core/access"
)

const contextSessionKey = "browserSession"

// guard evaluates the route's declared access rule against the visitor's
// session on every request; decisions are never cached across session
// changes. Allowed requests get their browser session stashed in context.
func (s *server) guard(path string) echo.MiddlewareFunc {
	rule, ok := access.RuleFor(path)
	if !ok {
		rule = access.Rule{Policy: access.Public}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			bs := s.sessions.get(ctx)

			decision := access.Decide(bs.store.Current(), rule, ctx.Request().URL.RequestURI())
			switch decision.State {
			case access.Loading:
				return s.renderLoading(ctx)
			case access.RedirectToDashboard:
				return ctx.Redirect(http.StatusFound, decision.Target)
			case access.RedirectToLogin:
				target := decision.Target
				if decision.ReturnTo != "" {
					target += "?next=" + url.QueryEscape(decision.ReturnTo)
				}
				return ctx.Redirect(http.StatusFound, target)
			}

			ctx.Set(contextSessionKey, bs)
			return next(ctx)
		}
	}
}

// contextSession returns the browser session stashed by the guard, falling
// back to a manager lookup for unguarded handlers.
func (s *server) contextSession(ctx echo.Context) *browserSession {
	if bs, ok := ctx.Get(contextSessionKey).(*browserSession); ok {
		return bs
	}
	return s.sessions.get(ctx)
}
