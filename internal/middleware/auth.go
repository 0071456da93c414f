package middleware

import (
	"github.com/buddyike18/project-dine-backend/internal/common"
	"github.com/buddyike18/project-dine-backend/internal/identity"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

const subjectContextKey = "subject"

// Authenticate requires a bearer token accepted by verifier and stores its
// subject in the request context. Missing or rejected tokens get a 401.
func Authenticate(verifier identity.Verifier) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  subjectContextKey,
		TokenLookup: "header:Authorization:Bearer ",
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			return verifier.Verify(c.Request().Context(), auth)
		},
		SuccessHandler: func(c echo.Context) {
			subject, _ := c.Get(subjectContextKey).(string)
			c.SetRequest(c.Request().WithContext(common.WithSubject(c.Request().Context(), subject)))
		},
		ErrorHandler: func(c echo.Context, err error) error {
			c.Logger().Debugf("rejected bearer token: %v", err)
			return common.SendUnauthorizedError(c)
		},
	})
}
