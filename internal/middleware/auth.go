package middleware

import (
	"net/http"
	"strings"
	"time"

	"learnhub_portal/internal/service"
	"learnhub_portal/internal/state"
	"learnhub_portal/internal/util"
	"learnhub_portal/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ClientOptions configure the client cookie.
type ClientOptions struct {
	Secret     string
	CookieName string
	TTL        time.Duration
	Secure     bool
}

func clientToken(c *gin.Context, cookieName string) string {
	if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
		return cookie
	}
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return c.Query("token")
}

// ClientMiddleware identifies the browser client. Requests without a
// valid client token get a new client id and cookie.
func ClientMiddleware(opts func() ClientOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		o := opts()

		if token := clientToken(c, o.CookieName); token != "" {
			claims, err := util.ParseClientToken(token, o.Secret)
			if err == nil {
				c.Set(util.ContextClientID, claims.ClientID)
				c.Next()
				return
			}
			logger.Log.Debug("Replacing invalid client token", zap.Error(err))
		}

		clientID := util.NewClientID()
		token, err := util.GenerateClientToken(clientID, o.Secret, o.TTL)
		if err != nil {
			util.LogInternalError(c, err)
			c.Abort()
			return
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(o.CookieName, token, int(o.TTL.Seconds()), "/", "", o.Secure, true)
		c.Set(util.ContextClientID, clientID)
		c.Next()
	}
}

// RequireSignedIn lets requests through only for signed-in clients. A
// client whose session is still resolving gets 202 with its phase so
// the frontend can show a loading state.
func RequireSignedIn(app *service.AppService) gin.HandlerFunc {
	return func(c *gin.Context) {
		st, err := app.State(c.Request.Context(), util.GetClientID(c))
		if err != nil {
			util.LogInternalError(c, err)
			c.Abort()
			return
		}

		switch {
		case st.Phase == state.PhaseLoading:
			util.Accepted(c, gin.H{"phase": st.Phase})
			c.Abort()
			return
		case !st.SignedIn():
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set(util.ContextState, st)
		c.Next()
	}
}
