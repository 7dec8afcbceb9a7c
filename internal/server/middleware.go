package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/clubdesk/console/internal/client"
	"github.com/clubdesk/console/internal/router"
	"github.com/clubdesk/console/internal/session"
)

const routeKey = "route"

// GuardMiddleware runs the navigation guard for the request path. Refused requests get
// a 302 (browsers) or a JSON body naming the redirect target.
func GuardMiddleware(r *router.Router, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		route, decision := r.Push(c.Request.URL.Path)
		if !decision.Allowed() {
			log.Debug().
				Str("path", c.Request.URL.Path).
				Str("outcome", decision.Outcome.String()).
				Str("redirect", decision.Redirect).
				Msg("Guard refused request")
			redirect(c, outcomeStatus(decision.Outcome), decision.Redirect, decision.Outcome.String())
			return
		}

		c.Set(routeKey, route)
		c.Next()
	}
}

// GetRoute returns the route the guard matched
func GetRoute(c *gin.Context) (router.Route, bool) {
	v, exists := c.Get(routeKey)
	if !exists {
		return router.Route{}, false
	}
	route, ok := v.(router.Route)
	return route, ok
}

func outcomeStatus(o router.Outcome) int {
	switch o {
	case router.RedirectLogin:
		return http.StatusUnauthorized
	case router.RedirectForbidden:
		return http.StatusForbidden
	case router.RedirectAlreadyLoggedIn:
		return http.StatusConflict
	case router.Allow:
		return http.StatusOK
	}
	return http.StatusFound
}

// wantsJSON is true for API-style callers; plain browser navigation gets real redirects
func wantsJSON(c *gin.Context) bool {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		return true
	}
	if c.GetHeader("X-Requested-With") == "XMLHttpRequest" {
		return true
	}
	return strings.Contains(c.GetHeader("Accept"), "application/json")
}

func redirect(c *gin.Context, status int, location, reason string) {
	if wantsJSON(c) {
		c.AbortWithStatusJSON(status, gin.H{"redirect": location, "reason": reason})
		return
	}
	c.Redirect(http.StatusFound, location)
	c.Abort()
}

func respondWithError(c *gin.Context, log zerolog.Logger, statusCode int, err error, message string) {
	log.Warn().Err(err).Msg(message)
	c.AbortWithStatusJSON(statusCode, gin.H{"error": message})
}

// kindStatus maps a failed API call onto the console's own status
func kindStatus(k client.Kind) int {
	switch k {
	case client.KindEnvelope:
		return http.StatusBadRequest
	case client.KindUnauthorized:
		return http.StatusUnauthorized
	case client.KindForbidden:
		return http.StatusForbidden
	case client.KindNotFound:
		return http.StatusNotFound
	case client.KindTimeout:
		return http.StatusGatewayTimeout
	case client.KindCanceled:
		return http.StatusRequestTimeout
	case client.KindServer, client.KindHTTP, client.KindNetwork:
		return http.StatusBadGateway
	}
	return http.StatusBadGateway
}

// fail answers a handler error. A 401 from the API (the client has already dropped the
// token) and a missing token both send the caller to the login view.
func (s *Server) fail(c *gin.Context, err error) {
	if errors.Is(err, client.ErrUnauthorized) || errors.Is(err, session.ErrNoToken) {
		redirect(c, http.StatusUnauthorized, router.PathLogin, "unauthorized")
		return
	}

	var apiErr *client.Error
	if errors.As(err, &apiErr) {
		c.AbortWithStatusJSON(kindStatus(apiErr.Kind), gin.H{"error": apiErr.Message})
		return
	}

	respondWithError(c, s.logger, http.StatusInternalServerError, err, "Internal server error")
}

// bind decodes the JSON body and runs both the binding and validate rules
func (s *Server) bind(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	if err := s.validator.Struct(obj); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}
