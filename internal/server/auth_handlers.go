package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/clubdesk/console/internal/client"
	"github.com/clubdesk/console/internal/models"
	"github.com/clubdesk/console/internal/notify"
	"github.com/clubdesk/console/internal/router"
)

// LoginResponse represents a login response
type LoginResponse struct {
	User     *models.UserInfo `json:"user"`
	Redirect string           `json:"redirect"`
}

// SessionResponse describes the console's current session
type SessionResponse struct {
	LoggedIn bool             `json:"loggedIn"`
	Role     string           `json:"role"`
	User     *models.UserInfo `json:"user"`
	Location string           `json:"location"`
}

// @Summary Login
// @Description Logs in against the club API and stores the token for the console
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.Credentials true "Credentials"
// @Param redirect query string false "View to open after login"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} map[string]interface{}
// @Router /login [post]
func (s *Server) login(c *gin.Context) {
	var req models.Credentials
	if !s.bind(c, &req) {
		return
	}

	res, err := s.app.Session.Login(c.Request.Context(), req)
	if err != nil {
		// Login is silent; the form shows the message next to the password field
		var apiErr *client.Error
		if errors.As(err, &apiErr) {
			status := kindStatus(apiErr.Kind)
			if apiErr.Kind == client.KindUnauthorized {
				status = http.StatusBadRequest
			}
			c.JSON(status, gin.H{"error": apiErr.Message, "field": "password"})
			return
		}
		s.fail(c, err)
		return
	}

	target := router.PathDashboard
	if want := c.Query("redirect"); s.redirectAllowed(want) {
		target = want
	}
	s.app.Router.Navigate(target)

	c.JSON(http.StatusOK, LoginResponse{User: res.UserInfo, Redirect: target})
}

// redirectAllowed accepts only local paths of a known route that the new session
// may open. Nothing is navigated here.
func (s *Server) redirectAllowed(want string) bool {
	if !strings.HasPrefix(want, "/") || strings.HasPrefix(want, "//") || strings.Contains(want, `\`) {
		return false
	}
	for _, seg := range strings.Split(want, "/") {
		if seg == ".." || seg == "." {
			return false
		}
	}

	route, ok := s.app.Router.Table().Lookup(want)
	if !ok {
		return false
	}
	return router.Guard(route, s.app.Session.GuardState()).Allowed()
}

// @Summary Logout
// @Tags auth
// @Success 200 {object} map[string]interface{}
// @Router /logout [post]
func (s *Server) logout(c *gin.Context) {
	if err := s.app.Session.Logout(); err != nil {
		s.logger.Warn().Err(err).Msg("Logout left stale session storage")
	}
	s.app.Router.Navigate(router.PathLogin)

	c.JSON(http.StatusOK, gin.H{"redirect": router.PathLogin})
}

// @Summary Current session
// @Tags auth
// @Success 200 {object} SessionResponse
// @Router /session [get]
func (s *Server) getSession(c *gin.Context) {
	c.JSON(http.StatusOK, SessionResponse{
		LoggedIn: s.app.Session.IsLoggedIn(),
		Role:     s.app.Session.Role().String(),
		User:     s.app.Session.UserInfo(),
		Location: s.app.Router.Current(),
	})
}

// @Summary Drain notifications
// @Description Returns and clears the notices raised by failed API calls
// @Tags auth
// @Success 200 {object} map[string]interface{}
// @Router /notifications [get]
func (s *Server) getNotifications(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"notifications": s.notices.Drain()})
}

// loginView only renders for anonymous users; the guard sends everyone else to the dashboard
func (s *Server) loginView(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"view": "login", "redirect": c.Query("redirect")})
}

// @Summary Profile
// @Description Refreshes the profile from the club API
// @Tags profile
// @Success 200 {object} models.UserInfo
// @Router /profile [get]
func (s *Server) getProfile(c *gin.Context) {
	info, err := s.app.Session.FetchProfile(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// @Summary Update profile
// @Tags profile
// @Accept json
// @Param request body models.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} models.UserInfo
// @Router /profile [put]
func (s *Server) updateProfile(c *gin.Context) {
	var req models.UpdateProfileRequest
	if !s.bind(c, &req) {
		return
	}

	if err := s.app.API.User.Update(c.Request.Context(), req); err != nil {
		s.fail(c, err)
		return
	}

	info, err := s.app.Session.FetchProfile(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	s.notices.Notify(notify.Success("Profile updated"))
	c.JSON(http.StatusOK, info)
}
