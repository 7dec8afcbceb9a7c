package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clubdesk/console/internal/models"
	"github.com/clubdesk/console/internal/notify"
)

// LeaderRequest names the user to make club leader
type LeaderRequest struct {
	UserID int64 `json:"userId" binding:"required,min=1"`
}

// @Summary List clubs for management
// @Tags admin
// @Success 200 {object} models.Page[models.Club]
// @Router /admin/clubs [get]
func (s *Server) adminListClubs(c *gin.Context) {
	s.listClubs(c)
}

// @Summary Create club
// @Tags admin
// @Accept json
// @Param request body models.ClubForm true "Club"
// @Success 201
// @Router /admin/clubs [post]
func (s *Server) adminCreateClub(c *gin.Context) {
	var form models.ClubForm
	if !s.bind(c, &form) {
		return
	}
	form.ID = 0

	if err := s.app.API.Admin.CreateClub(c.Request.Context(), form); err != nil {
		s.fail(c, err)
		return
	}
	s.logger.Info().Str("name", form.Name).Msg("Club created")
	s.notices.Notify(notify.Success("Club created"))
	c.Status(http.StatusCreated)
}

// @Summary Update club
// @Tags admin
// @Router /admin/clubs/{id} [put]
func (s *Server) adminUpdateClub(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var form models.ClubForm
	if !s.bind(c, &form) {
		return
	}
	form.ID = id

	if err := s.app.API.Admin.UpdateClub(c.Request.Context(), form); err != nil {
		s.fail(c, err)
		return
	}
	s.notices.Notify(notify.Success("Club updated"))
	c.Status(http.StatusNoContent)
}

// @Summary Delete club
// @Tags admin
// @Router /admin/clubs/{id} [delete]
func (s *Server) adminDeleteClub(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := s.app.API.Admin.DeleteClub(c.Request.Context(), id); err != nil {
		s.fail(c, err)
		return
	}
	s.logger.Info().Int64("club_id", id).Msg("Club deleted")
	s.notices.Notify(notify.Success("Club deleted"))
	c.Status(http.StatusNoContent)
}

// @Summary Set club leader
// @Tags admin
// @Router /admin/clubs/{id}/leader [post]
func (s *Server) adminSetLeader(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req LeaderRequest
	if !s.bind(c, &req) {
		return
	}
	if err := s.app.API.Admin.SetLeader(c.Request.Context(), id, req.UserID); err != nil {
		s.fail(c, err)
		return
	}
	s.notices.Notify(notify.Success("Leader assigned"))
	c.Status(http.StatusNoContent)
}

// @Summary Remove club leader
// @Tags admin
// @Router /admin/clubs/{id}/leader/{userId} [delete]
func (s *Server) adminRemoveLeader(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	userID, ok := idParam(c, "userId")
	if !ok {
		return
	}
	if err := s.app.API.Admin.RemoveLeader(c.Request.Context(), id, userID); err != nil {
		s.fail(c, err)
		return
	}
	s.notices.Notify(notify.Success("Leader removed"))
	c.Status(http.StatusNoContent)
}

// @Summary Pending club applications
// @Tags admin
// @Router /admin/clubs/applications [get]
func (s *Server) adminListApplications(c *gin.Context) {
	p, ok := bindList(c)
	if !ok {
		return
	}
	page, err := s.app.API.Admin.PendingApplications(c.Request.Context(), p.page())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// @Summary Review club application
// @Tags admin
// @Router /admin/clubs/applications/{applicationId} [patch]
func (s *Server) adminReviewApplication(c *gin.Context) {
	id, ok := idParam(c, "applicationId")
	if !ok {
		return
	}
	var req models.ReviewRequest
	if !s.bind(c, &req) {
		return
	}
	req.ApplicationID = id

	if err := s.app.API.Admin.ReviewApplication(c.Request.Context(), req); err != nil {
		s.fail(c, err)
		return
	}
	s.notices.Notify(notify.Success(reviewMessage(req.Approved)))
	c.Status(http.StatusNoContent)
}

// @Summary Activities for review
// @Tags admin
// @Router /admin/activities [get]
func (s *Server) adminListActivities(c *gin.Context) {
	p, ok := bindList(c)
	if !ok {
		return
	}
	page, err := s.app.API.Admin.Activities(c.Request.Context(), p.activities())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// @Summary Review activity
// @Tags admin
// @Router /admin/activities/{id}/review [post]
func (s *Server) adminReviewActivity(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var review models.ActivityReview
	if !s.bind(c, &review) {
		return
	}
	if err := s.app.API.Admin.ReviewActivity(c.Request.Context(), id, review); err != nil {
		s.fail(c, err)
		return
	}
	s.notices.Notify(notify.Success(reviewMessage(review.Approved)))
	c.Status(http.StatusNoContent)
}

// @Summary Delete activity
// @Tags admin
// @Router /admin/activities/{id} [delete]
func (s *Server) adminDeleteActivity(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := s.app.API.Admin.DeleteActivity(c.Request.Context(), id); err != nil {
		s.fail(c, err)
		return
	}
	s.logger.Info().Int64("activity_id", id).Msg("Activity deleted")
	s.notices.Notify(notify.Success("Activity deleted"))
	c.Status(http.StatusNoContent)
}

func reviewMessage(approved bool) string {
	if approved {
		return "Approved"
	}
	return "Rejected"
}
