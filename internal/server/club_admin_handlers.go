package server

import (
	"net/http"
	"slices"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/clubdesk/console/internal/models"
	"github.com/clubdesk/console/internal/notify"
)

// managedClub picks the club a club-admin view works on: ?clubId=, else the first club
// the user manages. Club admins may only pick their own clubs.
func (s *Server) managedClub(c *gin.Context) (int64, bool) {
	info := s.app.Session.UserInfo()

	if v := c.Query("clubId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid clubId"})
			return 0, false
		}
		if !s.app.Session.IsAdmin() && (info == nil || !slices.Contains(info.ManagedClubIDs, id)) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You do not manage this club"})
			return 0, false
		}
		return id, true
	}

	if info != nil && len(info.ManagedClubIDs) > 0 {
		return info.ManagedClubIDs[0], true
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "clubId is required"})
	return 0, false
}

func (s *Server) getManagedClub(c *gin.Context) {
	clubID, ok := s.managedClub(c)
	if !ok {
		return
	}
	club, err := s.app.API.Club.Detail(c.Request.Context(), clubID)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, club)
}

func (s *Server) updateManagedClub(c *gin.Context) {
	clubID, ok := s.managedClub(c)
	if !ok {
		return
	}
	var form models.ClubForm
	if !s.bind(c, &form) {
		return
	}
	form.ID = clubID

	if err := s.app.API.ClubAdmin.UpdateClub(c.Request.Context(), clubID, form); err != nil {
		s.fail(c, err)
		return
	}
	s.notices.Notify(notify.Success("Club updated"))
	c.Status(http.StatusNoContent)
}

func (s *Server) listManagedMembers(c *gin.Context) {
	clubID, ok := s.managedClub(c)
	if !ok {
		return
	}
	p, ok := bindList(c)
	if !ok {
		return
	}
	page, err := s.app.API.Club.Members(c.Request.Context(), clubID, p.page())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (s *Server) listManagedApplications(c *gin.Context) {
	clubID, ok := s.managedClub(c)
	if !ok {
		return
	}
	p, ok := bindList(c)
	if !ok {
		return
	}
	page, err := s.app.API.ClubAdmin.PendingApplications(c.Request.Context(), clubID, p.page())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (s *Server) reviewManagedApplication(c *gin.Context) {
	clubID, ok := s.managedClub(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "applicationId")
	if !ok {
		return
	}
	var req models.ReviewRequest
	if !s.bind(c, &req) {
		return
	}
	req.ApplicationID = id

	if err := s.app.API.ClubAdmin.ReviewApplication(c.Request.Context(), clubID, req); err != nil {
		s.fail(c, err)
		return
	}
	s.notices.Notify(notify.Success(reviewMessage(req.Approved)))
	c.Status(http.StatusNoContent)
}

func (s *Server) listManagedActivities(c *gin.Context) {
	clubID, ok := s.managedClub(c)
	if !ok {
		return
	}
	p, ok := bindList(c)
	if !ok {
		return
	}
	q := p.activities()
	q.ClubID = clubID

	page, err := s.app.API.Activity.List(c.Request.Context(), q)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (s *Server) createActivity(c *gin.Context) {
	var form models.ActivityForm
	if !s.bind(c, &form) {
		return
	}
	if !s.ownsClub(c, form.ClubID) {
		return
	}

	if err := s.app.API.ClubAdmin.CreateActivity(c.Request.Context(), form); err != nil {
		s.fail(c, err)
		return
	}
	s.logger.Info().Int64("club_id", form.ClubID).Str("name", form.Name).Msg("Activity created")
	s.notices.Notify(notify.Success("Activity created, waiting for review"))
	c.Status(http.StatusCreated)
}

func (s *Server) updateActivity(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var form models.ActivityForm
	if !s.bind(c, &form) {
		return
	}
	if !s.ownsClub(c, form.ClubID) {
		return
	}

	if err := s.app.API.ClubAdmin.UpdateActivity(c.Request.Context(), id, form); err != nil {
		s.fail(c, err)
		return
	}
	s.notices.Notify(notify.Success("Activity updated"))
	c.Status(http.StatusNoContent)
}

func (s *Server) cancelActivity(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := s.app.API.ClubAdmin.CancelActivity(c.Request.Context(), id); err != nil {
		s.fail(c, err)
		return
	}
	s.notices.Notify(notify.Success("Activity cancelled"))
	c.Status(http.StatusNoContent)
}

func (s *Server) listActivitySignups(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	p, ok := bindList(c)
	if !ok {
		return
	}
	page, err := s.app.API.ClubAdmin.Signups(c.Request.Context(), id, p.page())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (s *Server) checkin(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req models.CheckinRequest
	if !s.bind(c, &req) {
		return
	}
	if err := s.app.API.ClubAdmin.Checkin(c.Request.Context(), id, req); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ownsClub rejects activity forms for clubs a club admin does not manage
func (s *Server) ownsClub(c *gin.Context, clubID int64) bool {
	if s.app.Session.IsAdmin() {
		return true
	}
	info := s.app.Session.UserInfo()
	if info != nil && slices.Contains(info.ManagedClubIDs, clubID) {
		return true
	}
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You do not manage this club"})
	return false
}
