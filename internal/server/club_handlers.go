package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clubdesk/console/internal/models"
	"github.com/clubdesk/console/internal/notify"
)

// listParams are the query parameters shared by list views
type listParams struct {
	PageNum  int    `form:"pageNum" binding:"omitempty,min=1"`
	PageSize int    `form:"pageSize" binding:"omitempty,min=1,max=1000"`
	Name     string `form:"name"`
	Category string `form:"category"`
	Status   string `form:"status"`
	ClubID   int64  `form:"clubId" binding:"omitempty,min=1"`
}

func (p listParams) page() models.PageQuery {
	return models.PageQuery{PageNum: p.PageNum, PageSize: p.PageSize}
}

func (p listParams) clubs() models.ClubQuery {
	return models.ClubQuery{PageQuery: p.page(), Name: p.Name, Category: p.Category}
}

func (p listParams) activities() models.ActivityQuery {
	return models.ActivityQuery{PageQuery: p.page(), Name: p.Name, ClubID: p.ClubID, Status: p.Status}
}

func bindList(c *gin.Context) (listParams, bool) {
	var p listParams
	if err := c.ShouldBindQuery(&p); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return p, false
	}
	return p, true
}

func (s *Server) listClubs(c *gin.Context) {
	p, ok := bindList(c)
	if !ok {
		return
	}
	page, err := s.app.API.Club.List(c.Request.Context(), p.clubs())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (s *Server) getClub(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	club, err := s.app.API.Club.Detail(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, club)
}

func (s *Server) listClubMembers(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	p, ok := bindList(c)
	if !ok {
		return
	}
	page, err := s.app.API.Club.Members(c.Request.Context(), id, p.page())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

type applyBody struct {
	Reason string `json:"reason" binding:"max=500"`
}

func (s *Server) applyToClub(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var body applyBody
	if !s.bind(c, &body) {
		return
	}

	if err := s.app.API.Club.Apply(c.Request.Context(), models.ApplyRequest{ClubID: id, Reason: body.Reason}); err != nil {
		s.fail(c, err)
		return
	}
	s.notices.Notify(notify.Success("Application submitted"))
	c.Status(http.StatusNoContent)
}

func (s *Server) listActivities(c *gin.Context) {
	p, ok := bindList(c)
	if !ok {
		return
	}
	page, err := s.app.API.Activity.List(c.Request.Context(), p.activities())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (s *Server) getActivity(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	activity, err := s.app.API.Activity.Detail(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, activity)
}

func (s *Server) signupActivity(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := s.app.API.Activity.Signup(c.Request.Context(), id); err != nil {
		s.fail(c, err)
		return
	}
	s.notices.Notify(notify.Success("Signed up"))
	c.Status(http.StatusNoContent)
}

func (s *Server) cancelSignup(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := s.app.API.Activity.CancelSignup(c.Request.Context(), id); err != nil {
		s.fail(c, err)
		return
	}
	s.notices.Notify(notify.Success("Signup cancelled"))
	c.Status(http.StatusNoContent)
}

func (s *Server) listMyClubs(c *gin.Context) {
	clubs, err := s.app.API.Club.Mine(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, clubs)
}

func (s *Server) listMyApplications(c *gin.Context) {
	p, ok := bindList(c)
	if !ok {
		return
	}
	page, err := s.app.API.Club.MyApplications(c.Request.Context(), p.page())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (s *Server) listMySignups(c *gin.Context) {
	p, ok := bindList(c)
	if !ok {
		return
	}
	page, err := s.app.API.Activity.MySignups(c.Request.Context(), p.page())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}
