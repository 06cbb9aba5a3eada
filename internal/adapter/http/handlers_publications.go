package adapthttp

import (
	"encoding/json"
	"net/http"
	"strconv"

	"eventfeed/internal/app"
	"eventfeed/internal/domain"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleListPublications(c *gin.Context) {
	pubs, err := s.pubs.List(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	if len(pubs) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "no publications to show"})
		return
	}
	c.JSON(http.StatusOK, pubs)
}

func (s *Server) handleGetPublication(c *gin.Context) {
	pub, err := s.pubs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, pub)
}

func (s *Server) handleOwnPublications(c *gin.Context) {
	user := currentUser(c)
	pubs, err := s.pubs.ListByOwner(c.Request.Context(), user.ID)
	if err != nil {
		s.fail(c, err)
		return
	}
	if pubs == nil {
		pubs = []domain.Publication{}
	}
	c.JSON(http.StatusOK, pubs)
}

func (s *Server) handleCreatePublication(c *gin.Context) {
	user := currentUser(c)

	var req app.CreatePublicationRequest
	var files []app.MediaFile

	if isMultipart(c) {
		req.Title = c.PostForm("titles")
		req.Description = c.PostForm("descriptions")
		req.Category = c.PostForm("category")
		req.StartDate = c.PostForm("startDates")
		req.EndDate = c.PostForm("endDates")

		if raw := c.PostForm("locations"); raw != "" {
			var loc domain.Location
			if err := json.Unmarshal([]byte(raw), &loc); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": "invalid locations"})
				return
			}
			req.Location = &loc
		}

		var err error
		files, err = mediaFiles(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid media upload"})
			return
		}
	} else {
		var body struct {
			Title       string           `json:"titles"`
			Description string           `json:"descriptions"`
			Category    string           `json:"category"`
			StartDate   string           `json:"startDates"`
			EndDate     string           `json:"endDates"`
			Location    *domain.Location `json:"locations"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request"})
			return
		}
		req = app.CreatePublicationRequest{
			Title:       body.Title,
			Description: body.Description,
			Category:    body.Category,
			StartDate:   body.StartDate,
			EndDate:     body.EndDate,
			Location:    body.Location,
		}
	}

	pub, err := s.pubs.Create(c.Request.Context(), user.ID, req, files)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":       "publication created successfully",
		"publicationId": pub.ID.Hex(),
	})
}

func (s *Server) handleUpdatePublication(c *gin.Context) {
	user := currentUser(c)

	var upd domain.PublicationUpdate
	var files []app.MediaFile

	if isMultipart(c) {
		if v, ok := c.GetPostForm("title"); ok {
			upd.Title = &v
		}
		if v, ok := c.GetPostForm("description"); ok {
			upd.Description = &v
		}
		if v, ok := c.GetPostForm("category"); ok {
			upd.Category = &v
		}
		if v, ok := c.GetPostForm("startDate"); ok {
			upd.StartDate = &v
		}
		if v, ok := c.GetPostForm("endDate"); ok {
			upd.EndDate = &v
		}

		rawLat, latOK := c.GetPostForm("lat")
		rawLong, longOK := c.GetPostForm("long")
		if latOK && longOK {
			lat, err1 := strconv.ParseFloat(rawLat, 64)
			long, err2 := strconv.ParseFloat(rawLong, 64)
			if err1 != nil || err2 != nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": "invalid location"})
				return
			}
			upd.Location = &domain.Location{Lat: lat, Long: long}
		}

		var err error
		files, err = mediaFiles(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid media upload"})
			return
		}
	} else {
		var body struct {
			Title       *string  `json:"title"`
			Description *string  `json:"description"`
			Lat         *float64 `json:"lat"`
			Long        *float64 `json:"long"`
			Category    *string  `json:"category"`
			StartDate   *string  `json:"startDate"`
			EndDate     *string  `json:"endDate"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request"})
			return
		}
		upd.Title = body.Title
		upd.Description = body.Description
		upd.Category = body.Category
		upd.StartDate = body.StartDate
		upd.EndDate = body.EndDate
		if body.Lat != nil && body.Long != nil {
			upd.Location = &domain.Location{Lat: *body.Lat, Long: *body.Long}
		}
	}

	pub, err := s.pubs.Update(c.Request.Context(), c.Param("id"), user.ID, upd, files)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":     "publication updated successfully",
		"publication": pub,
	})
}

func (s *Server) handleDeletePublication(c *gin.Context) {
	user := currentUser(c)
	if err := s.pubs.Delete(c.Request.Context(), c.Param("id"), user.ID); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "post deleted successfully"})
}

func (s *Server) handleCategorySearch(c *gin.Context) {
	pubs, err := s.pubs.ListByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		s.fail(c, err)
		return
	}
	if len(pubs) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "no publications in that category"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":              "search results",
		"publicationsSearched": pubs,
	})
}

func (s *Server) handleToggleLike(c *gin.Context) {
	user := currentUser(c)
	liked, likes, err := s.users.ToggleLike(c.Request.Context(), user.ID, c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	message := "like added"
	if !liked {
		message = "like removed"
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "likesCount": likes, "liked": liked})
}
