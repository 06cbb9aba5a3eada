package adapthttp

import (
	"io"
	"net/http"

	"eventfeed/internal/app"
	"eventfeed/internal/domain"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleRegister(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Email    string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request"})
		return
	}

	if err := s.users.Register(c.Request.Context(), req.Username, req.Password, req.Email); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "user registered successfully"})
}

func (s *Server) handleLogin(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request"})
		return
	}

	token, err := s.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(authCookie, token, cookieMaxAge, "/", "", c.Request.TLS != nil, true)
	c.JSON(http.StatusOK, gin.H{"message": "login successful"})
}

func (s *Server) handleLogout(c *gin.Context) {
	c.SetCookie(authCookie, "", -1, "/", "", c.Request.TLS != nil, true)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "logout successful"})
}

func (s *Server) handleSession(c *gin.Context) {
	user := currentUser(c)
	c.JSON(http.StatusOK, gin.H{"message": "access granted", "user": user})
}

func (s *Server) handleProfileUpdate(c *gin.Context) {
	user := currentUser(c)

	var email, username string
	var picture *app.MediaFile

	if isMultipart(c) {
		email = c.PostForm("email")
		username = c.PostForm("username")

		if fh, err := c.FormFile("media"); err == nil {
			f, err := fh.Open()
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": "invalid media upload"})
				return
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": "invalid media upload"})
				return
			}
			picture = &app.MediaFile{
				Name:        fh.Filename,
				ContentType: fh.Header.Get("Content-Type"),
				Data:        data,
			}
		}
	} else {
		var req struct {
			Email    string `json:"email"`
			Username string `json:"username"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request"})
			return
		}
		email, username = req.Email, req.Username
	}

	updated, err := s.users.UpdateProfile(c.Request.Context(), user.ID, email, username, picture)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":        "profile updated successfully",
		"profilePicture": updated.ProfilePicture,
		"username":       updated.Username,
		"email":          updated.Email,
	})
}

func (s *Server) handleProfile(c *gin.Context) {
	user := currentUser(c)
	profile, liked, err := s.users.Profile(c.Request.Context(), user.ID)
	if err != nil {
		s.fail(c, err)
		return
	}
	if liked == nil {
		liked = []domain.Publication{}
	}
	c.JSON(http.StatusOK, gin.H{
		"username":          profile.Username,
		"email":             profile.Email,
		"profilePicture":    profile.ProfilePicture,
		"likedPublications": liked,
	})
}
