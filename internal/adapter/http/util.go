package adapthttp

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"eventfeed/internal/app"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// fail maps an application error onto a status and a {message} body.
// Anything unrecognized is logged and answered with a generic 500 so the
// caller never sees internals.
func (s *Server) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, app.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, app.ErrInvalidID):
		c.JSON(http.StatusNotFound, gin.H{"message": "invalid id"})
	case errors.Is(err, app.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "not found"})
	case errors.Is(err, app.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"message": "only the owner can modify a publication"})
	case errors.Is(err, app.ErrEmailTaken):
		c.JSON(http.StatusNotAcceptable, gin.H{"message": "a user already exists with that email"})
	case errors.Is(err, app.ErrUsernameTaken):
		c.JSON(http.StatusNotAcceptable, gin.H{"message": "a user already exists with that username"})
	case errors.Is(err, app.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid credentials"})
	default:
		s.log.Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "unexpected server error, please try again later"})
	}
}

// isMultipart reports whether the request body is multipart form data.
func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

// mediaFiles reads every uploaded file under the "media" form field into
// memory. A request without a multipart body yields no files.
func mediaFiles(c *gin.Context) ([]app.MediaFile, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil
	}

	var files []app.MediaFile
	for _, fh := range form.File["media"] {
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, err
		}
		files = append(files, app.MediaFile{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return files, nil
}
