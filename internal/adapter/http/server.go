// Package adapthttp implements the HTTP adapter for the application.
package adapthttp

import (
	"net/http"
	"time"

	"eventfeed/internal/app"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// Name and lifetime of the auth cookie. The lifetime matches the token TTL.
const (
	authCookie   = "authToken"
	cookieMaxAge = 3600
)

// SSOConfig holds the optional OIDC login configuration. When Enabled is
// false the SSO routes are not registered.
type SSOConfig struct {
	Enabled      bool
	Provider     *oidc.Provider
	OAuth2Config oauth2.Config
}

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	pubs    *app.PublicationService
	users   *app.UserService
	auth    *app.AuthService
	sso     SSOConfig
	origins []string
	log     *zap.Logger
}

// New creates a Server wired to the given application services.
func New(pubs *app.PublicationService, users *app.UserService, auth *app.AuthService, sso SSOConfig, origins []string, log *zap.Logger) *Server {
	return &Server{pubs: pubs, users: users, auth: auth, sso: sso, origins: origins, log: log}
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     s.origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	r.POST("/register", s.handleRegister)
	r.POST("/login", s.handleLogin)
	r.POST("/logout", s.handleLogout)
	r.GET("/session", s.requireAuth(), s.handleSession)
	r.PUT("/userUpdated", s.requireAuth(), s.handleProfileUpdate)
	r.GET("/profile", s.requireAuth(), s.handleProfile)

	r.GET("/publications", s.handleListPublications)
	r.GET("/publications/user", s.requireAuth(), s.handleOwnPublications)
	r.GET("/publications/:id", s.handleGetPublication)
	r.POST("/publications", s.requireAuth(), s.handleCreatePublication)
	r.PUT("/publications/:id", s.requireAuth(), s.handleUpdatePublication)
	r.DELETE("/publications/:id", s.requireAuth(), s.handleDeletePublication)
	r.GET("/publications/searched/for/category/:category", s.handleCategorySearch)
	r.PATCH("/publications/:id/like", s.requireAuth(), s.handleToggleLike)

	if s.sso.Enabled {
		r.GET("/sso/login", s.handleSSOLogin)
		r.GET("/sso/callback", s.handleSSOCallback)
	}

	return r
}
