package adapthttp

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const stateCookie = "oauth_state"

func (s *Server) handleSSOLogin(c *gin.Context) {
	state := generateState()
	c.SetSameSite(http.SameSiteLaxMode) // Lax required for cross-site redirect returns
	c.SetCookie(stateCookie, state, 300, "/", "", c.Request.TLS != nil, true)
	c.Redirect(http.StatusFound, s.sso.OAuth2Config.AuthCodeURL(state))
}

func (s *Server) handleSSOCallback(c *gin.Context) {
	state, err := c.Cookie(stateCookie)
	if err != nil || c.Query("state") != state {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid state"})
		return
	}
	c.SetCookie(stateCookie, "", -1, "/", "", false, true)

	token, err := s.sso.OAuth2Config.Exchange(c.Request.Context(), c.Query("code"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to exchange token"})
		return
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "no id_token"})
		return
	}

	verifier := s.sso.Provider.Verifier(&oidc.Config{ClientID: s.sso.OAuth2Config.ClientID})
	idToken, err := verifier.Verify(c.Request.Context(), rawIDToken)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to verify token"})
		return
	}

	var claims struct {
		Email string `json:"email"`
	}
	if err := idToken.Claims(&claims); err != nil || claims.Email == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to parse claims"})
		return
	}

	authTok, err := s.auth.LoginWithUser(c.Request.Context(), claims.Email)
	if err != nil {
		s.log.Error("sso login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "login failed"})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(authCookie, authTok, cookieMaxAge, "/", "", c.Request.TLS != nil, true)
	c.Redirect(http.StatusFound, "/")
}

func generateState() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}
