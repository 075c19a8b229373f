package main

import (
	"net/http"
	"time"

	"bitbucket.org/mmdatafocus/calc_backend/auth"
	"bitbucket.org/mmdatafocus/calc_backend/config"
	"bitbucket.org/mmdatafocus/calc_backend/models"
	"bitbucket.org/mmdatafocus/calc_backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

func registerHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewUser
		if err := c.ShouldBindJSON(&input); err != nil {
			if verrs, ok := err.(validator.ValidationErrors); ok && verrs != nil {
				c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": utils.ProcessValidationErrors(err)})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}

		user, err := models.RegisterUser(c.Request.Context(), &input)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, user)
	}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func loginHandler(settings config.Settings) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
			return
		}

		info, err := models.Login(c.Request.Context(), settings, req.Username, req.Password)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, info)
	}
}

func logoutHandler(settings config.Settings, blacklist auth.TokenBlacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := utils.GetTokenFromContext(c.Request.Context())
		if !ok || token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		// The middleware already validated this token; parse again only to read the
		// jti and expiry for the blacklist entry.
		validated, err := utils.JwtValidate(settings, token)
		if err != nil || !validated.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		claim, ok := validated.Claims.(*utils.JwtCustomClaim)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		if err := blacklist.Add(c.Request.Context(), claim.StandardClaims.Id, time.Unix(claim.ExpiresAt, 0)); err != nil {
			config.LogError(config.GetLogger(), "auth_routes.go", "logoutHandler", "blacklist.Add", nil, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "logout failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"detail": "logged out"})
	}
}
