package gateway

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/crisp-im/crisp-bridge/internal/notification"
)

const apiPrefix = "/api"

func (s *Server) apiAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if token == "" {
			token = c.Query("token")
		}
		if !s.authenticate(token) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Next()
	}
}

func (s *Server) registerAPIRoutes(engine *gin.Engine) {
	api := engine.Group(apiPrefix, s.apiAuthMiddleware())
	api.GET("/health", s.ginAPIHealth)
	api.GET("/config", s.ginAPIConfig)
	api.GET("/notification/status", s.ginAPINotificationStatus)
	api.POST("/notification/handle", s.ginAPINotificationHandle)
}

func (s *Server) ginAPIHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"clients": s.Conns.ClientCount(),
	})
}

// ginAPIConfig reports the effective config minus the auth token.
func (s *Server) ginAPIConfig(c *gin.Context) {
	cfg := s.Config
	c.JSON(http.StatusOK, gin.H{
		"gateway": gin.H{
			"port": cfg.Gateway.Port,
		},
		"crisp": gin.H{
			"websiteId": cfg.Crisp.WebsiteID,
			"platform":  cfg.Crisp.Platform,
			"logLevel":  cfg.Crisp.LogLevel,
			"notifications": gin.H{
				"mode":            cfg.Crisp.Notifications.Mode,
				"refreshSchedule": cfg.Crisp.Notifications.RefreshSchedule,
			},
		},
	})
}

func (s *Server) ginAPINotificationStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.Module.NotificationStatus())
}

// ginAPINotificationHandle lets a host push-delivery hook hand a received
// payload to the bridge without opening a WebSocket.
func (s *Server) ginAPINotificationHandle(c *gin.Context) {
	var body struct {
		Notification map[string]any       `json:"notification"`
		Options      notification.Options `json:"options"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if body.Notification == nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "notification required"})
		return
	}
	c.JSON(http.StatusOK, s.Module.HandleNotification(body.Notification, body.Options))
}
