package controller

import (
	"errors"
	"net/http"
	"strings"

	"ppv-gate/pkg/logger"
	"ppv-gate/pkg/model"
	admissionService "ppv-gate/service-api/internal/service/admission"

	"github.com/gin-gonic/gin"
)

// WatchPage serves the player page for a token. The page itself carries the
// verification script; serving it does not admit the device.
func (ctrl *controller) WatchPage(c *gin.Context) {
	tokenID := c.Param("token")

	playbackURL, err := ctrl.admissionService.PlaybackURL(c.Request.Context(), tokenID)
	if err != nil {
		switch {
		case errors.Is(err, admissionService.ErrInvalidToken):
			c.Data(http.StatusForbidden, "text/html; charset=utf-8", []byte(invalidTokenPage))
		case errors.Is(err, admissionService.ErrTokenExpired):
			c.Data(http.StatusForbidden, "text/html; charset=utf-8", []byte(expiredTokenPage))
		default:
			logger.Error(err, "failed to load watch page")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	page := renderWatchPage(tokenID, playbackURL)
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}

// Verify gates playback. GET re-checks a previously admitted device by its
// identity hash; POST fingerprints the device from its signals and admits it
// if a slot is free.
func (ctrl *controller) Verify(c *gin.Context) {
	tokenID := strings.TrimSpace(c.Query("v"))
	if tokenID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no token provided"})
		return
	}

	if c.Request.Method == http.MethodGet {
		ctrl.recheck(c, tokenID)
		return
	}

	ctrl.register(c, tokenID)
}

func (ctrl *controller) recheck(c *gin.Context, tokenID string) {
	identity := strings.TrimSpace(c.Query("id"))
	if identity == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing device id"})
		return
	}

	res, err := ctrl.admissionService.Recheck(c.Request.Context(), tokenID, identity)
	if err != nil {
		ctrl.writeAdmissionError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (ctrl *controller) register(c *gin.Context, tokenID string) {
	var signal model.DeviceSignal
	// missing signals degrade to empty strings rather than rejecting; the
	// fingerprint still distinguishes devices on whatever is present
	_ = c.ShouldBindJSON(&signal)
	signal.IP = clientIP(c)

	res, err := ctrl.admissionService.RegisterOrVerify(c.Request.Context(), tokenID, &signal)
	if err != nil {
		ctrl.writeAdmissionError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (ctrl *controller) writeAdmissionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, admissionService.ErrInvalidToken):
		c.JSON(http.StatusForbidden, gin.H{"error": "invalid token"})
	case errors.Is(err, admissionService.ErrTokenExpired):
		c.JSON(http.StatusForbidden, gin.H{"error": "token expired"})
	case errors.Is(err, admissionService.ErrDeviceLimit):
		c.JSON(http.StatusForbidden, gin.H{"error": "token locked to another device"})
	default:
		logger.Error(err, "verification failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// clientIP prefers the proxy-set headers over the socket address, matching
// the reverse-proxy deployment in front of the service.
func clientIP(c *gin.Context) string {
	if ip := c.GetHeader("X-Real-IP"); ip != "" {
		return ip
	}
	if ip := c.GetHeader("X-Forwarded-For"); ip != "" {
		return ip
	}
	return c.ClientIP()
}

// renderWatchPage fills the player page with the token and playback URL.
func renderWatchPage(tokenID, playbackURL string) string {
	page := strings.ReplaceAll(watchPage, "{{PLAYBACK_URL}}", playbackURL)
	return strings.ReplaceAll(page, "{{TOKEN}}", tokenID)
}
