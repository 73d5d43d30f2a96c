package controller

import (
	"errors"
	"net/http"

	"ppv-gate/pkg/logger"
	"ppv-gate/pkg/model"
	adminService "ppv-gate/service-api/internal/service/admin"

	"github.com/gin-gonic/gin"
)

// AdminLogs lists admitted devices, optionally filtered by ?token=.
func (ctrl *controller) AdminLogs(c *gin.Context) {
	entries, err := ctrl.adminService.ListDevices(c.Request.Context(), c.Query("token"))
	if err != nil {
		logger.Error(err, "failed to list devices")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   len(entries),
		"devices": entries,
	})
}

// AdminKick evicts a device from a token.
func (ctrl *controller) AdminKick(c *gin.Context) {
	var req model.KickDeviceRequest
	err := c.ShouldBind(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token and device are required"})
		return
	}

	err = ctrl.adminService.Kick(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, adminService.ErrDeviceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "device not found"})
			return
		}
		logger.Error(err, "failed to kick device")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "device kicked"})
}

// AdminAddDevice records a device hash against a token on the buyer's behalf.
func (ctrl *controller) AdminAddDevice(c *gin.Context) {
	var req model.AddDeviceRequest
	err := c.ShouldBind(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token and device are required"})
		return
	}

	err = ctrl.adminService.AddDevice(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, adminService.ErrUnknownToken):
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown token"})
		case errors.Is(err, adminService.ErrLimitReached):
			c.JSON(http.StatusForbidden, gin.H{"error": "device limit reached"})
		default:
			logger.Error(err, "failed to add device")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "device added"})
}
