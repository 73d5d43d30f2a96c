package controller

import (
	"ppv-gate/pkg/clock"
	"ppv-gate/pkg/config"
	adminService "ppv-gate/service-api/internal/service/admin"
	admissionService "ppv-gate/service-api/internal/service/admission"
	issuanceService "ppv-gate/service-api/internal/service/issuance"

	"github.com/gin-gonic/gin"
)

// ControllerProvider defines the controller interface
type ControllerProvider interface {
	// buyer flow
	PaymentForm(c *gin.Context)
	InitiatePayment(c *gin.Context)
	PaymentCallback(c *gin.Context)
	Resume(c *gin.Context)

	// watch flow
	WatchPage(c *gin.Context)
	Verify(c *gin.Context)

	// admin
	AdminLogs(c *gin.Context)
	AdminKick(c *gin.Context)
	AdminAddDevice(c *gin.Context)

	Healthz(c *gin.Context)
}

// controller implements the controller interface
type controller struct {
	admissionService *admissionService.Service
	issuanceService  *issuanceService.Service
	adminService     *adminService.Service
	clock            *clock.Clock
	config           *config.Config
}

// NewController creates a new controller instance
func NewController(
	admission *admissionService.Service,
	issuance *issuanceService.Service,
	admin *adminService.Service,
	clk *clock.Clock,
	cfg *config.Config,
) ControllerProvider {
	return &controller{
		admissionService: admission,
		issuanceService:  issuance,
		adminService:     admin,
		clock:            clk,
		config:           cfg,
	}
}
