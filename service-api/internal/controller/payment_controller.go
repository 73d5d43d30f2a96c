package controller

import (
	"errors"
	"net/http"
	"time"

	"ppv-gate/pkg/logger"
	"ppv-gate/pkg/model"
	issuanceService "ppv-gate/service-api/internal/service/issuance"

	"github.com/gin-gonic/gin"
)

// PaymentForm serves the buyer-facing payment form.
func (ctrl *controller) PaymentForm(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(paymentFormPage))
}

// InitiatePayment creates a hosted bill for the buyer and redirects to the
// payment page.
func (ctrl *controller) InitiatePayment(c *gin.Context) {
	var req model.InitiatePaymentRequest
	err := c.ShouldBind(&req)
	if err != nil {
		logger.Error(err, "failed to bind payment request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and email are required"})
		return
	}

	billURL, err := ctrl.issuanceService.InitiatePayment(c.Request.Context(), &req)
	if err != nil {
		logger.Error(err, "failed to initiate payment")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create bill"})
		return
	}

	c.Redirect(http.StatusFound, billURL)
}

// PaymentCallback processes the gateway callback. The gateway POSTs form
// fields but some redirect flows deliver the same fields as query params, so
// both are accepted.
func (ctrl *controller) PaymentCallback(c *gin.Context) {
	var cb model.PaymentCallback
	if c.Request.Method == http.MethodPost {
		err := c.ShouldBind(&cb)
		if err != nil {
			logger.Error(err, "failed to bind payment callback")
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid callback payload"})
			return
		}
	} else {
		cb.Status = c.Query("status")
		cb.StatusID = c.Query("status_id")
		cb.OrderID = c.Query("order_id")
	}

	tokenID, err := ctrl.issuanceService.HandleCallback(c.Request.Context(), &cb)
	if err != nil {
		if errors.Is(err, issuanceService.ErrPaymentFailed) || errors.Is(err, issuanceService.ErrMalformedCallback) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "payment not successful or email missing"})
			return
		}
		logger.Error(err, "failed to process payment callback")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	logger.Infof("payment callback processed, token %s", tokenID)
	c.String(http.StatusOK, "OK")
}

// Resume is the gateway return URL. The buyer lands here after paying; if the
// callback already issued their token they are sent straight to the watch
// page, otherwise they get a thank-you page telling them to check email.
func (ctrl *controller) Resume(c *gin.Context) {
	buyerEmail := c.Query("email")
	if buyerEmail == "" {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(thankYouPage))
		return
	}

	tokenID, err := ctrl.admissionService.Resume(c.Request.Context(), buyerEmail)
	if err != nil {
		logger.Error(err, "failed to resume token")
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(thankYouPage))
		return
	}
	if tokenID == "" {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(thankYouPage))
		return
	}

	c.Redirect(http.StatusFound, "/watch/"+tokenID)
}

// Healthz reports liveness along with the server time in the event timezone.
func (ctrl *controller) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ok":   true,
		"time": ctrl.clock.Now().Format(time.RFC3339),
	})
}
