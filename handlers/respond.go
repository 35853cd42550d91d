package handlers

import (
	"errors"
	"net/http"

	"fixly/services/booking"
	"fixly/services/provider"
	"fixly/services/review"
	"fixly/services/user"
	"fixly/utils"

	"github.com/gin-gonic/gin"
)

// statusForCode maps service error codes onto HTTP statuses. The code
// namespaces are shared across service packages on purpose.
var statusForCode = map[string]int{
	"notFound":           http.StatusNotFound,
	"unauthorized":       http.StatusForbidden,
	"validationFailed":   http.StatusBadRequest,
	"capabilityMismatch": http.StatusUnprocessableEntity,
	"invalidTransition":  http.StatusConflict,
	"conflict":           http.StatusConflict,
	"duplicateReview":    http.StatusConflict,
	"notCompleted":       http.StatusConflict,
}

// respondError translates a service error into a JSON error response. Errors
// outside the service taxonomies are internal.
func respondError(c *gin.Context, err error) {
	code, message := errorCode(err)
	if code == "" {
		utils.JSONError(c, http.StatusInternalServerError, "Internal Server Error", err.Error())
		return
	}
	status, ok := statusForCode[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	c.JSON(status, gin.H{"error": message, "code": code})
}

func errorCode(err error) (string, string) {
	var bookingErr *booking.Error
	if errors.As(err, &bookingErr) {
		return bookingErr.Code, bookingErr.Message
	}
	var reviewErr *review.Error
	if errors.As(err, &reviewErr) {
		return reviewErr.Code, reviewErr.Message
	}
	var providerErr *provider.Error
	if errors.As(err, &providerErr) {
		return providerErr.Code, providerErr.Message
	}
	var userErr *user.Error
	if errors.As(err, &userErr) {
		return userErr.Code, userErr.Message
	}
	return "", ""
}
