package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-medicine-tracker/internal/application"
	"github.com/oksasatya/go-medicine-tracker/pkg/response"
	"github.com/oksasatya/go-medicine-tracker/pkg/validation"
)

type errorMapping struct {
	err    error
	status int
	code   string
}

// order matters only where sentinels could wrap each other; they don't today
var errorTable = []errorMapping{
	{application.ErrDuplicateEmail, http.StatusConflict, "DUPLICATE_EMAIL"},
	{application.ErrDuplicateSchedule, http.StatusConflict, "DUPLICATE_SCHEDULE"},
	{application.ErrDuplicateProfileName, http.StatusConflict, "DUPLICATE_PROFILE_NAME"},
	{application.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
	{application.ErrInvalidToken, http.StatusUnauthorized, "INVALID_TOKEN"},
	{application.ErrAuthRequired, http.StatusUnauthorized, "AUTH_REQUIRED"},
	{application.ErrUserNotFound, http.StatusNotFound, "USER_NOT_FOUND"},
	{application.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
	{application.ErrOwnership, http.StatusForbidden, "FORBIDDEN"},
	{application.ErrInvalidOperation, http.StatusUnprocessableEntity, "INVALID_OPERATION"},
	{application.ErrValidation, http.StatusBadRequest, "VALIDATION_FAILED"},
	{application.ErrUnavailable, http.StatusServiceUnavailable, "UNAVAILABLE"},
}

// statusFor maps a service error to its HTTP status and stable code.
func statusFor(err error) (int, string) {
	for _, m := range errorTable {
		if errors.Is(err, m.err) {
			return m.status, m.code
		}
	}
	return http.StatusInternalServerError, "INTERNAL"
}

// fail writes the error envelope for err. Unmapped errors are logged and
// reported without their text.
func fail(c *gin.Context, logger *logrus.Logger, err error) {
	status, code := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		logger.WithError(err).WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.FullPath(),
		}).Error("request failed")
		msg = "internal server error"
	}
	response.Error(c, status, msg, response.ErrorBody{Code: code})
}

// invalidPayload reports binding and validation failures field by field.
func invalidPayload(c *gin.Context, err error) {
	response.Error(c, http.StatusBadRequest, "invalid payload", response.ErrorBody{Code: "VALIDATION_FAILED", Details: validation.ToDetails(err)})
}
