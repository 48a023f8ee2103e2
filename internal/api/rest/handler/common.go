package handler

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/palemoky/forhonor-db/internal/errors"
)

// respondError sends a JSON error response derived from err's kind.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	kind := apperrors.KindOf(err)
	message := "Internal server error"

	var appErr *apperrors.Error
	if stderrors.As(err, &appErr) {
		status = appErr.HTTPStatus()
		message = appErr.Message
	}

	c.JSON(status, gin.H{"error": message, "code": kind})
}

// respondOK sends a JSON success response with the given data.
func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"data": data})
}
