package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"interview-media-backend/internal/apperr"
	"interview-media-backend/internal/models"
)

func respondOK(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, models.Envelope{Success: true, Message: message, Data: data})
}

func respondCreated(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, models.Envelope{Success: true, Message: message, Data: data})
}

// respondError maps a service error onto the envelope. Anticipated kinds
// carry their own status and code; anything else is logged and returned as
// a generic internal error.
func respondError(c *gin.Context, err error) {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		c.JSON(ae.Kind.HTTPStatus(), models.Envelope{
			Success:   false,
			ErrorCode: ae.Kind.Code(),
			Message:   ae.Message,
		})
		return
	}

	log.Printf("Error: %v", err)
	c.JSON(http.StatusInternalServerError, models.Envelope{
		Success:   false,
		ErrorCode: "INTERNAL_ERROR",
		Message:   "internal server error",
	})
}

// respondTooLarge is the dedicated rejection for bodies over the configured
// upload cap.
func respondTooLarge(c *gin.Context) {
	c.JSON(http.StatusRequestEntityTooLarge, models.Envelope{
		Success:   false,
		ErrorCode: "FILE_TOO_LARGE",
		Message:   "file exceeds the upload limit",
	})
}

func respondInvalid(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, models.Envelope{
		Success:   false,
		ErrorCode: "INVALID_INPUT",
		Message:   message,
	})
}
