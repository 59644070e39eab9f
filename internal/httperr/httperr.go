package httperr

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

var messages = map[string]string{
	"invalid_transition":    "Appointment cannot change state from its current status.",
	"payment_not_verified":  "Cannot assign slot: payment not verified.",
	"slot_full":             "Selected time slot is fully booked.",
	"slot_unavailable":      "Selected time slot is not available.",
	"slot_has_bookings":     "Cannot delete slot with existing bookings.",
	"appointment_not_found": "Appointment not found.",
	"slot_not_found":        "Time slot not found.",
	"patient_not_found":     "No patient profile for this account.",
	"join_window_closed":    "This consultation is not currently active.",

	"not_video_consultation":      "This appointment is not a video consultation.",

	"invalid_appointment_type":    "Unknown appointment type.",
	"invalid_consultation_method": "Unknown consultation method.",
	"invalid_payment_method":      "Unknown payment method.",
	"missing_payment_proof":       "Payment proof is required.",
	"invalid_slot":                "Invalid slot date or time range.",
}

// validation codes are the caller's fault, not a state conflict
var badRequest = map[string]bool{
	"invalid_appointment_type":    true,
	"invalid_consultation_method": true,
	"invalid_payment_method":      true,
	"missing_payment_proof":       true,
	"invalid_slot":                true,
	"not_video_consultation":      true,
}

// FromError writes err as a JSON error. Business errors keep their code;
// *_not_found codes map to 404, validation codes to 400, the rest to 409. Anything else is a 500
// under fallbackCode.
func FromError(c *gin.Context, err error, fallbackCode string) {
	code := Code(err)
	if code == "" {
		Internal(c, fallbackCode, "Internal error.")
		return
	}

	msg, ok := messages[code]
	if !ok {
		msg = code
	}

	if strings.HasSuffix(code, "_not_found") {
		NotFound(c, code, msg)
		return
	}
	if badRequest[code] {
		BadRequest(c, code, msg)
		return
	}
	Conflict(c, code, msg)
}
