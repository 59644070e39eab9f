package appointment

import "github.com/BruksfildServices01/clinic-scheduler/internal/httperr"

var (
	ErrInvalidTransition  = httperr.ErrBusiness("invalid_transition")
	ErrPaymentNotVerified = httperr.ErrBusiness("payment_not_verified")
	ErrSlotFull           = httperr.ErrBusiness("slot_full")
	ErrSlotUnavailable    = httperr.ErrBusiness("slot_unavailable")
	ErrSlotHasBookings    = httperr.ErrBusiness("slot_has_bookings")
	ErrJoinWindowClosed   = httperr.ErrBusiness("join_window_closed")
	ErrNotVideo           = httperr.ErrBusiness("not_video_consultation")

	ErrAppointmentNotFound = httperr.ErrBusiness("appointment_not_found")
	ErrSlotNotFound        = httperr.ErrBusiness("slot_not_found")
	ErrPatientNotFound     = httperr.ErrBusiness("patient_not_found")

	ErrInvalidType          = httperr.ErrBusiness("invalid_appointment_type")
	ErrInvalidMethod        = httperr.ErrBusiness("invalid_consultation_method")
	ErrInvalidPaymentMethod = httperr.ErrBusiness("invalid_payment_method")
	ErrMissingProof         = httperr.ErrBusiness("missing_payment_proof")
	ErrInvalidSlot          = httperr.ErrBusiness("invalid_slot")
)
