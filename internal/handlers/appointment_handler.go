package handlers

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/logger"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/appointment"
)

const maxProofBytes = 5 << 20

// ProofUploader stores an uploaded payment proof and returns its reference.
type ProofUploader interface {
	Put(ctx context.Context, appointmentID uint, filename string, body io.Reader) (string, error)
}

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	create   *ucAppointment.CreateRequest
	submit   *ucAppointment.SubmitPaymentProof
	verify   *ucAppointment.VerifyPayment
	reject   *ucAppointment.RejectPayment
	assign   *ucAppointment.AssignSlot
	cancel   *ucAppointment.CancelAppointment
	complete *ucAppointment.CompleteAppointment
	list     *ucAppointment.ListAppointments
	join     *ucAppointment.JoinConsultation

	proofs ProofUploader
}

func NewAppointmentHandler(
	create *ucAppointment.CreateRequest,
	submit *ucAppointment.SubmitPaymentProof,
	verify *ucAppointment.VerifyPayment,
	reject *ucAppointment.RejectPayment,
	assign *ucAppointment.AssignSlot,
	cancel *ucAppointment.CancelAppointment,
	complete *ucAppointment.CompleteAppointment,
	list *ucAppointment.ListAppointments,
	join *ucAppointment.JoinConsultation,
	proofs ProofUploader,
) *AppointmentHandler {
	return &AppointmentHandler{
		create:   create,
		submit:   submit,
		verify:   verify,
		reject:   reject,
		assign:   assign,
		cancel:   cancel,
		complete: complete,
		list:     list,
		join:     join,
		proofs:   proofs,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	AppointmentType    string `json:"appointment_type"`
	ConsultationMethod string `json:"consultation_method"`
	Notes              string `json:"patient_notes"`
}

type SubmitPaymentRequest struct {
	PaymentMethod string `json:"payment_method" form:"payment_method" binding:"required"`
	ProofRef      string `json:"proof_ref" form:"proof_ref"`
}

type NotesRequest struct {
	Notes string `json:"notes"`
}

type ReasonRequest struct {
	Reason string `json:"reason"`
}

type AssignSlotRequest struct {
	SlotID uint `json:"slot_id" binding:"required"`
}

func listFilter(c *gin.Context) (domain.Filter, int, int) {
	page, limit, offset := pagination(c)
	return domain.Filter{
		Status:        c.Query("status"),
		PaymentStatus: c.Query("payment_status"),
		Limit:         limit,
		Offset:        offset,
	}, page, limit
}

// ======================================================
// PATIENT
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), ucAppointment.CreateRequestInput{
		UserID:             middleware.UserID(c),
		Type:               req.AppointmentType,
		ConsultationMethod: req.ConsultationMethod,
		Notes:              req.Notes,
	})
	if err != nil {
		httperr.FromError(c, err, "appointment_create_failed")
		return
	}

	httpresp.Created(c, ap)
}

func (h *AppointmentHandler) ListMine(c *gin.Context) {
	f, page, limit := listFilter(c)
	items, total, err := h.list.ForPatient(c.Request.Context(), middleware.UserID(c), f)
	if err != nil {
		httperr.FromError(c, err, "appointment_list_failed")
		return
	}

	httpresp.Page(c, items, total, page, limit)
}

func (h *AppointmentHandler) GetMine(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	ap, err := h.list.GetForPatient(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		httperr.FromError(c, err, "appointment_get_failed")
		return
	}

	httpresp.OK(c, ap)
}

// Join returns the video meeting link while the join window is open.
func (h *AppointmentHandler) Join(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	info, err := h.join.Execute(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		httperr.FromError(c, err, "appointment_join_failed")
		return
	}

	httpresp.OK(c, info)
}

// SubmitPayment takes either a JSON body with a proof_ref or a multipart form
// with a "proof" file, which is stored first.
func (h *AppointmentHandler) SubmitPayment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID := middleware.UserID(c)

	var req SubmitPaymentRequest
	if err := c.ShouldBind(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "payment_method is required.")
		return
	}

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		ref, done := h.upload(c, userID, id)
		if done {
			return
		}
		req.ProofRef = ref
	}

	ap, err := h.submit.Execute(c.Request.Context(), ucAppointment.SubmitPaymentInput{
		UserID:        userID,
		AppointmentID: id,
		Method:        req.PaymentMethod,
		ProofRef:      req.ProofRef,
	})
	if err != nil {
		httperr.FromError(c, err, "payment_submit_failed")
		return
	}

	httpresp.OK(c, ap)
}

// upload stores the proof file. done is true when a response was written.
func (h *AppointmentHandler) upload(c *gin.Context, userID, appointmentID uint) (ref string, done bool) {
	if h.proofs == nil {
		httperr.BadRequest(c, "uploads_disabled", "File uploads are not configured; send proof_ref.")
		return "", true
	}

	// ownership first, so strangers cannot fill the bucket
	if _, err := h.list.GetForPatient(c.Request.Context(), userID, appointmentID); err != nil {
		httperr.FromError(c, err, "payment_submit_failed")
		return "", true
	}

	fh, err := c.FormFile("proof")
	if err != nil {
		httperr.BadRequest(c, "missing_payment_proof", "Payment proof is required.")
		return "", true
	}
	if fh.Size > maxProofBytes {
		httperr.BadRequest(c, "proof_too_large", "Payment proof must be at most 5MB.")
		return "", true
	}

	f, err := fh.Open()
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "Could not read upload.")
		return "", true
	}
	defer f.Close()

	ref, err = h.proofs.Put(c.Request.Context(), appointmentID, fh.Filename, f)
	if err != nil {
		logger.Error("payment proof upload failed", "appointment_id", appointmentID, "error", err)
		httperr.BadRequest(c, "proof_upload_failed", "Could not store payment proof.")
		return "", true
	}
	return ref, false
}

// ======================================================
// STAFF
// ======================================================

func (h *AppointmentHandler) List(c *gin.Context) {
	f, page, limit := listFilter(c)
	items, total, err := h.list.ForStaff(c.Request.Context(), f)
	if err != nil {
		httperr.FromError(c, err, "appointment_list_failed")
		return
	}

	httpresp.Page(c, items, total, page, limit)
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	ap, err := h.list.Get(c.Request.Context(), id)
	if err != nil {
		httperr.FromError(c, err, "appointment_get_failed")
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) VerifyPayment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req NotesRequest
	_ = c.ShouldBindJSON(&req)

	ap, err := h.verify.Execute(c.Request.Context(), middleware.UserID(c), id, req.Notes)
	if err != nil {
		httperr.FromError(c, err, "payment_verify_failed")
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) RejectPayment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req ReasonRequest
	_ = c.ShouldBindJSON(&req)

	ap, err := h.reject.Execute(c.Request.Context(), middleware.UserID(c), id, req.Reason)
	if err != nil {
		httperr.FromError(c, err, "payment_reject_failed")
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) AssignSlot(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req AssignSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "slot_id is required.")
		return
	}

	ap, err := h.assign.Execute(c.Request.Context(), middleware.UserID(c), id, req.SlotID)
	if err != nil {
		httperr.FromError(c, err, "slot_assign_failed")
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req ReasonRequest
	_ = c.ShouldBindJSON(&req)

	ap, err := h.cancel.Execute(c.Request.Context(), middleware.UserID(c), id, req.Reason)
	if err != nil {
		httperr.FromError(c, err, "appointment_cancel_failed")
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	ap, err := h.complete.Execute(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		httperr.FromError(c, err, "appointment_complete_failed")
		return
	}

	httpresp.OK(c, ap)
}
