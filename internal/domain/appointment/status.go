package appointment

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
	StatusNoShow    Status = "no_show"
)

// IsTerminal reports whether no further transition may leave s.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCancelled, StatusCompleted, StatusNoShow:
		return true
	}
	return false
}

// ActiveStatuses are the statuses that occupy a slot.
var ActiveStatuses = []string{string(StatusPending), string(StatusConfirmed)}

// ===============================
// Payment Status
// ===============================

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentSubmitted PaymentStatus = "submitted"
	PaymentVerified  PaymentStatus = "verified"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

type PaymentMethod string

const (
	MethodEasyPaisa    PaymentMethod = "easypaisa"
	MethodJazzCash     PaymentMethod = "jazzcash"
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodStripe       PaymentMethod = "stripe"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodEasyPaisa, MethodJazzCash, MethodBankTransfer, MethodStripe:
		return true
	}
	return false
}

// ===============================
// Request attributes
// ===============================

type Type string

const (
	TypeConsultation Type = "consultation"
	TypeFollowUp     Type = "follow_up"
	TypePreOp        Type = "pre_op"
	TypeSurgery      Type = "surgery"
	TypePostOp       Type = "post_op"
)

func (t Type) Valid() bool {
	switch t {
	case TypeConsultation, TypeFollowUp, TypePreOp, TypeSurgery, TypePostOp:
		return true
	}
	return false
}

type ConsultationMethod string

const (
	MethodVideo    ConsultationMethod = "video"
	MethodPhone    ConsultationMethod = "phone"
	MethodWhatsApp ConsultationMethod = "whatsapp"
	MethodInClinic ConsultationMethod = "in_clinic"
)

func (m ConsultationMethod) Valid() bool {
	switch m {
	case MethodVideo, MethodPhone, MethodWhatsApp, MethodInClinic:
		return true
	}
	return false
}

// ===============================
// Validations
// ===============================

// CanSubmitPayment allows a first submission and a resubmission after
// rejection.
func CanSubmitPayment(current Status, payment PaymentStatus) error {
	if current.IsTerminal() {
		return ErrInvalidTransition
	}
	if payment != PaymentPending && payment != PaymentFailed {
		return ErrInvalidTransition
	}
	return nil
}

func CanVerifyPayment(current Status, payment PaymentStatus) error {
	if current.IsTerminal() || payment != PaymentSubmitted {
		return ErrInvalidTransition
	}
	return nil
}

func CanRejectPayment(current Status, payment PaymentStatus) error {
	if current.IsTerminal() || payment != PaymentSubmitted {
		return ErrInvalidTransition
	}
	return nil
}

// CanAssignSlot checks everything except slot capacity, which must be read
// under the same lock that attaches the slot. An unverified payment is
// reported first, whatever the status.
func CanAssignSlot(current Status, payment PaymentStatus) error {
	if payment != PaymentVerified {
		return ErrPaymentNotVerified
	}
	if current != StatusPending && current != StatusConfirmed {
		return ErrInvalidTransition
	}
	return nil
}

func CanCancel(current Status) error {
	if current.IsTerminal() {
		return ErrInvalidTransition
	}
	return nil
}

func CanComplete(current Status) error {
	if current != StatusConfirmed {
		return ErrInvalidTransition
	}
	return nil
}

func InitialStatus() Status {
	return StatusPending
}
