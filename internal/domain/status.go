package domain

import "strings"

// PaymentStatus values come from the payment provider via the backend.
// Anything else maps to PaymentStatusUnknown for display purposes.
type PaymentStatus string

const (
	PaymentStatusApproved  PaymentStatus = "approved"
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusInProcess PaymentStatus = "in_process"
	PaymentStatusRejected  PaymentStatus = "rejected"
	PaymentStatusCancelled PaymentStatus = "cancelled"
	PaymentStatusUnknown   PaymentStatus = "unknown"
)

// Normalize folds case and maps unrecognized values to unknown.
func (s PaymentStatus) Normalize() PaymentStatus {
	switch PaymentStatus(strings.ToLower(string(s))) {
	case PaymentStatusApproved:
		return PaymentStatusApproved
	case PaymentStatusPending:
		return PaymentStatusPending
	case PaymentStatusInProcess:
		return PaymentStatusInProcess
	case PaymentStatusRejected:
		return PaymentStatusRejected
	case PaymentStatusCancelled:
		return PaymentStatusCancelled
	default:
		return PaymentStatusUnknown
	}
}

func (s PaymentStatus) Label() string {
	switch s.Normalize() {
	case PaymentStatusApproved:
		return "Approved"
	case PaymentStatusPending:
		return "Pending"
	case PaymentStatusInProcess:
		return "In process"
	case PaymentStatusRejected:
		return "Rejected"
	case PaymentStatusCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

type ShippingStatus string

const (
	ShippingProcessing        ShippingStatus = "PROCESSING"
	ShippingShipped           ShippingStatus = "SHIPPED"
	ShippingDelivered         ShippingStatus = "DELIVERED"
	ShippingPaymentPending    ShippingStatus = "PAYMENT_PENDING"
	ShippingPaymentProcessing ShippingStatus = "PAYMENT_PROCESSING"
	ShippingPaymentRejected   ShippingStatus = "PAYMENT_REJECTED"
	ShippingPaymentCancelled  ShippingStatus = "PAYMENT_CANCELLED"
)

var shippingStatuses = map[ShippingStatus]string{
	ShippingProcessing:        "Processing shipment",
	ShippingShipped:           "Shipped",
	ShippingDelivered:         "Delivered",
	ShippingPaymentPending:    "Payment pending",
	ShippingPaymentProcessing: "Payment in process",
	ShippingPaymentRejected:   "Payment rejected",
	ShippingPaymentCancelled:  "Payment cancelled",
}

func (s ShippingStatus) Valid() bool {
	_, ok := shippingStatuses[s]
	return ok
}

func (s ShippingStatus) Label() string {
	if label, ok := shippingStatuses[s]; ok {
		return label
	}
	return string(s)
}

// StatusDetailMessage expands the provider's statusDetail code into an
// operator-readable message. Unrecognized codes are returned as-is.
func StatusDetailMessage(status PaymentStatus, detail string) string {
	if detail == "" {
		return ""
	}
	switch status.Normalize() {
	case PaymentStatusApproved:
		switch detail {
		case "accredited":
			return "Payment accredited"
		case "partially_refunded":
			return "Approved with a partial refund, verify the amount"
		default:
			return "Approved, ready to ship"
		}
	case PaymentStatusInProcess:
		switch detail {
		case "pending_contingency":
			return "Under automatic review, allow up to 2 business days"
		case "pending_review_manual":
			return "Under manual review, wait for confirmation"
		case "offline_process":
			return "Offline processing, verify within 24-48 hours"
		default:
			return "In process, do not ship until confirmed"
		}
	case PaymentStatusPending:
		switch detail {
		case "pending_waiting_transfer":
			return "Waiting for the buyer's bank transfer"
		case "pending_waiting_payment":
			return "Waiting for the buyer's cash payment"
		case "pending_challenge":
			return "Waiting for the buyer's 3DS verification"
		default:
			return "Pending, buyer action required"
		}
	case PaymentStatusRejected:
		switch strings.ToLower(detail) {
		case "cc_rejected_insufficient_amount":
			return "Rejected: insufficient funds"
		case "cc_rejected_bad_filled_card_number",
			"cc_rejected_bad_filled_date",
			"cc_rejected_bad_filled_security_code",
			"cc_rejected_bad_filled_other":
			return "Rejected: incorrect card data"
		case "cc_rejected_call_for_authorize":
			return "Rejected: bank authorization required"
		case "cc_rejected_card_disabled":
			return "Rejected: card disabled"
		case "cc_rejected_high_risk":
			return "Rejected: high fraud risk"
		case "cc_rejected_max_attempts":
			return "Rejected: attempt limit exceeded"
		case "cc_rejected_duplicated_payment":
			return "Rejected: duplicate payment detected"
		case "rejected_by_bank":
			return "Rejected by the issuing bank"
		case "cc_rejected_blacklist":
			return "Rejected: card blacklisted"
		default:
			return "Rejected: " + detail
		}
	case PaymentStatusCancelled:
		switch detail {
		case "expired":
			return "Cancelled: expired after 30 days pending"
		case "by_collector":
			return "Cancelled by the seller"
		case "by_payer":
			return "Cancelled by the buyer"
		default:
			return "Payment cancelled"
		}
	default:
		return detail
	}
}
