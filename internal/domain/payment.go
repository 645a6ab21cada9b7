package domain

import (
	"encoding/json"
	"strings"
	"time"
)

type PaymentMethod string

const (
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCard, PaymentMethodCash, PaymentMethodBankTransfer:
		return true
	}
	return false
}

// Gateway names the processor for m; offline methods have none besides themselves.
func (m PaymentMethod) Gateway() string {
	if m == PaymentMethodCard {
		return "mock-card"
	}
	return string(m)
}

type PaymentRecordStatus string

const (
	PaymentRecordPending   PaymentRecordStatus = "pending"
	PaymentRecordSucceeded PaymentRecordStatus = "succeeded"
	PaymentRecordFailed    PaymentRecordStatus = "failed"
	PaymentRecordRefunded  PaymentRecordStatus = "refunded"
)

type Payment struct {
	ID              string              `json:"id"`
	BookingID       string              `json:"booking_id"`
	UserID          string              `json:"user_id"`
	AgentID         string              `json:"agent_id"`
	AmountCents     int64               `json:"amount_cents"`
	Currency        string              `json:"currency"`
	Method          PaymentMethod       `json:"method"`
	Gateway         string              `json:"gateway"`
	TransactionID   string              `json:"transaction_id"`
	Status          PaymentRecordStatus `json:"status"`
	GatewayResponse string              `json:"gateway_response,omitempty"`
	RefundCents     int64               `json:"refund_cents"`
	PayoutID        string              `json:"payout_id,omitempty"`
	BookingStatus   BookingStatus       `json:"booking_status,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

type gatewayMeta struct {
	Last4 string `json:"last4,omitempty"`
}

// CardGatewayResponse records the last four digits of a card number.
func CardGatewayResponse(cardNumber string) string {
	digits := strings.Join(strings.Fields(cardNumber), "")
	if len(digits) < 4 {
		return ""
	}
	data, err := json.Marshal(gatewayMeta{Last4: digits[len(digits)-4:]})
	if err != nil {
		return ""
	}
	return string(data)
}

func (p Payment) Last4() string {
	if p.GatewayResponse == "" {
		return ""
	}
	var meta gatewayMeta
	if err := json.Unmarshal([]byte(p.GatewayResponse), &meta); err != nil {
		return ""
	}
	return meta.Last4
}

// MethodLabel is the human readable payment method shown in histories.
func (p Payment) MethodLabel() string {
	switch p.Method {
	case PaymentMethodCard:
		if last4 := p.Last4(); last4 != "" {
			return "Card •••• " + last4
		}
		return "Card"
	case PaymentMethodCash:
		return "Pay on arrival"
	case PaymentMethodBankTransfer:
		return "Bank transfer"
	}
	return strings.ReplaceAll(string(p.Method), "_", " ")
}
