package domain

import "time"

type PaymentMethod string

const (
	PaymentCreditCard     PaymentMethod = "CREDIT_CARD"
	PaymentDebitCard      PaymentMethod = "DEBIT_CARD"
	PaymentPayPal         PaymentMethod = "PAYPAL"
	PaymentApplePay       PaymentMethod = "APPLE_PAY"
	PaymentGooglePay      PaymentMethod = "GOOGLE_PAY"
	PaymentBankTransfer   PaymentMethod = "BANK_TRANSFER"
	PaymentCashOnDelivery PaymentMethod = "CASH_ON_DELIVERY"
	PaymentCrypto         PaymentMethod = "CRYPTO"
)

var validPaymentMethods = map[PaymentMethod]struct{}{
	PaymentCreditCard: {}, PaymentDebitCard: {}, PaymentPayPal: {},
	PaymentApplePay: {}, PaymentGooglePay: {}, PaymentBankTransfer: {},
	PaymentCashOnDelivery: {}, PaymentCrypto: {},
}

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	m := PaymentMethod(s)
	if _, ok := validPaymentMethods[m]; !ok {
		return "", invalid("paymentMethod", "unknown value "+s)
	}
	return m, nil
}

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusRefunded  PaymentStatus = "REFUNDED"
)

// PaymentInfo is a record of the payment, not a gateway integration.
type PaymentInfo struct {
	Method        PaymentMethod `json:"paymentMethod"`
	Status        PaymentStatus `json:"paymentStatus"`
	TransactionID string        `json:"transactionId,omitempty"`
	Amount        float64       `json:"amount"`
	Currency      string        `json:"currency"`
	PaymentDate   *time.Time    `json:"paymentDate,omitempty"`
	FailureReason string        `json:"failureReason,omitempty"`
}

func NewPaymentInfo(method PaymentMethod, amount float64) PaymentInfo {
	return PaymentInfo{
		Method:   method,
		Status:   PaymentStatusPending,
		Amount:   amount,
		Currency: "USD",
	}
}
