package usecase

// Published to RabbitMQ when an order is placed.
type OrderCreatedMsg struct {
	OrderID     string  `json:"orderId"`
	OrderNumber string  `json:"orderNumber"`
	Username    string  `json:"username"`
	FinalAmount float64 `json:"finalAmount"`
	Status      string  `json:"status"`
}

// Published to RabbitMQ on every status transition.
type OrderStatusChangedMsg struct {
	OrderID     string `json:"orderId"`
	OrderNumber string `json:"orderNumber"`
	Status      string `json:"status"`
}

// Consumed from Kafka; emitted by the payment processor.
type PaymentEventMsg struct {
	OrderID       string  `json:"orderId"`
	Status        string  `json:"status"` // COMPLETED | FAILED
	TransactionID string  `json:"transactionId"`
	Amount        float64 `json:"amount"`
	FailureReason string  `json:"failureReason,omitempty"`
}
