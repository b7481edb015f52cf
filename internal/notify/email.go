package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hibiken/asynq"

	"github.com/lojinha-app/backend-lojinha/internal/common"
)

// EmailWorker renders and sends transactional emails from queued tasks.
type EmailWorker struct {
	Mail common.EmailSender
	From string
}

type orderEmailPayload struct {
	OrderID string `json:"orderId"`
	Email   string `json:"email"`
	Total   int64  `json:"total"`
	Status  string `json:"status"`
}

// HandleOrderConfirmation sends the order receipt email.
func (w EmailWorker) HandleOrderConfirmation(_ context.Context, t *asynq.Task) error {
	payload, err := decodeOrderPayload(t.Payload())
	if err != nil {
		return err
	}
	if payload.Email == "" {
		return nil
	}
	body := fmt.Sprintf("Recebemos seu pedido %s no valor de %s. Obrigado pela compra!",
		payload.OrderID, formatCentavos(payload.Total))
	return w.Mail.Send(payload.Email, "Pedido recebido", body)
}

// HandleOrderStatus sends a delivery progress email.
func (w EmailWorker) HandleOrderStatus(_ context.Context, t *asynq.Task) error {
	payload, err := decodeOrderPayload(t.Payload())
	if err != nil {
		return err
	}
	if payload.Email == "" {
		return nil
	}
	subject := "Atualização do pedido"
	var body string
	switch payload.Status {
	case "IN_TRANSIT":
		body = fmt.Sprintf("Seu pedido %s saiu para entrega.", payload.OrderID)
	case "DELIVERED":
		body = fmt.Sprintf("Seu pedido %s foi entregue.", payload.OrderID)
	default:
		body = fmt.Sprintf("Seu pedido %s está agora em %s.", payload.OrderID, payload.Status)
	}
	return w.Mail.Send(payload.Email, subject, body)
}

func decodeOrderPayload(raw []byte) (orderEmailPayload, error) {
	var payload orderEmailPayload
	if len(raw) == 0 {
		return payload, nil
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return payload, fmt.Errorf("notify: decode payload: %w", err)
	}
	payload.Email = strings.TrimSpace(payload.Email)
	return payload, nil
}

func formatCentavos(v int64) string {
	return fmt.Sprintf("R$ %d,%02d", v/100, v%100)
}
