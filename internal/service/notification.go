package service

import (
	"context"
	"fmt"

	"cabanas-backend/internal/domain"
	"cabanas-backend/internal/logger"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type notificationService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewNotificationService(apiKey, fromEmail, fromName string) NotificationService {
	return &notificationService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *notificationService) send(to, toName, subject, plainText string) error {
	logger.ExternalServiceCall("sendgrid", "send", "to", to, "subject", subject)
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, "")

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		logger.ExternalServiceResult("sendgrid", "send", err)
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		err := fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
		logger.ExternalServiceResult("sendgrid", "send", err)
		return err
	}
	logger.ExternalServiceResult("sendgrid", "send", nil)
	return nil
}

func (s *notificationService) SendReservationConfirmed(ctx context.Context, res *domain.Reservation) error {
	subject := fmt.Sprintf("Reserva confirmada — %s al %s", res.CheckIn, res.CheckOut)
	body := fmt.Sprintf(
		"Hola %s,\n\nTu reserva está confirmada.\n\nCódigo: %s\nLlegada: %s\nSalida: %s\nHuéspedes: %d\nTotal: $%d CLP\nPagado: $%d CLP\n\n¡Te esperamos!",
		res.GuestName, res.Code, res.CheckIn, res.CheckOut, res.Guests, res.Breakdown.TotalCLP, res.PaidAmountCLP)
	return s.send(res.GuestEmail, res.GuestName, subject, body)
}

func (s *notificationService) SendReservationCancelled(ctx context.Context, res *domain.Reservation, reason string) error {
	subject := fmt.Sprintf("Reserva cancelada — %s", res.Code)
	body := fmt.Sprintf(
		"Hola %s,\n\nTu reserva %s (%s al %s) fue cancelada.\nMotivo: %s\n\nSi tienes dudas, contáctanos.",
		res.GuestName, res.Code, res.CheckIn, res.CheckOut, reason)
	return s.send(res.GuestEmail, res.GuestName, subject, body)
}
