package notification

import (
	"context"
	"fmt"
	"net"
	"time"

	gomail "github.com/wneessen/go-mail"

	"moveops_backend/platform/config"
)

// SMTPSender delivers notifications over the configured SMTP server.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

func NewSMTPSender(cfg config.EmailConfig) *SMTPSender {
	return &SMTPSender{
		host:      cfg.GetSMTPHost(),
		port:      cfg.GetSMTPPort(),
		username:  cfg.GetSMTPUsername(),
		password:  cfg.GetSMTPPassword(),
		fromName:  cfg.GetEmailFromName(),
		fromEmail: cfg.GetEmailFromAddress(),
	}
}

var _ Sender = (*SMTPSender)(nil)

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func (s *SMTPSender) SendBookingConfirmedEmail(ctx context.Context, toEmail, customerName string, slotStart *time.Time, bookingID string) error {
	content, err := renderEmailTemplate("booking_confirmed.html", bookingConfirmedEmailData{
		baseEmailData: baseEmailData{
			Title:   subjectBookingConfirmed,
			Heading: subjectBookingConfirmed,
		},
		CustomerName:  customerName,
		SlotFormatted: formatSlot(slotStart),
		BookingID:     bookingID,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectBookingConfirmed, content)
}

func (s *SMTPSender) SendDepositReceivedEmail(ctx context.Context, toEmail string, amount int64, bookingID string) error {
	content, err := renderEmailTemplate("deposit_received.html", depositReceivedEmailData{
		baseEmailData: baseEmailData{
			Title:   subjectDepositReceived,
			Heading: subjectDepositReceived,
		},
		AmountFormatted: formatCurrencyKRW(amount),
		BookingID:       bookingID,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectDepositReceived, content)
}

func (s *SMTPSender) SendBookingReminderEmail(ctx context.Context, toEmail string, slotStart time.Time, bookingID string) error {
	content, err := renderEmailTemplate("booking_reminder.html", bookingReminderEmailData{
		baseEmailData: baseEmailData{
			Title:   subjectBookingReminder,
			Heading: subjectBookingReminder,
		},
		SlotFormatted: formatSlot(&slotStart),
		BookingID:     bookingID,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectBookingReminder, content)
}
