package mailer

import (
	"fmt"
	"time"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendPaymentFailureNotice(toEmail string, attemptCount int64) error
	SendCancellationConfirmation(toEmail string, effectiveDate time.Time) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
	}
}

func (s *emailService) SendPaymentFailureNotice(toEmail string, attemptCount int64) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Payment Failed - Action Required")

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>We couldn't process your payment</h2>
			<p>Your latest payment attempt (attempt %d) did not go through.</p>
			<p>Please update your payment method to keep your premium access.
			Your access stays active during a short grace period while we retry.</p>
		</div>
	`, attemptCount)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send payment failure notice to %s: %w", toEmail, err)
	}
	return nil
}

func (s *emailService) SendCancellationConfirmation(toEmail string, effectiveDate time.Time) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Your subscription has been scheduled for cancellation")

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Sorry to see you go</h2>
			<p>Your subscription will remain active until <b>%s</b>.</p>
			<p>Changed your mind? You can resume your subscription any time before then.</p>
		</div>
	`, effectiveDate.Format("January 2, 2006"))

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send cancellation confirmation to %s: %w", toEmail, err)
	}
	return nil
}
