package mailer

import (
	"fmt"
	"log/slog"

	gomail "gopkg.in/gomail.v2"
)

// Mailer sends transactional mail over SMTP. Sends are best effort: failures
// are logged and never surfaced to the caller, so a broken mail setup cannot
// block a password reset or an order.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func New(host string, port int, user, pass, from string) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(host, port, user, pass),
		from:   from,
	}
}

func (m *Mailer) send(to, subject, html string) {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", html)
	if err := m.dialer.DialAndSend(msg); err != nil {
		slog.Error("send mail", "to", to, "subject", subject, "err", err)
		return
	}
	slog.Info("mail sent", "to", to, "subject", subject)
}

// SendOTP delivers a password-reset code, valid for ten minutes.
func (m *Mailer) SendOTP(to, otp string) {
	m.send(to, "Password Reset OTP", OTPBody(otp))
}

func (m *Mailer) SendOrderConfirmation(to, orderID string, amountCents int64) {
	m.send(to, "Order Confirmation", orderConfirmationBody(orderID, amountCents))
}

func (m *Mailer) SendOrderCancellation(to, orderID, reason string) {
	m.send(to, "Order Cancelled", orderCancellationBody(orderID, reason))
}

// OTPBody renders the reset-code email.
func OTPBody(otp string) string {
	return fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333; text-align: center;">Password Reset Request</h2>
  <p style="color: #666;">You have requested to reset your password.</p>
  <div style="background-color: #f8f9fa; border: 1px solid #dee2e6; border-radius: 5px; padding: 20px; text-align: center; margin: 20px 0;">
    <h3 style="color: #333; margin: 0; font-size: 24px; letter-spacing: 3px;">%s</h3>
    <p style="color: #666; margin: 10px 0 0 0;">Your One-Time Password (OTP)</p>
  </div>
  <p style="color: #666; font-size: 14px;">This OTP is valid for 10 minutes. Please do not share this code with anyone.</p>
  <p style="color: #666; font-size: 14px;">If you didn't request this password reset, please ignore this email.</p>
</div>`, otp)
}

func orderConfirmationBody(orderID string, amountCents int64) string {
	return fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Thanks for your order!</h2>
  <p style="color: #666;">Order <strong>%s</strong> has been placed.</p>
  <p style="color: #666;">Total: %.2f</p>
</div>`, orderID, float64(amountCents)/100)
}

func orderCancellationBody(orderID, reason string) string {
	return fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Order cancelled</h2>
  <p style="color: #666;">Order <strong>%s</strong> has been cancelled.</p>
  <p style="color: #666;">Reason: %s</p>
</div>`, orderID, reason)
}
