package gmail

import (
	"fmt"
	"log/slog"
	"net/smtp"
	"net/textproto"

	"github.com/jordan-wright/email"
)

const (
	smtpAuthAddress   = "smtp.gmail.com"
	smtpServerAddress = "smtp.gmail.com:587"
)

const passcodeSubject = "Your contact form verification code"

type GmailSender struct {
	log               *slog.Logger
	name              string
	fromEmailAddress  string
	fromEmailPassword string
}

func New(
	log *slog.Logger,
	name string,
	email string,
	password string) *GmailSender {
	return &GmailSender{
		log:               log,
		name:              name,
		fromEmailAddress:  email,
		fromEmailPassword: password,
	}
}

// SendPasscode delivers a one-time code to the claimed address. The mail
// either reaches the SMTP server or errors; there is no partial success.
func (sender *GmailSender) SendPasscode(
	to string,
	passcode string,
	expiresAtText string,
	name string,
) error {
	const op = "Gmail.SendPasscode"

	log := sender.log.With(
		slog.String("op", op),
	)

	log.Info("attempting to send passcode email")

	content := fmt.Sprintf(
		`<p>Hi %s,</p>
<p>Your verification code is <b>%s</b>.</p>
<p>It is valid until %s. Enter it in the contact form to confirm your email
address and send your message.</p>
<p>If you did not request this, you can ignore this email.</p>`,
		name, passcode, expiresAtText,
	)

	e := &email.Email{
		To:      []string{to},
		From:    fmt.Sprintf("%s <%s>", sender.name, sender.fromEmailAddress),
		Subject: passcodeSubject,
		HTML:    []byte(content),
		Headers: textproto.MIMEHeader{},
	}

	smtpAuth := smtp.PlainAuth("", sender.fromEmailAddress, sender.fromEmailPassword, smtpAuthAddress)
	return e.Send(smtpServerAddress, smtpAuth)
}
