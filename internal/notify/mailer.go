package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"

	"github.com/iliyamo/cinema-seat-map/internal/config"
	"github.com/iliyamo/cinema-seat-map/internal/queue"
)

const qrSize = 256

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`<h2>Your booking is confirmed</h2>
<p>Reference: <strong>{{.Ref}}</strong></p>
<table>
<tr><td>Cinema</td><td>{{.CinemaName}}</td></tr>
<tr><td>Screen</td><td>{{.ScreenName}}</td></tr>
<tr><td>Starts</td><td>{{.StartsAt}}</td></tr>
<tr><td>Seats</td><td>{{.Seats}}</td></tr>
<tr><td>Tickets</td><td>{{.SeatTotal}}</td></tr>
<tr><td>Booking fee</td><td>{{.BookingFee}}</td></tr>
<tr><td>Total</td><td><strong>{{.GrandTotal}}</strong></td></tr>
</table>
<p>Show the attached QR code at the entrance.</p>
`))

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer implements queue.Notifier over SMTP.
type Mailer struct {
	from   string
	dialer sender
	logger *logrus.Logger
}

// NewMailer returns a Mailer for cfg.
func NewMailer(logger *logrus.Logger, cfg config.SMTPConfig) *Mailer {
	return &Mailer{
		from:   cfg.From,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		logger: logger,
	}
}

// NotifyBookingConfirmed mails the confirmation to ev.ContactEmail.
func (m *Mailer) NotifyBookingConfirmed(ctx context.Context, ev queue.BookingConfirmedEvent) error {
	if ev.ContactEmail == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	msg, err := m.buildMessage(ev)
	if err != nil {
		return err
	}
	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send confirmation %s: %w", ev.Reference(), err)
	}
	m.logger.WithFields(logrus.Fields{"booking_id": ev.BookingID, "to": ev.ContactEmail}).Info("confirmation mail sent")
	return nil
}

func (m *Mailer) buildMessage(ev queue.BookingConfirmedEvent) (*gomail.Message, error) {
	var body bytes.Buffer
	err := confirmationTmpl.Execute(&body, struct {
		queue.BookingConfirmedEvent
		Ref   string
		Seats string
	}{ev, ev.Reference(), strings.Join(ev.Seats, ", ")})
	if err != nil {
		return nil, fmt.Errorf("render confirmation: %w", err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", ev.ContactEmail)
	msg.SetHeader("Subject", "Booking confirmed #"+ev.Reference())
	msg.SetBody("text/html", body.String())

	qr, err := QRCodePNG(ev.Reference(), qrSize)
	if err != nil {
		// still worth sending without the code
		m.logger.WithError(err).WithField("booking_id", ev.BookingID).Warn("qr code generation failed")
		return msg, nil
	}
	name := ev.Reference() + ".png"
	msg.Attach(name, gomail.Rename(name), gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(qr)
		return err
	}))
	return msg, nil
}
