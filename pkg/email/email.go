// Package email, transactional email gönderimini soyutlar.
//
// Mailer, domain olaylarına karşılık gelen metotları (hoş geldin, şifre
// sıfırlama kodu, kayıt onayı, sertifika) sunar. Gövde HTML'i html/template
// ile üretilir, gönderim bir Transport'a devredilir:
//   - resendTransport: Resend API (production)
//   - logTransport: API key yoksa email'i sadece loglar (development)
package email

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/resend/resend-go/v3"
	"github.com/rs/zerolog/log"

	"github.com/akinalp/fireshield/pkg/metrics"
)

// Message, gönderime hazır tek bir email.
type Message struct {
	From     string
	To       string
	Subject  string
	HTML     string
	Template string // metrik/log etiketi: "welcome", "password_reset" vb.
}

// Transport, bir Message'ı sağlayıcıya iletir.
type Transport interface {
	Send(ctx context.Context, msg Message) error
}

// Mailer, service katmanının bağımlı olduğu interface.
type Mailer interface {
	SendWelcome(ctx context.Context, to, firstName string) error
	SendPasswordReset(ctx context.Context, to, firstName string, otp int) error
	SendEnrollmentConfirmation(ctx context.Context, to, firstName string, details EnrollmentDetails) error
	SendCertificate(ctx context.Context, to, firstName, courseTitle, certificateURL string) error
}

// EnrollmentDetails, kayıt onayı email'inde gösterilen oturum bilgisi.
type EnrollmentDetails struct {
	CourseTitle string
	StartDate   time.Time
	EndDate     time.Time
	Location    string
}

// Config, Mailer ayarları.
type Config struct {
	FromName    string
	FromEmail   string
	FrontendURL string
}

type mailer struct {
	transport Transport
	cfg       Config
}

// NewMailer, verilen transport ile Mailer oluşturur.
func NewMailer(transport Transport, cfg Config) Mailer {
	if cfg.FromName == "" {
		cfg.FromName = "Fireshield"
	}
	return &mailer{transport: transport, cfg: cfg}
}

// templateData, tüm şablonların ortak alanları + şablona özel alanlar.
type templateData struct {
	CompanyName string
	FrontendURL string
	FirstName   string
	OTP         string
	Course      string
	StartDate   string
	EndDate     string
	Location    string
	Link        string
}

func (m *mailer) send(ctx context.Context, name, to, subject string, data templateData) error {
	data.CompanyName = m.cfg.FromName
	data.FrontendURL = strings.TrimSuffix(m.cfg.FrontendURL, "/")

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("render %s email: %w", name, err)
	}

	err := m.transport.Send(ctx, Message{
		From:     fmt.Sprintf("%s <%s>", m.cfg.FromName, m.cfg.FromEmail),
		To:       to,
		Subject:  subject,
		HTML:     buf.String(),
		Template: name,
	})
	if err != nil {
		metrics.EmailFailed(name)
		return err
	}
	metrics.EmailSent(name)
	return nil
}

func (m *mailer) SendWelcome(ctx context.Context, to, firstName string) error {
	return m.send(ctx, "welcome", to, "Welcome to our platform!", templateData{FirstName: firstName})
}

func (m *mailer) SendPasswordReset(ctx context.Context, to, firstName string, otp int) error {
	return m.send(ctx, "password_reset", to, "Password Reset Request",
		templateData{FirstName: firstName, OTP: fmt.Sprintf("%06d", otp)})
}

func (m *mailer) SendEnrollmentConfirmation(ctx context.Context, to, firstName string, d EnrollmentDetails) error {
	return m.send(ctx, "enrollment_confirmation", to, "Enrollment Confirmed: "+d.CourseTitle, templateData{
		FirstName: firstName,
		Course:    d.CourseTitle,
		StartDate: d.StartDate.Format("January 2, 2006"),
		EndDate:   d.EndDate.Format("January 2, 2006"),
		Location:  d.Location,
	})
}

func (m *mailer) SendCertificate(ctx context.Context, to, firstName, courseTitle, certificateURL string) error {
	return m.send(ctx, "certificate", to, fmt.Sprintf("Congratulations! Your %s Certificate", courseTitle), templateData{
		FirstName: firstName,
		Course:    courseTitle,
		Link:      certificateURL,
	})
}

// resendTransport, Resend API ile gönderir.
type resendTransport struct {
	client *resend.Client
}

// NewResendTransport, Resend API key ile transport oluşturur.
func NewResendTransport(apiKey string) Transport {
	return &resendTransport{client: resend.NewClient(apiKey)}
}

func (t *resendTransport) Send(ctx context.Context, msg Message) error {
	_, err := t.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    msg.From,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
	})
	if err != nil {
		return fmt.Errorf("failed to send %s email: %w", msg.Template, err)
	}
	return nil
}

// logTransport, email'i göndermeden loglar.
type logTransport struct{}

// NewLogTransport, development ortamı için transport.
func NewLogTransport() Transport {
	return logTransport{}
}

func (logTransport) Send(_ context.Context, msg Message) error {
	log.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Str("template", msg.Template).
		Msg("[email] RESEND_API_KEY not set, email logged instead of sent")
	return nil
}
