package email

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureTransport struct {
	sent []Message
}

func (c *captureTransport) Send(_ context.Context, msg Message) error {
	c.sent = append(c.sent, msg)
	return nil
}

func newTestMailer() (Mailer, *captureTransport) {
	tr := &captureTransport{}
	return NewMailer(tr, Config{FromName: "Fireshield", FromEmail: "no-reply@fireshield.test", FrontendURL: "https://app.test/"}), tr
}

func TestMailer_Welcome(t *testing.T) {
	m, tr := newTestMailer()
	require.NoError(t, m.SendWelcome(context.Background(), "jane@example.com", "Jane"))

	require.Len(t, tr.sent, 1)
	msg := tr.sent[0]
	assert.Equal(t, "Welcome to our platform!", msg.Subject)
	assert.Equal(t, "Fireshield <no-reply@fireshield.test>", msg.From)
	assert.Equal(t, "jane@example.com", msg.To)
	assert.Equal(t, "welcome", msg.Template)
	assert.Contains(t, msg.HTML, "Hi Jane,")
	assert.Contains(t, msg.HTML, "https://app.test/courses")
}

func TestMailer_PasswordResetIncludesCode(t *testing.T) {
	m, tr := newTestMailer()
	require.NoError(t, m.SendPasswordReset(context.Background(), "jane@example.com", "Jane", 123456))

	require.Len(t, tr.sent, 1)
	assert.Equal(t, "Password Reset Request", tr.sent[0].Subject)
	assert.Contains(t, tr.sent[0].HTML, "123456")
}

func TestMailer_EnrollmentAndCertificateSubjects(t *testing.T) {
	m, tr := newTestMailer()
	ctx := context.Background()

	require.NoError(t, m.SendEnrollmentConfirmation(ctx, "a@b.co", "Ann", EnrollmentDetails{
		CourseTitle: "Go Basics",
		StartDate:   time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC),
		Location:    "Online - Zoom",
	}))
	require.NoError(t, m.SendCertificate(ctx, "a@b.co", "Ann", "Go Basics", "https://app.test/certificates/4"))

	require.Len(t, tr.sent, 2)
	assert.Equal(t, "Enrollment Confirmed: Go Basics", tr.sent[0].Subject)
	assert.Contains(t, tr.sent[0].HTML, "February 1, 2024")
	assert.Contains(t, tr.sent[0].HTML, "Online - Zoom")
	assert.Equal(t, "Congratulations! Your Go Basics Certificate", tr.sent[1].Subject)
	assert.Contains(t, tr.sent[1].HTML, "https://app.test/certificates/4")
}

func TestMailer_EscapesUserInput(t *testing.T) {
	m, tr := newTestMailer()
	require.NoError(t, m.SendWelcome(context.Background(), "x@y.z", "<script>alert(1)</script>"))
	assert.NotContains(t, tr.sent[0].HTML, "<script>")
}

func TestLogTransport(t *testing.T) {
	assert.NoError(t, NewLogTransport().Send(context.Background(), Message{To: "a@b.co", Subject: "s"}))
}
