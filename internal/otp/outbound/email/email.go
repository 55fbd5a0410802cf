package email

import (
	"bytes"
	"context"
	"embed"
	htmltemplate "html/template"
	texttemplate "text/template"
	"time"

	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/mail"
	"github.com/shandysiswandi/otpgate/internal/pkg/otp"
	"go.opentelemetry.io/otel/codes"
)

//go:embed templates/*
var templates embed.FS

var (
	htmlTpl = htmltemplate.Must(htmltemplate.ParseFS(templates, "templates/login_code.html"))
	textTpl = texttemplate.Must(texttemplate.ParseFS(templates, "templates/login_code.txt"))
)

type loginCodeData struct {
	Code     string
	ValidFor string
}

type Mail struct {
	client   mail.Mail
	ins      instrument.Instrumentation
	validFor time.Duration
}

// New returns the dispatcher. validFor is only shown to the recipient.
func New(client mail.Mail, ins instrument.Instrumentation, validFor time.Duration) *Mail {
	return &Mail{client: client, ins: ins, validFor: validFor}
}

// SendOTP emails the "Login Code" message. It does not retry.
func (m *Mail) SendOTP(ctx context.Context, address string, code otp.Code) error {
	ctx, span := m.ins.Tracer("otp.outbound.email").Start(ctx, "SendOTP")
	defer span.End()

	data := loginCodeData{Code: code.String(), ValidFor: m.validFor.String()}

	var html, text bytes.Buffer
	if err := htmlTpl.Execute(&html, data); err != nil {
		span.RecordError(err)
		return err
	}
	if err := textTpl.Execute(&text, data); err != nil {
		span.RecordError(err)
		return err
	}

	if err := m.client.Send(ctx, mail.Message{
		To:       []string{address},
		Subject:  "Login Code: " + data.Code,
		TextBody: text.String(),
		HTMLBody: html.String(),
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
