package notifier

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"text/template"

	"api/internal/models"

	gomail "github.com/wneessen/go-mail"
)

// templates are the security-event mail bodies. Data is a map of
// template-specific fields.
var templates = map[string]string{
	"mfa_enabled": "Two-factor authentication was enabled on your account.\n" +
		"If this wasn't you, reset your password immediately: {{.WebURL}}\n",
	"mfa_disabled": "Two-factor authentication was disabled on your account.\n" +
		"If this wasn't you, reset your password immediately: {{.WebURL}}\n",
	"mfa_backup_codes_regenerated": "Your two-factor backup codes were regenerated.\n" +
		"All previously issued codes are no longer valid.\n",
	"mfa_backup_codes_low": "You have {{.Remaining}} two-factor backup codes left.\n" +
		"Generate a new set from your security settings: {{.WebURL}}\n",
	"account_registered": "Welcome to dealdesk! Your account is ready: {{.WebURL}}\n",
	"password_changed": "Your account password was changed.\n" +
		"If this wasn't you, contact your administrator.\n",
}

type SMTPNotifier struct {
	config models.MailerConfiguration
}

func NewSMTPNotifier(config models.MailerConfiguration) *SMTPNotifier {
	return &SMTPNotifier{config: config}
}

func (s *SMTPNotifier) NotifyFromTemplate(
	to string,
	subject string,
	templateName string,
	data any,
) error {
	body, ok := templates[templateName]
	if !ok {
		return fmt.Errorf("unknown notification template %q", templateName)
	}

	tmpl, err := template.New(templateName).Parse(body)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	var rendered bytes.Buffer
	if err = tmpl.Execute(&rendered, data); err != nil {
		return fmt.Errorf("failed to render template: %w", err)
	}

	message := gomail.NewMsg()
	if err = message.From(s.config.Sender); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err = message.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	message.Subject(subject)
	message.SetBodyString(gomail.TypeTextPlain, rendered.String())

	options := []gomail.Option{
		gomail.WithPort(s.config.Port),
	}
	if s.config.Username != "" {
		options = append(options,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(s.config.Username),
			gomail.WithPassword(s.config.Password),
		)
	}
	if s.config.EnableTLS {
		options = append(options, gomail.WithTLSPortPolicy(gomail.TLSMandatory))
		if s.config.SkipVerifyTLS {
			options = append(options, gomail.WithTLSConfig(&tls.Config{InsecureSkipVerify: true})) //nolint:gosec // operator opt-in
		}
	} else {
		options = append(options, gomail.WithTLSPortPolicy(gomail.NoTLS))
	}

	client, err := gomail.NewClient(s.config.Host, options...)
	if err != nil {
		return fmt.Errorf("failed to create mail client: %w", err)
	}

	return client.DialAndSend(message)
}
