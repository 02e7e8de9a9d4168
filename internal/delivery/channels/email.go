// Package channels gửi thông báo ra ngoài ứng dụng (hiện tại chỉ có email).
package channels

import (
	"context"
	"fmt"
	"html"
	"strings"

	"sales_crm/config"
	"sales_crm/internal/logger"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// EmailMessage nội dung một email đã render
type EmailMessage struct {
	To      string
	Subject string
	Title   string
	Body    string
	Link    string
}

// Mailer gửi một email
type Mailer interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// NoopMailer bỏ qua mọi email (SMTP chưa cấu hình)
type NoopMailer struct{}

// Send không làm gì
func (NoopMailer) Send(context.Context, EmailMessage) error { return nil }

// dialer tách riêng để test thay được
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer gửi email qua SMTP bằng gomail
type SMTPMailer struct {
	from   string
	dialer dialer
}

// NewMailer trả NoopMailer khi SMTP_HOST trống
func NewMailer(cfg *config.Configuration) Mailer {
	if cfg == nil || strings.TrimSpace(cfg.SMTPHost) == "" {
		logger.GetAppLogger().Info("📧 [EMAIL] SMTP_HOST trống, tắt gửi email")
		return NoopMailer{}
	}
	fromEmail := cfg.SMTPFromEmail
	if fromEmail == "" {
		fromEmail = cfg.SMTPUsername
	}
	return &SMTPMailer{
		from:   fmt.Sprintf("%s <%s>", cfg.SMTPFromName, fromEmail),
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
	}
}

// RenderHTML dựng body HTML, escape toàn bộ nội dung động
func RenderHTML(msg EmailMessage) string {
	var b strings.Builder
	b.WriteString("<div style='font-family:sans-serif'>")
	if msg.Title != "" {
		fmt.Fprintf(&b, "<h3>%s</h3>", html.EscapeString(msg.Title))
	}
	fmt.Fprintf(&b, "<p>%s</p>", html.EscapeString(msg.Body))
	if msg.Link != "" {
		fmt.Fprintf(&b, `<a href="%s" style="display:inline-block;padding:10px 20px;text-decoration:none;border-radius:5px;background-color:#007bff;color:#fff;">Mở ứng dụng</a>`,
			html.EscapeString(msg.Link))
	}
	b.WriteString("</div>")
	return b.String()
}

// Send gửi email. Không có người nhận thì bỏ qua.
func (m *SMTPMailer) Send(ctx context.Context, msg EmailMessage) error {
	if strings.TrimSpace(msg.To) == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/plain", msg.Body)
	gm.AddAlternative("text/html", RenderHTML(msg))

	if err := m.dialer.DialAndSend(gm); err != nil {
		logger.WithContext(ctx).WithFields(logrus.Fields{
			"to":      msg.To,
			"subject": msg.Subject,
			"error":   err.Error(),
		}).Error("📧 [EMAIL] Gửi email thất bại")
		return fmt.Errorf("send email to %s: %w", msg.To, err)
	}
	logger.WithContext(ctx).WithField("to", msg.To).Debug("📧 [EMAIL] Đã gửi email")
	return nil
}
