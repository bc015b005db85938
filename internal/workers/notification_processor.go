// internal/workers/notification_processor.go
package workers

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/hibiken/asynq"

	"github.com/vendly/vendpos-be/internal/adapters/db"
	"github.com/vendly/vendpos-be/internal/pkg/config"
)

// NotificationProcessor sends low-stock alert emails
type NotificationProcessor struct {
	db     *db.Database
	config *config.Config
	logger *slog.Logger
}

// NewNotificationProcessor creates a new notification processor
func NewNotificationProcessor(database *db.Database, cfg *config.Config, logger *slog.Logger) *NotificationProcessor {
	return &NotificationProcessor{
		db:     database,
		config: cfg,
		logger: logger.With(slog.String("processor", "notification")),
	}
}

// LowStockScan checks stock levels and emails an alert when items run low
func (p *NotificationProcessor) LowStockScan(ctx context.Context, t *asynq.Task) error {
	if !p.config.Alerts.Enabled {
		p.logger.DebugContext(ctx, "alerts disabled, skipping low stock scan")
		return nil
	}

	threshold := p.config.Alerts.LowStockThreshold

	rows, err := p.db.Query(ctx,
		`SELECT name, stock FROM items WHERE stock <= $1 ORDER BY stock ASC, name ASC`,
		threshold)
	if err != nil {
		return fmt.Errorf("failed to query low stock items: %w", err)
	}
	defer rows.Close()

	var lines []string
	for rows.Next() {
		var name string
		var stock int
		if err := rows.Scan(&name, &stock); err != nil {
			return fmt.Errorf("failed to scan low stock row: %w", err)
		}
		lines = append(lines, fmt.Sprintf("%s: %d left", name, stock))
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read low stock rows: %w", err)
	}

	if len(lines) == 0 {
		p.logger.InfoContext(ctx, "low stock scan found nothing",
			slog.Int("threshold", threshold))
		return nil
	}

	subject := fmt.Sprintf("Low stock alert: %d items at or below %d units", len(lines), threshold)
	body := strings.Join(lines, "\n")

	if err := p.sendEmail(ctx, subject, body); err != nil {
		return err
	}

	p.logger.InfoContext(ctx, "low stock alert sent",
		slog.Int("items", len(lines)),
		slog.String("recipient", p.config.Alerts.Recipient))

	return nil
}

func (p *NotificationProcessor) sendEmail(ctx context.Context, subject, body string) error {
	alerts := p.config.Alerts

	// In development, just log the email
	if p.config.IsDevelopment() || alerts.SMTPHost == "" {
		p.logger.InfoContext(ctx, "email would be sent",
			slog.String("to", alerts.Recipient),
			slog.String("subject", subject),
			slog.String("body", body))
		return nil
	}

	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		alerts.FromAddress, alerts.Recipient, subject, body,
	))

	addr := fmt.Sprintf("%s:%s", alerts.SMTPHost, alerts.SMTPPort)
	var auth smtp.Auth
	if alerts.SMTPUser != "" {
		auth = smtp.PlainAuth("", alerts.SMTPUser, alerts.SMTPPassword, alerts.SMTPHost)
	}

	if err := smtp.SendMail(addr, auth, alerts.FromAddress, []string{alerts.Recipient}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
