package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"karma-light/internal/cart"
	"karma-light/internal/config"
	"karma-light/internal/domain"
	"karma-light/internal/mail"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// sendTimeout bounds each SMTP attempt so a stuck transport cannot hold the
// checkout response indefinitely.
const sendTimeout = 15 * time.Second

// SendOutcome records what happened to one email attempt.
type SendOutcome struct {
	Attempted bool
	Rendered  bool
	Sent      bool
	Err       error
}

// Outcome covers both notification attempts for one order.
type Outcome struct {
	Admin    SendOutcome
	Customer SendOutcome
}

// Dispatcher sends the post-checkout emails. Both sends are best-effort:
// the order is already committed, so no failure here propagates to the
// caller — everything is captured in the Outcome and logged.
type Dispatcher struct {
	renderer *Renderer
	mailer   mail.Mailer
	cfg      config.MailConfig
	logger   *zap.Logger
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(renderer *Renderer, mailer mail.Mailer, cfg config.MailConfig, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		renderer: renderer,
		mailer:   mailer,
		cfg:      cfg,
		logger:   logger,
	}
}

// Notify sends the operator copy (always, in the operator's working locale)
// and the customer copy (only when the customer left an email, always in
// Ukrainian). The two attempts are independent.
func (d *Dispatcher) Notify(ctx context.Context, order *domain.Order, lines []cart.Line, total decimal.Decimal) Outcome {
	var out Outcome

	adminSubject := fmt.Sprintf("Новый заказ #%d", order.ID)
	out.Admin = d.send(ctx, order, lines, total, domain.LocaleRU, "order_admin.html", adminSubject, d.cfg.AdminEmail)
	d.logAttempt("admin", order.ID, out.Admin)

	if order.Email == "" {
		return out
	}

	customerSubject := fmt.Sprintf("Karma Light | Ваше замовлення #%d", order.ID)
	out.Customer = d.send(ctx, order, lines, total, domain.LocaleUK, "order_customer.html", customerSubject, order.Email)
	d.logAttempt("customer", order.ID, out.Customer)

	return out
}

// send renders and delivers one message. An HTML render failure downgrades
// the message to the composed plain-text summary instead of aborting.
func (d *Dispatcher) send(ctx context.Context, order *domain.Order, lines []cart.Line, total decimal.Decimal, loc domain.Locale, templateName, subject, to string) SendOutcome {
	outcome := SendOutcome{Attempted: true}

	if to == "" {
		outcome.Err = fmt.Errorf("no recipient configured")
		return outcome
	}

	data := buildEmailData(order, lines, total, loc, d.cfg.SiteURL)
	text := composePlainText(data, loc)

	html, err := d.renderer.Render(templateName, loc, data)
	if err != nil {
		d.logger.Error("Failed to render order email",
			zap.Int64("order_id", order.ID),
			zap.String("template", templateName),
			zap.Error(err),
		)
		html = ""
	} else {
		outcome.Rendered = true
	}

	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	if err := d.mailer.Send(sendCtx, mail.Message{
		To:      []string{to},
		Subject: subject,
		Text:    text,
		HTML:    html,
	}); err != nil {
		outcome.Err = err
		return outcome
	}

	outcome.Sent = true
	return outcome
}

func (d *Dispatcher) logAttempt(recipient string, orderID int64, o SendOutcome) {
	if o.Sent {
		d.logger.Info("Order email sent",
			zap.String("recipient", recipient),
			zap.Int64("order_id", orderID),
			zap.Bool("html_rendered", o.Rendered),
		)
		return
	}
	d.logger.Error("Failed to send order email",
		zap.String("recipient", recipient),
		zap.Int64("order_id", orderID),
		zap.Bool("html_rendered", o.Rendered),
		zap.Error(o.Err),
	)
}

// buildEmailData localizes product names and pre-formats all money values.
func buildEmailData(order *domain.Order, lines []cart.Line, total decimal.Decimal, loc domain.Locale, siteURL string) EmailData {
	views := make([]LineView, 0, len(lines))
	for _, line := range lines {
		views = append(views, LineView{
			Name:     line.Product.Name(loc),
			Quantity: line.Quantity,
			Subtotal: line.Subtotal.StringFixed(2),
		})
	}

	return EmailData{
		OrderID:   order.ID,
		FullName:  order.FullName,
		Phone:     order.Phone,
		Email:     order.Email,
		City:      order.City,
		Warehouse: order.Warehouse,
		Notes:     order.Notes,
		Lines:     views,
		Total:     total.StringFixed(2),
		SiteURL:   siteURL,
	}
}

// composePlainText builds the line-by-line summary used as the text part of
// every message and as the whole body when HTML rendering fails.
func composePlainText(data EmailData, loc domain.Locale) string {
	l := labels[loc]

	var b strings.Builder
	fmt.Fprintf(&b, "%s #%d\n", l["order"], data.OrderID)
	fmt.Fprintf(&b, "%s: %s\n", l["customer"], data.FullName)
	fmt.Fprintf(&b, "%s: %s\n", l["phone"], data.Phone)
	if data.Email != "" {
		fmt.Fprintf(&b, "%s: %s\n", l["email"], data.Email)
	}
	fmt.Fprintf(&b, "%s: %s\n", l["city"], data.City)
	fmt.Fprintf(&b, "%s: %s\n", l["warehouse"], data.Warehouse)
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s:\n", l["items"])
	for _, line := range data.Lines {
		fmt.Fprintf(&b, "- %s x%d — %s\n", line.Name, line.Quantity, line.Subtotal)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s: %s\n", l["total"], data.Total)
	if data.Notes != "" {
		b.WriteString("\n")
		fmt.Fprintf(&b, "%s: %s\n", l["notes"], data.Notes)
	}

	return b.String()
}
