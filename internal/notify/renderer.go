package notify

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"karma-light/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// LineView is one order line prepared for rendering: the product name in the
// message locale and pre-formatted decimal strings.
type LineView struct {
	Name     string
	Quantity int
	Subtotal string
}

// EmailData is the context an email template is rendered against.
type EmailData struct {
	OrderID   int64
	FullName  string
	Phone     string
	Email     string
	City      string
	Warehouse string
	Notes     string
	Lines     []LineView
	Total     string
	SiteURL   string
	L         map[string]string
}

var labels = map[domain.Locale]map[string]string{
	domain.LocaleUK: {
		"order":     "Замовлення",
		"customer":  "Клієнт",
		"phone":     "Телефон",
		"email":     "Email",
		"city":      "Місто",
		"warehouse": "Відділення",
		"items":     "Товари",
		"total":     "Разом",
		"notes":     "Примітки",
		"thanks":    "Дякуємо за ваше замовлення!",
	},
	domain.LocaleRU: {
		"order":     "Заказ",
		"customer":  "Клиент",
		"phone":     "Телефон",
		"email":     "Email",
		"city":      "Город",
		"warehouse": "Отделение",
		"items":     "Товары",
		"total":     "Итого",
		"notes":     "Примечания",
		"thanks":    "Спасибо за ваш заказ!",
	},
}

// Renderer renders named email templates. The locale is an explicit
// parameter selecting the label set; template names carry no locale.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded email templates.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render executes the named template with labels for the given locale.
func (r *Renderer) Render(name string, loc domain.Locale, data EmailData) (string, error) {
	data.L = labels[loc]

	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render template %s: %w", name, err)
	}

	return buf.String(), nil
}
