package service

import (
	"strings"

	"karma-light/internal/domain"

	"github.com/go-playground/validator/v10"
)

// CheckoutForm is the customer-submitted checkout data. Warehouse is the
// required delivery-point token; it is validated as a separate gate rather
// than a field rule so its error is form-level and localized.
type CheckoutForm struct {
	FullName      string `json:"full_name" validate:"required"`
	Phone         string `json:"phone" validate:"required"`
	Email         string `json:"email" validate:"omitempty,email"`
	City          string `json:"city" validate:"required"`
	Warehouse     string `json:"warehouse"`
	Notes         string `json:"notes"`
	PaymentMethod string `json:"payment_method"`
}

// FieldError is a validation failure attached to a single field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult is the structured outcome of checkout validation:
// field-level errors plus form-level (localized) messages.
type ValidationResult struct {
	FieldErrors []FieldError `json:"field_errors,omitempty"`
	FormErrors  []string     `json:"form_errors,omitempty"`
}

// OK reports whether validation passed.
func (r ValidationResult) OK() bool {
	return len(r.FieldErrors) == 0 && len(r.FormErrors) == 0
}

// normalized returns a copy of the form with surrounding whitespace stripped
// from every field. Whitespace-only input must fail the required rules, not
// slip through and persist as empty strings.
func (f CheckoutForm) normalized() CheckoutForm {
	f.FullName = strings.TrimSpace(f.FullName)
	f.Phone = strings.TrimSpace(f.Phone)
	f.Email = strings.TrimSpace(f.Email)
	f.City = strings.TrimSpace(f.City)
	f.Warehouse = strings.TrimSpace(f.Warehouse)
	f.Notes = strings.TrimSpace(f.Notes)
	f.PaymentMethod = strings.TrimSpace(f.PaymentMethod)
	return f
}

var checkoutMessages = map[domain.Locale]map[string]string{
	domain.LocaleUK: {
		"empty_cart":        "Ваш кошик порожній.",
		"missing_warehouse": "Будь ласка, оберіть відділення Нової Пошти.",
	},
	domain.LocaleRU: {
		"empty_cart":        "Ваша корзина пуста.",
		"missing_warehouse": "Пожалуйста, выберите отделение Новой Почты.",
	},
}

var checkoutValidate = validator.New()

// ValidateCheckout runs the checkout gates in order: an empty cart refuses
// checkout before anything else, then generic field validation, and only
// when the fields pass, the delivery-point gate. The delivery-point failure
// is a form-level message in the shopper's locale.
func ValidateCheckout(form CheckoutForm, loc domain.Locale, cartIsEmpty bool) ValidationResult {
	var result ValidationResult
	msgs := checkoutMessages[loc]
	form = form.normalized()

	if cartIsEmpty {
		result.FormErrors = append(result.FormErrors, msgs["empty_cart"])
		return result
	}

	if err := checkoutValidate.Struct(form); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			for _, e := range validationErrors {
				result.FieldErrors = append(result.FieldErrors, FieldError{
					Field:   e.Field(),
					Message: fieldErrorMessage(e),
				})
			}
		} else {
			result.FormErrors = append(result.FormErrors, "invalid form")
		}
		return result
	}

	if form.Warehouse == "" {
		result.FormErrors = append(result.FormErrors, msgs["missing_warehouse"])
	}

	return result
}

func fieldErrorMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	default:
		return "Invalid value"
	}
}
