package middleware

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Request shape mirroring the storefront's cart/checkout payloads
type testContactRequest struct {
	FullName string `json:"full_name" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
	Email    string `json:"email" validate:"omitempty,email"`
	Qty      int    `json:"qty" validate:"required,gte=1,lte=99"`
}

func TestProperty_RequiredFieldValidationWorks(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("missing required fields are rejected", prop.ForAll(
		func(includeName bool, includePhone bool, includeQty bool) bool {
			reqMap := make(map[string]interface{})

			if includeName {
				reqMap["full_name"] = "Олена Коваленко"
			}
			if includePhone {
				reqMap["phone"] = "+380501234567"
			}
			if includeQty {
				reqMap["qty"] = 2
			}

			allFieldsPresent := includeName && includePhone && includeQty

			reqBody, _ := json.Marshal(reqMap)
			req := httptest.NewRequest("POST", "/cart/add", bytes.NewReader(reqBody))
			req.Header.Set("Content-Type", "application/json")

			var contact testContactRequest
			err := DecodeAndValidate(req, &contact)

			if allFieldsPresent {
				return err == nil
			}
			return err != nil
		},
		gen.Bool(),
		gen.Bool(),
		gen.Bool(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Test that validation errors are properly formatted
func TestProperty_ValidationErrorsAreFormatted(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("validation errors include field information", prop.ForAll(
		func() bool {
			reqMap := map[string]interface{}{
				"full_name": "Олена Коваленко",
				"phone":     "+380501234567",
				"email":     "not-an-email",
				"qty":       2,
			}

			reqBody, _ := json.Marshal(reqMap)
			req := httptest.NewRequest("POST", "/cart/add", bytes.NewReader(reqBody))
			req.Header.Set("Content-Type", "application/json")

			var contact testContactRequest
			err := DecodeAndValidate(req, &contact)

			if err == nil {
				return false
			}

			validationErrors := FormatValidationErrors(err)

			if len(validationErrors) == 0 {
				return false
			}

			for _, ve := range validationErrors {
				if ve.Field == "" || ve.Message == "" {
					return false
				}
			}

			return true
		},
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Test that valid requests pass validation, email being optional
func TestProperty_ValidRequestsPassValidation(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("valid requests pass validation", prop.ForAll(
		func(seed int, includeEmail bool) bool {
			names := []string{"Олена Коваленко", "Ірина Шевченко", "Андрій Бондаренко", "Марія Ткаченко"}
			quantities := []int{1, 2, 3, 5, 10, 99}

			if seed < 0 {
				seed = -seed
			}

			reqMap := map[string]interface{}{
				"full_name": names[seed%len(names)],
				"phone":     "+380671112233",
				"qty":       quantities[seed%len(quantities)],
			}
			if includeEmail {
				reqMap["email"] = "customer@example.com"
			}

			reqBody, _ := json.Marshal(reqMap)
			req := httptest.NewRequest("POST", "/cart/add", bytes.NewReader(reqBody))
			req.Header.Set("Content-Type", "application/json")

			var contact testContactRequest
			err := DecodeAndValidate(req, &contact)

			return err == nil
		},
		gen.Int(),
		gen.Bool(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Test quantity range validation
func TestProperty_QuantityRangeValidation(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("quantity outside valid range is rejected", prop.ForAll(
		func(qty int) bool {
			reqMap := map[string]interface{}{
				"full_name": "Олена Коваленко",
				"phone":     "+380501234567",
				"qty":       qty,
			}

			reqBody, _ := json.Marshal(reqMap)
			req := httptest.NewRequest("POST", "/cart/add", bytes.NewReader(reqBody))
			req.Header.Set("Content-Type", "application/json")

			var contact testContactRequest
			err := DecodeAndValidate(req, &contact)

			if qty >= 1 && qty <= 99 {
				return err == nil
			}
			return err != nil
		},
		gen.IntRange(-10, 150),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
