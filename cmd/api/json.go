package main

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strings"

	"storefront/internal/locale"

	"github.com/go-playground/validator/v10"
)

var Validate *validator.Validate

// phoneRE accepts digits with spaces, dashes and parentheses and an optional leading +.
var phoneRE = regexp.MustCompile(`^\+?[0-9()][0-9() -]*[0-9]$`)

func init() {
	Validate = validator.New(validator.WithRequiredStructEnabled())

	Validate.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return validPhone(fl.Field().String())
	})
}

// validPhone checks the shape only; the digit count follows E.164 (7 to 15).
func validPhone(s string) bool {
	s = strings.TrimSpace(s)
	if !phoneRE.MatchString(s) {
		return false
	}
	digits := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits >= 7 && digits <= 15
}

func writeJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

const maxJSONBytes = 1 << 20

// readJSON decodes a single JSON object; unknown fields are rejected.
func readJSON(w http.ResponseWriter, r *http.Request, data any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(data)
}

// errorEnvelope is the body of every non-2xx JSON response. Prompt is only
// set on 409 confirmation responses.
type errorEnvelope struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Status  int            `json:"status"`
	Prompt  *locale.Prompt `json:"prompt,omitempty"`
}

func writeJSONError(w http.ResponseWriter, status int, message string) error {
	return writeJSON(w, status, &errorEnvelope{Message: message, Status: status})
}

func (app *application) jsonResponse(w http.ResponseWriter, status int, data any) error {
	type envelope struct {
		Data any `json:"data"`
	}
	return writeJSON(w, status, &envelope{Data: data})
}
