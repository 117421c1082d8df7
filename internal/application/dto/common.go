package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/warehouse-inventory/internal/domain"
)

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

// ErrorResponse cuerpo de error HTTP. Category distingue validación, integridad y notificación.
type ErrorResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category,omitempty"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Reportar los campos con su nombre JSON.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate revisa las etiquetas `validate` de in y devuelve un error envuelto en ErrInvalidInput.
func Validate(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if fe.Param() != "" {
			return fmt.Errorf("%w: %s no cumple %s=%s", domain.ErrInvalidInput, fe.Field(), fe.Tag(), fe.Param())
		}
		return fmt.Errorf("%w: %s no cumple %s", domain.ErrInvalidInput, fe.Field(), fe.Tag())
	}
	return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
}
