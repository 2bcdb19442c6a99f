package checkout

import (
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/matthieukhl/storefront/internal/models"
)

const titleMissingInformation = "Missing Information"

var expiryPattern = regexp.MustCompile(`^\d{2}/\d{2}$`)

// ValidationError describes the first form field that blocks a transition
type ValidationError struct {
	Section string
	Field   string
	Title   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report fields by their form names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	if err := v.RegisterValidation("expiry", func(fl validator.FieldLevel) bool {
		return expiryPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// validateAddress checks required address fields in form order. section is
// "shipping" or "billing"; billing messages name the section.
func validateAddress(addr models.Address, section string) *ValidationError {
	fe := firstFieldError(validate.Struct(addr))
	if fe == nil {
		return nil
	}

	label := humanize(fe.Field())
	if section == sectionBilling {
		label = "billing " + label
	}
	return &ValidationError{
		Section: section,
		Field:   fe.Field(),
		Title:   titleMissingInformation,
		Message: "Please fill in your " + label,
	}
}

func validateCard(card models.CardDetails) *ValidationError {
	fe := firstFieldError(validate.Struct(card))
	if fe == nil {
		return nil
	}

	ve := &ValidationError{Section: sectionPayment, Field: fe.Field()}
	switch fe.Field() {
	case "cardNumber":
		ve.Title, ve.Message = "Invalid Card", "Please enter a valid card number"
	case "cardName":
		ve.Title, ve.Message = titleMissingInformation, "Please enter the name on your card"
	case "expiry":
		ve.Title, ve.Message = "Invalid Expiry Date", "Please enter expiry date in MM/YY format"
	default:
		ve.Title, ve.Message = "Invalid CVC", "Please enter a valid security code"
	}
	return ve
}

// firstFieldError returns the first failing field. validator reports fields
// in declaration order.
func firstFieldError(err error) validator.FieldError {
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return nil
	}
	return errs[0]
}

// humanize turns a camelCase field name into lower-case words
func humanize(field string) string {
	var b strings.Builder
	for i, r := range field {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte(' ')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
