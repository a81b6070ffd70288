package services

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"travellink/internal/domain"
	"travellink/internal/domain/models"
	"travellink/internal/utils"

	"github.com/go-playground/validator/v10"
)

var (
	expiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/[0-9]{2}$`)
	validate      = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("mmyy", func(fl validator.FieldLevel) bool {
		return expiryPattern.MatchString(fl.Field().String())
	})
	return v
}

// ValidateStruct runs the struct's validate tags and reports the first failing
// field (in declaration order) as a domain.ValidationError.
func ValidateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return domain.ValidationError{Msg: "invalid payload", Err: err}
	}
	fe := fieldErrs[0]
	return domain.ValidationError{Field: fe.Field(), Msg: fieldMessage(fe), Err: err}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return "must be at least " + fe.Param() + " characters"
		}
		return "must be at least " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "lte", "max":
		return "must be at most " + fe.Param()
	case "len":
		return "must be exactly " + fe.Param() + " characters"
	case "mmyy":
		return "must be formatted MM/YY"
	default:
		return "is invalid"
	}
}

// Card holds card fields after normalization. It is what the gateway sees.
type Card struct {
	Name   string `json:"name" validate:"required"`
	Number string `json:"number" validate:"min=16"`
	Expiry string `json:"expiry" validate:"len=5,mmyy"`
	CVV    string `json:"cvv" validate:"min=3"`
}

// Last4 is the only part of the number that may be logged or stored.
func (c Card) Last4() string {
	return utils.LastN(c.Number, 4)
}

// NormalizeCard strips formatting the way the payment form does while typing:
// number and cvv keep digits only, expiry keeps its first four digits as MM/YY.
func NormalizeCard(in models.CardDetails) Card {
	return Card{
		Name:   utils.NormalizeSpace(in.Name),
		Number: utils.DigitsOnly(in.Number),
		Expiry: normalizeExpiry(in.Expiry),
		CVV:    utils.DigitsOnly(in.CVV),
	}
}

// normalizeExpiry inserts the slash after the month and drops digits past the
// year, so "12/2029" reads as "12/20".
func normalizeExpiry(s string) string {
	d := utils.DigitsOnly(s)
	if len(d) < 2 {
		return d
	}
	return d[:2] + "/" + d[2:min(4, len(d))]
}

// ValidateCard normalizes in and checks name, number, expiry and cvv in that order.
func ValidateCard(in models.CardDetails) (Card, error) {
	card := NormalizeCard(in)
	if err := ValidateStruct(card); err != nil {
		return Card{}, err
	}
	return card, nil
}
