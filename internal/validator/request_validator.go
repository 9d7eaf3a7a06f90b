package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"pizzeria/internal/domain/model"

	playground "github.com/go-playground/validator/v10"
)

// RequestValidator plugs go-playground/validator into echo (e.Validator).
// Failures come back as *model.ValidationError naming the JSON field.
type RequestValidator struct {
	v *playground.Validate
}

func New() *RequestValidator {
	v := playground.New(playground.WithRequiredStructEnabled())

	// report json names, not Go field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	mustRegister(v, "pizzasize", func(fl playground.FieldLevel) bool {
		_, ok := model.ParsePizzaSize(fl.Field().String())
		return ok
	})
	mustRegister(v, "paymentmethod", func(fl playground.FieldLevel) bool {
		_, ok := model.ParsePaymentMethod(fl.Field().String())
		return ok
	})
	mustRegister(v, "orderstatus", func(fl playground.FieldLevel) bool {
		return model.OrderStatus(strings.ToUpper(fl.Field().String())).Valid()
	})
	mustRegister(v, "deliverystatus", func(fl playground.FieldLevel) bool {
		return model.DeliveryStatus(strings.ToUpper(fl.Field().String())).Valid()
	})

	return &RequestValidator{v: v}
}

func mustRegister(v *playground.Validate, tag string, fn playground.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

func (rv *RequestValidator) Validate(i any) error {
	err := rv.v.Struct(i)
	if err == nil {
		return nil
	}

	var verrs playground.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	return model.NewValidationError(fe.Field(), reason(fe))
}

func reason(fe playground.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "email":
		return "must be an email address"
	case "pizzasize":
		return fmt.Sprintf("unknown size %v", fe.Value())
	case "paymentmethod":
		return fmt.Sprintf("unknown method %v", fe.Value())
	case "orderstatus", "deliverystatus":
		return fmt.Sprintf("unknown status %v", fe.Value())
	case "dive":
		return "has an invalid entry"
	}
	return "failed on " + fe.Tag()
}
