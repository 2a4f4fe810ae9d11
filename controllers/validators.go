package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"hotel-booking/models"
)

var registerOnce sync.Once

// enum tags and the values listed in their error message
var enumTags = map[string]struct {
	valid  func(string) bool
	values string
}{
	"room_category":  {func(s string) bool { return models.RoomCategory(s).Valid() }, "single, couple, family, presidential"},
	"room_status":    {func(s string) bool { return models.RoomStatus(s).Valid() }, "available, booked, unavailable"},
	"booking_status": {func(s string) bool { return models.BookingStatus(s).Valid() }, "pending, approved, cancelled, completed"},
	"payment_status": {func(s string) bool { return models.PaymentStatus(s).Valid() }, "pending_payment, paid, failed, refunded"},
	"payment_method": {func(s string) bool { return models.PaymentMethod(s).Valid() }, "pay_at_hotel, bank_transfer, credit_card"},
	"user_role":      {func(s string) bool { return models.UserRole(s).Valid() }, "user, admin"},
	"user_status":    {func(s string) bool { return models.UserStatus(s).Valid() }, "active, blocked, verified"},
	"inquiry_status": {func(s string) bool { return models.InquiryStatus(s).Valid() }, "open, answered, closed"},
}

// RegisterValidators installs the enum tags on gin's validator and makes
// error messages use the json/form field names. Safe to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(fieldName)
		for tag, enum := range enumTags {
			valid := enum.valid
			_ = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
				return valid(fl.Field().String())
			})
		}
	})
}

func fieldName(fld reflect.StructField) string {
	for _, key := range []string{"json", "form"} {
		name := strings.SplitN(fld.Tag.Get(key), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

// bindingMessages turns a binding error into client facing messages.
// The bool reports whether the request was well formed but invalid (422)
// rather than unreadable (400).
func bindingMessages(err error) ([]string, bool) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fieldMessage(fe))
		}
		return msgs, true
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return []string{fmt.Sprintf("%s must be a %s", typeErr.Field, typeErr.Type.Kind())}, true
	}
	if errors.Is(err, io.EOF) {
		return []string{"request body is required"}, false
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return []string{"request body is not valid JSON"}, false
	}
	return []string{err.Error()}, false
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	if enum, ok := enumTags[fe.Tag()]; ok {
		return fmt.Sprintf("%s must be one of %s", field, enum.values)
	}

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "numeric":
		return field + " must contain only digits"
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", field, fe.Param())
	case "min", "gte":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max", "lte":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	}
	return field + " is invalid"
}
