package controllers

import (
	"encoding/json"
	"io"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"

	"hotel-booking/services"
)

func TestBindingMessages(t *testing.T) {
	RegisterValidators()

	in := services.CreateBookingInput{StartDate: "2026-03-01", EndDate: "2026-03-02", PaymentMethod: "bitcoin"}
	err := binding.Validator.ValidateStruct(&in)
	msgs, invalid := bindingMessages(err)
	assert.True(t, invalid)
	assert.ElementsMatch(t, []string{
		"room_id is required",
		"payment_method must be one of pay_at_hotel, bank_transfer, credit_card",
	}, msgs)

	msgs, invalid = bindingMessages(io.EOF)
	assert.False(t, invalid)
	assert.Equal(t, []string{"request body is required"}, msgs)

	var target map[string]any
	syntaxErr := json.Unmarshal([]byte("{nope"), &target)
	msgs, invalid = bindingMessages(syntaxErr)
	assert.False(t, invalid)
	assert.Equal(t, []string{"request body is not valid JSON"}, msgs)
}
