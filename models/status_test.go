package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusFromIntent(t *testing.T) {
	assert.Equal(t, StatusConcluded, StatusFromIntent("succeeded"))
	assert.Equal(t, StatusProcessing, StatusFromIntent("processing"))
	assert.Equal(t, StatusRequiresPayment, StatusFromIntent("requires_payment_method"))
	assert.Equal(t, StatusRequiresPayment, StatusFromIntent("requires_action"))
	assert.Equal(t, StatusRequiresPayment, StatusFromIntent("canceled"))
	assert.Equal(t, StatusRequiresPayment, StatusFromIntent(""))
}
