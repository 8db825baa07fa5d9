package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaymentStatusIsValid(t *testing.T) {
	for _, status := range validPaymentStatuses {
		assert.True(t, status.IsValid(), "status %s", status)
	}
	assert.False(t, PaymentStatus("refunded").IsValid())
	assert.False(t, PaymentStatus("").IsValid())
}

func TestPaymentStatusString(t *testing.T) {
	assert.Equal(t, "initiated", PaymentStatusInitiated.String())
}
