package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fleetrental-backend/internal/domain"
)

func TestPaymentType_IsIncome(t *testing.T) {
	assert.True(t, domain.PaymentTypePayment.IsIncome())
	assert.True(t, domain.PaymentTypeDailyRent.IsIncome())
	assert.True(t, domain.PaymentTypeFine.IsIncome())

	assert.False(t, domain.PaymentTypeBonus.IsIncome())
	assert.False(t, domain.PaymentTypeDeposit.IsIncome())
	assert.False(t, domain.PaymentTypeRefund.IsIncome())
}
