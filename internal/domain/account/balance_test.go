package account_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/account"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/entity"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestApplyCharge(t *testing.T) {
	c := &entity.Customer{CreditLimit: d("1000"), Balance: d("700")}

	got, err := account.ApplyCharge(c, d("300"))
	require.NoError(t, err)
	assert.True(t, d("1000").Equal(got))

	_, err = account.ApplyCharge(c, d("300.01"))
	assert.ErrorIs(t, err, domain.ErrCreditLimitExceeded)

	_, err = account.ApplyCharge(c, d("0"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestApplyPayment_NuncaNegativo(t *testing.T) {
	c := &entity.Customer{CreditLimit: d("1000"), Balance: d("250")}

	got, err := account.ApplyPayment(c, d("250"))
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	got, err = account.ApplyPayment(c, d("100"))
	require.NoError(t, err)
	assert.True(t, d("150").Equal(got))

	_, err = account.ApplyPayment(c, d("250.50"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = account.ApplyPayment(c, d("-5"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReverse(t *testing.T) {
	c := &entity.Customer{Balance: d("50")}
	assert.True(t, account.Reverse(c, d("80")).IsZero())
	assert.True(t, d("20").Equal(account.Reverse(c, d("30"))))
}
