package order

import (
	"encoding/json"
	"testing"
	"time"

	"PaymentIntake/pkg/pointers"

	"github.com/stretchr/testify/assert"
)

func TestFragment_Keys(t *testing.T) {
	assert.Empty(t, Fragment{}.Keys())
	assert.Equal(t, []string{"cs_1"}, Fragment{SessionID: pointers.Ptr("cs_1")}.Keys())
	assert.Equal(t, []string{"cs_1", "pi_1"}, Fragment{
		SessionID:       pointers.Ptr("cs_1"),
		PaymentIntentID: pointers.Ptr("pi_1"),
	}.Keys())
}

func TestOrder_Merge(t *testing.T) {
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	updated := created.Add(time.Hour)

	o := Order{
		ID:                "order-1",
		SessionID:         pointers.Ptr("cs_1"),
		UserID:            pointers.Ptr("user-1"),
		ClientReferenceID: pointers.Ptr("ref-1"),
		Amount:            500,
		Currency:          "usd",
		Status:            "paid",
		Raw:               json.RawMessage(`{"id":"cs_1"}`),
		CreatedAt:         created,
		UpdatedAt:         created,
	}

	merged := o.Merge(Fragment{
		PaymentIntentID: pointers.Ptr("pi_1"),
		Amount:          500,
		Currency:        "usd",
		Status:          "succeeded",
		Raw:             json.RawMessage(`{"id":"pi_1"}`),
		UpdatedAt:       updated,
	})

	assert.Equal(t, "order-1", merged.ID)
	assert.Equal(t, pointers.Ptr("cs_1"), merged.SessionID)
	assert.Equal(t, pointers.Ptr("pi_1"), merged.PaymentIntentID)
	assert.Equal(t, pointers.Ptr("user-1"), merged.UserID)
	assert.Equal(t, pointers.Ptr("ref-1"), merged.ClientReferenceID)
	assert.Equal(t, "succeeded", merged.Status)
	assert.Equal(t, created, merged.CreatedAt)
	assert.Equal(t, updated, merged.UpdatedAt)
	assert.JSONEq(t, `{"id":"pi_1"}`, string(merged.Raw))
}

func TestOrder_Absorb(t *testing.T) {
	older := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := older.Add(time.Minute)

	primary := Order{ID: "a", SessionID: pointers.Ptr("cs_1"), Status: "unpaid", CreatedAt: newer, UpdatedAt: older}
	dup := Order{ID: "b", PaymentIntentID: pointers.Ptr("pi_1"), Status: "succeeded", Amount: 700, CreatedAt: older, UpdatedAt: newer}

	res := primary.Absorb(dup)

	assert.Equal(t, "a", res.ID)
	assert.Equal(t, pointers.Ptr("cs_1"), res.SessionID)
	assert.Equal(t, pointers.Ptr("pi_1"), res.PaymentIntentID)
	assert.Equal(t, "succeeded", res.Status)
	assert.Equal(t, int64(700), res.Amount)
	assert.Equal(t, older, res.CreatedAt)
	assert.Equal(t, newer, res.UpdatedAt)
}

func TestFragmentOf(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	_, ok := FragmentOf(Ignored{EventMeta{ID: "evt", Type: "invoice.paid"}}, now)
	assert.False(t, ok)

	f, ok := FragmentOf(SessionCompleted{SessionID: "cs_1", PaymentStatus: "paid"}, now)
	assert.True(t, ok)
	assert.Equal(t, pointers.Ptr("cs_1"), f.SessionID)
	assert.Nil(t, f.PaymentIntentID)
	assert.Equal(t, now, f.UpdatedAt)

	f, ok = FragmentOf(PaymentIntentChanged{PaymentIntentID: "pi_1", Status: "canceled"}, now)
	assert.True(t, ok)
	assert.Nil(t, f.SessionID)
	assert.Equal(t, pointers.Ptr("pi_1"), f.PaymentIntentID)
	assert.Equal(t, "canceled", f.Status)
}

func TestIsPaymentIntentType(t *testing.T) {
	for _, typ := range []string{
		TypePaymentIntentSucceeded,
		TypePaymentIntentPaymentFailed,
		TypePaymentIntentProcessing,
		TypePaymentIntentCanceled,
	} {
		assert.True(t, IsPaymentIntentType(typ), typ)
	}
	assert.False(t, IsPaymentIntentType(TypeCheckoutSessionCompleted))
	assert.False(t, IsPaymentIntentType("payment_intent.created"))
}
