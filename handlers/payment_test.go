package handlers

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/roshan-ds-tech/shreshta-backend-final/database"
	"github.com/roshan-ds-tech/shreshta-backend-final/shiprocket"
)

func paymentSignature(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// A provider slow enough to outlive any 10s deadline captured before the
// booking pipeline started must not expire the persistence of a verified
// payment: the order is saved with empty shipping fields.
func TestVerifyPaymentAndSaveOrderPersistsWhenBookingStalls(t *testing.T) {
	if testing.Short() {
		t.Skip("simulates an 11s provider stall")
	}

	t.Setenv("RAZORPAY_KEY_SECRET", "secret")

	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(11 * time.Second)
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]string{"message": "Forbidden"})
	}))
	defer slow.Close()
	Shiprocket = shiprocket.NewClient(slow.URL, "api@example.com", "password", "Primary", 18928400)

	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	mt.Run("order saved after slow booking", func(mt *mtest.T) {
		database.DB = mt.DB

		userID := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "shreshta.users", mtest.FirstBatch, bson.D{
				{Key: "_id", Value: userID},
				{Key: "username", Value: "asha"},
				{Key: "email", Value: "asha@example.com"},
			}),
			mtest.CreateSuccessResponse(),
		)

		body := map[string]any{
			"razorpay_order_id":   "order_abc",
			"razorpay_payment_id": "pay_xyz",
			"razorpay_signature":  paymentSignature("order_abc", "pay_xyz", "secret"),
			"username":            "asha",
			"order_details": map[string]any{
				"subtotal":        500.0,
				"shipping_charge": 60.0,
				"discount":        0.0,
				"total":           560.0,
			},
		}
		payload, err := json.Marshal(body)
		require.NoError(mt, err)

		e := echo.New()
		req := httptest.NewRequest(http.MethodPost, "/verify-payment-save-order", bytes.NewReader(payload))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()

		require.NoError(mt, VerifyPaymentAndSaveOrder(e.NewContext(req, rec)))
		assert.Equal(mt, http.StatusCreated, rec.Code)

		var resp map[string]any
		require.NoError(mt, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(mt, true, resp["success"])
		assert.NotEmpty(mt, resp["order_number"])
		assert.Empty(mt, resp["awb_code"])
	})
}

func TestVerifyPaymentAndSaveOrderRejectsBadSignature(t *testing.T) {
	t.Setenv("RAZORPAY_KEY_SECRET", "secret")

	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	mt.Run("bad signature aborts before persistence", func(mt *mtest.T) {
		database.DB = mt.DB
		mt.AddMockResponses(
			mtest.CreateCursorResponse(1, "shreshta.users", mtest.FirstBatch, bson.D{
				{Key: "_id", Value: primitive.NewObjectID()},
				{Key: "username", Value: "asha"},
			}),
		)

		body := map[string]any{
			"razorpay_order_id":   "order_abc",
			"razorpay_payment_id": "pay_xyz",
			"razorpay_signature":  "forged",
			"username":            "asha",
		}
		payload, err := json.Marshal(body)
		require.NoError(mt, err)

		e := echo.New()
		req := httptest.NewRequest(http.MethodPost, "/verify-payment-save-order", bytes.NewReader(payload))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()

		require.NoError(mt, VerifyPaymentAndSaveOrder(e.NewContext(req, rec)))
		assert.Equal(mt, http.StatusBadRequest, rec.Code)
	})
}

func TestTotalsConsistent(t *testing.T) {
	assert.True(t, totalsConsistent(500, 60, 0, 560))
	assert.True(t, totalsConsistent(500, 60, 10, 550))
	assert.True(t, totalsConsistent(99.99, 0.01, 0, 100.004))

	assert.False(t, totalsConsistent(500, 60, 0, 500))
	assert.False(t, totalsConsistent(500, 60, 100, 560))
}
