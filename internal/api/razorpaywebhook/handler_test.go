package razorpaywebhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"batch-bot/internal/domain/correlation"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "whsec_test"

type mockDeliverer struct {
	invited    []int64
	unresolved []string
	inviteErr  error
}

func (m *mockDeliverer) DeliverInvite(telegramID int64) error {
	m.invited = append(m.invited, telegramID)
	return m.inviteErr
}

func (m *mockDeliverer) NotifyUnresolved(details string) error {
	m.unresolved = append(m.unresolved, details)
	return nil
}

func newTestStore(t *testing.T) *correlation.Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&correlation.Record{}, &correlation.ProcessedEvent{}))
	return correlation.NewStore(db)
}

func newTestRouter(store *correlation.Store, d Deliverer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/razorpay_webhook", Handler(testSecret, store, d))
	return r
}

func sign(body, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(body))
	return hex.EncodeToString(mac.Sum(nil))
}

func post(r *gin.Engine, body, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/razorpay_webhook", strings.NewReader(body))
	if signature != "" {
		req.Header.Set("X-Razorpay-Signature", signature)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

const linkPaidBody = `{
  "event": "payment_link.paid",
  "payload": {
    "payment": {
      "entity": {
        "id": "pay_001",
        "order_id": "order_001",
        "amount": 19900,
        "currency": "INR",
        "notes": {"reference_id": "tg_555"}
      }
    },
    "payment_link": {
      "entity": {
        "id": "plink_001",
        "reference_id": "tg_555",
        "short_url": "https://rzp.io/i/x"
      }
    }
  }
}`

func TestWebhookDeliversInviteForPaidLink(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Save(&correlation.Record{
		ReferenceID: "tg_555", LinkID: "plink_001", TelegramID: 555,
	}))
	d := &mockDeliverer{}
	r := newTestRouter(store, d)

	w := post(r, linkPaidBody, sign(linkPaidBody, testSecret))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []int64{555}, d.invited)
	assert.Empty(t, d.unresolved)

	rec, err := store.ByReferenceID("tg_555")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.True(t, rec.Redeemed)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	store := newTestStore(t)
	d := &mockDeliverer{}
	r := newTestRouter(store, d)

	// wrong secret
	w := post(r, linkPaidBody, sign(linkPaidBody, "whsec_other"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// single-byte mutation of the body after signing
	mutated := strings.Replace(linkPaidBody, "pay_001", "pay_002", 1)
	w = post(r, mutated, sign(linkPaidBody, testSecret))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// single-byte mutation of the digest itself
	digest := sign(linkPaidBody, testSecret)
	flipped := "0" + digest[1:]
	if flipped == digest {
		flipped = "1" + digest[1:]
	}
	w = post(r, linkPaidBody, flipped)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// missing header entirely
	w = post(r, linkPaidBody, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// a rejected request has no side effects at all
	assert.Empty(t, d.invited)
	assert.Empty(t, d.unresolved)
	dup, err := store.MarkProcessed("pay_001", "payment_link.paid")
	require.NoError(t, err)
	assert.False(t, dup, "rejected request must not be marked processed")
}

func TestWebhookIgnoresUnactionableEvents(t *testing.T) {
	store := newTestStore(t)
	d := &mockDeliverer{}
	r := newTestRouter(store, d)

	body := `{"event":"payment.failed","payload":{"payment":{"entity":{"id":"pay_009"}}}}`
	w := post(r, body, sign(body, testSecret))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, d.invited)
	assert.Empty(t, d.unresolved)
}

func TestWebhookEscalatesUnresolvedPayment(t *testing.T) {
	store := newTestStore(t)
	d := &mockDeliverer{}
	r := newTestRouter(store, d)

	body := `{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_010","order_id":"order_010","amount":19900,"notes":[]}}}}`
	w := post(r, body, sign(body, testSecret))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, d.invited, "never guess a destination user")
	require.Len(t, d.unresolved, 1)
	assert.Contains(t, d.unresolved[0], "pay_010")
}

func TestWebhookResolvesStoredReferenceID(t *testing.T) {
	store := newTestStore(t)
	// uuid-style token: not parseable, must resolve through the store
	require.NoError(t, store.Save(&correlation.Record{
		ReferenceID: "1b9d6bcd-bbfd-4b2d-9b5d-ab8dfbbd4bed", LinkID: "plink_020", TelegramID: 777,
	}))
	d := &mockDeliverer{}
	r := newTestRouter(store, d)

	body := `{
      "event": "payment_link.paid",
      "payload": {
        "payment": {"entity": {"id": "pay_020", "notes": []}},
        "payment_link": {"entity": {"id": "plink_020", "reference_id": "1b9d6bcd-bbfd-4b2d-9b5d-ab8dfbbd4bed"}}
      }
    }`
	w := post(r, body, sign(body, testSecret))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []int64{777}, d.invited)
}

func TestWebhookResolvesByLinkIDWhenTokenMissing(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Save(&correlation.Record{
		ReferenceID: "tg_888", LinkID: "plink_030", TelegramID: 888,
	}))
	d := &mockDeliverer{}
	r := newTestRouter(store, d)

	body := `{
      "event": "payment_link.paid",
      "payload": {
        "payment": {"entity": {"id": "pay_030", "notes": []}},
        "payment_link": {"entity": {"id": "plink_030"}}
      }
    }`
	w := post(r, body, sign(body, testSecret))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []int64{888}, d.invited)

	// the matched record is redeemed even though no token was echoed
	rec, err := store.ByReferenceID("tg_888")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.True(t, rec.Redeemed)
}

func TestWebhookShortCircuitsDuplicateDelivery(t *testing.T) {
	store := newTestStore(t)
	d := &mockDeliverer{}
	r := newTestRouter(store, d)

	w := post(r, linkPaidBody, sign(linkPaidBody, testSecret))
	assert.Equal(t, http.StatusOK, w.Code)

	// provider retry with the identical payload
	w = post(r, linkPaidBody, sign(linkPaidBody, testSecret))
	assert.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, []int64{555}, d.invited, "one invite despite two deliveries")
}

func TestWebhookAcksDeliveryFailure(t *testing.T) {
	store := newTestStore(t)
	d := &mockDeliverer{inviteErr: assert.AnError}
	r := newTestRouter(store, d)

	// terminal for this event: still 200, no provider retry loop
	w := post(r, linkPaidBody, sign(linkPaidBody, testSecret))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []int64{555}, d.invited)
}
