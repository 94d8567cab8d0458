package orders

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"kirana/apperr"
	"kirana/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type clearCall struct {
	user primitive.ObjectID
	seen time.Time
}

type cartSourceMock struct {
	cart     *models.Cart
	byIDErr  error
	emptyErr error
	clearErr error
	emptied  []primitive.ObjectID
	cleared  []clearCall
}

func (m *cartSourceMock) ByID(_ context.Context, _ primitive.ObjectID) (*models.Cart, error) {
	if m.byIDErr != nil {
		return nil, m.byIDErr
	}
	return m.cart, nil
}

func (m *cartSourceMock) Empty(_ context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	if m.emptyErr != nil {
		return nil, m.emptyErr
	}
	m.emptied = append(m.emptied, userID)
	return &models.Cart{User: userID}, nil
}

func (m *cartSourceMock) ClearIfUnchanged(_ context.Context, userID primitive.ObjectID, seen time.Time) error {
	if m.clearErr != nil {
		return m.clearErr
	}
	m.cleared = append(m.cleared, clearCall{user: userID, seen: seen})
	return nil
}

type orderStoreMock struct {
	insertErr error
	updateErr error
	byIDErr   error
	stored    *models.Order
	inserted  []*models.Order
	updates   []bson.M
}

func (m *orderStoreMock) Insert(_ context.Context, order *models.Order) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	order.ID = primitive.NewObjectID()
	m.inserted = append(m.inserted, order)
	return nil
}

func (m *orderStoreMock) ByID(_ context.Context, _ primitive.ObjectID) (*models.Order, error) {
	if m.byIDErr != nil {
		return nil, m.byIDErr
	}
	return m.stored, nil
}

func (m *orderStoreMock) Update(_ context.Context, _ primitive.ObjectID, update bson.M) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updates = append(m.updates, update)
	return nil
}

func testCart() *models.Cart {
	return &models.Cart{
		ID:   primitive.NewObjectID(),
		User: primitive.NewObjectID(),
		Products: []models.CartLine{
			{Product: primitive.NewObjectID(), Quantity: 2},
			{Product: primitive.NewObjectID(), Quantity: 1},
		},
		TotalAmount: 25,
		TotalItems:  3,
		UpdatedAt:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestDirectCheckout(t *testing.T) {
	c := testCart()
	carts := &cartSourceMock{cart: c}
	store := &orderStoreMock{}
	svc := &Checkout{Orders: store, Carts: carts}

	order, err := svc.Direct(context.Background(), c.ID)

	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, models.OrderCompleted, order.Status)
	assert.Equal(t, models.PaymentCompleted, order.PaymentStatus)
	assert.Equal(t, c.User, order.User)
	assert.Equal(t, c.TotalAmount, order.TotalAmount)
	assert.NotEmpty(t, order.OrderNo)
	require.Len(t, order.Products, 2)
	assert.Equal(t, c.Products[0].Product, order.Products[0].Product)

	require.Len(t, store.inserted, 1)
	require.Len(t, carts.cleared, 1)
	assert.Equal(t, c.User, carts.cleared[0].user)
}

// The clear must be conditioned on the cart state the order was snapshotted
// from, so a concurrent cart write cannot be silently discarded.
func TestDirectCheckoutClearGuardUsesSnapshotTime(t *testing.T) {
	c := testCart()
	carts := &cartSourceMock{cart: c}
	store := &orderStoreMock{}
	svc := &Checkout{Orders: store, Carts: carts}

	_, err := svc.Direct(context.Background(), c.ID)

	require.NoError(t, err)
	require.Len(t, carts.cleared, 1)
	assert.Equal(t, c.UpdatedAt, carts.cleared[0].seen)
	assert.Empty(t, carts.emptied)
}

func TestDirectCheckoutConcurrentCartWriteSurfacesConflict(t *testing.T) {
	c := testCart()
	carts := &cartSourceMock{cart: c, clearErr: apperr.Conflict("Cart was modified during checkout")}
	store := &orderStoreMock{}
	svc := &Checkout{Orders: store, Carts: carts}

	order, err := svc.Direct(context.Background(), c.ID)

	// The order is durable; the conflict is reported, not retried.
	require.Error(t, err)
	require.NotNil(t, order)
	assert.Equal(t, http.StatusConflict, apperr.StatusOf(err))
	assert.Len(t, store.inserted, 1)
}

func TestDirectCheckoutBlockedOnZeroTotal(t *testing.T) {
	c := testCart()
	c.TotalAmount = 0
	carts := &cartSourceMock{cart: c}
	store := &orderStoreMock{}
	svc := &Checkout{Orders: store, Carts: carts}

	order, err := svc.Direct(context.Background(), c.ID)

	assert.Nil(t, order)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperr.StatusOf(err))
	assert.Equal(t, "Total amount must be greater than 0", err.Error())

	// Nothing persisted, cart untouched.
	assert.Empty(t, store.inserted)
	assert.Empty(t, carts.emptied)
	assert.Empty(t, carts.cleared)
}

func TestDirectCheckoutPersistFailureLeavesCart(t *testing.T) {
	c := testCart()
	carts := &cartSourceMock{cart: c}
	store := &orderStoreMock{insertErr: errors.New("write concern")}
	svc := &Checkout{Orders: store, Carts: carts}

	order, err := svc.Direct(context.Background(), c.ID)

	assert.Nil(t, order)
	assert.Error(t, err)
	assert.Empty(t, carts.cleared)
}

func TestDirectCheckoutClearFailureReturnsOrder(t *testing.T) {
	c := testCart()
	carts := &cartSourceMock{cart: c, clearErr: errors.New("connection reset")}
	store := &orderStoreMock{}
	svc := &Checkout{Orders: store, Carts: carts}

	order, err := svc.Direct(context.Background(), c.ID)

	// The order is durable; the caller gets both the order and the error.
	require.Error(t, err)
	require.NotNil(t, order)
	assert.Len(t, store.inserted, 1)
}

func TestInitiateLeavesCartUntouched(t *testing.T) {
	c := testCart()
	carts := &cartSourceMock{cart: c}
	store := &orderStoreMock{}
	svc := &Checkout{Orders: store, Carts: carts}

	order, err := svc.Initiate(context.Background(), c.ID)

	require.NoError(t, err)
	assert.Equal(t, models.OrderInitiated, order.Status)
	assert.Equal(t, models.PaymentPending, order.PaymentStatus)
	assert.Len(t, store.inserted, 1)
	assert.Empty(t, carts.emptied)
	assert.Empty(t, carts.cleared)
}

func TestCaptureCompleted(t *testing.T) {
	user := primitive.NewObjectID()
	stored := &models.Order{ID: primitive.NewObjectID(), User: user, Status: models.OrderInitiated, PaymentStatus: models.PaymentPending}
	carts := &cartSourceMock{}
	store := &orderStoreMock{stored: stored}
	svc := &Checkout{Orders: store, Carts: carts}

	_, err := svc.Capture(context.Background(), stored.ID, models.PaymentCompleted, "txn-1", bson.M{"gateway": "upi"})

	require.NoError(t, err)
	require.Len(t, store.updates, 1)
	update := store.updates[0]
	assert.Equal(t, models.OrderCompleted, update["status"])
	assert.Equal(t, models.PaymentCompleted, update["paymentStatus"])
	assert.Equal(t, "txn-1", update["transactionId"])
	assert.Equal(t, []primitive.ObjectID{user}, carts.emptied)
}

func TestCaptureFailedCancelsWithoutClearing(t *testing.T) {
	stored := &models.Order{ID: primitive.NewObjectID(), User: primitive.NewObjectID()}
	carts := &cartSourceMock{}
	store := &orderStoreMock{stored: stored}
	svc := &Checkout{Orders: store, Carts: carts}

	_, err := svc.Capture(context.Background(), stored.ID, models.PaymentFailed, "", nil)

	require.NoError(t, err)
	require.Len(t, store.updates, 1)
	assert.Equal(t, models.OrderCancelled, store.updates[0]["status"])
	assert.Empty(t, carts.emptied)
}

func TestCaptureRejectsUnknownPaymentStatus(t *testing.T) {
	stored := &models.Order{ID: primitive.NewObjectID()}
	store := &orderStoreMock{stored: stored}
	svc := &Checkout{Orders: store, Carts: &cartSourceMock{}}

	_, err := svc.Capture(context.Background(), stored.ID, "maybe", "", nil)

	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperr.StatusOf(err))
	assert.Empty(t, store.updates)
}

func TestCaptureMissingOrder(t *testing.T) {
	store := &orderStoreMock{byIDErr: apperr.NotFound("Order doesn't exist")}
	svc := &Checkout{Orders: store, Carts: &cartSourceMock{}}

	_, err := svc.Capture(context.Background(), primitive.NewObjectID(), models.PaymentCompleted, "", nil)

	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperr.StatusOf(err))
}

func TestSnapshotIsIndependentOfCart(t *testing.T) {
	c := testCart()

	order := snapshot(c)
	c.Products[0].Quantity = 99
	c.TotalAmount = 0

	assert.Equal(t, 2, order.Products[0].Quantity)
	assert.Equal(t, 25.0, order.TotalAmount)
}
