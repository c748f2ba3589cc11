package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/weblarek/backend/internal/auth"
	"github.com/weblarek/backend/internal/cache"
	"github.com/weblarek/backend/internal/events"
	"github.com/weblarek/backend/internal/model"
	"github.com/weblarek/backend/internal/query"
	"github.com/weblarek/backend/internal/store"
	"github.com/weblarek/backend/internal/store/memory"
	"github.com/weblarek/backend/pkg/errors"
)

func price(v float64) *float64 { return &v }

type fixture struct {
	store    *memory.Store
	orders   *Orders
	alice    model.Customer
	bob      model.Customer
	lamp     model.Product
	keyboard model.Product
	broken   model.Product
}

// newFixture seeds two customers and a small catalogue, wiring the order
// service through the caching product repository the way the server does.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	mem := memory.New()

	f := &fixture{
		store:    mem,
		alice:    mem.SeedCustomer(model.Customer{Name: "Alice", Role: model.RoleCustomer}),
		bob:      mem.SeedCustomer(model.Customer{Name: "Bob", Role: model.RoleCustomer}),
		lamp:     mem.SeedProduct(model.Product{Title: "Desk Lamp", Price: price(25)}),
		keyboard: mem.SeedProduct(model.Product{Title: "Mechanical Keyboard", Price: price(120)}),
		broken:   mem.SeedProduct(model.Product{Title: "Priceless Vase", Price: nil}),
	}

	c := cache.New(4, time.Minute, time.Minute)
	t.Cleanup(c.Close)
	products := store.NewCachedProducts(mem.Products(), c)
	f.orders = NewOrders(mem.Orders(), products, events.Noop{}, zap.NewNop())
	return f
}

func (f *fixture) as(c model.Customer) auth.Identity {
	return auth.Identity{ID: c.ID, Role: c.Role}
}

func (f *fixture) admin() auth.Identity {
	return auth.Identity{ID: "000000000000000000000000", Role: model.RoleAdmin}
}

func (f *fixture) createOrder(t *testing.T, who model.Customer, items []string, total float64) *model.Order {
	t.Helper()
	o, err := f.orders.Create(context.Background(), f.as(who), OrderCreateInput{
		Items:   items,
		Payment: "card",
		Email:   who.Email,
		Phone:   who.Phone,
		Address: "1 Main St",
		Total:   total,
	})
	require.NoError(t, err)
	return o
}

func TestCreateValidBasket(t *testing.T) {
	f := newFixture(t)

	o := f.createOrder(t, f.alice, []string{f.lamp.ID, f.keyboard.ID}, 145)

	assert.Equal(t, model.StatusNew, o.Status)
	assert.Equal(t, f.alice.ID, o.CustomerID)
	assert.Equal(t, int64(1), o.OrderNumber)
	assert.NotEmpty(t, o.ID)

	second := f.createOrder(t, f.bob, []string{f.lamp.ID}, 25)
	assert.Equal(t, int64(2), second.OrderNumber)
}

func TestCreateRejectsBadBaskets(t *testing.T) {
	f := newFixture(t)
	missing := "ffffffffffffffffffffffff"

	tests := []struct {
		name  string
		items []string
		total float64
	}{
		{"empty basket", nil, 0},
		{"malformed product id", []string{"not-an-id"}, 25},
		{"unknown product", []string{missing}, 25},
		{"product without price", []string{f.broken.ID}, 0},
		{"total below basket sum", []string{f.lamp.ID}, 24},
		{"total above basket sum", []string{f.lamp.ID}, 26},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.orders.Create(context.Background(), f.as(f.alice), OrderCreateInput{
				Items: tt.items, Payment: "card", Total: tt.total,
			})
			assert.True(t, errors.IsBadRequest(err), "got %v", err)
		})
	}
}

func TestCreateCleansMarkup(t *testing.T) {
	f := newFixture(t)

	o, err := f.orders.Create(context.Background(), f.as(f.alice), OrderCreateInput{
		Items:   []string{f.lamp.ID},
		Payment: "card",
		Address: `<script>alert(1)</script>123 Main St`,
		Comment: `leave at the <b>door</b>`,
		Total:   25,
	})
	require.NoError(t, err)
	assert.Equal(t, "123 Main St", o.DeliveryAddress)
	assert.Equal(t, "leave at the door", o.Comment)
}

func TestGetByNumberOwnership(t *testing.T) {
	f := newFixture(t)
	o := f.createOrder(t, f.alice, []string{f.lamp.ID}, 25)

	got, err := f.orders.GetByNumber(context.Background(), f.as(f.alice), o.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)

	got, err = f.orders.GetByNumber(context.Background(), f.admin(), o.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)

	// Someone else's order reads as absent, not as forbidden.
	_, err = f.orders.GetByNumber(context.Background(), f.as(f.bob), o.OrderNumber)
	assert.True(t, errors.IsNotFound(err), "got %v", err)
}

func TestListScopesNonAdmins(t *testing.T) {
	f := newFixture(t)
	f.createOrder(t, f.alice, []string{f.lamp.ID}, 25)
	f.createOrder(t, f.bob, []string{f.keyboard.ID}, 120)

	all, page, err := f.orders.List(context.Background(), f.admin(), query.OrderListParams{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, int64(2), page.TotalItems)

	mine, page, err := f.orders.List(context.Background(), f.as(f.alice), query.OrderListParams{})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, f.alice.ID, mine[0].CustomerID)
	assert.Equal(t, int64(1), page.TotalItems)
}

func TestSearchMatchesTitleOrNumber(t *testing.T) {
	f := newFixture(t)
	lampOrder := f.createOrder(t, f.alice, []string{f.lamp.ID}, 25)
	kbOrder := f.createOrder(t, f.alice, []string{f.keyboard.ID}, 120)

	byTitle, _, err := f.orders.List(context.Background(), f.admin(), query.OrderListParams{Search: "lamp"})
	require.NoError(t, err)
	require.Len(t, byTitle, 1)
	assert.Equal(t, lampOrder.ID, byTitle[0].ID)

	byNumber, _, err := f.orders.List(context.Background(), f.admin(), query.OrderListParams{Search: "2"})
	require.NoError(t, err)
	require.Len(t, byNumber, 1)
	assert.Equal(t, kbOrder.ID, byNumber[0].ID)
}

// The admin search runs in the store while the customer search correlates in
// memory; scoped to the same customer they must agree on the matched set.
func TestSearchPathsAgree(t *testing.T) {
	f := newFixture(t)
	f.createOrder(t, f.alice, []string{f.lamp.ID}, 25)
	f.createOrder(t, f.alice, []string{f.keyboard.ID}, 120)
	f.createOrder(t, f.bob, []string{f.lamp.ID}, 25)

	for _, term := range []string{"lamp", "keyboard", "a", "3", "nothing matches this"} {
		adminRows, _, err := f.orders.List(context.Background(), f.admin(), query.OrderListParams{Search: term})
		require.NoError(t, err)

		aliceRows, _, err := f.orders.List(context.Background(), f.as(f.alice), query.OrderListParams{Search: term})
		require.NoError(t, err)

		adminIDs := make(map[string]struct{})
		for _, o := range adminRows {
			if o.CustomerID == f.alice.ID {
				adminIDs[o.ID] = struct{}{}
			}
		}
		require.Len(t, aliceRows, len(adminIDs), "term %q", term)
		for _, o := range aliceRows {
			assert.Contains(t, adminIDs, o.ID, "term %q", term)
		}
	}
}

// Regex metacharacters in the term must match literally, never blow up the
// engine-side regex.
func TestSearchEscapesMetacharacters(t *testing.T) {
	f := newFixture(t)
	weird := f.store.SeedProduct(model.Product{Title: "Lamp (v2)", Price: price(30)})
	f.createOrder(t, f.alice, []string{weird.ID}, 30)
	f.createOrder(t, f.alice, []string{f.lamp.ID}, 25)

	rows, _, err := f.orders.List(context.Background(), f.admin(), query.OrderListParams{Search: "(v2)"})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	rows, _, err = f.orders.List(context.Background(), f.as(f.alice), query.OrderListParams{Search: ".*"})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestListMineIgnoresRole(t *testing.T) {
	f := newFixture(t)
	f.createOrder(t, f.alice, []string{f.lamp.ID}, 25)
	f.createOrder(t, f.bob, []string{f.keyboard.ID}, 120)

	// Even an admin identity only sees its own (here: zero) orders.
	rows, page, err := f.orders.ListMine(context.Background(), f.admin(), query.OrderListParams{})
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Equal(t, int64(0), page.TotalItems)

	rows, _, err = f.orders.ListMine(context.Background(), f.as(f.bob), query.OrderListParams{Search: "keyboard"})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestUpdateStatus(t *testing.T) {
	f := newFixture(t)
	o := f.createOrder(t, f.alice, []string{f.lamp.ID}, 25)

	updated, err := f.orders.UpdateStatus(context.Background(), o.OrderNumber, "delivering")
	require.NoError(t, err)
	assert.Equal(t, model.StatusDelivering, updated.Status)

	// Writes reject unknown states even though list filters ignore them.
	_, err = f.orders.UpdateStatus(context.Background(), o.OrderNumber, "teleported")
	assert.True(t, errors.IsBadRequest(err), "got %v", err)

	unknown, _, err := f.orders.List(context.Background(), f.admin(), query.OrderListParams{Status: "teleported"})
	require.NoError(t, err)
	assert.Len(t, unknown, 1)
}

func TestDeleteOrder(t *testing.T) {
	f := newFixture(t)
	o := f.createOrder(t, f.alice, []string{f.lamp.ID}, 25)

	_, err := f.orders.Delete(context.Background(), "short")
	assert.True(t, errors.IsBadRequest(err), "got %v", err)

	deleted, err := f.orders.Delete(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.ID, deleted.ID)

	_, err = f.orders.Delete(context.Background(), o.ID)
	assert.True(t, errors.IsNotFound(err), "got %v", err)
}

func TestListPaginationClamps(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 12; i++ {
		f.createOrder(t, f.alice, []string{f.lamp.ID}, 25)
	}

	rows, page, err := f.orders.List(context.Background(), f.admin(), query.OrderListParams{Limit: 100})
	require.NoError(t, err)
	assert.Len(t, rows, 10)
	assert.Equal(t, int64(10), page.PageSize)
	assert.Equal(t, int64(2), page.TotalPages)

	rows, page, err = f.orders.List(context.Background(), f.admin(), query.OrderListParams{Page: 2, Limit: 100})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, int64(12), page.TotalItems)
}
