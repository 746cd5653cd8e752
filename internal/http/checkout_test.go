package handlers_test

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mymat/internal/repos"
)

func (a *testApp) addToCart(productID string) {
	a.t.Helper()
	resp := a.postForm("/cart", url.Values{"productId": {productID}})
	if resp.StatusCode != http.StatusFound {
		a.t.Fatalf("add %s: expected redirect, got %d", productID, resp.StatusCode)
	}
}

func orderCount(t *testing.T, a *testApp) int {
	t.Helper()
	n, err := repos.NewOrderRepo(a.db).Count(context.Background())
	require.NoError(t, err)
	return n
}

func TestCheckoutPlacesOrder(t *testing.T) {
	a := newTestApp(t)
	a.addToCart("mat-royal-persian")
	a.addToCart("mat-tabriz")
	a.addToCart("mat-royal-persian")

	body := readBody(t, a.get("/cart"))
	assert.Contains(t, body, "$378.00", "two Royal Persian lines")
	assert.Contains(t, body, "$527.50")

	resp := a.postForm("/checkout", url.Values{
		"name": {"Amina"}, "email": {"amina@mymat.test"}, "address": {"1 Prayer Lane"},
	})
	require.Equal(t, http.StatusFound, resp.StatusCode, readBody(t, resp))
	loc := resp.Header.Get("Location")
	require.True(t, strings.HasPrefix(loc, "/?notice=order-placed&order="), loc)
	oid := strings.TrimPrefix(loc, "/?notice=order-placed&order=")

	o, items, err := repos.NewOrderRepo(a.db).Get(context.Background(), oid)
	require.NoError(t, err)
	assert.True(t, o.Subtotal.Equal(decimal.RequireFromString("527.50")), o.Subtotal.String())
	assert.True(t, o.Tax.Equal(decimal.RequireFromString("52.75")), o.Tax.String())
	assert.True(t, o.Total.Equal(decimal.RequireFromString("580.25")), o.Total.String())
	assert.Equal(t, "pending", string(o.Status))
	require.Len(t, items, 2)
	assert.Equal(t, "mat-royal-persian", items[0].ProductID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.True(t, items[0].Price.Equal(decimal.RequireFromString("189")))

	home := readBody(t, a.get(loc))
	assert.Contains(t, home, "Your order has been placed")
	assert.Contains(t, home, oid)

	assert.Contains(t, readBody(t, a.get("/cart")), "Your cart is empty")
}

// order lines keep the price the shopper saw, even if the catalog changes before checkout
func TestCheckoutUsesPriceAtAdd(t *testing.T) {
	a := newTestApp(t)
	a.addToCart("mat-minimal-line")

	p, err := repos.NewProductRepo(a.db).Get(context.Background(), "mat-minimal-line")
	require.NoError(t, err)
	p.Price = decimal.RequireFromString("99.00")
	require.NoError(t, repos.NewProductRepo(a.db).Update(context.Background(), p))

	resp := a.postForm("/checkout", url.Values{"name": {"Amina"}, "email": {"amina@mymat.test"}, "address": {"1 Prayer Lane"}})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	oid := strings.TrimPrefix(resp.Header.Get("Location"), "/?notice=order-placed&order=")
	o, _, err := repos.NewOrderRepo(a.db).Get(context.Background(), oid)
	require.NoError(t, err)
	assert.True(t, o.Total.Equal(decimal.RequireFromString("86.90")), o.Total.String())
}

func TestCheckoutValidation(t *testing.T) {
	a := newTestApp(t)
	a.addToCart("mat-fez")

	cases := []struct {
		name  string
		form  url.Values
		field string
	}{
		{"empty name", url.Values{"name": {"  "}, "email": {"a@b.co"}, "address": {"1 Lane"}}, "name"},
		{"bad email", url.Values{"name": {"Amina"}, "email": {"abc"}, "address": {"1 Lane"}}, "email"},
		{"empty address", url.Values{"name": {"Amina"}, "email": {"a@b.co"}, "address": {""}}, "address"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := a.postForm("/checkout", tc.form)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
			body := readBody(t, resp)
			assert.Contains(t, body, `name="`+tc.field+`"`)
			assert.Contains(t, body, `aria-invalid="true"`)
		})
	}
	assert.Equal(t, 0, orderCount(t, a))
	assert.Contains(t, readBody(t, a.get("/cart")), "Fez Berber Mat", "a rejected checkout keeps the cart")
}

func TestCheckoutEmptyCart(t *testing.T) {
	a := newTestApp(t)
	resp := a.postForm("/checkout", url.Values{"name": {"Amina"}, "email": {"amina@mymat.test"}, "address": {"1 Prayer Lane"}})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Your cart is empty.")
	assert.Equal(t, 0, orderCount(t, a))
}

func TestCartUpdateAndRemove(t *testing.T) {
	a := newTestApp(t)
	a.addToCart("mat-jute-travel")
	a.addToCart("mat-fez")

	require.Equal(t, http.StatusFound, a.postForm("/cart/update", url.Values{"productId": {"mat-jute-travel"}, "qty": {"3"}}).StatusCode)
	body := readBody(t, a.get("/cart"))
	assert.Contains(t, body, "$119.97")

	require.Equal(t, http.StatusFound, a.postForm("/cart/update", url.Values{"productId": {"mat-jute-travel"}, "qty": {"0"}}).StatusCode)
	assert.NotContains(t, readBody(t, a.get("/cart")), "Jute Travel Mat")

	require.Equal(t, http.StatusFound, a.postForm("/cart/remove", url.Values{"productId": {"mat-fez"}}).StatusCode)
	assert.Contains(t, readBody(t, a.get("/cart")), "Your cart is empty")

	assert.Equal(t, http.StatusBadRequest, a.postForm("/cart/update", url.Values{"productId": {"mat-fez"}, "qty": {"many"}}).StatusCode)
	assert.Equal(t, http.StatusBadRequest, a.postForm("/cart", url.Values{"productId": {"<script>"}}).StatusCode)
	assert.Equal(t, http.StatusNotFound, a.postForm("/cart", url.Values{"productId": {"mat-gone"}}).StatusCode)
}
