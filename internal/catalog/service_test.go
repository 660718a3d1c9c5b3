package catalog

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/storefront/internal/errs"
)

// fakeRepo is an in-memory Repository that applies updates field-by-field the
// way the real store does.
type fakeRepo struct {
	products map[string]*Product
	order    []string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{products: make(map[string]*Product)}
}

func (r *fakeRepo) List(_ context.Context) ([]Product, error) {
	out := make([]Product, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		out = append(out, *r.products[r.order[i]])
	}
	return out, nil
}

func (r *fakeRepo) Get(_ context.Context, id string) (*Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, errs.NotFoundf("product %s not found", id)
	}
	cp := *p
	return &cp, nil
}

func (r *fakeRepo) Create(_ context.Context, p *Product) error {
	cp := *p
	r.products[p.ID] = &cp
	r.order = append(r.order, p.ID)
	return nil
}

func (r *fakeRepo) Update(_ context.Context, id string, u Update) (*Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, errs.NotFoundf("product %s not found", id)
	}
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.DiscountedPrice != nil {
		p.DiscountedPrice = u.DiscountedPrice
	}
	if u.StockLeft != nil {
		p.StockLeft = u.StockLeft.IntPart()
	}
	if u.CompanyName != nil {
		p.CompanyName = *u.CompanyName
	}
	if u.Images != nil {
		p.Images = *u.Images
	}
	if u.Colours != nil {
		p.Colours = *u.Colours
	}
	if u.Video != nil {
		p.Video = *u.Video
	}
	cp := *p
	return &cp, nil
}

func (r *fakeRepo) Delete(_ context.Context, id string) (*Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, errs.NotFoundf("product %s not found", id)
	}
	delete(r.products, id)
	for i, pid := range r.order {
		if pid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return p, nil
}

// fakeCache counts hits, sets, and invalidations.
type fakeCache struct {
	list        []Product
	valid       bool
	hits        int
	sets        int
	invalidates int
}

func (c *fakeCache) GetList(_ context.Context) ([]Product, bool) {
	if !c.valid {
		return nil, false
	}
	c.hits++
	return c.list, true
}

func (c *fakeCache) SetList(_ context.Context, products []Product) {
	c.list = products
	c.valid = true
	c.sets++
}

func (c *fakeCache) Invalidate(_ context.Context) {
	c.valid = false
	c.invalidates++
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func validCreate() CreateInput {
	return CreateInput{
		Name:  "Walnut Lamp",
		Price: dec("49.99"),
	}
}

// ============================================
// Create
// ============================================

func TestService_Create_Success(t *testing.T) {
	svc := NewService(newFakeRepo(), nil)

	in := validCreate()
	in.Description = "Hand-turned walnut base"
	in.StockLeft = dec("12")
	in.DiscountedPrice = dec("39.99")
	in.Images = []string{"front.jpg", "side.jpg"}

	p, err := svc.Create(context.Background(), in)

	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("49.99")))
	assert.Equal(t, int64(12), p.StockLeft)
	assert.Equal(t, []string{"front.jpg", "side.jpg"}, p.Images)
	assert.True(t, p.PackingPrice.IsZero())
	assert.True(t, p.Tax.IsZero())
	assert.False(t, p.CreatedAt.IsZero())
}

func TestService_Create_Validation(t *testing.T) {
	svc := NewService(newFakeRepo(), nil)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*CreateInput)
	}{
		{"missing name", func(in *CreateInput) { in.Name = "" }},
		{"missing price", func(in *CreateInput) { in.Price = nil }},
		{"negative price", func(in *CreateInput) { in.Price = dec("-1") }},
		{"discount equals price", func(in *CreateInput) { in.DiscountedPrice = dec("49.99") }},
		{"discount above price", func(in *CreateInput) { in.DiscountedPrice = dec("60") }},
		{"fractional stock", func(in *CreateInput) { in.StockLeft = dec("2.5") }},
		{"negative stock", func(in *CreateInput) { in.StockLeft = dec("-3") }},
		{"negative shipping", func(in *CreateInput) { in.ShippingPrice = dec("-1") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validCreate()
			tt.mutate(&in)
			p, err := svc.Create(ctx, in)
			assert.ErrorIs(t, err, errs.ErrValidation)
			assert.Nil(t, p)
		})
	}
}

func TestService_Create_CoercesNumericStrings(t *testing.T) {
	// Prices and stock arrive as JSON numbers or numeric strings; both decode
	// into the same input struct.
	var in CreateInput
	body := `{"name":"Rug","price":"199.50","stock_left":"7","tax":5}`
	require.NoError(t, json.Unmarshal([]byte(body), &in))

	svc := NewService(newFakeRepo(), nil)
	p, err := svc.Create(context.Background(), in)

	require.NoError(t, err)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("199.50")))
	assert.Equal(t, int64(7), p.StockLeft)
	assert.True(t, p.Tax.Equal(decimal.NewFromInt(5)))
}

func TestService_Create_IgnoresUnknownFields(t *testing.T) {
	// id and created_at are not part of the input struct, so a client cannot
	// smuggle them in.
	var in CreateInput
	body := `{"name":"Rug","price":10,"id":"attacker-id","created_at":"1999-01-01T00:00:00Z"}`
	require.NoError(t, json.Unmarshal([]byte(body), &in))

	svc := NewService(newFakeRepo(), nil)
	p, err := svc.Create(context.Background(), in)

	require.NoError(t, err)
	assert.NotEqual(t, "attacker-id", p.ID)
	assert.NotEqual(t, 1999, p.CreatedAt.Year())
}

// ============================================
// Update
// ============================================

func seedProduct(t *testing.T, svc *Service) *Product {
	t.Helper()
	p, err := svc.Create(context.Background(), validCreate())
	require.NoError(t, err)
	return p
}

func TestService_Update_PartialFields(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)
	p := seedProduct(t, svc)

	name := "Oak Lamp"
	updated, err := svc.Update(context.Background(), p.ID, Update{Name: &name})

	require.NoError(t, err)
	assert.Equal(t, "Oak Lamp", updated.Name)
	assert.True(t, updated.Price.Equal(p.Price), "untouched fields keep their value")
}

func TestService_Update_AllowListDropsUnknownKeys(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)
	p := seedProduct(t, svc)

	var u Update
	body := `{"name":"Renamed","id":"new-id","created_at":"1999-01-01T00:00:00Z","is_admin":true}`
	require.NoError(t, json.Unmarshal([]byte(body), &u))

	updated, err := svc.Update(context.Background(), p.ID, u)

	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, p.ID, updated.ID)
	assert.Equal(t, p.CreatedAt, updated.CreatedAt)
}

func TestService_Update_OnlyUnknownKeysIsRejected(t *testing.T) {
	svc := NewService(newFakeRepo(), nil)
	p := seedProduct(t, svc)

	var u Update
	require.NoError(t, json.Unmarshal([]byte(`{"id":"x","role":"admin"}`), &u))
	require.True(t, u.Empty())

	_, err := svc.Update(context.Background(), p.ID, u)
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestService_Update_DiscountValidatedAgainstEffectivePrice(t *testing.T) {
	svc := NewService(newFakeRepo(), nil)
	p := seedProduct(t, svc) // price 49.99
	ctx := context.Background()

	// Discount above the stored price fails.
	_, err := svc.Update(ctx, p.ID, Update{DiscountedPrice: dec("60")})
	assert.ErrorIs(t, err, errs.ErrValidation)

	// Raising the price in the same update makes the discount valid.
	updated, err := svc.Update(ctx, p.ID, Update{Price: dec("80"), DiscountedPrice: dec("60")})
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(decimal.NewFromInt(80)))
}

func TestService_Update_PriceCannotUndercutStoredDiscount(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()

	in := validCreate() // price 49.99
	in.DiscountedPrice = dec("39.99")
	p, err := svc.Create(ctx, in)
	require.NoError(t, err)

	// Dropping the price below the stored discount must be rejected.
	_, err = svc.Update(ctx, p.ID, Update{Price: dec("30")})
	assert.ErrorIs(t, err, errs.ErrValidation)

	stored, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, stored.Price.Equal(decimal.RequireFromString("49.99")), "price must be untouched")
	require.NotNil(t, stored.DiscountedPrice)
	assert.True(t, stored.DiscountedPrice.LessThan(stored.Price))

	// The price can still move anywhere above the stored discount.
	updated, err := svc.Update(ctx, p.ID, Update{Price: dec("40")})
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(decimal.NewFromInt(40)))
}

func TestService_Update_NotFound(t *testing.T) {
	svc := NewService(newFakeRepo(), nil)
	name := "x"

	_, err := svc.Update(context.Background(), "missing", Update{Name: &name})

	assert.ErrorIs(t, err, errs.ErrNotFound)
}

// ============================================
// List / Delete and the cache
// ============================================

func TestService_List_CacheAside(t *testing.T) {
	repo := newFakeRepo()
	cache := &fakeCache{}
	svc := NewService(repo, cache)
	ctx := context.Background()

	seedProduct(t, svc)

	// First list misses and fills the cache, second one hits.
	_, err := svc.List(ctx)
	require.NoError(t, err)
	_, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, 1, cache.hits)
}

func TestService_Writes_InvalidateCache(t *testing.T) {
	repo := newFakeRepo()
	cache := &fakeCache{}
	svc := NewService(repo, cache)
	ctx := context.Background()

	p := seedProduct(t, svc)
	_, err := svc.List(ctx)
	require.NoError(t, err)
	require.True(t, cache.valid)

	name := "Renamed"
	_, err = svc.Update(ctx, p.ID, Update{Name: &name})
	require.NoError(t, err)
	assert.False(t, cache.valid, "updates invalidate the listing cache")

	_, err = svc.List(ctx)
	require.NoError(t, err)
	_, err = svc.Delete(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, cache.valid, "deletes invalidate the listing cache")
}

func TestService_Delete_ReturnsSnapshot(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)
	p := seedProduct(t, svc)

	deleted, err := svc.Delete(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, deleted.ID)
	assert.Equal(t, p.Name, deleted.Name)

	_, err = svc.Get(context.Background(), p.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestService_List_NewestFirst(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()

	first, err := svc.Create(ctx, CreateInput{Name: "First", Price: dec("1")})
	require.NoError(t, err)
	second, err := svc.Create(ctx, CreateInput{Name: "Second", Price: dec("2")})
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}
