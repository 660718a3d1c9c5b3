package review

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/storefront/internal/errs"
)

type fakeRepo struct {
	reviews []Review
}

func (r *fakeRepo) Insert(_ context.Context, rv *Review) error {
	r.reviews = append(r.reviews, *rv)
	return nil
}

func (r *fakeRepo) ListByProduct(_ context.Context, productID string) ([]Review, error) {
	var out []Review
	// Newest first, matching the store's ordering.
	for i := len(r.reviews) - 1; i >= 0; i-- {
		if r.reviews[i].ProductID == productID {
			out = append(out, r.reviews[i])
		}
	}
	return out, nil
}

func validInput() Input {
	return Input{
		ProductID:     "prod-1",
		CustomerEmail: "buyer@example.com",
		CustomerName:  "Sana",
		Rating:        4,
		Comment:       "Sturdy and well finished.",
	}
}

func TestService_Add_Success(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)

	rv, err := svc.Add(context.Background(), validInput())

	require.NoError(t, err)
	assert.NotEmpty(t, rv.ID)
	assert.Equal(t, 4, rv.Rating)
	assert.False(t, rv.CreatedAt.IsZero())
	assert.Len(t, repo.reviews, 1)
}

func TestService_Add_Validation(t *testing.T) {
	svc := NewService(&fakeRepo{})
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*Input)
	}{
		{"missing product", func(in *Input) { in.ProductID = "" }},
		{"missing email", func(in *Input) { in.CustomerEmail = "" }},
		{"missing comment", func(in *Input) { in.Comment = "" }},
		{"rating zero", func(in *Input) { in.Rating = 0 }},
		{"rating six", func(in *Input) { in.Rating = 6 }},
		{"rating negative", func(in *Input) { in.Rating = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			rv, err := svc.Add(ctx, in)
			assert.ErrorIs(t, err, errs.ErrValidation)
			assert.Nil(t, rv)
		})
	}
}

func TestService_ListByProduct_NewestFirst(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	first := validInput()
	first.Comment = "older"
	_, err := svc.Add(ctx, first)
	require.NoError(t, err)

	second := validInput()
	second.Comment = "newer"
	second.Rating = 5
	_, err = svc.Add(ctx, second)
	require.NoError(t, err)

	other := validInput()
	other.ProductID = "prod-2"
	_, err = svc.Add(ctx, other)
	require.NoError(t, err)

	list, err := svc.ListByProduct(ctx, "prod-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "newer", list[0].Comment)
	assert.Equal(t, "older", list[1].Comment)
}

func TestReview_DisplayName(t *testing.T) {
	assert.Equal(t, "Sana", Review{CustomerName: "Sana"}.DisplayName())
	assert.Equal(t, AnonymousName, Review{CustomerName: "Sana", HideName: true}.DisplayName())
	assert.Equal(t, AnonymousName, Review{CustomerName: ""}.DisplayName())
}
