package service

import (
	"context"
	"testing"

	"github.com/RoyceAzure/lab/storefront/pkg/er"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newReviewFixture() (*ReviewService, *fakeProductRepo, *fakeReviewRepo, *fakeInvalidator) {
	products := newFakeProductRepo()
	reviews := newFakeReviewRepo(products)
	invalidator := &fakeInvalidator{}
	return NewReviewService(reviews, products, invalidator), products, reviews, invalidator
}

func TestAddReviewRecomputesRating(t *testing.T) {
	svc, products, _, invalidator := newReviewFixture()
	product := seedProduct(t, products, "Keyboard", 100, 10)

	_, err := svc.AddReview(context.Background(), uuid.New(), product.ProductID, AddReviewInput{Rating: 5, Comment: "great"})
	require.NoError(t, err)
	_, err = svc.AddReview(context.Background(), uuid.New(), product.ProductID, AddReviewInput{Rating: 4})
	require.NoError(t, err)

	got, err := products.GetProductByID(context.Background(), product.ProductID)
	require.NoError(t, err)
	require.True(t, got.Rating.Equal(decimal.NewFromFloat(4.5)), "rating=%s", got.Rating)
	require.Equal(t, 2, got.ReviewsCount)
	require.Contains(t, invalidator.ids, product.ProductID)
}

func TestAddReviewRatingBounds(t *testing.T) {
	svc, products, _, _ := newReviewFixture()
	product := seedProduct(t, products, "Keyboard", 100, 10)

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.AddReview(context.Background(), uuid.New(), product.ProductID, AddReviewInput{Rating: rating})
		require.Error(t, err)
		require.Equal(t, er.InvalidValueCode, er.CodeOf(err))
	}
}

func TestAddReviewVerifiedPurchase(t *testing.T) {
	svc, products, reviews, _ := newReviewFixture()
	product := seedProduct(t, products, "Keyboard", 100, 10)
	buyer := uuid.New()
	reviews.markPurchased(buyer, product.ProductID)

	review, err := svc.AddReview(context.Background(), buyer, product.ProductID, AddReviewInput{Rating: 5})
	require.NoError(t, err)
	require.True(t, review.VerifiedPurchase)

	review, err = svc.AddReview(context.Background(), uuid.New(), product.ProductID, AddReviewInput{Rating: 3})
	require.NoError(t, err)
	require.False(t, review.VerifiedPurchase)
}

func TestAddReviewUnknownProduct(t *testing.T) {
	svc, _, _, _ := newReviewFixture()

	_, err := svc.AddReview(context.Background(), uuid.New(), 9999, AddReviewInput{Rating: 4})
	require.Equal(t, er.NotFoundCode, er.CodeOf(err))
}

func TestListReviews(t *testing.T) {
	svc, products, _, _ := newReviewFixture()
	product := seedProduct(t, products, "Keyboard", 100, 10)

	_, err := svc.AddReview(context.Background(), uuid.New(), product.ProductID, AddReviewInput{Rating: 4, Comment: "  ok  "})
	require.NoError(t, err)

	list, err := svc.ListReviews(context.Background(), product.ProductID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "ok", list[0].Comment)

	_, err = svc.ListReviews(context.Background(), 9999)
	require.Equal(t, er.NotFoundCode, er.CodeOf(err))
}
