package services

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lookmate/lookmate-backend/internal/models"
)

const productPage = `<!doctype html>
<html><head>
<title>fallback title</title>
<meta property="og:title" content="Wool Trench Coat">
<meta property="og:image" content="/img/coat.jpg">
<meta property="og:site_name" content="ACME">
<meta property="product:price:amount" content="129,000">
<meta name="keywords" content="Classic, Wool, Classic">
</head><body></body></html>`

func TestParseProductDocument(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(productPage))
	require.NoError(t, err)
	pageURL, _ := url.Parse("https://shop.example.com/p/1")

	product := parseProductDocument(doc, pageURL)
	assert.Equal(t, "Wool Trench Coat", product.Name)
	assert.Equal(t, "ACME", product.Brand)
	assert.Equal(t, "https://shop.example.com/img/coat.jpg", product.ThumbnailURL)
	assert.Equal(t, "https://shop.example.com/p/1", product.ProductURL)
	assert.Equal(t, 129000.0, product.Price)
	assert.Equal(t, "KRW", product.Currency)
	assert.Equal(t, models.CategoryOuter, product.Category)
	assert.Equal(t, models.StringList{"Classic", "Wool"}, product.Tags)
}

func TestParsePrice(t *testing.T) {
	assert.Equal(t, 39000.0, parsePrice("₩39,000원"))
	assert.Equal(t, 39000.0, parsePrice("39000.00"))
	assert.Equal(t, 0.0, parsePrice("free"))
}

func TestGuessCategory(t *testing.T) {
	assert.Equal(t, models.CategoryOnepiece, GuessCategory("Floral Midi Dress"))
	assert.Equal(t, models.CategoryShoes, GuessCategory("Canvas Sneakers"))
	assert.Equal(t, models.CategoryBottom, GuessCategory("와이드 슬랙스"))
	assert.Equal(t, models.CategoryTop, GuessCategory("Something else"))
}

func TestPreviewMapsProductToItem(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, productPage)
	}))
	defer srv.Close()

	s := NewProductService(nil, nil, WithPreviewClient(srv.Client()))
	item, err := s.Preview(context.Background(), &PreviewRequest{URL: srv.URL + "/p/1"})
	require.NoError(t, err)

	assert.Equal(t, "Wool Trench Coat", item.Memo)
	assert.Equal(t, "ACME", item.Brand)
	assert.Equal(t, srv.URL+"/img/coat.jpg", item.ImageURL)
	assert.Equal(t, srv.URL+"/p/1", item.ShoppingURL)
	require.NotNil(t, item.Price)
	assert.Equal(t, 129000.0, *item.Price)
}

func TestPreviewFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	s := NewProductService(nil, nil, WithPreviewClient(srv.Client()))
	_, err := s.Preview(context.Background(), &PreviewRequest{URL: srv.URL})
	assert.ErrorIs(t, err, ErrPreviewFailed)

	_, err = s.Preview(context.Background(), &PreviewRequest{URL: "ftp://example.com/file"})
	assert.ErrorIs(t, err, ErrURLForbidden)

	var validation *ValidationError
	_, err = s.Preview(context.Background(), &PreviewRequest{URL: "not a url"})
	assert.ErrorAs(t, err, &validation)
}

func TestPreviewRefusesLoopback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, productPage)
	}))
	defer srv.Close()

	s := NewProductService(nil, nil)
	_, err := s.Preview(context.Background(), &PreviewRequest{URL: srv.URL})
	assert.ErrorIs(t, err, ErrURLForbidden)
}

func TestSimilarityScore(t *testing.T) {
	reference := &models.ClothingItem{Category: models.CategoryTop, Color: "Navy", Tags: models.StringList{"casual", "cotton"}}
	product := &models.Product{Category: models.CategoryTop, Colors: models.StringList{"navy"}, Tags: models.StringList{"casual"}}

	assert.InDelta(t, 0.4+0.3+0.3*0.5, similarity(reference, "top", product), 1e-9)
	assert.InDelta(t, 0.0, similarity(nil, "bottom", product), 1e-9)

	products := []models.Product{{Name: "a", Price: 30}, {Name: "b", Price: 10}, {Name: "c", Price: 20}}
	sortProducts(products, SortPriceAsc)
	assert.Equal(t, "b", products[0].Name)
	sortProducts(products, SortPriceDesc)
	assert.Equal(t, "a", products[0].Name)
}
