// internal/services/product_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lookmate/lookmate-backend/internal/models"
	"github.com/lookmate/lookmate-backend/internal/utils"
)

const (
	SortRecommend = "recommend"
	SortPriceAsc  = "priceAsc"
	SortPriceDesc = "priceDesc"
	SortSales     = "sales"
)

type ProductService struct {
	db            *gorm.DB
	closetService *ClosetService
	client        *http.Client
}

type SimilarProductParams struct {
	ItemID   string   `form:"itemId" validate:"omitempty,uuid"`
	Category string   `form:"category" validate:"omitempty,category"`
	MinPrice *float64 `form:"minPrice" validate:"omitempty,gte=0"`
	MaxPrice *float64 `form:"maxPrice" validate:"omitempty,gte=0"`
	SortBy   string   `form:"sortBy" validate:"omitempty,oneof=recommend priceAsc priceDesc sales"`
	Limit    int      `form:"limit" validate:"omitempty,min=1,max=50"`
}

type PreviewRequest struct {
	URL string `json:"url" validate:"required,url"`
}

type ProductServiceOption func(*ProductService)

// WithPreviewClient replaces the HTTP client used to fetch product pages.
func WithPreviewClient(client *http.Client) ProductServiceOption {
	return func(s *ProductService) {
		s.client = client
	}
}

func NewProductService(db *gorm.DB, closetService *ClosetService, opts ...ProductServiceOption) *ProductService {
	s := &ProductService{
		db:            db,
		closetService: closetService,
		client:        newPreviewClient(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// newPreviewClient refuses to dial loopback, private and link-local
// addresses so user supplied URLs cannot reach internal services.
func newPreviewClient() *http.Client {
	dialer := &net.Dialer{
		Timeout: 5 * time.Second,
		Control: func(network, address string, _ syscall.RawConn) error {
			host, _, err := net.SplitHostPort(address)
			if err != nil {
				return err
			}
			ip := net.ParseIP(host)
			if ip == nil || ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsUnspecified() {
				return ErrURLForbidden
			}
			return nil
		},
	}
	return &http.Client{
		Timeout: 10 * time.Second,
		Transport: &http.Transport{
			DialContext:         dialer.DialContext,
			MaxIdleConns:        10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 5 * time.Second,
		},
	}
}

// FindSimilar searches the catalog for products resembling a closet item or
// matching explicit filters.
func (s *ProductService) FindSimilar(userID uuid.UUID, params *SimilarProductParams) ([]models.Product, error) {
	if err := utils.ValidateStruct(params); err != nil {
		return nil, validationFailed(err)
	}

	var reference *models.ClothingItem
	if params.ItemID != "" {
		itemID, err := uuid.Parse(params.ItemID)
		if err != nil {
			return nil, validationFailed(err)
		}
		item, err := s.closetService.GetItem(itemID, userID)
		if err != nil {
			return nil, err
		}
		reference = item
	}

	category := params.Category
	if category == "" && reference != nil {
		category = string(reference.Category)
	}

	query := s.db.Model(&models.Product{})
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if params.MinPrice != nil {
		query = query.Where("price >= ?", *params.MinPrice)
	}
	if params.MaxPrice != nil {
		query = query.Where("price <= ?", *params.MaxPrice)
	}

	products := []models.Product{}
	if err := query.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}

	for i := range products {
		products[i].SimilarityScore = similarity(reference, category, &products[i])
	}
	sortProducts(products, params.SortBy)

	limit := params.Limit
	if limit == 0 {
		limit = 10
	}
	if len(products) > limit {
		products = products[:limit]
	}
	return products, nil
}

// similarity scores 0..1: category match 0.4, color match 0.3 and tag
// overlap (Jaccard) 0.3.
func similarity(reference *models.ClothingItem, category string, p *models.Product) float64 {
	score := 0.0
	if category != "" && string(p.Category) == category {
		score += 0.4
	}
	if reference == nil {
		return score
	}
	for _, c := range p.Colors {
		if strings.EqualFold(c, reference.Color) {
			score += 0.3
			break
		}
	}
	if union := len(unionTags(reference.Tags, p.Tags)); union > 0 {
		score += 0.3 * float64(len(intersectTags(reference.Tags, p.Tags))) / float64(union)
	}
	return score
}

func unionTags(a, b models.StringList) map[string]struct{} {
	set := make(map[string]struct{}, len(a)+len(b))
	for _, t := range a {
		set[strings.ToLower(t)] = struct{}{}
	}
	for _, t := range b {
		set[strings.ToLower(t)] = struct{}{}
	}
	return set
}

func intersectTags(a, b models.StringList) map[string]struct{} {
	inA := make(map[string]struct{}, len(a))
	for _, t := range a {
		inA[strings.ToLower(t)] = struct{}{}
	}
	set := make(map[string]struct{})
	for _, t := range b {
		if _, ok := inA[strings.ToLower(t)]; ok {
			set[strings.ToLower(t)] = struct{}{}
		}
	}
	return set
}

func sortProducts(products []models.Product, sortBy string) {
	sort.SliceStable(products, func(i, j int) bool {
		a, b := products[i], products[j]
		switch sortBy {
		case SortPriceAsc:
			return a.Price < b.Price
		case SortPriceDesc:
			return a.Price > b.Price
		case SortSales:
			return a.SalesVolumeScore > b.SalesVolumeScore
		default:
			if a.SimilarityScore != b.SimilarityScore {
				return a.SimilarityScore > b.SimilarityScore
			}
			return a.Rating > b.Rating
		}
	})
}

// Preview reads a product page and maps its Open Graph metadata to a
// clothing item draft. Nothing is saved.
func (s *ProductService) Preview(ctx context.Context, req *PreviewRequest) (*models.ClothingItem, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationFailed(err)
	}
	pageURL, err := url.Parse(req.URL)
	if err != nil || (pageURL.Scheme != "http" && pageURL.Scheme != "https") {
		return nil, ErrURLForbidden
	}

	doc, err := s.fetchDocument(ctx, pageURL.String())
	if err != nil {
		return nil, err
	}

	product := parseProductDocument(doc, pageURL)
	item := product.ToClothingItem()
	return &item, nil
}

func (s *ProductService) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}

	// Common headers to mimic a real browser
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "ko-KR,ko;q=0.9,en-US;q=0.8")

	res, err := s.client.Do(req)
	if err != nil {
		if errors.Is(err, ErrURLForbidden) {
			return nil, ErrURLForbidden
		}
		return nil, fmt.Errorf("%w: %v", ErrPreviewFailed, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %s", ErrPreviewFailed, res.Status)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPreviewFailed, err)
	}
	return doc, nil
}

func metaContent(doc *goquery.Document, selectors ...string) string {
	for _, sel := range selectors {
		if v, ok := doc.Find(sel).First().Attr("content"); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func parseProductDocument(doc *goquery.Document, pageURL *url.URL) models.Product {
	name := metaContent(doc, `meta[property="og:title"]`, `meta[name="twitter:title"]`)
	if name == "" {
		name = strings.TrimSpace(doc.Find("title").First().Text())
	}

	image := metaContent(doc, `meta[property="og:image"]`, `meta[name="twitter:image"]`)
	if image != "" {
		if ref, err := url.Parse(image); err == nil {
			image = pageURL.ResolveReference(ref).String()
		}
	}

	priceText := metaContent(doc,
		`meta[property="product:price:amount"]`,
		`meta[property="og:price:amount"]`,
		`meta[itemprop="price"]`,
	)
	if priceText == "" {
		priceText = strings.TrimSpace(doc.Find(`[itemprop="price"]`).First().Text())
	}

	currency := metaContent(doc, `meta[property="product:price:currency"]`, `meta[property="og:price:currency"]`)
	if currency == "" {
		currency = "KRW"
	}

	brand := metaContent(doc, `meta[property="product:brand"]`, `meta[property="og:site_name"]`)
	productURL := metaContent(doc, `meta[property="og:url"]`)
	if productURL == "" {
		productURL = pageURL.String()
	}

	var tags models.StringList
	if keywords := metaContent(doc, `meta[name="keywords"]`); keywords != "" {
		tags = models.StringList(strings.Split(keywords, ",")).Normalize()
	}

	return models.Product{
		Name:         name,
		Brand:        brand,
		ThumbnailURL: image,
		ProductURL:   productURL,
		Price:        parsePrice(priceText),
		Currency:     currency,
		Category:     GuessCategory(name),
		Tags:         tags,
	}
}

// parsePrice accepts "39,000", "₩39,000원" or "39000.00".
func parsePrice(text string) float64 {
	var b strings.Builder
	for _, r := range text {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	price, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return price
}

var categoryKeywords = []struct {
	category models.Category
	words    []string
}{
	{models.CategoryOnepiece, []string{"dress", "onepiece", "one-piece", "jumpsuit", "원피스"}},
	{models.CategoryOuter, []string{"coat", "jacket", "cardigan", "parka", "blazer", "코트", "자켓", "재킷", "가디건", "패딩"}},
	{models.CategoryShoes, []string{"shoes", "sneakers", "boots", "loafer", "sandal", "신발", "스니커즈", "부츠"}},
	{models.CategoryBottom, []string{"pants", "jeans", "skirt", "shorts", "slacks", "바지", "청바지", "스커트", "슬랙스"}},
	{models.CategoryAccessory, []string{"bag", "hat", "cap", "belt", "necklace", "earring", "가방", "모자", "벨트"}},
	{models.CategoryTop, []string{"shirt", "tee", "t-shirt", "blouse", "sweater", "hoodie", "knit", "셔츠", "티셔츠", "블라우스", "니트", "후드"}},
}

// GuessCategory picks a category from keywords in a product name, defaulting to top.
func GuessCategory(name string) models.Category {
	lower := strings.ToLower(name)
	for _, entry := range categoryKeywords {
		for _, w := range entry.words {
			if strings.Contains(lower, w) {
				return entry.category
			}
		}
	}
	return models.CategoryTop
}
