package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lineacommerce/backoffice-backend/internal/inventory"
	"github.com/lineacommerce/backoffice-backend/pkg/db/models"
	"github.com/lineacommerce/backoffice-backend/pkg/enums"
	pkgerrors "github.com/lineacommerce/backoffice-backend/pkg/errors"
)

type stubCatalogRepo struct {
	products   map[uuid.UUID]*models.Product
	categories map[uuid.UUID]*models.Category

	createProduct func(ctx context.Context, product *models.Product) error
	listProducts  func(ctx context.Context, filter ProductFilter) ([]models.Product, error)
	deleteProduct func(ctx context.Context, id uuid.UUID) error
}

func newStubCatalogRepo() *stubCatalogRepo {
	return &stubCatalogRepo{
		products:   make(map[uuid.UUID]*models.Product),
		categories: make(map[uuid.UUID]*models.Category),
	}
}

func (s *stubCatalogRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubCatalogRepo) CreateProduct(ctx context.Context, product *models.Product) error {
	if s.createProduct != nil {
		return s.createProduct(ctx, product)
	}
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	s.products[product.ID] = product
	return nil
}

func (s *stubCatalogRepo) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, ok := s.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *product
	return &copied, nil
}

func (s *stubCatalogRepo) ListProducts(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	if s.listProducts != nil {
		return s.listProducts(ctx, filter)
	}
	out := make([]models.Product, 0, len(s.products))
	for _, product := range s.products {
		out = append(out, *product)
	}
	return out, nil
}

func (s *stubCatalogRepo) UpdateProduct(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	product, ok := s.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if name, ok := updates["name"].(string); ok {
		product.Name = name
	}
	if price, ok := updates["price"].(decimal.Decimal); ok {
		product.Price = price
	}
	if active, ok := updates["is_active"].(bool); ok {
		product.IsActive = active
	}
	return nil
}

func (s *stubCatalogRepo) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if s.deleteProduct != nil {
		return s.deleteProduct(ctx, id)
	}
	if _, ok := s.products[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.products, id)
	return nil
}

func (s *stubCatalogRepo) CreateCategory(ctx context.Context, category *models.Category) error {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	s.categories[category.ID] = category
	return nil
}

func (s *stubCatalogRepo) FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	category, ok := s.categories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *category
	return &copied, nil
}

func (s *stubCatalogRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	out := make([]models.Category, 0, len(s.categories))
	for _, category := range s.categories {
		out = append(out, *category)
	}
	return out, nil
}

func (s *stubCatalogRepo) UpdateCategory(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	category, ok := s.categories[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if name, ok := updates["name"].(string); ok {
		category.Name = name
	}
	return nil
}

func (s *stubCatalogRepo) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.categories[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.categories, id)
	return nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubLedger struct {
	credits []inventory.MovementInput
	err     error
}

func (s *stubLedger) CreditTx(ctx context.Context, tx *gorm.DB, input inventory.MovementInput) (*models.StockMovement, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.credits = append(s.credits, input)
	return &models.StockMovement{
		ID:            uuid.New(),
		ProductID:     input.ProductID,
		Type:          enums.MovementTypeIn,
		Quantity:      input.Quantity,
		PreviousStock: 0,
		NewStock:      input.Quantity,
		Reason:        input.Reason,
	}, nil
}

func newTestService(t *testing.T, repo Repository, ledger *stubLedger) Service {
	t.Helper()
	svc, err := NewService(repo, stubTxRunner{}, ledger, 5)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestCreateProductWithInitialStock(t *testing.T) {
	repo := newStubCatalogRepo()
	ledger := &stubLedger{}
	svc := newTestService(t, repo, ledger)

	product, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Name:         "Mechanical Keyboard",
		Price:        decimal.NewFromFloat(79.90),
		InitialStock: 12,
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	if product.Stock != 12 {
		t.Fatalf("expected stock 12, got %d", product.Stock)
	}
	if len(ledger.credits) != 1 {
		t.Fatalf("expected one ledger credit, got %d", len(ledger.credits))
	}
	if ledger.credits[0].Reason != "initial stock" {
		t.Fatalf("unexpected reason %q", ledger.credits[0].Reason)
	}
	if product.Type != defaultProductType {
		t.Fatalf("expected default type, got %q", product.Type)
	}
}

func TestCreateProductWithoutStockSkipsLedger(t *testing.T) {
	repo := newStubCatalogRepo()
	ledger := &stubLedger{}
	svc := newTestService(t, repo, ledger)

	product, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Name:  "Gift Card",
		Price: decimal.NewFromInt(25),
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	if product.Stock != 0 {
		t.Fatalf("expected stock 0, got %d", product.Stock)
	}
	if len(ledger.credits) != 0 {
		t.Fatalf("no ledger entry expected, got %d", len(ledger.credits))
	}
}

func TestCreateProductValidation(t *testing.T) {
	svc := newTestService(t, newStubCatalogRepo(), &stubLedger{})

	cases := []CreateProductInput{
		{Name: "  ", Price: decimal.NewFromInt(1)},
		{Name: "Negative", Price: decimal.NewFromInt(-1)},
		{Name: "Bad stock", Price: decimal.NewFromInt(1), InitialStock: -2},
	}
	for _, input := range cases {
		_, err := svc.CreateProduct(context.Background(), input)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error for %+v, got %v", input, err)
		}
	}
}

func TestListProductsPassesLowStockThreshold(t *testing.T) {
	repo := newStubCatalogRepo()
	var captured ProductFilter
	repo.listProducts = func(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
		captured = filter
		return nil, nil
	}
	svc := newTestService(t, repo, &stubLedger{})

	_, err := svc.ListProducts(context.Background(), ListProductsInput{Stock: StockFilterLowStock})
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if captured.Stock != StockFilterLowStock {
		t.Fatalf("expected low stock filter, got %q", captured.Stock)
	}
	if captured.LowStockMax != 5 {
		t.Fatalf("expected threshold 5, got %d", captured.LowStockMax)
	}
}

func TestListProductsRejectsUnknownStockFilter(t *testing.T) {
	svc := newTestService(t, newStubCatalogRepo(), &stubLedger{})

	_, err := svc.ListProducts(context.Background(), ListProductsInput{Stock: "backorder"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateProductPartialFields(t *testing.T) {
	repo := newStubCatalogRepo()
	productID := uuid.New()
	repo.products[productID] = &models.Product{
		ID:       productID,
		Name:     "Old Name",
		Price:    decimal.NewFromInt(10),
		IsActive: true,
	}
	svc := newTestService(t, repo, &stubLedger{})

	name := "New Name"
	inactive := false
	updated, err := svc.UpdateProduct(context.Background(), productID, UpdateProductInput{
		Name:     &name,
		IsActive: &inactive,
	})
	if err != nil {
		t.Fatalf("update product: %v", err)
	}
	if updated.Name != "New Name" {
		t.Fatalf("expected renamed product, got %q", updated.Name)
	}
	if updated.IsActive {
		t.Fatalf("expected product deactivated")
	}
	if !updated.Price.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("price should be untouched, got %s", updated.Price)
	}
}

func TestDeleteProductNotFound(t *testing.T) {
	svc := newTestService(t, newStubCatalogRepo(), &stubLedger{})

	err := svc.DeleteProduct(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestCategoryLifecycle(t *testing.T) {
	repo := newStubCatalogRepo()
	svc := newTestService(t, repo, &stubLedger{})
	ctx := context.Background()

	category, err := svc.CreateCategory(ctx, CategoryInput{Name: "Peripherals"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}

	updated, err := svc.UpdateCategory(ctx, category.ID, CategoryInput{Name: "Accessories"})
	if err != nil {
		t.Fatalf("update category: %v", err)
	}
	if updated.Name != "Accessories" {
		t.Fatalf("expected renamed category, got %q", updated.Name)
	}

	if err := svc.DeleteCategory(ctx, category.ID); err != nil {
		t.Fatalf("delete category: %v", err)
	}
	if _, err := svc.GetCategory(ctx, category.ID); pkgerrors.As(err) == nil {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}
