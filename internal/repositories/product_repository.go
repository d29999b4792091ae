package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mandi-backend/internal/apperrors"
	"mandi-backend/internal/models"
)

type ProductRepository struct {
	DB *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{DB: db}
}

func (r *ProductRepository) CreateCategory(ctx context.Context, c *models.Category) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO categories (commissioner_id, name) VALUES ($1, $2) RETURNING id, created_at`,
		c.CommissionerID, c.Name,
	).Scan(&c.ID, &c.CreatedAt)
}

func (r *ProductRepository) ListCategories(ctx context.Context, commissionerID int) ([]*models.Category, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, commissioner_id, name, created_at FROM categories WHERE commissioner_id = $1 ORDER BY name`,
		commissionerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		c := &models.Category{}
		if err := rows.Scan(&c.ID, &c.CommissionerID, &c.Name, &c.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// DeleteCategory removes a category unless it still has products.
func (r *ProductRepository) DeleteCategory(ctx context.Context, id, commissionerID int) error {
	var productCount int
	err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM products WHERE category_id = $1`, id).Scan(&productCount)
	if err != nil {
		return err
	}
	if productCount > 0 {
		return apperrors.Conflictf("category has %d product(s)", productCount)
	}

	tag, err := r.DB.Exec(ctx,
		`DELETE FROM categories WHERE id = $1 AND commissioner_id = $2`, id, commissionerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("category not found")
	}
	return nil
}

func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	query := `
		INSERT INTO products (commissioner_id, category_id, name, is_active)
		VALUES ($1, $2, $3, TRUE)
		RETURNING id, is_active, created_at, updated_at
	`
	return r.DB.QueryRow(ctx, query,
		p.CommissionerID, p.CategoryID, p.Name,
	).Scan(&p.ID, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
}

func (r *ProductRepository) Get(ctx context.Context, id, commissionerID int) (*models.Product, error) {
	query := `
		SELECT p.id, p.commissioner_id, p.category_id, COALESCE(c.name, ''), p.name,
		       p.is_active, p.created_at, p.updated_at
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		WHERE p.id = $1 AND p.commissioner_id = $2
	`
	p := &models.Product{}
	err := r.DB.QueryRow(ctx, query, id, commissionerID).Scan(
		&p.ID, &p.CommissionerID, &p.CategoryID, &p.CategoryName, &p.Name,
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("product not found")
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *ProductRepository) List(ctx context.Context, commissionerID int) ([]*models.Product, error) {
	query := `
		SELECT p.id, p.commissioner_id, p.category_id, COALESCE(c.name, ''), p.name,
		       p.is_active, p.created_at, p.updated_at
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		WHERE p.commissioner_id = $1
		ORDER BY p.name
	`
	rows, err := r.DB.Query(ctx, query, commissionerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		p := &models.Product{}
		err := rows.Scan(
			&p.ID, &p.CommissionerID, &p.CategoryID, &p.CategoryName, &p.Name,
			&p.IsActive, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *ProductRepository) Update(ctx context.Context, p *models.Product) error {
	query := `
		UPDATE products
		SET category_id = $1, name = $2, is_active = $3, updated_at = CURRENT_TIMESTAMP
		WHERE id = $4 AND commissioner_id = $5
		RETURNING updated_at
	`
	err := r.DB.QueryRow(ctx, query,
		p.CategoryID, p.Name, p.IsActive, p.ID, p.CommissionerID,
	).Scan(&p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NotFound("product not found")
	}
	return err
}

// Delete removes a product unless auction items or bills still reference it.
func (r *ProductRepository) Delete(ctx context.Context, id, commissionerID int) error {
	var itemRefs, billRefs int
	err := r.DB.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM auction_items WHERE product_id = $1),
			(SELECT COUNT(*) FROM bills WHERE product_id = $1)
	`, id).Scan(&itemRefs, &billRefs)
	if err != nil {
		return err
	}
	if itemRefs > 0 || billRefs > 0 {
		return apperrors.Conflictf("product is referenced by %d auction item(s) and %d bill(s)", itemRefs, billRefs)
	}

	tag, err := r.DB.Exec(ctx,
		`DELETE FROM products WHERE id = $1 AND commissioner_id = $2`, id, commissionerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("product not found")
	}
	return nil
}
