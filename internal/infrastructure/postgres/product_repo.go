package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/example/storefront/internal/catalog"
	"github.com/example/storefront/internal/errs"
)

const productColumns = `id, name, description, price, discounted_price, stock_left,
	company_name, packing_price, shipping_price, tax, images, colours, variants,
	video, created_at, updated_at`

// ProductRepo implements catalog.Repository.
type ProductRepo struct {
	db *sql.DB
}

func NewProductRepo(db *sql.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

func (r *ProductRepo) List(ctx context.Context) ([]catalog.Product, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY created_at DESC`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	products := []catalog.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, mapError(err)
		}
		products = append(products, *p)
	}
	return products, mapError(rows.Err())
}

func (r *ProductRepo) Get(ctx context.Context, id string) (*catalog.Product, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, errs.NotFoundf("product %s", id)
	}
	if err != nil {
		return nil, mapError(err)
	}
	return p, nil
}

func (r *ProductRepo) Create(ctx context.Context, p *catalog.Product) error {
	images, err := catalog.EncodeField(p.Images)
	if err != nil {
		return mapError(err)
	}
	colours, err := catalog.EncodeField(p.Colours)
	if err != nil {
		return mapError(err)
	}
	variants, err := catalog.EncodeField(p.Variants)
	if err != nil {
		return mapError(err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO products
			(id, name, description, price, discounted_price, stock_left, company_name,
			 packing_price, shipping_price, tax, images, colours, variants, video,
			 created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		p.ID, p.Name, p.Description, p.Price, nullDecimal(p.DiscountedPrice),
		p.StockLeft, p.CompanyName, p.PackingPrice, p.ShippingPrice, p.Tax,
		nullBytes(images), nullBytes(colours), nullBytes(variants), p.Video,
		p.CreatedAt, p.UpdatedAt)
	return mapError(err)
}

// Update builds a SET clause from the allow-listed fields present in u.
// Nothing outside that list can ever reach a column.
func (r *ProductRepo) Update(ctx context.Context, id string, u catalog.Update) (*catalog.Product, error) {
	sets := []string{}
	args := []any{}
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if u.Name != nil {
		add("name", *u.Name)
	}
	if u.Description != nil {
		add("description", *u.Description)
	}
	if u.Price != nil {
		add("price", *u.Price)
	}
	if u.DiscountedPrice != nil {
		add("discounted_price", *u.DiscountedPrice)
	}
	if u.StockLeft != nil {
		add("stock_left", u.StockLeft.IntPart())
	}
	if u.CompanyName != nil {
		add("company_name", *u.CompanyName)
	}
	if u.PackingPrice != nil {
		add("packing_price", *u.PackingPrice)
	}
	if u.ShippingPrice != nil {
		add("shipping_price", *u.ShippingPrice)
	}
	if u.Tax != nil {
		add("tax", *u.Tax)
	}
	if u.Images != nil {
		raw, err := catalog.EncodeField(*u.Images)
		if err != nil {
			return nil, mapError(err)
		}
		add("images", nullBytes(raw))
	}
	if u.Colours != nil {
		raw, err := catalog.EncodeField(*u.Colours)
		if err != nil {
			return nil, mapError(err)
		}
		add("colours", nullBytes(raw))
	}
	if u.Variants != nil {
		raw, err := catalog.EncodeField(*u.Variants)
		if err != nil {
			return nil, mapError(err)
		}
		add("variants", nullBytes(raw))
	}
	if u.Video != nil {
		add("video", *u.Video)
	}
	if len(sets) == 0 {
		return nil, errs.Validationf("no valid fields to update")
	}

	args = append(args, id)
	query := fmt.Sprintf(
		`UPDATE products SET %s, updated_at = NOW() WHERE id = $%d RETURNING `+productColumns,
		strings.Join(sets, ", "), len(args))

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, errs.NotFoundf("product %s", id)
	}
	if err != nil {
		return nil, mapError(err)
	}
	return p, nil
}

func (r *ProductRepo) Delete(ctx context.Context, id string) (*catalog.Product, error) {
	row := r.db.QueryRowContext(ctx,
		`DELETE FROM products WHERE id = $1 RETURNING `+productColumns, id)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, errs.NotFoundf("product %s", id)
	}
	if err != nil {
		return nil, mapError(err)
	}
	return p, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*catalog.Product, error) {
	var p catalog.Product
	var discounted decimal.NullDecimal
	var images, colours, variants []byte
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &discounted,
		&p.StockLeft, &p.CompanyName, &p.PackingPrice, &p.ShippingPrice, &p.Tax,
		&images, &colours, &variants, &p.Video, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if discounted.Valid {
		p.DiscountedPrice = &discounted.Decimal
	}
	// A blob that fails to decode falls back to an empty structure; one bad
	// row never fails a whole listing.
	p.Images = catalog.DecodeImages(images)
	p.Colours = catalog.DecodeMeta(colours)
	p.Variants = catalog.DecodeMeta(variants)
	return &p, nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func nullBytes(b []byte) any {
	if b == nil {
		return nil
	}
	return b
}
