package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

var ErrProductNotFound = errors.New("product not found")

// Repository defines the catalog data operations. Consumers depend on this
// interface, not on the sqlite implementation.
type Repository interface {
	GetProduct(ctx context.Context, id int64) (*Product, error)
	ListAvailable(ctx context.Context) ([]Product, error)
	ListAll(ctx context.Context) ([]Product, error)
	CreateProduct(ctx context.Context, p *Product) error
	UpdateProduct(ctx context.Context, p *Product) error
	DeleteProduct(ctx context.Context, id int64) error
	Close() error
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) RunMigrations(migrationsPath string) error {
	driver, err := sqlite.WithInstance(r.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", migrationsPath),
		"sqlite",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

const productColumns = "id, name, description, price, stock, category, image_url, created_at"

func scanProduct(row interface{ Scan(...any) error }) (*Product, error) {
	p := &Product{}
	var rawPrice string
	var createdAt string

	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&rawPrice,
		&p.Stock,
		&p.Category,
		&p.ImageURL,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	p.Price, err = decimal.NewFromString(rawPrice)
	if err != nil {
		return nil, fmt.Errorf("invalid price %q for product %d: %w", rawPrice, p.ID, err)
	}

	p.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at %q for product %d: %w", createdAt, p.ID, err)
	}

	return p, nil
}

func (r *SQLiteRepository) GetProduct(ctx context.Context, id int64) (*Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = ?`, productColumns)

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query product: %w", err)
	}
	return p, nil
}

func (r *SQLiteRepository) list(ctx context.Context, query string) ([]Product, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return products, nil
}

// ListAvailable returns in-stock products, newest first.
func (r *SQLiteRepository) ListAvailable(ctx context.Context) ([]Product, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM products WHERE stock > 0 ORDER BY created_at DESC, id DESC`,
		productColumns,
	)
	return r.list(ctx, query)
}

// ListAll returns every product, newest first, for the admin screens.
func (r *SQLiteRepository) ListAll(ctx context.Context) ([]Product, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM products ORDER BY created_at DESC, id DESC`,
		productColumns,
	)
	return r.list(ctx, query)
}

func (r *SQLiteRepository) CreateProduct(ctx context.Context, p *Product) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO products (name, description, price, stock, category, image_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	res, err := r.db.ExecContext(ctx, query,
		p.Name,
		p.Description,
		p.Price.String(),
		p.Stock,
		p.Category,
		p.ImageURL,
		p.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}

	p.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read inserted id: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateProduct(ctx context.Context, p *Product) error {
	query := `
		UPDATE products
		SET name = ?, description = ?, price = ?, stock = ?, category = ?, image_url = ?
		WHERE id = ?
	`
	res, err := r.db.ExecContext(ctx, query,
		p.Name,
		p.Description,
		p.Price.String(),
		p.Stock,
		p.Category,
		p.ImageURL,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// DeleteProduct removes a product. Deleting an absent id is a no-op.
func (r *SQLiteRepository) DeleteProduct(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}
