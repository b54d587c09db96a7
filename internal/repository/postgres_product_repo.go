package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/hitoshi/digistore/internal/model"
)

const productColumns = `id, name, description, price, category,
	image_base64, file_base64, file_name, file_type, is_active, created_at, created_by`

// likeEscaper はILIKEパターン中のワイルドカードをリテラルとして扱うためのReplacer。
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// PostgresProductRepo はPostgreSQLを使用した商品リポジトリ。
type PostgresProductRepo struct {
	db *sql.DB
}

// NewPostgresProductRepo はPostgresProductRepoを生成する。
func NewPostgresProductRepo(db *sql.DB) *PostgresProductRepo {
	return &PostgresProductRepo{db: db}
}

// ListActive は公開中の商品をfilterで絞り込んで返す。
// Searchは名前または説明に対する大文字小文字を区別しない部分一致で評価する。
func (r *PostgresProductRepo) ListActive(ctx context.Context, filter model.ProductFilter, limit int) ([]*model.Product, error) {
	var (
		conds = []string{"is_active = true"}
		args  []any
	)
	if filter.Category != "" {
		args = append(args, filter.Category)
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+likeEscaper.Replace(filter.Search)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d)", n, n))
	}
	args = append(args, clampLimit(limit))

	query := fmt.Sprintf(
		`SELECT %s FROM products WHERE %s ORDER BY created_at DESC LIMIT $%d`,
		productColumns, strings.Join(conds, " AND "), len(args),
	)
	return r.queryProducts(ctx, query, args...)
}

// ListAll は非公開を含む全商品を返す。
func (r *PostgresProductRepo) ListAll(ctx context.Context, limit int) ([]*model.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products ORDER BY created_at DESC LIMIT $1`, productColumns)
	return r.queryProducts(ctx, query, clampLimit(limit))
}

// FindActiveByID は公開中の商品を取得する。見つからない場合はnilを返す。
func (r *PostgresProductRepo) FindActiveByID(ctx context.Context, id string) (*model.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1 AND is_active = true`, productColumns)
	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return product, nil
}

// Create は商品を作成する。
func (r *PostgresProductRepo) Create(ctx context.Context, p *model.Product) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO products (id, name, description, price, category,
		   image_base64, file_base64, file_name, file_type, is_active, created_at, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		p.ID, p.Name, p.Description, p.Price, p.Category,
		p.ImageBase64, p.FileBase64, p.FileName, p.FileType, p.IsActive, p.CreatedAt, p.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}
	return nil
}

// UpdateActive は公開中の商品の編集可能フィールドを更新する。
// 非公開の商品は更新対象に含めず、nilを返す。
func (r *PostgresProductRepo) UpdateActive(ctx context.Context, id string, in model.ProductInput) (*model.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	query := fmt.Sprintf(
		`UPDATE products
		 SET name = $2, description = $3, price = $4, category = $5,
		     image_base64 = $6, file_base64 = $7, file_name = $8, file_type = $9
		 WHERE id = $1 AND is_active = true
		 RETURNING %s`, productColumns)
	product, err := scanProduct(r.db.QueryRowContext(ctx, query,
		id, in.Name, in.Description, in.Price, in.Category,
		in.ImageBase64, in.FileBase64, in.FileName, in.FileType,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return product, nil
}

// Deactivate は公開中の商品を非公開にする。
func (r *PostgresProductRepo) Deactivate(ctx context.Context, id string) (bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, nil
	}
	result, err := r.db.ExecContext(ctx,
		`UPDATE products SET is_active = false WHERE id = $1 AND is_active = true`,
		id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to deactivate product: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

func (r *PostgresProductRepo) queryProducts(ctx context.Context, query string, args ...any) ([]*model.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := make([]*model.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}
	return products, nil
}

// rowScanner は*sql.Rowと*sql.Rowsの共通インターフェース。
type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(s rowScanner) (*model.Product, error) {
	p := &model.Product{}
	err := s.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Category,
		&p.ImageBase64, &p.FileBase64, &p.FileName, &p.FileType,
		&p.IsActive, &p.CreatedAt, &p.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}

// compile-time interface check
var _ ProductRepository = (*PostgresProductRepo)(nil)
