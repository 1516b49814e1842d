package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/recipe-parser/internal/domain"
)

const uniqueViolation = "23505"

const schema = `
CREATE TABLE IF NOT EXISTS recipes (
	id          UUID PRIMARY KEY,
	url         TEXT NOT NULL UNIQUE,
	title       TEXT NOT NULL,
	image_url   TEXT,
	ingredients TEXT[] NOT NULL DEFAULT '{}',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// PostgresStore persists bookmarked recipes.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, connStr string) (*PostgresStore, error) {
	db, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *PostgresStore) Close() {
	s.db.Close()
}

// EnsureSchema creates the recipes table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// SaveRecipe inserts r. A second recipe with the same URL yields domain.ErrDuplicateRecipe.
func (s *PostgresStore) SaveRecipe(ctx context.Context, r *domain.Recipe) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO recipes (id, url, title, image_url, ingredients, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		r.ID, r.URL, r.Title, r.ImageURL, r.Ingredients, r.CreatedAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return domain.ErrDuplicateRecipe
	}
	return err
}

func (s *PostgresStore) FindRecipeByURL(ctx context.Context, url string) (*domain.Recipe, error) {
	return s.findOne(ctx, `WHERE url = $1`, url)
}

func (s *PostgresStore) FindRecipeByID(ctx context.Context, id string) (*domain.Recipe, error) {
	return s.findOne(ctx, `WHERE id = $1`, id)
}

func (s *PostgresStore) findOne(ctx context.Context, where string, arg any) (*domain.Recipe, error) {
	row := s.db.QueryRow(ctx,
		`SELECT id, url, title, image_url, ingredients, created_at FROM recipes `+where, arg)
	r, err := scanRecipe(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return r, err
}

// ListRecipes returns all bookmarks, oldest first.
func (s *PostgresStore) ListRecipes(ctx context.Context) ([]*domain.Recipe, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, url, title, image_url, ingredients, created_at FROM recipes ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recipes := []*domain.Recipe{}
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, r)
	}
	return recipes, rows.Err()
}

// DeleteRecipe returns domain.ErrNotFound when no recipe has the given id.
func (s *PostgresStore) DeleteRecipe(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM recipes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanRecipe(row pgx.Row) (*domain.Recipe, error) {
	var r domain.Recipe
	if err := row.Scan(&r.ID, &r.URL, &r.Title, &r.ImageURL, &r.Ingredients, &r.CreatedAt); err != nil {
		return nil, err
	}
	if r.Ingredients == nil {
		r.Ingredients = []string{}
	}
	return &r, nil
}
