package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"model-scoring-service/internal/core/domain"
	ports "model-scoring-service/internal/core/ports/output"
)

const schema = `
	CREATE TABLE IF NOT EXISTS artifact (
		id          BIGSERIAL PRIMARY KEY,
		type        TEXT        NOT NULL,
		name        TEXT        NOT NULL,
		url         TEXT        NOT NULL,
		code_url    TEXT        NOT NULL DEFAULT '',
		dataset_url TEXT        NOT NULL DEFAULT '',
		rating      JSONB,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS artifact_name_idx ON artifact (lower(name));
`

type artifactRepo struct {
	pool *pgxpool.Pool
}

func NewArtifactRepository(pool *pgxpool.Pool) ports.ArtifactRepository {
	return &artifactRepo{pool: pool}
}

// EnsureSchema creates the artifact table when it does not exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure artifact schema: %w", err)
	}
	return nil
}

func (r *artifactRepo) Create(ctx context.Context, artifact *domain.Artifact) error {
	rating, err := marshalRating(artifact.Rating)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO artifact (type, name, url, code_url, dataset_url, rating, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id
	`
	err = r.pool.QueryRow(ctx, query,
		string(artifact.Type), artifact.Name, artifact.URL,
		artifact.CodeURL, artifact.DatasetURL, rating,
		artifact.CreatedAt, artifact.UpdatedAt,
	).Scan(&artifact.ID)
	if err != nil {
		return fmt.Errorf("create artifact: %w", err)
	}
	return nil
}

func (r *artifactRepo) Get(ctx context.Context, id int64) (*domain.Artifact, error) {
	query := `
		SELECT id, type, name, url, code_url, dataset_url, rating, created_at, updated_at
		FROM artifact
		WHERE id = $1
	`
	a, err := scanArtifact(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrArtifactNotFound
		}
		return nil, fmt.Errorf("get artifact by id: %w", err)
	}
	return a, nil
}

func (r *artifactRepo) Update(ctx context.Context, artifact *domain.Artifact) error {
	rating, err := marshalRating(artifact.Rating)
	if err != nil {
		return err
	}

	query := `
		UPDATE artifact
		SET name=$1, url=$2, code_url=$3, dataset_url=$4, rating=$5, updated_at=NOW()
		WHERE id=$6
	`
	result, err := r.pool.Exec(ctx, query,
		artifact.Name, artifact.URL, artifact.CodeURL, artifact.DatasetURL, rating, artifact.ID,
	)
	if err != nil {
		return fmt.Errorf("update artifact: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrArtifactNotFound
	}
	return nil
}

func (r *artifactRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM artifact WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete artifact: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrArtifactNotFound
	}
	return nil
}

func (r *artifactRepo) Scan(ctx context.Context, filter ports.ArtifactFilter) ([]*domain.Artifact, int, error) {
	whereClause, args := scanConditions(filter)
	argPos := len(args) + 1

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM artifact WHERE %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count artifacts: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, type, name, url, code_url, dataset_url, rating, created_at, updated_at
		FROM artifact
		WHERE %s
		ORDER BY id ASC
		LIMIT $%d OFFSET $%d
	`, whereClause, argPos, argPos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list artifacts: %w", err)
	}
	defer rows.Close()

	var items []*domain.Artifact
	for rows.Next() {
		a, err := scanArtifact(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan artifact: %w", err)
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate artifacts: %w", err)
	}
	return items, total, nil
}

func (r *artifactRepo) Reset(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM artifact`); err != nil {
		return fmt.Errorf("reset artifacts: %w", err)
	}
	return nil
}

// scanConditions builds the WHERE clause shared by the count and page queries.
func scanConditions(filter ports.ArtifactFilter) (string, []interface{}) {
	conditions := []string{}
	args := []interface{}{}
	argPos := 1

	if filter.Type != "" {
		conditions = append(conditions, fmt.Sprintf("type = $%d", argPos))
		args = append(args, string(filter.Type))
		argPos++
	}
	if filter.Name != "" && filter.Name != "*" {
		conditions = append(conditions, fmt.Sprintf("lower(name) LIKE $%d", argPos))
		args = append(args, "%"+escapeLike(strings.ToLower(filter.Name))+"%")
	}

	if len(conditions) == 0 {
		return "1=1", args
	}
	return strings.Join(conditions, " AND "), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func marshalRating(rating *domain.ScoreRecord) ([]byte, error) {
	if rating == nil {
		return nil, nil
	}
	data, err := json.Marshal(rating)
	if err != nil {
		return nil, fmt.Errorf("marshal rating: %w", err)
	}
	return data, nil
}

func scanArtifact(row pgx.Row) (*domain.Artifact, error) {
	var (
		a          domain.Artifact
		typ        string
		ratingJSON []byte
	)
	err := row.Scan(&a.ID, &typ, &a.Name, &a.URL, &a.CodeURL, &a.DatasetURL,
		&ratingJSON, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.Type = domain.ArtifactType(typ)
	if len(ratingJSON) > 0 {
		var rating domain.ScoreRecord
		if err := json.Unmarshal(ratingJSON, &rating); err != nil {
			return nil, fmt.Errorf("unmarshal rating: %w", err)
		}
		a.Rating = &rating
	}
	return &a, nil
}
