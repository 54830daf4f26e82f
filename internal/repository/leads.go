package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/octobees/leads-finder/internal/dto"
	"github.com/octobees/leads-finder/internal/entity"
)

// pgxPool is the subset of pgxpool.Pool the repository depends on.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// LeadsRepository describes persistence operations for generated leads.
type LeadsRepository interface {
	BulkUpsertLeads(ctx context.Context, leads []entity.Lead) (BulkUpsertResult, error)
	List(ctx context.Context, filter dto.ListFilter) ([]entity.Lead, error)
}

// BulkUpsertResult summarises the number of rows inserted or updated.
type BulkUpsertResult struct {
	Inserted int
	Updated  int
	Total    int
}

// PGXLeadsRepository implements LeadsRepository using pgx.
type PGXLeadsRepository struct {
	pool pgxPool
}

// NewPGXLeadsRepository wires a pgx backed repository.
func NewPGXLeadsRepository(pool *pgxpool.Pool) *PGXLeadsRepository {
	return &PGXLeadsRepository{pool: pool}
}

var _ pgxPool = (*pgxpool.Pool)(nil)

const upsertLeadSQL = `
        INSERT INTO leads (
            id,
            website,
            email,
            email_found,
            emails,
            phones,
            snippet,
            title,
            keyword,
            location,
            query,
            engine,
            source,
            score,
            updated_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,NOW())
        ON CONFLICT (website, keyword, location) DO UPDATE SET
            email = EXCLUDED.email,
            email_found = EXCLUDED.email_found,
            emails = EXCLUDED.emails,
            phones = EXCLUDED.phones,
            snippet = COALESCE(EXCLUDED.snippet, leads.snippet),
            title = COALESCE(EXCLUDED.title, leads.title),
            query = EXCLUDED.query,
            engine = EXCLUDED.engine,
            source = EXCLUDED.source,
            score = EXCLUDED.score,
            updated_at = NOW()
        RETURNING xmax = 0;
    `

// BulkUpsertLeads persists a batch of leads with idempotent semantics keyed
// on (website, keyword, location).
func (r *PGXLeadsRepository) BulkUpsertLeads(ctx context.Context, leads []entity.Lead) (BulkUpsertResult, error) {
	var result BulkUpsertResult
	if len(leads) == 0 {
		return result, nil
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return result, fmt.Errorf("start bulk upsert tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, lead := range leads {
		rows, err := tx.Query(ctx, upsertLeadSQL,
			lead.ID,
			lead.Website,
			lead.Email,
			lead.EmailFound,
			stringSliceOrEmpty(lead.Emails),
			stringSliceOrEmpty(lead.Phones),
			stringOrNil(lead.Snippet),
			stringOrNil(lead.Title),
			lead.Keyword,
			lead.Location,
			stringOrNil(lead.Query),
			stringOrNil(lead.Engine),
			stringOrNil(lead.Source),
			lead.Score,
		)
		if err != nil {
			return result, fmt.Errorf("upsert lead %q: %w", lead.Website, err)
		}

		var inserted bool
		if rows.Next() {
			if scanErr := rows.Scan(&inserted); scanErr != nil {
				rows.Close()
				return result, fmt.Errorf("scan upsert result: %w", scanErr)
			}
		} else {
			err := rows.Err()
			rows.Close()
			if err != nil {
				return result, fmt.Errorf("upsert lead %q: %w", lead.Website, err)
			}
			return result, fmt.Errorf("upsert lead %q: no result returned", lead.Website)
		}
		rows.Close()

		if inserted {
			result.Inserted++
		} else {
			result.Updated++
		}
		result.Total++
	}

	if err := tx.Commit(ctx); err != nil {
		return result, fmt.Errorf("commit bulk upsert tx: %w", err)
	}

	return result, nil
}

// List retrieves leads matching the provided filter, most recent first.
func (r *PGXLeadsRepository) List(ctx context.Context, filter dto.ListFilter) ([]entity.Lead, error) {
	baseQuery := strings.Builder{}
	baseQuery.WriteString(`
        SELECT
            id,
            website,
            email,
            email_found,
            emails,
            phones,
            snippet,
            title,
            keyword,
            location,
            query,
            engine,
            source,
            score,
            created_at,
            updated_at
        FROM leads
    `)

	var (
		clauses []string
		args    []any
		idx     = 1
	)

	if filter.Keyword != "" {
		clauses = append(clauses, fmt.Sprintf("LOWER(keyword) = LOWER($%d)", idx))
		args = append(args, filter.Keyword)
		idx++
	}
	if filter.Location != "" {
		clauses = append(clauses, fmt.Sprintf("LOWER(location) = LOWER($%d)", idx))
		args = append(args, filter.Location)
		idx++
	}
	if filter.Engine != "" {
		clauses = append(clauses, fmt.Sprintf("engine = $%d", idx))
		args = append(args, filter.Engine)
		idx++
	}
	if filter.OnlyWithMail {
		clauses = append(clauses, "email_found = TRUE")
	}
	if filter.UpdatedSince != nil {
		clauses = append(clauses, fmt.Sprintf("updated_at >= $%d", idx))
		args = append(args, *filter.UpdatedSince)
		idx++
	}

	if len(clauses) > 0 {
		baseQuery.WriteString(" WHERE ")
		baseQuery.WriteString(strings.Join(clauses, " AND "))
	}

	baseQuery.WriteString(" ORDER BY score DESC, updated_at DESC, website ASC")

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage <= 0 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}
	offset := (page - 1) * perPage
	baseQuery.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", idx, idx+1))
	args = append(args, perPage, offset)

	rows, err := r.pool.Query(ctx, baseQuery.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	return scanLeads(rows)
}

func scanLeads(rows pgx.Rows) ([]entity.Lead, error) {
	var leads []entity.Lead
	for rows.Next() {
		var (
			lead    entity.Lead
			emails  []string
			phones  []string
			snippet sql.NullString
			title   sql.NullString
			query   sql.NullString
			engine  sql.NullString
			source  sql.NullString
		)

		err := rows.Scan(
			&lead.ID,
			&lead.Website,
			&lead.Email,
			&lead.EmailFound,
			&emails,
			&phones,
			&snippet,
			&title,
			&lead.Keyword,
			&lead.Location,
			&query,
			&engine,
			&source,
			&lead.Score,
			&lead.CreatedAt,
			&lead.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}

		if len(emails) > 0 {
			lead.Emails = append([]string(nil), emails...)
		}
		if len(phones) > 0 {
			lead.Phones = append([]string(nil), phones...)
		}
		lead.Snippet = nullStringToPtr(snippet)
		lead.Title = nullStringToPtr(title)
		lead.Query = nullStringToPtr(query)
		lead.Engine = nullStringToPtr(engine)
		lead.Source = nullStringToPtr(source)

		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leads: %w", err)
	}
	return leads, nil
}

func nullStringToPtr(value sql.NullString) *string {
	if value.Valid {
		val := value.String
		return &val
	}
	return nil
}

func stringOrNil(value *string) any {
	if value == nil {
		return nil
	}
	if *value == "" {
		return nil
	}
	return *value
}

func stringSliceOrEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
