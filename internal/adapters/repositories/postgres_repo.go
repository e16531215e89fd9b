package repositories

import (
	"context"
	"database/sql"
	"strconv"
	"sync"

	"github.com/esdrassantos06/go-adserver/internal/core/domain"
	"github.com/esdrassantos06/go-adserver/internal/core/ports"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// The advertiser_id column stores the ad's numeric id and isuad stores the
// raw tracking-cookie value; the column names are kept for wire compatibility
// with the existing log consumers.
const (
	createLogsSQL = `
		CREATE TABLE IF NOT EXISTS logs (
			id BIGSERIAL PRIMARY KEY,
			advertiser VARCHAR(255) DEFAULT NULL,
			advertiser_id VARCHAR(255) DEFAULT NULL,
			isuad VARCHAR(255) DEFAULT NULL,
			useragent VARCHAR(255) DEFAULT NULL
		)`
	createLogsIndexSQL = `CREATE INDEX IF NOT EXISTS index_advertiser ON logs (advertiser)`
	dropLogsSQL        = `DROP TABLE IF EXISTS logs`
)

type postgresRepo struct {
	DB         *sql.DB
	insertStmt *sql.Stmt
	listStmt   *sql.Stmt
	initOnce   sync.Once
}

func NewPostgresRepo(db *sql.DB) ports.ClickLogRepository {
	repo := &postgresRepo{DB: db}
	repo.initOnce.Do(repo.initStatements)
	return repo
}

func (r *postgresRepo) initStatements() {
	if err := r.ensureSchema(context.Background()); err != nil {
		panic("failed to create logs table: " + err.Error())
	}

	var err error

	r.insertStmt, err = r.DB.Prepare(`
		INSERT INTO logs (advertiser, advertiser_id, isuad, useragent)
		VALUES ($1, $2, $3, $4)`)
	if err != nil {
		panic("failed to prepare insert statement: " + err.Error())
	}

	r.listStmt, err = r.DB.Prepare(`
		SELECT advertiser_id, isuad, useragent
		FROM logs
		WHERE advertiser = $1
		ORDER BY id`)
	if err != nil {
		panic("failed to prepare list statement: " + err.Error())
	}
}

func (r *postgresRepo) ensureSchema(ctx context.Context) error {
	if _, err := r.DB.ExecContext(ctx, createLogsSQL); err != nil {
		return err
	}
	_, err := r.DB.ExecContext(ctx, createLogsIndexSQL)
	return err
}

func (r *postgresRepo) Insert(ctx context.Context, partition string, adID int64, userKey, userAgent string) error {
	_, err := r.insertStmt.ExecContext(ctx, partition, strconv.FormatInt(adID, 10), userKey, userAgent)
	return err
}

func (r *postgresRepo) ListByAdvertiser(ctx context.Context, partition string) ([]domain.ClickRow, error) {
	rows, err := r.listStmt.QueryContext(ctx, partition)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ClickRow
	for rows.Next() {
		var adID, userKey, userAgent sql.NullString
		if err := rows.Scan(&adID, &userKey, &userAgent); err != nil {
			return nil, err
		}

		id, err := strconv.ParseInt(adID.String, 10, 64)
		if err != nil {
			// A row whose ad id cannot be parsed has nothing to group under.
			continue
		}
		result = append(result, domain.ClickRow{
			AdID:      id,
			UserKey:   userKey.String,
			UserAgent: userAgent.String,
		})
	}
	return result, rows.Err()
}

// Reset drops and recreates the logs table. The recreated schema is
// identical, so the prepared statements stay valid.
func (r *postgresRepo) Reset(ctx context.Context) error {
	if _, err := r.DB.ExecContext(ctx, dropLogsSQL); err != nil {
		return err
	}
	return r.ensureSchema(ctx)
}
