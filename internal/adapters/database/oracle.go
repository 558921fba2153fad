package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/godror/godror"
	"github.com/rs/zerolog"

	"github.com/agendas-medicas/backend/internal/infrastructure/clients/oracle"
	"github.com/agendas-medicas/backend/internal/infrastructure/observability"
)

// OracleDialect is the goqu dialect name registered for Oracle.
const OracleDialect = "oracle"

func init() {
	opts := goqu.DefaultDialectOptions()
	opts.PlaceHolderFragment = []byte(":")
	opts.IncludePlaceholderNum = true
	opts.AliasedFragment = []byte(" ")
	opts.SupportsReturn = false
	opts.SupportsLimitOnDelete = false
	opts.SupportsLimitOnUpdate = false
	opts.SupportsOrderByOnDelete = false
	opts.SupportsOrderByOnUpdate = false
	goqu.RegisterDialect(OracleDialect, opts)
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_$#]*(\.[A-Za-z][A-Za-z0-9_$#]*)?$`)

// validIdentifier guards names that are interpolated into SQL text
// (schemas and sequences come from configuration).
func validIdentifier(name string) bool {
	return identifierPattern.MatchString(name)
}

// isUniqueViolation reports ORA-00001.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if oraErr, ok := godror.AsOraErr(err); ok && oraErr.Code() == 1 {
		return true
	}
	return strings.Contains(err.Error(), "ORA-00001")
}

// idGenerator hands out primary keys from a sequence, falling back to
// MAX(id)+1 when the sequence is missing or not readable.
type idGenerator struct {
	client   *oracle.Client
	db       *goqu.Database
	sequence string
	table    exp.IdentifierExpression
	column   string
	logger   zerolog.Logger
}

func (g *idGenerator) next(ctx context.Context) (int64, error) {
	if validIdentifier(g.sequence) {
		query, args, err := g.db.Select(goqu.L(g.sequence + ".NEXTVAL")).From(goqu.T("DUAL")).Prepared(true).ToSQL()
		if err == nil {
			var id sql.NullInt64
			err = g.client.DB().QueryRowContext(ctx, query, args...).Scan(&id)
			if err == nil && id.Valid && id.Int64 > 0 {
				return id.Int64, nil
			}
		}
		g.logger.Warn().Err(err).Str("sequence", g.sequence).Msg("Secuencia no disponible, usando MAX+1")
	}

	query, args, err := g.db.Select(goqu.L("NVL(MAX(?), 0) + 1", goqu.I(g.column))).
		From(g.table).
		Prepared(true).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("failed to build id fallback query: %w", err)
	}

	var id int64
	if err := g.client.DB().QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to compute next id: %w", err)
	}
	return id, nil
}

// observe records the duration of a storage operation.
func observe(ctx context.Context, client *oracle.Client, operation string, start time.Time) {
	observability.RecordDBMetric(ctx, client.Metrics(), operation, time.Since(start))
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
