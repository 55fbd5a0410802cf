package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// execer is the part of *pgxpool.Pool (or pgx.Tx) the store uses.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const queryTouchUser = `UPDATE users SET updated_at = NOW() WHERE id = $1`

type DB struct {
	conn execer
	ins  instrument.Instrumentation
}

func NewDB(conn execer, ins instrument.Instrumentation) *DB {
	return &DB{conn: conn, ins: ins}
}

func (s *DB) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("otp.outbound.db").Start(ctx, name)
}

func (s *DB) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// TouchUser bumps updated_at on the caller's row. A missing row is
// goerror.ErrNotFound.
func (s *DB) TouchUser(ctx context.Context, userID int64) (err error) {
	ctx, span := s.startSpan(ctx, "TouchUser")
	defer func() { s.endSpan(span, err) }()

	span.SetAttributes(attribute.Int64("user.id", userID))

	tag, err := s.conn.Exec(ctx, queryTouchUser, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}

	return nil
}
