package db

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
)

type fakeExecer struct {
	tag  pgconn.CommandTag
	err  error
	sql  string
	args []any
}

func (f *fakeExecer) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.sql, f.args = sql, args
	return f.tag, f.err
}

func TestDB_TouchUser_Exec(t *testing.T) {
	tests := []struct {
		name    string
		execer  *fakeExecer
		wantErr error
	}{
		{name: "updated", execer: &fakeExecer{tag: pgconn.NewCommandTag("UPDATE 1")}},
		{name: "no row", execer: &fakeExecer{tag: pgconn.NewCommandTag("UPDATE 0")}, wantErr: goerror.ErrNotFound},
		{name: "driver error", execer: &fakeExecer{err: errors.New("conn reset")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewDB(tt.execer, instrument.NewNoop()).TouchUser(context.Background(), 7)

			switch {
			case tt.execer.err != nil:
				if !errors.Is(err, tt.execer.err) {
					t.Fatalf("error = %v, want %v", err, tt.execer.err)
				}
			case !errors.Is(err, tt.wantErr):
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}

			if tt.execer.sql != queryTouchUser || len(tt.execer.args) != 1 || tt.execer.args[0] != int64(7) {
				t.Fatalf("exec = %q %v", tt.execer.sql, tt.execer.args)
			}
		})
	}
}
