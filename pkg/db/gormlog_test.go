package db

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/angelmondragon/vtps-backend/pkg/logger"
)

func TestQueryLoggerReportsSlowAndFailedStatements(t *testing.T) {
	buf := &bytes.Buffer{}
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.DebugLevel, Output: buf})
	ql := newQueryLogger(logg, 100*time.Millisecond)
	sql := func() (string, int64) { return "SELECT 1", 1 }
	ctx := context.Background()

	ql.Trace(ctx, time.Now(), sql, nil)
	if buf.Len() != 0 {
		t.Fatalf("fast successful statement should be quiet, got %s", buf.String())
	}

	ql.Trace(ctx, time.Now(), sql, gorm.ErrRecordNotFound)
	if buf.Len() != 0 {
		t.Fatalf("record not found should be quiet, got %s", buf.String())
	}

	ql.Trace(ctx, time.Now().Add(-time.Second), sql, nil)
	if !strings.Contains(buf.String(), "db.slow_query") || !strings.Contains(buf.String(), "SELECT 1") {
		t.Fatalf("expected slow query entry, got %s", buf.String())
	}

	buf.Reset()
	ql.Trace(ctx, time.Now(), sql, errors.New("syntax error"))
	if !strings.Contains(buf.String(), "db.query_failed") {
		t.Fatalf("expected failure entry, got %s", buf.String())
	}

	buf.Reset()
	ql.LogMode(gormlogger.Silent).Trace(ctx, time.Now().Add(-time.Second), sql, errors.New("boom"))
	if buf.Len() != 0 {
		t.Fatalf("silent mode should drop everything, got %s", buf.String())
	}
}
