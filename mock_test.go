package dbprocessor_test

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/bcomnes/dbprocessor"
	"github.com/bcomnes/dbprocessor/internal/testutil"
)

// newMockProcessor returns a processor backed by sqlmock with exact query
// matching, and the announcer recording its output.
func newMockProcessor(t *testing.T, cfg dbprocessor.Config) (*dbprocessor.Processor, sqlmock.Sqlmock, *testutil.RecordingAnnouncer) {
	t.Helper()
	return mockProcessor(t, cfg, false)
}

// newPingMockProcessor is newMockProcessor with pings treated as expectations.
func newPingMockProcessor(t *testing.T, cfg dbprocessor.Config) (*dbprocessor.Processor, sqlmock.Sqlmock, *testutil.RecordingAnnouncer) {
	t.Helper()
	return mockProcessor(t, cfg, true)
}

func mockProcessor(t *testing.T, cfg dbprocessor.Config, monitorPings bool) (*dbprocessor.Processor, sqlmock.Sqlmock, *testutil.RecordingAnnouncer) {
	t.Helper()

	db, mock, err := sqlmock.New(
		sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual),
		sqlmock.MonitorPingsOption(monitorPings),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rec := testutil.NewRecordingAnnouncer(t)
	cfg.Announcer = rec
	p, err := dbprocessor.NewProcessor(cfg, db)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	return p, mock, rec
}
