// Package testutil provides helpers shared by the package tests.
package testutil

import (
	"log/slog"
	"testing"
	"time"

	"github.com/bcomnes/dbprocessor"
)

// NewTestLogger returns a logger that writes to t.Log().
// Logs only appear on test failure or when running with -v.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (n int, err error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// RecordingAnnouncer keeps every announcement so tests can assert on what a
// processor logged. It also forwards to Next when set.
type RecordingAnnouncer struct {
	Statements []string
	Messages   []string
	Errors     []error
	Next       dbprocessor.Announcer
}

// NewRecordingAnnouncer returns a RecordingAnnouncer that also logs through t.
func NewRecordingAnnouncer(t testing.TB) *RecordingAnnouncer {
	t.Helper()
	return &RecordingAnnouncer{Next: dbprocessor.NewSlogAnnouncer(NewTestLogger(t), true)}
}

func (r *RecordingAnnouncer) SQL(sql string) {
	r.Statements = append(r.Statements, sql)
	if r.Next != nil {
		r.Next.SQL(sql)
	}
}

func (r *RecordingAnnouncer) Say(msg string) {
	r.Messages = append(r.Messages, msg)
	if r.Next != nil {
		r.Next.Say(msg)
	}
}

func (r *RecordingAnnouncer) Heading(msg string) {
	r.Messages = append(r.Messages, msg)
	if r.Next != nil {
		r.Next.Heading(msg)
	}
}

func (r *RecordingAnnouncer) Emphasize(msg string) {
	r.Messages = append(r.Messages, msg)
	if r.Next != nil {
		r.Next.Emphasize(msg)
	}
}

func (r *RecordingAnnouncer) ElapsedTime(d time.Duration) {
	if r.Next != nil {
		r.Next.ElapsedTime(d)
	}
}

func (r *RecordingAnnouncer) Error(err error) {
	r.Errors = append(r.Errors, err)
	if r.Next != nil {
		r.Next.Error(err)
	}
}
