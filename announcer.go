package dbprocessor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
)

// Announcer receives the processor's SQL and status output.
type Announcer interface {
	// SQL is called with every statement before any execution decision,
	// including in preview mode.
	SQL(sql string)

	// Say reports a status message.
	Say(msg string)

	Heading(msg string)
	Emphasize(msg string)
	ElapsedTime(d time.Duration)
	Error(err error)
}

// SlogAnnouncer writes announcements to a slog.Logger.
type SlogAnnouncer struct {
	Logger *slog.Logger

	// ShowSQL logs SQL text at Info instead of Debug.
	ShowSQL bool
}

// NewSlogAnnouncer creates a SlogAnnouncer. If logger is nil, a discard
// logger is used.
func NewSlogAnnouncer(logger *slog.Logger, showSQL bool) *SlogAnnouncer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SlogAnnouncer{Logger: logger, ShowSQL: showSQL}
}

func (a *SlogAnnouncer) SQL(sql string) {
	level := slog.LevelDebug
	if a.ShowSQL {
		level = slog.LevelInfo
	}
	if sql == "" {
		a.Logger.Log(context.Background(), level, "No SQL statement executed.")
		return
	}
	a.Logger.Log(context.Background(), level, "sql", slog.String("sql", sql))
}

func (a *SlogAnnouncer) Say(msg string) {
	a.Logger.Info(msg)
}

func (a *SlogAnnouncer) Heading(msg string) {
	a.Logger.Info(msg, slog.Bool("heading", true))
}

func (a *SlogAnnouncer) Emphasize(msg string) {
	a.Logger.Warn(msg)
}

func (a *SlogAnnouncer) ElapsedTime(d time.Duration) {
	a.Logger.Info("elapsed", slog.Duration("duration", d))
}

func (a *SlogAnnouncer) Error(err error) {
	a.Logger.Error("error", slog.Any("error", err))
}

// ScriptAnnouncer writes every SQL statement to W as a runnable script and
// status messages as SQL comments. Write errors are kept in Err.
type ScriptAnnouncer struct {
	W   io.Writer
	Err error
}

// NewScriptAnnouncer creates a ScriptAnnouncer writing to w.
func NewScriptAnnouncer(w io.Writer) *ScriptAnnouncer {
	return &ScriptAnnouncer{W: w}
}

func (a *ScriptAnnouncer) SQL(sql string) {
	sql = strings.TrimSpace(sql)
	if sql == "" {
		return
	}
	if !strings.HasSuffix(sql, ";") {
		sql += ";"
	}
	a.write(sql + "\n")
}

func (a *ScriptAnnouncer) Say(msg string) {
	a.comment(msg)
}

func (a *ScriptAnnouncer) Heading(msg string) {
	a.comment(msg + " " + strings.Repeat("=", 40))
}

func (a *ScriptAnnouncer) Emphasize(msg string) {
	a.comment("[+] " + msg)
}

func (a *ScriptAnnouncer) ElapsedTime(d time.Duration) {
	a.comment(fmt.Sprintf("-> %gs", d.Seconds()))
}

func (a *ScriptAnnouncer) Error(err error) {
	a.comment("!!! " + err.Error())
}

func (a *ScriptAnnouncer) comment(msg string) {
	for _, line := range strings.Split(msg, "\n") {
		a.write("-- " + line + "\n")
	}
}

func (a *ScriptAnnouncer) write(s string) {
	if a.Err != nil {
		return
	}
	_, a.Err = io.WriteString(a.W, s)
}

// MultiAnnouncer fans announcements out to several announcers.
type MultiAnnouncer []Announcer

func (m MultiAnnouncer) SQL(sql string) {
	for _, a := range m {
		a.SQL(sql)
	}
}

func (m MultiAnnouncer) Say(msg string) {
	for _, a := range m {
		a.Say(msg)
	}
}

func (m MultiAnnouncer) Heading(msg string) {
	for _, a := range m {
		a.Heading(msg)
	}
}

func (m MultiAnnouncer) Emphasize(msg string) {
	for _, a := range m {
		a.Emphasize(msg)
	}
}

func (m MultiAnnouncer) ElapsedTime(d time.Duration) {
	for _, a := range m {
		a.ElapsedTime(d)
	}
}

func (m MultiAnnouncer) Error(err error) {
	for _, a := range m {
		a.Error(err)
	}
}
