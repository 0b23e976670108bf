/*
 * report.go, part of goferam.
 *
 *
 * Copyright 2024 The goferam Authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 *
 */

package ops

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

//Reporter receives the result of every operation a Sequence runs.
type Reporter interface {
	Report(r Result)
}

//ReporterFunc adapts a function to a Reporter.
type ReporterFunc func(r Result)

func (f ReporterFunc) Report(r Result) { f(r) }

type nopReporter struct{}

func (nopReporter) Report(Result) {}

//WithReporter returns a context whose sequences report to r.
func WithReporter(ctx context.Context, r Reporter) context.Context {
	return context.WithValue(ctx, reporterKey, r)
}

//ReporterFrom returns the reporter set with WithReporter, or one that
//discards everything.
func ReporterFrom(ctx context.Context) Reporter {
	if r, ok := ctx.Value(reporterKey).(Reporter); ok && r != nil {
		return r
	}
	return nopReporter{}
}

//Reporters sends each result to all its members, in order.
type Reporters []Reporter

func (rs Reporters) Report(r Result) {
	for _, rep := range rs {
		rep.Report(r)
	}
}

//LogReporter logs each result: successes at debug level, messages at
//info and failures at error.
type LogReporter struct {
	Logger *zap.Logger
}

func (l LogReporter) Report(r Result) {
	log := l.Logger
	if log == nil {
		return
	}
	switch {
	case r.Failed():
		log.Error("operation failed", zap.String("op", r.Op), zap.Error(r.Err))
	case r.Kind == KindMessage || r.Kind == KindSuccess:
		log.Info(r.Msg, zap.String("op", r.Op))
	default:
		log.Debug("operation done", zap.String("op", r.Op), zap.String("msg", r.Msg))
	}
}

var (
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	messageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	bodyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

//TermReporter prints each result on a line, with a colored tag: green for
//successful operations, red for failures, magenta for messages and yellow
//for the final success.
type TermReporter struct {
	W io.Writer
}

func (t TermReporter) Report(r Result) {
	fmt.Fprintln(t.W, Format(r))
}

//Format renders a result the way TermReporter prints it.
func Format(r Result) string {
	switch {
	case r.Failed():
		return failStyle.Render("[Failure]") + " " + failStyle.UnsetBold().Render(r.Err.Error())
	case r.Kind == KindMessage:
		return messageStyle.Render("[Message]") + " " + messageStyle.UnsetBold().Render(r.Msg)
	case r.Kind == KindSuccess:
		return successStyle.Render("[Success]") + " " + successStyle.UnsetBold().Render(r.Msg)
	}
	return okStyle.Render("[Success]") + " " + bodyStyle.Render(r.String())
}
