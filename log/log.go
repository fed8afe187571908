// Copyright (c) 2025 The PKNet developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"context"
	"log/slog"
	"os"
	"sync/atomic"
)

// Logger is the structured logger handed to packages.
type Logger = *slog.Logger

var root atomic.Pointer[slog.Logger]

var level = new(slog.LevelVar)

func init() {
	level.Set(slog.LevelInfo)
	root.Store(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// Root returns the process-wide root logger.
func Root() Logger {
	return root.Load()
}

// SetRoot replaces the process-wide root logger.
func SetRoot(l Logger) {
	root.Store(l)
}

// SetLevel adjusts the root logger's minimum level.
func SetLevel(l slog.Level) {
	level.Set(l)
}

// WithContext returns a logger carrying the given key/value context,
// e.g. log.WithContext("pkg", "staker").
func WithContext(args ...any) Logger {
	return Root().With(args...)
}

// Discard silences the root logger. Used by tests.
func Discard() {
	root.Store(slog.New(discardHandler{}))
}

type discardHandler struct{}

func (discardHandler) Handle(context.Context, slog.Record) error { return nil }

func (discardHandler) Enabled(context.Context, slog.Level) bool { return false }

func (d discardHandler) WithGroup(string) slog.Handler { return d }

func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler { return d }
