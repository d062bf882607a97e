// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package logging is a thin structured-logging facade over zap.
package logging

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	_ Logger = (*log)(nil)
	_ Logger = NoLog{}
)

// Logger is the logging interface the rest of the repository depends on.
type Logger interface {
	Debug(msg string, fields ...zap.Field)
	Info(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
}

type log struct {
	internalLogger *zap.Logger
}

// NewLogger returns a console logger writing entries at or above [level] to
// [w].
func NewLogger(prefix string, level Level, w io.Writer) Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(w),
		zapcore.Level(level),
	)
	logger := zap.New(core)
	if prefix != "" {
		logger = logger.Named(prefix)
	}
	return &log{internalLogger: logger}
}

func (l *log) Debug(msg string, fields ...zap.Field) {
	l.internalLogger.Debug(msg, fields...)
}

func (l *log) Info(msg string, fields ...zap.Field) {
	l.internalLogger.Info(msg, fields...)
}

func (l *log) Warn(msg string, fields ...zap.Field) {
	l.internalLogger.Warn(msg, fields...)
}

func (l *log) Error(msg string, fields ...zap.Field) {
	l.internalLogger.Error(msg, fields...)
}

// NoLog drops every entry. It is the default wherever a logger is optional.
type NoLog struct{}

func (NoLog) Debug(string, ...zap.Field) {}

func (NoLog) Info(string, ...zap.Field) {}

func (NoLog) Warn(string, ...zap.Field) {}

func (NoLog) Error(string, ...zap.Field) {}
