/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package logger

import (
	"fmt"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// VSCGO_LOG_FILE names an optional file that receives machine-readable
	// (JSON) log output in addition to the console log on stderr.
	VSCGO_LOG_FILE = "VSCGO_LOG_FILE"

	// VSCGO_LOG_LEVEL sets the level for the file log (defaults to "debug").
	VSCGO_LOG_LEVEL = "VSCGO_LOG_LEVEL"

	verbosityFlagName      = "verbosity"
	verbosityFlagShortName = "v"
)

type Logger struct {
	logr.Logger
	atomicLevel zap.AtomicLevel
	flush       func()
}

// New builds a logger that writes human-readable output to stderr, plus an
// optional JSON log file when VSCGO_LOG_FILE is set. If fs is non-nil, a
// --verbosity flag controlling the console level is registered on it.
func New(name string, fs *pflag.FlagSet) *Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	consoleEncoder := zapcore.NewConsoleEncoder(encoderConfig)

	consoleAtomicLevel := zap.NewAtomicLevel()

	cores := []zapcore.Core{
		zapcore.NewCore(consoleEncoder, zapcore.Lock(os.Stderr), consoleAtomicLevel),
	}

	var fileLogErr error
	if logFile, found := os.LookupEnv(VSCGO_LOG_FILE); found && logFile != "" {
		if fileCore, err := newFileLogCore(logFile, encoderConfig); err != nil {
			fileLogErr = err
		} else {
			cores = append(cores, fileCore)
		}
	}

	zapLogger := zap.New(zapcore.NewTee(cores...))
	log := zapr.NewLogger(zapLogger).WithName(name)

	if fileLogErr != nil {
		log.Error(fileLogErr, "failed to enable file log output")
	}

	l := &Logger{
		Logger:      log,
		atomicLevel: consoleAtomicLevel,
		flush: func() {
			_ = zapLogger.Sync()
		},
	}

	if fs != nil {
		l.AddLevelFlag(fs)
	}

	return l
}

// Discard returns a logger that drops all output. Intended for tests and for
// components constructed without an explicit logger.
func Discard() logr.Logger {
	return logr.Discard()
}

func (l *Logger) SetLevel(level zapcore.Level) {
	l.atomicLevel.SetLevel(level)
}

func (l *Logger) Flush() {
	l.flush()
}

// AddLevelFlag registers the verbosity flag controlling the console log level.
func (l *Logger) AddLevelFlag(fs *pflag.FlagSet) {
	levelVal := NewLevelFlagValue(func(level zapcore.Level) {
		l.SetLevel(level)
	})
	fs.VarP(&levelVal, verbosityFlagName, verbosityFlagShortName,
		"Logging verbosity level (e.g. -v=debug). One of 'debug', 'info', or 'error', or a positive integer corresponding to increasing debug verbosity.")
}

func newFileLogCore(path string, encoderConfig zapcore.EncoderConfig) (zapcore.Core, error) {
	level := zapcore.DebugLevel
	if levelStr, found := os.LookupEnv(VSCGO_LOG_LEVEL); found && levelStr != "" {
		parsed, err := StringToLevel(levelStr, zapcore.DebugLevel)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", VSCGO_LOG_LEVEL, err)
		}
		level = parsed
	}

	logOutput, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	fileEncoder := zapcore.NewJSONEncoder(encoderConfig)
	return zapcore.NewCore(fileEncoder, zapcore.AddSync(logOutput), zap.NewAtomicLevelAt(level)), nil
}
