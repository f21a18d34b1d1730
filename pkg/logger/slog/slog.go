// Package slog adapts log/slog to the logger.Logger interface.
package slog

import (
	"log/slog"

	"github.com/trilium-community/trilium.go/pkg/logger"
)

type Adapter struct {
	logger *slog.Logger
}

var _ logger.Logger = (*Adapter)(nil)

func New(h slog.Handler) *Adapter {
	return &Adapter{logger: slog.New(h)}
}

func (a *Adapter) Error(msg string, args ...any) {
	a.logger.Error(msg, args...)
}

func (a *Adapter) Warn(msg string, args ...any) {
	a.logger.Warn(msg, args...)
}

func (a *Adapter) Info(msg string, args ...any) {
	a.logger.Info(msg, args...)
}

func (a *Adapter) Debug(msg string, args ...any) {
	a.logger.Debug(msg, args...)
}
