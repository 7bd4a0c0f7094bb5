// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/deskmenu/deskmenu/internal/discovery"

	"github.com/charmbracelet/log"
)

type (
	// DiagnosticRenderer renders structured discovery diagnostics.
	DiagnosticRenderer interface {
		Render(logger *log.Logger, diags []discovery.Diagnostic)
	}

	// logDiagnosticRenderer writes diagnostics through the session logger:
	// info diagnostics at debug level, warnings at warn level.
	logDiagnosticRenderer struct{}
)

// Render implements DiagnosticRenderer.
func (r *logDiagnosticRenderer) Render(logger *log.Logger, diags []discovery.Diagnostic) {
	for _, d := range diags {
		kv := []any{"code", d.Code}
		if d.Path != "" {
			kv = append(kv, "path", d.Path)
		}

		if d.Severity == discovery.SeverityWarning {
			logger.Warn(d.Message, kv...)
			continue
		}
		logger.Debug(d.Message, kv...)
	}
}
