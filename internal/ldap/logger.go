package ldap

import (
	"context"
	"maps"
	"strings"
	"time"

	"github.com/hashicorp/terraform-plugin-log/tflog"
)

// Logger interface for LDAP URL operations.
type Logger interface {
	Debug(msg string, fields map[string]any)
	Info(msg string, fields map[string]any)
	Warn(msg string, fields map[string]any)
	Error(msg string, fields map[string]any)
	Trace(msg string, fields map[string]any)
}

var _ Logger = (*TFLogger)(nil)

// TFLogger wraps tflog subsystem logging.
type TFLogger struct {
	ctx       context.Context
	subsystem string
}

// NewTFLogger creates a new logger writing to the given tflog subsystem.
func NewTFLogger(ctx context.Context, subsystem string) *TFLogger {
	return &TFLogger{
		ctx:       ctx,
		subsystem: subsystem,
	}
}

func (l *TFLogger) Debug(msg string, fields map[string]any) {
	tflog.SubsystemDebug(l.ctx, l.subsystem, msg, fields)
}

func (l *TFLogger) Info(msg string, fields map[string]any) {
	tflog.SubsystemInfo(l.ctx, l.subsystem, msg, fields)
}

func (l *TFLogger) Warn(msg string, fields map[string]any) {
	tflog.SubsystemWarn(l.ctx, l.subsystem, msg, fields)
}

func (l *TFLogger) Error(msg string, fields map[string]any) {
	tflog.SubsystemError(l.ctx, l.subsystem, msg, fields)
}

func (l *TFLogger) Trace(msg string, fields map[string]any) {
	tflog.SubsystemTrace(l.ctx, l.subsystem, msg, fields)
}

// URLFields returns structured log fields describing u. Extension values
// whose type looks like a credential (for example "bindpw") are redacted.
func URLFields(u *URL) map[string]any {
	if u == nil {
		return map[string]any{}
	}

	fields := map[string]any{
		"scheme":          u.Scheme(),
		"host":            u.Host(),
		"port":            u.Port(),
		"has_dn":          u.HasDN(),
		"dn":              u.DNString(),
		"attribute_count": len(u.attributes),
		"scope":           u.Scope().String(),
		"has_filter":      u.HasFilter(),
	}

	if len(u.extensions) > 0 {
		exts := make(map[string]any, len(u.extensions))
		for _, ext := range u.extensions {
			if ext.Value == nil {
				exts[ext.Type] = ""
				continue
			}
			exts[ext.Type] = *ext.Value
		}
		fields["extensions"] = SanitizeFields(exts)
	}

	return fields
}

// SanitizeFields removes sensitive information from log fields.
func SanitizeFields(fields map[string]any) map[string]any {
	sanitized := make(map[string]any, len(fields))

	for k, v := range fields {
		if isSensitiveKey(k) {
			sanitized[k] = "[REDACTED]"
			continue
		}
		if str, ok := v.(string); ok && containsSensitivePattern(str) {
			sanitized[k] = "[REDACTED]"
			continue
		}
		sanitized[k] = v
	}

	return sanitized
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, marker := range []string{"password", "passwd", "bindpw", "secret", "token", "credential"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// containsSensitivePattern checks if a string embeds a credential assignment.
func containsSensitivePattern(s string) bool {
	lower := strings.ToLower(s)
	for _, pattern := range []string{"password=", "passwd=", "bindpw=", "secret=", "token="} {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}

// LogFunctionOperation provides standardized entry/exit logging for
// provider-defined function calls.
func LogFunctionOperation(ctx context.Context, function string, fields map[string]any) func(error) {
	return logOperation(ctx, "function", function, fields)
}

// LogDataSourceOperation provides standardized entry/exit logging for Terraform data source operations.
func LogDataSourceOperation(ctx context.Context, dataSource, operation string, fields map[string]any) func(error) {
	if fields == nil {
		fields = make(map[string]any)
	}
	fields["operation"] = operation
	return logOperation(ctx, "data_source", dataSource, fields)
}

func logOperation(ctx context.Context, kind, name string, fields map[string]any) func(error) {
	start := time.Now()
	var logger Logger = NewTFLogger(ctx, "provider")
	label := strings.ReplaceAll(kind, "_", " ")

	entryFields := make(map[string]any, len(fields)+1)
	maps.Copy(entryFields, fields)
	entryFields[kind] = name

	logger.Debug("Starting "+label+" operation", entryFields)

	return func(err error) {
		exitFields := make(map[string]any, len(entryFields)+3)
		maps.Copy(exitFields, entryFields)
		exitFields["duration_ms"] = time.Since(start).Milliseconds()
		exitFields["has_error"] = err != nil

		if err != nil {
			exitFields["error"] = err.Error()
			logger.Error(label+" operation failed", exitFields)
			return
		}
		logger.Debug(label+" operation completed", exitFields)
	}
}
