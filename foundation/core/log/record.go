// File: record.go
// Title: Log Records and Output Formats
// Description: A record is one log line before encoding. Records encode as
//              JSON, text, colored console text or logfmt. Errors of the
//              mlox error type contribute their code, severity, operation
//              and details as error_* fields.
// Author: msto63
// Version: v0.3.0
// Created: 2025-01-24
// Modified: 2026-10-16
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with multiple output formats
// - 2026-10-12 v0.2.0: Session field, sorted field output for text formats
// - 2026-10-16 v0.3.0: Entry and formatters folded into record encoding

package log

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	mdwerror "github.com/msto63/mlox/foundation/core/error"
)

// Fields are key-value pairs attached to a record
type Fields map[string]interface{}

// Merge returns a new set with the keys of f and other; other wins
func (f Fields) Merge(other Fields) Fields {
	out := make(Fields, len(f)+len(other))
	for k, v := range f {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// Format selects the encoding of records
type Format int

const (
	FormatJSON Format = iota
	FormatText
	FormatConsole
	FormatLogfmt
)

var formatNames = [...]string{
	FormatJSON:    "json",
	FormatText:    "text",
	FormatConsole: "console",
	FormatLogfmt:  "logfmt",
}

func (f Format) String() string {
	if f < FormatJSON || f > FormatLogfmt {
		return "unknown"
	}
	return formatNames[f]
}

// ParseFormat accepts json, text, console and logfmt
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for f, name := range formatNames {
		if s == name {
			return Format(f), nil
		}
	}
	return FormatJSON, mdwerror.New(fmt.Sprintf("invalid log format: %q", s)).
		WithCode(mdwerror.CodeInvalidInput)
}

type record struct {
	time    time.Time
	level   Level
	message string
	logger  string
	session string
	fields  Fields
	err     error
}

// errorFields flattens err into error_* fields
func (r *record) errorFields() Fields {
	if r.err == nil {
		return nil
	}
	out := Fields{"error": r.err.Error()}

	var coded *mdwerror.Error
	if !errors.As(r.err, &coded) {
		return out
	}
	out["error_code"] = coded.Code().String()
	out["error_severity"] = coded.Severity().String()
	if op := coded.Operation(); op != "" {
		out["error_operation"] = op
	}
	for k, v := range coded.Details() {
		out["error_"+k] = v
	}
	return out
}

func (r *record) encode(format Format) []byte {
	switch format {
	case FormatText:
		return r.text(false)
	case FormatConsole:
		return r.text(true)
	case FormatLogfmt:
		return r.logfmt()
	default:
		return r.json()
	}
}

func (r *record) json() []byte {
	data := map[string]interface{}{
		"timestamp": r.time.Format(time.RFC3339),
		"level":     r.level.String(),
		"message":   r.message,
	}
	if r.logger != "" {
		data["logger"] = r.logger
	}
	if r.session != "" {
		data["session_id"] = r.session
	}
	for k, v := range r.fields.Merge(r.errorFields()) {
		if err, ok := v.(error); ok {
			v = err.Error()
		}
		data[k] = v
	}

	out, err := json.Marshal(data)
	if err != nil {
		out, _ = json.Marshal(map[string]string{
			"level":   r.level.String(),
			"message": r.message,
			"error":   "unencodable fields: " + err.Error(),
		})
	}
	return append(out, '\n')
}

// text renders "15:04:05 [INF] {name} (session=id) message [k=v ...]"
func (r *record) text(color bool) []byte {
	var b strings.Builder
	if color {
		b.WriteString(r.level.color())
	}
	b.WriteString(r.time.Format("15:04:05"))
	fmt.Fprintf(&b, " [%s]", r.level.tag())
	if r.logger != "" {
		fmt.Fprintf(&b, " {%s}", r.logger)
	}
	if r.session != "" {
		fmt.Fprintf(&b, " (session=%s)", r.session)
	}
	b.WriteString(" " + r.message)

	fields := r.fields.Merge(r.errorFields())
	if len(fields) > 0 {
		pairs := make([]string, 0, len(fields))
		for _, k := range sortedKeys(fields) {
			pairs = append(pairs, fmt.Sprintf("%s=%v", k, fields[k]))
		}
		b.WriteString(" [" + strings.Join(pairs, " ") + "]")
	}
	if color {
		b.WriteString("\033[0m")
	}
	b.WriteByte('\n')
	return []byte(b.String())
}

func (r *record) logfmt() []byte {
	pairs := []string{
		"timestamp=" + r.time.Format(time.RFC3339),
		"level=" + r.level.String(),
		fmt.Sprintf("message=%q", r.message),
	}
	if r.logger != "" {
		pairs = append(pairs, "logger="+r.logger)
	}
	if r.session != "" {
		pairs = append(pairs, "session_id="+r.session)
	}

	fields := r.fields.Merge(r.errorFields())
	for _, k := range sortedKeys(fields) {
		switch v := fields[k].(type) {
		case string:
			pairs = append(pairs, fmt.Sprintf("%s=%q", k, v))
		case error:
			pairs = append(pairs, fmt.Sprintf("%s=%q", k, v.Error()))
		default:
			pairs = append(pairs, fmt.Sprintf("%s=%v", k, v))
		}
	}
	return []byte(strings.Join(pairs, " ") + "\n")
}

func sortedKeys(fields Fields) []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
