package props

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/milk9111/actorconf/coerce"
)

// ResolutionError reports a configuration key that matched none of its
// candidate names. It wraps ErrUnresolved and is never fatal on its own.
// Rejected joins the errors of candidates that exist but refused the value;
// it is nil when no candidate exists at all.
type ResolutionError struct {
	Key        string
	Candidates [3]string
	Rejected   error
}

func (e *ResolutionError) Error() string {
	msg := fmt.Sprintf("props: no method or field found for %s, %s, or %s",
		e.Candidates[0], e.Candidates[1], e.Candidates[2])
	if e.Rejected != nil {
		msg += ": " + e.Rejected.Error()
	}
	return msg
}

func (e *ResolutionError) Unwrap() error {
	return ErrUnresolved
}

// Resolver applies configuration pairs to targets.
type Resolver struct {
	Logger *slog.Logger
}

// NewResolver returns a resolver that logs to logger, or slog.Default when
// logger is nil.
func NewResolver(logger *slog.Logger) *Resolver {
	return &Resolver{Logger: logger}
}

// Apply resolves key against table and sets the coerced raw value on
// target. Candidates are tried in the order returned by Candidates and the
// first one that accepts the value wins. A candidate that rejects the value
// leaves target untouched and the next candidate is tried.
func (r *Resolver) Apply(table *Table, target any, key, raw string) (bool, error) {
	value := coerce.Coerce(raw)
	names := Candidates(key)
	var rejected []error
	for _, name := range names {
		p, ok := table.Lookup(name)
		if !ok {
			continue
		}
		if err := p.Apply(target, value); err != nil {
			r.logger().Debug("props: candidate rejected value",
				"key", key, "candidate", name, "mode", p.Mode, "err", err)
			rejected = append(rejected, fmt.Errorf("%s: %w", name, err))
			continue
		}
		return true, nil
	}
	return false, &ResolutionError{Key: key, Candidates: names, Rejected: errors.Join(rejected...)}
}

func (r *Resolver) logger() *slog.Logger {
	if r == nil || r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

// Candidates returns the names tried for key, in order: the key itself, its
// PascalCase form and "Set" followed by the PascalCase form.
func Candidates(key string) [3]string {
	pascal := PascalCase(key)
	return [3]string{key, pascal, "Set" + pascal}
}

// PascalCase splits s on underscores and capitalizes each segment, lowering
// the rest of the segment: "display_name" becomes "DisplayName".
func PascalCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, seg := range strings.Split(s, "_") {
		if seg == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(seg)
		b.WriteRune(unicode.ToUpper(r))
		b.WriteString(strings.ToLower(seg[size:]))
	}
	return b.String()
}
