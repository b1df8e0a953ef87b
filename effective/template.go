package effective

import (
	"fmt"
	"strings"

	"github.com/kbukum/yake/errors"
)

const (
	openDelim  = "{{"
	closeDelim = "}}"
)

// Scope holds the values a placeholder may refer to.
type Scope struct {
	Meta   map[string]string
	Env    map[string]string
	Params map[string]string
	Path   string
	Name   string
}

// Value resolves a dotted placeholder key such as "meta.version".
func (s Scope) Value(key string) (string, bool) {
	ns, name, ok := strings.Cut(key, ".")
	if !ok || name == "" {
		return "", false
	}
	switch ns {
	case "meta":
		v, ok := s.Meta[name]
		return v, ok
	case "env":
		v, ok := s.Env[name]
		return v, ok
	case "params":
		v, ok := s.Params[name]
		return v, ok
	case "target":
		switch name {
		case "path":
			return s.Path, true
		case "name":
			return s.Name, true
		}
	}
	return "", false
}

// TemplateReason classifies a template failure.
type TemplateReason int

const (
	// UndefinedKey means the placeholder names nothing in scope.
	UndefinedKey TemplateReason = iota + 1
	// Unterminated means a "{{" has no matching "}}".
	Unterminated
)

func (r TemplateReason) String() string {
	switch r {
	case UndefinedKey:
		return "UndefinedKey"
	case Unterminated:
		return "Unterminated"
	default:
		return fmt.Sprintf("TemplateReason(%d)", int(r))
	}
}

// TemplateError reports a placeholder that could not be expanded.
type TemplateError struct {
	// Target is the path of the target whose exec line failed, when known.
	Target   string
	Key      string
	Reason   TemplateReason
	Template string
}

func (e *TemplateError) Error() string {
	var msg string
	if e.Reason == Unterminated {
		msg = fmt.Sprintf("unterminated placeholder in %q", e.Template)
	} else {
		msg = fmt.Sprintf("undefined key %q in %q", e.Key, e.Template)
	}
	if e.Target != "" {
		return fmt.Sprintf("target %q: %s", e.Target, msg)
	}
	return msg
}

// ErrorCode implements errors.Coder.
func (e *TemplateError) ErrorCode() errors.ErrorCode { return errors.ErrCodeTemplate }

// Expand replaces every {{ key }} placeholder in s.
func Expand(s string, scope Scope) (string, error) {
	if !strings.Contains(s, openDelim) {
		return s, nil
	}

	var b strings.Builder
	b.Grow(len(s))
	rest := s
	for {
		start := strings.Index(rest, openDelim)
		if start < 0 {
			b.WriteString(rest)
			return b.String(), nil
		}
		b.WriteString(rest[:start])
		rest = rest[start+len(openDelim):]

		end := strings.Index(rest, closeDelim)
		if end < 0 {
			return "", &TemplateError{Key: strings.TrimSpace(rest), Reason: Unterminated, Template: s}
		}
		key := strings.TrimSpace(rest[:end])
		value, ok := scope.Value(key)
		if !ok {
			return "", &TemplateError{Key: key, Reason: UndefinedKey, Template: s}
		}
		b.WriteString(value)
		rest = rest[end+len(closeDelim):]
	}
}
