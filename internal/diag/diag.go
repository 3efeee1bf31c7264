// Package diag defines the engine's error taxonomy and the collected
// multi-error type every fallible stage returns. A stage never fails fast:
// it accumulates every problem it can see so a single run reports the
// complete set.
package diag

import (
	"fmt"
	"strings"
)

// Class partitions failures by who can fix them.
type Class string

const (
	// Config marks malformed or incomplete input. Recoverable by the user.
	Config Class = "config"
	// Validation marks individually well-formed fields that are
	// semantically incompatible with each other.
	Validation Class = "validation"
	// Template marks a missing placeholder resolver or an unreadable
	// source template. A packaging defect, not a user error.
	Template Class = "template"
	// IO marks an unwritable target path or a collision with a protected
	// user-owned file.
	IO Class = "io"
)

// Diagnostic is a single failure with enough context to act on it.
type Diagnostic struct {
	Class   Class
	Summary string
	Detail  string
	Subject string // field path, file name, or component id
}

// Error implements the error interface.
func (d *Diagnostic) Error() string {
	var b strings.Builder
	b.WriteString(string(d.Class))
	b.WriteString(" error")
	if d.Subject != "" {
		fmt.Fprintf(&b, " [%s]", d.Subject)
	}
	b.WriteString(": ")
	b.WriteString(d.Summary)
	if d.Detail != "" {
		b.WriteString(": ")
		b.WriteString(d.Detail)
	}
	return b.String()
}

// Diagnostics is an ordered collection of failures. A nil or empty list
// means success.
type Diagnostics []*Diagnostic

// Append adds a diagnostic and returns the extended list.
func (ds Diagnostics) Append(d *Diagnostic) Diagnostics {
	return append(ds, d)
}

// Extend concatenates another list and returns the result.
func (ds Diagnostics) Extend(other Diagnostics) Diagnostics {
	return append(ds, other...)
}

// HasErrors reports whether the list contains at least one diagnostic.
func (ds Diagnostics) HasErrors() bool {
	return len(ds) > 0
}

// OfClass returns the subset of diagnostics with the given class.
func (ds Diagnostics) OfClass(c Class) Diagnostics {
	var out Diagnostics
	for _, d := range ds {
		if d.Class == c {
			out = append(out, d)
		}
	}
	return out
}

// Error implements the error interface by listing every diagnostic,
// one per line.
func (ds Diagnostics) Error() string {
	switch len(ds) {
	case 0:
		return "no diagnostics"
	case 1:
		return ds[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d errors:", len(ds))
	for _, d := range ds {
		b.WriteString("\n- ")
		b.WriteString(d.Error())
	}
	return b.String()
}

// Configf appends a new config-class diagnostic.
func (ds Diagnostics) Configf(subject, summary string, args ...any) Diagnostics {
	return ds.Append(&Diagnostic{Class: Config, Subject: subject, Summary: fmt.Sprintf(summary, args...)})
}

// Validationf appends a new validation-class diagnostic.
func (ds Diagnostics) Validationf(subject, summary string, args ...any) Diagnostics {
	return ds.Append(&Diagnostic{Class: Validation, Subject: subject, Summary: fmt.Sprintf(summary, args...)})
}

// Templatef appends a new template-class diagnostic.
func (ds Diagnostics) Templatef(subject, summary string, args ...any) Diagnostics {
	return ds.Append(&Diagnostic{Class: Template, Subject: subject, Summary: fmt.Sprintf(summary, args...)})
}

// IOf appends a new io-class diagnostic.
func (ds Diagnostics) IOf(subject, summary string, args ...any) Diagnostics {
	return ds.Append(&Diagnostic{Class: IO, Subject: subject, Summary: fmt.Sprintf(summary, args...)})
}
