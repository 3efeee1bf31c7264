// Package hclconf is the HCL implementation of the config.Loader interface
// and the primary configuration document format.
//
// A document has three top-level blocks:
//
//	project {
//	  name      = "payments"
//	  language  = "java21"
//	  framework = "quarkus"
//	}
//
//	stack {
//	  database {
//	    type      = "postgresql"
//	    migration = "flyway"
//	  }
//	  protocols = ["rest", "tcp-custom"]
//	  infrastructure {
//	    container    = "docker"
//	    orchestrator = "kubernetes"
//	  }
//	}
//
//	options {
//	  review_api = "auto"   # or true / false
//	}
package hclconf

import (
	"context"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/atelier-dev/atelier/internal/config"
	"github.com/atelier-dev/atelier/internal/ctxlog"
	"github.com/atelier-dev/atelier/internal/diag"
)

// Loader parses HCL configuration documents.
type Loader struct{}

// NewLoader returns the HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

type rootSchema struct {
	Project *projectBlock `hcl:"project,block"`
	Stack   *stackBlock   `hcl:"stack,block"`
	Options *optionsBlock `hcl:"options,block"`
}

type projectBlock struct {
	Name      string `hcl:"name"`
	Language  string `hcl:"language"`
	Framework string `hcl:"framework,optional"`
}

type stackBlock struct {
	Database       *databaseBlock `hcl:"database,block"`
	Protocols      []string       `hcl:"protocols,optional"`
	Infrastructure *infraBlock    `hcl:"infrastructure,block"`
}

type databaseBlock struct {
	Type      string `hcl:"type"`
	Migration string `hcl:"migration,optional"`
}

type infraBlock struct {
	Container    string `hcl:"container,optional"`
	Orchestrator string `hcl:"orchestrator,optional"`
}

type optionsBlock struct {
	Body hcl.Body `hcl:",remain"`
}

// Load parses one document into the agnostic model, translating HCL
// diagnostics into the engine's config class while keeping their
// everything-at-once reporting.
func (l *Loader) Load(ctx context.Context, path string) (*config.Project, diag.Diagnostics) {
	logger := ctxlog.FromContext(ctx)
	var diags diag.Diagnostics

	parser := hclparse.NewParser()
	file, parseDiags := parser.ParseHCLFile(path)
	if parseDiags.HasErrors() {
		return nil, translate(diags, parseDiags)
	}

	var root rootSchema
	if decodeDiags := gohcl.DecodeBody(file.Body, nil, &root); decodeDiags.HasErrors() {
		return nil, translate(diags, decodeDiags)
	}

	if root.Project == nil {
		diags = diags.Configf("project", "required block is missing")
	}
	if diags.HasErrors() {
		return nil, diags
	}

	p := &config.Project{
		Name:      root.Project.Name,
		Language:  root.Project.Language,
		Framework: root.Project.Framework,
		Database:  config.Database{Type: "none"},
		Options:   make(map[string]config.TriState),
	}

	if root.Stack != nil {
		p.Protocols = root.Stack.Protocols
		if db := root.Stack.Database; db != nil {
			p.Database = config.Database{Type: db.Type, Migration: db.Migration}
		}
		if infra := root.Stack.Infrastructure; infra != nil {
			p.Infrastructure = config.Infrastructure{
				Container:    infra.Container,
				Orchestrator: infra.Orchestrator,
			}
		}
	}

	if root.Options != nil {
		diags = diags.Extend(decodeOptions(root.Options.Body, p.Options))
	}

	if diags.HasErrors() {
		return nil, diags
	}
	logger.Debug("configuration document loaded", "path", path, "format", "hcl", "options", len(p.Options))
	return p, nil
}

// decodeOptions reads every attribute of the options block as a tri-state
// value: a bare boolean or the string literal "auto".
func decodeOptions(body hcl.Body, into map[string]config.TriState) diag.Diagnostics {
	var diags diag.Diagnostics

	attrs, attrDiags := body.JustAttributes()
	if attrDiags.HasErrors() {
		return translate(diags, attrDiags)
	}

	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		attr := attrs[name]
		val, valDiags := attr.Expr.Value(nil)
		if valDiags.HasErrors() {
			diags = translate(diags, valDiags)
			continue
		}

		switch {
		case val.Type().Equals(cty.Bool):
			if val.True() {
				into[name] = config.True
			} else {
				into[name] = config.False
			}
		case val.Type().Equals(cty.String):
			state, err := config.ParseTriState(val.AsString())
			if err != nil {
				diags = diags.Configf("options."+name, "%s", err.Error())
				continue
			}
			into[name] = state
		default:
			diags = diags.Configf("options."+name,
				"flag value must be true, false, or the string \"auto\", got %s", val.Type().FriendlyName())
		}
	}
	return diags
}

// translate converts HCL diagnostics into the engine's taxonomy, one entry
// per diagnostic so nothing collapses into a single opaque error.
func translate(diags diag.Diagnostics, hclDiags hcl.Diagnostics) diag.Diagnostics {
	for _, d := range hclDiags {
		if d.Severity != hcl.DiagError {
			continue
		}
		subject := ""
		if d.Subject != nil {
			subject = d.Subject.String()
		}
		diags = diags.Append(&diag.Diagnostic{
			Class:   diag.Config,
			Subject: subject,
			Summary: d.Summary,
			Detail:  d.Detail,
		})
	}
	return diags
}
