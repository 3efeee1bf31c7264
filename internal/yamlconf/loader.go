// Package yamlconf is the YAML implementation of the config.Loader
// interface. It accepts the same logical document as the HCL loader:
//
//	project:
//	  name: payments
//	  language: java21
//	  framework: quarkus
//	stack:
//	  database:
//	    type: postgresql
//	    migration: flyway
//	  protocols: [rest, tcp-custom]
//	  infrastructure:
//	    container: docker
//	    orchestrator: kubernetes
//	options:
//	  review_api: auto
package yamlconf

import (
	"context"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/atelier-dev/atelier/internal/config"
	"github.com/atelier-dev/atelier/internal/ctxlog"
	"github.com/atelier-dev/atelier/internal/diag"
)

// Loader parses YAML configuration documents.
type Loader struct{}

// NewLoader returns the YAML configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

type document struct {
	Project *projectSection      `yaml:"project"`
	Stack   *stackSection        `yaml:"stack"`
	Options map[string]yaml.Node `yaml:"options"`
}

type projectSection struct {
	Name      string `yaml:"name"`
	Language  string `yaml:"language"`
	Framework string `yaml:"framework"`
}

type stackSection struct {
	Database *struct {
		Type      string `yaml:"type"`
		Migration string `yaml:"migration"`
	} `yaml:"database"`
	Protocols      []string `yaml:"protocols"`
	Infrastructure *struct {
		Container    string `yaml:"container"`
		Orchestrator string `yaml:"orchestrator"`
	} `yaml:"infrastructure"`
}

// Load parses one document into the agnostic model.
func (l *Loader) Load(ctx context.Context, path string) (*config.Project, diag.Diagnostics) {
	logger := ctxlog.FromContext(ctx)
	var diags diag.Diagnostics

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, diags.Configf(path, "cannot read configuration document: %v", err)
	}

	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, diags.Configf(path, "malformed YAML: %v", err)
	}

	if doc.Project == nil {
		return nil, diags.Configf("project", "required section is missing")
	}

	p := &config.Project{
		Name:      doc.Project.Name,
		Language:  doc.Project.Language,
		Framework: doc.Project.Framework,
		Database:  config.Database{Type: "none"},
		Options:   make(map[string]config.TriState),
	}

	if doc.Stack != nil {
		p.Protocols = doc.Stack.Protocols
		if db := doc.Stack.Database; db != nil {
			p.Database = config.Database{Type: db.Type, Migration: db.Migration}
		}
		if infra := doc.Stack.Infrastructure; infra != nil {
			p.Infrastructure = config.Infrastructure{
				Container:    infra.Container,
				Orchestrator: infra.Orchestrator,
			}
		}
	}

	diags = diags.Extend(decodeOptions(doc.Options, p.Options))
	if diags.HasErrors() {
		return nil, diags
	}

	logger.Debug("configuration document loaded", "path", path, "format", "yaml", "options", len(p.Options))
	return p, nil
}

// decodeOptions interprets each options entry as a tri-state: a YAML
// boolean or the string literal "auto". Every malformed entry is reported;
// none aborts the pass.
func decodeOptions(raw map[string]yaml.Node, into map[string]config.TriState) diag.Diagnostics {
	var diags diag.Diagnostics

	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		node := raw[name]
		state, err := triStateFromNode(node)
		if err != nil {
			diags = diags.Configf("options."+name, "%s", err.Error())
			continue
		}
		into[name] = state
	}
	return diags
}

func triStateFromNode(node yaml.Node) (config.TriState, error) {
	var b bool
	if err := node.Decode(&b); err == nil {
		if b {
			return config.True, nil
		}
		return config.False, nil
	}
	var s string
	if err := node.Decode(&s); err == nil {
		return config.ParseTriState(s)
	}
	return config.Auto, fmt.Errorf("flag value must be true, false, or \"auto\"")
}
