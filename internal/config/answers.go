package config

import (
	"sort"
	"strings"

	"github.com/atelier-dev/atelier/internal/diag"
)

// Answer keys accepted by FromAnswers. The interactive wizard produces
// exactly these; they also make a convenient programmatic entry point.
const (
	AnswerName         = "name"
	AnswerLanguage     = "language"
	AnswerFramework    = "framework"
	AnswerDatabase     = "database"
	AnswerMigration    = "migration"
	AnswerProtocols    = "protocols"
	AnswerContainer    = "container"
	AnswerOrchestrator = "orchestrator"

	// answerOptionPrefix namespaces feature-flag answers, e.g.
	// "option.review_api" = "auto".
	answerOptionPrefix = "option."
)

// FromAnswers converts an interactive-answer map into a Project. Protocols
// are a comma-separated list; feature flags use the "option.<id>" prefix
// with a tri-state value. Unknown keys and malformed flag values are
// collected as config diagnostics.
func FromAnswers(answers map[string]string) (*Project, diag.Diagnostics) {
	var diags diag.Diagnostics
	p := &Project{Options: make(map[string]TriState)}

	// Deterministic diagnostic order regardless of map iteration.
	keys := make([]string, 0, len(answers))
	for k := range answers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := strings.TrimSpace(answers[key])
		switch key {
		case AnswerName:
			p.Name = value
		case AnswerLanguage:
			p.Language = value
		case AnswerFramework:
			p.Framework = value
		case AnswerDatabase:
			p.Database.Type = value
		case AnswerMigration:
			p.Database.Migration = value
		case AnswerProtocols:
			p.Protocols = splitList(value)
		case AnswerContainer:
			p.Infrastructure.Container = value
		case AnswerOrchestrator:
			p.Infrastructure.Orchestrator = value
		default:
			id, ok := strings.CutPrefix(key, answerOptionPrefix)
			if !ok || id == "" {
				diags = diags.Configf(key, "unknown answer key")
				continue
			}
			state, err := ParseTriState(value)
			if err != nil {
				diags = diags.Configf(key, "%s", err.Error())
				continue
			}
			p.Options[id] = state
		}
	}

	if diags.HasErrors() {
		return nil, diags
	}
	return p, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
