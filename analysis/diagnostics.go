package analysis

import (
	"github.com/sourcegraph/go-lsp"
)

type Severity int

const (
	SeverityError Severity = iota + 1
	SeverityWarning
	SeverityInformation
	SeverityHint
)

func (s Severity) ToLSP() lsp.DiagnosticSeverity {
	switch s {
	case SeverityError:
		return lsp.Error
	case SeverityWarning:
		return lsp.Warning
	case SeverityInformation:
		return lsp.Information
	default:
		return lsp.Hint
	}
}

// Code identifies a diagnostic category. The namespaced string form is
// produced only at serialization boundaries; everywhere else codes compare as
// integers and carry their static metadata.
type Code int

const (
	CodeNoEmptyMatches Code = iota
	CodeNoVar
	CodeNoWith
	CodeNoDoubleNegation
	CodeNoCoercingEquality
	CodeNoConditionAssignment
	CodeUndeclaredGlobal
	CodeRuleError
)

type codeInfo struct {
	id       string
	severity Severity
}

var codeTable = [...]codeInfo{
	CodeNoEmptyMatches:        {"lint/js/noEmptyMatches", SeverityError},
	CodeNoVar:                 {"lint/js/noVar", SeverityWarning},
	CodeNoWith:                {"lint/js/noWith", SeverityWarning},
	CodeNoDoubleNegation:      {"lint/js/noDoubleNegation", SeverityInformation},
	CodeNoCoercingEquality:    {"lint/js/noCoercingEquality", SeverityInformation},
	CodeNoConditionAssignment: {"lint/js/noConditionAssignment", SeverityWarning},
	CodeUndeclaredGlobal:      {"lint/js/undeclaredGlobal", SeverityInformation},
	CodeRuleError:             {"lint/internal/ruleError", SeverityError},
}

func (c Code) String() string {
	if int(c) < 0 || int(c) >= len(codeTable) {
		return "lint/internal/unknown"
	}
	return codeTable[c].id
}

func (c Code) DefaultSeverity() Severity {
	if int(c) < 0 || int(c) >= len(codeTable) {
		return SeverityError
	}
	return codeTable[c].severity
}

// Edit is a span-scoped text replacement proposed to resolve a diagnostic.
type Edit struct {
	Range PointRange
	With  string
}

// Diagnostic is the uniform record produced by rules.
type Diagnostic struct {
	Code     Code
	Severity Severity
	Message  string
	// Advice optionally suggests what to do about the finding.
	Advice string
	Range  PointRange
	// Meta carries rule-specific structured facts for consumers that should
	// not have to parse Message.
	Meta map[string]string
	// Fix holds the ordered edits that resolve the finding, if any.
	Fix []Edit
	// Context is the source text of the offending node, for renderers that
	// show a snippet. The tree itself does not outlive the run.
	Context string
}

func (d Diagnostic) HasFix() bool {
	return len(d.Fix) > 0
}

func (d Diagnostic) ToLSP() lsp.Diagnostic {
	return lsp.Diagnostic{
		Range:    d.Range.ToLSP(),
		Severity: d.Severity.ToLSP(),
		Code:     d.Code.String(),
		Source:   "js-lint",
		Message:  d.Message,
	}
}
