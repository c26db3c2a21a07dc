package safety

import (
	"fmt"
	"strings"
)

// LicenseNotApplicable is the license category given to employees created by an import.
const LicenseNotApplicable = "N/A"

// ThirdPartyLabel names the owner of an incident with no employee attached.
const ThirdPartyLabel = "third party"

type ExamType string

const (
	ExamAdmission    ExamType = "admission"
	ExamPeriodic     ExamType = "periodic"
	ExamTermination  ExamType = "termination"
	ExamRiskChange   ExamType = "risk_change"
	ExamReturnToWork ExamType = "return_to_work"
)

type ExamResult string

const (
	ResultFit   ExamResult = "fit"
	ResultUnfit ExamResult = "unfit"
)

type Severity string

const (
	SeverityMinor    Severity = "minor"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
	SeverityFatal    Severity = "fatal"
	SeverityNearMiss Severity = "near_miss"
)

var examTypeAliases = aliasIndex(map[ExamType][]string{
	ExamAdmission:    {"admission", "admissional"},
	ExamPeriodic:     {"periodic", "periodico"},
	ExamTermination:  {"termination", "demissional"},
	ExamRiskChange:   {"risk_change", "mudanca de risco"},
	ExamReturnToWork: {"return_to_work", "retorno ao trabalho"},
})

var examResultAliases = aliasIndex(map[ExamResult][]string{
	ResultFit:   {"fit", "apto"},
	ResultUnfit: {"unfit", "inapto"},
})

var severityAliases = aliasIndex(map[Severity][]string{
	SeverityMinor:    {"minor", "leve"},
	SeverityModerate: {"moderate", "moderado"},
	SeveritySevere:   {"severe", "grave"},
	SeverityFatal:    {"fatal"},
	SeverityNearMiss: {"near_miss", "near miss", "quase acidente"},
})

func aliasIndex[T ~string](in map[T][]string) map[string]T {
	out := make(map[string]T)
	for value, aliases := range in {
		for _, alias := range aliases {
			out[enumKey(alias)] = value
		}
	}
	return out
}

// ParseExamType accepts the canonical value or the Portuguese label, ignoring case and accents.
func ParseExamType(raw string) (ExamType, error) {
	if v, ok := examTypeAliases[enumKey(raw)]; ok {
		return v, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidExamType, strings.TrimSpace(raw))
}

func ParseExamResult(raw string) (ExamResult, error) {
	if v, ok := examResultAliases[enumKey(raw)]; ok {
		return v, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidExamResult, strings.TrimSpace(raw))
}

func ParseSeverity(raw string) (Severity, error) {
	if v, ok := severityAliases[enumKey(raw)]; ok {
		return v, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSeverity, strings.TrimSpace(raw))
}

// Severities lists every severity in ascending order of harm.
func Severities() []Severity {
	return []Severity{SeverityNearMiss, SeverityMinor, SeverityModerate, SeveritySevere, SeverityFatal}
}
