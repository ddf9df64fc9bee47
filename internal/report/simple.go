package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/traceprint/traceprint/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether sections with no content are shown.
	showEmpty bool

	// verbose enables additional detail in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		showEmpty:  false,
		verbose:    false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the full report in human-readable format.
func (w *SimpleWriter) Write(report *model.ScanReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeExposure(&sb, report)
	w.writeEmailChecks(&sb, report)
	w.writeCorrelations(&sb, report)
	w.writeRisk(&sb, report)
	w.writeAnomalies(&sb, report)
	w.writeSummary(&sb, report)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with scan information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.ScanReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                        TRACEPRINT REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Handle:            %s\n", report.Handle))
	sb.WriteString(fmt.Sprintf("Scan Date:         %s\n", report.StartedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Platforms Checked: %d\n", len(report.ProbeResults)))
	sb.WriteString(fmt.Sprintf("Elapsed:           %s\n", report.Elapsed.Round(time.Millisecond)))

	if report.ErrorMessage != "" {
		sb.WriteString(fmt.Sprintf("Status:            ERROR - %s\n", report.ErrorMessage))
	} else {
		sb.WriteString("Status:            Complete\n")
	}

	sb.WriteString("\n")
}

// writeExposure writes the platforms-found section and the exposure counts.
func (w *SimpleWriter) writeExposure(sb *strings.Builder, report *model.ScanReport) {
	if report.Exposure == nil {
		return
	}

	writeSectionRule(sb, "EXPOSURE")

	exp := report.Exposure
	sb.WriteString(fmt.Sprintf("  Online Accounts:      %d\n", exp.Summary.OnlineAccounts))
	sb.WriteString(fmt.Sprintf("  Contact Information:  %d\n", exp.Summary.ContactInformation))
	sb.WriteString(fmt.Sprintf("  Personal Identifiers: %d\n", exp.Summary.PersonalIdentifiers))
	sb.WriteString(fmt.Sprintf("  TOTAL:                %d exposures\n", exp.Summary.TotalExposures))
	sb.WriteString("\n")

	if len(exp.PlatformsFound) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString("  Profiles found:\n")
	if len(exp.PlatformsFound) == 0 {
		sb.WriteString("    (none)\n")
	}
	for _, result := range exp.AllPlatformsChecked {
		if !result.Status.Found() {
			continue
		}
		sb.WriteString(fmt.Sprintf("    [+] %-15s %s\n", result.Platform, result.ProfileURL))
	}

	if w.verbose {
		sb.WriteString("\n  All platforms checked:\n")
		for _, result := range exp.AllPlatformsChecked {
			sb.WriteString(fmt.Sprintf("    %-15s %s\n", result.Platform, result.Status))
		}
	}
	sb.WriteString("\n")
}

// writeEmailChecks writes the email audit trail for email handles.
func (w *SimpleWriter) writeEmailChecks(sb *strings.Builder, report *model.ScanReport) {
	if len(report.EmailChecks) == 0 {
		return
	}

	writeSectionRule(sb, "EMAIL CHECKS")

	for _, check := range report.EmailChecks {
		line := fmt.Sprintf("  %-22s %s", check.Check+":", check.Status)
		if check.Detail != "" {
			line += " (" + check.Detail + ")"
		}
		sb.WriteString(line + "\n")
	}
	sb.WriteString("\n")
}

// writeCorrelations writes the cross-platform correlation section.
func (w *SimpleWriter) writeCorrelations(sb *strings.Builder, report *model.ScanReport) {
	if len(report.Correlations) == 0 && !w.showEmpty {
		return
	}

	writeSectionRule(sb, "CORRELATIONS")

	if len(report.Correlations) == 0 {
		sb.WriteString("  No cross-platform correlations found\n\n")
		return
	}

	matches, linked := report.CorrelationSummary()
	sb.WriteString(fmt.Sprintf("  %d match(es) linking %d platform(s)\n\n", matches, linked))

	for _, m := range report.Correlations {
		sb.WriteString(fmt.Sprintf("  * %s %q on: %s\n",
			m.Type, m.Identifier, strings.Join(m.Platforms, ", ")))
	}
	sb.WriteString("\n")
}

// writeRisk writes both risk views and the recommendations.
func (w *SimpleWriter) writeRisk(sb *strings.Builder, report *model.ScanReport) {
	if report.Risk == nil {
		return
	}

	writeSectionRule(sb, "RISK ASSESSMENT")

	risk := report.Risk
	sb.WriteString(fmt.Sprintf("  Level:           %s\n", risk.Level))
	sb.WriteString(fmt.Sprintf("  Score:           %.1f / 100\n", risk.Score))
	sb.WriteString(fmt.Sprintf("  Confidence:      %.1f%%\n", risk.Confidence))
	sb.WriteString(fmt.Sprintf("  Threshold Level: %s\n", report.ThresholdLevel))
	sb.WriteString("\n")

	if len(risk.PlatformRisks) > 0 && w.verbose {
		sb.WriteString("  Per-platform risk:\n")
		for _, name := range sortedKeys(risk.PlatformRisks) {
			pr := risk.PlatformRisks[name]
			sb.WriteString(fmt.Sprintf("    %-15s risk %.1f  sensitivity %.1f\n",
				name, pr.RiskScore, pr.Sensitivity))
		}
		sb.WriteString("\n")
	}

	if len(risk.Recommendations) > 0 {
		sb.WriteString("  Recommendations:\n")
		for _, rec := range risk.Recommendations {
			sb.WriteString(fmt.Sprintf("    * %s\n", rec))
		}
		sb.WriteString("\n")
	}
}

// writeAnomalies writes the anomaly heuristics section.
func (w *SimpleWriter) writeAnomalies(sb *strings.Builder, report *model.ScanReport) {
	if report.Anomalies == nil {
		return
	}
	anomalies := report.Anomalies
	if len(anomalies.Anomalies) == 0 && len(anomalies.Patterns) == 0 && !w.showEmpty && !w.verbose {
		return
	}

	writeSectionRule(sb, "ANOMALIES")

	sb.WriteString(fmt.Sprintf("  Severity: %s\n", anomalies.Severity))
	sb.WriteString(fmt.Sprintf("  Impersonation Risk:   %.1f\n", anomalies.Indicators.ImpersonationRisk))
	sb.WriteString(fmt.Sprintf("  Bot Likelihood:       %.1f\n", anomalies.Indicators.BotLikelihood))
	sb.WriteString(fmt.Sprintf("  Account Coordination: %.1f\n", anomalies.Indicators.AccountCoordination))
	sb.WriteString("\n")

	if len(anomalies.Anomalies) > 0 {
		sb.WriteString("  Detected:\n")
		for _, a := range anomalies.Anomalies {
			sb.WriteString(fmt.Sprintf("    [!] %s\n", a))
		}
		sb.WriteString("\n")
	}

	if len(anomalies.Patterns) > 0 {
		sb.WriteString("  Patterns:\n")
		for _, p := range anomalies.Patterns {
			sb.WriteString(fmt.Sprintf("    - %s\n", p))
		}
		sb.WriteString("\n")
	}
}

// writeSummary writes the prose summary section.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, report *model.ScanReport) {
	if report.Summary == "" {
		return
	}

	writeSectionRule(sb, "SUMMARY")
	sb.WriteString("  " + report.Summary + "\n\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by traceprint\n")
	sb.WriteString("https://github.com/traceprint/traceprint\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}

// sortedKeys returns the map's keys in lexical order so output is
// deterministic.
func sortedKeys(m map[string]model.PlatformRisk) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// writeSectionRule writes a section header between horizontal rules.
func writeSectionRule(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")
}
