package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/traceprint/traceprint/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the full report in Markdown format.
func (w *MarkdownWriter) Write(report *model.ScanReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeExposure(md, report)
	w.writeEmailChecks(md, report)
	w.writeCorrelations(md, report)
	w.writeRisk(md, report)
	w.writeAnomalies(md, report)
	w.writeSummary(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with scan information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.ScanReport) {
	md.H1("Traceprint Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Handle", "`" + report.Handle + "`"},
			{"Scan Date", report.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Platforms Checked", strconv.Itoa(len(report.ProbeResults))},
			{"Status", w.getStatusText(report)},
		},
	})
	md.PlainText("")
}

// getStatusText returns the status text based on report state.
func (w *MarkdownWriter) getStatusText(report *model.ScanReport) string {
	if report.ErrorMessage != "" {
		return "Error - " + report.ErrorMessage
	}
	return "Complete"
}

// writeExposure writes the exposure summary and the platform table.
func (w *MarkdownWriter) writeExposure(md *markdown.Markdown, report *model.ScanReport) {
	if report.Exposure == nil {
		return
	}
	exp := report.Exposure

	md.H2("Exposure Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Category", "Count"},
		Rows: [][]string{
			{"Online Accounts", strconv.Itoa(exp.Summary.OnlineAccounts)},
			{"Contact Information", strconv.Itoa(exp.Summary.ContactInformation)},
			{"Personal Identifiers", strconv.Itoa(exp.Summary.PersonalIdentifiers)},
			{"**Total**", "**" + strconv.Itoa(exp.Summary.TotalExposures) + "**"},
		},
	})
	md.PlainText("")

	if exp.Summary.TotalExposures > 0 {
		w.writePieChart(md, exp.Summary)
	}

	md.H2("Platforms")
	md.PlainText("")

	if len(exp.AllPlatformsChecked) == 0 {
		md.PlainText("No platforms were probed.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(exp.AllPlatformsChecked))
	for i, result := range exp.AllPlatformsChecked {
		url := result.ProfileURL
		if url == "" {
			url = "-"
		}
		rows[i] = []string{result.Platform, string(result.Status), truncateString(url, 60)}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Platform", "Status", "URL"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writePieChart writes a mermaid pie chart of the exposure categories.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, summary model.ExposureSummary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Exposure Distribution"),
		piechart.WithShowData(true),
	)

	if summary.OnlineAccounts > 0 {
		chart.LabelAndIntValue("Online Accounts", uint64(summary.OnlineAccounts))
	}
	if summary.ContactInformation > 0 {
		chart.LabelAndIntValue("Contact Information", uint64(summary.ContactInformation))
	}
	if summary.PersonalIdentifiers > 0 {
		chart.LabelAndIntValue("Personal Identifiers", uint64(summary.PersonalIdentifiers))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeEmailChecks writes the email audit trail for email handles.
func (w *MarkdownWriter) writeEmailChecks(md *markdown.Markdown, report *model.ScanReport) {
	if len(report.EmailChecks) == 0 {
		return
	}

	md.H2("Email Checks")
	md.PlainText("")

	rows := make([][]string, len(report.EmailChecks))
	for i, check := range report.EmailChecks {
		detail := check.Detail
		if detail == "" {
			detail = "-"
		}
		rows[i] = []string{check.Check, check.Status, truncateString(detail, 60)}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Check", "Status", "Detail"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeCorrelations writes the cross-platform correlation section.
func (w *MarkdownWriter) writeCorrelations(md *markdown.Markdown, report *model.ScanReport) {
	md.H2("Correlations")
	md.PlainText("")

	if len(report.Correlations) == 0 {
		md.PlainText("No cross-platform correlations found.")
		md.PlainText("")
		return
	}

	matches, linked := report.CorrelationSummary()
	md.PlainTextf("%d match(es) linking %d platform(s).", matches, linked)
	md.PlainText("")

	rows := make([][]string, len(report.Correlations))
	for i, m := range report.Correlations {
		rows[i] = []string{string(m.Type), "`" + m.Identifier + "`", strings.Join(m.Platforms, ", ")}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Type", "Identifier", "Platforms"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeRisk writes both risk views, the per-platform table, and the
// recommendations.
func (w *MarkdownWriter) writeRisk(md *markdown.Markdown, report *model.ScanReport) {
	if report.Risk == nil {
		return
	}
	risk := report.Risk

	md.H2("Risk Assessment")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Level", risk.Level.String()},
			{"Score", fmt.Sprintf("%.1f / 100", risk.Score)},
			{"Confidence", fmt.Sprintf("%.1f%%", risk.Confidence)},
			{"Threshold Level", report.ThresholdLevel.String()},
		},
	})
	md.PlainText("")

	w.writeAlert(md, risk.Level)

	if len(risk.PlatformRisks) > 0 {
		names := sortedKeys(risk.PlatformRisks)
		rows := make([][]string, 0, len(names))
		for _, name := range names {
			pr := risk.PlatformRisks[name]
			rows = append(rows, []string{
				name,
				fmt.Sprintf("%.1f", pr.RiskScore),
				fmt.Sprintf("%.1f", pr.Sensitivity),
			})
		}

		md.H3("Per-Platform Risk")
		md.PlainText("")
		md.Table(markdown.TableSet{
			Header: []string{"Platform", "Risk Score", "Sensitivity"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	if len(risk.Recommendations) > 0 {
		md.H3("Recommendations")
		md.PlainText("")
		md.BulletList(risk.Recommendations...)
		md.PlainText("")
	}
}

// writeAlert writes an alert matched to the overall risk level.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, level model.RiskLevel) {
	switch level {
	case model.RiskCritical:
		md.Caution("Critical exposure. The footprint is broad and highly linkable; immediate action is recommended.")
	case model.RiskHigh:
		md.Warning("High exposure. The footprint links easily across platforms.")
	case model.RiskMedium:
		md.Important("Moderate exposure. Review the recommendations below.")
	default:
		md.Tip("Low exposure. The footprint is small.")
	}
	md.PlainText("")
}

// writeAnomalies writes the anomaly heuristics section.
func (w *MarkdownWriter) writeAnomalies(md *markdown.Markdown, report *model.ScanReport) {
	if report.Anomalies == nil {
		return
	}
	anomalies := report.Anomalies

	md.H2("Anomalies")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Indicator", "Value"},
		Rows: [][]string{
			{"Severity", anomalies.Severity.String()},
			{"Impersonation Risk", fmt.Sprintf("%.1f", anomalies.Indicators.ImpersonationRisk)},
			{"Bot Likelihood", fmt.Sprintf("%.1f", anomalies.Indicators.BotLikelihood)},
			{"Account Coordination", fmt.Sprintf("%.1f", anomalies.Indicators.AccountCoordination)},
		},
	})
	md.PlainText("")

	if len(anomalies.Anomalies) > 0 {
		md.H3("Detected")
		md.PlainText("")
		md.BulletList(anomalies.Anomalies...)
		md.PlainText("")
	}

	if len(anomalies.Patterns) > 0 {
		md.H3("Patterns")
		md.PlainText("")
		md.BulletList(anomalies.Patterns...)
		md.PlainText("")
	}
}

// writeSummary writes the prose summary section.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.ScanReport) {
	if report.Summary == "" {
		return
	}

	md.H2("Summary")
	md.PlainText("")
	md.PlainText(report.Summary)
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [traceprint](https://github.com/traceprint/traceprint)*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
