// Package report composes the plain-text access-log summary and writes it out.
package report

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Luiz-Camacho/analyze-logs/internal/accesslog"
	"github.com/Luiz-Camacho/analyze-logs/internal/analysis"
	"github.com/Luiz-Camacho/analyze-logs/internal/logsource"
	"github.com/Luiz-Camacho/analyze-logs/internal/model"
)

const (
	headerTimeLayout = "2006-01-02 15:04:05"
	ipColumnWidth    = 18
)

// Report is a finished summary. It is not modified after Build returns.
type Report struct {
	Source         string
	GeneratedAt    time.Time
	Text           string
	Parsed         int
	Skipped        int // unparsable or oversized lines
	UniqueIPs      int
	SuspiciousHits int // requests that touched a sensitive path
	Suspects       []string
}

// Empty reports whether no line of the log could be analyzed.
func (r *Report) Empty() bool { return r.Parsed == 0 }

// Builder runs the aggregation passes over Source and renders the report.
type Builder struct {
	Source  logsource.LogSource
	Parser  model.RecordParser
	Matcher model.RequestMatcher
	Limits  model.ReportLimits
	Now     func() time.Time
}

// NewBuilder returns a Builder with the default grammar, suspicious patterns
// and section sizes.
func NewBuilder(src logsource.LogSource) *Builder {
	return &Builder{
		Source:  src,
		Parser:  accesslog.DefaultParser(),
		Matcher: accesslog.DefaultMatcher(),
		Limits:  model.DefaultReportLimits(),
		Now:     time.Now,
	}
}

// Build reads the source once per section and returns the rendered report.
// Any read error aborts the build; no partial report is returned.
func (b *Builder) Build(ctx context.Context) (*Report, error) {
	if b.Source == nil {
		return nil, errors.New("report: nil source")
	}
	now := time.Now
	if b.Now != nil {
		now = b.Now
	}
	rep := &Report{Source: b.Source.Name(), GeneratedAt: now()}

	var sb strings.Builder
	sb.WriteString("Automatic log report\n")
	fmt.Fprintf(&sb, "File: %s\n", rep.Source)
	fmt.Fprintf(&sb, "Generated: %s\n\n", rep.GeneratedAt.Format(headerTimeLayout))

	status, err := analysis.StatusPerIP(ctx, b.Source, b.Parser)
	if err != nil {
		return nil, fmt.Errorf("report: status pass: %w", err)
	}
	rep.Parsed, rep.Skipped, rep.UniqueIPs = status.Parsed, status.Skipped, status.UniqueIPs()
	if status.ByIP.Len() == 0 {
		sb.WriteString("No analyzable lines found.\n")
		rep.Text = sb.String()
		return rep, nil
	}

	writeStatusSection(&sb, status, b.Limits.TopStatusIPs)
	fmt.Fprintf(&sb, "=== Total unique IPs ===\n%d\n\n", status.UniqueIPs())

	endpoints, err := analysis.EndpointsPerIP(ctx, b.Source, b.Parser)
	if err != nil {
		return nil, fmt.Errorf("report: endpoints pass: %w", err)
	}
	fmt.Fprintf(&sb, "=== Endpoints per IP (top %d IPs) ===\n", b.Limits.TopEndpointIPs)
	for _, ip := range status.Totals.TopKeys(b.Limits.TopEndpointIPs) {
		writeEndpoints(&sb, ip, endpoints.Row(ip).MostCommon(b.Limits.EndpointsPerIP))
	}

	suspicious, err := analysis.SuspiciousPerIP(ctx, b.Source, b.Parser, b.Matcher)
	if err != nil {
		return nil, fmt.Errorf("report: suspicious pass: %w", err)
	}
	rep.SuspiciousHits = suspicious.Totals.Total()
	writeSuspiciousSection(&sb, suspicious, b.Limits.TopSuspiciousIPs)

	logins, err := analysis.LoginAttempts(ctx, b.Source, b.Parser)
	if err != nil {
		return nil, fmt.Errorf("report: login pass: %w", err)
	}
	rep.Suspects = analysis.PrincipalSuspects(logins, status.Totals, b.Limits.PrincipalSuspects)
	fmt.Fprintf(&sb, "=== Top %d principal suspect IPs ===\n", b.Limits.PrincipalSuspects)
	for _, ip := range rep.Suspects {
		writeEndpoints(&sb, ip, endpoints.Row(ip).MostCommon(b.Limits.EndpointsPerSuspect))
	}

	sb.WriteString("End of report.\n")
	rep.Text = sb.String()
	return rep, nil
}
