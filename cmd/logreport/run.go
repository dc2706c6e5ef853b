package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Luiz-Camacho/analyze-logs/internal/logsource"
	"github.com/Luiz-Camacho/analyze-logs/internal/report"
)

// runReport builds the report for logPath, writes it to the output
// directory and echoes it to stdout.
func runReport(ctx context.Context, cfg appConfig, logPath string, stdout, stderr io.Writer) error {
	src, err := logsource.NewFileSource(logPath, logsource.FileConfig{MaxLineSize: cfg.MaxLineSize})
	if err != nil {
		return err
	}

	parser, err := cfg.lineParser()
	if err != nil {
		return err
	}

	builder := report.NewBuilder(src)
	builder.Parser = parser
	builder.Limits = cfg.reportLimits()

	rep, err := builder.Build(ctx)
	if err != nil {
		return err
	}

	outPath, err := report.Export(rep.Text, cfg.OutputDir, rep.GeneratedAt)
	if err != nil {
		return err
	}
	if rep.Empty() {
		log.Printf("logreport: no analyzable lines in %s (%d skipped)", rep.Source, rep.Skipped)
	}
	log.Printf("logreport: exported %s (%d parsed, %d skipped, %d unique IPs, %d suspicious hits)",
		outPath, rep.Parsed, rep.Skipped, rep.UniqueIPs, rep.SuspiciousHits)

	if err := report.Echo(stdout, rep.Text, outPath); err != nil {
		return fmt.Errorf("echo report: %w", err)
	}

	if !cfg.NoBanner {
		printExportBanner(stderr, cfg, rep, outPath, src.Compressed())
	}
	return nil
}

// configureRuntimeLogger sends the standard logger to path, falling back
// to fallback when the file cannot be opened.
func configureRuntimeLogger(path string, fallback io.Writer) func() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if path == "" {
		log.SetOutput(fallback)
		return func() {}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		log.SetOutput(fallback)
		return func() {}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.SetOutput(fallback)
		return func() {}
	}

	log.SetOutput(f)
	return func() {
		log.SetOutput(fallback)
		_ = f.Close()
	}
}

func printExportBanner(w io.Writer, cfg appConfig, rep *report.Report, outPath string, compressed bool) {
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	cyan := lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	yellow := lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	bold := lipgloss.NewStyle().Bold(true)

	check := green.Render("●")
	dot := dim.Render("●")
	warn := yellow.Render("●")

	var lines []string
	lines = append(lines, "")
	lines = append(lines, "    "+cyan.Bold(true).Render("logreport")+" "+dim.Render("v"+version))
	lines = append(lines, "")

	separator := dim.Render("    ─────────────────────────────────")
	lines = append(lines, separator)
	lines = append(lines, "")

	lines = append(lines, bold.Render("    Input"))
	lines = append(lines, "")
	format := "plain"
	if compressed {
		format = "gzip"
	}
	lines = append(lines, fmt.Sprintf("    %s  Source         %s", check, cyan.Render(shortenPath(rep.Source))))
	lines = append(lines, fmt.Sprintf("    %s  Format         %s", check, dim.Render(format)))
	lines = append(lines, fmt.Sprintf("    %s  Parsed         %s", check, dim.Render(fmt.Sprint(rep.Parsed))))
	if rep.Skipped > 0 {
		lines = append(lines, fmt.Sprintf("    %s  Skipped        %s", warn, dim.Render(fmt.Sprint(rep.Skipped))))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Skipped        %s", dot, dim.Render("0")))
	}
	lines = append(lines, "")

	lines = append(lines, bold.Render("    Findings"))
	lines = append(lines, "")
	if rep.Empty() {
		lines = append(lines, fmt.Sprintf("    %s  Unique IPs     %s", warn, yellow.Render("no analyzable lines")))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Unique IPs     %s", check, dim.Render(fmt.Sprint(rep.UniqueIPs))))
	}
	if rep.SuspiciousHits > 0 {
		lines = append(lines, fmt.Sprintf("    %s  Suspicious     %s", warn, yellow.Render(fmt.Sprint(rep.SuspiciousHits))))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Suspicious     %s", dot, dim.Render("0")))
	}
	if len(rep.Suspects) > 0 {
		lines = append(lines, fmt.Sprintf("    %s  Suspects       %s", warn, yellow.Render(strings.Join(rep.Suspects, ", "))))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Suspects       %s", dot, dim.Render("none")))
	}
	lines = append(lines, "")

	lines = append(lines, bold.Render("    Output"))
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("    %s  Report         %s", check, cyan.Render(shortenPath(outPath))))
	if cfg.ConfigPath != "" {
		lines = append(lines, fmt.Sprintf("    %s  Config File    %s", check, dim.Render(shortenPath(cfg.ConfigPath))))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Config File    %s", dot, dim.Render("default (no file)")))
	}
	lines = append(lines, "")
	lines = append(lines, separator)
	lines = append(lines, "")

	fmt.Fprintln(w, strings.Join(lines, "\n"))
}

func shortenPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if strings.HasPrefix(path, home) {
		return "~" + path[len(home):]
	}
	return path
}
