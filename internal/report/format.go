package report

import (
	"fmt"
	"strings"

	"github.com/Luiz-Camacho/analyze-logs/internal/analysis"
	"github.com/Luiz-Camacho/analyze-logs/internal/model"
)

// writeStatusSection renders the status-code matrix for the busiest IPs.
// Columns are every status code seen, in string order, then TOTAL.
func writeStatusSection(sb *strings.Builder, status analysis.StatusTables, limit int) {
	codes := status.ByIP.Columns()

	fmt.Fprintf(sb, "=== HTTP Status per IP (top %d) ===\n", limit)
	cells := make([]string, len(codes))
	for i, code := range codes {
		cells[i] = fmt.Sprintf("%5s", code)
	}
	header := fmt.Sprintf("%-*s  %s   TOTAL\n", ipColumnWidth, "IP", strings.Join(cells, "  "))
	sb.WriteString(header)
	sb.WriteString(strings.Repeat("-", len(header)+10))
	sb.WriteString("\n")

	for _, ip := range status.Totals.TopKeys(limit) {
		counts := status.ByIP.Row(ip)
		fmt.Fprintf(sb, "%-*s  ", ipColumnWidth, ip)
		for _, code := range codes {
			fmt.Fprintf(sb, "%5d  ", counts.Get(code))
		}
		fmt.Fprintf(sb, "  %6d\n", status.Totals.Get(ip))
	}
	sb.WriteString("\n")
}

func writeEndpoints(sb *strings.Builder, ip string, endpoints []model.RankedCount) {
	sb.WriteString(ip)
	sb.WriteString("\n")
	for _, e := range endpoints {
		fmt.Fprintf(sb, "  %5d  %s\n", e.Count, e.Key)
	}
	sb.WriteString("\n")
}

func writeSuspiciousSection(sb *strings.Builder, suspicious analysis.SuspiciousTables, limit int) {
	fmt.Fprintf(sb, "=== Suspicious endpoint hits (top %d) ===\n", limit)
	if suspicious.Totals.Len() == 0 {
		sb.WriteString("No suspicious endpoints detected.\n\n")
		return
	}
	for _, r := range suspicious.Totals.MostCommon(limit) {
		fmt.Fprintf(sb, "%s  total_suspeitos=%d\n", r.Key, r.Count)
		for _, hit := range suspicious.ByIP.Row(r.Key).MostCommon(0) {
			fmt.Fprintf(sb, "    %5d  %s\n", hit.Count, hit.Key)
		}
		sb.WriteString("\n")
	}
}
