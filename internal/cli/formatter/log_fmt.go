package formatter

import (
	"fmt"

	"github.com/alexanderramin/siteplan/internal/domain"
)

// FormatDailyLogs renders site reports newest first, as listed.
func FormatDailyLogs(logs []*domain.DailyLog) string {
	headers := []string{"DATE", "PROGRESS", "WORKERS", "NOTE"}
	rows := make([][]string, 0, len(logs))
	for _, l := range logs {
		d := l.Date
		rows = append(rows, []string{
			DateCell(&d),
			RenderProgress(l.ProgressPct, 10),
			fmt.Sprintf("%d", l.Workers),
			orDash(l.Note),
		})
	}
	return RenderTable(headers, rows)
}

// FormatContractors lists a project's contractors.
func FormatContractors(cs []domain.Contractor) string {
	headers := []string{"#", "NAME", "TRADE", "PHONE"}
	rows := make([][]string, 0, len(cs))
	for _, c := range cs {
		rows = append(rows, []string{fmt.Sprintf("%d", c.ID), Bold(c.Name), orDash(c.Trade), orDash(c.Phone)})
	}
	return RenderTable(headers, rows)
}

// FormatPackages lists work packages with their contractor name.
func FormatPackages(ps []domain.WorkPackage, contractors []domain.Contractor) string {
	byID := make(map[int64]string, len(contractors))
	for _, c := range contractors {
		byID[c.ID] = c.Name
	}
	headers := []string{"#", "NAME", "CONTRACTOR"}
	rows := make([][]string, 0, len(ps))
	for _, p := range ps {
		contractor := Dim("--")
		if p.ContractorID != nil {
			contractor = orDash(byID[*p.ContractorID])
		}
		rows = append(rows, []string{fmt.Sprintf("%d", p.ID), Bold(p.Name), contractor})
	}
	return RenderTable(headers, rows)
}
