package service

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"time"

	"github.com/anyulbade/marketplace-pricer/internal/dto"
	"github.com/anyulbade/marketplace-pricer/internal/model"
	"github.com/anyulbade/marketplace-pricer/internal/pricing"
	"github.com/anyulbade/marketplace-pricer/internal/ratetable"
)

type ExportService struct {
	rates  *ratetable.Table
	report *template.Template
	now    func() time.Time
}

type ReportData struct {
	GeneratedAt string
	Summary     dto.ListSummary
	Products    []model.Product
}

func NewExportService(rates *ratetable.Table, reportTemplate string) (*ExportService, error) {
	funcMap := template.FuncMap{
		"money": func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) },
		"pct":   func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) + "%" },
		"winner": func(p model.Product) string {
			if !p.Recommendation.Meaningful {
				return ""
			}
			return string(p.Recommendation.Winner)
		},
	}

	tmpl, err := template.New("report").Funcs(funcMap).Parse(reportTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse report template: %w", err)
	}
	return &ExportService{rates: rates, report: tmpl, now: time.Now}, nil
}

// CSVHeader names the export columns using the configured channel labels.
func (s *ExportService) CSVHeader() []string {
	a, b := s.rates.ChannelA.Label, s.rates.ChannelB.Label
	return []string{
		"Product", "Category", "Cost",
		"Price " + a, "Profit " + a, "Margin % " + a,
		"Price " + b, "Profit " + b, "Margin % " + b,
		"Best Channel",
	}
}

func (s *ExportService) WriteCSV(w io.Writer, products []model.Product) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(s.CSVHeader()); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for i, p := range products {
		row := []string{
			p.Name,
			p.Category,
			formatMoney(p.Cost),
			formatMoney(p.ChannelA.Price),
			formatMoney(p.ChannelA.Profit),
			formatMoney(p.ChannelA.MarginPercent),
			formatMoney(p.ChannelB.Price),
			formatMoney(p.ChannelB.Profit),
			formatMoney(p.ChannelB.MarginPercent),
			p.PreferredChannel,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func (s *ExportService) RenderHTML(products []model.Product, summary dto.ListSummary) ([]byte, error) {
	data := ReportData{
		GeneratedAt: s.now().Format("2006-01-02 15:04:05 MST"),
		Summary:     summary,
		Products:    products,
	}

	var buf bytes.Buffer
	if err := s.report.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), nil
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(pricing.Round2(v), 'f', 2, 64)
}
