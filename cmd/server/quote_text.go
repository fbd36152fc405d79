package main

import (
	"bytes"
	"net/http"
	"text/template"

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/oficina/internal/money"
	"github.com/Simplici0/oficina/internal/pricing"
	"github.com/Simplici0/oficina/internal/service"
)

var quoteTextTemplate = template.Must(template.New("quote.txt").Funcs(template.FuncMap{
	"brl": money.Format,
	"qty": money.FormatQuantity,
	"num": money.FormatNumber,
	"add": func(a, b float64) float64 { return a + b },
}).Parse(`ORÇAMENTO: {{.Name}}

MATERIAIS
{{- range .Materials}}
- {{.Name}}{{if .Description}} ({{.Description}}){{end}}: {{qty .Quantity}} x {{brl .UnitValue}} = {{brl .Total}}
{{- else}}
- nenhum material
{{- end}}
Subtotal de materiais: {{brl .Result.Breakdown.MaterialsSubtotal}}

MÃO DE OBRA DIRETA
{{- range .Labor}}
- {{.Role}}: {{qty .HoursPlanned}} h x {{brl .HourlyRate}} = {{brl .Total}}
{{- else}}
- nenhuma mão de obra
{{- end}}
Subtotal de mão de obra: {{brl .Result.Breakdown.LaborSubtotal}}

CUSTO OPERACIONAL
{{qty .ProductionDays}} dia(s) de produção + {{qty .InstallationDays}} dia(s) de instalação
{{qty (add .ProductionDays .InstallationDays)}} dia(s) x {{brl .StructuralCostPerDay}} = {{brl .Result.Breakdown.OperationalSubtotal}}

Custo total: {{brl .Result.Totals.TotalCost}}
Impostos: {{qty .TaxesPerc}}% | Lucro: {{qty .ProfitPerc}}%
{{- if .Result.Totals.MultiplierFloored}}
Atenção: impostos + lucro chegam a 100%; usado o multiplicador mínimo de {{num .MinMultiplier}}.
{{- end}}
PREÇO DE VENDA SUGERIDO: {{brl .Result.Totals.SellingPrice}}
`))

type quoteTextData struct {
	*service.Quote
	MinMultiplier float64
}

func renderQuoteText(quote *service.Quote) ([]byte, error) {
	var buf bytes.Buffer
	if err := quoteTextTemplate.Execute(&buf, quoteTextData{Quote: quote, MinMultiplier: pricing.MinPriceMultiplier}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *server) handleQuoteText(w http.ResponseWriter, r *http.Request) {
	quote, err := s.budgets.Quote(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	body, err := renderQuoteText(quote)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write(body)
}
