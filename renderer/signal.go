package renderer

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/etnz/engagement"
	md "github.com/nao1215/markdown"
)

// SignalMarkdown renders the monthly ranking of the engagement signal and the selection it produces.
func SignalMarkdown(aggs []engagement.Aggregate, sel *engagement.Selection, topN int) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Engagement Signal")
	doc.PlainText(fmt.Sprintf("%d monthly aggregates, %d holding periods.", len(aggs), sel.Len()))

	doc.H2("Selection")
	if sel.Len() == 0 {
		doc.PlainText("No symbol passes the thresholds.")
	} else {
		table := md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignLeft},
			Header:    []string{"Held from", "Count", "Symbols"},
		}
		for start, symbols := range sel.All() {
			count := fmt.Sprint(len(symbols))
			if len(symbols) > topN {
				count = md.Bold(count) // ties
			}
			table.Rows = append(table.Rows, []string{start.String(), count, strings.Join(symbols, ", ")})
		}
		doc.Table(table)
	}

	doc.H2("Ranking")
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight},
		Header:    []string{"Month", "Symbol", "Records", "Mean Ratio", "Rank"},
	}
	for _, a := range aggs {
		if a.Rank >= float64(topN+1) {
			continue
		}
		table.Rows = append(table.Rows, []string{
			a.Month.Format("2006-01"),
			a.Symbol,
			fmt.Sprint(a.Count),
			fmt.Sprintf("%.4f", a.Ratio),
			fmt.Sprintf("%g", a.Rank),
		})
	}
	doc.Table(table)

	return doc.String()
}

// ValidationMarkdown renders the outcome of the ticker validation of symbols.
func ValidationMarkdown(symbols, valid []string, errs map[string]error) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Ticker Validation")
	doc.PlainText(fmt.Sprintf("%d of %d symbols have prices.", len(valid), len(symbols)))

	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft},
		Header:    []string{"Symbol", "Status"},
	}
	for _, symbol := range symbols {
		status := "ok"
		if err, ok := errs[symbol]; ok {
			status = md.Bold("excluded") + ": " + err.Error()
		}
		table.Rows = append(table.Rows, []string{symbol, status})
	}
	doc.Table(table)

	return doc.String()
}
