package report

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/shouni/go-headline-exact/pkg/types"
)

// ステータス表示
const (
	StatusOK    = "ok"
	StatusEmpty = "empty"
)

const sourceColumnWidth = 60

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	// フッターのステータスは行と同じ小文字のまま表示する
	t.Style().Format.Footer = text.FormatDefault
	return t
}

// Summary はソースごとの見出し件数を表形式で w に出力します。
func Summary(w io.Writer, result types.Result) {
	t := newTable(w)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, WidthMax: sourceColumnWidth},
	})
	t.AppendHeader(table.Row{"#", "Source", "Headlines", "Status"})

	empty := 0
	for i, r := range result {
		status := StatusOK
		if len(r.Headlines) == 0 {
			status = StatusEmpty
			empty++
		}
		t.AppendRow(table.Row{i + 1, r.URL, len(r.Headlines), status})
	}

	t.AppendFooter(table.Row{"Total", len(result), result.TotalHeadlines(), Status(len(result), empty)})
	t.Render()
}

// Headlines は見出しの一覧を表形式で w に出力します。
func Headlines(w io.Writer, headlines []types.Headline) {
	t := newTable(w)
	t.AppendHeader(table.Row{"#", "Title", "Link"})
	for i, h := range headlines {
		t.AppendRow(table.Row{i + 1, h.Title, h.Link})
	}
	t.AppendFooter(table.Row{"Total", len(headlines), ""})
	t.Render()
}

// Status は空だったソースの数をフッター用の文字列にします。
func Status(total, empty int) string {
	if empty == 0 {
		return StatusOK
	}
	return fmt.Sprintf("%s: %d/%d", StatusEmpty, empty, total)
}
