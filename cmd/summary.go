package cmd

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/shouni/go-competitor-watch/pkg/types"
)

// printSummary は競合ごとの取得件数を表形式で出力します。
func printSummary(w io.Writer, snap types.Snapshot) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Competitor", "News", "Jobs", "Patents"})

	var news, jobs, patents int
	for _, r := range snap.Competitor {
		t.AppendRow(table.Row{r.Name, len(r.News), len(r.Jobs), len(r.Patents)})
		news += len(r.News)
		jobs += len(r.Jobs)
		patents += len(r.Patents)
	}
	t.AppendFooter(table.Row{"Total", news, jobs, patents})

	t.SetStyle(table.StyleRounded)
	t.Render()
}
