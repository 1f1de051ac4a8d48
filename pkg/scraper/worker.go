package scraper

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/shouni/go-competitor-watch/pkg/adapter"
	"github.com/shouni/go-competitor-watch/pkg/bounded"
	"github.com/shouni/go-competitor-watch/pkg/types"
)

const (
	// DefaultAdapterTimeout は、アダプタ呼び出し1回あたりの既定の制限時間です。
	DefaultAdapterTimeout = 120 * time.Second

	// 記録ログでタイトルを切り詰める表示幅
	recordTitleWidth = 80
)

// Limits は、1社あたりに保持する各リストの最大件数です。
type Limits struct {
	News    int `yaml:"news"`
	Jobs    int `yaml:"jobs"`
	Patents int `yaml:"patents"`
}

// DefaultLimits は既定の件数上限 (ニュース10件・求人10件・特許5件) を返します。
func DefaultLimits() Limits {
	return Limits{News: 10, Jobs: 10, Patents: 5}
}

// WorkerOptions は Worker の設定です。
type WorkerOptions struct {
	// AdapterTimeout はアダプタ呼び出し1回あたりの制限時間です。
	AdapterTimeout time.Duration
	// Limits は各リストの最大件数です。0 の項目には既定値を使います。
	Limits Limits
	// Verbose が true の場合、取得した記録を1件ずつ Out に出力します。
	Verbose bool
	// Out は記録の出力先です。nil の場合は os.Stdout です。
	Out io.Writer
}

// Worker は1社分のニュース・求人・特許を順に取得します。
type Worker struct {
	registry *adapter.Registry
	opts     WorkerOptions
}

// NewWorker は Worker を初期化します。
func NewWorker(registry *adapter.Registry, opts WorkerOptions) *Worker {
	if opts.AdapterTimeout <= 0 {
		opts.AdapterTimeout = DefaultAdapterTimeout
	}
	defaults := DefaultLimits()
	if opts.Limits.News <= 0 {
		opts.Limits.News = defaults.News
	}
	if opts.Limits.Jobs <= 0 {
		opts.Limits.Jobs = defaults.Jobs
	}
	if opts.Limits.Patents <= 0 {
		opts.Limits.Patents = defaults.Patents
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	return &Worker{registry: registry, opts: opts}
}

// ScrapeOne は name の競合について、ニュース・求人・特許の順にアダプタを呼び出します。
// 各呼び出しは AdapterTimeout で打ち切られ、失敗した種類は空のリストになります。
// 未登録の競合名の場合はすべて空の結果を返します。エラーは返しません。
func (w *Worker) ScrapeOne(ctx context.Context, name string) types.CompetitorResult {
	result := types.EmptyResult(name)

	c, ok := w.registry.Lookup(name)
	if !ok {
		log.Printf("%s: 未登録の競合のため空の結果を返します。", name)
		return result
	}

	timeout := w.opts.AdapterTimeout

	result.News = truncate(bounded.Run[types.News](ctx, timeout, name+" ニュース", c.FetchNews), w.opts.Limits.News)
	w.printNews(result.News)

	result.Jobs = truncate(bounded.Run[types.Job](ctx, timeout, name+" 求人", c.FetchJobs), w.opts.Limits.Jobs)
	w.printJobs(result.Jobs)

	if patents := w.registry.Patents(); patents != nil {
		result.Patents = truncate(bounded.Run[types.Patent](ctx, timeout, name+" 特許", func(ctx context.Context) ([]types.Patent, error) {
			return patents.FetchPatents(ctx, name)
		}), w.opts.Limits.Patents)
		w.printPatents(result.Patents)
	}

	return result
}

// truncate は items の先頭 n 件を返します。
func truncate[T any](items []T, n int) []T {
	if n > 0 && len(items) > n {
		return items[:n]
	}
	return items
}

func (w *Worker) printNews(news []types.News) {
	if !w.opts.Verbose {
		return
	}
	for _, n := range news {
		fmt.Fprintf(w.opts.Out, "Article on %s: %s. URL: %s\n", n.Date, shorten(n.Headline), n.URL)
	}
}

func (w *Worker) printJobs(jobs []types.Job) {
	if !w.opts.Verbose {
		return
	}
	for _, j := range jobs {
		fmt.Fprintf(w.opts.Out, "Job: %s. URL: %s\n", shorten(j.Title), j.URL)
	}
}

func (w *Worker) printPatents(patents []types.Patent) {
	if !w.opts.Verbose {
		return
	}
	for _, p := range patents {
		fmt.Fprintf(w.opts.Out, "Patent on %s: %s. URL: %s\n", p.Date, shorten(p.Title), p.URL)
	}
}

// shorten は全角文字を考慮した表示幅でタイトルを切り詰めます。
func shorten(s string) string {
	return runewidth.Truncate(s, recordTitleWidth, "…")
}
