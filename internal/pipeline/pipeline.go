// Package pipeline は、設定から依存性を組み立てて1回分の取得を実行する処理パイプラインです。
package pipeline

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/shouni/go-competitor-watch/internal/config"
	"github.com/shouni/go-competitor-watch/pkg/adapter"
	"github.com/shouni/go-competitor-watch/pkg/feed"
	"github.com/shouni/go-competitor-watch/pkg/render"
	"github.com/shouni/go-competitor-watch/pkg/scraper"
	"github.com/shouni/go-competitor-watch/pkg/sites"
	"github.com/shouni/go-competitor-watch/pkg/snapshot"
	"github.com/shouni/go-competitor-watch/pkg/types"
)

// Options は Run / RunWorker の入力です。
type Options struct {
	Config config.Config
	// Fetcher は静的ページとフィードの取得に使う HTTP クライアントです。
	Fetcher render.Fetcher
	// Verbose が true の場合、取得した記録と各社の完了をログに出力します。
	Verbose bool

	// Registry が設定されている場合、既定のサイトアダプタの代わりに使います。
	Registry *adapter.Registry

	// Executable はワーカープロセスとして起動する実行ファイルです。空の場合は自身を起動します。
	Executable string
	// WorkerArgs はワーカーサブコマンドを起動するための引数です。
	WorkerArgs []string
}

// BuildRegistry は設定に従って既定のサイトアダプタを登録した Registry を返します。
func BuildRegistry(cfg config.Config, fetcher render.Fetcher) (*adapter.Registry, error) {
	static, err := render.NewStatic(fetcher)
	if err != nil {
		return nil, fmt.Errorf("静的レンダラーの初期化エラー: %w", err)
	}
	browser := render.NewBrowser(render.BrowserOptions{
		Bin:     cfg.Browser.Bin,
		Headful: cfg.Browser.Headful,
	})

	return sites.NewRegistry(sites.Deps{
		Browser:  browser,
		Static:   static,
		Feeds:    feed.NewParser(fetcher),
		FeedURLs: cfg.Feeds,
	}), nil
}

func resolveRegistry(opts Options) (*adapter.Registry, error) {
	if opts.Registry != nil {
		return opts.Registry, nil
	}
	return BuildRegistry(opts.Config, opts.Fetcher)
}

func newWorker(opts Options) (*scraper.Worker, error) {
	registry, err := resolveRegistry(opts)
	if err != nil {
		return nil, err
	}
	return scraper.NewWorker(registry, scraper.WorkerOptions{
		AdapterTimeout: opts.Config.AdapterTimeout,
		Limits:         opts.Config.Limits,
		Verbose:        opts.Verbose,
	}), nil
}

func newDispatcher(opts Options) (scraper.Dispatcher, error) {
	switch opts.Config.Isolation {
	case config.IsolationGoroutine:
		worker, err := newWorker(opts)
		if err != nil {
			return nil, err
		}
		return scraper.NewLocalDispatcher(worker), nil
	case config.IsolationProcess, "":
		exe := opts.Executable
		if exe == "" {
			self, err := os.Executable()
			if err != nil {
				return nil, fmt.Errorf("実行ファイルのパスを取得できません: %w", err)
			}
			exe = self
		}
		return scraper.NewProcessDispatcher(exe, opts.WorkerArgs), nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrInvalidIsolation, opts.Config.Isolation)
	}
}

// Run は設定されたすべての競合を処理し、スナップショットを出力ファイルに書き出します。
// 個々の競合の失敗はプレースホルダーとして扱われ、エラーになるのは初期化と書き込みの失敗のみです。
func Run(ctx context.Context, opts Options) (types.Snapshot, error) {
	cfg := opts.Config
	runID := uuid.NewString()

	registry, err := resolveRegistry(opts)
	if err != nil {
		return types.Snapshot{}, err
	}
	opts.Registry = registry

	if unknown := UnknownCompetitors(registry, cfg.Competitors); len(unknown) > 0 {
		log.Printf("[%s] 警告: 次の競合にはアダプタが登録されていないため、空の結果になります: %s", runID, strings.Join(unknown, ", "))
	}

	dispatcher, err := newDispatcher(opts)
	if err != nil {
		return types.Snapshot{}, err
	}

	log.Printf("[%s] %d社の取得を開始します (isolation: %s, max-workers: %d)。", runID, len(cfg.Competitors), cfg.Isolation, cfg.MaxWorkers)

	fleet := scraper.NewFleet(dispatcher, scraper.FleetOptions{
		MaxWorkers:        cfg.MaxWorkers,
		CompetitorTimeout: cfg.CompetitorTimeout,
		RunID:             runID,
		Verbose:           opts.Verbose,
	})
	snap := fleet.RunAll(ctx, cfg.Competitors)

	if empty := EmptyCompetitors(snap); len(empty) > 0 {
		log.Printf("[%s] 警告: 次の競合はすべての結果が空でした: %s", runID, strings.Join(empty, ", "))
	}

	if err := snapshot.Write(cfg.OutputPath, snap); err != nil {
		return snap, err
	}
	log.Printf("[%s] %s に書き出しました。", runID, cfg.OutputPath)

	return snap, nil
}

// RunWorker は1社分を処理し、結果を resultPath に書き出します。
// ワーカープロセスのエントリポイントです。
func RunWorker(ctx context.Context, opts Options, name, resultPath string) error {
	worker, err := newWorker(opts)
	if err != nil {
		return err
	}
	result := worker.ScrapeOne(ctx, name)
	return snapshot.WriteResult(resultPath, result)
}

// UnknownCompetitors は、names のうち registry に登録されていない競合名を設定順で返します。
func UnknownCompetitors(registry *adapter.Registry, names []string) []string {
	known := make(map[string]struct{})
	for _, name := range registry.Names() {
		known[name] = struct{}{}
	}
	var unknown []string
	for _, name := range names {
		if _, ok := known[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// EmptyCompetitors は、ニュース・求人・特許のすべてが空だった競合名を返します。
func EmptyCompetitors(snap types.Snapshot) []string {
	var names []string
	for _, r := range snap.Competitor {
		if r.IsEmpty() {
			names = append(names, r.Name)
		}
	}
	return names
}
