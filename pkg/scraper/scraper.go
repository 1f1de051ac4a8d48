// Package scraper は、競合ごとの Worker を並列に実行し、設定順の結果に組み立てる処理を提供します。
package scraper

import (
	"context"
	"fmt"
	"log"
	"runtime"
	"sync"
	"time"

	"github.com/shouni/go-competitor-watch/pkg/types"
)

const (
	// DefaultMaxWorkers は、並列に実行する競合数の既定の上限です。
	DefaultMaxWorkers = 3
	// DefaultCompetitorTimeout は、1社あたりの既定の制限時間です。
	DefaultCompetitorTimeout = 300 * time.Second
	// DefaultShutdownGrace は、打ち切り後に隔離単位の終了処理を待つ上限です。
	// ProcessDispatcher の WaitDelay より長くする。
	DefaultShutdownGrace = 2 * DefaultWaitDelay
)

// FleetOptions は Fleet の設定です。
type FleetOptions struct {
	// MaxWorkers は同時に実行する競合数の上限です。
	MaxWorkers int
	// CompetitorTimeout は1社あたりの制限時間です。プールのスロットを確保した時点から計測します。
	CompetitorTimeout time.Duration
	// ShutdownGrace は、打ち切り後に Dispatch が戻るのを待つ上限です。
	// プロセスツリーの強制終了と一時ファイルの削除はこの間に完了します。
	ShutdownGrace time.Duration
	// RunID はログの接頭辞に使う実行IDです。
	RunID string
	// Verbose が true の場合、各社の完了をログに出力します。
	Verbose bool
}

// Fleet は競合ごとの実行を Dispatcher に送り出し、結果を集約します。
type Fleet struct {
	dispatcher Dispatcher
	opts       FleetOptions
}

// NewFleet は Fleet を初期化します。
// 依存性として Dispatcher と、同時実行数・制限時間の設定を受け取ります。
func NewFleet(dispatcher Dispatcher, opts FleetOptions) *Fleet {
	if opts.MaxWorkers <= 0 {
		opts.MaxWorkers = DefaultMaxWorkers
	}
	if opts.CompetitorTimeout <= 0 {
		opts.CompetitorTimeout = DefaultCompetitorTimeout
	}
	if opts.ShutdownGrace <= 0 {
		opts.ShutdownGrace = DefaultShutdownGrace
	}
	return &Fleet{dispatcher: dispatcher, opts: opts}
}

// PoolSize は n 社を処理する際の同時実行数を返します。
// MaxWorkers・n・CPU数の最小値で、少なくとも1です。
func (f *Fleet) PoolSize(n int) int {
	return max(1, min(f.opts.MaxWorkers, n, runtime.NumCPU()))
}

// RunAll は names の各社を並列に処理し、names と同じ順序の Snapshot を返します。
// 失敗・panic・制限時間超過の競合は、すべて空のプレースホルダーになります。
// 打ち切った隔離単位の終了処理は、ShutdownGrace を上限として RunAll が戻る前に完了します。
func (f *Fleet) RunAll(ctx context.Context, names []string) types.Snapshot {
	results := make([]types.CompetitorResult, len(names))
	if len(names) == 0 {
		return types.Snapshot{Competitor: results}
	}

	var wg sync.WaitGroup

	// バッファ付きチャネルをセマフォとして使用し、同時実行数を制限する
	semaphore := make(chan struct{}, f.PoolSize(len(names)))

	for i, name := range names {
		wg.Add(1)

		// スロットの確保。上限数が実行中の場合はここでブロックして待機。
		semaphore <- struct{}{}

		go func(i int, name string) {
			defer wg.Done()
			defer func() { <-semaphore }()

			// 各 goroutine は自分の位置にのみ書き込む
			results[i] = f.runOne(ctx, name)
		}(i, name)
	}

	wg.Wait()

	return types.Snapshot{Competitor: results}
}

type dispatchOutcome struct {
	result types.CompetitorResult
	err    error
}

// runOne は1社分を CompetitorTimeout 以内で実行します。
func (f *Fleet) runOne(ctx context.Context, name string) types.CompetitorResult {
	start := time.Now()

	runCtx, cancel := context.WithTimeout(ctx, f.opts.CompetitorTimeout)
	// 戻る時点で隔離単位に終了を要求する
	defer cancel()

	done := make(chan dispatchOutcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- dispatchOutcome{err: fmt.Errorf("panic: %v", r)}
			}
		}()
		result, err := f.dispatcher.Dispatch(runCtx, name)
		done <- dispatchOutcome{result: result, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			f.logf("%s: 処理に失敗したため空の結果を使用します: %v", name, res.err)
			return types.EmptyResult(name)
		}
		result := res.result.Normalize()
		result.Name = name
		if f.opts.Verbose {
			f.logf("%s: 完了しました (ニュース %d件, 求人 %d件, 特許 %d件, %s)",
				name, len(result.News), len(result.Jobs), len(result.Patents), time.Since(start).Round(time.Millisecond))
		}
		return result
	case <-runCtx.Done():
		f.logf("%s: %v のため打ち切り、空の結果を使用します", name, context.Cause(runCtx))
		// 結果は使わないが、隔離単位の後始末が終わるまでは戻らない
		select {
		case <-done:
		case <-time.After(f.opts.ShutdownGrace):
			f.logf("%s: 終了処理が %s 以内に完了しませんでした", name, f.opts.ShutdownGrace)
		}
		return types.EmptyResult(name)
	}
}

func (f *Fleet) logf(format string, args ...any) {
	if f.opts.RunID != "" {
		format = "[" + f.opts.RunID + "] " + format
	}
	log.Printf(format, args...)
}
