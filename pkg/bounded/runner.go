// Package bounded は、1件のアダプタ呼び出しを時間制限付きで実行するランナーを提供します。
//
// タスクは独立した goroutine 上で実行され、タイムアウト・エラー・panic のいずれの場合も
// 呼び出し元には空のスライスが返されます。呼び出し元がブロックされるのは最大でも timeout までです。
//
// 戻る時点でタスクに渡したコンテキストはキャンセルされます。ブラウザのように
// プロセスを伴うタスクはこのコンテキストに寿命を結び付けることで、待つのをやめるだけでなく
// 実際に終了させられます。
package bounded

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Task は、時間制限付きで実行される処理です。ctx の終了に協調して中断することが期待されます。
type Task[T any] func(ctx context.Context) ([]T, error)

type outcome[T any] struct {
	items []T
	err   error
}

// Run は task を timeout 以内で実行し、その結果を返します。
// timeout 超過、エラー、panic の場合は空のスライスを返し、エラーは伝播させません。
// timeout が 0 以下の場合は ctx の期限のみが適用されます。
func Run[T any](ctx context.Context, timeout time.Duration, label string, task Task[T]) []T {
	taskCtx, cancel := withOptionalTimeout(ctx, timeout)
	// 戻る時点でタスク側のリソース (ブラウザ等) に終了を要求する
	defer cancel()

	done := make(chan outcome[T], 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome[T]{err: fmt.Errorf("panic: %v", r)}
			}
		}()
		items, err := task(taskCtx)
		done <- outcome[T]{items: items, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			log.Printf("%s: 失敗したため空の結果を返します: %v", label, res.err)
			return []T{}
		}
		if res.items == nil {
			return []T{}
		}
		return res.items
	case <-taskCtx.Done():
		log.Printf("%s: %v のため待機を打ち切り、空の結果を返します", label, context.Cause(taskCtx))
		return []T{}
	}
}

func withOptionalTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
