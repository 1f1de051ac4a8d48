package scraper

import (
	"context"

	"github.com/shouni/go-competitor-watch/pkg/types"
)

// Dispatcher は、1社分の Worker の実行を隔離単位に送り出します。
// ctx の終了時には、実行中の隔離単位を終了させることが期待されます。
type Dispatcher interface {
	Dispatch(ctx context.Context, name string) (types.CompetitorResult, error)
}

// LocalDispatcher は同一プロセス内で Worker を実行します。
// ctx の終了はアダプタのコンテキストに伝播し、起動中のブラウザが終了されます。
type LocalDispatcher struct {
	worker *Worker
}

// NewLocalDispatcher は LocalDispatcher を初期化します。
func NewLocalDispatcher(worker *Worker) *LocalDispatcher {
	return &LocalDispatcher{worker: worker}
}

func (d *LocalDispatcher) Dispatch(ctx context.Context, name string) (types.CompetitorResult, error) {
	return d.worker.ScrapeOne(ctx, name), nil
}
