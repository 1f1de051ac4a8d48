package adapter

import (
	"context"

	"github.com/shouni/go-competitor-watch/pkg/types"
)

// ----------------------------------------------------------------------
// 依存性の定義 (DIP)
// ----------------------------------------------------------------------

// Competitor は、1社分のニュースと求人を抽出するサイトアダプタです。
// 実装はサイト固有の知識を閉じ込め、外部サイトに対して任意の時間がかかったり、
// 任意の理由で失敗したりすることがあります。呼び出し側はエラーの中身を検査しません。
type Competitor interface {
	Name() string
	FetchNews(ctx context.Context) ([]types.News, error)
	FetchJobs(ctx context.Context) ([]types.Job, error)
}

// PatentSearcher は、全競合で共有される特許検索アダプタです。
type PatentSearcher interface {
	FetchPatents(ctx context.Context, competitor string) ([]types.Patent, error)
}

// Registry は競合名からアダプタを解決します。
// 新しい競合は Competitor を実装して登録することで追加します。
type Registry struct {
	competitors map[string]Competitor
	patents     PatentSearcher
}

// NewRegistry は Registry を初期化します。同名の競合が複数ある場合は後勝ちです。
func NewRegistry(patents PatentSearcher, competitors ...Competitor) *Registry {
	r := &Registry{
		competitors: make(map[string]Competitor, len(competitors)),
		patents:     patents,
	}
	for _, c := range competitors {
		if c == nil {
			continue
		}
		r.competitors[c.Name()] = c
	}
	return r
}

// Lookup は name に対応するアダプタを返します。未登録の場合は false を返します。
func (r *Registry) Lookup(name string) (Competitor, bool) {
	if r == nil {
		return nil, false
	}
	c, ok := r.competitors[name]
	return c, ok
}

// Patents は共有の特許検索アダプタを返します。設定されていない場合は nil です。
func (r *Registry) Patents() PatentSearcher {
	if r == nil {
		return nil
	}
	return r.patents
}

// Names は登録済みの競合名を返します (順不同)。
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.competitors))
	for name := range r.competitors {
		names = append(names, name)
	}
	return names
}
