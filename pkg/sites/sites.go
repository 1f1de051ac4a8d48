// Package sites は、各競合のニュースルーム・求人ボード・特許検索ポータルに対する
// サイトアダプタの具体的な実装を提供します。
//
// ページ構造の知識 (セレクターや日付形式) はこのパッケージに閉じ込め、
// オーケストレーション側は adapter.Competitor / adapter.PatentSearcher だけに依存します。
package sites

import (
	"time"

	"github.com/shouni/go-competitor-watch/pkg/adapter"
	"github.com/shouni/go-competitor-watch/pkg/dates"
	"github.com/shouni/go-competitor-watch/pkg/extract"
	"github.com/shouni/go-competitor-watch/pkg/feed"
	"github.com/shouni/go-competitor-watch/pkg/render"
	"github.com/shouni/go-competitor-watch/pkg/types"
)

// 既定の競合名 (元の実行順)
const (
	NameTopCon  = "TopCon"
	NameZeiss   = "Zeiss"
	NameCanon   = "Canon"
	NameOptoVue = "OptoVue"
	NameNidek   = "Nidek"
)

// DefaultCompetitors は既定の競合リストを設定順で返します。
func DefaultCompetitors() []string {
	return []string{NameTopCon, NameZeiss, NameCanon, NameOptoVue, NameNidek}
}

// DefaultFeedURLs は、RSS でニュースを公開している競合の既定フィードURLです。
func DefaultFeedURLs() map[string]string {
	return map[string]string{
		NameTopCon:  "https://topconhealthcare.com/feed/",
		NameOptoVue: "https://www.optovue.com/feed/",
	}
}

// Deps は、アダプタが利用するレンダラー等の依存性です。
type Deps struct {
	// Browser はJavaScriptの実行が必要なページ用のレンダラーです。
	Browser render.Renderer
	// Static は静的HTMLで足りるページ用のレンダラーです。
	Static render.Renderer
	// Feeds は RSS/Atom フィードのパーサーです。
	Feeds *feed.Parser
	// FeedURLs は競合名ごとのフィードURLの上書きです。
	FeedURLs map[string]string
	// Now は現在時刻を返します。nil の場合は time.Now を使います。
	Now func() time.Time
}

// NewRegistry は既定の競合アダプタと特許検索アダプタを登録した Registry を返します。
func NewRegistry(deps Deps) *adapter.Registry {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	feedURLs := DefaultFeedURLs()
	for name, u := range deps.FeedURLs {
		feedURLs[name] = u
	}

	return adapter.NewRegistry(
		NewPatentScope(deps.Browser),
		NewFeedCompetitor(NameTopCon, feedURLs[NameTopCon], deps.Feeds, NewLinkedInJobs(deps.Browser, topconJobsURL)),
		NewZeiss(deps.Browser),
		NewCanon(deps.Browser),
		NewFeedCompetitor(NameOptoVue, feedURLs[NameOptoVue], deps.Feeds, NewLinkedInJobs(deps.Browser, optovueJobsURL)),
		NewNidek(deps.Static, deps.Browser, deps.Now),
	)
}

// toNews は抽出結果をニュース記録に変換し、日付を layouts で正規化します。
// どの形式でも解析できない日付は出力しません。
func toNews(entries []extract.Entry, layouts ...string) []types.News {
	news := make([]types.News, 0, len(entries))
	for _, e := range entries {
		n := types.News{Headline: e.Title, URL: e.URL}
		if date, ok := dates.Normalize(e.Date, layouts...); ok {
			n.Date = date
		}
		news = append(news, n)
	}
	return news
}
