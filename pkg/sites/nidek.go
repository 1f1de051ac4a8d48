package sites

import (
	"context"
	"fmt"
	"time"

	"github.com/shouni/go-competitor-watch/pkg/dates"
	"github.com/shouni/go-competitor-watch/pkg/extract"
	"github.com/shouni/go-competitor-watch/pkg/render"
	"github.com/shouni/go-competitor-watch/pkg/types"
)

const (
	// 年ごとのアーカイブ。term には当年を入れる
	nidekNewsURLFormat = "https://www.nidek-intl.com/news/?term=%d&cate=news"
	nidekJobsURL       = "https://www.linkedin.com/jobs/search/?f_C=81583865%2C1341117%2C84005%2C80954639%2C7798625&geoId=92000000&origin=JOB_SEARCH_PAGE_JOB_FILTER&spellCorrectionEnabled=true"
)

// 記事要素そのものがリンク
var nidekNewsSpec = extract.ListSpec{
	Item:  ".news_post",
	Title: ".txt_bk",
	Date:  ".txt_bl",
}

// Nidek は NIDEK のニュース一覧と求人のアダプタです。
// ニュース一覧はサーバー側で描画されるため、静的レンダラーで取得します。
type Nidek struct {
	renderer render.Renderer
	jobs     *LinkedInJobs
	now      func() time.Time
}

// NewNidek は Nidek を初期化します。
func NewNidek(static, browser render.Renderer, now func() time.Time) *Nidek {
	if now == nil {
		now = time.Now
	}
	return &Nidek{
		renderer: static,
		jobs:     NewLinkedInJobs(browser, nidekJobsURL),
		now:      now,
	}
}

func (n *Nidek) Name() string { return NameNidek }

// NewsURL は当年のニュース一覧のURLを返します。
func (n *Nidek) NewsURL() string {
	return fmt.Sprintf(nidekNewsURLFormat, n.now().Year())
}

func (n *Nidek) FetchNews(ctx context.Context) ([]types.News, error) {
	url := n.NewsURL()
	doc, err := n.renderer.Render(ctx, url)
	if err != nil {
		return nil, err
	}
	return toNews(extract.List(doc, url, nidekNewsSpec), dates.SlashYMD), nil
}

func (n *Nidek) FetchJobs(ctx context.Context) ([]types.Job, error) {
	return n.jobs.FetchJobs(ctx)
}
