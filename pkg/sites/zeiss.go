package sites

import (
	"context"
	"time"

	"github.com/shouni/go-competitor-watch/pkg/dates"
	"github.com/shouni/go-competitor-watch/pkg/extract"
	"github.com/shouni/go-competitor-watch/pkg/render"
	"github.com/shouni/go-competitor-watch/pkg/types"
)

const (
	zeissNewsURL = "https://www.zeiss.com/corporate/en/about-zeiss/present/newsroom/press-releases.html?f_page=1&"
	zeissJobsURL = "https://www.linkedin.com/jobs/search/?f_C=6555&geoId=92000000&origin=JOB_SEARCH_PAGE_JOB_FILTER"

	// OneTrust の Cookie バナー「すべて拒否」
	zeissCookieReject = "#onetrust-reject-all-handler"
)

var zeissNewsSpec = extract.ListSpec{
	Item:  ".article-teaser-item__content",
	Title: ".headline__main",
	Date:  ".article-teaser-item__eyebrow--sub-without-main",
}

// Zeiss は ZEISS のプレスリリースと求人のアダプタです。
type Zeiss struct {
	renderer render.Renderer
	jobs     *LinkedInJobs
}

// NewZeiss は Zeiss を初期化します。
func NewZeiss(browser render.Renderer) *Zeiss {
	return &Zeiss{
		renderer: browser,
		jobs:     NewLinkedInJobs(browser, zeissJobsURL),
	}
}

func (z *Zeiss) Name() string { return NameZeiss }

// FetchNews はプレスリリース一覧を取得します。Cookie バナーは表示された場合のみ拒否します。
func (z *Zeiss) FetchNews(ctx context.Context) ([]types.News, error) {
	doc, err := z.renderer.Render(ctx, zeissNewsURL,
		render.Optional(render.DefaultOptionalWait, render.Click(zeissCookieReject)),
		render.Pause(2*time.Second),
	)
	if err != nil {
		return nil, err
	}
	return toNews(extract.List(doc, zeissNewsURL, zeissNewsSpec), dates.ShortMonth, dates.LongMonth, dates.DayLongMonth), nil
}

func (z *Zeiss) FetchJobs(ctx context.Context) ([]types.Job, error) {
	return z.jobs.FetchJobs(ctx)
}
