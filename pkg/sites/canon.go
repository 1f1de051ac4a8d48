package sites

import (
	"context"
	"regexp"

	"github.com/shouni/go-competitor-watch/pkg/dates"
	"github.com/shouni/go-competitor-watch/pkg/extract"
	"github.com/shouni/go-competitor-watch/pkg/render"
	"github.com/shouni/go-competitor-watch/pkg/types"
)

const (
	canonNewsURL = "https://uk.medical.canon/Latest-News"
	canonJobsURL = "https://www.linkedin.com/jobs/search/?f_C=27157455&geoId=92000000&origin=JOB_SEARCH_PAGE_JOB_FILTER"
)

// 日付は独立した要素を持たず、記事ブロックのテキストに "September 3, 2025" の形で含まれる
var canonNewsSpec = extract.ListSpec{
	Item:        ".inset_inner",
	Title:       ".entry-title",
	DatePattern: regexp.MustCompile(`[A-Z][a-z]+ \d{1,2}, \d{4}`),
}

// Canon は Canon Medical (UK) のニュースルームと求人のアダプタです。
type Canon struct {
	renderer render.Renderer
	jobs     *LinkedInJobs
}

// NewCanon は Canon を初期化します。
func NewCanon(browser render.Renderer) *Canon {
	return &Canon{
		renderer: browser,
		jobs:     NewLinkedInJobs(browser, canonJobsURL),
	}
}

func (c *Canon) Name() string { return NameCanon }

// FetchNews は最新ニュース一覧を取得します。
func (c *Canon) FetchNews(ctx context.Context) ([]types.News, error) {
	doc, err := c.renderer.Render(ctx, canonNewsURL)
	if err != nil {
		return nil, err
	}
	return toNews(extract.List(doc, canonNewsURL, canonNewsSpec), dates.LongMonth, dates.ShortMonth, dates.DayLongMonth), nil
}

func (c *Canon) FetchJobs(ctx context.Context) ([]types.Job, error) {
	return c.jobs.FetchJobs(ctx)
}
