package sites

import (
	"context"
	"time"

	"github.com/shouni/go-competitor-watch/pkg/extract"
	"github.com/shouni/go-competitor-watch/pkg/render"
	"github.com/shouni/go-competitor-watch/pkg/types"
)

const (
	linkedInModalDismiss = `[data-tracking-control-name="public_jobs_contextual-sign-in-modal_modal_dismiss"]`
	linkedInNoResults    = ".jobs-search-no-results-banner__image"
)

var linkedInJobsSpec = extract.ListSpec{
	Item:  ".base-search-card",
	Title: ".base-search-card__title",
}

// LinkedInJobs は LinkedIn の公開求人検索ページから求人を取得します。
type LinkedInJobs struct {
	renderer  render.Renderer
	searchURL string
}

// NewLinkedInJobs は searchURL の検索結果を対象とする LinkedInJobs を返します。
func NewLinkedInJobs(browser render.Renderer, searchURL string) *LinkedInJobs {
	return &LinkedInJobs{renderer: browser, searchURL: searchURL}
}

// FetchJobs は検索結果の求人を返します。「該当なし」バナーが表示された場合は空です。
func (l *LinkedInJobs) FetchJobs(ctx context.Context) ([]types.Job, error) {
	doc, err := l.renderer.Render(ctx, l.searchURL,
		render.Optional(render.DefaultOptionalWait, render.Click(linkedInModalDismiss)),
		render.Pause(time.Second),
	)
	if err != nil {
		return nil, err
	}

	// 検索結果の代わりにおすすめ求人が並ぶため、該当なしは明示的に判定する
	if extract.Exists(doc, linkedInNoResults) {
		return []types.Job{}, nil
	}

	entries := extract.List(doc, l.searchURL, linkedInJobsSpec)
	jobs := make([]types.Job, 0, len(entries))
	for _, e := range entries {
		jobs = append(jobs, types.Job{Title: e.Title, URL: e.URL})
	}
	return jobs, nil
}
