package sites

import (
	"context"
	"fmt"

	"github.com/shouni/go-competitor-watch/pkg/feed"
	"github.com/shouni/go-competitor-watch/pkg/types"
)

const (
	topconJobsURL  = "https://www.linkedin.com/jobs/search/?keywords=Topcon%20Healthcare&geoId=92000000"
	optovueJobsURL = "https://www.linkedin.com/jobs/search/?keywords=Optovue&geoId=92000000"
)

// FeedCompetitor は、ニュースを RSS/Atom フィードで公開している競合のアダプタです。
type FeedCompetitor struct {
	name    string
	feedURL string
	parser  *feed.Parser
	jobs    *LinkedInJobs
}

// NewFeedCompetitor は FeedCompetitor を初期化します。
func NewFeedCompetitor(name, feedURL string, parser *feed.Parser, jobs *LinkedInJobs) *FeedCompetitor {
	return &FeedCompetitor{
		name:    name,
		feedURL: feedURL,
		parser:  parser,
		jobs:    jobs,
	}
}

func (f *FeedCompetitor) Name() string { return f.name }

// FetchNews はフィードの記事をフィード内の順序 (通常は新しい順) で返します。
func (f *FeedCompetitor) FetchNews(ctx context.Context) ([]types.News, error) {
	if f.parser == nil || f.feedURL == "" {
		return nil, fmt.Errorf("%s: フィードが設定されていません", f.name)
	}
	parsed, err := f.parser.FetchAndParse(ctx, f.feedURL)
	if err != nil {
		return nil, err
	}
	return feed.ToNews(parsed), nil
}

func (f *FeedCompetitor) FetchJobs(ctx context.Context) ([]types.Job, error) {
	if f.jobs == nil {
		return []types.Job{}, nil
	}
	return f.jobs.FetchJobs(ctx)
}
