package sites

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/go-competitor-watch/pkg/feed"
	"github.com/shouni/go-competitor-watch/pkg/render"
	"github.com/shouni/go-competitor-watch/pkg/types"
)

// fakeRenderer は URL ごとに用意したHTMLを返すレンダラーです。
// ステップは実行せず、渡された数だけを記録します。
type fakeRenderer struct {
	pages map[string]string
	err   error

	calls []string
	steps []int
}

func (f *fakeRenderer) Render(ctx context.Context, url string, steps ...render.Step) (*goquery.Document, error) {
	f.calls = append(f.calls, url)
	f.steps = append(f.steps, len(steps))
	if f.err != nil {
		return nil, f.err
	}
	html, ok := f.pages[url]
	if !ok {
		return nil, fmt.Errorf("unexpected url: %s", url)
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

type fakeFetcher struct {
	body []byte
	err  error
}

func (f fakeFetcher) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	return f.body, f.err
}

func TestCanon_FetchNews(t *testing.T) {
	r := &fakeRenderer{pages: map[string]string{
		canonNewsURL: `<div>
			<div class="inset_inner"><h2 class="entry-title">New OCT launched</h2>
				<p>Published September 3, 2025 by Canon</p><a href="/Latest-News/oct">Read</a></div>
			<div class="inset_inner"><h2 class="entry-title">Award</h2>
				<p>March 14, 2025</p><a href="https://uk.medical.canon/award">Read</a></div>
		</div>`,
	}}

	news, err := NewCanon(r).FetchNews(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []types.News{
		{Headline: "New OCT launched", URL: "https://uk.medical.canon/Latest-News/oct", Date: "03/09/2025"},
		{Headline: "Award", URL: "https://uk.medical.canon/award", Date: "14/03/2025"},
	}, news)
}

func TestZeiss_FetchNews(t *testing.T) {
	r := &fakeRenderer{pages: map[string]string{
		zeissNewsURL: `<div>
			<div class="article-teaser-item__content">
				<span class="article-teaser-item__eyebrow--sub-without-main">Oct 7, 2025</span>
				<a href="/corporate/en/newsroom/press-1.html"><span class="headline__main">ZEISS results</span></a>
			</div>
		</div>`,
	}}

	news, err := NewZeiss(r).FetchNews(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []types.News{
		{Headline: "ZEISS results", URL: "https://www.zeiss.com/corporate/en/newsroom/press-1.html", Date: "07/10/2025"},
	}, news)
	// Cookie バナーの拒否と再描画待ち
	assert.Equal(t, []int{2}, r.steps)
}

func TestNews_DateNormalization(t *testing.T) {
	r := &fakeRenderer{pages: map[string]string{
		zeissNewsURL: `<div>
			<div class="article-teaser-item__content">
				<span class="article-teaser-item__eyebrow--sub-without-main">7 October 2025</span>
				<a href="/a.html"><span class="headline__main">Long form date</span></a>
			</div>
			<div class="article-teaser-item__content">
				<span class="article-teaser-item__eyebrow--sub-without-main">Press release</span>
				<a href="/b.html"><span class="headline__main">No usable date</span></a>
			</div>
		</div>`,
	}}

	news, err := NewZeiss(r).FetchNews(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []types.News{
		{Headline: "Long form date", URL: "https://www.zeiss.com/a.html", Date: "07/10/2025"},
		{Headline: "No usable date", URL: "https://www.zeiss.com/b.html"},
	}, news)
}

func TestNidek_FetchNews(t *testing.T) {
	now := func() time.Time { return time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC) }
	url := "https://www.nidek-intl.com/news/?term=2026&cate=news"
	static := &fakeRenderer{pages: map[string]string{
		url: `<ul>
			<li><a class="news_post" href="/news/2026/item-1.html"><p class="txt_bl">2026/09/30</p><p class="txt_bk">Exhibition notice</p></a></li>
		</ul>`,
	}}

	n := NewNidek(static, &fakeRenderer{}, now)
	assert.Equal(t, url, n.NewsURL())

	news, err := n.FetchNews(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []types.News{
		{Headline: "Exhibition notice", URL: "https://www.nidek-intl.com/news/2026/item-1.html", Date: "30/09/2026"},
	}, news)
	assert.Equal(t, []int{0}, static.steps)
}

func TestNews_RendererError(t *testing.T) {
	r := &fakeRenderer{err: errors.New("browser crashed")}
	_, err := NewCanon(r).FetchNews(context.Background())
	assert.EqualError(t, err, "browser crashed")
}

func TestLinkedInJobs_FetchJobs(t *testing.T) {
	const url = "https://www.linkedin.com/jobs/search/?f_C=1"

	t.Run("cards", func(t *testing.T) {
		r := &fakeRenderer{pages: map[string]string{
			url: `<ul>
				<li><div class="base-search-card"><a href="https://www.linkedin.com/jobs/view/1"><h3 class="base-search-card__title"> Field Service Engineer </h3></a></div></li>
				<li><div class="base-search-card"><a href="https://www.linkedin.com/jobs/view/2"><h3 class="base-search-card__title">Product Manager</h3></a></div></li>
			</ul>`,
		}}
		jobs, err := NewLinkedInJobs(r, url).FetchJobs(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []types.Job{
			{Title: "Field Service Engineer", URL: "https://www.linkedin.com/jobs/view/1"},
			{Title: "Product Manager", URL: "https://www.linkedin.com/jobs/view/2"},
		}, jobs)
	})

	t.Run("no results banner", func(t *testing.T) {
		r := &fakeRenderer{pages: map[string]string{
			url: `<div><img class="jobs-search-no-results-banner__image"/>
				<div class="base-search-card"><a href="https://www.linkedin.com/jobs/view/9"><h3 class="base-search-card__title">Suggested</h3></a></div></div>`,
		}}
		jobs, err := NewLinkedInJobs(r, url).FetchJobs(context.Background())
		require.NoError(t, err)
		assert.Empty(t, jobs)
		assert.NotNil(t, jobs)
	})
}

func TestPatentScope_FetchPatents(t *testing.T) {
	r := &fakeRenderer{pages: map[string]string{
		patentScopeSearchURL: `<table>
			<tr class="ps-patent-result--first-row"><td>
				<a href="detail.jsf?docId=WO2025001"><span class="needTranslation-title">OPHTHALMIC APPARATUS</span></a>
				<span id="resultListForm:resultTable:0:resultListTableColumnPubDate">02.10.2025</span>
			</td></tr>
			<tr class="ps-patent-result--first-row"><td>
				<a href="detail.jsf?docId=US2025002"><span class="needTranslation-title">FUNDUS CAMERA</span></a>
				<span id="resultListForm:resultTable:1:resultListTableColumnPubDate">unknown</span>
			</td></tr>
			<tr class="ps-patent-result--first-row"><td>
				<a href="detail.jsf?docId=EP2025003"><span class="needTranslation-title">TONOMETER</span></a>
				<span id="resultListForm:resultTable:2:resultListTableColumnPubDate">2.9.2025</span>
			</td></tr>
		</table>`,
	}}

	patents, err := NewPatentScope(r).FetchPatents(context.Background(), "Nidek")
	require.NoError(t, err)
	assert.Equal(t, []types.Patent{
		{Title: "OPHTHALMIC APPARATUS", URL: "https://patentscope.wipo.int/search/en/detail.jsf?docId=WO2025001", Date: "02/10/2025"},
		{Title: "FUNDUS CAMERA", URL: "https://patentscope.wipo.int/search/en/detail.jsf?docId=US2025002", Date: "unknown"},
		{Title: "TONOMETER", URL: "https://patentscope.wipo.int/search/en/detail.jsf?docId=EP2025003", Date: "02/09/2025"},
	}, patents)
	assert.Equal(t, []int{5}, r.steps)
}

func TestQuery(t *testing.T) {
	assert.Equal(t, "FP:Zeiss AND EN_AB:(Optometry OR Ophthalmology)", Query("Zeiss"))
}

func TestFeedCompetitor(t *testing.T) {
	const rss = `<?xml version="1.0"?>
<rss version="2.0"><channel><title>Newsroom</title>
<item><title>Topcon announces</title><link>https://topconhealthcare.com/news/1</link><pubDate>Tue, 07 Oct 2025 09:00:00 +0000</pubDate></item>
</channel></rss>`

	t.Run("news from feed", func(t *testing.T) {
		parser := feed.NewParser(fakeFetcher{body: []byte(rss)})
		c := NewFeedCompetitor(NameTopCon, "https://topconhealthcare.com/feed/", parser, nil)

		news, err := c.FetchNews(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []types.News{
			{Headline: "Topcon announces", URL: "https://topconhealthcare.com/news/1", Date: "07/10/2025"},
		}, news)

		jobs, err := c.FetchJobs(context.Background())
		require.NoError(t, err)
		assert.Empty(t, jobs)
	})

	t.Run("unconfigured feed", func(t *testing.T) {
		c := NewFeedCompetitor(NameOptoVue, "", nil, nil)
		_, err := c.FetchNews(context.Background())
		assert.Error(t, err)
	})
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry(Deps{
		Browser:  &fakeRenderer{},
		Static:   &fakeRenderer{},
		FeedURLs: map[string]string{NameTopCon: "https://example.com/topcon.xml"},
	})

	assert.ElementsMatch(t, DefaultCompetitors(), reg.Names())
	assert.NotNil(t, reg.Patents())

	c, ok := reg.Lookup(NameTopCon)
	require.True(t, ok)
	assert.Equal(t, "https://example.com/topcon.xml", c.(*FeedCompetitor).feedURL)

	_, ok = reg.Lookup("Unknown")
	assert.False(t, ok)
}
