package feed

import (
	"bytes"
	"context"
	"fmt"

	"github.com/mmcdole/gofeed"
	textUtils "github.com/shouni/go-utils/text"

	"github.com/shouni/go-competitor-watch/pkg/dates"
	"github.com/shouni/go-competitor-watch/pkg/types"
)

// Fetcher は Parser が依存するインターフェースです。
type Fetcher interface {
	FetchBytes(ctx context.Context, url string) ([]byte, error)
}

// Parser は RSS/Atom フィードを取得・解析します。
type Parser struct {
	client Fetcher
}

// NewParser は新しい Parser インスタンスを初期化し、依存関係を注入します。
func NewParser(client Fetcher) *Parser {
	return &Parser{client: client}
}

// FetchAndParse は指定されたURLからフィードを取得し、パースします。
func (p *Parser) FetchAndParse(ctx context.Context, feedURL string) (*gofeed.Feed, error) {
	body, err := p.client.FetchBytes(ctx, feedURL)
	if err != nil {
		return nil, fmt.Errorf("フィードの取得失敗 (URL: %s): %w", feedURL, err)
	}

	fp := gofeed.NewParser()
	feed, parseErr := fp.Parse(bytes.NewReader(body))
	if parseErr != nil {
		return nil, fmt.Errorf("RSSフィードのパース失敗 (URL: %s): %w", feedURL, parseErr)
	}
	return feed, nil
}

// ToNews は gofeed.Feed のアイテムをニュース記録に変換します。
// リンクまたはタイトルが空のアイテムは除外し、フィード内の順序を保ちます。
func ToNews(feed *gofeed.Feed) []types.News {
	if feed == nil || len(feed.Items) == 0 {
		return []types.News{}
	}

	news := make([]types.News, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil || item.Link == "" {
			continue
		}
		title := textUtils.NormalizeText(item.Title)
		if title == "" {
			continue
		}

		n := types.News{Headline: title, URL: item.Link}
		switch {
		case item.PublishedParsed != nil:
			n.Date = dates.Format(*item.PublishedParsed)
		case item.UpdatedParsed != nil:
			n.Date = dates.Format(*item.UpdatedParsed)
		}
		news = append(news, n)
	}
	return news
}
