package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
)

// Static は Fetcher でHTMLを取得し、文字コードを判定して解析するレンダラーです。
// JavaScriptを必要としないページ向けです。
type Static struct {
	fetcher Fetcher
}

// NewStatic は Static を初期化します。
func NewStatic(fetcher Fetcher) (*Static, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("render.NewStatic: Fetcher cannot be nil")
	}
	return &Static{fetcher: fetcher}, nil
}

// Render は url のHTMLを取得して解析します。steps が指定された場合はエラーになります。
func (s *Static) Render(ctx context.Context, url string, steps ...Step) (*goquery.Document, error) {
	if len(steps) > 0 {
		return nil, ErrStepsUnsupported
	}

	// 1. 取得 (リトライは Fetcher 側の責務)
	body, err := s.fetcher.FetchBytes(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("ページの取得に失敗しました (URL: %s): %w", url, err)
	}

	// 2. meta タグ等から文字コードを判定して UTF-8 に変換
	reader, err := charset.NewReader(bytes.NewReader(body), "")
	if err != nil {
		return nil, fmt.Errorf("文字コードの判定に失敗しました (URL: %s): %w", url, err)
	}

	// 3. 解析
	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, fmt.Errorf("HTML解析に失敗しました (URL: %s): %w", url, err)
	}
	return doc, nil
}
