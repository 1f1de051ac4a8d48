// Package render は、ページを取得して goquery.Document に変換するレンダラーを提供します。
//
// Browser はヘッドレスブラウザでJavaScriptを実行した後のDOMを返し、
// Static はHTTPで取得した生のHTMLをそのまま解析します。
package render

import (
	"context"
	"errors"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-rod/rod"
)

// ErrStepsUnsupported は、ブラウザ操作を伴う取得を Static に要求した場合のエラーです。
var ErrStepsUnsupported = errors.New("静的レンダラーはブラウザ操作ステップをサポートしていません")

// Step は、ページ読み込み後・DOM取得前に実行するブラウザ操作です。
// Cookieバナーの除去やフォーム入力などに使います。
type Step func(ctx context.Context, page *rod.Page) error

// Renderer は、URLのページをレンダリングして goquery.Document を返します。
type Renderer interface {
	Render(ctx context.Context, url string, steps ...Step) (*goquery.Document, error)
}

// Fetcher は、URLから生のバイト列を取得する機能のインターフェースです。
// *httpkit.Client はこのインターフェースを満たします。
type Fetcher interface {
	FetchBytes(ctx context.Context, url string) ([]byte, error)
}
