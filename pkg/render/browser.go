package render

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/shouni/go-competitor-watch/pkg/retry"
)

const (
	// DefaultSettleDelay は、読み込み完了後にスクリプトの描画を待つ時間です。
	DefaultSettleDelay = 2 * time.Second
)

// BrowserOptions は Browser の設定です。
type BrowserOptions struct {
	// Bin はブラウザの実行ファイルパスです。空の場合は rod の既定 (自動検出/ダウンロード) に従います。
	Bin string
	// Headful が true の場合、ウィンドウを表示して起動します。
	Headful bool
	// SettleDelay は読み込み完了後の待機時間です。0 の場合は DefaultSettleDelay を使います。
	SettleDelay time.Duration
	// Retry はページ遷移のリトライ設定です。
	Retry retry.Config
}

// Browser は呼び出しごとに独立したブラウザプロセスを起動するレンダラーです。
// ブラウザプロセスの寿命は ctx に結び付けられ、ctx の終了時には強制終了されます。
type Browser struct {
	opts BrowserOptions
}

// NewBrowser は Browser を初期化します。
func NewBrowser(opts BrowserOptions) *Browser {
	if opts.SettleDelay <= 0 {
		opts.SettleDelay = DefaultSettleDelay
	}
	if opts.Retry == (retry.Config{}) {
		opts.Retry = retry.DefaultConfig()
	}
	return &Browser{opts: opts}
}

// Render は新しいブラウザで url を開き、steps を順に実行した後のDOMを返します。
func (b *Browser) Render(ctx context.Context, url string, steps ...Step) (*goquery.Document, error) {
	// 1. ブラウザプロセスの起動
	l := launcher.New().
		Context(ctx).
		Headless(!b.opts.Headful).
		Leakless(true)
	if b.opts.Bin != "" {
		l = l.Bin(b.opts.Bin)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("ブラウザの起動に失敗しました: %w", err)
	}
	defer l.Cleanup()
	defer l.Kill()

	// ctx が終了したら、rod の呼び出しがブロック中でもプロセスを終了させる
	stop := context.AfterFunc(ctx, l.Kill)
	defer stop()

	// 2. 接続とページ作成
	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("ブラウザへの接続に失敗しました: %w", err)
	}
	defer browser.Close()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("ページの作成に失敗しました: %w", err)
	}

	// 3. 遷移 (一時的な失敗はリトライ)
	err = retry.Do(ctx, b.opts.Retry, fmt.Sprintf("URL(%s)への遷移", url), func() error {
		if err := page.Navigate(url); err != nil {
			return err
		}
		return page.WaitLoad()
	}, func(err error) bool {
		return !retry.IsContextError(err)
	})
	if err != nil {
		return nil, err
	}

	if err := sleep(ctx, b.opts.SettleDelay); err != nil {
		return nil, err
	}

	// 4. サイト固有の操作
	for i, step := range steps {
		if err := step(ctx, page); err != nil {
			return nil, fmt.Errorf("ブラウザ操作 %d/%d に失敗しました (URL: %s): %w", i+1, len(steps), url, err)
		}
	}

	// 5. DOM の取得と解析
	html, err := page.HTML()
	if err != nil {
		return nil, fmt.Errorf("DOMの取得に失敗しました (URL: %s): %w", url, err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("HTML解析に失敗しました: %w", err)
	}
	return doc, nil
}

// sleep は ctx の終了を考慮して d だけ待機します。
func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
