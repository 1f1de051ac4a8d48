package render

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultOptionalWait は、任意ステップで要素の出現を待つ時間です。
const DefaultOptionalWait = 5 * time.Second

// Click は selector の要素が現れるのを待ってクリックします。
func Click(selector string) Step {
	return func(ctx context.Context, page *rod.Page) error {
		el, err := page.Context(ctx).Element(selector)
		if err != nil {
			return fmt.Errorf("要素が見つかりません (%s): %w", selector, err)
		}
		return el.Click(proto.InputMouseButtonLeft, 1)
	}
}

// Input は selector の入力欄をクリックして text を入力します。
func Input(selector, text string) Step {
	return func(ctx context.Context, page *rod.Page) error {
		el, err := page.Context(ctx).Element(selector)
		if err != nil {
			return fmt.Errorf("入力欄が見つかりません (%s): %w", selector, err)
		}
		if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
			return err
		}
		return el.Input(text)
	}
}

// SelectValue は selector の select 要素で value の option を選択します。
func SelectValue(selector, value string) Step {
	return func(ctx context.Context, page *rod.Page) error {
		el, err := page.Context(ctx).Element(selector)
		if err != nil {
			return fmt.Errorf("選択欄が見つかりません (%s): %w", selector, err)
		}
		return el.Select([]string{fmt.Sprintf(`[value=%q]`, value)}, true, rod.SelectorTypeCSSSector)
	}
}

// WaitFor は selector の要素が現れるまで待ちます。
func WaitFor(selector string) Step {
	return func(ctx context.Context, page *rod.Page) error {
		if _, err := page.Context(ctx).Element(selector); err != nil {
			return fmt.Errorf("要素が現れませんでした (%s): %w", selector, err)
		}
		return nil
	}
}

// Pause は d だけ待機します。クリック後の再描画待ちなどに使います。
func Pause(d time.Duration) Step {
	return func(ctx context.Context, page *rod.Page) error {
		return sleep(ctx, d)
	}
}

// Optional は step を最大 wait の間だけ試み、失敗しても無視します。
// Cookieバナーやモーダルなど、表示されないこともある要素の操作に使います。
func Optional(wait time.Duration, step Step) Step {
	if wait <= 0 {
		wait = DefaultOptionalWait
	}
	return func(ctx context.Context, page *rod.Page) error {
		stepCtx, cancel := context.WithTimeout(ctx, wait)
		defer cancel()
		_ = step(stepCtx, page)
		// 親の ctx が終わっている場合のみ中断する
		return ctx.Err()
	}
}
