package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	// リトライ関連の定数
	DefaultMaxRetries = 2 // ページ遷移の最大リトライ回数

	// バックオフのカスタム設定
	InitialBackoffInterval = 500 * time.Millisecond
	MaxBackoffInterval     = 5 * time.Second
)

// Operation はリトライ可能な処理を表す関数です。成功時は nil を返します。
type Operation func() error

// ShouldRetryFunc はエラーを受け取り、そのエラーがリトライ可能かどうかを判定する関数です。
type ShouldRetryFunc func(error) bool

// Config はリトライ動作を設定するための構造体です。
type Config struct {
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultConfig は推奨されるデフォルト設定を返します。
func DefaultConfig() Config {
	return Config{
		MaxRetries:      DefaultMaxRetries,
		InitialInterval: InitialBackoffInterval,
		MaxInterval:     MaxBackoffInterval,
	}
}

// newBackOffPolicy は Config とコンテキストから backoff のポリシーを組み立てます。
func newBackOffPolicy(ctx context.Context, cfg Config) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = cfg.InitialInterval
	b.MaxInterval = cfg.MaxInterval
	// 全体の経過時間の上限はコンテキストに任せる
	b.MaxElapsedTime = 0

	return backoff.WithContext(backoff.WithMaxRetries(b, cfg.MaxRetries), ctx)
}

// Do は指数バックオフとカスタムエラー判定を使用して操作をリトライします。
func Do(ctx context.Context, cfg Config, operationName string, op Operation, shouldRetryFn ShouldRetryFunc) error {
	bo := newBackOffPolicy(ctx, cfg)

	var (
		lastErr   error
		permanent bool
	)

	retryableOp := func() error {
		err := op()
		if err == nil {
			return nil
		}

		// 呼び出し側が既に Permanent を返した場合はそのまま中止
		var pErr *backoff.PermanentError
		if errors.As(err, &pErr) {
			lastErr, permanent = pErr.Err, true
			return err
		}

		lastErr = err
		if shouldRetryFn == nil || shouldRetryFn(err) {
			return fmt.Errorf("一時的なエラーが発生、リトライします: %w", err)
		}

		permanent = true
		return backoff.Permanent(err)
	}

	err := backoff.Retry(retryableOp, bo)
	if err == nil {
		return nil
	}

	// コンテキストキャンセル/タイムアウトのエラー処理
	if IsContextError(err) {
		return fmt.Errorf("%sに失敗しました: コンテキストタイムアウト/キャンセル: %w", operationName, err)
	}

	if permanent {
		return fmt.Errorf("%sに失敗しました: 致命的なエラーのためリトライを中止: %w", operationName, lastErr)
	}

	return fmt.Errorf("%sに失敗しました: 最大リトライ回数 (%d回) に到達。最終エラー: %w", operationName, cfg.MaxRetries, lastErr)
}

// IsContextError は、コンテキストのキャンセル/タイムアウトに由来するエラーかどうかを判定します。
// ページ遷移など、コンテキスト終了後にリトライしても意味のない処理の判定関数として使います。
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
