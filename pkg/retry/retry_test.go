package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.Equal(t, uint64(DefaultMaxRetries), cfg.MaxRetries, "MaxRetries should match DefaultMaxRetries constant.")
	require.Equal(t, InitialBackoffInterval, cfg.InitialInterval, "InitialInterval should match constant.")
	require.Equal(t, MaxBackoffInterval, cfg.MaxInterval, "MaxInterval should match constant.")
}

func TestNewBackOffPolicy(t *testing.T) {
	cfg := Config{
		MaxRetries:      5,
		InitialInterval: 10 * time.Millisecond,
		MaxInterval:     500 * time.Millisecond,
	}

	bo := newBackOffPolicy(context.Background(), cfg)
	require.NotNil(t, bo)
	require.NotEqual(t, backoff.Stop, bo.NextBackOff())
}

func TestDo(t *testing.T) {
	// テスト用の高速な設定
	testCfg := Config{MaxRetries: 3, InitialInterval: 1 * time.Millisecond, MaxInterval: 10 * time.Millisecond}
	opName := "test_operation"

	permanentErrText := fmt.Sprintf("%sに失敗しました: 致命的なエラーのためリトライを中止: %s", opName, "permanent error")
	fatalErrText := fmt.Sprintf("%sに失敗しました: 致命的なエラーのためリトライを中止: %s", opName, "fatal error")
	maxRetriesErrText := fmt.Sprintf("%sに失敗しました: 最大リトライ回数 (%d回) に到達。最終エラー: retryable error", opName, testCfg.MaxRetries)

	tests := []struct {
		name          string
		ctx           context.Context
		operation     Operation
		shouldRetry   ShouldRetryFunc
		expectedError string
		contains      bool
		calls         int
	}{
		{
			name:        "successful operation",
			ctx:         context.Background(),
			operation:   func() error { return nil },
			shouldRetry: func(err error) bool { return false },
			calls:       1,
		},
		{
			name: "retryable error and success within max retries",
			ctx:  context.Background(),
			operation: func() Operation {
				attempt := 0
				return func() error {
					attempt++
					if attempt < 3 {
						return errors.New("retryable error")
					}
					return nil
				}
			}(),
			shouldRetry: func(err error) bool { return err.Error() == "retryable error" },
			calls:       3,
		},
		{
			name: "permanent error",
			ctx:  context.Background(),
			operation: func() error {
				return backoff.Permanent(errors.New("permanent error"))
			},
			shouldRetry:   func(err error) bool { return true },
			expectedError: permanentErrText,
			calls:         1,
		},
		{
			name:          "non retryable error",
			ctx:           context.Background(),
			operation:     func() error { return errors.New("fatal error") },
			shouldRetry:   func(err error) bool { return false },
			expectedError: fatalErrText,
			calls:         1,
		},
		{
			name:          "context canceled",
			ctx:           func() context.Context { ctx, cancel := context.WithCancel(context.Background()); cancel(); return ctx }(),
			operation:     func() error { return errors.New("some error") },
			shouldRetry:   func(err error) bool { return true },
			expectedError: "test_operationに失敗しました: コンテキストタイムアウト/キャンセル: context canceled",
			contains:      true,
			calls:         1,
		},
		{
			name:          "max retries exceeded",
			ctx:           context.Background(),
			operation:     func() error { return errors.New("retryable error") },
			shouldRetry:   func(err error) bool { return true },
			expectedError: maxRetriesErrText,
			calls:         int(testCfg.MaxRetries) + 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			op := func() error {
				calls++
				return tt.operation()
			}

			err := Do(tt.ctx, testCfg, opName, op, tt.shouldRetry)

			require.Equal(t, tt.calls, calls)
			if tt.expectedError == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			if tt.contains {
				require.Contains(t, err.Error(), tt.expectedError)
			} else {
				require.Equal(t, tt.expectedError, err.Error())
			}
		})
	}
}

func TestIsContextError(t *testing.T) {
	require.True(t, IsContextError(context.Canceled))
	require.True(t, IsContextError(fmt.Errorf("wrapped: %w", context.DeadlineExceeded)))
	require.False(t, IsContextError(errors.New("other")))
	require.False(t, IsContextError(nil))
}
