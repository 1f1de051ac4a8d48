package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"time"

	"github.com/shirou/gopsutil/v4/process"

	"github.com/shouni/go-competitor-watch/pkg/snapshot"
	"github.com/shouni/go-competitor-watch/pkg/types"
)

const (
	// ワーカーサブコマンドに渡すフラグ名
	CompetitorFlag = "competitor"
	ResultFlag     = "result"

	// DefaultWaitDelay は、強制終了後に子プロセスの出力が閉じるのを待つ時間です。
	DefaultWaitDelay = 5 * time.Second
)

// ProcessDispatcher は、1社ごとにワーカープロセスを起動して Worker を実行します。
// ワーカーは結果を一時ファイルに JSON で書き出し、親プロセスがそれを読み込みます。
// ctx の終了時には、ブラウザを含むワーカーのプロセスツリー全体を強制終了します。
type ProcessDispatcher struct {
	exe       string
	args      []string
	env       []string
	stdout    io.Writer
	stderr    io.Writer
	waitDelay time.Duration
}

// ProcessOption は ProcessDispatcher の設定を変更します。
type ProcessOption func(*ProcessDispatcher)

// WithEnv はワーカープロセスに追加する環境変数を設定します。
func WithEnv(env ...string) ProcessOption {
	return func(d *ProcessDispatcher) { d.env = append(d.env, env...) }
}

// WithOutput はワーカープロセスの標準出力・標準エラー出力の接続先を設定します。
func WithOutput(stdout, stderr io.Writer) ProcessOption {
	return func(d *ProcessDispatcher) {
		d.stdout = stdout
		d.stderr = stderr
	}
}

// WithWaitDelay は強制終了後の待機時間を設定します。
func WithWaitDelay(delay time.Duration) ProcessOption {
	return func(d *ProcessDispatcher) { d.waitDelay = delay }
}

// NewProcessDispatcher は exe を args 付きで起動する ProcessDispatcher を返します。
// 起動時には args の後ろに --competitor と --result が追加されます。
func NewProcessDispatcher(exe string, args []string, opts ...ProcessOption) *ProcessDispatcher {
	d := &ProcessDispatcher{
		exe:       exe,
		args:      slices.Clone(args),
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		waitDelay: DefaultWaitDelay,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *ProcessDispatcher) Dispatch(ctx context.Context, name string) (types.CompetitorResult, error) {
	dir, err := os.MkdirTemp("", "competitor-watch-*")
	if err != nil {
		return types.CompetitorResult{}, fmt.Errorf("一時ディレクトリの作成に失敗しました: %w", err)
	}
	defer os.RemoveAll(dir)

	resultPath := filepath.Join(dir, "result.json")
	args := append(slices.Clone(d.args),
		"--"+CompetitorFlag, name,
		"--"+ResultFlag, resultPath,
	)

	cmd := exec.CommandContext(ctx, d.exe, args...)
	cmd.Env = append(os.Environ(), d.env...)
	cmd.Stdout = d.stdout
	cmd.Stderr = d.stderr
	cmd.Cancel = func() error {
		return killTree(int32(cmd.Process.Pid))
	}
	cmd.WaitDelay = d.waitDelay

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return types.CompetitorResult{}, fmt.Errorf("%s: ワーカープロセスを強制終了しました: %w", name, ctxErr)
		}
		return types.CompetitorResult{}, fmt.Errorf("%s: ワーカープロセスが異常終了しました: %w", name, err)
	}

	return snapshot.ReadResult(resultPath)
}

// killTree は pid のプロセスとその子孫をすべて強制終了します。
func killTree(pid int32) error {
	p, err := process.NewProcess(pid)
	if err != nil {
		if errors.Is(err, process.ErrorProcessNotRunning) {
			return os.ErrProcessDone
		}
		return err
	}
	return killProcessTree(p)
}

func killProcessTree(p *process.Process) error {
	// 子が存在しない場合もエラーになるため無視する
	children, _ := p.Children()
	for _, child := range children {
		_ = killProcessTree(child)
	}
	return p.Kill()
}
