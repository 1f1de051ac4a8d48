package cmd

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	clibase "github.com/shouni/go-cli-base"
	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/spf13/cobra"

	"github.com/shouni/go-competitor-watch/internal/config"
	"github.com/shouni/go-competitor-watch/internal/pipeline"
)

// --- グローバル定数 ---

const (
	appName = "competitor-watch"
)

// --- グローバル変数とフラグ構造体 ---

// AppFlags はこのアプリケーション固有の永続フラグを保持
type AppFlags struct {
	OutputPath        string        // --output 出力ファイル
	AdapterTimeout    time.Duration // --adapter-timeout アダプタ呼び出し1回の制限時間
	CompetitorTimeout time.Duration // --competitor-timeout 1社あたりの制限時間
	MaxWorkers        int           // --max-workers 並列数
	Isolation         string        // --isolation 隔離方式
	TimeoutSec        int           // --timeout HTTPタイムアウト
	MaxRetries        int           // --max-retries HTTPリトライ回数
}

var Flags AppFlags // アプリケーション固有フラグにアクセスするためのグローバル変数

var (
	appConfig     config.Config
	globalFetcher *httpkit.Client
)

// --- 初期化とロジック (clibaseへのコールバックとして利用) ---

// addAppPersistentFlags は、アプリケーション固有の永続フラグをルートコマンドに追加します。
func addAppPersistentFlags(rootCmd *cobra.Command) {
	defaults := config.Default()

	rootCmd.PersistentFlags().StringVarP(&Flags.OutputPath, "output", "o", defaults.OutputPath, "出力するJSONファイルのパス")
	rootCmd.PersistentFlags().DurationVar(&Flags.AdapterTimeout, "adapter-timeout", defaults.AdapterTimeout, "ニュース・求人・特許それぞれの取得の制限時間")
	rootCmd.PersistentFlags().DurationVar(&Flags.CompetitorTimeout, "competitor-timeout", defaults.CompetitorTimeout, "1社あたりの制限時間")
	rootCmd.PersistentFlags().IntVar(&Flags.MaxWorkers, "max-workers", defaults.MaxWorkers, "並列に処理する競合数の上限")
	rootCmd.PersistentFlags().StringVar(&Flags.Isolation, "isolation", defaults.Isolation, "隔離方式 (process|goroutine)")
	rootCmd.PersistentFlags().IntVar(&Flags.TimeoutSec, "timeout", defaults.HTTP.TimeoutSec, "HTTPリクエストのタイムアウト時間（秒）")
	rootCmd.PersistentFlags().IntVar(&Flags.MaxRetries, "max-retries", defaults.HTTP.MaxRetries, "HTTPリクエストのリトライ最大回数")
}

// initAppPreRunE は、clibase共通処理の後に実行される、アプリケーション固有のPersistentPreRunEです。
// NOTE: clibaseの PersistentPreRunE チェーンにより、clibase.Flags.Verbose と clibase.Flags.ConfigFile はこの関数実行前に設定済み
func initAppPreRunE(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(clibase.Flags.ConfigFile)
	if err != nil {
		return err
	}

	applyFlagOverrides(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("設定の検証に失敗しました: %w", err)
	}
	appConfig = cfg

	timeout := time.Duration(cfg.HTTP.TimeoutSec) * time.Second

	if clibase.Flags.Verbose {
		log.Printf("HTTPクライアントのタイムアウトを設定しました (Timeout: %s)。", timeout)
		log.Printf("HTTPクライアントのリトライ回数を設定しました (MaxRetries: %d)。", cfg.HTTP.MaxRetries)
	}

	// 共有フェッチャーの初期化
	globalFetcher = httpkit.New(
		timeout,
		httpkit.WithMaxRetries(uint64(cfg.HTTP.MaxRetries)),
	)

	return nil
}

// applyFlagOverrides は、明示的に指定されたフラグの値で cfg を上書きします。
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("output") {
		cfg.OutputPath = Flags.OutputPath
	}
	if flags.Changed("adapter-timeout") {
		cfg.AdapterTimeout = Flags.AdapterTimeout
	}
	if flags.Changed("competitor-timeout") {
		cfg.CompetitorTimeout = Flags.CompetitorTimeout
	}
	if flags.Changed("max-workers") {
		cfg.MaxWorkers = Flags.MaxWorkers
	}
	if flags.Changed("isolation") {
		cfg.Isolation = Flags.Isolation
	}
	if flags.Changed("timeout") {
		cfg.HTTP.TimeoutSec = Flags.TimeoutSec
	}
	if flags.Changed("max-retries") {
		cfg.HTTP.MaxRetries = Flags.MaxRetries
	}
}

// GetGlobalFetcher は、初期化されたフェッチャーを返す関数 (DIの代わり)
func GetGlobalFetcher() *httpkit.Client {
	return globalFetcher
}

// pipelineOptions は、解決済みの設定からパイプラインの入力を組み立てます。
func pipelineOptions() pipeline.Options {
	return pipeline.Options{
		Config:     appConfig,
		Fetcher:    GetGlobalFetcher(),
		Verbose:    clibase.Flags.Verbose,
		WorkerArgs: workerArgs(appConfig, clibase.Flags.ConfigFile, clibase.Flags.Verbose),
	}
}

// workerArgs は、ワーカープロセスに親と同じ設定を引き継ぐための引数を返します。
// 設定ファイルにしかない項目は --config で引き継ぎ、フラグで上書きできる項目は解決済みの値を渡します。
// ワーカー側でも同じ検証が行われるため、検証対象の項目はすべて渡す必要があります。
func workerArgs(cfg config.Config, configPath string, verbose bool) []string {
	args := []string{workerCmdName}
	if configPath != "" {
		args = append(args, "--config", configPath)
	}
	args = append(args,
		"--output", cfg.OutputPath,
		"--adapter-timeout", cfg.AdapterTimeout.String(),
		"--competitor-timeout", cfg.CompetitorTimeout.String(),
		"--max-workers", strconv.Itoa(cfg.MaxWorkers),
		"--isolation", cfg.Isolation,
		"--timeout", strconv.Itoa(cfg.HTTP.TimeoutSec),
		"--max-retries", strconv.Itoa(cfg.HTTP.MaxRetries),
	)
	if verbose {
		args = append(args, "--verbose")
	}
	return args
}

// withDefaultCommand は、サブコマンドが指定されていない場合に run を補います。
func withDefaultCommand(args []string) []string {
	if len(args) < 2 || strings.HasPrefix(args[1], "-") {
		out := make([]string, 0, len(args)+1)
		out = append(out, args[:1]...)
		out = append(out, runCmdName)
		return append(out, args[1:]...)
	}
	return args
}

// --- エントリポイント ---

// Execute は、rootCmd を実行するメイン関数です。clibaseのExecuteを使用する。
func Execute() {
	os.Args = withDefaultCommand(os.Args)

	clibase.Execute(
		appName,
		addAppPersistentFlags,
		initAppPreRunE,
		runCmd,
		workerCmd,
	)
	// clibase.Execute() の中で os.Exit(1) が処理されるため、ここでは不要
}
