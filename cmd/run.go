package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shouni/go-competitor-watch/internal/pipeline"
)

const runCmdName = "run"

var runCmd = &cobra.Command{
	Use:   runCmdName,
	Short: "すべての競合のニュース・求人・特許を取得し、JSONに書き出します",
	Long: `設定された競合ごとにニュースルーム・LinkedIn求人・PATENTSCOPEを巡回し、
結果を1つのJSONファイルに書き出します。個々の取得の失敗は空のリストとして扱われます。`,
	Args: cobra.NoArgs,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
		defer stop()

		snap, err := pipeline.Run(ctx, pipelineOptions())
		if err != nil {
			return err
		}

		printSummary(cmd.OutOrStdout(), snap)
		return nil
	},
}

// cmdContext は cmd のコンテキストを返します。未設定の場合は Background です。
func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
