package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shouni/go-competitor-watch/internal/pipeline"
	"github.com/shouni/go-competitor-watch/pkg/scraper"
)

const workerCmdName = "worker"

var (
	workerCompetitor string
	workerResultPath string
)

// workerCmd は、プロセス隔離時に1社分を処理するための内部コマンドです。
var workerCmd = &cobra.Command{
	Use:    workerCmdName,
	Short:  "1社分を処理して結果をファイルに書き出します (内部用)",
	Hidden: true,
	Args:   cobra.NoArgs,

	RunE: func(cmd *cobra.Command, args []string) error {
		if workerCompetitor == "" || workerResultPath == "" {
			return fmt.Errorf("--%s と --%s は必須です", scraper.CompetitorFlag, scraper.ResultFlag)
		}

		ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return pipeline.RunWorker(ctx, pipelineOptions(), workerCompetitor, workerResultPath)
	},
}

func init() {
	workerCmd.Flags().StringVar(&workerCompetitor, scraper.CompetitorFlag, "", "処理する競合名")
	workerCmd.Flags().StringVar(&workerResultPath, scraper.ResultFlag, "", "結果を書き出すJSONファイルのパス")
}
