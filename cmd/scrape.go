package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shouni/go-headline-exact/internal/config"
	"github.com/shouni/go-headline-exact/internal/report"
	"github.com/shouni/go-headline-exact/internal/sink"
)

// stdoutPath は結果を標準出力に書き出すことを表す出力先です。
const stdoutPath = "-"

var (
	providersPath string
	outputPath    string
)

// newSink は出力先に応じた Sink を返します。
func newSink(path string) sink.Sink {
	if path == stdoutPath {
		return sink.NewWriterSink(os.Stdout)
	}
	return sink.NewFileSink(path)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "設定ファイルの全ソースを並列に取得し、見出しをJSONに出力します",
	Long: `プロバイダー設定ファイル (-c) に書かれた全ソースのページを並列に取得し、
ソースごとに見出し (title, link) を抽出して、設定ファイルと同じ順序のJSONとして出力します。
取得に失敗したソースは空のリストになります。`,
	Args: cobra.NoArgs,

	RunE: func(cmd *cobra.Command, args []string) error {
		defer syncLogger()

		// 1. プロバイダー設定の読み込み
		providers, err := config.LoadProviders(providersPath)
		if err != nil {
			return err
		}

		// 2. パイプラインの初期化
		p, err := newPipeline()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// 3. 1回だけ実行
		result := p.Run(ctx, providers)
		if err := context.Cause(ctx); err != nil {
			globalLogger.Warn("中断されたため、取得できなかったソースは空になります", zap.Error(err))
		}

		// 4. 出力
		out := outputPath
		if out == "" {
			out = globalSettings.Output.Path
		}
		if err := newSink(out).Emit(result); err != nil {
			return fmt.Errorf("結果の出力エラー: %w", err)
		}

		if out != stdoutPath {
			report.Summary(cmd.OutOrStdout(), result)
			globalLogger.Info("結果を保存しました", zap.String("path", out))
		}
		return nil
	},
}

func init() {
	scrapeCmd.Flags().StringVarP(&providersPath, "config", "c", "", "プロバイダー設定ファイル (JSON) のパス")
	scrapeCmd.Flags().StringVarP(&outputPath, "output", "o", "",
		fmt.Sprintf("出力先のJSONファイル。%q で標準出力 (デフォルト: 設定の output.path)", stdoutPath))
	_ = scrapeCmd.MarkFlagRequired("config")
}
