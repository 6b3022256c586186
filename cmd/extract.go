package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shouni/go-headline-exact/internal/report"
	"github.com/shouni/go-headline-exact/pkg/types"
)

var (
	rawURL       string
	selectorTag  string
	selectorAttr []string
)

// parseAttrs は k=v 形式のリストを属性マップに変換します。
func parseAttrs(pairs []string) (map[string]string, error) {
	attrs := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("属性は key=value 形式で指定してください: %q", pair)
		}
		attrs[k] = v
	}
	return attrs, nil
}

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "1つのURLからタグと属性で見出しを抽出して表示します",
	Long:  `1つのソースだけを scrape と同じパイプラインで処理し、抽出された見出しを表示します。セレクタの調整に使います。`,
	Args:  cobra.NoArgs,

	RunE: func(cmd *cobra.Command, args []string) error {
		defer syncLogger()

		// 1. URLのスキーム補完とバリデーション
		processedURL, err := ensureScheme(rawURL)
		if err != nil {
			return fmt.Errorf("URLスキームの処理エラー: %w", err)
		}
		attrs, err := parseAttrs(selectorAttr)
		if err != nil {
			return err
		}

		// 2. パイプラインの実行
		p, err := newPipeline()
		if err != nil {
			return err
		}
		provider := types.NewProvider(processedURL, selectorTag, attrs)
		result := p.Run(cmd.Context(), []types.Provider{provider})

		// 3. 結果の出力
		fmt.Fprintf(cmd.OutOrStdout(), "ソース: %s\n", provider)
		report.Headlines(cmd.OutOrStdout(), result[0].Headlines)
		return nil
	},
}

func init() {
	extractCmd.Flags().StringVarP(&rawURL, "url", "u", "", "抽出対象のURL")
	extractCmd.Flags().StringVar(&selectorTag, "tag", "a", "見出しの要素名")
	extractCmd.Flags().StringArrayVar(&selectorAttr, "attr", nil, "要素の属性条件 (key=value、複数指定可)")
	_ = extractCmd.MarkFlagRequired("url")
}
