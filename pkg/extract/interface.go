package extract

import (
	"github.com/shouni/go-headline-exact/pkg/types"
)

// ----------------------------------------------------------------------
// 依存性の定義 (DIP)
// ----------------------------------------------------------------------

// HeadlineExtractor は、取得済みのページから見出しを抽出する機能のインターフェースです。
// パイプラインは、この抽象に依存します。
type HeadlineExtractor interface {
	Extract(page types.Page, tag string, attrs map[string]string) ([]types.Headline, error)
}
