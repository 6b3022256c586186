package cmd

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shouni/go-headline-exact/pkg/extract"
)

// ensureScheme はコマンドラインで渡されたURLを正規化します。
// スキームが無ければ見出しと同じ信頼済みスキーム (https://) を補い、http/https 以外やホストの無いURLは拒否します。
func ensureScheme(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", fmt.Errorf("URLが指定されていません")
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("URLのパースエラー: %w", err)
	}
	if parsedURL.Scheme == "" {
		rawURL = extract.TrustedScheme + rawURL
		if parsedURL, err = url.Parse(rawURL); err != nil {
			return "", fmt.Errorf("URLのパースエラー (スキーム補完後): %w", err)
		}
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return "", fmt.Errorf("無効なURLスキームです。httpまたはhttpsを指定してください: %s", rawURL)
	}
	if parsedURL.Host == "" {
		return "", fmt.Errorf("URLにホストがありません: %s", rawURL)
	}
	return rawURL, nil
}
