package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html/charset"

	"github.com/shouni/go-headline-exact/pkg/types"
)

const (
	// HTTPクライアント関連の定数
	DefaultHTTPTimeout = 10 * time.Second
	MaxBodySize        = int64(10 * 1024 * 1024) // 10MB: レスポンスボディの最大読み込みサイズ

	// サイトからのブロックを避けるためのUser-Agent
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/118.0.0.0 Safari/537.36"
)

// Doer は、標準の *http.Client.Do() と互換性のあるHTTPクライアントのインターフェースです。
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client は1つのURLに対して1回だけ GET を行い、本文をテキストとして返します。
// 失敗はすべて types.Absent() に変換され、呼び出し元にエラーは伝播しません。
type Client struct {
	httpClient  Doer
	timeout     time.Duration
	userAgent   string
	maxBodySize int64
	logger      *zap.Logger
}

// ClientOption は Client の設定を行うための関数型です。
type ClientOption func(*Client)

// WithHTTPClient はカスタムの Doer を設定します。
func WithHTTPClient(doer Doer) ClientOption {
	return func(c *Client) {
		c.httpClient = doer
	}
}

// WithUserAgent は User-Agent ヘッダーを上書きします。空文字の場合はデフォルトのままです。
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithMaxBodySize は読み込むボディの上限を設定します。0以下の場合はデフォルトのままです。
func WithMaxBodySize(limit int64) ClientOption {
	return func(c *Client) {
		if limit > 0 {
			c.maxBodySize = limit
		}
	}
}

// WithLogger はロガーを設定します。
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New は、新しい Client を生成します。
// timeout は1回の取得全体（接続から本文の読み込みまで）に一律で適用されます。
// 0以下の場合は DefaultHTTPTimeout が使われます。
func New(timeout time.Duration, options ...ClientOption) *Client {
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}

	c := &Client{
		httpClient:  &http.Client{},
		timeout:     timeout,
		userAgent:   UserAgent,
		maxBodySize: MaxBodySize,
		logger:      zap.NewNop(),
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Fetch は URL を取得し、本文を types.Page として返します。
// HTTPステータスコードは区別しません (4xx/5xx のボディもコンテンツとして扱います)。
func (c *Client) Fetch(ctx context.Context, url string) types.Page {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, status, err := c.doFetch(ctx, url)
	if err != nil {
		c.logger.Warn("ページの取得に失敗しました",
			zap.String("url", url),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return types.Absent()
	}

	c.logger.Debug("ページを取得しました",
		zap.String("url", url),
		zap.Int("status", status),
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return types.Present(body)
}

// doFetch は実際の一度のHTTP GETリクエストとボディの読み込みを実行します。
func (c *Client) doFetch(ctx context.Context, url string) (string, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", 0, fmt.Errorf("GETリクエスト作成に失敗しました: %w", err)
	}
	c.addCommonHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("HTTPリクエストに失敗しました (ネットワーク/接続エラー): %w", err)
	}
	defer resp.Body.Close()

	body, err := c.readBody(resp)
	if err != nil {
		return "", resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}

// readBody はボディを最大サイズに制限して読み込み、UTF-8 のテキストに変換します。
func (c *Client) readBody(resp *http.Response) (string, error) {
	limited := io.LimitReader(resp.Body, c.maxBodySize)

	// Content-Type と <meta charset> から文字コードを判定する
	reader, err := charset.NewReader(limited, resp.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("レスポンスボディの読み込みに失敗しました: %w", err)
	}

	bodyBytes, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("レスポンスボディの読み込みに失敗しました: %w", err)
	}
	return string(bodyBytes), nil
}

// addCommonHeaders は共通のHTTPヘッダーを設定します。
func (c *Client) addCommonHeaders(req *http.Request) {
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
}
