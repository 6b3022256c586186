package types

import (
	"encoding/json"
	"fmt"
)

// Provider は、見出しを取得する1つのソース（URLとセレクタ）を表します。
// 生成後は変更できません。attrs はコンストラクタとアクセサの双方でコピーされます。
type Provider struct {
	url   string
	tag   string
	attrs map[string]string
}

// NewProvider は Provider を生成します。値の検証は設定ローダーの責務です。
func NewProvider(url, tag string, attrs map[string]string) Provider {
	return Provider{
		url:   url,
		tag:   tag,
		attrs: copyAttrs(attrs),
	}
}

// URL は取得対象のURLを返します。
func (p Provider) URL() string { return p.url }

// Tag は見出し要素のタグ名を返します。
func (p Provider) Tag() string { return p.tag }

// Attrs は見出し要素に要求される属性のコピーを返します。
func (p Provider) Attrs() map[string]string { return copyAttrs(p.attrs) }

func (p Provider) String() string {
	return fmt.Sprintf("%s <%s %v>", p.url, p.tag, p.attrs)
}

func copyAttrs(attrs map[string]string) map[string]string {
	out := make(map[string]string, len(attrs))
	for k, v := range attrs {
		out[k] = v
	}
	return out
}

// Page は1回の取得結果です。取得に失敗した場合は Absent になります。
// ゼロ値は Absent と同じです。
type Page struct {
	content string
	present bool
}

// Present は取得に成功したページを返します。
func Present(content string) Page {
	return Page{content: content, present: true}
}

// Absent は取得に失敗した（またはソースに到達できなかった）ことを示すマーカーです。
func Absent() Page {
	return Page{}
}

// Content はページ本文と、本文が存在するかどうかを返します。
func (p Page) Content() (string, bool) {
	return p.content, p.present
}

// IsAbsent は取得失敗マーカーかどうかを返します。
func (p Page) IsAbsent() bool { return !p.present }

// Headline は抽出された1件の見出しです。
type Headline struct {
	Title string `json:"title"`
	Link  string `json:"link"`
}

// SourceResult は1つの Provider に対応する見出しのリストです。
type SourceResult struct {
	URL       string
	Headlines []Headline
}

// MarshalJSON は {"<url>": [{"title": ..., "link": ...}, ...]} の形式で出力します。
// 見出しが無い場合も null ではなく空配列になります。
func (r SourceResult) MarshalJSON() ([]byte, error) {
	headlines := r.Headlines
	if headlines == nil {
		headlines = []Headline{}
	}
	return json.Marshal(map[string][]Headline{r.URL: headlines})
}

// UnmarshalJSON は MarshalJSON の逆変換です。キーはちょうど1つでなければなりません。
func (r *SourceResult) UnmarshalJSON(data []byte) error {
	var m map[string][]Headline
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	if len(m) != 1 {
		return fmt.Errorf("types.SourceResult: キーは1つである必要があります (実際: %d)", len(m))
	}
	for url, headlines := range m {
		r.URL = url
		r.Headlines = headlines
	}
	if r.Headlines == nil {
		r.Headlines = []Headline{}
	}
	return nil
}

// Result はパイプライン1回分の結果です。入力 Provider と同じ順序・同じ件数を持ちます。
type Result []SourceResult

// TotalHeadlines は全ソースの見出し件数の合計を返します。
func (r Result) TotalHeadlines() int {
	total := 0
	for _, s := range r {
		total += len(s.Headlines)
	}
	return total
}
