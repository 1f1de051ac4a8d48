package types

// News はニュースルームから取得した1件の記事です。
type News struct {
	Headline string `json:"Headline"`
	URL      string `json:"URL"`
	Date     string `json:"Date,omitempty"` // DD/MM/YYYY
}

// Job は求人ボードから取得した1件の求人です。日付は持ちません。
type Job struct {
	Title string `json:"Job Title"`
	URL   string `json:"URL"`
}

// Patent は特許検索ポータルから取得した1件の公開情報です。
type Patent struct {
	Title string `json:"Title"`
	URL   string `json:"URL"`
	Date  string `json:"Date,omitempty"` // DD/MM/YYYY (解析できない場合は原文のまま)
}

// CompetitorResult は、1社分の抽出結果です。
// Competitor Worker が1回の実行につき1つだけ生成し、組み立て後は変更しません。
type CompetitorResult struct {
	Name    string   `json:"Name"`
	News    []News   `json:"News"`
	Jobs    []Job    `json:"Jobs"`
	Patents []Patent `json:"Patents"`
}

// EmptyResult は、すべてのリストが空の結果を返します。
// タイムアウトや失敗時のプレースホルダーとして利用されます。
func EmptyResult(name string) CompetitorResult {
	return CompetitorResult{
		Name:    name,
		News:    []News{},
		Jobs:    []Job{},
		Patents: []Patent{},
	}
}

// Normalize は nil スライスを空スライスに置き換えます。
// JSON で null ではなく [] を出力するために使います。
func (r CompetitorResult) Normalize() CompetitorResult {
	if r.News == nil {
		r.News = []News{}
	}
	if r.Jobs == nil {
		r.Jobs = []Job{}
	}
	if r.Patents == nil {
		r.Patents = []Patent{}
	}
	return r
}

// IsEmpty は、3種類すべてのリストが空かどうかを返します。
func (r CompetitorResult) IsEmpty() bool {
	return len(r.News) == 0 && len(r.Jobs) == 0 && len(r.Patents) == 0
}

// Snapshot は1回の実行で得られた全競合の結果です。
// Competitor の順序は設定された競合リストの順序と一致します。
type Snapshot struct {
	Competitor []CompetitorResult `json:"Competitor"`
}
