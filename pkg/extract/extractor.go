package extract

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	textUtils "github.com/shouni/go-utils/text"
)

// ----------------------------------------------------------------------
// 定数定義
// ----------------------------------------------------------------------

// linkSelector は、要素内で最初のリンクを探すためのデフォルトセレクターです。
const linkSelector = "[href]"

// ListSpec は、一覧ページから項目を抽出するためのセレクター定義です。
type ListSpec struct {
	// Item は一覧の各項目を表す要素のセレクターです。
	Item string
	// Title は項目内でタイトルを持つ要素のセレクターです。空の場合は項目自身のテキストを使います。
	Title string
	// Link は項目内のリンク要素のセレクターです。空の場合は項目自身の href、なければ最初の [href] を使います。
	Link string
	// Date は項目内で日付を持つ要素のセレクターです。
	Date string
	// DatePattern が設定されている場合、Date の代わりに項目テキストから最初の一致を日付とします。
	DatePattern *regexp.Regexp
}

// Entry は抽出された1項目です。Date はサイト固有の形式のままです。
type Entry struct {
	Title string
	URL   string
	Date  string
}

// List は doc から spec に従って項目を抽出します。
// タイトルまたはリンクが取得できない項目は読み飛ばします。
// 相対リンクは pageURL を基準に絶対URLへ解決されます。
func List(doc *goquery.Document, pageURL string, spec ListSpec) []Entry {
	if doc == nil || spec.Item == "" {
		return []Entry{}
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		base = nil
	}

	entries := []Entry{}
	doc.Find(spec.Item).Each(func(i int, s *goquery.Selection) {
		entry, ok := extractEntry(s, base, spec)
		if ok {
			entries = append(entries, entry)
		}
	})

	return entries
}

// Exists は selector に一致する要素が doc に存在するかどうかを返します。
func Exists(doc *goquery.Document, selector string) bool {
	if doc == nil {
		return false
	}
	return doc.Find(selector).Length() > 0
}

// extractEntry は1つの項目要素からタイトル・リンク・日付を取り出します。
func extractEntry(s *goquery.Selection, base *url.URL, spec ListSpec) (Entry, bool) {
	// 1. タイトル
	titleSel := s
	if spec.Title != "" {
		titleSel = s.Find(spec.Title).First()
	}
	title := textUtils.NormalizeText(titleSel.Text())
	if title == "" {
		return Entry{}, false
	}

	// 2. リンク
	href := findHref(s, spec.Link)
	link := resolve(base, href)
	if link == "" {
		return Entry{}, false
	}

	// 3. 日付
	var date string
	switch {
	case spec.DatePattern != nil:
		date = spec.DatePattern.FindString(s.Text())
	case spec.Date != "":
		date = textUtils.NormalizeText(s.Find(spec.Date).First().Text())
	}

	return Entry{Title: title, URL: link, Date: strings.TrimSpace(date)}, true
}

// findHref は項目要素からリンク先を探します。
func findHref(s *goquery.Selection, selector string) string {
	if selector != "" {
		href, _ := s.Find(selector).First().Attr("href")
		return strings.TrimSpace(href)
	}
	if href, ok := s.Attr("href"); ok && strings.TrimSpace(href) != "" {
		return strings.TrimSpace(href)
	}
	href, _ := s.Find(linkSelector).First().Attr("href")
	return strings.TrimSpace(href)
}

// resolve は href を base からの絶対URLに変換します。
func resolve(base *url.URL, href string) string {
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(strings.ToLower(href), "javascript:") {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base == nil || ref.IsAbs() {
		return ref.String()
	}
	return base.ResolveReference(ref).String()
}
