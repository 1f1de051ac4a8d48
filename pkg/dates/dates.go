package dates

import (
	"strings"
	"time"
)

// Layout は出力で統一する日付形式 (DD/MM/YYYY) です。
const Layout = "02/01/2006"

// サイトごとの代表的な日付形式。日と月は1桁・2桁のどちらも受け付ける
const (
	LongMonth    = "January 2, 2006" // Canon
	ShortMonth   = "Jan 2, 2006"     // Zeiss
	DayLongMonth = "2 January 2006"
	SlashYMD     = "2006/1/2" // Nidek
	DotDMY       = "2.1.2006" // PatentScope
	SlashDMY     = "2/1/2006"
	ISO          = "2006-1-2"
)

// Normalize は raw を layouts の順に解析し、最初に成功した形式で Layout に変換します。
// どの形式でも解析できなかった場合は、空白を除去した原文と false を返します。
func Normalize(raw string, layouts ...string) (string, bool) {
	s := strings.Join(strings.Fields(raw), " ")
	if s == "" {
		return "", false
	}
	for _, layout := range layouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.Format(Layout), true
		}
	}
	return s, false
}

// Format は時刻を Layout 形式の文字列に変換します。
func Format(t time.Time) string {
	return t.Format(Layout)
}
