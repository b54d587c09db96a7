// Package security はアプリケーションのセキュリティ機能を提供する。
//
// DescriptionSanitizer は管理者が登録する商品説明のHTMLをサニタイズし、
// 商品ページを閲覧する利用者をXSSから保護する。
// PasswordHasher はbcryptによるパスワードのハッシュ化と照合を行う。
package security

import (
	"github.com/microcosm-cc/bluemonday"
)

// DescriptionSanitizer は商品説明のサニタイズ機能のインターフェースを定義する。
type DescriptionSanitizer interface {
	// Sanitize はHTMLをサニタイズして安全なHTMLを返す。
	// 許可タグ（p, br, a, ul, ol, li, strong, em, h3, h4, blockquote）のみを通過させる。
	// aタグのhrefはhttpsのみ許可し、target="_blank"とrel="noopener noreferrer"を付与する。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(rawHTML string) string
}

// descriptionSanitizer はDescriptionSanitizerの実装。
// bluemondayのポリシーはスレッドセーフで、複数リクエストから共有できる。
type descriptionSanitizer struct {
	policy *bluemonday.Policy
}

// NewDescriptionSanitizer はDescriptionSanitizerの新しいインスタンスを生成する。
func NewDescriptionSanitizer() *descriptionSanitizer {
	p := bluemonday.NewPolicy()

	p.AllowElements(
		"p", "br", "ul", "ol", "li",
		"strong", "em", "h3", "h4", "blockquote",
	)

	// 商品ページからの外部リンク
	p.AllowAttrs("href").OnElements("a")
	p.AllowURLSchemes("https")
	p.AllowRelativeURLs(false)
	p.RequireParseableURLs(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	p.RequireNoReferrerOnLinks(true)

	return &descriptionSanitizer{
		policy: p,
	}
}

// Sanitize はHTMLをサニタイズして安全なHTMLを返す。
func (s *descriptionSanitizer) Sanitize(rawHTML string) string {
	return s.policy.Sanitize(rawHTML)
}
