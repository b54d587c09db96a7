// Package model はドメインモデルを定義する。
package model

import "time"

// Product は販売するデジタル商品を表す。
// 削除はIsActiveをfalseにする論理削除で表現する。
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	ImageBase64 *string   `json:"image_base64"`
	FileBase64  *string   `json:"file_base64"`
	FileName    *string   `json:"file_name"`
	FileType    *string   `json:"file_type"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	CreatedBy   string    `json:"created_by"`
}

// ProductInput は商品の作成・更新で受け付ける編集可能フィールド。
type ProductInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	ImageBase64 *string `json:"image_base64"`
	FileBase64  *string `json:"file_base64"`
	FileName    *string `json:"file_name"`
	FileType    *string `json:"file_type"`
}

// ProductFilter は公開商品一覧の絞り込み条件。
type ProductFilter struct {
	Category string
	Search   string
}

// Category は商品カテゴリを表す。
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// カテゴリID
const (
	CategoryEbooks    = "ebooks"
	CategoryTemplates = "templates"
	CategoryAudio     = "audio"
	CategoryVideos    = "videos"
	CategoryAIPacks   = "ai_packs"
)

// Categories は固定の5カテゴリを表示順で返す。
func Categories() []Category {
	return []Category{
		{ID: CategoryEbooks, Name: "E-books", Description: "Livres numériques"},
		{ID: CategoryTemplates, Name: "Templates", Description: "Modèles et templates"},
		{ID: CategoryAudio, Name: "Audio", Description: "Fichiers audio"},
		{ID: CategoryVideos, Name: "Vidéos", Description: "Contenus vidéo"},
		{ID: CategoryAIPacks, Name: "Packs IA", Description: "Outils et ressources IA"},
	}
}

// IsValidCategory はidが固定カテゴリのいずれかであるかを返す。
func IsValidCategory(id string) bool {
	for _, c := range Categories() {
		if c.ID == id {
			return true
		}
	}
	return false
}
