package dish

import "strings"

// Ingredient 食材（由外部物品定義系統擁有，核心只讀）
type Ingredient struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// Category 食材分類
type Category int

// 分類的宣告順序同時決定 DominantCategory 的平手順序
const (
	Meat Category = iota
	Vegetable
	Grain
	Egg
	Dairy
	Fruit
	Fungus
	Special
	Other
)

// Categories 依宣告順序列出所有分類
var Categories = []Category{Meat, Vegetable, Grain, Egg, Dairy, Fruit, Fungus, Special, Other}

var categoryNames = [...]string{"Meat", "Vegetable", "Grain", "Egg", "Dairy", "Fruit", "Fungus", "Special", "Other"}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return "Other"
	}
	return categoryNames[c]
}

// ParseCategory 解析分類名稱（不分大小寫）
func ParseCategory(s string) (Category, bool) {
	for i, name := range categoryNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return Category(i), true
		}
	}
	return Other, false
}

// Quality 餐點品質；零值表示未指定
type Quality string

const (
	QualityNone   Quality = ""
	QualitySimple Quality = "Simple"
	QualityFine   Quality = "Fine"
	QualityLavish Quality = "Lavish"
)

// Qualities 所有已知品質等級
var Qualities = []Quality{QualitySimple, QualityFine, QualityLavish}

// qualityRules 依序比對餐點類型 ID
var qualityRules = []struct {
	substr  string
	quality Quality
}{
	{"Lavish", QualityLavish},
	{"Fine", QualityFine},
}

// QualityFromMealType 由餐點類型 ID 推導品質，預設為 Simple
func QualityFromMealType(mealTypeID string) Quality {
	for _, rule := range qualityRules {
		if strings.Contains(mealTypeID, rule.substr) {
			return rule.quality
		}
	}
	return QualitySimple
}

// ParseQuality 解析品質字串（不分大小寫），空字串回傳 QualityNone
func ParseQuality(s string) (Quality, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return QualityNone, true
	}
	for _, q := range Qualities {
		if strings.EqualFold(string(q), s) {
			return q, true
		}
	}
	return QualityNone, false
}

// OrSimple 未指定品質時視為 Simple
func (q Quality) OrSimple() Quality {
	if q == QualityNone {
		return QualitySimple
	}
	return q
}

// DefaultDescription 未撰寫描述時使用的填充文字
const DefaultDescription = "A simple meal, prepared with whatever was at hand."

// Entry 名稱資料庫中的一筆菜名
type Entry struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Source 名稱的來源層級
type Source string

const (
	SourceDatabase  Source = "database"
	SourceGenerated Source = "generated"
	SourceFallback  Source = "fallback"
	SourceBatch     Source = "batch"
)

// Result 解析結果
type Result struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Source      Source `json:"source"`
}

// 空食材清單時的固定結果
const (
	MysteryName        = "Mystery Dish"
	MysteryDescription = "Nobody is quite sure what went into this, but it is edible."
)

// Mystery 回傳固定的神秘菜名
func Mystery() Result {
	return Result{Name: MysteryName, Description: MysteryDescription, Source: SourceFallback}
}

// IDs 取出食材 ID 清單
func IDs(ingredients []Ingredient) []string {
	ids := make([]string, 0, len(ingredients))
	for _, ing := range ingredients {
		ids = append(ids, ing.ID)
	}
	return ids
}

// FromIDs 由 ID 建立無標籤的食材清單
func FromIDs(ids ...string) []Ingredient {
	out := make([]Ingredient, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		out = append(out, Ingredient{ID: id})
	}
	return out
}
