package namedb

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"dish-namer/internal/core/dish"
	"dish-namer/internal/pkg/common"

	"gopkg.in/yaml.v3"
)

//go:embed default_dishes.yaml
var defaultDishes []byte

// DefaultDocument 回傳內建的預設菜名文件內容
func DefaultDocument() []byte {
	return bytes.Clone(defaultDishes)
}

// Format 文件格式
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFor 依副檔名判斷格式，預設為 YAML
func FormatFor(name string) Format {
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	if strings.EqualFold(path.Ext(name), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// DishDef 單一食材（可選品質）的菜名定義
type DishDef struct {
	Ingredient string       `json:"ingredient" yaml:"ingredient"`
	Quality    string       `json:"quality,omitempty" yaml:"quality,omitempty"`
	Entries    []dish.Entry `json:"entries" yaml:"entries"`
}

// ComboDef 2 或 3 種食材組合的菜名定義
type ComboDef struct {
	Ingredients []string     `json:"ingredients" yaml:"ingredients"`
	Entries     []dish.Entry `json:"entries" yaml:"entries"`
}

// Document 菜名撰寫文件
type Document struct {
	Dishes []DishDef  `json:"dishes" yaml:"dishes"`
	Combos []ComboDef `json:"combos" yaml:"combos"`
}

// EntryError 文件中某一筆定義的解析錯誤
type EntryError struct {
	Section string
	Index   int
	Err     error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("%s[%d]: %v", e.Section, e.Index, e.Err)
}

func (e *EntryError) Unwrap() error { return e.Err }

type yamlDocument struct {
	Dishes []yaml.Node `yaml:"dishes"`
	Combos []yaml.Node `yaml:"combos"`
}

type jsonDocument struct {
	Dishes []json.RawMessage `json:"dishes"`
	Combos []json.RawMessage `json:"combos"`
}

// ParseDocument 解析菜名文件。每筆定義獨立解碼，壞掉的定義會被略過並回報在 errs 中；
// 整份文件無法解析時回傳空文件與錯誤。
func ParseDocument(data []byte, format Format) (*Document, []error) {
	doc := &Document{}
	var errs []error

	if len(bytes.TrimSpace(data)) == 0 {
		return doc, nil
	}

	switch format {
	case FormatJSON:
		var raw jsonDocument
		if err := common.ParseJSONBytes(data, &raw); err != nil {
			return doc, []error{fmt.Errorf("parse json document: %w", err)}
		}
		for i, item := range raw.Dishes {
			var def DishDef
			if err := common.ParseJSONBytes(item, &def); err != nil {
				errs = append(errs, &EntryError{Section: "dishes", Index: i, Err: err})
				continue
			}
			doc.Dishes = append(doc.Dishes, def)
		}
		for i, item := range raw.Combos {
			var def ComboDef
			if err := common.ParseJSONBytes(item, &def); err != nil {
				errs = append(errs, &EntryError{Section: "combos", Index: i, Err: err})
				continue
			}
			doc.Combos = append(doc.Combos, def)
		}
	default:
		var raw yamlDocument
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return doc, []error{fmt.Errorf("parse yaml document: %w", err)}
		}
		for i := range raw.Dishes {
			var def DishDef
			if err := raw.Dishes[i].Decode(&def); err != nil {
				errs = append(errs, &EntryError{Section: "dishes", Index: i, Err: err})
				continue
			}
			doc.Dishes = append(doc.Dishes, def)
		}
		for i := range raw.Combos {
			var def ComboDef
			if err := raw.Combos[i].Decode(&def); err != nil {
				errs = append(errs, &EntryError{Section: "combos", Index: i, Err: err})
				continue
			}
			doc.Combos = append(doc.Combos, def)
		}
	}

	return doc, errs
}

// Marshal 將文件序列化為指定格式
func (d *Document) Marshal(format Format) ([]byte, error) {
	if format == FormatJSON {
		return json.MarshalIndent(d, "", "  ")
	}
	return yaml.Marshal(d)
}
