package generator

import (
	"bytes"
	_ "embed"
	"fmt"
	"regexp"
	"strings"

	"dish-namer/internal/core/dish"
	"dish-namer/internal/core/namedb"
	"dish-namer/internal/pkg/common"

	"gopkg.in/yaml.v3"
)

//go:embed default_templates.yaml
var defaultTemplates []byte

// DefaultDocument 回傳內建的範本文件內容
func DefaultDocument() []byte {
	return bytes.Clone(defaultTemplates)
}

// Pool 單一分類範本池
type Pool string

const (
	PoolMeat    Pool = "Meat"
	PoolGrain   Pool = "Grain"
	PoolProduce Pool = "Produce"
	PoolMixed   Pool = "Mixed"
)

// PoolFor 分類對應的範本池
func PoolFor(c dish.Category) Pool {
	switch c {
	case dish.Meat:
		return PoolMeat
	case dish.Grain:
		return PoolGrain
	case dish.Vegetable, dish.Fruit:
		return PoolProduce
	default:
		return PoolMixed
	}
}

func parsePool(s string) (Pool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "meat":
		return PoolMeat, true
	case "grain":
		return PoolGrain, true
	case "produce", "vegetable", "fruit":
		return PoolProduce, true
	case "mixed", "other":
		return PoolMixed, true
	}
	return "", false
}

// Group 範本群組
type Group string

const (
	GroupSingle  Group = "SingleCategory"
	GroupDual    Group = "DualCategory"
	GroupMulti   Group = "MultiCategory"
	GroupGeneric Group = "Generic"
)

func parseGroup(s string) (Group, bool) {
	for _, g := range []Group{GroupSingle, GroupDual, GroupMulti, GroupGeneric} {
		if strings.EqualFold(string(g), strings.TrimSpace(s)) {
			return g, true
		}
	}
	return "", false
}

// TemplateSet 單一品質等級的範本
type TemplateSet struct {
	Single       map[Pool][]string
	Dual         []string
	Multi        []string
	Generic      []string
	Descriptions []string
}

func (s *TemplateSet) clone() *TemplateSet {
	out := &TemplateSet{
		Single:       make(map[Pool][]string, len(s.Single)),
		Dual:         s.Dual,
		Multi:        s.Multi,
		Generic:      s.Generic,
		Descriptions: s.Descriptions,
	}
	for k, v := range s.Single {
		out.Single[k] = v
	}
	return out
}

// Templates 各品質等級的範本
type Templates map[dish.Quality]*TemplateSet

// For 回傳指定品質的範本，未指定時使用 Simple
func (t Templates) For(q dish.Quality) *TemplateSet {
	if set, ok := t[q.OrSimple()]; ok {
		return set
	}
	return t[dish.QualitySimple]
}

var placeholderRE = regexp.MustCompile(`\[([a-z]+)\]`)

var knownPlaceholders = map[string]bool{
	"primary": true, "secondary": true, "ingredient": true, "ingredients": true,
	"meat": true, "vegetable": true, "grain": true, "egg": true, "dairy": true,
	"fruit": true, "fungus": true, "special": true,
}

func checkPattern(p string) error {
	if strings.TrimSpace(p) == "" {
		return fmt.Errorf("empty pattern")
	}
	for _, m := range placeholderRE.FindAllStringSubmatch(p, -1) {
		if !knownPlaceholders[m[1]] {
			return fmt.Errorf("unknown placeholder [%s] in %q", m[1], p)
		}
	}
	return nil
}

type templateDef struct {
	Quality  string   `json:"quality,omitempty" yaml:"quality,omitempty"`
	Group    string   `json:"group" yaml:"group"`
	Category string   `json:"category,omitempty" yaml:"category,omitempty"`
	Patterns []string `json:"patterns" yaml:"patterns"`
}

type descriptionDef struct {
	Quality  string   `json:"quality,omitempty" yaml:"quality,omitempty"`
	Patterns []string `json:"patterns" yaml:"patterns"`
}

type templateDocument struct {
	Templates    []templateDef    `json:"templates" yaml:"templates"`
	Descriptions []descriptionDef `json:"descriptions" yaml:"descriptions"`
}

// builtin 內建範本，DefaultTemplates 與文件覆寫都從這份開始
var builtin Templates

func init() {
	doc, err := decodeTemplateDocument(defaultTemplates, namedb.FormatYAML)
	if err != nil {
		panic(fmt.Sprintf("generator: invalid built-in templates: %v", err))
	}
	builtin = Templates{}
	for _, q := range dish.Qualities {
		builtin[q] = &TemplateSet{Single: make(map[Pool][]string)}
	}
	if errs := apply(builtin, doc); len(errs) > 0 {
		panic(fmt.Sprintf("generator: invalid built-in templates: %v", errs))
	}
}

// DefaultTemplates 回傳內建範本的副本
func DefaultTemplates() Templates {
	out := make(Templates, len(builtin))
	for q, set := range builtin {
		out[q] = set.clone()
	}
	return out
}

func decodeTemplateDocument(data []byte, format namedb.Format) (*templateDocument, error) {
	var doc templateDocument
	if len(bytes.TrimSpace(data)) == 0 {
		return &doc, nil
	}
	if format == namedb.FormatJSON {
		if err := common.ParseJSONBytes(data, &doc); err != nil {
			return nil, fmt.Errorf("parse json templates: %w", err)
		}
		return &doc, nil
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse yaml templates: %w", err)
	}
	return &doc, nil
}

// ParseTemplates 解析範本文件並覆寫內建範本；無效的群組保留內建值，錯誤逐筆回報
func ParseTemplates(data []byte, format namedb.Format) (Templates, []error) {
	out := DefaultTemplates()
	doc, err := decodeTemplateDocument(data, format)
	if err != nil {
		return out, []error{err}
	}
	return out, apply(out, doc)
}

func qualitiesFor(s string) ([]dish.Quality, error) {
	q, ok := dish.ParseQuality(s)
	if !ok {
		return nil, fmt.Errorf("unknown quality %q", s)
	}
	if q == dish.QualityNone {
		return dish.Qualities, nil
	}
	return []dish.Quality{q}, nil
}

func validPatterns(patterns []string) ([]string, error) {
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if err := checkPattern(p); err != nil {
			return nil, err
		}
		out = append(out, strings.TrimSpace(p))
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no patterns")
	}
	return out, nil
}

func apply(t Templates, doc *templateDocument) []error {
	var errs []error
	for i, def := range doc.Templates {
		qualities, err := qualitiesFor(def.Quality)
		if err != nil {
			errs = append(errs, fmt.Errorf("templates[%d]: %w", i, err))
			continue
		}
		group, ok := parseGroup(def.Group)
		if !ok {
			errs = append(errs, fmt.Errorf("templates[%d]: unknown group %q", i, def.Group))
			continue
		}
		patterns, err := validPatterns(def.Patterns)
		if err != nil {
			errs = append(errs, fmt.Errorf("templates[%d]: %w", i, err))
			continue
		}
		var pool Pool
		if group == GroupSingle {
			if pool, ok = parsePool(def.Category); !ok {
				errs = append(errs, fmt.Errorf("templates[%d]: unknown category %q", i, def.Category))
				continue
			}
		}
		for _, q := range qualities {
			set := t[q]
			switch group {
			case GroupSingle:
				set.Single[pool] = patterns
			case GroupDual:
				set.Dual = patterns
			case GroupMulti:
				set.Multi = patterns
			case GroupGeneric:
				set.Generic = patterns
			}
		}
	}

	for i, def := range doc.Descriptions {
		qualities, err := qualitiesFor(def.Quality)
		if err != nil {
			errs = append(errs, fmt.Errorf("descriptions[%d]: %w", i, err))
			continue
		}
		patterns, err := validPatterns(def.Patterns)
		if err != nil {
			errs = append(errs, fmt.Errorf("descriptions[%d]: %w", i, err))
			continue
		}
		for _, q := range qualities {
			t[q].Descriptions = patterns
		}
	}
	return errs
}
