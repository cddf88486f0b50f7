// Package namedb 菜名/描述資料庫：由撰寫文件建立的分層查詢表（單一食材、品質限定、2 種組合、3 種組合）。
package namedb

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"dish-namer/internal/core/dish"
	"dish-namer/internal/pkg/common"

	"go.uber.org/zap"
)

type pairKey [2]string

type tripleKey [3]string

// tables 一組唯讀查詢表，建立後不再修改
type tables struct {
	single  map[string][]dish.Entry
	folded  map[string]string
	quality map[string]map[dish.Quality][]dish.Entry
	pair    map[pairKey][]dish.Entry
	triple  map[tripleKey][]dish.Entry
}

// Stats 資料庫統計
type Stats struct {
	Single        int `json:"single"`
	QualityScoped int `json:"quality_scoped"`
	PairKeys      int `json:"pair_keys"`
	TripleKeys    int `json:"triple_keys"`
}

// Database 菜名資料庫。查詢表以 atomic 指標整組替換，
// 並行的查詢只會看到完整的舊表或完整的新表。
type Database struct {
	source Source
	mu     sync.Mutex
	tables atomic.Pointer[tables]
}

// New 由已解析的文件建立資料庫（不綁定來源，Reload 會回傳錯誤）
func New(doc *Document) *Database {
	db := &Database{}
	db.tables.Store(buildTables(doc))
	return db
}

// Open 從來源載入資料庫。來源讀取失敗時記錄警告並改用內建預設文件；
// 文件部分損壞時保留可解析的部分。
func Open(src Source) *Database {
	db := &Database{source: src}

	data, err := src.Read()
	if err != nil {
		common.LogWarn("Dish data source unavailable, using built-in defaults",
			zap.String("source", src.Name()),
			zap.Error(err),
		)
		data = DefaultDocument()
	}

	doc := parseAndLog(data, src.Format(), src.Name())
	db.tables.Store(buildTables(doc))

	common.LogInfo("菜名資料庫已載入",
		zap.String("source", src.Name()),
		zap.Any("stats", db.Stats()),
	)
	return db
}

// Reload 重新讀取來源並整組替換查詢表；來源讀取失敗時保留舊表並回傳錯誤
func (db *Database) Reload() error {
	if db.source == nil {
		return fmt.Errorf("reload: database has no source")
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	data, err := db.source.Read()
	if err != nil {
		return fmt.Errorf("reload %s: %w", db.source.Name(), err)
	}
	doc := parseAndLog(data, db.source.Format(), db.source.Name())
	db.tables.Store(buildTables(doc))

	common.LogInfo("Dish database reloaded",
		zap.String("source", db.source.Name()),
		zap.Any("stats", db.Stats()),
	)
	return nil
}

// Replace 以指定文件整組替換查詢表
func (db *Database) Replace(doc *Document) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.tables.Store(buildTables(doc))
}

func parseAndLog(data []byte, format Format, name string) *Document {
	doc, errs := ParseDocument(data, format)
	for _, err := range errs {
		common.LogWarn("Skipping malformed dish data",
			zap.String("source", name),
			zap.Error(err),
		)
	}
	return doc
}

// Stats 回傳目前查詢表的大小
func (db *Database) Stats() Stats {
	t := db.tables.Load()
	qualityScoped := 0
	for _, byQuality := range t.quality {
		qualityScoped += len(byQuality)
	}
	return Stats{
		Single:        len(t.single),
		QualityScoped: qualityScoped,
		PairKeys:      len(t.pair),
		TripleKeys:    len(t.triple),
	}
}

// Lookup 依食材數量分派查詢（重複的食材各自計數）。rng 決定多筆候選時的選擇；rng 為 nil 時取第一筆。
func (db *Database) Lookup(ingredients []dish.Ingredient, quality dish.Quality, rng *rand.Rand) (dish.Entry, bool) {
	t := db.tables.Load()

	switch len(ingredients) {
	case 1:
		return t.lookupSingle(ingredients[0], quality, rng)
	case 2:
		if list, ok := t.pair[pairKey{ingredients[0].ID, ingredients[1].ID}]; ok {
			return pick(list, rng), true
		}
		entry, ok := t.lookupSingle(ingredients[0], quality, rng)
		if !ok {
			return dish.Entry{}, false
		}
		return withSecond(entry, ingredients[1]), true
	case 3:
		if list, ok := t.triple[tripleKey{ingredients[0].ID, ingredients[1].ID, ingredients[2].ID}]; ok {
			return pick(list, rng), true
		}
	}
	return dish.Entry{}, false
}

func (t *tables) lookupSingle(ing dish.Ingredient, quality dish.Quality, rng *rand.Rand) (dish.Entry, bool) {
	if quality != dish.QualityNone {
		if list, ok := t.quality[ing.ID][quality]; ok {
			return pick(list, rng), true
		}
	}
	if list, ok := t.single[ing.ID]; ok {
		return pick(list, rng), true
	}
	if id, ok := t.folded[strings.ToLower(ing.ID)]; ok {
		return pick(t.single[id], rng), true
	}
	return dish.Entry{}, false
}

// withSecond 2 種食材組合未命中時，在第一種食材的結果後附加第二種食材
func withSecond(entry dish.Entry, second dish.Ingredient) dish.Entry {
	label := second.CleanLabel()
	if label == "" {
		return entry
	}
	entry.Name = entry.Name + " with " + label

	desc := strings.TrimSpace(entry.Description)
	if strings.HasSuffix(desc, ".") {
		entry.Description = strings.TrimSuffix(desc, ".") + " with " + label + "."
	} else {
		entry.Description = desc + " with " + label
	}
	return entry
}

func pick(list []dish.Entry, rng *rand.Rand) dish.Entry {
	if rng == nil || len(list) == 1 {
		return list[0]
	}
	return list[rng.IntN(len(list))]
}

// cleanEntries 移除空名稱並補上預設描述；回傳空切片代表不應建立鍵
func cleanEntries(entries []dish.Entry) []dish.Entry {
	out := make([]dish.Entry, 0, len(entries))
	for _, e := range entries {
		e.Name = strings.TrimSpace(e.Name)
		if e.Name == "" {
			continue
		}
		e.Description = strings.TrimSpace(e.Description)
		if e.Description == "" {
			e.Description = dish.DefaultDescription
		}
		out = append(out, e)
	}
	return out
}

func buildTables(doc *Document) *tables {
	t := &tables{
		single:  make(map[string][]dish.Entry),
		folded:  make(map[string]string),
		quality: make(map[string]map[dish.Quality][]dish.Entry),
		pair:    make(map[pairKey][]dish.Entry),
		triple:  make(map[tripleKey][]dish.Entry),
	}
	if doc == nil {
		return t
	}

	for _, def := range doc.Dishes {
		id := strings.TrimSpace(def.Ingredient)
		entries := cleanEntries(def.Entries)
		if id == "" || len(entries) == 0 {
			continue
		}
		quality, ok := dish.ParseQuality(def.Quality)
		if !ok {
			common.LogWarn("Unknown quality in dish data, entry skipped",
				zap.String("ingredient", id),
				zap.String("quality", def.Quality),
			)
			continue
		}
		if quality == dish.QualityNone {
			t.single[id] = append(t.single[id], entries...)
			continue
		}
		if t.quality[id] == nil {
			t.quality[id] = make(map[dish.Quality][]dish.Entry)
		}
		t.quality[id][quality] = append(t.quality[id][quality], entries...)
	}

	for id := range t.single {
		lower := strings.ToLower(id)
		if prev, ok := t.folded[lower]; !ok || id < prev {
			t.folded[lower] = id
		}
	}

	// 先以排序後的鍵累積，最後展開到所有排列，讓每個排列共用同一個切片
	pairs := make(map[pairKey][]dish.Entry)
	triples := make(map[tripleKey][]dish.Entry)
	for _, def := range doc.Combos {
		entries := cleanEntries(def.Entries)
		if len(entries) == 0 {
			continue
		}
		ids := make([]string, 0, len(def.Ingredients))
		for _, id := range def.Ingredients {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
		sort.Strings(ids)
		switch len(ids) {
		case 2:
			k := pairKey{ids[0], ids[1]}
			pairs[k] = append(pairs[k], entries...)
		case 3:
			k := tripleKey{ids[0], ids[1], ids[2]}
			triples[k] = append(triples[k], entries...)
		default:
			common.LogWarn("Combo must have 2 or 3 ingredients, entry skipped",
				zap.Strings("ingredients", def.Ingredients),
			)
		}
	}
	for k, list := range pairs {
		t.pair[k] = list
		t.pair[pairKey{k[1], k[0]}] = list
	}
	for k, list := range triples {
		for _, p := range permutations3(k) {
			t.triple[p] = list
		}
	}
	return t
}

func permutations3(k tripleKey) []tripleKey {
	a, b, c := k[0], k[1], k[2]
	return []tripleKey{
		{a, b, c}, {a, c, b},
		{b, a, c}, {b, c, a},
		{c, a, b}, {c, b, a},
	}
}
