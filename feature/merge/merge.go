package merge

import (
	"sort"
	"strings"

	"item-mirror/core/item"
)

const (
	DamageTypeKey         = "core.tooltip.stat_name.damage_type.direct"
	BulletDamageFactorKey = "stalker.artefact_properties.factor.bullet_dmg_factor"
	UpgradeStatsTitleKey  = "stalker.tooltip.armor_artefact.info.upgrade_stats"
)

// MatchKey returns the stat key merged for a category, or "" when the
// category is never merged.
func MatchKey(category string) string {
	switch {
	case strings.HasPrefix(category, "weapon"):
		return DamageTypeKey
	case strings.HasPrefix(category, "armor"):
		return BulletDamageFactorKey
	default:
		return ""
	}
}

// Contribution accumulates what canonical and variant records add to a merge.
type Contribution struct {
	// Values holds every collected value in discovery order, duplicates included.
	Values []float64
	// Locales maps a value to its per-locale display strings.
	Locales    map[float64]map[string]string
	NameColor  string
	ValueColor string
}

// Result is the outcome of merging one canonical item.
type Result struct {
	Item item.Item
	// Merged is false when the item had no matching element and was returned as is.
	Merged       bool
	Contribution Contribution
	// Targets locates the rewritten elements in Item.
	Targets []Target
}

// Target is the position of a stat element: block index, then element index.
type Target struct {
	Block   int
	Element int
}

// MergeOneItem returns canonical with every matching stat element rewritten to
// the merged value set. canonical and variants are not modified.
func MergeOneItem(canonical item.Item, variants []item.Item) item.Item {
	return Merge(canonical, variants).Item
}

// Merge is MergeOneItem with the collected contribution exposed.
func Merge(canonical item.Item, variants []item.Item) Result {
	key := MatchKey(canonical.Category)
	if key == "" {
		return Result{Item: canonical}
	}
	targets := findTargets(canonical, key)
	if len(targets) == 0 {
		return Result{Item: canonical}
	}

	acc := Contribution{Locales: make(map[float64]map[string]string)}
	acc.collect(canonical, targets)
	for _, v := range variants {
		acc.collect(v, findTargets(v, key))
	}

	merged := uniqSorted(acc.Values)
	return Result{
		Item:         rewrite(canonical, targets, merged, acc),
		Merged:       true,
		Contribution: acc,
		Targets:      targets,
	}
}

// findTargets locates numeric elements named by key, skipping upgrade deltas
// for the bullet damage factor.
func findTargets(it item.Item, key string) []Target {
	var targets []Target
	for bi, block := range it.InfoBlocks {
		if key == BulletDamageFactorKey && item.TranslationKey(item.BlockTitle(block)) == UpgradeStatsTitleKey {
			continue
		}
		for ei, el := range item.BlockElements(block) {
			switch el.(type) {
			case item.NumericElement, item.NumericVariantsElement:
				if item.TranslationKey(item.ElementName(el)) == key {
					targets = append(targets, Target{Block: bi, Element: ei})
				}
			}
		}
	}
	return targets
}

func (c *Contribution) collect(it item.Item, targets []Target) {
	for _, t := range targets {
		el := item.BlockElements(it.InfoBlocks[t.Block])[t.Element]

		var values []float64
		var style item.Style
		switch e := el.(type) {
		case item.NumericElement:
			values, style = []float64{e.Value}, e.Style
		case item.NumericVariantsElement:
			values, style = e.Value, e.Style
		default:
			continue
		}

		for _, v := range values {
			c.Values = append(c.Values, v)
			locales, ok := c.Locales[v]
			if !ok {
				locales = make(map[string]string)
				c.Locales[v] = locales
			}
			if style.Formatted == nil {
				continue
			}
			for loc, s := range style.Formatted.Value {
				if _, set := locales[loc]; !set {
					locales[loc] = s
				}
			}
		}

		if style.Formatted != nil {
			c.chooseColors(style.Formatted.NameColor, style.Formatted.ValueColor)
		}
		c.chooseColors(style.NameColor, style.ValueColor)
	}
}

func (c *Contribution) chooseColors(name, value string) {
	if c.NameColor == "" {
		c.NameColor = name
	}
	if c.ValueColor == "" {
		c.ValueColor = value
	}
}

func rewrite(canonical item.Item, targets []Target, merged []float64, acc Contribution) item.Item {
	out := canonical
	out.InfoBlocks = append([]item.InfoBlock(nil), canonical.InfoBlocks...)

	copied := make(map[int][]item.InfoElement)
	for _, t := range targets {
		elements, ok := copied[t.Block]
		if !ok {
			elements = append([]item.InfoElement(nil), item.BlockElements(out.InfoBlocks[t.Block])...)
			copied[t.Block] = elements
		}

		var name item.Message
		var style item.Style
		switch e := elements[t.Element].(type) {
		case item.NumericElement:
			name, style = e.Name, e.Style
		case item.NumericVariantsElement:
			name, style = e.Name, e.Style
		}

		if style.NameColor == "" {
			style.NameColor = acc.NameColor
		}
		if style.ValueColor == "" {
			style.ValueColor = acc.ValueColor
		}
		if style.Formatted != nil {
			f := *style.Formatted
			f.Value, f.NameColor, f.ValueColor = nil, "", ""
			style.Formatted = &f
			if f.IsEmpty() {
				style.Formatted = nil
			}
		}

		elements[t.Element] = item.NumericVariantsElement{
			Name:  name,
			Value: append([]float64(nil), merged...),
			Style: style,
		}
	}

	for bi, elements := range copied {
		out.InfoBlocks[bi] = item.WithElements(out.InfoBlocks[bi], elements)
	}
	return out
}

func uniqSorted(values []float64) []float64 {
	seen := make(map[float64]struct{}, len(values))
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Float64s(out)
	return out
}
