package reconcile

// Shape describes what a record of one category looks like on the wire.
type Shape struct {
	// IsRecord reports whether an object is already a flat record.
	IsRecord func(map[string]any) bool
	// Grouped enables the "groups with nested records" layout.
	Grouped bool
	// Fields are top-level object fields that may hold the record list.
	Fields []string
}

// TaxonomyShape matches subtype payloads: flat records carry both a slug and
// a season, grouped payloads nest records under a subtypes-like field.
var TaxonomyShape = Shape{
	IsRecord: func(m map[string]any) bool {
		return isString(m["slug"]) && isString(m["season"])
	},
	Grouped: true,
	Fields:  []string{"subtypes", "seasons", "records", "items"},
}

// VocabularyShape matches term payloads for a category whose plural
// (e.g. "colors") may also be used as the wrapping field.
func VocabularyShape(plural string) Shape {
	return Shape{
		IsRecord: func(m map[string]any) bool {
			return isString(m["term"]) || isString(m["slug"]) || isString(m["name"])
		},
		Fields: []string{plural, "terms", "records", "items"},
	}
}

var (
	groupKeys    = []string{"subtypes", "sub_types", "types", "children"}
	envelopeKeys = []string{"data", "result", "results", "payload", "body"}
)

// maxEnvelopeDepth bounds how many envelope objects are unwrapped.
const maxEnvelopeDepth = 1

type matcher func(v any, s Shape, depth int) ([]map[string]any, bool)

// chain is evaluated in order; the first matcher that recognizes the
// payload wins. It is filled in init because matchEnvelope recurses into
// detect, which ranges over chain.
var chain []matcher

func init() {
	chain = []matcher{
		matchFlat,
		matchGrouped,
		matchRecordField,
		matchEnvelope,
	}
}

// Detect extracts a flat list of records from an arbitrary decoded JSON
// payload. ok is false when no known layout matches. Detect never panics.
func Detect(payload any, s Shape) (records []map[string]any, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			records, ok = nil, false
		}
	}()
	return detect(payload, s, 0)
}

func detect(v any, s Shape, depth int) ([]map[string]any, bool) {
	if v == nil {
		return nil, false
	}
	for _, m := range chain {
		if recs, ok := m(v, s, depth); ok {
			return recs, true
		}
	}
	return nil, false
}

func firstObject(v any) ([]any, map[string]any, bool) {
	arr, ok := v.([]any)
	if !ok || len(arr) == 0 {
		return nil, nil, false
	}
	first, ok := arr[0].(map[string]any)
	return arr, first, ok
}

func matchFlat(v any, s Shape, _ int) ([]map[string]any, bool) {
	arr, first, ok := firstObject(v)
	if !ok || s.IsRecord == nil || !s.IsRecord(first) {
		return nil, false
	}
	out := make([]map[string]any, 0, len(arr))
	for _, el := range arr {
		if m, ok := el.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out, true
}

func matchGrouped(v any, s Shape, _ int) ([]map[string]any, bool) {
	if !s.Grouped {
		return nil, false
	}
	arr, first, ok := firstObject(v)
	if !ok {
		return nil, false
	}
	if _, ok := groupChildren(first); !ok {
		return nil, false
	}

	var out []map[string]any
	for _, el := range arr {
		group, ok := el.(map[string]any)
		if !ok {
			continue
		}
		children, ok := groupChildren(group)
		if !ok {
			continue
		}
		parent := groupSeason(group)
		for _, c := range children {
			child, ok := c.(map[string]any)
			if !ok {
				continue
			}
			if !isNonEmptyString(child["season"]) && parent != "" {
				child = withField(child, "season", parent)
			}
			out = append(out, child)
		}
	}
	return out, true
}

func matchRecordField(v any, s Shape, depth int) ([]map[string]any, bool) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	for _, f := range s.Fields {
		val, ok := obj[f].([]any)
		if !ok {
			continue
		}
		if recs, ok := matchFlat(val, s, depth); ok {
			return recs, true
		}
		if recs, ok := matchGrouped(val, s, depth); ok {
			return recs, true
		}
	}
	return nil, false
}

func matchEnvelope(v any, s Shape, depth int) ([]map[string]any, bool) {
	obj, ok := v.(map[string]any)
	if !ok || depth >= maxEnvelopeDepth {
		return nil, false
	}
	for _, k := range envelopeKeys {
		inner, ok := obj[k]
		if !ok || inner == nil {
			continue
		}
		if recs, ok := detect(inner, s, depth+1); ok {
			return recs, true
		}
	}
	return nil, false
}

func groupChildren(group map[string]any) ([]any, bool) {
	for _, k := range groupKeys {
		if arr, ok := group[k].([]any); ok {
			return arr, true
		}
	}
	return nil, false
}

// groupSeason picks the identifier a group lends to children without a season.
func groupSeason(group map[string]any) string {
	for _, k := range []string{"season", "name", "slug", "id"} {
		if s, ok := group[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// withField returns a shallow copy of m with key set; the payload is not mutated.
func withField(m map[string]any, key string, val any) map[string]any {
	out := make(map[string]any, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	out[key] = val
	return out
}

func isString(v any) bool {
	_, ok := v.(string)
	return ok
}

func isNonEmptyString(v any) bool {
	s, ok := v.(string)
	return ok && s != ""
}
