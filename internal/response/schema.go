package response

type fieldKind int

const (
	kindString fieldKind = iota
	kindInteger
	kindCount
	kindStringList
	kindObject
	kindObjectList
)

func (k fieldKind) String() string {
	switch k {
	case kindString:
		return "a string"
	case kindInteger:
		return "an integer"
	case kindCount:
		return "a non-negative integer"
	case kindStringList:
		return "an array of strings"
	case kindObject:
		return "an object"
	case kindObjectList:
		return "an array of objects"
	default:
		return "unknown"
	}
}

type field struct {
	name     string
	kind     fieldKind
	required bool
	object   []field
}

func req(name string, kind fieldKind, object ...field) field {
	return field{name: name, kind: kind, required: true, object: object}
}

func opt(name string, kind fieldKind, object ...field) field {
	return field{name: name, kind: kind, object: object}
}

// responseSchema mirrors the wire shape of domain.Response. Optional lists
// default to empty and char_count is recomputed after decoding.
var responseSchema = []field{
	req("version", kindString),
	req("input_echo", kindObject,
		req("base_text", kindString),
		req("tone", kindString),
		req("format_id", kindString),
		req("variants_per_segment", kindInteger),
		opt("constraints", kindStringList),
		opt("assumptions", kindStringList),
	),
	opt("questions", kindObjectList,
		req("q", kindString),
		req("why", kindString),
		req("priority", kindString),
	),
	req("segments", kindObjectList,
		req("segment_id", kindString),
		req("segment_name", kindString),
		req("core_insight", kindString),
		req("trigger", kindString),
		req("angle", kindString),
		req("copies", kindObjectList,
			req("headline", kindString),
			req("body", kindString),
			req("cta", kindString),
			req("rationale", kindString),
			opt("char_count", kindObject,
				req("headline", kindCount),
				req("body", kindCount),
			),
			opt("risk_flags", kindObjectList,
				req("type", kindString),
				req("note", kindString),
				req("suggest_fix", kindString),
			),
		),
		req("differences_note", kindString),
	),
	opt("global_risks", kindObjectList,
		req("risk", kindString),
		req("impact", kindString),
		req("mitigation", kindString),
	),
	req("export_hints", kindObject,
		req("how_to_use", kindStringList),
		req("ab_test_suggestions", kindStringList),
	),
	req("exec_summary", kindObject,
		req("for_marketer", kindString),
		req("for_non_tech_manager", kindString),
	),
}
