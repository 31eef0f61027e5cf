package prompt

type SegmentBlock struct {
	Name      string
	SegmentID string
	Who       string
	Pains     string
	Triggers  string
	Taboos    string
	ToneHint  string
	CTAStyle  string
}

type FormatBlock struct {
	FormatID       string
	Name           string
	HeadlineMax    string
	BodyMax        string
	Notes          string
	OutputTemplate string
}

type CaseBundleData struct {
	BaseText           string
	Context            string
	Language           string
	Tone               string
	Segments           []SegmentBlock
	Format             FormatBlock
	Constraints        []string
	VariantsPerSegment int
	VariabilityLevel   string
	SchemaHint         string
	RiskTypes          string
}

type RepairData struct {
	Cause   string
	RawText string
}
