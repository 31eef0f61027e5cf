package constants

import "time"

// Section tags of the unified content source.
const (
	SectionProjectMeta        = "PROJECT_META"
	SectionDefaultSegments    = "DEFAULT_SEGMENTS"
	SectionAdFormats          = "AD_FORMATS"
	SectionSampleInput1       = "SAMPLE_INPUT_1"
	SectionSampleInput2       = "SAMPLE_INPUT_2"
	SectionSampleOutput1JSON  = "SAMPLE_OUTPUT_1_JSON"
	SectionSampleOutput2JSON  = "SAMPLE_OUTPUT_2_JSON"
	SectionDemoScript         = "DEMO_SCRIPT"
	SectionSlides             = "SLIDES"
	SectionSubmissionAnswers  = "SUBMISSION_ANSWERS_MD"
	SectionPitchOnePager      = "PITCH_1PAGER_MD"
	SectionConstraintsLibrary = "CONSTRAINTS_LIBRARY"
)

// RequiredSections must be present and non-blank for sync to proceed.
var RequiredSections = []string{
	SectionProjectMeta,
	SectionDefaultSegments,
	SectionAdFormats,
	SectionSampleInput1,
	SectionSampleInput2,
	SectionSampleOutput1JSON,
	SectionSampleOutput2JSON,
	SectionDemoScript,
	SectionSlides,
	SectionSubmissionAnswers,
	SectionPitchOnePager,
}

var CatalogMinimums = struct {
	Segments int
	Formats  int
	Slides   int
}{
	Segments: 7,
	Formats:  4,
	Slides:   12,
}

// Paths of derived files, relative to the output root.
var DerivedPaths = struct {
	Segments      string
	Formats       string
	SampleInput1  string
	SampleInput2  string
	SampleOutput1 string
	SampleOutput2 string
	DemoScript    string
	Answers       string
	Pitch         string
	DeckConfig    string
	Constraints   string
}{
	Segments:      "segments/default_segments_ru.json",
	Formats:       "formats/ad_formats_ru.json",
	SampleInput1:  "samples/sample_input_1_ru.txt",
	SampleInput2:  "samples/sample_input_2_ru.txt",
	SampleOutput1: "samples/sample_output_1.json",
	SampleOutput2: "samples/sample_output_2.json",
	DemoScript:    "submission/demo_script.md",
	Answers:       "submission/answers.md",
	Pitch:         "submission/pitch_1pager.md",
	DeckConfig:    "deck/deck_config.json",
	Constraints:   "constraints/constraints_library_ru.json",
}

// MockPrimaryFormatID selects sample_output_1; every other format id gets sample_output_2.
const MockPrimaryFormatID = "yadirect_text"

var GenerationConfig = struct {
	MinSelectedSegments int
	DefaultLanguage     string
	DefaultVariants     int
	DefaultTimeout      time.Duration
	DefaultConcurrency  int
	RawPreviewLength    int
}{
	MinSelectedSegments: 3,
	DefaultLanguage:     "RU",
	DefaultVariants:     2,
	DefaultTimeout:      120 * time.Second,
	DefaultConcurrency:  4,
	RawPreviewLength:    200,
}

var HistoryConfig = struct {
	RedisKey      string
	RedisTTL      time.Duration
	DefaultLimit  int
	PostgresTable string
}{
	RedisKey:      "segcraft:runs:recent",
	RedisTTL:      7 * 24 * time.Hour,
	DefaultLimit:  50,
	PostgresTable: "generation_runs",
}

var ServerConfig = struct {
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
}{
	ReadHeaderTimeout: 10 * time.Second,
	ShutdownTimeout:   10 * time.Second,
}

var SyncConfig = struct {
	WriteConcurrency int
}{
	WriteConcurrency: 4,
}

// CircuitBreakerConfig guards the live model client.
var CircuitBreakerConfig = struct {
	FailureThreshold int
	ResetTimeout     time.Duration
}{
	FailureThreshold: 3,
	ResetTimeout:     60 * time.Second,
}
