package prompt

// SchemaHint is the literal response shape shown to the model.
const SchemaHint = `{
  "version": "string",
  "input_echo": {
    "base_text": "string",
    "tone": "friendly|neutral|formal|bold",
    "format_id": "string",
    "variants_per_segment": "number",
    "constraints": ["string"],
    "assumptions": ["string"]
  },
  "questions": [{"q": "string", "why": "string", "priority": "P0|P1|P2"}],
  "segments": [
    {
      "segment_id": "string",
      "segment_name": "string",
      "core_insight": "string",
      "trigger": "string",
      "angle": "string",
      "copies": [
        {
          "headline": "string",
          "body": "string",
          "cta": "string",
          "rationale": "string",
          "char_count": {"headline": "number", "body": "number"},
          "risk_flags": [{"type": "string", "note": "string", "suggest_fix": "string"}]
        }
      ],
      "differences_note": "string"
    }
  ],
  "global_risks": [{"risk": "string", "impact": "string", "mitigation": "string"}],
  "export_hints": {"how_to_use": ["string"], "ab_test_suggestions": ["string"]},
  "exec_summary": {"for_marketer": "string", "for_non_tech_manager": "string"}
}`
