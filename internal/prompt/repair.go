package prompt

// BuildRepairPrompt asks the model to fix its previous answer, quoting the
// failure that rejected it.
func BuildRepairPrompt(cause error, rawText string) string {
	data := RepairData{RawText: rawText}
	if cause != nil {
		data.Cause = cause.Error()
	}
	rendered, err := DefaultPromptBuilder().Render(TemplateRepair, data)
	if err != nil {
		return FallbackRepair(data)
	}
	return rendered
}
