package generation

// Result is a generated design profile. It is immutable once produced and
// replaced wholesale when the quiz is taken again.
type Result struct {
	ProfileName  string `json:"profileName"`
	AnalysisText string `json:"analysisText"`
	ImageURL     string `json:"imageUrl"`
}

// FailureResult is shown whenever either generation branch fails.
var FailureResult = Result{
	ProfileName:  "Erro na Geração",
	AnalysisText: "Não foi possível conectar com a inteligência artificial. Por favor, verifique sua conexão ou a chave de API.",
	ImageURL:     "https://images.unsplash.com/photo-1586023492125-27b2c045efd7?auto=format&fit=crop&q=80&w=800",
}

// IsFailure reports whether r is the designated failure result.
func (r Result) IsFailure() bool {
	return r == FailureResult
}
