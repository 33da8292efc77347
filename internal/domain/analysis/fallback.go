package analysis

// ConfigurationFallback is returned for every valid idea when the live
// generator has no credentials.
func ConfigurationFallback() *Result {
	return &Result{
		SWOT: SWOT{
			Strengths:     []string{"AI Service Error: API Key missing or invalid."},
			Weaknesses:    []string{"Unable to perform SWOT analysis."},
			Opportunities: []string{"Check backend configuration."},
			Threats:       []string{"AI features are currently unavailable."},
		},
		MarketFit:             "AI Service Error: Could not generate market fit analysis. API Key missing or invalid.",
		CompetitorOverview:    "AI Service Error: Could not generate competitor overview. API Key missing or invalid.",
		RefinementSuggestions: []string{"Ensure the AI_API_KEY is correctly set in the environment of the backend."},
	}
}

// UpstreamFallback keeps the result shape complete after a failed upstream
// call and flags it with the failure description.
func UpstreamFallback(err error) *Result {
	msg := "An unexpected error occurred while communicating with the AI service."
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return &Result{
		SWOT: SWOT{
			Strengths:     []string{"AI Service Error: Could not process request."},
			Weaknesses:    []string{msg},
			Opportunities: []string{"Please try again later."},
			Threats:       []string{"If the problem persists, contact support."},
		},
		MarketFit:             "AI Service Error: " + msg,
		CompetitorOverview:    "AI Service Error: " + msg,
		RefinementSuggestions: []string{"Check the backend logs for more details."},
		Error:                 true,
		ErrorMessage:          msg,
	}
}
