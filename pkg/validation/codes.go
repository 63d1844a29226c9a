package validation

// Code describes the multiplicity context of an evaluated observation
// (1..3) or a terminal failure reason (90..95). Codes 1..3 are descriptive
// only; the boolean validity outcome lives in Result.IsValid.
type Code int

const (
	// Evaluated with no route-alternative context: exactly one candidate
	// row existed for its timestamp.
	CodeEvaluatedAlone Code = 1
	// A single alternative was selected although alternatives context exists.
	CodeSingleAlternative Code = 2
	// Multiple route alternatives were present at this timestamp.
	CodeMultipleAlternatives Code = 3

	CodeMissingRequiredFields Code = 90
	CodeNameParseFailure      Code = 91
	CodeLinkNotFound          Code = 92
	CodePolylineDecodeFailure Code = 93
	// Produced only by the completeness analyzer, never by the row validator.
	CodeMissingObservation Code = 94
	CodeNoData             Code = 95
)

func (c Code) IsFailure() bool {
	return c >= CodeMissingRequiredFields
}

func (c Code) String() string {
	switch c {
	case CodeEvaluatedAlone:
		return "evaluated alone"
	case CodeSingleAlternative:
		return "single alternative"
	case CodeMultipleAlternatives:
		return "multiple alternatives"
	case CodeMissingRequiredFields:
		return "required fields missing"
	case CodeNameParseFailure:
		return "name parse failure"
	case CodeLinkNotFound:
		return "link not in reference data"
	case CodePolylineDecodeFailure:
		return "polyline decode failure"
	case CodeMissingObservation:
		return "missing observation"
	case CodeNoData:
		return "no data"
	}
	return "unknown"
}

// multiplicityCode maps the number of rows sharing this observation's
// timestamp and the row's own alternative index to the descriptive code.
func multiplicityCode(groupSize, routeAlternative int) Code {
	switch {
	case groupSize > 1:
		return CodeMultipleAlternatives
	case routeAlternative > 1:
		return CodeSingleAlternative
	default:
		return CodeEvaluatedAlone
	}
}
