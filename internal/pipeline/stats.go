package pipeline

// Summary counts results by outcome.
type Summary struct {
	Total           int `json:"total" toml:"total" yaml:"total"`
	Converted       int `json:"converted" toml:"converted" yaml:"converted"`
	AlreadyTarget   int `json:"already_target" toml:"already_target" yaml:"already_target"`
	DetectionFailed int `json:"detection_failed" toml:"detection_failed" yaml:"detection_failed"`
	Unsupported     int `json:"unsupported" toml:"unsupported" yaml:"unsupported"`
	Failed          int `json:"failed" toml:"failed" yaml:"failed"`
	Pending         int `json:"pending" toml:"pending" yaml:"pending"`
}

func Summarize(results []FileResult) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		switch r.Status {
		case StatusConverted:
			s.Converted++
		case StatusAlreadyTargetEncoding:
			s.AlreadyTarget++
		case StatusDetectionFailed:
			s.DetectionFailed++
		case StatusUnsupportedEncoding:
			s.Unsupported++
		case StatusFailed:
			s.Failed++
		default:
			s.Pending++
		}
	}
	return s
}

// Skipped is the number of files left untouched without an error.
func (s Summary) Skipped() int {
	return s.AlreadyTarget + s.DetectionFailed + s.Unsupported
}
