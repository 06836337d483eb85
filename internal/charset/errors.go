package charset

import "fmt"

// UnsupportedEncodingError reports an encoding name or value that is not in
// the registry.
type UnsupportedEncodingError struct {
	Name string
}

func (e *UnsupportedEncodingError) Error() string {
	return fmt.Sprintf("unsupported encoding %q", e.Name)
}
