package assembler

import "fmt"

// AssemblyError is returned for any failure while lowering a translated
// Program to text: exhaustion of registers, an unknown result address, or
// an unrecognized datatype size.
type AssemblyError struct {
	Message string
}

func (e AssemblyError) Error() string {
	return fmt.Sprintf("💥 AssemblyError: %s", e.Message)
}

func assemblyErrorf(format string, args ...any) AssemblyError {
	return AssemblyError{Message: fmt.Sprintf(format, args...)}
}
