package shader

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptySource is returned when a stage source file is missing or empty.
var ErrEmptySource = errors.New("empty shader source")

// CompileError carries the compiler log of a stage that failed to compile.
type CompileError struct {
	Stage string
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s shader compilation failed: %s", e.Stage, strings.TrimSpace(e.Log))
}

// LinkError carries the linker log of a program that failed to link.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("program link failed: %s", strings.TrimSpace(e.Log))
}
