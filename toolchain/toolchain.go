// Package toolchain drives the external Darwin/arm64 toolchain: it hands
// assembled text to clang to produce an object file, links it with ld into
// a standalone executable, runs that executable, and forwards its exit
// code. Every temporary file it creates is removed on all exit paths.
package toolchain

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// CompileError is returned for any failure of the external toolchain
// itself (as opposed to a failure of the compiled program, which surfaces
// as an exit code, not an error).
type CompileError struct {
	Message string
}

func (e CompileError) Error() string {
	return fmt.Sprintf("💥 CompileError: %s", e.Message)
}

// Run assembles source with assembler, links it with linker, executes the
// result, and returns its exit code. outputName names the produced
// executable (conventionally the source file's name with its extension
// stripped). assembler and linker name the external tools to invoke —
// conventionally config.Config.Toolchain.Assembler/Linker ("clang"/"ld").
func Run(source, outputName, assembler, linker string) (int, error) {
	objectFile := filepath.Join(os.TempDir(), "armc-program.tmp.o")
	defer os.Remove(objectFile)

	if err := assembleObject(source, objectFile, assembler); err != nil {
		return 0, err
	}
	if err := link(objectFile, outputName, linker); err != nil {
		return 0, err
	}
	defer os.Remove(outputName)

	if err := os.Chmod(outputName, 0o755); err != nil {
		return 0, CompileError{Message: "Failed to set permissions for output file!"}
	}

	return execute(outputName)
}

func assembleObject(source, objectFile, assembler string) error {
	cmd := exec.Command(assembler, "-x", "assembler", "-o", objectFile, "-c", "-")
	cmd.Stdin = bytes.NewBufferString(source)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return CompileError{Message: fmt.Sprintf("`%s` command failed: %s", assembler, stderr.String())}
	}
	return nil
}

func link(objectFile, outputName, linker string) error {
	cmd := exec.Command(linker, objectFile, "-e", "main", "-arch", "arm64", "-o", outputName)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return CompileError{Message: fmt.Sprintf("`%s` command failed: %s", linker, stderr.String())}
	}
	return nil
}

func execute(outputName string) (int, error) {
	cmd := exec.Command(outputName)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		return exitErr.ExitCode(), nil
	}
	return 0, CompileError{Message: "Failed to execute the output file!"}
}
