/*
File    : mana/driver/build.go
*/
package driver

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/mana-lang/mana/emitter"
	"github.com/mana-lang/mana/manifest"
)

// cxxCompiler returns the configured C++ compiler (MANA_CXX, default c++).
func cxxCompiler() string {
	if cxx := os.Getenv("MANA_CXX"); cxx != "" {
		return cxx
	}
	return "c++"
}

// WriteEmitted writes the emitted C++ and the runtime header next to the
// source and returns the .cpp path.
func WriteEmitted(sourcePath, output string) (string, error) {
	dir := filepath.Dir(sourcePath)
	base := strings.TrimSuffix(filepath.Base(sourcePath), SourceExtension)
	cppPath := filepath.Join(dir, base+".cpp")

	if err := os.WriteFile(cppPath, []byte(output), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", cppPath, err)
	}
	runtimePath := filepath.Join(dir, emitter.RuntimeHeaderName)
	if err := os.WriteFile(runtimePath, []byte(emitter.RuntimeHeader), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", runtimePath, err)
	}
	return cppPath, nil
}

// Build compiles one source file to a native binary: emit the C++, then
// invoke the configured toolchain. The core never shells out; only this
// orchestration layer does.
func (d *Driver) Build(sourcePath, outPath string, testMode bool) (string, error) {
	result, err := d.Compile(sourcePath, testMode)
	if err != nil {
		return "", err
	}
	if d.Sink.HasErrors() {
		return "", fmt.Errorf("compilation failed with %d error(s)", d.Sink.ErrorCount())
	}

	cppPath, err := WriteEmitted(sourcePath, result.Output)
	if err != nil {
		return "", err
	}

	if outPath == "" {
		outPath = strings.TrimSuffix(cppPath, ".cpp")
	}
	cmd := exec.Command(cxxCompiler(), "-std=c++17", "-O2", "-o", outPath, cppPath)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("invoking %s: %w", cxxCompiler(), err)
	}
	return outPath, nil
}

// Run builds and executes one source file, returning the process exit
// code.
func (d *Driver) Run(sourcePath string, args []string) (int, error) {
	binary, err := d.Build(sourcePath, "", false)
	if err != nil {
		return 1, err
	}
	cmd := exec.Command(binary, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return exitErr.ExitCode(), nil
		}
		return 1, err
	}
	return 0, nil
}

// Test builds the file with the test-runner harness and executes it.
func (d *Driver) Test(sourcePath string) (int, error) {
	binary, err := d.Build(sourcePath, "", true)
	if err != nil {
		return 1, err
	}
	cmd := exec.Command(binary)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return exitErr.ExitCode(), nil
		}
		return 1, err
	}
	return 0, nil
}

// helloWorldSource is the scaffolded entry point of a new project.
const helloWorldSource = `module main

fn main() -> i32 {
    println("Hello from Mana!")
    return 0
}
`

// NewProject scaffolds a project: NAME/, package.toml, src/main.mana.
func NewProject(name string) error {
	if err := os.MkdirAll(filepath.Join(name, "src"), 0o755); err != nil {
		return fmt.Errorf("creating project directories: %w", err)
	}
	m := manifest.New(name)
	if err := m.Save(filepath.Join(name, manifest.FileName)); err != nil {
		return err
	}
	mainPath := filepath.Join(name, "src", "main"+SourceExtension)
	if err := os.WriteFile(mainPath, []byte(helloWorldSource), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", mainPath, err)
	}
	return nil
}
