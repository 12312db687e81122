package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"muscript/internal/buildpipeline"
	"muscript/internal/diag"
	"muscript/internal/driver"
	"muscript/internal/project"
	"muscript/internal/source"
	"muscript/internal/token"
	"muscript/internal/ui"
)

type compileOutcome struct {
	result *driver.CompileResult
	err    error
}

// runCompileWithUI runs the compile in a goroutine and feeds its progress
// events into a Bubble Tea program on stdout.
func runCompileWithUI(ctx context.Context, title string, req *driver.CompileRequest) (*driver.CompileResult, error) {
	classes := req.Classes
	if len(classes) == 0 {
		classes = scanClasses(req.Manifest)
	}

	events := make(chan buildpipeline.Event, 256)
	outcomeCh := make(chan compileOutcome, 1)

	go func() {
		reqCopy := *req
		reqCopy.Progress = buildpipeline.ChannelSink{Ch: events}
		res, err := driver.Compile(ctx, &reqCopy)
		outcomeCh <- compileOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, classes, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}

// scanClasses lists the package's classes without parsing anything, so
// the progress view knows its rows up front.
func scanClasses(m *project.Manifest) []string {
	input := project.NewPackageInput(source.NewFileSet(), token.NewArena(), m, diag.NopReporter{}, 0)
	if err := input.Scan(); err != nil {
		return nil
	}
	return input.Classes()
}
