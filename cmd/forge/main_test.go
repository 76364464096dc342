package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/rogpeppe/go-internal/testscript"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/forge/internal/app"
	"go.trai.ch/forge/internal/build"
	"go.trai.ch/forge/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestMain(m *testing.M) {
	testscript.Main(m, map[string]func(){
		"forge": main,
	})
}

func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata/script",
		Setup: func(env *testscript.Env) error {
			env.Setenv("NO_COLOR", "1")
			return nil
		},
		Cmds: map[string]func(ts *testscript.TestScript, neg bool, args []string){
			"touch-later": touchLater,
		},
	})
}

// touchLater moves the modification time of its arguments an hour into the future.
func touchLater(ts *testscript.TestScript, neg bool, args []string) {
	if neg || len(args) == 0 {
		ts.Fatalf("usage: touch-later file...")
	}
	later := time.Now().Add(time.Hour)
	for _, arg := range args {
		ts.Check(os.Chtimes(ts.MkAbs(arg), later, later))
	}
}

func newComponents(t *testing.T) (*app.Components, *mocks.MockConfigLoader, *mocks.MockLogger) {
	t.Helper()
	ctrl := gomock.NewController(t)

	mockLoader := mocks.NewMockConfigLoader(ctrl)
	mockLogger := mocks.NewMockLogger(ctrl)
	application := app.New(
		mockLoader,
		nil,
		nil,
		mocks.NewMockFileStater(ctrl),
		mocks.NewMockWatcher(ctrl),
		mockLogger,
	)

	return &app.Components{App: application, Logger: mockLogger}, mockLoader, mockLogger
}

func provide(components *app.Components) ComponentProvider {
	return func(_ context.Context) (*app.Components, func(), error) {
		return components, func() {}, nil
	}
}

// TestRun_Success verifies that the run function returns 0 when the command succeeds.
func TestRun_Success(t *testing.T) {
	components, _, _ := newComponents(t)

	stdout := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stdout, new(bytes.Buffer), provide(components))

	assert.Equal(t, 0, exitCode)
	assert.Contains(t, stdout.String(), "forge version "+build.Version)
}

// TestRun_InitializationError verifies that run returns 1 when component initialization fails.
func TestRun_InitializationError(t *testing.T) {
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, new(bytes.Buffer), stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

// TestRun_ExecutionError verifies that run logs the error and returns 1 when the command fails.
func TestRun_ExecutionError(t *testing.T) {
	components, mockLoader, mockLogger := newComponents(t)

	mockLoader.EXPECT().LoadFile("missing.yaml").Return(nil, os.ErrNotExist)
	mockLogger.EXPECT().Error(gomock.Any()).Times(1)

	exitCode := run(context.Background(), []string{"build", "--config", "missing.yaml"},
		new(bytes.Buffer), new(bytes.Buffer), provide(components))

	assert.Equal(t, 1, exitCode)
}

// TestRun_UnknownCommand verifies that usage errors are reported through the logger.
func TestRun_UnknownCommand(t *testing.T) {
	components, _, mockLogger := newComponents(t)
	mockLogger.EXPECT().Error(gomock.Any()).Times(1)

	exitCode := run(context.Background(), []string{"link"}, new(bytes.Buffer), new(bytes.Buffer), provide(components))
	assert.Equal(t, 1, exitCode)
}
