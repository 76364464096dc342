package telemetry_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/forge/internal/adapters/telemetry"
	"go.trai.ch/forge/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestBridge_OnEnd(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Debug(gomock.Cond(func(msg string) bool {
		return strings.HasPrefix(msg, "analyze took ")
	})).Times(1)

	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(telemetry.NewBridge(logger)))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	_, span := tp.Tracer("test").Start(context.Background(), "analyze")
	span.End()
}

func TestBridge_OnEndWithError(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Debug(gomock.Cond(func(msg string) bool {
		return strings.HasPrefix(msg, "group:cc failed after ") && strings.HasSuffix(msg, ": exit status 2")
	})).Times(1)

	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(telemetry.NewBridge(logger)))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	_, span := tp.Tracer("test").Start(context.Background(), "group:cc")
	span.RecordError(errors.New("exit status 2"))
	span.SetStatus(codes.Error, "exit status 2")
	span.End()
}

func TestBridge_NilLogger(t *testing.T) {
	bridge := telemetry.NewBridge(nil)

	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(bridge))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	_, span := tp.Tracer("test").Start(context.Background(), "plan")
	span.End()

	require.NoError(t, bridge.ForceFlush(context.Background()))
	require.NoError(t, bridge.Shutdown(context.Background()))
}

func TestSetup(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Debug(gomock.Cond(func(msg string) bool {
		return strings.HasPrefix(msg, "bid took ")
	})).Times(1)

	shutdown := telemetry.Setup(telemetry.NewBridge(logger))
	defer func() { require.NoError(t, shutdown(context.Background())) }()

	_, span := telemetry.NewOTelTracer("forge").Start(context.Background(), "bid")
	span.End()
}
