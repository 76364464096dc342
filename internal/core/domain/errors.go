package domain

import "go.trai.ch/zerr"

var (
	// ErrPCHPrototypeInvalid is returned when a declared precompiled header prototype is missing or is a directory.
	ErrPCHPrototypeInvalid = zerr.New("precompiled header prototype is missing or is a directory")

	// ErrUnclaimedSource is returned when no tool configuration bids for a file of a required collection.
	ErrUnclaimedSource = zerr.New("no tool configuration claims source file")

	// ErrOutputConflict is returned when two tool configurations compute the same output file.
	ErrOutputConflict = zerr.New("output file is produced by more than one tool configuration")

	// ErrDuplicateToolConfig is returned when a tool configuration name is registered twice.
	ErrDuplicateToolConfig = zerr.New("tool configuration already registered")

	// ErrUnknownToolConfig is returned when a collection restricts itself to a tool configuration that does not exist.
	ErrUnknownToolConfig = zerr.New("unknown tool configuration")

	// ErrInvalidToolKind is returned when a tool configuration declares an unsupported kind.
	ErrInvalidToolKind = zerr.New("invalid tool kind, expected compiler, assembler, librarian or pch")

	// ErrInvalidBidRule is returned when a bid rule has an invalid pattern or a non-positive bid.
	ErrInvalidBidRule = zerr.New("invalid bid rule")

	// ErrMissingCommand is returned when a tool configuration declares no command.
	ErrMissingCommand = zerr.New("tool configuration has no command")

	// ErrMissingToolName is returned when a tool configuration declares no name.
	ErrMissingToolName = zerr.New("tool configuration has no name")

	// ErrNoToolConfigs is returned when the build description declares no tool configurations.
	ErrNoToolConfigs = zerr.New("no tool configurations declared")

	// ErrStoreCreateFailed is returned when a cache directory cannot be created.
	ErrStoreCreateFailed = zerr.New("failed to create cache directory")

	// ErrStoreMarshalFailed is returned when a cache cannot be encoded.
	ErrStoreMarshalFailed = zerr.New("failed to encode cache")

	// ErrStoreWriteFailed is returned when a cache cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write cache")

	// ErrConfigReadFailed is returned when the build description cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the build description cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrConfigNotFound is returned when no build description can be found.
	ErrConfigNotFound = zerr.New("could not find forge.yaml")

	// ErrIncludeParseFailed is returned when a source file cannot be scanned for includes.
	ErrIncludeParseFailed = zerr.New("failed to parse includes")

	// ErrPathStatFailed is returned when stating a path fails.
	ErrPathStatFailed = zerr.New("failed to stat path")

	// ErrInputResolutionFailed is returned when a collection glob cannot be expanded.
	ErrInputResolutionFailed = zerr.New("failed to resolve inputs")

	// ErrBuildExecutionFailed is returned when the build execution fails.
	ErrBuildExecutionFailed = zerr.New("build execution failed")

	// ErrGroupFailed is returned when a tool invocation of a rebuild group fails.
	ErrGroupFailed = zerr.New("tool invocation failed")

	// ErrOutputDirCreateFailed is returned when the directory of an output file cannot be created.
	ErrOutputDirCreateFailed = zerr.New("failed to create output directory")

	// ErrWatcherStopped is returned when the file watcher stops while watch mode is running.
	ErrWatcherStopped = zerr.New("file watcher stopped unexpectedly")

	// ErrFailedToGetRoot is returned when the project root path cannot be determined.
	ErrFailedToGetRoot = zerr.New("failed to get absolute path of project root")
)
