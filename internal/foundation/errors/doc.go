// Package errors provides the classified error primitives used across simpledocs.
//
// Key features:
//   - ErrorCategory: broad classification (config, manifest, missing_file, render, ...)
//   - ErrorSeverity: impact level (fatal, error, warning, info)
//   - ClassifiedError: structured error with category, severity, and context
//   - ErrorBuilder: fluent API for creating classified errors
//   - CLIErrorAdapter: exit codes and user-facing messages for the CLI
//
// Example usage:
//
//	err := errors.WrapError(cause, errors.CategoryManifest, "parse toc manifest").
//		Fatal().
//		WithContext("path", tocPath).
//		Build()
package errors
