// Package logger wraps zap for build console output:
//   - every line starts with the fixed [mkdevpkg] tag so it stands out
//     from the rest of the build output,
//   - the logger travels in a context (ToContext/FromContext),
//   - verbose mode lowers the level to debug.
package logger
