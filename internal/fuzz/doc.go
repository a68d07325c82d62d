// Package fuzztests houses Go fuzz harnesses for the early chert
// pipeline (source -> lexer -> parser). The goal is robustness on
// arbitrary input: no panics, no hangs, spans that stay inside the
// file.
package fuzztests
