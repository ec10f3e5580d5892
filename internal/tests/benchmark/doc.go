// Package benchmark measures capture, restore and backend throughput.
//
// The usual invocation:
//
//	go test -bench=. -benchmem ./internal/tests/benchmark/...
//
// Large-tree runs are gated behind -short=false and benefit from a
// longer -benchtime. For before/after comparisons collect repeated
// counts and feed them to benchstat:
//
//	go test -bench=. -benchmem -count=5 ./internal/tests/benchmark/... | tee new.txt
//	benchstat old.txt new.txt
package benchmark
