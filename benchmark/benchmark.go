// Package benchmark wraps one tool invocation and reports its wall
// time and memory footprint, driven by the global -benchmark flag.
package benchmark

import (
	"fmt"
	"os"
	"runtime"
	"time"
)

const prefix = "[Benchmark]"

func line(format string, a ...any) {
	fmt.Printf(prefix+" "+format+"\n", a...)
}

func mb(bytes uint64) float64 {
	return float64(bytes) / 1024.0 / 1024.0
}

// Run executes f and prints resource usage around it. The environment
// snapshot goes first so a slow run is attributable even from a
// truncated log.
func Run(label string, f func()) {
	line("Running: %s", label)
	line("Timestamp: %s", time.Now().Format(time.RFC1123))
	if host, err := os.Hostname(); err == nil {
		line("Hostname: %s", host)
	}
	line("Go Version: %s", runtime.Version())
	line("OS/Arch: %s/%s", runtime.GOOS, runtime.GOARCH)

	// Settle the heap so the deltas below belong to f.
	runtime.GC()
	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	goroutinesBefore := runtime.NumGoroutine()
	start := time.Now()

	f()

	elapsed := time.Since(start)
	runtime.ReadMemStats(&after)

	line("Time Elapsed: %v", elapsed)
	line("Memory Used: %.2f MB", mb(after.Alloc-before.Alloc))
	line("Total Allocated: %.2f MB", mb(after.TotalAlloc-before.TotalAlloc))
	line("Peak Heap: %.2f MB", mb(after.HeapAlloc))
	line("GC Cycles: %d", after.NumGC-before.NumGC)
	line("CPU Cores: %d", runtime.NumCPU())
	line("Goroutines: %d before, %d after", goroutinesBefore, runtime.NumGoroutine())
	line("----------------------------------------")
}
