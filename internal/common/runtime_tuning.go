package common

import (
	"os"
	"runtime"
	"runtime/debug"

	"github.com/rs/zerolog/log"
)

// The engine is RPC bound: most time is spent waiting on eth_call, so the runtime only needs a
// memory ceiling and a moderate GC target.
const (
	DefaultGOGC = 200

	SmallServerMemLimit = 512 * 1024 * 1024      // 512MB
	LargeServerMemLimit = 2 * 1024 * 1024 * 1024 // 2GB
)

func detectServerProfile() (gogc int, memLimit int64) {
	if runtime.NumCPU() <= 2 {
		return DefaultGOGC, SmallServerMemLimit
	}
	return DefaultGOGC, LargeServerMemLimit
}

// InitRuntime applies GC settings unless GOGC or GOMEMLIMIT are set in the environment.
func InitRuntime() {
	defaultGOGC, defaultMemLimit := detectServerProfile()

	if gcPercent := os.Getenv("GOGC"); gcPercent == "" {
		debug.SetGCPercent(defaultGOGC)
		log.Info().Int("GOGC", defaultGOGC).Msg("[runtime] Set GOGC")
	}

	if memLimit := os.Getenv("GOMEMLIMIT"); memLimit == "" {
		debug.SetMemoryLimit(defaultMemLimit)
		log.Info().
			Int64("GOMEMLIMIT_bytes", defaultMemLimit).
			Float64("GOMEMLIMIT_MB", float64(defaultMemLimit)/1024/1024).
			Msg("[runtime] Set memory limit")
	}

	logRuntimeSettings()
}

// logRuntimeSettings logs current Go runtime configuration
func logRuntimeSettings() {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	log.Info().
		Int("num_cpu", runtime.NumCPU()).
		Int("gomaxprocs", runtime.GOMAXPROCS(0)).
		Uint64("heap_alloc_mb", memStats.HeapAlloc/1024/1024).
		Uint64("heap_sys_mb", memStats.HeapSys/1024/1024).
		Str("go_version", runtime.Version()).
		Msg("[runtime] Current runtime settings")
}
