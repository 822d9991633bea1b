package compiler

// Config holds the settings of a Compiler.
type Config struct {
	// Workers bounds how many templates a sharded stage processes at once.
	// Values below 2 run every stage sequentially.
	Workers int
}

// Compiler runs the template compilation pipeline.
type Compiler struct {
	workers int
}

// New creates a Compiler from cfg.
func New(cfg Config) *Compiler {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	return &Compiler{workers: workers}
}
