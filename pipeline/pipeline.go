// Package pipeline compiles multiple units front to back: parallel
// lexing and parsing, then dependency-ordered symbol resolution over
// the published type tables.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tealwasm/tlfront"
	"github.com/tealwasm/tlfront/parser"
	"github.com/tealwasm/tlfront/typeresolver"
)

// Sentinel errors
var (
	ErrDuplicateUnit     = errors.New("duplicate unit name")
	ErrUnknownDependency = errors.New("unknown dependency")
	ErrDependencyCycle   = errors.New("dependency cycle")
	ErrDependencyFailed  = errors.New("dependency failed")
)

// Unit is one compile input.
type Unit struct {
	Name         string
	Source       string
	Dependencies []string // names of units whose global declarations this unit uses
}

// UnitResult is the outcome for one unit.
type UnitResult struct {
	JobID       string // correlates diagnostics and the published table snapshot
	Unit        string
	Block       *parser.Block
	Table       *tlfront.TypeTable
	Diagnostics []typeresolver.Diagnostic
	Duration    time.Duration
	Err         error
}

// Summary is the outcome of one Compile run. Results keep the input
// order regardless of execution order.
type Summary struct {
	Total         int
	Succeeded     int
	Failed        int
	TotalDuration time.Duration
	Results       []UnitResult
}

// Options configures parallelism and per-unit limits.
type Options struct {
	Parallel  int // max units parsed concurrently
	MaxErrors int // per-unit diagnostic cap, resolver default when zero
}

// DefaultOptions returns the options used when NewCompiler receives
// nil.
func DefaultOptions() *Options {
	return &Options{
		Parallel: runtime.NumCPU(),
	}
}

// Compiler runs the front end over sets of units.
type Compiler struct {
	workerPool chan struct{} // semaphore
	options    *Options
}

// NewCompiler creates a compiler.
func NewCompiler(options *Options) *Compiler {
	if options == nil {
		options = DefaultOptions()
	}
	if options.Parallel <= 0 {
		options.Parallel = runtime.NumCPU()
	}
	return &Compiler{
		workerPool: make(chan struct{}, options.Parallel),
		options:    options,
	}
}

// Compile processes the units. Phase one tokenizes and parses every
// unit in parallel; units without dependencies are resolved in the same
// pass. Phase two resolves the remaining units in dependency order,
// feeding each one the already published tables. Per-unit failures land
// in the results, they never abort the other units.
func (c *Compiler) Compile(ctx context.Context, units []Unit) (*Summary, error) {
	summary := &Summary{
		Total:   len(units),
		Results: make([]UnitResult, len(units)),
	}
	start := time.Now()

	type indexed struct {
		index  int
		result UnitResult
	}
	results := make(chan indexed, len(units))

	var wg sync.WaitGroup
	for i, unit := range units {
		wg.Add(1)
		go func(i int, unit Unit) {
			defer wg.Done()
			results <- indexed{index: i, result: c.parseUnit(ctx, unit)}
		}(i, unit)
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	tables := make(map[string]*tlfront.TypeTable)
	seen := make(map[string]int)
	for r := range results {
		summary.Results[r.index] = r.result
	}
	for i := range summary.Results {
		res := &summary.Results[i]
		if prev, dup := seen[res.Unit]; dup {
			res.Err = fmt.Errorf("%w: %q also given as unit %d", ErrDuplicateUnit, res.Unit, prev+1)
			continue
		}
		seen[res.Unit] = i
		if res.Err == nil && res.Table != nil {
			tables[res.Unit] = res.Table
		}
	}

	c.resolveOrdered(ctx, units, summary.Results, tables)

	for _, res := range summary.Results {
		if res.Err == nil {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
	}
	summary.TotalDuration = time.Since(start)
	return summary, nil
}

// parseUnit tokenizes and parses one unit under the semaphore. Units
// without dependencies resolve immediately, their tables only need the
// unit itself.
func (c *Compiler) parseUnit(ctx context.Context, unit Unit) UnitResult {
	result := UnitResult{JobID: uuid.NewString(), Unit: unit.Name}

	select {
	case <-ctx.Done():
		result.Err = ctx.Err()
		return result
	default:
	}
	select {
	case c.workerPool <- struct{}{}:
		defer func() { <-c.workerPool }()
	case <-ctx.Done():
		result.Err = ctx.Err()
		return result
	}

	start := time.Now()
	block, err := parser.Parse(unit.Source)
	if err != nil {
		result.Duration = time.Since(start)
		result.Err = err
		return result
	}
	result.Block = block

	if len(unit.Dependencies) == 0 {
		result.Table, result.Diagnostics, result.Err = typeresolver.Resolve(block, typeresolver.Options{
			Unit:      unit.Name,
			MaxErrors: c.options.MaxErrors,
		})
	}
	result.Duration = time.Since(start)
	return result
}

// resolveOrdered runs the cross-unit barrier: the units that declare
// dependencies, in topological order over the declared edges.
func (c *Compiler) resolveOrdered(ctx context.Context, units []Unit, results []UnitResult, tables map[string]*tlfront.TypeTable) {
	index := make(map[string]int, len(units))
	for i, unit := range units {
		if results[i].Err == nil {
			index[unit.Name] = i
		}
	}

	// Kahn's walk in input order so the schedule is deterministic.
	indegree := make([]int, len(units))
	dependents := make([][]int, len(units))
	for i, unit := range units {
		if results[i].Err != nil {
			continue
		}
		for _, dep := range unit.Dependencies {
			j, known := index[dep]
			if !known {
				if hasUnit(units, dep) {
					// The dependency is in the batch but already failed.
					// The lookup in resolveUnit reports the cascade.
					continue
				}
				results[i].Err = fmt.Errorf("%w: %q", ErrUnknownDependency, dep)
				break
			}
			indegree[i]++
			dependents[j] = append(dependents[j], i)
		}
	}

	var queue []int
	for i := range units {
		if results[i].Err == nil && indegree[i] == 0 {
			queue = append(queue, i)
		}
	}

	done := make([]bool, len(units))
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		done[i] = true
		c.resolveUnit(ctx, units[i], &results[i], tables)
		for _, next := range dependents[i] {
			indegree[next]--
			if indegree[next] == 0 && results[next].Err == nil {
				queue = append(queue, next)
			}
		}
	}

	for i := range units {
		if results[i].Err == nil && !done[i] {
			// Never scheduled: the unit sits on a cycle or behind one.
			results[i].Err = fmt.Errorf("%w blocking unit %q", ErrDependencyCycle, units[i].Name)
		}
	}
}

func (c *Compiler) resolveUnit(ctx context.Context, unit Unit, result *UnitResult, tables map[string]*tlfront.TypeTable) {
	if result.Table != nil || len(unit.Dependencies) == 0 {
		return // resolved during the parse phase
	}
	if err := ctx.Err(); err != nil {
		result.Err = err
		return
	}

	deps := make([]*tlfront.TypeTable, 0, len(unit.Dependencies))
	for _, dep := range unit.Dependencies {
		table, ok := tables[dep]
		if !ok {
			result.Err = fmt.Errorf("%w: %q", ErrDependencyFailed, dep)
			return
		}
		deps = append(deps, table)
	}

	start := time.Now()
	result.Table, result.Diagnostics, result.Err = typeresolver.Resolve(result.Block, typeresolver.Options{
		Unit:         unit.Name,
		MaxErrors:    c.options.MaxErrors,
		Dependencies: deps,
	})
	result.Duration += time.Since(start)
	if result.Err == nil {
		tables[unit.Name] = result.Table
	}
}

func hasUnit(units []Unit, name string) bool {
	for _, unit := range units {
		if unit.Name == name {
			return true
		}
	}
	return false
}
