// Package engine wires the byte reader, string pool, file dispatcher,
// DWARF scanner, DIE registry, conflict analyzer, and task system into the
// two-barrier pipeline spec.md describes, matching
// original_source/src/orc.cpp's orc_process/orc_reset.
package engine

import (
	"os"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/blacktop/odrv/internal/conflict"
	"github.com/blacktop/odrv/internal/dwarfdie"
	"github.com/blacktop/odrv/internal/dwarfscan"
	"github.com/blacktop/odrv/internal/objfile"
	"github.com/blacktop/odrv/internal/registry"
	"github.com/blacktop/odrv/internal/strpool"
	"github.com/blacktop/odrv/internal/tasksystem"
)

// defaultAbbrevCacheSize bounds how many decoded abbreviation tables are
// held at once across every image in a run.
const defaultAbbrevCacheSize = 4096

// Stats mirrors registry.Stats plus the violation count, for the CLI's
// progress line and final summary.
type Stats struct {
	Processed     int64
	Analyzed      int64
	UniqueSymbols int64
	Violations    int64
}

// ProgressFunc is invoked after every registered batch, mirroring orc.cpp's
// update_progress callback.
type ProgressFunc func(Stats)

// Engine holds everything that needs to outlive a single file: the string
// pool, object-file registry, DIE registry, and abbreviation cache. A fresh
// Engine is the Go equivalent of orc_reset() — construct a new one instead
// of clearing static state.
type Engine struct {
	ParallelProcessing bool
	OnProgress         ProgressFunc

	pool     *strpool.Pool
	objects  *objfile.Registry
	dies     *registry.Registry
	abbrevs  *dwarfscan.Cache
	reportMu sync.Mutex
	reports  []conflict.Report

	violations atomic.Int64
}

// New constructs an Engine ready to process one run.
func New() *Engine {
	return &Engine{
		pool:               strpool.New(),
		objects:            objfile.NewRegistry(),
		dies:               registry.New(),
		abbrevs:            dwarfscan.NewCache(defaultAbbrevCacheSize),
		ParallelProcessing: true,
	}
}

// Run processes every path in paths and returns the sorted, deduplicated
// ODRV reports, matching orc_process's two stages: parse everything, wait;
// then enforce every chain, wait; then sort by symbol.
func (e *Engine) Run(paths []string) ([]conflict.Report, Stats, error) {
	workers := 0
	if !e.ParallelProcessing {
		workers = 1
	}
	parseSystem := tasksystem.New(workers)

	for _, p := range paths {
		path := p
		parseSystem.Submit(func() error {
			if _, err := os.Stat(path); err != nil {
				return errors.Wrapf(err, "file %s does not exist", path)
			}
			return e.parseOne(path)
		})
	}
	parseSystem.Wait()
	parseSystem.Close()

	analyzeSystem := tasksystem.New(workers)
	fetch := conflict.NewFetcher(e.objects, e.pool, e.abbrevs)
	ancestryOf := conflict.NewAncestryOf(e.objects)

	for hash, head := range e.dies.Snapshot() {
		hash, head := hash, head
		analyzeSystem.Submit(func() error {
			newHead, report := conflict.EnforceChain(head, ancestryOf, fetch)
			e.dies.Replace(hash, newHead)
			if report != nil {
				e.violations.Add(1)
				e.reportMu.Lock()
				e.reports = append(e.reports, *report)
				e.reportMu.Unlock()
			}
			return nil
		})
	}
	analyzeSystem.Wait()
	analyzeSystem.Close()

	sort.Slice(e.reports, func(i, j int) bool { return e.reports[i].Symbol < e.reports[j].Symbol })

	return e.reports, e.Stats(), nil
}

func (e *Engine) parseOne(path string) error {
	return objfile.ParseFile(e.objects, e.pool, path, dwarfdie.Ancestry{}, func(ofdIndex uint32, arch dwarfdie.Arch, sections *objfile.DWARFSections, ancestry dwarfdie.Ancestry) error {
		return dwarfscan.ScanImage(ofdIndex, arch, sections, e.pool, e.abbrevs, func(batch []dwarfdie.DIE) {
			e.dies.Insert(batch)
			if e.OnProgress != nil {
				e.OnProgress(e.Stats())
			}
		})
	})
}

// Stats reads the engine's run-wide counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Processed:     e.dies.Stats.DieProcessedCount.Load(),
		Analyzed:      e.dies.Stats.DieAnalyzedCount.Load(),
		UniqueSymbols: e.dies.Stats.UniqueSymbolCount.Load(),
		Violations:    e.violations.Load(),
	}
}
