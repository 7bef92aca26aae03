// Package engine wires together the tracer's storage and dispatch
// subsystems into a single lifecycle-managed unit.
//
// The engine coordinates:
//   - RotDir/RotRec: the rotating on-disk record stream
//   - ListFile (x2): the codepoint table and the sparse time index
//   - Interner: object identity to codepoint resolution
//   - Tracer: per-event record encoding
//   - HookDispatcher: ignore-flag filtering and fork detection
//
// It implements thread-safe lifecycle management with atomic operations
// for state tracking, the same CAS-guarded close pattern used throughout
// this module's ancestry.
package engine

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/iamNilotpal/passover/internal/clock"
	"github.com/iamNilotpal/passover/internal/hook"
	"github.com/iamNilotpal/passover/internal/interner"
	"github.com/iamNilotpal/passover/internal/inttable"
	"github.com/iamNilotpal/passover/internal/listfile"
	"github.com/iamNilotpal/passover/internal/packwriter"
	"github.com/iamNilotpal/passover/internal/rotdir"
	"github.com/iamNilotpal/passover/internal/rotrec"
	"github.com/iamNilotpal/passover/internal/tracer"
	"github.com/iamNilotpal/passover/pkg/options"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ErrEngineClosed is returned when attempting to perform operations on a closed engine.
var ErrEngineClosed = errors.New("operation failed: cannot access closed engine")

// Engine coordinates every subsystem a running tracer needs and manages
// their combined lifecycle. It is not safe to use concurrently from more
// than one goroutine; the host is expected to install one engine per
// tracing thread (§5).
type Engine struct {
	options *options.Options   // options contains all configuration parameters for the engine and its subsystems.
	log     *zap.SugaredLogger // log provides structured logging capabilities throughout the engine.
	closed  atomic.Bool        // closed is an atomic boolean that tracks the engine's lifecycle state.

	rotDir     *rotdir.RotDir
	rec        *rotrec.RotRec
	codepoints *listfile.ListFile
	timeIndex  *listfile.ListFile
	flags      *hook.FlagStore
	tracer     *tracer.Tracer
	dispatcher *hook.HookDispatcher
}

// Config holds all the parameters needed to initialize a new Engine instance.
type Config struct {
	Options *options.Options
	Logger  *zap.SugaredLogger
}

// New creates and initializes a new Engine instance with the provided
// configuration, assembling every subsystem the tracer needs. The hook
// dispatcher is created inactive; Start activates it.
func New(ctx context.Context, config *Config) (*Engine, error) {
	opts := config.Options
	log := config.Logger

	log.Infow(
		"Initializing tracer engine",
		"rootDir", opts.RootDir, "maxFiles", opts.MaxFiles, "filePrefix", opts.FilePrefix,
	)

	rotDir, err := rotdir.New(opts.RotatingFilesDir(), opts.MaxFiles, log)
	if err != nil {
		log.Errorw("Failed to initialize rotating directory", "error", err)
		return nil, err
	}

	rec, err := rotrec.New(rotDir, opts.FilePrefix, opts.FileDataSize, opts.MapSize, opts.MapAheadSize, log)
	if err != nil {
		log.Errorw("Failed to initialize rotating records file", "error", err)
		return nil, err
	}

	codepoints, err := listfile.Open(opts.CodepointsPath(), opts.MapSize, opts.MapAheadSize, log)
	if err != nil {
		log.Errorw("Failed to open codepoints list file", "error", err, "path", opts.CodepointsPath())
		return nil, err
	}

	timeIndex, err := listfile.Open(opts.TimeIndexPath(), opts.MapSize, opts.MapAheadSize, log)
	if err != nil {
		log.Errorw("Failed to open time-index list file", "error", err, "path", opts.TimeIndexPath())
		codepoints.Close()
		return nil, err
	}

	table := inttable.New(opts.InternerCapacity)
	cpScratch := packwriter.New(opts.PackWriterCapacity)
	in := interner.New(table, codepoints, cpScratch)

	clk, err := clock.New()
	if err != nil {
		log.Errorw("Failed to calibrate clock", "error", err)
		codepoints.Close()
		timeIndex.Close()
		return nil, err
	}

	tr := tracer.New(tracer.Config{
		Rec:           rec,
		Codepoints:    codepoints,
		TimeIndex:     timeIndex,
		RecWriter:     packwriter.New(opts.PackWriterCapacity),
		InternTable:   in,
		Clock:         clk,
		IndexInterval: opts.TimeIndexInterval,
	})

	flags := hook.NewFlagStore()
	dispatcher := hook.New(tr, flags)

	log.Infow("Tracer engine initialized successfully", "rootDir", opts.RootDir)

	return &Engine{
		options:    opts,
		log:        log,
		rotDir:     rotDir,
		rec:        rec,
		codepoints: codepoints,
		timeIndex:  timeIndex,
		flags:      flags,
		tracer:     tr,
		dispatcher: dispatcher,
	}, nil
}

// Dispatcher returns the engine's HookDispatcher, the entrypoint the
// binding layer forwards host profile-hook events through.
func (e *Engine) Dispatcher() *hook.HookDispatcher {
	return e.dispatcher
}

// Start activates the hook dispatcher, transitioning it from NEW to
// STARTED and capturing the pid fork detection compares against.
func (e *Engine) Start() error {
	e.log.Infow("Starting tracer engine")
	if err := e.dispatcher.Start(); err != nil {
		e.log.Errorw("Failed to start tracer engine", "error", err)
		return err
	}
	e.log.Infow("Tracer engine started")
	return nil
}

// StopTracing deactivates the hook dispatcher without releasing any of the
// engine's underlying files, so a caller can later inspect what was
// recorded before calling Close.
func (e *Engine) StopTracing() error {
	e.log.Infow("Stopping tracer engine")
	return e.dispatcher.Stop()
}

// Flags returns the engine's FlagStore, for registering per-function
// ignore flags before tracing begins.
func (e *Engine) Flags() *hook.FlagStore {
	return e.flags
}

// Close gracefully shuts down the engine and releases all associated
// resources: stopping the dispatcher, then releasing the records file and
// both list files, combining any failures.
func (e *Engine) Close() error {
	// Use atomic compare-and-swap to transition from open (false) to closed (true).
	// This operation is atomic and thread-safe, ensuring only one goroutine
	// can successfully close the engine.
	if !e.closed.CompareAndSwap(false, true) {
		return ErrEngineClosed
	}

	e.log.Infow("Closing tracer engine")

	var err error
	err = multierr.Append(err, e.dispatcher.Stop())
	err = multierr.Append(err, e.rec.Close())
	err = multierr.Append(err, e.codepoints.Close())
	err = multierr.Append(err, e.timeIndex.Close())

	if err != nil {
		e.log.Errorw("Tracer engine closed with errors", "error", err)
	} else {
		e.log.Infow("Tracer engine closed successfully")
	}
	return err
}
