// Package extract orchestrates the replay workflow stages: it builds a
// session for the requested chip, replays the configured number of ticks
// and reduces the frame stream into note events.
package extract

import (
	"context"
	"fmt"

	"github.com/retroenv/chipripper/internal/chip"
	"github.com/retroenv/chipripper/internal/chip/apu"
	"github.com/retroenv/chipripper/internal/chip/ay"
	"github.com/retroenv/chipripper/internal/chip/pokey"
	"github.com/retroenv/chipripper/internal/chip/sid"
	"github.com/retroenv/chipripper/internal/options"
	"github.com/retroenv/chipripper/internal/reduce"
	"github.com/retroenv/chipripper/internal/replay"
	"github.com/retroenv/retrogolib/log"
)

// Defaults applied to zero-valued extraction fields.
const (
	defaultTicks      = 3000
	defaultTargetRows = 256

	// cancelCheckInterval is the tick granularity at which an aborted
	// context stops the replay loop.
	cancelCheckInterval = 64
)

// Result of one extraction run.
type Result struct {
	Events []reduce.NoteEvent
	Rows   int
	Ticks  int
}

// Extractor runs extractions sharing one logger.
type Extractor struct {
	logger *log.Logger
}

// New creates a new extractor.
func New(logger *log.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// Run replays the code image and returns the reduced note events. A
// cancelled context stops the replay between ticks, the frames gathered
// so far are still reduced and returned with the context error.
func (e *Extractor) Run(ctx context.Context, extraction options.Extraction) (*Result, error) {
	cfg, err := sessionConfig(extraction)
	if err != nil {
		return nil, err
	}

	session, err := replay.New(cfg, e.logger)
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	if err := session.Load(extraction.Code, extraction.LoadAddr); err != nil {
		return nil, fmt.Errorf("loading code image: %w", err)
	}

	ticks := extraction.Ticks
	if ticks <= 0 {
		ticks = defaultTicks
	}
	targetRows := extraction.TargetRows
	if targetRows <= 0 {
		targetRows = defaultTargetRows
	}

	var ctxErr error
	for tick := 0; tick < ticks; tick++ {
		if tick%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				ctxErr = err
				break
			}
		}
		if err := session.AdvanceTick(); err != nil {
			return nil, fmt.Errorf("advancing tick %d: %w", tick, err)
		}
	}

	frames := session.Frames()
	events := reduce.Reduce(frames, targetRows)

	rows := len(frames)
	if rows > targetRows {
		rows = targetRows
	}

	e.logger.Debug("extraction finished",
		log.Int("ticks", len(frames)),
		log.Int("rows", rows),
		log.Int("events", len(events)))

	return &Result{
		Events: events,
		Rows:   rows,
		Ticks:  len(frames),
	}, ctxErr
}

// sessionConfig maps a chip name to its tracker, CPU and bus wiring. The
// 6502 chips are memory mapped at their native base addresses, the AY is
// driven over the ZX Spectrum port pair.
func sessionConfig(extraction options.Extraction) (replay.Config, error) {
	cfg := replay.Config{
		InitAddr: extraction.InitAddr,
		TickAddr: extraction.TickAddr,
		InitRegA: extraction.Song,
		TickRate: extraction.TickRate,
		Trace:    extraction.Trace,
	}

	switch extraction.Chip {
	case "apu":
		cfg.CPU = replay.CPU6502
		cfg.Tracker = apu.New()
		cfg.Window = replay.Window{Base: 0x4000, Size: apu.WindowSize}
	case "sid":
		cfg.CPU = replay.CPU6502
		cfg.Tracker = sid.New()
		cfg.Window = replay.Window{Base: 0xD400, Size: sid.WindowSize}
	case "pokey":
		cfg.CPU = replay.CPU6502
		cfg.Tracker = pokey.New()
		cfg.Window = replay.Window{Base: 0xD200, Size: pokey.WindowSize}
	case "ay":
		cfg.CPU = replay.CPUZ80
		cfg.Tracker = ay.New()
		cfg.Ports = replay.ZXSpectrumPorts()
	default:
		return replay.Config{}, fmt.Errorf("unsupported chip: %s", extraction.Chip)
	}
	return cfg, nil
}

// ChannelCount returns the number of channels the chip exposes, for
// consumers sizing their pattern output.
func ChannelCount(chipName string) (int, error) {
	var tracker chip.Tracker
	switch chipName {
	case "apu":
		tracker = apu.New()
	case "sid":
		tracker = sid.New()
	case "pokey":
		tracker = pokey.New()
	case "ay":
		tracker = ay.New()
	default:
		return 0, fmt.Errorf("unsupported chip: %s", chipName)
	}
	return tracker.Channels(), nil
}
