// Package replay drives the emulation of native player code. A session
// owns one address space, one CPU and one shadow register file; it calls
// the player's init routine once and its tick routine once per frame,
// snapshotting the tracked chip state after every tick.
package replay

import (
	"errors"
	"fmt"

	"github.com/retroenv/chipripper/internal/bus"
	"github.com/retroenv/chipripper/internal/chip"
	"github.com/retroenv/chipripper/internal/cpu"
	"github.com/retroenv/chipripper/internal/cpu/m6502"
	"github.com/retroenv/chipripper/internal/cpu/z80"
	"github.com/retroenv/retrogolib/log"
)

// State of a session. Sessions only move forward: code is loaded and
// initialized once, then ticks advance until the caller stops.
type State int

// Session states.
const (
	StateIdle State = iota
	StateInitialized
	StateReplaying
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInitialized:
		return "initialized"
	case StateReplaying:
		return "replaying"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// CPUKind selects the instruction set of the replayed code.
type CPUKind string

// Supported instruction sets.
const (
	CPU6502 CPUKind = "6502"
	CPUZ80  CPUKind = "z80"
)

// Window is a memory-mapped chip register range. Writes inside the window
// are mirrored into the shadow register file.
type Window struct {
	Base uint16
	Size int
}

// PortMap describes how a port-driven chip is reached on the I/O bus.
// A port matches when port & Mask == Value, so partial address decoding
// can be expressed the way the hardware does it.
type PortMap struct {
	SelectMask  uint16
	SelectValue uint16
	DataMask    uint16
	DataValue   uint16
}

// ZXSpectrumPorts returns the AY port decode of the 128K ZX Spectrum:
// register select on $FFFD, data on $BFFD, with only two address lines
// actually decoded.
func ZXSpectrumPorts() *PortMap {
	return &PortMap{
		SelectMask:  0xC002,
		SelectValue: 0xC000,
		DataMask:    0xC002,
		DataValue:   0x8000,
	}
}

// Default clocks used to derive the cycle budget when none is given.
const (
	defaultClock6502 = 1789773
	defaultClockZ80  = 3546900

	defaultTickRate = 50

	// budgetFactor scales the nominal cycles per tick into the budget. A
	// well-behaved tick routine uses a fraction of one frame, the factor
	// leaves room for expensive init-style ticks without letting a
	// runaway loop stall the extraction.
	budgetFactor = 8
)

// Config describes one replay session.
type Config struct {
	// CPU selects the instruction set, CPU6502 when empty.
	CPU CPUKind

	// Tracker interprets the shadow register file. Required.
	Tracker chip.Tracker

	// Window mirrors memory-mapped chip writes, used by the 6502 chips.
	Window Window

	// Ports mirrors port-driven chip writes, used for the AY on Z80
	// machines. Takes effect only with the Z80 core.
	Ports *PortMap

	// InitAddr and TickAddr are the player entry points.
	InitAddr uint16
	TickAddr uint16

	// InitRegA preloads the accumulator before the init call, the common
	// way players select a subsong.
	InitRegA byte

	// TickRate is the native tick frequency in Hz, 50 when zero.
	TickRate int

	// ClockHz is the CPU clock, used to size the cycle budget. Defaults
	// to the NTSC 6502 or ZX Spectrum Z80 clock.
	ClockHz int

	// MaxCyclesPerTick overrides the derived cycle budget.
	MaxCyclesPerTick int

	// Trace enables per-instruction debug logging on cores that
	// support it.
	Trace bool
}

// Session replays player code and records one frame per tick.
type Session struct {
	cfg      Config
	logger   *log.Logger
	state    State
	space    *bus.AddressSpace
	cpu      cpu.CPU
	regs     chip.RegisterFile
	selected byte
	budget   int
	tick     int
	frames   []chip.Frame
}

// New builds a session from cfg. The address space, CPU and shadow
// register file are created here and owned exclusively by the session.
func New(cfg Config, logger *log.Logger) (*Session, error) {
	if cfg.Tracker == nil {
		return nil, errors.New("no tracker configured")
	}
	if cfg.CPU == "" {
		cfg.CPU = CPU6502
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = defaultTickRate
	}
	if cfg.ClockHz <= 0 {
		switch cfg.CPU {
		case CPUZ80:
			cfg.ClockHz = defaultClockZ80
		default:
			cfg.ClockHz = defaultClock6502
		}
	}

	s := &Session{
		cfg:    cfg,
		logger: logger,
		space:  bus.New(),
		regs:   make(chip.RegisterFile, cfg.Tracker.Registers()),
	}

	s.budget = cfg.MaxCyclesPerTick
	if s.budget <= 0 {
		s.budget = budgetFactor * cfg.ClockHz / cfg.TickRate
	}

	switch cfg.CPU {
	case CPU6502:
		c := m6502.New(s.space)
		if cfg.Trace {
			c.EnableTrace(logger)
		}
		s.cpu = c
	case CPUZ80:
		var ports cpu.PortBus
		if cfg.Ports != nil {
			ports = (*sessionPorts)(s)
		}
		s.cpu = z80.New(s.space, ports)
	default:
		return nil, fmt.Errorf("unsupported cpu kind %q", cfg.CPU)
	}

	if cfg.Window.Size > 0 {
		s.space.OnWrite(s.interceptWindow)
	}

	return s, nil
}

// Space exposes the session's address space for presetting memory the
// player expects, such as zero page vectors.
func (s *Session) Space() *bus.AddressSpace {
	return s.space
}

// State returns the current session state.
func (s *Session) State() State {
	return s.state
}

// CPU returns the session's emulator core, for callers that need to
// preset registers beyond what Config covers.
func (s *Session) CPU() cpu.CPU {
	return s.cpu
}

// Load copies code into the address space at loadAddr and runs the init
// routine once. The session moves from Idle to Initialized.
func (s *Session) Load(code []byte, loadAddr uint16) error {
	if s.state != StateIdle {
		return fmt.Errorf("load in state %s", s.state)
	}

	s.space.LoadBlock(loadAddr, code)
	s.cpu.Reset(0, initialStackPointer(s.cfg.CPU))
	if c, ok := s.cpu.(*m6502.CPU); ok {
		c.A = s.cfg.InitRegA
	}
	if c, ok := s.cpu.(*z80.CPU); ok {
		c.A = s.cfg.InitRegA
	}

	cycles := s.cpu.Call(s.cfg.InitAddr, s.budget)
	s.logger.Debug("init routine executed",
		log.Hex("addr", s.cfg.InitAddr),
		log.Int("cycles", cycles))
	if cycles >= s.budget {
		s.logger.Debug("init cycle budget expired, continuing with partial state")
	}

	s.state = StateInitialized
	return nil
}

// AdvanceTick runs the tick routine once and captures a frame snapshot.
// Budget expiry is not an error, the snapshot simply reflects whatever
// the routine managed to write.
func (s *Session) AdvanceTick() error {
	if s.state == StateIdle {
		return errors.New("advance tick before load")
	}

	cycles := s.cpu.Call(s.cfg.TickAddr, s.budget)
	if cycles >= s.budget {
		s.logger.Debug("tick cycle budget expired, truncating tick",
			log.Int("tick", s.tick),
			log.Int("cycles", cycles))
	}

	s.frames = append(s.frames, chip.Frame{
		Tick:   s.tick,
		Voices: s.cfg.Tracker.Voices(s.regs),
	})
	s.tick++
	s.state = StateReplaying
	return nil
}

// Frames returns the snapshots captured so far, one per tick, in order.
func (s *Session) Frames() []chip.Frame {
	return s.frames
}

// interceptWindow mirrors writes inside the chip window into the shadow
// register file.
func (s *Session) interceptWindow(addr uint16, value byte) {
	w := s.cfg.Window
	if addr >= w.Base && int(addr-w.Base) < w.Size {
		s.regs[addr-w.Base] = value
	}
}

func initialStackPointer(kind CPUKind) uint16 {
	if kind == CPUZ80 {
		return 0xF000
	}
	return 0xFF
}

// sessionPorts adapts the session to the Z80 port bus, implementing the
// select-then-data protocol of the AY interface.
type sessionPorts Session

// In serves data port reads from the shadow file so player code that
// read-modify-writes the mixer register sees its own state.
func (p *sessionPorts) In(port uint16) byte {
	s := (*Session)(p)
	m := s.cfg.Ports
	if port&m.DataMask == m.DataValue || port&m.SelectMask == m.SelectValue {
		return s.regs.Reg(int(s.selected))
	}
	return 0xFF
}

// Out latches the register number on the select port and stores data
// writes into the shadow file.
func (p *sessionPorts) Out(port uint16, value byte) {
	s := (*Session)(p)
	m := s.cfg.Ports
	switch {
	case port&m.SelectMask == m.SelectValue:
		s.selected = value & 0x0F
	case port&m.DataMask == m.DataValue:
		if int(s.selected) < len(s.regs) {
			s.regs[s.selected] = value
		}
	}
}
