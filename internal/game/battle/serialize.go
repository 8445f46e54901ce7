package battle

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/vita-nex/autopvp/internal/model"
)

// Serial format: little-endian, an int32 version tag precedes the
// payload. Readers switch on the version and apply only the fields
// introduced at or before it, in increasing version order.
//
// Version history:
//
//	1 — id, name, state, phase deadline, schedule, timing, rules,
//	    variant name, teams with rosters
//	2 — category and description appended
const serialVersion int32 = 2

// Serialize encodes the battle in the current serial version.
func (b *Battle) Serialize() []byte {
	return b.serialize(serialVersion)
}

// serialize encodes the battle at a specific version.
// Kept separate so old-version streams stay testable.
func (b *Battle) serialize(version int32) []byte {
	b.mu.RLock()
	defer b.mu.RUnlock()

	w := newWriter()
	w.i32(version)

	// version >= 1
	w.i32(b.id)
	w.str(b.name)
	w.i32(int32(b.state.Load()))
	if b.phaseEnd.IsZero() {
		w.i64(0)
	} else {
		w.i64(b.phaseEnd.UnixMilli())
	}
	w.u16(b.schedule.Months)
	w.u8(b.schedule.Days)
	w.u32(b.schedule.Hours)
	w.i64(b.timing.PreparePeriod.Milliseconds())
	w.i64(b.timing.RunningPeriod.Milliseconds())
	w.i64(b.timing.EndedPeriod.Milliseconds())
	w.u32(b.rules.Flags())
	w.str(b.variant.Name())

	w.u8(uint8(len(b.teams)))
	for _, t := range b.teams {
		members := t.Members()
		w.str(t.Name())
		w.u16(t.Color())
		w.i32(int32(t.MinCapacity()))
		w.i32(int32(t.MaxCapacity()))
		w.u16(uint16(len(members)))
		for _, p := range members {
			w.u32(p.ObjectID())
			w.str(p.Name())
			w.bool(p.IsDead())
		}
	}

	if version >= 2 {
		w.str(b.category)
		w.str(b.description)
	}

	return w.bytes()
}

// Deserialize decodes a battle from its serialized form.
func Deserialize(data []byte) (*Battle, error) {
	r := &reader{buf: data}

	version := r.i32()
	if r.err != nil {
		return nil, fmt.Errorf("reading battle serial version: %w", r.err)
	}
	if version < 1 || version > serialVersion {
		return nil, fmt.Errorf("unsupported battle serial version %d", version)
	}

	b := &Battle{
		invites: make(map[uint32]*Team, 8),
	}

	// version >= 1
	b.id = r.i32()
	b.name = r.str()
	state := State(r.i32())
	phaseEnd := r.i64()
	b.schedule = Schedule{Months: r.u16(), Days: r.u8(), Hours: r.u32()}
	b.timing = Timing{
		PreparePeriod: time.Duration(r.i64()) * time.Millisecond,
		RunningPeriod: time.Duration(r.i64()) * time.Millisecond,
		EndedPeriod:   time.Duration(r.i64()) * time.Millisecond,
	}
	b.rules = RulesFromFlags(r.u32())
	b.variant = VariantByName(r.str())

	teamCount := int(r.u8())
	for ti := 0; ti < teamCount; ti++ {
		name := r.str()
		color := r.u16()
		minCap := int(r.i32())
		maxCap := int(r.i32())
		memberCount := int(r.u16())

		if r.err != nil {
			return nil, fmt.Errorf("decoding battle %q teams: %w", b.name, r.err)
		}

		t, err := NewTeam(name, minCap, maxCap, color)
		if err != nil {
			return nil, fmt.Errorf("decoding battle %q team %q: %w", b.name, name, err)
		}
		for mi := 0; mi < memberCount; mi++ {
			objectID := r.u32()
			memberName := r.str()
			dead := r.bool()
			if r.err != nil {
				return nil, fmt.Errorf("decoding battle %q roster: %w", b.name, r.err)
			}
			p := model.NewParticipant(objectID, memberName)
			p.SetDead(dead)
			if err := t.Add(p); err != nil {
				return nil, fmt.Errorf("decoding battle %q roster: %w", b.name, err)
			}
		}
		b.teams = append(b.teams, t)
	}

	if version >= 2 {
		b.category = r.str()
		b.description = r.str()
	}

	if r.err != nil {
		return nil, fmt.Errorf("decoding battle: %w", r.err)
	}

	if b.id <= 0 || b.name == "" {
		return nil, fmt.Errorf("decoding battle: %w", ErrConfiguration)
	}

	b.state.Store(int32(state))
	if state == StateDeleted {
		b.deleted.Store(true)
	}
	if phaseEnd != 0 {
		b.phaseEnd = time.UnixMilli(phaseEnd)
	}
	return b, nil
}

// --- little-endian stream helpers ---

type writer struct {
	buf []byte
}

func newWriter() *writer {
	return &writer{buf: make([]byte, 0, 256)}
}

func (w *writer) bytes() []byte { return w.buf }

func (w *writer) u8(v uint8)   { w.buf = append(w.buf, v) }
func (w *writer) u16(v uint16) { w.buf = binary.LittleEndian.AppendUint16(w.buf, v) }
func (w *writer) u32(v uint32) { w.buf = binary.LittleEndian.AppendUint32(w.buf, v) }
func (w *writer) i32(v int32)  { w.u32(uint32(v)) }
func (w *writer) i64(v int64)  { w.buf = binary.LittleEndian.AppendUint64(w.buf, uint64(v)) }

func (w *writer) bool(v bool) {
	if v {
		w.u8(1)
	} else {
		w.u8(0)
	}
}

func (w *writer) str(s string) {
	w.u16(uint16(len(s)))
	w.buf = append(w.buf, s...)
}

type reader struct {
	buf []byte
	off int
	err error
}

func (r *reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if r.off+n > len(r.buf) {
		r.err = fmt.Errorf("truncated stream at offset %d", r.off)
		return nil
	}
	out := r.buf[r.off : r.off+n]
	r.off += n
	return out
}

func (r *reader) u8() uint8 {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *reader) u16() uint16 {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

func (r *reader) u32() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (r *reader) i32() int32 { return int32(r.u32()) }

func (r *reader) i64() int64 {
	b := r.take(8)
	if b == nil {
		return 0
	}
	return int64(binary.LittleEndian.Uint64(b))
}

func (r *reader) bool() bool { return r.u8() != 0 }

func (r *reader) str() string {
	n := int(r.u16())
	b := r.take(n)
	if b == nil {
		return ""
	}
	return string(b)
}
