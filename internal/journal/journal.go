// Package journal records what an effect engine did, in order, so a game
// can be audited or compared against a replay.
package journal

import (
	"encoding/hex"
	"strconv"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/udisondev/l5rgo/internal/effect"
	"github.com/udisondev/l5rgo/internal/game"
)

// Op is the kind of change an entry records.
type Op string

const (
	OpActivate Op = "activate"
	OpApply    Op = "apply"
	OpUnapply  Op = "unapply"
	OpExpire   Op = "expire"
)

// Entry is one engine notification. InstanceSeq is the activation order of
// the instance within its engine.
type Entry struct {
	Seq         int       `json:"seq"`
	Op          Op        `json:"op"`
	Instance    string    `json:"instance"`
	InstanceSeq uint64    `json:"instance_seq"`
	Kind        string    `json:"kind"`
	Source      string    `json:"source"`
	Target      string    `json:"target,omitempty"`
	Scope       string    `json:"scope,omitempty"`
	At          time.Time `json:"at"`
}

// Journal is an effect.Observer that keeps every notification. Like the
// engine it observes it is not safe for concurrent use.
type Journal struct {
	GameID  string
	entries []Entry
	now     func() time.Time
}

// New creates an empty journal for game gameID.
func New(gameID string) *Journal {
	return &Journal{GameID: gameID, now: time.Now}
}

func (j *Journal) record(op Op, inst *effect.Instance, target game.Entity) {
	e := Entry{
		Seq:         len(j.entries) + 1,
		Op:          op,
		Instance:    inst.ID(),
		InstanceSeq: inst.Seq(),
		Kind:        inst.Kind().String(),
		Source:      inst.Source().ID(),
		At:          j.now(),
	}
	if target != nil {
		e.Target = target.ID()
	}
	if op == OpActivate {
		e.Scope = inst.Scope().String()
	}
	j.entries = append(j.entries, e)
}

func (j *Journal) InstanceActivated(inst *effect.Instance) {
	j.record(OpActivate, inst, nil)
}

func (j *Journal) EffectApplied(inst *effect.Instance, target game.Entity) {
	j.record(OpApply, inst, target)
}

func (j *Journal) EffectUnapplied(inst *effect.Instance, target game.Entity) {
	j.record(OpUnapply, inst, target)
}

func (j *Journal) InstanceExpired(inst *effect.Instance) {
	j.record(OpExpire, inst, nil)
}

// Entries returns the recorded entries in order.
func (j *Journal) Entries() []Entry {
	out := make([]Entry, len(j.entries))
	copy(out, j.entries)
	return out
}

// Len returns the number of recorded entries.
func (j *Journal) Len() int { return len(j.entries) }

// Digest hashes the entries with BLAKE2b-256. Instance IDs and timestamps
// are left out, so two runs of the same activation history digest equal.
func (j *Journal) Digest() string {
	return Digest(j.entries)
}

// Digest hashes entries as Journal.Digest does.
func Digest(entries []Entry) string {
	h, _ := blake2b.New256(nil)
	for _, e := range entries {
		for _, field := range []string{
			strconv.Itoa(e.Seq),
			string(e.Op),
			strconv.FormatUint(e.InstanceSeq, 10),
			e.Kind,
			e.Source,
			e.Target,
			e.Scope,
		} {
			h.Write([]byte(field))
			h.Write([]byte{0})
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
