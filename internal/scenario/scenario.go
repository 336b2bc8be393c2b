// Package scenario replays scripted games against the effect engine. A
// scenario seats players, deals catalog cards to locations and then runs a
// list of steps, checking derived stats along the way.
package scenario

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidScenario is returned for a scenario that cannot be run as written.
	ErrInvalidScenario = errors.New("invalid scenario")
	// ErrExpectationFailed is returned when an expect step does not hold.
	ErrExpectationFailed = errors.New("expectation failed")
)

// Scenario is one scripted game.
type Scenario struct {
	Name    string       `yaml:"name"`
	Players []PlayerSpec `yaml:"players"`
	Cards   []CardSpec   `yaml:"cards"`
	Steps   []Step       `yaml:"steps"`

	// Path the scenario was loaded from, empty when parsed from memory.
	Path string `yaml:"-"`
}

type PlayerSpec struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// CardSpec deals a catalog card into the game under its own instance ID.
type CardSpec struct {
	ID       string `yaml:"id"`
	Card     string `yaml:"card"`
	Owner    string `yaml:"owner"`
	Location string `yaml:"location"`
	// Parent attaches the card to another card already dealt.
	Parent string `yaml:"parent"`
}

// Step is one scripted action. Exactly one field is set.
type Step struct {
	Activate      *ActivateStep `yaml:"activate"`
	Recalculate   bool          `yaml:"recalculate"`
	Expire        string        `yaml:"expire"`
	EndScope      string        `yaml:"end_scope"`
	Move          *MoveStep     `yaml:"move"`
	BreakProvince string        `yaml:"break_province"`
	Answer        *AnswerStep   `yaml:"answer"`
	Conflict      *ConflictStep `yaml:"conflict"`
	EndConflict   bool          `yaml:"end_conflict"`
	Reaction      *ReactionStep `yaml:"reaction"`
	Expect        *ExpectStep   `yaml:"expect"`
}

// ActivateStep registers a named effect. Targets fix the target set;
// without them Match selects in-play cards ("all", "province", "character",
// "controller:<player>").
type ActivateStep struct {
	Name    string   `yaml:"name"`
	Effect  string   `yaml:"effect"`
	Value   any      `yaml:"value"`
	Source  string   `yaml:"source"`
	Targets []string `yaml:"targets"`
	Match   string   `yaml:"match"`
	Scope   string   `yaml:"scope"`
}

type MoveStep struct {
	Card     string `yaml:"card"`
	Location string `yaml:"location"`
}

type AnswerStep struct {
	Player string `yaml:"player"`
	Choice int    `yaml:"choice"`
}

// ConflictStep declares a conflict and, when Winner is set, resolves it.
type ConflictStep struct {
	Type     string `yaml:"type"`
	Attacker string `yaml:"attacker"`
	Province string `yaml:"province"`
	Ring     string `yaml:"ring"`
	Winner   string `yaml:"winner"`
}

// ReactionStep resolves the reaction printed on Card. Choose maps slot
// names to card IDs; unlisted slots take the first candidate offered.
type ReactionStep struct {
	Card   string            `yaml:"card"`
	Choose map[string]string `yaml:"choose"`
	// Error, when set, is the text the resolution must fail with.
	Error string `yaml:"error"`
}

// ExpectStep checks one fact. Stat expectations read Card's Stat; the
// others compare the named field.
type ExpectStep struct {
	Card      string  `yaml:"card"`
	Stat      string  `yaml:"stat"`
	Value     *int    `yaml:"value"`
	Trait     string  `yaml:"trait"`
	Has       *bool   `yaml:"has"`
	Blank     *bool   `yaml:"blank"`
	Location  string  `yaml:"location"`
	Parent    *string `yaml:"parent"`
	Player    string  `yaml:"player"`
	Conflicts string  `yaml:"conflicts"`
	Message   string  `yaml:"message"`
	Winner    string  `yaml:"winner"`
	Instances *int    `yaml:"instances"`
}

// Parse decodes a scenario and checks its structure.
func Parse(raw []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode scenario: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads and parses the scenario at path. A scenario without a name is
// named after its file.
func Load(path string) (*Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario %s: %w", path, err)
	}
	s, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	s.Path = path
	if s.Name == "" {
		s.Name = filepath.Base(path)
	}
	return s, nil
}

// Glob returns the scenario files under dir, sorted by name.
func Glob(dir string) ([]string, error) {
	var paths []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		m, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("listing scenarios in %s: %w", dir, err)
		}
		paths = append(paths, m...)
	}
	slices.Sort(paths)
	return paths, nil
}

func (s *Scenario) validate() error {
	if len(s.Players) == 0 || len(s.Players) > 2 {
		return fmt.Errorf("%w: need one or two players, got %d", ErrInvalidScenario, len(s.Players))
	}
	ids := make(map[string]bool)
	for _, p := range s.Players {
		if p.ID == "" || ids[p.ID] {
			return fmt.Errorf("%w: player id %q empty or duplicated", ErrInvalidScenario, p.ID)
		}
		ids[p.ID] = true
	}
	for _, c := range s.Cards {
		if c.ID == "" || ids[c.ID] {
			return fmt.Errorf("%w: card id %q empty or duplicated", ErrInvalidScenario, c.ID)
		}
		ids[c.ID] = true
	}
	for i, st := range s.Steps {
		if n := st.actions(); n != 1 {
			return fmt.Errorf("%w: step %d sets %d actions", ErrInvalidScenario, i+1, n)
		}
	}
	return nil
}

func (st Step) actions() int {
	n := 0
	for _, set := range []bool{
		st.Activate != nil, st.Recalculate, st.Expire != "", st.EndScope != "",
		st.Move != nil, st.BreakProvince != "", st.Answer != nil, st.Conflict != nil,
		st.EndConflict, st.Reaction != nil, st.Expect != nil,
	} {
		if set {
			n++
		}
	}
	return n
}
