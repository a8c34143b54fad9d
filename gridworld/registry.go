package gridworld

import (
	"fmt"
	"sort"
	"strings"
)

const idPrefix = "Gridroboman-"
const idVersion = "-v0"

// name templates per kind, X and Y substituted by capitalized color names
var idTemplates = map[TaskKind]string{
	LiftX:         "Lift{X}",
	TouchX:        "Touch{X}",
	MoveXToCenter: "Move{X}ToCenter",
	MoveXToCorner: "Move{X}ToCorner",
	TouchXWithY:   "Touch{X}With{Y}",
	MoveXCloseToY: "Move{X}CloseTo{Y}",
	MoveXFarFromY: "Move{X}FarFrom{Y}",
	StackXOnY:     "Stack{X}On{Y}",
}

var registry = buildRegistry()

// BaseID is the registration name of a task kind, e.g. Gridroboman-LiftX-v0
func BaseID(k TaskKind) string {
	return idPrefix + k.String() + idVersion
}

// ID is the human-readable name of a fully parameterized task,
// e.g. Gridroboman-StackRedOnGreen-v0
func ID(t Task) string {
	name := strings.ReplaceAll(idTemplates[t.Kind], "{X}", capitalize(t.X.String()))
	name = strings.ReplaceAll(name, "{Y}", capitalize(t.Y.String()))
	return idPrefix + name + idVersion
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func buildRegistry() map[string]Task {
	out := make(map[string]Task)
	for _, k := range TaskKinds() {
		for x := ObjectIndex(0); x < NumObjects; x++ {
			if !k.NeedsY() {
				t := NewTask(k, x)
				out[ID(t)] = t
				continue
			}
			for y := ObjectIndex(0); y < NumObjects; y++ {
				if x == y {
					continue
				}
				t := Task{Kind: k, X: x, Y: y}
				out[ID(t)] = t
			}
		}
	}
	return out
}

// Tasks returns the IDs of every registered task, sorted
func Tasks() []string {
	out := make([]string, 0, len(registry))
	for id := range registry {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Lookup resolves a fully parameterized task ID
func Lookup(id string) (Task, error) {
	t, ok := registry[id]
	if !ok {
		return Task{}, fmt.Errorf("%w: %s", ErrUnknownTask, id)
	}
	return t, nil
}

// LookupWith resolves a base ID (Gridroboman-StackXOnY-v0) together with
// object names. y may be empty for tasks that only involve X.
func LookupWith(baseID, x, y string) (Task, error) {
	var kind TaskKind = -1
	for _, k := range TaskKinds() {
		if BaseID(k) == baseID {
			kind = k
			break
		}
	}
	if kind == -1 {
		return Task{}, fmt.Errorf("%w: %s", ErrUnknownTask, baseID)
	}
	xObj, err := ParseObject(x)
	if err != nil {
		return Task{}, err
	}
	yObj := NoObject
	if y != "" {
		if yObj, err = ParseObject(y); err != nil {
			return Task{}, err
		}
	}
	t := Task{Kind: kind, X: xObj, Y: yObj}
	if err := t.Validate(); err != nil {
		return Task{}, err
	}
	return t, nil
}

// Resolve accepts either form: a registered ID, or a base ID with objects
func Resolve(id, x, y string) (Task, error) {
	if t, err := Lookup(id); err == nil {
		return t, nil
	}
	return LookupWith(id, x, y)
}
