package barrier

import (
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/framegraph/alias"
	"github.com/vkngwrapper/framegraph/gpu"
)

// ErrUnknownAlias is returned when a pass requires an alias that was neither declared nor
// registered as external
var ErrUnknownAlias = errors.New("unknown alias")

// AliasSet is the resolved alias map a plan is compiled against
type AliasSet interface {
	Entry(alias alias.Alias) (alias.Entry, bool)
}

// Transition is the state change one requirement needs before its pass executes
type Transition struct {
	Alias    alias.Alias
	Type     alias.ResourceType
	Old      gpu.ResourceState
	New      gpu.ResourceState
	Range    core1_0.ImageSubresourceRange
	Indexing Indexing
	// First is set on the first transition of an alias within a frame. Its Old state is only the
	// build-time baseline and is replaced by the tracked state of the physical instance.
	First bool
}

// PassPlan is the ordered list of transitions emitted before one pass
type PassPlan struct {
	PassID      int
	Name        string
	Transitions []Transition
}

// Plan is the static barrier plan of a graph build. It is immutable once compiled.
type Plan struct {
	presentation alias.Alias
	passes       []PassPlan
	passIndex    map[int]int
	final        map[alias.Alias]gpu.ResourceState
	requirements int
}

func baseline(target alias.Alias, presentation alias.Alias) gpu.ResourceState {
	if target == presentation {
		return gpu.StatePresent
	}
	return gpu.StateUndefined
}

// Compile walks the passes in declaration order and emits exactly one transition per requirement
func Compile(logger *slog.Logger, passes []PassRequirements, aliases AliasSet, presentation alias.Alias) (*Plan, error) {
	logger.Debug("BarrierPlan::Compile", slog.Int("passes", len(passes)), slog.String("presentation", presentation.String()))

	plan := &Plan{
		presentation: presentation,
		passes:       make([]PassPlan, 0, len(passes)),
		passIndex:    make(map[int]int, len(passes)),
		final:        make(map[alias.Alias]gpu.ResourceState),
	}

	for _, pass := range passes {
		if _, duplicate := plan.passIndex[pass.PassID]; duplicate {
			return nil, errors.Newf("pass %s reuses pass id %d", pass.Name, pass.PassID)
		}

		passPlan := PassPlan{
			PassID:      pass.PassID,
			Name:        pass.Name,
			Transitions: make([]Transition, 0, len(pass.Requirements)),
		}

		for _, requirement := range pass.Requirements {
			entry, ok := aliases.Entry(requirement.Alias)
			if !ok {
				return nil, errors.Wrapf(ErrUnknownAlias, "pass %s requires %s", pass.Name, requirement.Alias)
			}
			if !requirement.Indexing.accepts(entry.Lifetime) {
				return nil, errors.Newf("pass %s indexes %s alias %s with %s", pass.Name, entry.Lifetime, requirement.Alias, requirement.Indexing)
			}

			old, seen := plan.final[requirement.Alias]
			if !seen {
				old = baseline(requirement.Alias, presentation)
			}

			aspect := requirement.Aspect
			if aspect == 0 {
				aspect = entry.Aspect
			}

			transition := Transition{
				Alias:    requirement.Alias,
				Type:     entry.Type,
				Old:      old,
				New:      requirement.State,
				Indexing: requirement.Indexing,
				First:    !seen,
			}
			if entry.Type == alias.TypeImage {
				transition.Range = gpu.WholeRange(aspect)
			}

			passPlan.Transitions = append(passPlan.Transitions, transition)
			plan.final[requirement.Alias] = requirement.State
			plan.requirements++
		}

		plan.passIndex[pass.PassID] = len(plan.passes)
		plan.passes = append(plan.passes, passPlan)
	}

	return plan, nil
}

// Presentation is the alias returned to the presentable state at the end of every frame
func (p *Plan) Presentation() alias.Alias {
	return p.presentation
}

// Passes returns the per-pass transitions in execution order
func (p *Plan) Passes() []PassPlan {
	return p.passes
}

// Pass returns the transitions of the pass with the provided id
func (p *Plan) Pass(id int) (PassPlan, bool) {
	index, ok := p.passIndex[id]
	if !ok {
		return PassPlan{}, false
	}
	return p.passes[index], true
}

// FinalState is the state an alias is left in after the last pass that touches it
func (p *Plan) FinalState(target alias.Alias) (gpu.ResourceState, bool) {
	state, ok := p.final[target]
	return state, ok
}

// TransitionCount is the total number of transitions in the plan
func (p *Plan) TransitionCount() int {
	var count int
	for _, pass := range p.passes {
		count += len(pass.Transitions)
	}
	return count
}

func (p *Plan) Validate() error {
	if p.TransitionCount() != p.requirements {
		return errors.Newf("plan holds %d transitions for %d requirements", p.TransitionCount(), p.requirements)
	}

	previous := make(map[alias.Alias]gpu.ResourceState)
	for _, pass := range p.passes {
		for _, transition := range pass.Transitions {
			state, seen := previous[transition.Alias]
			if seen == transition.First {
				return errors.Newf("pass %s: first use of %s is misreported", pass.Name, transition.Alias)
			}
			if seen && state != transition.Old {
				return errors.Newf("pass %s: %s transitions from %s but was left in %s", pass.Name, transition.Alias, transition.Old, state)
			}
			previous[transition.Alias] = transition.New
		}
	}

	return nil
}

// PrintDetailedMap writes a json array with one object per pass and its transitions
func (p *Plan) PrintDetailedMap(writer *jwriter.Writer) {
	arrayState := writer.Array()
	defer arrayState.End()

	for _, pass := range p.passes {
		passObj := arrayState.Object()
		passObj.Name("PassID").Int(pass.PassID)
		passObj.Name("Name").String(pass.Name)

		transitions := passObj.Name("Transitions").Array()
		for _, transition := range pass.Transitions {
			obj := transitions.Object()
			obj.Name("Alias").String(transition.Alias.String())
			obj.Name("Old").String(transition.Old.String())
			obj.Name("New").String(transition.New.String())
			obj.Name("Indexing").String(transition.Indexing.String())
			obj.Name("First").Bool(transition.First)
			obj.End()
		}
		transitions.End()

		passObj.End()
	}
}
