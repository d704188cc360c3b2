// suitability-mcp: MCP server for district branch-suitability scoring
// SPDX-License-Identifier: MIT
//
// Observability hook for scoring runs.

package scoring

// Observer receives scoring events. Implementations must not mutate arguments.
type Observer interface {
	DistrictScored(DistrictScore)
	RunCompleted(Report)
}

type nopObserver struct{}

func (nopObserver) DistrictScored(DistrictScore) {}
func (nopObserver) RunCompleted(Report)          {}

// NopObserver discards every event.
func NopObserver() Observer { return nopObserver{} }

type multiObserver []Observer

func (m multiObserver) DistrictScored(d DistrictScore) {
	for _, o := range m {
		o.DistrictScored(d)
	}
}

func (m multiObserver) RunCompleted(r Report) {
	for _, o := range m {
		o.RunCompleted(r)
	}
}

// Observers fans events out to every non-nil observer.
func Observers(obs ...Observer) Observer {
	out := make(multiObserver, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return NopObserver()
	}
	return out
}
