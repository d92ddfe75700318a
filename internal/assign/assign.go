// Package assign matches unassigned todo tasks to eligible project members.
//
// Matching is a pure computation over caller-supplied collections: the
// matcher performs no I/O and never filters by status itself. Callers pass
// only candidate tasks (status todo, no protected assignee) and receive an
// assignment per task; tasks that cannot be assigned are omitted from the
// result, never mapped to a placeholder.
package assign

import (
	"sort"
	"time"
)

// Candidate is a task eligible for automatic assignment.
type Candidate struct {
	ID     string
	Points int // difficulty points, one of 1/2/3/5/8
	Due    *time.Time
}

// Requirement is one weighted skill requirement of a task.
type Requirement struct {
	SkillID string
	Weight  int // 1..5
}

// Assignment maps a task to the member chosen for it.
type Assignment struct {
	TaskID   string `json:"task_id"`
	MemberID string `json:"member_id"`
}

// Input carries everything the matcher needs, already materialized.
type Input struct {
	Candidates []Candidate

	// Members lists eligible member ids. Members absent from Levels are
	// still eligible with zero fit everywhere.
	Members []string

	// Levels holds effective skill levels per member (skill id → level).
	Levels map[string]map[string]int

	// Requirements holds each task's weighted skill requirements.
	Requirements map[string][]Requirement

	// Load seeds each member's running difficulty-point load with their
	// pre-existing assigned work. The matcher adds to it as it assigns.
	Load map[string]int
}

// Match assigns each candidate task to exactly one member.
//
// Tasks are processed in ascending due-date order (no due date last), then
// descending points, then id, so time-pressured and heavy tasks are matched
// before member loads skew. For each task, members rank by fit score
// (sum of weight × effective level) descending, then running load ascending,
// then member id. Repeated runs over identical input yield identical output.
func Match(in Input) []Assignment {
	assignments := make([]Assignment, 0, len(in.Candidates))
	if len(in.Candidates) == 0 || len(in.Members) == 0 {
		return assignments
	}

	load := make(map[string]int, len(in.Members))
	for m, p := range in.Load {
		load[m] = p
	}

	order := make([]Candidate, len(in.Candidates))
	copy(order, in.Candidates)
	sortCandidates(order)

	for _, c := range order {
		member := pickMember(c, in, load)
		assignments = append(assignments, Assignment{TaskID: c.ID, MemberID: member})
		load[member] += c.Points
	}

	return assignments
}

// pickMember returns the best member for a candidate under the ranking
// (fit desc, load asc, id asc). Zero-fit members remain eligible; they
// simply rank behind anyone with positive fit.
func pickMember(c Candidate, in Input, load map[string]int) string {
	reqs := in.Requirements[c.ID]

	best := in.Members[0]
	bestFit := fitScore(reqs, in.Levels[best])
	for _, m := range in.Members[1:] {
		fit := fitScore(reqs, in.Levels[m])
		if memberLess(fit, load[m], m, bestFit, load[best], best) {
			best, bestFit = m, fit
		}
	}
	return best
}

// fitScore sums weight × effective level over a task's requirements.
// Skills the member lacks contribute 0.
func fitScore(reqs []Requirement, levels map[string]int) int {
	score := 0
	for _, r := range reqs {
		score += r.Weight * levels[r.SkillID]
	}
	return score
}

// memberLess reports whether member a ranks ahead of member b.
func memberLess(fitA, loadA int, idA string, fitB, loadB int, idB string) bool {
	if fitA != fitB {
		return fitA > fitB
	}
	if loadA != loadB {
		return loadA < loadB
	}
	return idA < idB
}

// sortCandidates orders tasks by (due asc, nil last), points desc, id asc.
func sortCandidates(cs []Candidate) {
	sort.SliceStable(cs, func(i, j int) bool {
		return candidateLess(cs[i], cs[j])
	})
}

func candidateLess(a, b Candidate) bool {
	switch {
	case a.Due != nil && b.Due == nil:
		return true
	case a.Due == nil && b.Due != nil:
		return false
	case a.Due != nil && b.Due != nil && !a.Due.Equal(*b.Due):
		return a.Due.Before(*b.Due)
	}
	if a.Points != b.Points {
		return a.Points > b.Points
	}
	return a.ID < b.ID
}
