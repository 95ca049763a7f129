package okr

// Graph is the objective -> key result -> milestone containment tree.
// Objectives exclusively own their key results, key results their milestones.
type Graph struct {
	Objectives []*Objective
}

func NewGraph(objectives ...*Objective) *Graph {
	return &Graph{Objectives: objectives}
}

func (g *Graph) FindObjective(id string) *Objective {
	if g == nil {
		return nil
	}
	for _, o := range g.Objectives {
		if o.ID == id {
			return o
		}
	}
	return nil
}

// FindKeyResult returns the key result with the given id together with the
// objective that owns it.
func (g *Graph) FindKeyResult(id string) (*KeyResult, *Objective) {
	if g == nil {
		return nil, nil
	}
	for _, o := range g.Objectives {
		if kr := o.FindKeyResult(id); kr != nil {
			return kr, o
		}
	}
	return nil, nil
}

// FindMilestone looks a milestone up inside its key result. Milestone ids are
// only unique within one key result.
func (g *Graph) FindMilestone(keyResultID, milestoneID string) (*Milestone, *KeyResult) {
	kr, _ := g.FindKeyResult(keyResultID)
	if kr == nil {
		return nil, nil
	}
	m := kr.FindMilestone(milestoneID)
	if m == nil {
		return nil, kr
	}
	return m, kr
}

// KeyResultsOwnedBy lists every key result assigned to ownerID across all
// objectives.
func (g *Graph) KeyResultsOwnedBy(ownerID string) []*KeyResult {
	if g == nil {
		return nil
	}
	var out []*KeyResult
	for _, o := range g.Objectives {
		for _, kr := range o.KeyResults {
			if kr.OwnerID == ownerID {
				out = append(out, kr)
			}
		}
	}
	return out
}
