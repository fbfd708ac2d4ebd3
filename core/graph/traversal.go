package graph

import (
	"github.com/siherrmann/regraph/model"
)

// PathStep is one hop in a traversal path
type PathStep struct {
	Source   string             `json:"source"`
	Relation model.RelationType `json:"relation"`
	Target   string             `json:"target"`
}

// TraversalEdge is an edge encountered during traversal together with its record
type TraversalEdge struct {
	Source   string             `json:"source"`
	Relation model.RelationType `json:"relation"`
	Target   string             `json:"target"`
	Edge     *model.Edge        `json:"properties"`
}

// TraversalResult contains all relationship chains found within the hop bound
type TraversalResult struct {
	StartNode     string          `json:"start_node"`
	Paths         [][]PathStep    `json:"paths"`
	Nodes         map[string]bool `json:"nodes"`
	Relationships []TraversalEdge `json:"relationships"`
}

type workItem struct {
	node string
	path []PathStep
	hop  int
}

// MultiHop performs a depth-bounded traversal from the start node using an
// explicit work list. Every visited node records a path for each outgoing
// edge passing the optional relation filter; only the continuation beyond the
// edge target is gated on the hop bound. Nodes visited at the bound itself
// still contribute their outgoing edges to not-yet-visited targets, so the
// result includes the closing layer of chains one step past the last
// expanded frontier.
//
// This is not a shortest-path or cycle-safe traversal: a node may be
// revisited through a different path within the hop bound, so all
// relationship chains are surfaced, not just reachability. The start node is
// always part of Nodes when it exists, even without outgoing edges. An
// absent start node yields an empty result rather than an error.
func (s *Store) MultiHop(startID string, maxHops int, relationFilter []model.RelationType) *TraversalResult {
	result := &TraversalResult{
		StartNode: startID,
		Nodes:     map[string]bool{},
	}

	if _, ok := s.nodes[startID]; !ok {
		return result
	}

	allowed := map[model.RelationType]bool{}
	for _, relation := range relationFilter {
		allowed[relation] = true
	}

	queue := []workItem{{node: startID, hop: 0}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		result.Nodes[current.node] = true

		atBound := current.hop >= maxHops

		for _, edge := range s.outgoing[current.node] {
			if len(allowed) > 0 && !allowed[edge.Relation] {
				continue
			}

			// At the bound only edges to unvisited targets close new chains
			if atBound && result.Nodes[edge.TargetID] {
				continue
			}

			step := PathStep{Source: current.node, Relation: edge.Relation, Target: edge.TargetID}
			newPath := make([]PathStep, len(current.path), len(current.path)+1)
			copy(newPath, current.path)
			newPath = append(newPath, step)

			result.Paths = append(result.Paths, newPath)
			result.Relationships = append(result.Relationships, TraversalEdge{
				Source:   current.node,
				Relation: edge.Relation,
				Target:   edge.TargetID,
				Edge:     edge,
			})

			if !atBound {
				queue = append(queue, workItem{node: edge.TargetID, path: newPath, hop: current.hop + 1})
			}
		}
	}

	return result
}
