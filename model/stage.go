package model

// Canonical deal stages, in pipeline order. Native stage codes from the
// pipeline system are normalized into this vocabulary; codes without a
// mapping pass through unchanged.
const (
	StageNew         = "New"
	StageDiscovery   = "Discovery"
	StageProposal    = "Proposal"
	StageNegotiation = "Negotiation"
	StageClosedWon   = "Closed Won"
	StageClosedLost  = "Closed Lost"
)

var canonicalStageOrder = [...]string{
	StageNew,
	StageDiscovery,
	StageProposal,
	StageNegotiation,
	StageClosedWon,
	StageClosedLost,
}

// GetCanonicalStages returns the canonical stage vocabulary in pipeline order.
func GetCanonicalStages() []string {
	stages := make([]string, 0, len(canonicalStageOrder))
	for i := range canonicalStageOrder {
		stages = append(stages, canonicalStageOrder[i])
	}
	return stages
}

// IsCanonicalStage returns true if the given stage is part of the
// canonical vocabulary and not an unmapped passthrough code.
func IsCanonicalStage(stage string) bool {
	for i := range canonicalStageOrder {
		if canonicalStageOrder[i] == stage {
			return true
		}
	}
	return false
}
