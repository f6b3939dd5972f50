package config

import (
	"fmt"

	"github.com/needl-go/netseek/internal/graph"
)

// SeedingRoutine selects one of the three seed-generation strategies
// (spec §4.G) via the --ms-seeding-routine flag.
type SeedingRoutine string

const (
	RandomConnectedSeeding  SeedingRoutine = "RANDOM_CONNECTED"
	CommunityWiseSeeding    SeedingRoutine = "COMMUNITY_WISE"
	QuantumComputingSeeding SeedingRoutine = "QUANTUM_COMPUTING"
)

// ParseSeedingRoutine validates a --ms-seeding-routine value.
func ParseSeedingRoutine(s string) (SeedingRoutine, error) {
	switch r := SeedingRoutine(s); r {
	case RandomConnectedSeeding, CommunityWiseSeeding, QuantumComputingSeeding:
		return r, nil
	default:
		return "", fmt.Errorf("config: unknown seeding routine %q", s)
	}
}

// QCMode selects the backend the quantum-assisted seeding routine's QUBO
// solver runs on (spec §4.G.3) via the --ms-qc-mode flag.
type QCMode string

const (
	SimulatedAnnealingQC QCMode = "SIMULATED_ANNEALING"
	QuantumAnnealingQC   QCMode = "QUANTUM_ANNEALING"
	QAOAQC               QCMode = "QAOA"
)

// ParseQCMode validates a --ms-qc-mode value.
func ParseQCMode(s string) (QCMode, error) {
	switch m := QCMode(s); m {
	case SimulatedAnnealingQC, QuantumAnnealingQC, QAOAQC:
		return m, nil
	default:
		return "", fmt.Errorf("config: unknown qc mode %q", s)
	}
}

// shuffleMethodNames maps spec §6's --network-shuffle-method literals to
// graph.ShuffleMethod values.
var shuffleMethodNames = map[string]graph.ShuffleMethod{
	"TOPOLOGY_PRESERVING_WITH_SNP_DEGREE":      graph.TopologyPreservingWithDegree,
	"TOPOLOGY_PRESERVING_WITHOUT_SNP_DEGREE":   graph.TopologyPreservingWithoutDegree,
	"EXPECTED_DEGREE_KEEP_DEGREE_DISTRIBUTION": graph.ExpectedDegreeKeepDistribution,
	"EXPECTED_DEGREE_KEEP_INDIVIDUAL_DEGREE":   graph.ExpectedDegreeKeepIndividualDegree,
}

// ParseShuffleMethod validates a --network-shuffle-method value.
func ParseShuffleMethod(s string) (graph.ShuffleMethod, error) {
	m, ok := shuffleMethodNames[s]
	if !ok {
		return 0, fmt.Errorf("config: unknown shuffle method %q", s)
	}
	return m, nil
}
