package instance

import (
	"encoding/gob"
	"fmt"
	"os"

	"github.com/needl-go/netseek/internal/snpset"
)

// binaryPayload is the on-disk shape for SaveBin/LoadBin. It is kept
// separate from Instance so the gob wire format doesn't change shape if
// Instance grows unexported fields gob can't see (like the RNG).
type binaryPayload[P Phenotype] struct {
	NumCategories int
	Quantitative  bool
	NumSNPs       int
	NumInds       int
	Genotypes     []GenoType
	Phenotypes    []P
	DiseaseSNPIDs []uint32
	RSIDs         []string
	Chromosomes   []string
	MAF           []float64
}

// SaveBin persists the instance in a compact binary format that loads
// faster than re-parsing the original CSV/JSON (spec §4.A, mirroring the
// original loader's save_bin/load_bin pair).
func (in *Instance[P]) SaveBin(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("instance: create bin file: %w", err)
	}
	defer f.Close()

	payload := binaryPayload[P]{
		NumCategories: in.numCategories,
		Quantitative:  in.quantitative,
		NumSNPs:       in.numSNPs,
		NumInds:       in.numInds,
		Genotypes:     in.genotypes,
		Phenotypes:    in.phenotypes,
		RSIDs:         in.rsIDs,
		Chromosomes:   in.chromosomes,
		MAF:           in.maf,
	}
	for _, snp := range in.diseaseSNPs {
		payload.DiseaseSNPIDs = append(payload.DiseaseSNPIDs, uint32(snp))
	}

	if err := gob.NewEncoder(f).Encode(payload); err != nil {
		return fmt.Errorf("instance: encode bin file: %w", err)
	}
	return nil
}

// LoadBin loads an instance previously written by SaveBin.
func LoadBin[P Phenotype](path string) (*Instance[P], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("instance: open bin file: %w", err)
	}
	defer f.Close()

	var payload binaryPayload[P]
	if err := gob.NewDecoder(f).Decode(&payload); err != nil {
		return nil, fmt.Errorf("instance: decode bin file: %w", err)
	}

	in := New[P](payload.NumCategories, payload.Quantitative)
	in.numSNPs = payload.NumSNPs
	in.numInds = payload.NumInds
	in.genotypes = payload.Genotypes
	in.phenotypes = payload.Phenotypes
	in.rsIDs = payload.RSIDs
	in.chromosomes = payload.Chromosomes
	in.maf = payload.MAF
	for _, id := range payload.DiseaseSNPIDs {
		in.diseaseSNPs = append(in.diseaseSNPs, snpset.SNP(id))
	}
	return in, nil
}
